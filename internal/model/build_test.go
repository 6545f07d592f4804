package model

import "testing"

func TestParseBuildState(t *testing.T) {
	tests := []struct {
		raw      string
		expected BuildState
	}{
		{"built", BuildSucceeded},
		{"building", BuildBuilding},
		{"errored", BuildFailed},
		{"not_built", BuildNotStarted},
		{"queued", BuildUnknown},
		{"", BuildUnknown},
	}

	for _, test := range tests {
		result := ParseBuildState(test.raw)
		if result != test.expected {
			t.Errorf("ParseBuildState(%q) = %s, expected %s", test.raw, result, test.expected)
		}
	}
}

func TestBuildState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    BuildState
		expected bool
	}{
		{BuildNotStarted, false},
		{BuildBuilding, false},
		{BuildUnknown, false},
		{BuildSucceeded, true},
		{BuildFailed, true},
		{BuildTimedOut, true},
	}

	for _, test := range tests {
		result := test.state.IsTerminal()
		if result != test.expected {
			t.Errorf("BuildState(%s).IsTerminal() = %v, expected %v", test.state, result, test.expected)
		}
	}
}

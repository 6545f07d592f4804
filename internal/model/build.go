package model

// BuildState represents the observed state of a GitHub Pages build
type BuildState string

const (
	// BuildNotStarted means the remote has not begun building yet
	BuildNotStarted BuildState = "not_started"

	// BuildBuilding means a build is in progress
	BuildBuilding BuildState = "building"

	// BuildSucceeded means the build finished and the site is live
	BuildSucceeded BuildState = "succeeded"

	// BuildFailed means the build errored or Pages is not enabled
	BuildFailed BuildState = "failed"

	// BuildUnknown means the remote reported something unrecognized
	BuildUnknown BuildState = "unknown"

	// BuildTimedOut means the attempt budget ran out before a terminal state
	BuildTimedOut BuildState = "timed_out"
)

// String returns the string representation of BuildState
func (bs BuildState) String() string {
	return string(bs)
}

// IsTerminal returns true if no further transitions can occur from this state
func (bs BuildState) IsTerminal() bool {
	return bs == BuildSucceeded || bs == BuildFailed || bs == BuildTimedOut
}

// ParseBuildState maps the raw status string from the Pages API onto a
// BuildState. The API reports "built", "building", "errored" or "not_built";
// anything else is unknown.
func ParseBuildState(raw string) BuildState {
	switch raw {
	case "built":
		return BuildSucceeded
	case "building":
		return BuildBuilding
	case "errored":
		return BuildFailed
	case "not_built":
		return BuildNotStarted
	default:
		return BuildUnknown
	}
}

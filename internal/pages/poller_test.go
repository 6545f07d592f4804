package pages

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lifetime-memories/repogallery/internal/githubapi"
	"github.com/lifetime-memories/repogallery/internal/model"
)

func collect(t *testing.T, p *Poller) ([]Event, Outcome, bool) {
	t.Helper()
	var events []Event
	for event := range p.Events() {
		events = append(events, event)
	}
	outcome, ok := <-p.Outcome()
	p.Wait()
	return events, outcome, ok
}

func TestPoller_SuccessAfterBuilding(t *testing.T) {
	var polls atomic.Int32
	status := func(ctx context.Context) (githubapi.PagesInfo, error) {
		if polls.Add(1) < 3 {
			return githubapi.PagesInfo{Status: "building"}, nil
		}
		return githubapi.PagesInfo{Status: "built", HTMLURL: "https://lifetime-memories.github.io/summer/"}, nil
	}

	poller := New(status, time.Millisecond, 10)
	poller.Start()

	events, outcome, ok := collect(t, poller)
	if !ok {
		t.Fatal("Expected a terminal outcome")
	}
	if outcome.State != model.BuildSucceeded {
		t.Errorf("Expected succeeded outcome, got %s", outcome.State)
	}
	if outcome.URL != "https://lifetime-memories.github.io/summer/" {
		t.Errorf("Unexpected outcome URL %q", outcome.URL)
	}
	if len(events) != 3 {
		t.Errorf("Expected 3 status events, got %d", len(events))
	}
	for _, event := range events[:2] {
		if event.State != model.BuildBuilding {
			t.Errorf("Expected building event, got %s", event.State)
		}
	}
}

func TestPoller_TimesOutAfterExactlyMaxAttempts(t *testing.T) {
	var polls atomic.Int32
	status := func(ctx context.Context) (githubapi.PagesInfo, error) {
		polls.Add(1)
		return githubapi.PagesInfo{Status: "building"}, nil
	}

	poller := New(status, time.Millisecond, 5)
	poller.Start()

	events, outcome, ok := collect(t, poller)
	if !ok {
		t.Fatal("Expected a terminal outcome")
	}
	if outcome.State != model.BuildTimedOut {
		t.Errorf("Expected timed_out outcome, got %s", outcome.State)
	}
	if polls.Load() != 5 {
		t.Errorf("Expected exactly 5 polls, got %d", polls.Load())
	}
	if len(events) != 5 {
		t.Errorf("Expected 5 status events, got %d", len(events))
	}
}

func TestPoller_NotEnabledIsImmediateFailure(t *testing.T) {
	var polls atomic.Int32
	status := func(ctx context.Context) (githubapi.PagesInfo, error) {
		polls.Add(1)
		return githubapi.PagesInfo{}, githubapi.ErrPagesNotEnabled
	}

	poller := New(status, time.Millisecond, 10)
	poller.Start()

	events, outcome, ok := collect(t, poller)
	if !ok {
		t.Fatal("Expected a terminal outcome")
	}
	if outcome.State != model.BuildFailed {
		t.Errorf("Expected failed outcome, got %s", outcome.State)
	}
	if !errors.Is(outcome.Err, githubapi.ErrPagesNotEnabled) {
		t.Errorf("Expected ErrPagesNotEnabled, got %v", outcome.Err)
	}
	if polls.Load() != 1 {
		t.Errorf("Expected a single poll, got %d", polls.Load())
	}
	if len(events) != 0 {
		t.Errorf("Expected zero status events, got %d", len(events))
	}
}

func TestPoller_NetworkErrorIsTerminal(t *testing.T) {
	status := func(ctx context.Context) (githubapi.PagesInfo, error) {
		return githubapi.PagesInfo{}, errors.New("connection refused")
	}

	poller := New(status, time.Millisecond, 10)
	poller.Start()

	_, outcome, ok := collect(t, poller)
	if !ok {
		t.Fatal("Expected a terminal outcome")
	}
	if outcome.State != model.BuildFailed {
		t.Errorf("Expected failed outcome, got %s", outcome.State)
	}
}

func TestPoller_CancelEmitsNoOutcome(t *testing.T) {
	status := func(ctx context.Context) (githubapi.PagesInfo, error) {
		return githubapi.PagesInfo{Status: "building"}, nil
	}

	poller := New(status, 50*time.Millisecond, 100)
	poller.Start()
	poller.Cancel()
	poller.Cancel() // idempotent

	_, _, ok := collect(t, poller)
	if ok {
		t.Error("Expected no outcome for a cancelled poller")
	}
}

func TestPoller_EventsInAttemptOrder(t *testing.T) {
	statuses := []string{"not_built", "queued", "building", "errored"}
	var polls atomic.Int32
	status := func(ctx context.Context) (githubapi.PagesInfo, error) {
		i := int(polls.Add(1)) - 1
		return githubapi.PagesInfo{Status: statuses[i]}, nil
	}

	poller := New(status, time.Millisecond, 10)
	poller.Start()

	events, outcome, ok := collect(t, poller)
	if !ok {
		t.Fatal("Expected a terminal outcome")
	}

	expected := []model.BuildState{model.BuildNotStarted, model.BuildUnknown, model.BuildBuilding, model.BuildFailed}
	if len(events) != len(expected) {
		t.Fatalf("Expected %d events, got %d", len(expected), len(events))
	}
	for i, event := range events {
		if event.State != expected[i] {
			t.Errorf("Event %d = %s, expected %s", i, event.State, expected[i])
		}
	}
	if outcome.State != model.BuildFailed {
		t.Errorf("Expected failed outcome, got %s", outcome.State)
	}
}

func TestManager_ReplacesActivePoller(t *testing.T) {
	building := func(ctx context.Context) (githubapi.PagesInfo, error) {
		return githubapi.PagesInfo{Status: "building"}, nil
	}

	manager := NewManager()
	first := New(building, 20*time.Millisecond, 1000)
	manager.Track("summer", first)

	second := New(building, time.Millisecond, 2)
	manager.Track("summer", second)

	// Track must have cancelled and joined the first poller.
	if _, ok := <-first.Outcome(); ok {
		t.Error("Expected the replaced poller to finish without an outcome")
	}

	if active, ok := manager.Active("summer"); !ok || active != second {
		t.Error("Expected the second poller to be the active one")
	}

	_, outcome, ok := collect(t, second)
	if !ok || outcome.State != model.BuildTimedOut {
		t.Errorf("Expected the second poller to run to timeout, got %+v ok=%v", outcome, ok)
	}
	manager.CancelAll()
}

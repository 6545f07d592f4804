// Package rate tracks the remaining GitHub API quota observed on responses
// and classifies how urgent the situation is. The tracker is observational
// only: nothing in the app throttles on it, callers decide what to do with
// the signal.
package rate

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Default urgency thresholds for the remaining-quota count
const (
	DefaultWarningThreshold  = 100
	DefaultCriticalThreshold = 10
)

// Level classifies the remaining quota
type Level int

const (
	LevelUnknown Level = iota
	LevelOK
	LevelWarning
	LevelCritical
)

// String returns a display label for the level
func (l Level) String() string {
	switch l {
	case LevelOK:
		return "ok"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Snapshot is the most recently observed quota state. It is a single
// process-wide value with last-write-wins semantics.
type Snapshot struct {
	Remaining int
	Reset     time.Time
	Observed  bool
}

// Tracker holds the current snapshot. Safe for concurrent use from multiple
// fetch workers.
type Tracker struct {
	mu       sync.Mutex
	snapshot Snapshot
	warning  int
	critical int
}

// NewTracker creates a tracker with the given thresholds. Non positive
// thresholds fall back to the defaults.
func NewTracker(warning, critical int) *Tracker {
	if warning <= 0 {
		warning = DefaultWarningThreshold
	}
	if critical <= 0 {
		critical = DefaultCriticalThreshold
	}
	return &Tracker{warning: warning, critical: critical}
}

// Update records a new remaining count and reset time, replacing whatever was
// observed before.
func (t *Tracker) Update(remaining int, reset time.Time) {
	t.mu.Lock()
	t.snapshot = Snapshot{Remaining: remaining, Reset: reset, Observed: true}
	t.mu.Unlock()
}

// UpdateFromHeader reads the X-RateLimit-Remaining and X-RateLimit-Reset
// headers from a response. Responses without the headers leave the snapshot
// untouched.
func (t *Tracker) UpdateFromHeader(h http.Header) {
	remainingRaw := h.Get("X-RateLimit-Remaining")
	if remainingRaw == "" {
		return
	}
	remaining, err := strconv.Atoi(remainingRaw)
	if err != nil {
		return
	}

	var reset time.Time
	if resetRaw := h.Get("X-RateLimit-Reset"); resetRaw != "" {
		if unix, err := strconv.ParseInt(resetRaw, 10, 64); err == nil {
			reset = time.Unix(unix, 0)
		}
	}
	t.Update(remaining, reset)
}

// Snapshot returns the last observed quota state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot
}

// Level classifies the last observed remaining count against the configured
// thresholds.
func (t *Tracker) Level() Level {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.snapshot.Observed {
		return LevelUnknown
	}
	switch {
	case t.snapshot.Remaining < t.critical:
		return LevelCritical
	case t.snapshot.Remaining < t.warning:
		return LevelWarning
	default:
		return LevelOK
	}
}

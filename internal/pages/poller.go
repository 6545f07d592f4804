// Package pages tracks an asynchronous GitHub Pages build to completion: a
// bounded-attempt polling loop that emits observed status transitions and a
// single terminal outcome. Only one poll is ever in flight per poller, and
// the Manager serializes pollers per repository.
package pages

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifetime-memories/repogallery/internal/githubapi"
	"github.com/lifetime-memories/repogallery/internal/model"
)

// Polling defaults: 60 attempts at 5s covers five minutes of building.
const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 60
)

// StatusFunc queries the remote build status once.
type StatusFunc func(ctx context.Context) (githubapi.PagesInfo, error)

// Event is one observed status transition.
type Event struct {
	State   model.BuildState
	Message string
}

// Outcome is the single terminal result of a poll sequence. URL is set on
// success; Err carries the failure reason otherwise.
type Outcome struct {
	State model.BuildState
	URL   string
	Err   error
}

// Poller polls a build status until a terminal state or the attempt budget
// runs out. A poller is single-use.
type Poller struct {
	status      StatusFunc
	interval    time.Duration
	maxAttempts int

	events  chan Event
	outcome chan Outcome
	done    chan struct{}

	cancel    context.CancelFunc
	cancelled atomic.Bool
	started   atomic.Bool
}

// New creates a poller. Non positive settings fall back to the defaults.
func New(status StatusFunc, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Poller{
		status:      status,
		interval:    interval,
		maxAttempts: maxAttempts,
		events:      make(chan Event, maxAttempts),
		outcome:     make(chan Outcome, 1),
		done:        make(chan struct{}),
	}
}

// Start launches the polling loop. The first poll happens after one full
// interval, giving the remote time to register the build request.
func (p *Poller) Start() {
	if !p.started.CompareAndSwap(false, true) {
		panic("pages: poller started twice")
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(ctx)
}

// Events streams observed status transitions in strict attempt order. The
// channel closes once the poller finalizes.
func (p *Poller) Events() <-chan Event {
	return p.events
}

// Outcome yields the terminal result. The channel closes without a value
// when the poller was cancelled: the caller already knows it cancelled, so
// no spurious success or failure is reported.
func (p *Poller) Outcome() <-chan Outcome {
	return p.outcome
}

// Cancel stops the poller between polls. Idempotent; cancelling twice is a
// no-op.
func (p *Poller) Cancel() {
	if !p.cancelled.CompareAndSwap(false, true) {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// Wait blocks until the polling loop has fully finalized.
func (p *Poller) Wait() {
	if !p.started.Load() {
		return
	}
	<-p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)
	defer close(p.outcome)
	defer close(p.events)
	defer p.cancel()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.interval):
		}

		info, err := p.status(ctx)
		if p.cancelled.Load() {
			return
		}
		if errors.Is(err, githubapi.ErrPagesNotEnabled) {
			p.outcome <- Outcome{State: model.BuildFailed, Err: err}
			return
		}
		if err != nil {
			// A single failed poll fails the whole sequence, no retry.
			p.outcome <- Outcome{State: model.BuildFailed, Err: err}
			return
		}

		state := model.ParseBuildState(info.Status)
		p.events <- Event{State: state, Message: fmt.Sprintf("attempt %d: %s", attempt, info.Status)}
		log.Debug().Int("attempt", attempt).Str("state", state.String()).Msg("pages build poll")

		switch state {
		case model.BuildSucceeded:
			p.outcome <- Outcome{State: state, URL: info.HTMLURL}
			return
		case model.BuildFailed:
			p.outcome <- Outcome{State: state, Err: errors.New("pages build errored")}
			return
		}
	}

	p.outcome <- Outcome{State: model.BuildTimedOut, Err: errors.New("pages build timed out")}
}

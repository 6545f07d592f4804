// Package gallery coordinates one gallery view: it owns the items listed for
// the selected repository, runs at most one fetch pipeline at a time, and
// recomputes layout geometry on demand. Starting a new load fully cancels and
// joins the previous pipeline first, so results from a superseded repository
// selection never land on a new selection's cards.
package gallery

import (
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifetime-memories/repogallery/internal/fetch"
	"github.com/lifetime-memories/repogallery/internal/githubapi"
	"github.com/lifetime-memories/repogallery/internal/layout"
	"github.com/lifetime-memories/repogallery/internal/model"
)

// Engine computes gallery geometry from aspect ratios and a container width.
// Both layout.Justified and layout.Masonry satisfy it.
type Engine interface {
	Compute(aspects []float64, width int) layout.Result
}

// ItemCallback receives one completion event: the item's submission index,
// the decoded square thumbnail or nil on failure, and the display name.
type ItemCallback func(index int, img image.Image, name string)

// View is one gallery view. Methods are safe for concurrent use; layout
// computation never blocks on I/O and may run on the UI thread.
type View struct {
	fetcher    fetch.Fetcher
	maxWorkers int
	timeout    time.Duration

	// loadMu serializes the cancel-join-install sequence of Load and Clear,
	// so two concurrent loads can never leave two pipelines running.
	loadMu sync.Mutex

	mu       sync.Mutex
	engine   Engine
	items    []*model.Item
	pipeline *fetch.Pipeline
	finished chan struct{}

	onItem ItemCallback
	onDone func()
}

// NewView creates a view fetching through the given fetcher with the given
// worker bound and per-fetch timeout.
func NewView(fetcher fetch.Fetcher, maxWorkers int, timeout time.Duration, engine Engine) *View {
	if engine == nil {
		engine = layout.NewJustified(layout.DefaultRowHeight, layout.DefaultSpacing)
	}
	return &View{
		fetcher:    fetcher,
		maxWorkers: maxWorkers,
		timeout:    timeout,
		engine:     engine,
	}
}

// SetCallbacks registers the completion callbacks. Call before Load.
func (v *View) SetCallbacks(onItem ItemCallback, onDone func()) {
	v.mu.Lock()
	v.onItem = onItem
	v.onDone = onDone
	v.mu.Unlock()
}

// SetEngine swaps the layout engine used by Relayout.
func (v *View) SetEngine(engine Engine) {
	if engine == nil {
		return
	}
	v.mu.Lock()
	v.engine = engine
	v.mu.Unlock()
}

// Load replaces the view's items with the file entries of a fresh directory
// listing and starts fetching their thumbnails. Any previous pipeline is
// cancelled and joined first.
func (v *View) Load(entries []githubapi.ContentEntry) {
	v.loadMu.Lock()
	defer v.loadMu.Unlock()
	v.cancelAndJoin()

	var (
		items []*model.Item
		tasks []fetch.Task
	)
	for _, entry := range entries {
		if !entry.IsFile() {
			continue
		}
		idx := len(items)
		items = append(items, &model.Item{
			Name:        entry.Name,
			Path:        entry.Path,
			Size:        entry.Size,
			DownloadURL: entry.DownloadURL,
		})
		tasks = append(tasks, fetch.Task{Index: idx, Name: entry.Name, URL: entry.DownloadURL})
	}

	pipeline := fetch.New(v.fetcher, v.maxWorkers, v.timeout)
	finished := make(chan struct{})

	v.mu.Lock()
	v.items = items
	v.pipeline = pipeline
	v.finished = finished
	v.mu.Unlock()

	log.Info().Int("items", len(items)).Msg("gallery load started")
	pipeline.Start(tasks)
	go v.consume(pipeline, items, finished)
}

// Clear tears the view down: the active pipeline is cancelled and joined and
// the item list emptied.
func (v *View) Clear() {
	v.loadMu.Lock()
	defer v.loadMu.Unlock()
	v.cancelAndJoin()
	v.mu.Lock()
	v.items = nil
	v.pipeline = nil
	v.finished = nil
	v.mu.Unlock()
}

// Relayout recomputes geometry for the current items at the given container
// width. Undecoded items lay out as squares.
func (v *View) Relayout(width int) layout.Result {
	v.mu.Lock()
	aspects := make([]float64, len(v.items))
	for i, item := range v.items {
		aspects[i] = item.AspectOrSquare()
	}
	engine := v.engine
	v.mu.Unlock()

	return engine.Compute(aspects, width)
}

// Items returns a snapshot of the current item list.
func (v *View) Items() []*model.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]*model.Item, len(v.items))
	copy(out, v.items)
	return out
}

// Item returns the item at the given submission index, or nil.
func (v *View) Item(index int) *model.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	if index < 0 || index >= len(v.items) {
		return nil
	}
	return v.items[index]
}

func (v *View) cancelAndJoin() {
	v.mu.Lock()
	pipeline, finished := v.pipeline, v.finished
	v.mu.Unlock()

	if pipeline == nil {
		return
	}
	pipeline.Cancel()
	<-finished
}

// consume drains one pipeline's completions into the items it was started
// with. Results arriving after cancellation are discarded, and a cancelled
// pipeline reports no done event; the caller already knows it cancelled.
func (v *View) consume(pipeline *fetch.Pipeline, items []*model.Item, finished chan struct{}) {
	defer close(finished)

	for result := range pipeline.Results() {
		if pipeline.Cancelled() {
			continue
		}

		// Item fields are read by Relayout under the same lock.
		v.mu.Lock()
		if result.Image != nil {
			items[result.Index].SetDecoded(result.Image)
		}
		onItem := v.onItem
		v.mu.Unlock()
		if onItem != nil {
			onItem(result.Index, result.Image, result.Name)
		}
	}

	if pipeline.Cancelled() {
		return
	}
	v.mu.Lock()
	onDone := v.onDone
	v.mu.Unlock()
	if onDone != nil {
		onDone()
	}
	log.Info().Int("items", len(items)).Msg("gallery load finished")
}

package fetch

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lifetime-memories/repogallery/internal/imaging"
)

// Pipeline limits
const (
	DefaultMaxWorkers   = 8
	DefaultFetchTimeout = 10 * time.Second
)

// ErrCancelled is the failure sentinel emitted for tasks short-circuited by
// pipeline cancellation.
var ErrCancelled = errors.New("fetch cancelled")

// Fetcher retrieves raw bytes for a download URL. *githubapi.Client
// satisfies it.
type Fetcher interface {
	DownloadFile(ctx context.Context, url string) ([]byte, error)
}

// Task is one queued download. Index is the item's position in the
// submission order; completions arrive out of order and the consumer indexes
// results by it.
type Task struct {
	Index int
	Name  string
	URL   string
}

// Result is one completion event. Image is nil when the item failed; Err
// carries the reason. Exactly one Result is emitted per submitted Task.
type Result struct {
	Index int
	Name  string
	Image image.Image
	Err   error
}

// Pipeline downloads and decodes a batch of remote thumbnails with at most
// min(maxWorkers, len(tasks)) concurrent workers. Use New then Start; a
// pipeline cannot be restarted.
type Pipeline struct {
	fetcher    Fetcher
	maxWorkers int
	timeout    time.Duration

	results   chan Result
	done      chan struct{}
	cancel    context.CancelFunc
	cancelled atomic.Bool
	started   atomic.Bool
}

// New creates a pipeline. Non positive limits fall back to the defaults.
func New(fetcher Fetcher, maxWorkers int, timeout time.Duration) *Pipeline {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Pipeline{
		fetcher:    fetcher,
		maxWorkers: maxWorkers,
		timeout:    timeout,
		done:       make(chan struct{}),
	}
}

// Start launches the workers and returns the completion channel. The channel
// is buffered for the whole batch and closed once every task is accounted
// for, finished or cancelled-out, so the close is the single done event.
func (p *Pipeline) Start(tasks []Task) <-chan Result {
	if !p.started.CompareAndSwap(false, true) {
		panic("fetch: pipeline started twice")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.results = make(chan Result, len(tasks))

	if len(tasks) == 0 {
		close(p.results)
		close(p.done)
		cancel()
		return p.results
	}

	queue := make(chan Task)
	workers := p.maxWorkers
	if len(tasks) < workers {
		workers = len(tasks)
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for task := range queue {
				p.results <- p.run(ctx, task)
			}
		}()
	}

	go func() {
		for _, task := range tasks {
			queue <- task
		}
		close(queue)
	}()

	go func() {
		wg.Wait()
		close(p.results)
		close(p.done)
		cancel()
	}()

	return p.results
}

// Results returns the completion channel of a started pipeline.
func (p *Pipeline) Results() <-chan Result {
	return p.results
}

// Cancel short-circuits queued and in-flight tasks. It is idempotent and
// best-effort: a fetch already past its network call finishes and its result
// is discarded by the consumer, not aborted mid-flight.
func (p *Pipeline) Cancel() {
	if !p.cancelled.CompareAndSwap(false, true) {
		return
	}
	if p.cancel != nil {
		p.cancel()
	}
}

// Cancelled reports whether Cancel has been called. The flag is monotonic.
func (p *Pipeline) Cancelled() bool {
	return p.cancelled.Load()
}

// Wait blocks until every task has been accounted for.
func (p *Pipeline) Wait() {
	if !p.started.Load() {
		return
	}
	<-p.done
}

// run performs one task: fetch within the configured timeout, decode, crop
// to the largest centered square. Any failure becomes a per-item sentinel;
// one item's failure never aborts the batch.
func (p *Pipeline) run(ctx context.Context, task Task) Result {
	if p.cancelled.Load() {
		return Result{Index: task.Index, Name: task.Name, Err: ErrCancelled}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	data, err := p.fetcher.DownloadFile(fetchCtx, task.URL)
	if err != nil {
		if p.cancelled.Load() {
			return Result{Index: task.Index, Name: task.Name, Err: ErrCancelled}
		}
		log.Debug().Str("name", task.Name).Err(err).Msg("thumbnail fetch failed")
		return Result{Index: task.Index, Name: task.Name, Err: err}
	}
	if p.cancelled.Load() {
		return Result{Index: task.Index, Name: task.Name, Err: ErrCancelled}
	}

	img, err := imaging.Decode(data)
	if err != nil {
		log.Debug().Str("name", task.Name).Err(err).Msg("thumbnail decode failed")
		return Result{Index: task.Index, Name: task.Name, Err: err}
	}

	return Result{Index: task.Index, Name: task.Name, Image: imaging.CropSquare(img)}
}

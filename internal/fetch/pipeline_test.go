package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fetcherFunc func(ctx context.Context, url string) ([]byte, error)

func (f fetcherFunc) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

func pngFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return buf.Bytes()
}

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Index: i, Name: fmt.Sprintf("photo-%d.jpg", i), URL: fmt.Sprintf("https://example.test/%d", i)}
	}
	return tasks
}

func TestPipeline_ResultCompleteness(t *testing.T) {
	data := pngFixture(t)
	fetcher := fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		// Odd-indexed URLs are unreachable.
		if url[len(url)-1]%2 == 1 {
			return nil, errors.New("unreachable")
		}
		return data, nil
	})

	pipeline := New(fetcher, 4, time.Second)
	results := pipeline.Start(makeTasks(6))

	seen := make(map[int]Result)
	for result := range results {
		if _, dup := seen[result.Index]; dup {
			t.Errorf("Duplicate completion for index %d", result.Index)
		}
		seen[result.Index] = result
	}

	if len(seen) != 6 {
		t.Fatalf("Expected 6 completion events, got %d", len(seen))
	}
	for i := 0; i < 6; i++ {
		result, ok := seen[i]
		if !ok {
			t.Errorf("Missing completion for index %d", i)
			continue
		}
		if i%2 == 0 {
			if result.Err != nil || result.Image == nil {
				t.Errorf("Expected success for index %d, got err=%v", i, result.Err)
			}
		} else {
			if result.Err == nil || result.Image != nil {
				t.Errorf("Expected failure sentinel for index %d", i)
			}
		}
	}
	pipeline.Wait()
}

func TestPipeline_CropsToSquare(t *testing.T) {
	data := pngFixture(t)
	pipeline := New(fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return data, nil
	}), 1, time.Second)

	results := pipeline.Start(makeTasks(1))
	result := <-results
	if result.Err != nil {
		t.Fatalf("Expected success, got %v", result.Err)
	}
	b := result.Image.Bounds()
	// The 40x20 fixture crops to its largest centered square.
	if b.Dx() != 20 || b.Dy() != 20 {
		t.Errorf("Expected 20x20 crop, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestPipeline_DecodeFailureIsPerItem(t *testing.T) {
	data := pngFixture(t)
	pipeline := New(fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		if url[len(url)-1] == '0' {
			return []byte("garbage"), nil
		}
		return data, nil
	}), 2, time.Second)

	results := pipeline.Start(makeTasks(2))
	var failures, successes int
	for result := range results {
		if result.Err != nil {
			failures++
		} else {
			successes++
		}
	}
	if failures != 1 || successes != 1 {
		t.Errorf("Expected 1 failure and 1 success, got %d and %d", failures, successes)
	}
}

func TestPipeline_Cancellation(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32
	fetcher := fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		started.Add(1)
		select {
		case <-release:
			return nil, errors.New("released")
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	pipeline := New(fetcher, 2, time.Second)
	results := pipeline.Start(makeTasks(8))

	// Wait for the two workers to be mid-flight, then cancel.
	for started.Load() < 2 {
		time.Sleep(time.Millisecond)
	}
	pipeline.Cancel()
	pipeline.Cancel() // idempotent
	close(release)

	count := 0
	cancelled := 0
	for result := range results {
		count++
		if result.Image != nil {
			t.Errorf("Unexpected successful completion for index %d after cancel", result.Index)
		}
		if errors.Is(result.Err, ErrCancelled) {
			cancelled++
		}
	}

	if count != 8 {
		t.Errorf("Expected all 8 tasks accounted for, got %d", count)
	}
	// The six tasks that never started must short-circuit.
	if cancelled < 6 {
		t.Errorf("Expected at least 6 cancelled sentinels, got %d", cancelled)
	}
	if !pipeline.Cancelled() {
		t.Error("Expected pipeline to report cancelled")
	}
	pipeline.Wait()
}

func TestPipeline_EmptyBatch(t *testing.T) {
	pipeline := New(fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		t.Error("Fetcher must not be called for an empty batch")
		return nil, nil
	}), 4, time.Second)

	results := pipeline.Start(nil)
	if _, open := <-results; open {
		t.Error("Expected results channel to be closed immediately")
	}
	pipeline.Wait()
}

func TestPipeline_BoundedWorkers(t *testing.T) {
	var mu sync.Mutex
	current, peak := 0, 0
	data := pngFixture(t)
	fetcher := fetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		mu.Lock()
		current++
		if current > peak {
			peak = current
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		current--
		mu.Unlock()
		return data, nil
	})

	pipeline := New(fetcher, 3, time.Second)
	for range pipeline.Start(makeTasks(9)) {
	}

	if peak > 3 {
		t.Errorf("Expected at most 3 concurrent fetches, observed %d", peak)
	}
}

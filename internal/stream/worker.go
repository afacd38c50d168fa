// Package stream keeps the loaded window of the infinite world in sync with
// the player: a background worker generates chunks off the main thread, and
// the Manager decides each turn what to load, unload, and spawn.
package stream

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samdwyer/liminal/internal/world"
)

// Generator builds one chunk. Implementations must be pure in their inputs so
// the worker can run them on any goroutine.
type Generator interface {
	GenerateChunk(ctx context.Context, key world.ChunkKey, seed int64, corruptionValue float64) *world.Chunk
}

// Request asks the worker to generate one chunk. Corruption is a snapshot
// taken at enqueue time so generation stays a pure function of the request.
type Request struct {
	Key        world.ChunkKey
	Seed       int64
	Corruption float64
	Attempt    int
}

// Result is a finished request. Chunk is nil when Err is set; a chunk that
// fails validation is dropped, never delivered.
type Result struct {
	Request Request
	Chunk   *world.Chunk
	Err     error
}

// ErrNoWalkableTiles marks a generated chunk that failed validation.
var ErrNoWalkableTiles = errors.New("generated chunk has no walkable tiles")

// Worker runs chunk generation on a single background goroutine. It never
// touches engine state: it only reads requests and appends results, and the
// main thread integrates completed chunks at a turn boundary.
type Worker struct {
	gen Generator

	mu       sync.Mutex // guards requests and exit
	cond     *sync.Cond
	requests []Request
	exit     bool

	resultMu sync.Mutex
	results  []Result

	notify chan struct{} // capacity 1, poked on each delivered result
	done   chan struct{}
}

// NewWorker creates a worker and starts its goroutine.
func NewWorker(gen Generator) *Worker {
	w := &Worker{
		gen:    gen,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	w.cond = sync.NewCond(&w.mu)
	go w.run()
	return w
}

// Enqueue hands a request to the worker. Safe to call from the main thread at
// any time.
func (w *Worker) Enqueue(req Request) {
	w.mu.Lock()
	w.requests = append(w.requests, req)
	w.mu.Unlock()
	w.cond.Signal()
}

// QueueLen returns the number of requests not yet started.
func (w *Worker) QueueLen() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.requests)
}

// Drain returns all completed results, clearing the worker's buffer.
func (w *Worker) Drain() []Result {
	w.resultMu.Lock()
	defer w.resultMu.Unlock()
	out := w.results
	w.results = nil
	return out
}

// ResultReady returns a channel that receives after a result is delivered.
// The signal coalesces; always Drain after receiving.
func (w *Worker) ResultReady() <-chan struct{} {
	return w.notify
}

// Stop shuts the worker down and waits for its goroutine to exit. Requests
// still queued are abandoned.
func (w *Worker) Stop() {
	w.mu.Lock()
	w.exit = true
	w.mu.Unlock()
	w.cond.Signal()
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	ctx := context.Background()
	for {
		w.mu.Lock()
		for len(w.requests) == 0 && !w.exit {
			w.cond.Wait()
		}
		if w.exit {
			w.mu.Unlock()
			return
		}
		req := w.requests[0]
		w.requests = w.requests[1:]
		w.mu.Unlock()

		res := w.generate(ctx, req)

		w.resultMu.Lock()
		w.results = append(w.results, res)
		w.resultMu.Unlock()
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
}

// generate runs one request. A panicking generator is contained here and
// reported as a failed result; one bad chunk must not take the worker down.
func (w *Worker) generate(ctx context.Context, req Request) (res Result) {
	res.Request = req
	defer func() {
		if r := recover(); r != nil {
			res.Chunk = nil
			res.Err = fmt.Errorf("chunk %v generation panicked: %v", req.Key, r)
		}
	}()

	ch := w.gen.GenerateChunk(ctx, req.Key, req.Seed, req.Corruption)
	if ch == nil || ch.WalkableCount() == 0 {
		res.Err = fmt.Errorf("chunk %v: %w", req.Key, ErrNoWalkableTiles)
		return res
	}
	res.Chunk = ch
	return res
}

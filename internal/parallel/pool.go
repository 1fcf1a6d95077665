// Package parallel provides the worker pool that fans compositing work out
// over row bands, and the tile bitmap that tracks which canvas regions need
// recompositing.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs closures on a fixed set of goroutines.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queue   chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), workers*4),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *WorkerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			work()
		}
	}
}

// drain runs work that was queued before the pool closed.
func (p *WorkerPool) drain() {
	for {
		select {
		case work := <-p.queue:
			work()
		default:
			return
		}
	}
}

// ExecuteAll runs every item and waits for all of them. On a closed pool the
// items run on the calling goroutine, so callers always observe completed work.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() || len(work) == 1 {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for _, fn := range work {
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queue <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// Rows splits [y0, y1) into at most Workers() contiguous bands of at least
// minRows rows and runs fn on each band in parallel.
func (p *WorkerPool) Rows(y0, y1, minRows int, fn func(y0, y1 int)) {
	n := y1 - y0
	if n <= 0 {
		return
	}
	minRows = max(minRows, 1)
	bands := min(p.workers, (n+minRows-1)/minRows)
	if bands <= 1 {
		fn(y0, y1)
		return
	}

	work := make([]func(), 0, bands)
	step := (n + bands - 1) / bands
	for start := y0; start < y1; start += step {
		end := min(start+step, y1)
		work = append(work, func() { fn(start, end) })
	}
	p.ExecuteAll(work)
}

// Close stops the workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

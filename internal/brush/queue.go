package brush

import "sync"

// Queue buffers pointer samples produced on the input goroutine until the
// render goroutine drains them once per frame.
//
// Thread safety: All methods are safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	samples []Sample
	spare   []Sample
}

// Push appends a sample.
func (q *Queue) Push(s Sample) {
	q.mu.Lock()
	q.samples = append(q.samples, s)
	q.mu.Unlock()
}

// Drain removes and returns every buffered sample in arrival order.
// The returned slice is valid until the next call to Drain.
func (q *Queue) Drain() []Sample {
	q.mu.Lock()
	out := q.samples
	q.samples = q.spare[:0]
	q.spare = out
	q.mu.Unlock()
	return out
}

// Len returns the number of buffered samples.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples)
}

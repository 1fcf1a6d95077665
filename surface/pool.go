// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "sync"

// Pool recycles scratch surfaces of identical size.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Surface
	maxSize int
}

type poolKey struct {
	width  int
	height int
}

// NewPool creates a pool keeping at most maxPerBucket surfaces per size.
// Zero means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Surface),
		maxSize: maxPerBucket,
	}
}

// Get returns a transparent surface of the requested size.
func (p *Pool) Get(width, height int) (*Surface, error) {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		s := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()

		s.Fill(Transparent)
		return s, nil
	}
	p.mu.Unlock()

	return New(width, height)
}

// Put returns s to the pool. Nil surfaces are ignored.
func (p *Pool) Put(s *Surface) {
	if s == nil {
		return
	}
	key := poolKey{width: s.width, height: s.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.maxSize > 0 && len(p.buckets[key]) >= p.maxSize {
		return
	}
	p.buckets[key] = append(p.buckets[key], s)
}

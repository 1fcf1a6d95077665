// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"sync"
)

// Handle references a surface owned by an Arena.
// The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// Index returns the slot index of the handle.
func (h Handle) Index() int { return int(h.index) }

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

// String implements fmt.Stringer.
func (h Handle) String() string { return fmt.Sprintf("surface#%d.%d", h.index, h.gen) }

type slot struct {
	surf *Surface
	gen  uint32
}

// Arena owns surfaces and hands out generation-checked handles.
// Released slots are reused with a bumped generation.
//
// Arena is safe for concurrent use.
type Arena struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc creates a transparent surface and returns its handle.
func (a *Arena) Alloc(width, height int) (Handle, error) {
	s, err := New(width, height)
	if err != nil {
		return Handle{}, err
	}
	return a.Adopt(s), nil
}

// Adopt takes ownership of s and returns its handle.
func (a *Arena) Adopt(s *Surface) Handle {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		sl := &a.slots[idx]
		sl.gen++
		sl.surf = s
		return Handle{index: idx, gen: sl.gen}
	}
	a.slots = append(a.slots, slot{surf: s, gen: 1})
	return Handle{index: uint32(len(a.slots) - 1), gen: 1}
}

// Get resolves a handle.
func (a *Arena) Get(h Handle) (*Surface, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if int(h.index) >= len(a.slots) {
		return nil, fmt.Errorf("%w: %v", ErrStaleHandle, h)
	}
	sl := a.slots[h.index]
	if sl.surf == nil || sl.gen != h.gen {
		return nil, fmt.Errorf("%w: %v", ErrStaleHandle, h)
	}
	return sl.surf, nil
}

// Release frees the slot of h. Releasing a stale handle is an error.
func (a *Arena) Release(h Handle) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if int(h.index) >= len(a.slots) {
		return fmt.Errorf("%w: %v", ErrStaleHandle, h)
	}
	sl := &a.slots[h.index]
	if sl.surf == nil || sl.gen != h.gen {
		return fmt.Errorf("%w: %v", ErrStaleHandle, h)
	}
	sl.surf = nil
	a.free = append(a.free, h.index)
	return nil
}

// Len returns the number of live surfaces.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.slots) - len(a.free)
}

// Package history records layer snapshots taken before a stroke and swaps
// them back on undo.
//
// A stroke is bracketed by BeginCapture calls (lazily, once per touched
// layer) and Commit. Commit crops each snapshot to the rectangle the stroke
// actually modified and pushes the group as one Step. Undo swaps the stored
// pixels with the live ones, so the same Step can be redone and the round
// trip is bit-exact.
package history

import (
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/gogpu/paint/surface"
)

// DefaultDepth is the number of steps kept when no depth is configured.
const DefaultDepth = 64

// ErrUnknownLayer is returned by BeginCapture for an id the store cannot
// resolve. It indicates a bug in stroke dispatch.
var ErrUnknownLayer = errors.New("history: unknown layer")

// Store resolves layer ids to their live surfaces.
type Store interface {
	LayerSurface(id string) (*surface.Surface, bool)
}

// StoreFunc adapts a function to Store.
type StoreFunc func(id string) (*surface.Surface, bool)

// LayerSurface implements Store.
func (f StoreFunc) LayerSurface(id string) (*surface.Surface, bool) { return f(id) }

// Entry is the saved content of one rectangle of one layer.
type Entry struct {
	LayerID string
	Rect    image.Rectangle
	Pixels  *surface.Surface
}

// Step groups the entries of one committed stroke.
type Step struct {
	Entries []Entry
}

// pending is a begin-capture snapshot of a whole layer.
type pending struct {
	id      string
	full    *surface.Surface
	touched image.Rectangle
}

// Manager owns the undo and redo stacks.
//
// Manager is not safe for concurrent use; it runs on the render goroutine.
type Manager struct {
	store   Store
	depth   int
	logger  *slog.Logger
	undo    []Step
	redo    []Step
	pending []*pending
}

// Option configures a Manager.
type Option func(*Manager)

// WithDepth bounds the undo stack. Non-positive values keep DefaultDepth.
func WithDepth(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.depth = n
		}
	}
}

// WithLogger sets the logger used for eviction diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager reading layers from store.
func New(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		depth:  DefaultDepth,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BeginCapture snapshots the layer before the active stroke modifies it.
// Repeated calls for the same layer within one stroke are no-ops.
func (m *Manager) BeginCapture(id string) error {
	if m.find(id) != nil {
		return nil
	}
	s, ok := m.store.LayerSurface(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, id)
	}
	m.pending = append(m.pending, &pending{id: id, full: s.Clone()})
	return nil
}

// Capturing reports whether a snapshot of id is pending.
func (m *Manager) Capturing(id string) bool {
	return m.find(id) != nil
}

// Touch records that the active stroke modified r of layer id.
// Touching a layer without a pending capture is ignored.
func (m *Manager) Touch(id string, r image.Rectangle) {
	if p := m.find(id); p != nil {
		p.touched = p.touched.Union(r)
	}
}

// Commit finalizes the pending snapshots into one Step and clears the redo
// stack. It returns false when the stroke modified nothing, in which case no
// Step is recorded and the redo stack is kept.
func (m *Manager) Commit() bool {
	var step Step
	for _, p := range m.pending {
		r := p.touched.Intersect(p.full.Rect())
		if r.Empty() {
			continue
		}
		step.Entries = append(step.Entries, Entry{
			LayerID: p.id,
			Rect:    r,
			Pixels:  p.full.Copy(r),
		})
	}
	m.pending = m.pending[:0]
	if len(step.Entries) == 0 {
		return false
	}

	m.undo = append(m.undo, step)
	m.redo = m.redo[:0]
	if over := len(m.undo) - m.depth; over > 0 {
		m.logger.Debug("history: evicting oldest steps", "count", over)
		m.undo = append(m.undo[:0], m.undo[over:]...)
	}
	return true
}

// Cancel rolls every pending layer back to its begin-capture snapshot and
// discards the snapshots.
func (m *Manager) Cancel() {
	for _, p := range m.pending {
		if s, ok := m.store.LayerSurface(p.id); ok {
			r := p.touched.Intersect(p.full.Rect())
			if !r.Empty() {
				s.Paste(p.full.Copy(r), r.Min)
			}
		}
	}
	m.pending = m.pending[:0]
}

// Undo reverts the most recent Step. It returns false if there is nothing to
// undo.
func (m *Manager) Undo() bool {
	n := len(m.undo)
	if n == 0 {
		return false
	}
	step := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.swap(step)
	m.redo = append(m.redo, step)
	return true
}

// Redo reapplies the most recently undone Step. It returns false if there is
// nothing to redo.
func (m *Manager) Redo() bool {
	n := len(m.redo)
	if n == 0 {
		return false
	}
	step := m.redo[n-1]
	m.redo = m.redo[:n-1]
	m.swap(step)
	m.undo = append(m.undo, step)
	return true
}

// swap exchanges the stored pixels of every entry with the live layer, so the
// entry afterwards holds the state that was just replaced.
func (m *Manager) swap(step Step) {
	for i := len(step.Entries) - 1; i >= 0; i-- {
		e := &step.Entries[i]
		s, ok := m.store.LayerSurface(e.LayerID)
		if !ok {
			continue
		}
		live := s.Copy(e.Rect)
		s.Paste(e.Pixels, e.Rect.Min)
		e.Pixels = live
	}
}

// Forget drops every entry that refers to layer id, for example after the
// layer was deleted. Steps left without entries are removed.
func (m *Manager) Forget(id string) {
	m.undo = forget(m.undo, id)
	m.redo = forget(m.redo, id)
	kept := m.pending[:0]
	for _, p := range m.pending {
		if p.id != id {
			kept = append(kept, p)
		}
	}
	m.pending = kept
}

func forget(steps []Step, id string) []Step {
	out := steps[:0]
	for _, st := range steps {
		entries := st.Entries[:0]
		for _, e := range st.Entries {
			if e.LayerID != id {
				entries = append(entries, e)
			}
		}
		if len(entries) > 0 {
			out = append(out, Step{Entries: entries})
		}
	}
	return out
}

// Clear drops all history and pending snapshots.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
	m.pending = nil
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Len returns the sizes of the undo and redo stacks.
func (m *Manager) Len() (undo, redo int) { return len(m.undo), len(m.redo) }

// Depth returns the configured bound of the undo stack.
func (m *Manager) Depth() int { return m.depth }

func (m *Manager) find(id string) *pending {
	for _, p := range m.pending {
		if p.id == id {
			return p
		}
	}
	return nil
}

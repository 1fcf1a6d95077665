// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"fmt"
	"image"

	"github.com/gogpu/paint/internal/composite"
	"github.com/gogpu/paint/internal/parallel"
	"github.com/gogpu/paint/internal/stencil"
	"github.com/gogpu/paint/surface"
)

// SoftwareBackend is a CPU backend built on the layer compositor.
//
// It keeps two surfaces: the composite of the layer stack and the output,
// which is the composite plus the selection overlay. The overlay is redrawn
// every frame on the output, so the composite never needs to be rebuilt
// just because the ants moved.
//
// Example:
//
//	backend, err := render.NewSoftwareBackend(800, 600, render.WithWorkers(4))
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
type SoftwareBackend struct {
	width, height int

	pool       *parallel.WorkerPool
	compositor *composite.Compositor

	composed *surface.Surface
	out      *surface.Surface
	buf      []byte

	stale       image.Rectangle // composed regions not yet copied to out
	overlayRect image.Rectangle // out region last drawn by the overlay
	presentRect image.Rectangle // out region changed since last Present

	scratch []composite.Layer
	closed  bool
}

// SoftwareOption configures a SoftwareBackend.
type SoftwareOption func(*softwareOptions)

type softwareOptions struct {
	workers int
}

// WithWorkers sets the number of compositing goroutines. Zero or one
// composites on the render goroutine.
func WithWorkers(n int) SoftwareOption {
	return func(o *softwareOptions) {
		o.workers = n
	}
}

// NewSoftwareBackend creates a CPU backend for a width by height canvas.
func NewSoftwareBackend(width, height int, opts ...SoftwareOption) (*SoftwareBackend, error) {
	var o softwareOptions
	for _, opt := range opts {
		opt(&o)
	}

	composed, err := surface.New(width, height)
	if err != nil {
		return nil, fmt.Errorf("render: software backend: %w", err)
	}
	b := &SoftwareBackend{
		width:    width,
		height:   height,
		composed: composed,
		out:      composed.Clone(),
		buf:      make([]byte, width*height*4),
	}
	if o.workers > 1 {
		b.pool = parallel.NewWorkerPool(o.workers)
	}
	b.compositor = composite.New(b.pool)
	return b, nil
}

// Name implements Backend.
func (b *SoftwareBackend) Name() string { return "software" }

// Sync implements Backend. Layer surfaces are read in place.
func (b *SoftwareBackend) Sync(context.Context, []Layer, image.Rectangle) error {
	if b.closed {
		return ErrBackendClosed
	}
	return nil
}

// Composite implements Backend.
func (b *SoftwareBackend) Composite(ctx context.Context, layers []Layer, region image.Rectangle) error {
	if b.closed {
		return ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b.scratch = b.scratch[:0]
	for _, l := range layers {
		b.scratch = append(b.scratch, l.Composite())
	}
	done := b.compositor.Composite(b.composed, b.scratch, region)
	b.stale = b.stale.Union(done)
	return nil
}

// Overlay implements Backend.
func (b *SoftwareBackend) Overlay(ctx context.Context, sel Selection) error {
	if b.closed {
		return ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	restore := b.stale.Union(b.overlayRect).Intersect(b.out.Rect())
	if !restore.Empty() {
		b.out.Paste(b.composed.Copy(restore), restore.Min)
	}
	b.presentRect = b.presentRect.Union(restore)
	b.stale = image.Rectangle{}
	b.overlayRect = image.Rectangle{}

	if !sel.Active() {
		return nil
	}
	drawn, err := stencil.Overlay(b.out, sel.Mask, sel.Style)
	if err != nil {
		return fmt.Errorf("render: selection overlay: %w", err)
	}
	b.overlayRect = drawn
	b.presentRect = b.presentRect.Union(drawn)
	return nil
}

// Present implements Backend. Nothing is delivered when the frame did not
// change.
func (b *SoftwareBackend) Present(ctx context.Context, target Target) error {
	if b.closed {
		return ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dirty := b.presentRect
	if dirty.Empty() || target == nil {
		return nil
	}
	b.out.EncodeRGBA8(b.buf, b.width*4, dirty)
	b.presentRect = image.Rectangle{}
	return target.Present(Output{
		Width:  b.width,
		Height: b.height,
		Pix:    b.buf,
		Dirty:  dirty,
	})
}

// Composited returns the composite surface without the selection overlay.
// The surface is owned by the backend.
func (b *SoftwareBackend) Composited() *surface.Surface { return b.composed }

// Close implements Backend.
func (b *SoftwareBackend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	if b.pool != nil {
		b.pool.Close()
	}
	return nil
}

var _ Backend = (*SoftwareBackend)(nil)

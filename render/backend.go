// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"image"
)

// ErrBackendClosed is returned by passes run on a closed backend.
var ErrBackendClosed = errors.New("render: backend closed")

// Backend executes the composite, selection and present passes.
//
// Thread Safety: Backends are NOT thread-safe. All passes run on the render
// goroutine.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Sync mirrors the dirty region of every layer surface after the brush
	// pass. Backends that read CPU surfaces directly do nothing.
	Sync(ctx context.Context, layers []Layer, dirty image.Rectangle) error

	// Composite stacks the layers into the composite target. Only region
	// needs to be brought up to date; an empty region means the whole canvas.
	Composite(ctx context.Context, layers []Layer, region image.Rectangle) error

	// Overlay draws the selection boundary over the composite.
	Overlay(ctx context.Context, sel Selection) error

	// Present delivers the finished frame to target.
	Present(ctx context.Context, target Target) error

	// Close releases the backend's resources.
	Close() error
}

// Output is a finished frame: 8-bit straight-alpha RGBA rows of
// Width*4 bytes.
type Output struct {
	Width, Height int
	Pix           []byte

	// Dirty is the region that changed since the previous Present.
	Dirty image.Rectangle
}

// Rect returns the full frame rectangle.
func (o Output) Rect() image.Rectangle { return image.Rect(0, 0, o.Width, o.Height) }

// Stride returns the number of bytes per row.
func (o Output) Stride() int { return o.Width * 4 }

// Region returns the pixels of r packed densely, for partial uploads.
func (o Output) Region(r image.Rectangle) []byte {
	r = r.Intersect(o.Rect())
	row := r.Dx() * 4
	buf := make([]byte, 0, row*r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y*o.Stride() + r.Min.X*4
		buf = append(buf, o.Pix[off:off+row]...)
	}
	return buf
}

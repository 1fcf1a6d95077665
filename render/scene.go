// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"image"

	"golang.org/x/image/math/f64"

	"github.com/gogpu/paint/internal/composite"
	"github.com/gogpu/paint/internal/stencil"
	"github.com/gogpu/paint/surface"
)

// Layer is the per-frame view of one document layer.
type Layer struct {
	// Handle identifies the layer surface across frames. Backends key their
	// mirrored resources by it.
	Handle surface.Handle

	// Surface holds the authoritative pixels. Backends only read it.
	Surface *surface.Surface

	Settings composite.Settings
	Opacity  float32
	Visible  bool

	// Transform places the layer on the canvas. Nil means identity.
	Transform *f64.Aff3

	// Instance is the same placement as a quad instance for the GPU path.
	Instance InstanceData
}

// Composite converts the layer for the CPU compositor.
func (l Layer) Composite() composite.Layer {
	return composite.Layer{
		Surface:   l.Surface,
		Settings:  l.Settings,
		Opacity:   l.Opacity,
		Visible:   l.Visible,
		Transform: l.Transform,
	}
}

// Selection is the marching-ants input of a frame. A nil Mask means no
// selection.
type Selection struct {
	Mask  *surface.Mask
	Style stencil.Style

	// Changed is set when the mask content differs from the previous frame.
	Changed bool
}

// Active reports whether there is a selection to draw.
func (s Selection) Active() bool {
	return s.Mask != nil && !s.Mask.Empty()
}

// Scene is the document side of a frame.
//
// The orchestrator calls BrushPass first; Layers and Selection are read
// afterwards and must reflect the brush output.
type Scene interface {
	// BrushPass drains pending input, applies it to the layer surfaces and
	// returns the canvas region whose composite is out of date.
	BrushPass(ctx context.Context) (image.Rectangle, error)

	// Layers returns the layer stack bottom to top.
	Layers() []Layer

	// Selection returns the current selection.
	Selection() Selection
}

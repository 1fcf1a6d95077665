// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the CPU pixel storage shared by the painting
// engine: float RGBA surfaces, single-channel selection masks and the arena
// that owns layer surfaces.
//
// # Alpha convention
//
// Every Surface stores straight (non-premultiplied) alpha. Color channels
// and alpha are float32 values in [0, 1]. Code that needs premultiplied
// values converts explicitly with [RGBA.Premultiply].
//
// # Ownership
//
// Layer surfaces live in an [Arena] and are referenced by [Handle]. A handle
// carries a generation counter, so a handle kept after its surface was
// released fails with [ErrStaleHandle] instead of aliasing a newer surface.
//
// Usage:
//
//	arena := surface.NewArena()
//	h, _ := arena.Alloc(800, 600)
//	s, _ := arena.Get(h)
//	s.Fill(surface.RGBA{R: 1, G: 1, B: 1, A: 1})
//
// Surface implements image.Image and draw.Image, so it can be handed to
// golang.org/x/image/draw for resampling.
package surface

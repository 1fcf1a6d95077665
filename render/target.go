// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
)

// Target receives finished frames.
//
// Implementations:
//   - ImageTarget: CPU-backed *image.NRGBA
//   - TextureTarget: host texture through gpucontext.TextureUpdater
//   - TargetFunc: adapter for plain functions
type Target interface {
	Present(out Output) error
}

// TargetFunc adapts a function to Target.
type TargetFunc func(out Output) error

// Present implements Target.
func (f TargetFunc) Present(out Output) error { return f(out) }

// ImageTarget keeps the latest frame in an *image.NRGBA.
//
// Example:
//
//	target := render.NewImageTarget(800, 600)
//	orch.Frame(ctx, scene, target)
//	png.Encode(w, target.Image())
type ImageTarget struct {
	img *image.NRGBA
}

// NewImageTarget creates a transparent image target.
func NewImageTarget(width, height int) *ImageTarget {
	return &ImageTarget{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// Image returns the underlying image. It shares memory with the target.
func (t *ImageTarget) Image() *image.NRGBA { return t.img }

// Present copies the dirty rows of out into the image.
func (t *ImageTarget) Present(out Output) error {
	if out.Rect() != t.img.Rect {
		return fmt.Errorf("render: frame %dx%d does not match target %dx%d",
			out.Width, out.Height, t.img.Rect.Dx(), t.img.Rect.Dy())
	}
	r := out.Dirty.Intersect(out.Rect())
	if out.Dirty.Empty() {
		r = out.Rect()
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := y*out.Stride() + r.Min.X*4
		dst := y*t.img.Stride + r.Min.X*4
		copy(t.img.Pix[dst:dst+r.Dx()*4], out.Pix[src:src+r.Dx()*4])
	}
	return nil
}

// TextureTarget uploads frames into a host texture.
//
// When the texture also implements gpucontext.TextureRegionUpdater, only the
// dirty region is uploaded.
type TextureTarget struct {
	tex gpucontext.TextureUpdater
}

// NewTextureTarget wraps a host texture.
func NewTextureTarget(tex gpucontext.TextureUpdater) (*TextureTarget, error) {
	if tex == nil {
		return nil, errors.New("render: nil texture")
	}
	return &TextureTarget{tex: tex}, nil
}

// Present implements Target.
func (t *TextureTarget) Present(out Output) error {
	r := out.Dirty.Intersect(out.Rect())
	if ru, ok := t.tex.(gpucontext.TextureRegionUpdater); ok && !r.Empty() && r != out.Rect() {
		if err := ru.UpdateRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), out.Region(r)); err != nil {
			return fmt.Errorf("render: texture region upload: %w", err)
		}
		return nil
	}
	if err := t.tex.UpdateData(out.Pix); err != nil {
		return fmt.Errorf("render: texture upload: %w", err)
	}
	return nil
}

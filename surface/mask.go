// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
)

// Mask is a single-channel float32 coverage map. Nonzero texels are inside
// the selection.
type Mask struct {
	width  int
	height int
	pix    []float32
}

// NewMask allocates an empty mask.
func NewMask(width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Mask{width: width, height: height, pix: make([]float32, width*height)}, nil
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// Rect returns the mask rectangle anchored at the origin.
func (m *Mask) Rect() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

// Pix exposes the coverage values in row-major order.
func (m *Mask) Pix() []float32 { return m.pix }

// At returns the coverage at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) float32 {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0
	}
	return m.pix[y*m.width+x]
}

// Clamped returns the coverage at (x, y) with coordinates clamped to the
// mask edges, matching a clamp-to-edge sampler.
func (m *Mask) Clamped(x, y int) float32 {
	x = min(max(x, 0), m.width-1)
	y = min(max(y, 0), m.height-1)
	return m.pix[y*m.width+x]
}

// Set stores v at (x, y). Out-of-range writes are ignored.
func (m *Mask) Set(x, y int, v float32) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.pix[y*m.width+x] = v
}

// FillRect sets the texels of r clipped to the mask.
func (m *Mask) FillRect(r image.Rectangle, v float32) {
	r = r.Intersect(m.Rect())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := m.pix[y*m.width+r.Min.X : y*m.width+r.Max.X]
		for i := range row {
			row[i] = v
		}
	}
}

// Fill sets every texel to v.
func (m *Mask) Fill(v float32) {
	for i := range m.pix {
		m.pix[i] = v
	}
}

// Clear empties the mask.
func (m *Mask) Clear() { m.Fill(0) }

// Invert replaces every texel v with 1-v.
func (m *Mask) Invert() {
	for i, v := range m.pix {
		m.pix[i] = 1 - v
	}
}

// Empty reports whether no texel is selected.
func (m *Mask) Empty() bool {
	for _, v := range m.pix {
		if v != 0 {
			return false
		}
	}
	return true
}

// Bounds returns the tight bounding box of the nonzero texels.
// It is empty when the mask is empty.
func (m *Mask) Bounds() image.Rectangle {
	var r image.Rectangle
	for y := 0; y < m.height; y++ {
		row := m.pix[y*m.width : (y+1)*m.width]
		for x, v := range row {
			if v != 0 {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	return r
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	c := &Mask{width: m.width, height: m.height, pix: make([]float32, len(m.pix))}
	copy(c.pix, m.pix)
	return c
}

// Bytes packs the mask as one byte per texel (r8unorm layout).
func (m *Mask) Bytes() []byte {
	buf := make([]byte, len(m.pix))
	for i, v := range m.pix {
		buf[i] = to8(v)
	}
	return buf
}

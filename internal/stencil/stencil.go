// Package stencil turns a selection mask into boundary feedback: a cheap
// 4-neighbor edge detector plus the marching-ants and dotted overlays drawn
// on top of the composited canvas.
package stencil

import (
	"errors"

	"github.com/chewxy/math32"

	"github.com/gogpu/paint/surface"
)

// DefaultSpan is the dash length of the marching ants in pixels.
const DefaultSpan = 15

// ErrDimensionMismatch is returned when the mask and the canvas differ in size.
var ErrDimensionMismatch = errors.New("stencil: mask and canvas dimensions differ")

// Boundary computes the boundary signal of every texel of mask.
//
// The signal is (up+down) - (left+right) with clamp-to-edge sampling. That
// difference cancels on texels whose vertical and horizontal neighbors
// change the same way, for example an isolated texel, so in that case the
// Laplacian (up+down+left+right) - 4*center is reported instead. A uniform
// mask yields zero everywhere, including the border.
func Boundary(mask *surface.Mask) []float32 {
	w, h := mask.Width(), mask.Height()
	out := make([]float32, w*h)
	for y := range h {
		for x := range w {
			out[y*w+x] = signal(mask, x, y)
		}
	}
	return out
}

// BoundaryAt computes the boundary signal of a single texel.
func BoundaryAt(mask *surface.Mask, x, y int) float32 {
	return signal(mask, x, y)
}

func signal(m *surface.Mask, x, y int) float32 {
	up := m.Clamped(x, y-1)
	down := m.Clamped(x, y+1)
	left := m.Clamped(x-1, y)
	right := m.Clamped(x+1, y)

	s := (up + down) - (left + right)
	if s == 0 {
		s = up + down + left + right - 4*m.Clamped(x, y)
	}
	return s
}

// Checkerboard returns 1 when mod(|el|, 2*span) < span and 0 otherwise.
// The pattern alternates in blocks of span units and repeats every 2*span
// on either side of the origin. A non-positive span falls back to DefaultSpan.
func Checkerboard(el, span float32) float32 {
	if span <= 0 {
		span = DefaultSpan
	}
	if math32.Mod(math32.Abs(el), 2*span) < span {
		return 1
	}
	return 0
}

// Ants evaluates the marching-ants pattern at (x, y). Shifting timeStep
// moves the dashes diagonally; the result is 0 or 1.
func Ants(x, y, span, timeStep float32) float32 {
	cx := Checkerboard(x+timeStep, span)
	cy := Checkerboard(y+timeStep, span)
	return math32.Abs(cx - cy)
}

// NearEdge reports whether the local point (x, y) of a w by h box lies within
// span of any of its edges.
func NearEdge(x, y, w, h, span float32) bool {
	return x < span || y < span || x > w-span || y > h-span
}

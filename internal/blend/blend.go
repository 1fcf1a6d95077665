// Package blend implements the per-pixel color math of the painting engine:
// the separable blend modes and the straight-alpha over operator.
//
// All colors are straight (non-premultiplied) with components in [0, 1].
// Blend modes mix RGB only; alpha is applied afterwards by Over.
//
// References:
//   - W3C Compositing and Blending Level 1: https://www.w3.org/TR/compositing-1/
package blend

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/paint/surface"
)

// RGB is a straight color without alpha.
type RGB struct {
	R, G, B float32
}

// FromRGBA drops the alpha component.
func FromRGBA(c surface.RGBA) RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// WithAlpha attaches an alpha value.
func (c RGB) WithAlpha(a float32) surface.RGBA {
	return surface.RGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Diagnostic is returned for modes outside the enum. Magenta rarely
// occurs in artwork, so a misconfigured layer stands out immediately.
var Diagnostic = RGB{R: 1, G: 0, B: 1}

// Blend mixes top onto bottom with the given mode.
// The result is always inside [0, 1]; singular divisions saturate instead of
// producing Inf or NaN. Unknown modes return Diagnostic.
func Blend(mode Mode, bottom, top RGB) RGB {
	fn := channelFunc(mode)
	if fn == nil {
		return Diagnostic
	}
	return RGB{
		R: clamp(fn(bottom.R, top.R)),
		G: clamp(fn(bottom.G, top.G)),
		B: clamp(fn(bottom.B, top.B)),
	}
}

// Channel applies a mode to a single channel pair. Unknown modes yield the
// corresponding Diagnostic channel value of 1.
func Channel(mode Mode, b, t float32) float32 {
	fn := channelFunc(mode)
	if fn == nil {
		return 1
	}
	return clamp(fn(b, t))
}

func channelFunc(mode Mode) func(b, t float32) float32 {
	switch mode {
	case Normal:
		return normal
	case Multiply:
		return multiply
	case Screen:
		return screen
	case Overlay:
		return overlay
	case SoftLight:
		return softLight
	case ColorDodge:
		return colorDodge
	case ColorBurn:
		return colorBurn
	case Add:
		return add
	case Div:
		return div
	case Sub:
		return sub
	case Difference:
		return difference
	case Darken:
		return math32.Min
	case Lighten:
		return math32.Max
	default:
		return nil
	}
}

func normal(_, t float32) float32 { return t }

func multiply(b, t float32) float32 { return b * t }

// 1 - (1-b)(1-t)
func screen(b, t float32) float32 { return 1 - (1-b)*(1-t) }

func overlay(b, t float32) float32 {
	if b < 0.5 {
		return 2 * b * t
	}
	return 1 - 2*(1-b)*(1-t)
}

// (1-2t)b^2 + 2tb
func softLight(b, t float32) float32 {
	return (1-2*t)*b*b + 2*t*b
}

// b / (1-t)
func colorDodge(b, t float32) float32 { return safeDiv(b, 1-t) }

// 1 - b/t
func colorBurn(b, t float32) float32 { return 1 - safeDiv(b, t) }

func add(b, t float32) float32 { return b + t }

func div(b, t float32) float32 { return safeDiv(b, t) }

func sub(b, t float32) float32 { return b - t }

func difference(b, t float32) float32 { return math32.Abs(b - t) }

// safeDiv saturates instead of dividing by zero: a positive numerator over a
// zero denominator yields the largest float, 0/0 yields 0.
func safeDiv(n, d float32) float32 {
	if d <= 0 {
		if n > 0 {
			return math32.MaxFloat32
		}
		return 0
	}
	return n / d
}

func clamp(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		return 0
	}
}

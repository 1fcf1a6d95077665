// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"image/color"
)

// RGBA is a straight-alpha color with float32 components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Transparent is fully transparent black.
var Transparent = RGBA{}

// Clamp returns c with every component clamped to [0, 1].
// NaN components become 0.
func (c RGBA) Clamp() RGBA {
	return RGBA{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B), A: clamp01(c.A)}
}

// Premultiply returns the color with RGB scaled by alpha.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Unpremultiply reverses Premultiply. Zero alpha yields transparent black.
func (c RGBA) Unpremultiply() RGBA {
	if c.A == 0 {
		return Transparent
	}
	inv := 1 / c.A
	return RGBA{R: c.R * inv, G: c.G * inv, B: c.B * inv, A: c.A}
}

// Lerp interpolates linearly between c and other.
func (c RGBA) Lerp(other RGBA, t float32) RGBA {
	return RGBA{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

// NRGBA converts to an 8-bit straight-alpha color.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// RGBA implements color.Color. The returned values are alpha-premultiplied
// as the color.Color contract requires.
func (c RGBA) RGBA() (r, g, b, a uint32) {
	return color.NRGBA64{R: to16(c.R), G: to16(c.G), B: to16(c.B), A: to16(c.A)}.RGBA()
}

// FromColor converts any color.Color to a straight-alpha RGBA.
func FromColor(c color.Color) RGBA {
	if v, ok := c.(RGBA); ok {
		return v
	}
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float32(n.R) / 0xffff,
		G: float32(n.G) / 0xffff,
		B: float32(n.B) / 0xffff,
		A: float32(n.A) / 0xffff,
	}
}

// Model converts colors into RGBA.
var Model = color.ModelFunc(func(c color.Color) color.Color { return FromColor(c) })

func clamp01(v float32) float32 {
	switch {
	case v > 1:
		return 1
	case v >= 0:
		return v
	default:
		// negative or NaN
		return 0
	}
}

func to8(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func to16(v float32) uint16 {
	return uint16(clamp01(v)*0xffff + 0.5)
}

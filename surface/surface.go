// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// Errors returned by surface constructors and the arena.
var (
	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("surface: invalid dimensions")

	// ErrStaleHandle is returned when a handle refers to a released surface.
	ErrStaleHandle = errors.New("surface: stale handle")
)

// Surface is a CPU raster of straight-alpha float colors.
//
// Surfaces are not safe for concurrent mutation. Readers running in parallel
// on disjoint rows are fine.
type Surface struct {
	width  int
	height int
	pix    []RGBA
}

// New allocates a transparent surface.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	return &Surface{
		width:  width,
		height: height,
		pix:    make([]RGBA, width*height),
	}, nil
}

// MustNew is like New but panics on invalid dimensions.
func MustNew(width, height int) *Surface {
	s, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.height }

// Rect returns the surface rectangle anchored at the origin.
func (s *Surface) Rect() image.Rectangle { return image.Rect(0, 0, s.width, s.height) }

// Pix exposes the pixel slice in row-major order.
func (s *Surface) Pix() []RGBA { return s.pix }

// Row returns the pixels of row y.
func (s *Surface) Row(y int) []RGBA {
	off := y * s.width
	return s.pix[off : off+s.width]
}

// Pixel returns the color at (x, y), or transparent outside the surface.
func (s *Surface) Pixel(x, y int) RGBA {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return Transparent
	}
	return s.pix[y*s.width+x]
}

// SetPixel stores c at (x, y). Out-of-range writes are ignored.
func (s *Surface) SetPixel(x, y int, c RGBA) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return
	}
	s.pix[y*s.width+x] = c
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c RGBA) {
	for i := range s.pix {
		s.pix[i] = c
	}
}

// FillRect sets the pixels of r clipped to the surface.
func (s *Surface) FillRect(r image.Rectangle, c RGBA) {
	r = r.Intersect(s.Rect())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := s.Row(y)[r.Min.X:r.Max.X]
		for i := range row {
			row[i] = c
		}
	}
}

// Clone returns a deep copy.
func (s *Surface) Clone() *Surface {
	c := &Surface{width: s.width, height: s.height, pix: make([]RGBA, len(s.pix))}
	copy(c.pix, s.pix)
	return c
}

// Copy returns a new surface holding the pixels of r clipped to s.
// It returns nil if the clipped region is empty.
func (s *Surface) Copy(r image.Rectangle) *Surface {
	r = r.Intersect(s.Rect())
	if r.Empty() {
		return nil
	}
	out := &Surface{width: r.Dx(), height: r.Dy(), pix: make([]RGBA, r.Dx()*r.Dy())}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		copy(out.Row(y-r.Min.Y), s.Row(y)[r.Min.X:r.Max.X])
	}
	return out
}

// Paste writes src into s with its top-left corner at at. Pixels that fall
// outside s are dropped.
func (s *Surface) Paste(src *Surface, at image.Point) {
	dst := src.Rect().Add(at).Intersect(s.Rect())
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		srow := src.Row(y - at.Y)
		copy(s.Row(y)[dst.Min.X:dst.Max.X], srow[dst.Min.X-at.X:dst.Max.X-at.X])
	}
}

// CopyFrom overwrites s with the content of src. Both must have the same size.
func (s *Surface) CopyFrom(src *Surface) error {
	if src.width != s.width || src.height != s.height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrInvalidDimensions,
			src.width, src.height, s.width, s.height)
	}
	copy(s.pix, src.pix)
	return nil
}

// Equal reports whether two surfaces have identical size and pixels.
func (s *Surface) Equal(o *Surface) bool {
	if s.width != o.width || s.height != o.height {
		return false
	}
	for i := range s.pix {
		if s.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// ColorModel implements image.Image.
func (s *Surface) ColorModel() color.Model { return Model }

// Bounds implements image.Image.
func (s *Surface) Bounds() image.Rectangle { return s.Rect() }

// At implements image.Image.
func (s *Surface) At(x, y int) color.Color { return s.Pixel(x, y) }

// Set implements draw.Image.
func (s *Surface) Set(x, y int, c color.Color) { s.SetPixel(x, y, FromColor(c)) }

// ToNRGBA converts the surface to an 8-bit straight-alpha image.
func (s *Surface) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(s.Rect())
	s.writeBytes(img.Pix)
	return img
}

// Bytes returns the pixels as tightly packed 8-bit RGBA (straight alpha),
// the layout expected by rgba8unorm textures.
func (s *Surface) Bytes() []byte {
	buf := make([]byte, len(s.pix)*4)
	s.writeBytes(buf)
	return buf
}

// RegionBytes returns the pixels of r packed as 8-bit RGBA.
func (s *Surface) RegionBytes(r image.Rectangle) []byte {
	r = r.Intersect(s.Rect())
	buf := make([]byte, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for _, c := range s.Row(y)[r.Min.X:r.Max.X] {
			n := c.NRGBA()
			buf = append(buf, n.R, n.G, n.B, n.A)
		}
	}
	return buf
}

// EncodeRGBA8 writes the pixels of r into buf, an 8-bit straight-alpha RGBA
// image of the surface's size with the given row stride in bytes.
func (s *Surface) EncodeRGBA8(buf []byte, stride int, r image.Rectangle) {
	r = r.Intersect(s.Rect())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := y*stride + r.Min.X*4
		for _, c := range s.Row(y)[r.Min.X:r.Max.X] {
			n := c.NRGBA()
			buf[off+0] = n.R
			buf[off+1] = n.G
			buf[off+2] = n.B
			buf[off+3] = n.A
			off += 4
		}
	}
}

func (s *Surface) writeBytes(buf []byte) {
	for i, c := range s.pix {
		n := c.NRGBA()
		buf[i*4+0] = n.R
		buf[i*4+1] = n.G
		buf[i*4+2] = n.B
		buf[i*4+3] = n.A
	}
}

// FromImage converts any image into a new surface.
func FromImage(img image.Image) (*Surface, error) {
	b := img.Bounds()
	s, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := s.Row(y - b.Min.Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			row[x-b.Min.X] = FromColor(img.At(x, y))
		}
	}
	return s, nil
}

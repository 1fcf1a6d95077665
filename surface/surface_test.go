// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNewInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 10},
		{"zero height", 10, 0},
		{"negative", -1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.w, tt.h)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Errorf("New(%d, %d) error = %v, want ErrInvalidDimensions", tt.w, tt.h, err)
			}
		})
	}
}

func TestCopyPaste(t *testing.T) {
	s := MustNew(8, 8)
	red := RGBA{R: 1, A: 1}
	s.FillRect(image.Rect(2, 2, 5, 5), red)

	part := s.Copy(image.Rect(1, 1, 6, 6))
	if part.Width() != 5 || part.Height() != 5 {
		t.Fatalf("Copy() size = %dx%d, want 5x5", part.Width(), part.Height())
	}
	if got := part.Pixel(1, 1); got != red {
		t.Errorf("Copy().Pixel(1,1) = %v, want %v", got, red)
	}
	if got := part.Pixel(0, 0); got != Transparent {
		t.Errorf("Copy().Pixel(0,0) = %v, want transparent", got)
	}

	dst := MustNew(8, 8)
	dst.Paste(part, image.Pt(1, 1))
	if !dst.Equal(s) {
		t.Error("Paste(Copy(r), r.Min) did not reproduce the source")
	}
}

func TestCopyEmpty(t *testing.T) {
	s := MustNew(4, 4)
	if got := s.Copy(image.Rect(10, 10, 12, 12)); got != nil {
		t.Errorf("Copy(outside) = %v, want nil", got)
	}
}

func TestPasteClipsOutside(t *testing.T) {
	s := MustNew(4, 4)
	src := MustNew(3, 3)
	src.Fill(RGBA{G: 1, A: 1})
	s.Paste(src, image.Pt(-1, 2))

	if got := s.Pixel(0, 2); got.G != 1 {
		t.Errorf("Pixel(0,2).G = %v, want 1", got.G)
	}
	if got := s.Pixel(2, 2); got != Transparent {
		t.Errorf("Pixel(2,2) = %v, want transparent", got)
	}
}

func TestColorConversion(t *testing.T) {
	c := RGBA{R: 1, G: 0.5, B: 0, A: 0.5}
	n := c.NRGBA()
	if n.R != 255 || n.G != 128 || n.B != 0 || n.A != 128 {
		t.Errorf("NRGBA() = %v, want {255 128 0 128}", n)
	}

	back := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if back != (RGBA{R: 1, A: 1}) {
		t.Errorf("FromColor(red) = %v, want {1 0 0 1}", back)
	}
}

func TestClampNaN(t *testing.T) {
	var zero float32
	nan := zero / zero
	c := RGBA{R: nan, G: 2, B: -1, A: 0.5}.Clamp()
	if c != (RGBA{R: 0, G: 1, B: 0, A: 0.5}) {
		t.Errorf("Clamp() = %v, want {0 1 0 0.5}", c)
	}
}

func TestPremultiplyRoundTrip(t *testing.T) {
	c := RGBA{R: 0.8, G: 0.4, B: 0.2, A: 0.5}
	got := c.Premultiply().Unpremultiply()
	if got != c {
		t.Errorf("Unpremultiply(Premultiply(c)) = %v, want %v", got, c)
	}
	if got := (RGBA{R: 1}).Unpremultiply(); got != Transparent {
		t.Errorf("Unpremultiply(alpha 0) = %v, want transparent", got)
	}
}

func TestBytesLayout(t *testing.T) {
	s := MustNew(2, 1)
	s.SetPixel(1, 0, RGBA{R: 1, B: 1, A: 1})
	want := []byte{0, 0, 0, 0, 255, 0, 255, 255}
	got := s.Bytes()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes() = %v, want %v", got, want)
		}
	}
	if r := s.RegionBytes(image.Rect(1, 0, 2, 1)); len(r) != 4 || r[0] != 255 {
		t.Errorf("RegionBytes() = %v, want [255 0 255 255]", r)
	}
}

func TestEncodeRGBA8Region(t *testing.T) {
	s := MustNew(3, 2)
	s.Fill(RGBA{G: 1, A: 1})
	buf := make([]byte, 3*2*4)
	s.EncodeRGBA8(buf, 3*4, image.Rect(1, 1, 5, 5))

	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("pixel outside region = %v, want untouched zeros", buf[0:4])
	}
	off := 1*12 + 1*4
	if got := buf[off : off+4]; got[1] != 255 || got[3] != 255 {
		t.Errorf("pixel (1,1) = %v, want opaque green", got)
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	img.SetNRGBA(6, 5, color.NRGBA{G: 255, A: 255})
	s, err := FromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	if s.Width() != 2 || s.Height() != 1 {
		t.Fatalf("FromImage() size = %dx%d, want 2x1", s.Width(), s.Height())
	}
	if got := s.Pixel(1, 0); got != (RGBA{G: 1, A: 1}) {
		t.Errorf("Pixel(1,0) = %v, want opaque green", got)
	}
}

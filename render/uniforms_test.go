// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"image"
	"math"
	"testing"
)

func f32At(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestUniformSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"FrameUniforms", len(FrameUniforms{}.Bytes()), FrameUniformsSize},
		{"InstanceData", len(InstanceData{}.Bytes()), InstanceDataSize},
		{"BlendUniform", len(BlendUniform{}.Bytes()), BlendUniformSize},
		{"StencilUniform", len(StencilUniform{}.Bytes()), StencilUniformSize},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("len(%s.Bytes()) = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestInstanceDataLayout(t *testing.T) {
	d := InstanceData{
		Position: [2]float32{10, 20},
		Size:     [2]float32{30, 40},
		Rotation: 0.5,
		Flip:     1,
		Opacity:  0.25,
		Multiply: [4]float32{1, 0.5, 0, 1},
	}
	b := d.Bytes()

	if f32At(b, 0) != 10 || f32At(b, 4) != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", f32At(b, 0), f32At(b, 4))
	}
	if f32At(b, 12) != 40 {
		t.Errorf("size.y = %v, want 40", f32At(b, 12))
	}
	if binary.LittleEndian.Uint32(b[20:]) != 1 {
		t.Errorf("flip = %d, want 1", binary.LittleEndian.Uint32(b[20:]))
	}
	if f32At(b, 24) != 0.25 {
		t.Errorf("opacity = %v, want 0.25", f32At(b, 24))
	}
	if f32At(b, 36) != 0.5 {
		t.Errorf("multiply.g = %v, want 0.5", f32At(b, 36))
	}

	two := d.AppendBytes(d.Bytes())
	if len(two) != 2*InstanceDataSize {
		t.Errorf("AppendBytes length = %d, want %d", len(two), 2*InstanceDataSize)
	}
}

func TestBlendUniformLayout(t *testing.T) {
	u := BlendUniform{
		Mode:    7,
		HasSrc:  1,
		Opacity: 0.5,
		Src:     [4]float32{0, 0, 0.5, 0.5},
		Dst:     [4]float32{0.5, 0.5, 1, 1},
	}
	b := u.Bytes()
	if int32(binary.LittleEndian.Uint32(b[0:])) != 7 {
		t.Errorf("mode = %d, want 7", binary.LittleEndian.Uint32(b[0:]))
	}
	if binary.LittleEndian.Uint32(b[4:]) != 1 || binary.LittleEndian.Uint32(b[8:]) != 0 {
		t.Error("has_src/has_dst flags misplaced")
	}
	if f32At(b, 12) != 0.5 {
		t.Errorf("opacity = %v, want 0.5", f32At(b, 12))
	}
	if f32At(b, 24) != 0.5 || f32At(b, 32) != 0.5 {
		t.Error("src/dst vectors misplaced")
	}
}

func TestNormalizedRect(t *testing.T) {
	got := NormalizedRect(image.Rect(10, 20, 50, 100), 100, 200)
	want := [4]float32{0.1, 0.1, 0.5, 0.5}
	if got != want {
		t.Errorf("NormalizedRect() = %v, want %v", got, want)
	}
}

func TestPassOrder(t *testing.T) {
	want := []string{"brush", "composite", "selection", "present"}
	for i, p := range Passes() {
		if p.String() != want[i] {
			t.Errorf("Passes()[%d] = %v, want %s", i, p, want[i])
		}
	}
	if s := Pass(9).String(); s != "Pass(9)" {
		t.Errorf("Pass(9).String() = %q", s)
	}
}

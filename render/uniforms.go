// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"image"
	"math"
)

// Uniform and vertex record sizes in bytes.
const (
	FrameUniformsSize  = 64
	InstanceDataSize   = 48
	BlendUniformSize   = 48
	StencilUniformSize = 64
)

// FrameUniforms is bound once per frame.
//
// WGSL:
//
//	struct Frame { view_proj: mat4x4<f32> }
type FrameUniforms struct {
	ViewProj [16]float32 // column-major
}

// Bytes returns the little-endian encoding.
func (u FrameUniforms) Bytes() []byte {
	b := make([]byte, 0, FrameUniformsSize)
	for _, v := range u.ViewProj {
		b = appendF32(b, v)
	}
	return b
}

// InstanceData is the per-instance vertex record of the textured quad.
//
// WGSL (vertex attributes 0..5):
//
//	position: vec2<f32>, size: vec2<f32>, rotation: f32,
//	flip: u32, opacity: f32, _pad: f32, multiply: vec4<f32>
type InstanceData struct {
	Position [2]float32
	Size     [2]float32
	Rotation float32 // radians, about the quad center
	Flip     uint32  // 1 flips the texture vertically
	Opacity  float32
	Multiply [4]float32
}

// Bytes returns the little-endian encoding.
func (d InstanceData) Bytes() []byte {
	return d.AppendBytes(make([]byte, 0, InstanceDataSize))
}

// AppendBytes appends the encoding to b, for building instance buffers.
func (d InstanceData) AppendBytes(b []byte) []byte {
	b = appendF32(b, d.Position[0])
	b = appendF32(b, d.Position[1])
	b = appendF32(b, d.Size[0])
	b = appendF32(b, d.Size[1])
	b = appendF32(b, d.Rotation)
	b = binary.LittleEndian.AppendUint32(b, d.Flip)
	b = appendF32(b, d.Opacity)
	b = appendF32(b, 0)
	for _, v := range d.Multiply {
		b = appendF32(b, v)
	}
	return b
}

// BlendUniform parameterizes one composite step.
//
// WGSL:
//
//	struct Blend {
//	    mode: i32, has_src: u32, has_dst: u32, opacity: f32,
//	    src: vec4<f32>, dst: vec4<f32>,
//	}
//
// Src and Dst are rectangles in normalized texture coordinates
// (min x, min y, max x, max y).
type BlendUniform struct {
	Mode    int32
	HasSrc  uint32
	HasDst  uint32
	Opacity float32
	Src     [4]float32
	Dst     [4]float32
}

// Bytes returns the little-endian encoding.
func (u BlendUniform) Bytes() []byte {
	b := make([]byte, 0, BlendUniformSize)
	b = binary.LittleEndian.AppendUint32(b, uint32(u.Mode))
	b = binary.LittleEndian.AppendUint32(b, u.HasSrc)
	b = binary.LittleEndian.AppendUint32(b, u.HasDst)
	b = appendF32(b, u.Opacity)
	for _, v := range u.Src {
		b = appendF32(b, v)
	}
	for _, v := range u.Dst {
		b = appendF32(b, v)
	}
	return b
}

// NormalizedRect converts a pixel rectangle into texture coordinates of a
// width by height texture.
func NormalizedRect(r image.Rectangle, width, height int) [4]float32 {
	w, h := float32(width), float32(height)
	return [4]float32{
		float32(r.Min.X) / w,
		float32(r.Min.Y) / h,
		float32(r.Max.X) / w,
		float32(r.Max.Y) / h,
	}
}

// StencilUniform parameterizes the selection overlay.
//
// WGSL:
//
//	struct Stencil {
//	    size: vec2<f32>, span: f32, time_step: f32,
//	    kind: u32, glow: u32, _pad: vec2<u32>,
//	    primary: vec4<f32>, secondary: vec4<f32>,
//	}
type StencilUniform struct {
	Size      [2]float32
	Span      float32
	TimeStep  float32
	Kind      uint32
	Glow      uint32
	Primary   [4]float32
	Secondary [4]float32
}

// Bytes returns the little-endian encoding.
func (u StencilUniform) Bytes() []byte {
	b := make([]byte, 0, StencilUniformSize)
	b = appendF32(b, u.Size[0])
	b = appendF32(b, u.Size[1])
	b = appendF32(b, u.Span)
	b = appendF32(b, u.TimeStep)
	b = binary.LittleEndian.AppendUint32(b, u.Kind)
	b = binary.LittleEndian.AppendUint32(b, u.Glow)
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = binary.LittleEndian.AppendUint32(b, 0)
	for _, v := range u.Primary {
		b = appendF32(b, v)
	}
	for _, v := range u.Secondary {
		b = appendF32(b, v)
	}
	return b
}

func appendF32(b []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements render.Backend on gogpu/wgpu HAL.
//
// Every layer surface is mirrored into an RGBA8 texture keyed by its
// surface handle. A frame then runs three kinds of render passes:
//
//	quad     place one layer on a canvas-sized scratch texture
//	blend    mix the placed layer into the accumulated composite
//	stencil  draw the selection boundary over the composite
//
// The composite ping-pongs between two accumulation textures, one blend
// pass per visible layer. Present copies the final texture to a mapped
// staging buffer and hands the rows to the target.
//
// The GPU path always recomposites the whole canvas; damage only limits
// texture uploads. Style.Frame of the selection overlay is ignored.
//
// WGSL sources are embedded from shaders/ and handed to the HAL, which
// translates them with naga for the active backend.
package gpu

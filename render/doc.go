// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render orchestrates the per-frame passes of the painting engine.
//
// A frame runs four passes in a fixed order:
//
//	PassBrush      apply queued pointer samples to layer surfaces (CPU)
//	PassComposite  stack visible layers into the composite target
//	PassSelection  draw the selection boundary over the composite
//	PassPresent    hand the finished frame to the Target
//
// The CPU surfaces are authoritative for document content. A Backend mirrors
// them and performs the composite, selection and present passes. Two
// backends exist:
//
//   - SoftwareBackend: CPU compositing on a worker pool
//   - the GPU backend in package gpu, built on gogpu/wgpu
//
// # Usage
//
//	backend, _ := render.NewSoftwareBackend(800, 600)
//	orch := render.NewOrchestrator(backend)
//	target := render.NewImageTarget(800, 600)
//
//	for running {
//	    if _, err := orch.Frame(ctx, scene, target); err != nil {
//	        return err
//	    }
//	}
//
// # Uniform layouts
//
// FrameUniforms, InstanceData and BlendUniform have fixed byte layouts
// matching the WGSL structs of the GPU backend. Their Bytes methods produce
// the little-endian buffers written to uniform and vertex buffers.
//
// # Bind groups
//
// Every pipeline follows the same convention: group 0 holds the diffuse
// texture and its sampler, group 1 holds the bottom layer (composite), the
// stencil mask (selection) or the frame uniforms (quad), and the last group
// holds the pass uniforms.
package render

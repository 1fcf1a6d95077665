// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint/render"
)

// canvasFormat is the format of every texture the passes render to.
const canvasFormat = gputypes.TextureFormatRGBA8Unorm

// pipelines holds the shared layouts, samplers and the three render
// pipelines. Created once per device.
type pipelines struct {
	device hal.Device

	textureLayout hal.BindGroupLayout // texture + sampler
	uniformLayout hal.BindGroupLayout // one uniform buffer

	quadLayout hal.PipelineLayout // texture, uniforms
	passLayout hal.PipelineLayout // texture, texture, uniforms

	linear  hal.Sampler
	nearest hal.Sampler

	modules []hal.ShaderModule

	quad    hal.RenderPipeline
	blend   hal.RenderPipeline
	stencil hal.RenderPipeline
}

func newPipelines(device hal.Device) (*pipelines, error) {
	p := &pipelines{device: device}
	if err := p.create(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

func (p *pipelines) create() error {
	var err error
	p.textureLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "paint_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    render.BindingTexture,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    render.BindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture layout: %w", err)
	}

	p.uniformLayout, err = p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "paint_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}

	p.quadLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "paint_quad_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.textureLayout, p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create quad pipeline layout: %w", err)
	}
	p.passLayout, err = p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "paint_pass_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.textureLayout, p.textureLayout, p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pass pipeline layout: %w", err)
	}

	if p.linear, err = p.sampler("paint_linear_sampler", gputypes.FilterModeLinear); err != nil {
		return err
	}
	if p.nearest, err = p.sampler("paint_nearest_sampler", gputypes.FilterModeNearest); err != nil {
		return err
	}

	if p.quad, err = p.pipeline("quad", p.quadLayout, quadVertexLayout()); err != nil {
		return err
	}
	if p.blend, err = p.pipeline("blend", p.passLayout, nil); err != nil {
		return err
	}
	if p.stencil, err = p.pipeline("stencil", p.passLayout, nil); err != nil {
		return err
	}
	return nil
}

func (p *pipelines) sampler(label string, filter gputypes.FilterMode) (hal.Sampler, error) {
	s, err := p.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label,
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return s, nil
}

// pipeline compiles the named shader and builds a pipeline writing straight
// RGBA8 without fixed-function blending; the shaders do their own mixing.
func (p *pipelines) pipeline(name string, layout hal.PipelineLayout, buffers []gputypes.VertexBufferLayout) (hal.RenderPipeline, error) {
	src, err := shaderSource(name)
	if err != nil {
		return nil, err
	}
	module, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "paint_" + name + "_shader",
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s shader: %w", name, err)
	}
	p.modules = append(p.modules, module)

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "paint_" + name + "_pipeline",
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers:    buffers,
		},
		Fragment: &hal.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    canvasFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", name, err)
	}
	return pipeline, nil
}

// quadVertexLayout describes render.InstanceData as a per-instance buffer.
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: render.InstanceDataSize,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // size
				{Format: gputypes.VertexFormatFloat32, Offset: 16, ShaderLocation: 2},   // rotation
				{Format: gputypes.VertexFormatUint32, Offset: 20, ShaderLocation: 3},    // flip
				{Format: gputypes.VertexFormatFloat32, Offset: 24, ShaderLocation: 4},   // opacity
				{Format: gputypes.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5}, // multiply
			},
		},
	}
}

// textureGroup binds a texture view with a sampler as group 0 or 1.
func (p *pipelines) textureGroup(label string, view hal.TextureView, sampler hal.Sampler) (hal.BindGroup, error) {
	g, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: p.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: render.BindingTexture, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: render.BindingSampler, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return g, nil
}

// uniformGroup binds a whole uniform buffer.
func (p *pipelines) uniformGroup(label string, buf hal.Buffer, size uint64) (hal.BindGroup, error) {
	g, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label,
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Size: size}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return g, nil
}

// destroy releases everything in reverse creation order.
func (p *pipelines) destroy() {
	for _, rp := range []*hal.RenderPipeline{&p.stencil, &p.blend, &p.quad} {
		if *rp != nil {
			p.device.DestroyRenderPipeline(*rp)
			*rp = nil
		}
	}
	for _, m := range p.modules {
		p.device.DestroyShaderModule(m)
	}
	p.modules = nil
	for _, s := range []*hal.Sampler{&p.nearest, &p.linear} {
		if *s != nil {
			p.device.DestroySampler(*s)
			*s = nil
		}
	}
	for _, l := range []*hal.PipelineLayout{&p.passLayout, &p.quadLayout} {
		if *l != nil {
			p.device.DestroyPipelineLayout(*l)
			*l = nil
		}
	}
	for _, l := range []*hal.BindGroupLayout{&p.uniformLayout, &p.textureLayout} {
		if *l != nil {
			p.device.DestroyBindGroupLayout(*l)
			*l = nil
		}
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint/surface"
)

// Texture usages.
const (
	layerUsage  = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	canvasUsage = gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopySrc
)

// texture is a 2D texture with its view and a texture+sampler bind group.
type texture struct {
	tex    hal.Texture
	view   hal.TextureView
	group  hal.BindGroup
	width  int
	height int
}

func (p *pipelines) newTexture(label string, w, h int, format gputypes.TextureFormat, usage gputypes.TextureUsage, sampler hal.Sampler) (*texture, error) {
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	group, err := p.textureGroup(label+"_group", view, sampler)
	if err != nil {
		p.device.DestroyTextureView(view)
		p.device.DestroyTexture(tex)
		return nil, err
	}
	return &texture{tex: tex, view: view, group: group, width: w, height: h}, nil
}

func (p *pipelines) destroyTexture(t *texture) {
	if t == nil {
		return
	}
	p.device.DestroyBindGroup(t.group)
	p.device.DestroyTextureView(t.view)
	p.device.DestroyTexture(t.tex)
}

// writeRegion uploads r of data laid out as tight rows of bpp-byte texels.
func writeRegion(queue hal.Queue, t *texture, r image.Rectangle, data []byte, bpp int) error {
	if r.Empty() {
		return nil
	}
	return queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture: t.tex,
			Origin:  hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y)},
			Aspect:  gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			BytesPerRow:  uint32(r.Dx() * bpp),
			RowsPerImage: uint32(r.Dy()),
		},
		&hal.Extent3D{Width: uint32(r.Dx()), Height: uint32(r.Dy()), DepthOrArrayLayers: 1},
	)
}

// layerCache mirrors layer surfaces as textures keyed by surface handle.
type layerCache struct {
	pipes   *pipelines
	queue   hal.Queue
	entries map[surface.Handle]*texture
}

func newLayerCache(p *pipelines, queue hal.Queue) *layerCache {
	return &layerCache{pipes: p, queue: queue, entries: make(map[surface.Handle]*texture)}
}

// sync uploads region of s to the texture of h, recreating the texture when
// the surface size changed. A new texture is uploaded in full.
func (c *layerCache) sync(h surface.Handle, s *surface.Surface, region image.Rectangle) error {
	t := c.entries[h]
	if t != nil && (t.width != s.Width() || t.height != s.Height()) {
		c.pipes.destroyTexture(t)
		delete(c.entries, h)
		t = nil
	}
	if t == nil {
		var err error
		t, err = c.pipes.newTexture("paint_layer_"+h.String(), s.Width(), s.Height(), canvasFormat, layerUsage, c.pipes.linear)
		if err != nil {
			return err
		}
		c.entries[h] = t
		region = s.Rect()
		slogger().Debug("gpu: layer texture created", "handle", h, "width", s.Width(), "height", s.Height())
	}
	region = region.Intersect(s.Rect())
	if region.Empty() {
		return nil
	}
	if err := writeRegion(c.queue, t, region, s.RegionBytes(region), 4); err != nil {
		return fmt.Errorf("upload %s: %w", h, err)
	}
	return nil
}

func (c *layerCache) get(h surface.Handle) *texture { return c.entries[h] }

// sweep destroys the textures of handles not in live.
func (c *layerCache) sweep(live map[surface.Handle]struct{}) {
	for h, t := range c.entries {
		if _, ok := live[h]; ok {
			continue
		}
		c.pipes.destroyTexture(t)
		delete(c.entries, h)
		slogger().Debug("gpu: layer texture released", "handle", h)
	}
}

func (c *layerCache) len() int { return len(c.entries) }

func (c *layerCache) destroy() {
	for h, t := range c.entries {
		c.pipes.destroyTexture(t)
		delete(c.entries, h)
	}
}

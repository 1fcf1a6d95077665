// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/paint/internal/stencil"
	"github.com/gogpu/paint/render"
	"github.com/gogpu/paint/surface"
)

// copyRowAlignment is the required BytesPerRow alignment of texture to
// buffer copies.
const copyRowAlignment = 256

// ErrInvalidSize is returned for a canvas without pixels.
var ErrInvalidSize = errors.New("gpu: canvas width and height must be positive")

// uniformSlot is a uniform buffer with its bind group.
type uniformSlot struct {
	buf   hal.Buffer
	group hal.BindGroup
}

// Backend implements render.Backend on a HAL device.
//
// Thread Safety: Backend is NOT thread-safe. All passes run on the render
// goroutine.
type Backend struct {
	device hal.Device
	queue  hal.Queue

	width, height int

	pipes  *pipelines
	layers *layerCache

	accum  [2]*texture // composite ping-pong
	placed *texture    // one layer placed on the canvas
	out    *texture    // composite plus selection overlay
	mask   *texture    // selection mask, r8

	frame   uniformSlot
	stencil uniformSlot
	blends  []uniformSlot

	instances   hal.Buffer
	instanceCap int

	staging hal.Buffer
	stride  uint32
	pix     []byte

	pending []hal.CommandBuffer // submitted, freed after the next wait

	front       *texture // what Present reads back
	final       int      // accum index holding the composite
	composited  bool
	maskLoaded  bool
	overlayOn   bool
	presentRect image.Rectangle

	release func()
	closed  bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithRelease registers fn to run after Close released the backend's
// resources, for callers that opened the device themselves.
func WithRelease(fn func()) Option {
	return func(b *Backend) {
		b.release = fn
	}
}

// New creates a backend for a width by height canvas on device. The device
// and queue stay owned by the caller.
func New(device hal.Device, queue hal.Queue, width, height int, opts ...Option) (*Backend, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if device == nil || queue == nil {
		return nil, errors.New("gpu: nil device or queue")
	}
	b := &Backend{
		device: device,
		queue:  queue,
		width:  width,
		height: height,
		stride: alignRow(uint32(width) * 4),
		pix:    make([]byte, width*height*4),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.init(); err != nil {
		b.destroy()
		return nil, err
	}
	slogger().Info("gpu: backend ready", "width", width, "height", height)
	return b, nil
}

func alignRow(n uint32) uint32 {
	return (n + copyRowAlignment - 1) / copyRowAlignment * copyRowAlignment
}

func (b *Backend) init() error {
	var err error
	if b.pipes, err = newPipelines(b.device); err != nil {
		return err
	}
	b.layers = newLayerCache(b.pipes, b.queue)

	for i := range b.accum {
		b.accum[i], err = b.pipes.newTexture(fmt.Sprintf("paint_accum_%d", i), b.width, b.height, canvasFormat, canvasUsage, b.pipes.nearest)
		if err != nil {
			return err
		}
	}
	if b.placed, err = b.pipes.newTexture("paint_placed", b.width, b.height, canvasFormat, canvasUsage, b.pipes.nearest); err != nil {
		return err
	}
	if b.out, err = b.pipes.newTexture("paint_out", b.width, b.height, canvasFormat, canvasUsage, b.pipes.nearest); err != nil {
		return err
	}
	b.mask, err = b.pipes.newTexture("paint_mask", b.width, b.height, gputypes.TextureFormatR8Unorm, layerUsage, b.pipes.nearest)
	if err != nil {
		return err
	}

	if b.frame, err = b.uniform("paint_frame", render.FrameUniformsSize); err != nil {
		return err
	}
	proj := render.FrameUniforms{ViewProj: ortho(float32(b.width), float32(b.height))}
	if err := b.queue.WriteBuffer(b.frame.buf, 0, proj.Bytes()); err != nil {
		return fmt.Errorf("write frame uniforms: %w", err)
	}
	if b.stencil, err = b.uniform("paint_stencil", render.StencilUniformSize); err != nil {
		return err
	}

	b.staging, err = b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "paint_staging",
		Size:  uint64(b.stride) * uint64(b.height),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	return nil
}

// ortho maps canvas pixels, y down, to clip space.
func ortho(w, h float32) [16]float32 {
	return [16]float32{
		2 / w, 0, 0, 0,
		0, -2 / h, 0, 0,
		0, 0, -0.5, 0,
		-1, 1, 0.5, 1,
	}
}

func (b *Backend) uniform(label string, size uint64) (uniformSlot, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return uniformSlot{}, fmt.Errorf("create %s buffer: %w", label, err)
	}
	group, err := b.pipes.uniformGroup(label+"_group", buf, size)
	if err != nil {
		b.device.DestroyBuffer(buf)
		return uniformSlot{}, err
	}
	return uniformSlot{buf: buf, group: group}, nil
}

// Name implements render.Backend.
func (b *Backend) Name() string { return "wgpu" }

// SetLogger routes the backend's diagnostics to l. Nil disables logging.
func (b *Backend) SetLogger(l *slog.Logger) { setLogger(l) }

// Textures returns the number of mirrored layer textures.
func (b *Backend) Textures() int { return b.layers.len() }

// Sync implements render.Backend. Layers placed with a transform or a
// source/destination region are uploaded whole; others only where dirty.
func (b *Backend) Sync(ctx context.Context, layers []render.Layer, dirty image.Rectangle) error {
	if b.closed {
		return render.ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	live := make(map[surface.Handle]struct{}, len(layers))
	for _, l := range layers {
		if l.Surface == nil {
			continue
		}
		live[l.Handle] = struct{}{}
		region := dirty
		if l.Transform != nil || l.Settings.Src != nil || l.Settings.Dst != nil {
			region = l.Surface.Rect()
		}
		if err := b.layers.sync(l.Handle, l.Surface, region); err != nil {
			return fmt.Errorf("gpu: sync: %w", err)
		}
	}
	b.layers.sweep(live)
	return nil
}

// draw is one visible layer of a composite pass.
type draw struct {
	tex   *texture
	blend render.BlendUniform
}

// Composite implements render.Backend. The whole canvas is recomposited.
func (b *Backend) Composite(ctx context.Context, layers []render.Layer, _ image.Rectangle) error {
	if b.closed {
		return render.ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var (
		draws     []draw
		instances []byte
	)
	for _, l := range layers {
		if !l.Visible || l.Opacity <= 0 || l.Surface == nil {
			continue
		}
		tex := b.layers.get(l.Handle)
		if tex == nil {
			return fmt.Errorf("gpu: composite: layer %s not synced", l.Handle)
		}
		u, ok := b.blendUniform(l)
		if !ok {
			continue
		}
		draws = append(draws, draw{tex: tex, blend: u})
		instances = l.Instance.AppendBytes(instances)
	}
	if err := b.upload(draws, instances); err != nil {
		return err
	}

	enc, err := b.begin("paint_composite")
	if err != nil {
		return err
	}
	clearPass(enc, b.accum[0])
	cur := 0
	for i, d := range draws {
		rp := beginPass(enc, b.placed, gputypes.LoadOpClear)
		rp.SetPipeline(b.pipes.quad)
		rp.SetBindGroup(render.GroupDiffuse, d.tex.group, nil)
		rp.SetBindGroup(render.GroupSecond, b.frame.group, nil)
		rp.SetVertexBuffer(0, b.instances, uint64(i*render.InstanceDataSize))
		rp.Draw(6, 1, 0, 0)
		rp.End()

		next := 1 - cur
		rp = beginPass(enc, b.accum[next], gputypes.LoadOpClear)
		rp.SetPipeline(b.pipes.blend)
		rp.SetBindGroup(render.GroupDiffuse, b.placed.group, nil)
		rp.SetBindGroup(render.GroupSecond, b.accum[cur].group, nil)
		rp.SetBindGroup(render.GroupUniforms, b.blends[i].group, nil)
		rp.Draw(3, 1, 0, 0)
		rp.End()
		cur = next
	}
	if err := b.submit(enc); err != nil {
		return fmt.Errorf("gpu: composite: %w", err)
	}

	b.final = cur
	b.composited = true
	b.front = b.accum[cur]
	b.presentRect = b.canvas()
	slogger().Debug("gpu: composite", "layers", len(draws))
	return nil
}

// blendUniform resolves the layer's regions the way the CPU compositor
// does: a lone source or destination region is used for both.
func (b *Backend) blendUniform(l render.Layer) (render.BlendUniform, bool) {
	u := render.BlendUniform{
		Mode:    int32(l.Settings.Mode),
		Opacity: min(l.Opacity, 1),
	}
	src, dst := l.Settings.Src, l.Settings.Dst
	switch {
	case src == nil && dst == nil:
		return u, true
	case src == nil:
		src = dst
	case dst == nil:
		dst = src
	}
	if src.Empty() || dst.Empty() {
		return u, false
	}
	u.HasSrc = 1
	if l.Settings.Src == nil {
		u.HasSrc = 0
	}
	u.HasDst = 1
	u.Src = render.NormalizedRect(*src, b.width, b.height)
	u.Dst = render.NormalizedRect(*dst, b.width, b.height)
	return u, true
}

// upload writes the instance records and one blend uniform buffer per draw.
// Uniform buffers are not shared because every write lands before the
// single submit.
func (b *Backend) upload(draws []draw, instances []byte) error {
	if len(draws) == 0 {
		return nil
	}
	if len(draws) > b.instanceCap {
		if b.instances != nil {
			b.device.DestroyBuffer(b.instances)
		}
		n := max(len(draws), 2*b.instanceCap)
		buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "paint_instances",
			Size:  uint64(n * render.InstanceDataSize),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			b.instances, b.instanceCap = nil, 0
			return fmt.Errorf("gpu: create instance buffer: %w", err)
		}
		b.instances, b.instanceCap = buf, n
	}
	if err := b.queue.WriteBuffer(b.instances, 0, instances); err != nil {
		return fmt.Errorf("gpu: write instances: %w", err)
	}
	for len(b.blends) < len(draws) {
		slot, err := b.uniform(fmt.Sprintf("paint_blend_%d", len(b.blends)), render.BlendUniformSize)
		if err != nil {
			return fmt.Errorf("gpu: %w", err)
		}
		b.blends = append(b.blends, slot)
	}
	for i, d := range draws {
		if err := b.queue.WriteBuffer(b.blends[i].buf, 0, d.blend.Bytes()); err != nil {
			return fmt.Errorf("gpu: write blend uniforms: %w", err)
		}
	}
	return nil
}

// Overlay implements render.Backend. Without a selection Present reads the
// composite directly.
func (b *Backend) Overlay(ctx context.Context, sel render.Selection) error {
	if b.closed {
		return render.ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !b.composited {
		return nil
	}
	if !sel.Active() {
		if b.overlayOn {
			b.presentRect = b.canvas()
		}
		b.overlayOn = false
		b.front = b.accum[b.final]
		return nil
	}

	if sel.Changed || !b.maskLoaded {
		if sel.Mask.Width() != b.width || sel.Mask.Height() != b.height {
			return fmt.Errorf("gpu: selection mask is %dx%d, canvas is %dx%d",
				sel.Mask.Width(), sel.Mask.Height(), b.width, b.height)
		}
		if err := writeRegion(b.queue, b.mask, b.canvas(), sel.Mask.Bytes(), 1); err != nil {
			return fmt.Errorf("gpu: upload selection mask: %w", err)
		}
		b.maskLoaded = true
	}
	if err := b.queue.WriteBuffer(b.stencil.buf, 0, b.stencilUniform(sel.Style).Bytes()); err != nil {
		return fmt.Errorf("gpu: write stencil uniforms: %w", err)
	}

	enc, err := b.begin("paint_selection")
	if err != nil {
		return err
	}
	rp := beginPass(enc, b.out, gputypes.LoadOpClear)
	rp.SetPipeline(b.pipes.stencil)
	rp.SetBindGroup(render.GroupDiffuse, b.accum[b.final].group, nil)
	rp.SetBindGroup(render.GroupSecond, b.mask.group, nil)
	rp.SetBindGroup(render.GroupUniforms, b.stencil.group, nil)
	rp.Draw(3, 1, 0, 0)
	rp.End()
	if err := b.submit(enc); err != nil {
		return fmt.Errorf("gpu: selection: %w", err)
	}

	b.front = b.out
	b.overlayOn = true
	b.presentRect = b.canvas()
	return nil
}

func (b *Backend) stencilUniform(s stencil.Style) render.StencilUniform {
	span := s.Span
	if span <= 0 {
		span = stencil.DefaultSpan
	}
	u := render.StencilUniform{
		Size:      [2]float32{float32(b.width), float32(b.height)},
		Span:      span,
		TimeStep:  s.TimeStep,
		Kind:      uint32(s.Kind),
		Primary:   [4]float32{s.Primary.R, s.Primary.G, s.Primary.B, s.Primary.A},
		Secondary: [4]float32{s.Secondary.R, s.Secondary.G, s.Secondary.B, s.Secondary.A},
	}
	if s.Glow {
		u.Glow = 1
	}
	return u
}

// Present implements render.Backend. The front texture is copied to the
// staging buffer, and the frame is delivered once the GPU is idle.
func (b *Backend) Present(ctx context.Context, target render.Target) error {
	if b.closed {
		return render.ErrBackendClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dirty := b.presentRect
	if dirty.Empty() || target == nil || b.front == nil {
		return nil
	}

	enc, err := b.begin("paint_present")
	if err != nil {
		return err
	}
	enc.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.front.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	enc.CopyTextureToBuffer(b.front.tex, b.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{BytesPerRow: b.stride, RowsPerImage: uint32(b.height)},
		TextureBase:  hal.ImageCopyTexture{Texture: b.front.tex, Aspect: gputypes.TextureAspectAll},
		Size:         hal.Extent3D{Width: uint32(b.width), Height: uint32(b.height), DepthOrArrayLayers: 1},
	}})
	if err := b.submit(enc); err != nil {
		return fmt.Errorf("gpu: present: %w", err)
	}
	if err := b.wait(); err != nil {
		return fmt.Errorf("gpu: present: %w", err)
	}
	if err := b.readback(); err != nil {
		return fmt.Errorf("gpu: present: %w", err)
	}

	b.presentRect = image.Rectangle{}
	return target.Present(render.Output{
		Width:  b.width,
		Height: b.height,
		Pix:    b.pix,
		Dirty:  dirty,
	})
}

// readback copies the staging rows into the tight output buffer.
func (b *Backend) readback() error {
	size := uint64(b.stride) * uint64(b.height)
	m, err := b.device.MapBuffer(b.staging, 0, size)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	mapped := unsafe.Slice((*byte)(m.Ptr), size)
	row := b.width * 4
	for y := range b.height {
		off := y * int(b.stride)
		copy(b.pix[y*row:(y+1)*row], mapped[off:off+row])
	}
	return b.device.UnmapBuffer(b.staging)
}

func (b *Backend) canvas() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

func (b *Backend) begin(label string) (hal.CommandEncoder, error) {
	enc, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("gpu: begin encoding: %w", err)
	}
	return enc, nil
}

func (b *Backend) submit(enc hal.CommandEncoder) error {
	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	if _, err := b.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		b.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("submit: %w", err)
	}
	b.pending = append(b.pending, cmd)
	return nil
}

// wait blocks until the GPU is idle and frees submitted command buffers.
func (b *Backend) wait() error {
	if err := b.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait for GPU: %w", err)
	}
	for _, cmd := range b.pending {
		b.device.FreeCommandBuffer(cmd)
	}
	b.pending = b.pending[:0]
	return nil
}

func beginPass(enc hal.CommandEncoder, t *texture, load gputypes.LoadOp) hal.RenderPassEncoder {
	return enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "paint_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       t.view,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
			},
		},
	})
}

// clearPass clears t to transparent.
func clearPass(enc hal.CommandEncoder, t *texture) {
	beginPass(enc, t, gputypes.LoadOpClear).End()
}

// Close implements render.Backend.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	err := b.wait()
	b.destroy()
	if b.release != nil {
		b.release()
	}
	slogger().Info("gpu: backend closed")
	return err
}

// destroy releases every resource created so far.
func (b *Backend) destroy() {
	for _, cmd := range b.pending {
		b.device.FreeCommandBuffer(cmd)
	}
	b.pending = nil
	if b.staging != nil {
		b.device.DestroyBuffer(b.staging)
		b.staging = nil
	}
	if b.instances != nil {
		b.device.DestroyBuffer(b.instances)
		b.instances = nil
	}
	for _, s := range append(b.blends, b.frame, b.stencil) {
		if s.group != nil {
			b.device.DestroyBindGroup(s.group)
		}
		if s.buf != nil {
			b.device.DestroyBuffer(s.buf)
		}
	}
	b.blends = nil
	b.frame, b.stencil = uniformSlot{}, uniformSlot{}
	if b.pipes == nil {
		return
	}
	if b.layers != nil {
		b.layers.destroy()
	}
	for _, t := range []*texture{b.accum[0], b.accum[1], b.placed, b.out, b.mask} {
		b.pipes.destroyTexture(t)
	}
	b.accum = [2]*texture{}
	b.placed, b.out, b.mask, b.front = nil, nil, nil, nil
	b.pipes.destroy()
	b.pipes = nil
}

var _ render.Backend = (*Backend)(nil)

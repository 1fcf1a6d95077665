// Package composite stacks layer surfaces into one output surface.
//
// Layers are applied bottom to top. Each step mixes the layer color into
// the accumulated color with the layer's blend mode and lays it over with
// alpha opacity*layer.alpha (see blend.Mix). Source surfaces are only read;
// the output region is cleared first, so compositing the same inputs twice
// gives the same result.
package composite

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/gogpu/paint/internal/blend"
	"github.com/gogpu/paint/internal/parallel"
	"github.com/gogpu/paint/surface"
)

// minBandRows keeps bands large enough to amortize scheduling.
const minBandRows = 16

// Settings configures how one layer is mixed into the output.
//
// Src selects a region of the layer and Dst the region of the output it maps
// onto; the region is scaled nearest-neighbor when the sizes differ. A nil
// Src defaults to Dst and a nil Dst to Src; with both nil the layer maps
// one-to-one onto the output.
type Settings struct {
	Mode blend.Mode
	Src  *image.Rectangle
	Dst  *image.Rectangle
}

// Layer is a read-only view of one layer for a composite pass.
type Layer struct {
	Surface  *surface.Surface
	Settings Settings
	Opacity  float32
	Visible  bool

	// Transform maps layer pixels into output pixels. Nil means identity.
	Transform *f64.Aff3
}

// Compositor composites layer stacks, optionally in parallel.
type Compositor struct {
	pool    *parallel.WorkerPool
	scratch *surface.Pool
}

// New creates a compositor. A nil pool composites on the calling goroutine.
func New(pool *parallel.WorkerPool) *Compositor {
	return &Compositor{
		pool:    pool,
		scratch: surface.NewPool(4),
	}
}

// Composite writes the stack of layers into region of dst and returns the
// region actually written. An empty region means the whole output.
func (c *Compositor) Composite(dst *surface.Surface, layers []Layer, region image.Rectangle) image.Rectangle {
	if region.Empty() {
		region = dst.Rect()
	}
	region = region.Intersect(dst.Rect())
	if region.Empty() {
		return region
	}

	plan := make([]prepared, 0, len(layers))
	for _, l := range layers {
		if !l.Visible || l.Opacity <= 0 || l.Surface == nil {
			continue
		}
		p, ok := c.prepare(dst, l)
		if ok {
			plan = append(plan, p)
		}
	}
	defer func() {
		for _, p := range plan {
			if p.owned {
				c.scratch.Put(p.src)
			}
		}
	}()

	run := func(y0, y1 int) {
		band := image.Rect(region.Min.X, y0, region.Max.X, y1)
		dst.FillRect(band, surface.Transparent)
		for _, p := range plan {
			mixInto(dst, p, band)
		}
	}
	if c.pool != nil {
		c.pool.Rows(region.Min.Y, region.Max.Y, minBandRows, run)
	} else {
		run(region.Min.Y, region.Max.Y)
	}
	return region
}

// prepared is a layer resolved to output-space source and rectangles.
type prepared struct {
	src     *surface.Surface
	owned   bool
	mode    blend.Mode
	opacity float32
	srcRect image.Rectangle
	dstRect image.Rectangle
}

func (c *Compositor) prepare(dst *surface.Surface, l Layer) (prepared, bool) {
	p := prepared{
		src:     l.Surface,
		mode:    l.Settings.Mode,
		opacity: min(l.Opacity, 1),
	}
	if l.Transform != nil && !isIdentity(*l.Transform) {
		s, err := c.scratch.Get(dst.Width(), dst.Height())
		if err != nil {
			return p, false
		}
		draw.ApproxBiLinear.Transform(s, *l.Transform, l.Surface, l.Surface.Rect(), draw.Src, nil)
		p.src = s
		p.owned = true
	}

	full := p.src.Rect()
	switch {
	case l.Settings.Src != nil && l.Settings.Dst != nil:
		p.srcRect, p.dstRect = *l.Settings.Src, *l.Settings.Dst
	case l.Settings.Src != nil:
		p.srcRect, p.dstRect = *l.Settings.Src, *l.Settings.Src
	case l.Settings.Dst != nil:
		p.srcRect, p.dstRect = *l.Settings.Dst, *l.Settings.Dst
	default:
		p.srcRect, p.dstRect = full, full
	}
	if p.srcRect.Empty() || p.dstRect.Empty() {
		return p, false
	}
	return p, true
}

func mixInto(dst *surface.Surface, p prepared, band image.Rectangle) {
	r := p.dstRect.Intersect(band)
	if r.Empty() {
		return
	}
	sw, sh := p.srcRect.Dx(), p.srcRect.Dy()
	dw, dh := p.dstRect.Dx(), p.dstRect.Dy()
	scaled := sw != dw || sh != dh

	for y := r.Min.Y; y < r.Max.Y; y++ {
		sy := p.srcRect.Min.Y + (y - p.dstRect.Min.Y)
		if scaled {
			sy = p.srcRect.Min.Y + (y-p.dstRect.Min.Y)*sh/dh
		}
		if sy < 0 || sy >= p.src.Height() {
			continue
		}
		srow := p.src.Row(sy)
		drow := dst.Row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			sx := p.srcRect.Min.X + (x - p.dstRect.Min.X)
			if scaled {
				sx = p.srcRect.Min.X + (x-p.dstRect.Min.X)*sw/dw
			}
			if sx < 0 || sx >= p.src.Width() {
				continue
			}
			top := srow[sx]
			if top.A <= 0 {
				continue
			}
			drow[x] = blend.Mix(p.mode, drow[x], top, p.opacity)
		}
	}
}

func isIdentity(m f64.Aff3) bool {
	return m == f64.Aff3{1, 0, 0, 0, 1, 0}
}

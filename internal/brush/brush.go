// Package brush implements the stamping brush: the radial falloff, stamp
// rasterization onto a surface, the pointer-sample to stamp conversion and
// the per-frame sample queue.
package brush

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/paint/internal/blend"
	"github.com/gogpu/paint/surface"
)

// Stamp is a single circular paint application. Stamps are values and are
// never modified after they are issued.
type Stamp struct {
	X, Y       float32 // center in surface pixels; pixel (i, j) covers [i, i+1)
	Radius     float32
	Smoothness float32
	Opacity    float32
	Color      surface.RGBA
	Eraser     bool
}

// Bounds returns the pixel rectangle covered by the stamp's circle.
func (s Stamp) Bounds() image.Rectangle {
	if s.Radius <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(
		int(math32.Floor(s.X-s.Radius)),
		int(math32.Floor(s.Y-s.Radius)),
		int(math32.Ceil(s.X+s.Radius)),
		int(math32.Ceil(s.Y+s.Radius)),
	)
}

// Falloff returns the stamp alpha at normalized distance x from the center
// (0 at the center, 1 at the rim):
//
//	r = 0.5 - 0.5x
//	b = 1 - (x(2-2r) + x^2(2r-1))
//	alpha = b^smoothness
//
// Smoothness 1 gives the soft default; larger values sharpen the edge.
func Falloff(x, smoothness float32) float32 {
	x = math32.Min(math32.Max(x, 0), 1)
	r := 0.5 - 0.5*x
	b := 1 - (x*(2-2*r) + x*x*(2*r-1))
	if b <= 0 {
		return 0
	}
	if smoothness == 1 {
		return b
	}
	return math32.Pow(b, smoothness)
}

// Apply rasterizes s onto dst and returns the rectangle of pixels whose value
// changed coverage. Pixels are sampled at their centers. tip, if not nil,
// modulates coverage with a brush texture stretched over the stamp's box.
//
// The per-pixel coverage is tip.alpha * color.A * opacity * falloff; paint
// stamps are laid over the pixel with the over operator, eraser stamps remove
// that much alpha.
func Apply(dst *surface.Surface, s Stamp, tip *surface.Mask) image.Rectangle {
	box := s.Bounds().Intersect(dst.Rect())
	if box.Empty() || s.Opacity <= 0 {
		return image.Rectangle{}
	}

	base := s.Color.A * s.Opacity
	if base <= 0 {
		return image.Rectangle{}
	}
	invR := 1 / s.Radius

	var touched image.Rectangle
	for y := box.Min.Y; y < box.Max.Y; y++ {
		row := dst.Row(y)
		dy := float32(y) + 0.5 - s.Y
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float32(x) + 0.5 - s.X
			d := math32.Sqrt(dx*dx+dy*dy) * invR
			if d >= 1 {
				continue
			}
			a := base * Falloff(d, s.Smoothness)
			if tip != nil {
				a *= sampleTip(tip, dx*invR, dy*invR)
			}
			if a <= 0 {
				continue
			}
			if s.Eraser {
				row[x] = blend.Erase(row[x], a)
			} else {
				paint := s.Color
				paint.A = a
				row[x] = blend.OverRGBA(paint, row[x])
			}
			touched = touched.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return touched
}

// sampleTip reads the tip texture at the stamp-local offset (u, v) in [-1, 1].
func sampleTip(tip *surface.Mask, u, v float32) float32 {
	tx := int((u + 1) * 0.5 * float32(tip.Width()))
	ty := int((v + 1) * 0.5 * float32(tip.Height()))
	return tip.Clamped(tx, ty)
}

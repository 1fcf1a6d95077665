package stencil

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/paint/internal/blend"
	"github.com/gogpu/paint/surface"
)

// Kind selects how boundary texels are drawn.
type Kind uint8

const (
	// KindAnts draws animated two-color dashes.
	KindAnts Kind = iota
	// KindDotted draws a uniform border in the primary color.
	KindDotted
)

// Style configures an overlay. It is passed by value.
type Style struct {
	Kind Kind

	// Span is the dash length; zero means DefaultSpan.
	Span float32

	// TimeStep shifts the dash phase. Advancing it every frame animates the ants.
	TimeStep float32

	// Primary colors the "on" dashes, or the whole border for KindDotted.
	Primary surface.RGBA

	// Secondary colors the "off" dashes of KindAnts.
	Secondary surface.RGBA

	// Glow scales the dotted border alpha by the boundary magnitude.
	Glow bool

	// Frame, if non-empty, restricts drawing to texels within Span of the
	// frame's edges.
	Frame image.Rectangle
}

// DefaultStyle returns black and white marching ants.
func DefaultStyle() Style {
	return Style{
		Kind:      KindAnts,
		Span:      DefaultSpan,
		Primary:   surface.RGBA{A: 1},
		Secondary: surface.RGBA{R: 1, G: 1, B: 1, A: 1},
	}
}

// Overlay draws the boundary of mask onto dst and returns the rectangle that
// was touched. The mask must have the canvas size; no resampling happens.
func Overlay(dst *surface.Surface, mask *surface.Mask, style Style) (image.Rectangle, error) {
	if dst.Width() != mask.Width() || dst.Height() != mask.Height() {
		return image.Rectangle{}, fmt.Errorf("%w: mask %dx%d, canvas %dx%d", ErrDimensionMismatch,
			mask.Width(), mask.Height(), dst.Width(), dst.Height())
	}
	span := style.Span
	if span <= 0 {
		span = DefaultSpan
	}

	// Boundary texels lie on or next to selected texels.
	region := mask.Bounds()
	if region.Empty() {
		return image.Rectangle{}, nil
	}
	region = region.Inset(-1).Intersect(dst.Rect())

	var touched image.Rectangle
	for y := region.Min.Y; y < region.Max.Y; y++ {
		row := dst.Row(y)
		for x := region.Min.X; x < region.Max.X; x++ {
			s := signal(mask, x, y)
			if s == 0 {
				continue
			}
			if !style.Frame.Empty() && !inFrame(style.Frame, x, y, span) {
				continue
			}
			row[x] = blend.OverRGBA(style.color(float32(x), float32(y), s, span), row[x])
			touched = touched.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return touched, nil
}

func (st Style) color(x, y, s, span float32) surface.RGBA {
	switch st.Kind {
	case KindDotted:
		c := st.Primary
		if st.Glow {
			c.A *= math32.Min(math32.Abs(s), 1)
		}
		return c
	default:
		if Ants(x, y, span, st.TimeStep) == 1 {
			return st.Primary
		}
		return st.Secondary
	}
}

func inFrame(r image.Rectangle, x, y int, span float32) bool {
	if !(image.Point{X: x, Y: y}).In(r) {
		return false
	}
	lx := float32(x - r.Min.X)
	ly := float32(y - r.Min.Y)
	return NearEdge(lx, ly, float32(r.Dx()), float32(r.Dy()), span)
}

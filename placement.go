package paint

import (
	"github.com/gogpu/paint/render"
)

// Placement positions a layer on the canvas.
//
// The layer's pixels are scaled to Size, rotated by Rotation radians about
// the center of that box and moved so the box's top-left corner sits at
// Position. FlipY mirrors the layer vertically before everything else.
// The zero Placement means "cover the canvas one to one".
type Placement struct {
	Position Point
	Size     Point
	Rotation float64
	FlipY    bool
}

// IsZero reports whether p is the default placement.
func (p Placement) IsZero() bool { return p == Placement{} }

// Matrix maps layer pixel coordinates of a w by h layer into canvas pixels:
// flip, then scale, then rotate about the center, then translate.
func (p Placement) Matrix(w, h int) Matrix {
	if p.IsZero() || w <= 0 || h <= 0 {
		return Identity()
	}
	size := p.Size
	if size.X == 0 || size.Y == 0 {
		size = Pt(float64(w), float64(h))
	}
	m := Scale(size.X/float64(w), size.Y/float64(h))
	if p.FlipY {
		m = m.Multiply(Translate(0, float64(h)).Multiply(Scale(1, -1)))
	}
	if p.Rotation != 0 {
		cx, cy := size.X/2, size.Y/2
		m = Translate(cx, cy).Multiply(Rotate(p.Rotation)).Multiply(Translate(-cx, -cy)).Multiply(m)
	}
	return Translate(p.Position.X, p.Position.Y).Multiply(m)
}

// Instance converts the placement into the quad instance record drawn by the
// GPU backend for a w by h layer.
func (p Placement) Instance(w, h int, opacity float32, multiply RGBA) render.InstanceData {
	size := p.Size
	if p.IsZero() || size.X == 0 || size.Y == 0 {
		size = Pt(float64(w), float64(h))
	}
	var flip uint32
	if p.FlipY {
		flip = 1
	}
	return render.InstanceData{
		Position: [2]float32{float32(p.Position.X), float32(p.Position.Y)},
		Size:     [2]float32{float32(size.X), float32(size.Y)},
		Rotation: float32(p.Rotation),
		Flip:     flip,
		Opacity:  opacity,
		Multiply: [4]float32{multiply.R, multiply.G, multiply.B, multiply.A},
	}
}

// Ortho returns a column-major orthographic projection for WebGPU clip space
// (depth in [0, 1]). Ortho(0, w, h, 0, -1, 1) maps canvas pixels with y down.
func Ortho(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, 1 / (near - far), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), near / (near - far), 1,
	}
}

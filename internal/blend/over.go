package blend

import "github.com/gogpu/paint/surface"

// Over composites a straight top color over a straight bottom color:
//
//	outA = ta + ba(1-ta)
//	outC = (tc*ta + bc*ba*(1-ta)) / outA
//
// Zero total alpha yields transparent black.
func Over(top RGB, ta float32, bottom RGB, ba float32) (RGB, float32) {
	inv := 1 - ta
	outA := ta + ba*inv
	if outA <= 0 {
		return RGB{}, 0
	}
	wb := ba * inv
	return RGB{
		R: (top.R*ta + bottom.R*wb) / outA,
		G: (top.G*ta + bottom.G*wb) / outA,
		B: (top.B*ta + bottom.B*wb) / outA,
	}, outA
}

// OverRGBA is Over on full colors.
func OverRGBA(top, bottom surface.RGBA) surface.RGBA {
	c, a := Over(FromRGBA(top), top.A, FromRGBA(bottom), bottom.A)
	return c.WithAlpha(a)
}

// Mix performs one compositing step: the top color is blended with the
// bottom by mode and the result is laid over the bottom with alpha
// opacity*top.A:
//
//	over(blend(mode, bottom, top), opacity*top.A, bottom, bottom.A)
func Mix(mode Mode, bottom, top surface.RGBA, opacity float32) surface.RGBA {
	ta := opacity * top.A
	if ta <= 0 {
		return bottom
	}
	b := FromRGBA(bottom)
	c, a := Over(Blend(mode, b, FromRGBA(top)), ta, b, bottom.A)
	return c.WithAlpha(a)
}

// Erase removes coverage a from c, keeping its color.
func Erase(c surface.RGBA, a float32) surface.RGBA {
	c.A *= 1 - clamp(a)
	if c.A <= 0 {
		return surface.Transparent
	}
	return c
}

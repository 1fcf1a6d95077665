package paint

import "github.com/gogpu/paint/internal/blend"

// BlendMode selects how a layer's color combines with the layers below.
type BlendMode = blend.Mode

// Blend modes.
const (
	BlendNormal     = blend.Normal
	BlendMultiply   = blend.Multiply
	BlendScreen     = blend.Screen
	BlendOverlay    = blend.Overlay
	BlendSoftLight  = blend.SoftLight
	BlendColorDodge = blend.ColorDodge
	BlendColorBurn  = blend.ColorBurn
	BlendAdd        = blend.Add
	BlendDiv        = blend.Div
	BlendSub        = blend.Sub
	BlendDifference = blend.Difference
	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
)

// ParseBlendMode looks a mode up by name ("multiply", "soft-light", ...).
func ParseBlendMode(name string) (BlendMode, error) {
	return blend.ParseMode(name)
}

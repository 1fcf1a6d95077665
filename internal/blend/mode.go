package blend

import (
	"fmt"
	"strings"
)

// Mode selects a blend function. The numeric values are part of the GPU
// uniform layout and must not be reordered.
type Mode uint8

// Blend modes, in uniform index order.
const (
	Normal     Mode = iota // t
	Multiply               // b * t
	Screen                 // 1 - (1-b)(1-t)
	Overlay                // b<0.5 ? 2bt : 1-2(1-b)(1-t)
	SoftLight              // (1-2t)b^2 + 2tb
	ColorDodge             // b / (1-t)
	ColorBurn              // 1 - b/t
	Add                    // b + t
	Div                    // b / t
	Sub                    // b - t
	Difference             // |b - t|
	Darken                 // min(b, t)
	Lighten                // max(b, t)

	modeCount
)

var modeNames = [modeCount]string{
	"normal", "multiply", "screen", "overlay", "soft-light", "color-dodge",
	"color-burn", "add", "div", "sub", "difference", "darken", "lighten",
}

// Modes returns every valid mode in index order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool { return m < modeCount }

// Index returns the integer written to GPU uniforms.
func (m Mode) Index() int32 { return int32(m) }

// String implements fmt.Stringer.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ModeFromIndex converts a uniform index back into a Mode.
// The second result is false for out-of-range values.
func ModeFromIndex(i int32) (Mode, bool) {
	if i < 0 || i >= int32(modeCount) {
		return Normal, false
	}
	return Mode(i), true
}

// ParseMode looks a mode up by name, case-insensitively. Both "soft-light"
// and "softlight" are accepted.
func ParseMode(name string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range modeNames {
		if key == n || key == strings.ReplaceAll(n, "-", "") {
			return Mode(i), nil
		}
	}
	return Normal, fmt.Errorf("blend: unknown mode %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("blend: invalid mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

package paint

import "testing"

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#ff0000", Red},
		{"00ff00", Green},
		{"#00F", Blue},
		{"#fff8", RGBA2(1, 1, 1, float32(0x88)/255)},
		{"000000ff", Black},
		{"#80000000", RGBA2(float32(0x80)/255, 0, 0, 0)},
		{"", Black},
		{"#12345", Black},
		{"zzzzzz", Black},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float32
		want    RGBA
	}{
		{0, 1, 0.5, Red},
		{120, 1, 0.5, Green},
		{240, 1, 0.5, Blue},
		{-240, 1, 0.5, Green},
		{0, 0, 1, White},
	}
	for _, tt := range tests {
		if got := HSL(tt.h, tt.s, tt.l); !nearColor(got, tt.want) {
			t.Errorf("HSL(%v, %v, %v) = %v, want %v", tt.h, tt.s, tt.l, got, tt.want)
		}
	}
}

func TestParseBlendMode(t *testing.T) {
	for _, name := range []string{"normal", "multiply", "screen", "overlay", "darken", "lighten"} {
		m, err := ParseBlendMode(name)
		if err != nil {
			t.Errorf("ParseBlendMode(%q) error = %v", name, err)
			continue
		}
		if m.String() != name {
			t.Errorf("ParseBlendMode(%q).String() = %q", name, m.String())
		}
	}
	if _, err := ParseBlendMode("dodge"); err == nil {
		t.Error("ParseBlendMode(\"dodge\") error = nil")
	}
}

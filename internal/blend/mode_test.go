package blend

import "testing"

func TestModeIndices(t *testing.T) {
	tests := []struct {
		mode Mode
		want int32
	}{
		{Normal, 0}, {Multiply, 1}, {Screen, 2}, {Overlay, 3}, {SoftLight, 4},
		{ColorDodge, 5}, {ColorBurn, 6}, {Add, 7}, {Div, 8}, {Sub, 9},
		{Difference, 10}, {Darken, 11}, {Lighten, 12},
	}
	for _, tt := range tests {
		if got := tt.mode.Index(); got != tt.want {
			t.Errorf("%v.Index() = %d, want %d", tt.mode, got, tt.want)
		}
		m, ok := ModeFromIndex(tt.want)
		if !ok || m != tt.mode {
			t.Errorf("ModeFromIndex(%d) = %v, %v, want %v, true", tt.want, m, ok, tt.mode)
		}
	}
	if _, ok := ModeFromIndex(13); ok {
		t.Error("ModeFromIndex(13) ok = true")
	}
	if _, ok := ModeFromIndex(-1); ok {
		t.Error("ModeFromIndex(-1) ok = true")
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"normal", Normal, false},
		{"Multiply", Multiply, false},
		{"soft-light", SoftLight, false},
		{"softlight", SoftLight, false},
		{" color-dodge ", ColorDodge, false},
		{"hue", Normal, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestModeText(t *testing.T) {
	var m Mode
	if err := m.UnmarshalText([]byte("difference")); err != nil || m != Difference {
		t.Fatalf("UnmarshalText() = %v, %v", m, err)
	}
	b, err := Lighten.MarshalText()
	if err != nil || string(b) != "lighten" {
		t.Errorf("MarshalText() = %q, %v", b, err)
	}
	if _, err := Mode(99).MarshalText(); err == nil {
		t.Error("MarshalText(invalid) error = nil")
	}
	if got := Mode(99).String(); got != "Mode(99)" {
		t.Errorf("String() = %q, want Mode(99)", got)
	}
}

package main

import (
	"context"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/paint"
)

const sessionTOML = `
width = 64
height = 48
backend = "software"
background = "#ff0000"

[brush]
color = "#00ff00"
max_size = 12

[[layers]]
name = "wash"
blend = "multiply"
opacity = 0.5
fill = "#0000ff"

[[strokes]]
layer = "Layer 0"
points = [[4, 4], [20, 4, 0.5], [40, 4]]

[selection]
rect = [8, 8, 24, 24]
dotted = true
`

func TestParseConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, ParseConfig([]byte(sessionTOML), &cfg))

	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
	assert.Equal(t, "paint.png", cfg.Output, "unset keys keep defaults")
	assert.Equal(t, float32(12), cfg.Brush.MaxSize)
	assert.Equal(t, paint.DefaultBrush().MinSize, cfg.Brush.MinSize)
	require.Len(t, cfg.Layers, 1)
	assert.Equal(t, "multiply", cfg.Layers[0].Blend)
	require.Len(t, cfg.Strokes, 1)
	assert.Len(t, cfg.Strokes[0].Points, 3)
	require.NotNil(t, cfg.Selection)
	assert.True(t, cfg.Selection.Dotted)

	b := cfg.BrushSettings()
	assert.Equal(t, paint.Green, b.Color)
}

func TestParseConfigRejectsUnknownKeys(t *testing.T) {
	cfg := DefaultConfig()
	err := ParseConfig([]byte("widht = 10\n"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "widht")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"backend", func(c *Config) { c.Backend = "metal" }},
		{"frames", func(c *Config) { c.Frames = 0 }},
		{"scale", func(c *Config) { c.Scale = -1 }},
		{"blend", func(c *Config) { c.Layers = []LayerConfig{{Blend: "dodge"}} }},
		{"empty stroke", func(c *Config) { c.Strokes = []StrokeConfig{{}} }},
		{"short point", func(c *Config) { c.Strokes = []StrokeConfig{{Points: [][]float64{{1}}}} }},
		{"empty selection", func(c *Config) { c.Selection = &SelectionConfig{Rect: [4]int{4, 4, 4, 8}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestRunWritesPNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.toml")
	require.NoError(t, os.WriteFile(path, []byte(sessionTOML), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	cfg.Output = filepath.Join(dir, "out.png")
	cfg.Scale = 0.5

	logger := slog.New(slog.DiscardHandler)
	require.NoError(t, run(context.Background(), cfg, logger))

	f, err := os.Open(cfg.Output)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 24, img.Bounds().Dy())
}

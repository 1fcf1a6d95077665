package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/paint"
)

// Config describes one demo run. Every field has a default, so a config
// file only lists what it changes.
type Config struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	Output  string  `toml:"output"`
	Backend string  `toml:"backend"` // software, wgpu or auto
	Workers int     `toml:"workers"`
	Frames  int     `toml:"frames"`
	Scale   float64 `toml:"scale"` // output image scale

	Background string `toml:"background"`

	Brush     BrushConfig      `toml:"brush"`
	Layers    []LayerConfig    `toml:"layers"`
	Strokes   []StrokeConfig   `toml:"strokes"`
	Selection *SelectionConfig `toml:"selection"`
}

// BrushConfig mirrors paint.BrushSettings with a hex color.
type BrushConfig struct {
	Color      string  `toml:"color"`
	MinSize    float32 `toml:"min_size"`
	MaxSize    float32 `toml:"max_size"`
	Smoothness float32 `toml:"smoothness"`
	Opacity    float32 `toml:"opacity"`
	Spacing    float32 `toml:"spacing"`
}

// LayerConfig adds a layer above the default ones.
type LayerConfig struct {
	Name    string  `toml:"name"`
	Blend   string  `toml:"blend"`
	Opacity float32 `toml:"opacity"`
	Fill    string  `toml:"fill"`
	Hidden  bool    `toml:"hidden"`
}

// StrokeConfig is one pen stroke. Points are x, y and an optional pressure.
type StrokeConfig struct {
	Layer  string      `toml:"layer"` // layer name, empty for the active one
	Color  string      `toml:"color"`
	Eraser bool        `toml:"eraser"`
	Points [][]float64 `toml:"points"`
}

// SelectionConfig selects a rectangle and styles its boundary.
type SelectionConfig struct {
	Rect   [4]int  `toml:"rect"` // min x, min y, max x, max y
	Dotted bool    `toml:"dotted"`
	Span   float32 `toml:"span"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() Config {
	b := paint.DefaultBrush()
	return Config{
		Width:      512,
		Height:     384,
		Output:     "paint.png",
		Backend:    "software",
		Workers:    4,
		Frames:     1,
		Scale:      1,
		Background: "#ffffff",
		Brush: BrushConfig{
			Color:      "#000000",
			MinSize:    b.MinSize,
			MaxSize:    b.MaxSize,
			Smoothness: b.Smoothness,
			Opacity:    b.Opacity,
		},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := ParseConfig(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML into cfg and validates the result. Unknown keys
// are rejected.
func ParseConfig(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var sm *toml.StrictMissingError
		if errors.As(err, &sm) {
			return fmt.Errorf("unknown keys:\n%s", sm.String())
		}
		return fmt.Errorf("parse: %w", err)
	}
	return cfg.Validate()
}

// Validate checks ranges and names.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("canvas size %dx%d is not positive", c.Width, c.Height))
	}
	switch c.Backend {
	case "software", "wgpu", "auto":
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if c.Frames < 1 {
		errs = append(errs, fmt.Errorf("frames = %d, want at least 1", c.Frames))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale = %v, want > 0", c.Scale))
	}
	for i, l := range c.Layers {
		if l.Blend == "" {
			continue
		}
		if _, err := paint.ParseBlendMode(l.Blend); err != nil {
			errs = append(errs, fmt.Errorf("layers[%d]: %w", i, err))
		}
	}
	for i, s := range c.Strokes {
		if len(s.Points) == 0 {
			errs = append(errs, fmt.Errorf("strokes[%d]: no points", i))
		}
		for j, p := range s.Points {
			if len(p) < 2 || len(p) > 3 {
				errs = append(errs, fmt.Errorf("strokes[%d].points[%d]: want [x, y] or [x, y, pressure]", i, j))
			}
		}
	}
	if s := c.Selection; s != nil && s.rect().Empty() {
		errs = append(errs, fmt.Errorf("selection rect %v is empty", s.Rect))
	}
	return errors.Join(errs...)
}

func (s SelectionConfig) rect() image.Rectangle {
	return image.Rect(s.Rect[0], s.Rect[1], s.Rect[2], s.Rect[3])
}

// BrushSettings converts the brush section.
func (c Config) BrushSettings() paint.BrushSettings {
	b := paint.DefaultBrush()
	b.Color = paint.Hex(c.Brush.Color)
	b.MinSize = c.Brush.MinSize
	b.MaxSize = c.Brush.MaxSize
	b.Smoothness = c.Brush.Smoothness
	b.Opacity = c.Brush.Opacity
	b.Spacing = c.Brush.Spacing
	return b
}

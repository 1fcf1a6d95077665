package paint

import (
	"github.com/gogpu/paint/internal/brush"
	"github.com/gogpu/paint/internal/history"
	"github.com/gogpu/paint/internal/stencil"
	"github.com/gogpu/paint/render"
)

// BrushSettings configures the stamping brush.
type BrushSettings = brush.Settings

// DefaultBrush returns a small, soft, opaque black brush.
func DefaultBrush() BrushSettings { return brush.DefaultSettings() }

// SelectionStyle configures how the selection boundary is drawn.
type SelectionStyle = stencil.Style

// Selection boundary kinds.
const (
	SelectionAnts   = stencil.KindAnts
	SelectionDotted = stencil.KindDotted
)

// DefaultSelectionStyle returns black and white marching ants.
func DefaultSelectionStyle() SelectionStyle { return stencil.DefaultStyle() }

// Option configures an Editor during creation.
//
// Example:
//
//	// Default software rendering
//	ed, err := paint.New(800, 600)
//
//	// GPU backend (dependency injection)
//	ed, err := paint.New(800, 600, paint.WithBackend(gpuBackend))
type Option func(*options)

// options holds optional configuration for Editor creation.
type options struct {
	backend      render.Backend
	target       render.Target
	workers      int
	historyDepth int
	background   RGBA
	brush        BrushSettings
	selection    SelectionStyle
	antsSpeed    float32
}

// defaultOptions returns the default editor options.
func defaultOptions() options {
	return options{
		workers:      1,
		historyDepth: history.DefaultDepth,
		background:   White,
		brush:        DefaultBrush(),
		selection:    DefaultSelectionStyle(),
		antsSpeed:    1,
	}
}

// WithBackend sets the render backend. The editor takes ownership and
// closes it. Without this option a SoftwareBackend is created.
func WithBackend(b render.Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// WithTarget sets where Frame presents. Without a target frames are
// composited but not delivered; Snapshot still works.
func WithTarget(t render.Target) Option {
	return func(o *options) {
		o.target = t
	}
}

// WithWorkers sets the number of compositing goroutines used by the
// default software backend and by snapshots.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithHistoryDepth bounds the number of undoable strokes.
func WithHistoryDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyDepth = n
		}
	}
}

// WithBackground sets the fill of the initial "Background" layer.
func WithBackground(c RGBA) Option {
	return func(o *options) {
		o.background = c
	}
}

// WithBrush sets the initial brush.
func WithBrush(s BrushSettings) Option {
	return func(o *options) {
		o.brush = s
	}
}

// WithSelectionStyle sets how the selection boundary is drawn.
func WithSelectionStyle(s SelectionStyle) Option {
	return func(o *options) {
		o.selection = s
	}
}

// WithAntsSpeed sets how many pixels the marching ants advance per frame.
// Zero freezes them.
func WithAntsSpeed(pixelsPerFrame float32) Option {
	return func(o *options) {
		o.antsSpeed = pixelsPerFrame
	}
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// Stats describes one frame.
type Stats struct {
	Frame  uint64
	Damage image.Rectangle
	Passes [passCount]time.Duration
}

// Total returns the summed pass time.
func (s Stats) Total() time.Duration {
	var d time.Duration
	for _, p := range s.Passes {
		d += p
	}
	return d
}

// Orchestrator runs the passes of each frame in order on a Backend.
//
// Thread Safety: Frame must be called from the render goroutine only.
type Orchestrator struct {
	backend Backend
	logger  *slog.Logger
	frame   uint64
}

// NewOrchestrator creates an orchestrator driving backend.
func NewOrchestrator(backend Backend) *Orchestrator {
	return &Orchestrator{
		backend: backend,
		logger:  slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for pass diagnostics. Nil disables logging.
func (o *Orchestrator) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	o.logger = l
	if ls, ok := o.backend.(interface{ SetLogger(*slog.Logger) }); ok {
		ls.SetLogger(l)
	}
}

// Backend returns the driven backend.
func (o *Orchestrator) Backend() Backend { return o.backend }

// Frame runs PassBrush, PassComposite, PassSelection and PassPresent.
//
// The composite pass is skipped when the brush pass reports no damage. A
// failing pass aborts the frame; later passes do not run.
func (o *Orchestrator) Frame(ctx context.Context, scene Scene, target Target) (Stats, error) {
	if scene == nil {
		return Stats{}, errors.New("render: nil scene")
	}
	o.frame++
	st := Stats{Frame: o.frame}

	var (
		layers []Layer
		err    error
	)
	for _, pass := range Passes() {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		start := time.Now()
		switch pass {
		case PassBrush:
			st.Damage, err = scene.BrushPass(ctx)
			if err == nil {
				layers = scene.Layers()
				err = o.backend.Sync(ctx, layers, st.Damage)
			}
		case PassComposite:
			if !st.Damage.Empty() {
				err = o.backend.Composite(ctx, layers, st.Damage)
			}
		case PassSelection:
			err = o.backend.Overlay(ctx, scene.Selection())
		case PassPresent:
			err = o.backend.Present(ctx, target)
		}
		st.Passes[pass] = time.Since(start)
		if err != nil {
			return st, fmt.Errorf("render: %s pass: %w", pass, err)
		}
	}

	if o.logger.Enabled(ctx, slog.LevelDebug) {
		o.logger.Debug("render: frame",
			"frame", st.Frame,
			"backend", o.backend.Name(),
			"damage", st.Damage,
			"total", st.Total())
	}
	return st, nil
}

// Close closes the backend.
func (o *Orchestrator) Close() error {
	return o.backend.Close()
}

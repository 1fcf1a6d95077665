// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/paint/internal/blend"
	"github.com/gogpu/paint/internal/composite"
	"github.com/gogpu/paint/internal/stencil"
	"github.com/gogpu/paint/surface"
)

func newSoftware(t *testing.T, w, h int, opts ...SoftwareOption) *SoftwareBackend {
	t.Helper()
	b, err := NewSoftwareBackend(w, h, opts...)
	if err != nil {
		t.Fatalf("NewSoftwareBackend() error = %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestNewSoftwareBackendInvalidSize(t *testing.T) {
	if _, err := NewSoftwareBackend(0, 10); !errors.Is(err, surface.ErrInvalidDimensions) {
		t.Errorf("NewSoftwareBackend(0, 10) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestSoftwareCompositeAndPresent(t *testing.T) {
	ctx := context.Background()
	b := newSoftware(t, 4, 4, WithWorkers(2))

	red := surface.MustNew(4, 4)
	red.Fill(surface.RGBA{R: 1, A: 1})
	blue := surface.MustNew(4, 4)
	blue.Fill(surface.RGBA{B: 1, A: 1})
	layers := []Layer{
		{Surface: red, Opacity: 1, Visible: true},
		{Surface: blue, Opacity: 0.5, Visible: true, Settings: composite.Settings{Mode: blend.Normal}},
	}

	if err := b.Composite(ctx, layers, image.Rectangle{}); err != nil {
		t.Fatal(err)
	}
	if err := b.Overlay(ctx, Selection{}); err != nil {
		t.Fatal(err)
	}
	var got Output
	err := b.Present(ctx, TargetFunc(func(out Output) error {
		got = out
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if got.Dirty != image.Rect(0, 0, 4, 4) {
		t.Errorf("Dirty = %v, want full canvas", got.Dirty)
	}
	if p := got.Pix[0:4]; p[0] != 128 || p[1] != 0 || p[2] != 128 || p[3] != 255 {
		t.Errorf("pixel = %v, want [128 0 128 255]", p)
	}
}

func TestSoftwarePresentSkipsUnchangedFrame(t *testing.T) {
	ctx := context.Background()
	b := newSoftware(t, 2, 2)
	calls := 0
	target := TargetFunc(func(Output) error { calls++; return nil })

	_ = b.Composite(ctx, nil, image.Rectangle{})
	_ = b.Overlay(ctx, Selection{})
	_ = b.Present(ctx, target)
	_ = b.Overlay(ctx, Selection{})
	_ = b.Present(ctx, target)

	if calls != 1 {
		t.Errorf("target presented %d times, want 1", calls)
	}
}

func TestSoftwareOverlayIsRemovedWhenSelectionClears(t *testing.T) {
	ctx := context.Background()
	b := newSoftware(t, 8, 8)
	white := surface.MustNew(8, 8)
	white.Fill(surface.RGBA{R: 1, G: 1, B: 1, A: 1})
	layers := []Layer{{Surface: white, Opacity: 1, Visible: true}}
	mask, _ := surface.NewMask(8, 8)
	mask.FillRect(image.Rect(2, 2, 6, 6), 1)

	style := stencil.DefaultStyle()
	style.Kind = stencil.KindDotted
	style.Primary = surface.RGBA{A: 1}

	target := NewImageTarget(8, 8)
	_ = b.Composite(ctx, layers, image.Rectangle{})
	if err := b.Overlay(ctx, Selection{Mask: mask, Style: style}); err != nil {
		t.Fatal(err)
	}
	_ = b.Present(ctx, target)
	if c := target.Image().NRGBAAt(2, 2); c.R != 0 {
		t.Fatalf("boundary pixel = %v, want black", c)
	}

	if err := b.Overlay(ctx, Selection{}); err != nil {
		t.Fatal(err)
	}
	_ = b.Present(ctx, target)
	if c := target.Image().NRGBAAt(2, 2); c.R != 255 {
		t.Errorf("boundary pixel after clear = %v, want white", c)
	}
	if !b.Composited().Equal(white) {
		t.Error("overlay leaked into the composite surface")
	}
}

func TestSoftwareOverlayMismatch(t *testing.T) {
	b := newSoftware(t, 8, 8)
	mask, _ := surface.NewMask(4, 4)
	mask.Fill(1)
	err := b.Overlay(context.Background(), Selection{Mask: mask, Style: stencil.DefaultStyle()})
	if !errors.Is(err, stencil.ErrDimensionMismatch) {
		t.Errorf("Overlay() error = %v, want ErrDimensionMismatch", err)
	}
}

func TestSoftwareClosed(t *testing.T) {
	b, _ := NewSoftwareBackend(2, 2, WithWorkers(3))
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := b.Composite(context.Background(), nil, image.Rectangle{}); !errors.Is(err, ErrBackendClosed) {
		t.Errorf("Composite() after Close error = %v, want ErrBackendClosed", err)
	}
}

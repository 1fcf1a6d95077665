// Command paintdemo renders a scripted painting session to a PNG.
//
// Layers, strokes and a selection come from a TOML file; flags override the
// canvas settings:
//
//	paintdemo -config session.toml -backend auto -output out.png
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/draw"

	"github.com/gogpu/paint"
	"github.com/gogpu/paint/gpu"
	"github.com/gogpu/paint/render"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML session file")
		width      = flag.Int("width", 0, "canvas width (overrides config)")
		height     = flag.Int("height", 0, "canvas height (overrides config)")
		output     = flag.String("output", "", "output PNG (overrides config)")
		backend    = flag.String("backend", "", "software, wgpu or auto (overrides config)")
		scale      = flag.Float64("scale", 0, "output scale (overrides config)")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	paint.SetLogger(logger)

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			logger.Error("paintdemo: config", "err", err)
			os.Exit(1)
		}
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *output != "" {
		cfg.Output = *output
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *scale > 0 {
		cfg.Scale = *scale
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("paintdemo: config", "err", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("paintdemo: failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	b, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}
	target := render.NewImageTarget(cfg.Width, cfg.Height)
	ed, err := paint.New(cfg.Width, cfg.Height,
		paint.WithBackend(b),
		paint.WithTarget(target),
		paint.WithWorkers(cfg.Workers),
		paint.WithBackground(paint.Hex(cfg.Background)),
		paint.WithBrush(cfg.BrushSettings()),
	)
	if err != nil {
		_ = b.Close()
		return err
	}
	defer ed.Close()

	if err := addLayers(ed, cfg.Layers); err != nil {
		return err
	}
	for i, s := range cfg.Strokes {
		if err := stroke(ctx, ed, s); err != nil {
			return fmt.Errorf("strokes[%d]: %w", i, err)
		}
	}
	if sel := cfg.Selection; sel != nil {
		style := ed.SelectionStyle()
		if sel.Dotted {
			style.Kind = paint.SelectionDotted
		}
		if sel.Span > 0 {
			style.Span = sel.Span
		}
		ed.SetSelectionStyle(style)
		ed.SelectRect(sel.rect(), paint.SelectAdd)
	}
	for range cfg.Frames {
		if err := ed.Frame(ctx); err != nil {
			return err
		}
	}
	st := ed.LastFrame()
	logger.Info("paintdemo: rendered",
		"backend", b.Name(), "frames", st.Frame, "last", st.Total())

	return writePNG(cfg.Output, scaleImage(target.Image(), cfg.Scale))
}

// newBackend picks the render backend. "auto" falls back to the CPU when no
// GPU can be opened.
func newBackend(cfg Config, logger *slog.Logger) (render.Backend, error) {
	switch cfg.Backend {
	case "wgpu":
		return gpu.New(cfg.Width, cfg.Height)
	case "auto":
		b, err := gpu.New(cfg.Width, cfg.Height)
		if err == nil {
			return b, nil
		}
		logger.Warn("paintdemo: GPU unavailable, using software backend", "err", err)
	}
	return render.NewSoftwareBackend(cfg.Width, cfg.Height, render.WithWorkers(cfg.Workers))
}

func addLayers(ed *paint.Editor, layers []LayerConfig) error {
	for _, lc := range layers {
		id, err := ed.AddLayer(lc.Name)
		if err != nil {
			return err
		}
		if lc.Blend != "" {
			mode, err := paint.ParseBlendMode(lc.Blend)
			if err != nil {
				return err
			}
			if err := ed.SetLayerBlendMode(id, mode); err != nil {
				return err
			}
		}
		if lc.Opacity > 0 {
			if err := ed.SetLayerOpacity(id, lc.Opacity); err != nil {
				return err
			}
		}
		if lc.Fill != "" {
			if err := ed.Fill(id, paint.Hex(lc.Fill)); err != nil {
				return err
			}
		}
		if lc.Hidden {
			if err := ed.SetLayerVisible(id, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// stroke replays one stroke as pen events and runs a frame to apply it.
func stroke(ctx context.Context, ed *paint.Editor, s StrokeConfig) error {
	if s.Layer != "" {
		id, ok := layerByName(ed, s.Layer)
		if !ok {
			return fmt.Errorf("%w: %q", paint.ErrLayerNotFound, s.Layer)
		}
		if err := ed.SetActiveLayer(id); err != nil {
			return err
		}
	}
	prev := ed.Brush()
	if s.Color != "" {
		ed.SetBrushColor(paint.Hex(s.Color))
	}
	ed.SetEraser(s.Eraser)
	defer ed.SetBrush(prev)

	var ev gpucontext.PointerEvent
	for i, p := range s.Points {
		ev = gpucontext.PointerEvent{
			Type:        gpucontext.PointerMove,
			X:           p[0],
			Y:           p[1],
			Pressure:    1,
			PointerType: gpucontext.PointerTypePen,
			IsPrimary:   true,
		}
		if len(p) == 3 {
			ev.Pressure = float32(p[2])
		}
		if i == 0 {
			ev.Type = gpucontext.PointerDown
		}
		ed.HandlePointer(ev)
	}
	ev.Type = gpucontext.PointerUp
	ed.HandlePointer(ev)
	return ed.Frame(ctx)
}

func layerByName(ed *paint.Editor, name string) (paint.LayerID, bool) {
	for _, l := range ed.Layers() {
		if l.Name == name {
			return l.ID, true
		}
	}
	return "", false
}

func scaleImage(img *image.NRGBA, scale float64) image.Image {
	if scale == 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*scale))
	h := max(1, int(float64(b.Dy())*scale))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

package paint

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/paint/internal/brush"
	"github.com/gogpu/paint/internal/composite"
	"github.com/gogpu/paint/internal/history"
	"github.com/gogpu/paint/internal/parallel"
	"github.com/gogpu/paint/render"
	"github.com/gogpu/paint/surface"
)

// ErrNoLayerBelow is returned by MergeDown for the bottom layer.
var ErrNoLayerBelow = errors.New("paint: no layer below")

// Editor is a painting document with its brush, selection, undo history and
// renderer.
//
// Thread safety: HandlePointer may be called from any goroutine. Every other
// method must be called from the render goroutine, the one calling Frame.
type Editor struct {
	width, height int

	doc       *document
	selection *selection
	style     SelectionStyle
	antsSpeed float32

	history *history.Manager
	stroker *brush.Stroker
	queue   brush.Queue
	tip     *surface.Mask

	// strokeLayer is the layer the active stroke paints on; strokeDirty is
	// the canvas region it touched so far.
	strokeLayer LayerID
	strokeDirty image.Rectangle

	dirty      *parallel.DirtyRegion
	pool       *parallel.WorkerPool
	compositor *composite.Compositor
	scratch    *surface.Surface

	orch   *render.Orchestrator
	target render.Target
	stats  render.Stats
	logger *slog.Logger

	input  inputState
	closed bool
}

// inputState tracks the pointer that owns the active stroke.
type inputState struct {
	mu      sync.Mutex
	down    bool
	pointer int
	view    Matrix // window to canvas
}

// New creates an editor for a width by height canvas. The document starts
// with a "Background" layer filled with the background color and an empty
// "Layer 0" above it, which is active.
func New(width, height int, opts ...Option) (*Editor, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := newDocument(width, height, o.background)
	if err != nil {
		return nil, err
	}
	sel, err := newSelection(width, height)
	if err != nil {
		return nil, err
	}

	backend := o.backend
	if backend == nil {
		backend, err = render.NewSoftwareBackend(width, height, render.WithWorkers(o.workers))
		if err != nil {
			return nil, err
		}
	}

	e := &Editor{
		width:     width,
		height:    height,
		doc:       doc,
		selection: sel,
		style:     o.selection,
		antsSpeed: o.antsSpeed,
		stroker:   brush.NewStroker(o.brush),
		dirty:     parallel.NewDirtyRegion(width, height),
		orch:      render.NewOrchestrator(backend),
		target:    o.target,
		logger:    Logger(),
	}
	e.input.view = Identity()
	if o.workers > 1 {
		e.pool = parallel.NewWorkerPool(o.workers)
	}
	e.compositor = composite.New(e.pool)
	e.history = history.New(history.StoreFunc(doc.layerSurface),
		history.WithDepth(o.historyDepth),
		history.WithLogger(Logger()))
	e.dirty.MarkAll()

	registerSink(e)
	e.logger.Info("paint: editor created",
		"width", width, "height", height, "backend", backend.Name())
	return e, nil
}

// SetLogger replaces the logger of this editor and its renderer.
func (e *Editor) SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	e.logger = l
	e.orch.SetLogger(l)
}

// Size returns the canvas size.
func (e *Editor) Size() (width, height int) { return e.width, e.height }

// Frame runs one frame: pending pointer input is painted, the damaged region
// is recomposited, the selection is drawn and the result is presented.
//
// A stroke that targets a layer unknown to the history aborts: the stroke is
// rolled back, its remaining samples are dropped and the error is returned
// after the rest of the queued input has been painted.
func (e *Editor) Frame(ctx context.Context) error {
	if e.closed {
		return ErrClosed
	}
	if e.selection.active() {
		e.style.TimeStep += e.antsSpeed
	}
	st, err := e.orch.Frame(ctx, editorScene{e}, e.target)
	e.stats = st
	return err
}

// LastFrame returns the statistics of the most recent Frame.
func (e *Editor) LastFrame() render.Stats { return e.stats }

// Close releases the renderer and worker goroutines.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	unregisterSink(e)
	if e.pool != nil {
		e.pool.Close()
	}
	return e.orch.Close()
}

// --- Brush ---

// Brush returns the current brush settings.
func (e *Editor) Brush() BrushSettings { return e.stroker.Settings() }

// SetBrush replaces the brush settings. It takes effect on the next sample.
func (e *Editor) SetBrush(s BrushSettings) { e.stroker.SetSettings(s) }

// SetBrushColor changes only the brush color.
func (e *Editor) SetBrushColor(c RGBA) {
	s := e.stroker.Settings()
	s.Color = c
	e.stroker.SetSettings(s)
}

// SetEraser switches the brush between painting and erasing.
func (e *Editor) SetEraser(on bool) {
	s := e.stroker.Settings()
	s.Eraser = on
	e.stroker.SetSettings(s)
}

// SetBrushTip sets a tip shape from the alpha channel of img, stretched over
// each stamp's circle. Nil restores the solid round tip.
func (e *Editor) SetBrushTip(img image.Image) error {
	if img == nil {
		e.tip = nil
		return nil
	}
	s, err := surface.FromImage(img)
	if err != nil {
		return fmt.Errorf("paint: brush tip: %w", err)
	}
	tip, err := surface.NewMask(s.Width(), s.Height())
	if err != nil {
		return fmt.Errorf("paint: brush tip: %w", err)
	}
	for y := range s.Height() {
		for x, c := range s.Row(y) {
			tip.Set(x, y, c.A)
		}
	}
	e.tip = tip
	return nil
}

// --- History ---

// Undo reverts the most recent stroke. It returns false if there is nothing
// to undo. An active stroke is committed first.
func (e *Editor) Undo() bool {
	e.finishStroke()
	if !e.history.Undo() {
		return false
	}
	e.dirty.MarkAll()
	return true
}

// Redo reapplies the most recently undone stroke. It returns false if there
// is nothing to redo.
func (e *Editor) Redo() bool {
	e.finishStroke()
	if !e.history.Redo() {
		return false
	}
	e.dirty.MarkAll()
	return true
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool { return e.history.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return e.history.CanRedo() }

// --- Strokes ---

// applyInput drains the sample queue and paints it. A failed stroke is
// rolled back and its remaining samples are ignored; samples of later
// strokes in the same batch are still painted. The first error is returned.
func (e *Editor) applyInput() error {
	var first error
	for _, s := range e.queue.Drain() {
		if err := e.dispatch(s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (e *Editor) dispatch(s brush.Sample) error {
	switch s.Phase {
	case brush.PhaseDown:
		e.finishStroke()
		e.stroker.Begin(s)
		e.strokeLayer = e.doc.layers[e.doc.active].id
		e.strokeDirty = image.Rectangle{}
	case brush.PhaseMove:
		if e.stroker.Active() {
			return e.paint(e.stroker.Move(s))
		}
	case brush.PhaseUp:
		if e.stroker.Active() {
			err := e.paint(e.stroker.Move(s))
			e.finishStroke()
			return err
		}
	case brush.PhaseCancel:
		e.cancelStroke()
	}
	return nil
}

// paint applies stamps of the active stroke to its layer.
func (e *Editor) paint(stamps []brush.Stamp) error {
	if len(stamps) == 0 {
		return nil
	}
	id := e.strokeLayer
	if err := e.history.BeginCapture(string(id)); err != nil {
		e.logger.Warn("paint: stroke aborted", "layer", id, "err", err)
		e.cancelStroke()
		return fmt.Errorf("paint: stroke: %w", err)
	}
	l, err := e.doc.find(id)
	if err != nil {
		e.cancelStroke()
		return err
	}
	s, err := e.doc.surface(l)
	if err != nil {
		e.cancelStroke()
		return err
	}

	m := l.placement.Matrix(s.Width(), s.Height())
	inv := m.Invert()
	var touched image.Rectangle
	for _, st := range stamps {
		touched = touched.Union(brush.Apply(s, toLayerSpace(inv, st), e.tip))
	}
	if touched.Empty() {
		return nil
	}
	e.history.Touch(string(id), touched)
	canvas := e.canvasRect(l, m, touched)
	e.strokeDirty = e.strokeDirty.Union(canvas)
	e.dirty.MarkRect(canvas)
	return nil
}

// finishStroke commits the active stroke, if any.
func (e *Editor) finishStroke() {
	if !e.stroker.Active() {
		return
	}
	e.stroker.End()
	if e.history.Commit() {
		e.logger.Debug("paint: stroke committed", "layer", e.strokeLayer, "bounds", e.strokeDirty)
	}
	e.strokeDirty = image.Rectangle{}
}

// cancelStroke rolls the active stroke back.
func (e *Editor) cancelStroke() {
	e.stroker.End()
	e.history.Cancel()
	e.dirty.MarkRect(e.strokeDirty)
	e.strokeDirty = image.Rectangle{}
}

// toLayerSpace maps a canvas stamp through inv into layer pixels.
func toLayerSpace(inv Matrix, st brush.Stamp) brush.Stamp {
	if inv.IsIdentity() {
		return st
	}
	p := inv.TransformPoint(Pt(float64(st.X), float64(st.Y)))
	st.X, st.Y = float32(p.X), float32(p.Y)
	st.Radius *= float32(math.Sqrt(math.Abs(inv.Determinant())))
	return st
}

// canvasRect returns the canvas region affected by a change of r in l.
func (e *Editor) canvasRect(l *layer, m Matrix, r image.Rectangle) image.Rectangle {
	if l.src != nil || l.dst != nil {
		return image.Rect(0, 0, e.width, e.height)
	}
	if m.IsIdentity() {
		return r
	}
	return transformRect(m, r)
}

// transformRect returns the pixel bounding box of r mapped through m.
func transformRect(m Matrix, r image.Rectangle) image.Rectangle {
	corners := [4]Point{
		Pt(float64(r.Min.X), float64(r.Min.Y)),
		Pt(float64(r.Max.X), float64(r.Min.Y)),
		Pt(float64(r.Min.X), float64(r.Max.Y)),
		Pt(float64(r.Max.X), float64(r.Max.Y)),
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := m.TransformPoint(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	// Bilinear resampling reaches one pixel further.
	return image.Rect(int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1)
}

// --- Compositing helpers ---

func (e *Editor) renderLayers() []render.Layer {
	out := make([]render.Layer, 0, len(e.doc.layers))
	for _, l := range e.doc.layers {
		if rl, ok := e.doc.renderLayer(l); ok {
			out = append(out, rl)
		}
	}
	return out
}

func (e *Editor) compositeLayers() []composite.Layer {
	rls := e.renderLayers()
	out := make([]composite.Layer, len(rls))
	for i, rl := range rls {
		out[i] = rl.Composite()
	}
	return out
}

// composite writes region of the current stack into the editor's scratch
// surface and returns it.
func (e *Editor) composite(region image.Rectangle) *surface.Surface {
	if e.scratch == nil {
		e.scratch = surface.MustNew(e.width, e.height)
	}
	e.compositor.Composite(e.scratch, e.compositeLayers(), region)
	return e.scratch
}

// PickColor returns the composited color at canvas pixel (x, y), without the
// selection overlay.
func (e *Editor) PickColor(x, y int) (RGBA, error) {
	if !image.Pt(x, y).In(image.Rect(0, 0, e.width, e.height)) {
		return RGBA{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, x, y)
	}
	return e.composite(image.Rect(x, y, x+1, y+1)).Pixel(x, y), nil
}

// Snapshot composites the whole document into a new image. Pending input
// that has not gone through Frame is not included.
func (e *Editor) Snapshot() *image.NRGBA {
	return e.composite(image.Rectangle{}).ToNRGBA()
}

// editorScene exposes the editor to the orchestrator.
type editorScene struct{ e *Editor }

func (s editorScene) BrushPass(context.Context) (image.Rectangle, error) {
	if err := s.e.applyInput(); err != nil {
		return image.Rectangle{}, err
	}
	return s.e.dirty.Take(), nil
}

func (s editorScene) Layers() []render.Layer { return s.e.renderLayers() }

func (s editorScene) Selection() render.Selection {
	sel := s.e.selection
	out := render.Selection{Style: s.e.style, Changed: sel.changed}
	if sel.active() {
		out.Mask = sel.mask
	}
	sel.changed = false
	return out
}

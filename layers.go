package paint

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/paint/internal/blend"
	"github.com/gogpu/paint/internal/composite"
	"github.com/gogpu/paint/surface"
)

// Layers returns the layer stack bottom to top.
func (e *Editor) Layers() []LayerInfo {
	out := make([]LayerInfo, len(e.doc.layers))
	for i, l := range e.doc.layers {
		out[i] = l.info()
	}
	return out
}

// Layer returns the description of one layer.
func (e *Editor) Layer(id LayerID) (LayerInfo, error) {
	l, err := e.doc.find(id)
	if err != nil {
		return LayerInfo{}, err
	}
	return l.info(), nil
}

// ActiveLayer returns the layer new strokes paint on.
func (e *Editor) ActiveLayer() LayerID {
	return e.doc.layers[e.doc.active].id
}

// SetActiveLayer selects the layer new strokes paint on. A stroke in
// progress keeps its layer.
func (e *Editor) SetActiveLayer(id LayerID) error {
	i := e.doc.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	e.doc.active = i
	return nil
}

// AddLayer inserts a transparent canvas-sized layer above the active one and
// makes it active. An empty name picks "Layer N".
func (e *Editor) AddLayer(name string) (LayerID, error) {
	if name == "" {
		name = e.doc.nextName()
	}
	l, err := e.doc.insert(e.doc.active+1, name)
	if err != nil {
		return "", err
	}
	return l.id, nil
}

// ImportLayer inserts img as a new layer above the active one, placed at the
// canvas origin at its own pixel size.
func (e *Editor) ImportLayer(name string, img image.Image) (LayerID, error) {
	s, err := surface.FromImage(img)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSize, err)
	}
	if name == "" {
		name = e.doc.nextName()
	}
	l := e.doc.adopt(e.doc.active+1, name, s)
	e.dirty.MarkRect(s.Rect())
	return l.id, nil
}

// LayerImage returns a copy of a layer's pixels.
func (e *Editor) LayerImage(id LayerID) (*image.NRGBA, error) {
	l, err := e.doc.find(id)
	if err != nil {
		return nil, err
	}
	s, err := e.doc.surface(l)
	if err != nil {
		return nil, err
	}
	return s.ToNRGBA(), nil
}

// DeleteLayer removes a layer and forgets its undo history. The last layer
// cannot be deleted. A stroke in progress on the layer fails on its next
// sample.
func (e *Editor) DeleteLayer(id LayerID) error {
	i := e.doc.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	if len(e.doc.layers) <= 1 {
		return ErrLastLayer
	}
	e.history.Forget(string(id))
	if err := e.doc.remove(i); err != nil {
		e.logger.Warn("paint: release layer surface", "layer", id, "err", err)
	}
	e.dirty.MarkAll()
	return nil
}

// MoveLayer moves a layer to index (0 is the bottom), clamped to the stack.
func (e *Editor) MoveLayer(id LayerID, index int) error {
	i := e.doc.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	}
	index = min(max(index, 0), len(e.doc.layers)-1)
	if index != i {
		e.doc.move(i, index)
		e.dirty.MarkAll()
	}
	return nil
}

// MergeDown composites a layer onto the layer directly below it with the
// upper layer's blend mode and opacity, then removes the upper layer. The
// lower layer keeps its own settings. Undo history of both layers is
// dropped.
func (e *Editor) MergeDown(id LayerID) error {
	i := e.doc.index(id)
	switch {
	case i < 0:
		return fmt.Errorf("%w: %s", ErrLayerNotFound, id)
	case i == 0:
		return ErrNoLayerBelow
	}
	e.finishStroke()

	upper, lower := e.doc.layers[i], e.doc.layers[i-1]
	us, err := e.doc.surface(upper)
	if err != nil {
		return err
	}
	ls, err := e.doc.surface(lower)
	if err != nil {
		return err
	}

	merged := surface.MustNew(ls.Width(), ls.Height())
	top := composite.Layer{
		Surface:  us,
		Settings: composite.Settings{Mode: upper.mode, Src: upper.src, Dst: upper.dst},
		Opacity:  upper.opacity,
		Visible:  upper.visible,
	}
	rel := lower.placement.Matrix(ls.Width(), ls.Height()).Invert().
		Multiply(upper.placement.Matrix(us.Width(), us.Height()))
	if !rel.IsIdentity() {
		aff := rel.Aff3()
		top.Transform = &aff
	}
	e.compositor.Composite(merged, []composite.Layer{
		{Surface: ls, Opacity: 1, Visible: true},
		top,
	}, image.Rectangle{})
	if err := ls.CopyFrom(merged); err != nil {
		return err
	}

	e.history.Forget(string(upper.id))
	e.history.Forget(string(lower.id))
	if err := e.doc.remove(i); err != nil {
		e.logger.Warn("paint: release layer surface", "layer", upper.id, "err", err)
	}
	e.doc.active = i - 1
	e.dirty.MarkAll()
	return nil
}

// Fill paints c over the selected texels of a layer, or over the whole layer
// without a selection. The fill is undoable.
func (e *Editor) Fill(id LayerID, c RGBA) error {
	l, err := e.doc.find(id)
	if err != nil {
		return err
	}
	s, err := e.doc.surface(l)
	if err != nil {
		return err
	}
	e.finishStroke()
	if err := e.history.BeginCapture(string(id)); err != nil {
		return err
	}

	var mask *surface.Mask
	if e.selection.active() {
		mask = e.selection.mask
	}
	m := l.placement.Matrix(s.Width(), s.Height())
	var touched image.Rectangle
	for y := range s.Height() {
		row := s.Row(y)
		for x := range row {
			v := float32(1)
			if mask != nil {
				p := m.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
				v = mask.At(int(math.Floor(p.X)), int(math.Floor(p.Y)))
			}
			if v <= 0 {
				continue
			}
			top := c
			top.A *= v
			row[x] = blend.OverRGBA(top, row[x])
			touched = touched.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	if touched.Empty() {
		e.history.Cancel()
		return nil
	}
	e.history.Touch(string(id), touched)
	e.history.Commit()
	e.dirty.MarkRect(e.canvasRect(l, m, touched))
	return nil
}

// RenameLayer changes a layer's display name.
func (e *Editor) RenameLayer(id LayerID, name string) error {
	l, err := e.doc.find(id)
	if err != nil {
		return err
	}
	l.name = name
	return nil
}

// SetLayerVisible shows or hides a layer.
func (e *Editor) SetLayerVisible(id LayerID, visible bool) error {
	return e.updateLayer(id, func(l *layer) { l.visible = visible })
}

// SetLayerOpacity sets a layer's opacity, clamped to [0, 1].
func (e *Editor) SetLayerOpacity(id LayerID, opacity float32) error {
	return e.updateLayer(id, func(l *layer) { l.opacity = min(max(opacity, 0), 1) })
}

// SetLayerBlendMode sets how a layer combines with the layers below. Modes
// outside the known set render in the diagnostic color magenta.
func (e *Editor) SetLayerBlendMode(id LayerID, mode BlendMode) error {
	return e.updateLayer(id, func(l *layer) { l.mode = mode })
}

// SetLayerPlacement positions a layer on the canvas.
func (e *Editor) SetLayerPlacement(id LayerID, p Placement) error {
	return e.updateLayer(id, func(l *layer) { l.placement = p })
}

// SetLayerRegions restricts compositing of a layer: src selects a region of
// the layer, dst the canvas region it is scaled onto. Nil clears a region.
func (e *Editor) SetLayerRegions(id LayerID, src, dst *image.Rectangle) error {
	return e.updateLayer(id, func(l *layer) {
		l.src = cloneRect(src)
		l.dst = cloneRect(dst)
	})
}

func (e *Editor) updateLayer(id LayerID, fn func(*layer)) error {
	l, err := e.doc.find(id)
	if err != nil {
		return err
	}
	fn(l)
	e.dirty.MarkAll()
	return nil
}

// --- Selection ---

// SelectRect adds r to the selection, or cuts it out with SelectSubtract.
func (e *Editor) SelectRect(r image.Rectangle, mode SelectionMode) {
	e.selection.add(r, mode)
}

// SelectAll selects the whole canvas.
func (e *Editor) SelectAll() {
	e.selection.clear()
	e.selection.add(image.Rect(0, 0, e.width, e.height), SelectAdd)
}

// InvertSelection swaps selected and unselected texels.
func (e *Editor) InvertSelection() { e.selection.invert() }

// ClearSelection removes the selection.
func (e *Editor) ClearSelection() { e.selection.clear() }

// HasSelection reports whether any texel is selected.
func (e *Editor) HasSelection() bool { return e.selection.active() }

// SelectionBounds returns the bounding box of the selected texels.
func (e *Editor) SelectionBounds() image.Rectangle { return e.selection.mask.Bounds() }

// SelectionStyle returns how the selection boundary is drawn.
func (e *Editor) SelectionStyle() SelectionStyle { return e.style }

// SetSelectionStyle changes how the selection boundary is drawn.
func (e *Editor) SetSelectionStyle(s SelectionStyle) {
	e.style = s
	e.selection.changed = true
}

// ExtractSelection cuts the selected pixels of the active layer into a new
// layer directly above it and makes that layer active. Partially selected
// texels are split by the mask value. The cut is undoable on the source
// layer; the new layer stays.
func (e *Editor) ExtractSelection() (LayerID, error) {
	if !e.selection.active() {
		return "", ErrNoSelection
	}
	e.finishStroke()

	src := e.doc.layers[e.doc.active]
	s, err := e.doc.surface(src)
	if err != nil {
		return "", err
	}
	if err := e.history.BeginCapture(string(src.id)); err != nil {
		return "", err
	}

	out := surface.MustNew(s.Width(), s.Height())
	m := src.placement.Matrix(s.Width(), s.Height())
	mask := e.selection.mask
	var touched image.Rectangle
	for y := range s.Height() {
		row := s.Row(y)
		for x := range row {
			p := m.TransformPoint(Pt(float64(x)+0.5, float64(y)+0.5))
			v := mask.At(int(math.Floor(p.X)), int(math.Floor(p.Y)))
			if v <= 0 || row[x].A <= 0 {
				continue
			}
			c := row[x]
			c.A *= v
			out.SetPixel(x, y, c)
			row[x].A *= 1 - v
			touched = touched.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	e.history.Touch(string(src.id), touched)
	e.history.Commit()

	l := e.doc.adopt(e.doc.active+1, src.name+" (selection)", out)
	l.mode, l.opacity, l.placement = src.mode, src.opacity, src.placement
	e.dirty.MarkAll()
	return l.id, nil
}

package paint

import (
	"fmt"
	"image"
	"slices"

	"github.com/google/uuid"

	"github.com/gogpu/paint/internal/composite"
	"github.com/gogpu/paint/render"
	"github.com/gogpu/paint/surface"
)

// LayerID identifies a layer for the lifetime of an Editor.
type LayerID string

// newLayerID returns a random UUID-based id.
func newLayerID() LayerID { return LayerID(uuid.NewString()) }

// LayerInfo is a read-only description of a layer.
type LayerInfo struct {
	ID        LayerID
	Name      string
	Mode      BlendMode
	Opacity   float32
	Visible   bool
	Placement Placement

	// Src and Dst restrict compositing to a region of the layer and of the
	// canvas. Nil means the whole surface.
	Src, Dst *image.Rectangle
}

type layer struct {
	id        LayerID
	name      string
	handle    surface.Handle
	mode      BlendMode
	opacity   float32
	visible   bool
	placement Placement
	src, dst  *image.Rectangle
}

func (l *layer) info() LayerInfo {
	return LayerInfo{
		ID:        l.id,
		Name:      l.name,
		Mode:      l.mode,
		Opacity:   l.opacity,
		Visible:   l.visible,
		Placement: l.placement,
		Src:       cloneRect(l.src),
		Dst:       cloneRect(l.dst),
	}
}

func cloneRect(r *image.Rectangle) *image.Rectangle {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// document is the ordered layer stack. Surfaces live in the arena and
// layers hold handles. The stack is never empty.
type document struct {
	width, height int
	arena         *surface.Arena
	layers        []*layer // bottom to top
	active        int
	counter       int
}

func newDocument(width, height int, background RGBA) (*document, error) {
	d := &document{
		width:  width,
		height: height,
		arena:  surface.NewArena(),
	}
	bg, err := d.insert(0, "Background")
	if err != nil {
		return nil, err
	}
	s, _ := d.surface(bg)
	s.Fill(background)
	if _, err := d.insert(1, "Layer 0"); err != nil {
		return nil, err
	}
	return d, nil
}

// insert creates a transparent layer at index i and makes it active.
func (d *document) insert(i int, name string) (*layer, error) {
	h, err := d.arena.Alloc(d.width, d.height)
	if err != nil {
		return nil, fmt.Errorf("paint: allocate layer: %w", err)
	}
	l := &layer{
		id:      newLayerID(),
		name:    name,
		handle:  h,
		opacity: 1,
		visible: true,
	}
	d.layers = slices.Insert(d.layers, i, l)
	d.active = i
	return l, nil
}

// adopt inserts an existing surface as a layer at index i.
func (d *document) adopt(i int, name string, s *surface.Surface) *layer {
	l := &layer{
		id:      newLayerID(),
		name:    name,
		handle:  d.arena.Adopt(s),
		opacity: 1,
		visible: true,
	}
	d.layers = slices.Insert(d.layers, i, l)
	d.active = i
	return l
}

// nextName returns a fresh "Layer N" name.
func (d *document) nextName() string {
	for {
		d.counter++
		name := fmt.Sprintf("Layer %d", d.counter)
		if !slices.ContainsFunc(d.layers, func(l *layer) bool { return l.name == name }) {
			return name
		}
	}
}

func (d *document) index(id LayerID) int {
	return slices.IndexFunc(d.layers, func(l *layer) bool { return l.id == id })
}

func (d *document) find(id LayerID) (*layer, error) {
	if i := d.index(id); i >= 0 {
		return d.layers[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

func (d *document) surface(l *layer) (*surface.Surface, error) {
	return d.arena.Get(l.handle)
}

// remove deletes the layer at index i and releases its surface.
func (d *document) remove(i int) error {
	if len(d.layers) <= 1 {
		return ErrLastLayer
	}
	l := d.layers[i]
	d.layers = slices.Delete(d.layers, i, i+1)
	if d.active >= len(d.layers) || d.active > i {
		d.active--
	}
	d.active = max(d.active, 0)
	return d.arena.Release(l.handle)
}

func (d *document) move(i, to int) {
	l := d.layers[i]
	d.layers = slices.Delete(d.layers, i, i+1)
	d.layers = slices.Insert(d.layers, to, l)
	d.active = to
}

// layerSurface resolves a layer id for the history manager.
func (d *document) layerSurface(id string) (*surface.Surface, bool) {
	i := d.index(LayerID(id))
	if i < 0 {
		return nil, false
	}
	s, err := d.surface(d.layers[i])
	return s, err == nil
}

// renderLayer converts l for the backends.
func (d *document) renderLayer(l *layer) (render.Layer, bool) {
	s, err := d.surface(l)
	if err != nil {
		return render.Layer{}, false
	}
	rl := render.Layer{
		Handle:  l.handle,
		Surface: s,
		Settings: composite.Settings{
			Mode: l.mode,
			Src:  l.src,
			Dst:  l.dst,
		},
		Opacity:  l.opacity,
		Visible:  l.visible,
		Instance: l.placement.Instance(s.Width(), s.Height(), l.opacity, White),
	}
	if m := l.placement.Matrix(s.Width(), s.Height()); !m.IsIdentity() {
		aff := m.Aff3()
		rl.Transform = &aff
	}
	return rl, true
}

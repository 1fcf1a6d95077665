package paint

import (
	"image"

	"github.com/gogpu/paint/surface"
)

// SelectionMode says whether a shape grows or shrinks the selection.
type SelectionMode uint8

const (
	SelectAdd SelectionMode = iota
	SelectSubtract
)

type selectionShape struct {
	rect image.Rectangle
	mode SelectionMode
}

// selection is a list of shapes rasterized into a canvas-sized mask.
type selection struct {
	shapes   []selectionShape
	inverted bool
	mask     *surface.Mask
	changed  bool
}

func newSelection(width, height int) (*selection, error) {
	m, err := surface.NewMask(width, height)
	if err != nil {
		return nil, err
	}
	return &selection{mask: m}, nil
}

func (s *selection) add(r image.Rectangle, mode SelectionMode) {
	s.shapes = append(s.shapes, selectionShape{rect: r.Canon(), mode: mode})
	s.rasterize()
}

func (s *selection) invert() {
	s.inverted = !s.inverted
	s.rasterize()
}

func (s *selection) clear() {
	s.shapes = s.shapes[:0]
	s.inverted = false
	s.rasterize()
}

func (s *selection) rasterize() {
	s.mask.Clear()
	for _, sh := range s.shapes {
		v := float32(1)
		if sh.mode == SelectSubtract {
			v = 0
		}
		s.mask.FillRect(sh.rect, v)
	}
	if s.inverted {
		s.mask.Invert()
	}
	s.changed = true
}

// active reports whether any texel is selected.
func (s *selection) active() bool {
	return !s.mask.Empty()
}

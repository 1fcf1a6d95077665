package paint

import "errors"

// Sentinel errors returned by Editor methods. Wrapped errors carry the
// offending id or coordinates; test with errors.Is.
var (
	// ErrInvalidSize is returned for non-positive canvas or layer sizes.
	ErrInvalidSize = errors.New("paint: invalid size")

	// ErrLayerNotFound is returned for an id that names no layer.
	ErrLayerNotFound = errors.New("paint: layer not found")

	// ErrLastLayer is returned when deleting or merging would leave the
	// document without layers.
	ErrLastLayer = errors.New("paint: document must keep at least one layer")

	// ErrNoSelection is returned by operations that need a selection.
	ErrNoSelection = errors.New("paint: no selection")

	// ErrOutOfBounds is returned for coordinates outside the canvas.
	ErrOutOfBounds = errors.New("paint: coordinates out of bounds")

	// ErrClosed is returned by a closed Editor.
	ErrClosed = errors.New("paint: editor closed")
)

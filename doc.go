// Package paint is a raster painting engine: an ordered stack of image
// layers composited with blend modes, edited with a stamping brush, with
// marching-ants selection feedback and an undo history.
//
// # Quick Start
//
//	ed, err := paint.New(800, 600, paint.WithTarget(render.NewImageTarget(800, 600)))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ed.Close()
//
//	ed.Attach(pointerSource) // gpucontext.PointerEventSource from the host
//	for running {
//	    if err := ed.Frame(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Color
//
// All colors are straight (non-premultiplied) float32 RGBA in [0, 1]. Layer
// pixels are stored the same way; premultiplication happens only inside
// compositing arithmetic.
//
// # Frames
//
// Pointer events are queued from any goroutine. Frame drains the queue,
// stamps the brush onto the active layer, recomposites only the damaged
// tiles, draws the selection boundary and presents the result. Everything
// except HandlePointer runs on the goroutine calling Frame.
//
// # Architecture
//
// The package is organized into:
//   - Public API: Editor, Placement, Matrix, colors, blend modes
//   - surface: pixel storage, masks and the handle arena
//   - render: pass orchestration, backends, present targets
//   - gpu: the wgpu backend
//   - Internal: blend (mode math), composite (layer stacking), brush
//     (stamping), stencil (selection boundary), history (undo), parallel
//     (worker pool, dirty tiles)
//
// # Coordinate System
//
// Uses standard raster coordinates:
//   - Origin (0,0) at the top-left corner of the canvas
//   - X increases right, Y increases down
//   - Pixel (x, y) covers [x, x+1) by [y, y+1); brush stamps sample centers
package paint

// Version is the current version of the library.
const Version = "0.1.0"

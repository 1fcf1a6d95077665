package paint

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/paint/internal/brush"
)

// mousePressure is the W3C pressure of a mouse with a button held.
const mousePressure = 0.5

// Attach subscribes the editor to a host's pointer events.
//
// Example:
//
//	if pes, ok := events.(gpucontext.PointerEventSource); ok {
//	    ed.Attach(pes)
//	}
func (e *Editor) Attach(src gpucontext.PointerEventSource) {
	src.OnPointer(e.HandlePointer)
}

// HandlePointer queues a pointer event for the next Frame. It is safe to
// call from any goroutine and never blocks on rendering.
//
// Only one pointer paints at a time: events of other pointers are ignored
// between the owning pointer's PointerDown and its PointerUp or
// PointerCancel. Enter and leave events are ignored.
func (e *Editor) HandlePointer(ev gpucontext.PointerEvent) {
	in := &e.input
	in.mu.Lock()
	defer in.mu.Unlock()

	var phase brush.Phase
	switch ev.Type {
	case gpucontext.PointerDown:
		if in.down {
			return
		}
		in.down, in.pointer = true, ev.PointerID
		phase = brush.PhaseDown
	case gpucontext.PointerMove:
		if !in.down || ev.PointerID != in.pointer {
			return
		}
		phase = brush.PhaseMove
	case gpucontext.PointerUp, gpucontext.PointerCancel:
		if !in.down || ev.PointerID != in.pointer {
			return
		}
		in.down = false
		phase = brush.PhaseUp
		if ev.Type == gpucontext.PointerCancel {
			phase = brush.PhaseCancel
		}
	default:
		return
	}

	pressure := ev.Pressure
	if ev.PointerType == gpucontext.PointerTypeMouse && pressure == 0 {
		pressure = mousePressure
	}
	p := in.view.TransformPoint(Pt(ev.X, ev.Y))
	e.queue.Push(brush.Sample{
		X:        float32(p.X),
		Y:        float32(p.Y),
		Pressure: pressure,
		Time:     ev.Timestamp,
		Phase:    phase,
	})
}

// SetView sets the canvas to window transform used to map pointer
// coordinates, for example after panning or zooming the view.
func (e *Editor) SetView(canvasToWindow Matrix) {
	e.input.mu.Lock()
	defer e.input.mu.Unlock()
	e.input.view = canvasToWindow.Invert()
}

// PendingInput returns the number of queued samples not yet painted.
func (e *Editor) PendingInput() int { return e.queue.Len() }

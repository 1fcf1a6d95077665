package paint

import (
	"sync"
	"testing"

	"github.com/gogpu/gpucontext"
)

type fakeSource struct {
	handlers []func(gpucontext.PointerEvent)
}

func (f *fakeSource) OnPointer(fn func(gpucontext.PointerEvent)) {
	f.handlers = append(f.handlers, fn)
}

func (f *fakeSource) emit(ev gpucontext.PointerEvent) {
	for _, h := range f.handlers {
		h(ev)
	}
}

func TestAttach(t *testing.T) {
	ed := newEditor(t, 16, 16)
	src := &fakeSource{}
	ed.Attach(src)
	src.emit(pointer(gpucontext.PointerDown, 1, 1))
	if ed.PendingInput() != 1 {
		t.Errorf("PendingInput() = %d, want 1", ed.PendingInput())
	}
}

func TestSecondPointerIgnored(t *testing.T) {
	ed := newEditor(t, 16, 16)
	first := pointer(gpucontext.PointerDown, 1, 1)
	first.PointerID = 1
	second := pointer(gpucontext.PointerDown, 5, 5)
	second.PointerID = 2

	ed.HandlePointer(first)
	ed.HandlePointer(second)
	second.Type = gpucontext.PointerMove
	ed.HandlePointer(second)
	second.Type = gpucontext.PointerUp
	ed.HandlePointer(second)

	if got := ed.PendingInput(); got != 1 {
		t.Errorf("PendingInput() = %d, want 1", got)
	}

	first.Type = gpucontext.PointerUp
	ed.HandlePointer(first)
	second.Type = gpucontext.PointerDown
	ed.HandlePointer(second)
	if got := ed.PendingInput(); got != 3 {
		t.Errorf("PendingInput() after release = %d, want 3", got)
	}
}

func TestEnterLeaveIgnored(t *testing.T) {
	ed := newEditor(t, 16, 16)
	ed.HandlePointer(pointer(gpucontext.PointerEnter, 1, 1))
	ed.HandlePointer(pointer(gpucontext.PointerLeave, 1, 1))
	ed.HandlePointer(pointer(gpucontext.PointerMove, 1, 1)) // no button held
	if got := ed.PendingInput(); got != 0 {
		t.Errorf("PendingInput() = %d, want 0", got)
	}
}

func TestMousePressure(t *testing.T) {
	ed := newEditor(t, 32, 32)
	id := ed.ActiveLayer()
	mouse := func(typ gpucontext.PointerEventType, x float64) gpucontext.PointerEvent {
		return gpucontext.PointerEvent{Type: typ, X: x, Y: 10, PointerType: gpucontext.PointerTypeMouse}
	}
	ed.HandlePointer(mouse(gpucontext.PointerDown, 10))
	ed.HandlePointer(mouse(gpucontext.PointerMove, 16))
	ed.HandlePointer(mouse(gpucontext.PointerUp, 16))
	frame(t, ed)

	// Half pressure gives a 6.5 px stamp: x=12 (center 12.5) is outside.
	img, _ := ed.LayerImage(id)
	if img.NRGBAAt(16, 10).A == 0 {
		t.Error("mouse stroke did not paint")
	}
	if img.NRGBAAt(12, 10).A != 0 {
		t.Error("mouse stroke painted wider than half pressure allows")
	}
}

func TestMouseReleaseUsesMousePressure(t *testing.T) {
	ed := newEditor(t, 32, 32)
	id := ed.ActiveLayer()
	mouse := func(typ gpucontext.PointerEventType, x float64) gpucontext.PointerEvent {
		return gpucontext.PointerEvent{Type: typ, X: x, Y: 10, PointerType: gpucontext.PointerTypeMouse}
	}
	ed.HandlePointer(mouse(gpucontext.PointerDown, 10))
	ed.HandlePointer(mouse(gpucontext.PointerMove, 16))
	ed.HandlePointer(mouse(gpucontext.PointerUp, 24))
	frame(t, ed)

	// x=26 lies inside the 6.5 px release stamp at x=24 but outside a
	// MinSize one.
	img, _ := ed.LayerImage(id)
	if img.NRGBAAt(26, 10).A == 0 {
		t.Error("release stamp drawn smaller than the stroke")
	}
}

func TestSetView(t *testing.T) {
	ed := newEditor(t, 32, 32)
	id := ed.ActiveLayer()
	ed.SetView(Scale(2, 2))

	drag(ed, Pt(20, 20), Pt(24, 20))
	frame(t, ed)

	img, _ := ed.LayerImage(id)
	if img.NRGBAAt(12, 10).A == 0 {
		t.Error("window coordinates not mapped to canvas")
	}
	if img.NRGBAAt(24, 20).A != 0 {
		t.Error("stroke painted at window coordinates")
	}
}

func TestHandlePointerConcurrent(t *testing.T) {
	ed := newEditor(t, 16, 16)
	ed.HandlePointer(pointer(gpucontext.PointerDown, 0, 0))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 10 {
				ed.HandlePointer(pointer(gpucontext.PointerMove, float64(i), float64(j)))
			}
		}()
	}
	wg.Wait()
	if got := ed.PendingInput(); got != 81 {
		t.Errorf("PendingInput() = %d, want 81", got)
	}
}

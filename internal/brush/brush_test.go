package brush

import (
	"image"
	"sync"
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/paint/surface"
)

func TestFalloff(t *testing.T) {
	tests := []struct {
		name       string
		x, s, want float32
	}{
		{"center", 0, 1, 1},
		{"rim", 1, 1, 0},
		{"half soft", 0.5, 1, 0.375},
		{"half sharp", 0.5, 2, 0.140625},
		{"outside clamps", 3, 1, 0},
		{"negative clamps", -1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Falloff(tt.x, tt.s); math32.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Falloff(%v, %v) = %v, want %v", tt.x, tt.s, got, tt.want)
			}
		})
	}
}

func TestFalloffMonotonic(t *testing.T) {
	prev := Falloff(0, 1)
	for i := 1; i <= 100; i++ {
		v := Falloff(float32(i)/100, 1)
		if v > prev {
			t.Fatalf("Falloff increased at x=%v: %v > %v", float32(i)/100, v, prev)
		}
		prev = v
	}
}

func TestApplyCenterAndEdge(t *testing.T) {
	dst := surface.MustNew(21, 21)
	s := Stamp{X: 10.5, Y: 10.5, Radius: 10, Smoothness: 1, Opacity: 1, Color: surface.RGBA{A: 1}}
	touched := Apply(dst, s, nil)

	if got := dst.Pixel(10, 10).A; got != 1 {
		t.Errorf("center alpha = %v, want 1", got)
	}
	if got := dst.Pixel(20, 10).A; got != 0 {
		t.Errorf("edge alpha = %v, want 0", got)
	}
	if got := dst.Pixel(19, 10).A; got <= 0 || got > 0.05 {
		t.Errorf("near-edge alpha = %v, want small positive", got)
	}
	if !touched.In(image.Rect(0, 0, 21, 21)) || touched.Empty() {
		t.Errorf("touched = %v, want non-empty inside the surface", touched)
	}
	if got := dst.Pixel(0, 0); got != surface.Transparent {
		t.Errorf("corner = %v, want untouched", got)
	}
}

func TestApplyOverExisting(t *testing.T) {
	dst := surface.MustNew(5, 5)
	dst.Fill(surface.RGBA{R: 1, A: 1})
	s := Stamp{X: 2.5, Y: 2.5, Radius: 2, Smoothness: 1, Opacity: 0.5, Color: surface.RGBA{B: 1, A: 1}}
	Apply(dst, s, nil)

	got := dst.Pixel(2, 2)
	if math32.Abs(got.R-0.5) > 1e-6 || math32.Abs(got.B-0.5) > 1e-6 || got.A != 1 {
		t.Errorf("center = %v, want {0.5 0 0.5 1}", got)
	}
}

func TestApplyEraser(t *testing.T) {
	dst := surface.MustNew(9, 9)
	dst.Fill(surface.RGBA{G: 1, A: 1})
	Apply(dst, Stamp{X: 4.5, Y: 4.5, Radius: 4, Smoothness: 1, Opacity: 1, Color: surface.RGBA{A: 1}, Eraser: true}, nil)

	if got := dst.Pixel(4, 4); got != surface.Transparent {
		t.Errorf("erased center = %v, want transparent", got)
	}
	if got := dst.Pixel(0, 0); got.A != 1 {
		t.Errorf("corner alpha = %v, want 1", got.A)
	}
}

func TestApplyTip(t *testing.T) {
	tip, _ := surface.NewMask(2, 2)
	tip.Set(1, 0, 1)
	tip.Set(1, 1, 1)

	dst := surface.MustNew(10, 10)
	Apply(dst, Stamp{X: 5, Y: 5, Radius: 4, Smoothness: 1, Opacity: 1, Color: surface.RGBA{A: 1}}, tip)

	if got := dst.Pixel(3, 5).A; got != 0 {
		t.Errorf("left half alpha = %v, want 0 (tip masked)", got)
	}
	if got := dst.Pixel(5, 5).A; got == 0 {
		t.Error("right half alpha = 0, want painted")
	}
}

func TestApplyOutsideAndZeroOpacity(t *testing.T) {
	dst := surface.MustNew(4, 4)
	if r := Apply(dst, Stamp{X: 50, Y: 50, Radius: 3, Smoothness: 1, Opacity: 1, Color: surface.RGBA{A: 1}}, nil); !r.Empty() {
		t.Errorf("Apply(outside) = %v, want empty", r)
	}
	if r := Apply(dst, Stamp{X: 2, Y: 2, Radius: 3, Smoothness: 1, Opacity: 0, Color: surface.RGBA{A: 1}}, nil); !r.Empty() {
		t.Errorf("Apply(opacity 0) = %v, want empty", r)
	}
	if r := Apply(dst, Stamp{X: 2, Y: 2, Radius: 0, Opacity: 1}, nil); !r.Empty() {
		t.Errorf("Apply(radius 0) = %v, want empty", r)
	}
}

func TestStrokerOneStampPerSample(t *testing.T) {
	st := NewStroker(DefaultSettings())
	st.Begin(Sample{X: 0, Y: 0, Phase: PhaseDown})

	if got := st.Move(Sample{X: 0, Y: 0}); len(got) != 0 {
		t.Errorf("Move(same point) = %d stamps, want 0", len(got))
	}
	got := st.Move(Sample{X: 30, Y: 0, Pressure: 1})
	if len(got) != 1 {
		t.Fatalf("Move() = %d stamps, want 1", len(got))
	}
	if got[0].X != 30 || got[0].Radius != 4 {
		t.Errorf("stamp = %+v, want X=30 radius 4", got[0])
	}
	st.End()
	if st.Active() {
		t.Error("Active() = true after End")
	}
	if got := st.Move(Sample{X: 40}); got != nil {
		t.Errorf("Move() after End = %v, want nil", got)
	}
}

func TestStrokerSpacing(t *testing.T) {
	cfg := DefaultSettings()
	cfg.Spacing = 2
	st := NewStroker(cfg)
	st.Begin(Sample{})

	if got := st.Move(Sample{X: 1}); len(got) != 0 {
		t.Errorf("Move(shorter than spacing) = %d stamps, want 0", len(got))
	}
	got := st.Move(Sample{X: 7, Pressure: 1})
	// floor(7/2) = 3 interpolated points plus the end point.
	if len(got) != 4 {
		t.Fatalf("Move() = %d stamps, want 4", len(got))
	}
	wantX := []float32{0, 2, 4, 7}
	for i, s := range got {
		if math32.Abs(s.X-wantX[i]) > 1e-5 {
			t.Errorf("stamp[%d].X = %v, want %v", i, s.X, wantX[i])
		}
	}
	if got[0].Radius != 2.5 || got[3].Radius != 4 {
		t.Errorf("radii = %v..%v, want 2.5..4", got[0].Radius, got[3].Radius)
	}
}

func TestQueueDrain(t *testing.T) {
	var q Queue
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				q.Push(Sample{X: float32(i), Y: float32(j)})
			}
		}()
	}
	wg.Wait()

	if q.Len() != 800 {
		t.Errorf("Len() = %d, want 800", q.Len())
	}
	if got := q.Drain(); len(got) != 800 {
		t.Errorf("Drain() = %d samples, want 800", len(got))
	}
	if got := q.Drain(); len(got) != 0 {
		t.Errorf("second Drain() = %d samples, want 0", len(got))
	}
}

func TestQueueOrder(t *testing.T) {
	var q Queue
	q.Push(Sample{Phase: PhaseDown})
	q.Push(Sample{Phase: PhaseMove})
	q.Push(Sample{Phase: PhaseUp})
	got := q.Drain()
	for i, want := range []Phase{PhaseDown, PhaseMove, PhaseUp} {
		if got[i].Phase != want {
			t.Errorf("Drain()[%d].Phase = %v, want %v", i, got[i].Phase, want)
		}
	}
}

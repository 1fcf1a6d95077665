package brush

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/gogpu/paint/surface"
)

// Phase is the pointer state a sample was taken in.
type Phase uint8

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// Sample is one pointer event in canvas coordinates.
type Sample struct {
	X, Y     float32
	Pressure float32 // [0, 1]
	Time     time.Duration
	Phase    Phase
}

// Settings configures stamps issued by a Stroker.
type Settings struct {
	MinSize    float32 // diameter at zero pressure
	MaxSize    float32 // diameter at full pressure
	Smoothness float32
	Opacity    float32
	Color      surface.RGBA
	Eraser     bool

	// Spacing enables distance-based interpolation. Zero issues exactly one
	// stamp per input sample. A positive spacing skips moves shorter than
	// Spacing and fills longer ones with stamps every Spacing pixels.
	Spacing float32
}

// DefaultSettings returns a small, soft, opaque black brush.
func DefaultSettings() Settings {
	return Settings{
		MinSize:    5,
		MaxSize:    8,
		Smoothness: 1,
		Opacity:    1,
		Color:      surface.RGBA{A: 1},
	}
}

// Size returns the stamp diameter for a pressure in [0, 1].
func (s Settings) Size(pressure float32) float32 {
	pressure = math32.Min(math32.Max(pressure, 0), 1)
	return s.MinSize + (s.MaxSize-s.MinSize)*pressure
}

// Stroker converts pointer samples of a single stroke into stamps.
type Stroker struct {
	settings Settings
	active   bool
	last     Sample
}

// NewStroker creates a stroker with the given settings.
func NewStroker(settings Settings) *Stroker {
	return &Stroker{settings: settings}
}

// Settings returns the current brush settings.
func (s *Stroker) Settings() Settings { return s.settings }

// SetSettings replaces the brush settings. It takes effect on the next sample.
func (s *Stroker) SetSettings(settings Settings) { s.settings = settings }

// Active reports whether a stroke is in progress.
func (s *Stroker) Active() bool { return s.active }

// Begin starts a stroke. A press alone does not paint, so a stroke that
// never moves produces no stamps.
func (s *Stroker) Begin(p Sample) {
	s.active = true
	s.last = p
}

// Move advances the stroke to p and returns the stamps it produces.
func (s *Stroker) Move(p Sample) []Stamp {
	if !s.active {
		return nil
	}
	dx, dy := p.X-s.last.X, p.Y-s.last.Y
	dist := math32.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return nil
	}

	step := s.settings.Spacing
	if step <= 0 {
		s.last = p
		return []Stamp{s.stamp(p.X, p.Y, s.settings.Size(p.Pressure))}
	}
	if dist < step {
		return nil
	}

	startSize := s.settings.Size(s.last.Pressure)
	endSize := s.settings.Size(p.Pressure)
	n := int(dist / step)
	stamps := make([]Stamp, 0, n+1)
	for i := range n {
		along := float32(i) * step
		t := along / dist
		stamps = append(stamps, s.stamp(
			s.last.X+dx*t,
			s.last.Y+dy*t,
			startSize+(endSize-startSize)*t,
		))
	}
	stamps = append(stamps, s.stamp(p.X, p.Y, endSize))
	s.last = p
	return stamps
}

// End finishes the stroke.
func (s *Stroker) End() {
	s.active = false
}

func (s *Stroker) stamp(x, y, size float32) Stamp {
	return Stamp{
		X:          x,
		Y:          y,
		Radius:     size / 2,
		Smoothness: s.settings.Smoothness,
		Opacity:    s.settings.Opacity,
		Color:      s.settings.Color,
		Eraser:     s.settings.Eraser,
	}
}

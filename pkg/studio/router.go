package studio

import (
	"github.com/matzehuels/colorsplash/pkg/audio"
)

// State is the input router state.
type State int

const (
	Idle State = iota
	Painting
)

func (s State) String() string {
	if s == Painting {
		return "painting"
	}
	return "idle"
}

// press moves Idle -> Painting, snapshotting first. A press while already
// painting is ignored.
func (s *Studio) press() {
	if s.state != Idle {
		return
	}
	s.snapshot("stroke")
	s.state = Painting
	s.hooks.OnStrokeStart(s.ctx, s.tools.Color.Name, s.tools.Radius)
}

func (s *Studio) release() {
	s.state = Idle
}

// move stamps at surface coordinates while painting and reports whether it
// stamped.
func (s *Studio) move(x, y float64) bool {
	if s.state != Painting {
		return false
	}
	s.surface.StampAt(x, y, s.tools.Color, s.tools.Radius)
	if s.tools.Color.IsEraser() {
		s.sound.Play(audio.Erase)
	} else {
		s.sound.Play(audio.Brush)
	}
	return true
}

func (s *Studio) route(ev Event) (Outcome, bool) {
	switch e := ev.(type) {
	case PointerDown:
		s.sound.StartMusic()
		s.press()
	case PointerMove:
		s.move(e.X, e.Y)
	case PointerUp:
		s.release()
	case TouchStart:
		s.sound.StartMusic()
		s.press()
		return Outcome{PreventDefault: true}, true
	case TouchMove:
		if s.move(e.ClientX-e.OriginX, e.ClientY-e.OriginY) {
			return Outcome{PreventDefault: true}, true
		}
	case TouchEnd:
		s.release()
	default:
		return Outcome{}, false
	}
	return Outcome{}, true
}

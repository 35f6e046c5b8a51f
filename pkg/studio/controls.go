package studio

import (
	"image"
	"time"

	"github.com/matzehuels/colorsplash/pkg/audio"
	"github.com/matzehuels/colorsplash/pkg/canvas"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/event"
	"github.com/matzehuels/colorsplash/pkg/history"
	"github.com/matzehuels/colorsplash/pkg/stencil"
)

// control handles toolbar events. Every control except the stencil picker
// ends with a click cue.
func (s *Studio) control(ev Event) Outcome {
	s.sound.StartMusic()

	var out Outcome
	switch e := ev.(type) {
	case PickColor:
		c, ok := canvas.LookupColor(e.Name)
		if !ok || c.IsEraser() {
			return Outcome{Err: cserrors.New(cserrors.ErrCodeInvalidInput, "unknown color %q", e.Name)}
		}
		s.tools.Color = c
	case PickEraser:
		s.tools.Color = canvas.Eraser
	case SetBrushSize:
		s.tools.Radius = canvas.ParseRadius(e.Value)
	case PickStencil:
		s.loadStencil(e.Name)
		return Outcome{}
	case ClearCanvas:
		s.snapshot("clear")
		s.surface.Clear(s.stencil)
	case Undo:
		s.step("undo", s.history.Undo)
	case Redo:
		s.step("redo", s.history.Redo)
	case Save:
		out.Err = s.save()
	}
	s.sound.Play(audio.Click)
	return out
}

func (s *Studio) snapshot(op string) {
	if err := s.history.Snapshot(s.surface); err != nil {
		s.logger.Error("snapshot failed", "op", op, "err", err)
		return
	}
	s.hooks.OnHistory(s.ctx, op, s.history.UndoLen(), s.history.RedoLen())
}

func (s *Studio) step(op string, fn func(history.Encoder) (history.Snapshot, bool, error)) {
	snap, ok, err := fn(s.surface)
	if err != nil {
		s.logger.Error(op+" failed", "err", err)
		return
	}
	if !ok {
		s.logger.Debug("nothing to " + op)
		return
	}
	s.hooks.OnHistory(s.ctx, op, s.history.UndoLen(), s.history.RedoLen())
	s.repaint(snap)
}

// repaint decodes snap off the loop and draws it, scaled to whatever size
// the surface has when the decode settles.
func (s *Studio) repaint(snap history.Snapshot) {
	event.Go(s.loop, snap.Decode, func(img image.Image, err error) {
		if err != nil {
			s.logger.Error("decode snapshot", "err", err)
			return
		}
		s.surface.Paint(img)
	})
}

// loadStencil starts an uncancellable load. The stencil reference is only
// replaced once the image has decoded.
func (s *Studio) loadStencil(name string) {
	start := time.Now()
	s.stencils.Load(name, func(st stencil.Stencil, err error) {
		s.hooks.OnStencilLoaded(s.ctx, st.Name, time.Since(start), err)
		if err != nil {
			s.logger.Warn("stencil load failed", "stencil", st.Name, "err", err)
			return
		}
		s.snapshot("stencil")
		s.surface.Clear(st.Image)
		s.stencil = st.Image
		s.stencilName = st.Name
		s.sound.Play(audio.FruitLoad)
		s.logger.Debug("stencil loaded", "stencil", st.Name)
	})
}

func (s *Studio) resize(viewportWidth float64) {
	size := canvas.SquareSize(viewportWidth, s.maxSize, s.fraction)
	s.surface.Resize(size, size)
	if snap, ok := s.history.Latest(); ok {
		s.repaint(snap)
	} else if s.stencil != nil {
		s.surface.Paint(s.stencil)
	}
}

// Package studio is the headless coloring application: one drawing surface,
// its tool state, undo history and current stencil, driven by input events.
//
// A Studio's state is owned by its event loop. Handle must run on the loop;
// Dispatch and Post deliver events from any other goroutine.
package studio

import (
	"context"
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorsplash/pkg/audio"
	"github.com/matzehuels/colorsplash/pkg/canvas"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/event"
	"github.com/matzehuels/colorsplash/pkg/history"
	"github.com/matzehuels/colorsplash/pkg/observability"
	"github.com/matzehuels/colorsplash/pkg/stencil"
)

// Options configures a Studio. Only Stencils is required.
type Options struct {
	// Loop runs the studio. When nil, New creates one and the caller must
	// start it with Run.
	Loop *event.Loop

	Stencils   stencil.Source
	Player     audio.Player
	Downloader Downloader
	Logger     *log.Logger
	Hooks      observability.StudioHooks

	// ViewportWidth sizes the initial surface. Zero means MaxSize.
	ViewportWidth float64
	MaxSize       int
	Fraction      float64

	// HistoryLimit caps each history stack. Zero keeps every snapshot.
	HistoryLimit int
}

// Studio is a single coloring session.
type Studio struct {
	ctx    context.Context
	loop   *event.Loop
	logger *log.Logger
	hooks  observability.StudioHooks

	surface  *canvas.Surface
	tools    canvas.Tools
	history  *history.Manager
	stencils *stencil.Loader
	sound    *audio.Soundboard

	stencil     image.Image
	stencilName string
	state       State

	downloader Downloader
	maxSize    int
	fraction   float64
}

// New creates a studio with a blank surface, red paint and the default
// brush radius.
func New(ctx context.Context, opts Options) *Studio {
	if opts.Loop == nil {
		opts.Loop = event.NewLoop()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Hooks == nil {
		opts.Hooks = observability.Studio()
	}
	if opts.Downloader == nil {
		opts.Downloader = Discard
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = canvas.DefaultMaxSize
	}
	if opts.Fraction <= 0 {
		opts.Fraction = canvas.DefaultFraction
	}

	size := opts.MaxSize
	if opts.ViewportWidth > 0 {
		size = canvas.SquareSize(opts.ViewportWidth, opts.MaxSize, opts.Fraction)
	}

	var hopts []history.Option
	if opts.HistoryLimit > 0 {
		hopts = append(hopts, history.WithLimit(opts.HistoryLimit))
	}

	return &Studio{
		ctx:        ctx,
		loop:       opts.Loop,
		logger:     opts.Logger,
		hooks:      opts.Hooks,
		surface:    canvas.NewSurface(size, size),
		tools:      canvas.DefaultTools(),
		history:    history.New(hopts...),
		stencils:   stencil.NewLoader(ctx, opts.Loop, opts.Stencils),
		sound:      audio.NewSoundboard(opts.Player, opts.Logger),
		downloader: opts.Downloader,
		maxSize:    opts.MaxSize,
		fraction:   opts.Fraction,
	}
}

// Run drives the studio's loop until ctx is done.
func (s *Studio) Run(ctx context.Context) error {
	return s.loop.Run(ctx)
}

// Loop returns the loop that owns the studio.
func (s *Studio) Loop() *event.Loop { return s.loop }

// Handle applies ev. It must be called on the loop.
func (s *Studio) Handle(ev Event) Outcome {
	if out, ok := s.route(ev); ok {
		return out
	}
	if r, ok := ev.(Resize); ok {
		s.resize(r.ViewportWidth)
		return Outcome{}
	}
	return s.control(ev)
}

// Dispatch applies ev on the loop and waits for its synchronous part.
// Asynchronous continuations (decodes, stencil loads) may still be pending
// when it returns. It must not be called from the loop.
//
// Once the loop has stopped it returns a STOPPED error without applying ev.
func (s *Studio) Dispatch(ev Event) Outcome {
	var out Outcome
	if !s.loop.Do(func() { out = s.Handle(ev) }) {
		return Outcome{Err: cserrors.New(cserrors.ErrCodeStopped, "studio stopped")}
	}
	return out
}

// Post queues ev without waiting.
func (s *Studio) Post(ev Event) {
	s.loop.Post(func() { s.Handle(ev) })
}

// Settle waits until every queued event and pending decode has been applied.
func (s *Studio) Settle() {
	s.loop.Settle()
}

// View calls fn on the loop with a read-only view of the studio. It reports
// false, without calling fn, once the loop has stopped.
func (s *Studio) View(fn func(v View)) bool {
	return s.loop.Do(func() { fn(View{s: s}) })
}

// Done is closed when the studio's loop stops.
func (s *Studio) Done() <-chan struct{} { return s.loop.Stopped() }

// View exposes studio state to code running on the loop. It must not be
// retained after the callback returns.
type View struct {
	s *Studio
}

func (v View) Surface() *canvas.Surface { return v.s.surface }
func (v View) Tools() canvas.Tools      { return v.s.tools }
func (v View) State() State             { return v.s.state }
func (v View) Stencil() string          { return v.s.stencilName }
func (v View) UndoLen() int             { return v.s.history.UndoLen() }
func (v View) RedoLen() int             { return v.s.history.RedoLen() }
func (v View) MusicStarted() bool       { return v.s.sound.MusicStarted() }

// PNG encodes the current surface.
func (v View) PNG() ([]byte, error) { return v.s.surface.PNG() }

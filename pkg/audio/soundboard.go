package audio

import (
	"io"

	"github.com/charmbracelet/log"
)

// Player starts a cue from the beginning, interrupting any earlier playback
// of the same cue.
type Player interface {
	Play(c Cue) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(Cue) error

// Play calls f(c).
func (f PlayerFunc) Play(c Cue) error { return f(c) }

// Silent is a Player that accepts every cue and plays nothing.
var Silent Player = PlayerFunc(func(Cue) error { return nil })

// Soundboard triggers cues on behalf of a studio. It is not safe for
// concurrent use; a studio only calls it from its event loop.
type Soundboard struct {
	player       Player
	logger       *log.Logger
	musicStarted bool
}

// NewSoundboard wraps p. A nil player plays nothing; a nil logger discards.
func NewSoundboard(p Player, logger *log.Logger) *Soundboard {
	if p == nil {
		p = Silent
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Soundboard{player: p, logger: logger}
}

// Play triggers c. A rejected playback is logged and otherwise ignored.
func (b *Soundboard) Play(c Cue) {
	if err := b.player.Play(c); err != nil {
		b.logger.Debug("playback rejected", "cue", c, "err", err)
	}
}

// StartMusic starts the background loop the first time it is called and
// does nothing afterwards, whether or not the first attempt succeeded.
// It reports whether this call consumed the flag.
func (b *Soundboard) StartMusic() bool {
	if b.musicStarted {
		return false
	}
	b.musicStarted = true
	b.Play(Background)
	return true
}

// MusicStarted reports whether StartMusic has been consumed.
func (b *Soundboard) MusicStarted() bool {
	return b.musicStarted
}

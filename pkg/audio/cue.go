// Package audio plays the five fire-and-forget sound cues.
//
// Each [Cue] has a fixed clip under sounds/ and a fixed relative volume.
// Playing a cue always restarts it from time zero, even if it is still
// playing. The background cue loops.
//
// A [Soundboard] sits in front of a [Player] and swallows playback failures
// (no audio device, autoplay-style refusal): they are logged and never
// retried. It also gates background music so that it is started at most once.
package audio

import "fmt"

// Cue identifies a sound clip.
type Cue int

const (
	Brush Cue = iota
	Erase
	Click
	FruitLoad
	Background
)

var cueNames = [...]string{
	Brush:      "brush",
	Erase:      "eraser",
	Click:      "click",
	FruitLoad:  "fruit-load",
	Background: "background",
}

var cueVolumes = [...]float64{
	Brush:      0.3,
	Erase:      0.3,
	Click:      0.5,
	FruitLoad:  0.4,
	Background: 0.2,
}

// All returns every cue.
func All() []Cue {
	return []Cue{Brush, Erase, Click, FruitLoad, Background}
}

// String returns the clip base name, e.g. "fruit-load".
func (c Cue) String() string {
	if c < 0 || int(c) >= len(cueNames) {
		return fmt.Sprintf("cue(%d)", int(c))
	}
	return cueNames[c]
}

// File returns the clip path relative to the asset root.
func (c Cue) File() string {
	return "sounds/" + c.String() + ".mp3"
}

// Volume returns the linear playback volume in [0, 1].
func (c Cue) Volume() float64 {
	if c < 0 || int(c) >= len(cueVolumes) {
		return 0
	}
	return cueVolumes[c]
}

// Loops reports whether the cue repeats forever once started.
func (c Cue) Loops() bool {
	return c == Background
}

// Package speaker connects the audio mixer to the system sound device.
//
// It is kept apart from package audio because the underlying device driver
// needs cgo on some platforms. The library packages never import it; the
// colorsplash binary does unless it is built with the nosound tag.
package speaker

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output plays streamers on the default sound device.
type Output struct{}

// New initializes the device for format with a 100ms buffer.
func New(format beep.Format) (*Output, error) {
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Output{}, nil
}

// Start adds s to the device mix.
func (o *Output) Start(s beep.Streamer) error {
	speaker.Play(s)
	return nil
}

// Close stops playback and releases the device.
func (o *Output) Close() {
	speaker.Clear()
	speaker.Close()
}

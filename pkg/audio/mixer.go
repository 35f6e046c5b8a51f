package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"

	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
)

// DefaultFormat is the mixing format clips are resampled to.
var DefaultFormat = beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}

// Output accepts long-lived streamers for playback, e.g. the system
// speaker.
type Output interface {
	Start(s beep.Streamer) error
}

// Mixer is a beep-backed Player. Each cue gets one voice that is registered
// with the output on first use and restarted on every later Play.
type Mixer struct {
	mu     sync.Mutex
	out    Output
	clips  map[Cue]*beep.Buffer
	voices map[Cue]*voice
}

// NewMixer creates a mixer over decoded clips. A nil output makes every Play
// fail with AUDIO_UNAVAILABLE.
func NewMixer(out Output, clips map[Cue]*beep.Buffer) *Mixer {
	return &Mixer{out: out, clips: clips, voices: make(map[Cue]*voice)}
}

// Play restarts cue c from time zero.
func (m *Mixer) Play(c Cue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.out == nil {
		return cserrors.New(cserrors.ErrCodeAudioUnavailable, "no audio output")
	}
	clip, ok := m.clips[c]
	if !ok || clip.Len() == 0 {
		return cserrors.New(cserrors.ErrCodeAudioUnavailable, "no clip for %s", c)
	}

	v, ok := m.voices[c]
	if !ok {
		v = &voice{}
		if err := m.out.Start(v); err != nil {
			return cserrors.Wrap(cserrors.ErrCodeAudioUnavailable, err, "start %s", c)
		}
		m.voices[c] = v
	}
	v.restart(cueStream(c, clip))
	return nil
}

// cueStream builds a fresh stream for c positioned at sample zero.
func cueStream(c Cue, clip *beep.Buffer) beep.Streamer {
	var s beep.Streamer = clip.Streamer(0, clip.Len())
	if c.Loops() {
		s = beep.Loop(-1, clip.Streamer(0, clip.Len()))
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(c.Volume()),
	}
}

// voice is a never-ending streamer that plays its current stream and emits
// silence once that stream is drained.
type voice struct {
	mu sync.Mutex
	s  beep.Streamer
}

func (v *voice) restart(s beep.Streamer) {
	v.mu.Lock()
	v.s = s
	v.mu.Unlock()
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	n := 0
	if v.s != nil {
		var ok bool
		n, ok = v.s.Stream(samples)
		if !ok {
			v.s = nil
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (v *voice) Err() error { return nil }

// LoadClips decodes every cue clip found in fsys and resamples it to format.
// Clips that are missing or fail to decode are left out; their errors are
// joined into the returned error so the caller can log them.
func LoadClips(fsys fs.FS, format beep.Format) (map[Cue]*beep.Buffer, error) {
	clips := make(map[Cue]*beep.Buffer)
	var errs []error
	for _, c := range All() {
		buf, err := loadClip(fsys, c.File(), format)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.File(), err))
			continue
		}
		clips[c] = buf
	}
	return clips, errors.Join(errs...)
}

func loadClip(fsys fs.FS, path string, format beep.Format) (*beep.Buffer, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	stream, clipFormat, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if clipFormat.SampleRate != format.SampleRate {
		s = beep.Resample(4, clipFormat.SampleRate, format.SampleRate, stream)
	}
	buf := beep.NewBuffer(format)
	buf.Append(s)
	return buf, nil
}

//go:build !nosound

package cli

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorsplash/pkg/audio"
	"github.com/matzehuels/colorsplash/pkg/audio/speaker"
	"github.com/matzehuels/colorsplash/pkg/config"
)

// newPlayer opens the sound device. Any failure degrades to silence: a
// coloring session never fails for lack of audio.
func newPlayer(cfg config.Config, logger *log.Logger) (audio.Player, func()) {
	if !cfg.Audio.Enabled {
		return audio.Silent, func() {}
	}
	clips, err := audio.LoadClips(soundsFS(cfg), audio.DefaultFormat)
	if err != nil {
		logger.Warn("some sounds are missing", "err", err)
	}
	out, err := speaker.New(audio.DefaultFormat)
	if err != nil {
		logger.Warn("audio disabled", "err", err)
		return audio.Silent, func() {}
	}
	return audio.NewMixer(out, clips), out.Close
}

func soundsFS(cfg config.Config) fs.FS {
	if cfg.Audio.Dir != "" {
		return os.DirFS(cfg.Audio.Dir)
	}
	return os.DirFS(filepath.Join(cfg.Assets.Dir, "sounds"))
}

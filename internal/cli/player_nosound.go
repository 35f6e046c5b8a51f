//go:build nosound

package cli

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorsplash/pkg/audio"
	"github.com/matzehuels/colorsplash/pkg/config"
)

// newPlayer is silent in builds without a sound device driver.
func newPlayer(cfg config.Config, logger *log.Logger) (audio.Player, func()) {
	if cfg.Audio.Enabled {
		logger.Debug("audio disabled", "reason", "built with nosound")
	}
	return audio.Silent, func() {}
}

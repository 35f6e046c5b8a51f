// Package cli implements the colorsplash command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/buildinfo"
	"github.com/matzehuels/colorsplash/pkg/cache"
	"github.com/matzehuels/colorsplash/pkg/config"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/offline"
	"github.com/matzehuels/colorsplash/pkg/stencil"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

// appName is the application name used for directories and display.
const appName = "colorsplash"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Factories
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newStore opens the offline cache backend named by the config.
func newStore(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.RedisAddr})
	default:
		dir, err := storeDir(cfg)
		if err != nil {
			return nil, err
		}
		return cache.NewFileCache(dir)
	}
}

// newOrigin returns the asset origin: a remote URL when configured,
// otherwise the asset directory.
func newOrigin(cfg config.Assets) (offline.Origin, error) {
	if cfg.Origin != "" {
		return offline.NewURLOrigin(cfg.Origin)
	}
	return offline.FSOrigin{FS: os.DirFS(cfg.Dir)}, nil
}

func newWorker(ctx context.Context, cfg config.Config, logger *log.Logger) (*offline.Worker, cache.Cache, error) {
	store, err := newStore(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, cserrors.Wrap(cserrors.ErrCodeInvalidConfig, err, "open %s cache", cfg.Cache.Backend)
	}
	origin, err := newOrigin(cfg.Assets)
	if err != nil {
		store.Close()
		return nil, nil, cserrors.Wrap(cserrors.ErrCodeInvalidConfig, err, "asset origin")
	}
	w := offline.New(offline.Config{
		Version: cfg.Cache.Version,
		Store:   store,
		Origin:  origin,
		TTL:     cfg.Cache.TTL,
		Logger:  logger,
	})
	return w, store, nil
}

// studioOptions builds the options shared by every local studio.
func studioOptions(cfg config.Config, logger *log.Logger) studio.Options {
	return studio.Options{
		Stencils:     stencil.FSSource{FS: os.DirFS(cfg.Assets.Dir)},
		Logger:       logger,
		MaxSize:      cfg.Canvas.MaxSize,
		Fraction:     cfg.Canvas.ViewportFraction,
		HistoryLimit: cfg.Canvas.HistoryLimit,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/colorsplash/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Color Splash is a coloring book for kids",
		Long:         `Color Splash lets children color fruit stencils with a palette, an eraser and undo. Paint in the terminal, replay scripted drawings, or serve sessions to the browser with an offline asset cache.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			registerDebugHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to colorsplash.toml")

	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.paintCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

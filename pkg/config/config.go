// Package config loads the optional colorsplash.toml file. Every field has a
// default, so an absent file or an empty table is valid.
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//
//	[assets]
//	dir = "./web"
//
//	[cache]
//	version = "color-splash-v1"
//	backend = "file"      # memory, file, redis or none
//
//	[canvas]
//	max_size = 500
//	viewport_fraction = 0.9
//	history_limit = 0     # 0 keeps every snapshot
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/colorsplash/pkg/canvas"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/offline"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the full configuration.
type Config struct {
	Server Server `toml:"server"`
	Assets Assets `toml:"assets"`
	Cache  Cache  `toml:"cache"`
	Audio  Audio  `toml:"audio"`
	Canvas Canvas `toml:"canvas"`
}

type Server struct {
	Addr       string        `toml:"addr"`
	SessionTTL time.Duration `toml:"session_ttl"`
}

// Assets locates the app files. Origin, when set, is a remote base URL used
// instead of Dir.
type Assets struct {
	Dir    string `toml:"dir"`
	Origin string `toml:"origin"`
}

type Cache struct {
	Version   string        `toml:"version"`
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

// Audio controls speaker output. Dir defaults to <assets.dir>/sounds.
type Audio struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type Canvas struct {
	MaxSize          int     `toml:"max_size"`
	ViewportFraction float64 `toml:"viewport_fraction"`
	HistoryLimit     int     `toml:"history_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080", SessionTTL: 30 * time.Minute},
		Assets: Assets{Dir: "."},
		Cache:  Cache{Version: offline.DefaultVersion, Backend: BackendFile},
		Audio:  Audio{Enabled: true},
		Canvas: Canvas{
			MaxSize:          canvas.DefaultMaxSize,
			ViewportFraction: canvas.DefaultFraction,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, cserrors.Wrap(cserrors.ErrCodeInvalidConfig, err, "config file %s not found", path)
		}
		return cfg, err
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, cserrors.Wrap(cserrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, cserrors.New(cserrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return cserrors.New(cserrors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return cserrors.New(cserrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Version == "" {
		return cserrors.New(cserrors.ErrCodeInvalidConfig, "cache.version must not be empty")
	}
	if c.Canvas.MaxSize <= 0 {
		return cserrors.New(cserrors.ErrCodeInvalidConfig, "canvas.max_size must be positive")
	}
	if f := c.Canvas.ViewportFraction; f <= 0 || f > 1 {
		return cserrors.New(cserrors.ErrCodeInvalidConfig, "canvas.viewport_fraction must be in (0, 1]")
	}
	if c.Canvas.HistoryLimit < 0 {
		return cserrors.New(cserrors.ErrCodeInvalidConfig, "canvas.history_limit must not be negative")
	}
	return nil
}

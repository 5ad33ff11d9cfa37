// Package config loads the optional TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/mandelbrot/config.toml
// (~/.config/mandelbrot/config.toml when XDG_CONFIG_HOME is unset). Every
// key is optional; unset keys keep their built-in defaults, and command
// flags override both.
//
// Example:
//
//	[render]
//	width = 1920
//	height = 1080
//	max_iterations = 1024
//	palette = "hsv"
//
//	[view]
//	region = "seahorse-valley"
//
//	[server]
//	addr = ":8080"
//	cache_entries = 256
//	cache_ttl = "15m"
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
	"github.com/matzehuels/mandelbrot/pkg/store"
)

// Config mirrors the configuration file.
type Config struct {
	Render RenderConfig `toml:"render"`
	View   ViewConfig   `toml:"view"`
	Server ServerConfig `toml:"server"`
	Store  store.Config `toml:"store"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	MaxIterations uint32   `toml:"max_iterations"`
	Workers       int      `toml:"workers"`
	Palette       string   `toml:"palette"`
	Formats       []string `toml:"formats"`
}

// ViewConfig selects the start view: a named region or explicit bounds.
type ViewConfig struct {
	Region string   `toml:"region,omitempty"`
	Left   *float64 `toml:"left,omitempty"`
	Right  *float64 `toml:"right,omitempty"`
	Top    *float64 `toml:"top,omitempty"`
	Bottom *float64 `toml:"bottom,omitempty"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	CacheEntries int      `toml:"cache_entries"`
	CacheTTL     Duration `toml:"cache_ttl"`
}

// Duration is a time.Duration written as a string ("90s", "15m") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			Width:         pipeline.DefaultWidth,
			Height:        pipeline.DefaultHeight,
			MaxIterations: pipeline.DefaultMaxIterations,
			Palette:       pipeline.DefaultPalette,
			Formats:       []string{pipeline.DefaultFormat},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			CacheEntries: 128,
			CacheTTL:     Duration{10 * time.Minute},
		},
		Store: store.Config{
			Backend: store.BackendFile,
		},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "mandelbrot", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "mandelbrot", "config.toml"), nil
}

// Load reads path on top of the defaults. A missing file yields the
// defaults; a malformed file or unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, mberr.Wrap(mberr.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, mberr.New(mberr.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the view section and render names.
func (c Config) Validate() error {
	if _, err := c.View.Resolve(); err != nil {
		return err
	}
	if c.Render.Palette != "" {
		if err := pipeline.ValidatePalette(c.Render.Palette); err != nil {
			return err
		}
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}

// StartView resolves the configured start view, falling back to the default.
func (c Config) StartView() fractal.View {
	v, err := c.View.Resolve()
	if err != nil || v == nil {
		return fractal.DefaultView()
	}
	return *v
}

// Resolve returns the configured view, or nil when neither a region nor
// bounds are set.
func (vc ViewConfig) Resolve() (*fractal.View, error) {
	hasBounds := vc.Left != nil || vc.Right != nil || vc.Top != nil || vc.Bottom != nil
	switch {
	case vc.Region != "" && hasBounds:
		return nil, mberr.New(mberr.ErrCodeInvalidInput, "view: region and bounds are mutually exclusive")
	case vc.Region != "":
		v, ok := fractal.Region(vc.Region)
		if !ok {
			return nil, mberr.New(mberr.ErrCodeInvalidView, "view: unknown region %q", vc.Region)
		}
		return &v, nil
	case hasBounds:
		if vc.Left == nil || vc.Right == nil || vc.Top == nil || vc.Bottom == nil {
			return nil, mberr.New(mberr.ErrCodeInvalidView, "view: left, right, top and bottom must all be set")
		}
		v := fractal.View{Left: *vc.Left, Right: *vc.Right, Top: *vc.Top, Bottom: *vc.Bottom}
		if err := v.Validate(); err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, nil
	}
}

// Write encodes c to path, creating parent directories.
func (c Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// Package cli implements the mandelbrot command-line interface.
//
// Commands are built with cobra and share one [CLI] value holding the logger
// and the loaded configuration file.
//
// # Commands
//
//   - render: generate a view and write PNG, BMP, TIFF or JSON files
//   - zoom: print the view produced by zooming at a pixel
//   - explore: interactive terminal explorer
//   - serve: HTTP and websocket server
//   - bookmark: save, list, show and delete named views
//   - regions: list the built-in named regions
//   - config: locate, create and print the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mandelbrot/pkg/cache"
	"github.com/matzehuels/mandelbrot/pkg/config"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "mandelbrot"

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
	Logger *log.Logger

	// configPath is the --config flag; empty selects config.DefaultPath.
	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the configuration file named by --config, or the default
// path. A missing default file is not an error.
func (c *CLI) loadConfig() error {
	path, err := c.resolveConfigPath()
	if err != nil {
		c.Logger.Debug("no config path", "err", err)
		c.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return nil
}

func (c *CLI) resolveConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Fields are kept in memory
// for the lifetime of the command only.
func (c *CLI) newRunner(entries int) *pipeline.Runner {
	var cc cache.Cache = cache.NewNullCache()
	if entries > 0 {
		cc = cache.NewMemoryCache(entries)
	}
	return pipeline.NewRunner(cc, nil, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderDefaults returns pipeline options seeded from the configuration file.
func (c *CLI) renderDefaults() pipeline.Options {
	r := c.cfg.Render
	return pipeline.Options{
		Width:         r.Width,
		Height:        r.Height,
		MaxIterations: r.MaxIterations,
		Workers:       r.Workers,
		Palette:       r.Palette,
		Formats:       append([]string(nil), r.Formats...),
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}

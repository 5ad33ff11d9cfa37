// Package pipeline provides the render pipeline shared by the CLI, the HTTP
// server and the terminal explorer.
//
// This package implements the complete generate → colorize → encode pipeline.
// Centralizing it keeps defaults, validation and caching identical across
// all entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: compute the escape field for a view on the worker pool
//  2. Render: colorize the field with a palette and encode each format
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, logger)
//	opts := pipeline.Options{
//	    Region:  "seahorse-valley",
//	    Width:   1200,
//	    Height:  900,
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run the generate stage alone:
//
//	f, err := runner.GenerateField(ctx, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mandelbrot/pkg/cache"
	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/palette"
	"github.com/matzehuels/mandelbrot/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server and Explorer
// =============================================================================

const (
	// DefaultWidth is the default raster width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default raster height in pixels.
	DefaultHeight = 600

	// DefaultMaxIterations is the default iteration cap.
	DefaultMaxIterations = uint32(256)

	// DefaultPalette is the default palette name.
	DefaultPalette = palette.NameGray

	// DefaultFormat is the default output format.
	DefaultFormat = sink.FormatPNG

	// MaxDimension bounds each raster side so a single request cannot
	// allocate an unbounded field.
	MaxDimension = 16384
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the render pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generate options
	View          *fractal.View `json:"view,omitempty"`
	Region        string        `json:"region,omitempty"`
	Width         int           `json:"width,omitempty"`
	Height        int           `json:"height,omitempty"`
	MaxIterations uint32        `json:"max_iterations,omitempty"`
	Workers       int           `json:"workers,omitempty"`
	Refresh       bool          `json:"refresh,omitempty"`

	// Render options
	Palette string   `json:"palette,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// View is the resolved plane rectangle that was sampled.
	View fractal.View

	// Field is the escape field.
	Field field.Field

	// FieldKey is the cache key of the field.
	FieldKey string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width        int
	Height       int
	Pixels       int
	Interior     int
	Workers      int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	FieldHit  bool // Whether the field came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !sink.ValidFormats[format] {
		return mberr.New(mberr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, bmp, tiff, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePalette checks that a palette name is valid.
func ValidatePalette(name string) error {
	if !palette.IsValid(name) {
		return mberr.New(mberr.ErrCodeInvalidPalette, "invalid palette: %q (must be one of: %v)", name, palette.Names())
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate resolves the view and checks the raster size.
func (o *Options) ValidateForGenerate() error {
	if o.Region != "" {
		if o.View != nil {
			return mberr.New(mberr.ErrCodeInvalidInput, "region and explicit bounds are mutually exclusive")
		}
		v, ok := fractal.Region(o.Region)
		if !ok {
			return mberr.New(mberr.ErrCodeInvalidView, "unknown region %q (valid: %v)", o.Region, fractal.RegionNames())
		}
		o.View = &v
		o.Region = ""
	}
	if o.View == nil {
		v := fractal.DefaultView()
		o.View = &v
	}
	if err := o.View.Validate(); err != nil {
		return err
	}

	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := mberr.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.Width > MaxDimension || o.Height > MaxDimension {
		return mberr.New(mberr.ErrCodeInvalidDimensions,
			"raster %dx%d exceeds the %d pixel limit per side", o.Width, o.Height, MaxDimension)
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = DefaultMaxIterations
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidatePalette(o.Palette)
}

// ResolvedView returns the view after defaults are applied.
func (o *Options) ResolvedView() fractal.View {
	if o.View == nil {
		return fractal.DefaultView()
	}
	return *o.View
}

// FieldKeyOpts returns cache key options for field generation.
func (o *Options) FieldKeyOpts() cache.FieldKeyOpts {
	return cache.FieldKeyOpts{
		View:          o.ResolvedView(),
		Width:         o.Width,
		Height:        o.Height,
		MaxIterations: o.MaxIterations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Palette: o.Palette,
		Format:  format,
	}
}

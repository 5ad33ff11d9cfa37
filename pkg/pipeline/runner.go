package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mandelbrot/pkg/cache"
	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/observability"
	"github.com/matzehuels/mandelbrot/pkg/sink"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the server and the explorer all use it to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		View:      opts.ResolvedView(),
		FieldKey:  r.Keyer.FieldKey(opts.FieldKeyOpts()),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	genStart := time.Now()
	f, fieldHit, err := r.GenerateFieldWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Field = f
	result.Stats.GenerateTime = time.Since(genStart)
	result.Stats.Width = f.Width()
	result.Stats.Height = f.Height()
	result.Stats.Pixels = f.Width() * f.Height()
	result.Stats.Interior = f.Interior(opts.MaxIterations)
	result.Stats.Workers = field.NewGenerator(field.WithWorkers(opts.Workers)).Workers()
	result.CacheInfo.FieldHit = fieldHit

	r.Logger.Info("generated field",
		"width", f.Width(),
		"height", f.Height(),
		"max_iterations", opts.MaxIterations,
		"cached", fieldHit,
		"duration", result.Stats.GenerateTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, f, result.FieldKey, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"palette", opts.Palette,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateFieldWithCacheInfo computes the escape field with caching and
// returns cache hit info.
func (r *Runner) GenerateFieldWithCacheInfo(ctx context.Context, opts Options) (field.Field, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.FieldKey(opts.FieldKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit := r.cacheGet(ctx, cacheKey); hit {
			doc, err := sink.ReadJSON(data)
			if err == nil {
				return field.Field(doc.Rows), true, nil
			}
			// Unreadable entry: fall through and recompute
		}
	}

	f, err := Generate(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := sink.RenderJSON(f, sink.WithJSONMaxIterations(opts.MaxIterations)); err == nil {
		r.cacheSet(ctx, cacheKey, data, r.ttl(cache.TTLField))
	}

	return f, false, nil
}

// GenerateField is a convenience wrapper that calls GenerateFieldWithCacheInfo
// and discards the cache hit info.
func (r *Runner) GenerateField(ctx context.Context, opts Options) (field.Field, error) {
	f, _, err := r.GenerateFieldWithCacheInfo(ctx, opts)
	return f, err
}

// RenderWithCacheInfo encodes artifacts for f with caching and returns cache
// hit info. fieldKey identifies f.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f field.Field, fieldKey string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(fieldKey, opts.ArtifactKeyOpts(format))
			if data, hit := r.cacheGet(ctx, cacheKey); hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFromField(f, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(fieldKey, opts.ArtifactKeyOpts(format))
		r.cacheSet(ctx, cacheKey, data, r.ttl(cache.TTLArtifact))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, f field.Field, fieldKey string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, f, fieldKey, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return data, true
}

func (r *Runner) ttl(fallback time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return fallback
}

func (r *Runner) cacheSet(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, len(data))
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

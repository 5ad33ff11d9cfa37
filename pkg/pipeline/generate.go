package pipeline

import (
	"context"

	"github.com/matzehuels/mandelbrot/pkg/field"
)

// Generate computes the escape field described by opts without caching.
func Generate(ctx context.Context, opts Options) (field.Field, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, err
	}
	gen := field.NewGenerator(field.WithWorkers(opts.Workers), field.WithLogger(opts.Logger))
	return gen.Generate(ctx, *opts.View, opts.Width, opts.Height, opts.MaxIterations)
}

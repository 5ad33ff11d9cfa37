// Package pkg provides the libraries behind the mandelbrot command.
//
// # Overview
//
// Mandelbrot samples a rectangle of the complex plane on a pixel grid,
// counts escape iterations per pixel in parallel and colours the result.
// The pkg directory is organized into these areas:
//
//  1. [fractal] - Views, the escape-time kernel and named regions
//  2. [field] - The escape field and its parallel row generator
//  3. [palette] and [sink] - Colouring and PNG/BMP/TIFF/JSON encoding
//  4. [pipeline] - Orchestration (generate → render) with caching
//  5. [cache], [store], [config] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	View + raster size + iteration cap
//	         ↓
//	    [field] Generator (rows fanned out to workers, reassembled by index)
//	         ↓
//	    [palette] Colorize
//	         ↓
//	    [sink] PNG/BMP/TIFF/JSON output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(cache.NewMemoryCache(64), nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{
//	    Region:  "seahorse-valley",
//	    Width:   1024,
//	    Height:  768,
//	    Palette: "hsv",
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("seahorse.png", res.Artifacts["png"], 0644)
//
// # Error Handling
//
// Errors carry a code from [errors] (INVALID_VIEW, WORKER_FAULT, CANCELED,
// ...) that callers branch on with errors.Is-style helpers.
//
// [fractal]: github.com/matzehuels/mandelbrot/pkg/fractal
// [field]: github.com/matzehuels/mandelbrot/pkg/field
// [palette]: github.com/matzehuels/mandelbrot/pkg/palette
// [sink]: github.com/matzehuels/mandelbrot/pkg/sink
// [pipeline]: github.com/matzehuels/mandelbrot/pkg/pipeline
// [cache]: github.com/matzehuels/mandelbrot/pkg/cache
// [store]: github.com/matzehuels/mandelbrot/pkg/store
// [config]: github.com/matzehuels/mandelbrot/pkg/config
// [errors]: github.com/matzehuels/mandelbrot/pkg/errors
package pkg

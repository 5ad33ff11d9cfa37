package pipeline

import (
	"image"

	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/palette"
	"github.com/matzehuels/mandelbrot/pkg/sink"
)

// RenderFromField colorizes f and encodes it in every requested format.
// The image is built once and shared by all raster formats.
func RenderFromField(f field.Field, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	var img image.Image
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if img == nil && sink.IsRaster(format) {
			p, err := palette.ByName(opts.Palette)
			if err != nil {
				return nil, err
			}
			img = palette.Colorize(f, opts.MaxIterations, p)
		}
		data, err := sink.Encode(img, f, format,
			sink.WithJSONView(opts.ResolvedView()),
			sink.WithJSONMaxIterations(opts.MaxIterations))
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

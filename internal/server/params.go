package server

import (
	"net/url"
	"strconv"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
)

// parseView reads region or left/right/top/bottom from q. When neither is
// present it returns fallback.
func parseView(q url.Values, fallback fractal.View) (fractal.View, error) {
	keys := []string{"left", "right", "top", "bottom"}
	present := 0
	for _, k := range keys {
		if q.Has(k) {
			present++
		}
	}
	region := q.Get("region")

	switch {
	case region != "" && present > 0:
		return fractal.View{}, mberr.New(mberr.ErrCodeInvalidInput, "region and bounds are mutually exclusive")
	case region != "":
		v, ok := fractal.Region(region)
		if !ok {
			return fractal.View{}, mberr.New(mberr.ErrCodeInvalidView, "unknown region %q", region)
		}
		return v, nil
	case present == 0:
		return fallback, nil
	case present < len(keys):
		return fractal.View{}, mberr.New(mberr.ErrCodeInvalidView, "left, right, top and bottom must all be set")
	}

	var vals [4]float64
	for i, k := range keys {
		f, err := strconv.ParseFloat(q.Get(k), 64)
		if err != nil {
			return fractal.View{}, mberr.New(mberr.ErrCodeInvalidView, "%s: not a number: %q", k, q.Get(k))
		}
		vals[i] = f
	}
	v := fractal.View{Left: vals[0], Right: vals[1], Top: vals[2], Bottom: vals[3]}
	if err := v.Validate(); err != nil {
		return fractal.View{}, err
	}
	return v, nil
}

// parseOptions builds pipeline options from the raster query parameters on
// top of defaults. The view is set by the caller.
func parseOptions(q url.Values, defaults pipeline.Options) (pipeline.Options, error) {
	opts := pipeline.Options{
		Width:         defaults.Width,
		Height:        defaults.Height,
		MaxIterations: defaults.MaxIterations,
		Workers:       defaults.Workers,
		Palette:       defaults.Palette,
	}

	var err error
	if opts.Width, err = intParam(q, "width", opts.Width); err != nil {
		return opts, err
	}
	if opts.Height, err = intParam(q, "height", opts.Height); err != nil {
		return opts, err
	}
	if s := q.Get("iter"); s != "" {
		n, perr := strconv.ParseUint(s, 10, 32)
		if perr != nil {
			return opts, mberr.New(mberr.ErrCodeInvalidInput, "iter: not a non-negative integer: %q", s)
		}
		opts.MaxIterations = uint32(n)
	}
	if s := q.Get("palette"); s != "" {
		opts.Palette = s
	}
	if q.Has("refresh") {
		opts.Refresh = true
	}
	return opts, nil
}

func intParam(q url.Values, key string, fallback int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, mberr.New(mberr.ErrCodeInvalidDimensions, "%s: not an integer: %q", key, s)
	}
	return n, nil
}

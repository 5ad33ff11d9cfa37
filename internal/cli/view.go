package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/store"
)

var boundFlags = []string{"left", "right", "top", "bottom"}

// viewFlags selects a view on the command line: a named region, explicit
// bounds, or (where enabled) a saved bookmark. At most one source may be set.
type viewFlags struct {
	region   string
	bookmark string
	bounds   fractal.View
}

func (f *viewFlags) register(cmd *cobra.Command, withBookmark bool) {
	cmd.Flags().StringVar(&f.region, "region", "", "named region (see 'mandelbrot regions')")
	cmd.Flags().Float64Var(&f.bounds.Left, "left", 0, "left edge (real part)")
	cmd.Flags().Float64Var(&f.bounds.Right, "right", 0, "right edge (real part)")
	cmd.Flags().Float64Var(&f.bounds.Top, "top", 0, "top edge (imaginary part)")
	cmd.Flags().Float64Var(&f.bounds.Bottom, "bottom", 0, "bottom edge (imaginary part)")
	if withBookmark {
		cmd.Flags().StringVar(&f.bookmark, "bookmark", "", "saved bookmark name")
	}
	_ = cmd.RegisterFlagCompletionFunc("region", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return fractal.RegionNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// viewSelection is a resolved view plus the iteration count stored with a
// bookmark, if any.
type viewSelection struct {
	view          fractal.View
	maxIterations uint32
	source        string
}

// resolve applies the flags on top of the configured start view.
func (f *viewFlags) resolve(ctx context.Context, cmd *cobra.Command, c *CLI) (viewSelection, error) {
	changed := 0
	for _, name := range boundFlags {
		if cmd.Flags().Changed(name) {
			changed++
		}
	}

	sources := 0
	for _, set := range []bool{f.region != "", changed > 0, f.bookmark != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return viewSelection{}, mberr.New(mberr.ErrCodeInvalidInput, "--region, --bookmark and bounds are mutually exclusive")
	}

	switch {
	case f.region != "":
		v, ok := fractal.Region(f.region)
		if !ok {
			return viewSelection{}, mberr.New(mberr.ErrCodeInvalidView, "unknown region %q (valid: %v)", f.region, fractal.RegionNames())
		}
		return viewSelection{view: v, source: "region " + f.region}, nil

	case changed > 0:
		if changed < len(boundFlags) {
			return viewSelection{}, mberr.New(mberr.ErrCodeInvalidView, "--left, --right, --top and --bottom must all be set")
		}
		if err := f.bounds.Validate(); err != nil {
			return viewSelection{}, err
		}
		return viewSelection{view: f.bounds, source: "bounds"}, nil

	case f.bookmark != "":
		b, err := c.getBookmark(ctx, f.bookmark)
		if err != nil {
			return viewSelection{}, err
		}
		return viewSelection{view: b.View, maxIterations: b.MaxIterations, source: "bookmark " + b.Name}, nil
	}

	return viewSelection{view: c.cfg.StartView(), source: "default"}, nil
}

// openStore opens the bookmark store selected by the configuration file.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.cfg.Store, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("open bookmark store: %w", err)
	}
	return st, nil
}

func (c *CLI) getBookmark(ctx context.Context, name string) (*store.Bookmark, error) {
	st, err := c.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return st.Get(ctx, name)
}

// zoomSteps applies successive 2× zooms at the given pixels of a w×h raster.
func zoomSteps(v fractal.View, xs, ys []int, w, h int) (fractal.View, error) {
	if len(xs) != len(ys) {
		return v, mberr.New(mberr.ErrCodeInvalidInput, "--zoom-x and --zoom-y need the same number of values (%d vs %d)", len(xs), len(ys))
	}
	for i := range xs {
		x, y := xs[i], ys[i]
		if x < 0 || x >= w || y < 0 || y >= h {
			return v, mberr.New(mberr.ErrCodeInvalidInput, "zoom step %d: pixel (%d, %d) outside %dx%d raster", i+1, x, y, w, h)
		}
		v = fractal.ZoomAtPixel(v, x, y, w, h)
	}
	return v, v.Validate()
}

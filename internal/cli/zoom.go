package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
)

// zoomCommand creates the zoom command, which prints the view a click at
// pixel (x, y) would produce without rendering anything.
func (c *CLI) zoomCommand() *cobra.Command {
	var (
		view   viewFlags
		width  int
		height int
		factor float64
	)

	cmd := &cobra.Command{
		Use:   "zoom <x> <y>",
		Short: "Print the view produced by zooming at a pixel",
		Long: `Print the view produced by zooming at pixel (x, y) of a width x height
raster of the current view. The clicked sample becomes the centre of the new
view, which is factor times smaller in each direction.`,
		Example: `  mandelbrot zoom 400 300
  mandelbrot zoom --region seahorse-valley --factor 4 120 80`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[0])
			if err != nil {
				return mberr.New(mberr.ErrCodeInvalidInput, "x: not an integer: %q", args[0])
			}
			y, err := strconv.Atoi(args[1])
			if err != nil {
				return mberr.New(mberr.ErrCodeInvalidInput, "y: not an integer: %q", args[1])
			}
			if !cmd.Flags().Changed("width") && c.cfg.Render.Width > 0 {
				width = c.cfg.Render.Width
			}
			if !cmd.Flags().Changed("height") && c.cfg.Render.Height > 0 {
				height = c.cfg.Render.Height
			}
			if err := mberr.ValidateDimensions(width, height); err != nil {
				return err
			}
			if x < 0 || x >= width || y < 0 || y >= height {
				return mberr.New(mberr.ErrCodeInvalidInput, "pixel (%d, %d) outside %dx%d raster", x, y, width, height)
			}
			if factor <= 0 {
				return mberr.New(mberr.ErrCodeInvalidInput, "--factor must be positive")
			}

			sel, err := view.resolve(cmd.Context(), cmd, c)
			if err != nil {
				return err
			}

			cx, cy := sel.view.PixelToPoint(x, y, width, height)
			zoomed := fractal.ZoomBy(sel.view, cx, cy, factor)
			if err := zoomed.Validate(); err != nil {
				return err
			}

			printKeyValue("from", sel.view.String())
			printKeyValue("centre", fmt.Sprintf("%g%+gi", cx, cy))
			printKeyValue("view", StyleNumber.Render(zoomed.String()))
			printNewline()
			printNextStep("Render", fmt.Sprintf("%s render --left %g --right %g --top %g --bottom %g",
				appName, zoomed.Left, zoomed.Right, zoomed.Top, zoomed.Bottom))
			return nil
		},
	}

	view.register(cmd, true)
	cmd.Flags().IntVar(&width, "width", pipeline.DefaultWidth, "raster width the pixel refers to")
	cmd.Flags().IntVar(&height, "height", pipeline.DefaultHeight, "raster height the pixel refers to")
	cmd.Flags().Float64Var(&factor, "factor", 2, "magnification")

	return cmd
}

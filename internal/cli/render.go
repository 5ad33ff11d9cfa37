package cli

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mandelbrot/pkg/pipeline"
	"github.com/matzehuels/mandelbrot/pkg/sink"
)

// stdoutPath selects standard output for a single-format render.
const stdoutPath = "-"

// renderFlags holds the raster flags shared by render and explore. Only
// flags the user set override the configuration file.
type renderFlags struct {
	width         int
	height        int
	maxIterations uint32
	workers       int
	palette       string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", pipeline.DefaultWidth, "raster width in pixels")
	cmd.Flags().IntVar(&f.height, "height", pipeline.DefaultHeight, "raster height in pixels")
	cmd.Flags().Uint32VarP(&f.maxIterations, "iterations", "n", pipeline.DefaultMaxIterations, "maximum iterations per pixel")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "worker goroutines (default GOMAXPROCS)")
	cmd.Flags().StringVarP(&f.palette, "palette", "p", pipeline.DefaultPalette, "palette: gray, hsv")
	_ = cmd.RegisterFlagCompletionFunc("palette", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"gray", "hsv"}, cobra.ShellCompDirectiveNoFileComp
	})
}

// apply overrides opts with the flags that were set on cmd.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	if flags.Changed("width") || opts.Width == 0 {
		opts.Width = f.width
	}
	if flags.Changed("height") || opts.Height == 0 {
		opts.Height = f.height
	}
	if flags.Changed("iterations") || opts.MaxIterations == 0 {
		opts.MaxIterations = f.maxIterations
	}
	if flags.Changed("workers") {
		opts.Workers = f.workers
	}
	if flags.Changed("palette") || opts.Palette == "" {
		opts.Palette = f.palette
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		view       viewFlags
		raster     renderFlags
		output     string
		formatsStr string
		zoomX      []int
		zoomY      []int
		fit        bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a view of the Mandelbrot set to image files",
		Long: `Render a view of the Mandelbrot set to image files.

The view is the configured start view unless --region, --bookmark or all of
--left/--right/--top/--bottom are given. --zoom-x/--zoom-y apply 2x zoom steps
at raster pixels before rendering, the same way a click zooms in 'explore'.

Formats: png (default), bmp, tiff, json (the raw escape field).`,
		Example: `  mandelbrot render -o set.png
  mandelbrot render --region seahorse-valley -n 1024 -p hsv -f png,json
  mandelbrot render --zoom-x 400,300 --zoom-y 300,200 -o deep.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.renderDefaults()
			raster.apply(cmd, &opts)
			if cmd.Flags().Changed("format") || len(opts.Formats) == 0 {
				opts.Formats = parseFormats(formatsStr)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if output == stdoutPath && len(opts.Formats) != 1 {
				return fmt.Errorf("writing to stdout needs exactly one format, got %v", opts.Formats)
			}

			sel, err := view.resolve(cmd.Context(), cmd, c)
			if err != nil {
				return err
			}
			if sel.maxIterations != 0 && !cmd.Flags().Changed("iterations") {
				opts.MaxIterations = sel.maxIterations
			}
			if fit {
				opts.Height = max(1, int(math.Round(float64(opts.Width)*sel.view.Aspect())))
			}
			v, err := zoomSteps(sel.view, zoomX, zoomY, opts.Width, opts.Height)
			if err != nil {
				return err
			}
			opts.View = &v

			return c.runRender(cmd.Context(), opts, output)
		},
	}

	view.register(cmd, true)
	raster.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), bmp, tiff, json (comma-separated)")
	cmd.Flags().BoolVar(&fit, "fit", false, "derive --height from --width and the view's aspect ratio")
	cmd.Flags().IntSliceVar(&zoomX, "zoom-x", nil, "pixel column(s) to zoom at before rendering")
	cmd.Flags().IntSliceVar(&zoomY, "zoom-y", nil, "pixel row(s) to zoom at before rendering")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)
	runner := c.newRunner(0)
	defer runner.Close()

	quiet := output == stdoutPath
	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Generating...")
	if !quiet {
		spinner.Start()
	}
	restore := trackRows(spinner, "Generating")
	res, err := runner.Execute(ctx, opts)
	restore()
	if err != nil {
		if quiet {
			spinner.Stop()
		} else {
			spinner.StopWithError("Render failed")
		}
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %dx%d %s", res.Stats.Width, res.Stats.Height, res.View))

	if quiet {
		_, err := os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(res.Artifacts, opts.Formats, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.Pixels, res.Stats.Interior, res.Stats.GenerateTime, res.CacheInfo.FieldHit)
	printDetail("view %s", res.View)
	printNewline()
	printNextStep("Explore interactively", appName+" explore")
	return nil
}

// outputPaths derives one file path per format. A single format writes to
// output as given; several formats share output as a base name, with any
// known extension stripped.
func outputPaths(output string, formats []string) []string {
	if output != "" && len(formats) == 1 {
		return []string{output}
	}

	base := output
	if base == "" {
		base = appName
	}
	if ext := filepath.Ext(base); sink.ValidFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}

	paths := make([]string, len(formats))
	for i, format := range formats {
		paths[i] = base + "." + format
	}
	return paths
}

// writeArtifacts writes each requested artifact and returns the paths written.
func writeArtifacts(artifacts map[string][]byte, formats []string, output string) ([]string, error) {
	paths := outputPaths(output, formats)
	for i, format := range formats {
		if err := writeFile(paths[i], artifacts[format]); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}

func openOutput(path string) (io.WriteCloser, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

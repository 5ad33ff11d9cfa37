package cli

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mandelbrot/pkg/field"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/palette"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
)

// Explorer navigation steps.
const (
	panStep    = 0.1 // fraction of the view per arrow key
	zoomFactor = 2.0 // magnification per click or +
	halfBlock  = "▀" // top half in the foreground colour, bottom half in the background
	statusRows = 2
)

// exploreCommand creates the interactive terminal explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		view   viewFlags
		raster renderFlags
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the Mandelbrot set in the terminal",
		Long: `Explore the Mandelbrot set in the terminal.

Each terminal cell shows two samples using half-block characters. Click a cell
to zoom in on it, use the arrow keys to pan, + and - to zoom at the centre,
r to return to the start view and q to quit.

The raster size follows the terminal; --width and --height are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.renderDefaults()
			raster.apply(cmd, &opts)
			if err := pipeline.ValidatePalette(opts.Palette); err != nil {
				return err
			}
			sel, err := view.resolve(cmd.Context(), cmd, c)
			if err != nil {
				return err
			}
			if sel.maxIterations != 0 && !cmd.Flags().Changed("iterations") {
				opts.MaxIterations = sel.maxIterations
			}

			pal, err := palette.ByName(opts.Palette)
			if err != nil {
				return err
			}
			gen := field.NewGenerator(field.WithWorkers(opts.Workers), field.WithLogger(c.Logger))
			m := newExploreModel(cmd.Context(), gen, pal, sel.view, opts.MaxIterations)

			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(exploreModel); ok {
				printKeyValue("last view", fm.view.String())
			}
			return nil
		},
	}

	view.register(cmd, true)
	raster.register(cmd)
	return cmd
}

// fieldMsg delivers a finished generation. seq identifies the request so
// results for views that have since changed are dropped.
type fieldMsg struct {
	seq      int
	view     fractal.View
	field    field.Field
	duration time.Duration
	err      error
}

// exploreModel is the bubbletea model for the explorer.
type exploreModel struct {
	ctx     context.Context
	gen     *field.Generator
	pal     palette.Palette
	maxIter uint32

	start fractal.View
	view  fractal.View

	// Raster size in samples: one column per cell, two rows per cell.
	width  int
	height int

	seq      int
	cancel   context.CancelFunc
	field    field.Field
	shown    fractal.View
	duration time.Duration
	err      error
}

func newExploreModel(ctx context.Context, gen *field.Generator, pal palette.Palette, start fractal.View, maxIter uint32) exploreModel {
	return exploreModel{
		ctx:     ctx,
		gen:     gen,
		pal:     pal,
		maxIter: maxIter,
		start:   start,
		view:    start,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

// regenerate cancels any generation in flight and starts one for the
// current view and size.
func (m exploreModel) regenerate() (exploreModel, tea.Cmd) {
	if m.width <= 0 || m.height <= 0 {
		return m, nil
	}
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel
	m.seq++

	seq, v, w, h := m.seq, m.view, m.width, m.height
	gen, maxIter := m.gen, m.maxIter
	return m, func() tea.Msg {
		defer cancel()
		start := time.Now()
		f, err := gen.Generate(ctx, v, w, h, maxIter)
		return fieldMsg{seq: seq, view: v, field: f, duration: time.Since(start), err: err}
	}
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = 2 * (msg.Height - statusRows)
		return m.regenerate()

	case fieldMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.field = msg.field
			m.shown = msg.view
			m.duration = msg.duration
		}
		return m, nil

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.zoomAtCell(msg.X, msg.Y)
		case tea.MouseButtonWheelUp:
			return m.setView(zoomAtCentre(m.view, zoomFactor))
		case tea.MouseButtonWheelDown:
			return m.setView(zoomAtCentre(m.view, 1/zoomFactor))
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "left", "h":
			return m.setView(fractal.Pan(m.view, -panStep, 0))
		case "right", "l":
			return m.setView(fractal.Pan(m.view, panStep, 0))
		case "up", "k":
			return m.setView(fractal.Pan(m.view, 0, panStep))
		case "down", "j":
			return m.setView(fractal.Pan(m.view, 0, -panStep))
		case "+", "=":
			return m.setView(zoomAtCentre(m.view, zoomFactor))
		case "-", "_":
			return m.setView(zoomAtCentre(m.view, 1/zoomFactor))
		case "r":
			return m.setView(m.start)
		}
	}
	return m, nil
}

// zoomAtCell zooms on the upper sample of the clicked cell.
func (m exploreModel) zoomAtCell(col, row int) (tea.Model, tea.Cmd) {
	x, y := col, 2*row
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return m, nil
	}
	return m.setView(fractal.ZoomAtPixel(m.view, x, y, m.width, m.height))
}

// setView moves to v and regenerates. Views that fail validation, for
// example after zooming past float64 resolution, are ignored.
func (m exploreModel) setView(v fractal.View) (tea.Model, tea.Cmd) {
	if err := v.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	m.view = v
	return m.regenerate()
}

func (m exploreModel) View() string {
	var b strings.Builder
	if m.field != nil {
		writeHalfBlocks(&b, m.field, m.maxIter, m.pal)
	}

	status := fmt.Sprintf("%s  n=%d  %s", m.view, m.maxIter, m.duration.Round(time.Millisecond))
	if m.shown != m.view {
		status += "  rendering…"
	}
	b.WriteString(StyleValue.Render(status))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError + " " + m.err.Error()))
	} else {
		b.WriteString(StyleDim.Render("click zoom  ←↑↓→ pan  +/- zoom  r reset  q quit"))
	}
	return b.String()
}

// writeHalfBlocks draws f two sample rows per text line.
func writeHalfBlocks(b *strings.Builder, f field.Field, maxIter uint32, pal palette.Palette) {
	w := f.Width()
	for y := 0; y+1 < f.Height(); y += 2 {
		for x := 0; x < w; x++ {
			top := pal.Color(f[y][x], maxIter)
			bottom := pal.Color(f[y+1][x], maxIter)
			b.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(top)).
				Background(hexColor(bottom)).
				Render(halfBlock))
		}
		b.WriteString("\n")
	}
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

func zoomAtCentre(v fractal.View, factor float64) fractal.View {
	cx, cy := v.Center()
	return fractal.ZoomBy(v, cx, cy, factor)
}

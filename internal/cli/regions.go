package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mandelbrot/pkg/fractal"
)

// regionsCommand lists the built-in named regions.
func (c *CLI) regionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the named regions accepted by --region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := fractal.RegionNames()
			rows := make([][]string, len(names))
			for i, name := range names {
				v, _ := fractal.Region(name)
				rows[i] = []string{name, v.String(), fmt.Sprintf("%.3g", v.Width())}
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("Region", "View", "Width").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
					}
					if col == 0 {
						return lipgloss.NewStyle().Foreground(colorCyan)
					}
					return lipgloss.NewStyle().Foreground(colorWhite)
				})
			fmt.Println(t.Render())
			printNextStep("Render one", appName+" render --region "+names[0])
			return nil
		},
	}
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mandelbrot/pkg/store"
)

// bookmarkCommand creates the bookmark command group.
func (c *CLI) bookmarkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "bookmark",
		Aliases: []string{"bookmarks", "bm"},
		Short:   "Manage saved views",
		Long: `Manage saved views.

Bookmarks are stored by the backend selected in the [store] section of the
configuration file: one JSON file per bookmark (default), a Redis hash or a
MongoDB collection.`,
	}

	cmd.AddCommand(c.bookmarkSaveCommand())
	cmd.AddCommand(c.bookmarkListCommand())
	cmd.AddCommand(c.bookmarkShowCommand())
	cmd.AddCommand(c.bookmarkDeleteCommand())
	return cmd
}

func (c *CLI) bookmarkSaveCommand() *cobra.Command {
	var (
		view          viewFlags
		maxIterations uint32
	)

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a view under a name",
		Example: `  mandelbrot bookmark save seahorse --region seahorse-valley -n 512
  mandelbrot bookmark save tip --left -1.8 --right -1.7 --top 0.05 --bottom -0.05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sel, err := view.resolve(ctx, cmd, c)
			if err != nil {
				return err
			}
			b, err := store.NewBookmark(args[0], sel.view, maxIterations)
			if err != nil {
				return err
			}

			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Save(ctx, b); err != nil {
				return err
			}

			printSuccess("Saved bookmark %s", StyleValue.Render(b.Name))
			printDetail("%s", b.View)
			printNewline()
			printNextStep("Render", fmt.Sprintf("%s render --bookmark %s", appName, b.Name))
			return nil
		},
	}

	view.register(cmd, false)
	cmd.Flags().Uint32VarP(&maxIterations, "iterations", "n", 0, "iteration count stored with the view (0 uses the render default)")
	return cmd
}

func (c *CLI) bookmarkListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved views",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			list, err := st.List(ctx)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				printInfo("No bookmarks")
				printNextStep("Save one", appName+" bookmark save <name> --region seahorse-valley")
				return nil
			}
			fmt.Println(bookmarkTable(list))
			return nil
		},
	}
}

// bookmarkTable renders bookmarks as a bordered table.
func bookmarkTable(list []*store.Bookmark) string {
	rows := make([][]string, len(list))
	for i, b := range list {
		iter := "-"
		if b.MaxIterations != 0 {
			iter = strconv.FormatUint(uint64(b.MaxIterations), 10)
		}
		rows[i] = []string{b.Name, b.View.String(), iter, b.CreatedAt.Format("2006-01-02 15:04")}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "View", "Iter", "Created").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			default:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
		}).
		Render()
}

func (c *CLI) bookmarkShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := c.getBookmark(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cx, cy := b.View.Center()
			fmt.Println(StyleTitle.Render(b.Name))
			printKeyValue("view", b.View.String())
			printKeyValue("centre", fmt.Sprintf("%g%+gi", cx, cy))
			if b.MaxIterations != 0 {
				printKeyValue("iterations", strconv.FormatUint(uint64(b.MaxIterations), 10))
			}
			printKeyValue("created", b.CreatedAt.Format("2006-01-02 15:04:05"))
			printKeyValue("id", b.ID.String())
			return nil
		},
	}
}

func (c *CLI) bookmarkDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved view",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Delete(ctx, args[0]); err != nil {
				return err
			}
			printSuccess("Deleted bookmark %s", args[0])
			return nil
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mandelbrot/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The configuration file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Mandelbrot renders the Mandelbrot set",
		Long:         `Mandelbrot computes escape-time fields of the Mandelbrot set in parallel and renders them to images, an interactive terminal explorer or an HTTP server.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "configuration file (default $XDG_CONFIG_HOME/mandelbrot/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.zoomCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.bookmarkCommand())
	root.AddCommand(c.regionsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

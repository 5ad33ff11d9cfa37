package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mandelbrot/internal/server"
	"github.com/matzehuels/mandelbrot/pkg/cache"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
	"github.com/matzehuels/mandelbrot/pkg/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		noBookmarks bool
		origins     []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve renders over HTTP and the websocket explorer",
		Long: `Serve renders over HTTP and the websocket explorer.

Routes:
  GET    /healthz
  GET    /render.{png,bmp,tiff,json}   region or left/right/top/bottom, width, height, iter, palette
  GET    /field                        raw escape field as JSON
  GET    /zoom                         view after zooming at pixel x, y
  GET    /ws                           websocket explorer
  GET    /bookmarks                    list, POST to save
  GET    /bookmarks/{name}             show, DELETE to remove
  GET    /bookmarks/{name}/render.{format}

Generated fields are cached in memory ([server] cache_entries, cache_ttl).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") || c.cfg.Server.Addr == "" {
				c.cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), !noBookmarks, origins)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noBookmarks, "no-bookmarks", false, "disable the /bookmarks routes")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "extra websocket origin patterns, e.g. localhost:3000")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, bookmarks bool, origins []string) error {
	sc := c.cfg.Server

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "serve:")
	runner := pipeline.NewRunner(cache.NewMemoryCache(sc.CacheEntries), keyer, c.Logger)
	runner.TTL = sc.CacheTTL.Duration
	defer runner.Close()

	var st store.Store
	if bookmarks {
		var err error
		if st, err = c.openStore(ctx); err != nil {
			return err
		}
		defer st.Close()
	}

	srv := server.New(server.Config{
		Addr:           sc.Addr,
		Runner:         runner,
		Store:          st,
		Defaults:       c.renderDefaults(),
		StartView:      c.cfg.StartView(),
		AllowedOrigins: origins,
		Logger:         c.Logger,
	})

	printInfo("Listening on %s", StyleValue.Render(sc.Addr))
	if bookmarks {
		backend := c.cfg.Store.Backend
		if backend == "" {
			backend = store.BackendFile
		}
		printDetail("bookmarks: %s", backend)
	}
	printDetail("cache: %s entries, ttl %s", formatCount(sc.CacheEntries), sc.CacheTTL.Duration)

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	printSuccess("Server stopped")
	return nil
}

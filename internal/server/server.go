// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET    /healthz                          liveness probe
//	GET    /render.{format}                  render a view (png, bmp, tiff, json)
//	GET    /field                            raw escape field as JSON
//	GET    /zoom                             view produced by zooming at a pixel
//	GET    /bookmarks                        list bookmarks
//	POST   /bookmarks                        save a bookmark
//	GET    /bookmarks/{name}                 show a bookmark
//	DELETE /bookmarks/{name}                 delete a bookmark
//	GET    /bookmarks/{name}/render.{format} render a bookmarked view
//	GET    /ws                               websocket explorer
//
// View parameters are shared by every route that takes a view: either
// region=<name> or all of left, right, top, bottom. Raster parameters are
// width, height, iter and palette; unset values fall back to the server
// defaults.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
	"github.com/matzehuels/mandelbrot/pkg/store"
)

// Timeouts for the HTTP server.
const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Runner executes renders. Required.
	Runner *pipeline.Runner

	// Store holds bookmarks. When nil the bookmark routes are not mounted.
	Store store.Store

	// Defaults supplies width, height, iteration cap, palette and workers
	// for requests that leave them unset.
	Defaults pipeline.Options

	// StartView is the view used when a request names no view.
	StartView fractal.View

	// AllowedOrigins lists extra host patterns accepted for /ws. Same-origin
	// requests are always accepted.
	AllowedOrigins []string

	Logger *log.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New builds a Server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.StartView == (fractal.View{}) {
		cfg.StartView = fractal.DefaultView()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	s := &Server{cfg: cfg, logger: cfg.Logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

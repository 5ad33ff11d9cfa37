package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mandelbrot/pkg/buildinfo"
	"github.com/matzehuels/mandelbrot/pkg/cache"
	mberr "github.com/matzehuels/mandelbrot/pkg/errors"
	"github.com/matzehuels/mandelbrot/pkg/fractal"
	"github.com/matzehuels/mandelbrot/pkg/pipeline"
	"github.com/matzehuels/mandelbrot/pkg/sink"
	"github.com/matzehuels/mandelbrot/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// handleRender serves GET /render.{format}.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	v, err := parseView(r.URL.Query(), s.cfg.StartView)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, v, 0)
}

// handleField serves GET /field: the raw escape field as JSON.
func (s *Server) handleField(w http.ResponseWriter, r *http.Request) {
	v, err := parseView(r.URL.Query(), s.cfg.StartView)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := parseOptions(r.URL.Query(), s.cfg.Defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.View = &v

	f, err := s.cfg.Runner.GenerateField(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := sink.RenderJSON(f, sink.WithJSONView(v), sink.WithJSONMaxIterations(opts.MaxIterations))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(sink.FormatJSON))
	w.Write(data)
}

// render executes the pipeline for v and writes the artifact named by the
// {format} URL parameter. maxIterations, when non-zero, replaces the server
// default before query overrides apply.
func (s *Server) render(w http.ResponseWriter, r *http.Request, v fractal.View, maxIterations uint32) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	defaults := s.cfg.Defaults
	if maxIterations != 0 {
		defaults.MaxIterations = maxIterations
	}
	opts, err := parseOptions(r.URL.Query(), defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.View = &v
	opts.Formats = []string{format}

	res, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data := res.Artifacts[format]
	etag := `"` + cache.Hash(data)[:16] + `"`
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h := w.Header()
	h.Set("ETag", etag)
	h.Set("Content-Type", sink.ContentType(format))
	h.Set("X-Cache-Field", strconv.FormatBool(res.CacheInfo.FieldHit))
	h.Set("X-Generate-Time", res.Stats.GenerateTime.String())
	w.Write(data)
}

type zoomResponse struct {
	View   fractal.View `json:"view"`
	Center [2]float64   `json:"center"`
}

// handleZoom serves GET /zoom: the view produced by zooming at pixel (x, y)
// of a width×height raster of the current view.
func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := parseView(q, s.cfg.StartView)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := parseOptions(q, s.cfg.Defaults)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := mberr.ValidateDimensions(opts.Width, opts.Height); err != nil {
		s.writeError(w, r, err)
		return
	}

	x, err := intParam(q, "x", opts.Width/2)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	y, err := intParam(q, "y", opts.Height/2)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if x < 0 || x >= opts.Width || y < 0 || y >= opts.Height {
		s.writeError(w, r, mberr.New(mberr.ErrCodeInvalidInput, "pixel (%d, %d) outside %dx%d raster", x, y, opts.Width, opts.Height))
		return
	}

	factor := 2.0
	if f := q.Get("factor"); f != "" {
		factor, err = strconv.ParseFloat(f, 64)
		if err != nil || factor <= 0 {
			s.writeError(w, r, mberr.New(mberr.ErrCodeInvalidInput, "factor: must be a positive number, got %q", f))
			return
		}
	}

	cx, cy := v.PixelToPoint(x, y, opts.Width, opts.Height)
	writeJSON(w, http.StatusOK, zoomResponse{
		View:   fractal.ZoomBy(v, cx, cy, factor),
		Center: [2]float64{cx, cy},
	})
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	list, err := s.cfg.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []*store.Bookmark{}
	}
	writeJSON(w, http.StatusOK, list)
}

type saveBookmarkRequest struct {
	Name          string        `json:"name"`
	Region        string        `json:"region,omitempty"`
	View          *fractal.View `json:"view,omitempty"`
	MaxIterations uint32        `json:"max_iterations,omitempty"`
}

const maxBookmarkBody = 1 << 16

func (s *Server) handleSaveBookmark(w http.ResponseWriter, r *http.Request) {
	var req saveBookmarkRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBookmarkBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, mberr.Wrap(mberr.ErrCodeInvalidInput, err, "invalid bookmark body: %v", err))
		return
	}

	v := s.cfg.StartView
	switch {
	case req.Region != "" && req.View != nil:
		s.writeError(w, r, mberr.New(mberr.ErrCodeInvalidInput, "region and view are mutually exclusive"))
		return
	case req.Region != "":
		rv, ok := fractal.Region(req.Region)
		if !ok {
			s.writeError(w, r, mberr.New(mberr.ErrCodeInvalidView, "unknown region %q", req.Region))
			return
		}
		v = rv
	case req.View != nil:
		v = *req.View
	}

	b, err := store.NewBookmark(req.Name, v, req.MaxIterations)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cfg.Store.Save(r.Context(), b); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleGetBookmark(w http.ResponseWriter, r *http.Request) {
	b, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBookmark(w http.ResponseWriter, r *http.Request) {
	if err := s.cfg.Store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderBookmark(w http.ResponseWriter, r *http.Request) {
	b, err := s.cfg.Store.Get(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.render(w, r, b.View, b.MaxIterations)
}

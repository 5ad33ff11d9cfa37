package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/render.{format}", s.handleRender)
	r.Get("/field", s.handleField)
	r.Get("/zoom", s.handleZoom)
	r.Get("/ws", s.handleWebsocket)

	if s.cfg.Store != nil {
		r.Route("/bookmarks", func(r chi.Router) {
			r.Get("/", s.handleListBookmarks)
			r.Post("/", s.handleSaveBookmark)
			r.Get("/{name}", s.handleGetBookmark)
			r.Delete("/{name}", s.handleDeleteBookmark)
			r.Get("/{name}/render.{format}", s.handleRenderBookmark)
		})
	}
	return r
}

// Package server exposes the playback engine over HTTP: snapshot intake
// from the host, session lifecycle, and the websocket the renderer speaks.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devgenix/surpriseal/internal/provider"
	"github.com/devgenix/surpriseal/internal/session"
	"github.com/devgenix/surpriseal/internal/store"
)

type Server struct {
	store    *store.Store
	registry *session.Registry
	oembed   *provider.Client
}

func NewServer(st *store.Store, registry *session.Registry, oembed *provider.Client) *Server {
	return &Server{
		store:    st,
		registry: registry,
		oembed:   oembed,
	}
}

func (s *Server) Router(middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	for _, mw := range middlewares {
		r.Use(mw)
	}

	r.Get("/health", s.handleHealth)

	r.Put("/presentations/{id}", s.handlePutPresentation)
	r.Get("/presentations/{id}", s.handleGetPresentation)

	r.Post("/presentations/{id}/sessions", s.handleCreateSession)
	r.Get("/sessions/{id}/ws", s.handleSessionWS)
	r.Delete("/sessions/{id}", s.handleCloseSession)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "reveal-service",
	})
}

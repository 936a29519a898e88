package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devgenix/surpriseal/internal/reveal"
	"github.com/devgenix/surpriseal/internal/store"
)

// handlePutPresentation accepts a config snapshot from the host. Live
// sessions of the same presentation pick the new snapshot up without
// losing their position.
// PUT /presentations/{id}
func (s *Server) handlePutPresentation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing presentation id")
		return
	}

	var pres reveal.Presentation
	if err := json.NewDecoder(r.Body).Decode(&pres); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	pres.ID = id

	if s.oembed != nil {
		s.oembed.Enrich(ctx, &pres)
	}

	if err := s.store.PutPresentation(ctx, &pres); err != nil {
		log.Printf("reveal-service: put presentation %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	s.registry.ReloadPresentation(&pres)
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

// GET /presentations/{id}
func (s *Server) handleGetPresentation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pres, err := s.store.GetPresentation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "presentation not found")
		return
	}
	if err != nil {
		log.Printf("reveal-service: get presentation %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, pres)
}

// handleCreateSession opens a playback session. ?preview=1 runs the
// authoring preview mode: gate skipped, direct positioning allowed.
// POST /presentations/{id}/sessions
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pres, err := s.store.GetPresentation(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "presentation not found")
		return
	}
	if err != nil {
		log.Printf("reveal-service: create session for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	preview := r.URL.Query().Get("preview") == "1"
	sess := s.registry.Create(r.Context(), pres, preview)
	writeJSON(w, http.StatusCreated, map[string]any{
		"sessionId":      sess.ID,
		"presentationId": id,
		"preview":        preview,
	})
}

// DELETE /sessions/{id}
func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	sess.Close()
	writeJSON(w, http.StatusOK, map[string]any{"closed": id})
}

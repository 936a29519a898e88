package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/devgenix/surpriseal/internal/session"
)

var upgrader = websocket.Upgrader{
	// The service sits behind the gateway, which owns origin policy.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleSessionWS attaches a renderer (or authoring preview) to a live
// session. The client immediately receives the current state.
// GET /sessions/{id}/ws
func (s *Server) handleSessionWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("reveal-service: ws upgrade: %v", err)
		return
	}

	sess.Attach(session.NewClient(sess, conn))
}

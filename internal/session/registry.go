package session

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/devgenix/surpriseal/internal/reveal"
)

// Registry tracks the live sessions and publishes their lifecycle to the
// shared broadcast channel so external followers (authoring preview,
// realtime fan-out) can observe playback.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	rdb    *redis.Client
	collab FeedbackCollaborator
}

func NewRegistry(rdb *redis.Client, collab FeedbackCollaborator) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		rdb:      rdb,
		collab:   collab,
	}
}

// Create starts a new playback session for a presentation snapshot. The
// created event is published before the session loop starts so followers
// always see it ahead of the first state change.
func (r *Registry) Create(ctx context.Context, pres *reveal.Presentation, preview bool) *Session {
	id := uuid.NewString()
	r.publishEvent(ctx, map[string]any{
		"type": "session.created",
		"payload": map[string]any{
			"sessionId":      id,
			"presentationId": pres.ID,
			"preview":        preview,
		},
	})

	onState := func(position string) {
		r.publishEvent(context.Background(), map[string]any{
			"type": "player.state_changed",
			"payload": map[string]any{
				"sessionId":      id,
				"presentationId": pres.ID,
				"position":       position,
			},
		})
	}
	s := New(id, pres, preview, r.collab, onState, func(closed *Session) {
		r.mu.Lock()
		delete(r.sessions, closed.ID)
		r.mu.Unlock()
		r.publishEvent(context.Background(), map[string]any{
			"type": "session.closed",
			"payload": map[string]any{
				"sessionId":      closed.ID,
				"presentationId": closed.PresentationID,
			},
		})
	})

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s
}

// Get returns a live session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// ReloadPresentation pushes a fresh snapshot into every live session of a
// presentation.
func (r *Registry) ReloadPresentation(pres *reveal.Presentation) {
	r.mu.Lock()
	var targets []*Session
	for _, s := range r.sessions {
		if s.PresentationID == pres.ID {
			targets = append(targets, s)
		}
	}
	r.mu.Unlock()

	for _, s := range targets {
		s.Reload(pres)
	}
}

// CloseAll tears down every live session; used on service shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	var all []*Session
	for _, s := range r.sessions {
		all = append(all, s)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}

func (r *Registry) publishEvent(ctx context.Context, event map[string]any) {
	if r.rdb == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("reveal-service: marshal event: %v", err)
		return
	}
	if err := r.rdb.Publish(ctx, "broadcast", string(data)).Err(); err != nil {
		log.Printf("reveal-service: publish event: %v", err)
	}
}

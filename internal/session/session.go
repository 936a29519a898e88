// Package session runs one playback session per goroutine: client events,
// autoplay timer fires and the segment-loop tick all funnel into a single
// loop, so the engine state never needs a lock.
package session

import (
	"sync"
	"time"

	"github.com/devgenix/surpriseal/internal/reveal"
)

// FeedbackCollaborator is the external feedback-capture widget invoked at
// the finale when default branding is removed. Its active/inactive state
// comes back through EvFeedbackActive events.
type FeedbackCollaborator interface {
	Begin(presentationID string, preview bool)
}

type timerFire struct {
	gen int
}

// Session couples one Engine with its hub, event queue and timers.
type Session struct {
	ID             string
	PresentationID string
	Preview        bool

	engine *Engine
	hub    *Hub

	events  chan ClientEvent
	fires   chan timerFire
	reloads chan *reveal.Presentation

	done      chan struct{}
	closeOnce sync.Once
	onClose   func(*Session)
}

// New builds a session for a presentation snapshot and starts its loop.
// onState, when non-nil, observes every position transition.
func New(id string, pres *reveal.Presentation, preview bool, collab FeedbackCollaborator, onState func(position string), onClose func(*Session)) *Session {
	s := &Session{
		ID:             id,
		PresentationID: pres.ID,
		Preview:        preview,
		hub:            NewHub(),
		events:         make(chan ClientEvent, 64),
		fires:          make(chan timerFire, 16),
		reloads:        make(chan *reveal.Presentation, 1),
		done:           make(chan struct{}),
		onClose:        onClose,
	}
	s.engine = NewEngine(id, pres, preview, s.broadcast, s.schedule)
	if collab != nil {
		s.engine.OnFinale = func() { collab.Begin(pres.ID, preview) }
	}
	s.engine.OnState = onState

	go s.hub.Run()
	go s.run()
	return s
}

func (s *Session) broadcast(m Message) {
	select {
	case s.hub.broadcast <- m.encode():
	case <-s.done:
	}
}

func (s *Session) schedule(d time.Duration, gen int) {
	time.AfterFunc(d, func() {
		select {
		case s.fires <- timerFire{gen: gen}:
		case <-s.done:
		}
	})
}

func (s *Session) run() {
	ticker := time.NewTicker(SegmentPoll)
	defer ticker.Stop()

	s.engine.Start()

	for {
		select {
		case <-s.done:
			s.engine.Dispose()
			s.hub.Close()
			return
		case ev := <-s.events:
			s.engine.HandleEvent(ev)
		case f := <-s.fires:
			s.engine.TimerFired(f.gen)
		case pres := <-s.reloads:
			s.engine.Reload(pres)
		case <-ticker.C:
			s.engine.Tick()
		}
	}
}

// SegmentPoll is the fixed segment-loop polling interval.
const SegmentPoll = 500 * time.Millisecond

// Deliver queues one client event for the session loop. Events arriving
// after close are dropped.
func (s *Session) Deliver(ev ClientEvent) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// Reload hands the session a fresh config snapshot from the host.
func (s *Session) Reload(pres *reveal.Presentation) {
	select {
	case s.reloads <- pres:
	case <-s.done:
	default:
		// A reload is already pending; the newest snapshot wins next loop.
	}
}

// Attach registers a websocket connection and replays the current state to
// it (via a broadcast, which every attached client tolerates).
func (s *Session) Attach(c *Client) {
	select {
	case s.hub.register <- c:
	case <-s.done:
		return
	}
	go c.writePump()
	go c.readPump()
	s.Deliver(ClientEvent{Type: EvHello})
}

func (s *Session) detach(c *Client) {
	select {
	case s.hub.unregister <- c:
	case <-s.done:
	}
}

// Close tears the session down: timers invalidated, audio backends
// released, clients disconnected.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.onClose != nil {
			s.onClose(s)
		}
	})
}

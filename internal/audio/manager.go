package audio

import (
	"log"

	"github.com/devgenix/surpriseal/internal/reveal"
)

// channelState is the manager's explicit comparison state for one channel.
// lastLoaded is the identity marker that suppresses backend reconstruction
// when a position change resolves to the same track.
type channelState struct {
	name       string
	backend    Backend
	lastLoaded string
	segment    *reveal.MusicSegment
	inScope    bool

	// seekPending guards the segment loop: once a wrap seek was issued it
	// stays set until a position report lands back inside the window, so a
	// stale past-boundary position does not trigger a seek per tick.
	seekPending bool
}

// Manager owns both music channels for one session. It is driven solely by
// the session loop goroutine and holds no locks. Dispose must be called on
// teardown.
type Manager struct {
	sink     Sink
	global   *channelState
	override *channelState

	muted   bool
	volume  float64
	blocked bool
}

func NewManager(sink Sink) *Manager {
	return &Manager{
		sink:     sink,
		global:   &channelState{name: ChannelGlobal},
		override: &channelState{name: ChannelOverride},
		volume:   1.0,
	}
}

func (m *Manager) channel(name string) *channelState {
	if name == ChannelOverride {
		return m.override
	}
	return m.global
}

// Apply resolves both channels for a new position. The global descriptor is
// always the presentation's global music; overrideMusic is non-nil only
// when the current panel opts out of global inheritance. The out-of-scope
// channel is paused, never unloaded, so returning to it resumes without a
// rebuild.
func (m *Manager) Apply(global reveal.Music, overrideMusic *reveal.Music) {
	m.applyChannel(m.global, global, overrideMusic == nil)
	if overrideMusic != nil {
		m.applyChannel(m.override, *overrideMusic, true)
	} else {
		m.applyChannel(m.override, reveal.Music{}, false)
	}
}

func (m *Manager) applyChannel(ch *channelState, desc reveal.Music, inScope bool) {
	ch.inScope = inScope
	if !inScope {
		if ch.backend != nil && ch.backend.Playing() {
			ch.backend.Pause()
		}
		return
	}

	identity := desc.TrackIdentity()
	if identity == "" {
		// Silent position: pause whatever was playing, keep it loaded.
		if ch.backend != nil && ch.backend.Playing() {
			ch.backend.Pause()
		}
		ch.segment = nil
		return
	}

	if identity != ch.lastLoaded {
		if ch.backend != nil {
			ch.backend.Unload()
		}
		ch.backend = NewBackend(ch.name, desc, m.sink)
		ch.backend.Load()
		ch.backend.SetVolume(m.volume)
		ch.backend.SetMuted(m.muted)
		if s := desc.Segment; s != nil && s.StartSeconds > 0 {
			ch.backend.SeekTo(s.StartSeconds)
		}
		ch.lastLoaded = identity
		ch.seekPending = false
	}
	ch.segment = desc.Segment

	if m.muted {
		if ch.backend.Playing() {
			ch.backend.Pause()
		}
		return
	}
	if !ch.backend.Playing() {
		ch.backend.Play()
	}
}

// Tick enforces segment loops on whatever backend is active per channel.
// Called on a fixed ~500ms interval by the session loop.
func (m *Manager) Tick() {
	for _, ch := range []*channelState{m.global, m.override} {
		s := ch.segment
		if s == nil || ch.backend == nil || !ch.inScope || !ch.backend.Playing() {
			continue
		}
		boundary := s.StartSeconds + s.DurationSeconds
		if s.DurationSeconds <= 0 {
			continue
		}
		if ch.backend.CurrentTime() >= boundary && !ch.seekPending {
			ch.backend.SeekTo(s.StartSeconds)
			ch.seekPending = true
		}
	}
}

// ReportPosition records a client playback-position report for a channel.
func (m *Manager) ReportPosition(channel string, seconds float64) {
	ch := m.channel(channel)
	if ch.backend == nil {
		return
	}
	ch.backend.ReportPosition(seconds)
	if s := ch.segment; s != nil && seconds < s.StartSeconds+s.DurationSeconds {
		ch.seekPending = false
	}
}

// SetMuted applies the single mute flag to both channels. Unmuting resumes
// the in-scope channel.
func (m *Manager) SetMuted(muted bool) {
	m.muted = muted
	for _, ch := range []*channelState{m.global, m.override} {
		if ch.backend == nil {
			continue
		}
		ch.backend.SetMuted(muted)
		if muted {
			if ch.backend.Playing() {
				ch.backend.Pause()
			}
		} else if ch.inScope && !ch.backend.Playing() {
			ch.backend.Play()
		}
	}
}

func (m *Manager) Muted() bool { return m.muted }

// SetVolume applies a 0.0-1.0 volume to both channels; each backend maps it
// to its own convention.
func (m *Manager) SetVolume(fraction float64) {
	m.volume = clampFraction(fraction)
	for _, ch := range []*channelState{m.global, m.override} {
		if ch.backend != nil {
			ch.backend.SetVolume(m.volume)
		}
	}
}

// ReportBlocked records that the client's play call was rejected by the
// browser's autoplay policy. The sequence keeps running silently until the
// recipient picks a recovery.
func (m *Manager) ReportBlocked(channel string) {
	m.blocked = true
	log.Printf("reveal-service: autoplay blocked on %s channel", channel)
}

func (m *Manager) Blocked() bool { return m.blocked }

// EnableSound retries the exact play call for the in-scope channels. The
// caller invokes this in direct response to a user gesture, which is what
// makes the retry succeed.
func (m *Manager) EnableSound() {
	m.blocked = false
	m.SetMuted(false)
	for _, ch := range []*channelState{m.global, m.override} {
		if ch.backend != nil && ch.inScope {
			// Unconditional: the backend may believe it is playing even
			// though the client's play call was rejected.
			ch.backend.Play()
		}
	}
}

// DismissBlocked resolves the recovery prompt by staying silent.
func (m *Manager) DismissBlocked() {
	m.blocked = false
	m.SetMuted(true)
}

// LastLoaded exposes a channel's identity marker; position changes that
// resolve to the same track must leave it untouched.
func (m *Manager) LastLoaded(channel string) string {
	return m.channel(channel).lastLoaded
}

// Dispose stops and releases both backends on session teardown.
func (m *Manager) Dispose() {
	for _, ch := range []*channelState{m.global, m.override} {
		if ch.backend != nil {
			ch.backend.Pause()
			ch.backend.Unload()
			ch.backend = nil
		}
		ch.lastLoaded = ""
		ch.segment = nil
	}
}

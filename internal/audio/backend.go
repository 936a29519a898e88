// Package audio coordinates the two background-music channels across panel
// transitions. The engine is server-authoritative: backends emit commands
// to the client renderer and track the playback position the client
// reports back.
package audio

import "github.com/devgenix/surpriseal/internal/reveal"

// Channel names. The global channel persists across all panels unless a
// panel opts out; the override channel carries panel-specific music.
const (
	ChannelGlobal   = "global"
	ChannelOverride = "override"
)

const (
	BackendEmbedded = "embedded" // streaming provider embed
	BackendLocal    = "local"    // direct media URL sound engine
)

// Command is one instruction to the client's audio layer.
type Command struct {
	Channel string `json:"channel"`
	Backend string `json:"backend"`
	Op      string `json:"op"` // "load" | "play" | "pause" | "seek" | "volume" | "mute" | "unload"

	TrackID string  `json:"trackId,omitempty"`
	URL     string  `json:"url,omitempty"`
	SeekTo  float64 `json:"seekTo,omitempty"`

	// Volume uses the backend's native convention: 0-100 for the embedded
	// provider, 0.0-1.0 for the local sound engine.
	VolumePercent  int     `json:"volumePercent,omitempty"`
	VolumeFraction float64 `json:"volumeFraction,omitempty"`
	Muted          bool    `json:"muted,omitempty"`
}

// Sink receives backend commands. Delivery is fire-and-forget; the client
// answers asynchronously with position reports and blocked notices.
type Sink func(Command)

// Backend is the adapter over one concrete audio source. The manager and
// the segment-loop logic depend only on this interface.
type Backend interface {
	Name() string
	Identity() string
	Load()
	Play()
	Pause()
	SeekTo(seconds float64)
	SetVolume(fraction float64)
	SetMuted(muted bool)
	Unload()
	CurrentTime() float64
	ReportPosition(seconds float64)
	Playing() bool
}

// NewBackend selects the adapter by descriptor shape: a provider track id
// wins over a direct URL; with neither there is no backend.
func NewBackend(channel string, m reveal.Music, sink Sink) Backend {
	switch {
	case m.ProviderTrackID != "":
		return &embeddedBackend{channel: channel, trackID: m.ProviderTrackID, sink: sink}
	case m.DirectURL != "":
		return &localBackend{channel: channel, url: m.DirectURL, sink: sink}
	default:
		return nil
	}
}

// embeddedBackend drives the streaming provider's iframe player. Its
// volume call takes a 0-100 percentage.
type embeddedBackend struct {
	channel string
	trackID string
	sink    Sink
	pos     float64
	playing bool
}

func (b *embeddedBackend) Name() string { return BackendEmbedded }
func (b *embeddedBackend) Identity() string { return "provider:" + b.trackID }

func (b *embeddedBackend) emit(op string, c Command) {
	c.Channel = b.channel
	c.Backend = BackendEmbedded
	c.Op = op
	c.TrackID = b.trackID
	b.sink(c)
}

func (b *embeddedBackend) Load() { b.emit("load", Command{}) }
func (b *embeddedBackend) Play() { b.playing = true; b.emit("play", Command{}) }
func (b *embeddedBackend) Pause() { b.playing = false; b.emit("pause", Command{}) }

// SeekTo issues the seek but leaves the tracked position alone; only the
// client's next position report confirms where playback actually is.
func (b *embeddedBackend) SeekTo(seconds float64) {
	b.emit("seek", Command{SeekTo: seconds})
}

func (b *embeddedBackend) SetVolume(fraction float64) {
	b.emit("volume", Command{VolumePercent: int(clampFraction(fraction)*100 + 0.5)})
}

func (b *embeddedBackend) SetMuted(muted bool) { b.emit("mute", Command{Muted: muted}) }
func (b *embeddedBackend) Unload() { b.playing = false; b.emit("unload", Command{}) }

func (b *embeddedBackend) CurrentTime() float64 { return b.pos }
func (b *embeddedBackend) ReportPosition(seconds float64) { b.pos = seconds }
func (b *embeddedBackend) Playing() bool { return b.playing }

// localBackend drives the client's local sound engine against a direct
// media URL. Its volume call takes a 0.0-1.0 fraction.
type localBackend struct {
	channel string
	url     string
	sink    Sink
	pos     float64
	playing bool
}

func (b *localBackend) Name() string { return BackendLocal }
func (b *localBackend) Identity() string { return "url:" + b.url }

func (b *localBackend) emit(op string, c Command) {
	c.Channel = b.channel
	c.Backend = BackendLocal
	c.Op = op
	c.URL = b.url
	b.sink(c)
}

func (b *localBackend) Load() { b.emit("load", Command{}) }
func (b *localBackend) Play() { b.playing = true; b.emit("play", Command{}) }
func (b *localBackend) Pause() { b.playing = false; b.emit("pause", Command{}) }

func (b *localBackend) SeekTo(seconds float64) {
	b.emit("seek", Command{SeekTo: seconds})
}

func (b *localBackend) SetVolume(fraction float64) {
	b.emit("volume", Command{VolumeFraction: clampFraction(fraction)})
}

func (b *localBackend) SetMuted(muted bool) { b.emit("mute", Command{Muted: muted}) }
func (b *localBackend) Unload() { b.playing = false; b.emit("unload", Command{}) }

func (b *localBackend) CurrentTime() float64 { return b.pos }
func (b *localBackend) ReportPosition(seconds float64) { b.pos = seconds }
func (b *localBackend) Playing() bool { return b.playing }

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

package session

import (
	"encoding/json"

	"github.com/devgenix/surpriseal/internal/audio"
	"github.com/devgenix/surpriseal/internal/panels"
	"github.com/devgenix/surpriseal/internal/reveal"
	"github.com/devgenix/surpriseal/internal/theme"
)

// ClientEvent is one inbound message from the renderer (or the authoring
// preview). Unknown types are logged and dropped; a misbehaving client can
// never crash the sequence.
type ClientEvent struct {
	Type string `json:"type"`

	// unlock.submit
	Input string `json:"input,omitempty"`

	// position.set (preview only)
	Index int `json:"index,omitempty"`

	// media.ended, audio.position, audio.blocked
	MediaID string  `json:"mediaId,omitempty"`
	Channel string  `json:"channel,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`

	// scratch.progress
	Fraction float64 `json:"fraction,omitempty"`

	// autoplay.set, feedback.active
	Enabled bool `json:"enabled,omitempty"`
	Active  bool `json:"active,omitempty"`
}

// Inbound event types.
const (
	EvHello           = "hello"
	EvAdvance         = "advance"
	EvRetreat         = "retreat"
	EvUnlockSubmit    = "unlock.submit"
	EvSetPosition     = "position.set"
	EvToggleMute      = "mute.toggle"
	EvAutoplaySet     = "autoplay.set"
	EvMediaEnded      = "media.ended"
	EvScratchProgress = "scratch.progress"
	EvInterference    = "interference"
	EvAudioPosition   = "audio.position"
	EvAudioBlocked    = "audio.blocked"
	EvSoundEnable     = "sound.enable"
	EvSoundDismiss    = "sound.dismiss"
	EvFeedbackActive  = "feedback.active"
)

// Message is one outbound frame to every connected client of a session.
type Message struct {
	Type string `json:"type"`

	State  *StateView     `json:"state,omitempty"`
	Step   *panels.Step   `json:"step,omitempty"`
	Audio  *audio.Command `json:"audio,omitempty"`
	Unlock *UnlockResult  `json:"unlock,omitempty"`
	Cue    *Cue           `json:"cue,omitempty"`
}

// Outbound message types.
const (
	MsgState        = "state"
	MsgStep         = "autoplay.step"
	MsgAudio        = "audio.command"
	MsgUnlockResult = "unlock.result"
	MsgSoundBlocked = "sound.blocked"
	MsgCue          = "cue"
)

// StateView is the full render state for the current position. It is sent
// on every transition and to every freshly connected client.
type StateView struct {
	SessionID     string        `json:"sessionId"`
	Position      string        `json:"position"`
	PanelIndex    *int          `json:"panelIndex,omitempty"`
	Locked        bool          `json:"locked"`
	Muted         bool          `json:"muted"`
	Autoplay      bool          `json:"autoplay"`
	RecipientName string        `json:"recipientName"`
	Theme         theme.Theme   `json:"theme"`
	Frame         *panels.Frame `json:"frame,omitempty"`
	Plan          *panels.Plan  `json:"plan,omitempty"`

	// Splash extras.
	UnlockType string `json:"unlockType,omitempty"`
	Question   string `json:"question,omitempty"`
	Hint       string `json:"hint,omitempty"`

	// Finale extras.
	Branding       bool `json:"branding,omitempty"`
	FeedbackActive bool `json:"feedbackActive,omitempty"`
}

type UnlockResult struct {
	OK    bool   `json:"ok"`
	Shake bool   `json:"shake,omitempty"`
	Error string `json:"error,omitempty"`
}

// Cue is a short client-side effect: a haptic pulse when the recipient
// fights the composition auto-scroll, or similar interference feedback.
type Cue struct {
	Kind      string `json:"kind"`
	VibrateMs int    `json:"vibrateMs,omitempty"`
}

func (m Message) encode() []byte {
	b, err := json.Marshal(m)
	if err != nil {
		return []byte(`{"type":"error"}`)
	}
	return b
}

// musicOverrideFor returns the override-channel descriptor for the current
// position, or nil when the panel inherits the global channel.
func musicOverrideFor(seq *reveal.Sequencer) *reveal.Music {
	if !seq.UsesOverrideChannel() {
		return nil
	}
	m := seq.EffectiveMusic()
	return &m
}

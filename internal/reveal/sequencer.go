package reveal

import "errors"

var (
	// ErrLocked is returned when navigation is attempted before the unlock
	// gate has been resolved. The caller opens the gate UI instead.
	ErrLocked = errors.New("presentation is locked")

	// ErrBadUnlock is returned for an incorrect unlock attempt. Position is
	// unchanged and retries are unlimited.
	ErrBadUnlock = errors.New("incorrect unlock answer")

	// ErrNotPreview is returned when SetPosition is called outside
	// authoring preview mode.
	ErrNotPreview = errors.New("direct positioning only allowed in preview")

	// ErrOutOfRange is returned for a SetPosition index outside the panel
	// list.
	ErrOutOfRange = errors.New("panel index out of range")
)

// Sequencer is the top-level playback state machine. It owns the current
// position, the gate state and the mute flag, and decides what every
// navigation means. It never mutates the presentation snapshot.
//
// The Sequencer itself is not safe for concurrent use; the session loop
// serializes all calls on one goroutine.
type Sequencer struct {
	pres    *Presentation
	pos     Position
	locked  bool
	muted   bool
	preview bool

	// feedbackActive mirrors the external feedback collaborator's state.
	// While set, navigation chrome is suppressed and retreat is refused.
	feedbackActive bool
}

// NewSequencer starts a session at Splash. With an unlock rule configured
// the session starts locked; unlock state is session-local and never
// persisted. In preview mode the gate is skipped entirely.
func NewSequencer(pres *Presentation, preview bool) *Sequencer {
	return &Sequencer{
		pres:    pres,
		pos:     Splash(),
		locked:  !preview && pres.Unlock.Locked(),
		preview: preview,
	}
}

func (s *Sequencer) Position() Position { return s.pos }
func (s *Sequencer) Locked() bool { return s.locked }
func (s *Sequencer) Muted() bool { return s.muted }
func (s *Sequencer) Preview() bool { return s.preview }
func (s *Sequencer) FeedbackActive() bool { return s.feedbackActive }
func (s *Sequencer) Presentation() *Presentation { return s.pres }

func (s *Sequencer) panelCount() int { return len(s.pres.Style.Panels) }

// CurrentPanel returns the panel at the current position, if any.
func (s *Sequencer) CurrentPanel() (Panel, bool) {
	i, ok := s.pos.PanelIndex()
	if !ok {
		return Panel{}, false
	}
	return s.pres.Style.Panels[i], true
}

// Advance moves one step forward. It reports whether the position changed;
// ErrLocked means the gate UI should open instead.
func (s *Sequencer) Advance() (Position, bool, error) {
	if s.locked {
		return s.pos, false, ErrLocked
	}
	if s.feedbackActive {
		return s.pos, false, nil
	}
	next := s.pos.Next(s.panelCount())
	if next == s.pos {
		return s.pos, false, nil
	}
	s.pos = next
	return s.pos, true, nil
}

// Retreat moves one step back. Retreating from Splash is a no-op.
func (s *Sequencer) Retreat() (Position, bool, error) {
	if s.locked {
		return s.pos, false, ErrLocked
	}
	if s.feedbackActive {
		return s.pos, false, nil
	}
	prev := s.pos.Prev(s.panelCount())
	if prev == s.pos {
		return s.pos, false, nil
	}
	s.pos = prev
	return s.pos, true, nil
}

// SubmitUnlock resolves the gate. A correct answer unlocks the session and
// leaves it at Splash; an incorrect one changes nothing.
func (s *Sequencer) SubmitUnlock(input string) error {
	if !s.locked {
		return nil
	}
	if !VerifyUnlock(s.pres.Unlock, input) {
		return ErrBadUnlock
	}
	s.locked = false
	return nil
}

// SetPosition jumps directly to a panel. Used only by the authoring
// preview; there is no gate check by design of that mode.
func (s *Sequencer) SetPosition(i int) (Position, error) {
	if !s.preview {
		return s.pos, ErrNotPreview
	}
	if i < 0 || i >= s.panelCount() {
		return s.pos, ErrOutOfRange
	}
	s.pos = InPanel(i)
	return s.pos, nil
}

// ToggleMute flips the single mute flag covering both audio channels and
// returns the new value.
func (s *Sequencer) ToggleMute() bool {
	s.muted = !s.muted
	return s.muted
}

// SetFeedbackActive records the feedback collaborator's active/inactive
// callback.
func (s *Sequencer) SetFeedbackActive(active bool) {
	s.feedbackActive = active
}

// Reload swaps in a fresh snapshot from the host without restarting the
// session. The position survives unless the panel list shrank below it.
func (s *Sequencer) Reload(pres *Presentation) {
	s.pres = pres
	s.pos = s.pos.Clamp(len(pres.Style.Panels))
}

// EffectiveMusic resolves the descriptor in scope for the current position.
// Splash and Finale always use the global channel.
func (s *Sequencer) EffectiveMusic() Music {
	if p, ok := s.CurrentPanel(); ok {
		return p.EffectiveMusic(s.pres.Style.Music)
	}
	return s.pres.Style.Music
}

// UsesOverrideChannel reports whether the current panel plays on the
// panel-override channel instead of the global one.
func (s *Sequencer) UsesOverrideChannel() bool {
	p, ok := s.CurrentPanel()
	return ok && !p.UsesGlobalMusic() && p.MusicOverride != nil
}

// EffectiveThemeID resolves the theme for the current position, honoring a
// panel-level override.
func (s *Sequencer) EffectiveThemeID() string {
	if p, ok := s.CurrentPanel(); ok && p.ThemeOverride != "" {
		return p.ThemeOverride
	}
	return s.pres.Style.ThemeID
}

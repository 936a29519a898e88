package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devgenix/surpriseal/internal/audio"
	"github.com/devgenix/surpriseal/internal/panels"
	"github.com/devgenix/surpriseal/internal/reveal"
)

type schedCall struct {
	d   time.Duration
	gen int
}

// harness drives an Engine directly, standing in for the session loop:
// outbound messages and timer requests are recorded instead of delivered.
type harness struct {
	e     *Engine
	msgs  []Message
	sched []schedCall
}

func newHarness(pres *reveal.Presentation, preview bool) *harness {
	h := &harness{}
	h.e = NewEngine("sess-1", pres, preview,
		func(m Message) { h.msgs = append(h.msgs, m) },
		func(d time.Duration, gen int) { h.sched = append(h.sched, schedCall{d, gen}) },
	)
	return h
}

func (h *harness) lastState(t *testing.T) *StateView {
	t.Helper()
	for i := len(h.msgs) - 1; i >= 0; i-- {
		if h.msgs[i].Type == MsgState {
			return h.msgs[i].State
		}
	}
	t.Fatal("no state message sent")
	return nil
}

func (h *harness) lastStep(t *testing.T) *panels.Step {
	t.Helper()
	for i := len(h.msgs) - 1; i >= 0; i-- {
		if h.msgs[i].Type == MsgStep {
			return h.msgs[i].Step
		}
	}
	t.Fatal("no step message sent")
	return nil
}

func (h *harness) countAudio(op string) int {
	n := 0
	for _, m := range h.msgs {
		if m.Type == MsgAudio && m.Audio.Op == op {
			n++
		}
	}
	return n
}

func (h *harness) countType(msgType string) int {
	n := 0
	for _, m := range h.msgs {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func (h *harness) lastSched(t *testing.T) schedCall {
	t.Helper()
	if len(h.sched) == 0 {
		t.Fatal("nothing scheduled")
	}
	return h.sched[len(h.sched)-1]
}

func enginePresentation(panelList ...reveal.Panel) *reveal.Presentation {
	return &reveal.Presentation{
		ID:            "pres-1",
		RecipientName: "Sam",
		Unlock:        reveal.UnlockConfig{Type: reveal.UnlockNone},
		Style: reveal.StyleConfig{
			ThemeID: "stardust",
			Music:   reveal.Music{ProviderTrackID: "abc123"},
			Panels:  panelList,
		},
	}
}

func compositionPanel(id, body string) reveal.Panel {
	return reveal.Panel{ID: id, Type: reveal.PanelComposition, Composition: &reveal.CompositionConfig{Body: body}}
}

func TestEngine_LockedStart(t *testing.T) {
	pres := enginePresentation(compositionPanel("p1", "hello there"))
	pres.Unlock = reveal.UnlockConfig{Type: reveal.UnlockPassword, Password: "1994", Hint: "the year"}
	h := newHarness(pres, false)
	h.e.Start()

	sv := h.lastState(t)
	assert.True(t, sv.Locked)
	assert.Equal(t, "splash", sv.Position)
	assert.Equal(t, reveal.UnlockPassword, sv.UnlockType)
	assert.Equal(t, "the year", sv.Hint)
	assert.Zero(t, h.countAudio("load"), "locked session must not start audio")

	h.e.HandleEvent(ClientEvent{Type: EvAdvance})
	assert.Equal(t, "splash", h.lastState(t).Position, "advance while locked must not move")

	h.e.HandleEvent(ClientEvent{Type: EvUnlockSubmit, Input: "1995"})
	found := false
	for _, m := range h.msgs {
		if m.Type == MsgUnlockResult && !m.Unlock.OK && m.Unlock.Shake {
			found = true
		}
	}
	assert.True(t, found, "wrong answer produces a shake result")
	assert.Zero(t, h.countAudio("load"), "failed unlock must not start audio")

	h.e.HandleEvent(ClientEvent{Type: EvUnlockSubmit, Input: " 1994 "})
	sv = h.lastState(t)
	assert.False(t, sv.Locked, "correct answer unlocks")
	// Unlocking begins the splash audio configuration.
	assert.Equal(t, 1, h.countAudio("load"))
	assert.Equal(t, 1, h.countAudio("play"))
}

func TestEngine_UnchangedTrackSurvivesNavigation(t *testing.T) {
	h := newHarness(enginePresentation(
		compositionPanel("p1", "one"),
		compositionPanel("p2", "two"),
	), false)
	h.e.Start()

	marker := h.e.Audio().LastLoaded(audio.ChannelGlobal)
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	assert.Equal(t, marker, h.e.Audio().LastLoaded(audio.ChannelGlobal), "identity unchanged, marker must not move")
	assert.Equal(t, 1, h.countAudio("load"), "single backend construction")
	assert.Equal(t, 1, h.countAudio("play"), "no audible restart")
}

func TestEngine_OverridePanelSwitchesChannels(t *testing.T) {
	useGlobal := false
	override := reveal.Panel{
		ID: "p2", Type: reveal.PanelComposition,
		Composition:    &reveal.CompositionConfig{Body: "quiet"},
		UseGlobalMusic: &useGlobal,
		MusicOverride:  &reveal.Music{DirectURL: "https://cdn/x.mp3"},
	}
	h := newHarness(enginePresentation(compositionPanel("p1", "loud"), override), false)
	h.e.Start()

	h.e.HandleEvent(ClientEvent{Type: EvAdvance}) // p1: global
	h.e.HandleEvent(ClientEvent{Type: EvAdvance}) // p2: override

	assert.Equal(t, "url:https://cdn/x.mp3", h.e.Audio().LastLoaded(audio.ChannelOverride))
	// Global paused, not unloaded.
	assert.Zero(t, h.countAudio("unload"), "switchover must pause, never unload")
}

func TestEngine_AutoplayTimerCompletesPanel(t *testing.T) {
	h := newHarness(enginePresentation(compositionPanel("p1", "short note")), false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAutoplaySet, Enabled: true})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	assert.Equal(t, panels.ActionRead, h.lastStep(t).Action)
	sc := h.lastSched(t)
	assert.Equal(t, 12*time.Second, sc.d, "composition floor")

	h.e.TimerFired(sc.gen)
	assert.Equal(t, "finale", h.lastState(t).Position)
}

func TestEngine_StaleTimerIsDropped(t *testing.T) {
	h := newHarness(enginePresentation(
		compositionPanel("p1", "one"),
		compositionPanel("p2", "two"),
	), false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAutoplaySet, Enabled: true})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})
	stale := h.lastSched(t)

	// The recipient navigates by hand before the timer fires.
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})
	require.Equal(t, "panel:1", h.lastState(t).Position)

	h.e.TimerFired(stale.gen)
	assert.Equal(t, "panel:1", h.lastState(t).Position, "stale completion must not fire after navigation")
}

func TestEngine_GalleryStepsAndMediaEnd(t *testing.T) {
	pres := enginePresentation(reveal.Panel{
		ID: "g1", Type: reveal.PanelGallery,
		Gallery: &reveal.GalleryConfig{Layout: reveal.GalleryStack, MediaIDs: []string{"i1", "v1"}},
	})
	pres.Media = []reveal.MediaItem{
		{ID: "i1", Type: reveal.MediaImage, URL: "https://cdn/i.jpg"},
		{ID: "v1", Type: reveal.MediaVideo, URL: "https://cdn/v.mp4"},
	}
	h := newHarness(pres, false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAutoplaySet, Enabled: true})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	sc := h.lastSched(t)
	require.Equal(t, 4*time.Second, sc.d, "image hold")
	h.e.TimerFired(sc.gen)

	step := h.lastStep(t)
	assert.True(t, step.AwaitMedia)
	assert.Equal(t, "v1", step.MediaID)

	// An end report for some other media is ignored.
	h.e.HandleEvent(ClientEvent{Type: EvMediaEnded, MediaID: "i1"})
	assert.Equal(t, "panel:0", h.lastState(t).Position, "mismatched media end must not complete the step")

	h.e.HandleEvent(ClientEvent{Type: EvMediaEnded, MediaID: "v1"})
	assert.Equal(t, "finale", h.lastState(t).Position)
}

func TestEngine_ScratchThresholdThenLinger(t *testing.T) {
	pres := enginePresentation(reveal.Panel{
		ID: "s1", Type: reveal.PanelScratch,
		Scratch: &reveal.ScratchConfig{RevealMediaID: "i1"},
	})
	pres.Media = []reveal.MediaItem{{ID: "i1", Type: reveal.MediaImage, URL: "https://cdn/i.jpg"}}
	h := newHarness(pres, false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAutoplaySet, Enabled: true})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	h.e.HandleEvent(ClientEvent{Type: EvScratchProgress, Fraction: 0.3})
	assert.Empty(t, h.sched, "below-threshold progress must not advance the plan")

	h.e.HandleEvent(ClientEvent{Type: EvScratchProgress, Fraction: 0.55})
	sc := h.lastSched(t)
	assert.Equal(t, 2500*time.Millisecond, sc.d, "linger")
	h.e.TimerFired(sc.gen)
	assert.Equal(t, "finale", h.lastState(t).Position)
}

func TestEngine_InterferenceCueOnlyDuringAutoplay(t *testing.T) {
	h := newHarness(enginePresentation(compositionPanel("p1", "note")), false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	h.e.HandleEvent(ClientEvent{Type: EvInterference})
	assert.Zero(t, h.countType(MsgCue), "no cue expected in interactive mode")

	h.e.HandleEvent(ClientEvent{Type: EvAutoplaySet, Enabled: true})
	before := h.lastSched(t)
	h.e.HandleEvent(ClientEvent{Type: EvInterference})

	cues := 0
	for _, m := range h.msgs {
		if m.Type == MsgCue && m.Cue.VibrateMs > 0 {
			cues++
		}
	}
	assert.Equal(t, 1, cues)
	// The interference cue never touches the running timer.
	assert.Equal(t, before, h.lastSched(t), "interference must not reschedule")
	assert.Equal(t, before.gen, h.e.Generation(), "interference must not invalidate the timer")
}

func TestEngine_BlockedRecoveryFlow(t *testing.T) {
	h := newHarness(enginePresentation(compositionPanel("p1", "note")), false)
	h.e.Start()

	h.e.HandleEvent(ClientEvent{Type: EvAudioBlocked, Channel: audio.ChannelGlobal})
	assert.NotZero(t, h.countType(MsgSoundBlocked), "blocked play surfaces the recovery prompt")

	plays := h.countAudio("play")
	h.e.HandleEvent(ClientEvent{Type: EvSoundEnable})
	assert.Greater(t, h.countAudio("play"), plays, "enable sound re-issues the play call")
	assert.False(t, h.lastState(t).Muted, "enable sound unmutes")

	h.e.HandleEvent(ClientEvent{Type: EvAudioBlocked, Channel: audio.ChannelGlobal})
	h.e.HandleEvent(ClientEvent{Type: EvSoundDismiss})
	assert.True(t, h.lastState(t).Muted, "dismiss keeps the session silent")
}

func TestEngine_FinaleHandoffAndFeedbackState(t *testing.T) {
	pres := enginePresentation(compositionPanel("p1", "bye"))
	pres.Style.RemoveBranding = true
	h := newHarness(pres, false)

	handoffs := 0
	h.e.OnFinale = func() { handoffs++ }

	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	assert.Equal(t, 1, handoffs)
	sv := h.lastState(t)
	assert.Equal(t, "finale", sv.Position)
	assert.False(t, sv.Branding, "unbranded finale")

	h.e.HandleEvent(ClientEvent{Type: EvFeedbackActive, Active: true})
	assert.True(t, h.lastState(t).FeedbackActive)
	h.e.HandleEvent(ClientEvent{Type: EvRetreat})
	assert.Equal(t, "finale", h.lastState(t).Position, "retreat refused while feedback capture is active")

	h.e.HandleEvent(ClientEvent{Type: EvFeedbackActive, Active: false})
	h.e.HandleEvent(ClientEvent{Type: EvRetreat})
	assert.Equal(t, "panel:0", h.lastState(t).Position)
}

func TestEngine_PreviewSetPosition(t *testing.T) {
	h := newHarness(enginePresentation(
		compositionPanel("p1", "one"),
		compositionPanel("p2", "two"),
		compositionPanel("p3", "three"),
	), true)
	h.e.Start()

	h.e.HandleEvent(ClientEvent{Type: EvSetPosition, Index: 2})
	assert.Equal(t, "panel:2", h.lastState(t).Position)

	// Out-of-range jumps are dropped.
	h.e.HandleEvent(ClientEvent{Type: EvSetPosition, Index: 7})
	assert.Equal(t, "panel:2", h.lastState(t).Position, "out-of-range jump is a no-op")
}

func TestEngine_SetPositionOutsidePreviewRestates(t *testing.T) {
	h := newHarness(enginePresentation(
		compositionPanel("p1", "one"),
		compositionPanel("p2", "two"),
	), false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	states := h.countType(MsgState)
	h.e.HandleEvent(ClientEvent{Type: EvSetPosition, Index: 1})

	// The jump is refused, but the client gets a restatement to re-sync.
	assert.Equal(t, states+1, h.countType(MsgState))
	assert.Equal(t, "panel:0", h.lastState(t).Position)
}

func TestEngine_LoopPanelStartsPlayback(t *testing.T) {
	pres := enginePresentation(reveal.Panel{
		ID: "v1", Type: reveal.PanelVideo,
		Playback: &reveal.PlaybackConfig{MediaID: "m1", Loop: true},
	})
	pres.Media = []reveal.MediaItem{{ID: "m1", Type: reveal.MediaVideo, URL: "https://cdn/v.mp4"}}
	h := newHarness(pres, false)
	h.e.Start()
	h.e.HandleEvent(ClientEvent{Type: EvAutoplaySet, Enabled: true})
	h.e.HandleEvent(ClientEvent{Type: EvAdvance})

	// The play instruction still goes out, with no completion timer.
	step := h.lastStep(t)
	assert.Equal(t, panels.ActionPlay, step.Action)
	assert.Equal(t, "m1", step.MediaID)
	assert.Empty(t, h.sched, "looping media never schedules completion")

	// A loop iteration's end report must not advance the panel.
	h.e.HandleEvent(ClientEvent{Type: EvMediaEnded, MediaID: "m1"})
	assert.Equal(t, "panel:0", h.lastState(t).Position)
}

func TestEngine_ReloadClampsShrunkList(t *testing.T) {
	h := newHarness(enginePresentation(
		compositionPanel("p1", "one"),
		compositionPanel("p2", "two"),
		compositionPanel("p3", "three"),
	), false)
	h.e.Start()
	for i := 0; i < 3; i++ {
		h.e.HandleEvent(ClientEvent{Type: EvAdvance})
	}
	require.Equal(t, "panel:2", h.lastState(t).Position)

	h.e.Reload(enginePresentation(compositionPanel("p1", "one")))
	assert.Equal(t, "panel:0", h.lastState(t).Position, "shrunk reload clamps")
}

func TestEngine_ToggleMute(t *testing.T) {
	h := newHarness(enginePresentation(compositionPanel("p1", "note")), false)
	h.e.Start()

	h.e.HandleEvent(ClientEvent{Type: EvToggleMute})
	assert.True(t, h.lastState(t).Muted)
	assert.NotZero(t, h.countAudio("mute"), "mute must reach the audio backend")

	h.e.HandleEvent(ClientEvent{Type: EvToggleMute})
	assert.False(t, h.lastState(t).Muted, "second toggle unmutes")
}

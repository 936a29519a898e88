package session

import (
	"errors"
	"log"
	"time"

	"github.com/devgenix/surpriseal/internal/audio"
	"github.com/devgenix/surpriseal/internal/panels"
	"github.com/devgenix/surpriseal/internal/reveal"
	"github.com/devgenix/surpriseal/internal/theme"
)

// Engine is the single-threaded core of one playback session: the
// sequencer, the audio channels and the autoplay schedule. All methods
// must be called from one goroutine (the session loop, or a test driving
// it directly). Timers are externalized: the engine asks the scheduler for
// a fire and stamps it with a generation counter, so a navigation that
// happens before the fire simply invalidates it.
type Engine struct {
	id  string
	seq *reveal.Sequencer
	mgr *audio.Manager

	send     func(Message)
	schedule func(d time.Duration, gen int)

	autoplay bool
	plan     panels.Plan
	stepIdx  int
	gen      int

	// OnFinale fires once per arrival at the finale when default branding
	// is removed; the owner hands off to the feedback collaborator.
	OnFinale func()

	// OnState fires after every position transition with the new position.
	OnState func(position string)
}

func NewEngine(id string, pres *reveal.Presentation, preview bool, send func(Message), schedule func(d time.Duration, gen int)) *Engine {
	e := &Engine{
		id:       id,
		seq:      reveal.NewSequencer(pres, preview),
		send:     send,
		schedule: schedule,
		plan:     panels.Plan{Manual: true},
	}
	e.mgr = audio.NewManager(func(c audio.Command) {
		cmd := c
		send(Message{Type: MsgAudio, Audio: &cmd})
	})
	return e
}

func (e *Engine) Sequencer() *reveal.Sequencer { return e.seq }
func (e *Engine) Audio() *audio.Manager { return e.mgr }
func (e *Engine) Generation() int { return e.gen }

// Start emits the initial state. A locked session stays silent until the
// gate resolves; everything else begins the splash audio configuration.
func (e *Engine) Start() {
	e.enterPosition()
}

// Dispose releases the audio backends. Called once on session teardown.
func (e *Engine) Dispose() {
	e.gen++ // invalidate in-flight timers
	e.mgr.Dispose()
}

// HandleEvent applies one client event. No event is fatal; bad input is
// logged and dropped.
func (e *Engine) HandleEvent(ev ClientEvent) {
	switch ev.Type {
	case EvHello:
		e.sendState()
	case EvAdvance:
		e.navigate(e.seq.Advance)
	case EvRetreat:
		e.navigate(e.seq.Retreat)
	case EvUnlockSubmit:
		e.submitUnlock(ev.Input)
	case EvSetPosition:
		e.setPosition(ev.Index)
	case EvToggleMute:
		muted := e.seq.ToggleMute()
		e.mgr.SetMuted(muted)
		e.sendState()
	case EvAutoplaySet:
		e.autoplay = ev.Enabled
		e.enterPosition()
	case EvMediaEnded:
		e.mediaEnded(ev.MediaID)
	case EvScratchProgress:
		e.scratchProgress(ev.Fraction)
	case EvInterference:
		if e.autoplay {
			e.send(Message{Type: MsgCue, Cue: &Cue{Kind: "interference", VibrateMs: 30}})
		}
	case EvAudioPosition:
		e.mgr.ReportPosition(ev.Channel, ev.Seconds)
	case EvAudioBlocked:
		e.mgr.ReportBlocked(ev.Channel)
		e.send(Message{Type: MsgSoundBlocked})
	case EvSoundEnable:
		if e.seq.Muted() {
			e.seq.ToggleMute()
		}
		e.mgr.EnableSound()
		e.sendState()
	case EvSoundDismiss:
		if !e.seq.Muted() {
			e.seq.ToggleMute()
		}
		e.mgr.DismissBlocked()
		e.sendState()
	case EvFeedbackActive:
		e.seq.SetFeedbackActive(ev.Active)
		if ev.Active {
			e.mgr.SetMuted(true)
		} else {
			e.mgr.SetMuted(e.seq.Muted())
		}
		e.sendState()
	default:
		log.Printf("reveal-service: session %s: unknown event type %q", e.id, ev.Type)
	}
}

// TimerFired delivers a scheduled fire. Fires from before the latest
// transition carry a stale generation and are dropped.
func (e *Engine) TimerFired(gen int) {
	if gen != e.gen {
		return
	}
	e.stepDone()
}

// Tick runs the segment-loop poll.
func (e *Engine) Tick() {
	e.mgr.Tick()
}

// Reload swaps in a fresh snapshot from the host. The current position
// survives unless the panel list shrank below it.
func (e *Engine) Reload(pres *reveal.Presentation) {
	e.seq.Reload(pres)
	e.enterPosition()
}

func (e *Engine) navigate(move func() (reveal.Position, bool, error)) {
	_, moved, err := move()
	if errors.Is(err, reveal.ErrLocked) {
		// The gate UI opens client-side; just restate.
		e.sendState()
		return
	}
	if moved {
		e.enterPosition()
	}
}

func (e *Engine) submitUnlock(input string) {
	err := e.seq.SubmitUnlock(input)
	if errors.Is(err, reveal.ErrBadUnlock) {
		e.send(Message{Type: MsgUnlockResult, Unlock: &UnlockResult{
			OK:    false,
			Shake: true,
			Error: "incorrect answer",
		}})
		return
	}
	e.send(Message{Type: MsgUnlockResult, Unlock: &UnlockResult{OK: true}})
	// Unlocking begins the splash audio configuration.
	e.enterPosition()
}

func (e *Engine) setPosition(i int) {
	_, err := e.seq.SetPosition(i)
	if err != nil {
		log.Printf("reveal-service: session %s: set position %d: %v", e.id, i, err)
		// Restate so a misbehaving client re-syncs instead of diverging.
		e.sendState()
		return
	}
	e.enterPosition()
}

// enterPosition is the single transition point: it invalidates pending
// autoplay timers, re-resolves both audio channels, renders the new
// position and kicks off the autoplay plan.
func (e *Engine) enterPosition() {
	e.gen++
	e.plan = panels.Plan{Manual: true}
	e.stepIdx = 0

	if !e.seq.Locked() {
		e.mgr.Apply(e.seq.Presentation().Style.Music, musicOverrideFor(e.seq))
	}

	if p, ok := e.seq.CurrentPanel(); ok {
		rc := panels.Context{Presentation: e.seq.Presentation(), Panel: p}
		frame, plan, err := panels.Dispatch(rc, e.autoplay)
		if err != nil {
			log.Printf("reveal-service: session %s: %v", e.id, err)
		}
		e.plan = plan
		e.sendStateWithFrame(&frame)
	} else {
		e.sendState()
	}

	if e.autoplay && len(e.plan.Steps) > 0 {
		e.startStep(0)
	}

	if e.seq.Position().IsFinale() && e.seq.Presentation().Style.RemoveBranding && e.OnFinale != nil {
		e.OnFinale()
	}

	if e.OnState != nil {
		e.OnState(e.seq.Position().String())
	}
}

func (e *Engine) startStep(i int) {
	e.stepIdx = i
	step := e.plan.Steps[i]
	e.send(Message{Type: MsgStep, Step: &step})
	// A manual plan's steps fire instructions without a completion timer.
	if !e.plan.Manual && !step.AwaitMedia && !step.AwaitScratch {
		e.schedule(step.Duration, e.gen)
	}
}

func (e *Engine) stepDone() {
	if e.plan.Manual {
		return
	}
	if e.stepIdx+1 < len(e.plan.Steps) {
		e.startStep(e.stepIdx + 1)
		return
	}
	// Plan exhausted: the panel's completion signal.
	e.navigate(e.seq.Advance)
}

func (e *Engine) currentStep() (panels.Step, bool) {
	if e.plan.Manual || e.stepIdx >= len(e.plan.Steps) {
		return panels.Step{}, false
	}
	return e.plan.Steps[e.stepIdx], true
}

func (e *Engine) mediaEnded(mediaID string) {
	step, ok := e.currentStep()
	if !ok || !e.autoplay || !step.AwaitMedia || step.MediaID != mediaID {
		return
	}
	e.stepDone()
}

func (e *Engine) scratchProgress(fraction float64) {
	step, ok := e.currentStep()
	if !ok || !e.autoplay || !step.AwaitScratch {
		return
	}
	p, inPanel := e.seq.CurrentPanel()
	if !inPanel {
		return
	}
	if fraction >= panels.ScratchThreshold(p.Scratch) {
		e.stepDone()
	}
}

func (e *Engine) sendState() { e.sendStateWithFrame(nil) }

func (e *Engine) sendStateWithFrame(frame *panels.Frame) {
	e.send(Message{Type: MsgState, State: e.stateView(frame)})
}

func (e *Engine) stateView(frame *panels.Frame) *StateView {
	pres := e.seq.Presentation()
	pos := e.seq.Position()
	sv := &StateView{
		SessionID:     e.id,
		Position:      pos.String(),
		Locked:        e.seq.Locked(),
		Muted:         e.seq.Muted(),
		Autoplay:      e.autoplay,
		RecipientName: pres.RecipientName,
		Theme:         theme.Resolve(e.seq.EffectiveThemeID()),
		Frame:         frame,
	}
	if i, ok := pos.PanelIndex(); ok {
		idx := i
		sv.PanelIndex = &idx
		if e.autoplay && !e.plan.Manual {
			plan := e.plan
			sv.Plan = &plan
		}
	}
	if pos.IsSplash() && e.seq.Locked() {
		sv.UnlockType = pres.Unlock.Type
		sv.Question = pres.Unlock.Question
		sv.Hint = pres.Unlock.Hint
	}
	if pos.IsFinale() {
		sv.Branding = !pres.Style.RemoveBranding
		sv.FeedbackActive = e.seq.FeedbackActive()
	}
	return sv
}

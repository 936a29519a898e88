package panels

import "github.com/devgenix/surpriseal/internal/reveal"

type PlaybackView struct {
	Media MediaRef `json:"media"`
	Loop  bool     `json:"loop,omitempty"`
}

// playbackRenderer covers both the video and audio panel types; they share
// one policy and differ only in the tag the client sees.
type playbackRenderer struct {
	kind string
}

func (r playbackRenderer) Type() string { return r.kind }

func (r playbackRenderer) Render(rc Context) Frame {
	cfg := rc.Panel.Playback
	if cfg == nil {
		cfg = &reveal.PlaybackConfig{}
	}
	return Frame{
		PanelID: rc.Panel.ID,
		Type:    r.kind,
		View: PlaybackView{
			Media: resolveMedia(rc, cfg.MediaID),
			Loop:  cfg.Loop,
		},
	}
}

// Plan starts playback immediately and completes on natural end. A looping
// panel still gets its play step but never signals completion, so it is
// advanced by hand.
func (r playbackRenderer) Plan(rc Context) Plan {
	cfg := rc.Panel.Playback
	if cfg == nil || cfg.MediaID == "" {
		return Plan{Manual: true}
	}
	if cfg.Loop {
		return Plan{Manual: true, Steps: []Step{{Action: ActionPlay, MediaID: cfg.MediaID}}}
	}
	return Plan{Steps: []Step{mediaStep(ActionPlay, 0, cfg.MediaID)}}
}

package panels

import (
	"time"

	"github.com/devgenix/surpriseal/internal/reveal"
)

const (
	// DefaultRevealThreshold is the scratched-away fraction that counts as
	// revealed when the author did not set one.
	DefaultRevealThreshold = 0.5

	// scratchLinger keeps the revealed content on screen before autoplay
	// advances.
	scratchLinger = 2500 * time.Millisecond
)

type ScratchView struct {
	Cover     MediaRef `json:"cover"`
	Reveal    MediaRef `json:"reveal"`
	Threshold float64  `json:"threshold"`
	Caption   string   `json:"caption,omitempty"`
}

type scratchRenderer struct{}

func (scratchRenderer) Type() string { return reveal.PanelScratch }

func (scratchRenderer) Render(rc Context) Frame {
	cfg := rc.Panel.Scratch
	if cfg == nil {
		cfg = &reveal.ScratchConfig{}
	}
	return Frame{
		PanelID: rc.Panel.ID,
		Type:    reveal.PanelScratch,
		View: ScratchView{
			Cover:     resolveMedia(rc, cfg.CoverMediaID),
			Reveal:    resolveMedia(rc, cfg.RevealMediaID),
			Threshold: ScratchThreshold(cfg),
			Caption:   cfg.Caption,
		},
	}
}

// Plan waits for the reveal gesture, then lingers so the uncovered content
// can be seen before the sequence moves on.
func (scratchRenderer) Plan(rc Context) Plan {
	return Plan{Steps: []Step{
		{Action: ActionScratch, AwaitScratch: true},
		timedStep(ActionLinger, 0, scratchLinger),
	}}
}

// ScratchThreshold returns the effective reveal fraction for a scratch
// config, applying the default for unset or out-of-range values.
func ScratchThreshold(cfg *reveal.ScratchConfig) float64 {
	if cfg == nil || cfg.RevealThreshold <= 0 || cfg.RevealThreshold > 1 {
		return DefaultRevealThreshold
	}
	return cfg.RevealThreshold
}

package panels

import (
	"strings"
	"time"

	"github.com/devgenix/surpriseal/internal/reveal"
)

const (
	compositionMinDuration = 12 * time.Second
	compositionPerWord     = 2 * time.Second

	// compositionScrollMargin trims the auto-scroll window at both ends so
	// the scroll starts after the text has begun revealing and settles
	// before the panel completes.
	compositionScrollMargin = time.Second
)

type CompositionView struct {
	Body        string     `json:"body"`
	InlineMedia []MediaRef `json:"inlineMedia,omitempty"`

	// Scroll window for autoplay, milliseconds relative to panel entry.
	// The client interpolates scroll position linearly across it.
	ScrollStartMs int64 `json:"scrollStartMs"`
	ScrollEndMs   int64 `json:"scrollEndMs"`
}

type compositionRenderer struct{}

func (compositionRenderer) Type() string { return reveal.PanelComposition }

func (compositionRenderer) Render(rc Context) Frame {
	cfg := rc.Panel.Composition
	if cfg == nil {
		cfg = &reveal.CompositionConfig{}
	}
	d := CompositionDuration(cfg.Body)
	return Frame{
		PanelID: rc.Panel.ID,
		Type:    reveal.PanelComposition,
		View: CompositionView{
			Body:          cfg.Body,
			InlineMedia:   resolveMediaList(rc, cfg.InlineMediaIDs),
			ScrollStartMs: compositionScrollMargin.Milliseconds(),
			ScrollEndMs:   (d - compositionScrollMargin).Milliseconds(),
		},
	}
}

func (compositionRenderer) Plan(rc Context) Plan {
	cfg := rc.Panel.Composition
	if cfg == nil {
		cfg = &reveal.CompositionConfig{}
	}
	return Plan{Steps: []Step{timedStep(ActionRead, 0, CompositionDuration(cfg.Body))}}
}

// CompositionDuration is the autoplay reading time for a message: two
// seconds per word with a twelve second floor.
func CompositionDuration(body string) time.Duration {
	words := len(strings.Fields(body))
	d := time.Duration(words) * compositionPerWord
	if d < compositionMinDuration {
		return compositionMinDuration
	}
	return d
}

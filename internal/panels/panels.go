// Package panels renders the per-type panel content and computes the
// autoplay plan the session loop executes for each panel.
package panels

import (
	"fmt"
	"time"

	"github.com/devgenix/surpriseal/internal/reveal"
)

// Context carries everything a renderer may read. The presentation is the
// read-only snapshot; renderers resolve media references against its
// library.
type Context struct {
	Presentation *reveal.Presentation
	Panel        reveal.Panel
}

// MediaRef is a resolved media library reference. Dangling ids are kept in
// the frame with Missing set so the client can show a placeholder; a broken
// reference never halts the sequence.
type MediaRef struct {
	ID      string `json:"id"`
	Type    string `json:"type,omitempty"`
	URL     string `json:"url,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

// Frame is the render payload for one panel, shipped to the client as-is.
type Frame struct {
	PanelID string `json:"panelId"`
	Type    string `json:"type"`
	View    any    `json:"view"`
}

// Step is one stage of an autoplay plan. A step either holds for Duration,
// waits for the named media to reach its natural end, or waits for the
// scratch threshold gesture. Action and ItemIndex tell the client what to
// present when the step begins.
type Step struct {
	Action       string        `json:"action"`
	ItemIndex    int           `json:"itemIndex,omitempty"`
	MediaID      string        `json:"mediaId,omitempty"`
	Duration     time.Duration `json:"-"`
	DurationMs   int64         `json:"durationMs,omitempty"`
	AwaitMedia   bool          `json:"awaitMedia,omitempty"`
	AwaitScratch bool          `json:"awaitScratch,omitempty"`
}

const (
	ActionShow     = "show"     // present gallery item ItemIndex
	ActionScroll   = "scroll"   // grid sweep, top to bottom and back
	ActionLightbox = "lightbox" // open grid lightbox at ItemIndex
	ActionRead     = "read"     // composition timed scroll
	ActionPlay     = "play"     // start panel media playback
	ActionScratch  = "scratch"  // wait for the reveal gesture
	ActionLinger   = "linger"   // hold so revealed content can be seen
)

// Plan is the ordered autoplay schedule for one panel. Manual plans never
// self-complete; the recipient advances by hand.
type Plan struct {
	Steps  []Step `json:"steps,omitempty"`
	Manual bool   `json:"manual,omitempty"`
}

func timedStep(action string, item int, d time.Duration) Step {
	return Step{Action: action, ItemIndex: item, Duration: d, DurationMs: d.Milliseconds()}
}

func mediaStep(action string, item int, mediaID string) Step {
	return Step{Action: action, ItemIndex: item, MediaID: mediaID, AwaitMedia: true}
}

// Renderer is the uniform contract over the closed set of panel types.
type Renderer interface {
	Type() string
	Render(rc Context) Frame
	Plan(rc Context) Plan
}

var renderers = map[string]Renderer{
	reveal.PanelScratch:     scratchRenderer{},
	reveal.PanelGallery:     galleryRenderer{},
	reveal.PanelComposition: compositionRenderer{},
	reveal.PanelVideo:       playbackRenderer{kind: reveal.PanelVideo},
	reveal.PanelAudio:       playbackRenderer{kind: reveal.PanelAudio},
}

// Dispatch renders the panel and, when autoplay is on, its plan. Unknown
// panel types are an authoring-tool bug; they degrade to an empty frame so
// navigation keeps working.
func Dispatch(rc Context, autoplay bool) (Frame, Plan, error) {
	r, ok := renderers[rc.Panel.Type]
	if !ok {
		return Frame{PanelID: rc.Panel.ID, Type: rc.Panel.Type},
			Plan{Manual: true},
			fmt.Errorf("panels: unknown panel type %q", rc.Panel.Type)
	}
	frame := r.Render(rc)
	if !autoplay {
		return frame, Plan{Manual: true}, nil
	}
	return frame, r.Plan(rc), nil
}

func resolveMedia(rc Context, id string) MediaRef {
	if id == "" {
		return MediaRef{Missing: true}
	}
	m, ok := rc.Presentation.MediaByID(id)
	if !ok {
		return MediaRef{ID: id, Missing: true}
	}
	return MediaRef{ID: m.ID, Type: m.Type, URL: m.URL}
}

func resolveMediaList(rc Context, ids []string) []MediaRef {
	out := make([]MediaRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, resolveMedia(rc, id))
	}
	return out
}

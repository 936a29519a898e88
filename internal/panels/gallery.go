package panels

import (
	"time"

	"github.com/devgenix/surpriseal/internal/reveal"
)

const (
	stackImageHold     = 4 * time.Second
	slideshowImageHold = 5 * time.Second
	lightboxImageHold  = 4 * time.Second

	// Grid sweep duration scales with item count, one second per item,
	// clamped so tiny walls still read and huge walls do not drag.
	gridScrollPerItem = time.Second
	gridScrollMin     = 6 * time.Second
	gridScrollMax     = 20 * time.Second

	// DragThresholdPx is how far the front stack card must travel, in any
	// direction, before a release advances it.
	DragThresholdPx = 120
)

type GalleryView struct {
	Layout        string     `json:"layout"`
	Items         []MediaRef `json:"items"`
	DragThreshold int        `json:"dragThreshold,omitempty"`
}

type galleryRenderer struct{}

func (galleryRenderer) Type() string { return reveal.PanelGallery }

func (galleryRenderer) Render(rc Context) Frame {
	cfg := rc.Panel.Gallery
	if cfg == nil {
		cfg = &reveal.GalleryConfig{Layout: reveal.GalleryStack}
	}
	layout := cfg.Layout
	if layout == "" {
		layout = reveal.GalleryStack
	}
	view := GalleryView{
		Layout: layout,
		Items:  resolveMediaList(rc, cfg.MediaIDs),
	}
	if layout == reveal.GalleryStack {
		view.DragThreshold = DragThresholdPx
	}
	return Frame{PanelID: rc.Panel.ID, Type: reveal.PanelGallery, View: view}
}

func (galleryRenderer) Plan(rc Context) Plan {
	cfg := rc.Panel.Gallery
	if cfg == nil || len(cfg.MediaIDs) == 0 {
		return Plan{Manual: true}
	}
	items := resolveMediaList(rc, cfg.MediaIDs)
	switch cfg.Layout {
	case reveal.GalleryGrid:
		return gridPlan(items)
	case reveal.GallerySlideshow:
		return itemPlan(ActionShow, items, slideshowImageHold)
	default:
		return itemPlan(ActionShow, items, stackImageHold)
	}
}

// itemPlan holds each image for hold and lets each video run to its natural
// end. Missing items still get the image hold so the placeholder is paced
// like everything else.
func itemPlan(action string, items []MediaRef, hold time.Duration) Plan {
	steps := make([]Step, 0, len(items))
	for i, it := range items {
		if it.Type == reveal.MediaVideo && !it.Missing {
			steps = append(steps, mediaStep(action, i, it.ID))
			continue
		}
		steps = append(steps, timedStep(action, i, hold))
	}
	return Plan{Steps: steps}
}

// gridPlan sweeps the wall top to bottom and back, then walks the lightbox
// from item 0.
func gridPlan(items []MediaRef) Plan {
	steps := []Step{timedStep(ActionScroll, 0, GridScrollDuration(len(items)))}
	for i, it := range items {
		if it.Type == reveal.MediaVideo && !it.Missing {
			steps = append(steps, mediaStep(ActionLightbox, i, it.ID))
			continue
		}
		steps = append(steps, timedStep(ActionLightbox, i, lightboxImageHold))
	}
	return Plan{Steps: steps}
}

// GridScrollDuration is the autoplay sweep duration for a grid wall of n
// items, clamped to [6s, 20s].
func GridScrollDuration(n int) time.Duration {
	d := time.Duration(n) * gridScrollPerItem
	if d < gridScrollMin {
		return gridScrollMin
	}
	if d > gridScrollMax {
		return gridScrollMax
	}
	return d
}

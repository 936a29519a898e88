package reveal

// Presentation is the top-level config document produced by the authoring
// tool. The engine treats it as a read-only snapshot for one playback
// session; only ephemeral render state is derived from it.
type Presentation struct {
	ID            string       `json:"id"`
	RecipientName string       `json:"recipientName"`
	Unlock        UnlockConfig `json:"unlockConfig"`
	Style         StyleConfig  `json:"styleConfig"`
	Media         []MediaItem  `json:"media"`
}

// UnlockConfig gates entry to panel 0. Exactly one rule type is active.
type UnlockConfig struct {
	Type     string `json:"type"` // "none" | "password" | "question"
	Password string `json:"password,omitempty"`
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Hint     string `json:"hint,omitempty"`
}

const (
	UnlockNone     = "none"
	UnlockPassword = "password"
	UnlockQuestion = "question"
)

// StyleConfig holds the theme, the global music channel and the ordered
// panel list. Panel order is the canonical navigation order.
type StyleConfig struct {
	ThemeID        string  `json:"themeId"`
	Music          Music   `json:"music"`
	Panels         []Panel `json:"scenes"`
	RemoveBranding bool    `json:"removeBranding,omitempty"`
}

// Music describes one audio source. ProviderTrackID takes precedence over
// DirectURL when both are set; with neither the channel is silent.
type Music struct {
	ProviderTrackID string        `json:"providerTrackId,omitempty"`
	DirectURL       string        `json:"directUrl,omitempty"`
	Meta            MusicMeta     `json:"metadata,omitempty"`
	Segment         *MusicSegment `json:"segment,omitempty"`
}

type MusicMeta struct {
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// MusicSegment bounds playback to [Start, Start+Duration) seconds, looping
// back to Start when the window is exceeded.
type MusicSegment struct {
	StartSeconds    float64 `json:"startSeconds"`
	DurationSeconds float64 `json:"durationSeconds"`
}

// Silent reports whether the descriptor resolves to no audio source.
func (m Music) Silent() bool {
	return m.ProviderTrackID == "" && m.DirectURL == ""
}

// TrackIdentity is the resolved identity used by the audio channel manager
// to decide whether a backend must be rebuilt.
func (m Music) TrackIdentity() string {
	if m.ProviderTrackID != "" {
		return "provider:" + m.ProviderTrackID
	}
	if m.DirectURL != "" {
		return "url:" + m.DirectURL
	}
	return ""
}

// Panel is one step of the reveal sequence.
type Panel struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "scratch" | "gallery" | "composition" | "video" | "audio"

	// UseGlobalMusic defaults to true; only when explicitly disabled does
	// MusicOverride take effect.
	UseGlobalMusic *bool  `json:"useGlobalMusic,omitempty"`
	MusicOverride  *Music `json:"musicOverride,omitempty"`
	ThemeOverride  string `json:"themeOverride,omitempty"`

	Scratch     *ScratchConfig     `json:"scratch,omitempty"`
	Gallery     *GalleryConfig     `json:"gallery,omitempty"`
	Composition *CompositionConfig `json:"composition,omitempty"`
	Playback    *PlaybackConfig    `json:"playback,omitempty"`
}

const (
	PanelScratch     = "scratch"
	PanelGallery     = "gallery"
	PanelComposition = "composition"
	PanelVideo       = "video"
	PanelAudio       = "audio"
)

// UsesGlobalMusic reports whether the panel inherits the global channel.
func (p Panel) UsesGlobalMusic() bool {
	return p.UseGlobalMusic == nil || *p.UseGlobalMusic
}

// EffectiveMusic returns the descriptor in scope for this panel: the
// override only when global inheritance is explicitly disabled.
func (p Panel) EffectiveMusic(global Music) Music {
	if !p.UsesGlobalMusic() && p.MusicOverride != nil {
		return *p.MusicOverride
	}
	return global
}

type ScratchConfig struct {
	CoverMediaID    string  `json:"coverMediaId,omitempty"`
	RevealMediaID   string  `json:"revealMediaId"`
	RevealThreshold float64 `json:"revealThreshold,omitempty"` // fraction, default 0.5
	Caption         string  `json:"caption,omitempty"`
}

type GalleryConfig struct {
	Layout   string   `json:"layout"` // "stack" | "grid" | "slideshow"
	MediaIDs []string `json:"mediaIds"`
}

const (
	GalleryStack     = "stack"
	GalleryGrid      = "grid"
	GallerySlideshow = "slideshow"
)

type CompositionConfig struct {
	Body           string   `json:"body"`
	InlineMediaIDs []string `json:"inlineMediaIds,omitempty"`
}

type PlaybackConfig struct {
	MediaID string `json:"mediaId"`
	Loop    bool   `json:"loop,omitempty"`
}

// MediaItem lives in the flat media library and is referenced by id from
// panel configs.
type MediaItem struct {
	ID   string `json:"id"`
	Type string `json:"type"` // "image" | "video" | "audio"
	URL  string `json:"url"`
}

const (
	MediaImage = "image"
	MediaVideo = "video"
	MediaAudio = "audio"
)

// MediaByID resolves a library reference. The second result is false for
// dangling ids; callers degrade to a placeholder rather than failing the
// sequence.
func (p *Presentation) MediaByID(id string) (MediaItem, bool) {
	for _, m := range p.Media {
		if m.ID == id {
			return m, true
		}
	}
	return MediaItem{}, false
}

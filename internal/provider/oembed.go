// Package provider resolves display metadata for embedded-provider tracks
// via the provider's oEmbed endpoint. Lookup failures are non-fatal; a
// descriptor without metadata still plays, it just shows no title card.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/devgenix/surpriseal/internal/reveal"
)

const defaultEndpoint = "https://www.youtube.com/oembed"

type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Resolve fetches title, author and thumbnail for a provider track id.
func (c *Client) Resolve(ctx context.Context, trackID string) (reveal.MusicMeta, error) {
	val := url.Values{}
	val.Set("url", "https://www.youtube.com/watch?v="+trackID)
	val.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+val.Encode(), nil)
	if err != nil {
		return reveal.MusicMeta{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return reveal.MusicMeta{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return reveal.MusicMeta{}, fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return reveal.MusicMeta{}, err
	}
	return reveal.MusicMeta{
		Title:        body.Title,
		Author:       body.AuthorName,
		ThumbnailURL: body.ThumbnailURL,
	}, nil
}

// Enrich fills in missing display metadata across a snapshot's music
// descriptors: the global channel and every panel override.
func (c *Client) Enrich(ctx context.Context, pres *reveal.Presentation) {
	c.enrichMusic(ctx, &pres.Style.Music)
	for i := range pres.Style.Panels {
		if m := pres.Style.Panels[i].MusicOverride; m != nil {
			c.enrichMusic(ctx, m)
		}
	}
}

func (c *Client) enrichMusic(ctx context.Context, m *reveal.Music) {
	if m.ProviderTrackID == "" || m.Meta.Title != "" {
		return
	}
	meta, err := c.Resolve(ctx, m.ProviderTrackID)
	if err != nil {
		log.Printf("reveal-service: oembed %s: %v", m.ProviderTrackID, err)
		return
	}
	m.Meta = meta
}

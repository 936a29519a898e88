// Package theme maps a theme identifier to the ambient background
// parameters rendered behind every panel.
package theme

// Theme holds the ambient background parameters for one theme id. It is
// plain render data; the engine never interprets it.
type Theme struct {
	ID                 string   `json:"id"`
	ParticleColor      string   `json:"particleColor"`
	ParticleDensity    int      `json:"particleDensity"`
	BackgroundGradient []string `json:"backgroundGradient"`
	SpecialEffect      string   `json:"specialEffect,omitempty"`
}

var themes = map[string]Theme{
	"stardust": {
		ID:                 "stardust",
		ParticleColor:      "#ffe9a8",
		ParticleDensity:    80,
		BackgroundGradient: []string{"#0b1026", "#2b1a4d"},
		SpecialEffect:      "twinkle",
	},
	"roses": {
		ID:                 "roses",
		ParticleColor:      "#ff6b81",
		ParticleDensity:    45,
		BackgroundGradient: []string{"#2d0a14", "#5c1a30"},
		SpecialEffect:      "petals",
	},
	"ocean": {
		ID:                 "ocean",
		ParticleColor:      "#9fd8ff",
		ParticleDensity:    60,
		BackgroundGradient: []string{"#03182b", "#0a3d5c"},
	},
	"golden": {
		ID:                 "golden",
		ParticleColor:      "#f7d774",
		ParticleDensity:    70,
		BackgroundGradient: []string{"#1a1205", "#4d3a0f"},
		SpecialEffect:      "shimmer",
	},
	"midnight": {
		ID:                 "midnight",
		ParticleColor:      "#b8c4ff",
		ParticleDensity:    35,
		BackgroundGradient: []string{"#05060f", "#131633"},
	},
}

const defaultThemeID = "stardust"

// Resolve returns the theme for id, falling back to the default theme for
// unknown ids.
func Resolve(id string) Theme {
	if t, ok := themes[id]; ok {
		return t
	}
	return themes[defaultThemeID]
}

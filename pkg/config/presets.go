// pkg/config/presets.go
package config

import "math"

// Preset is a named starting configuration
type Preset struct {
	Name        string
	Description string
	build       func(*GameConfig)
}

var presets = map[string]Preset{
	"classic": {
		Name:        "Classic",
		Description: "Two ships, four large asteroids",
		build:       func(*GameConfig) {},
	},
	"duel": {
		Name:        "Duel",
		Description: "Two ships facing each other in empty space",
		build: func(c *GameConfig) {
			c.Asteroids.Count = 0
			c.Ships[0].Rotation = 0
			c.Ships[1].Rotation = math.Pi
		},
	},
	"field": {
		Name:        "Asteroid Field",
		Description: "Two ships in a dense field of small asteroids",
		build: func(c *GameConfig) {
			c.Asteroids.Count = 12
			c.Asteroids.InitialScale = 2
			c.Asteroids.SpawnRadius = 250
			c.Ships[0].X, c.Ships[1].X = -300, 300
		},
	},
}

// GetPreset returns a fresh configuration for the named preset, or nil.
func GetPreset(name string) *GameConfig {
	p, ok := presets[name]
	if !ok {
		return nil
	}
	c := DefaultConfig()
	p.build(c)
	return c
}

// ListPresets returns preset keys mapped to their descriptions.
func ListPresets() map[string]string {
	out := make(map[string]string, len(presets))
	for key, p := range presets {
		out[key] = p.Description
	}
	return out
}

// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-spacewar/pkg/input"
)

// GameConfig contains configuration for an arena match
type GameConfig struct {
	Arena      ArenaConfig      `json:"arena" yaml:"arena"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Physics    PhysicsConfig    `json:"physics" yaml:"physics"`
	Shields    ShieldConfig     `json:"shields" yaml:"shields"`
	Weapons    WeaponConfig     `json:"weapons" yaml:"weapons"`
	Thrusters  ThrusterConfig   `json:"thrusters" yaml:"thrusters"`
	Asteroids  AsteroidConfig   `json:"asteroids" yaml:"asteroids"`
	Debris     DebrisConfig     `json:"debris" yaml:"debris"`
	Ships      []ShipConfig     `json:"ships" yaml:"ships"`
	Controls   ControlConfig    `json:"controls" yaml:"controls"`
}

// ArenaConfig describes the toroidal arena
type ArenaConfig struct {
	HalfExtent float64 `json:"halfExtent" yaml:"halfExtent"`
}

// SimulationConfig contains tick configuration
type SimulationConfig struct {
	TickRate int `json:"tickRate" yaml:"tickRate"`
	// Seed makes a match reproducible. Empty means seeded from the clock.
	Seed string `json:"seed" yaml:"seed"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity            float64 `json:"gravity" yaml:"gravity"`
	GravityMinDistance float64 `json:"gravityMinDistance" yaml:"gravityMinDistance"`
	Density            float64 `json:"density" yaml:"density"`
	Restitution        float64 `json:"restitution" yaml:"restitution"`
	ShipRadius         float64 `json:"shipRadius" yaml:"shipRadius"`
	AsteroidRadius     float64 `json:"asteroidRadius" yaml:"asteroidRadius"`
	ProjectileRadius   float64 `json:"projectileRadius" yaml:"projectileRadius"`
}

// ShieldConfig contains shield energy configuration
type ShieldConfig struct {
	ShipEnergy     float64 `json:"shipEnergy" yaml:"shipEnergy"`
	AsteroidEnergy float64 `json:"asteroidEnergy" yaml:"asteroidEnergy"`
	RegenRate      float64 `json:"regenRate" yaml:"regenRate"`
	ContactDamage  float64 `json:"contactDamage" yaml:"contactDamage"`
	DisplayOffsetX float64 `json:"displayOffsetX" yaml:"displayOffsetX"`
	DisplayOffsetY float64 `json:"displayOffsetY" yaml:"displayOffsetY"`
}

// WeaponConfig contains gun configuration
type WeaponConfig struct {
	Reload       float64 `json:"reload" yaml:"reload"`
	Lifetime     float64 `json:"lifetime" yaml:"lifetime"`
	MuzzleSpeed  float64 `json:"muzzleSpeed" yaml:"muzzleSpeed"`
	MuzzleOffset float64 `json:"muzzleOffset" yaml:"muzzleOffset"`
	Spread       float64 `json:"spread" yaml:"spread"`
}

// ThrusterConfig contains steering and exhaust configuration
type ThrusterConfig struct {
	Impulse         float64 `json:"impulse" yaml:"impulse"`
	TurnRate        float64 `json:"turnRate" yaml:"turnRate"`
	ExhaustInterval float64 `json:"exhaustInterval" yaml:"exhaustInterval"`
	ExhaustLifetime float64 `json:"exhaustLifetime" yaml:"exhaustLifetime"`
	ExhaustSpeed    float64 `json:"exhaustSpeed" yaml:"exhaustSpeed"`
	Spread          float64 `json:"spread" yaml:"spread"`
}

// AsteroidConfig contains asteroid field configuration
type AsteroidConfig struct {
	Count        int     `json:"count" yaml:"count"`
	InitialScale float64 `json:"initialScale" yaml:"initialScale"`
	MinScale     float64 `json:"minScale" yaml:"minScale"`
	SplitCount   int     `json:"splitCount" yaml:"splitCount"`
	SplitJitter  float64 `json:"splitJitter" yaml:"splitJitter"`
	SpawnRadius  float64 `json:"spawnRadius" yaml:"spawnRadius"`
}

// DebrisConfig contains destruction debris configuration
type DebrisConfig struct {
	Count    int     `json:"count" yaml:"count"`
	Speed    float64 `json:"speed" yaml:"speed"`
	Lifetime float64 `json:"lifetime" yaml:"lifetime"`
}

// ShipConfig places one player's ship at match start
type ShipConfig struct {
	Player   uint8   `json:"player" yaml:"player"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
}

// ControlConfig contains key bindings
type ControlConfig struct {
	Quit    string          `json:"quit" yaml:"quit"`
	Players []PlayerControl `json:"players" yaml:"players"`
}

// PlayerControl binds one player's buttons to key names
type PlayerControl struct {
	Player    uint8  `json:"player" yaml:"player"`
	Thrust    string `json:"thrust" yaml:"thrust"`
	TurnLeft  string `json:"turnLeft" yaml:"turnLeft"`
	TurnRight string `json:"turnRight" yaml:"turnRight"`
	Fire      string `json:"fire" yaml:"fire"`
}

// LoadConfig loads a configuration from a file. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file, choosing the format by extension
func SaveConfig(config *GameConfig, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// DefaultConfig returns the classic two-player duel in a 800x800 arena
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Arena: ArenaConfig{
			HalfExtent: 400,
		},
		Simulation: SimulationConfig{
			TickRate: 60,
		},
		Physics: PhysicsConfig{
			Gravity:            0.3,
			GravityMinDistance: 1,
			Density:            1,
			Restitution:        0.7,
			ShipRadius:         16,
			AsteroidRadius:     8,
			ProjectileRadius:   2,
		},
		Shields: ShieldConfig{
			ShipEnergy:     1.0,
			AsteroidEnergy: 0.1,
			RegenRate:      0.2,
			ContactDamage:  0.2,
			DisplayOffsetX: -20,
			DisplayOffsetY: 30,
		},
		Weapons: WeaponConfig{
			Reload:       0.2,
			Lifetime:     1.0,
			MuzzleSpeed:  400,
			MuzzleOffset: 20,
			Spread:       0.1,
		},
		Thrusters: ThrusterConfig{
			Impulse:         100000,
			TurnRate:        5,
			ExhaustInterval: 0.05,
			ExhaustLifetime: 0.5,
			ExhaustSpeed:    200,
			Spread:          0.3,
		},
		Asteroids: AsteroidConfig{
			Count:        4,
			InitialScale: 4,
			MinScale:     1,
			SplitCount:   4,
			SplitJitter:  20,
			SpawnRadius:  50,
		},
		Debris: DebrisConfig{
			Count:    4,
			Speed:    50,
			Lifetime: 0.5,
		},
		Ships: []ShipConfig{
			{Player: 0, X: -100, Y: 0, Rotation: math.Pi / 2},
			{Player: 1, X: 100, Y: 0, Rotation: math.Pi / 2},
		},
		Controls: ControlConfig{
			Quit: "Q",
			Players: []PlayerControl{
				{Player: 0, Thrust: "Up", TurnLeft: "Left", TurnRight: "Right", Fire: "Space"},
				{Player: 1, Thrust: "W", TurnLeft: "A", TurnRight: "D", Fire: "S"},
			},
		},
	}
}

// TimeStep returns the fixed simulation step in seconds.
func (c *GameConfig) TimeStep() float64 {
	return 1 / float64(c.Simulation.TickRate)
}

// Bindings builds the per-player binding table from the controls section.
func (c *GameConfig) Bindings() (*input.BindingTable, error) {
	bindings := make([]input.Binding, 0, len(c.Controls.Players))
	for _, p := range c.Controls.Players {
		bindings = append(bindings, input.Binding{
			Player:    p.Player,
			Thrust:    p.Thrust,
			TurnLeft:  p.TurnLeft,
			TurnRight: p.TurnRight,
			Fire:      p.Fire,
		})
	}
	table, err := input.NewBindingTable(c.Controls.Quit, bindings...)
	if err != nil {
		return nil, &ValidationError{Field: "controls", Message: err.Error()}
	}
	return table, nil
}

// Seed derives the two PCG seed words from the seed string. It reports false
// when no seed is configured.
func (c *GameConfig) Seed() (uint64, uint64, bool) {
	if c.Simulation.Seed == "" {
		return 0, 0, false
	}
	d := xxhash.New()
	_, _ = d.WriteString(c.Simulation.Seed)
	hi := d.Sum64()
	_, _ = d.WriteString("/stream")
	return hi, d.Sum64(), true
}

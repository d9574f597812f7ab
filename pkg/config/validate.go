// pkg/config/validate.go
package config

import (
	"errors"
	"fmt"

	"github.com/opd-ai/go-spacewar/pkg/input"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s=%v: %s", ErrInvalidConfig, e.Field, e.Value, e.Message)
}

// Unwrap lets callers test for ErrInvalidConfig with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks the configuration and returns the first problem found.
func (c *GameConfig) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"arena.halfExtent", c.Arena.HalfExtent},
		{"simulation.tickRate", float64(c.Simulation.TickRate)},
		{"physics.density", c.Physics.Density},
		{"physics.shipRadius", c.Physics.ShipRadius},
		{"physics.asteroidRadius", c.Physics.AsteroidRadius},
		{"physics.projectileRadius", c.Physics.ProjectileRadius},
		{"weapons.reload", c.Weapons.Reload},
		{"weapons.lifetime", c.Weapons.Lifetime},
		{"thrusters.exhaustInterval", c.Thrusters.ExhaustInterval},
		{"thrusters.exhaustLifetime", c.Thrusters.ExhaustLifetime},
		{"asteroids.minScale", c.Asteroids.MinScale},
		{"debris.lifetime", c.Debris.Lifetime},
	}
	for _, p := range positive {
		if !(p.value > 0) {
			return &ValidationError{Field: p.field, Value: p.value, Message: "must be positive"}
		}
	}

	nonNegative := []struct {
		field string
		value float64
	}{
		{"physics.gravity", c.Physics.Gravity},
		{"physics.gravityMinDistance", c.Physics.GravityMinDistance},
		{"shields.regenRate", c.Shields.RegenRate},
		{"shields.contactDamage", c.Shields.ContactDamage},
		{"weapons.spread", c.Weapons.Spread},
		{"thrusters.spread", c.Thrusters.Spread},
		{"asteroids.splitJitter", c.Asteroids.SplitJitter},
		{"asteroids.spawnRadius", c.Asteroids.SpawnRadius},
		{"asteroids.count", float64(c.Asteroids.Count)},
		{"asteroids.splitCount", float64(c.Asteroids.SplitCount)},
		{"debris.count", float64(c.Debris.Count)},
	}
	for _, n := range nonNegative {
		if !(n.value >= 0) {
			return &ValidationError{Field: n.field, Value: n.value, Message: "must not be negative"}
		}
	}

	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return &ValidationError{Field: "physics.restitution", Value: c.Physics.Restitution, Message: "must be within [0, 1]"}
	}
	if c.Weapons.MuzzleOffset <= c.Physics.ShipRadius+c.Physics.ProjectileRadius {
		return &ValidationError{Field: "weapons.muzzleOffset", Value: c.Weapons.MuzzleOffset, Message: "projectiles would spawn inside the firing ship"}
	}

	seen := make(map[uint8]bool, len(c.Ships))
	for _, s := range c.Ships {
		if int(s.Player) >= input.MaxPlayers {
			return &ValidationError{Field: "ships.player", Value: s.Player, Message: fmt.Sprintf("must be below %d", input.MaxPlayers)}
		}
		if seen[s.Player] {
			return &ValidationError{Field: "ships.player", Value: s.Player, Message: "duplicate player"}
		}
		seen[s.Player] = true
	}

	if _, err := c.Bindings(); err != nil {
		return err
	}
	return nil
}

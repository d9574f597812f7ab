// pkg/entity/entity.go
package entity

import (
	"math"

	"github.com/EngoEngine/ecs"
)

// ID is a unique identifier for an entity. It is the id of the entity's
// ecs.BasicEntity.
type ID uint64

// Kind tells entity types apart without a type switch.
type Kind uint8

const (
	KindShip Kind = iota + 1
	KindAsteroid
	KindProjectile
	KindDebris
	KindShieldIndicator
	KindEnergyDisplay
)

func (k Kind) String() string {
	switch k {
	case KindShip:
		return "ship"
	case KindAsteroid:
		return "asteroid"
	case KindProjectile:
		return "projectile"
	case KindDebris:
		return "debris"
	case KindShieldIndicator:
		return "shield_indicator"
	case KindEnergyDisplay:
		return "energy_display"
	default:
		return "unknown"
	}
}

// Physical reports whether entities of this kind own a rigid body.
func (k Kind) Physical() bool {
	switch k {
	case KindShip, KindAsteroid, KindProjectile, KindDebris:
		return true
	}
	return false
}

// Transient reports whether entities of this kind expire after a fixed lifetime.
func (k Kind) Transient() bool {
	return k == KindProjectile || k == KindDebris
}

// Entity is the base interface for all game objects
type Entity interface {
	GetID() ID
	GetKind() Kind
	GetBasicEntity() *ecs.BasicEntity
}

// BaseEntity contains common functionality for all entities
type BaseEntity struct {
	ecs.BasicEntity
	Kind Kind
}

// NewBaseEntity allocates a fresh ecs identity for an entity of the given kind.
func NewBaseEntity(kind Kind) BaseEntity {
	return BaseEntity{BasicEntity: ecs.NewBasic(), Kind: kind}
}

// GetID returns the entity's unique identifier
func (e *BaseEntity) GetID() ID {
	return ID(e.BasicEntity.ID())
}

// GetKind returns the entity kind
func (e *BaseEntity) GetKind() Kind {
	return e.Kind
}

// Shield holds damage-absorption energy. Energy is nominally in [0, 1]; a
// negative value means the shield is exhausted and its holder is pending
// destruction.
type Shield struct {
	Energy float64
}

// Shielded is implemented by entities that take contact damage.
type Shielded interface {
	Entity
	GetShield() *Shield
}

// Damage debits amount and reports whether this debit exhausted the shield.
// A shield that was already exhausted is debited but does not report again.
func (s *Shield) Damage(amount float64) bool {
	before := s.Energy
	s.Energy -= amount
	return before >= 0 && s.Energy < 0
}

// Regenerate adds rate*dt, clamped to 1. Exhausted shields do not recover.
func (s *Shield) Regenerate(rate, dt float64) {
	if s.Energy < 0 {
		return
	}
	s.Energy = math.Min(1, s.Energy+rate*dt)
}

// Exhausted reports whether the energy is below zero.
func (s *Shield) Exhausted() bool {
	return s.Energy < 0
}

// Percent returns floor(100 * energy).
func (s *Shield) Percent() int {
	return int(math.Floor(100 * s.Energy))
}

// Alpha maps an energy value to a display alpha in [0, 1].
func Alpha(energy float64) float64 {
	if math.IsNaN(energy) {
		return 0
	}
	return math.Max(0, math.Min(1, energy))
}

// pkg/entity/ship.go
package entity

// Gun is the weapon cooldown. Its timer counts down every tick and the gun
// may fire once it has dropped below zero.
type Gun struct {
	Reload float64
	Timer  float64
}

// Advance moves the timer forward by dt seconds.
func (g *Gun) Advance(dt float64) {
	g.Timer -= dt
}

// TryFire reports whether the gun is ready and, if so, re-arms it.
func (g *Gun) TryFire() bool {
	if g.Timer >= 0 {
		return false
	}
	g.Timer = g.Reload
	return true
}

// Thruster emits exhaust at a fixed interval while thrust is held. Its timer
// counts up and keeps the remainder after each emission.
type Thruster struct {
	Interval float64
	Timer    float64
}

// Advance moves the timer forward by dt seconds.
func (t *Thruster) Advance(dt float64) {
	t.Timer += dt
}

// TryEmit reports whether an exhaust puff is due and consumes one interval.
func (t *Thruster) TryEmit() bool {
	if t.Timer <= t.Interval {
		return false
	}
	t.Timer -= t.Interval
	return true
}

// Ship represents a player's spaceship
type Ship struct {
	BaseEntity
	Player   uint8
	Shield   Shield
	Gun      Gun
	Thruster Thruster
	Radius   float64
}

// NewShip creates a ship for player with full shield and a ready gun.
func NewShip(player uint8, radius, energy, reload, exhaustInterval float64) *Ship {
	return &Ship{
		BaseEntity: NewBaseEntity(KindShip),
		Player:     player,
		Shield:     Shield{Energy: energy},
		Gun:        Gun{Reload: reload},
		Thruster:   Thruster{Interval: exhaustInterval},
		Radius:     radius,
	}
}

// GetShield returns the ship's own shield.
func (s *Ship) GetShield() *Shield {
	return &s.Shield
}

// Attach links a child entity (such as a shield indicator) to the ship.
func (s *Ship) Attach(child Entity) {
	s.AppendChild(child.GetBasicEntity())
}

// ChildIDs returns the ids of all attached children.
func (s *Ship) ChildIDs() []ID {
	children := s.Children()
	ids := make([]ID, 0, len(children))
	for _, c := range children {
		ids = append(ids, ID(c.ID()))
	}
	return ids
}

// pkg/entity/asteroid.go
package entity

// Asteroid is a destructible body whose collider radius grows with Scale.
type Asteroid struct {
	BaseEntity
	Scale  float64
	Shield Shield
}

// NewAsteroid creates an asteroid of the given scale and starting energy.
func NewAsteroid(scale, energy float64) *Asteroid {
	return &Asteroid{
		BaseEntity: NewBaseEntity(KindAsteroid),
		Scale:      scale,
		Shield:     Shield{Energy: energy},
	}
}

// GetShield returns the asteroid's shield.
func (a *Asteroid) GetShield() *Shield {
	return &a.Shield
}

// Radius returns the collider radius for a base radius at scale 1.
func (a *Asteroid) Radius(base float64) float64 {
	return base * a.Scale
}

// CanSplit reports whether destroying the asteroid spawns fragments.
func (a *Asteroid) CanSplit(minScale float64) bool {
	return a.Scale > minScale
}

// pkg/entity/transient.go
package entity

// Transient is a projectile or debris puff. It carries no shield and is
// removed once simulation time reaches Expiry.
type Transient struct {
	BaseEntity
	Expiry float64
	Radius float64
	// Owner is the ship that fired a projectile; zero for debris.
	Owner ID
}

// NewProjectile creates a projectile fired by owner that expires at expiry.
func NewProjectile(owner ID, radius, expiry float64) *Transient {
	return &Transient{
		BaseEntity: NewBaseEntity(KindProjectile),
		Expiry:     expiry,
		Radius:     radius,
		Owner:      owner,
	}
}

// NewDebris creates a collider-less debris puff that expires at expiry.
func NewDebris(expiry float64) *Transient {
	return &Transient{
		BaseEntity: NewBaseEntity(KindDebris),
		Expiry:     expiry,
	}
}

// Expired reports whether the entity is due for removal at time now.
func (t *Transient) Expired(now float64) bool {
	return now >= t.Expiry
}

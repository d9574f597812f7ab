// pkg/entity/display.go
package entity

import (
	"fmt"

	"github.com/opd-ai/go-spacewar/pkg/physics"
)

// ShieldIndicator is a ship's child that mirrors the ship's shield for
// presentation. It never changes the ship's energy.
type ShieldIndicator struct {
	BaseEntity
	Owner  ID
	Energy float64
	Alpha  float64
}

// NewShieldIndicator creates an indicator mirroring owner's shield.
func NewShieldIndicator(owner *Ship) *ShieldIndicator {
	ind := &ShieldIndicator{
		BaseEntity: NewBaseEntity(KindShieldIndicator),
		Owner:      owner.GetID(),
	}
	ind.Mirror(owner.Shield)
	return ind
}

// Mirror copies the owner's energy and derives the alpha from it.
func (s *ShieldIndicator) Mirror(owner Shield) {
	s.Energy = owner.Energy
	s.Alpha = Alpha(owner.Energy)
}

// EnergyDisplay is a label that trails a ship and shows its shield as a
// percentage.
type EnergyDisplay struct {
	BaseEntity
	Ship     ID
	Offset   physics.Vector2D
	Position physics.Vector2D
	Text     string
}

// NewEnergyDisplay creates a display for ship drawn at offset from it.
func NewEnergyDisplay(ship ID, offset physics.Vector2D) *EnergyDisplay {
	return &EnergyDisplay{
		BaseEntity: NewBaseEntity(KindEnergyDisplay),
		Ship:       ship,
		Offset:     offset,
	}
}

// Track moves the label next to the ship and refreshes its text.
func (d *EnergyDisplay) Track(shipPos physics.Vector2D, shield Shield) {
	d.Follow(shipPos)
	d.Text = fmt.Sprintf("%d %%", shield.Percent())
}

// Follow moves the label next to the ship without touching its text.
func (d *EnergyDisplay) Follow(shipPos physics.Vector2D) {
	d.Position = shipPos.Add(d.Offset)
}

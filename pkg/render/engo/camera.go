// pkg/render/engo/camera.go
package engo

import (
	"math"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spacewar/pkg/physics"
)

// Viewport maps the square toroidal arena onto the window. The arena is
// centred and scaled to fit the smaller window dimension.
type Viewport struct {
	HalfExtent float64
	Width      float32
	Height     float32
}

// NewViewport creates a viewport for an arena of the given half extent
// drawn in a width x height window.
func NewViewport(halfExtent float64, width, height float32) Viewport {
	return Viewport{HalfExtent: halfExtent, Width: width, Height: height}
}

// Scale returns pixels per world unit.
func (v Viewport) Scale() float32 {
	if v.HalfExtent <= 0 {
		return 1
	}
	return float32(math.Min(float64(v.Width), float64(v.Height)) / (2 * v.HalfExtent))
}

// ToScreen converts world coordinates (y up, origin centred) to screen
// coordinates (y down, origin at the top left).
func (v Viewport) ToScreen(p physics.Vector2D) engo.Point {
	s := v.Scale()
	return engo.Point{
		X: v.Width/2 + float32(p.X)*s,
		Y: v.Height/2 - float32(p.Y)*s,
	}
}

// Length converts a world distance to pixels.
func (v Viewport) Length(d float64) float32 {
	return float32(d) * v.Scale()
}

// Rotation converts a world heading (radians, counter-clockwise) to the
// clockwise degrees engo uses.
func (v Viewport) Rotation(radians float64) float32 {
	deg := math.Mod(-radians*180/math.Pi, 360)
	if deg < 0 {
		deg += 360
	}
	return float32(deg)
}

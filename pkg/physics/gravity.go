package physics

import "math"

// coincidentDistanceSq is the squared distance below which two bodies are
// treated as occupying the same point; such pairs exert no force.
const coincidentDistanceSq = 1e-12

// GravityBody is the input of one body to the gravity pass.
type GravityBody struct {
	ID       uint64
	Position Vector2D
	Mass     float64
}

// GravitySolver computes all-pairs inverse-square attraction.
type GravitySolver struct {
	// Constant scales every pairwise force.
	Constant float64
	// MinDistance floors the distance used in the denominator so close
	// passes stay bounded.
	MinDistance float64

	forces []Vector2D
}

// NewGravitySolver creates a solver with the given constant and distance floor.
func NewGravitySolver(constant, minDistance float64) *GravitySolver {
	return &GravitySolver{Constant: constant, MinDistance: minDistance}
}

// Solve returns the net gravitational force on every body, index-aligned with
// bodies. Bodies with zero, negative or NaN mass contribute no force. The
// returned slice is owned by the solver and reused by the next call.
func (gs *GravitySolver) Solve(bodies []GravityBody) []Vector2D {
	if cap(gs.forces) < len(bodies) {
		gs.forces = make([]Vector2D, len(bodies))
	}
	gs.forces = gs.forces[:len(bodies)]
	clear(gs.forces)

	minSq := gs.MinDistance * gs.MinDistance
	for i := 0; i < len(bodies); i++ {
		mi := bodies[i].Mass
		if !(mi > 0) || math.IsInf(mi, 0) {
			continue
		}
		for j := i + 1; j < len(bodies); j++ {
			mj := bodies[j].Mass
			if !(mj > 0) || math.IsInf(mj, 0) {
				continue
			}
			d := bodies[j].Position.Sub(bodies[i].Position)
			distSq := d.LengthSquared()
			if !(distSq > coincidentDistanceSq) || math.IsInf(distSq, 0) {
				continue
			}
			denom := distSq
			if denom < minSq {
				denom = minSq
			}
			magnitude := gs.Constant * mi * mj / denom
			f := d.Scale(magnitude / math.Sqrt(distSq))
			gs.forces[i] = gs.forces[i].Add(f)
			gs.forces[j] = gs.forces[j].Sub(f)
		}
	}
	return gs.forces
}

package physics

import (
	"math"
	"slices"
)

// SpaceConfig configures the reference engine.
type SpaceConfig struct {
	// Bounds of the broad-phase index. Bodies outside it are still simulated
	// and collided, just without the quadtree speed-up.
	Bounds      Rect
	Density     float64
	Restitution float64
}

type body struct {
	state       BodyState
	invMass     float64
	restitution float64
	force       Vector2D
	impulse     Vector2D
}

// Space is a small 2-D rigid-body engine: semi-implicit Euler integration,
// circle colliders, quadtree broad-phase and restitution response. It is the
// Engine used by the game binaries and the tests.
type Space struct {
	cfg    SpaceConfig
	bodies map[uint64]*body
	order  []uint64 // ascending ids, keeps stepping deterministic

	index      *QuadTree
	outliers   []uint64
	candidates []uint64
	contacts   []Contact
	maxRadius  float64
}

// NewSpace creates an empty Space.
func NewSpace(cfg SpaceConfig) *Space {
	if cfg.Density <= 0 {
		cfg.Density = 1
	}
	return &Space{
		cfg:    cfg,
		bodies: make(map[uint64]*body),
		index:  NewQuadTree(cfg.Bounds, 8),
	}
}

// Insert adds a body. Inserting an existing id replaces it.
func (s *Space) Insert(id uint64, spec BodySpec) {
	mass := spec.Mass
	if mass <= 0 && spec.Radius > 0 {
		mass = s.cfg.Density * math.Pi * spec.Radius * spec.Radius
	}
	invMass := 0.0
	if mass > 0 {
		invMass = 1 / mass
	}
	restitution := spec.Restitution
	if restitution <= 0 {
		restitution = s.cfg.Restitution
	}

	if _, exists := s.bodies[id]; !exists {
		i, _ := slices.BinarySearch(s.order, id)
		s.order = slices.Insert(s.order, i, id)
	}
	s.bodies[id] = &body{
		state: BodyState{
			Position:        spec.Position,
			Rotation:        spec.Rotation,
			Velocity:        spec.Velocity,
			AngularVelocity: spec.AngularVelocity,
			Mass:            mass,
			Radius:          spec.Radius,
		},
		invMass:     invMass,
		restitution: restitution,
	}
	if spec.Radius > s.maxRadius {
		s.maxRadius = spec.Radius
	}
}

// Remove deletes a body; unknown ids are ignored.
func (s *Space) Remove(id uint64) {
	if _, ok := s.bodies[id]; !ok {
		return
	}
	delete(s.bodies, id)
	if i, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// Len returns the number of bodies.
func (s *Space) Len() int {
	return len(s.bodies)
}

// State returns the current state of a body.
func (s *Space) State(id uint64) (BodyState, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return BodyState{}, false
	}
	return b.state, true
}

// SetForce implements Engine.
func (s *Space) SetForce(id uint64, force Vector2D) {
	if b, ok := s.bodies[id]; ok {
		b.force = force
	}
}

// ApplyImpulse implements Engine.
func (s *Space) ApplyImpulse(id uint64, impulse Vector2D) {
	if b, ok := s.bodies[id]; ok {
		b.impulse = b.impulse.Add(impulse)
	}
}

// SetAngularVelocity implements Engine.
func (s *Space) SetAngularVelocity(id uint64, w float64) {
	if b, ok := s.bodies[id]; ok {
		b.state.AngularVelocity = w
	}
}

// SetPosition implements Engine.
func (s *Space) SetPosition(id uint64, p Vector2D) {
	if b, ok := s.bodies[id]; ok {
		b.state.Position = p
	}
}

// Step implements Engine. The returned slice is reused by the next call.
func (s *Space) Step(dt float64) []Contact {
	s.integrate(dt)
	s.buildIndex()
	return s.collide(dt)
}

func (s *Space) integrate(dt float64) {
	for _, id := range s.order {
		b := s.bodies[id]
		if b.invMass > 0 {
			dv := b.impulse.Add(b.force.Scale(dt)).Scale(b.invMass)
			b.state.Velocity = b.state.Velocity.Add(dv)
		}
		b.impulse = Vector2D{}
		b.state.Position = b.state.Position.Add(b.state.Velocity.Scale(dt))
		b.state.Rotation += b.state.AngularVelocity * dt
	}
}

func (s *Space) buildIndex() {
	s.index.Clear()
	s.outliers = s.outliers[:0]
	for _, id := range s.order {
		b := s.bodies[id]
		if b.state.Radius <= 0 {
			continue
		}
		if !s.index.Insert(b.state.Position, id) {
			s.outliers = append(s.outliers, id)
		}
	}
}

func (s *Space) collide(dt float64) []Contact {
	s.contacts = s.contacts[:0]
	for _, aID := range s.order {
		a := s.bodies[aID]
		if a.state.Radius <= 0 {
			continue
		}
		reach := 2 * (a.state.Radius + s.maxRadius)
		s.candidates = s.index.Query(Rect{Center: a.state.Position, Width: reach, Height: reach}, s.candidates[:0])
		s.candidates = append(s.candidates, s.outliers...)

		for _, bID := range s.candidates {
			if bID <= aID {
				continue
			}
			b := s.bodies[bID]
			hit := CheckCollision(
				Circle{Center: a.state.Position, Radius: a.state.Radius},
				Circle{Center: b.state.Position, Radius: b.state.Radius},
			)
			if !hit.Collided {
				continue
			}
			j := resolve(a, b, hit)
			force := 0.0
			if dt > 0 {
				force = j / dt
			}
			s.contacts = append(s.contacts, Contact{A: aID, B: bID, Force: force})
		}
	}
	return s.contacts
}

// resolve applies the restitution impulse and positional correction for one
// overlapping pair and returns the impulse magnitude.
func resolve(a, b *body, hit CollisionResult) float64 {
	invSum := a.invMass + b.invMass
	if invSum == 0 {
		return 0
	}

	n := hit.Normal
	correction := n.Scale(hit.Penetration / invSum)
	a.state.Position = a.state.Position.Sub(correction.Scale(a.invMass))
	b.state.Position = b.state.Position.Add(correction.Scale(b.invMass))

	approach := b.state.Velocity.Sub(a.state.Velocity).Dot(n)
	if approach >= 0 {
		return 0
	}
	e := math.Min(a.restitution, b.restitution)
	j := -(1 + e) * approach / invSum
	a.state.Velocity = a.state.Velocity.Sub(n.Scale(j * a.invMass))
	b.state.Velocity = b.state.Velocity.Add(n.Scale(j * b.invMass))
	return j
}

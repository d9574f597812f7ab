package physics

// BodySpec describes a rigid body when it is inserted into an Engine.
type BodySpec struct {
	Position        Vector2D
	Rotation        float64
	Velocity        Vector2D
	AngularVelocity float64
	// Radius of the circular collider. Zero means the body never collides.
	Radius float64
	// Mass overrides the density-derived mass when positive.
	Mass        float64
	Restitution float64
}

// BodyState is the read view of a body that the simulation core consumes.
type BodyState struct {
	Position        Vector2D
	Rotation        float64
	Velocity        Vector2D
	AngularVelocity float64
	Mass            float64
	Radius          float64
}

// Contact reports that two bodies touched during the last step.
type Contact struct {
	A     uint64
	B     uint64
	Force float64
}

// Engine is the boundary to the rigid-body physics engine. The engine owns
// integration, collision detection and restitution; the simulation core only
// reads body state and writes forces, impulses, angular velocity and (for
// world wrap) position.
//
// Every method that names a body id is a no-op (or reports !ok) when the id is
// unknown.
type Engine interface {
	Insert(id uint64, spec BodySpec)
	Remove(id uint64)
	State(id uint64) (BodyState, bool)
	// SetForce replaces the external force applied during the next Step.
	SetForce(id uint64, force Vector2D)
	// ApplyImpulse accumulates a one-shot impulse consumed by the next Step.
	ApplyImpulse(id uint64, impulse Vector2D)
	SetAngularVelocity(id uint64, w float64)
	SetPosition(id uint64, p Vector2D)
	// Step integrates dt seconds and returns one contact per colliding pair.
	Step(dt float64) []Contact
}

// pkg/engine/systems.go
package engine

import (
	"github.com/EngoEngine/ecs"

	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/event"
	"github.com/opd-ai/go-spacewar/pkg/input"
	"github.com/opd-ai/go-spacewar/pkg/physics"
)

// Tick order. Higher runs first.
const (
	PriorityAction    = 100
	PriorityGravity   = 90
	PriorityPhysics   = 80
	PriorityDamage    = 70
	PriorityLifecycle = 60
	PriorityShield    = 50
	PriorityTopology  = 40
	PriorityExpiry    = 30
	PriorityCommit    = 10
)

// The systems below read the float64 step from Game rather than the float32
// dt ecs passes in, and keep no per-entity state of their own, so Remove is
// a no-op for all of them.

// ActionSystem turns held buttons into thrust, turning and gun fire for every
// ship whose player is in the binding table.
type ActionSystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*ActionSystem) Priority() int { return PriorityAction }

// Remove satisfies the ecs.System interface
func (*ActionSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *ActionSystem) Update(float32) {
	g := s.game
	cfg := g.Config
	dt := g.dt

	for _, id := range g.order {
		ship, ok := g.entities[id].(*entity.Ship)
		if !ok || !g.bindings.Bound(ship.Player) {
			continue
		}
		body, ok := g.physics.State(uint64(id))
		if !ok {
			continue
		}
		held := g.input.Held(ship.Player)

		heading := physics.FromAngle(body.Rotation, 1)

		ship.Gun.Advance(dt)
		if held.Has(input.Fire) && ship.Gun.TryFire() {
			dir := heading.Rotate(g.jitter(cfg.Weapons.Spread))
			nose := physics.Vector2D{X: cfg.Weapons.MuzzleOffset}.Rotate(body.Rotation)
			p := g.spawnProjectile(ship,
				body.Position.Add(nose),
				body.Velocity.Add(dir.Scale(cfg.Weapons.MuzzleSpeed)),
				dir.Angle(),
			)
			g.EventBus.Publish(event.NewFireEvent(g, uint64(id), ship.Player, uint64(p.GetID())))
			g.logger.Debug(g.ctx, "projectile fired", "ship", uint64(id), "player", ship.Player, "tick", g.CurrentTick)
		}

		if held.Has(input.Thrust) {
			dir := heading.Rotate(g.jitter(cfg.Thrusters.Spread))
			g.physics.ApplyImpulse(uint64(id), dir.Scale(cfg.Thrusters.Impulse*dt))

			ship.Thruster.Advance(dt)
			if ship.Thruster.TryEmit() {
				g.spawnDebris(body.Position,
					body.Velocity.Sub(dir.Scale(cfg.Thrusters.ExhaustSpeed)),
					cfg.Thrusters.ExhaustLifetime)
			}
		}

		switch {
		case held.Has(input.TurnLeft):
			g.physics.SetAngularVelocity(uint64(id), cfg.Thrusters.TurnRate)
		case held.Has(input.TurnRight):
			g.physics.SetAngularVelocity(uint64(id), -cfg.Thrusters.TurnRate)
		default:
			g.physics.SetAngularVelocity(uint64(id), 0)
		}
	}

	if !g.quit && g.input.QuitRequested() {
		g.quit = true
		g.EventBus.Publish(event.NewMatchEvent(event.QuitRequested, g, g.MatchID, g.CurrentTick))
		g.logger.Info(g.ctx, "quit requested", "tick", g.CurrentTick)
	}
}

// GravitySystem sets the external force on every ship and asteroid to the
// net attraction of all the others.
type GravitySystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*GravitySystem) Priority() int { return PriorityGravity }

// Remove satisfies the ecs.System interface
func (*GravitySystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *GravitySystem) Update(float32) {
	g := s.game
	bodies := g.gravityBodies[:0]
	for _, id := range g.order {
		switch g.entities[id].GetKind() {
		case entity.KindShip, entity.KindAsteroid:
		default:
			continue
		}
		state, ok := g.physics.State(uint64(id))
		if !ok {
			continue
		}
		bodies = append(bodies, physics.GravityBody{ID: uint64(id), Position: state.Position, Mass: state.Mass})
	}
	g.gravityBodies = bodies

	forces := g.gravity.Solve(bodies)
	for i, b := range bodies {
		g.physics.SetForce(b.ID, forces[i])
	}
}

// PhysicsSystem steps the rigid-body engine and keeps the tick's contacts.
type PhysicsSystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*PhysicsSystem) Priority() int { return PriorityPhysics }

// Remove satisfies the ecs.System interface
func (*PhysicsSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *PhysicsSystem) Update(float32) {
	g := s.game
	g.contacts = g.physics.Step(g.dt)
}

// DamageSystem debits a flat amount from every shield involved in a contact
// and raises one destruction request per shield it exhausts. Contacts
// between two asteroids do no damage.
type DamageSystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*DamageSystem) Priority() int { return PriorityDamage }

// Remove satisfies the ecs.System interface
func (*DamageSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *DamageSystem) Update(float32) {
	g := s.game
	damage := g.Config.Shields.ContactDamage

	for _, c := range g.contacts {
		a, okA := g.entities[entity.ID(c.A)]
		b, okB := g.entities[entity.ID(c.B)]
		if okA && okB {
			g.EventBus.Publish(event.NewCollisionEvent(g, c.A, c.B, c.Force))
			if a.GetKind() == entity.KindAsteroid && b.GetKind() == entity.KindAsteroid {
				continue
			}
		}
		for _, e := range [2]entity.Entity{a, b} {
			shielded, ok := e.(entity.Shielded)
			if !ok {
				continue
			}
			if shielded.GetShield().Damage(damage) {
				id := shielded.GetID()
				g.doomed = append(g.doomed, id)
				g.EventBus.Publish(event.NewEntityEvent(event.ShieldExhausted, g, uint64(id), shielded.GetKind().String()))
			}
		}
	}
	g.contacts = nil
}

// LifecycleSystem removes destroyed entities. Asteroids above the minimum
// scale break into fragments, and every destroyed entity throws off debris.
// Fragments and debris are queued and appear from the next tick.
type LifecycleSystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*LifecycleSystem) Priority() int { return PriorityLifecycle }

// Remove satisfies the ecs.System interface
func (*LifecycleSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *LifecycleSystem) Update(float32) {
	g := s.game
	for _, id := range g.doomed {
		s.destroy(id)
	}
	clear(g.doomed)
	g.doomed = g.doomed[:0]
}

func (s *LifecycleSystem) destroy(id entity.ID) {
	g := s.game
	cfg := g.Config

	e, ok := g.entities[id]
	if !ok {
		return
	}
	body, _ := g.physics.State(uint64(id))

	if a, isAsteroid := e.(*entity.Asteroid); isAsteroid && a.CanSplit(cfg.Asteroids.MinScale) {
		for i := 0; i < cfg.Asteroids.SplitCount; i++ {
			offset := physics.Vector2D{
				X: g.symmetric(cfg.Asteroids.SplitJitter),
				Y: g.symmetric(cfg.Asteroids.SplitJitter),
			}
			g.spawnAsteroid(a.Scale/2, body.Position.Add(offset), body.Velocity)
		}
		g.EventBus.Publish(event.NewSplitEvent(g, uint64(id), a.Scale, cfg.Asteroids.SplitCount))
		g.logger.Debug(g.ctx, "asteroid split", "asteroid", uint64(id), "scale", a.Scale)
	}

	for i := 0; i < cfg.Debris.Count; i++ {
		g.spawnDebris(body.Position, body.Velocity.Add(g.randomDirection().Scale(cfg.Debris.Speed)), cfg.Debris.Lifetime)
	}

	g.remove(id)
	g.EventBus.Publish(event.NewEntityEvent(event.EntityDestroyed, g, uint64(id), e.GetKind().String()))
	g.logger.Debug(g.ctx, "entity destroyed", "entity", uint64(id), "kind", e.GetKind().String(), "tick", g.CurrentTick)
}

// ShieldSystem refreshes the presentation mirrors of ship shields, then
// regenerates every shield that is not exhausted.
type ShieldSystem struct {
	game    *Game
	retired []entity.ID
}

// Priority implements ecs.Prioritizer.
func (*ShieldSystem) Priority() int { return PriorityShield }

// Remove satisfies the ecs.System interface
func (*ShieldSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *ShieldSystem) Update(float32) {
	g := s.game
	rate := g.Config.Shields.RegenRate

	for _, id := range g.order {
		switch e := g.entities[id].(type) {
		case *entity.ShieldIndicator:
			if owner, ok := g.entities[e.Owner].(*entity.Ship); ok {
				e.Mirror(owner.Shield)
			}
		case *entity.EnergyDisplay:
			owner, ok := g.entities[e.Ship].(*entity.Ship)
			if !ok || owner.Shield.Exhausted() {
				s.retired = append(s.retired, id)
				continue
			}
			if body, ok := g.physics.State(uint64(e.Ship)); ok {
				e.Track(body.Position, owner.Shield)
			}
		}
	}
	for _, id := range s.retired {
		g.remove(id)
	}
	clear(s.retired)
	s.retired = s.retired[:0]

	for _, id := range g.order {
		if shielded, ok := g.entities[id].(entity.Shielded); ok {
			shielded.GetShield().Regenerate(rate, g.dt)
		}
	}
}

// TopologySystem wraps every body back into the toroidal arena and moves
// energy displays after their ships.
type TopologySystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*TopologySystem) Priority() int { return PriorityTopology }

// Remove satisfies the ecs.System interface
func (*TopologySystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *TopologySystem) Update(float32) {
	g := s.game
	for _, id := range g.order {
		if !g.entities[id].GetKind().Physical() {
			continue
		}
		state, ok := g.physics.State(uint64(id))
		if !ok {
			continue
		}
		if wrapped, moved := g.torus.Wrap(state.Position); moved {
			g.physics.SetPosition(uint64(id), wrapped)
		}
	}

	// Labels follow their ship to its wrapped position.
	for _, id := range g.order {
		if d, ok := g.entities[id].(*entity.EnergyDisplay); ok {
			if body, ok := g.physics.State(uint64(d.Ship)); ok {
				d.Follow(body.Position)
			}
		}
	}
}

// ExpirySystem removes projectiles and debris whose lifetime has elapsed.
type ExpirySystem struct {
	game    *Game
	expired []entity.ID
}

// Priority implements ecs.Prioritizer.
func (*ExpirySystem) Priority() int { return PriorityExpiry }

// Remove satisfies the ecs.System interface
func (*ExpirySystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *ExpirySystem) Update(float32) {
	g := s.game
	for _, id := range g.order {
		if t, ok := g.entities[id].(*entity.Transient); ok && t.Expired(g.Now) {
			s.expired = append(s.expired, id)
		}
	}
	for _, id := range s.expired {
		kind := g.entities[id].GetKind()
		g.remove(id)
		g.EventBus.Publish(event.NewEntityEvent(event.EntityExpired, g, uint64(id), kind.String()))
	}
	clear(s.expired)
	s.expired = s.expired[:0]
}

// CommitSystem applies the spawns queued during the tick.
type CommitSystem struct {
	game *Game
}

// Priority implements ecs.Prioritizer.
func (*CommitSystem) Priority() int { return PriorityCommit }

// Remove satisfies the ecs.System interface
func (*CommitSystem) Remove(ecs.BasicEntity) {}

// Update satisfies the ecs.System interface
func (s *CommitSystem) Update(float32) {
	s.game.commit()
}

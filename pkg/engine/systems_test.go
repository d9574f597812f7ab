package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-spacewar/pkg/config"
	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/event"
	"github.com/opd-ai/go-spacewar/pkg/input"
	"github.com/opd-ai/go-spacewar/pkg/physics"
)

func bodyOf(t *testing.T, game *Game, id entity.ID) physics.BodyState {
	t.Helper()
	state, ok := game.Physics().State(uint64(id))
	require.True(t, ok, "body %d missing", id)
	return state
}

func TestShieldSystem_Regenerates(t *testing.T) {
	game, _ := newTestGame(t, quietConfig(), nil)
	ship := mustShip(t, game, 0)
	ship.Shield.Energy = 0.5

	for n := 1; n <= 10; n++ {
		game.Step(dt)
		assert.InDelta(t, math.Min(1, 0.5+0.2*float64(n)/64), ship.Shield.Energy, 1e-12)
	}

	for i := 0; i < 400; i++ {
		game.Step(dt)
		require.LessOrEqual(t, ship.Shield.Energy, 1.0)
	}
	assert.Equal(t, 1.0, ship.Shield.Energy)
}

func TestShieldSystem_RegeneratesAsteroids(t *testing.T) {
	cfg := quietConfig()
	cfg.Asteroids.Count = 1
	cfg.Asteroids.SpawnRadius = 0
	game, _ := newTestGame(t, cfg, nil)

	rocks := asteroids(game)
	require.Len(t, rocks, 1)
	e, ok := game.Entity(rocks[0].ID)
	require.True(t, ok)
	rock := e.(*entity.Asteroid)

	for i := 0; i < 32; i++ {
		game.Step(dt)
	}
	assert.InDelta(t, 0.1+0.2*0.5, rock.Shield.Energy, 1e-12)
}

func TestShieldSystem_MirrorsShipEnergy(t *testing.T) {
	game, _ := newTestGame(t, quietConfig(), nil)
	ship := mustShip(t, game, 0)
	ship.Shield.Energy = 0.55

	game.Step(dt)

	state := game.GetGameState()
	indicator, ok := state.Find(ship.ChildIDs()[0])
	require.True(t, ok)
	assert.Equal(t, 0.55, indicator.Energy)
	assert.Equal(t, 0.55, indicator.Alpha)
	assert.InDelta(t, 0.55+0.2/64, ship.Shield.Energy, 1e-12)

	for _, e := range state.Entities {
		if e.Kind == entity.KindEnergyDisplay && e.Owner == ship.GetID() {
			assert.Equal(t, "55 %", e.Text)
			body := bodyOf(t, game, ship.GetID())
			assert.Equal(t, body.Position.Add(physics.Vector2D{X: -20, Y: 30}), e.Position)
		}
	}
}

func TestDamageSystem_DoubleHitDestroysOnce(t *testing.T) {
	cfg := quietConfig()
	cfg.Asteroids.Count = 2
	cfg.Asteroids.SpawnRadius = 10
	cfg.Shields.AsteroidEnergy = 1
	game, engine := newTestGame(t, cfg, nil)

	ship := mustShip(t, game, 0)
	ship.Shield.Energy = 0.3
	shipID := ship.GetID()
	indicatorID := ship.ChildIDs()[0]

	rocks := asteroids(game)
	require.Len(t, rocks, 2)

	exhausted := 0
	game.EventBus.Subscribe(event.ShieldExhausted, func(e event.Event) {
		if e.(*event.EntityEvent).EntityID == uint64(shipID) {
			exhausted++
		}
	})
	destroyed := countEvents(game.EventBus, event.EntityDestroyed)

	engine.contact(shipID, rocks[0].ID)
	engine.contact(rocks[1].ID, shipID)
	game.Step(dt)

	assert.Equal(t, 1, exhausted)
	assert.Equal(t, 1, *destroyed)

	state := game.GetGameState()
	_, ok := state.Find(shipID)
	assert.False(t, ok, "ship should be gone")
	_, ok = state.Find(indicatorID)
	assert.False(t, ok, "indicator should be removed with its ship")
	for _, e := range state.Entities {
		if e.Kind == entity.KindEnergyDisplay {
			assert.NotEqual(t, shipID, e.Owner, "display should follow its ship")
		}
	}
	assert.Equal(t, 1, state.Count(entity.KindEnergyDisplay))
	assert.Equal(t, 1, state.Count(entity.KindShip))
	assert.Equal(t, 4, state.Count(entity.KindDebris))

	for _, r := range asteroids(game) {
		assert.InDelta(t, 0.8+0.2/64, r.Energy, 1e-12)
	}
}

func TestDamageSystem_AsteroidsDoNotHurtEachOther(t *testing.T) {
	cfg := quietConfig()
	cfg.Asteroids.Count = 2
	cfg.Asteroids.SpawnRadius = 10
	game, _ := newTestGame(t, cfg, nil)
	collisions := countEvents(game.EventBus, event.EntityCollision)

	game.Step(dt)

	assert.Equal(t, 1, *collisions)
	for _, r := range asteroids(game) {
		assert.InDelta(t, 0.1+0.2/64, r.Energy, 1e-12)
	}
}

func TestLifecycleSystem_SplitsAsteroids(t *testing.T) {
	cfg := quietConfig()
	cfg.Asteroids.Count = 1
	cfg.Asteroids.SpawnRadius = 0
	game, engine := newTestGame(t, cfg, nil)
	ship := mustShip(t, game, 0)
	splits := countEvents(game.EventBus, event.AsteroidSplit)

	smash := func(scale float64) {
		t.Helper()
		ship.Shield.Energy = 1
		for _, r := range asteroids(game) {
			if r.Scale == scale {
				engine.contact(ship.GetID(), r.ID)
				game.Step(dt)
				return
			}
		}
		t.Fatalf("no asteroid at scale %v", scale)
	}
	scales := func() map[float64]int {
		out := make(map[float64]int)
		for _, r := range asteroids(game) {
			out[r.Scale]++
		}
		return out
	}

	smash(4)
	assert.Equal(t, map[float64]int{2: 4}, scales())
	assert.Equal(t, 4, game.Count(entity.KindDebris))
	for _, r := range asteroids(game) {
		assert.Equal(t, 16.0, r.Radius)
		assert.LessOrEqual(t, math.Abs(r.Position.X), 20.0+1)
		assert.LessOrEqual(t, math.Abs(r.Position.Y), 20.0+1)
		assert.InDelta(t, 0.1, r.Energy, 1e-12)
	}

	smash(2)
	assert.Equal(t, map[float64]int{2: 3, 1: 4}, scales())

	smash(1)
	assert.Equal(t, map[float64]int{2: 3, 1: 3}, scales())
	assert.Equal(t, 2, *splits)
}

func TestLifecycleSystem_MissingEntityIsNoOp(t *testing.T) {
	game, _ := newTestGame(t, quietConfig(), nil)
	destroyed := countEvents(game.EventBus, event.EntityDestroyed)
	before := len(game.GetGameState().Entities)

	game.doomed = append(game.doomed, entity.ID(math.MaxUint32))
	assert.NotPanics(t, func() { game.Step(dt) })

	assert.Zero(t, *destroyed)
	assert.Len(t, game.GetGameState().Entities, before)
}

func TestExpirySystem_TransientLifetime(t *testing.T) {
	provider := input.NewStatic()
	game, _ := newTestGame(t, quietConfig(), provider)
	expired := countEvents(game.EventBus, event.EntityExpired)

	provider.Set(0, input.Buttons(input.Fire))
	game.Step(dt)
	provider.Set(0, 0)
	require.Equal(t, 1, game.Count(entity.KindProjectile))

	// Fired at t=1/64 with a one second lifetime.
	for tick := 2; tick <= 64; tick++ {
		game.Step(dt)
		require.Equal(t, 1, game.Count(entity.KindProjectile), "tick %d", tick)
	}
	game.Step(dt)
	assert.Zero(t, game.Count(entity.KindProjectile))
	assert.Equal(t, 1, *expired)
}

func TestActionSystem_FireRate(t *testing.T) {
	cfg := quietConfig()
	cfg.Weapons.Reload = 0.25
	provider := input.NewStatic()
	game, _ := newTestGame(t, cfg, provider)
	fired := countEvents(game.EventBus, event.ProjectileFired)

	provider.Set(0, input.Buttons(input.Fire))
	for i := 0; i < 32; i++ {
		game.Step(dt)
	}
	assert.Equal(t, 2, *fired)
	assert.Equal(t, 2, game.Count(entity.KindProjectile))
}

func TestActionSystem_ProjectileLaunch(t *testing.T) {
	cfg := quietConfig()
	cfg.Weapons.Spread = 0
	provider := input.NewStatic()
	game, _ := newTestGame(t, cfg, provider)
	ship := mustShip(t, game, 0)

	var projectile uint64
	game.EventBus.Subscribe(event.ProjectileFired, func(e event.Event) {
		fe := e.(*event.FireEvent)
		assert.Equal(t, uint64(ship.GetID()), fe.ShipID)
		assert.Equal(t, uint8(0), fe.Player)
		projectile = fe.ProjectileID
	})

	provider.Set(0, input.Buttons(input.Fire))
	game.Step(dt)

	state, ok := game.GetGameState().Find(entity.ID(projectile))
	require.True(t, ok)
	assert.Equal(t, ship.GetID(), state.Owner)
	assert.InDelta(t, -100, state.Position.X, 1e-9)
	assert.InDelta(t, 20, state.Position.Y, 1e-9)
	assert.InDelta(t, 0, state.Velocity.X, 1e-9)
	assert.InDelta(t, 400, state.Velocity.Y, 1e-9)
}

func TestActionSystem_UnboundPlayerIgnored(t *testing.T) {
	cfg := quietConfig()
	cfg.Ships = append(cfg.Ships, config.ShipConfig{Player: 2, X: 0, Y: 200, Rotation: math.Pi / 2})
	provider := input.NewStatic()
	game, _ := newTestGame(t, cfg, provider)
	ship := mustShip(t, game, 2)
	require.False(t, game.Bindings().Bound(2))

	provider.Set(2, input.Buttons(input.Thrust, input.Fire, input.TurnLeft))
	for i := 0; i < 10; i++ {
		game.Step(dt)
	}

	assert.Zero(t, game.Count(entity.KindProjectile))
	assert.Zero(t, game.Count(entity.KindDebris))
	body := bodyOf(t, game, ship.GetID())
	assert.Equal(t, physics.Vector2D{}, body.Velocity)
	assert.Zero(t, body.AngularVelocity)
	assert.Equal(t, math.Pi/2, body.Rotation)
}

func TestActionSystem_Turning(t *testing.T) {
	provider := input.NewStatic()
	game, _ := newTestGame(t, quietConfig(), provider)
	ship := mustShip(t, game, 0)

	provider.Set(0, input.Buttons(input.TurnLeft))
	game.Step(dt)
	body := bodyOf(t, game, ship.GetID())
	assert.Equal(t, 5.0, body.AngularVelocity)
	assert.InDelta(t, math.Pi/2+5*dt, body.Rotation, 1e-12)

	provider.Set(0, input.Buttons(input.TurnRight))
	game.Step(dt)
	assert.Equal(t, -5.0, bodyOf(t, game, ship.GetID()).AngularVelocity)

	provider.Set(0, 0)
	game.Step(dt)
	assert.Zero(t, bodyOf(t, game, ship.GetID()).AngularVelocity)
}

func TestActionSystem_ThrustEmitsExhaust(t *testing.T) {
	provider := input.NewStatic()
	game, _ := newTestGame(t, quietConfig(), provider)
	ship := mustShip(t, game, 0)

	provider.Set(0, input.Buttons(input.Thrust))
	for i := 0; i < 64; i++ {
		game.Step(dt)
	}

	body := bodyOf(t, game, ship.GetID())
	assert.Greater(t, body.Velocity.Y, 50.0)
	assert.Less(t, math.Abs(body.Velocity.X), body.Velocity.Y)

	// Puffs last 0.5s and leave every 0.05s of held thrust.
	debris := game.Count(entity.KindDebris)
	assert.GreaterOrEqual(t, debris, 8)
	assert.LessOrEqual(t, debris, 11)
}

// spawnedDebris returns the debris in state that is not in seen, and adds it.
func spawnedDebris(state *GameState, seen map[entity.ID]bool) []EntityState {
	var out []EntityState
	for _, e := range state.Entities {
		if e.Kind == entity.KindDebris && !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	return out
}

func TestActionSystem_ExhaustVelocity(t *testing.T) {
	cfg := quietConfig()
	cfg.Thrusters.Spread = 0
	provider := input.NewStatic()
	game, _ := newTestGame(t, cfg, provider)
	ship := mustShip(t, game, 0)

	provider.Set(0, input.Buttons(input.Thrust))
	seen := make(map[entity.ID]bool)
	puffs := 0
	for i := 0; i < 40; i++ {
		// The action pass reads the velocity the ship ended the last tick with.
		before := bodyOf(t, game, ship.GetID()).Velocity
		game.Step(dt)

		for _, d := range spawnedDebris(game.GetGameState(), seen) {
			puffs++
			assert.InDelta(t, before.X, d.Velocity.X, 1e-9, "tick %d", i)
			assert.InDelta(t, before.Y-cfg.Thrusters.ExhaustSpeed, d.Velocity.Y, 1e-9, "tick %d", i)
		}
	}
	assert.GreaterOrEqual(t, puffs, 8)
}

func TestLifecycleSystem_DestructionVelocities(t *testing.T) {
	cfg := quietConfig()
	cfg.Asteroids.Count = 1
	cfg.Asteroids.SpawnRadius = 0
	game, engine := newTestGame(t, cfg, nil)
	ship := mustShip(t, game, 0)
	rocks := asteroids(game)
	require.Len(t, rocks, 1)
	rock := rocks[0].ID

	engine.ApplyImpulse(uint64(rock), physics.Vector2D{X: 1e5, Y: -4e4})
	game.Step(dt)
	parent := bodyOf(t, game, rock).Velocity
	require.Greater(t, parent.X, 0.0)

	engine.contact(ship.GetID(), rock)
	game.Step(dt)

	fragments := asteroids(game)
	require.Len(t, fragments, cfg.Asteroids.SplitCount)
	for _, f := range fragments {
		assert.InDelta(t, parent.X, f.Velocity.X, 1e-9)
		assert.InDelta(t, parent.Y, f.Velocity.Y, 1e-9)
	}

	puffs := spawnedDebris(game.GetGameState(), map[entity.ID]bool{})
	require.Len(t, puffs, cfg.Debris.Count)
	for _, p := range puffs {
		assert.InDelta(t, cfg.Debris.Speed, p.Velocity.Sub(parent).Length(), 1e-9)
	}
}

func TestActionSystem_FireJitterStaysWithinSpread(t *testing.T) {
	cfg := quietConfig()
	cfg.Weapons.Spread = 0.3
	provider := input.NewStatic()
	game, _ := newTestGame(t, cfg, provider)

	var fired []uint64
	game.EventBus.Subscribe(event.ProjectileFired, func(e event.Event) {
		fired = append(fired, e.(*event.FireEvent).ProjectileID)
	})

	provider.Set(0, input.Buttons(input.Fire))
	offHeading := 0
	for i := 0; i < 64; i++ {
		n := len(fired)
		game.Step(dt)
		if len(fired) == n {
			continue
		}
		p, ok := game.GetGameState().Find(entity.ID(fired[n]))
		require.True(t, ok)

		// The muzzle is on the nose whatever the jitter.
		assert.InDelta(t, -100, p.Position.X, 1e-9)
		assert.InDelta(t, 20, p.Position.Y, 1e-9)

		assert.InDelta(t, cfg.Weapons.MuzzleSpeed, p.Velocity.Length(), 1e-9)
		off := p.Velocity.Angle() - math.Pi/2
		assert.LessOrEqual(t, math.Abs(off), cfg.Weapons.Spread/2+1e-12)
		if math.Abs(off) > 1e-9 {
			offHeading++
		}
	}
	assert.GreaterOrEqual(t, len(fired), 4)
	assert.Positive(t, offHeading)
}

func TestActionSystem_SpawnsWrapIntoArena(t *testing.T) {
	cfg := quietConfig()
	cfg.Weapons.Spread = 0
	provider := input.NewStatic()
	game, engine := newTestGame(t, cfg, provider)
	ship := mustShip(t, game, 0)

	engine.SetPosition(uint64(ship.GetID()), physics.Vector2D{X: -100, Y: 395})
	var projectile uint64
	game.EventBus.Subscribe(event.ProjectileFired, func(e event.Event) {
		projectile = e.(*event.FireEvent).ProjectileID
	})

	provider.Set(0, input.Buttons(input.Fire))
	game.Step(dt)

	p, ok := game.GetGameState().Find(entity.ID(projectile))
	require.True(t, ok)
	assert.InDelta(t, -100, p.Position.X, 1e-9)
	assert.InDelta(t, -385, p.Position.Y, 1e-9)
}

func TestGravitySystem_PullsShipsTogether(t *testing.T) {
	cfg := quietConfig()
	cfg.Physics.Gravity = 0.3
	game, _ := newTestGame(t, cfg, nil)

	for i := 0; i < 64; i++ {
		game.Step(dt)
	}

	left := bodyOf(t, game, mustShip(t, game, 0).GetID())
	right := bodyOf(t, game, mustShip(t, game, 1).GetID())
	assert.Greater(t, left.Velocity.X, 0.0)
	assert.Less(t, right.Velocity.X, 0.0)
	assert.InDelta(t, left.Velocity.X, -right.Velocity.X, 1e-9)
	assert.InDelta(t, 0, left.Velocity.Y, 1e-12)
}

func TestTopologySystem_WrapsLargeExcursions(t *testing.T) {
	game, engine := newTestGame(t, quietConfig(), nil)
	ship := mustShip(t, game, 0)

	engine.SetPosition(uint64(ship.GetID()), physics.Vector2D{X: 5000, Y: -3000})
	game.Step(dt)

	pos := bodyOf(t, game, ship.GetID()).Position
	assert.InDelta(t, 200, pos.X, 1e-9)
	assert.InDelta(t, 200, pos.Y, 1e-9)
}

func TestTopologySystem_DisplayFollowsWrappedShip(t *testing.T) {
	game, engine := newTestGame(t, quietConfig(), nil)
	ship := mustShip(t, game, 0)

	engine.SetPosition(uint64(ship.GetID()), physics.Vector2D{X: 5000, Y: 0})
	game.Step(dt)

	pos := bodyOf(t, game, ship.GetID()).Position
	require.InDelta(t, 200, pos.X, 1e-9)

	found := false
	for _, e := range game.GetGameState().Entities {
		if e.Kind == entity.KindEnergyDisplay && e.Owner == ship.GetID() {
			found = true
			assert.InDelta(t, 180, e.Position.X, 1e-9)
			assert.InDelta(t, 30, e.Position.Y, 1e-9)
		}
	}
	assert.True(t, found, "ship has no energy display")
}

func TestMatch_BoundedGrowth(t *testing.T) {
	if testing.Short() {
		t.Skip("long simulation")
	}
	cfg := config.DefaultConfig()
	cfg.Simulation.Seed = "growth"
	provider := input.NewStatic()
	provider.Set(0, input.Buttons(input.Fire, input.Thrust, input.TurnLeft))
	provider.Set(1, input.Buttons(input.Fire, input.Thrust, input.TurnRight))
	game, _ := newTestGame(t, cfg, provider)
	arena := physics.Torus{HalfExtent: cfg.Arena.HalfExtent}

	// Upper bound on simultaneous entities: ships with their indicators and
	// displays, live projectiles and exhaust, the smallest possible fragments
	// and four puffs for every entity that can ever be destroyed.
	const limit = 6 + 12 + 22 + 64 + 4*(84+2)

	for i := 0; i < 60*64; i++ {
		game.Step(dt)
		state := game.GetGameState()
		require.LessOrEqual(t, len(state.Entities), limit, "tick %d", state.Tick)

		for _, e := range state.Entities {
			switch e.Kind {
			case entity.KindAsteroid:
				require.Contains(t, []float64{4, 2, 1}, e.Scale)
			case entity.KindShip:
				require.LessOrEqual(t, e.Energy, 1.0)
			}
			if e.Kind.Physical() {
				require.True(t, arena.Contains(e.Position), "entity %d at %v", e.ID, e.Position)
			}
		}
	}
}

// pkg/engine/game.go
package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/google/uuid"

	"github.com/opd-ai/go-spacewar/pkg/config"
	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/event"
	"github.com/opd-ai/go-spacewar/pkg/input"
	"github.com/opd-ai/go-spacewar/pkg/logging"
	"github.com/opd-ai/go-spacewar/pkg/physics"
)

// Game owns every entity of a match and advances the simulation one fixed
// tick at a time. The physics engine integrates bodies and reports contacts;
// everything else happens in the ecs systems registered on the world, in
// priority order.
type Game struct {
	Config  *config.GameConfig
	MatchID string
	// EventBus handlers run inside Step with EntityLock held; they must not
	// call back into locking Game methods.
	EventBus    *event.Bus
	EntityLock  sync.RWMutex
	Running     bool
	TimeStep    float64
	CurrentTick uint64
	// Now is the simulation clock in seconds.
	Now float64

	physics  physics.Engine
	input    input.Provider
	bindings *input.BindingTable
	rng      *rand.Rand
	logger   *logging.Logger
	ctx      context.Context

	world    *ecs.World
	entities map[entity.ID]entity.Entity
	order    []entity.ID

	dt       float64
	contacts []physics.Contact
	doomed   []entity.ID
	pending  []spawn
	quit     bool

	gravity       *physics.GravitySolver
	gravityBodies []physics.GravityBody
	torus         physics.Torus
}

// spawn is an entity waiting for the commit pass. body is nil for entities
// without a rigid body.
type spawn struct {
	ent  entity.Entity
	body *physics.BodySpec
}

// Option configures a Game.
type Option func(*Game)

// WithRand injects the random source used for jitter and spawn offsets.
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// WithLogger sets the logger. Without it the game logs nothing.
func WithLogger(l *logging.Logger) Option {
	return func(g *Game) {
		g.logger = l
	}
}

// WithEventBus shares an existing bus with the game.
func WithEventBus(b *event.Bus) Option {
	return func(g *Game) {
		g.EventBus = b
	}
}

// WithMatchID overrides the generated match id.
func WithMatchID(id string) Option {
	return func(g *Game) {
		g.MatchID = id
	}
}

// NewGame creates a game for cfg. A nil engine selects the built-in
// physics.Space and a nil provider selects an idle input.Static.
func NewGame(cfg *config.GameConfig, engine physics.Engine, provider input.Provider, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}

	if engine == nil {
		engine = NewSpace(cfg)
	}
	if provider == nil {
		provider = input.NewStatic()
	}

	game := &Game{
		Config:   cfg,
		TimeStep: cfg.TimeStep(),
		physics:  engine,
		input:    provider,
		bindings: bindings,
		entities: make(map[entity.ID]entity.Entity),
		gravity:  physics.NewGravitySolver(cfg.Physics.Gravity, cfg.Physics.GravityMinDistance),
		torus:    physics.Torus{HalfExtent: cfg.Arena.HalfExtent},
	}
	for _, opt := range opts {
		opt(game)
	}

	if game.MatchID == "" {
		game.MatchID = uuid.NewString()
	}
	if game.EventBus == nil {
		game.EventBus = event.NewEventBus()
	}
	if game.logger == nil {
		game.logger = logging.NewLoggerWithWriter(io.Discard, slog.LevelError)
	}
	if game.rng == nil {
		game.rng = newRand(cfg)
	}
	game.ctx = logging.WithCorrelationID(context.Background(), game.MatchID)

	game.initSystems()
	return game, nil
}

// NewSpace builds the reference physics engine sized to the arena.
func NewSpace(cfg *config.GameConfig) *physics.Space {
	side := 2 * cfg.Arena.HalfExtent
	return physics.NewSpace(physics.SpaceConfig{
		// Bodies may sit just outside the arena until the wrap pass runs.
		Bounds:      physics.Rect{Width: side * 1.25, Height: side * 1.25},
		Density:     cfg.Physics.Density,
		Restitution: cfg.Physics.Restitution,
	})
}

func newRand(cfg *config.GameConfig) *rand.Rand {
	if a, b, ok := cfg.Seed(); ok {
		return rand.New(rand.NewPCG(a, b))
	}
	return rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
}

// initSystems registers the per-tick systems. ecs runs them from the highest
// priority down.
func (g *Game) initSystems() {
	g.world = &ecs.World{}
	g.world.AddSystem(&ActionSystem{game: g})
	g.world.AddSystem(&GravitySystem{game: g})
	g.world.AddSystem(&PhysicsSystem{game: g})
	g.world.AddSystem(&DamageSystem{game: g})
	g.world.AddSystem(&LifecycleSystem{game: g})
	g.world.AddSystem(&ShieldSystem{game: g})
	g.world.AddSystem(&TopologySystem{game: g})
	g.world.AddSystem(&ExpirySystem{game: g})
	g.world.AddSystem(&CommitSystem{game: g})
}

// Setup spawns the configured ships and asteroid field. The entities are
// committed immediately so they take part in the first tick.
func (g *Game) Setup() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	cfg := g.Config
	for _, sc := range cfg.Ships {
		g.spawnShip(sc)
	}
	for i := 0; i < cfg.Asteroids.Count; i++ {
		pos := physics.Vector2D{
			X: g.symmetric(cfg.Asteroids.SpawnRadius),
			Y: g.symmetric(cfg.Asteroids.SpawnRadius),
		}
		g.spawnAsteroid(cfg.Asteroids.InitialScale, pos, physics.Vector2D{})
	}
	g.commit()

	g.logger.Info(g.ctx, "match set up",
		"ships", len(cfg.Ships),
		"asteroids", cfg.Asteroids.Count,
		"half_extent", cfg.Arena.HalfExtent,
	)
}

// Start marks the game as running and announces the match.
func (g *Game) Start() {
	g.EntityLock.Lock()
	g.Running = true
	tick := g.CurrentTick
	g.EntityLock.Unlock()

	g.EventBus.Publish(event.NewMatchEvent(event.GameStarted, g, g.MatchID, tick))
}

// Stop marks the game as no longer running.
func (g *Game) Stop() {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()
	g.Running = false
}

// Step advances the simulation by dt seconds.
func (g *Game) Step(dt float64) {
	g.EntityLock.Lock()
	defer g.EntityLock.Unlock()

	g.dt = dt
	g.Now += dt
	g.world.Update(float32(dt))
	g.CurrentTick++
}

// Update advances the simulation by one fixed TimeStep.
func (g *Game) Update() {
	g.Step(g.TimeStep)
}

// Run steps the game at the configured tick rate until ctx is cancelled or
// quit is requested. onTick, if set, receives a snapshot after every tick.
func (g *Game) Run(ctx context.Context, onTick func(*GameState)) error {
	ticker := time.NewTicker(time.Duration(g.TimeStep * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			g.Update()
			if onTick != nil {
				onTick(g.GetGameState())
			}
			if g.QuitRequested() {
				return nil
			}
		}
	}
}

// QuitRequested reports whether a player has pressed the quit key.
func (g *Game) QuitRequested() bool {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	return g.quit
}

// Entity returns the entity with the given id.
func (g *Game) Entity(id entity.ID) (entity.Entity, bool) {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()
	e, ok := g.entities[id]
	return e, ok
}

// Count returns the number of live entities of kind.
func (g *Game) Count(kind entity.Kind) int {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	n := 0
	for _, e := range g.entities {
		if e.GetKind() == kind {
			n++
		}
	}
	return n
}

// Ship returns the ship flown by player.
func (g *Game) Ship(player uint8) (*entity.Ship, bool) {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	for _, id := range g.order {
		if ship, ok := g.entities[id].(*entity.Ship); ok && ship.Player == player {
			return ship, true
		}
	}
	return nil, false
}

// Physics returns the engine the game drives.
func (g *Game) Physics() physics.Engine {
	return g.physics
}

// Bindings returns the binding table the game was built with.
func (g *Game) Bindings() *input.BindingTable {
	return g.bindings
}

// spawnShip queues a ship together with its shield indicator and energy
// display.
func (g *Game) spawnShip(sc config.ShipConfig) *entity.Ship {
	cfg := g.Config
	ship := entity.NewShip(sc.Player, cfg.Physics.ShipRadius, cfg.Shields.ShipEnergy,
		cfg.Weapons.Reload, cfg.Thrusters.ExhaustInterval)
	g.queue(ship, &physics.BodySpec{
		Position:    physics.Vector2D{X: sc.X, Y: sc.Y},
		Rotation:    sc.Rotation,
		Radius:      ship.Radius,
		Restitution: cfg.Physics.Restitution,
	})

	indicator := entity.NewShieldIndicator(ship)
	ship.Attach(indicator)
	g.queue(indicator, nil)

	display := entity.NewEnergyDisplay(ship.GetID(), physics.Vector2D{
		X: cfg.Shields.DisplayOffsetX,
		Y: cfg.Shields.DisplayOffsetY,
	})
	display.Track(physics.Vector2D{X: sc.X, Y: sc.Y}, ship.Shield)
	g.queue(display, nil)
	return ship
}

func (g *Game) spawnAsteroid(scale float64, pos, vel physics.Vector2D) *entity.Asteroid {
	a := entity.NewAsteroid(scale, g.Config.Shields.AsteroidEnergy)
	g.queue(a, &physics.BodySpec{
		Position:    pos,
		Velocity:    vel,
		Radius:      a.Radius(g.Config.Physics.AsteroidRadius),
		Restitution: g.Config.Physics.Restitution,
	})
	return a
}

func (g *Game) spawnProjectile(owner *entity.Ship, pos, vel physics.Vector2D, rotation float64) *entity.Transient {
	p := entity.NewProjectile(owner.GetID(), g.Config.Physics.ProjectileRadius, g.Now+g.Config.Weapons.Lifetime)
	g.queue(p, &physics.BodySpec{
		Position:    pos,
		Rotation:    rotation,
		Velocity:    vel,
		Radius:      p.Radius,
		Restitution: g.Config.Physics.Restitution,
	})
	return p
}

func (g *Game) spawnDebris(pos, vel physics.Vector2D, lifetime float64) *entity.Transient {
	d := entity.NewDebris(g.Now + lifetime)
	g.queue(d, &physics.BodySpec{Position: pos, Velocity: vel})
	return d
}

// queue defers a spawn to the commit pass. Bodies are wrapped into the arena
// here since the topology pass has already run when they are committed.
func (g *Game) queue(e entity.Entity, body *physics.BodySpec) {
	if body != nil {
		body.Position, _ = g.torus.Wrap(body.Position)
	}
	g.pending = append(g.pending, spawn{ent: e, body: body})
}

// commit makes every queued spawn part of the world.
func (g *Game) commit() {
	for _, s := range g.pending {
		id := s.ent.GetID()
		if s.body != nil {
			g.physics.Insert(uint64(id), *s.body)
		}
		g.entities[id] = s.ent
		i, found := slices.BinarySearch(g.order, id)
		if !found {
			g.order = slices.Insert(g.order, i, id)
		}
		g.EventBus.Publish(event.NewEntityEvent(event.EntitySpawned, g, uint64(id), s.ent.GetKind().String()))
	}
	clear(g.pending)
	g.pending = g.pending[:0]
}

// remove deletes an entity, its body and, for ships, its children. Unknown
// ids are ignored.
func (g *Game) remove(id entity.ID) bool {
	e, ok := g.entities[id]
	if !ok {
		return false
	}
	if ship, isShip := e.(*entity.Ship); isShip {
		for _, child := range ship.ChildIDs() {
			g.remove(child)
		}
	}
	if e.GetKind().Physical() {
		g.physics.Remove(uint64(id))
	}
	delete(g.entities, id)
	if i, found := slices.BinarySearch(g.order, id); found {
		g.order = slices.Delete(g.order, i, i+1)
	}
	return true
}

// jitter returns a uniform angle in [-spread/2, spread/2).
func (g *Game) jitter(spread float64) float64 {
	return (g.rng.Float64() - 0.5) * spread
}

// symmetric returns a uniform value in [-extent, extent).
func (g *Game) symmetric(extent float64) float64 {
	return (2*g.rng.Float64() - 1) * extent
}

// randomDirection returns a unit vector with a uniform heading.
func (g *Game) randomDirection() physics.Vector2D {
	return physics.FromAngle(g.rng.Float64()*2*math.Pi, 1)
}

func (g *Game) String() string {
	return fmt.Sprintf("Game{match=%s tick=%d entities=%d}", g.MatchID, g.CurrentTick, len(g.entities))
}

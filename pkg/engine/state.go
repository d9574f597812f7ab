// pkg/engine/state.go
package engine

import (
	"github.com/opd-ai/go-spacewar/pkg/entity"
	"github.com/opd-ai/go-spacewar/pkg/physics"
)

// GameState represents a read-only snapshot of the game for presentation
type GameState struct {
	MatchID    string
	Tick       uint64
	Time       float64
	HalfExtent float64
	// Entities are ordered by id.
	Entities []EntityState
}

// EntityState represents a snapshot of one entity
type EntityState struct {
	ID       entity.ID
	Kind     entity.Kind
	Position physics.Vector2D
	Rotation float64
	Velocity physics.Vector2D
	Radius   float64
	Scale    float64
	// Player is set for ships.
	Player uint8
	// Energy is the shield energy. Indicators and displays report the
	// energy of the ship they belong to.
	Energy    float64
	HasShield bool
	// Alpha is the indicator intensity derived from Energy.
	Alpha float64
	// Owner is the ship a shield indicator, energy display or projectile
	// belongs to.
	Owner entity.ID
	// Text is the energy display label.
	Text string
}

// Count returns the number of entities of kind in the snapshot.
func (s *GameState) Count(kind entity.Kind) int {
	n := 0
	for i := range s.Entities {
		if s.Entities[i].Kind == kind {
			n++
		}
	}
	return n
}

// Find returns the entity with the given id.
func (s *GameState) Find(id entity.ID) (EntityState, bool) {
	for _, e := range s.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return EntityState{}, false
}

// GetGameState returns a snapshot of the current game state
func (g *Game) GetGameState() *GameState {
	g.EntityLock.RLock()
	defer g.EntityLock.RUnlock()

	return g.createGameStateSnapshot()
}

func (g *Game) createGameStateSnapshot() *GameState {
	state := &GameState{
		MatchID:    g.MatchID,
		Tick:       g.CurrentTick,
		Time:       g.Now,
		HalfExtent: g.Config.Arena.HalfExtent,
		Entities:   make([]EntityState, 0, len(g.order)),
	}
	for _, id := range g.order {
		state.Entities = append(state.Entities, g.entityState(g.entities[id]))
	}
	return state
}

func (g *Game) entityState(e entity.Entity) EntityState {
	es := EntityState{ID: e.GetID(), Kind: e.GetKind()}
	if e.GetKind().Physical() {
		if body, ok := g.physics.State(uint64(es.ID)); ok {
			es.Position = body.Position
			es.Rotation = body.Rotation
			es.Velocity = body.Velocity
			es.Radius = body.Radius
		}
	}

	switch v := e.(type) {
	case *entity.Ship:
		es.Player = v.Player
		es.Energy = v.Shield.Energy
		es.HasShield = true
		es.Alpha = entity.Alpha(v.Shield.Energy)
		es.Scale = 1
	case *entity.Asteroid:
		es.Energy = v.Shield.Energy
		es.HasShield = true
		es.Alpha = entity.Alpha(v.Shield.Energy)
		es.Scale = v.Scale
	case *entity.Transient:
		es.Owner = v.Owner
		es.Scale = 1
	case *entity.ShieldIndicator:
		es.Owner = v.Owner
		es.Energy = v.Energy
		es.Alpha = v.Alpha
		es.Scale = 1
		if body, ok := g.physics.State(uint64(v.Owner)); ok {
			es.Position = body.Position
			es.Rotation = body.Rotation
			es.Radius = body.Radius
		}
	case *entity.EnergyDisplay:
		es.Owner = v.Ship
		es.Position = v.Position
		es.Text = v.Text
		if owner, ok := g.entities[v.Ship].(*entity.Ship); ok {
			es.Energy = owner.Shield.Energy
		}
	}
	return es
}

// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Arena event types
const (
	EntitySpawned   Type = "entity_spawned"
	ShieldExhausted Type = "shield_exhausted"
	EntityDestroyed Type = "entity_destroyed"
	EntityExpired   Type = "entity_expired"
	AsteroidSplit   Type = "asteroid_split"
	ProjectileFired Type = "projectile_fired"
	EntityCollision Type = "entity_collision"
	GameStarted     Type = "game_started"
	QuitRequested   Type = "quit_requested"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it from the bus.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run synchronously
// on the publishing goroutine, in subscription order.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.unsubscribe(eventType, id) },
	}
}

func (b *Bus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// EntityEvent describes the lifecycle of a single entity.
type EntityEvent struct {
	BaseEvent
	EntityID uint64
	Kind     string
}

// NewEntityEvent creates a new entity event
func NewEntityEvent(eventType Type, source interface{}, entityID uint64, kind string) *EntityEvent {
	return &EntityEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		EntityID: entityID,
		Kind:     kind,
	}
}

// SplitEvent is published when a destroyed asteroid breaks into fragments.
type SplitEvent struct {
	BaseEvent
	ParentID    uint64
	ParentScale float64
	Fragments   int
}

// NewSplitEvent creates a new split event
func NewSplitEvent(source interface{}, parentID uint64, parentScale float64, fragments int) *SplitEvent {
	return &SplitEvent{
		BaseEvent: BaseEvent{
			EventType: AsteroidSplit,
			Source:    source,
		},
		ParentID:    parentID,
		ParentScale: parentScale,
		Fragments:   fragments,
	}
}

// FireEvent is published when a ship's gun spawns a projectile.
type FireEvent struct {
	BaseEvent
	ShipID       uint64
	Player       uint8
	ProjectileID uint64
}

// NewFireEvent creates a new projectile fired event
func NewFireEvent(source interface{}, shipID uint64, player uint8, projectileID uint64) *FireEvent {
	return &FireEvent{
		BaseEvent: BaseEvent{
			EventType: ProjectileFired,
			Source:    source,
		},
		ShipID:       shipID,
		Player:       player,
		ProjectileID: projectileID,
	}
}

// CollisionEvent contains information about entity collisions
type CollisionEvent struct {
	BaseEvent
	EntityA uint64
	EntityB uint64
	Force   float64
}

// NewCollisionEvent creates a new collision event
func NewCollisionEvent(source interface{}, entityA, entityB uint64, force float64) *CollisionEvent {
	return &CollisionEvent{
		BaseEvent: BaseEvent{
			EventType: EntityCollision,
			Source:    source,
		},
		EntityA: entityA,
		EntityB: entityB,
		Force:   force,
	}
}

// MatchEvent marks the start or end of a match.
type MatchEvent struct {
	BaseEvent
	MatchID string
	Tick    uint64
}

// NewMatchEvent creates a new match event
func NewMatchEvent(eventType Type, source interface{}, matchID string, tick uint64) *MatchEvent {
	return &MatchEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		MatchID: matchID,
		Tick:    tick,
	}
}

// Package event carries notifications from the simulation to the
// presentation layer and the turn sequencer. The simulation never renders
// directly; it emits events and lets subscribers react.
package event

import (
	"github.com/google/uuid"

	"github.com/samdwyer/liminal/internal/world"
)

// Event is the closed set of simulation notifications.
type Event interface {
	isEvent()
}

// ChunkLoaded fires after a chunk's tiles are integrated and its points are
// in the navigation graph.
type ChunkLoaded struct {
	Key world.ChunkKey
}

// ChunkUnloaded fires after a chunk's points left the navigation graph and
// its memory is about to be discarded.
type ChunkUnloaded struct {
	Key world.ChunkKey
}

// CreatureSpawned fires when a creature record enters the world.
type CreatureSpawned struct {
	ID    uuid.UUID
	Type  string
	Pos   world.TilePos
	Level int
}

// CreatureMoved fires when a creature steps to a new tile.
type CreatureMoved struct {
	ID       uuid.UUID
	From, To world.TilePos
}

// CreatureDamaged fires when a creature's HP drops.
type CreatureDamaged struct {
	ID     uuid.UUID
	Amount int
	HP     int
}

// CreatureDied fires once, when a creature's HP reaches zero.
type CreatureDied struct {
	ID  uuid.UUID
	Pos world.TilePos
}

// HitEffect asks the presentation layer to play an attack effect. Target is
// the struck tile; the player is addressed by targeting their tile.
type HitEffect struct {
	From, Target world.TilePos
	Damage       int
}

// PlayerDamaged fires when an attack lands on the player.
type PlayerDamaged struct {
	Amount int
}

// WorldSettled fires once per turn, when the generation worker's queue and
// the pending set are both empty; the turn sequencer accepts the next
// action only after it.
type WorldSettled struct {
	Turn int
}

func (ChunkLoaded) isEvent()     {}
func (ChunkUnloaded) isEvent()   {}
func (CreatureSpawned) isEvent() {}
func (CreatureMoved) isEvent()   {}
func (CreatureDamaged) isEvent() {}
func (CreatureDied) isEvent()    {}
func (HitEffect) isEvent()       {}
func (PlayerDamaged) isEvent()   {}
func (WorldSettled) isEvent()    {}

// Bus is a synchronous fan-out of events to subscribers. The simulation is
// single-threaded, so no locking is needed.
type Bus struct {
	subscribers []func(Event)
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all events.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subscribers = append(b.subscribers, fn)
}

// Emit delivers an event to every subscriber, in subscription order.
func (b *Bus) Emit(ev Event) {
	for _, fn := range b.subscribers {
		fn(ev)
	}
}

package ecs

import "reflect"

// EventBus is a synchronous, type-keyed publish/subscribe mechanism. Systems
// subscribe to concrete event types and publishers deliver to every handler
// for that type, in subscription order, on the calling goroutine.
//
// Delivery is not re-entrant safe: if a handler subscribes or unsubscribes
// for the event type currently being published, the in-progress publish may
// or may not observe the change.
type EventBus struct {
	eventTypes map[reflect.Type]int
	handlers   [][]busHandler
	nextToken  uint64
}

type busHandler struct {
	token uint64
	fn    any
}

// Subscription identifies a single Subscribe call so it can later be removed
// with Unsubscribe. The zero value is never a live subscription.
type Subscription struct {
	typeIndex int
	token     uint64
}

// NewEventBus creates an empty event bus.
func NewEventBus() *EventBus {
	return &EventBus{
		eventTypes: make(map[reflect.Type]int),
	}
}

// Subscribe registers a handler for events of type E. Handlers fire in the
// order they were subscribed; subscribing the same handler twice stores two
// entries and delivers twice.
func Subscribe[E any](bus *EventBus, handler func(E)) Subscription {
	idx := bus.typeIndex(reflect.TypeFor[E]())
	bus.nextToken++
	bus.handlers[idx] = append(bus.handlers[idx], busHandler{
		token: bus.nextToken,
		fn:    handler,
	})
	return Subscription{typeIndex: idx, token: bus.nextToken}
}

// Unsubscribe removes the handler identified by sub. Returns false if the
// subscription was already removed or never existed.
func (bus *EventBus) Unsubscribe(sub Subscription) bool {
	if sub.token == 0 || sub.typeIndex >= len(bus.handlers) {
		return false
	}
	hs := bus.handlers[sub.typeIndex]
	for i, h := range hs {
		if h.token == sub.token {
			bus.handlers[sub.typeIndex] = append(hs[:i:i], hs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers event synchronously to every current subscriber for type
// E. Publishing a type with no subscribers is a no-op.
func Publish[E any](bus *EventBus, event E) {
	idx, ok := bus.eventTypes[reflect.TypeFor[E]()]
	if !ok {
		return
	}
	for _, h := range bus.handlers[idx] {
		h.fn.(func(E))(event)
	}
}

// SubscriberCount returns the number of handlers currently registered for
// event type E.
func SubscriberCount[E any](bus *EventBus) int {
	idx, ok := bus.eventTypes[reflect.TypeFor[E]()]
	if !ok {
		return 0
	}
	return len(bus.handlers[idx])
}

// typeIndex retrieves or assigns the dense index for an event type.
func (bus *EventBus) typeIndex(t reflect.Type) int {
	if idx, ok := bus.eventTypes[t]; ok {
		return idx
	}
	idx := len(bus.handlers)
	bus.eventTypes[t] = idx
	bus.handlers = append(bus.handlers, nil)
	return idx
}

// EntityCreated is published by a Storage immediately after a new entity is
// allocated. The handle is valid when the event fires.
type EntityCreated struct {
	Entity Entity
}

// EntityDestroyed is published by a Storage after an entity has been torn
// down. The handle's generation has already been retired, so it no longer
// passes Valid; it identifies which entity went away.
type EntityDestroyed struct {
	Entity Entity
}

// ComponentAdded is published after a component of type T is stored on an
// entity. Value points at the live cell, so handlers may mutate it in place.
type ComponentAdded[T any] struct {
	Entity Entity
	Value  *T
}

// ComponentRemoved is published after a component of type T is cleared from
// an entity. Value is a copy of the removed data.
type ComponentRemoved[T any] struct {
	Entity Entity
	Value  T
}

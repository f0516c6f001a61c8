package ecs

import "reflect"

// ComponentID is the dense integer assigned to a component type by a
// ComponentRegistry. IDs start at 0 and are never reused or reassigned for
// the lifetime of the registry, even across Storage.Clear.
type ComponentID int

// componentType holds everything a storage needs to operate on a component
// type without knowing it statically: a column factory plus typed closures
// for the erased add/remove event paths. The closures are captured at
// registration time, where the concrete type is still known.
type componentType struct {
	id         ComponentID
	typ        reflect.Type
	newColumn  func(capacity int) componentColumn
	emitAdd    func(bus *EventBus, ent Entity, cell any)
	emitRemove func(bus *EventBus, ent Entity, cell any)
}

// ComponentRegistry maps component types to dense IDs for one or more
// Storage instances. Each registry is independent state; there is no
// process-wide type table, so separate worlds never contaminate each
// other's ID assignments.
//
// Types are usually registered lazily by the first AddComponent call, but
// RegisterComponent can pre-register them, which is required before using
// the type-erased Commands path.
type ComponentRegistry struct {
	types   map[reflect.Type]ComponentID
	entries []componentType
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		types: make(map[reflect.Type]ComponentID),
	}
}

// RegisterComponent assigns a dense ID to component type T, returning the
// existing ID if the type has been seen before.
func RegisterComponent[T any](r *ComponentRegistry) ComponentID {
	t := reflect.TypeFor[T]()
	if id, ok := r.types[t]; ok {
		return id
	}
	id := ComponentID(len(r.entries))
	r.types[t] = id
	r.entries = append(r.entries, componentType{
		id:  id,
		typ: t,
		newColumn: func(capacity int) componentColumn {
			c := &column[T]{}
			c.grow(capacity)
			return c
		},
		emitAdd: func(bus *EventBus, ent Entity, cell any) {
			Publish(bus, ComponentAdded[T]{Entity: ent, Value: cell.(*T)})
		},
		emitRemove: func(bus *EventBus, ent Entity, cell any) {
			Publish(bus, ComponentRemoved[T]{Entity: ent, Value: *cell.(*T)})
		},
	})
	return id
}

// Lookup returns the ID for a component type, or false if the type has
// never been registered.
func (r *ComponentRegistry) Lookup(t reflect.Type) (ComponentID, bool) {
	id, ok := r.types[t]
	return id, ok
}

// TypeCount returns the number of registered component types.
func (r *ComponentRegistry) TypeCount() int {
	return len(r.entries)
}

// TypeOf returns the reflect.Type registered under id.
func (r *ComponentRegistry) TypeOf(id ComponentID) reflect.Type {
	return r.entries[id].typ
}

func (r *ComponentRegistry) entry(id ComponentID) *componentType {
	return &r.entries[id]
}

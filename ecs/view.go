package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

// View represents a query for entities holding a specific combination of
// components. The type T must be a struct with pointer fields, one per
// component type; embedded fields are always required, and named fields can
// be marked optional with the `ecs:"optional"` struct tag.
//
// Iteration visits live entities in ascending slot order, testing each
// entity's bitmask against the required component set. The capacity observed
// when iteration starts bounds the scan: entities created in brand-new slots
// mid-iteration are not visited, and a slot the cursor has already passed is
// unaffected by later changes. Callers that mutate the storage while
// consuming a view should materialize the results first.
type View[T any] struct {
	storage     *Storage
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
}

// NewView creates a new view over the given storage for the struct type T.
func NewView[T any](storage *Storage) *View[T] {
	var zero T
	structType := reflect.TypeOf(zero)

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	types := make([]reflect.Type, 0, structType.NumField())
	optional := make([]bool, 0, structType.NumField())
	fieldOffset := make([]uintptr, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types")
		}

		types = append(types, field.Type.Elem())
		fieldOffset = append(fieldOffset, field.Offset)

		// Embedded fields (field.Anonymous) are always required.
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}
		optional = append(optional, isOptional)
	}

	return &View[T]{
		storage:     storage,
		types:       types,
		optional:    optional,
		fieldOffset: fieldOffset,
	}
}

// resolve maps the view's component types to registry IDs. Returns ok=false
// if any required type has never been registered, in which case the view
// matches nothing.
func (v *View[T]) resolve() (ids []ComponentID, registered []bool, required bitmask, ok bool) {
	ids = make([]ComponentID, len(v.types))
	registered = make([]bool, len(v.types))
	ok = true
	for i, t := range v.types {
		id, known := v.storage.registry.Lookup(t)
		ids[i] = id
		registered[i] = known
		if !known {
			if !v.optional[i] {
				ok = false
			}
			continue
		}
		if !v.optional[i] {
			required.set(id)
		}
	}
	return ids, registered, required, ok
}

// populate fills the struct at resultPtr with component pointers for the
// entity at slot idx. Returns false if a required component is absent.
func (v *View[T]) populate(resultPtr unsafe.Pointer, idx int, ids []ComponentID, registered []bool) bool {
	mask := v.storage.masks[idx]
	for i := range v.types {
		fieldPtr := unsafe.Pointer(uintptr(resultPtr) + v.fieldOffset[i])

		if !registered[i] || !mask.test(ids[i]) {
			if !v.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// Extract the data pointer out of the interface so the struct field
		// points straight at the column cell.
		cell := v.storage.columns[ids[i]].anyAt(idx)
		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&cell)).data
	}
	return true
}

// Fill populates the provided struct pointer with component data for the
// given entity. Returns false if the entity is stale or missing any required
// component. Optional components are set to nil if not present.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	if !v.storage.Valid(id) {
		return false
	}
	ids, registered, _, ok := v.resolve()
	if !ok {
		return false
	}
	return v.populate(unsafe.Pointer(ptr), int(id.Index()), ids, registered)
}

// Get returns a populated view struct for the given entity, or nil if the
// entity is stale or doesn't have all required components.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef returns a populated view struct for the given entity ref, or nil
// if the ref is invalid.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

// Iter returns an iterator yielding (Entity, T) pairs for every live entity
// whose bitmask covers all required components, in ascending slot order. If
// any required component type has never been registered the sequence is
// empty.
func (v *View[T]) Iter() iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		ids, registered, requiredMask, ok := v.resolve()
		if !ok {
			return
		}

		var result T
		resultPtr := unsafe.Pointer(&result)

		s := v.storage
		n := len(s.gens)
		for idx := 0; idx < n && idx < len(s.gens); idx++ {
			if !s.alive[idx] || !s.masks[idx].containsAll(requiredMask) {
				continue
			}
			if !v.populate(resultPtr, idx, ids, registered) {
				continue
			}
			ent := Entity{storage: s, id: NewEntityId(uint32(idx), s.gens[idx])}
			if !yield(ent, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs, for callers that
// don't care which entity the data belongs to.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates a new entity holding the components pointed at by the view
// struct's non-nil fields. Required fields must be non-nil.
func (v *View[T]) Spawn(data T) Entity {
	structPtr := unsafe.Pointer(&data)
	ent := v.storage.Create()

	for i, t := range v.types {
		fieldPtr := unsafe.Pointer(uintptr(structPtr) + v.fieldOffset[i])
		componentPtr := *(*unsafe.Pointer)(fieldPtr)

		if componentPtr == nil {
			if !v.optional[i] {
				ent.Destroy()
				panic("required component is nil in View.Spawn")
			}
			continue
		}

		component := reflect.NewAt(t, componentPtr).Interface()
		if err := v.storage.AddComponentAny(ent.Id(), component); err != nil {
			ent.Destroy()
			panic(err)
		}
	}
	return ent
}

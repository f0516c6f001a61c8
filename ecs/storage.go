package ecs

import (
	"iter"
	"reflect"
	"weak"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Storage owns all entity and component data for one world: a generation tag
// and component bitmask per slot, one parallel array per registered component
// type, and a free list of retired slots.
//
// Entities are referenced by (index, generation) ids. Destroying an entity
// bumps its slot's generation, so every handle issued for the old generation
// goes stale without any bookkeeping on the caller's side. Freed slots are
// reused in LIFO order.
//
// A Storage is single-threaded by design. It has no internal locking; wrap
// it externally if it must be shared across goroutines.
type Storage struct {
	registry *ComponentRegistry
	bus      *EventBus
	logger   zerolog.Logger

	gens    []uint32
	masks   []bitmask
	alive   []bool
	free    []uint32
	columns []componentColumn
	count   int

	// version increments on every structural change (create, destroy,
	// component add/remove, clear) and drives query cache invalidation.
	version uint64

	refs      *intmap.Map[EntityId, weak.Pointer[EntityRef]]
	resources resources
}

// StorageOption configures a Storage at construction time.
type StorageOption func(*Storage)

// WithLogger attaches a zerolog logger; lifecycle changes are logged at
// debug level. The default logger discards everything.
func WithLogger(logger zerolog.Logger) StorageOption {
	return func(s *Storage) {
		s.logger = logger
	}
}

// WithCapacity preallocates backing arrays for n entity slots.
func WithCapacity(n int) StorageOption {
	return func(s *Storage) {
		s.gens = make([]uint32, 0, n)
		s.masks = make([]bitmask, 0, n)
		s.alive = make([]bool, 0, n)
	}
}

// NewStorage creates a storage backed by the given component registry. The
// bus receives lifecycle events; passing nil creates a private bus.
func NewStorage(registry *ComponentRegistry, bus *EventBus, opts ...StorageOption) *Storage {
	if registry == nil {
		registry = NewComponentRegistry()
	}
	if bus == nil {
		bus = NewEventBus()
	}
	s := &Storage{
		registry: registry,
		bus:      bus,
		logger:   zerolog.Nop(),
		refs:     intmap.New[EntityId, weak.Pointer[EntityRef]](256),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Events returns the event bus this storage publishes lifecycle events to.
func (s *Storage) Events() *EventBus {
	return s.bus
}

// Count returns the number of live entities.
func (s *Storage) Count() int {
	return s.count
}

// Capacity returns the high-water slot count.
func (s *Storage) Capacity() int {
	return len(s.gens)
}

// Free returns the number of retired slots available for reuse.
func (s *Storage) Free() int {
	return len(s.gens) - s.count
}

// Version returns the structural version counter. It changes whenever the
// set of live entities or their component masks change.
func (s *Storage) Version() uint64 {
	return s.version
}

// Valid reports whether id refers to a live entity: the slot exists, the
// generation tag still matches, and the generation is non-zero.
func (s *Storage) Valid(id EntityId) bool {
	idx := id.Index()
	gen := id.Generation()
	return gen != 0 && int(idx) < len(s.gens) && s.alive[idx] && s.gens[idx] == gen
}

// Create allocates a new entity and returns a handle that is valid
// immediately. Retired slots are reused (LIFO) with a freshly bumped
// generation; otherwise capacity grows by one slot across every parallel
// array. Publishes EntityCreated.
func (s *Storage) Create() Entity {
	var idx uint32
	if n := len(s.free) - 1; n >= 0 {
		idx = s.free[n]
		s.free = s.free[:n]
		s.masks[idx].reset()
	} else {
		idx = uint32(len(s.gens))
		s.gens = append(s.gens, 0)
		s.masks = append(s.masks, nil)
		s.alive = append(s.alive, false)
		for _, col := range s.columns {
			col.grow(len(s.gens))
		}
	}
	if s.gens[idx] == 0 {
		s.gens[idx] = 1
	}
	s.alive[idx] = true
	s.count++
	s.version++

	ent := Entity{storage: s, id: NewEntityId(idx, s.gens[idx])}
	s.logger.Debug().
		Uint32("index", idx).
		Uint32("generation", s.gens[idx]).
		Msg("entity created")
	Publish(s.bus, EntityCreated{Entity: ent})
	return ent
}

// Destroy tears down a live entity: the slot's generation is bumped
// (invalidating every outstanding handle), all component cells are cleared,
// the bitmask is reset, and the index joins the free list. Publishes
// EntityDestroyed. A stale or never-valid id is a no-op returning false.
func (s *Storage) Destroy(id EntityId) bool {
	if !s.Valid(id) {
		return false
	}
	idx := id.Index()
	s.gens[idx]++
	for cid := range s.columns {
		if s.masks[idx].test(ComponentID(cid)) {
			s.columns[cid].clearAt(int(idx))
		}
	}
	s.masks[idx].reset()
	s.alive[idx] = false
	s.free = append(s.free, idx)
	s.count--
	s.version++
	s.invalidateCachedRef(id)

	s.logger.Debug().
		Uint32("index", idx).
		Uint32("generation", id.Generation()).
		Msg("entity destroyed")
	Publish(s.bus, EntityDestroyed{Entity: Entity{storage: s, id: id}})
	return true
}

// Clear resets the storage to its initial empty state: zero count, zero
// capacity, empty free list, every column truncated. All outstanding handles
// and refs become invalid. No per-entity destroy events are published; this
// is a bulk reset, not a sequence of destroys. Component type registrations
// survive.
func (s *Storage) Clear() {
	s.gens = s.gens[:0]
	s.masks = s.masks[:0]
	s.alive = s.alive[:0]
	s.free = s.free[:0]
	s.count = 0
	for _, col := range s.columns {
		col.reset()
	}
	s.refs = intmap.New[EntityId, weak.Pointer[EntityRef]](256)
	s.version++
	s.logger.Debug().Msg("storage cleared")
}

// Handle rebuilds an Entity handle for an id. The handle is only useful if
// the id is still valid.
func (s *Storage) Handle(id EntityId) Entity {
	return Entity{storage: s, id: id}
}

// Entities returns an iterator over all live entities in ascending index
// order. The capacity is snapshotted when iteration starts: entities created
// in new slots during iteration are not visited, and a slot whose occupant
// changes after the cursor passes it is unaffected for that iteration.
func (s *Storage) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		n := len(s.gens)
		for i := 0; i < n && i < len(s.gens); i++ {
			if !s.alive[i] {
				continue
			}
			if !yield(Entity{storage: s, id: NewEntityId(uint32(i), s.gens[i])}) {
				return
			}
		}
	}
}

// ensureColumns appends columns for registry entries added since the last
// structural operation, sized to the current capacity.
func (s *Storage) ensureColumns() {
	for len(s.columns) < s.registry.TypeCount() {
		entry := s.registry.entry(ComponentID(len(s.columns)))
		s.columns = append(s.columns, entry.newColumn(len(s.gens)))
	}
}

// AddComponent stores value as the component of type T on the entity,
// registering T on first use. If the entity already holds a T the previous
// value is silently overwritten. Publishes ComponentAdded[T]. Returns
// ErrInvalidEntity if the handle is stale.
func AddComponent[T any](s *Storage, id EntityId, value T) error {
	if !s.Valid(id) {
		return eris.Wrapf(ErrInvalidEntity, "add %s", reflect.TypeFor[T]())
	}
	cid := RegisterComponent[T](s.registry)
	s.ensureColumns()

	idx := int(id.Index())
	col := s.columns[cid].(*column[T])
	col.cells[idx] = value
	s.masks[id.Index()].set(cid)
	s.version++

	ent := Entity{storage: s, id: id}
	s.logger.Trace().
		Uint32("index", id.Index()).
		Str("component", reflect.TypeFor[T]().String()).
		Msg("component added")
	Publish(s.bus, ComponentAdded[T]{Entity: ent, Value: &col.cells[idx]})
	return nil
}

// RemoveComponent clears the component of type T from the entity, if
// present. Publishes ComponentRemoved[T] carrying a copy of the removed
// value. A stale handle or an absent component is a no-op returning false.
func RemoveComponent[T any](s *Storage, id EntityId) bool {
	if !s.Valid(id) {
		return false
	}
	cid, ok := s.registry.Lookup(reflect.TypeFor[T]())
	if !ok || !s.masks[id.Index()].test(cid) {
		return false
	}

	idx := int(id.Index())
	col := s.columns[cid].(*column[T])
	removed := col.cells[idx]
	col.clearAt(idx)
	s.masks[id.Index()].unset(cid)
	s.version++

	s.logger.Trace().
		Uint32("index", id.Index()).
		Str("component", reflect.TypeFor[T]().String()).
		Msg("component removed")
	Publish(s.bus, ComponentRemoved[T]{Entity: Entity{storage: s, id: id}, Value: removed})
	return true
}

// HasComponent reports whether the entity is live and currently holds a
// component of type T. Tolerant: stale handles and unregistered types
// simply report false.
func HasComponent[T any](s *Storage, id EntityId) bool {
	if !s.Valid(id) {
		return false
	}
	cid, ok := s.registry.Lookup(reflect.TypeFor[T]())
	return ok && s.masks[id.Index()].test(cid)
}

// Component returns a pointer to the entity's component of type T for
// in-place mutation. Fails with ErrInvalidEntity for stale handles and
// ErrMissingComponent when the entity does not hold a T.
func Component[T any](s *Storage, id EntityId) (*T, error) {
	if !s.Valid(id) {
		return nil, eris.Wrapf(ErrInvalidEntity, "get %s", reflect.TypeFor[T]())
	}
	cid, ok := s.registry.Lookup(reflect.TypeFor[T]())
	if !ok || !s.masks[id.Index()].test(cid) {
		return nil, eris.Wrapf(ErrMissingComponent, "get %s", reflect.TypeFor[T]())
	}
	col := s.columns[cid].(*column[T])
	return &col.cells[id.Index()], nil
}

// MustComponent is Component for callers that treat absence as a bug; it
// panics instead of returning an error.
func MustComponent[T any](s *Storage, id EntityId) *T {
	ptr, err := Component[T](s, id)
	if err != nil {
		panic(err)
	}
	return ptr
}

// AddComponentAny is the type-erased add path used by the deferred Commands
// buffer. The dynamic type of value (or its pointee) must already be
// registered; unlike the generic path there is no way to build a column for
// an unknown type here.
func (s *Storage) AddComponentAny(id EntityId, value any) error {
	t := reflect.TypeOf(value)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	cid, ok := s.registry.Lookup(t)
	if !ok {
		return eris.Wrapf(ErrUnregisteredComponent, "add %v", t)
	}
	if !s.Valid(id) {
		return eris.Wrapf(ErrInvalidEntity, "add %v", t)
	}
	s.ensureColumns()

	idx := int(id.Index())
	if !s.columns[cid].setAny(idx, value) {
		return eris.Wrapf(ErrUnregisteredComponent, "add %v: value type mismatch", t)
	}
	s.masks[id.Index()].set(cid)
	s.version++

	entry := s.registry.entry(cid)
	entry.emitAdd(s.bus, Entity{storage: s, id: id}, s.columns[cid].anyAt(idx))
	return nil
}

// RemoveComponentByType is the type-erased removal path. Absent components
// and stale handles are tolerated, mirroring RemoveComponent.
func (s *Storage) RemoveComponentByType(id EntityId, t reflect.Type) bool {
	if !s.Valid(id) {
		return false
	}
	cid, ok := s.registry.Lookup(t)
	if !ok || !s.masks[id.Index()].test(cid) {
		return false
	}

	idx := int(id.Index())
	// Copy the cell before clearing so the removal event carries the old value.
	removed := boxCopy(s.columns[cid].anyAt(idx))
	s.columns[cid].clearAt(idx)
	s.masks[id.Index()].unset(cid)
	s.version++

	s.registry.entry(cid).emitRemove(s.bus, Entity{storage: s, id: id}, removed)
	return true
}

// boxCopy turns a *T inside an any into a freshly boxed *T copy, so the
// original cell can be zeroed before the copy is read.
func boxCopy(ptr any) any {
	v := reflect.ValueOf(ptr).Elem()
	cp := reflect.New(v.Type())
	cp.Elem().Set(v)
	return cp.Interface()
}

// ComponentByType returns a pointer (as *T inside an any) to the entity's
// component of the given type, or nil if the entity is stale or does not
// hold it. This is the erased read used by the debug UI.
func (s *Storage) ComponentByType(id EntityId, t reflect.Type) any {
	if !s.Valid(id) {
		return nil
	}
	cid, ok := s.registry.Lookup(t)
	if !ok || !s.masks[id.Index()].test(cid) {
		return nil
	}
	return s.columns[cid].anyAt(int(id.Index()))
}

// ComponentTypes returns the types currently attached to the entity, in
// registration order. Returns nil for stale handles.
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	if !s.Valid(id) {
		return nil
	}
	var types []reflect.Type
	for cid := 0; cid < s.registry.TypeCount(); cid++ {
		if s.masks[id.Index()].test(ComponentID(cid)) {
			types = append(types, s.registry.TypeOf(ComponentID(cid)))
		}
	}
	return types
}

// CreateEntityRef returns the stable ref for a live entity, creating it on
// first use. Repeated calls for the same entity return the same pointer as
// long as the previous ref is still reachable; refs are cached behind weak
// pointers so unused ones can be collected.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	if !s.Valid(id) {
		return nil
	}
	if weakPtr, ok := s.refs.Get(id); ok {
		if ref := weakPtr.Value(); ref != nil {
			return ref
		}
		// Weak pointer is dead, remove it.
		s.refs.Del(id)
	}

	ref := &EntityRef{Id: id, Storage: s}
	s.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the id behind a ref, or false if the ref was
// invalidated or its entity no longer exists.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if ref == nil || ref.Id == 0 {
		return 0, false
	}
	if !s.Valid(ref.Id) {
		return 0, false
	}
	return ref.Id, true
}

// InvalidateEntityRef detaches a ref from its entity without destroying the
// entity. Returns false if the ref was already invalid.
func (s *Storage) InvalidateEntityRef(ref *EntityRef) bool {
	if ref == nil || ref.Id == 0 {
		return false
	}
	s.refs.Del(ref.Id)
	ref.Id = 0
	ref.Storage = nil
	return true
}

// invalidateCachedRef zeroes and drops the cached ref for a destroyed
// entity, if one exists.
func (s *Storage) invalidateCachedRef(id EntityId) {
	weakPtr, ok := s.refs.Get(id)
	if !ok {
		return
	}
	if ref := weakPtr.Value(); ref != nil {
		ref.Id = 0
		ref.Storage = nil
	}
	s.refs.Del(id)
}

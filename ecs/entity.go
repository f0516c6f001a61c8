package ecs

// EntityId encodes both the slot index (upper 32 bits) and the generation
// (lower 32 bits). The index-major packing means the natural uint64 ordering
// sorts entities by slot first, then by generation.
type EntityId uint64

// InvalidEntityId is the zero id. No live entity ever has generation 0, so
// this value can never collide with an id returned by Storage.Create.
const InvalidEntityId EntityId = 0

// NewEntityId creates an EntityId from a slot index and a generation.
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(index)<<32 | uint64(generation))
}

// Index extracts the slot index from the entity ID.
func (e EntityId) Index() uint32 {
	return uint32(e >> 32)
}

// Generation extracts the generation from the entity ID.
func (e EntityId) Generation() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Entity is a cheap, copyable handle bundling an EntityId with the storage
// that owns it. All component operations route through the storage; the
// handle itself owns nothing.
type Entity struct {
	storage *Storage
	id      EntityId
}

// Id returns the underlying EntityId.
func (e Entity) Id() EntityId {
	return e.id
}

// Storage returns the storage this handle belongs to.
func (e Entity) Storage() *Storage {
	return e.storage
}

// Valid reports whether the handle still refers to a live entity.
func (e Entity) Valid() bool {
	return e.storage != nil && e.storage.Valid(e.id)
}

// Destroy removes the entity from its storage. Returns false if the handle
// is already stale.
func (e Entity) Destroy() bool {
	if e.storage == nil {
		return false
	}
	return e.storage.Destroy(e.id)
}

// EntityRef is a stable reference to an entity. Unlike Entity, which is a
// value and can silently go stale, an EntityRef has pointer identity and is
// zeroed by the storage when its entity is destroyed. Obtain one through
// Storage.CreateEntityRef.
type EntityRef struct {
	Id      EntityId
	Storage *Storage
}

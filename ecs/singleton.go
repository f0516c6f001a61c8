package ecs

import "reflect"

// resources is the storage-scoped table backing singletons: at most one
// value per type, held behind a stable pointer so accessors can cache it.
type resources struct {
	items map[reflect.Type]any
}

func (r *resources) get(t reflect.Type) any {
	return r.items[t]
}

func (r *resources) put(t reflect.Type, ptr any) {
	if r.items == nil {
		r.items = make(map[reflect.Type]any)
	}
	r.items[t] = ptr
}

func (r *resources) remove(t reflect.Type) {
	delete(r.items, t)
}

func (r *resources) len() int {
	return len(r.items)
}

// Singleton provides access to a single value of type T that lives on the
// storage but is not attached to any entity. Use it for global state such
// as input, time, or configuration.
type Singleton[T any] struct {
	storage *Storage
	ptr     *T
}

// NewSingleton creates a Singleton accessor for the given storage. If a T
// has not been added yet it is created, using initializer when provided and
// the zero value otherwise, so the singleton is guaranteed to exist after
// the call.
func NewSingleton[T any](storage *Storage, initializer ...T) *Singleton[T] {
	t := reflect.TypeFor[T]()
	if storage.resources.get(t) == nil {
		var value T
		if len(initializer) > 0 {
			value = initializer[0]
		}
		storage.resources.put(t, &value)
	}
	return &Singleton[T]{
		storage: storage,
		ptr:     storage.resources.get(t).(*T),
	}
}

// Init initializes the Singleton with a storage reference. This is called
// automatically by the Scheduler during system registration.
func (s *Singleton[T]) Init(storage *Storage) {
	s.storage = storage
	s.ptr = nil
	s.updateCache()
}

// Get returns a pointer to the singleton value, or nil if none has been
// added to the storage.
func (s *Singleton[T]) Get() *T {
	if s.ptr == nil {
		s.updateCache()
	}
	return s.ptr
}

// Exists returns true if the singleton value has been added to storage.
func (s *Singleton[T]) Exists() bool {
	if s.ptr == nil {
		s.updateCache()
	}
	return s.ptr != nil
}

func (s *Singleton[T]) updateCache() {
	if s.storage == nil {
		return
	}
	if ptr, ok := s.storage.resources.get(reflect.TypeFor[T]()).(*T); ok {
		s.ptr = ptr
	}
}

// RemoveSingleton drops the storage's singleton of type T, if present.
// Outstanding accessors keep their cached pointer; new accessors observe
// the absence.
func RemoveSingleton[T any](storage *Storage) {
	storage.resources.remove(reflect.TypeFor[T]())
}

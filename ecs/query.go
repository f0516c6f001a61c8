package ecs

import "iter"

// Query wraps a View with per-frame result caching for repeated iteration.
// The cache is rebuilt by Execute and reused until the storage's structural
// version changes. The Scheduler executes every registered system's Query
// fields before systems run, so inside a system Iter can be called directly.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedEntities   []Entity
	cachedComponents []T
	cacheValid       bool
	lastVersion      uint64
}

// NewQuery creates a new Query over the given storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	return &Query[T]{
		view:    NewView[T](storage),
		storage: storage,
	}
}

// Init initializes or re-initializes the Query with a storage. Called by
// the Scheduler during system registration.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cacheValid = false
}

// Execute builds the entity and component caches. A no-op when the storage
// has not structurally changed since the last build.
func (q *Query[T]) Execute() {
	if q.cacheValid && q.lastVersion == q.storage.Version() {
		return
	}

	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for ent, item := range q.view.Iter() {
		q.cachedEntities = append(q.cachedEntities, ent)
		q.cachedComponents = append(q.cachedComponents, item)
	}

	q.cacheValid = true
	q.lastVersion = q.storage.Version()
}

// Iter returns an iterator over entity handles and component data.
// Panics if Execute has not been called.
func (q *Query[T]) Iter() iter.Seq2[Entity, T] {
	if !q.cacheValid {
		panic("Query.Iter() called before Query.Execute()")
	}

	return func(yield func(Entity, T) bool) {
		for i := range q.cachedEntities {
			if !yield(q.cachedEntities[i], q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
// Panics if Execute has not been called.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.cacheValid {
		panic("Query.Values() called before Query.Execute()")
	}

	return func(yield func(T) bool) {
		for i := range q.cachedComponents {
			if !yield(q.cachedComponents[i]) {
				return
			}
		}
	}
}

// Count returns the number of cached matches. Panics if Execute has not
// been called.
func (q *Query[T]) Count() int {
	if !q.cacheValid {
		panic("Query.Count() called before Query.Execute()")
	}
	return len(q.cachedEntities)
}

package ecs_test

import (
	"testing"

	"github.com/plus3/slate/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryExecuteAndIter(t *testing.T) {
	storage := newTestStorage()

	spawnWith(t, storage, Position{X: 1}, Velocity{DX: 1})
	spawnWith(t, storage, Position{X: 2})
	spawnWith(t, storage, Position{X: 3}, Velocity{DX: 3})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](storage)

	query.Execute()
	assert.Equal(t, 2, query.Count())

	var xs []float32
	for _, item := range query.Iter() {
		xs = append(xs, item.Position.X)
	}
	assert.Equal(t, []float32{1, 3}, xs)
}

func TestQueryIterBeforeExecutePanics(t *testing.T) {
	storage := newTestStorage()
	query := ecs.NewQuery[struct{ *Position }](storage)

	assert.Panics(t, func() { query.Iter() })
	assert.Panics(t, func() { query.Values() })
	assert.Panics(t, func() { query.Count() })
}

func TestQueryCacheRefreshesOnChange(t *testing.T) {
	storage := newTestStorage()

	spawnWith(t, storage, Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()
	assert.Equal(t, 1, query.Count())

	// The cache observes structural changes on the next Execute.
	spawnWith(t, storage, Position{X: 2})
	query.Execute()
	assert.Equal(t, 2, query.Count())

	ecs.RemoveComponent[Position](storage, ecs.NewEntityId(0, 1))
	query.Execute()
	assert.Equal(t, 1, query.Count())
}

func TestQueryCacheStableBetweenExecutes(t *testing.T) {
	storage := newTestStorage()

	spawnWith(t, storage, Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()

	// Structural changes after Execute are invisible until the next Execute.
	spawnWith(t, storage, Position{X: 2})
	assert.Equal(t, 1, query.Count())

	query.Execute()
	assert.Equal(t, 2, query.Count())
}

func TestQueryEntitiesAndValues(t *testing.T) {
	storage := newTestStorage()

	a := spawnWith(t, storage, Score(10))
	b := spawnWith(t, storage, Score(20))

	query := ecs.NewQuery[struct{ *Score }](storage)
	query.Execute()

	var ids []ecs.EntityId
	total := Score(0)
	for ent, item := range query.Iter() {
		ids = append(ids, ent.Id())
		total += *item.Score
	}
	assert.Equal(t, []ecs.EntityId{a.Id(), b.Id()}, ids)
	assert.Equal(t, Score(30), total)

	count := 0
	for item := range query.Values() {
		count++
		assert.NotNil(t, item.Score)
	}
	assert.Equal(t, 2, count)
}

func TestQueryPointersStayLive(t *testing.T) {
	storage := newTestStorage()

	ent := spawnWith(t, storage, Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	query.Execute()

	for _, item := range query.Iter() {
		item.Position.X = 42
	}

	pos, err := ecs.Component[Position](storage, ent.Id())
	require.NoError(t, err)
	assert.Equal(t, float32(42), pos.X)
}

func TestQueryInit(t *testing.T) {
	storage := newTestStorage()
	spawnWith(t, storage, Position{X: 1})

	var query ecs.Query[struct{ *Position }]
	query.Init(storage)
	query.Execute()
	assert.Equal(t, 1, query.Count())
}

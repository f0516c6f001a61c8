package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/slate/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorldWiring(t *testing.T) {
	world := ecs.NewWorld()

	require.NotNil(t, world.Registry())
	require.NotNil(t, world.Events())
	require.NotNil(t, world.Storage())
	require.NotNil(t, world.Scheduler())

	// The storage publishes on the world's bus.
	assert.Same(t, world.Events(), world.Storage().Events())
	assert.Same(t, world.Registry(), world.Storage().Registry())
}

func TestWorldWithRegistry(t *testing.T) {
	registry := newTestRegistry()
	world := ecs.NewWorld(ecs.WorldWithRegistry(registry))
	assert.Same(t, registry, world.Registry())
}

func TestWorldUpdate(t *testing.T) {
	world := ecs.NewWorld(ecs.WorldWithRegistry(newTestRegistry()))

	ent := world.Create()
	require.NoError(t, ecs.AddComponent(world.Storage(), ent.Id(), Position{X: 0}))
	require.NoError(t, ecs.AddComponent(world.Storage(), ent.Id(), Velocity{DX: 10}))

	world.Register(&movementSystem{})
	world.Update(0.1)

	pos, err := ecs.Component[Position](world.Storage(), ent.Id())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(pos.X), 0.0001)
}

func TestWorldLifecycleEvents(t *testing.T) {
	world := ecs.NewWorld()

	created := 0
	ecs.Subscribe(world.Events(), func(ecs.EntityCreated) { created++ })

	world.Create()
	world.Create()
	assert.Equal(t, 2, created)
}

func TestWorldClear(t *testing.T) {
	world := ecs.NewWorld(ecs.WorldWithRegistry(newTestRegistry()))

	world.Create()
	world.Create()
	world.Clear()
	assert.Equal(t, 0, world.Storage().Count())

	// Systems stay registered after a clear.
	world.Register(&movementSystem{})
	world.Update(0.016)
	assert.Equal(t, []string{"movementSystem"}, world.Scheduler().SystemNames())
}

func TestWorldRun(t *testing.T) {
	world := ecs.NewWorld(ecs.WorldWithRegistry(newTestRegistry()))

	system := &movementSystem{}
	world.Register(system)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	world.Run(ctx, time.Millisecond)

	assert.Greater(t, system.executions, 0)
}

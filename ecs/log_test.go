package ecs_test

import (
	"bytes"
	"testing"

	"github.com/plus3/slate/ecs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goccy/go-json"
)

func TestLogComponents(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry, nil)

	ecs.LogComponents(&logger, storage, zerolog.InfoLevel)

	var entry struct {
		TotalComponents int `json:"total_components"`
		Components      []struct {
			ComponentID   int    `json:"component_id"`
			ComponentName string `json:"component_name"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, 2, entry.TotalComponents)
	require.Len(t, entry.Components, 2)
	assert.Equal(t, 0, entry.Components[0].ComponentID)
	assert.Equal(t, "ecs_test.Position", entry.Components[0].ComponentName)
	assert.Equal(t, "ecs_test.Velocity", entry.Components[1].ComponentName)
}

func TestLogSystems(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&movementSystem{})

	ecs.LogSystems(&logger, scheduler, zerolog.InfoLevel)

	var entry struct {
		TotalSystems int      `json:"total_systems"`
		Systems      []string `json:"systems"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, 1, entry.TotalSystems)
	assert.Equal(t, []string{"movementSystem"}, entry.Systems)
}

func TestLogWorld(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	world := ecs.NewWorld(ecs.WorldWithRegistry(newTestRegistry()))
	world.Create()
	world.Create()

	ecs.LogWorld(&logger, world, zerolog.InfoLevel)

	var entry struct {
		Entities int `json:"entities"`
		Capacity int `json:"capacity"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, 2, entry.Entities)
	assert.Equal(t, 2, entry.Capacity)
}

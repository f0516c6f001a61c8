package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/slate/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commandRecorder exposes the frame's command buffer so tests can queue
// operations from inside a system.
type commandRecorder struct {
	onExecute func(frame *ecs.UpdateFrame)
}

func (c *commandRecorder) Execute(frame *ecs.UpdateFrame) {
	c.onExecute(frame)
}

func runFrame(t *testing.T, storage *ecs.Storage, fn func(frame *ecs.UpdateFrame)) {
	t.Helper()
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&commandRecorder{onExecute: fn})
	scheduler.Once(1.0 / 60.0)
}

func TestCommandsSpawn(t *testing.T) {
	storage := newTestStorage()

	runFrame(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 1}, Velocity{DX: 2})
		// Nothing applied until the flush at end of frame.
		assert.Equal(t, 0, storage.Count())
	})

	assert.Equal(t, 1, storage.Count())
	for ent := range storage.Entities() {
		pos, err := ecs.Component[Position](storage, ent.Id())
		require.NoError(t, err)
		assert.Equal(t, float32(1), pos.X)
		assert.True(t, ecs.HasComponent[Velocity](storage, ent.Id()))
	}
}

func TestCommandsDestroy(t *testing.T) {
	storage := newTestStorage()
	ent := storage.Create()

	runFrame(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Destroy(ent.Id())
		assert.True(t, storage.Valid(ent.Id()))
	})

	assert.False(t, storage.Valid(ent.Id()))
}

func TestCommandsAddAndRemoveComponent(t *testing.T) {
	storage := newTestStorage()
	ent := storage.Create()
	require.NoError(t, ecs.AddComponent(storage, ent.Id(), Health{Current: 10}))

	runFrame(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(ent.Id(), Position{X: 5})
		frame.Commands.RemoveComponent(ent.Id(), reflect.TypeOf(Health{}))
	})

	assert.True(t, ecs.HasComponent[Position](storage, ent.Id()))
	assert.False(t, ecs.HasComponent[Health](storage, ent.Id()))
}

func TestCommandsDestroyWinsOverSameFrameChanges(t *testing.T) {
	storage := newTestStorage()
	ent := storage.Create()

	runFrame(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(ent.Id(), Position{X: 5})
		frame.Commands.Destroy(ent.Id())
		frame.Commands.RemoveComponent(ent.Id(), reflect.TypeOf(Position{}))
	})

	// Destroys apply first; adds and removes against the dead entity are
	// dropped rather than resurrecting the reused slot.
	assert.False(t, storage.Valid(ent.Id()))
	assert.Equal(t, 0, storage.Count())
}

func TestCommandsDefer(t *testing.T) {
	storage := newTestStorage()

	order := make([]string, 0)
	ent := storage.Create()

	runFrame(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.Defer(func() {
			// Deferred functions run after structural commands.
			assert.False(t, storage.Valid(ent.Id()))
			order = append(order, "defer")
		})
		frame.Commands.Destroy(ent.Id())
		order = append(order, "system")
	})

	assert.Equal(t, []string{"system", "defer"}, order)
}

func TestCommandsBufferResetsBetweenFrames(t *testing.T) {
	storage := newTestStorage()

	scheduler := ecs.NewScheduler(storage)
	frames := 0
	scheduler.Register(&commandRecorder{onExecute: func(frame *ecs.UpdateFrame) {
		if frames == 0 {
			frame.Commands.Spawn(Position{X: 1})
		}
		frames++
	}})

	scheduler.Once(0.016)
	scheduler.Once(0.016)

	// The spawn from frame one is not replayed in frame two.
	assert.Equal(t, 1, storage.Count())
}

func TestCommandsAcceptPointerComponents(t *testing.T) {
	storage := newTestStorage()
	ent := storage.Create()

	runFrame(t, storage, func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(ent.Id(), &Position{X: 7})
	})

	pos, err := ecs.Component[Position](storage, ent.Id())
	require.NoError(t, err)
	assert.Equal(t, float32(7), pos.X)
}

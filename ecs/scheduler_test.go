package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/slate/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// movementSystem is a typical system: the scheduler wires its Query field
// automatically at registration.
type movementSystem struct {
	Moving ecs.Query[struct {
		*Position
		*Velocity
	}]
	executions int
}

func (m *movementSystem) Execute(frame *ecs.UpdateFrame) {
	m.executions++
	for _, item := range m.Moving.Iter() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type timeSystem struct {
	Clock   ecs.Singleton[Temperature]
	lastDt  float64
	configs int
}

func (s *timeSystem) Execute(frame *ecs.UpdateFrame) {
	s.lastDt = frame.DeltaTime
}

func (s *timeSystem) Configure(storage *ecs.Storage, bus *ecs.EventBus) {
	s.configs++
}

func TestSchedulerRegisterAndOnce(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	ent := spawnWith(t, storage, Position{X: 0}, Velocity{DX: 60})

	system := &movementSystem{}
	scheduler.Register(system)

	scheduler.Once(1.0 / 60.0)
	assert.Equal(t, 1, system.executions)

	pos, err := ecs.Component[Position](storage, ent.Id())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, float64(pos.X), 0.0001)
}

func TestSchedulerWiresQueryFields(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	spawnWith(t, storage, Position{}, Velocity{})
	spawnWith(t, storage, Position{})

	system := &movementSystem{}
	scheduler.Register(system)
	scheduler.Once(0.016)

	// The Query field was initialized and executed before the system ran.
	assert.Equal(t, 1, system.Moving.Count())
}

func TestSchedulerQueriesRefreshEachFrame(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	system := &movementSystem{}
	scheduler.Register(system)

	scheduler.Once(0.016)
	assert.Equal(t, 0, system.Moving.Count())

	spawnWith(t, storage, Position{}, Velocity{})
	scheduler.Once(0.016)
	assert.Equal(t, 1, system.Moving.Count())
}

func TestSchedulerWiresSingletonFields(t *testing.T) {
	storage := newTestStorage()
	ecs.NewSingleton[Temperature](storage, Temperature(21.5))

	scheduler := ecs.NewScheduler(storage)
	system := &timeSystem{}
	scheduler.Register(system)

	assert.True(t, system.Clock.Exists())
	assert.Equal(t, Temperature(21.5), *system.Clock.Get())
}

func TestSchedulerConfigureHook(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	system := &timeSystem{}
	scheduler.Register(system)
	assert.Equal(t, 1, system.configs)
}

func TestSchedulerExecutionOrder(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	var order []string
	scheduler.Register(&commandRecorder{onExecute: func(*ecs.UpdateFrame) {
		order = append(order, "first")
	}})
	scheduler.Register(&commandRecorder{onExecute: func(*ecs.UpdateFrame) {
		order = append(order, "second")
	}})

	scheduler.Once(0.016)
	scheduler.Once(0.016)
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestSchedulerDeltaTime(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	system := &timeSystem{}
	scheduler.Register(system)

	scheduler.Once(0.25)
	assert.Equal(t, 0.25, system.lastDt)
}

func TestSchedulerSystemNames(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	scheduler.Register(&movementSystem{})
	scheduler.Register(&timeSystem{})

	assert.Equal(t, []string{"movementSystem", "timeSystem"}, scheduler.SystemNames())
}

func TestSchedulerStats(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	scheduler.Register(&movementSystem{})
	scheduler.Once(0.016)
	scheduler.Once(0.016)
	scheduler.Once(0.016)

	stats := scheduler.GetStats()
	assert.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, int64(3), stats.TotalExecutions)

	require.Len(t, stats.Systems, 1)
	sys := stats.Systems[0]
	assert.Equal(t, "movementSystem", sys.Name)
	assert.Equal(t, int64(3), sys.ExecutionCount)
	assert.LessOrEqual(t, sys.MinDuration, sys.MaxDuration)
	assert.GreaterOrEqual(t, sys.TotalDuration, sys.MaxDuration)
}

func TestSchedulerRun(t *testing.T) {
	storage := newTestStorage()
	scheduler := ecs.NewScheduler(storage)

	system := &movementSystem{}
	scheduler.Register(system)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	scheduler.Run(ctx, time.Millisecond)

	assert.Greater(t, system.executions, 0)
}

package ecs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// World is the top-level aggregate: it owns one event bus, one storage
// (constructed with that bus so lifecycle events flow through it) and one
// scheduler, and forwards to them. It adds no behavior of its own beyond
// construction and wiring.
type World struct {
	registry  *ComponentRegistry
	bus       *EventBus
	storage   *Storage
	scheduler *Scheduler
	logger    zerolog.Logger
}

// WorldOption configures a World at construction time.
type WorldOption func(*World)

// WorldWithLogger attaches a zerolog logger to the world and its storage.
func WorldWithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

// WorldWithRegistry uses an existing component registry instead of creating
// a fresh one.
func WorldWithRegistry(registry *ComponentRegistry) WorldOption {
	return func(w *World) {
		w.registry = registry
	}
}

// NewWorld constructs and wires the three managers.
func NewWorld(opts ...WorldOption) *World {
	w := &World{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(w)
	}
	if w.registry == nil {
		w.registry = NewComponentRegistry()
	}
	w.bus = NewEventBus()
	w.storage = NewStorage(w.registry, w.bus, WithLogger(w.logger))
	w.scheduler = NewScheduler(w.storage)
	return w
}

// Registry returns the world's component registry.
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Events returns the world's event bus.
func (w *World) Events() *EventBus {
	return w.bus
}

// Storage returns the world's entity/component storage.
func (w *World) Storage() *Storage {
	return w.storage
}

// Scheduler returns the world's system scheduler.
func (w *World) Scheduler() *Scheduler {
	return w.scheduler
}

// Create allocates a new entity.
func (w *World) Create() Entity {
	return w.storage.Create()
}

// Register adds a system to the world's scheduler.
func (w *World) Register(system System) {
	w.scheduler.Register(system)
}

// Update runs all systems once with the given delta time.
func (w *World) Update(dt float64) {
	w.scheduler.Once(dt)
}

// Run drives the scheduler at the given interval until ctx is cancelled.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	w.scheduler.Run(ctx, interval)
}

// Clear resets the storage to empty. Registered systems and component type
// assignments survive.
func (w *World) Clear() {
	w.storage.Clear()
}

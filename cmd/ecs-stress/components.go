package main

import (
	"math"
	"math/rand"

	"github.com/plus3/slate/ecs"
)

// Component types for the stress workload. Field shapes are varied on
// purpose so columns of different widths get exercised.

type Position struct {
	X, Y, Z float64
}

type Velocity struct {
	X, Y, Z float64
}

type Acceleration struct {
	X, Y, Z float64
}

type Health struct {
	Current, Max int
}

type Lifetime struct {
	Remaining float64
}

type Spin struct {
	Angle, Rate float64
}

type Mass struct {
	Kg float64
}

type Tag struct {
	Label string
}

type Collider struct {
	Radius float64
	Layer  uint8
}

type Score struct {
	Points int64
}

const componentCount = 10

func RegisterStressComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Acceleration](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Spin](registry)
	ecs.RegisterComponent[Mass](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[Score](registry)
}

// SpawnRandomEntity creates an entity with a Position plus numExtra randomly
// chosen additional components.
func SpawnRandomEntity(storage *ecs.Storage, numExtra int) ecs.Entity {
	ent := storage.Create()
	id := ent.Id()

	// Every entity gets a position so the movement systems have work to do.
	_ = ecs.AddComponent(storage, id, Position{X: rand.Float64() * 100, Y: rand.Float64() * 100})

	for i := 0; i < numExtra; i++ {
		switch rand.Intn(9) {
		case 0:
			_ = ecs.AddComponent(storage, id, Velocity{X: rand.Float64() - 0.5, Y: rand.Float64() - 0.5})
		case 1:
			_ = ecs.AddComponent(storage, id, Acceleration{Y: -9.8})
		case 2:
			_ = ecs.AddComponent(storage, id, Health{Current: 100, Max: 100})
		case 3:
			_ = ecs.AddComponent(storage, id, Lifetime{Remaining: rand.Float64() * 60})
		case 4:
			_ = ecs.AddComponent(storage, id, Spin{Rate: rand.Float64() * math.Pi})
		case 5:
			_ = ecs.AddComponent(storage, id, Mass{Kg: rand.Float64() * 10})
		case 6:
			_ = ecs.AddComponent(storage, id, Tag{Label: "stress"})
		case 7:
			_ = ecs.AddComponent(storage, id, Collider{Radius: rand.Float64(), Layer: uint8(rand.Intn(8))})
		case 8:
			_ = ecs.AddComponent(storage, id, Score{})
		}
	}
	return ent
}

// MovementSystem integrates velocity into position.
type MovementSystem struct {
	Moving ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (m *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range m.Moving.Iter() {
		item.Position.X += item.Velocity.X * frame.DeltaTime
		item.Position.Y += item.Velocity.Y * frame.DeltaTime
		item.Position.Z += item.Velocity.Z * frame.DeltaTime
	}
}

// PhysicsSystem applies acceleration to velocity.
type PhysicsSystem struct {
	Accelerating ecs.Query[struct {
		*Velocity
		*Acceleration
	}]
}

func (p *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range p.Accelerating.Iter() {
		item.Velocity.X += item.Acceleration.X * frame.DeltaTime
		item.Velocity.Y += item.Acceleration.Y * frame.DeltaTime
		item.Velocity.Z += item.Acceleration.Z * frame.DeltaTime
	}
}

// SpinSystem advances rotation angles.
type SpinSystem struct {
	Spinning ecs.Query[struct{ *Spin }]
}

func (s *SpinSystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range s.Spinning.Iter() {
		item.Spin.Angle = math.Mod(item.Spin.Angle+item.Spin.Rate*frame.DeltaTime, 2*math.Pi)
	}
}

// LifetimeSystem destroys entities whose lifetime has expired and spawns a
// replacement, keeping the entity population stable while continuously
// churning slots.
type LifetimeSystem struct {
	Expiring ecs.Query[struct{ *Lifetime }]
}

func (l *LifetimeSystem) Execute(frame *ecs.UpdateFrame) {
	storage := frame.Storage
	for ent, item := range l.Expiring.Iter() {
		item.Lifetime.Remaining -= frame.DeltaTime
		if item.Lifetime.Remaining <= 0 {
			frame.Commands.Destroy(ent.Id())
			frame.Commands.Defer(func() {
				SpawnRandomEntity(storage, rand.Intn(5)+1)
			})
		}
	}
}

// ScoreSystem increments every score each frame.
type ScoreSystem struct {
	Scores ecs.Query[struct{ *Score }]
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	for _, item := range s.Scores.Iter() {
		item.Score.Points++
	}
}

const systemCount = 5

func RegisterStressSystems(scheduler *ecs.Scheduler) {
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&PhysicsSystem{})
	scheduler.Register(&SpinSystem{})
	scheduler.Register(&LifetimeSystem{})
	scheduler.Register(&ScoreSystem{})
}

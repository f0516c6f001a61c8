package ecs_test

import (
	"fmt"

	"github.com/plus3/slate/ecs"
)

// ExampleStorage demonstrates the basic entity lifecycle: create an entity,
// attach components, read them back, and destroy it.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Health](registry)
	storage := ecs.NewStorage(registry, nil)

	player := storage.Create()
	ecs.AddComponent(storage, player.Id(), Position{X: 10, Y: 20})
	ecs.AddComponent(storage, player.Id(), Health{Current: 100, Max: 100})

	pos, _ := ecs.Component[Position](storage, player.Id())
	hp, _ := ecs.Component[Health](storage, player.Id())
	fmt.Printf("Player at (%.0f, %.0f) with %d/%d HP\n", pos.X, pos.Y, hp.Current, hp.Max)

	player.Destroy()
	fmt.Println("Still valid:", player.Valid())

	// Output:
	// Player at (10, 20) with 100/100 HP
	// Still valid: false
}

// ExampleStorage_generations shows how generation tags make stale handles
// detectable. Destroying an entity retires its slot's generation, so a
// handle kept around from before the destroy never validates again, even
// after the slot is reused by a new entity.
func ExampleStorage_generations() {
	storage := ecs.NewStorage(nil, nil)

	first := storage.Create()
	stale := first.Id()
	fmt.Printf("first: index=%d generation=%d\n", stale.Index(), stale.Generation())

	storage.Destroy(stale)

	second := storage.Create()
	fmt.Printf("second: index=%d generation=%d\n", second.Id().Index(), second.Id().Generation())
	fmt.Println("stale handle valid:", storage.Valid(stale))
	fmt.Println("new handle valid:", storage.Valid(second.Id()))

	// Output:
	// first: index=0 generation=1
	// second: index=0 generation=2
	// stale handle valid: false
	// new handle valid: true
}

// ExampleStorage_Entities iterates every live entity in slot order.
func ExampleStorage_Entities() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	storage := ecs.NewStorage(registry, nil)

	for _, name := range []string{"alpha", "beta", "gamma"} {
		ent := storage.Create()
		ecs.AddComponent(storage, ent.Id(), Name{Value: name})
	}

	for ent := range storage.Entities() {
		name := ecs.MustComponent[Name](storage, ent.Id())
		fmt.Println(name.Value)
	}

	// Output:
	// alpha
	// beta
	// gamma
}

package ecs

import "github.com/rotisserie/eris"

var (
	// ErrInvalidEntity indicates an operation on an id that fails the
	// validity check: its slot has been freed (or never allocated) and the
	// generation no longer matches. Treated as a caller bug.
	ErrInvalidEntity = eris.New("invalid entity")

	// ErrMissingComponent indicates a component read on an entity that does
	// not hold that component type. Recoverable; check HasComponent first or
	// handle the error.
	ErrMissingComponent = eris.New("entity does not have component")

	// ErrUnregisteredComponent indicates a type-erased operation referencing
	// a component type the registry has never seen.
	ErrUnregisteredComponent = eris.New("component type not registered")
)

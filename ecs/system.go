package ecs

// System represents a behavior that operates on entities with specific
// components. User-defined systems implement this interface and can include
// Query and Singleton fields, which the Scheduler wires up at registration.
type System interface {
	Execute(frame *UpdateFrame)
}

// Configurer is an optional interface for systems that need a one-time
// setup pass, typically to subscribe to events. Configure runs once, when
// the system is registered.
type Configurer interface {
	Configure(storage *Storage, bus *EventBus)
}

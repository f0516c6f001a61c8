package ecs

import "github.com/rs/zerolog"

func loadComponentsToEvent(ev *zerolog.Event, s *Storage) *zerolog.Event {
	ev.Int("total_components", s.registry.TypeCount())
	arr := zerolog.Arr()
	for cid := 0; cid < s.registry.TypeCount(); cid++ {
		dict := zerolog.Dict().
			Int("component_id", cid).
			Str("component_name", s.registry.TypeOf(ComponentID(cid)).String())
		arr = arr.Dict(dict)
	}
	return ev.Array("components", arr)
}

func loadSystemsToEvent(ev *zerolog.Event, sch *Scheduler) *zerolog.Event {
	names := sch.SystemNames()
	ev.Int("total_systems", len(names))
	arr := zerolog.Arr()
	for _, name := range names {
		arr = arr.Str(name)
	}
	return ev.Array("systems", arr)
}

// LogComponents logs every registered component type with its dense ID.
func LogComponents(logger *zerolog.Logger, s *Storage, level zerolog.Level) {
	ev := logger.WithLevel(level)
	ev = loadComponentsToEvent(ev, s)
	ev.Send()
}

// LogSystems logs the registered systems in execution order.
func LogSystems(logger *zerolog.Logger, sch *Scheduler, level zerolog.Level) {
	ev := logger.WithLevel(level)
	ev = loadSystemsToEvent(ev, sch)
	ev.Send()
}

// LogWorld logs everything about the world: counts, component registrations
// and systems.
func LogWorld(logger *zerolog.Logger, w *World, level zerolog.Level) {
	ev := logger.WithLevel(level).
		Int("entities", w.Storage().Count()).
		Int("capacity", w.Storage().Capacity())
	ev = loadComponentsToEvent(ev, w.Storage())
	ev = loadSystemsToEvent(ev, w.Scheduler())
	ev.Send()
}

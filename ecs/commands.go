package ecs

import "reflect"

// Commands provides a buffer for deferred structural operations that are
// executed at the end of a frame. Systems queue creations, destructions and
// component changes here instead of mutating the storage mid-iteration.
//
// The component values passed through this buffer travel type-erased, so
// their types must be registered (RegisterComponent or a prior generic
// AddComponent) before the buffer is flushed.
type Commands struct {
	spawns   []spawnCommand
	destroys []EntityId
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues an arbitrary function to run after all structural commands.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues creation of an entity carrying the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Destroy queues an entity destruction.
func (c *Commands) Destroy(entity EntityId) {
	c.destroys = append(c.destroys, entity)
}

// AddComponent queues a component addition. Accepts a value or a pointer to
// one.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues a component removal by type.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Flush applies all queued commands to the storage and resets the buffer.
// Destroys run first; adds and removes against an entity destroyed in the
// same frame are dropped.
func (c *Commands) Flush(storage *Storage) {
	destroyed := make(map[EntityId]bool)

	for _, id := range c.destroys {
		storage.Destroy(id)
		destroyed[id] = true
	}

	for _, cmd := range c.removes {
		if !destroyed[cmd.entity] {
			storage.RemoveComponentByType(cmd.entity, cmd.compType)
		}
	}

	for _, cmd := range c.adds {
		if !destroyed[cmd.entity] {
			// Unregistered types are a wiring bug in the caller.
			if err := storage.AddComponentAny(cmd.entity, cmd.component); err != nil {
				storage.logger.Warn().Err(err).Msg("deferred add dropped")
			}
		}
	}

	for _, cmd := range c.spawns {
		ent := storage.Create()
		for _, comp := range cmd.components {
			if err := storage.AddComponentAny(ent.Id(), comp); err != nil {
				storage.logger.Warn().Err(err).Msg("deferred spawn component dropped")
			}
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.destroys = c.destroys[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}

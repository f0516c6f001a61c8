package ecs

// StoreStats is a point-in-time summary of a storage's contents.
type StoreStats struct {
	EntityCount        int
	Capacity           int
	FreeCount          int
	ComponentTypeCount int
	ComponentBreakdown []ComponentTypeStats
	SingletonCount     int
	SingletonTypes     []string
}

// ComponentTypeStats reports how many live entities hold one component type.
type ComponentTypeStats struct {
	ID          ComponentID
	Name        string
	EntityCount int
}

// CollectStats walks the live entities and produces a StoreStats snapshot.
func (s *Storage) CollectStats() StoreStats {
	stats := StoreStats{
		EntityCount:        s.count,
		Capacity:           len(s.gens),
		FreeCount:          len(s.gens) - s.count,
		ComponentTypeCount: s.registry.TypeCount(),
		SingletonCount:     s.resources.len(),
	}

	counts := make([]int, s.registry.TypeCount())
	for idx := range s.gens {
		if !s.alive[idx] {
			continue
		}
		for cid := range counts {
			if s.masks[idx].test(ComponentID(cid)) {
				counts[cid]++
			}
		}
	}

	stats.ComponentBreakdown = make([]ComponentTypeStats, len(counts))
	for cid, n := range counts {
		stats.ComponentBreakdown[cid] = ComponentTypeStats{
			ID:          ComponentID(cid),
			Name:        s.registry.TypeOf(ComponentID(cid)).String(),
			EntityCount: n,
		}
	}

	for t := range s.resources.items {
		stats.SingletonTypes = append(stats.SingletonTypes, t.String())
	}
	return stats
}

package ecs

const maskBitsPerWord = 64

// bitmask is a growable per-entity bit vector with one bit per registered
// component type. Masks only ever grow; words past the end of the slice are
// treated as zero.
type bitmask []uint64

// set enables the bit for the given component ID, growing the mask as needed.
func (m *bitmask) set(id ComponentID) {
	word := int(id) / maskBitsPerWord
	for word >= len(*m) {
		*m = append(*m, 0)
	}
	(*m)[word] |= 1 << (uint(id) % maskBitsPerWord)
}

// unset disables the bit for the given component ID.
func (m *bitmask) unset(id ComponentID) {
	word := int(id) / maskBitsPerWord
	if word >= len(*m) {
		return
	}
	(*m)[word] &^= 1 << (uint(id) % maskBitsPerWord)
}

// test checks if the bit for the given component ID is set.
func (m bitmask) test(id ComponentID) bool {
	word := int(id) / maskBitsPerWord
	if word >= len(m) {
		return false
	}
	return m[word]&(1<<(uint(id)%maskBitsPerWord)) != 0
}

// containsAll checks if every bit set in sub is also set in m.
func (m bitmask) containsAll(sub bitmask) bool {
	for i, w := range sub {
		var mw uint64
		if i < len(m) {
			mw = m[i]
		}
		if mw&w != w {
			return false
		}
	}
	return true
}

// reset clears every bit without releasing the backing array.
func (m bitmask) reset() {
	for i := range m {
		m[i] = 0
	}
}

// makeMask builds a mask from a set of component IDs.
func makeMask(ids ...ComponentID) bitmask {
	var m bitmask
	for _, id := range ids {
		m.set(id)
	}
	return m
}

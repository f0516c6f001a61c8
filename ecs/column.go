package ecs

// componentColumn is a type-erased view of one component type's backing
// array. Each registered type owns exactly one column per storage, and every
// column's length tracks the storage capacity in lockstep. Presence is
// tracked by the entity bitmasks, not by the column itself; a cleared cell
// simply holds the zero value.
type componentColumn interface {
	// grow extends the column to hold capacity cells.
	grow(capacity int)
	// clearAt zeroes the cell at index.
	clearAt(index int)
	// reset truncates the column to zero length.
	reset()
	// anyAt returns a pointer to the cell at index, as *T inside an any.
	anyAt(index int) any
	// setAny stores a value at index, accepting either T or *T. Returns
	// false if the value is not of the column's type.
	setAny(index int, value any) bool
}

// column is the concrete storage for one component type: a plain slice of T
// indexed by entity slot.
type column[T any] struct {
	cells []T
}

func (c *column[T]) grow(capacity int) {
	if capacity <= len(c.cells) {
		return
	}
	c.cells = append(c.cells, make([]T, capacity-len(c.cells))...)
}

func (c *column[T]) clearAt(index int) {
	var zero T
	c.cells[index] = zero
}

func (c *column[T]) reset() {
	c.cells = c.cells[:0]
}

func (c *column[T]) anyAt(index int) any {
	return &c.cells[index]
}

func (c *column[T]) setAny(index int, value any) bool {
	switch v := value.(type) {
	case T:
		c.cells[index] = v
	case *T:
		c.cells[index] = *v
	default:
		return false
	}
	return true
}

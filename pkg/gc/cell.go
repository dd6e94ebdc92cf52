package gc

// Cell is the interior-mutable field a Tracer payload uses to hold a Weak
// or WeakThin handle it needs to rewrite after construction — for example,
// a node that downgrades a freshly allocated Strong handle to itself and
// stores the Weak back into its own field to close a self-cycle. Trace
// takes the payload by shared reference, so payload fields that must be
// written after construction need a level of indirection; Cell supplies
// it without a mutex because every Context, and therefore every payload it
// owns, is confined to one goroutine.
type Cell[T any] struct {
	v T
}

// NewCell constructs a Cell holding the given initial value.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	return c.v
}

// Set replaces the current value.
func (c *Cell[T]) Set(v T) {
	c.v = v
}

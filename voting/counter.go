package voting

// SnapshotCounter is the process-wide snapshot id source. It starts at 0
// and advances by exactly 1 per explicit snapshot request; it never
// decreases. Held as an explicit state object so independent instances
// can be tested in isolation.
//
// Not goroutine-safe on its own; the owning Service serializes access.
type SnapshotCounter struct {
	current uint64
}

// NewSnapshotCounter creates a counter at 0.
func NewSnapshotCounter() *SnapshotCounter {
	return &SnapshotCounter{}
}

// Advance increments the counter and returns the new value.
func (c *SnapshotCounter) Advance() uint64 {
	c.current++
	return c.current
}

// Current returns the latest advanced value, 0 before any snapshot.
func (c *SnapshotCounter) Current() uint64 {
	return c.current
}

package frequency

// Counter counts messages per type within the current transaction epoch.
type Counter struct {
	counts map[uint32]int
}

// NewCounter ...
func NewCounter() *Counter {
	return &Counter{counts: make(map[uint32]int)}
}

// Record counts one more message of the type passed and returns the new count.
func (c *Counter) Record(t uint32) int {
	c.counts[t]++
	return c.counts[t]
}

// Count returns the current count of a type. Types never recorded have a count of zero.
func (c *Counter) Count(t uint32) int {
	return c.counts[t]
}

// Reset clears all counts.
func (c *Counter) Reset() {
	clear(c.counts)
}

// Len returns the amount of types with a count.
func (c *Counter) Len() int {
	return len(c.counts)
}

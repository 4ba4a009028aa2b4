package frequency

const (
	// BookEditWindow is the minimum amount of ticks between two accepted book edits.
	BookEditWindow int64 = 20
	// CraftRequestCooldown is the minimum amount of ticks between two accepted craft requests.
	CraftRequestCooldown int64 = 10
	// DropsPerTick is the amount of item drops in a single tick that is considered spam.
	DropsPerTick = 20
)

// TickWindow rejects an action if fewer than Length ticks passed since the last accepted one. Only accepted
// actions move the window, so a continuous stream of rejected actions holds the window instead of
// restarting it. A window that never accepted an action rejects nothing.
type TickWindow struct {
	Length int64

	last int64
	set  bool
}

// Spamming returns true if an action at the tick passed falls inside the window. If it does not, the
// action is accepted and the window starts at tick.
func (w *TickWindow) Spamming(tick int64) bool {
	if w.set && w.last+w.Length > tick {
		return true
	}
	w.last, w.set = tick, true
	return false
}

// TickCounter counts repetitions of an action within a single tick.
type TickCounter struct {
	Threshold int

	last  int64
	count int
	set   bool
}

// Hit counts an action at the tick passed. It returns the count for that tick, and true once the count has
// reached Threshold.
func (c *TickCounter) Hit(tick int64) (int, bool) {
	if !c.set || c.last != tick {
		c.last, c.set = tick, true
		c.count = 1
	} else {
		c.count++
	}
	return c.count, c.count >= c.Threshold
}

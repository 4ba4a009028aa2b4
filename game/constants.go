package game

import "time"

const (
	// TicksPerSecond is the amount of server ticks in one second.
	TicksPerSecond = 20
	// TickDuration is the fixed period of one server tick.
	TickDuration = time.Second / TicksPerSecond
	// TickMillis is TickDuration in milliseconds, which is also the expected gap between two
	// PlayerAuthInput packets from a client running at normal speed.
	TickMillis int64 = 1000 / TicksPerSecond
)

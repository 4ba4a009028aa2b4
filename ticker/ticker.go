package ticker

import (
	"context"
	"time"

	"github.com/oomph-ac/pacer/game"
	"go.uber.org/atomic"
)

// Source supplies the current server tick.
type Source interface {
	// CurrentTick returns the current tick. It never decreases.
	CurrentTick() int64
}

// Ticker is a Source advanced by a fixed period scheduler, independent of any connection. All sessions
// of a pacer instance read the same Ticker.
type Ticker struct {
	period time.Duration
	tick   atomic.Int64
}

// New returns a Ticker that advances once every period. A zero period uses game.TickDuration.
func New(period time.Duration) *Ticker {
	if period <= 0 {
		period = game.TickDuration
	}
	return &Ticker{period: period}
}

// CurrentTick ...
func (t *Ticker) CurrentTick() int64 {
	return t.tick.Load()
}

// Period returns the duration of a single tick.
func (t *Ticker) Period() time.Duration {
	return t.period
}

// Advance moves the ticker forward by one tick and returns the new tick.
func (t *Ticker) Advance() int64 {
	return t.tick.Inc()
}

// Run advances the ticker every period until ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	tc := time.NewTicker(t.period)
	defer tc.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tc.C:
			t.Advance()
		}
	}
}

package frequency

import (
	"time"

	"github.com/oomph-ac/pacer/game"
)

const (
	// MAX_BAL is the highest balance allowed before a movement message is flagged.
	MAX_BAL int64 = 0
	// BAL_RESET is the balance a client is given after being flagged.
	BAL_RESET int64 = -50
	// BAL_SUB_ON_TP is subtracted from the balance when the server repositions the client.
	BAL_SUB_ON_TP int64 = 50

	// BalanceGracePeriod is how long after joining the balance is left unevaluated, as clients send a burst
	// of movement while the connection initializes.
	BalanceGracePeriod = time.Second
)

// Balance accumulates how far ahead of the expected tick cadence a client sends movement messages. Every
// movement message adds the expected period and subtracts the time that actually elapsed since the
// previous one, so a client running at normal speed stays at or below zero.
type Balance struct {
	armed      bool
	lastFlying time.Time
	balance    int64
}

// Move handles a movement message at now. It returns the balance that was reached and true if that
// balance exceeded MAX_BAL, in which case the balance has been reset to BAL_RESET.
func (b *Balance) Move(now, joined time.Time) (int64, bool) {
	defer func() {
		b.lastFlying = now
		b.armed = true
	}()

	if !b.armed || now.Sub(joined) <= BalanceGracePeriod {
		return b.balance, false
	}

	b.balance += game.TickMillis
	b.balance -= now.Sub(b.lastFlying).Milliseconds()
	if b.balance > MAX_BAL {
		reached := b.balance
		b.balance = BAL_RESET
		return reached, true
	}
	return b.balance, false
}

// Reposition applies the penalty for a server initiated repositioning of the client, which legitimately
// resets the client's movement timing.
func (b *Balance) Reposition() {
	b.balance -= BAL_SUB_ON_TP
}

// Value returns the current balance.
func (b *Balance) Value() int64 {
	return b.balance
}

// Armed returns true once the first movement message was seen.
func (b *Balance) Armed() bool {
	return b.armed
}

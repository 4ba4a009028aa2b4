package frequency

import (
	"fmt"
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/pacer/punishment"
	"github.com/oomph-ac/pacer/ticker"
)

// KickViolationThreshold is the amount of verdicts after which a session's timing balance verdicts are
// kicks instead of mitigations.
const KickViolationThreshold = 100

// Transactions is the part of a connection's transaction tracker the engine needs.
type Transactions interface {
	// LastSent returns the id of the last transaction sent to the client.
	LastSent() int64
	// OnComplete registers f to run once the transaction with the id passed is answered by the client.
	// f must be run by the goroutine processing the connection's messages, never concurrently with it.
	OnComplete(id int64, f func()) bool
}

// Connection describes the connection a session belongs to.
type Connection interface {
	// Spectator returns true if the connection's game mode is spectator.
	Spectator() bool
	// JoinTime returns when the connection was initialized.
	JoinTime() time.Time
}

// guard handles a message of a specific kind. It returns a verdict and true if the message is spam.
type guard func(s *Session, msg Message, tick int64) (punishment.Verdict, bool)

var guards = [kindCount]guard{
	KindBookEdit:     (*Session).guardBookEdit,
	KindBookPayload:  (*Session).guardBookEdit,
	KindCraftRequest: (*Session).guardCraftRequest,
	KindDropItem:     (*Session).guardDropItem,
}

// Session holds the frequency and timing state of a single connection. A Session is not safe for
// concurrent use: OnInbound and OnOutbound must not be called at the same time, and the connection must
// deliver its messages to the session one at a time.
type Session struct {
	opts  OptionsProvider
	ticks ticker.Source
	txs   Transactions
	conn  Connection

	counter *Counter
	balance Balance

	bookEdits TickWindow
	recipes   TickWindow
	drops     TickCounter

	// resetScheduled is the transaction id the last counter reset was registered for.
	resetScheduled int64
	violations     int64
}

// NewSession creates the session of a newly initialized connection.
func NewSession(opts OptionsProvider, ticks ticker.Source, txs Transactions, conn Connection) *Session {
	return &Session{
		opts:  opts,
		ticks: ticks,
		txs:   txs,
		conn:  conn,

		counter: NewCounter(),

		bookEdits: TickWindow{Length: BookEditWindow},
		recipes:   TickWindow{Length: CraftRequestCooldown},
		drops:     TickCounter{Threshold: DropsPerTick},
	}
}

// OnInbound handles a message received from the client. It returns a verdict and true if the message is
// anomalous. At most one verdict is returned per message; the checks run in a fixed order (frequency
// limit, kind guard, timing balance) and stop at the first verdict.
func (s *Session) OnInbound(msg Message) (punishment.Verdict, bool) {
	opts := s.opts.FrequencyOptions()
	if opts == nil || !opts.Enabled {
		return punishment.Verdict{}, false
	}

	if msg.Kind != KindMovement {
		start := time.Now()
		count := s.counter.Record(msg.Type)
		limit := opts.LimitFor(msg.Name)
		if count > limit {
			lookup := time.Since(start)

			extra := orderedmap.NewOrderedMap[string, any]()
			extra.Set("type", msg.Name)
			extra.Set("limit", limit)
			extra.Set("count", count)
			extra.Set("lookup", lookup)
			return s.emit(fmt.Sprintf("%s, %dL, %dPPS, %s", msg.Name, limit, count, lookup), punishment.SeverityKick, extra), true
		}
	}

	verdict, flagged := s.evaluate(msg, opts)
	s.scheduleReset()
	return verdict, flagged
}

// OnOutbound handles a message sent to the client. Only repositioning messages matter: each one lowers the
// timing balance by BAL_SUB_ON_TP. OnOutbound never produces a verdict.
func (s *Session) OnOutbound(msg Message) {
	opts := s.opts.FrequencyOptions()
	if opts == nil || !opts.Enabled || !opts.TimerEnabled {
		return
	}
	if msg.Kind == KindReposition {
		s.balance.Reposition()
	}
}

// Violations returns the amount of verdicts the session produced.
func (s *Session) Violations() int64 {
	return s.violations
}

// Balance returns the current timing balance.
func (s *Session) Balance() int64 {
	return s.balance.Value()
}

// Count returns how often the message type passed was seen in the current transaction epoch.
func (s *Session) Count(t uint32) int {
	return s.counter.Count(t)
}

// evaluate runs the guard for the message kind, then the timing balance.
func (s *Session) evaluate(msg Message, opts *Options) (punishment.Verdict, bool) {
	if msg.Kind < kindCount {
		if g := guards[msg.Kind]; g != nil {
			if v, ok := g(s, msg, s.ticks.CurrentTick()); ok {
				return v, true
			}
		}
	}
	if msg.Kind == KindMovement && opts.TimerEnabled {
		return s.checkBalance(msg)
	}
	return punishment.Verdict{}, false
}

// scheduleReset makes sure the frequency table is cleared once the next transaction completes. A reset is
// registered at most once per transaction, so the counts are cleared once per round trip and never in the
// middle of a burst.
func (s *Session) scheduleReset() {
	next := s.txs.LastSent() + 1
	if s.resetScheduled == next {
		return
	}
	if s.txs.OnComplete(next, s.counter.Reset) {
		s.resetScheduled = next
	}
}

func (s *Session) checkBalance(msg Message) (punishment.Verdict, bool) {
	reached, exceeded := s.balance.Move(msg.Time, s.conn.JoinTime())
	if !exceeded {
		return punishment.Verdict{}, false
	}

	severity := punishment.SeverityMitigate
	if s.violations > KickViolationThreshold {
		severity = punishment.SeverityKick
	}
	extra := orderedmap.NewOrderedMap[string, any]()
	extra.Set("balance", reached)
	extra.Set("violations", s.violations)
	return s.emit(fmt.Sprintf("Movement frequency: bal:~%d", reached), severity, extra), true
}

func (s *Session) guardBookEdit(msg Message, tick int64) (punishment.Verdict, bool) {
	if !s.bookEdits.Spamming(tick) {
		return punishment.Verdict{}, false
	}
	reason := "Spammed edit book"
	if msg.Kind == KindBookPayload {
		reason = "Spammed payload"
	}
	return s.emit(reason, punishment.SeverityKick, tickExtra(msg, tick)), true
}

func (s *Session) guardCraftRequest(msg Message, tick int64) (punishment.Verdict, bool) {
	if !s.recipes.Spamming(tick) {
		return punishment.Verdict{}, false
	}
	v := s.emit("Spammed recipe request", punishment.SeverityMitigate, tickExtra(msg, tick))
	return v.WithEffects(punishment.EffectRefreshInventory), true
}

func (s *Session) guardDropItem(msg Message, tick int64) (punishment.Verdict, bool) {
	if s.conn.Spectator() {
		return punishment.Verdict{}, false
	}
	count, spamming := s.drops.Hit(tick)
	if !spamming {
		return punishment.Verdict{}, false
	}
	extra := tickExtra(msg, tick)
	extra.Set("count", count)
	return s.emit("Spammed item drop", punishment.SeverityKick, extra), true
}

// emit creates a verdict and counts it towards the session's violations.
func (s *Session) emit(reason string, severity punishment.Severity, extra *orderedmap.OrderedMap[string, any]) punishment.Verdict {
	s.violations++
	return punishment.NewVerdict(reason, severity, extra)
}

func tickExtra(msg Message, tick int64) *orderedmap.OrderedMap[string, any] {
	extra := orderedmap.NewOrderedMap[string, any]()
	extra.Set("type", msg.Name)
	extra.Set("tick", tick)
	return extra
}

package transaction

import (
	"math/rand/v2"
	"sync"

	"github.com/oomph-ac/pacer/assert"
	"github.com/oomph-ac/pacer/oerror"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/sasha-s/go-deadlock"
)

const (
	ACK_DIVIDER = 1_000
	// MAX_UNANSWERED_TICKS is the amount of ticks a client may leave sent transactions unanswered
	// before it is considered unresponsive.
	MAX_UNANSWERED_TICKS = 200
)

var batchPool = sync.Pool{
	New: func() any {
		return &batch{callbacks: make([]func(), 0, 4)}
	},
}

// Options configures how timestamps of a Tracker are encoded for the client.
type Options struct {
	// Legacy is true for clients that round NetworkStackLatency timestamps to the nearest thousand.
	Legacy bool
	// Orbis is true for PlayStation clients, which scale echoed timestamps differently.
	Orbis bool
}

// Tracker tracks server -> client round trips ("transactions") for a single connection. Every
// transaction has a sequential id and a random NetworkStackLatency timestamp. Callbacks registered
// against an id become ready once the client echoes that transaction (or any later one, as the
// client answers in order), and are run by the connection's own processing through Drain.
//
// Tracker is safe for concurrent use. Callbacks are never run while the internal lock is held.
type Tracker struct {
	mu   deadlock.Mutex
	opts Options

	current *batch
	pending []*batch
	ready   []func()

	lastSent      int64
	lastCompleted int64

	ticksSinceResponse int64
}

// New returns a new Tracker. The first transaction has id 1.
func New(opts Options) *Tracker {
	t := &Tracker{
		opts:    opts,
		pending: make([]*batch, 0),
	}
	t.refresh()
	return t
}

// Next returns the id of the transaction that will be sent on the next Flush.
func (t *Tracker) Next() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current.id
}

// LastSent returns the id of the last transaction sent to the client, or 0 if none was sent yet.
func (t *Tracker) LastSent() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastSent
}

// LastCompleted returns the id of the last transaction the client answered.
func (t *Tracker) LastCompleted() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastCompleted
}

// Add registers f to run once the next transaction completes.
func (t *Tracker) Add(f func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current.callbacks = append(t.current.callbacks, f)
}

// OnComplete registers f to run once the transaction with the id passed completes. If that transaction
// already completed, f runs on the next Drain. OnComplete returns false and drops f if the id is past
// Next, as no such transaction can be scheduled yet.
func (t *Tracker) OnComplete(id int64, f func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case id <= t.lastCompleted:
		t.ready = append(t.ready, f)
		return true
	case id == t.current.id:
		t.current.callbacks = append(t.current.callbacks, f)
		return true
	case id > t.current.id:
		return false
	}

	for _, b := range t.pending {
		if b.id == id {
			b.callbacks = append(b.callbacks, f)
			return true
		}
	}
	panic(oerror.New("transaction %d is neither pending nor completed (last completed %d, next %d)", id, t.lastCompleted, t.current.id))
}

// Flush closes the current transaction and returns the NetworkStackLatency packet that must be sent to
// the client for it. Flush returns nil if nothing is waiting on the current transaction.
func (t *Tracker) Flush() *packet.NetworkStackLatency {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.current.callbacks) == 0 {
		return nil
	}

	timestamp := t.current.timestamp
	if t.opts.Legacy && t.opts.Orbis {
		timestamp /= ACK_DIVIDER
	}

	t.pending = append(t.pending, t.current)
	t.lastSent = t.current.id
	t.refresh()

	return &packet.NetworkStackLatency{
		Timestamp:     timestamp,
		NeedsResponse: true,
	}
}

// Receive handles a timestamp echoed by the client. It returns true if the timestamp belonged to one of
// our transactions, in which case the packet must not be forwarded to the server. Callbacks of the
// matched transaction and of every transaction sent before it are queued for Drain.
func (t *Tracker) Receive(timestamp int64) bool {
	if !t.opts.Legacy {
		timestamp /= ACK_DIVIDER
		if !t.opts.Orbis {
			timestamp /= ACK_DIVIDER
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	index := -1
	for i, b := range t.pending {
		if b.timestamp == timestamp {
			index = i
			break
		}
	}
	if index == -1 {
		return false
	}

	// The client answers in order, so a response to this transaction means every earlier one was
	// processed as well, even if the client never echoed it.
	for _, b := range t.pending[:index+1] {
		assert.IsTrue(b.id > t.lastCompleted, "transaction %d completed twice", b.id)
		t.ready = append(t.ready, b.callbacks...)
		t.lastCompleted = b.id

		b.callbacks = b.callbacks[:0]
		b.timestamp, b.id = 0, 0
		batchPool.Put(b)
	}
	t.pending = t.pending[index+1:]
	t.ticksSinceResponse = 0
	return true
}

// Drain runs every callback whose transaction completed. It must be called from the goroutine processing
// the connection's client packets, before the packet is handled.
func (t *Tracker) Drain() {
	t.mu.Lock()
	ready := t.ready
	t.ready = nil
	t.mu.Unlock()

	for _, f := range ready {
		f()
	}
}

// Tick is called once per server tick to track how long the client has left transactions unanswered.
func (t *Tracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) > 0 {
		t.ticksSinceResponse++
	} else {
		t.ticksSinceResponse = 0
	}
}

// Responsive returns true if the client is answering transactions.
func (t *Tracker) Responsive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		return true
	}
	return t.ticksSinceResponse <= MAX_UNANSWERED_TICKS
}

// Pending returns the amount of sent transactions the client has not answered yet.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// refresh starts a new current transaction with a unique random timestamp. t.mu must be held.
func (t *Tracker) refresh() {
	b := batchPool.Get().(*batch)
	b.callbacks = b.callbacks[:0]
	b.id = t.lastSent + 1
	t.current = b

timestampLoop:
	for i := 0; i < 5; i++ {
		b.timestamp = int64(rand.Uint32()) + 1
		if t.opts.Legacy {
			// Older clients only echo timestamps rounded to the nearest thousand.
			b.timestamp *= ACK_DIVIDER
		}

		for _, other := range t.pending {
			if other.timestamp == b.timestamp {
				continue timestampLoop
			}
		}
		return
	}

	panic(oerror.New("unable to find new transaction timestamp after 5 random attempts"))
}

type batch struct {
	id        int64
	timestamp int64
	callbacks []func()
}

package frequency

import "time"

type fakeTicks struct{ tick int64 }

func (f *fakeTicks) CurrentTick() int64 { return f.tick }

// fakeTransactions mimics transaction.Tracker: callbacks registered for a transaction run when the test
// completes it.
type fakeTransactions struct {
	lastSent  int64
	callbacks map[int64][]func()
	registers int
}

func newFakeTransactions() *fakeTransactions {
	return &fakeTransactions{callbacks: make(map[int64][]func())}
}

func (f *fakeTransactions) LastSent() int64 { return f.lastSent }

func (f *fakeTransactions) OnComplete(id int64, fn func()) bool {
	if id > f.lastSent+1 {
		return false
	}
	f.registers++
	f.callbacks[id] = append(f.callbacks[id], fn)
	return true
}

// send marks the next transaction as sent to the client.
func (f *fakeTransactions) send() {
	f.lastSent++
}

// complete runs every callback up to and including id.
func (f *fakeTransactions) complete(id int64) {
	for i := int64(0); i <= id; i++ {
		for _, fn := range f.callbacks[i] {
			fn()
		}
		delete(f.callbacks, i)
	}
}

type fakeConn struct {
	spectator bool
	joined    time.Time
}

func (f *fakeConn) Spectator() bool     { return f.spectator }
func (f *fakeConn) JoinTime() time.Time { return f.joined }

type harness struct {
	s     *Session
	opts  *Options
	ticks *fakeTicks
	txs   *fakeTransactions
	conn  *fakeConn
	now   time.Time
}

func newHarness() *harness {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := &harness{
		opts:  DefaultOptions(),
		ticks: &fakeTicks{tick: 1000},
		txs:   newFakeTransactions(),
		conn:  &fakeConn{joined: now.Add(-time.Minute)},
		now:   now,
	}
	h.s = NewSession(Static(h.opts), h.ticks, h.txs, h.conn)
	return h
}

func (h *harness) message(t uint32, name string, kind Kind) Message {
	return Message{Type: t, Name: name, Kind: kind, Time: h.now}
}

// move sends a movement message after the given delay.
func (h *harness) move(after time.Duration) (bool, int64) {
	h.now = h.now.Add(after)
	_, flagged := h.s.OnInbound(h.message(1, "PlayerAuthInput", KindMovement))
	return flagged, h.s.Balance()
}

package ticker

import (
	"context"
	"testing"
	"time"

	"github.com/oomph-ac/pacer/game"
)

func TestAdvance(t *testing.T) {
	tc := New(0)
	if tc.Period() != game.TickDuration {
		t.Fatalf("expected default period %v, got %v", game.TickDuration, tc.Period())
	}
	if tc.CurrentTick() != 0 {
		t.Fatalf("expected tick 0, got %d", tc.CurrentTick())
	}
	for i := int64(1); i <= 5; i++ {
		if got := tc.Advance(); got != i {
			t.Fatalf("expected tick %d, got %d", i, got)
		}
	}
}

func TestRunIsMonotonic(t *testing.T) {
	tc := New(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		tc.Run(ctx)
		close(done)
	}()

	last := int64(0)
	deadline := time.Now().Add(time.Second)
	for tc.CurrentTick() < 5 && time.Now().Before(deadline) {
		curr := tc.CurrentTick()
		if curr < last {
			t.Fatalf("tick went backwards: %d -> %d", last, curr)
		}
		last = curr
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	if tc.CurrentTick() < 5 {
		t.Fatalf("ticker did not advance, tick=%d", tc.CurrentTick())
	}
}

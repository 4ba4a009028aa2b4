package frequency

import "testing"

func TestTickWindowHoldsOnRejection(t *testing.T) {
	w := TickWindow{Length: 20}

	if w.Spamming(100) {
		t.Fatalf("an unset window must accept the first action")
	}
	for tick := int64(101); tick < 120; tick++ {
		if !w.Spamming(tick) {
			t.Fatalf("expected action at tick %d to be spam", tick)
		}
	}
	// Rejections at 101..119 must not have moved the window.
	if w.Spamming(120) {
		t.Fatalf("expected action 20 ticks after the accepted one to pass")
	}
	if !w.Spamming(139) {
		t.Fatalf("expected window to restart at the accepted action")
	}
}

func TestTickWindowLargeTicks(t *testing.T) {
	// A connection open for several weeks.
	start := int64(20 * 60 * 60 * 24 * 40)
	w := TickWindow{Length: 10}
	if w.Spamming(start) {
		t.Fatalf("unexpected spam on first action")
	}
	if !w.Spamming(start + 9) {
		t.Fatalf("expected spam within cooldown")
	}
	if w.Spamming(start + 10) {
		t.Fatalf("expected action after cooldown to pass")
	}
}

func TestTickCounter(t *testing.T) {
	c := TickCounter{Threshold: 20}
	for i := 1; i < 20; i++ {
		count, exceeded := c.Hit(5)
		if exceeded || count != i {
			t.Fatalf("hit %d: count=%d exceeded=%v", i, count, exceeded)
		}
	}
	if count, exceeded := c.Hit(5); !exceeded || count != 20 {
		t.Fatalf("expected 20th hit to exceed, count=%d exceeded=%v", count, exceeded)
	}
	if count, exceeded := c.Hit(6); exceeded || count != 1 {
		t.Fatalf("expected counter to restart on the next tick, count=%d exceeded=%v", count, exceeded)
	}
}

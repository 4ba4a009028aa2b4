package punishment

import (
	"strings"
	"testing"

	"github.com/elliotchance/orderedmap/v2"
)

func TestVerdictIsImmutable(t *testing.T) {
	extra := orderedmap.NewOrderedMap[string, any]()
	extra.Set("count", 31)

	v := NewVerdict("Spammed edit book", SeverityKick, extra)
	extra.Set("count", 99)

	if got, _ := v.Extra().Get("count"); got != 31 {
		t.Fatalf("verdict must not observe changes to the map it was created with, got %v", got)
	}
	v.Extra().Set("count", 0)
	if got, _ := v.Extra().Get("count"); got != 31 {
		t.Fatalf("verdict must not observe changes to maps it returned, got %v", got)
	}

	withRefresh := v.WithEffects(EffectRefreshInventory)
	if v.Requests(EffectRefreshInventory) {
		t.Fatalf("WithEffects must not modify the original verdict")
	}
	if !withRefresh.Requests(EffectRefreshInventory) {
		t.Fatalf("expected copy to request an inventory refresh")
	}
}

func TestVerdictString(t *testing.T) {
	v := NewVerdict("Spammed recipe request", SeverityMitigate, nil)
	if v.String() != "Spammed recipe request (mitigate)" {
		t.Fatalf("unexpected string %q", v.String())
	}

	extra := orderedmap.NewOrderedMap[string, any]()
	extra.Set("balance", 12)
	v = NewVerdict("Movement frequency", SeverityKick, extra)
	if !strings.HasSuffix(v.String(), "[balance=12]") {
		t.Fatalf("expected diagnostics in string, got %q", v.String())
	}
}

func TestEscalator(t *testing.T) {
	e := NewEscalator()

	if a := e.Record(NewVerdict("a", SeverityMitigate, nil)); a != ActionMitigate {
		t.Fatalf("expected mitigate, got %v", a)
	}
	if a := e.Record(NewVerdict("b", SeverityMitigate, nil)); a != ActionMitigate {
		t.Fatalf("expected mitigate, got %v", a)
	}
	if e.Punished() {
		t.Fatalf("mitigations must not mark the connection as punished")
	}

	if a := e.Record(NewVerdict("c", SeverityKick, nil)); a != ActionKick {
		t.Fatalf("expected kick, got %v", a)
	}
	if !e.Punished() {
		t.Fatalf("expected connection to be punished after a kick")
	}
	if a := e.Record(NewVerdict("d", SeverityBan, nil)); a != ActionNone {
		t.Fatalf("expected no further action after a kick, got %v", a)
	}

	if e.Violations() != 3 || e.Count(SeverityMitigate) != 2 || e.Count(SeverityKick) != 1 || e.Count(SeverityBan) != 0 {
		t.Fatalf("unexpected counts: total=%d mitigate=%d kick=%d ban=%d",
			e.Violations(), e.Count(SeverityMitigate), e.Count(SeverityKick), e.Count(SeverityBan))
	}
}

func TestBanAction(t *testing.T) {
	e := NewEscalator()
	if a := e.Record(NewVerdict("x", SeverityBan, nil)); a != ActionBan {
		t.Fatalf("expected ban, got %v", a)
	}
}

func TestEscalatorPardon(t *testing.T) {
	e := NewEscalator()
	kick := NewVerdict("spam", SeverityKick, nil)
	if a := e.Record(kick); a != ActionKick {
		t.Fatalf("expected kick, got %v", a)
	}
	e.Pardon()
	if e.Punished() {
		t.Fatalf("expected escalator to be pardoned")
	}
	if a := e.Record(kick); a != ActionKick {
		t.Fatalf("expected kick after pardon, got %v", a)
	}
	if e.Count(SeverityKick) != 2 {
		t.Fatalf("expected 2 kicks recorded, got %d", e.Count(SeverityKick))
	}
}

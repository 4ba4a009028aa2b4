package player

import (
	"testing"
	"time"

	"github.com/oomph-ac/pacer/frequency"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func TestPacketName(t *testing.T) {
	if name := packetName(&packet.BookEdit{}); name != "BookEdit" {
		t.Fatalf("expected BookEdit, got %s", name)
	}
	// Cached names must not leak between packet types.
	if name := packetName(&packet.ItemStackRequest{}); name != "ItemStackRequest" {
		t.Fatalf("expected ItemStackRequest, got %s", name)
	}
	msg := clientMessage(&packet.BookEdit{}, time.Now())
	if msg.Type != packet.IDBookEdit || msg.Name != "BookEdit" {
		t.Fatalf("unexpected message %+v", msg)
	}
}

func TestClientKind(t *testing.T) {
	drop := &packet.ItemStackRequest{Requests: []protocol.ItemStackRequest{{
		Actions: []protocol.StackRequestAction{&protocol.DropStackRequestAction{Count: 1}},
	}}}
	worldDrop := &packet.InventoryTransaction{
		TransactionData: &protocol.NormalTransactionData{},
		Actions:         []protocol.InventoryAction{{SourceType: protocol.InventoryActionSourceWorld}},
	}

	var cases = []struct {
		pk   packet.Packet
		kind frequency.Kind
	}{
		{&packet.PlayerAuthInput{}, frequency.KindMovement},
		{&packet.MovePlayer{}, frequency.KindMovement},
		{&packet.BookEdit{}, frequency.KindBookEdit},
		{&packet.ScriptMessage{Identifier: "MC|BEdit"}, frequency.KindBookPayload},
		{&packet.ScriptMessage{Identifier: "MC|BSign"}, frequency.KindBookPayload},
		{&packet.ScriptMessage{Identifier: "custom:event"}, frequency.KindGeneric},
		{craftRequest(1), frequency.KindCraftRequest},
		{drop, frequency.KindDropItem},
		{worldDrop, frequency.KindDropItem},
		{&packet.InventoryTransaction{TransactionData: &protocol.NormalTransactionData{}}, frequency.KindGeneric},
		{&packet.Text{}, frequency.KindGeneric},
	}
	for _, c := range cases {
		if kind := clientKind(c.pk); kind != c.kind {
			t.Errorf("%T: expected %v, got %v", c.pk, c.kind, kind)
		}
	}
}

func TestServerKind(t *testing.T) {
	const rid = 3
	var cases = []struct {
		pk   packet.Packet
		kind frequency.Kind
	}{
		{&packet.MovePlayer{EntityRuntimeID: rid}, frequency.KindReposition},
		{&packet.MovePlayer{EntityRuntimeID: rid + 1}, frequency.KindGeneric},
		{&packet.SetActorMotion{EntityRuntimeID: rid}, frequency.KindReposition},
		{&packet.SetActorMotion{EntityRuntimeID: rid + 1}, frequency.KindGeneric},
		{&packet.CorrectPlayerMovePrediction{}, frequency.KindReposition},
		{&packet.Text{}, frequency.KindGeneric},
	}
	for _, c := range cases {
		if kind := serverKind(c.pk, rid); kind != c.kind {
			t.Errorf("%T: expected %v, got %v", c.pk, c.kind, kind)
		}
	}
}

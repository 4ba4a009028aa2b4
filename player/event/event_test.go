package event

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEventIDs(t *testing.T) {
	var events = []RemoteEvent{
		NewFlaggedEvent("Steve", "book_edit", "kick", "Spammed edit book", 1, "[]"),
		NewMitigationEvent("Steve", "craft_request", "Spammed recipe request", "[]", 3),
	}
	if events[0].ID() != EventIDFlagged || events[1].ID() != EventIDMitigation {
		t.Fatalf("unexpected event ids: %s, %s", events[0].ID(), events[1].ID())
	}
}

func TestFlaggedEventJSON(t *testing.T) {
	data, err := json.Marshal(NewFlaggedEvent("Steve", "movement", "kick", "Movement frequency: bal:~5", 101, "[bal=5]"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"player":"Steve"`, `"kind":"movement"`, `"violations":101`, `"extraData":"[bal=5]"`} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("expected %s in %s", key, data)
		}
	}
}

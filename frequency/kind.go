package frequency

import (
	"fmt"
	"time"
)

// Kind classifies a message by the guard responsible for it. Kinds are assigned by the connection when
// it decodes a packet; the engine never inspects packet contents.
type Kind uint8

const (
	// KindGeneric is any message without a dedicated guard. It is only subject to the frequency limit.
	KindGeneric Kind = iota
	// KindMovement is the periodic movement message the client sends once per client tick. It is exempt
	// from the frequency limit and feeds the timing balance instead.
	KindMovement
	// KindBookEdit is a message that edits the contents of a book.
	KindBookEdit
	// KindBookPayload is a custom payload on a book editing or signing channel.
	KindBookPayload
	// KindCraftRequest is a request to craft a recipe.
	KindCraftRequest
	// KindDropItem is a request to drop an item.
	KindDropItem
	// KindReposition is a server message that moves the client or overrides its velocity.
	KindReposition

	kindCount
)

var kindNames = [kindCount]string{
	KindGeneric:      "generic",
	KindMovement:     "movement",
	KindBookEdit:     "book_edit",
	KindBookPayload:  "book_payload",
	KindCraftRequest: "craft_request",
	KindDropItem:     "drop_item",
	KindReposition:   "reposition",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Message is a decoded message of a connection, as seen by the engine.
type Message struct {
	// Type is the protocol identifier of the message, used as key for the frequency table.
	Type uint32
	// Name is the name of the message type, matched against "TYPE:limit" configuration entries.
	Name string
	// Kind selects the guard that handles the message.
	Kind Kind
	// Time is when the message was received or sent.
	Time time.Time
}

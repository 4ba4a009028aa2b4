package player

import (
	"github.com/df-mc/dragonfly/server/event"
	oevent "github.com/oomph-ac/pacer/player/event"
	"github.com/oomph-ac/pacer/punishment"
)

// Context is the cancellable context passed to an EventHandler.
type Context = event.Context[*Player]

// EventHandler handles the events of a Player. Its methods are called from the goroutine processing the
// player's client packets, except HandleRemoteEvent, which runs on the worker pool.
type EventHandler interface {
	// HandleVerdict is called when the player's packets produced a verdict. Cancelling the context makes
	// the player ignore the verdict and forward the packet.
	HandleVerdict(ctx *Context, v punishment.Verdict)
	// HandlePunishment is called before the player is kicked or banned for a verdict. message is the
	// disconnect message shown to the client and may be changed. Cancelling the context keeps the player
	// connected.
	HandlePunishment(ctx *Context, v punishment.Verdict, message *string)
	// HandleRemoteEvent is called with events meant to be relayed elsewhere, such as a staff channel.
	HandleRemoteEvent(e oevent.RemoteEvent)
}

// NopEventHandler ...
type NopEventHandler struct{}

func (NopEventHandler) HandleVerdict(*Context, punishment.Verdict) {}
func (NopEventHandler) HandlePunishment(*Context, punishment.Verdict, *string) {}
func (NopEventHandler) HandleRemoteEvent(oevent.RemoteEvent) {}

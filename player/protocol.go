package player

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oomph-ac/pacer/frequency"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

var (
	bookPayloadIdentifiers = []string{"MC|BEdit", "MC|BSign"}
	packetNames            sync.Map
)

// packetName returns the name limits are configured with for the packet passed, e.g. "BookEdit".
func packetName(pk packet.Packet) string {
	if name, ok := packetNames.Load(pk.ID()); ok {
		return name.(string)
	}
	name := fmt.Sprintf("%T", pk)
	if i := strings.LastIndexByte(name, '.'); i != -1 {
		name = name[i+1:]
	}
	packetNames.Store(pk.ID(), name)
	return name
}

// clientMessage converts a packet sent by the client to a message of the frequency engine.
func clientMessage(pk packet.Packet, now time.Time) frequency.Message {
	return frequency.Message{
		Type: pk.ID(),
		Name: packetName(pk),
		Kind: clientKind(pk),
		Time: now,
	}
}

// serverMessage converts a packet sent to the client to a message of the frequency engine. rid is the
// runtime ID of the client's own entity.
func serverMessage(pk packet.Packet, rid uint64, now time.Time) frequency.Message {
	return frequency.Message{
		Type: pk.ID(),
		Name: packetName(pk),
		Kind: serverKind(pk, rid),
		Time: now,
	}
}

func clientKind(pk packet.Packet) frequency.Kind {
	switch pk := pk.(type) {
	case *packet.PlayerAuthInput, *packet.MovePlayer:
		return frequency.KindMovement
	case *packet.BookEdit:
		return frequency.KindBookEdit
	case *packet.ScriptMessage:
		for _, id := range bookPayloadIdentifiers {
			if strings.Contains(pk.Identifier, id) {
				return frequency.KindBookPayload
			}
		}
	case *packet.ItemStackRequest:
		return stackRequestKind(pk)
	case *packet.InventoryTransaction:
		for _, action := range pk.Actions {
			if action.SourceType == protocol.InventoryActionSourceWorld {
				return frequency.KindDropItem
			}
		}
	}
	return frequency.KindGeneric
}

// stackRequestKind classifies an item stack request. Crafting takes precedence over dropping when a
// single packet holds both.
func stackRequestKind(pk *packet.ItemStackRequest) frequency.Kind {
	kind := frequency.KindGeneric
	for _, req := range pk.Requests {
		for _, action := range req.Actions {
			switch action.(type) {
			case *protocol.CraftRecipeStackRequestAction, *protocol.AutoCraftRecipeStackRequestAction:
				return frequency.KindCraftRequest
			case *protocol.DropStackRequestAction:
				kind = frequency.KindDropItem
			}
		}
	}
	return kind
}

func serverKind(pk packet.Packet, rid uint64) frequency.Kind {
	switch pk := pk.(type) {
	case *packet.MovePlayer:
		if pk.EntityRuntimeID == rid {
			return frequency.KindReposition
		}
	case *packet.SetActorMotion:
		if pk.EntityRuntimeID == rid {
			return frequency.KindReposition
		}
	case *packet.CorrectPlayerMovePrediction:
		return frequency.KindReposition
	}
	return frequency.KindGeneric
}

package game

import "github.com/sandertv/gophertunnel/minecraft/protocol/packet"

// IsSpectator returns true if the game type given is the spectator game type. Spectators have no
// physical inventory and cannot drop items.
func IsSpectator(gameType int32) bool {
	return gameType == packet.GameTypeSpectator
}

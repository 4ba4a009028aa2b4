package player

import "github.com/sandertv/gophertunnel/minecraft/protocol/packet"

// effectiveGameMode resolves the "default" player game mode to the game mode of the world.
func effectiveGameMode(player, world int32) int32 {
	if player == packet.GameTypeDefault {
		return world
	}
	return player
}

// trackGameMode updates the game mode of the player once the client processed a game mode change sent
// by the server. The client keeps its old game mode until then.
func (p *Player) trackGameMode(pk packet.Packet) {
	var mode int32
	switch pk := pk.(type) {
	case *packet.StartGame:
		mode = effectiveGameMode(pk.PlayerGameMode, pk.WorldGameMode)
	case *packet.SetPlayerGameType:
		mode = pk.GameType
	case *packet.UpdatePlayerGameType:
		if pk.PlayerUniqueID != p.uid {
			return
		}
		mode = pk.GameType
	default:
		return
	}
	p.txs.Add(func() {
		p.gameMode.Store(mode)
	})
}

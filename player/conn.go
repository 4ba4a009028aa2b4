package player

import (
	"io"
	"time"

	"github.com/sandertv/gophertunnel/minecraft"
	"github.com/sandertv/gophertunnel/minecraft/protocol/login"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// ClientConn is the connection of the client a Player wraps. It is implemented by *minecraft.Conn.
type ClientConn interface {
	io.Closer
	WritePacket(pk packet.Packet) error
	IdentityData() login.IdentityData
	ClientData() login.ClientData
	GameData() minecraft.GameData
}

// ServerConn is the connection to the server the client is proxied to. It is implemented by
// *minecraft.Conn.
type ServerConn interface {
	io.Closer
	WritePacket(pk packet.Packet) error
}

// Banner refuses identities until a point in time.
type Banner interface {
	Ban(identity string, until time.Time)
}

// IdentityOf returns the key a client is banned and registered under: its XUID when authenticated, and
// its display name otherwise.
func IdentityOf(d login.IdentityData) string {
	if d.XUID != "" {
		return d.XUID
	}
	return d.DisplayName
}

package pacer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oomph-ac/pacer/config"
	"github.com/oomph-ac/pacer/game"
	"github.com/oomph-ac/pacer/metrics"
	"github.com/oomph-ac/pacer/player"
	"github.com/oomph-ac/pacer/registry"
	"github.com/oomph-ac/pacer/ticker"
	"github.com/sandertv/gophertunnel/minecraft"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Pacer is a proxy that sits between Bedrock clients and a server, and removes clients that send
// packets at a rate no legitimate client would.
type Pacer struct {
	log   logrus.FieldLogger
	conf  *config.Store
	ticks *ticker.Ticker

	players    *registry.Registry[*player.Player]
	playerChan chan *player.Player

	listener *minecraft.Listener
	closed   atomic.Bool
	done     chan struct{}
}

// New returns a new Pacer. The configuration store is read again on every packet, so reloading it
// applies to players that are already connected.
func New(log logrus.FieldLogger, conf *config.Store) *Pacer {
	return &Pacer{
		log:   log,
		conf:  conf,
		ticks: ticker.New(game.TickDuration),

		players:    registry.New[*player.Player](),
		playerChan: make(chan *player.Player),
		done:       make(chan struct{}),
	}
}

// Accept accepts an incoming player. It blocks until a player has spawned. Accept returns an error once
// the Pacer is closed. Players are only processed after being accepted, so Accept must be called in a loop.
func (o *Pacer) Accept() (*player.Player, error) {
	select {
	case p := <-o.playerChan:
		return p, nil
	case <-o.done:
		return nil, errors.New("pacer closed")
	}
}

// Players returns the registry of connected players. Bans issued by players are stored in it as well.
func (o *Pacer) Players() *registry.Registry[*player.Player] {
	return o.players
}

// Start listens on the local address of the configuration and proxies every connection to the remote
// address. Start blocks until ctx is cancelled or the listener fails.
func (o *Pacer) Start(ctx context.Context) error {
	conf := o.conf.Load()
	localAddr, remoteAddr := conf.LocalAddress(), conf.RemoteAddress()

	status, err := minecraft.NewForeignStatusProvider(remoteAddr)
	if err != nil {
		return fmt.Errorf("query status of %s: %w", remoteAddr, err)
	}
	serverConn, err := minecraft.Dialer{}.DialContext(ctx, "raknet", remoteAddr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", remoteAddr, err)
	}
	packs := serverConn.ResourcePacks()
	_ = serverConn.Close()

	l, err := minecraft.ListenConfig{
		StatusProvider: status,
		ResourcePacks:  packs,
	}.Listen("raknet", localAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", localAddr, err)
	}
	o.listener = l

	go o.ticks.Run(ctx)
	go func() {
		<-ctx.Done()
		_ = o.Close()
	}()

	o.log.Infof("pacer is now listening on %v and directing connections to %v", localAddr, remoteAddr)
	for {
		c, err := l.Accept()
		if err != nil {
			if o.closed.Load() {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		go o.handleConn(ctx, c.(*minecraft.Conn), l, remoteAddr)
	}
}

// Close stops the listener and disconnects every player.
func (o *Pacer) Close() error {
	if !o.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(o.done)

	o.players.Range(func(p *player.Player) bool {
		p.Disconnect("Proxy closed.")
		return true
	})
	if o.listener != nil {
		return o.listener.Close()
	}
	return nil
}

// handleConn handles a new incoming minecraft.Conn from the minecraft.Listener passed.
func (o *Pacer) handleConn(ctx context.Context, conn *minecraft.Conn, listener *minecraft.Listener, remoteAddr string) {
	identity := player.IdentityOf(conn.IdentityData())
	if remaining, banned := o.players.Banned(identity, time.Now()); banned {
		o.log.Infof("refused banned player %s (%s remaining)", conn.IdentityData().DisplayName, remaining.Round(time.Second))
		_ = listener.Disconnect(conn, fmt.Sprintf(game.ErrorBanned, remaining.Round(time.Second)))
		return
	}

	serverConn, err := minecraft.Dialer{
		IdentityData: conn.IdentityData(),
		ClientData:   conn.ClientData(),
	}.DialContext(ctx, "raknet", remoteAddr)
	if err != nil {
		o.log.Debugf("unable to dial %s for %s: %v", remoteAddr, conn.IdentityData().DisplayName, err)
		_ = listener.Disconnect(conn, "Unable to reach the server.")
		return
	}

	var g sync.WaitGroup
	var spawnErr atomic.Error
	g.Add(2)
	go func() {
		defer g.Done()
		if err := conn.StartGame(serverConn.GameData()); err != nil {
			spawnErr.Store(err)
		}
	}()
	go func() {
		defer g.Done()
		if err := serverConn.DoSpawn(); err != nil {
			spawnErr.Store(err)
		}
	}()
	g.Wait()
	if err := spawnErr.Load(); err != nil {
		o.log.Debugf("spawn of %s failed: %v", conn.IdentityData().DisplayName, err)
		_ = serverConn.Close()
		_ = listener.Disconnect(conn, "connection lost")
		return
	}

	p := player.New(conn, serverConn, player.Opts{
		Config: o.conf,
		Ticks:  o.ticks,
		Log:    o.log,
		Banner: o.players,
	})
	if !o.players.Add(identity, p) {
		_ = serverConn.Close()
		_ = listener.Disconnect(conn, game.ErrorAlreadyConnected)
		return
	}
	metrics.SetActiveConnections(o.players.Len())
	defer func() {
		o.players.Remove(identity, p)
		metrics.SetActiveConnections(o.players.Len())
	}()

	select {
	case o.playerChan <- p:
	case <-o.done:
		_ = p.Close()
		return
	}
	p.Log().Infof("%s joined the server", p.Name())
	go p.StartTicking(o.ticks.Period())

	g.Add(2)
	go func() {
		defer func() {
			_ = listener.Disconnect(conn, "connection lost")
			_ = serverConn.Close()
			g.Done()
		}()
		for {
			pk, err := conn.ReadPacket()
			if err != nil {
				return
			}
			if !p.HandleClientPacket(pk) {
				continue
			}
			if err := serverConn.WritePacket(pk); err != nil {
				var disconnect minecraft.DisconnectError
				if errors.As(err, &disconnect) {
					_ = listener.Disconnect(conn, disconnect.Error())
				}
				return
			}
		}
	}()
	go func() {
		defer func() {
			_ = serverConn.Close()
			_ = listener.Disconnect(conn, "connection lost")
			g.Done()
		}()
		for {
			pk, err := serverConn.ReadPacket()
			if err != nil {
				var disconnect minecraft.DisconnectError
				if errors.As(err, &disconnect) {
					_ = listener.Disconnect(conn, disconnect.Error())
				}
				return
			}
			if !p.HandleServerPacket(pk) {
				continue
			}
			if err := conn.WritePacket(pk); err != nil {
				return
			}
		}
	}()
	g.Wait()
	_ = p.Close()
	p.Log().Infof("%s left the server", p.Name())
}

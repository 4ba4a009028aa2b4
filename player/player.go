package player

import (
	"strings"
	"sync"
	"time"

	"github.com/oomph-ac/pacer/config"
	"github.com/oomph-ac/pacer/frequency"
	"github.com/oomph-ac/pacer/game"
	"github.com/oomph-ac/pacer/punishment"
	"github.com/oomph-ac/pacer/ticker"
	"github.com/oomph-ac/pacer/transaction"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/login"
	"github.com/sandertv/gophertunnel/minecraft/text"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

var DEFAULT_KICK_MESSAGE = text.Colourf(strings.Join([]string{
	"<red><bold>Kicked</bold></red>",
	"<red>Your client sent packets faster than the server allows.</red>",
	"<yellow>Reconnect once your connection is stable.</yellow>",
}, "\n"))

// Opts holds the collaborators of a Player.
type Opts struct {
	// Config is the configuration store the player reads its options from on every packet.
	Config *config.Store
	// Ticks is the process wide tick source.
	Ticks ticker.Source
	// Log is the logger of the process. The player adds its own name as field.
	Log logrus.FieldLogger
	// Banner receives the bans issued for the player. It may be nil, in which case bans are kicks.
	Banner Banner
}

// Player is a client connected through the proxy. It feeds the packets of the client into a frequency
// session and acts on the verdicts the session produces.
type Player struct {
	conn       ClientConn
	serverConn ServerConn

	log    logrus.FieldLogger
	conf   *config.Store
	banner Banner

	identity login.IdentityData
	rid      uint64
	uid      int64
	joined   time.Time

	txs     *transaction.Tracker
	session *frequency.Session
	// procMu serialises the session between the client and server goroutines.
	procMu    deadlock.Mutex
	escalator *punishment.Escalator

	gameMode atomic.Int32
	exempt   atomic.Bool
	bypass   atomic.Bool
	punished atomic.Bool
	closed   atomic.Bool

	hMu     sync.RWMutex
	handler EventHandler

	closeChan chan struct{}
}

// New creates a Player for the connections passed. Game data of the client connection must be available,
// meaning the connection was spawned.
func New(conn ClientConn, serverConn ServerConn, opts Opts) *Player {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Config == nil {
		// An empty path never fails to load.
		opts.Config, _ = config.NewStore("", opts.Log)
	}
	if opts.Ticks == nil {
		opts.Ticks = ticker.New(game.TickDuration)
	}

	identity := conn.IdentityData()
	data := conn.GameData()
	p := &Player{
		conn:       conn,
		serverConn: serverConn,

		log:    opts.Log.WithField("player", identity.DisplayName),
		conf:   opts.Config,
		banner: opts.Banner,

		identity: identity,
		rid:      data.EntityRuntimeID,
		uid:      data.EntityUniqueID,
		joined:   time.Now(),

		txs: transaction.New(transaction.Options{
			Orbis: conn.ClientData().DeviceOS == protocol.DeviceOrbis,
		}),
		escalator: punishment.NewEscalator(),
		handler:   NopEventHandler{},
		closeChan: make(chan struct{}),
	}
	p.session = frequency.NewSession(opts.Config, opts.Ticks, p.txs, p)
	p.gameMode.Store(effectiveGameMode(data.PlayerGameMode, data.WorldGameMode))
	return p
}

// Name returns the display name of the player.
func (p *Player) Name() string {
	return p.identity.DisplayName
}

// Identity returns the key the player is registered and banned under.
func (p *Player) Identity() string {
	return IdentityOf(p.identity)
}

// Log ...
func (p *Player) Log() logrus.FieldLogger {
	return p.log
}

// Conn returns the connection of the client.
func (p *Player) Conn() ClientConn {
	return p.conn
}

// ServerConn returns the connection to the server.
func (p *Player) ServerConn() ServerConn {
	return p.serverConn
}

// JoinTime returns when the player was created.
func (p *Player) JoinTime() time.Time {
	return p.joined
}

// Spectator returns true if the client acknowledged being in spectator mode.
func (p *Player) Spectator() bool {
	return game.IsSpectator(p.gameMode.Load())
}

// GameMode returns the game mode the client last acknowledged.
func (p *Player) GameMode() int32 {
	return p.gameMode.Load()
}

// SetExempt exempts the player from all checks, or lifts the exemption.
func (p *Player) SetExempt(exempt bool) {
	p.exempt.Store(exempt)
}

// Exempt ...
func (p *Player) Exempt() bool {
	return p.exempt.Load()
}

// SetBypass marks the player as holding the bypass permission. The permission only has effect while
// enable-bypass-permission is set.
func (p *Player) SetBypass(bypass bool) {
	p.bypass.Store(bypass)
}

// Punished returns true once the player was kicked or banned.
func (p *Player) Punished() bool {
	return p.punished.Load()
}

// Closed returns true once the player's connections were closed.
func (p *Player) Closed() bool {
	return p.closed.Load()
}

// Done returns a channel that is closed when the player is closed.
func (p *Player) Done() <-chan struct{} {
	return p.closeChan
}

// Transactions returns the transaction tracker of the player.
func (p *Player) Transactions() *transaction.Tracker {
	return p.txs
}

// Session returns the frequency session of the player.
func (p *Player) Session() *frequency.Session {
	return p.session
}

// Escalator returns the punishment escalator of the player.
func (p *Player) Escalator() *punishment.Escalator {
	return p.escalator
}

// Handle sets the event handler of the player. A nil handler resets it to a NopEventHandler.
func (p *Player) Handle(h EventHandler) {
	if h == nil {
		h = NopEventHandler{}
	}
	p.hMu.Lock()
	p.handler = h
	p.hMu.Unlock()
}

// Handler returns the current event handler of the player.
func (p *Player) Handler() EventHandler {
	p.hMu.RLock()
	defer p.hMu.RUnlock()
	return p.handler
}

// skipChecks returns true if the engine should not see the player's packets.
func (p *Player) skipChecks() bool {
	if p.exempt.Load() {
		return true
	}
	return p.bypass.Load() && p.conf.Load().BypassEnabled()
}

package player

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/df-mc/dragonfly/server/event"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/pacer/frequency"
	"github.com/oomph-ac/pacer/game"
	"github.com/oomph-ac/pacer/metrics"
	oevent "github.com/oomph-ac/pacer/player/event"
	"github.com/oomph-ac/pacer/punishment"
	"github.com/oomph-ac/pacer/utils"
	"github.com/oomph-ac/pacer/worker"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// HandleClientPacket processes a packet sent by the client. It returns true if the packet should be
// forwarded to the server and false if it should be dropped.
func (p *Player) HandleClientPacket(pk packet.Packet) (forward bool) {
	defer p.recoverError()

	start := time.Now()
	defer func() {
		metrics.ObserveProcessing(time.Since(start))
	}()
	metrics.RecordPacket("client")

	// Callbacks of answered transactions run before anything else, so that the packet is judged with the
	// state the client had when sending it.
	p.txs.Drain()
	if latency, ok := pk.(*packet.NetworkStackLatency); ok && p.txs.Receive(latency.Timestamp) {
		return false
	}
	if p.punished.Load() {
		return false
	}
	if p.skipChecks() {
		return true
	}

	msg := clientMessage(pk, start)
	p.procMu.Lock()
	v, flagged := p.session.OnInbound(msg)
	p.procMu.Unlock()
	if !flagged {
		return true
	}
	return p.handleVerdict(pk, msg, v)
}

// HandleServerPacket processes a packet sent by the server. It returns true if the packet should be
// forwarded to the client.
func (p *Player) HandleServerPacket(pk packet.Packet) (forward bool) {
	defer p.recoverError()
	metrics.RecordPacket("server")

	p.trackGameMode(pk)

	msg := serverMessage(pk, p.rid, time.Now())
	p.procMu.Lock()
	p.session.OnOutbound(msg)
	p.procMu.Unlock()
	return true
}

// handleVerdict acts on a verdict produced for the packet passed. It returns true if the packet should
// still be forwarded.
func (p *Player) handleVerdict(pk packet.Packet, msg frequency.Message, v punishment.Verdict) bool {
	metrics.RecordVerdict(msg.Kind.String(), v.Severity().String())

	ctx := event.C(p)
	p.Handler().HandleVerdict(ctx, v)
	if ctx.Cancelled() {
		return true
	}

	action := p.escalator.Record(v)
	metrics.RecordAction(action.String())

	extra := utils.OrderedMapToString(*v.Extra())
	switch action {
	case punishment.ActionNone:
		return false
	case punishment.ActionMitigate:
		p.log.Infof("%s was mitigated for %s <x%d> %s", p.Name(), v.Reason(), p.escalator.Count(punishment.SeverityMitigate), extra)
		p.sendRemoteEvent(oevent.NewMitigationEvent(p.Name(), msg.Kind.String(), v.Reason(), extra, p.escalator.Count(punishment.SeverityMitigate)))
	default:
		p.log.Warnf("%s flagged %s <x%d> %s", p.Name(), v.Reason(), p.escalator.Violations(), extra)
		p.sendRemoteEvent(oevent.NewFlaggedEvent(p.Name(), msg.Kind.String(), v.Severity().String(), v.Reason(), p.escalator.Violations(), extra))
	}

	if v.Requests(punishment.EffectRefreshInventory) {
		p.refreshInventory(pk)
	}
	if action == punishment.ActionKick || action == punishment.ActionBan {
		p.punish(v, action)
	}
	return false
}

// punish kicks or bans the player for the verdict passed, unless the event handler cancels it.
func (p *Player) punish(v punishment.Verdict, action punishment.Action) {
	ctx := event.C(p)
	message := DEFAULT_KICK_MESSAGE
	p.Handler().HandlePunishment(ctx, v, &message)
	if ctx.Cancelled() {
		p.escalator.Pardon()
		return
	}
	p.punished.Store(true)

	if action == punishment.ActionBan && p.banner != nil {
		duration := p.conf.Load().BanDuration()
		p.banner.Ban(p.Identity(), time.Now().Add(duration))
		p.log.Warnf("%s was banned for %s (%s)", p.Name(), duration, v.Reason())
	} else {
		p.log.Warnf("%s was removed from the server (%s)", p.Name(), v.Reason())
	}
	p.Disconnect(message)
}

// refreshInventory rejects every item stack request in the packet passed, which makes the client revert
// the predicted changes to its inventory.
func (p *Player) refreshInventory(pk packet.Packet) {
	req, ok := pk.(*packet.ItemStackRequest)
	if !ok {
		return
	}
	responses := make([]protocol.ItemStackResponse, 0, len(req.Requests))
	for _, r := range req.Requests {
		responses = append(responses, protocol.ItemStackResponse{
			Status:    protocol.ItemStackResponseStatusError,
			RequestID: r.RequestID,
		})
	}
	_ = p.conn.WritePacket(&packet.ItemStackResponse{Responses: responses})
}

func (p *Player) sendRemoteEvent(e oevent.RemoteEvent) {
	h := p.Handler()
	worker.Submit(func() {
		h.HandleRemoteEvent(e)
	})
}

// Tick sends the transaction batch of the current tick to the client and disconnects the client if it
// stopped answering transactions.
func (p *Player) Tick() {
	if p.closed.Load() {
		return
	}
	p.txs.Tick()
	if !p.txs.Responsive() {
		p.log.Debugf("%s left %d transactions unanswered", p.Name(), p.txs.Pending())
		p.Disconnect(game.ErrorNetworkTimeout)
		return
	}
	if pk := p.txs.Flush(); pk != nil {
		if err := p.conn.WritePacket(pk); err != nil {
			p.log.Debugf("unable to send transaction: %v", err)
		}
	}
}

// StartTicking ticks the player every period until it is closed.
func (p *Player) StartTicking(period time.Duration) {
	if period <= 0 {
		period = game.TickDuration
	}
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-p.closeChan:
			return
		case <-t.C:
			p.Tick()
		}
	}
}

// Disconnect sends a disconnect message to the client and closes the player.
func (p *Player) Disconnect(reason string) {
	if p.closed.Load() {
		return
	}
	_ = p.conn.WritePacket(&packet.Disconnect{Message: reason})
	p.Close()
}

// Close closes both connections of the player. Calling Close more than once has no effect.
func (p *Player) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(p.closeChan)

	var err error
	if cerr := p.conn.Close(); cerr != nil {
		err = fmt.Errorf("close client connection: %w", cerr)
	}
	if p.serverConn != nil {
		if cerr := p.serverConn.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close server connection: %w", cerr)
		}
	}
	return err
}

func (p *Player) recoverError() {
	v := recover()
	if v == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetTag("player", p.Name())
	hub.Recover(v)

	p.log.Errorf("panic while processing packets: %v\n%s", v, debug.Stack())
	p.Disconnect(game.ErrorInternalPanic)
}

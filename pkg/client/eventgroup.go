package client

import (
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// groupOfferReceived enables the data paths of a requested event group of an
// AVAILABLE service and moves it to REQUESTED_OFFER_RECEIVED.
func (e *Engine) groupOfferReceived(s *serviceRecord, g *groupRecord) {
	e.groupRouting(s, g, true)
	if g.cfg.Multicast != nil {
		for _, id := range g.cfg.Multicast.Conns() {
			if err := e.transport.OpenConn(id); err != nil {
				e.warnLog("open multicast connection failed", "eventGroup", g.cfg.Name, "conn", id, "error", err)
			}
		}
	}
	e.setGroupState(s, g, GroupRequestedOfferReceived, "service available")
}

// groupRouting switches the unicast routing paths of an event group.
func (e *Engine) groupRouting(s *serviceRecord, g *groupRecord, enable bool) {
	paths := []struct {
		routing sd.RoutingGroupID
		conn    sd.ConnID
	}{
		{g.tcpRouting, s.tcp},
		{g.udpRouting, s.udp},
	}
	for _, p := range paths {
		if !p.routing.Configured() || !p.conn.Valid() {
			continue
		}
		var err error
		if enable {
			err = e.transport.EnableRouting(p.routing, p.conn)
		} else {
			err = e.transport.DisableRouting(p.routing, p.conn)
		}
		if err != nil {
			e.warnLog("event group routing failed", "eventGroup", g.cfg.Name, "conn", p.conn, "enable", enable, "error", err)
		}
	}
}

// leaveOffered tears an event group down from REQUESTED_OFFER_RECEIVED,
// WAIT_FOR_AVAILABILITY or AVAILABLE. The multicast join is only released
// when no other event group uses it.
func (e *Engine) leaveOffered(s *serviceRecord, g *groupRecord) {
	switch g.state {
	case GroupAvailable:
		e.exitGroupAvailable(s, g)
	case GroupWaitForAvailability:
		e.dropMulticast(g)
	}
	s.inst.ttl.Stop(&g.ttl)
	g.retry = 0

	e.groupRouting(s, g, false)
	if g.cfg.Multicast != nil && e.mcastRefs[g.cfg.Multicast.First] == 0 {
		for _, id := range g.cfg.Multicast.Conns() {
			if err := e.transport.CloseConn(id); err != nil {
				e.warnLog("close multicast connection failed", "eventGroup", g.cfg.Name, "conn", id, "error", err)
			}
		}
	}
}

// disableGroups takes the event groups of a service that leaves AVAILABLE
// back to REQUESTED_NO_OFFER, or to RELEASED when the service is released.
func (e *Engine) disableGroups(s *serviceRecord, isStop bool) {
	groups := e.groupsOf(s)
	for i := range groups {
		g := &groups[i]
		if g.state.offered() {
			e.leaveOffered(s, g)
			if isStop && g.ack != AckNone {
				e.markPendingStop(s, g)
			}
			g.ack = AckNone
			e.setGroupState(s, g, GroupRequestedNoOffer, "service unavailable")
		}
		if isStop && g.state != GroupReleased {
			e.setGroupState(s, g, GroupReleased, "service released")
		}
	}
}

// releaseGroup moves an event group to RELEASED and schedules a
// STOP-SUBSCRIBE if a SUBSCRIBE was sent for it.
func (e *Engine) releaseGroup(s *serviceRecord, g *groupRecord) {
	if g.state.offered() {
		e.leaveOffered(s, g)
		if g.ack != AckNone {
			e.markPendingStop(s, g)
		}
		g.ack = AckNone
	}
	g.ackEvent = ackEvent{}
	e.setGroupState(s, g, GroupReleased, "released")
}

// markPendingStop schedules a STOP-SUBSCRIBE for the next response-timer
// expiry of the service's remote node. The unicast connections are captured
// now since they may be released before the entry goes out.
func (e *Engine) markPendingStop(s *serviceRecord, g *groupRecord) {
	if s.node < 0 {
		return
	}
	g.pendingStop = true
	g.stopUDP, g.stopTCP = e.entryConns(s, g)
	e.restartResponse(s, 1)
}

// applyAck applies a subscription acknowledgement. Acknowledgements for
// event groups without a SUBSCRIBE in flight are dropped.
func (e *Engine) applyAck(s *serviceRecord, g *groupRecord, ev ackEvent) {
	if s.phase != PhaseAvailable || !g.state.offered() || g.ack == AckNone {
		e.debugLog("acknowledgement dropped",
			"service", s.cfg.Name,
			"eventGroup", g.cfg.Name,
			"state", g.state.String(),
			"ack", g.ack.String())
		return
	}
	if ev.ttl == 0 {
		g.retry = 0
		d := groupDiag(sd.DiagSubscribeNack, s, g)
		if s.node >= 0 {
			d.Peer = s.inst.nodes[s.node].addr
		}
		e.report(d)
		return
	}

	mcastRouting := g.mcastRouting.Configured() && g.multicastConn().Valid()
	hasMcast := ev.multicast.IsValid()
	if hasMcast && !mcastRouting {
		return
	}
	if !hasMcast && !g.udpRouting.Configured() && !g.tcpRouting.Configured() {
		return
	}

	g.retry = 0
	if g.state == GroupRequestedOfferReceived {
		if mcastRouting && hasMcast {
			if !e.requestMulticast(s, g, ev.multicast) {
				return
			}
			e.setGroupState(s, g, GroupWaitForAvailability, "acknowledged, multicast pending")
		} else {
			e.setGroupState(s, g, GroupAvailable, "acknowledged")
			e.modes.EventGroupMode(g.handle, sd.Available)
		}
	}
	e.armGroupTTL(s, g, ev.ttl)
	g.ack = AckReceived
}

// requestMulticast makes the event group a holder of its multicast
// connection. Only the first holder requests the address.
func (e *Engine) requestMulticast(s *serviceRecord, g *groupRecord, addr netip.AddrPort) bool {
	id := g.multicastConn()
	if e.mcastRefs[id] == 0 {
		if err := e.transport.RequestMulticastAddr(id, addr); err != nil {
			d := groupDiag(sd.DiagMulticastRequestFailed, s, g)
			d.Peer = addr
			d.Detail = err.Error()
			e.report(d)
			return false
		}
	}
	e.mcastRefs[id]++
	g.mcast = id
	return true
}

func (e *Engine) armGroupTTL(s *serviceRecord, g *groupRecord, ttl uint32) {
	s.inst.ttl.Arm(&g.ttl, e.ttlTicks(ttl))
}

// groupAvailable completes WAIT_FOR_AVAILABILITY once the multicast
// connection left OFFLINE.
func (e *Engine) groupAvailable(s *serviceRecord, g *groupRecord) {
	if err := e.transport.EnableRouting(g.mcastRouting, g.mcast); err != nil {
		e.warnLog("multicast routing failed", "eventGroup", g.cfg.Name, "conn", g.mcast, "error", err)
	}
	e.setGroupState(s, g, GroupAvailable, "multicast online")
	e.modes.EventGroupMode(g.handle, sd.Available)
}

// exitGroupAvailable leaves AVAILABLE and drops the multicast holding.
func (e *Engine) exitGroupAvailable(s *serviceRecord, g *groupRecord) {
	e.modes.EventGroupMode(g.handle, sd.Down)
	e.dropMulticast(g)
}

// dropMulticast gives up the multicast holding of an event group in
// WAIT_FOR_AVAILABILITY or AVAILABLE.
func (e *Engine) dropMulticast(g *groupRecord) {
	if !g.mcast.Valid() {
		return
	}
	id := g.mcast
	g.mcast = sd.NoConn
	if g.state == GroupAvailable {
		if err := e.transport.DisableRouting(g.mcastRouting, id); err != nil {
			e.warnLog("multicast routing failed", "eventGroup", g.cfg.Name, "conn", id, "error", err)
		}
	}
	if e.mcastRefs[id] > 0 {
		e.mcastRefs[id]--
	}
	e.releaseMulticastAddr(id)
}

// releaseMulticastAddr drops the multicast address of a connection that no
// event group holds anymore.
func (e *Engine) releaseMulticastAddr(id sd.ConnID) {
	if !id.Valid() || e.mcastRefs[id] > 0 {
		return
	}
	delete(e.mcastRefs, id)
	if err := e.transport.ReleaseMulticastAddr(id); err != nil {
		e.warnLog("release multicast address failed", "conn", id, "error", err)
	}
}

// groupTTLExpired handles the run-out of a subscription TTL. The group
// waits for the next offer to subscribe again.
func (e *Engine) groupTTLExpired(s *serviceRecord, g *groupRecord) {
	switch g.state {
	case GroupAvailable:
		e.exitGroupAvailable(s, g)
	case GroupWaitForAvailability:
		e.dropMulticast(g)
	default:
		return
	}
	e.setGroupState(s, g, GroupRequestedOfferReceived, "subscription expired")
}

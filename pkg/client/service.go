package client

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/delta"
	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// connCheck is the result of checking the unicast connections of a service
// before it becomes AVAILABLE.
type connCheck uint8

const (
	connsOnline connCheck = iota
	connsPending
	connsFailed
)

// startService leaves DOWN. openConns opens the configured unicast
// connection groups; a START that follows a STOP in the same cycle finds
// them open already.
func (e *Engine) startService(s *serviceRecord, openConns bool) {
	if s.phase != PhaseDown {
		return
	}
	if openConns {
		e.openConnGroup(s, s.cfg.UDP)
		e.openConnGroup(s, s.cfg.TCP)
	}
	if s.offerReceived {
		e.setPhase(s, PhaseMain, "start with offer held")
		s.inst.setOffers(s, offerEvents{multicast: true})
		return
	}
	e.enterInitialWait(s, "start")
}

func (e *Engine) openConnGroup(s *serviceRecord, g *sd.ConnGroup) {
	if g == nil {
		return
	}
	for _, id := range g.Conns() {
		if err := e.transport.OpenConn(id); err != nil {
			e.warnLog("open connection failed", "service", s.cfg.Name, "conn", id, "error", err)
		}
	}
}

func (e *Engine) closeConnGroup(s *serviceRecord, g *sd.ConnGroup) {
	if g == nil {
		return
	}
	for _, id := range g.Conns() {
		if err := e.transport.CloseConn(id); err != nil {
			e.warnLog("close connection failed", "service", s.cfg.Name, "conn", id, "error", err)
		}
	}
}

// enterInitialWait arms the randomized initial FIND delay.
func (e *Engine) enterInitialWait(s *serviceRecord, reason string) {
	s.repetition = 0
	d := e.rand.Between(s.timing.findMin, s.timing.findMax) + 1
	s.inst.sm.Arm(&s.smTimer, d)
	e.setPhase(s, PhaseInitialWait, reason)
}

// eventStop takes a service DOWN. isStop distinguishes a release of the
// service from an instance halt; followedByStart keeps the connection
// groups open and, for a release, the bound connections and held offer.
func (e *Engine) eventStop(s *serviceRecord, isStop, followedByStart bool) {
	if s.phase == PhaseAvailable {
		e.exitAvailable(s, isStop, false)
	}
	if isStop {
		e.releaseGroups(s)
	}
	if !isStop && s.node >= 0 {
		e.dropNode(s)
	}
	if !(isStop && followedByStart) {
		e.releaseConns(s)
	}
	if !followedByStart {
		e.closeConnGroup(s, s.cfg.UDP)
		e.closeConnGroup(s, s.cfg.TCP)
	}
	s.subscribe = subscribeNoAction
	e.setPhase(s, PhaseDown, stopReason(isStop))
}

func stopReason(isStop bool) string {
	if isStop {
		return "released"
	}
	return "halted"
}

// releaseGroups moves every event group of a released service to RELEASED.
func (e *Engine) releaseGroups(s *serviceRecord) {
	groups := e.groupsOf(s)
	for i := range groups {
		g := &groups[i]
		if g.state != GroupReleased {
			e.releaseGroup(s, g)
		}
	}
}

// eventOffer handles an accepted OFFER. It reports true when the unicast
// connections are not online and the offer must be evaluated again in the
// next cycle. A refresh OFFER of an AVAILABLE service polls the held
// connections as well.
func (e *Engine) eventOffer(s *serviceRecord, multicast bool) bool {
	switch s.phase {
	case PhaseDown:
		return false
	case PhaseAvailable:
		if !e.heldConnsOnline(s) {
			e.connectionLost(s)
			return true
		}
	case PhaseInitialWait, PhaseRepetition, PhaseMain:
		e.setPhase(s, PhaseMain, "offer")
		switch e.checkConns(s) {
		case connsPending:
			return true
		case connsFailed:
			return false
		}
		e.entryAvailable(s)
	}

	// AVAILABLE: answer the offer with the subscriptions of the service.
	if multicast {
		s.subscribe = subscribeMulticastResponse
		e.restartResponse(s, e.rand.Between(s.timing.respMin, s.timing.respMax))
	} else {
		s.subscribe = subscribeNormal
		e.restartResponse(s, 1)
	}
	return false
}

// checkConns binds missing unicast connections to the endpoints of the
// held offer and checks that every held connection is online. A service
// without unicast connections is viable at once.
func (e *Engine) checkConns(s *serviceRecord) connCheck {
	if err := e.bindConns(s); err != nil {
		return connsFailed
	}
	if !e.heldConnsOnline(s) {
		return connsPending
	}
	return connsOnline
}

// heldConnsOnline polls the transport for the bound unicast connections.
func (e *Engine) heldConnsOnline(s *serviceRecord) bool {
	for _, id := range []sd.ConnID{s.udp, s.tcp} {
		if id.Valid() && e.transport.ConnMode(id) != sd.ConnModeOnline {
			return false
		}
	}
	return true
}

// bindConns binds the configured unicast connection groups to the endpoints
// of the held offer. On failure nothing stays bound by this call.
func (e *Engine) bindConns(s *serviceRecord) error {
	var boundUDP bool
	if s.cfg.UDP != nil && !s.udp.Valid() && s.udpEndpoint.IsValid() {
		id, err := e.transport.BindRemote(*s.cfg.UDP, s.udpEndpoint)
		if err != nil {
			e.bindFailed(s, sd.DiagOutOfResourcesUDP, err)
			return err
		}
		s.udp = id
		boundUDP = true
	}
	if s.cfg.TCP != nil && !s.tcp.Valid() && s.tcpEndpoint.IsValid() {
		id, err := e.transport.BindRemote(*s.cfg.TCP, s.tcpEndpoint)
		if err != nil {
			if boundUDP {
				e.transport.ReleaseRemote(s.udp)
				s.udp = sd.NoConn
			}
			e.bindFailed(s, sd.DiagOutOfResourcesTCP, err)
			return err
		}
		s.tcp = id
	}
	return nil
}

func (e *Engine) bindFailed(s *serviceRecord, kind sd.DiagnosticKind, err error) {
	d := serviceDiag(kind, s)
	if s.node >= 0 {
		d.Peer = s.inst.nodes[s.node].addr
	}
	if errors.Is(err, sd.ErrConnBusy) {
		d.Detail = "connection group busy"
	} else {
		d.Detail = err.Error()
	}
	e.report(d)
}

// releaseConns drops the remote bindings of the unicast connections.
func (e *Engine) releaseConns(s *serviceRecord) {
	if s.udp.Valid() {
		e.transport.ReleaseRemote(s.udp)
		s.udp = sd.NoConn
	}
	if s.tcp.Valid() {
		e.transport.ReleaseRemote(s.tcp)
		s.tcp = sd.NoConn
	}
}

// entryAvailable enables the service routing and offers the service to its
// requested event groups.
func (e *Engine) entryAvailable(s *serviceRecord) {
	e.serviceRouting(s, true)
	e.setPhase(s, PhaseAvailable, "connections online")
	s.retryActive = s.inst.cfg.RetriesEnabled()
	e.modes.ClientServiceMode(s.handle, sd.Available)

	groups := e.groupsOf(s)
	for i := range groups {
		g := &groups[i]
		if g.state == GroupRequestedNoOffer {
			e.groupOfferReceived(s, g)
		}
	}
}

// exitAvailable leaves AVAILABLE. isStop releases the event groups as well;
// pendingOffer keeps the unicast connections for an OFFER handled in the
// same cycle.
func (e *Engine) exitAvailable(s *serviceRecord, isStop, pendingOffer bool) {
	e.disableGroups(s, isStop)
	e.modes.ClientServiceMode(s.handle, sd.Down)
	e.serviceRouting(s, false)
	if !pendingOffer {
		if !isStop {
			e.releaseConns(s)
		}
		s.retryActive = false
	}
}

func (e *Engine) serviceRouting(s *serviceRecord, enable bool) {
	if !s.routing.Configured() {
		return
	}
	for _, id := range []sd.ConnID{s.udp, s.tcp} {
		if !id.Valid() {
			continue
		}
		var err error
		if enable {
			err = e.transport.EnableRouting(s.routing, id)
		} else {
			err = e.transport.DisableRouting(s.routing, id)
		}
		if err != nil {
			e.warnLog("service routing failed", "service", s.cfg.Name, "conn", id, "enable", enable, "error", err)
		}
	}
}

// eventStopOffer leaves AVAILABLE for MAIN on a STOP-OFFER. offerFollows
// keeps the connections for the OFFER that superseded it.
func (e *Engine) eventStopOffer(s *serviceRecord, offerFollows bool) {
	if s.phase == PhaseAvailable {
		e.setPhase(s, PhaseMain, "stop offer")
		e.exitAvailable(s, false, offerFollows)
	}
	s.subscribe = subscribeNoAction
}

// dropOffer forgets the held offer after a final STOP-OFFER.
func (e *Engine) dropOffer(s *serviceRecord) {
	if s.node >= 0 {
		e.dropNode(s)
	}
	e.releaseConns(s)
	s.inst.ttl.Stop(&s.ttl)
	s.offerReceived = false
	e.clearAckEvents(s)
}

// connectionLost leaves AVAILABLE when a held unicast connection is no
// longer online. The connections and the offer are kept and the offer is
// evaluated again until the connection recovers.
func (e *Engine) connectionLost(s *serviceRecord) {
	if s.phase != PhaseAvailable {
		return
	}
	if e.checkConns(s) == connsOnline {
		return
	}
	e.setPhase(s, PhaseMain, "connection lost")
	e.exitAvailable(s, false, true)
	if s.offerReceived {
		s.inst.setOffers(s, offerEvents{unicast: true})
	}
}

func (e *Engine) clearAckEvents(s *serviceRecord) {
	groups := e.groupsOf(s)
	for i := range groups {
		groups[i].ackEvent = ackEvent{}
	}
}

// smTimeout handles the expiry of the state-machine timer: the initial FIND
// and the FIND repetitions.
func (e *Engine) smTimeout(s *serviceRecord) {
	switch s.phase {
	case PhaseInitialWait:
		e.queueFind(s)
		if s.timing.repMax > 0 {
			s.repetition = 0
			s.inst.sm.Arm(&s.smTimer, s.timing.repBase)
			e.setPhase(s, PhaseRepetition, "initial wait elapsed")
			return
		}
		e.setPhase(s, PhaseMain, "initial wait elapsed")
	case PhaseRepetition:
		e.queueFind(s)
		s.repetition++
		if s.repetition >= s.timing.repMax {
			e.setPhase(s, PhaseMain, "repetitions done")
			return
		}
		s.inst.sm.Arm(&s.smTimer, delta.Repetition(s.timing.repBase, s.repetition))
	}
}

func (e *Engine) queueFind(s *serviceRecord) {
	entry := sd.FindEntry{
		Service:      s.handle,
		ServiceID:    s.cfg.ServiceID,
		InstanceID:   s.cfg.InstanceID,
		MajorVersion: s.cfg.MajorVersion,
		MinorVersion: s.cfg.MinorVersion,
		TTL:          s.cfg.Timer.TTL,
	}
	e.sender.QueueFind(s.inst.handle, entry)

	minor := entry.MinorVersion
	e.traceMessage(s.inst, s, log.DirectionOut, netip.AddrPort{}, log.MessageEvent{
		Entry:        log.EntryFind,
		ServiceID:    entry.ServiceID,
		InstanceID:   entry.InstanceID,
		MajorVersion: entry.MajorVersion,
		MinorVersion: &minor,
		TTL:          entry.TTL,
		Multicast:    true,
	})
}

// offerExpired handles the run-out of the offer TTL.
func (e *Engine) offerExpired(s *serviceRecord) {
	if s.requested && s.phase != PhaseDown {
		d := serviceDiag(sd.DiagServerNotAvailable, s)
		if s.node >= 0 {
			d.Peer = s.inst.nodes[s.node].addr
		}
		d.Detail = fmt.Sprintf("offer expired in %s", s.phase)
		e.report(d)
	}

	switch s.phase {
	case PhaseMain:
		e.enterInitialWait(s, "offer expired")
	case PhaseAvailable:
		e.enterInitialWait(s, "offer expired")
		e.exitAvailable(s, false, false)
		s.subscribe = subscribeNoAction
		e.clearAckEvents(s)
		if s.ackPending {
			s.inst.setAckPending(s, false)
		}
	}

	if s.node >= 0 {
		e.dropNode(s)
	}
	s.offerReceived = false
	e.releaseConns(s)
}

package client

import (
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/delta"
	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// remoteNode aggregates the services of an instance that hold an offer from
// one peer. SUBSCRIBEs to the peer are batched on its response timer and
// retried on its retry timer.
type remoteNode struct {
	addr   netip.AddrPort
	offers int

	respTimer  delta.Ticks
	retryTimer delta.Ticks

	// connReady is set once the transport reported the connections toward
	// the peer usable, or gave up waiting.
	connReady bool
	readyWait delta.Ticks
}

// allocNode returns the node for peer, binding a free one if needed. It
// returns -1 when the table is full.
func (in *instanceRecord) allocNode(peer netip.AddrPort) int {
	for i := range in.nodes {
		if in.nodes[i].offers > 0 && in.nodes[i].addr == peer {
			return i
		}
	}
	free := -1
	for i := range in.nodes {
		n := &in.nodes[i]
		if n.offers > 0 {
			continue
		}
		if n.addr == peer {
			free = i
			break
		}
		if free < 0 {
			free = i
		}
	}
	if free < 0 {
		return -1
	}
	in.nodes[free] = remoteNode{addr: peer, readyWait: in.readyTimeout}
	return free
}

// dropNode detaches a service from its remote node. The node's timers stop
// with its last service.
func (e *Engine) dropNode(s *serviceRecord) {
	in := s.inst
	n := &in.nodes[s.node]
	n.offers--
	if n.offers <= 0 {
		n.offers = 0
		in.resp.Stop(&n.respTimer)
		in.retry.Stop(&n.retryTimer)
	}
	s.node = -1

	groups := e.groupsOf(s)
	for i := range groups {
		groups[i].pendingStop = false
		groups[i].retry = 0
	}
}

// restartResponse schedules the response timer of the service's node. A
// running timer is only ever shortened.
func (e *Engine) restartResponse(s *serviceRecord, v delta.Ticks) {
	if s.node < 0 {
		return
	}
	if v == 0 {
		v = 1
	}
	in := s.inst
	n := &in.nodes[s.node]
	if n.respTimer.Active() && in.resp.Left(n.respTimer) <= v {
		return
	}
	in.resp.Arm(&n.respTimer, v)
}

// responseExpired sends the pending STOP-SUBSCRIBEs and SUBSCRIBEs of every
// service bound to node idx once the transport reports it ready. A running
// retry timer keeps its deadline and retries the new SUBSCRIBEs with it.
func (e *Engine) responseExpired(in *instanceRecord, idx int) {
	n := &in.nodes[idx]
	if !n.connReady {
		switch e.transport.ConnectionReady(n.addr) {
		case sd.Ready:
			n.connReady = true
		case sd.Pending:
			if n.readyWait > 0 {
				n.readyWait--
				in.resp.Arm(&n.respTimer, 1)
				return
			}
			n.connReady = true
			e.report(sd.Diagnostic{
				Kind:     sd.DiagConnectionSetupFailed,
				Instance: in.handle,
				Peer:     n.addr,
			})
		default:
			e.report(sd.Diagnostic{
				Kind:     sd.DiagConnectionNotReady,
				Instance: in.handle,
				Peer:     n.addr,
			})
			return
		}
	}

	started := false
	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		if s.node == idx && e.sendSubscribes(s) {
			started = true
		}
	}
	if started && in.retryDelay > 0 && !n.retryTimer.Active() {
		in.retry.Arm(&n.retryTimer, in.retryDelay+1)
	}
}

// sendSubscribes queues the pending STOP-SUBSCRIBEs of a service, then the
// SUBSCRIBEs its subscribe disposition asks for. It reports whether retries
// were started.
func (e *Engine) sendSubscribes(s *serviceRecord) bool {
	groups := e.groupsOf(s)
	for i := range groups {
		g := &groups[i]
		if g.pendingStop {
			g.pendingStop = false
			e.queueSubscribe(s, g, true, g.stopUDP, g.stopTCP)
		}
	}

	if s.subscribe != subscribeNormal && s.subscribe != subscribeMulticastResponse {
		return false
	}

	started := false
	switch {
	case s.phase == PhaseAvailable:
		for i := range groups {
			g := &groups[i]
			if !g.state.offered() {
				continue
			}
			udp, tcp := e.entryConns(s, g)
			if s.subscribe == subscribeMulticastResponse && g.ack == AckPending {
				e.queueSubscribe(s, g, true, udp, tcp)
			}
			g.ack = AckPending
			e.queueSubscribe(s, g, false, udp, tcp)
			if s.retryActive {
				g.retry = 1
				started = true
			}
		}
		s.subscribe = subscribeSent
	case s.requested && s.offerReceived:
		s.subscribe = subscribeNormal
		e.restartResponse(s, 1)
	default:
		s.subscribe = subscribeNoAction
	}
	return started
}

// entryConns returns the unicast connections whose endpoints go into the
// entries of an event group.
func (e *Engine) entryConns(s *serviceRecord, g *groupRecord) (udp, tcp sd.ConnID) {
	udp, tcp = sd.NoConn, sd.NoConn
	if g.udpRouting.Configured() {
		udp = s.udp
	}
	if g.tcpRouting.Configured() {
		tcp = s.tcp
	}
	return udp, tcp
}

func (e *Engine) queueSubscribe(s *serviceRecord, g *groupRecord, stop bool, udp, tcp sd.ConnID) {
	if s.node < 0 {
		return
	}
	peer := s.inst.nodes[s.node].addr
	entry := sd.SubscribeEntry{
		Service:      s.handle,
		EventGroup:   g.handle,
		ServiceID:    s.cfg.ServiceID,
		InstanceID:   s.cfg.InstanceID,
		MajorVersion: s.cfg.MajorVersion,
		EventGroupID: g.cfg.EventGroupID,
		UDP:          udp,
		TCP:          tcp,
		Stop:         stop,
	}
	typ := log.EntryStopSubscribe
	if !stop {
		entry.TTL = s.cfg.Timer.TTL
		typ = log.EntrySubscribe
	}
	e.sender.QueueSubscribe(s.inst.handle, peer, entry)

	egID := entry.EventGroupID
	e.traceMessage(s.inst, s, log.DirectionOut, peer, log.MessageEvent{
		Entry:        typ,
		ServiceID:    entry.ServiceID,
		InstanceID:   entry.InstanceID,
		MajorVersion: entry.MajorVersion,
		EventGroupID: &egID,
		TTL:          entry.TTL,
	})
}

// retryExpired repeats the unacknowledged subscriptions of node idx as
// STOP-SUBSCRIBE followed by SUBSCRIBE.
func (e *Engine) retryExpired(in *instanceRecord, idx int) {
	remaining := false
	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		if s.node != idx {
			continue
		}
		groups := e.groupsOf(s)
		for k := range groups {
			g := &groups[k]
			if g.retry == 0 {
				continue
			}
			if g.retry > in.retryMax {
				g.retry = 0
				d := groupDiag(sd.DiagSubscribeRetriesExceeded, s, g)
				d.Peer = in.nodes[idx].addr
				e.report(d)
				continue
			}
			if in.retryMax == config.InfiniteRetries && g.retry == config.InfiniteRetries {
				g.retry = 1
			} else {
				g.retry++
			}
			if s.phase == PhaseAvailable && g.state.offered() {
				udp, tcp := e.entryConns(s, g)
				e.queueSubscribe(s, g, true, udp, tcp)
				e.queueSubscribe(s, g, false, udp, tcp)
			}
			remaining = true
		}
	}
	if remaining {
		in.retry.Arm(&in.nodes[idx].retryTimer, in.retryDelay)
	}
}

// checkRetryConsistency reports retry settings that cannot work with the
// TTL of an accepted offer.
func (e *Engine) checkRetryConsistency(s *serviceRecord, ttl uint32, multicast bool) {
	in := s.inst
	if !in.cfg.RetriesEnabled() || ttl == sd.InfiniteTTL {
		return
	}
	if in.retryMax == config.InfiniteRetries {
		e.report(serviceDiag(sd.DiagRetryInfiniteTTLFinite, s))
		return
	}
	if !multicast {
		return
	}
	need := uint64(s.timing.respMin) + uint64(in.retryDelay)*uint64(in.retryMax)
	if uint64(e.ttlTicks(ttl)) <= need {
		e.report(serviceDiag(sd.DiagRetryExceedsTTL, s))
	}
}

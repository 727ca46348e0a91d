package client

import (
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/quickmatch"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Inbound entries are matched, recorded and left to the next event cycle.
// Entries for unknown or halted instances and entries that match no
// configured service are dropped.

func (e *Engine) instance(h sd.InstanceHandle) *instanceRecord {
	if int(h) >= len(e.instances) {
		return nil
	}
	return e.instances[h]
}

func (e *Engine) match(in *instanceRecord, info sd.ServiceInfo, ep sd.EndpointInfo, minor uint32, checkMinor bool) *serviceRecord {
	h, ok := in.index.Lookup(quickmatch.Query{
		ServiceID:    info.ServiceID,
		InstanceID:   info.InstanceID,
		MajorVersion: info.MajorVersion,
		MinorVersion: minor,
		Capability:   ep.Capability,
		CheckMinor:   checkMinor,
	})
	if !ok {
		e.debugLog("entry matches no client service", "instance", in.cfg.Name, "service", info.String())
		return nil
	}
	return &e.services[h]
}

func offerMessage(entry log.EntryType, info sd.ServiceInfo, ttl, minor uint32, multicast bool) log.MessageEvent {
	return log.MessageEvent{
		Entry:        entry,
		ServiceID:    info.ServiceID,
		InstanceID:   info.InstanceID,
		MajorVersion: info.MajorVersion,
		MinorVersion: &minor,
		TTL:          ttl,
		Multicast:    multicast,
	}
}

// OnOfferReceived records an OFFER received on instance inst from peer.
// An OFFER with TTL zero is a STOP-OFFER.
func (e *Engine) OnOfferReceived(inst sd.InstanceHandle, info sd.ServiceInfo, ep sd.EndpointInfo, ttl, minor uint32, peer netip.AddrPort, multicast bool) {
	if ttl == 0 {
		e.OnStopOfferReceived(inst, info, ep, minor, peer)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.instance(inst)
	if in == nil {
		return
	}
	s := e.match(in, info, ep, minor, true)
	e.traceMessage(in, s, log.DirectionIn, peer, offerMessage(log.EntryOffer, info, ttl, minor, multicast))
	if s == nil || !in.addressAssigned {
		return
	}

	fresh := false
	if s.node >= 0 {
		if in.nodes[s.node].addr != peer {
			e.debugLog("offer from second peer ignored",
				"service", s.cfg.Name,
				"peer", peer.String(),
				"bound", in.nodes[s.node].addr.String())
			return
		}
	} else {
		idx := in.allocNode(peer)
		if idx < 0 {
			d := serviceDiag(sd.DiagRemoteNodesExhausted, s)
			d.Peer = peer
			e.report(d)
			return
		}
		in.nodes[idx].offers++
		s.node = idx
		fresh = true
	}

	s.udpEndpoint = ep.UDP
	s.tcpEndpoint = ep.TCP
	if s.phase != PhaseDown {
		if err := e.bindConns(s); err != nil {
			if fresh {
				e.dropNode(s)
			}
			return
		}
	}

	in.ttl.Arm(&s.ttl, e.ttlTicks(ttl))
	s.offerReceived = true
	if fresh {
		e.checkRetryConsistency(s, ttl, multicast)
	}

	o := s.offers
	o.stopFinal = false
	if multicast {
		o.multicast = true
	} else {
		o.unicast = true
	}
	in.setOffers(s, o)
}

// OnStopOfferReceived records a STOP-OFFER received on instance inst from
// peer. It only affects a service holding an offer from that peer.
func (e *Engine) OnStopOfferReceived(inst sd.InstanceHandle, info sd.ServiceInfo, ep sd.EndpointInfo, minor uint32, peer netip.AddrPort) {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.instance(inst)
	if in == nil {
		return
	}
	s := e.match(in, info, ep, minor, true)
	e.traceMessage(in, s, log.DirectionIn, peer, offerMessage(log.EntryStopOffer, info, 0, minor, false))
	if s == nil || s.node < 0 || in.nodes[s.node].addr != peer {
		return
	}
	e.markStopOffer(s)
}

func (e *Engine) markStopOffer(s *serviceRecord) {
	o := s.offers
	o.unicast = false
	o.multicast = false
	o.stopOffer = true
	o.stopFinal = true
	s.inst.setOffers(s, o)
}

// OnSubscribeAckReceived records a subscription acknowledgement for event
// group egID received on instance inst from peer. TTL zero is a negative
// acknowledgement.
func (e *Engine) OnSubscribeAckReceived(inst sd.InstanceHandle, info sd.ServiceInfo, ep sd.EndpointInfo, ttl, minor uint32, egID uint16, peer netip.AddrPort) {
	e.mu.Lock()
	defer e.mu.Unlock()

	in := e.instance(inst)
	if in == nil {
		return
	}
	s := e.match(in, info, ep, minor, false)

	entry := log.EntrySubscribeAck
	if ttl == 0 {
		entry = log.EntrySubscribeNack
	}
	msg := offerMessage(entry, info, ttl, minor, ep.Multicast.IsValid())
	msg.EventGroupID = &egID
	e.traceMessage(in, s, log.DirectionIn, peer, msg)

	if s == nil || !in.addressAssigned || s.node < 0 || in.nodes[s.node].addr != peer {
		return
	}
	groups := e.groupsOf(s)
	for i := range groups {
		g := &groups[i]
		if g.cfg.EventGroupID != egID {
			continue
		}
		g.ackEvent = ackEvent{valid: true, ttl: ttl, multicast: ep.Multicast}
		in.setAckPending(s, true)
		return
	}
}

// OnPeerRebooted sends every service bound to peer through the STOP-OFFER
// path.
func (e *Engine) OnPeerRebooted(peer netip.AddrPort) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range e.instances {
		for idx := range in.nodes {
			n := &in.nodes[idx]
			if n.offers == 0 || n.addr != peer {
				continue
			}
			e.traceControl(in, nil, log.ControlPeerReboot, nil)
			n.connReady = false
			n.readyWait = in.readyTimeout

			services := e.servicesOf(in)
			for i := range services {
				if services[i].node == idx {
					e.markStopOffer(&services[i])
				}
			}
		}
	}
}

// OnConnModeChanged tells the engine that a transport connection changed
// mode. An AVAILABLE service holding the connection falls back to MAIN in
// the next cycle when the connection is no longer online.
func (e *Engine) OnConnModeChanged(id sd.ConnID, mode sd.ConnMode) {
	if mode == sd.ConnModeOnline || !id.Valid() {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.services {
		s := &e.services[i]
		if s.phase != PhaseAvailable || (s.udp != id && s.tcp != id) {
			continue
		}
		o := s.offers
		o.connLost = true
		s.inst.setOffers(s, o)
	}
}

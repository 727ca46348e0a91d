package client

import "github.com/someip-sd/sdclient-go/pkg/sd"

// The event counters of an instance count services, not events: a service
// adds one to pendingControl while any control event is set, and one to
// pendingProtocol while any offer event or acknowledgement is set. The
// setters below keep them exact on every edge.

func (in *instanceRecord) setControl(s *serviceRecord, c controlEvents) {
	was := s.control.pending()
	s.control = c
	now := c.pending()
	switch {
	case !was && now:
		in.pendingControl++
	case was && !now:
		in.pendingControl--
	}
}

func (s *serviceRecord) protocolPending() bool {
	return s.offers.pending() || s.ackPending
}

func (in *instanceRecord) setOffers(s *serviceRecord, o offerEvents) {
	was := s.protocolPending()
	s.offers = o
	in.protocolEdge(was, s.protocolPending())
}

func (in *instanceRecord) setAckPending(s *serviceRecord, v bool) {
	was := s.protocolPending()
	s.ackPending = v
	in.protocolEdge(was, s.protocolPending())
}

func (in *instanceRecord) protocolEdge(was, now bool) {
	switch {
	case !was && now:
		in.pendingProtocol++
	case was && !now:
		in.pendingProtocol--
	}
}

// RunEventCycle processes the control requests and protocol events recorded
// since the previous cycle. Events raised while the cycle runs are handled
// in the next one.
func (e *Engine) RunEventCycle() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range e.instances {
		e.eventCycle(in)
	}
	e.checkInvariants()
}

func (e *Engine) eventCycle(in *instanceRecord) {
	control, protocol := in.pendingControl, in.pendingProtocol
	if control == 0 && protocol == 0 {
		return
	}

	services := e.servicesOf(in)
	for i := range services {
		if control == 0 && protocol == 0 {
			break
		}
		s := &services[i]

		if s.protocolPending() {
			protocol--
		}
		if s.control.pending() {
			control--
			c := s.control
			in.setControl(s, controlEvents{})
			e.processControl(s, c)
		}

		// A START that finds a held offer raises an offer event; it is
		// handled right away so the service reaches MAIN and AVAILABLE in
		// one cycle.
		if !s.protocolPending() {
			continue
		}
		o, ack := s.offers, s.ackPending
		in.setOffers(s, offerEvents{})
		in.setAckPending(s, false)
		if o.pending() {
			e.processOffers(s, o)
		}
		if ack {
			e.processAcks(s)
		}
	}
}

// processControl applies the coalesced control events of a service. HALT
// supersedes STOP; a START queued behind either is applied after it.
func (e *Engine) processControl(s *serviceRecord, c controlEvents) {
	in := s.inst
	switch {
	case c.halt:
		in.sm.Stop(&s.smTimer)
		e.eventStop(s, false, c.start)
		if c.start {
			e.enterInitialWait(s, "restart after halt")
		}
		return
	case c.stop:
		in.sm.Stop(&s.smTimer)
		e.eventStop(s, true, c.start)
	}
	if c.start {
		e.startService(s, !c.stop)
	}
}

// processOffers applies the coalesced offer events of a service. A
// superseded STOP-OFFER leaves AVAILABLE without releasing the connections
// the following OFFER reuses.
func (e *Engine) processOffers(s *serviceRecord, o offerEvents) {
	in := s.inst

	if o.connLost {
		e.connectionLost(s)
	}
	if o.stopOffer {
		e.eventStopOffer(s, !o.stopFinal)
	}
	if (o.unicast || o.multicast) && s.offerReceived {
		in.sm.Stop(&s.smTimer)
		if e.eventOffer(s, !o.unicast) {
			in.setOffers(s, offerEvents{unicast: o.unicast, multicast: o.multicast})
		}
	}
	if o.stopFinal {
		e.eventStopOffer(s, false)
		e.dropOffer(s)
	}
}

// processAcks applies recorded subscription acknowledgements, then promotes
// event groups whose multicast connection became usable.
func (e *Engine) processAcks(s *serviceRecord) {
	groups := e.groupsOf(s)
	for i := range groups {
		g := &groups[i]
		if !g.ackEvent.valid {
			continue
		}
		ev := g.ackEvent
		g.ackEvent = ackEvent{}
		e.applyAck(s, g, ev)
	}

	waiting := false
	for i := range groups {
		g := &groups[i]
		if g.state != GroupWaitForAvailability {
			continue
		}
		if e.transport.ConnMode(g.multicastConn()) == sd.ConnModeOffline {
			waiting = true
			continue
		}
		e.groupAvailable(s, g)
	}
	if waiting {
		s.inst.setAckPending(s, true)
	}
}

package client

import (
	"fmt"

	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// SetClientServiceState requests or releases a client service. The request
// takes effect in the next event cycle; repeating the current disposition
// has no effect. While the instance has no address only the disposition is
// recorded.
func (e *Engine) SetClientServiceState(h sd.ServiceHandle, d sd.Disposition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if int(h) >= len(e.services) {
		return fmt.Errorf("%w: service %d", ErrInvalidHandle, h)
	}
	s := &e.services[h]
	want := d == sd.Requested
	if s.requested == want {
		return nil
	}
	s.requested = want

	handle := uint16(h)
	typ := log.ControlRelease
	if want {
		typ = log.ControlRequest
	}
	e.traceControl(s.inst, s, typ, &handle)

	in := s.inst
	if !in.addressAssigned {
		return nil
	}
	c := s.control
	switch {
	case want && s.phase == PhaseDown:
		c = controlEvents{start: true}
	case want:
		c.start = true
	case s.phase != PhaseDown:
		c.start = false
		if !c.halt {
			c.stop = true
		}
	default:
		c = controlEvents{}
	}
	in.setControl(s, c)
	return nil
}

// SetConsumedEventGroupState requests or releases a consumed event group.
// Requesting a group of a released service fails with ErrServiceReleased.
func (e *Engine) SetConsumedEventGroupState(h sd.EventGroupHandle, d sd.Disposition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if int(h) >= len(e.groups) {
		return fmt.Errorf("%w: event group %d", ErrInvalidHandle, h)
	}
	g := &e.groups[h]
	s := &e.services[g.service]

	if d == sd.Released {
		if g.state == GroupReleased {
			return nil
		}
		e.releaseGroup(s, g)
		return nil
	}

	if g.state != GroupReleased {
		return nil
	}
	if !s.requested {
		return fmt.Errorf("%w: %s", ErrServiceReleased, s.cfg.Name)
	}
	e.setGroupState(s, g, GroupRequestedNoOffer, "requested")
	if s.phase == PhaseAvailable {
		e.groupOfferReceived(s, g)
		s.subscribe = subscribeNormal
		e.restartResponse(s, 1)
	}
	return nil
}

// StartAllServices starts every instance.
func (e *Engine) StartAllServices() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range e.instances {
		e.startInstance(in)
	}
}

// HaltAllServices halts every instance.
func (e *Engine) HaltAllServices() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, in := range e.instances {
		e.haltInstance(in)
	}
}

// StartInstance marks the named instance as having a local address and
// starts its requested services.
func (e *Engine) StartInstance(name string) error {
	h, err := e.InstanceHandle(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.startInstance(e.instances[h])
	return nil
}

// HaltInstance takes the named instance down, for example when its link
// is lost.
func (e *Engine) HaltInstance(name string) error {
	h, err := e.InstanceHandle(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.haltInstance(e.instances[h])
	return nil
}

func (e *Engine) startInstance(in *instanceRecord) {
	if in.addressAssigned {
		return
	}
	in.addressAssigned = true
	e.traceControl(in, nil, log.ControlStart, nil)

	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		if !s.requested {
			continue
		}
		c := s.control
		c.start = true
		in.setControl(s, c)
	}
}

func (e *Engine) haltInstance(in *instanceRecord) {
	if !in.addressAssigned {
		return
	}
	in.addressAssigned = false
	e.traceControl(in, nil, log.ControlHalt, nil)

	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		if s.phase != PhaseDown {
			in.setControl(s, controlEvents{halt: true})
			continue
		}
		c := s.control
		c.start = false
		in.setControl(s, c)
	}
	e.resetAfterHalt(in)
}

// resetAfterHalt drops everything learned from the network: offer and
// acknowledgement events, multicast holdings, retry bookkeeping and every
// running timer. Services that are not DOWN are taken down by the HALT
// event in the next cycle.
func (e *Engine) resetAfterHalt(in *instanceRecord) {
	services := e.servicesOf(in)
	for i := range services {
		s := &services[i]
		s.subscribe = subscribeNoAction
		s.offerReceived = false
		s.retryActive = false
		in.setOffers(s, offerEvents{})
		in.setAckPending(s, false)
		in.sm.Stop(&s.smTimer)
		in.ttl.Stop(&s.ttl)
		if s.phase == PhaseDown && s.node >= 0 {
			e.dropNode(s)
		}

		groups := e.groupsOf(s)
		for k := range groups {
			g := &groups[k]
			g.pendingStop = false
			g.retry = 0
			in.ttl.Stop(&g.ttl)
			g.ackEvent = ackEvent{}
			e.dropMulticast(g)
		}
	}
	for i := range in.nodes {
		in.resp.Stop(&in.nodes[i].respTimer)
		in.retry.Stop(&in.nodes[i].retryTimer)
	}
	in.sm.Reset()
	in.ttl.Reset()
	in.resp.Reset()
	in.retry.Reset()
}

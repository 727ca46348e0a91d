package client

import (
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

func (e *Engine) debugLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

func (e *Engine) warnLog(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// event returns a trace event stamped with the engine identity.
func (e *Engine) event(in *instanceRecord, dir log.Direction, layer log.Layer, cat log.Category) log.Event {
	ev := log.Event{
		Timestamp: e.clock.Now(),
		RunID:     e.runID.String(),
		Direction: dir,
		Layer:     layer,
		Category:  cat,
		Tick:      e.tick,
	}
	if in != nil {
		ev.Instance = in.cfg.Name
	}
	return ev
}

func (e *Engine) emit(ev log.Event) {
	if e.trace != nil {
		e.trace.Log(ev)
	}
}

func peerString(p netip.AddrPort) string {
	if !p.IsValid() {
		return ""
	}
	return p.String()
}

func (e *Engine) setPhase(s *serviceRecord, p Phase, reason string) {
	if s.phase == p {
		return
	}
	old := s.phase
	s.phase = p

	e.debugLog("service phase",
		"instance", s.inst.cfg.Name,
		"service", s.cfg.Name,
		"from", old.String(),
		"to", p.String(),
		"reason", reason)

	if e.trace == nil {
		return
	}
	ev := e.event(s.inst, log.DirectionLocal, log.LayerService, log.CategoryState)
	ev.Service = s.cfg.Name
	ev.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityService,
		Handle:   uint16(s.handle),
		OldState: old.String(),
		NewState: p.String(),
		Reason:   reason,
	}
	e.emit(ev)
}

func (e *Engine) setGroupState(s *serviceRecord, g *groupRecord, st GroupState, reason string) {
	if g.state == st {
		return
	}
	old := g.state
	g.state = st

	e.debugLog("event group state",
		"instance", s.inst.cfg.Name,
		"service", s.cfg.Name,
		"eventGroup", g.cfg.Name,
		"from", old.String(),
		"to", st.String(),
		"reason", reason)

	if e.trace == nil {
		return
	}
	ev := e.event(s.inst, log.DirectionLocal, log.LayerEventGroup, log.CategoryState)
	ev.Service = s.cfg.Name
	ev.StateChange = &log.StateChangeEvent{
		Entity:   log.StateEntityEventGroup,
		Handle:   uint16(g.handle),
		OldState: old.String(),
		NewState: st.String(),
		Reason:   reason,
	}
	e.emit(ev)
}

func (e *Engine) traceControl(in *instanceRecord, s *serviceRecord, typ log.ControlType, handle *uint16) {
	if e.trace == nil {
		return
	}
	layer := log.LayerInstance
	if s != nil {
		layer = log.LayerService
	}
	ev := e.event(in, log.DirectionIn, layer, log.CategoryControl)
	if s != nil {
		ev.Service = s.cfg.Name
	}
	ev.Control = &log.ControlEvent{Type: typ, Handle: handle}
	e.emit(ev)
}

func (e *Engine) traceMessage(in *instanceRecord, s *serviceRecord, dir log.Direction, peer netip.AddrPort, msg log.MessageEvent) {
	if e.trace == nil {
		return
	}
	layer := log.LayerService
	if msg.EventGroupID != nil {
		layer = log.LayerEventGroup
	}
	ev := e.event(in, dir, layer, log.CategoryMessage)
	if s != nil {
		ev.Service = s.cfg.Name
	}
	ev.Peer = peerString(peer)
	ev.Message = &msg
	e.emit(ev)
}

// report forwards a diagnostic to the Diagnostics collaborator and the trace.
func (e *Engine) report(d sd.Diagnostic) {
	e.diags.Report(d)

	var in *instanceRecord
	if int(d.Instance) < len(e.instances) {
		in = e.instances[d.Instance]
	}
	args := []any{"kind", d.Kind.String()}
	if in != nil {
		args = append(args, "instance", in.cfg.Name)
	}
	if d.HasService {
		args = append(args, "service", e.services[d.Service].cfg.Name)
	}
	if d.HasEventGroup {
		args = append(args, "eventGroup", e.groups[d.EventGroup].cfg.Name)
	}
	if d.Peer.IsValid() {
		args = append(args, "peer", d.Peer.String())
	}
	if d.Detail != "" {
		args = append(args, "detail", d.Detail)
	}
	e.warnLog("diagnostic", args...)

	if e.trace == nil {
		return
	}
	layer := log.LayerInstance
	switch {
	case d.HasEventGroup:
		layer = log.LayerEventGroup
	case d.HasService:
		layer = log.LayerService
	case d.Peer.IsValid():
		layer = log.LayerRemoteNode
	}
	ev := e.event(in, log.DirectionLocal, layer, log.CategoryError)
	if d.HasService {
		ev.Service = e.services[d.Service].cfg.Name
	}
	ev.Peer = peerString(d.Peer)
	code := int(d.Kind)
	ev.Error = &log.ErrorEventData{
		Layer:   layer,
		Message: d.Kind.String(),
		Code:    &code,
		Context: d.Detail,
	}
	e.emit(ev)
}

// serviceDiag builds a diagnostic scoped to a service.
func serviceDiag(kind sd.DiagnosticKind, s *serviceRecord) sd.Diagnostic {
	return sd.Diagnostic{
		Kind:       kind,
		Instance:   s.inst.handle,
		Service:    s.handle,
		HasService: true,
	}
}

// groupDiag builds a diagnostic scoped to an event group.
func groupDiag(kind sd.DiagnosticKind, s *serviceRecord, g *groupRecord) sd.Diagnostic {
	d := serviceDiag(kind, s)
	d.EventGroup = g.handle
	d.HasEventGroup = true
	return d
}

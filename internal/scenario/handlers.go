package scenario

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Action names.
const (
	ActionStart      = "start"
	ActionHalt       = "halt"
	ActionRequest    = "request"
	ActionRelease    = "release"
	ActionOffer      = "offer"
	ActionStopOffer  = "stop_offer"
	ActionAck        = "ack"
	ActionNack       = "nack"
	ActionPeerReboot = "peer_reboot"
	ActionConnMode   = "conn_mode"
	ActionReadiness  = "readiness"
	ActionBusy       = "busy"
	ActionRun        = "run"
	ActionEventCycle = "event_cycle"
	ActionTimerCycle = "timer_cycle"
	ActionTTLCycle   = "ttl_cycle"
)

const (
	defaultOfferTTL   = 3
	defaultCycleCount = 1
)

type instanceParams struct {
	Instance string `yaml:"instance"`
}

type controlParams struct {
	Instance string `yaml:"instance"`
	Service  string `yaml:"service"`
	Group    string `yaml:"group"`
}

type offerParams struct {
	Instance   string  `yaml:"instance"`
	Service    string  `yaml:"service"`
	Peer       string  `yaml:"peer"`
	UDP        string  `yaml:"udp"`
	TCP        string  `yaml:"tcp"`
	TTL        *uint32 `yaml:"ttl"`
	Minor      *uint32 `yaml:"minor"`
	Multicast  bool    `yaml:"multicast"`
	Capability string  `yaml:"capability"`
}

type ackParams struct {
	Instance      string  `yaml:"instance"`
	Service       string  `yaml:"service"`
	EventGroupID  uint16  `yaml:"event_group_id"`
	Peer          string  `yaml:"peer"`
	TTL           *uint32 `yaml:"ttl"`
	MulticastAddr string  `yaml:"multicast_addr"`
}

type peerParams struct {
	Peer string `yaml:"peer"`
}

type connModeParams struct {
	Conn sd.ConnID `yaml:"conn"`
	Mode string    `yaml:"mode"`

	// Notify also tells the engine about the change.
	Notify bool `yaml:"notify"`
}

type readinessParams struct {
	Values []string `yaml:"values"`
}

type busyParams struct {
	Conn sd.ConnID `yaml:"conn"`
	Busy *bool     `yaml:"busy"`
}

type countParams struct {
	Ticks int `yaml:"ticks"`
}

func registerHandlers(r *Runner) {
	r.RegisterHandler(ActionStart, handleStart)
	r.RegisterHandler(ActionHalt, handleHalt)
	r.RegisterHandler(ActionRequest, handleDisposition(sd.Requested))
	r.RegisterHandler(ActionRelease, handleDisposition(sd.Released))
	r.RegisterHandler(ActionOffer, handleOffer)
	r.RegisterHandler(ActionStopOffer, handleStopOffer)
	r.RegisterHandler(ActionAck, handleAck(false))
	r.RegisterHandler(ActionNack, handleAck(true))
	r.RegisterHandler(ActionPeerReboot, handlePeerReboot)
	r.RegisterHandler(ActionConnMode, handleConnMode)
	r.RegisterHandler(ActionReadiness, handleReadiness)
	r.RegisterHandler(ActionBusy, handleBusy)
	r.RegisterHandler(ActionRun, handleCycles(func(st *State) { st.Engine.MainFunction() }))
	r.RegisterHandler(ActionEventCycle, handleCycles(func(st *State) { st.Engine.RunEventCycle() }))
	r.RegisterHandler(ActionTimerCycle, handleCycles(func(st *State) { st.Engine.RunTimerCycle() }))
	r.RegisterHandler(ActionTTLCycle, handleCycles(func(st *State) { st.Engine.RunTTLCycle() }))
}

func handleStart(_ context.Context, step *Step, st *State) error {
	var p instanceParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	if p.Instance == "" {
		st.Engine.StartAllServices()
		return nil
	}
	return st.Engine.StartInstance(p.Instance)
}

func handleHalt(_ context.Context, step *Step, st *State) error {
	var p instanceParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	if p.Instance == "" {
		st.Engine.HaltAllServices()
		return nil
	}
	return st.Engine.HaltInstance(p.Instance)
}

func handleDisposition(d sd.Disposition) ActionHandler {
	return func(_ context.Context, step *Step, st *State) error {
		var p controlParams
		if err := decode(step.Params, &p); err != nil {
			return err
		}
		_, h, err := st.service(p.Instance, p.Service)
		if err != nil {
			return err
		}
		if p.Group == "" {
			return st.Engine.SetClientServiceState(h, d)
		}
		eg, err := st.Engine.EventGroupHandle(h, p.Group)
		if err != nil {
			return err
		}
		return st.Engine.SetConsumedEventGroupState(eg, d)
	}
}

func handleOffer(_ context.Context, step *Step, st *State) error {
	var p offerParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	svc, _, err := st.service(p.Instance, p.Service)
	if err != nil {
		return err
	}
	inst, peer, err := st.inbound(p.Instance, p.Peer)
	if err != nil {
		return err
	}
	ep := sd.EndpointInfo{Capability: p.Capability}
	if ep.UDP, err = parseAddr(p.UDP); err != nil {
		return err
	}
	if ep.TCP, err = parseAddr(p.TCP); err != nil {
		return err
	}

	ttl := uint32(defaultOfferTTL)
	if p.TTL != nil {
		ttl = *p.TTL
	}
	st.Engine.OnOfferReceived(inst, serviceInfo(svc.ServiceID, svc.InstanceID, svc.MajorVersion),
		ep, ttl, minorOf(p.Minor, svc.MinorVersion), peer, p.Multicast)
	return nil
}

func handleStopOffer(_ context.Context, step *Step, st *State) error {
	var p offerParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	svc, _, err := st.service(p.Instance, p.Service)
	if err != nil {
		return err
	}
	inst, peer, err := st.inbound(p.Instance, p.Peer)
	if err != nil {
		return err
	}
	st.Engine.OnStopOfferReceived(inst, serviceInfo(svc.ServiceID, svc.InstanceID, svc.MajorVersion),
		sd.EndpointInfo{}, minorOf(p.Minor, svc.MinorVersion), peer)
	return nil
}

func handleAck(negative bool) ActionHandler {
	return func(_ context.Context, step *Step, st *State) error {
		var p ackParams
		if err := decode(step.Params, &p); err != nil {
			return err
		}
		svc, _, err := st.service(p.Instance, p.Service)
		if err != nil {
			return err
		}
		inst, peer, err := st.inbound(p.Instance, p.Peer)
		if err != nil {
			return err
		}
		var ep sd.EndpointInfo
		if ep.Multicast, err = parseAddr(p.MulticastAddr); err != nil {
			return err
		}

		ttl := uint32(defaultOfferTTL)
		if p.TTL != nil {
			ttl = *p.TTL
		}
		if negative {
			ttl = 0
		}
		st.Engine.OnSubscribeAckReceived(inst, serviceInfo(svc.ServiceID, svc.InstanceID, svc.MajorVersion),
			ep, ttl, minorOf(nil, svc.MinorVersion), p.EventGroupID, peer)
		return nil
	}
}

func handlePeerReboot(_ context.Context, step *Step, st *State) error {
	var p peerParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	peer, err := netip.ParseAddrPort(p.Peer)
	if err != nil {
		return fmt.Errorf("peer: %w", err)
	}
	st.Engine.OnPeerRebooted(peer)
	return nil
}

func handleConnMode(_ context.Context, step *Step, st *State) error {
	var p connModeParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	mode, err := parseConnMode(p.Mode)
	if err != nil {
		return err
	}
	st.Recorder.SetConnMode(p.Conn, mode)
	if p.Notify {
		st.Engine.OnConnModeChanged(p.Conn, mode)
	}
	return nil
}

func handleReadiness(_ context.Context, step *Step, st *State) error {
	var p readinessParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	values := make([]sd.Readiness, 0, len(p.Values))
	for _, v := range p.Values {
		r, err := parseReadiness(v)
		if err != nil {
			return err
		}
		values = append(values, r)
	}
	st.Recorder.QueueReadiness(values...)
	return nil
}

func handleBusy(_ context.Context, step *Step, st *State) error {
	var p busyParams
	if err := decode(step.Params, &p); err != nil {
		return err
	}
	busy := true
	if p.Busy != nil {
		busy = *p.Busy
	}
	st.Recorder.SetBusy(p.Conn, busy)
	return nil
}

func handleCycles(cycle func(*State)) ActionHandler {
	return func(ctx context.Context, step *Step, st *State) error {
		p := countParams{Ticks: defaultCycleCount}
		if err := decode(step.Params, &p); err != nil {
			return err
		}
		for i := 0; i < p.Ticks; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			cycle(st)
		}
		return nil
	}
}

// inbound resolves the instance handle and peer of an inbound entry.
func (st *State) inbound(instance, peer string) (sd.InstanceHandle, netip.AddrPort, error) {
	inst, err := st.instance(instance)
	if err != nil {
		return 0, netip.AddrPort{}, err
	}
	h, err := st.Engine.InstanceHandle(inst.Name)
	if err != nil {
		return 0, netip.AddrPort{}, err
	}
	addr, err := netip.ParseAddrPort(peer)
	if err != nil {
		return 0, netip.AddrPort{}, fmt.Errorf("peer: %w", err)
	}
	return h, addr, nil
}

func serviceInfo(serviceID, instanceID uint16, major uint8) sd.ServiceInfo {
	return sd.ServiceInfo{ServiceID: serviceID, InstanceID: instanceID, MajorVersion: major}
}

// minorOf picks the explicit minor version, else the configured one, else 0
// when any minor version is accepted.
func minorOf(explicit *uint32, configured uint32) uint32 {
	if explicit != nil {
		return *explicit
	}
	if configured == sd.AnyMinor {
		return 0
	}
	return configured
}

func parseAddr(s string) (netip.AddrPort, error) {
	if s == "" {
		return netip.AddrPort{}, nil
	}
	return netip.ParseAddrPort(s)
}

func parseConnMode(s string) (sd.ConnMode, error) {
	for _, m := range []sd.ConnMode{sd.ConnModeOffline, sd.ConnModeReconnect, sd.ConnModeOnline} {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown connection mode %q", s)
}

func parseReadiness(s string) (sd.Readiness, error) {
	for _, r := range []sd.Readiness{sd.Ready, sd.Pending, sd.NotReady} {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown readiness %q", s)
}

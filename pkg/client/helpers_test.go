package client

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

var (
	testPeer     = netip.MustParseAddrPort("192.168.1.2:30490")
	testPeerUDP  = netip.MustParseAddrPort("192.168.1.2:40000")
	otherPeer    = netip.MustParseAddrPort("192.168.1.3:30490")
	otherPeerUDP = netip.MustParseAddrPort("192.168.1.3:40000")
	testMcast    = netip.MustParseAddrPort("239.1.1.1:30501")
)

func routing(id sd.RoutingGroupID) *sd.RoutingGroupID {
	return &id
}

// testService returns a client service bound to UDP connection conn with
// two event groups, the first one auto-required.
func testService(name string, serviceID uint16, conn sd.ConnID) config.ClientService {
	return config.ClientService{
		Name:          name,
		ServiceID:     serviceID,
		InstanceID:    1,
		MajorVersion:  1,
		MinorVersion:  sd.AnyMinor,
		VersionPolicy: config.ExactOrAny,
		AutoRequire:   true,
		Timer: config.ClientTimer{
			InitialFindDelayMin:  10 * time.Millisecond,
			InitialFindDelayMax:  10 * time.Millisecond,
			RepetitionsBaseDelay: 20 * time.Millisecond,
			RepetitionsMax:       0,
			TTL:                  3,
		},
		UDP: &sd.ConnGroup{First: conn, Count: 1},
		EventGroups: []config.ConsumedEventGroup{
			{Name: "eg1", EventGroupID: 1, AutoRequire: true, UDPRouting: routing(1)},
			{Name: "eg2", EventGroupID: 2, UDPRouting: routing(2)},
		},
	}
}

func testConfig(services ...config.ClientService) config.Config {
	if len(services) == 0 {
		services = []config.ClientService{testService("svc", 0x1234, 10)}
	}
	return config.Config{
		MainFunctionPeriod: 10 * time.Millisecond,
		StrictInvariants:   true,
		Seed:               1,
		Instances: []config.Instance{{
			Name:           "eth0",
			MaxRemoteNodes: 4,
			Services:       services,
		}},
	}
}

type routeKey struct {
	routing sd.RoutingGroupID
	conn    sd.ConnID
}

// fakeTransport records every call. Connections are online and peers are
// ready unless configured otherwise.
type fakeTransport struct {
	modes     map[sd.ConnID]sd.ConnMode
	readiness []sd.Readiness
	busy      map[sd.ConnID]bool

	opened        []sd.ConnID
	closed        []sd.ConnID
	bound         []sd.ConnID
	released      []sd.ConnID
	routes        map[routeKey]bool
	mcastRequests []sd.ConnID
	mcastReleases []sd.ConnID
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		modes:  make(map[sd.ConnID]sd.ConnMode),
		busy:   make(map[sd.ConnID]bool),
		routes: make(map[routeKey]bool),
	}
}

func (f *fakeTransport) OpenConn(id sd.ConnID) error {
	f.opened = append(f.opened, id)
	return nil
}

func (f *fakeTransport) CloseConn(id sd.ConnID) error {
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeTransport) BindRemote(g sd.ConnGroup, _ netip.AddrPort) (sd.ConnID, error) {
	if f.busy[g.First] {
		return sd.NoConn, sd.ErrConnBusy
	}
	f.bound = append(f.bound, g.First)
	return g.First, nil
}

func (f *fakeTransport) ReleaseRemote(id sd.ConnID) {
	f.released = append(f.released, id)
}

func (f *fakeTransport) EnableRouting(r sd.RoutingGroupID, id sd.ConnID) error {
	f.routes[routeKey{r, id}] = true
	return nil
}

func (f *fakeTransport) DisableRouting(r sd.RoutingGroupID, id sd.ConnID) error {
	delete(f.routes, routeKey{r, id})
	return nil
}

func (f *fakeTransport) ConnMode(id sd.ConnID) sd.ConnMode {
	if m, ok := f.modes[id]; ok {
		return m
	}
	return sd.ConnModeOnline
}

func (f *fakeTransport) RequestMulticastAddr(id sd.ConnID, _ netip.AddrPort) error {
	f.mcastRequests = append(f.mcastRequests, id)
	return nil
}

func (f *fakeTransport) ReleaseMulticastAddr(id sd.ConnID) error {
	f.mcastReleases = append(f.mcastReleases, id)
	return nil
}

// ConnectionReady pops the scripted answers, then reports Ready.
func (f *fakeTransport) ConnectionReady(netip.AddrPort) sd.Readiness {
	if len(f.readiness) == 0 {
		return sd.Ready
	}
	r := f.readiness[0]
	f.readiness = f.readiness[1:]
	return r
}

type modeChange struct {
	handle uint16
	mode   sd.Availability
}

// recorder collects entries, mode notifications, diagnostics and trace
// events.
type recorder struct {
	finds        []sd.FindEntry
	subscribes   []sd.SubscribeEntry
	peers        []netip.AddrPort
	serviceModes []modeChange
	groupModes   []modeChange
	diags        []sd.Diagnostic
	events       []log.Event
}

func (r *recorder) QueueFind(_ sd.InstanceHandle, entry sd.FindEntry) {
	r.finds = append(r.finds, entry)
}

func (r *recorder) QueueSubscribe(_ sd.InstanceHandle, peer netip.AddrPort, entry sd.SubscribeEntry) {
	r.subscribes = append(r.subscribes, entry)
	r.peers = append(r.peers, peer)
}

func (r *recorder) ClientServiceMode(h sd.ServiceHandle, m sd.Availability) {
	r.serviceModes = append(r.serviceModes, modeChange{uint16(h), m})
}

func (r *recorder) EventGroupMode(h sd.EventGroupHandle, m sd.Availability) {
	r.groupModes = append(r.groupModes, modeChange{uint16(h), m})
}

func (r *recorder) Report(d sd.Diagnostic) {
	r.diags = append(r.diags, d)
}

func (r *recorder) Log(ev log.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) subscribeCount(stop bool) int {
	n := 0
	for _, s := range r.subscribes {
		if s.Stop == stop {
			n++
		}
	}
	return n
}

func (r *recorder) diagCount(kind sd.DiagnosticKind) int {
	n := 0
	for _, d := range r.diags {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// serviceTransitions returns the phase changes traced for a service as
// "OLD>NEW" strings.
func (r *recorder) serviceTransitions(name string) []string {
	var out []string
	for _, ev := range r.events {
		if ev.StateChange == nil || ev.StateChange.Entity != log.StateEntityService || ev.Service != name {
			continue
		}
		out = append(out, ev.StateChange.OldState+">"+ev.StateChange.NewState)
	}
	return out
}

type harness struct {
	t   *testing.T
	e   *Engine
	tr  *fakeTransport
	rec *recorder
}

func newHarness(t *testing.T, cfg config.Config) *harness {
	t.Helper()
	h := &harness{t: t, tr: newFakeTransport(), rec: &recorder{}}
	e, err := New(cfg, Options{
		Transport:   h.tr,
		Modes:       h.rec,
		Diagnostics: h.rec,
		Sender:      h.rec,
		Trace:       h.rec,
	})
	require.NoError(t, err)
	h.e = e
	return h
}

func (h *harness) run(n int) {
	for i := 0; i < n; i++ {
		h.e.MainFunction()
	}
}

func (h *harness) info(serviceID uint16) sd.ServiceInfo {
	return sd.ServiceInfo{ServiceID: serviceID, InstanceID: 1, MajorVersion: 1}
}

func (h *harness) offer(serviceID uint16, peer, udp netip.AddrPort, ttl uint32, multicast bool) {
	h.e.OnOfferReceived(0, h.info(serviceID), sd.EndpointInfo{UDP: udp}, ttl, 0, peer, multicast)
}

func (h *harness) ack(serviceID, egID uint16, peer netip.AddrPort, ttl uint32, mcast netip.AddrPort) {
	h.e.OnSubscribeAckReceived(0, h.info(serviceID), sd.EndpointInfo{Multicast: mcast}, ttl, 0, egID, peer)
}

func (h *harness) phase(svc sd.ServiceHandle) Phase {
	h.t.Helper()
	p, err := h.e.ServicePhase(svc)
	require.NoError(h.t, err)
	return p
}

func (h *harness) groupState(g sd.EventGroupHandle) GroupState {
	h.t.Helper()
	st, err := h.e.EventGroupState(g)
	require.NoError(h.t, err)
	return st
}

// startToMain starts the instance and runs until the service reached MAIN
// after its initial FIND.
func (h *harness) startToMain() {
	h.t.Helper()
	h.e.StartAllServices()
	h.run(2)
	require.Equal(h.t, PhaseMain, h.phase(0))
}

// toAvailable takes service 0 to AVAILABLE with a unicast offer from
// testPeer.
func (h *harness) toAvailable() {
	h.t.Helper()
	h.startToMain()
	h.offer(0x1234, testPeer, testPeerUDP, 3, false)
	h.run(1)
	require.Equal(h.t, PhaseAvailable, h.phase(0))
}

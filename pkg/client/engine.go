package client

import (
	"fmt"
	"log/slog"
	"net/netip"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/delta"
	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/quickmatch"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// connectionReadyTimeout bounds how long a remote node may report a pending
// connection before its entries are sent anyway.
const connectionReadyTimeout = 8 * time.Second

// Options configures an Engine. Nil collaborators are replaced by no-op
// implementations: every connection is online and every peer is ready.
type Options struct {
	Transport   sd.Transport
	Modes       sd.ModeSink
	Diagnostics sd.Diagnostics
	Sender      sd.Sender

	// Logger receives operational logs. Nil disables them.
	Logger *slog.Logger

	// Trace receives discovery trace events. Nil disables tracing.
	Trace log.Logger

	// Clock stamps trace events. Defaults to the wall clock.
	Clock clock.Clock
}

// serviceTiming holds the client timer configuration in ticks.
type serviceTiming struct {
	findMin delta.Ticks
	findMax delta.Ticks
	repBase delta.Ticks
	repMax  uint8
	respMin delta.Ticks
	respMax delta.Ticks
}

type serviceRecord struct {
	cfg    *config.ClientService
	handle sd.ServiceHandle
	inst   *instanceRecord

	firstGroup int
	groupCount int

	requested  bool
	phase      Phase
	ttl        delta.Ticks
	smTimer    delta.Ticks
	repetition uint8

	// Unicast connections bound to the offering peer.
	udp sd.ConnID
	tcp sd.ConnID

	// Endpoints of the last accepted offer.
	udpEndpoint netip.AddrPort
	tcpEndpoint netip.AddrPort

	// node indexes inst.nodes, -1 when no offer is held.
	node int

	control       controlEvents
	offers        offerEvents
	ackPending    bool
	subscribe     subscribeFlag
	offerReceived bool
	retryActive   bool

	timing  serviceTiming
	routing sd.RoutingGroupID
}

type groupRecord struct {
	cfg     *config.ConsumedEventGroup
	handle  sd.EventGroupHandle
	service sd.ServiceHandle

	state GroupState
	ttl   delta.Ticks
	ack   AckState
	retry uint8

	// mcast is the multicast connection held from WAIT_FOR_AVAILABILITY on.
	mcast sd.ConnID

	// STOP-SUBSCRIBE waiting for the response timer, with the unicast
	// connections valid when it was decided.
	pendingStop bool
	stopUDP     sd.ConnID
	stopTCP     sd.ConnID

	ackEvent ackEvent

	udpRouting   sd.RoutingGroupID
	tcpRouting   sd.RoutingGroupID
	mcastRouting sd.RoutingGroupID
}

// multicastConn returns the connection used for multicast reception.
func (g *groupRecord) multicastConn() sd.ConnID {
	if g.cfg.Multicast == nil || g.cfg.Multicast.Count == 0 {
		return sd.NoConn
	}
	return g.cfg.Multicast.First
}

type instanceRecord struct {
	cfg    *config.Instance
	handle sd.InstanceHandle

	firstService int
	serviceCount int

	addressAssigned bool

	// Timer domains.
	sm    delta.Domain
	ttl   delta.Domain
	resp  delta.Domain
	retry delta.Domain

	// Number of services with pending control events, and with pending
	// offer or acknowledgement events.
	pendingControl  int
	pendingProtocol int

	nodes []remoteNode
	index *quickmatch.Index

	retryDelay   delta.Ticks
	retryMax     uint8
	readyTimeout delta.Ticks
}

// Engine is the client-side discovery engine. All methods are safe for
// concurrent use; state transitions only happen inside the cyclic entry
// points. Collaborators are called with the engine lock held and must not
// call back into the Engine.
type Engine struct {
	mu sync.Mutex

	cfg    config.Config
	period time.Duration
	strict bool

	transport sd.Transport
	modes     sd.ModeSink
	diags     sd.Diagnostics
	sender    sd.Sender

	logger *slog.Logger
	trace  log.Logger
	clock  clock.Clock

	runID uuid.UUID
	tick  uint64
	rand  *delta.Random

	instances []*instanceRecord
	services  []serviceRecord
	groups    []groupRecord

	// Number of AVAILABLE event groups per multicast connection.
	mcastRefs map[sd.ConnID]int
}

// New creates an engine for cfg. Services and event groups flagged
// AutoRequire start out requested; no service starts before StartInstance
// or StartAllServices.
func New(cfg config.Config, opts Options) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("client: %w", err)
	}

	e := &Engine{
		cfg:       cfg,
		period:    cfg.MainFunctionPeriod,
		strict:    cfg.StrictInvariants,
		transport: opts.Transport,
		modes:     opts.Modes,
		diags:     opts.Diagnostics,
		sender:    opts.Sender,
		logger:    opts.Logger,
		trace:     opts.Trace,
		clock:     opts.Clock,
		runID:     uuid.New(),
		rand:      delta.NewRandom(cfg.Seed),
		mcastRefs: make(map[sd.ConnID]int),
	}
	if e.transport == nil {
		e.transport = nopTransport{}
	}
	if e.modes == nil {
		e.modes = nopModes{}
	}
	if e.diags == nil {
		e.diags = nopDiagnostics{}
	}
	if e.sender == nil {
		e.sender = nopSender{}
	}
	if e.clock == nil {
		e.clock = clock.New()
	}

	e.services = make([]serviceRecord, 0, e.cfg.ServiceCount())
	e.groups = make([]groupRecord, 0, e.cfg.EventGroupCount())

	for i := range e.cfg.Instances {
		e.instances = append(e.instances, e.buildInstance(i))
	}

	e.debugLog("engine created",
		"runID", e.runID.String(),
		"instances", len(e.instances),
		"services", len(e.services),
		"eventGroups", len(e.groups))
	return e, nil
}

func (e *Engine) buildInstance(i int) *instanceRecord {
	icfg := &e.cfg.Instances[i]
	in := &instanceRecord{
		cfg:          icfg,
		handle:       sd.InstanceHandle(i),
		firstService: len(e.services),
		serviceCount: len(icfg.Services),
		nodes:        make([]remoteNode, icfg.MaxRemoteNodes),
		retryMax:     icfg.SubscribeRetryMax,
		retryDelay:   delta.FromDuration(icfg.SubscribeRetryDelay, e.period),
		readyTimeout: delta.FromDuration(connectionReadyTimeout, e.period),
	}

	entries := make([]quickmatch.Entry, 0, len(icfg.Services))
	for j := range icfg.Services {
		scfg := &icfg.Services[j]
		h := sd.ServiceHandle(len(e.services))
		s := serviceRecord{
			cfg:        scfg,
			handle:     h,
			inst:       in,
			firstGroup: len(e.groups),
			groupCount: len(scfg.EventGroups),
			requested:  scfg.AutoRequire,
			udp:        sd.NoConn,
			tcp:        sd.NoConn,
			node:       -1,
			routing:    config.RoutingOrNone(scfg.Routing),
			timing: serviceTiming{
				findMin: delta.FromDuration(scfg.Timer.InitialFindDelayMin, e.period),
				findMax: delta.FromDuration(scfg.Timer.InitialFindDelayMax, e.period),
				repBase: delta.FromDuration(scfg.Timer.RepetitionsBaseDelay, e.period),
				repMax:  scfg.Timer.RepetitionsMax,
				respMin: delta.FromDuration(scfg.Timer.RequestResponseMinDelay, e.period),
				respMax: delta.FromDuration(scfg.Timer.RequestResponseMaxDelay, e.period),
			},
		}
		for k := range scfg.EventGroups {
			gcfg := &scfg.EventGroups[k]
			g := groupRecord{
				cfg:          gcfg,
				handle:       sd.EventGroupHandle(len(e.groups)),
				service:      h,
				mcast:        sd.NoConn,
				stopUDP:      sd.NoConn,
				stopTCP:      sd.NoConn,
				udpRouting:   config.RoutingOrNone(gcfg.UDPRouting),
				tcpRouting:   config.RoutingOrNone(gcfg.TCPRouting),
				mcastRouting: config.RoutingOrNone(gcfg.MulticastRouting),
			}
			if gcfg.AutoRequire {
				g.state = GroupRequestedNoOffer
			}
			e.groups = append(e.groups, g)
		}
		e.services = append(e.services, s)

		entries = append(entries, quickmatch.Entry{
			Handle:       h,
			ServiceID:    scfg.ServiceID,
			InstanceID:   scfg.InstanceID,
			MajorVersion: scfg.MajorVersion,
			MinorVersion: scfg.MinorVersion,
			Policy:       scfg.VersionPolicy,
			Blacklist:    scfg.Blacklist,
			Capability:   scfg.Capability,
		})
	}
	in.index = quickmatch.NewIndex(entries)
	return in
}

// RunID identifies this engine in trace events.
func (e *Engine) RunID() uuid.UUID {
	return e.runID
}

// Period returns the main-function period the engine counts ticks in.
func (e *Engine) Period() time.Duration {
	return e.period
}

// InstanceHandle resolves a configured instance name.
func (e *Engine) InstanceHandle(name string) (sd.InstanceHandle, error) {
	for _, in := range e.instances {
		if in.cfg.Name == name {
			return in.handle, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInstance, name)
}

// ServiceHandle resolves a client service by instance and service name.
func (e *Engine) ServiceHandle(instance, service string) (sd.ServiceHandle, error) {
	ih, err := e.InstanceHandle(instance)
	if err != nil {
		return 0, err
	}
	in := e.instances[ih]
	for i := in.firstService; i < in.firstService+in.serviceCount; i++ {
		if e.services[i].cfg.Name == service {
			return sd.ServiceHandle(i), nil
		}
	}
	return 0, fmt.Errorf("%w: service %q in instance %q", ErrInvalidHandle, service, instance)
}

// EventGroupHandle resolves a consumed event group by service handle and
// event group name.
func (e *Engine) EventGroupHandle(svc sd.ServiceHandle, name string) (sd.EventGroupHandle, error) {
	if int(svc) >= len(e.services) {
		return 0, fmt.Errorf("%w: service %d", ErrInvalidHandle, svc)
	}
	s := &e.services[svc]
	for i := s.firstGroup; i < s.firstGroup+s.groupCount; i++ {
		if e.groups[i].cfg.Name == name {
			return sd.EventGroupHandle(i), nil
		}
	}
	return 0, fmt.Errorf("%w: event group %q of service %q", ErrInvalidHandle, name, s.cfg.Name)
}

// ServicePhase returns the communication phase of a service.
func (e *Engine) ServicePhase(h sd.ServiceHandle) (Phase, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if int(h) >= len(e.services) {
		return PhaseDown, fmt.Errorf("%w: service %d", ErrInvalidHandle, h)
	}
	return e.services[h].phase, nil
}

// EventGroupState returns the subscription state of an event group.
func (e *Engine) EventGroupState(h sd.EventGroupHandle) (GroupState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if int(h) >= len(e.groups) {
		return GroupReleased, fmt.Errorf("%w: event group %d", ErrInvalidHandle, h)
	}
	return e.groups[h].state, nil
}

// Snapshot returns a copy of the state of every service and event group.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		RunID:    e.runID,
		Tick:     e.tick,
		Services: make([]ServiceSnapshot, 0, len(e.services)),
	}
	for i := range e.services {
		s := &e.services[i]
		ss := ServiceSnapshot{
			Handle:        s.handle,
			Name:          s.cfg.Name,
			Instance:      s.inst.handle,
			Requested:     s.requested,
			Phase:         s.phase,
			OfferReceived: s.offerReceived,
			TTL:           s.inst.ttl.Left(s.ttl),
			UDP:           s.udp,
			TCP:           s.tcp,
		}
		if s.node >= 0 {
			ss.Peer = s.inst.nodes[s.node].addr
		}
		for k := s.firstGroup; k < s.firstGroup+s.groupCount; k++ {
			g := &e.groups[k]
			ss.EventGroups = append(ss.EventGroups, EventGroupSnapshot{
				Handle:       g.handle,
				Name:         g.cfg.Name,
				EventGroupID: g.cfg.EventGroupID,
				State:        g.state,
				Ack:          g.ack,
				TTL:          s.inst.ttl.Left(g.ttl),
				Multicast:    g.mcast,
				RetryCounter: g.retry,
			})
		}
		snap.Services = append(snap.Services, ss)
	}
	return snap
}

// groupsOf returns the event groups of s.
func (e *Engine) groupsOf(s *serviceRecord) []groupRecord {
	return e.groups[s.firstGroup : s.firstGroup+s.groupCount]
}

// servicesOf returns the services of in.
func (e *Engine) servicesOf(in *instanceRecord) []serviceRecord {
	return e.services[in.firstService : in.firstService+in.serviceCount]
}

// ttlTicks converts a protocol TTL to ticks. The extra tick makes sure the
// lifetime is never cut short by the phase of the TTL cycle.
func (e *Engine) ttlTicks(ttl uint32) delta.Ticks {
	if ttl == sd.InfiniteTTL {
		return delta.Forever
	}
	return delta.FromSeconds(ttl, e.period) + 1
}

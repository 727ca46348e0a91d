package scenario

import (
	"net/netip"
	"sync"

	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// ModeChange is one availability notification.
type ModeChange struct {
	Handle uint16
	Mode   sd.Availability
}

// SentSubscribe is a SUBSCRIBE or STOP-SUBSCRIBE handed to the sender.
type SentSubscribe struct {
	Peer  netip.AddrPort
	Entry sd.SubscribeEntry
}

type routeKey struct {
	routing sd.RoutingGroupID
	conn    sd.ConnID
}

// Recorder implements every engine collaborator and records each call.
// Connections are online and peers ready unless a scenario says otherwise.
type Recorder struct {
	mu sync.Mutex

	modes     map[sd.ConnID]sd.ConnMode
	readiness []sd.Readiness
	busy      map[sd.ConnID]bool
	routes    map[routeKey]bool

	Opened        []sd.ConnID
	Closed        []sd.ConnID
	Bound         []sd.ConnID
	Released      []sd.ConnID
	McastRequests []sd.ConnID
	McastReleases []sd.ConnID

	Finds        []sd.FindEntry
	Subscribes   []SentSubscribe
	ServiceModes []ModeChange
	GroupModes   []ModeChange
	Diagnostics  []sd.Diagnostic
	Events       []log.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		modes:  make(map[sd.ConnID]sd.ConnMode),
		busy:   make(map[sd.ConnID]bool),
		routes: make(map[routeKey]bool),
	}
}

// SetConnMode sets the mode ConnMode reports for a connection.
func (r *Recorder) SetConnMode(id sd.ConnID, mode sd.ConnMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes[id] = mode
}

// SetBusy makes BindRemote fail for a connection group.
func (r *Recorder) SetBusy(first sd.ConnID, busy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.busy[first] = busy
}

// QueueReadiness scripts the next ConnectionReady answers.
func (r *Recorder) QueueReadiness(values ...sd.Readiness) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readiness = append(r.readiness, values...)
}

// Routed reports whether a routing group is enabled on a connection.
func (r *Recorder) Routed(routing sd.RoutingGroupID, conn sd.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.routes[routeKey{routing, conn}]
}

func (r *Recorder) OpenConn(id sd.ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Opened = append(r.Opened, id)
	return nil
}

func (r *Recorder) CloseConn(id sd.ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Closed = append(r.Closed, id)
	return nil
}

func (r *Recorder) BindRemote(g sd.ConnGroup, _ netip.AddrPort) (sd.ConnID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.busy[g.First] {
		return sd.NoConn, sd.ErrConnBusy
	}
	r.Bound = append(r.Bound, g.First)
	return g.First, nil
}

func (r *Recorder) ReleaseRemote(id sd.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Released = append(r.Released, id)
}

func (r *Recorder) EnableRouting(routing sd.RoutingGroupID, id sd.ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[routeKey{routing, id}] = true
	return nil
}

func (r *Recorder) DisableRouting(routing sd.RoutingGroupID, id sd.ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.routes, routeKey{routing, id})
	return nil
}

func (r *Recorder) ConnMode(id sd.ConnID) sd.ConnMode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.modes[id]; ok {
		return m
	}
	return sd.ConnModeOnline
}

func (r *Recorder) RequestMulticastAddr(id sd.ConnID, _ netip.AddrPort) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.McastRequests = append(r.McastRequests, id)
	return nil
}

func (r *Recorder) ReleaseMulticastAddr(id sd.ConnID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.McastReleases = append(r.McastReleases, id)
	return nil
}

// ConnectionReady pops the scripted answers, then reports Ready.
func (r *Recorder) ConnectionReady(netip.AddrPort) sd.Readiness {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.readiness) == 0 {
		return sd.Ready
	}
	v := r.readiness[0]
	r.readiness = r.readiness[1:]
	return v
}

func (r *Recorder) ClientServiceMode(h sd.ServiceHandle, m sd.Availability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ServiceModes = append(r.ServiceModes, ModeChange{uint16(h), m})
}

func (r *Recorder) EventGroupMode(h sd.EventGroupHandle, m sd.Availability) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GroupModes = append(r.GroupModes, ModeChange{uint16(h), m})
}

func (r *Recorder) Report(d sd.Diagnostic) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Diagnostics = append(r.Diagnostics, d)
}

func (r *Recorder) QueueFind(_ sd.InstanceHandle, entry sd.FindEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Finds = append(r.Finds, entry)
}

func (r *Recorder) QueueSubscribe(_ sd.InstanceHandle, peer netip.AddrPort, entry sd.SubscribeEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Subscribes = append(r.Subscribes, SentSubscribe{Peer: peer, Entry: entry})
}

// Log records a trace event.
func (r *Recorder) Log(ev log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
}

// SubscribeCount counts SUBSCRIBE entries, or STOP-SUBSCRIBE entries when
// stop is set.
func (r *Recorder) SubscribeCount(stop bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.Subscribes {
		if s.Entry.Stop == stop {
			n++
		}
	}
	return n
}

// DiagnosticCounts counts the reported diagnostics per kind name.
func (r *Recorder) DiagnosticCounts() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int)
	for _, d := range r.Diagnostics {
		out[d.Kind.String()]++
	}
	return out
}

// Transitions returns the phase changes traced for a service as "OLD>NEW".
func (r *Recorder) Transitions(service string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for _, ev := range r.Events {
		sc := ev.StateChange
		if sc == nil || sc.Entity != log.StateEntityService || ev.Service != service {
			continue
		}
		out = append(out, sc.OldState+">"+sc.NewState)
	}
	return out
}

var (
	_ sd.Transport   = (*Recorder)(nil)
	_ sd.ModeSink    = (*Recorder)(nil)
	_ sd.Diagnostics = (*Recorder)(nil)
	_ sd.Sender      = (*Recorder)(nil)
	_ log.Logger     = (*Recorder)(nil)
)

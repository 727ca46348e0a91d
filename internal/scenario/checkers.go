package scenario

import (
	"fmt"
	"reflect"

	"github.com/someip-sd/sdclient-go/pkg/delta"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Expectation keys.
const (
	ExpectPhase             = "phase"
	ExpectGroupState        = "group_state"
	ExpectTTL               = "ttl"
	ExpectFinds             = "finds"
	ExpectSubscribes        = "subscribes"
	ExpectStopSubscribes    = "stop_subscribes"
	ExpectDiagnostics       = "diagnostics"
	ExpectTransitions       = "transitions"
	ExpectServiceModes      = "service_modes"
	ExpectGroupModes        = "group_modes"
	ExpectOpened            = "opened"
	ExpectClosed            = "closed"
	ExpectReleased          = "released"
	ExpectMulticastRequests = "multicast_requests"
	ExpectMulticastReleases = "multicast_releases"
	ExpectRouted            = "routed"
	ExpectTick              = "tick"
)

func registerCheckers(r *Runner) {
	r.RegisterChecker(ExpectPhase, checkPhase)
	r.RegisterChecker(ExpectGroupState, checkGroupState)
	r.RegisterChecker(ExpectTTL, checkTTL)
	r.RegisterChecker(ExpectFinds, checkCount(func(rec *Recorder) int {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.Finds)
	}))
	r.RegisterChecker(ExpectSubscribes, checkCount(func(rec *Recorder) int { return rec.SubscribeCount(false) }))
	r.RegisterChecker(ExpectStopSubscribes, checkCount(func(rec *Recorder) int { return rec.SubscribeCount(true) }))
	r.RegisterChecker(ExpectDiagnostics, checkDiagnostics)
	r.RegisterChecker(ExpectTransitions, checkTransitions)
	r.RegisterChecker(ExpectServiceModes, checkServiceModes)
	r.RegisterChecker(ExpectGroupModes, checkGroupModes)
	r.RegisterChecker(ExpectOpened, checkConns(func(rec *Recorder) []sd.ConnID { return rec.Opened }))
	r.RegisterChecker(ExpectClosed, checkConns(func(rec *Recorder) []sd.ConnID { return rec.Closed }))
	r.RegisterChecker(ExpectReleased, checkConns(func(rec *Recorder) []sd.ConnID { return rec.Released }))
	r.RegisterChecker(ExpectMulticastRequests, checkConns(func(rec *Recorder) []sd.ConnID { return rec.McastRequests }))
	r.RegisterChecker(ExpectMulticastReleases, checkConns(func(rec *Recorder) []sd.ConnID { return rec.McastReleases }))
	r.RegisterChecker(ExpectRouted, checkRouted)
	r.RegisterChecker(ExpectTick, checkTick)
}

func compare(key string, expected, actual any) *ExpectResult {
	er := &ExpectResult{Key: key, Expected: expected, Actual: actual}
	if reflect.DeepEqual(expected, actual) {
		er.Passed = true
		er.Message = fmt.Sprintf("%v", actual)
		return er
	}
	er.Message = fmt.Sprintf("expected %v, got %v", expected, actual)
	return er
}

func invalid(key string, expected any, err error) *ExpectResult {
	return &ExpectResult{
		Key:      key,
		Expected: expected,
		Message:  fmt.Sprintf("invalid expectation: %v", err),
	}
}

// checkPhase expects {service: PHASE}.
func checkPhase(key string, expected any, st *State) *ExpectResult {
	var want map[string]string
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	snap := st.Engine.Snapshot()
	got := make(map[string]string, len(want))
	for name := range want {
		got[name] = "<unknown>"
		for _, svc := range snap.Services {
			if svc.Name == name {
				got[name] = svc.Phase.String()
			}
		}
	}
	return compare(key, want, got)
}

// checkGroupState expects {"service/group": STATE}.
func checkGroupState(key string, expected any, st *State) *ExpectResult {
	var want map[string]string
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	snap := st.Engine.Snapshot()
	got := make(map[string]string, len(want))
	for name := range want {
		got[name] = "<unknown>"
		for _, svc := range snap.Services {
			for _, eg := range svc.EventGroups {
				if svc.Name+"/"+eg.Name == name {
					got[name] = eg.State.String()
				}
			}
		}
	}
	return compare(key, want, got)
}

// checkTTL expects {service: stopped|infinite|armed}.
func checkTTL(key string, expected any, st *State) *ExpectResult {
	var want map[string]string
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	snap := st.Engine.Snapshot()
	got := make(map[string]string, len(want))
	for name := range want {
		got[name] = "<unknown>"
		for _, svc := range snap.Services {
			if svc.Name == name {
				got[name] = ttlName(svc.TTL)
			}
		}
	}
	return compare(key, want, got)
}

func ttlName(t delta.Ticks) string {
	switch t {
	case delta.Stopped:
		return "stopped"
	case delta.Forever:
		return "infinite"
	default:
		return "armed"
	}
}

func checkCount(count func(*Recorder) int) ExpectChecker {
	return func(key string, expected any, st *State) *ExpectResult {
		var want int
		if err := decode(expected, &want); err != nil {
			return invalid(key, expected, err)
		}
		return compare(key, want, count(st.Recorder))
	}
}

// checkDiagnostics expects {KIND: count}. Kinds not listed are not checked.
func checkDiagnostics(key string, expected any, st *State) *ExpectResult {
	var want map[string]int
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	counts := st.Recorder.DiagnosticCounts()
	got := make(map[string]int, len(want))
	for kind := range want {
		got[kind] = counts[kind]
	}
	return compare(key, want, got)
}

// checkTransitions expects {service: ["OLD>NEW", ...]} covering every phase
// change so far.
func checkTransitions(key string, expected any, st *State) *ExpectResult {
	var want map[string][]string
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	got := make(map[string][]string, len(want))
	for name, w := range want {
		if w == nil {
			want[name] = []string{}
		}
		got[name] = st.Recorder.Transitions(name)
	}
	return compare(key, want, got)
}

// checkServiceModes expects every service mode notification so far as
// "service:MODE".
func checkServiceModes(key string, expected any, st *State) *ExpectResult {
	var want []string
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	names := make(map[uint16]string)
	for _, svc := range st.Engine.Snapshot().Services {
		names[uint16(svc.Handle)] = svc.Name
	}
	return compare(key, nonNil(want), modeStrings(st, names, func(rec *Recorder) []ModeChange { return rec.ServiceModes }))
}

// checkGroupModes expects every event group mode notification so far as
// "service/group:MODE".
func checkGroupModes(key string, expected any, st *State) *ExpectResult {
	var want []string
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	names := make(map[uint16]string)
	for _, svc := range st.Engine.Snapshot().Services {
		for _, eg := range svc.EventGroups {
			names[uint16(eg.Handle)] = svc.Name + "/" + eg.Name
		}
	}
	return compare(key, nonNil(want), modeStrings(st, names, func(rec *Recorder) []ModeChange { return rec.GroupModes }))
}

func modeStrings(st *State, names map[uint16]string, pick func(*Recorder) []ModeChange) []string {
	st.Recorder.mu.Lock()
	defer st.Recorder.mu.Unlock()
	out := []string{}
	for _, mc := range pick(st.Recorder) {
		out = append(out, names[mc.Handle]+":"+mc.Mode.String())
	}
	return out
}

func checkConns(pick func(*Recorder) []sd.ConnID) ExpectChecker {
	return func(key string, expected any, st *State) *ExpectResult {
		var want []sd.ConnID
		if err := decode(expected, &want); err != nil {
			return invalid(key, expected, err)
		}
		st.Recorder.mu.Lock()
		got := append([]sd.ConnID{}, pick(st.Recorder)...)
		st.Recorder.mu.Unlock()
		if want == nil {
			want = []sd.ConnID{}
		}
		return compare(key, want, got)
	}
}

// checkRouted expects {"routing/conn": bool}.
func checkRouted(key string, expected any, st *State) *ExpectResult {
	var want map[string]bool
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	got := make(map[string]bool, len(want))
	for k := range want {
		var routing sd.RoutingGroupID
		var conn sd.ConnID
		if _, err := fmt.Sscanf(k, "%d/%d", &routing, &conn); err != nil {
			return invalid(key, expected, fmt.Errorf("route %q: %w", k, err))
		}
		got[k] = st.Recorder.Routed(routing, conn)
	}
	return compare(key, want, got)
}

func checkTick(key string, expected any, st *State) *ExpectResult {
	var want uint64
	if err := decode(expected, &want); err != nil {
		return invalid(key, expected, err)
	}
	return compare(key, want, st.Engine.Snapshot().Tick)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

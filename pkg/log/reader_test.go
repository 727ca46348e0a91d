package log_test

import (
	"io"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someip-sd/sdclient-go/internal/scenario"
	"github.com/someip-sd/sdclient-go/pkg/client"
	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

const traceConfig = `
main_function_period: 10ms
strict_invariants: true
seed: 7
instances:
  - name: eth0
    services:
      - name: radar
        service_id: 0x1234
        instance_id: 1
        major_version: 1
        minor_version: 0xFFFFFFFF
        auto_require: true
        timer:
          initial_find_delay_min: 10ms
          initial_find_delay_max: 10ms
          repetitions_base_delay: 20ms
          repetitions_max: 0
          ttl: 3
        udp: {first: 10, count: 1}
        event_groups:
          - {name: objects, event_group_id: 1, auto_require: true, udp_routing: 1}
  - name: eth1
    services:
      - name: camera
        service_id: 0x5678
        instance_id: 1
        major_version: 1
        minor_version: 0xFFFFFFFF
        auto_require: true
        timer:
          initial_find_delay_min: 10ms
          initial_find_delay_max: 10ms
          repetitions_base_delay: 20ms
          repetitions_max: 0
          ttl: 3
        udp: {first: 20, count: 1}
        event_groups:
          - {name: frames, event_group_id: 1, auto_require: true, udp_routing: 2}
`

var (
	traceBase  = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	radarPeer  = netip.MustParseAddrPort("192.168.1.2:30490")
	radarUDP   = netip.MustParseAddrPort("192.168.1.2:40000")
	cameraPeer = netip.MustParseAddrPort("192.168.2.3:30490")
	cameraUDP  = netip.MustParseAddrPort("192.168.2.3:40000")
	radarInfo  = sd.ServiceInfo{ServiceID: 0x1234, InstanceID: 1, MajorVersion: 1}
	cameraInfo = sd.ServiceInfo{ServiceID: 0x5678, InstanceID: 1, MajorVersion: 1}
)

// tracedEngine is a discovery engine whose trace goes to a file logger and
// whose clock advances one period per main function.
type tracedEngine struct {
	t      *testing.T
	engine *client.Engine
	clock  *clock.Mock
	logger *log.FileLogger
}

func newTracedEngine(t *testing.T, path string, start time.Time) *tracedEngine {
	t.Helper()
	cfg, err := config.Parse([]byte(traceConfig))
	require.NoError(t, err)

	logger, err := log.NewFileLogger(path)
	require.NoError(t, err)

	mock := clock.NewMock()
	mock.Set(start)
	rec := scenario.NewRecorder()
	e, err := client.New(*cfg, client.Options{
		Transport:   rec,
		Modes:       rec,
		Diagnostics: rec,
		Sender:      rec,
		Trace:       logger,
		Clock:       mock,
	})
	require.NoError(t, err)
	return &tracedEngine{t: t, engine: e, clock: mock, logger: logger}
}

func (te *tracedEngine) run(n int) {
	for i := 0; i < n; i++ {
		te.clock.Add(10 * time.Millisecond)
		te.engine.MainFunction()
	}
}

func (te *tracedEngine) close() {
	te.t.Helper()
	require.NoError(te.t, te.logger.Close())
}

// discover takes radar to an acknowledged subscription and has the camera
// subscription rejected.
func (te *tracedEngine) discover() {
	te.engine.StartAllServices()
	te.run(2)
	te.engine.OnOfferReceived(0, radarInfo, sd.EndpointInfo{UDP: radarUDP}, 3, 0, radarPeer, false)
	te.engine.OnOfferReceived(1, cameraInfo, sd.EndpointInfo{UDP: cameraUDP}, 3, 0, cameraPeer, false)
	te.run(1)
	te.engine.OnSubscribeAckReceived(0, radarInfo, sd.EndpointInfo{}, 3, 0, 1, radarPeer)
	te.engine.OnSubscribeAckReceived(1, cameraInfo, sd.EndpointInfo{}, 0, 0, 1, cameraPeer)
	te.run(2)
}

// traceFile writes two engine runs into one trace file: a full discovery
// starting at traceBase and a second run an hour later that only searches.
func traceFile(t *testing.T) (path string, first, second string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "discovery.sdlog")

	a := newTracedEngine(t, path, traceBase)
	a.discover()
	a.close()

	b := newTracedEngine(t, path, traceBase.Add(time.Hour))
	b.engine.StartAllServices()
	b.run(2)
	b.close()

	return path, a.engine.RunID().String(), b.engine.RunID().String()
}

func readAll(t *testing.T, path string, filter log.Filter) []log.Event {
	t.Helper()
	r, err := log.NewFilteredReader(path, filter)
	require.NoError(t, err)
	defer r.Close()

	var events []log.Event
	require.NoError(t, r.Each(func(ev log.Event) error {
		events = append(events, ev)
		return nil
	}))
	return events
}

func selectEvents(events []log.Event, keep func(log.Event) bool) []log.Event {
	var out []log.Event
	for _, ev := range events {
		if keep(ev) {
			out = append(out, ev)
		}
	}
	return out
}

func TestReaderReadsEngineTraceInOrder(t *testing.T) {
	path, first, second := traceFile(t)
	all := readAll(t, path, log.Filter{})
	require.NotEmpty(t, all)

	assert.Equal(t, first, all[0].RunID)
	assert.Equal(t, second, all[len(all)-1].RunID)
	assert.Equal(t, log.CategoryControl, all[0].Category)
	require.NotNil(t, all[0].Control)
	assert.Equal(t, log.ControlStart, all[0].Control.Type)

	for i := 1; i < len(all); i++ {
		if all[i].RunID == all[i-1].RunID {
			assert.GreaterOrEqual(t, all[i].Tick, all[i-1].Tick, "event %d", i)
		}
	}
}

func TestReaderFilters(t *testing.T) {
	path, first, second := traceFile(t)
	all := readAll(t, path, log.Filter{})

	out := log.DirectionOut
	evgLayer := log.LayerEventGroup
	errCat := log.CategoryError
	subscribe := log.EntrySubscribe
	start := traceBase.Add(20 * time.Millisecond)
	end := traceBase.Add(40 * time.Millisecond)

	tests := []struct {
		name   string
		filter log.Filter
		keep   func(log.Event) bool
	}{
		{"run id", log.Filter{RunID: second}, func(ev log.Event) bool { return ev.RunID == second }},
		{"direction", log.Filter{Direction: &out}, func(ev log.Event) bool { return ev.Direction == log.DirectionOut }},
		{"layer", log.Filter{Layer: &evgLayer}, func(ev log.Event) bool { return ev.Layer == log.LayerEventGroup }},
		{"category", log.Filter{Category: &errCat}, func(ev log.Event) bool { return ev.Category == log.CategoryError }},
		{"time range", log.Filter{TimeStart: &start, TimeEnd: &end}, func(ev log.Event) bool {
			return !ev.Timestamp.Before(start) && ev.Timestamp.Before(end)
		}},
		{"tick range", log.Filter{FromTick: 3, ToTick: 3}, func(ev log.Event) bool { return ev.Tick == 3 }},
		{"open tick range", log.Filter{FromTick: 4}, func(ev log.Event) bool { return ev.Tick >= 4 }},
		{"instance", log.Filter{Instance: "eth1"}, func(ev log.Event) bool { return ev.Instance == "eth1" }},
		{"service", log.Filter{Service: "radar"}, func(ev log.Event) bool { return ev.Service == "radar" }},
		{"peer", log.Filter{Peer: radarPeer.String()}, func(ev log.Event) bool { return ev.Peer == radarPeer.String() }},
		{"entry", log.Filter{Entry: &subscribe}, func(ev log.Event) bool {
			return ev.Message != nil && ev.Message.Entry == log.EntrySubscribe
		}},
		{"combined", log.Filter{RunID: first, Service: "radar", Direction: &out}, func(ev log.Event) bool {
			return ev.RunID == first && ev.Service == "radar" && ev.Direction == log.DirectionOut
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := selectEvents(all, tt.keep)
			require.NotEmpty(t, want)
			assert.Less(t, len(want), len(all))
			assert.Equal(t, want, readAll(t, path, tt.filter))
		})
	}
}

func TestReaderFilterSelectsDiscoveryEvents(t *testing.T) {
	path, first, _ := traceFile(t)

	errCat := log.CategoryError
	nacks := readAll(t, path, log.Filter{Category: &errCat})
	require.Len(t, nacks, 1)
	assert.Equal(t, "camera", nacks[0].Service)
	assert.Equal(t, "eth1", nacks[0].Instance)
	assert.Equal(t, cameraPeer.String(), nacks[0].Peer)
	require.NotNil(t, nacks[0].Error)
	assert.Equal(t, "SUBSCRIBE_NACK", nacks[0].Error.Message)

	subscribe := log.EntrySubscribe
	subs := readAll(t, path, log.Filter{Entry: &subscribe, Service: "radar"})
	require.Len(t, subs, 1)
	assert.Equal(t, first, subs[0].RunID)
	assert.Equal(t, radarPeer.String(), subs[0].Peer)
	require.NotNil(t, subs[0].Message.EventGroupID)
	assert.Equal(t, uint16(1), *subs[0].Message.EventGroupID)

	in := log.DirectionIn
	var entries []log.EntryType
	for _, ev := range readAll(t, path, log.Filter{Peer: radarPeer.String(), Direction: &in}) {
		entries = append(entries, ev.Message.Entry)
	}
	assert.Equal(t, []log.EntryType{log.EntryOffer, log.EntrySubscribeAck}, entries)

	// The second run only searches: two starts, two FINDs and phase changes.
	later := traceBase.Add(30 * time.Minute)
	secondRun := readAll(t, path, log.Filter{TimeStart: &later})
	require.NotEmpty(t, secondRun)
	for _, ev := range secondRun {
		assert.NotEqual(t, first, ev.RunID)
		if ev.Message != nil {
			assert.Equal(t, log.EntryFind, ev.Message.Entry)
		}
	}
}

func TestReaderHandlesEmptyTrace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sdlog")
	logger, err := log.NewFileLogger(path)
	require.NoError(t, err)
	require.NoError(t, logger.Close())

	r, err := log.NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderReportsTruncatedTrace(t *testing.T) {
	path, _, _ := traceFile(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	cut := filepath.Join(t.TempDir(), "cut.sdlog")
	require.NoError(t, os.WriteFile(cut, data[:len(data)-3], 0o600))

	r, err := log.NewReader(cut)
	require.NoError(t, err)
	defer r.Close()

	var read int
	err = r.Each(func(log.Event) error {
		read++
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Positive(t, read)
}

func TestNewReaderMissingFile(t *testing.T) {
	_, err := log.NewReader(filepath.Join(t.TempDir(), "missing.sdlog"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorContains(t, err, "open trace file")
}

package log

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traceBuffer(t *testing.T, events ...Event) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for _, ev := range events {
		require.NoError(t, enc.Encode(ev))
	}
	return &buf
}

func sampleTrace() []Event {
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []Event{
		{Timestamp: t0, RunID: "r1", Tick: 1, Category: CategoryControl, Control: &ControlEvent{Type: ControlStart}},
		{Timestamp: t0.Add(10 * time.Millisecond), RunID: "r1", Tick: 2, Service: "radar",
			Category: CategoryState, StateChange: &StateChangeEvent{Entity: StateEntityService, OldState: "DOWN", NewState: "INITIAL_WAIT"}},
		{Timestamp: t0.Add(20 * time.Millisecond), RunID: "r1", Tick: 3, Direction: DirectionOut, Service: "radar",
			Category: CategoryMessage, Message: &MessageEvent{Entry: EntryFind, ServiceID: 0x1234}},
		{Timestamp: t0.Add(30 * time.Millisecond), RunID: "r1", Tick: 4, Direction: DirectionIn, Service: "radar", Peer: "10.0.0.2:30490",
			Category: CategoryMessage, Message: &MessageEvent{Entry: EntryOffer, ServiceID: 0x1234, TTL: 3}},
		{Timestamp: t0.Add(40 * time.Millisecond), RunID: "r1", Tick: 4, Direction: DirectionLocal, Service: "radar",
			Category: CategoryError, Error: &ErrorEventData{Message: "SUBSCRIBE_NACK"}},
	}
}

func TestSummarize(t *testing.T) {
	events := sampleTrace()
	s, err := Summarize(NewStreamReader(traceBuffer(t, events...), Filter{}))
	require.NoError(t, err)

	assert.Equal(t, 5, s.Events)
	assert.Len(t, s.Runs, 1)
	assert.Equal(t, uint64(1), s.FirstTick)
	assert.Equal(t, uint64(4), s.LastTick)
	assert.Equal(t, 1, s.Sent[EntryFind])
	assert.Equal(t, 1, s.Received[EntryOffer])
	assert.Equal(t, 2, s.ByCategory[CategoryMessage])
	assert.Equal(t, []string{"DOWN>INITIAL_WAIT"}, s.Phases["radar"])
	assert.Equal(t, 1, s.Diagnostics["SUBSCRIBE_NACK"])
	assert.True(t, s.Start.Equal(events[0].Timestamp))
	assert.True(t, s.End.Equal(events[4].Timestamp))
}

func TestSummaryWriteTo(t *testing.T) {
	s := NewSummary()
	for _, ev := range sampleTrace() {
		s.Add(ev)
	}

	var out bytes.Buffer
	n, err := s.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), n)
	assert.Contains(t, out.String(), "Events: 5 in 1 run(s), ticks 1..4")
	assert.Contains(t, out.String(), "FIND")
	assert.Contains(t, out.String(), "radar: [DOWN>INITIAL_WAIT]")
	assert.Contains(t, out.String(), "SUBSCRIBE_NACK")
}

func TestReaderFiltersByEntryAndTick(t *testing.T) {
	offer := EntryOffer
	r := NewStreamReader(traceBuffer(t, sampleTrace()...), Filter{Entry: &offer})
	ev, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.2:30490", ev.Peer)
	_, err = r.Next()
	assert.Equal(t, io.EOF, err)

	r = NewStreamReader(traceBuffer(t, sampleTrace()...), Filter{FromTick: 2, ToTick: 3})
	var ticks []uint64
	require.NoError(t, r.Each(func(ev Event) error {
		ticks = append(ticks, ev.Tick)
		return nil
	}))
	assert.Equal(t, []uint64{2, 3}, ticks)
}

func TestReaderEachStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	r := NewStreamReader(traceBuffer(t, sampleTrace()...), Filter{})
	calls := 0
	err := r.Each(func(Event) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
	assert.NoError(t, r.Close())
}

func TestReaderReportsTruncatedEvent(t *testing.T) {
	buf := traceBuffer(t, sampleTrace()[0])
	data := buf.Bytes()
	r := NewStreamReader(bytes.NewReader(data[:len(data)-2]), Filter{})
	_, err := r.Next()
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

package log

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/multierr"
)

// mockLogger records events for testing
type mockLogger struct {
	events []Event
}

func (m *mockLogger) Log(event Event) {
	m.events = append(m.events, event)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	mock1 := &mockLogger{}
	mock2 := &mockLogger{}
	mock3 := &mockLogger{}

	multi := NewMultiLogger(mock1, mock2, mock3)

	event := Event{
		Timestamp: time.Now(),
		RunID:     "run-123",
		Direction: DirectionIn,
		Layer:     LayerInstance,
		Category:  CategoryMessage,
	}

	multi.Log(event)

	// All loggers should have received the event
	for i, mock := range []*mockLogger{mock1, mock2, mock3} {
		if len(mock.events) != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, len(mock.events))
			continue
		}
		if mock.events[0].RunID != "run-123" {
			t.Errorf("logger %d: RunID = %q, want %q", i, mock.events[0].RunID, "run-123")
		}
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	multi := NewMultiLogger()

	// Should not panic with empty logger list
	event := Event{
		Timestamp: time.Now(),
		RunID:     "run-123",
		Direction: DirectionIn,
		Layer:     LayerInstance,
		Category:  CategoryMessage,
	}

	multi.Log(event)
}

func TestMultiLoggerSingleLogger(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(mock)

	event := Event{
		Timestamp: time.Now(),
		RunID:     "run-456",
		Direction: DirectionOut,
		Layer:     LayerEventGroup,
		Category:  CategoryMessage,
	}

	multi.Log(event)

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
	if mock.events[0].RunID != "run-456" {
		t.Errorf("RunID = %q, want %q", mock.events[0].RunID, "run-456")
	}
}

func TestMultiLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = (*MultiLogger)(nil)
}

// closingLogger records Close calls.
type closingLogger struct {
	mockLogger
	closed int
	err    error
}

func (c *closingLogger) Close() error {
	c.closed++
	return c.err
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	mock := &mockLogger{}
	multi := NewMultiLogger(nil, mock, nil)

	multi.Log(Event{RunID: "run-1"})

	if len(mock.events) != 1 {
		t.Fatalf("got %d events, want 1", len(mock.events))
	}
}

func TestMultiLoggerCloseCombinesErrors(t *testing.T) {
	ok := &closingLogger{}
	bad1 := &closingLogger{err: errors.New("disk full")}
	bad2 := &closingLogger{err: errors.New("permission denied")}
	multi := NewMultiLogger(ok, &mockLogger{}, bad1, bad2)

	err := multi.Close()
	if err == nil {
		t.Fatal("expected combined error")
	}
	if got := len(multierr.Errors(err)); got != 2 {
		t.Errorf("got %d errors, want 2", got)
	}
	for i, c := range []*closingLogger{ok, bad1, bad2} {
		if c.closed != 1 {
			t.Errorf("logger %d closed %d times, want 1", i, c.closed)
		}
	}
}

package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	// Should not panic with any event type
	event := Event{
		Timestamp: time.Now(),
		RunID:     "test-run",
		Direction: DirectionIn,
		Layer:     LayerInstance,
		Category:  CategoryMessage,
	}

	// Test with nil payloads
	logger.Log(event)

	// Test with message payload
	event.Message = &MessageEvent{Entry: EntryFind, ServiceID: 1}
	logger.Log(event)

	// Test with state change payload
	event.Message = nil
	event.StateChange = &StateChangeEvent{Entity: StateEntityService, NewState: "MAIN"}
	logger.Log(event)

	// Test with control message payload
	event.StateChange = nil
	event.Control = &ControlEvent{Type: ControlHalt}
	logger.Log(event)

	// Test with error payload
	event.Control = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that NoopLogger satisfies Logger interface
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	// NoopLogger should be usable as zero value
	var logger NoopLogger
	logger.Log(Event{})
}

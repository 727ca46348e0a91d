package log

import (
	"bytes"
	"testing"
	"time"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		RunID:     "abc12345-def6-7890-abcd-ef1234567890",
		Direction: DirectionOut,
		Layer:     LayerService,
		Category:  CategoryMessage,
		Tick:      4711,
		Instance:  "eth0",
		Service:   "radar",
		Peer:      "192.168.1.100:30490",
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.RunID != original.RunID {
		t.Errorf("RunID: got %q, want %q", decoded.RunID, original.RunID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Layer != original.Layer {
		t.Errorf("Layer: got %v, want %v", decoded.Layer, original.Layer)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Tick != original.Tick {
		t.Errorf("Tick: got %d, want %d", decoded.Tick, original.Tick)
	}
	if decoded.Instance != original.Instance {
		t.Errorf("Instance: got %q, want %q", decoded.Instance, original.Instance)
	}
	if decoded.Service != original.Service {
		t.Errorf("Service: got %q, want %q", decoded.Service, original.Service)
	}
	if decoded.Peer != original.Peer {
		t.Errorf("Peer: got %q, want %q", decoded.Peer, original.Peer)
	}
}

func TestMessageEventCBORRoundTrip(t *testing.T) {
	minor := uint32(3)
	egID := uint16(0x10)
	original := Event{
		Timestamp: time.Now(),
		RunID:     "run-1",
		Direction: DirectionOut,
		Layer:     LayerEventGroup,
		Category:  CategoryMessage,
		Message: &MessageEvent{
			Entry:        EntrySubscribe,
			ServiceID:    0x1234,
			InstanceID:   0x0001,
			MajorVersion: 1,
			MinorVersion: &minor,
			EventGroupID: &egID,
			TTL:          3,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Message == nil {
		t.Fatal("Message is nil")
	}
	m := decoded.Message
	if m.Entry != EntrySubscribe {
		t.Errorf("Entry: got %v, want %v", m.Entry, EntrySubscribe)
	}
	if m.ServiceID != 0x1234 || m.InstanceID != 0x0001 || m.MajorVersion != 1 {
		t.Errorf("ids: got %04x:%04x v%d", m.ServiceID, m.InstanceID, m.MajorVersion)
	}
	if m.MinorVersion == nil || *m.MinorVersion != 3 {
		t.Errorf("MinorVersion: got %v, want 3", m.MinorVersion)
	}
	if m.EventGroupID == nil || *m.EventGroupID != 0x10 {
		t.Errorf("EventGroupID: got %v, want 0x10", m.EventGroupID)
	}
	if m.TTL != 3 {
		t.Errorf("TTL: got %d, want 3", m.TTL)
	}
	if decoded.StateChange != nil || decoded.Control != nil || decoded.Error != nil {
		t.Error("unexpected payloads decoded")
	}
}

func TestStateAndErrorEventCBORRoundTrip(t *testing.T) {
	code := 7
	events := []Event{
		{
			Timestamp: time.Now(),
			Direction: DirectionLocal,
			Layer:     LayerService,
			Category:  CategoryState,
			StateChange: &StateChangeEvent{
				Entity:   StateEntityService,
				Handle:   2,
				OldState: "MAIN",
				NewState: "AVAILABLE",
				Reason:   "offer",
			},
		},
		{
			Timestamp: time.Now(),
			Direction: DirectionLocal,
			Layer:     LayerRemoteNode,
			Category:  CategoryError,
			Error: &ErrorEventData{
				Layer:   LayerRemoteNode,
				Message: "CONNECTION_SETUP_FAILED",
				Code:    &code,
				Context: "response timer",
			},
		},
	}

	for _, original := range events {
		data, err := EncodeEvent(original)
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		decoded, err := DecodeEvent(data)
		if err != nil {
			t.Fatalf("DecodeEvent failed: %v", err)
		}
		switch {
		case original.StateChange != nil:
			if decoded.StateChange == nil {
				t.Fatal("StateChange is nil")
			}
			if *decoded.StateChange != *original.StateChange {
				t.Errorf("StateChange: got %+v, want %+v", *decoded.StateChange, *original.StateChange)
			}
		case original.Error != nil:
			if decoded.Error == nil {
				t.Fatal("Error is nil")
			}
			if decoded.Error.Message != original.Error.Message {
				t.Errorf("Error.Message: got %q, want %q", decoded.Error.Message, original.Error.Message)
			}
			if decoded.Error.Code == nil || *decoded.Error.Code != code {
				t.Errorf("Error.Code: got %v, want %d", decoded.Error.Code, code)
			}
		}
	}
}

func TestEncodingIsDeterministic(t *testing.T) {
	handle := uint16(4)
	event := Event{
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		RunID:     "run-1",
		Category:  CategoryControl,
		Control:   &ControlEvent{Type: ControlRequest, Handle: &handle},
	}

	a, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	b, err := EncodeEvent(event)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same event twice produced different bytes")
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	for i := 0; i < 3; i++ {
		if err := enc.Encode(Event{Tick: uint64(i)}); err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
	}

	dec := NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var e Event
		if err := dec.Decode(&e); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if e.Tick != uint64(i) {
			t.Errorf("event %d: Tick = %d", i, e.Tick)
		}
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0x00}); err == nil {
		t.Error("expected error decoding garbage")
	}
}

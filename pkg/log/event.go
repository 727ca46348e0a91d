package log

import (
	"time"
)

// Event represents a discovery trace event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID identifies the engine run that produced the event (UUID).
	RunID string `cbor:"2,keyasint"`

	// Direction indicates message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Tick is the engine's main-function counter when the event was captured.
	Tick uint64 `cbor:"6,keyasint"`

	// Instance is the configured instance name.
	Instance string `cbor:"7,keyasint,omitempty"`

	// Service is the configured client service name.
	Service string `cbor:"8,keyasint,omitempty"`

	// Peer is the remote node address (IP:port).
	Peer string `cbor:"9,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Message     *MessageEvent     `cbor:"10,keyasint,omitempty"` // Entries queued or received
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"` // Phase / subscription state
	Control     *ControlEvent     `cbor:"12,keyasint,omitempty"` // Control-plane requests
	Error       *ErrorEventData   `cbor:"13,keyasint,omitempty"` // Diagnostics
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming entry or request.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing entry.
	DirectionOut Direction = 1
	// DirectionLocal indicates an engine-internal event.
	DirectionLocal Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	case DirectionLocal:
		return "LOCAL"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which part of the engine captured the event.
type Layer uint8

const (
	// LayerInstance is the instance level (bulk start/halt, timer domains).
	LayerInstance Layer = 0
	// LayerService is the client-service communication phase machine.
	LayerService Layer = 1
	// LayerEventGroup is the consumed event group subscription machine.
	LayerEventGroup Layer = 2
	// LayerRemoteNode is the per-peer aggregate (response and retry timers).
	LayerRemoteNode Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerInstance:
		return "INSTANCE"
	case LayerService:
		return "SERVICE"
	case LayerEventGroup:
		return "EVENTGROUP"
	case LayerRemoteNode:
		return "REMOTE_NODE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a discovery entry (FIND, OFFER, SUBSCRIBE...).
	CategoryMessage Category = 0
	// CategoryControl indicates a control-plane request.
	CategoryControl Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates a diagnostic.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryControl:
		return "CONTROL"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MessageEvent captures a discovery entry queued for transmission or received.
type MessageEvent struct {
	// Entry is the entry type.
	Entry EntryType `cbor:"1,keyasint"`

	ServiceID    uint16 `cbor:"2,keyasint"`
	InstanceID   uint16 `cbor:"3,keyasint"`
	MajorVersion uint8  `cbor:"4,keyasint"`

	// MinorVersion is set for FIND and OFFER entries.
	MinorVersion *uint32 `cbor:"5,keyasint,omitempty"`

	// EventGroupID is set for subscription entries.
	EventGroupID *uint16 `cbor:"6,keyasint,omitempty"`

	// TTL in seconds as carried by the entry.
	TTL uint32 `cbor:"7,keyasint"`

	// Multicast is set for entries received or sent via multicast.
	Multicast bool `cbor:"8,keyasint,omitempty"`
}

// EntryType identifies a discovery entry.
type EntryType uint8

const (
	EntryFind          EntryType = 0
	EntryOffer         EntryType = 1
	EntryStopOffer     EntryType = 2
	EntrySubscribe     EntryType = 3
	EntryStopSubscribe EntryType = 4
	EntrySubscribeAck  EntryType = 5
	EntrySubscribeNack EntryType = 6
)

// String returns the entry type name.
func (e EntryType) String() string {
	switch e {
	case EntryFind:
		return "FIND"
	case EntryOffer:
		return "OFFER"
	case EntryStopOffer:
		return "STOP_OFFER"
	case EntrySubscribe:
		return "SUBSCRIBE"
	case EntryStopSubscribe:
		return "STOP_SUBSCRIBE"
	case EntrySubscribeAck:
		return "SUBSCRIBE_ACK"
	case EntrySubscribeNack:
		return "SUBSCRIBE_NACK"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures service phase and event group state changes.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// Handle is the service or event group handle.
	Handle uint16 `cbor:"2,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"3,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"4,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"5,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityService indicates a client service phase change.
	StateEntityService StateEntity = 0
	// StateEntityEventGroup indicates a consumed event group state change.
	StateEntityEventGroup StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityService:
		return "SERVICE"
	case StateEntityEventGroup:
		return "EVENTGROUP"
	default:
		return "UNKNOWN"
	}
}

// ControlEvent captures control-plane requests.
type ControlEvent struct {
	// Type of request.
	Type ControlType `cbor:"1,keyasint"`

	// Handle is the service or event group handle, if the request targets one.
	Handle *uint16 `cbor:"2,keyasint,omitempty"`
}

// ControlType indicates the type of control request.
type ControlType uint8

const (
	// ControlRequest requests a service or event group.
	ControlRequest ControlType = 0
	// ControlRelease releases a service or event group.
	ControlRelease ControlType = 1
	// ControlStart starts all requested services of an instance.
	ControlStart ControlType = 2
	// ControlHalt halts all services of an instance.
	ControlHalt ControlType = 3
	// ControlPeerReboot signals that a remote node rebooted.
	ControlPeerReboot ControlType = 4
)

// String returns the control type name.
func (c ControlType) String() string {
	switch c {
	case ControlRequest:
		return "REQUEST"
	case ControlRelease:
		return "RELEASE"
	case ControlStart:
		return "START"
	case ControlHalt:
		return "HALT"
	case ControlPeerReboot:
		return "PEER_REBOOT"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures diagnostics at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the diagnostic name.
	Message string `cbor:"2,keyasint"`

	// Code is the diagnostic kind (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}

package client

import (
	"net/netip"

	"github.com/google/uuid"

	"github.com/someip-sd/sdclient-go/pkg/delta"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Phase is the communication phase of a client service.
type Phase uint8

const (
	// PhaseDown means the service is not requested or the instance is halted.
	PhaseDown Phase = iota

	// PhaseInitialWait waits a randomized delay before the first FIND.
	PhaseInitialWait

	// PhaseRepetition retransmits FIND with doubling delays.
	PhaseRepetition

	// PhaseMain waits for an OFFER.
	PhaseMain

	// PhaseAvailable means an OFFER was accepted and the unicast data path is online.
	PhaseAvailable
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "DOWN"
	case PhaseInitialWait:
		return "INITIAL_WAIT"
	case PhaseRepetition:
		return "REPETITION"
	case PhaseMain:
		return "MAIN"
	case PhaseAvailable:
		return "AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// GroupState is the subscription state of a consumed event group.
type GroupState uint8

const (
	GroupReleased GroupState = iota
	GroupRequestedNoOffer
	GroupRequestedOfferReceived
	GroupWaitForAvailability
	GroupAvailable
)

// String returns a human-readable state name.
func (s GroupState) String() string {
	switch s {
	case GroupReleased:
		return "RELEASED"
	case GroupRequestedNoOffer:
		return "REQUESTED_NO_OFFER"
	case GroupRequestedOfferReceived:
		return "REQUESTED_OFFER_RECEIVED"
	case GroupWaitForAvailability:
		return "WAIT_FOR_AVAILABILITY"
	case GroupAvailable:
		return "AVAILABLE"
	default:
		return "UNKNOWN"
	}
}

// offered reports whether the group is past REQUESTED_NO_OFFER.
func (s GroupState) offered() bool {
	return s == GroupRequestedOfferReceived || s == GroupWaitForAvailability || s == GroupAvailable
}

// AckState tracks the acknowledgement of the last SUBSCRIBE of a group.
type AckState uint8

const (
	// AckNone means no SUBSCRIBE has been sent.
	AckNone AckState = iota

	// AckPending means a SUBSCRIBE was sent and is not yet acknowledged.
	AckPending

	// AckReceived means the last SUBSCRIBE was acknowledged.
	AckReceived
)

// String returns a human-readable state name.
func (a AckState) String() string {
	switch a {
	case AckNone:
		return "NO_SUBSCRIPTION_SENT"
	case AckPending:
		return "NOT_ACKED"
	case AckReceived:
		return "ACKED"
	default:
		return "UNKNOWN"
	}
}

// subscribeFlag records what the next response-timer expiry must send for
// a service.
type subscribeFlag uint8

const (
	subscribeNoAction subscribeFlag = iota
	subscribeSent
	subscribeNormal
	subscribeMulticastResponse
)

func (f subscribeFlag) String() string {
	switch f {
	case subscribeNoAction:
		return "NO_ACTION"
	case subscribeSent:
		return "SENT"
	case subscribeNormal:
		return "NORMAL"
	case subscribeMulticastResponse:
		return "MULTICAST_RESPONSE"
	default:
		return "UNKNOWN"
	}
}

// controlEvents are control-plane commands coalesced until the next event
// cycle.
type controlEvents struct {
	start bool
	stop  bool
	halt  bool
}

func (c controlEvents) pending() bool {
	return c.start || c.stop || c.halt
}

// offerEvents are protocol events coalesced until the next event cycle.
// stopOffer without stopFinal is a STOP-OFFER that an OFFER superseded in the
// same cycle. connLost marks a held unicast connection that left ONLINE.
type offerEvents struct {
	unicast   bool
	multicast bool
	stopOffer bool
	stopFinal bool
	connLost  bool
}

func (o offerEvents) pending() bool {
	return o.unicast || o.multicast || o.stopOffer || o.stopFinal || o.connLost
}

// ackEvent is a subscription acknowledgement waiting for the event cycle.
type ackEvent struct {
	valid     bool
	ttl       uint32
	multicast netip.AddrPort
}

// ServiceSnapshot is a point-in-time view of one client service.
type ServiceSnapshot struct {
	Handle        sd.ServiceHandle
	Name          string
	Instance      sd.InstanceHandle
	Requested     bool
	Phase         Phase
	OfferReceived bool
	Peer          netip.AddrPort

	// TTL is the remaining offer lifetime in ticks. delta.Stopped means no
	// offer, delta.Forever an infinite one.
	TTL delta.Ticks

	UDP sd.ConnID
	TCP sd.ConnID

	EventGroups []EventGroupSnapshot
}

// EventGroupSnapshot is a point-in-time view of one consumed event group.
type EventGroupSnapshot struct {
	Handle       sd.EventGroupHandle
	Name         string
	EventGroupID uint16
	State        GroupState
	Ack          AckState
	TTL          delta.Ticks
	Multicast    sd.ConnID
	RetryCounter uint8
}

// Snapshot is a point-in-time view of the engine.
type Snapshot struct {
	RunID    uuid.UUID
	Tick     uint64
	Services []ServiceSnapshot
}

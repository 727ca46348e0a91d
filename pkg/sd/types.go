package sd

import (
	"errors"
	"fmt"
	"net/netip"
)

// Protocol wildcards and sentinels.
const (
	// AnyService matches every service id in a FIND.
	AnyService uint16 = 0xFFFF

	// AnyInstance matches every instance id.
	AnyInstance uint16 = 0xFFFF

	// AnyMinor matches every minor version.
	AnyMinor uint32 = 0xFFFFFFFF

	// AnyEventGroup matches every event group id.
	AnyEventGroup uint16 = 0xFFFF

	// InfiniteTTL marks an offer or subscription that never expires.
	InfiniteTTL uint32 = 0xFFFFFF
)

// Transport errors.
var (
	// ErrConnBusy is returned by Transport.BindRemote when every connection
	// of the group is bound to another peer.
	ErrConnBusy = errors.New("connection group busy")
)

// InstanceHandle identifies one SD instance (one communication channel).
type InstanceHandle uint8

// ServiceHandle identifies a configured client service.
type ServiceHandle uint16

// EventGroupHandle identifies a configured consumed event group.
type EventGroupHandle uint16

// ConnID identifies a transport connection.
type ConnID uint16

// NoConn is the invalid connection id.
const NoConn ConnID = 0xFFFF

// Valid reports whether c refers to a connection.
func (c ConnID) Valid() bool {
	return c != NoConn
}

// ConnGroup is a contiguous range of transport connections sharing one
// local socket configuration.
type ConnGroup struct {
	First ConnID `yaml:"first"`
	Count uint16 `yaml:"count"`
}

// Conns returns every connection id of the group.
func (g ConnGroup) Conns() []ConnID {
	ids := make([]ConnID, 0, g.Count)
	for i := uint16(0); i < g.Count; i++ {
		ids = append(ids, g.First+ConnID(i))
	}
	return ids
}

// Contains reports whether id belongs to the group.
func (g ConnGroup) Contains(id ConnID) bool {
	return id >= g.First && uint32(id) < uint32(g.First)+uint32(g.Count)
}

// String returns a compact representation of the group.
func (g ConnGroup) String() string {
	return fmt.Sprintf("conn[%d+%d]", g.First, g.Count)
}

// RoutingGroupID names a routing path that can be enabled on a connection.
type RoutingGroupID uint16

// NoRoutingGroup marks an unconfigured routing path.
const NoRoutingGroup RoutingGroupID = 0xFFFF

// Configured reports whether the routing group is set.
func (r RoutingGroupID) Configured() bool {
	return r != NoRoutingGroup
}

// ConnMode is the transport mode of a connection.
type ConnMode uint8

const (
	// ConnModeOffline means the connection is closed or not established.
	ConnModeOffline ConnMode = iota

	// ConnModeReconnect means the connection is being (re)established.
	ConnModeReconnect

	// ConnModeOnline means the connection carries data.
	ConnModeOnline
)

// String returns the mode name.
func (m ConnMode) String() string {
	switch m {
	case ConnModeOffline:
		return "OFFLINE"
	case ConnModeReconnect:
		return "RECONNECT"
	case ConnModeOnline:
		return "ONLINE"
	default:
		return "UNKNOWN"
	}
}

// Readiness is the answer of Transport.ConnectionReady.
type Readiness uint8

const (
	// Ready means the connections toward the peer can carry a subscription.
	Ready Readiness = iota

	// Pending means connection setup is still in progress.
	Pending

	// NotReady means connection setup failed.
	NotReady
)

// String returns the readiness name.
func (r Readiness) String() string {
	switch r {
	case Ready:
		return "READY"
	case Pending:
		return "PENDING"
	case NotReady:
		return "NOT_READY"
	default:
		return "UNKNOWN"
	}
}

// Availability is the externally visible state of a service or event group.
type Availability uint8

const (
	// Down means the service or event group cannot be used.
	Down Availability = iota

	// Available means the service or event group is usable.
	Available
)

// String returns the availability name.
func (a Availability) String() string {
	if a == Available {
		return "AVAILABLE"
	}
	return "DOWN"
}

// Disposition is the requested state of a client service or event group.
type Disposition uint8

const (
	// Released asks the engine to stop using the entity.
	Released Disposition = iota

	// Requested asks the engine to discover and use the entity.
	Requested
)

// String returns the disposition name.
func (d Disposition) String() string {
	switch d {
	case Released:
		return "RELEASED"
	case Requested:
		return "REQUESTED"
	default:
		return "UNKNOWN"
	}
}

// ServiceInfo carries the identifying fields of a received service entry.
type ServiceInfo struct {
	ServiceID    uint16
	InstanceID   uint16
	MajorVersion uint8
}

// String formats the service as service:instance v.major.
func (s ServiceInfo) String() string {
	return fmt.Sprintf("%04x:%04x v%d", s.ServiceID, s.InstanceID, s.MajorVersion)
}

// EndpointInfo carries the endpoint options of a received entry.
// Unset endpoints are the zero AddrPort.
type EndpointInfo struct {
	UDP       netip.AddrPort
	TCP       netip.AddrPort
	Multicast netip.AddrPort

	// Capability is the capability record from the configuration option.
	Capability string
}

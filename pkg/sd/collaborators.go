package sd

import "net/netip"

// Transport is the connection capability consumed by the engine.
// The engine only holds connection ids; sockets belong to the transport.
type Transport interface {
	// OpenConn opens a connection so that it can accept a remote binding.
	OpenConn(id ConnID) error

	// CloseConn closes a connection.
	CloseConn(id ConnID) error

	// BindRemote binds a connection of the group to remote. Binding a
	// remote that is already bound returns the same connection again.
	// ErrConnBusy means no connection of the group is free.
	BindRemote(group ConnGroup, remote netip.AddrPort) (ConnID, error)

	// ReleaseRemote drops one binding made by BindRemote.
	ReleaseRemote(id ConnID)

	// EnableRouting activates a routing path on a connection.
	EnableRouting(group RoutingGroupID, id ConnID) error

	// DisableRouting deactivates a routing path on a connection.
	DisableRouting(group RoutingGroupID, id ConnID) error

	// ConnMode returns the current mode of a connection.
	ConnMode(id ConnID) ConnMode

	// RequestMulticastAddr asks for a multicast address to be assigned to
	// a connection. The connection leaves OFFLINE once it is usable.
	RequestMulticastAddr(id ConnID, group netip.AddrPort) error

	// ReleaseMulticastAddr drops a multicast address assignment.
	ReleaseMulticastAddr(id ConnID) error

	// ConnectionReady reports whether the connections toward a peer can
	// carry a subscription.
	ConnectionReady(peer netip.AddrPort) Readiness
}

// ModeSink receives availability notifications.
type ModeSink interface {
	ClientServiceMode(svc ServiceHandle, mode Availability)
	EventGroupMode(grp EventGroupHandle, mode Availability)
}

// Diagnostics receives failure reports.
type Diagnostics interface {
	Report(d Diagnostic)
}

// Sender queues discovery entries for transmission.
type Sender interface {
	// QueueFind queues a multicast FIND on the instance.
	QueueFind(inst InstanceHandle, entry FindEntry)

	// QueueSubscribe queues a unicast SUBSCRIBE or STOP-SUBSCRIBE to peer.
	QueueSubscribe(inst InstanceHandle, peer netip.AddrPort, entry SubscribeEntry)
}

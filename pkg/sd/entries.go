package sd

// FindEntry is a FIND queued for multicast transmission.
type FindEntry struct {
	Service      ServiceHandle
	ServiceID    uint16
	InstanceID   uint16
	MajorVersion uint8
	MinorVersion uint32
	TTL          uint32
}

// SubscribeEntry is a SUBSCRIBE or STOP-SUBSCRIBE queued for unicast
// transmission to a peer.
type SubscribeEntry struct {
	Service      ServiceHandle
	EventGroup   EventGroupHandle
	ServiceID    uint16
	InstanceID   uint16
	MajorVersion uint8
	EventGroupID uint16

	// TTL is zero for a STOP-SUBSCRIBE.
	TTL uint32

	// UDP and TCP are the unicast connections whose local endpoints go
	// into the entry options. NoConn when not used.
	UDP ConnID
	TCP ConnID

	// Stop marks a STOP-SUBSCRIBE.
	Stop bool
}

package sd

import "net/netip"

// DiagnosticKind names a failure condition reported to Diagnostics.
type DiagnosticKind uint8

const (
	// DiagServerNotAvailable is reported when an offer of a requested
	// service times out.
	DiagServerNotAvailable DiagnosticKind = iota

	// DiagSubscribeNack is reported on a negative subscription acknowledgement.
	DiagSubscribeNack

	// DiagSubscribeRetriesExceeded is reported once when a finite retry
	// bound is exhausted.
	DiagSubscribeRetriesExceeded

	// DiagOutOfResourcesUDP is reported when no UDP connection could be
	// bound to the offering peer.
	DiagOutOfResourcesUDP

	// DiagOutOfResourcesTCP is reported when no TCP connection could be
	// bound to the offering peer.
	DiagOutOfResourcesTCP

	// DiagRetryInfiniteTTLFinite is reported when unbounded subscription
	// retries are configured but the offer TTL is finite.
	DiagRetryInfiniteTTLFinite

	// DiagRetryExceedsTTL is reported when all retries cannot complete
	// within the offer TTL.
	DiagRetryExceedsTTL

	// DiagConnectionSetupFailed is reported when connections toward a peer
	// were still pending after the readiness timeout.
	DiagConnectionSetupFailed

	// DiagConnectionNotReady is reported when connection setup toward a
	// peer failed.
	DiagConnectionNotReady

	// DiagRemoteNodesExhausted is reported when the remote node table of
	// an instance is full.
	DiagRemoteNodesExhausted

	// DiagMulticastRequestFailed is reported when a multicast address
	// assignment could not be requested.
	DiagMulticastRequestFailed

	// DiagInvariantViolation is reported when the engine reaches a state
	// that must not occur.
	DiagInvariantViolation
)

// String returns the diagnostic name.
func (k DiagnosticKind) String() string {
	switch k {
	case DiagServerNotAvailable:
		return "SERVER_NOT_AVAILABLE"
	case DiagSubscribeNack:
		return "SUBSCRIBE_NACK"
	case DiagSubscribeRetriesExceeded:
		return "SUBSCRIBE_RETRIES_EXCEEDED"
	case DiagOutOfResourcesUDP:
		return "OUT_OF_RESOURCES_UDP"
	case DiagOutOfResourcesTCP:
		return "OUT_OF_RESOURCES_TCP"
	case DiagRetryInfiniteTTLFinite:
		return "RETRY_INFINITE_TTL_FINITE"
	case DiagRetryExceedsTTL:
		return "RETRY_EXCEEDS_TTL"
	case DiagConnectionSetupFailed:
		return "CONNECTION_SETUP_FAILED"
	case DiagConnectionNotReady:
		return "CONNECTION_NOT_READY"
	case DiagRemoteNodesExhausted:
		return "REMOTE_NODES_EXHAUSTED"
	case DiagMulticastRequestFailed:
		return "MULTICAST_REQUEST_FAILED"
	case DiagInvariantViolation:
		return "INVARIANT_VIOLATION"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic is one failure report.
type Diagnostic struct {
	Kind     DiagnosticKind
	Instance InstanceHandle

	// Service and EventGroup are set when HasService / HasEventGroup is true.
	Service       ServiceHandle
	HasService    bool
	EventGroup    EventGroupHandle
	HasEventGroup bool

	// Peer is the remote endpoint involved, if any.
	Peer netip.AddrPort

	// Detail is a free-form explanation.
	Detail string
}

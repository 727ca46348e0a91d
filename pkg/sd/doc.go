// Package sd holds the vocabulary shared by the client discovery engine and
// the host that embeds it.
//
// The engine never touches sockets or wire bytes. Everything it needs from the
// outside world is expressed as one of four collaborator interfaces:
//
//   - Transport: connection groups, remote-address binding, routing paths,
//     connection modes and multicast address assignment.
//   - ModeSink: observational notifications of service and event-group
//     availability.
//   - Diagnostics: fire-and-forget failure reports.
//   - Sender: FIND and SUBSCRIBE entries queued for transmission.
//
// # Handles
//
// Instances, client services and consumed event groups are addressed by
// small integer handles assigned in configuration order. A handle is an index
// into a fixed table and stays valid for the lifetime of the engine.
//
// # Sentinels
//
// Inbound entries use the protocol wildcards AnyService, AnyInstance,
// AnyMinor and AnyEventGroup. A TTL of InfiniteTTL never expires.
package sd

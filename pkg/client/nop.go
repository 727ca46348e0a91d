package client

import (
	"net/netip"

	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Collaborators used when Options leaves one unset.

type nopTransport struct{}

func (nopTransport) OpenConn(sd.ConnID) error  { return nil }
func (nopTransport) CloseConn(sd.ConnID) error { return nil }

func (nopTransport) BindRemote(g sd.ConnGroup, _ netip.AddrPort) (sd.ConnID, error) {
	return g.First, nil
}

func (nopTransport) ReleaseRemote(sd.ConnID)                           {}
func (nopTransport) EnableRouting(sd.RoutingGroupID, sd.ConnID) error  { return nil }
func (nopTransport) DisableRouting(sd.RoutingGroupID, sd.ConnID) error { return nil }
func (nopTransport) ConnMode(sd.ConnID) sd.ConnMode                    { return sd.ConnModeOnline }
func (nopTransport) RequestMulticastAddr(sd.ConnID, netip.AddrPort) error {
	return nil
}
func (nopTransport) ReleaseMulticastAddr(sd.ConnID) error        { return nil }
func (nopTransport) ConnectionReady(netip.AddrPort) sd.Readiness { return sd.Ready }

type nopModes struct{}

func (nopModes) ClientServiceMode(sd.ServiceHandle, sd.Availability) {}
func (nopModes) EventGroupMode(sd.EventGroupHandle, sd.Availability) {}

type nopDiagnostics struct{}

func (nopDiagnostics) Report(sd.Diagnostic) {}

type nopSender struct{}

func (nopSender) QueueFind(sd.InstanceHandle, sd.FindEntry)                           {}
func (nopSender) QueueSubscribe(sd.InstanceHandle, netip.AddrPort, sd.SubscribeEntry) {}

var (
	_ sd.Transport   = nopTransport{}
	_ sd.ModeSink    = nopModes{}
	_ sd.Diagnostics = nopDiagnostics{}
	_ sd.Sender      = nopSender{}
)

package client

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

func retryConfig(max uint8, delay time.Duration, services ...config.ClientService) config.Config {
	cfg := testConfig(services...)
	cfg.Instances[0].SubscribeRetryMax = max
	cfg.Instances[0].SubscribeRetryDelay = delay
	return cfg
}

func TestRetryBound(t *testing.T) {
	h := newHarness(t, retryConfig(2, 50*time.Millisecond))
	h.toAvailable()
	require.Equal(t, 1, h.rec.subscribeCount(false))

	h.run(100)

	assert.Equal(t, 3, h.rec.subscribeCount(false))
	assert.Equal(t, 2, h.rec.subscribeCount(true))
	assert.Equal(t, 1, h.rec.diagCount(sd.DiagSubscribeRetriesExceeded))
	assert.Zero(t, h.e.Snapshot().Services[0].EventGroups[0].RetryCounter)
	assert.Equal(t, GroupRequestedOfferReceived, h.groupState(0))
}

func TestRetryPairsStopWithSubscribe(t *testing.T) {
	h := newHarness(t, retryConfig(2, 50*time.Millisecond))
	h.toAvailable()

	// The first retry fires one delay after the SUBSCRIBE.
	h.run(4)
	require.Len(t, h.rec.subscribes, 1)
	h.run(1)
	require.Len(t, h.rec.subscribes, 3)

	assert.True(t, h.rec.subscribes[1].Stop)
	assert.False(t, h.rec.subscribes[2].Stop)
	assert.Equal(t, uint8(2), h.e.Snapshot().Services[0].EventGroups[0].RetryCounter)
}

func TestAckStopsRetries(t *testing.T) {
	h := newHarness(t, retryConfig(2, 50*time.Millisecond))
	h.toAvailable()

	h.ack(0x1234, 1, testPeer, 3, netip.AddrPort{})
	h.run(50)

	assert.Equal(t, 1, h.rec.subscribeCount(false))
	assert.Zero(t, h.rec.subscribeCount(true))
	assert.Zero(t, h.rec.diagCount(sd.DiagSubscribeRetriesExceeded))
}

func TestInfiniteRetriesWrap(t *testing.T) {
	h := newHarness(t, retryConfig(config.InfiniteRetries, 10*time.Millisecond))
	h.startToMain()
	h.offer(0x1234, testPeer, testPeerUDP, sd.InfiniteTTL, false)
	h.run(1)
	require.Equal(t, PhaseAvailable, h.phase(0))

	h.run(300)

	assert.Greater(t, h.rec.subscribeCount(true), 255)
	assert.Zero(t, h.rec.diagCount(sd.DiagSubscribeRetriesExceeded))
	assert.Zero(t, h.rec.diagCount(sd.DiagRetryInfiniteTTLFinite))
	assert.NotZero(t, h.e.Snapshot().Services[0].EventGroups[0].RetryCounter)
}

func TestInfiniteRetriesWithFiniteTTL(t *testing.T) {
	h := newHarness(t, retryConfig(config.InfiniteRetries, 50*time.Millisecond))
	h.toAvailable()

	assert.Equal(t, 1, h.rec.diagCount(sd.DiagRetryInfiniteTTLFinite))

	// Only the first offer of a peer is checked.
	h.offer(0x1234, testPeer, testPeerUDP, 3, false)
	h.run(1)
	assert.Equal(t, 1, h.rec.diagCount(sd.DiagRetryInfiniteTTLFinite))
}

func TestRetriesExceedMulticastTTL(t *testing.T) {
	h := newHarness(t, retryConfig(2, 2*time.Second))
	h.startToMain()

	h.offer(0x1234, testPeer, testPeerUDP, 3, true)
	assert.Equal(t, 1, h.rec.diagCount(sd.DiagRetryExceedsTTL))
}

func TestRetriesWithinMulticastTTL(t *testing.T) {
	h := newHarness(t, retryConfig(2, 50*time.Millisecond))
	h.startToMain()

	h.offer(0x1234, testPeer, testPeerUDP, 3, true)
	assert.Zero(t, h.rec.diagCount(sd.DiagRetryExceedsTTL))
}

func TestSubscribeWaitsForPendingConnection(t *testing.T) {
	h := newHarness(t, testConfig())
	h.tr.readiness = []sd.Readiness{sd.Pending, sd.Pending}
	h.toAvailable()
	assert.Empty(t, h.rec.subscribes)

	h.run(1)
	assert.Empty(t, h.rec.subscribes)

	h.run(1)
	assert.Len(t, h.rec.subscribes, 1)
	assert.Zero(t, h.rec.diagCount(sd.DiagConnectionSetupFailed))
}

func TestConnectionSetupTimeout(t *testing.T) {
	h := newHarness(t, testConfig())
	h.e.instances[0].readyTimeout = 2
	h.tr.readiness = []sd.Readiness{sd.Pending, sd.Pending, sd.Pending, sd.Pending}
	h.toAvailable()

	h.run(1)
	assert.Empty(t, h.rec.subscribes)

	h.run(1)
	assert.Equal(t, 1, h.rec.diagCount(sd.DiagConnectionSetupFailed))
	assert.Len(t, h.rec.subscribes, 1, "sent anyway")
}

func TestConnectionNotReady(t *testing.T) {
	h := newHarness(t, testConfig())
	h.tr.readiness = []sd.Readiness{sd.NotReady}
	h.toAvailable()

	assert.Equal(t, 1, h.rec.diagCount(sd.DiagConnectionNotReady))
	assert.Empty(t, h.rec.subscribes)

	// The next offer triggers another attempt.
	h.offer(0x1234, testPeer, testPeerUDP, 3, false)
	h.run(1)
	assert.Len(t, h.rec.subscribes, 1)
}

func TestServicesShareRemoteNode(t *testing.T) {
	h := newHarness(t, testConfig(
		testService("svc", 0x1234, 10),
		testService("svc2", 0x5678, 11),
	))
	h.startToMain()
	require.Equal(t, PhaseMain, h.phase(1))

	h.offer(0x1234, testPeer, testPeerUDP, 3, false)
	h.offer(0x5678, testPeer, testPeerUDP, 3, false)
	h.run(1)

	assert.Equal(t, PhaseAvailable, h.phase(0))
	assert.Equal(t, PhaseAvailable, h.phase(1))
	in := h.e.instances[0]
	assert.Equal(t, 2, in.nodes[0].offers)
	assert.Zero(t, in.nodes[1].offers)
	assert.Equal(t, 2, h.rec.subscribeCount(false))

	h.e.OnStopOfferReceived(0, h.info(0x1234), sd.EndpointInfo{}, 0, testPeer)
	h.run(1)
	assert.Equal(t, 1, in.nodes[0].offers)
	assert.Equal(t, testPeer, h.e.Snapshot().Services[1].Peer)
}

func TestLaterSubscribeKeepsRunningRetryDeadline(t *testing.T) {
	h := newHarness(t, retryConfig(2, 50*time.Millisecond,
		testService("svc", 0x1234, 10),
		testService("svc2", 0x5678, 11),
	))
	h.startToMain()
	require.Equal(t, PhaseMain, h.phase(1))

	h.offer(0x1234, testPeer, testPeerUDP, 3, false)
	h.run(1)
	require.Equal(t, 1, h.rec.subscribeCount(false))
	h.run(2)

	h.offer(0x5678, testPeer, testPeerUDP, 3, false)
	h.run(1)
	require.Equal(t, PhaseAvailable, h.phase(1))
	require.Equal(t, 2, h.rec.subscribeCount(false))

	// Both services retry one delay after the first SUBSCRIBE.
	h.run(1)
	assert.Zero(t, h.rec.subscribeCount(true))
	h.run(1)
	assert.Equal(t, 2, h.rec.subscribeCount(true))
	assert.Equal(t, 4, h.rec.subscribeCount(false))
}

func TestRemoteNodesExhausted(t *testing.T) {
	cfg := testConfig(
		testService("svc", 0x1234, 10),
		testService("svc2", 0x5678, 11),
	)
	cfg.Instances[0].MaxRemoteNodes = 1
	h := newHarness(t, cfg)
	h.startToMain()

	h.offer(0x1234, testPeer, testPeerUDP, 3, false)
	h.offer(0x5678, otherPeer, otherPeerUDP, 3, false)
	h.run(1)

	assert.Equal(t, PhaseAvailable, h.phase(0))
	assert.Equal(t, PhaseMain, h.phase(1))
	require.Equal(t, 1, h.rec.diagCount(sd.DiagRemoteNodesExhausted))
	assert.Equal(t, otherPeer, h.rec.diags[0].Peer)

	// The node is reused once its peer is gone.
	h.e.OnStopOfferReceived(0, h.info(0x1234), sd.EndpointInfo{}, 0, testPeer)
	h.run(1)
	h.offer(0x5678, otherPeer, otherPeerUDP, 3, false)
	h.run(1)
	assert.Equal(t, PhaseAvailable, h.phase(1))
	assert.Equal(t, otherPeer, h.e.instances[0].nodes[0].addr)
}

func TestAllocNodePrefersKnownPeer(t *testing.T) {
	in := &instanceRecord{nodes: make([]remoteNode, 3), readyTimeout: 5}
	in.nodes[0] = remoteNode{addr: otherPeer, offers: 1}
	in.nodes[2] = remoteNode{addr: testPeer}

	assert.Equal(t, 0, in.allocNode(otherPeer))
	assert.Equal(t, 2, in.allocNode(testPeer))
	assert.Equal(t, 1, in.allocNode(netip.MustParseAddrPort("10.0.0.1:30490")))

	in.nodes[1].offers = 1
	in.nodes[2].offers = 1
	assert.Equal(t, -1, in.allocNode(netip.MustParseAddrPort("10.0.0.2:30490")))
}

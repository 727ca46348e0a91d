package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

const sampleYAML = `
main_function_period: 5ms
seed: 99
instances:
  - name: eth0
    subscribe_retry_max: 3
    subscribe_retry_delay: 200ms
    services:
      - name: radar
        service_id: 0x1234
        instance_id: 1
        major_version: 1
        minor_version: 4
        version_policy: minimum
        blacklist: [6]
        auto_require: true
        timer:
          initial_find_delay_min: 10ms
          initial_find_delay_max: 50ms
          repetitions_base_delay: 100ms
          repetitions_max: 3
          request_response_min_delay: 20ms
          request_response_max_delay: 40ms
          ttl: 3
        udp: {first: 2, count: 2}
        routing: 7
        event_groups:
          - name: objects
            event_group_id: 1
            udp_routing: 10
          - name: status
            event_group_id: 2
            multicast_routing: 11
            multicast: {first: 20, count: 1}
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Millisecond, cfg.MainFunctionPeriod)
	assert.Equal(t, uint64(99), cfg.Seed)
	require.Len(t, cfg.Instances, 1)

	inst := cfg.Instances[0]
	assert.Equal(t, "eth0", inst.Name)
	assert.Equal(t, config.DefaultMaxRemoteNodes, inst.MaxRemoteNodes)
	assert.True(t, inst.RetriesEnabled())
	assert.Equal(t, 200*time.Millisecond, inst.SubscribeRetryDelay)

	require.Len(t, inst.Services, 1)
	svc := inst.Services[0]
	assert.Equal(t, uint16(0x1234), svc.ServiceID)
	assert.Equal(t, config.Minimum, svc.VersionPolicy)
	assert.Equal(t, []uint32{6}, svc.Blacklist)
	assert.Equal(t, 100*time.Millisecond, svc.Timer.RepetitionsBaseDelay)
	require.NotNil(t, svc.UDP)
	assert.Equal(t, sd.ConnGroup{First: 2, Count: 2}, *svc.UDP)
	assert.Nil(t, svc.TCP)
	assert.Equal(t, sd.RoutingGroupID(7), config.RoutingOrNone(svc.Routing))

	require.Len(t, svc.EventGroups, 2)
	assert.Equal(t, sd.RoutingGroupID(10), config.RoutingOrNone(svc.EventGroups[0].UDPRouting))
	assert.Equal(t, sd.NoRoutingGroup, config.RoutingOrNone(svc.EventGroups[0].TCPRouting))
	require.NotNil(t, svc.EventGroups[1].Multicast)
	assert.Equal(t, sd.ConnID(20), svc.EventGroups[1].Multicast.First)

	assert.Equal(t, 1, cfg.ServiceCount())
	assert.Equal(t, 2, cfg.EventGroupCount())
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte("instances: [{name: a}]"))
	require.NoError(t, err)
	assert.Equal(t, config.DefaultMainFunctionPeriod, cfg.MainFunctionPeriod)
	assert.False(t, cfg.Instances[0].RetriesEnabled())
}

func TestParseUnknownVersionPolicy(t *testing.T) {
	_, err := config.Parse([]byte(`
instances:
  - name: a
    services:
      - name: s
        version_policy: newest
`))
	require.Error(t, err)

	var le *config.LoadError
	require.True(t, errors.As(err, &le))
	assert.Contains(t, err.Error(), "newest")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Instances = []config.Instance{{
		Name:              "eth0",
		SubscribeRetryMax: 2,
		Services: []config.ClientService{{
			Name:      "bad",
			ServiceID: 1,
			Timer: config.ClientTimer{
				InitialFindDelayMin: 2 * time.Second,
				InitialFindDelayMax: time.Second,
			},
			EventGroups: []config.ConsumedEventGroup{
				{Name: "a", EventGroupID: 5},
				{Name: "b", EventGroupID: 5},
			},
		}},
	}}

	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	// retry delay, find delay order, duplicate event group id
	assert.Len(t, multierr.Errors(err), 3)
}

func TestValidateRejectsWildcardIDs(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Instances = []config.Instance{{
		Name: "eth0",
		Services: []config.ClientService{{
			Name:        "wild",
			ServiceID:   sd.AnyService,
			EventGroups: []config.ConsumedEventGroup{{Name: "all", EventGroupID: sd.AnyEventGroup}},
		}},
	}}
	assert.Len(t, multierr.Errors(cfg.Validate()), 2)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Instances, 1)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	var le *config.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, filepath.Join(dir, "missing.yaml"), le.File)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

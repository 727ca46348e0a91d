package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// Defaults.
const (
	// DefaultMainFunctionPeriod is the cadence of the cyclic entry points.
	DefaultMainFunctionPeriod = 10 * time.Millisecond

	// DefaultMaxRemoteNodes is the remote node table size of an instance.
	DefaultMaxRemoteNodes = 8

	// InfiniteRetries configures unbounded subscription retries.
	InfiniteRetries uint8 = 255
)

// Config is the complete engine configuration.
type Config struct {
	// MainFunctionPeriod is the time between two main-function calls.
	MainFunctionPeriod time.Duration `yaml:"main_function_period"`

	// StrictInvariants panics on invariant violations instead of only
	// reporting them. Meant for tests and debug builds.
	StrictInvariants bool `yaml:"strict_invariants"`

	// Seed seeds randomized delays. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`

	Instances []Instance `yaml:"instances"`
}

// Instance is one SD instance.
type Instance struct {
	Name string `yaml:"name"`

	// MaxRemoteNodes bounds the number of distinct offering peers.
	MaxRemoteNodes int `yaml:"max_remote_nodes"`

	// SubscribeRetryMax is the number of subscription retries; zero
	// disables retries and InfiniteRetries never stops.
	SubscribeRetryMax uint8 `yaml:"subscribe_retry_max"`

	// SubscribeRetryDelay is the time between two retries.
	SubscribeRetryDelay time.Duration `yaml:"subscribe_retry_delay"`

	Services []ClientService `yaml:"services"`
}

// RetriesEnabled reports whether subscription retries are configured.
func (i *Instance) RetriesEnabled() bool {
	return i.SubscribeRetryMax > 0
}

// VersionPolicy selects how minor versions of offers are matched.
type VersionPolicy uint8

const (
	// ExactOrAny accepts only the configured minor version, or every
	// minor version when the configured one is sd.AnyMinor.
	ExactOrAny VersionPolicy = iota

	// Minimum accepts every minor version at or above the configured one.
	Minimum
)

// String returns the policy name.
func (p VersionPolicy) String() string {
	switch p {
	case ExactOrAny:
		return "exact_or_any"
	case Minimum:
		return "minimum"
	default:
		return "unknown"
	}
}

// UnmarshalYAML decodes a policy name.
func (p *VersionPolicy) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "exact_or_any":
		*p = ExactOrAny
	case "minimum":
		*p = Minimum
	default:
		return fmt.Errorf("line %d: unknown version policy %q", node.Line, s)
	}
	return nil
}

// MarshalYAML encodes the policy name.
func (p VersionPolicy) MarshalYAML() (any, error) {
	return p.String(), nil
}

// ClientService is one consumed service.
type ClientService struct {
	Name         string `yaml:"name"`
	ServiceID    uint16 `yaml:"service_id"`
	InstanceID   uint16 `yaml:"instance_id"`
	MajorVersion uint8  `yaml:"major_version"`
	MinorVersion uint32 `yaml:"minor_version"`

	VersionPolicy VersionPolicy `yaml:"version_policy"`

	// Blacklist lists minor versions that are never accepted.
	Blacklist []uint32 `yaml:"blacklist"`

	// Capability must equal the capability record of accepted entries.
	Capability string `yaml:"capability"`

	// AutoRequire starts the service requested.
	AutoRequire bool `yaml:"auto_require"`

	Timer ClientTimer `yaml:"timer"`

	// UDP and TCP are the unicast connection groups of the service.
	UDP *sd.ConnGroup `yaml:"udp"`
	TCP *sd.ConnGroup `yaml:"tcp"`

	// Routing is the service-level routing group enabled while available.
	Routing *sd.RoutingGroupID `yaml:"routing"`

	EventGroups []ConsumedEventGroup `yaml:"event_groups"`
}

// ClientTimer holds the discovery timing of a client service.
type ClientTimer struct {
	InitialFindDelayMin     time.Duration `yaml:"initial_find_delay_min"`
	InitialFindDelayMax     time.Duration `yaml:"initial_find_delay_max"`
	RepetitionsBaseDelay    time.Duration `yaml:"repetitions_base_delay"`
	RepetitionsMax          uint8         `yaml:"repetitions_max"`
	RequestResponseMinDelay time.Duration `yaml:"request_response_min_delay"`
	RequestResponseMaxDelay time.Duration `yaml:"request_response_max_delay"`

	// TTL is the lifetime in seconds put into FIND and SUBSCRIBE entries.
	TTL uint32 `yaml:"ttl"`
}

// ConsumedEventGroup is one event group a client service may subscribe to.
type ConsumedEventGroup struct {
	Name         string `yaml:"name"`
	EventGroupID uint16 `yaml:"event_group_id"`
	AutoRequire  bool   `yaml:"auto_require"`

	UDPRouting       *sd.RoutingGroupID `yaml:"udp_routing"`
	TCPRouting       *sd.RoutingGroupID `yaml:"tcp_routing"`
	MulticastRouting *sd.RoutingGroupID `yaml:"multicast_routing"`

	// Multicast is the connection group used to receive multicast events.
	Multicast *sd.ConnGroup `yaml:"multicast"`
}

// RoutingOrNone dereferences an optional routing group.
func RoutingOrNone(r *sd.RoutingGroupID) sd.RoutingGroupID {
	if r == nil {
		return sd.NoRoutingGroup
	}
	return *r
}

// DefaultConfig returns a configuration without instances.
func DefaultConfig() Config {
	return Config{
		MainFunctionPeriod: DefaultMainFunctionPeriod,
	}
}

// ApplyDefaults fills zero values that have a default. Parse calls it;
// programmatic configurations should call it before Validate.
func (c *Config) ApplyDefaults() {
	if c.MainFunctionPeriod == 0 {
		c.MainFunctionPeriod = DefaultMainFunctionPeriod
	}
	for i := range c.Instances {
		if c.Instances[i].MaxRemoteNodes == 0 {
			c.Instances[i].MaxRemoteNodes = DefaultMaxRemoteNodes
		}
	}
}

// ServiceCount returns the number of client services over all instances.
func (c *Config) ServiceCount() int {
	n := 0
	for i := range c.Instances {
		n += len(c.Instances[i].Services)
	}
	return n
}

// EventGroupCount returns the number of consumed event groups over all
// instances.
func (c *Config) EventGroupCount() int {
	n := 0
	for i := range c.Instances {
		for j := range c.Instances[i].Services {
			n += len(c.Instances[i].Services[j].EventGroups)
		}
	}
	return n
}

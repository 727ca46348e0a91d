package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Configuration errors.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrTooManyEntries = errors.New("too many configured entries")
)

// Handle space limits.
const (
	maxInstances   = 0xFF
	maxServices    = 0xFFFF
	maxEventGroups = 0xFFFF
)

// Validate checks the configuration and returns every problem found,
// combined into one error.
func (c *Config) Validate() error {
	var errs error

	if c.MainFunctionPeriod <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: main_function_period must be positive", ErrInvalidConfig))
	}
	if len(c.Instances) > maxInstances {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d instances", ErrTooManyEntries, len(c.Instances)))
	}
	if n := c.ServiceCount(); n >= maxServices {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d client services", ErrTooManyEntries, n))
	}
	if n := c.EventGroupCount(); n >= maxEventGroups {
		errs = multierr.Append(errs, fmt.Errorf("%w: %d consumed event groups", ErrTooManyEntries, n))
	}

	names := make(map[string]bool)
	for i := range c.Instances {
		inst := &c.Instances[i]
		if inst.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: instance %d has no name", ErrInvalidConfig, i))
		} else if names[inst.Name] {
			errs = multierr.Append(errs, fmt.Errorf("%w: duplicate instance name %q", ErrInvalidConfig, inst.Name))
		}
		names[inst.Name] = true

		if inst.MaxRemoteNodes < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: instance %q: max_remote_nodes must not be negative", ErrInvalidConfig, inst.Name))
		}
		if inst.RetriesEnabled() && inst.SubscribeRetryDelay <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: instance %q: subscribe_retry_delay required when retries are enabled", ErrInvalidConfig, inst.Name))
		}
		for j := range inst.Services {
			errs = multierr.Append(errs, inst.Services[j].validate(inst.Name))
		}
	}

	return errs
}

func (s *ClientService) validate(instance string) error {
	var errs error
	where := fmt.Sprintf("instance %q: service %q", instance, s.Name)

	if s.Name == "" {
		errs = multierr.Append(errs, fmt.Errorf("%w: instance %q: service %04x:%04x has no name", ErrInvalidConfig, instance, s.ServiceID, s.InstanceID))
	}
	if s.ServiceID == 0xFFFF || s.InstanceID == 0xFFFF {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: wildcard service or instance id", ErrInvalidConfig, where))
	}
	t := s.Timer
	if t.InitialFindDelayMin > t.InitialFindDelayMax {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: initial_find_delay_min exceeds max", ErrInvalidConfig, where))
	}
	if t.RequestResponseMinDelay > t.RequestResponseMaxDelay {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: request_response_min_delay exceeds max", ErrInvalidConfig, where))
	}
	if t.RepetitionsMax > 0 && t.RepetitionsBaseDelay <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: repetitions_base_delay required when repetitions_max > 0", ErrInvalidConfig, where))
	}
	if s.UDP != nil && s.UDP.Count == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: empty udp connection group", ErrInvalidConfig, where))
	}
	if s.TCP != nil && s.TCP.Count == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: %s: empty tcp connection group", ErrInvalidConfig, where))
	}

	ids := make(map[uint16]bool)
	for k := range s.EventGroups {
		eg := &s.EventGroups[k]
		if eg.EventGroupID == 0xFFFF {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: event group %q uses the wildcard id", ErrInvalidConfig, where, eg.Name))
		}
		if ids[eg.EventGroupID] {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: duplicate event group id %#04x", ErrInvalidConfig, where, eg.EventGroupID))
		}
		ids[eg.EventGroupID] = true
		if eg.Multicast != nil && eg.Multicast.Count == 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s: event group %q: empty multicast connection group", ErrInvalidConfig, where, eg.Name))
		}
	}

	return errs
}

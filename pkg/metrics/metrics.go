// Package metrics exposes discovery engine activity as Prometheus metrics.
//
// A Collector is fed two ways: as a log.Logger it counts the trace events the
// engine emits, and Observe samples an engine Snapshot into gauges.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/someip-sd/sdclient-go/pkg/client"
	"github.com/someip-sd/sdclient-go/pkg/log"
)

// Collector holds the discovery metrics registered against one registerer.
type Collector struct {
	gatherer prometheus.Gatherer

	Entries     *prometheus.CounterVec
	Transitions *prometheus.CounterVec
	Controls    *prometheus.CounterVec
	Diagnostics *prometheus.CounterVec

	Services    *prometheus.GaugeVec
	EventGroups *prometheus.GaugeVec
	Tick        prometheus.Gauge

	CycleDuration prometheus.Histogram
}

var (
	phases = []client.Phase{
		client.PhaseDown,
		client.PhaseInitialWait,
		client.PhaseRepetition,
		client.PhaseMain,
		client.PhaseAvailable,
	}
	groupStates = []client.GroupState{
		client.GroupReleased,
		client.GroupRequestedNoOffer,
		client.GroupRequestedOfferReceived,
		client.GroupWaitForAvailability,
		client.GroupAvailable,
	}
)

// NewCollector registers the discovery metrics against reg. A nil reg uses
// the default registerer. Registering twice against the same registry
// returns collectors sharing the existing metrics.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	entries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sd_entries_total",
		Help: "Discovery entries queued for transmission or received, by direction and entry type.",
	}, []string{"instance", "direction", "entry"}), "sd_entries_total")
	if err != nil {
		return nil, err
	}

	transitions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sd_state_transitions_total",
		Help: "Client service phase and event group state transitions, by entity and new state.",
	}, []string{"entity", "state"}), "sd_state_transitions_total")
	if err != nil {
		return nil, err
	}

	controls, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sd_control_requests_total",
		Help: "Control-plane requests accepted by the engine.",
	}, []string{"type"}), "sd_control_requests_total")
	if err != nil {
		return nil, err
	}

	diags, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sd_diagnostics_total",
		Help: "Diagnostics reported by the engine, by kind.",
	}, []string{"kind"}), "sd_diagnostics_total")
	if err != nil {
		return nil, err
	}

	services, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sd_client_services",
		Help: "Client services per communication phase at the last sample.",
	}, []string{"phase"}), "sd_client_services")
	if err != nil {
		return nil, err
	}

	groups, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sd_event_groups",
		Help: "Consumed event groups per subscription state at the last sample.",
	}, []string{"state"}), "sd_event_groups")
	if err != nil {
		return nil, err
	}

	tick, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sd_main_function_ticks",
		Help: "Main function invocations of the engine at the last sample.",
	}), "sd_main_function_ticks")
	if err != nil {
		return nil, err
	}

	cycle, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sd_main_function_duration_seconds",
		Help:    "Duration of one main function invocation.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "sd_main_function_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Entries:       entries,
		Transitions:   transitions,
		Controls:      controls,
		Diagnostics:   diags,
		Services:      services,
		EventGroups:   groups,
		Tick:          tick,
		CycleDuration: cycle,
	}, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// Handler serves the collector's gatherer in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	gatherer := c.Gatherer()
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Log counts a trace event. It makes the collector usable as a log.Logger,
// typically next to a FileLogger behind a MultiLogger.
func (c *Collector) Log(ev log.Event) {
	if c == nil {
		return
	}
	switch ev.Category {
	case log.CategoryMessage:
		if ev.Message != nil {
			c.Entries.WithLabelValues(ev.Instance, ev.Direction.String(), ev.Message.Entry.String()).Inc()
		}
	case log.CategoryState:
		if ev.StateChange != nil {
			c.Transitions.WithLabelValues(ev.StateChange.Entity.String(), ev.StateChange.NewState).Inc()
		}
	case log.CategoryControl:
		if ev.Control != nil {
			c.Controls.WithLabelValues(ev.Control.Type.String()).Inc()
		}
	case log.CategoryError:
		if ev.Error != nil {
			c.Diagnostics.WithLabelValues(ev.Error.Message).Inc()
		}
	}
}

// Observe sets the phase and state gauges from an engine snapshot. Every
// phase and state gets a series, zero when nothing is in it.
func (c *Collector) Observe(snap client.Snapshot) {
	if c == nil {
		return
	}
	perPhase := make(map[client.Phase]int, len(phases))
	perState := make(map[client.GroupState]int, len(groupStates))
	for _, svc := range snap.Services {
		perPhase[svc.Phase]++
		for _, eg := range svc.EventGroups {
			perState[eg.State]++
		}
	}
	for _, p := range phases {
		c.Services.WithLabelValues(p.String()).Set(float64(perPhase[p]))
	}
	for _, s := range groupStates {
		c.EventGroups.WithLabelValues(s.String()).Set(float64(perState[s]))
	}
	c.Tick.Set(float64(snap.Tick))
}

// ObserveCycle records the duration of one main function invocation.
func (c *Collector) ObserveCycle(d time.Duration) {
	if c == nil || c.CycleDuration == nil {
		return
	}
	c.CycleDuration.Observe(d.Seconds())
}

var _ log.Logger = (*Collector)(nil)

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

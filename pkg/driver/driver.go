// Package driver runs the discovery engine's main function at a fixed cadence.
//
// The engine itself never starts goroutines or reads the clock. A host that
// has no scheduler of its own uses a Driver to call MainFunction once per
// period and to sample the engine state for observers such as metrics.
package driver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"
)

// Default values.
const (
	// DefaultPeriod matches the engine's default main function period.
	DefaultPeriod = 10 * time.Millisecond

	// DefaultSampleEvery samples once per second at the default period.
	DefaultSampleEvery = 100
)

var (
	// ErrRunning is returned by Run when the driver is already running.
	ErrRunning = errors.New("driver already running")
)

// Stepper is the cyclic entry point driven by a Driver.
type Stepper interface {
	MainFunction()
}

// Config configures the cadence of a Driver.
type Config struct {
	// Period between two main function calls.
	Period time.Duration

	// SampleEvery calls Options.Sample after every N main function calls.
	// Zero disables sampling.
	SampleEvery int
}

// DefaultConfig returns the default driver configuration.
func DefaultConfig() Config {
	return Config{
		Period:      DefaultPeriod,
		SampleEvery: DefaultSampleEvery,
	}
}

// Options carries the optional collaborators of a Driver.
type Options struct {
	// Clock defaults to the wall clock.
	Clock clock.Clock

	// Logger receives start, stop and overrun messages. Nil disables logging.
	Logger *slog.Logger

	// OnCycle is called after every main function call with its duration.
	OnCycle func(time.Duration)

	// Sample is called from a separate goroutine every SampleEvery calls.
	// Samples are dropped while a previous one is still running.
	Sample func()
}

// Stats contains driver statistics.
type Stats struct {
	Ticks     uint64
	Overruns  uint64
	Samples   uint64
	LastTick  time.Time
	MaxCycle  time.Duration
	StartedAt time.Time
}

// Driver calls a Stepper once per period.
type Driver struct {
	engine Stepper
	config Config
	opts   Options

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	stats   Stats
}

// New creates a driver for engine.
func New(engine Stepper, config Config, opts Options) *Driver {
	if config.Period <= 0 {
		config.Period = DefaultPeriod
	}
	if config.SampleEvery < 0 {
		config.SampleEvery = 0
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Driver{
		engine: engine,
		config: config,
		opts:   opts,
	}
}

// Run drives the engine until ctx is cancelled or Stop is called.
func (d *Driver) Run(ctx context.Context) error {
	stopCh, done, err := d.begin()
	if err != nil {
		return err
	}
	return d.run(ctx, stopCh, done)
}

// Start runs the driver in the background. It does nothing if the driver is
// already running.
func (d *Driver) Start(ctx context.Context) {
	stopCh, done, err := d.begin()
	if err != nil {
		return
	}
	go func() {
		_ = d.run(ctx, stopCh, done)
	}()
}

func (d *Driver) begin() (chan struct{}, chan struct{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return nil, nil, ErrRunning
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.done = make(chan struct{})
	d.stats.StartedAt = d.opts.Clock.Now()
	return d.stopCh, d.done, nil
}

func (d *Driver) run(ctx context.Context, stopCh <-chan struct{}, done chan struct{}) error {
	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
		close(done)
	}()

	d.logDebug("driver started", slog.Duration("period", d.config.Period))

	g, gctx := errgroup.WithContext(ctx)
	samples := make(chan struct{}, 1)

	g.Go(func() error {
		defer close(samples)
		return d.loop(gctx, stopCh, samples)
	})
	g.Go(func() error {
		for range samples {
			if d.opts.Sample == nil {
				continue
			}
			d.opts.Sample()
			d.mu.Lock()
			d.stats.Samples++
			d.mu.Unlock()
		}
		return nil
	})

	err := g.Wait()
	d.logDebug("driver stopped", slog.Uint64("ticks", d.Stats().Ticks))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stop stops a running driver and waits for its goroutines to finish.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	select {
	case <-d.stopCh:
	default:
		close(d.stopCh)
	}
	done := d.done
	d.mu.Unlock()

	<-done
}

// IsRunning returns true while the driver loop is active.
func (d *Driver) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// Stats returns current driver statistics.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// loop is the main driver loop.
func (d *Driver) loop(ctx context.Context, stopCh <-chan struct{}, samples chan<- struct{}) error {
	ticker := d.opts.Clock.Ticker(d.config.Period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			if d.step() {
				select {
				case samples <- struct{}{}:
				default:
				}
			}
		}
	}
}

// step runs one main function call and reports whether a sample is due.
func (d *Driver) step() bool {
	start := d.opts.Clock.Now()
	d.engine.MainFunction()
	elapsed := d.opts.Clock.Since(start)

	d.mu.Lock()
	d.stats.Ticks++
	d.stats.LastTick = start
	if elapsed > d.stats.MaxCycle {
		d.stats.MaxCycle = elapsed
	}
	overrun := elapsed > d.config.Period
	if overrun {
		d.stats.Overruns++
	}
	due := d.config.SampleEvery > 0 && d.stats.Ticks%uint64(d.config.SampleEvery) == 0
	ticks := d.stats.Ticks
	d.mu.Unlock()

	if overrun {
		d.logWarn("main function overran its period",
			slog.Uint64("tick", ticks),
			slog.Duration("elapsed", elapsed),
			slog.Duration("period", d.config.Period))
	}
	if d.opts.OnCycle != nil {
		d.opts.OnCycle(elapsed)
	}
	return due
}

func (d *Driver) logDebug(msg string, attrs ...slog.Attr) {
	if d.opts.Logger != nil {
		d.opts.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	}
}

func (d *Driver) logWarn(msg string, attrs ...slog.Attr) {
	if d.opts.Logger != nil {
		d.opts.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, attrs...)
	}
}

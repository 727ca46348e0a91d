package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/someip-sd/sdclient-go/pkg/client"
	"github.com/someip-sd/sdclient-go/pkg/config"
	"github.com/someip-sd/sdclient-go/pkg/log"
	"github.com/someip-sd/sdclient-go/pkg/sd"
)

// ActionHandler performs a step action.
type ActionHandler func(ctx context.Context, step *Step, st *State) error

// ExpectChecker checks one expectation after a step.
type ExpectChecker func(key string, expected any, st *State) *ExpectResult

// State is the engine and recorder of one running scenario.
type State struct {
	Config   *config.Config
	Engine   *client.Engine
	Recorder *Recorder

	// traceFile is set when the runner writes trace files.
	traceFile *log.FileLogger
}

// Options configures a Runner.
type Options struct {
	// Logger is passed to every engine. Nil disables operational logging.
	Logger *slog.Logger

	// Trace receives the trace events of every engine in addition to the
	// recorder.
	Trace log.Logger

	// TraceDir, when set, receives one trace file per scenario named
	// after the scenario ID.
	TraceDir string

	// StopOnFirstFailure stops a suite after the first failing scenario.
	StopOnFirstFailure bool
}

// Runner executes scenarios.
type Runner struct {
	opts     Options
	handlers map[string]ActionHandler
	checkers map[string]ExpectChecker
}

// NewRunner creates a runner with the built-in actions and checkers.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		opts:     opts,
		handlers: make(map[string]ActionHandler),
		checkers: make(map[string]ExpectChecker),
	}
	registerHandlers(r)
	registerCheckers(r)
	return r
}

// RegisterHandler registers an action handler.
func (r *Runner) RegisterHandler(action string, h ActionHandler) {
	r.handlers[action] = h
}

// RegisterChecker registers an expectation checker.
func (r *Runner) RegisterChecker(key string, c ExpectChecker) {
	r.checkers[key] = c
}

// Run executes a single scenario on a fresh engine.
func (r *Runner) Run(ctx context.Context, sc *Scenario) *Result {
	start := time.Now()
	result := &Result{Scenario: sc}
	defer func() { result.Duration = time.Since(start) }()

	if sc.Skip {
		result.Skipped = true
		result.SkipReason = sc.SkipReason
		if result.SkipReason == "" {
			result.SkipReason = "skipped by scenario definition"
		}
		return result
	}

	st, err := r.newState(sc)
	if err != nil {
		result.Error = err
		return result
	}
	if st.traceFile != nil {
		result.TracePath = st.traceFile.Path()
		defer st.traceFile.Close()
	}

	for i := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = err
			return result
		}
		sr := r.executeStep(ctx, &sc.Steps[i], i, st)
		result.StepResults = append(result.StepResults, sr)
		if !sr.Passed {
			result.Error = fmt.Errorf("step %d (%s): %w", i+1, sc.Steps[i].Action, sr.Error)
			return result
		}
	}
	result.Passed = true
	return result
}

// RunSuite executes scenarios in order.
func (r *Runner) RunSuite(ctx context.Context, name string, scenarios []*Scenario) *SuiteResult {
	start := time.Now()
	suite := &SuiteResult{Name: name}
	for _, sc := range scenarios {
		res := r.Run(ctx, sc)
		suite.Results = append(suite.Results, res)
		switch {
		case res.Skipped:
			suite.SkipCount++
		case res.Passed:
			suite.PassCount++
		default:
			suite.FailCount++
		}
		if !res.Passed && !res.Skipped && r.opts.StopOnFirstFailure {
			break
		}
	}
	suite.Duration = time.Since(start)
	return suite
}

func (r *Runner) newState(sc *Scenario) (*State, error) {
	cfg, err := sc.EngineConfig()
	if err != nil {
		return nil, err
	}
	rec := NewRecorder()
	st := &State{Config: cfg, Recorder: rec}
	if r.opts.TraceDir != "" {
		st.traceFile, err = log.NewFileLogger(filepath.Join(r.opts.TraceDir, sc.ID+".sdlog"))
		if err != nil {
			return nil, err
		}
	}
	var trace log.Logger = rec
	if r.opts.Trace != nil || st.traceFile != nil {
		trace = log.NewMultiLogger(rec, r.opts.Trace, fileTrace(st.traceFile))
	}
	e, err := client.New(*cfg, client.Options{
		Transport:   rec,
		Modes:       rec,
		Diagnostics: rec,
		Sender:      rec,
		Logger:      r.opts.Logger,
		Trace:       trace,
	})
	if err != nil {
		if st.traceFile != nil {
			st.traceFile.Close()
		}
		return nil, err
	}
	st.Engine = e
	return st, nil
}

// fileTrace avoids handing a typed nil to NewMultiLogger.
func fileTrace(f *log.FileLogger) log.Logger {
	if f == nil {
		return nil
	}
	return f
}

func (r *Runner) executeStep(ctx context.Context, step *Step, index int, st *State) *StepResult {
	result := &StepResult{
		Step:          step,
		StepIndex:     index,
		ExpectResults: make(map[string]*ExpectResult),
	}

	handler, ok := r.handlers[step.Action]
	if !ok {
		result.Error = fmt.Errorf("unknown action: %s", step.Action)
		return result
	}
	if err := runHandler(ctx, handler, step, st); err != nil {
		result.Error = err
		return result
	}

	result.Passed = true
	var failures []error
	for key, expected := range step.Expect {
		checker, ok := r.checkers[key]
		if !ok {
			result.Passed = false
			failures = append(failures, fmt.Errorf("unknown expectation: %s", key))
			continue
		}
		er := checker(key, expected, st)
		result.ExpectResults[key] = er
		if !er.Passed {
			result.Passed = false
			failures = append(failures, fmt.Errorf("%s: %s", key, er.Message))
		}
	}
	result.Error = errors.Join(failures...)
	return result
}

// runHandler turns an invariant panic of a strict engine into a step error.
func runHandler(ctx context.Context, h ActionHandler, step *Step, st *State) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("engine panic: %v", v)
		}
	}()
	return h(ctx, step, st)
}

// decode converts a loosely typed YAML value into out.
func decode(in any, out any) error {
	if in == nil {
		return nil
	}
	data, err := yaml.Marshal(in)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// service returns the configuration and handle of a service named in the
// first instance, or in instance when given.
func (st *State) service(instance, name string) (*config.ClientService, sd.ServiceHandle, error) {
	inst, err := st.instance(instance)
	if err != nil {
		return nil, 0, err
	}
	h, err := st.Engine.ServiceHandle(inst.Name, name)
	if err != nil {
		return nil, 0, err
	}
	for i := range inst.Services {
		if inst.Services[i].Name == name {
			return &inst.Services[i], h, nil
		}
	}
	return nil, 0, fmt.Errorf("unknown service %q", name)
}

func (st *State) instance(name string) (*config.Instance, error) {
	if name == "" {
		if len(st.Config.Instances) == 0 {
			return nil, errors.New("configuration has no instances")
		}
		return &st.Config.Instances[0], nil
	}
	for i := range st.Config.Instances {
		if st.Config.Instances[i].Name == name {
			return &st.Config.Instances[i], nil
		}
	}
	return nil, fmt.Errorf("unknown instance %q", name)
}

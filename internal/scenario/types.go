// Package scenario runs YAML-described discovery scenarios against the
// engine with recording collaborators.
//
// A scenario carries its own engine configuration and a list of steps. Each
// step performs one action (an inbound entry, a control request, a number of
// main function calls) and then checks its expectations against what the
// collaborators recorded and what the engine reports.
package scenario

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a single scenario loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "SD-A").
	ID string `yaml:"id"`

	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Config is the engine configuration in the format read by config.Parse.
	Config yaml.Node `yaml:"config"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`

	Tags []string `yaml:"tags,omitempty"`

	// Skip marks a scenario that is loaded but not run.
	Skip       bool   `yaml:"skip,omitempty"`
	SkipReason string `yaml:"skip_reason,omitempty"`
}

// Step is a single action in a scenario.
type Step struct {
	// Action is the action to perform (e.g., "offer", "run").
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params map[string]any `yaml:"params,omitempty"`

	// Expect defines expected outcomes after the action.
	Expect map[string]any `yaml:"expect,omitempty"`

	Description string `yaml:"description,omitempty"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Scenario *Scenario

	Passed bool
	Error  error

	StepResults []*StepResult

	Duration time.Duration

	Skipped    bool
	SkipReason string

	// TracePath is the trace file written for the run, if any.
	TracePath string
}

// StepResult is the outcome of a single step.
type StepResult struct {
	Step      *Step
	StepIndex int

	Passed bool
	Error  error

	// ExpectResults maps expectation keys to their results.
	ExpectResults map[string]*ExpectResult
}

// ExpectResult is the result of checking one expectation.
type ExpectResult struct {
	Key      string
	Expected any
	Actual   any
	Passed   bool
	Message  string
}

// SuiteResult is the outcome of running several scenarios.
type SuiteResult struct {
	Name      string
	Results   []*Result
	PassCount int
	FailCount int
	SkipCount int
	Duration  time.Duration
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.File != "" {
		return e.File + ": " + msg
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

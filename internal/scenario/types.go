package scenario

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/wlanstack/mlme-go/internal/sim"
)

// Scenario is a single scenario loaded from YAML.
type Scenario struct {
	// ID is the unique scenario identifier (e.g., "SC-CONNECT-001").
	ID string `yaml:"id"`

	// Name is a human-readable name.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Auth is the authentication type of the connect request:
	// "open_system" (default), "shared_key" or "sae".
	Auth string `yaml:"auth,omitempty"`

	// AP configures the simulated access point.
	AP sim.Config `yaml:"ap"`

	// Client holds client.Config overrides. Fields left out keep their
	// defaults.
	Client yaml.Node `yaml:"client,omitempty"`

	// Steps are the actions to execute in order.
	Steps []Step `yaml:"steps"`

	// Tags for categorizing scenarios.
	Tags []string `yaml:"tags,omitempty"`
}

// Step is a single action in a scenario.
type Step struct {
	// Action is the action to perform (e.g., "connect", "beacon").
	Action string `yaml:"action"`

	// Params are parameters for the action.
	Params map[string]interface{} `yaml:"params,omitempty"`

	// Expect defines expected outcomes after the action.
	Expect map[string]interface{} `yaml:"expect,omitempty"`

	// Description explains what this step does.
	Description string `yaml:"description,omitempty"`
}

// LoadError provides details about a scenario loading error.
type LoadError struct {
	// File is the path to the file that failed to load.
	File string

	// Line is the line number where the error occurred (0 if unknown).
	Line int

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.File == "" {
		return msg
	}
	if e.Line > 0 {
		return e.File + ":" + strconv.Itoa(e.Line) + ": " + msg
	}
	return e.File + ": " + msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

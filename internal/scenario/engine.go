package scenario

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/wlanstack/mlme-go/internal/sim"
	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/log"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// DefaultIface is the station address used when EngineConfig has none.
var DefaultIface = mac.MustParseAddr("02:00:00:00:00:02")

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Iface is the station's MAC address.
	Iface mac.Addr

	// StopOnFirstFailure stops RunAll after the first failed scenario.
	StopOnFirstFailure bool

	// OnScenarioComplete is called after each scenario of RunAll.
	OnScenarioComplete func(*Result)

	// Logger is passed to the client and the simulated AP.
	// If nil, logging is disabled.
	Logger *slog.Logger

	// ProtocolLogger receives the client's protocol events.
	ProtocolLogger log.Logger
}

// ActionHandler performs a step action.
type ActionHandler func(env *Env, step *Step) error

// Checker returns the actual value an expectation key is compared with.
type Checker func(env *Env) interface{}

// Env is the world a scenario runs in: one client against one simulated
// AP on a manual clock.
type Env struct {
	AP     *sim.AP
	Device *device.FakeDevice
	Sme    *mlme.Recorder
	Timers *timer.Fake
	Client *client.Client
	Link   *sim.Link
	Iface  mac.Addr

	// LastErr is the error returned by the last command the station was
	// given, or nil.
	LastErr error
}

// Pump exchanges frames until both sides are quiet.
func (env *Env) Pump() error {
	_, err := env.Link.Pump()
	return err
}

// Result is the outcome of a scenario.
type Result struct {
	Scenario    *Scenario
	Passed      bool
	Error       error
	StepResults []*StepResult
	Duration    time.Duration
}

// StepResult is the outcome of a single step.
type StepResult struct {
	Step          *Step
	StepIndex     int
	Passed        bool
	Error         error
	ExpectResults map[string]*ExpectResult
}

// ExpectResult is the result of checking one expectation.
type ExpectResult struct {
	Key      string
	Expected interface{}
	Actual   interface{}
	Passed   bool
	Message  string
}

// SuiteResult is the outcome of RunAll.
type SuiteResult struct {
	Results   []*Result
	PassCount int
	FailCount int
	Duration  time.Duration
}

// Engine runs scenarios.
type Engine struct {
	cfg      EngineConfig
	handlers map[string]ActionHandler
	checkers map[string]Checker
	mu       sync.RWMutex
}

// New creates an engine with the built-in actions and checkers.
func New(cfg EngineConfig) *Engine {
	if cfg.Iface.IsZero() {
		cfg.Iface = DefaultIface
	}
	e := &Engine{
		cfg:      cfg,
		handlers: make(map[string]ActionHandler),
		checkers: make(map[string]Checker),
	}
	registerActions(e)
	registerCheckers(e)
	return e
}

// RegisterHandler registers an action handler.
func (e *Engine) RegisterHandler(action string, handler ActionHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[action] = handler
}

// RegisterChecker registers an expectation checker.
func (e *Engine) RegisterChecker(key string, checker Checker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.checkers[key] = checker
}

// Actions returns the registered action names, sorted.
func (e *Engine) Actions() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.handlers))
	for name := range e.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewEnv builds a fresh environment for sc. The client is Joined.
func (e *Engine) NewEnv(sc *Scenario) (*Env, error) {
	auth, err := sc.AuthType()
	if err != nil {
		return nil, err
	}
	cfg, err := sc.ClientConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = e.cfg.Logger
	cfg.ProtocolLogger = e.cfg.ProtocolLogger

	apCfg := sc.AP
	apCfg.Logger = e.cfg.Logger
	ap := sim.New(apCfg)

	env := &Env{
		AP:     ap,
		Device: device.NewFakeDevice(ap.Channel()),
		Sme:    &mlme.Recorder{},
		Timers: timer.NewFake(time.Unix(0, 0)),
		Iface:  e.cfg.Iface,
	}
	env.Client = client.New(cfg, client.Deps{
		Device: env.Device,
		Sme:    env.Sme,
		Timer:  env.Timers,
		Iface:  env.Iface,
	}, ap.ConnectRequest(auth))
	env.Link = &sim.Link{AP: ap, Device: env.Device, Station: env.Client, RSSIDbm: apCfg.RSSIDbm}
	if env.Link.RSSIDbm == 0 {
		env.Link.RSSIDbm = sim.DefaultConfig().RSSIDbm
	}
	return env, nil
}

// Run executes a single scenario.
func (e *Engine) Run(ctx context.Context, sc *Scenario) *Result {
	start := time.Now()
	result := &Result{Scenario: sc}
	defer func() { result.Duration = time.Since(start) }()

	env, err := e.NewEnv(sc)
	if err != nil {
		result.Error = fmt.Errorf("setup failed: %w", err)
		return result
	}

	for i := range sc.Steps {
		if err := ctx.Err(); err != nil {
			result.Error = err
			return result
		}
		sr := e.executeStep(env, &sc.Steps[i], i)
		result.StepResults = append(result.StepResults, sr)
		if !sr.Passed {
			result.Error = fmt.Errorf("step %d (%s): %w", i, sr.Step.Action, sr.Error)
			return result
		}
	}
	result.Passed = true
	return result
}

func (e *Engine) executeStep(env *Env, step *Step, index int) *StepResult {
	result := &StepResult{
		Step:          step,
		StepIndex:     index,
		ExpectResults: make(map[string]*ExpectResult),
	}

	e.mu.RLock()
	handler, exists := e.handlers[step.Action]
	e.mu.RUnlock()
	if !exists {
		result.Error = fmt.Errorf("unknown action: %s", step.Action)
		return result
	}
	if err := handler(env, step); err != nil {
		result.Error = err
		return result
	}

	result.Passed = true
	keys := make([]string, 0, len(step.Expect))
	for key := range step.Expect {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		er := e.checkExpectation(env, key, step.Expect[key])
		result.ExpectResults[key] = er
		if !er.Passed && result.Passed {
			result.Passed = false
			result.Error = fmt.Errorf("expectation failed: %s - %s", key, er.Message)
		}
	}
	return result
}

func (e *Engine) checkExpectation(env *Env, key string, expected interface{}) *ExpectResult {
	e.mu.RLock()
	checker, exists := e.checkers[key]
	e.mu.RUnlock()
	if !exists {
		return &ExpectResult{
			Key:      key,
			Expected: expected,
			Message:  fmt.Sprintf("unknown expectation %q", key),
		}
	}

	actual := checker(env)
	passed := fmt.Sprintf("%v", expected) == fmt.Sprintf("%v", actual)
	result := &ExpectResult{
		Key:      key,
		Expected: expected,
		Actual:   actual,
		Passed:   passed,
	}
	if passed {
		result.Message = fmt.Sprintf("%s = %v", key, expected)
	} else {
		result.Message = fmt.Sprintf("expected %v, got %v", expected, actual)
	}
	return result
}

// RunAll executes scenarios in order.
func (e *Engine) RunAll(ctx context.Context, scenarios []*Scenario) *SuiteResult {
	start := time.Now()
	result := &SuiteResult{}
	defer func() { result.Duration = time.Since(start) }()

	for _, sc := range scenarios {
		if ctx.Err() != nil {
			return result
		}
		r := e.Run(ctx, sc)
		result.Results = append(result.Results, r)
		if r.Passed {
			result.PassCount++
		} else {
			result.FailCount++
		}
		if e.cfg.OnScenarioComplete != nil {
			e.cfg.OnScenarioComplete(r)
		}
		if !r.Passed && e.cfg.StopOnFirstFailure {
			break
		}
	}
	return result
}

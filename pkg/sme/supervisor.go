package sme

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// ErrClosed is returned by Run after the supervisor was closed.
var ErrClosed = errors.New("supervisor closed")

// DefaultInboxSize is the capacity of the indication queue.
const DefaultInboxSize = 64

// State is the supervisor's view of the connection.
type State uint8

const (
	// StateIdle means no connect has been requested.
	StateIdle State = iota

	// StateConnecting means a ConnectRequest is outstanding.
	StateConnecting

	// StateConnected means the station is associated.
	StateConnected

	// StateReconnecting means a ReconnectRequest is outstanding.
	StateReconnecting

	// StateBackoff means a connect is scheduled after a failure.
	StateBackoff

	// StateClosed means the supervisor has stopped.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateBackoff:
		return "BACKOFF"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Commander accepts SME commands, e.g. a dispatch.Dispatcher.
type Commander interface {
	Command(ctx context.Context, msg mlme.Message) error
}

// Config configures a Supervisor.
type Config struct {
	// Request is the connect request issued on every (re)connect.
	Request mlme.ConnectRequest

	// Backoff configures the delay between failed connects.
	Backoff BackoffConfig

	// MaxAttempts stops retrying after this many consecutive failed
	// attempts, rejected commands included. Zero retries forever.
	MaxAttempts int

	// Next, if set, receives every message after the supervisor saw it.
	Next mlme.Sink

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Supervisor keeps a station connected. It is an mlme.Sink for the
// client's messages; Run turns them into commands.
type Supervisor struct {
	cfg     Config
	cmd     Commander
	backoff *Backoff
	inbox   chan mlme.Message
	delay   time.Duration

	mu     sync.RWMutex
	state  State
	signal int8

	onStateChange func(old, new State)
}

var _ mlme.Sink = (*Supervisor)(nil)

// New creates a supervisor issuing commands to cmd.
func New(cfg Config, cmd Commander) *Supervisor {
	return &Supervisor{
		cfg:     cfg,
		cmd:     cmd,
		backoff: NewBackoff(cfg.Backoff, cfg.MaxAttempts),
		inbox:   make(chan mlme.Message, DefaultInboxSize),
	}
}

// Send queues a confirm or indication. It never blocks; messages that do
// not fit in the queue are dropped and logged.
func (s *Supervisor) Send(msg mlme.Message) {
	select {
	case s.inbox <- msg:
	default:
		s.warnLog("indication dropped", "kind", msg.Kind().String())
	}
	if s.cfg.Next != nil {
		s.cfg.Next.Send(msg)
	}
}

// State returns the current supervisor state.
func (s *Supervisor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Signal returns the last reported RSSI in dBm.
func (s *Supervisor) Signal() int8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signal
}

// OnStateChange sets a callback for state changes. It is called on the Run
// goroutine.
func (s *Supervisor) OnStateChange(fn func(old, new State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// Run issues the first connect and then reacts to messages until ctx is
// cancelled. It returns nil after giving up on the BSS.
func (s *Supervisor) Run(ctx context.Context) error {
	if s.State() == StateClosed {
		return ErrClosed
	}
	defer s.setState(StateClosed)

	s.connect(ctx)

	var retry <-chan time.Time
	for {
		switch s.State() {
		case StateIdle:
			return nil
		case StateBackoff:
			if retry == nil {
				s.debugLog("connect scheduled", "delay", s.delay, "failures", s.backoff.Failures())
				retry = time.After(s.delay)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-retry:
			retry = nil
			s.connect(ctx)
		case msg := <-s.inbox:
			s.handle(ctx, msg)
		}
	}
}

func (s *Supervisor) handle(ctx context.Context, msg mlme.Message) {
	switch m := msg.(type) {
	case mlme.ConnectConfirm:
		s.onConnectConfirm(ctx, m)

	case mlme.DisassociateIndication:
		if s.State() != StateConnected {
			return
		}
		s.debugLog("disassociated, reconnecting", "reason", m.Reason.String())
		s.reconnect(ctx)

	case mlme.DeauthenticateIndication:
		switch s.State() {
		case StateConnected:
			s.debugLog("deauthenticated", "reason", m.Reason.String(), "local", m.LocallyInitiated)
			s.delay = s.backoff.LinkLost()
			s.setState(StateBackoff)
		case StateReconnecting:
			s.debugLog("deauthenticated while reconnecting", "reason", m.Reason.String())
			s.retryLater()
		}

	case mlme.SignalReportIndication:
		s.mu.Lock()
		s.signal = m.RSSIDbm
		s.mu.Unlock()

	case mlme.SaeHandshakeIndication:
		s.warnLog("SAE handshake not supported")
		if err := s.cmd.Command(ctx, mlme.SaeHandshakeResponse{
			PeerSTA: m.PeerSTA,
			Status:  mac.StatusUnsupportedAuthAlgorithm,
		}); err != nil {
			s.warnLog("SAE response failed", "error", err)
		}
	}
}

func (s *Supervisor) onConnectConfirm(ctx context.Context, m mlme.ConnectConfirm) {
	if m.PeerSTA != s.cfg.Request.BSS.BSSID {
		return
	}
	if m.Status == mac.StatusSuccess {
		s.backoff.Success()
		s.setState(StateConnected)
		return
	}

	switch s.State() {
	case StateConnecting:
		s.debugLog("connect failed", "status", m.Status.String())
		if m.Status == mac.StatusSpuriousDeauthOrDisassoc {
			// A disassociation keeps the authentication.
			s.reconnect(ctx)
			return
		}
		s.retryLater()
	case StateReconnecting:
		s.debugLog("reconnect failed", "status", m.Status.String())
		s.fallBack(ctx)
	}
}

// reconnect reassociates with the BSS the station is still authenticated
// with.
func (s *Supervisor) reconnect(ctx context.Context) {
	s.setState(StateReconnecting)
	if err := s.cmd.Command(ctx, mlme.ReconnectRequest{PeerSTA: s.cfg.Request.BSS.BSSID}); err != nil {
		s.warnLog("reconnect request failed", "error", err)
		s.fallBack(ctx)
	}
}

// fallBack returns the station to Joined so the next ConnectRequest is
// accepted, and counts the failed attempt.
func (s *Supervisor) fallBack(ctx context.Context) {
	req := mlme.DeauthenticateRequest{PeerSTA: s.cfg.Request.BSS.BSSID, Reason: mac.ReasonLeavingNetworkDeauth}
	if err := s.cmd.Command(ctx, req); err != nil {
		s.warnLog("deauthenticate request failed", "error", err)
	}
	s.retryLater()
}

// retryLater schedules the next connect, or gives up after MaxAttempts
// consecutive failures.
func (s *Supervisor) retryLater() {
	delay, ok := s.backoff.Failure()
	if !ok {
		s.warnLog("giving up", "attempts", s.backoff.Failures())
		s.setState(StateIdle)
		return
	}
	s.delay = delay
	s.setState(StateBackoff)
}

func (s *Supervisor) connect(ctx context.Context) {
	s.setState(StateConnecting)
	if err := s.cmd.Command(ctx, s.cfg.Request); err != nil {
		s.warnLog("connect request failed", "error", err)
		s.fallBack(ctx)
	}
}

func (s *Supervisor) setState(next State) {
	s.mu.Lock()
	old := s.state
	s.state = next
	fn := s.onStateChange
	s.mu.Unlock()

	if old != next && fn != nil {
		fn(old, next)
	}
}

func (s *Supervisor) debugLog(msg string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug(msg, args...)
	}
}

func (s *Supervisor) warnLog(msg string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Warn(msg, args...)
	}
}

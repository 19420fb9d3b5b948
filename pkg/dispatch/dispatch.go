package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// DefaultQueueSize is the capacity of the input queue.
const DefaultQueueSize = 64

// Dispatcher errors.
var (
	ErrNotRunning = errors.New("dispatcher not running")
	ErrNoClient   = errors.New("no connect request yet")
	ErrBusy       = errors.New("connect request while connected")
)

// Config configures a Dispatcher.
type Config struct {
	// Client configures every client the dispatcher creates.
	Client client.Config

	// Device is the driver interface shared by all clients.
	Device device.Device

	// Sme receives confirms and indications. It is called on the
	// dispatcher goroutine and must not block on the dispatcher.
	Sme mlme.Sink

	// Iface is the station's own MAC address.
	Iface mac.Addr

	// QueueSize is the input queue capacity. Defaults to DefaultQueueSize.
	QueueSize int

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled.
	Logger *slog.Logger
}

// Dispatcher serializes all inputs of one station onto one goroutine.
type Dispatcher struct {
	cfg    Config
	timers *timer.Manager
	inbox  chan job
	done   chan struct{}

	// Owned by the Run goroutine.
	client *client.Client
}

type job struct {
	fn    func() error
	reply chan error
}

// New creates a dispatcher. Call Run to start processing.
func New(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	return &Dispatcher{
		cfg:    cfg,
		timers: timer.NewManager(),
		inbox:  make(chan job, cfg.QueueSize),
		done:   make(chan struct{}),
	}
}

// Run processes inputs until ctx is cancelled. Pending timers are stopped
// on return. Run must be called at most once.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer close(d.done)
	defer d.timers.Stop()

	for {
		select {
		case <-ctx.Done():
			d.debugLog("dispatcher stopped", "reason", ctx.Err())
			return ctx.Err()
		case ev := <-d.timers.Events():
			if d.client != nil {
				d.client.OnTimedEvent(ev)
			}
		case j := <-d.inbox:
			err := j.fn()
			if j.reply != nil {
				j.reply <- err
			}
		}
	}
}

// do runs fn on the dispatcher goroutine and waits for its result.
func (d *Dispatcher) do(ctx context.Context, fn func() error) error {
	reply := make(chan error, 1)
	select {
	case d.inbox <- job{fn: fn, reply: reply}:
	case <-d.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-d.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn without waiting for it.
func (d *Dispatcher) post(ctx context.Context, fn func() error) error {
	select {
	case d.inbox <- job{fn: fn}:
		return nil
	case <-d.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

// DeliverFrame queues a frame received from the radio.
func (d *Dispatcher) DeliverFrame(ctx context.Context, frame []byte, rx client.RxInfo) error {
	return d.post(ctx, func() error {
		if d.client != nil {
			d.client.OnMacFrame(frame, rx)
		}
		return nil
	})
}

// SendEth transmits an Ethernet frame from the host stack and returns the
// client's verdict.
func (d *Dispatcher) SendEth(ctx context.Context, frame []byte) error {
	return d.do(ctx, func() error {
		if d.client == nil {
			return fmt.Errorf("%w: %w", client.ErrBadState, ErrNoClient)
		}
		return d.client.OnEthFrame(frame)
	})
}

// Command hands an SME command to the client. A ConnectRequest replaces
// an idle client with a new one for the requested BSS.
func (d *Dispatcher) Command(ctx context.Context, msg mlme.Message) error {
	if !msg.Kind().IsCommand() {
		return fmt.Errorf("%w: %s is not a command", client.ErrBadState, msg.Kind())
	}
	return d.do(ctx, func() error {
		if req, ok := msg.(mlme.ConnectRequest); ok {
			return d.connect(req)
		}
		if d.client == nil {
			return fmt.Errorf("%w: %w", client.ErrBadState, ErrNoClient)
		}
		return d.client.HandleMlmeMsg(msg)
	})
}

func (d *Dispatcher) connect(req mlme.ConnectRequest) error {
	if d.client != nil {
		if _, idle := d.client.State().(client.Joined); !idle {
			return fmt.Errorf("%w: %s in %s", ErrBusy, req.BSS.BSSID, d.client.State())
		}
	}
	d.debugLog("connect", "bssid", req.BSS.BSSID.String(), "auth", req.AuthType.String())
	d.client = client.New(d.cfg.Client, client.Deps{
		Device: d.cfg.Device,
		Sme:    d.cfg.Sme,
		Timer:  d.timers,
		Iface:  d.cfg.Iface,
	}, req)
	d.client.StartConnecting()
	return nil
}

// PreSwitchOffChannel tells the client the radio is about to leave the
// main channel.
func (d *Dispatcher) PreSwitchOffChannel(ctx context.Context) error {
	return d.do(ctx, func() error {
		if d.client != nil {
			d.client.PreSwitchOffChannel()
		}
		return nil
	})
}

// BackOnChannel tells the client the radio is back on the main channel.
func (d *Dispatcher) BackOnChannel(ctx context.Context) error {
	return d.do(ctx, func() error {
		if d.client != nil {
			d.client.HandleBackOnChannel()
		}
		return nil
	})
}

// State returns the name of the client state, or "" before the first
// ConnectRequest.
func (d *Dispatcher) State(ctx context.Context) (string, error) {
	var name string
	err := d.do(ctx, func() error {
		if d.client != nil {
			name = d.client.State().String()
		}
		return nil
	})
	return name, err
}

// Inspect runs fn with the current client (possibly nil) on the
// dispatcher goroutine.
func (d *Dispatcher) Inspect(ctx context.Context, fn func(c *client.Client)) error {
	return d.do(ctx, func() error {
		fn(d.client)
		return nil
	})
}

func (d *Dispatcher) debugLog(msg string, args ...any) {
	if d.cfg.Logger != nil {
		d.cfg.Logger.Debug(msg, args...)
	}
}

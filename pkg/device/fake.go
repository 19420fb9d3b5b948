package device

import (
	"errors"
	"sync"

	"github.com/wlanstack/mlme-go/pkg/mac"
)

// ErrInjected is returned by FakeDevice calls configured to fail.
var ErrInjected = errors.New("injected device failure")

// LinkState is the data link state reported to a FakeDevice.
type LinkState uint8

const (
	LinkUnknown LinkState = iota
	LinkUp
	LinkDown
)

// String returns the link state name.
func (l LinkState) String() string {
	switch l {
	case LinkUp:
		return "UP"
	case LinkDown:
		return "DOWN"
	default:
		return "UNKNOWN"
	}
}

// FakeDevice is an in-memory Device that records every call.
type FakeDevice struct {
	mu sync.Mutex

	channel mac.Channel
	assoc   *AssocContext
	keys    []KeyConfig
	link    LinkState

	sent      [][]byte
	delivered [][]byte
	cleared   []mac.Addr

	// Failure injection
	FailConfigureAssoc bool
	FailSendFrame      bool
	FailSetKey         bool
	FailDeliver        bool

	// OnSend, when set, is called for every transmitted frame.
	OnSend func(frame []byte)
}

var _ Device = (*FakeDevice)(nil)

// NewFakeDevice creates a fake device tuned to ch.
func NewFakeDevice(ch mac.Channel) *FakeDevice {
	return &FakeDevice{channel: ch}
}

// ConfigureAssoc records the association context.
func (d *FakeDevice) ConfigureAssoc(ctx AssocContext) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailConfigureAssoc {
		return ErrInjected
	}
	d.assoc = &ctx
	return nil
}

// ClearAssoc forgets the association context.
func (d *FakeDevice) ClearAssoc(bssid mac.Addr) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cleared = append(d.cleared, bssid)
	d.assoc = nil
	d.keys = nil
	return nil
}

// SetKey records a key.
func (d *FakeDevice) SetKey(cfg KeyConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailSetKey {
		return ErrInjected
	}
	d.keys = append(d.keys, cfg)
	return nil
}

// SetEthLinkUp records the link state.
func (d *FakeDevice) SetEthLinkUp() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.link = LinkUp
	return nil
}

// SetEthLinkDown records the link state.
func (d *FakeDevice) SetEthLinkDown() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.link = LinkDown
	return nil
}

// SendFrame records a transmitted frame.
func (d *FakeDevice) SendFrame(frame []byte) error {
	d.mu.Lock()
	if d.FailSendFrame {
		d.mu.Unlock()
		return ErrInjected
	}
	d.sent = append(d.sent, append([]byte(nil), frame...))
	onSend := d.OnSend
	d.mu.Unlock()

	if onSend != nil {
		onSend(frame)
	}
	return nil
}

// DeliverEthFrame records a frame delivered to the network stack.
func (d *FakeDevice) DeliverEthFrame(frame []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FailDeliver {
		return ErrInjected
	}
	d.delivered = append(d.delivered, append([]byte(nil), frame...))
	return nil
}

// CurrentChannel returns the tuned channel.
func (d *FakeDevice) CurrentChannel() mac.Channel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.channel
}

// SetChannel retunes the fake radio.
func (d *FakeDevice) SetChannel(ch mac.Channel) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.channel = ch
	return nil
}

// Assoc returns the installed association context, or nil.
func (d *FakeDevice) Assoc() *AssocContext {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.assoc
}

// Keys returns the installed keys.
func (d *FakeDevice) Keys() []KeyConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]KeyConfig(nil), d.keys...)
}

// Link returns the last reported link state.
func (d *FakeDevice) Link() LinkState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.link
}

// Cleared returns the BSSIDs passed to ClearAssoc.
func (d *FakeDevice) Cleared() []mac.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]mac.Addr(nil), d.cleared...)
}

// Sent returns the transmitted frames.
func (d *FakeDevice) Sent() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]byte(nil), d.sent...)
}

// Delivered returns the frames delivered to the network stack.
func (d *FakeDevice) Delivered() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([][]byte(nil), d.delivered...)
}

// DrainSent returns the transmitted frames and forgets them.
func (d *FakeDevice) DrainSent() [][]byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	sent := d.sent
	d.sent = nil
	return sent
}

// SentFrames parses the transmitted frames. Frames that do not parse are
// skipped.
func (d *FakeDevice) SentFrames() []*mac.Frame {
	var out []*mac.Frame
	for _, b := range d.Sent() {
		if f, err := mac.Parse(b); err == nil {
			out = append(out, f)
		}
	}
	return out
}

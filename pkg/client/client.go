package client

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wlanstack/mlme-go/pkg/log"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// Client errors.
var (
	ErrBadState  = errors.New("not valid in current state")
	ErrNoPrivacy = errors.New("connection does not use privacy")
)

// RxInfo is the receive metadata of a frame.
type RxInfo struct {
	RSSIDbm int8
	SNRDb   int8
}

// Client is the MLME state machine of one connect attempt. It is not safe
// for concurrent use; all calls must come from one goroutine.
type Client struct {
	sta   *Station
	state State
}

// New creates a client in the Joined state for req.
func New(cfg Config, deps Deps, req mlme.ConnectRequest) *Client {
	cfg.applyDefaults()
	return &Client{
		sta:   newStation(cfg, deps, req),
		state: Joined{},
	}
}

// State returns the current state.
func (c *Client) State() State {
	return c.state
}

// Station returns the station context.
func (c *Client) Station() *Station {
	return c.sta
}

func (c *Client) transition(next State, reason string) {
	if next.String() != c.state.String() {
		c.sta.logState(c.state, next, reason)
	}
	c.state = next
}

// StartConnecting arms the connect timeout and starts authentication. It
// has no effect outside Joined.
func (c *Client) StartConnecting() {
	j, ok := c.state.(Joined)
	if !ok {
		c.sta.debugLog("start connecting ignored", "state", c.state.String())
		return
	}

	c.sta.attemptID = uuid.NewString()
	budget := c.sta.req.ConnectFailureTimeout
	if budget == 0 {
		budget = c.sta.cfg.ConnectFailureTimeout
	}
	c.sta.connectTimeout = c.sta.schedule(c.sta.beacons(budget), timer.ConnectTimeout)
	c.transition(j.startConnecting(c.sta), "connect")
}

// IsFrameClassPermitted reports whether frames of class are admitted in
// the current state.
func (c *Client) IsFrameClassPermitted(class mac.FrameClass) bool {
	return class <= c.state.maxFrameClass()
}

// OnMacFrame handles a frame received from the BSS. Frames that are
// malformed, foreign, or not admitted in the current state are dropped.
func (c *Client) OnMacFrame(b []byte, rx RxInfo) {
	sta := c.sta
	if sta.offChannel {
		return
	}

	f, err := mac.Parse(b)
	if err != nil {
		sta.logDrop("Malformed", b, rx.RSSIDbm, err.Error())
		return
	}
	if f.BSSID() != sta.BSSID() {
		sta.logDrop(f.Type.String(), b, rx.RSSIDbm, "foreign BSS")
		return
	}
	if f.Addr1 != sta.iface && !f.Addr1.IsGroup() {
		sta.logDrop(f.Type.String(), b, rx.RSSIDbm, "not addressed to station")
		return
	}
	if class := f.Class(); !c.IsFrameClassPermitted(class) {
		sta.logDrop(f.Type.String(), b, rx.RSSIDbm, class.String()+" frame in "+c.state.String())
		return
	}

	sta.logFrame(log.DirectionIn, f.Type, b, rx.RSSIDbm)

	switch {
	case f.IsMgmt():
		c.transition(c.onMgmtFrame(f, rx), f.Type.String())
	case f.IsData():
		if s, ok := c.state.(Associated); ok {
			c.transition(s.onDataFrame(sta, f, rx), f.Type.String())
		}
	}
}

func (c *Client) onMgmtFrame(f *mac.Frame, rx RxInfo) State {
	switch s := c.state.(type) {
	case Joined:
		return s
	case Authenticating:
		return s.onMgmtFrame(c.sta, f)
	case Associating:
		return s.onMgmtFrame(c.sta, f)
	case Authenticated:
		return s.onMgmtFrame(c.sta, f)
	case Associated:
		return s.onMgmtFrame(c.sta, f, rx)
	default:
		panic(fmt.Sprintf("client: unknown state %T", s))
	}
}

// OnEthFrame transmits an Ethernet frame from the network stack. It fails
// with ErrBadState unless the client is Associated, the radio is on the
// main channel and the controlled port is open.
func (c *Client) OnEthFrame(b []byte) error {
	s, ok := c.state.(Associated)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBadState, c.state)
	}
	return s.onEthFrame(c.sta, b)
}

// OnTimedEvent handles a fired timer. Timers the current state does not
// expect are ignored.
func (c *Client) OnTimedEvent(ev timer.Event) {
	sta := c.sta
	switch ev.Kind {
	case timer.ConnectTimeout:
		if sta.connectTimeout == 0 || ev.ID != sta.connectTimeout {
			sta.logTimer(ev, true)
			return
		}
		switch c.state.(type) {
		case Authenticating, Associating:
			sta.logTimer(ev, false)
			c.transition(sta.failConnect(mac.StatusRejectedSequenceTimeout, "connect timeout"), "connect timeout")
		default:
			sta.logTimer(ev, true)
		}
	case timer.ReconnectTimeout:
		if s, ok := c.state.(Associating); ok {
			c.transition(s.onReconnectTimeout(sta, ev), "reconnect timeout")
			return
		}
		sta.logTimer(ev, true)
	case timer.StatusCheckTimeout:
		if s, ok := c.state.(Associated); ok {
			c.transition(s.onStatusCheck(sta, ev), "status check")
			return
		}
		sta.logTimer(ev, true)
	case timer.ChannelSwitch:
		if s, ok := c.state.(Associated); ok {
			s.assoc.onChannelSwitchTimer(sta, ev)
			return
		}
		sta.logTimer(ev, true)
	default:
		sta.logTimer(ev, true)
	}
}

// HandleMlmeMsg handles a command from the SME. Commands that do not apply
// to the current state return ErrBadState, except DeauthenticateRequest
// which is honored in every state but Joined.
func (c *Client) HandleMlmeMsg(msg mlme.Message) error {
	sta := c.sta
	sta.logMessage(log.DirectionIn, msg)

	if req, ok := msg.(mlme.DeauthenticateRequest); ok {
		return c.onDeauthenticateRequest(req)
	}

	switch s := c.state.(type) {
	case Authenticating:
		switch m := msg.(type) {
		case mlme.SaeHandshakeResponse:
			c.transition(s.onSaeResponse(sta, m), "SAE response")
			return nil
		case mlme.SaeFrameTx:
			c.transition(s.onSaeFrameTx(sta, m), "SAE frame")
			return nil
		}
	case Authenticated:
		if m, ok := msg.(mlme.ReconnectRequest); ok {
			c.transition(s.onReconnect(sta, m), "reconnect")
			return nil
		}
	case Associated:
		switch m := msg.(type) {
		case mlme.ReconnectRequest:
			s.onReconnect(sta, m)
			return nil
		case mlme.EapolRequest:
			return s.onEapolRequest(sta, m)
		case mlme.SetKeysRequest:
			return s.onSetKeys(sta, m)
		case mlme.SetControlledPortRequest:
			s.assoc.setControlledPort(sta, m.State == mlme.ControlledPortOpen)
			return nil
		}
	}
	sta.debugLog("command ignored", "kind", msg.Kind().String(), "state", c.state.String())
	return fmt.Errorf("%w: %s in %s", ErrBadState, msg.Kind(), c.state)
}

// onDeauthenticateRequest leaves the BSS from any state but Joined and
// always confirms.
func (c *Client) onDeauthenticateRequest(req mlme.DeauthenticateRequest) error {
	sta := c.sta
	switch s := c.state.(type) {
	case Joined:
		return nil
	case Associated:
		s.deauthenticate(sta, req.Reason)
	default:
		_ = sta.sendDeauth(req.Reason)
		sta.clearAssoc()
	}
	sta.connectTimeout = 0
	sta.SendSme(mlme.DeauthenticateConfirm{PeerSTA: req.PeerSTA})
	c.transition(Joined{}, "deauthenticate request")
	return nil
}

// PreSwitchOffChannel is called before the radio leaves the main channel,
// for example to scan. Frames are ignored until HandleBackOnChannel.
func (c *Client) PreSwitchOffChannel() {
	c.sta.offChannel = true
	if s, ok := c.state.(Associated); ok {
		s.assoc.preSwitchOffChannel(c.sta)
	}
}

// HandleBackOnChannel is called when the radio returns to the main channel.
func (c *Client) HandleBackOnChannel() {
	c.sta.offChannel = false
	if s, ok := c.state.(Associated); ok {
		s.assoc.backOnChannel(c.sta)
	}
}

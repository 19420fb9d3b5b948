package scenario

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// ErrBadParam is returned for a missing or malformed step parameter.
var ErrBadParam = errors.New("bad step parameter")

// defaultPeer is the distribution system host used by data actions.
var defaultPeer = mac.MustParseAddr("02:00:00:00:00:99")

// Action names.
const (
	ActionConnect       = "connect"
	ActionPump          = "pump"
	ActionBeacon        = "beacon"
	ActionAPDeauth      = "ap_deauth"
	ActionAPDisassoc    = "ap_disassoc"
	ActionAPData        = "ap_data"
	ActionCSA           = "csa"
	ActionAdvance       = "advance"
	ActionFire          = "fire"
	ActionDeauth        = "deauthenticate"
	ActionReconnect     = "reconnect"
	ActionSendEth       = "send_eth"
	ActionOffChannel    = "off_channel"
	ActionBackOnChannel = "on_channel"
)

func registerActions(e *Engine) {
	e.RegisterHandler(ActionConnect, handleConnect)
	e.RegisterHandler(ActionPump, func(env *Env, _ *Step) error { return env.Pump() })
	e.RegisterHandler(ActionBeacon, handleBeacon)
	e.RegisterHandler(ActionAPDeauth, handleAPDeauth)
	e.RegisterHandler(ActionAPDisassoc, handleAPDisassoc)
	e.RegisterHandler(ActionAPData, handleAPData)
	e.RegisterHandler(ActionCSA, handleCSA)
	e.RegisterHandler(ActionAdvance, handleAdvance)
	e.RegisterHandler(ActionFire, handleFire)
	e.RegisterHandler(ActionDeauth, handleDeauth)
	e.RegisterHandler(ActionReconnect, handleReconnect)
	e.RegisterHandler(ActionSendEth, handleSendEth)
	e.RegisterHandler(ActionOffChannel, func(env *Env, _ *Step) error {
		env.Client.PreSwitchOffChannel()
		return env.Pump()
	})
	e.RegisterHandler(ActionBackOnChannel, func(env *Env, _ *Step) error {
		env.Client.HandleBackOnChannel()
		return env.Pump()
	})
}

func handleConnect(env *Env, _ *Step) error {
	env.Client.StartConnecting()
	return env.Pump()
}

func handleBeacon(env *Env, step *Step) error {
	count, err := intParam(step.Params, "count", 1)
	if err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		if err := env.AP.Beacon(); err != nil {
			return err
		}
		if err := env.Pump(); err != nil {
			return err
		}
	}
	return nil
}

func handleAPDeauth(env *Env, step *Step) error {
	reason, err := intParam(step.Params, "reason", int(mac.ReasonUnspecified))
	if err != nil {
		return err
	}
	if err := env.AP.Deauthenticate(env.Iface, mac.ReasonCode(reason)); err != nil {
		return err
	}
	return env.Pump()
}

func handleAPDisassoc(env *Env, step *Step) error {
	reason, err := intParam(step.Params, "reason", int(mac.ReasonUnspecified))
	if err != nil {
		return err
	}
	if err := env.AP.Disassociate(env.Iface, mac.ReasonCode(reason)); err != nil {
		return err
	}
	return env.Pump()
}

func handleAPData(env *Env, step *Step) error {
	size, err := intParam(step.Params, "size", 64)
	if err != nil {
		return err
	}
	etherType, err := intParam(step.Params, "ether_type", 0x0800)
	if err != nil {
		return err
	}
	if err := env.AP.SendData(env.Iface, defaultPeer, uint16(etherType), make([]byte, size)); err != nil {
		return err
	}
	return env.Pump()
}

func handleCSA(env *Env, step *Step) error {
	channel, err := intParam(step.Params, "channel", 0)
	if err != nil {
		return err
	}
	if channel == 0 {
		return fmt.Errorf("%w: channel is required", ErrBadParam)
	}
	mode, err := intParam(step.Params, "mode", 0)
	if err != nil {
		return err
	}
	count, err := intParam(step.Params, "count", 1)
	if err != nil {
		return err
	}
	env.AP.AnnounceChannelSwitch(uint8(channel), uint8(mode), uint8(count))
	return nil
}

// handleAdvance moves the clock and delivers every timer that fires.
func handleAdvance(env *Env, step *Step) error {
	d, err := durationParam(step.Params, "duration")
	if err != nil {
		return err
	}
	for _, ev := range env.Timers.Advance(d) {
		env.Client.OnTimedEvent(ev)
		if err := env.Pump(); err != nil {
			return err
		}
	}
	return nil
}

// handleFire delivers the latest pending timer of a kind and repeats it
// "times" times, each with a freshly armed timer.
func handleFire(env *Env, step *Step) error {
	name, err := stringParam(step.Params, "timer")
	if err != nil {
		return err
	}
	kind, err := parseTimerKind(name)
	if err != nil {
		return err
	}
	times, err := intParam(step.Params, "times", 1)
	if err != nil {
		return err
	}
	for i := 0; i < times; i++ {
		ev, ok := env.Timers.Take(kind)
		if !ok {
			return fmt.Errorf("no pending %s timer (firing %d)", kind, i+1)
		}
		env.Client.OnTimedEvent(ev)
		if err := env.Pump(); err != nil {
			return err
		}
	}
	return nil
}

func handleDeauth(env *Env, step *Step) error {
	reason, err := intParam(step.Params, "reason", int(mac.ReasonLeavingNetworkDeauth))
	if err != nil {
		return err
	}
	env.LastErr = env.Client.HandleMlmeMsg(mlme.DeauthenticateRequest{
		PeerSTA: env.AP.BSSID(),
		Reason:  mac.ReasonCode(reason),
	})
	return env.Pump()
}

func handleReconnect(env *Env, _ *Step) error {
	env.LastErr = env.Client.HandleMlmeMsg(mlme.ReconnectRequest{PeerSTA: env.AP.BSSID()})
	return env.Pump()
}

func handleSendEth(env *Env, step *Step) error {
	size, err := intParam(step.Params, "size", 64)
	if err != nil {
		return err
	}
	etherType, err := intParam(step.Params, "ether_type", 0x0800)
	if err != nil {
		return err
	}
	frame, err := mac.BuildEthernet(mac.EthernetFrame{
		Dst:       defaultPeer,
		Src:       env.Iface,
		EtherType: uint16(etherType),
		Payload:   make([]byte, size),
	})
	if err != nil {
		return err
	}
	env.LastErr = env.Client.OnEthFrame(frame)
	return env.Pump()
}

func parseTimerKind(name string) (timer.Kind, error) {
	for k := timer.ConnectTimeout; k <= timer.ChannelSwitch; k++ {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown timer %q", ErrBadParam, name)
}

func intParam(params map[string]interface{}, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrBadParam, key, v)
	}
}

func stringParam(params map[string]interface{}, key string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrBadParam, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrBadParam, key, v)
	}
	return s, nil
}

func durationParam(params map[string]interface{}, key string) (time.Duration, error) {
	s, err := stringParam(params, key)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrBadParam, key, err)
	}
	return d, nil
}

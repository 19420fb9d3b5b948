package scenario

import (
	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// Expectation keys.
const (
	CheckState         = "state"
	CheckAPPeer        = "ap_peer"
	CheckAID           = "aid"
	CheckPortOpen      = "port_open"
	CheckLink          = "link"
	CheckChannel       = "channel"
	CheckLastMessage   = "last_message"
	CheckConfirmStatus = "confirm_status"
	CheckDeauthReason  = "deauth_reason"
	CheckMessages      = "messages"
	CheckDelivered     = "delivered"
	CheckReceived      = "received"
	CheckPowerSave     = "power_save"
	CheckError         = "error"
)

func registerCheckers(e *Engine) {
	e.RegisterChecker(CheckState, func(env *Env) interface{} {
		return env.Client.State().String()
	})
	e.RegisterChecker(CheckAPPeer, func(env *Env) interface{} {
		state, _ := env.AP.Peer(env.Iface)
		return state.String()
	})
	e.RegisterChecker(CheckAID, func(env *Env) interface{} {
		if a := association(env); a != nil {
			return a.AID
		}
		return 0
	})
	e.RegisterChecker(CheckPortOpen, func(env *Env) interface{} {
		a := association(env)
		return a != nil && a.ControlledPortOpen
	})
	e.RegisterChecker(CheckLink, func(env *Env) interface{} {
		return env.Device.Link().String()
	})
	e.RegisterChecker(CheckChannel, func(env *Env) interface{} {
		return env.Device.CurrentChannel().Primary
	})
	e.RegisterChecker(CheckLastMessage, func(env *Env) interface{} {
		if msg := env.Sme.Last(); msg != nil {
			return msg.Kind().String()
		}
		return "NONE"
	})
	e.RegisterChecker(CheckConfirmStatus, func(env *Env) interface{} {
		confirms := mlme.Of[mlme.ConnectConfirm](env.Sme)
		if len(confirms) == 0 {
			return "NONE"
		}
		return confirms[len(confirms)-1].Status.String()
	})
	e.RegisterChecker(CheckDeauthReason, func(env *Env) interface{} {
		inds := mlme.Of[mlme.DeauthenticateIndication](env.Sme)
		if len(inds) == 0 {
			return "NONE"
		}
		return inds[len(inds)-1].Reason.String()
	})
	e.RegisterChecker(CheckMessages, func(env *Env) interface{} {
		return env.Sme.Len()
	})
	e.RegisterChecker(CheckDelivered, func(env *Env) interface{} {
		return len(env.Device.Delivered())
	})
	e.RegisterChecker(CheckReceived, func(env *Env) interface{} {
		return len(env.AP.Received())
	})
	e.RegisterChecker(CheckPowerSave, func(env *Env) interface{} {
		return env.AP.PowerSave(env.Iface)
	})
	e.RegisterChecker(CheckError, func(env *Env) interface{} {
		if env.LastErr == nil {
			return "none"
		}
		return env.LastErr.Error()
	})
}

func association(env *Env) *client.Association {
	if s, ok := env.Client.State().(client.Associated); ok {
		return s.Association()
	}
	return nil
}

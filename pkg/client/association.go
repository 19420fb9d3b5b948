package client

import (
	"bytes"

	"github.com/wlanstack/mlme-go/pkg/capabilities"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

// QoS is whether QoS data frames are used on the association.
type QoS uint8

const (
	QoSDisabled QoS = iota
	QoSEnabled
)

// String returns the QoS mode name.
func (q QoS) String() string {
	if q == QoSEnabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// Association is the live association with the BSS. It exists only while
// the client is Associated.
type Association struct {
	AID uint16

	// AssocRespIEs are the elements of the association response, replayed
	// to the SME on a no-op reconnect.
	AssocRespIEs []byte

	// ControlledPortOpen gates all non-EAPoL data.
	ControlledPortOpen bool

	HTOperation  *mac.HTOperation
	VHTOperation *mac.VHTOperation
	QoS          QoS
	Negotiated   capabilities.Negotiated

	LostBss       *LostBssCounter
	StatusCheck   StatusCheckTimeout
	Signal        *SignalAverage
	BlockAck      BlockAck
	ChannelSwitch *PendingChannelSwitch
}

func newAssociation(sta *Station, resp mac.AssocResponse, n capabilities.Negotiated) *Association {
	a := &Association{
		AID:          resp.AID,
		AssocRespIEs: bytes.Clone(resp.Elements),
		Negotiated:   n,
		LostBss:      NewLostBssCounter(sta.beaconPeriod(), sta.cfg.AutoDeauthBeacons),
		Signal:       NewSignalAverage(sta.cfg.SignalWindow),
	}
	if n.QoS {
		a.QoS = QoSEnabled
	}
	return a
}

// armStatusCheck schedules the next status check.
func (a *Association) armStatusCheck(sta *Station) {
	a.StatusCheck.LastFired = sta.timers.Now()
	a.StatusCheck.Pending = sta.schedule(sta.beacons(sta.cfg.StatusCheckBeacons), timer.StatusCheckTimeout)
}

// closePort closes the controlled port, takes the link down and stops
// supervision. It runs whenever the association ends.
func (a *Association) closePort(sta *Station) {
	a.ControlledPortOpen = false
	if err := sta.dev.SetEthLinkDown(); err != nil {
		sta.logError("set link down", err)
	}
	a.StatusCheck.Clear()
	a.ChannelSwitch = nil
}

// setControlledPort opens or closes the controlled port. Repeating the
// current state has no effect.
func (a *Association) setControlledPort(sta *Station, open bool) {
	if a.ControlledPortOpen == open {
		return
	}
	a.ControlledPortOpen = open
	var err error
	if open {
		err = sta.dev.SetEthLinkUp()
	} else {
		err = sta.dev.SetEthLinkDown()
	}
	if err != nil {
		sta.logError("set link state", err)
	}
}

// preSwitchOffChannel tells the BSS the station is dozing and suspends
// supervision. Time spent away counts against the lost BSS counter.
func (a *Association) preSwitchOffChannel(sta *Station) {
	_ = sta.sendPowerState(true)
	a.LostBss.AddTime(sta.timers.Now().Sub(a.StatusCheck.LastFired))
	a.StatusCheck.Clear()
}

// backOnChannel tells the BSS the station is awake and resumes
// supervision.
func (a *Association) backOnChannel(sta *Station) {
	_ = sta.sendPowerState(false)
	a.armStatusCheck(sta)
}

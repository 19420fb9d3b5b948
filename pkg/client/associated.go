package client

import (
	"fmt"

	"github.com/google/gopacket/layers"

	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

func (s Associated) onMgmtFrame(sta *Station, f *mac.Frame, rx RxInfo) State {
	a := s.assoc
	if f.MoreData() && f.Addr1 == sta.iface && a.ControlledPortOpen {
		_ = sta.sendPsPoll(a.AID)
	}

	switch f.Type {
	case layers.Dot11TypeMgmtBeacon:
		a.onBeacon(sta, f)
		return s
	case layers.Dot11TypeMgmtDeauthentication:
		reason, err := f.Reason()
		if err != nil {
			sta.logDrop(f.Type.String(), f.Body, rx.RSSIDbm, err.Error())
			return s
		}
		a.closePort(sta)
		sta.SendSme(mlme.DeauthenticateIndication{PeerSTA: sta.BSSID(), Reason: reason})
		sta.clearAssoc()
		return Joined{}
	case layers.Dot11TypeMgmtDisassociation:
		reason, err := f.Reason()
		if err != nil {
			sta.logDrop(f.Type.String(), f.Body, rx.RSSIDbm, err.Error())
			return s
		}
		a.closePort(sta)
		sta.SendSme(mlme.DisassociateIndication{PeerSTA: sta.BSSID(), Reason: reason})
		return Authenticated{}
	case layers.Dot11TypeMgmtAction, layers.Dot11TypeMgmtActionNoAck:
		a.onAction(sta, f, rx)
		return s
	default:
		return s
	}
}

func (a *Association) onBeacon(sta *Station, f *mac.Frame) {
	a.LostBss.Reset()

	b, err := f.Beacon()
	if err != nil {
		sta.logDrop(f.Type.String(), f.Body, 0, err.Error())
		return
	}
	// A truncated trailing element does not hide the ones before it.
	elems, _ := mac.ParseElements(b.Elements)

	if cs, ok := channelSwitchFromElements(elems); ok {
		a.onChannelSwitch(sta, cs)
	}
	if body, ok := elems.Find(mac.ElementTIM); ok {
		if tim, err := mac.ParseTIM(body); err == nil && tim.HasTrafficFor(a.AID) {
			_ = sta.sendPsPoll(a.AID)
		}
	}
}

func (a *Association) onAction(sta *Station, f *mac.Frame, rx RxInfo) {
	act, err := f.Action()
	if err != nil {
		sta.logDrop(f.Type.String(), f.Body, rx.RSSIDbm, err.Error())
		return
	}
	switch act.Category {
	case mac.ActionBlockAck:
		a.BlockAck.onAction(sta, act)
	case mac.ActionSpectrumMgmt:
		if act.Action != mac.ActionChannelSwitch {
			return
		}
		elems, _ := mac.ParseElements(act.Body)
		if cs, ok := channelSwitchFromElements(elems); ok {
			a.onChannelSwitch(sta, cs)
		}
	}
}

func (s Associated) onDataFrame(sta *Station, f *mac.Frame, rx RxInfo) State {
	a := s.assoc
	a.Signal.Add(rx.RSSIDbm)

	if f.IsNullData() {
		_ = sta.sendPowerState(false)
		return s
	}

	etherType, payload, err := f.LLC()
	if err != nil {
		sta.logDrop(f.Type.String(), f.Body, rx.RSSIDbm, err.Error())
		return s
	}
	if etherType == mac.EtherTypeEAPOL {
		sta.SendSme(mlme.EapolIndication{Src: f.Source(), Dst: f.Destination(), Data: payload})
		return s
	}
	if !a.ControlledPortOpen {
		sta.logDrop(f.Type.String(), f.Body, rx.RSSIDbm, "controlled port closed")
		return s
	}

	eth, err := mac.BuildEthernet(mac.EthernetFrame{
		Dst:       f.Destination(),
		Src:       f.Source(),
		EtherType: etherType,
		Payload:   payload,
	})
	if err != nil {
		sta.logDrop(f.Type.String(), f.Body, rx.RSSIDbm, err.Error())
		return s
	}
	if err := sta.dev.DeliverEthFrame(eth); err != nil {
		sta.logError("deliver ethernet frame", err)
	}
	return s
}

// onEthFrame transmits an Ethernet frame from the network stack.
func (s Associated) onEthFrame(sta *Station, b []byte) error {
	a := s.assoc
	if ch := sta.dev.CurrentChannel(); ch != sta.mainChannel {
		return fmt.Errorf("%w: radio on channel %s, BSS on %s", ErrBadState, ch, sta.mainChannel)
	}
	if a.ChannelSwitch.blocksTx() {
		return fmt.Errorf("%w: channel switch pending", ErrBadState)
	}
	if !a.ControlledPortOpen {
		return fmt.Errorf("%w: controlled port closed", ErrBadState)
	}

	eth, err := mac.ParseEthernet(b)
	if err != nil {
		return err
	}
	return sta.sendData(eth.Src, eth.Dst, eth.EtherType, eth.Payload, a.QoS == QoSEnabled, sta.req.PrivacyRequired())
}

// deauthenticate leaves the BSS on the station's initiative.
func (s Associated) deauthenticate(sta *Station, reason mac.ReasonCode) {
	_ = sta.sendDeauth(reason)
	s.assoc.closePort(sta)
	sta.clearAssoc()
}

func (s Associated) onStatusCheck(sta *Station, ev timer.Event) State {
	a := s.assoc
	if !a.StatusCheck.Matches(ev.ID) {
		sta.logTimer(ev, true)
		return s
	}
	sta.logTimer(ev, false)
	a.StatusCheck.Clear()

	sta.SendSme(mlme.SignalReportIndication{RSSIDbm: a.Signal.Average(sta.req.BSS.RSSIDbm)})

	a.LostBss.AddBeaconInterval(sta.cfg.StatusCheckBeacons)
	if a.LostBss.ShouldDeauthenticate() {
		sta.warnLog("BSS lost", "silent", a.LostBss.Silent())
		s.deauthenticate(sta, mac.ReasonLeavingNetworkDeauth)
		sta.SendSme(mlme.DeauthenticateIndication{
			PeerSTA:          sta.BSSID(),
			Reason:           mac.ReasonLeavingNetworkDeauth,
			LocallyInitiated: true,
		})
		return Joined{}
	}
	a.armStatusCheck(sta)
	return s
}

func (s Associated) onEapolRequest(sta *Station, req mlme.EapolRequest) error {
	if !sta.req.PrivacyRequired() {
		return fmt.Errorf("%w: EAPoL request", ErrNoPrivacy)
	}
	result := mlme.EapolSuccess
	if err := sta.sendData(req.Src, req.Dst, mac.EtherTypeEAPOL, req.Data, false, false); err != nil {
		result = mlme.EapolTransmissionFailure
	}
	sta.SendSme(mlme.EapolConfirm{Dst: req.Dst, Result: result})
	return nil
}

func (s Associated) onSetKeys(sta *Station, req mlme.SetKeysRequest) error {
	if !sta.req.PrivacyRequired() {
		return fmt.Errorf("%w: set keys request", ErrNoPrivacy)
	}
	results := make([]mlme.SetKeyResult, 0, len(req.Keys))
	for _, k := range req.Keys {
		res := mlme.SetKeyResult{KeyID: k.KeyID}
		err := sta.dev.SetKey(device.KeyConfig{
			BSSID:       sta.BSSID(),
			Protection:  device.ProtectionRxTx,
			CipherSuite: k.CipherSuite,
			KeyType:     k.KeyType,
			PeerAddr:    k.Address,
			KeyIndex:    uint8(k.KeyID),
			Key:         k.Key,
			RSC:         k.RSC,
		})
		if err != nil {
			sta.logError("set key", err)
			res.Status = -1
		}
		results = append(results, res)
	}
	sta.SendSme(mlme.SetKeysConfirm{Results: results})
	return nil
}

// onReconnect replays the confirmation of the live association.
func (s Associated) onReconnect(sta *Station, req mlme.ReconnectRequest) {
	if req.PeerSTA != sta.BSSID() {
		sta.SendSme(mlme.ConnectConfirm{PeerSTA: req.PeerSTA, Status: mac.StatusNotInSameBSS})
		return
	}
	sta.SendSme(mlme.ConnectConfirm{
		PeerSTA:        sta.BSSID(),
		Status:         mac.StatusSuccess,
		AID:            s.assoc.AID,
		AssociationIEs: s.assoc.AssocRespIEs,
	})
}

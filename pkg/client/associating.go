package client

import (
	"errors"
	"fmt"

	"github.com/google/gopacket/layers"

	"github.com/wlanstack/mlme-go/pkg/capabilities"
	"github.com/wlanstack/mlme-go/pkg/device"
	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
	"github.com/wlanstack/mlme-go/pkg/timer"
)

var errNoMainChannel = errors.New("no main channel")

func (s Associating) onMgmtFrame(sta *Station, f *mac.Frame) State {
	switch f.Type {
	case layers.Dot11TypeMgmtAssociationResp, layers.Dot11TypeMgmtReassociationResp:
		resp, err := f.AssocResponse()
		if err != nil {
			sta.logDrop(f.Type.String(), f.Body, 0, err.Error())
			return s
		}
		return s.onAssocResp(sta, resp)
	case layers.Dot11TypeMgmtDeauthentication:
		return sta.failConnect(mac.StatusSpuriousDeauthOrDisassoc, "deauthenticated while associating")
	case layers.Dot11TypeMgmtDisassociation:
		// Some APs disassociate before answering a reassociation. The
		// authentication is still valid.
		sta.connectTimeout = 0
		sta.SendSme(mlme.ConnectConfirm{PeerSTA: sta.BSSID(), Status: mac.StatusSpuriousDeauthOrDisassoc})
		return Authenticated{}
	default:
		return s
	}
}

// onAssocResp completes or fails the association.
func (s Associating) onAssocResp(sta *Station, resp mac.AssocResponse) State {
	if resp.Status != mac.StatusSuccess {
		return sta.failConnect(resp.Status, "association refused")
	}

	elems, err := mac.ParseElements(resp.Elements)
	if err != nil {
		return sta.failConnect(mac.StatusRefusedCapabilitiesMismatch, err.Error())
	}
	ap := capabilities.FromElements(resp.CapabilityInfo, elems)
	negotiated, err := capabilities.Negotiate(sta.cfg.Capabilities, sta.observedCapabilities(), ap)
	if err != nil {
		return sta.failConnect(mac.StatusRefusedCapabilitiesMismatch, err.Error())
	}

	if sta.mainChannel.IsZero() {
		return sta.failConnect(mac.StatusRefusedReasonUnspecified, errNoMainChannel.Error())
	}

	ht, vht, err := operationElements(sta.req.BSS, elems, negotiated)
	if err != nil {
		return sta.failConnect(mac.StatusRefusedCapabilitiesMismatch, err.Error())
	}

	ctx := device.AssocContext{
		BSSID:           sta.BSSID(),
		AID:             resp.AID,
		ListenInterval:  sta.cfg.ListenInterval,
		Channel:         sta.mainChannel,
		QoS:             negotiated.QoS,
		Rates:           negotiated.Rates,
		CapabilityInfo:  negotiated.CapabilityInfo,
		HTCapabilities:  negotiated.HTCapabilities,
		HTOperation:     ht,
		VHTCapabilities: negotiated.VHTCapabilities,
		VHTOperation:    vht,
	}
	if err := sta.dev.ConfigureAssoc(ctx); err != nil {
		sta.logError("configure association", err)
		return sta.failConnect(mac.StatusRefusedReasonUnspecified, "device rejected association context")
	}

	sta.connectTimeout = 0
	sta.SendSme(mlme.ConnectConfirm{
		PeerSTA:        sta.BSSID(),
		Status:         mac.StatusSuccess,
		AID:            resp.AID,
		AssociationIEs: resp.Elements,
	})

	assoc := newAssociation(sta, resp, negotiated)
	assoc.HTOperation = ht
	assoc.VHTOperation = vht
	if !sta.req.PrivacyRequired() {
		assoc.ControlledPortOpen = true
		if err := sta.dev.SetEthLinkUp(); err != nil {
			sta.logError("set link up", err)
		}
	}
	assoc.armStatusCheck(sta)
	return Associated{assoc: assoc}
}

// operationElements extracts the HT and VHT operation elements for the
// negotiated mode. Elements from the response win over the BSS description.
func operationElements(bss mlme.BSSDescription, elems mac.Elements, n capabilities.Negotiated) (*mac.HTOperation, *mac.VHTOperation, error) {
	var ht *mac.HTOperation
	var vht *mac.VHTOperation

	if n.HT() {
		body, ok := elems.Find(mac.ElementHTOperation)
		if !ok {
			body, ok = bss.HTOperation, len(bss.HTOperation) > 0
		}
		if ok {
			op, err := mac.ParseHTOperation(body)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid HT operation: %w", err)
			}
			ht = &op
		}
	}
	if n.VHT() {
		body, ok := elems.Find(mac.ElementVHTOperation)
		if !ok {
			body, ok = bss.VHTOperation, len(bss.VHTOperation) > 0
		}
		if ok {
			op, err := mac.ParseVHTOperation(body)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid VHT operation: %w", err)
			}
			vht = &op
		}
	}
	return ht, vht, nil
}

func (s Associating) onReconnectTimeout(sta *Station, ev timer.Event) State {
	if s.reconnectTimeout == 0 || ev.ID != s.reconnectTimeout {
		sta.logTimer(ev, true)
		return s
	}
	sta.logTimer(ev, false)
	sta.SendSme(mlme.ConnectConfirm{PeerSTA: sta.BSSID(), Status: mac.StatusRejectedSequenceTimeout})
	return Authenticated{}
}

func (s Authenticated) onMgmtFrame(sta *Station, f *mac.Frame) State {
	if f.Type != layers.Dot11TypeMgmtDeauthentication {
		return s
	}
	reason, err := f.Reason()
	if err != nil {
		sta.logDrop(f.Type.String(), f.Body, 0, err.Error())
		return s
	}
	sta.SendSme(mlme.DeauthenticateIndication{PeerSTA: sta.BSSID(), Reason: reason})
	sta.clearAssoc()
	return Joined{}
}

// onReconnect reassociates with the BSS the station is still authenticated
// with.
func (s Authenticated) onReconnect(sta *Station, req mlme.ReconnectRequest) State {
	if req.PeerSTA != sta.BSSID() {
		sta.SendSme(mlme.ConnectConfirm{PeerSTA: req.PeerSTA, Status: mac.StatusNotInSameBSS})
		return s
	}
	if err := sta.sendAssocRequest(); err != nil {
		sta.SendSme(mlme.ConnectConfirm{PeerSTA: sta.BSSID(), Status: mac.StatusRefusedReasonUnspecified})
		return s
	}
	id := sta.schedule(sta.beacons(sta.cfg.ReconnectTimeoutBeacons), timer.ReconnectTimeout)
	return Associating{reconnectTimeout: id}
}

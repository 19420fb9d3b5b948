package akm

import (
	"fmt"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// SAE relays an SAE handshake run by the SME. The cryptography lives in
// the SME; this delegate only moves frames.
type SAE struct{}

var _ Algorithm = (*SAE)(nil)

// Algorithm returns mac.AuthSAE.
func (s *SAE) Algorithm() mac.AuthAlgorithm { return mac.AuthSAE }

// Initiate asks the SME to start the handshake.
func (s *SAE) Initiate(sta Station) (State, error) {
	sta.SendSme(mlme.SaeHandshakeIndication{PeerSTA: sta.BSSID()})
	return InProgress, nil
}

// HandleAuthFrame forwards an SAE commit or confirm frame to the SME.
func (s *SAE) HandleAuthFrame(sta Station, auth mac.Authentication) (State, error) {
	if auth.Algorithm != mac.AuthSAE {
		return Failed, fmt.Errorf("%w: algorithm %s", ErrUnexpected, auth.Algorithm)
	}
	sta.SendSme(mlme.SaeFrameIndication{Frame: mlme.SaeFrame{
		PeerSTA: sta.BSSID(),
		Status:  auth.Status,
		Seq:     auth.Seq,
		Body:    auth.Elements,
	}})
	return InProgress, nil
}

// HandleSaeResponse ends the handshake with the SME's verdict.
func (s *SAE) HandleSaeResponse(_ Station, status mac.StatusCode) (State, error) {
	if status != mac.StatusSuccess {
		return Failed, nil
	}
	return AuthComplete, nil
}

// HandleSaeFrameTx transmits an SAE frame on behalf of the SME.
func (s *SAE) HandleSaeFrameTx(sta Station, frame mlme.SaeFrame) (State, error) {
	if err := sta.SendAuthFrame(mac.AuthSAE, frame.Seq, frame.Status, frame.Body); err != nil {
		return Failed, fmt.Errorf("failed to send SAE frame: %w", err)
	}
	return InProgress, nil
}

package akm

import (
	"fmt"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// OpenSystem is the two-frame Open System authentication.
type OpenSystem struct {
	initiated bool
}

var _ Algorithm = (*OpenSystem)(nil)

// Algorithm returns mac.AuthOpenSystem.
func (o *OpenSystem) Algorithm() mac.AuthAlgorithm { return mac.AuthOpenSystem }

// Initiate sends the first authentication frame.
func (o *OpenSystem) Initiate(sta Station) (State, error) {
	if err := sta.SendAuthFrame(mac.AuthOpenSystem, 1, mac.StatusSuccess, nil); err != nil {
		return Failed, fmt.Errorf("failed to send open system auth frame: %w", err)
	}
	o.initiated = true
	return InProgress, nil
}

// HandleAuthFrame completes authentication when the peer answers with
// sequence 2 and a success status.
func (o *OpenSystem) HandleAuthFrame(_ Station, auth mac.Authentication) (State, error) {
	if !o.initiated {
		return Failed, fmt.Errorf("%w: response before request", ErrUnexpected)
	}
	if auth.Algorithm != mac.AuthOpenSystem {
		return Failed, fmt.Errorf("%w: algorithm %s", ErrUnexpected, auth.Algorithm)
	}
	if auth.Seq != 2 {
		return Failed, fmt.Errorf("%w: sequence %d", ErrUnexpected, auth.Seq)
	}
	if auth.Status != mac.StatusSuccess {
		return Failed, nil
	}
	return AuthComplete, nil
}

// HandleSaeResponse is not valid for Open System.
func (o *OpenSystem) HandleSaeResponse(Station, mac.StatusCode) (State, error) {
	return Failed, fmt.Errorf("%w: SAE response", ErrUnexpected)
}

// HandleSaeFrameTx is not valid for Open System.
func (o *OpenSystem) HandleSaeFrameTx(Station, mlme.SaeFrame) (State, error) {
	return Failed, fmt.Errorf("%w: SAE frame", ErrUnexpected)
}

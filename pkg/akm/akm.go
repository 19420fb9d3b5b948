// Package akm implements the authentication delegates of the station MLME.
//
// A delegate drives one authentication algorithm to completion and reports
// its progress as one of three states. Open System authentication runs
// entirely in the MLME; SAE is run by the SME, with the delegate relaying
// frames in both directions.
package akm

import (
	"errors"
	"fmt"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// Errors returned by delegates.
var (
	ErrUnsupported = errors.New("unsupported authentication algorithm")
	ErrUnexpected  = errors.New("unexpected input for authentication algorithm")
)

// State is the progress of an authentication delegate.
type State uint8

const (
	// InProgress means more frames or SME input are needed.
	InProgress State = iota

	// AuthComplete means the peer accepted the authentication.
	AuthComplete

	// Failed means authentication cannot succeed.
	Failed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case InProgress:
		return "IN_PROGRESS"
	case AuthComplete:
		return "AUTH_COMPLETE"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Station is what a delegate needs from the station it authenticates.
type Station interface {
	// BSSID returns the peer being authenticated with.
	BSSID() mac.Addr

	// SendAuthFrame transmits an authentication frame to the peer.
	SendAuthFrame(algorithm mac.AuthAlgorithm, seq uint16, status mac.StatusCode, elements []byte) error

	// SendSme forwards a message to the SME.
	SendSme(msg mlme.Message)
}

// Algorithm is one authentication delegate. Each delegate is used for a
// single attempt.
type Algorithm interface {
	// Algorithm returns the algorithm number used on the air.
	Algorithm() mac.AuthAlgorithm

	// Initiate starts authentication.
	Initiate(sta Station) (State, error)

	// HandleAuthFrame processes an authentication frame from the peer.
	HandleAuthFrame(sta Station, auth mac.Authentication) (State, error)

	// HandleSaeResponse processes the SME's verdict on an SAE handshake.
	HandleSaeResponse(sta Station, status mac.StatusCode) (State, error)

	// HandleSaeFrameTx transmits an SAE frame produced by the SME.
	HandleSaeFrameTx(sta Station, frame mlme.SaeFrame) (State, error)
}

// Factory creates the delegate for an auth type.
type Factory func(t mlme.AuthType) (Algorithm, error)

// New returns the delegate for t. Only Open System and SAE are supported.
func New(t mlme.AuthType) (Algorithm, error) {
	switch t {
	case mlme.AuthTypeOpenSystem:
		return &OpenSystem{}, nil
	case mlme.AuthTypeSAE:
		return &SAE{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
}

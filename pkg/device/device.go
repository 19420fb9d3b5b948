// Package device defines the driver-facing side of the station MLME.
//
// The MLME is the only writer to a Device. Every call is fallible and must
// not block for long; failures are handled by the caller.
package device

import (
	"errors"

	"github.com/wlanstack/mlme-go/pkg/mac"
	"github.com/wlanstack/mlme-go/pkg/mlme"
)

// Device errors.
var (
	ErrNotSupported = errors.New("operation not supported by device")
	ErrNoAssoc      = errors.New("no association context")
)

// AssocContext is the negotiated association pushed to the driver.
type AssocContext struct {
	BSSID          mac.Addr
	AID            uint16
	ListenInterval uint16
	Channel        mac.Channel
	QoS            bool
	Rates          []uint8
	CapabilityInfo uint16

	// HT and VHT parameters are present only when negotiated.
	HTCapabilities  []byte
	HTOperation     *mac.HTOperation
	VHTCapabilities []byte
	VHTOperation    *mac.VHTOperation
}

// KeyConfig is one key to install in the driver.
type KeyConfig struct {
	BSSID       mac.Addr
	Protection  Protection
	CipherSuite uint32
	KeyType     mlme.KeyType
	PeerAddr    mac.Addr
	KeyIndex    uint8
	Key         []byte
	RSC         uint64
}

// Protection is the direction a key protects.
type Protection uint8

const (
	ProtectionNone Protection = iota
	ProtectionRx
	ProtectionTx
	ProtectionRxTx
)

// Device is the driver session of one station interface.
type Device interface {
	// ConfigureAssoc installs the association context.
	ConfigureAssoc(ctx AssocContext) error

	// ClearAssoc removes the association context for bssid.
	ClearAssoc(bssid mac.Addr) error

	// SetKey installs a key.
	SetKey(cfg KeyConfig) error

	// SetEthLinkUp marks the data link up.
	SetEthLinkUp() error

	// SetEthLinkDown marks the data link down.
	SetEthLinkDown() error

	// SendFrame transmits a MAC frame including FCS.
	SendFrame(frame []byte) error

	// DeliverEthFrame hands a received Ethernet frame to the network stack.
	DeliverEthFrame(frame []byte) error

	// CurrentChannel returns the channel the radio is tuned to.
	CurrentChannel() mac.Channel

	// SetChannel retunes the radio.
	SetChannel(ch mac.Channel) error
}

package mlme

import "github.com/wlanstack/mlme-go/pkg/mac"

// Kind identifies a message type on the wire.
type Kind uint8

const (
	KindConnectRequest Kind = iota + 1
	KindDeauthenticateRequest
	KindReconnectRequest
	KindEapolRequest
	KindSetKeysRequest
	KindSetControlledPortRequest
	KindSaeHandshakeResponse
	KindSaeFrameTx
)

// Confirms and indications start at 0x40.
const (
	KindConnectConfirm Kind = iota + 0x40
	KindDeauthenticateConfirm
	KindDeauthenticateIndication
	KindDisassociateIndication
	KindEapolIndication
	KindEapolConfirm
	KindSignalReportIndication
	KindSetKeysConfirm
	KindSaeHandshakeIndication
	KindSaeFrameIndication
)

// String returns the message kind name.
func (k Kind) String() string {
	switch k {
	case KindConnectRequest:
		return "CONNECT_REQUEST"
	case KindDeauthenticateRequest:
		return "DEAUTHENTICATE_REQUEST"
	case KindReconnectRequest:
		return "RECONNECT_REQUEST"
	case KindEapolRequest:
		return "EAPOL_REQUEST"
	case KindSetKeysRequest:
		return "SET_KEYS_REQUEST"
	case KindSetControlledPortRequest:
		return "SET_CONTROLLED_PORT_REQUEST"
	case KindSaeHandshakeResponse:
		return "SAE_HANDSHAKE_RESPONSE"
	case KindSaeFrameTx:
		return "SAE_FRAME_TX"
	case KindConnectConfirm:
		return "CONNECT_CONFIRM"
	case KindDeauthenticateConfirm:
		return "DEAUTHENTICATE_CONFIRM"
	case KindDeauthenticateIndication:
		return "DEAUTHENTICATE_INDICATION"
	case KindDisassociateIndication:
		return "DISASSOCIATE_INDICATION"
	case KindEapolIndication:
		return "EAPOL_INDICATION"
	case KindEapolConfirm:
		return "EAPOL_CONFIRM"
	case KindSignalReportIndication:
		return "SIGNAL_REPORT_INDICATION"
	case KindSetKeysConfirm:
		return "SET_KEYS_CONFIRM"
	case KindSaeHandshakeIndication:
		return "SAE_HANDSHAKE_INDICATION"
	case KindSaeFrameIndication:
		return "SAE_FRAME_INDICATION"
	default:
		return "UNKNOWN"
	}
}

// IsCommand reports whether messages of this kind flow from the SME to the
// MLME.
func (k Kind) IsCommand() bool {
	return k >= KindConnectRequest && k <= KindSaeFrameTx
}

// Message is any MLME primitive.
type Message interface {
	Kind() Kind
}

// Sink receives confirms and indications from the MLME. Send must not block.
type Sink interface {
	Send(msg Message)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(msg Message)

// Send calls f(msg).
func (f SinkFunc) Send(msg Message) { f(msg) }

// AuthType selects the authentication algorithm of a connect attempt.
type AuthType uint8

const (
	AuthTypeOpenSystem AuthType = iota
	AuthTypeSharedKey
	AuthTypeFastBSSTransition
	AuthTypeSAE
)

// String returns the auth type name.
func (a AuthType) String() string {
	switch a {
	case AuthTypeOpenSystem:
		return "OPEN_SYSTEM"
	case AuthTypeSharedKey:
		return "SHARED_KEY"
	case AuthTypeFastBSSTransition:
		return "FAST_BSS_TRANSITION"
	case AuthTypeSAE:
		return "SAE"
	default:
		return "UNKNOWN"
	}
}

// BSSDescription describes the BSS selected by the SME.
type BSSDescription struct {
	BSSID           mac.Addr    `cbor:"1,keyasint" yaml:"bssid"`
	SSID            []byte      `cbor:"2,keyasint" yaml:"ssid"`
	BeaconPeriod    uint16      `cbor:"3,keyasint" yaml:"beacon_period"` // TU
	Channel         mac.Channel `cbor:"4,keyasint" yaml:"channel"`
	CapabilityInfo  uint16      `cbor:"5,keyasint" yaml:"capability_info"`
	Rates           []uint8     `cbor:"6,keyasint,omitempty" yaml:"rates"`
	HTCapabilities  []byte      `cbor:"7,keyasint,omitempty" yaml:"ht_capabilities"`
	HTOperation     []byte      `cbor:"8,keyasint,omitempty" yaml:"ht_operation"`
	VHTCapabilities []byte      `cbor:"9,keyasint,omitempty" yaml:"vht_capabilities"`
	VHTOperation    []byte      `cbor:"10,keyasint,omitempty" yaml:"vht_operation"`
	RSNE            []byte      `cbor:"11,keyasint,omitempty" yaml:"rsne"`
	RSSIDbm         int8        `cbor:"12,keyasint,omitempty" yaml:"rssi_dbm"`
}

// ConnectRequest asks the MLME to authenticate and associate with a BSS.
type ConnectRequest struct {
	BSS BSSDescription `cbor:"1,keyasint" yaml:"bss"`

	AuthType AuthType `cbor:"2,keyasint" yaml:"auth_type"`

	// ConnectFailureTimeout is the connect attempt budget in beacon periods.
	ConnectFailureTimeout uint32 `cbor:"3,keyasint" yaml:"connect_failure_timeout"`

	// SecurityIE is the RSNE the station advertises in its association
	// request. Empty for open networks.
	SecurityIE []byte `cbor:"4,keyasint,omitempty" yaml:"security_ie"`
}

// PrivacyRequired reports whether the connection needs an RSNA handshake
// before the controlled port opens.
func (r ConnectRequest) PrivacyRequired() bool { return len(r.SecurityIE) > 0 }

func (ConnectRequest) Kind() Kind { return KindConnectRequest }

// DeauthenticateRequest tears the connection down.
type DeauthenticateRequest struct {
	PeerSTA mac.Addr       `cbor:"1,keyasint"`
	Reason  mac.ReasonCode `cbor:"2,keyasint"`
}

func (DeauthenticateRequest) Kind() Kind { return KindDeauthenticateRequest }

// ReconnectRequest asks an authenticated station to associate again.
type ReconnectRequest struct {
	PeerSTA mac.Addr `cbor:"1,keyasint"`
}

func (ReconnectRequest) Kind() Kind { return KindReconnectRequest }

// EapolRequest carries an EAPoL frame to transmit.
type EapolRequest struct {
	Src  mac.Addr `cbor:"1,keyasint"`
	Dst  mac.Addr `cbor:"2,keyasint"`
	Data []byte   `cbor:"3,keyasint"`
}

func (EapolRequest) Kind() Kind { return KindEapolRequest }

// KeyType is the purpose of an installed key.
type KeyType uint8

const (
	KeyTypeGroup KeyType = iota
	KeyTypePairwise
	KeyTypePeerKey
	KeyTypeIGTK
)

// KeyDescriptor describes one key to install.
type KeyDescriptor struct {
	Key         []byte   `cbor:"1,keyasint"`
	KeyID       uint16   `cbor:"2,keyasint"`
	KeyType     KeyType  `cbor:"3,keyasint"`
	Address     mac.Addr `cbor:"4,keyasint"`
	RSC         uint64   `cbor:"5,keyasint,omitempty"`
	CipherSuite uint32   `cbor:"6,keyasint"`
}

// SetKeysRequest installs keys negotiated by the RSNA handshake.
type SetKeysRequest struct {
	Keys []KeyDescriptor `cbor:"1,keyasint"`
}

func (SetKeysRequest) Kind() Kind { return KindSetKeysRequest }

// ControlledPortState is the state of the 802.1X controlled port.
type ControlledPortState uint8

const (
	ControlledPortClosed ControlledPortState = iota
	ControlledPortOpen
)

// String returns the port state name.
func (c ControlledPortState) String() string {
	if c == ControlledPortOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// SetControlledPortRequest opens or closes the controlled port.
type SetControlledPortRequest struct {
	PeerSTA mac.Addr            `cbor:"1,keyasint"`
	State   ControlledPortState `cbor:"2,keyasint"`
}

func (SetControlledPortRequest) Kind() Kind { return KindSetControlledPortRequest }

// SaeHandshakeResponse ends an SAE handshake run by the SME.
type SaeHandshakeResponse struct {
	PeerSTA mac.Addr       `cbor:"1,keyasint"`
	Status  mac.StatusCode `cbor:"2,keyasint"`
}

func (SaeHandshakeResponse) Kind() Kind { return KindSaeHandshakeResponse }

// SaeFrame is an SAE authentication frame exchanged with the SME.
type SaeFrame struct {
	PeerSTA mac.Addr       `cbor:"1,keyasint"`
	Status  mac.StatusCode `cbor:"2,keyasint"`
	Seq     uint16         `cbor:"3,keyasint"`
	Body    []byte         `cbor:"4,keyasint"`
}

// SaeFrameTx asks the MLME to transmit an SAE frame.
type SaeFrameTx struct {
	Frame SaeFrame `cbor:"1,keyasint"`
}

func (SaeFrameTx) Kind() Kind { return KindSaeFrameTx }

// ConnectConfirm reports the outcome of a connect or reconnect attempt.
type ConnectConfirm struct {
	PeerSTA mac.Addr       `cbor:"1,keyasint"`
	Status  mac.StatusCode `cbor:"2,keyasint"`
	AID     uint16         `cbor:"3,keyasint,omitempty"`

	// AssociationIEs are the elements of the association response.
	AssociationIEs []byte `cbor:"4,keyasint,omitempty"`
}

func (ConnectConfirm) Kind() Kind { return KindConnectConfirm }

// DeauthenticateConfirm acknowledges a DeauthenticateRequest.
type DeauthenticateConfirm struct {
	PeerSTA mac.Addr `cbor:"1,keyasint"`
}

func (DeauthenticateConfirm) Kind() Kind { return KindDeauthenticateConfirm }

// DeauthenticateIndication reports a deauthentication.
type DeauthenticateIndication struct {
	PeerSTA          mac.Addr       `cbor:"1,keyasint"`
	Reason           mac.ReasonCode `cbor:"2,keyasint"`
	LocallyInitiated bool           `cbor:"3,keyasint"`
}

func (DeauthenticateIndication) Kind() Kind { return KindDeauthenticateIndication }

// DisassociateIndication reports a disassociation.
type DisassociateIndication struct {
	PeerSTA          mac.Addr       `cbor:"1,keyasint"`
	Reason           mac.ReasonCode `cbor:"2,keyasint"`
	LocallyInitiated bool           `cbor:"3,keyasint"`
}

func (DisassociateIndication) Kind() Kind { return KindDisassociateIndication }

// EapolIndication delivers a received EAPoL frame.
type EapolIndication struct {
	Src  mac.Addr `cbor:"1,keyasint"`
	Dst  mac.Addr `cbor:"2,keyasint"`
	Data []byte   `cbor:"3,keyasint"`
}

func (EapolIndication) Kind() Kind { return KindEapolIndication }

// EapolResult is the outcome of an EAPoL transmission.
type EapolResult uint8

const (
	EapolSuccess EapolResult = iota
	EapolTransmissionFailure
)

// EapolConfirm reports whether an EapolRequest was transmitted.
type EapolConfirm struct {
	Dst    mac.Addr    `cbor:"1,keyasint"`
	Result EapolResult `cbor:"2,keyasint"`
}

func (EapolConfirm) Kind() Kind { return KindEapolConfirm }

// SignalReportIndication reports the averaged signal strength.
type SignalReportIndication struct {
	RSSIDbm int8 `cbor:"1,keyasint"`
	SNRDb   int8 `cbor:"2,keyasint,omitempty"`
}

func (SignalReportIndication) Kind() Kind { return KindSignalReportIndication }

// SetKeyResult is the per-key outcome of a SetKeysRequest. Status 0 means
// the key was installed.
type SetKeyResult struct {
	KeyID  uint16 `cbor:"1,keyasint"`
	Status int32  `cbor:"2,keyasint"`
}

// SetKeysConfirm reports per-key results.
type SetKeysConfirm struct {
	Results []SetKeyResult `cbor:"1,keyasint"`
}

func (SetKeysConfirm) Kind() Kind { return KindSetKeysConfirm }

// SaeHandshakeIndication asks the SME to run an SAE handshake.
type SaeHandshakeIndication struct {
	PeerSTA mac.Addr `cbor:"1,keyasint"`
}

func (SaeHandshakeIndication) Kind() Kind { return KindSaeHandshakeIndication }

// SaeFrameIndication forwards a received SAE frame to the SME.
type SaeFrameIndication struct {
	Frame SaeFrame `cbor:"1,keyasint"`
}

func (SaeFrameIndication) Kind() Kind { return KindSaeFrameIndication }

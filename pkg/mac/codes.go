package mac

import "fmt"

// StatusCode is an IEEE 802.11 status code (9.4.1.9), extended with a
// small local range for outcomes that never appear on the air.
type StatusCode uint16

const (
	// StatusSuccess indicates the request succeeded.
	StatusSuccess StatusCode = 0

	// StatusRefusedReasonUnspecified indicates an unspecified failure.
	StatusRefusedReasonUnspecified StatusCode = 1

	// StatusRefusedCapabilitiesMismatch indicates the requested capabilities
	// cannot be supported.
	StatusRefusedCapabilitiesMismatch StatusCode = 10

	// StatusUnsupportedAuthAlgorithm indicates the authentication algorithm
	// is not supported.
	StatusUnsupportedAuthAlgorithm StatusCode = 13

	// StatusRejectedSequenceTimeout indicates a timeout waiting for the next
	// frame in a sequence.
	StatusRejectedSequenceTimeout StatusCode = 16

	// StatusApUnableToHandleNewSta indicates the AP is out of resources.
	StatusApUnableToHandleNewSta StatusCode = 17

	// StatusRefusedBasicRatesMismatch indicates the station does not support
	// all of the BSS basic rates.
	StatusRefusedBasicRatesMismatch StatusCode = 18

	// StatusAntiCloggingTokenRequired is used by SAE commit exchanges.
	StatusAntiCloggingTokenRequired StatusCode = 76

	// StatusSpuriousDeauthOrDisassoc is a local status: the AP tore the link
	// down while a connect attempt was in progress.
	StatusSpuriousDeauthOrDisassoc StatusCode = 0xff01

	// StatusNotInSameBSS is a local status: a command named a peer other than
	// the joined BSS.
	StatusNotInSameBSS StatusCode = 0xff02
)

// String returns the status name.
func (s StatusCode) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusRefusedReasonUnspecified:
		return "REFUSED_REASON_UNSPECIFIED"
	case StatusRefusedCapabilitiesMismatch:
		return "REFUSED_CAPABILITIES_MISMATCH"
	case StatusUnsupportedAuthAlgorithm:
		return "UNSUPPORTED_AUTH_ALGORITHM"
	case StatusRejectedSequenceTimeout:
		return "REJECTED_SEQUENCE_TIMEOUT"
	case StatusApUnableToHandleNewSta:
		return "AP_UNABLE_TO_HANDLE_NEW_STA"
	case StatusRefusedBasicRatesMismatch:
		return "REFUSED_BASIC_RATES_MISMATCH"
	case StatusAntiCloggingTokenRequired:
		return "ANTI_CLOGGING_TOKEN_REQUIRED"
	case StatusSpuriousDeauthOrDisassoc:
		return "SPURIOUS_DEAUTH_OR_DISASSOC"
	case StatusNotInSameBSS:
		return "NOT_IN_SAME_BSS"
	default:
		return fmt.Sprintf("STATUS(%d)", uint16(s))
	}
}

// ReasonCode is an IEEE 802.11 reason code (9.4.1.7).
type ReasonCode uint16

const (
	// ReasonUnspecified is the generic reason.
	ReasonUnspecified ReasonCode = 1

	// ReasonInvalidAuthentication means the previous authentication is no
	// longer valid.
	ReasonInvalidAuthentication ReasonCode = 2

	// ReasonLeavingNetworkDeauth means the sender is leaving the BSS.
	ReasonLeavingNetworkDeauth ReasonCode = 3

	// ReasonInactivity means the link was idle for too long.
	ReasonInactivity ReasonCode = 4

	// ReasonNoMoreStas means the AP cannot handle all associated stations.
	ReasonNoMoreStas ReasonCode = 5

	// ReasonInvalidClass2Frame means a class 2 frame came from a
	// non-authenticated station.
	ReasonInvalidClass2Frame ReasonCode = 6

	// ReasonInvalidClass3Frame means a class 3 frame came from a
	// non-associated station.
	ReasonInvalidClass3Frame ReasonCode = 7

	// ReasonLeavingNetworkDisassoc means the sender is leaving the BSS.
	ReasonLeavingNetworkDisassoc ReasonCode = 8
)

// String returns the reason name.
func (r ReasonCode) String() string {
	switch r {
	case ReasonUnspecified:
		return "UNSPECIFIED"
	case ReasonInvalidAuthentication:
		return "INVALID_AUTHENTICATION"
	case ReasonLeavingNetworkDeauth:
		return "LEAVING_NETWORK_DEAUTH"
	case ReasonInactivity:
		return "INACTIVITY"
	case ReasonNoMoreStas:
		return "NO_MORE_STAS"
	case ReasonInvalidClass2Frame:
		return "INVALID_CLASS2_FRAME"
	case ReasonInvalidClass3Frame:
		return "INVALID_CLASS3_FRAME"
	case ReasonLeavingNetworkDisassoc:
		return "LEAVING_NETWORK_DISASSOC"
	default:
		return fmt.Sprintf("REASON(%d)", uint16(r))
	}
}

// AuthAlgorithm is the authentication algorithm number (9.4.1.1).
type AuthAlgorithm uint16

const (
	AuthOpenSystem AuthAlgorithm = 0
	AuthSharedKey  AuthAlgorithm = 1
	AuthFastBSS    AuthAlgorithm = 2
	AuthSAE        AuthAlgorithm = 3
)

// String returns the algorithm name.
func (a AuthAlgorithm) String() string {
	switch a {
	case AuthOpenSystem:
		return "OPEN_SYSTEM"
	case AuthSharedKey:
		return "SHARED_KEY"
	case AuthFastBSS:
		return "FAST_BSS_TRANSITION"
	case AuthSAE:
		return "SAE"
	default:
		return "UNKNOWN"
	}
}

// Capability information bits (9.4.1.4).
const (
	CapESS              uint16 = 1 << 0
	CapIBSS             uint16 = 1 << 1
	CapPrivacy          uint16 = 1 << 4
	CapShortPreamble    uint16 = 1 << 5
	CapSpectrumMgmt     uint16 = 1 << 8
	CapQoS              uint16 = 1 << 9
	CapShortSlot        uint16 = 1 << 10
	CapRadioMeasurement uint16 = 1 << 12
)

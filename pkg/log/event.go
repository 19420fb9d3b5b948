package log

import "time"

// Event represents a protocol log event captured by the station MLME.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AttemptID identifies one connect attempt (UUID). It changes every
	// time the station starts connecting.
	AttemptID string `cbor:"2,keyasint"`

	// Direction indicates frame or message flow.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Interface is the station's MAC address.
	Interface string `cbor:"6,keyasint,omitempty"`

	// BSSID is the peer access point.
	BSSID string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // MAC layer
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // SME primitives
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Client state
	Timer       *TimerEvent       `cbor:"13,keyasint,omitempty"` // Timer firings
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Kind names the event's payload: the frame type, the primitive kind,
// the new state or the timer kind. Error events are "ERROR".
func (e Event) Kind() string {
	switch {
	case e.Frame != nil:
		return e.Frame.Type
	case e.Message != nil:
		return e.Message.Kind
	case e.StateChange != nil:
		return e.StateChange.NewState
	case e.Timer != nil:
		return e.Timer.Kind
	case e.Error != nil:
		return "ERROR"
	}
	return ""
}

// Direction indicates the direction of frame or message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming frame or command.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing frame or indication.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates where the event was captured.
type Layer uint8

const (
	// LayerMAC is the 802.11 frame layer.
	LayerMAC Layer = 0
	// LayerMLME is the SME interface (commands, confirms, indications).
	LayerMLME Layer = 1
	// LayerStation is the client state machine.
	LayerStation Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerMAC:
		return "MAC"
	case LayerMLME:
		return "MLME"
	case LayerStation:
		return "STATION"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates an 802.11 frame.
	CategoryFrame Category = 0
	// CategoryMessage indicates an SME primitive.
	CategoryMessage Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryTimer indicates a timer firing.
	CategoryTimer Category = 3
	// CategoryError indicates an error event.
	CategoryError Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryTimer:
		return "TIMER"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MaxFrameData is the number of frame bytes kept in a FrameEvent.
const MaxFrameData = 256

// FrameEvent captures an 802.11 frame.
type FrameEvent struct {
	// Size is the frame size in bytes including FCS.
	Size int `cbor:"1,keyasint"`

	// Type is the frame type name, e.g. "MgmtBeacon".
	Type string `cbor:"2,keyasint,omitempty"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`

	// RSSIDbm is the received signal strength (inbound frames only).
	RSSIDbm int8 `cbor:"5,keyasint,omitempty"`

	// Dropped is set when the station discarded the frame.
	Dropped string `cbor:"6,keyasint,omitempty"`
}

// NewFrameEvent captures data, truncating it to MaxFrameData bytes.
func NewFrameEvent(typ string, data []byte) *FrameEvent {
	fe := &FrameEvent{Size: len(data), Type: typ}
	if len(data) > MaxFrameData {
		fe.Data = append([]byte(nil), data[:MaxFrameData]...)
		fe.Truncated = true
	} else {
		fe.Data = append([]byte(nil), data...)
	}
	return fe
}

// MessageEvent captures an SME primitive.
type MessageEvent struct {
	// Kind is the primitive name, e.g. "CONNECT_CONFIRM".
	Kind string `cbor:"1,keyasint"`

	// Status is the IEEE or local status code, when the primitive has one.
	Status *uint16 `cbor:"2,keyasint,omitempty"`

	// Reason is the IEEE reason code, when the primitive has one.
	Reason *uint16 `cbor:"3,keyasint,omitempty"`

	// Payload is the CBOR encoded primitive.
	Payload []byte `cbor:"4,keyasint,omitempty"`
}

// StateChangeEvent captures client state transitions.
type StateChangeEvent struct {
	// OldState is the previous state.
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// TimerEvent captures a timer firing.
type TimerEvent struct {
	// Kind is the timer kind name.
	Kind string `cbor:"1,keyasint"`

	// ID is the timer ID.
	ID uint64 `cbor:"2,keyasint"`

	// Stale is set when the firing no longer matched the expected ID.
	Stale bool `cbor:"3,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}

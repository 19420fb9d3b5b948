package mlme

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrUnknownKind is returned when decoding an envelope of an unknown kind.
var ErrUnknownKind = errors.New("unknown message kind")

// encMode is the CBOR encoder mode for MLME messages.
// Configured for deterministic encoding with integer keys.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for MLME messages.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Lenient for forward compatibility
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// Envelope wraps a message with its kind.
type Envelope struct {
	Kind Kind            `cbor:"1,keyasint"`
	Body cbor.RawMessage `cbor:"2,keyasint"`
}

// Encode encodes a message into a CBOR envelope.
func Encode(msg Message) ([]byte, error) {
	body, err := encMode.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", msg.Kind(), err)
	}
	return encMode.Marshal(Envelope{Kind: msg.Kind(), Body: body})
}

// Decode decodes a CBOR envelope into the message it carries.
func Decode(data []byte) (Message, error) {
	var env Envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return decodeBody(env)
}

// NewEncoder returns an encoder writing a stream of envelopes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{enc: encMode.NewEncoder(w)}
}

// Encoder writes envelopes to a stream.
type Encoder struct {
	enc *cbor.Encoder
}

// Encode writes msg as one envelope.
func (e *Encoder) Encode(msg Message) error {
	body, err := encMode.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", msg.Kind(), err)
	}
	return e.enc.Encode(Envelope{Kind: msg.Kind(), Body: body})
}

// NewDecoder returns a decoder reading a stream of envelopes from r.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: decMode.NewDecoder(r)}
}

// Decoder reads envelopes from a stream.
type Decoder struct {
	dec *cbor.Decoder
}

// Decode reads the next message. It returns io.EOF at the end of the stream.
func (d *Decoder) Decode() (Message, error) {
	var env Envelope
	if err := d.dec.Decode(&env); err != nil {
		return nil, err
	}
	return decodeBody(env)
}

func decodeBody(env Envelope) (Message, error) {
	switch env.Kind {
	case KindConnectRequest:
		return unmarshal[ConnectRequest](env.Body)
	case KindDeauthenticateRequest:
		return unmarshal[DeauthenticateRequest](env.Body)
	case KindReconnectRequest:
		return unmarshal[ReconnectRequest](env.Body)
	case KindEapolRequest:
		return unmarshal[EapolRequest](env.Body)
	case KindSetKeysRequest:
		return unmarshal[SetKeysRequest](env.Body)
	case KindSetControlledPortRequest:
		return unmarshal[SetControlledPortRequest](env.Body)
	case KindSaeHandshakeResponse:
		return unmarshal[SaeHandshakeResponse](env.Body)
	case KindSaeFrameTx:
		return unmarshal[SaeFrameTx](env.Body)
	case KindConnectConfirm:
		return unmarshal[ConnectConfirm](env.Body)
	case KindDeauthenticateConfirm:
		return unmarshal[DeauthenticateConfirm](env.Body)
	case KindDeauthenticateIndication:
		return unmarshal[DeauthenticateIndication](env.Body)
	case KindDisassociateIndication:
		return unmarshal[DisassociateIndication](env.Body)
	case KindEapolIndication:
		return unmarshal[EapolIndication](env.Body)
	case KindEapolConfirm:
		return unmarshal[EapolConfirm](env.Body)
	case KindSignalReportIndication:
		return unmarshal[SignalReportIndication](env.Body)
	case KindSetKeysConfirm:
		return unmarshal[SetKeysConfirm](env.Body)
	case KindSaeHandshakeIndication:
		return unmarshal[SaeHandshakeIndication](env.Body)
	case KindSaeFrameIndication:
		return unmarshal[SaeFrameIndication](env.Body)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, env.Kind)
	}
}

func unmarshal[T Message](body []byte) (Message, error) {
	var msg T
	if err := decMode.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", msg.Kind(), err)
	}
	return msg, nil
}

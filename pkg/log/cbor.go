package log

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// ErrMalformedEvent is returned for events carrying more than one payload.
var ErrMalformedEvent = errors.New("malformed protocol event")

// Events are encoded canonically with RFC 3339 timestamps at nanosecond
// precision; frames within one beacon interval stay ordered.
var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor encoder mode: %v", err))
	}

	// Older captures may lack newer keys; unknown keys are skipped.
	decMode, err = cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor decoder mode: %v", err))
	}
}

// payloads counts the type-specific payloads set on e.
func (e Event) payloads() int {
	n := 0
	if e.Frame != nil {
		n++
	}
	if e.Message != nil {
		n++
	}
	if e.StateChange != nil {
		n++
	}
	if e.Timer != nil {
		n++
	}
	if e.Error != nil {
		n++
	}
	return n
}

func checkEvent(e Event) error {
	if n := e.payloads(); n > 1 {
		return fmt.Errorf("%w: %d payloads", ErrMalformedEvent, n)
	}
	return nil
}

// EncodeEvent encodes a single event.
func EncodeEvent(event Event) ([]byte, error) {
	if err := checkEvent(event); err != nil {
		return nil, err
	}
	return encMode.Marshal(event)
}

// DecodeEvent decodes a single event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := decMode.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	if err := checkEvent(event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// NewEncoder returns an encoder writing a stream of events to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder returns a decoder reading a stream of events from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

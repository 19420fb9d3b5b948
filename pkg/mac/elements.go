package mac

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// ElementID identifies an information element (9.4.2).
type ElementID uint8

const (
	ElementSSID              ElementID = 0
	ElementSupportedRates    ElementID = 1
	ElementDSParameterSet    ElementID = 3
	ElementTIM               ElementID = 5
	ElementChannelSwitch     ElementID = 37
	ElementHTCapabilities    ElementID = 45
	ElementRSN               ElementID = 48
	ElementExtSupportedRates ElementID = 50
	ElementExtChannelSwitch  ElementID = 60
	ElementHTOperation       ElementID = 61
	ElementVHTCapabilities   ElementID = 191
	ElementVHTOperation      ElementID = 192
	ElementVendorSpecific    ElementID = 221
)

// Fixed element body lengths.
const (
	HTCapabilitiesLen   = 26
	HTOperationLen      = 22
	VHTCapabilitiesLen  = 12
	VHTOperationLen     = 5
	ChannelSwitchLen    = 3
	ExtChannelSwitchLen = 4
)

// Element is a single information element.
type Element struct {
	ID   ElementID
	Body []byte
}

// Elements is an ordered list of information elements.
type Elements []Element

// ParseElements splits a management frame body tail into elements.
// A truncated trailing element is reported as ErrMalformed.
func ParseElements(b []byte) (Elements, error) {
	var elems Elements
	for len(b) > 0 {
		if len(b) < 2 {
			return elems, fmt.Errorf("%w: truncated element header", ErrMalformed)
		}
		id, n := ElementID(b[0]), int(b[1])
		if len(b) < 2+n {
			return elems, fmt.Errorf("%w: element %d needs %d bytes, have %d", ErrMalformed, id, n, len(b)-2)
		}
		elems = append(elems, Element{ID: id, Body: b[2 : 2+n]})
		b = b[2+n:]
	}
	return elems, nil
}

// Find returns the body of the first element with the given ID.
func (e Elements) Find(id ElementID) ([]byte, bool) {
	for _, el := range e {
		if el.ID == id {
			return el.Body, true
		}
	}
	return nil, false
}

// Encode serializes the elements using gopacket's information element layer.
func (e Elements) Encode() ([]byte, error) {
	if len(e) == 0 {
		return nil, nil
	}
	ls := make([]gopacket.SerializableLayer, 0, len(e))
	for _, el := range e {
		if len(el.Body) > 255 {
			return nil, fmt.Errorf("element %d body too long: %d", el.ID, len(el.Body))
		}
		ls = append(ls, &layers.Dot11InformationElement{
			ID:     layers.Dot11InformationElementID(el.ID),
			Length: uint8(len(el.Body)),
			Info:   el.Body,
		})
	}
	buf := gopacket.NewSerializeBuffer()
	if err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, ls...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TIM is a Traffic Indication Map element.
type TIM struct {
	DTIMCount     uint8
	DTIMPeriod    uint8
	BitmapControl uint8
	Bitmap        []byte
}

// ParseTIM decodes a TIM element body.
func ParseTIM(body []byte) (TIM, error) {
	if len(body) < 4 {
		return TIM{}, fmt.Errorf("%w: TIM length %d", ErrMalformed, len(body))
	}
	return TIM{
		DTIMCount:     body[0],
		DTIMPeriod:    body[1],
		BitmapControl: body[2],
		Bitmap:        body[3:],
	}, nil
}

// HasTrafficFor reports whether the partial virtual bitmap has the bit for
// aid set.
func (t TIM) HasTrafficFor(aid uint16) bool {
	offset := int(t.BitmapControl & 0xfe)
	idx := int(aid/8) - offset
	if idx < 0 || idx >= len(t.Bitmap) {
		return false
	}
	return t.Bitmap[idx]&(1<<(aid%8)) != 0
}

// Encode returns the TIM element body.
func (t TIM) Encode() []byte {
	b := []byte{t.DTIMCount, t.DTIMPeriod, t.BitmapControl}
	if len(t.Bitmap) == 0 {
		return append(b, 0)
	}
	return append(b, t.Bitmap...)
}

// ChannelSwitch is a Channel Switch Announcement (9.4.2.19). It is carried
// either as a plain CSA element or an extended CSA element.
type ChannelSwitch struct {
	// Mode 1 means no transmissions until the switch happens.
	Mode       uint8
	NewChannel uint8
	Count      uint8
}

// ParseChannelSwitch decodes a CSA element body.
func ParseChannelSwitch(body []byte) (ChannelSwitch, error) {
	if len(body) != ChannelSwitchLen {
		return ChannelSwitch{}, fmt.Errorf("%w: CSA length %d", ErrMalformed, len(body))
	}
	return ChannelSwitch{Mode: body[0], NewChannel: body[1], Count: body[2]}, nil
}

// ParseExtChannelSwitch decodes an extended CSA element body. The operating
// class is not used by the station.
func ParseExtChannelSwitch(body []byte) (ChannelSwitch, error) {
	if len(body) != ExtChannelSwitchLen {
		return ChannelSwitch{}, fmt.Errorf("%w: extended CSA length %d", ErrMalformed, len(body))
	}
	return ChannelSwitch{Mode: body[0], NewChannel: body[2], Count: body[3]}, nil
}

// Encode returns the CSA element body.
func (c ChannelSwitch) Encode() []byte {
	return []byte{c.Mode, c.NewChannel, c.Count}
}

// HTOperation is the raw HT Operation element body.
type HTOperation [HTOperationLen]byte

// PrimaryChannel returns the primary channel number.
func (h HTOperation) PrimaryChannel() uint8 { return h[0] }

// VHTOperation is the raw VHT Operation element body.
type VHTOperation [VHTOperationLen]byte

// ChannelWidth returns the VHT channel width field.
func (v VHTOperation) ChannelWidth() uint8 { return v[0] }

// ParseHTOperation validates the length of an HT Operation element body.
func ParseHTOperation(body []byte) (HTOperation, error) {
	var op HTOperation
	if len(body) != HTOperationLen {
		return op, fmt.Errorf("%w: HT operation length %d", ErrMalformed, len(body))
	}
	copy(op[:], body)
	return op, nil
}

// ParseVHTOperation validates the length of a VHT Operation element body.
func ParseVHTOperation(body []byte) (VHTOperation, error) {
	var op VHTOperation
	if len(body) != VHTOperationLen {
		return op, fmt.Errorf("%w: VHT operation length %d", ErrMalformed, len(body))
	}
	copy(op[:], body)
	return op, nil
}

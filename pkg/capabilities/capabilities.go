// Package capabilities negotiates the operating parameters of an
// association from the station's and the access point's capabilities.
package capabilities

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/wlanstack/mlme-go/pkg/mac"
)

// Negotiation errors.
var (
	ErrMismatch           = errors.New("capabilities mismatch")
	ErrBasicRatesMismatch = errors.New("basic rates not supported")
)

// basicRate marks a rate as part of the BSS basic rate set.
const basicRate = 0x80

// Capabilities is the capability set advertised by one side.
type Capabilities struct {
	CapabilityInfo  uint16
	Rates           []uint8
	HTCapabilities  []byte
	VHTCapabilities []byte
}

// Negotiated is the result of intersecting two capability sets.
type Negotiated struct {
	CapabilityInfo  uint16
	Rates           []uint8
	QoS             bool
	HTCapabilities  []byte
	VHTCapabilities []byte
}

// HT reports whether HT was negotiated.
func (n Negotiated) HT() bool { return len(n.HTCapabilities) > 0 }

// VHT reports whether VHT was negotiated.
func (n Negotiated) VHT() bool { return len(n.VHTCapabilities) > 0 }

// Default returns the capabilities of a 2x2 802.11ac station.
func Default() Capabilities {
	ht := make([]byte, mac.HTCapabilitiesLen)
	ht[0], ht[1] = 0x6f, 0x01 // LDPC, 40 MHz, SM PS disabled, SGI 20/40, RX STBC
	ht[3], ht[4] = 0xff, 0xff // MCS 0-15

	vht := make([]byte, mac.VHTCapabilitiesLen)
	vht[0], vht[1] = 0x32, 0x00 // max MPDU 11454, SGI 80, RX LDPC
	vht[4], vht[5] = 0xfa, 0xff // MCS 0-9 for 2 streams
	vht[8], vht[9] = 0xfa, 0xff

	return Capabilities{
		CapabilityInfo:  mac.CapESS | mac.CapShortPreamble | mac.CapShortSlot | mac.CapQoS,
		Rates:           []uint8{0x02, 0x04, 0x0b, 0x16, 0x0c, 0x12, 0x18, 0x24, 0x30, 0x48, 0x60, 0x6c},
		HTCapabilities:  ht,
		VHTCapabilities: vht,
	}
}

// FromElements builds the capability set advertised in a frame body.
// HT and VHT capability elements of the wrong length are ignored.
func FromElements(capInfo uint16, elems mac.Elements) Capabilities {
	c := Capabilities{CapabilityInfo: capInfo}
	if rates, ok := elems.Find(mac.ElementSupportedRates); ok {
		c.Rates = append(c.Rates, rates...)
	}
	if rates, ok := elems.Find(mac.ElementExtSupportedRates); ok {
		c.Rates = append(c.Rates, rates...)
	}
	if ht, ok := elems.Find(mac.ElementHTCapabilities); ok && len(ht) == mac.HTCapabilitiesLen {
		c.HTCapabilities = ht
	}
	if vht, ok := elems.Find(mac.ElementVHTCapabilities); ok && len(vht) == mac.VHTCapabilitiesLen {
		c.VHTCapabilities = vht
	}
	return c
}

// Negotiate intersects the local capabilities with those the AP returned in
// its association response. observed is what the AP advertised before
// association (beacon or probe response); an AP whose HT or VHT support
// changed between the two is rejected rather than silently downgraded.
func Negotiate(local, observed, ap Capabilities) (Negotiated, error) {
	if (len(observed.HTCapabilities) > 0) != (len(ap.HTCapabilities) > 0) {
		return Negotiated{}, fmt.Errorf("%w: HT support changed since scan", ErrMismatch)
	}
	if (len(observed.VHTCapabilities) > 0) != (len(ap.VHTCapabilities) > 0) {
		return Negotiated{}, fmt.Errorf("%w: VHT support changed since scan", ErrMismatch)
	}
	return Intersect(local, ap)
}

// Intersect returns the capabilities both sides support.
func Intersect(local, ap Capabilities) (Negotiated, error) {
	rates, err := intersectRates(local.Rates, ap.Rates)
	if err != nil {
		return Negotiated{}, err
	}

	const negotiable = mac.CapShortPreamble | mac.CapShortSlot | mac.CapSpectrumMgmt | mac.CapQoS | mac.CapRadioMeasurement
	n := Negotiated{
		CapabilityInfo: ap.CapabilityInfo&^negotiable | ap.CapabilityInfo&local.CapabilityInfo&negotiable,
		Rates:          rates,
	}
	n.QoS = n.CapabilityInfo&mac.CapQoS != 0

	if len(local.HTCapabilities) > 0 && len(ap.HTCapabilities) > 0 {
		n.HTCapabilities = intersectHT(local.HTCapabilities, ap.HTCapabilities)
		if len(local.VHTCapabilities) > 0 && len(ap.VHTCapabilities) > 0 {
			n.VHTCapabilities = intersectVHT(local.VHTCapabilities, ap.VHTCapabilities)
		}
	}
	return n, nil
}

func intersectRates(local, ap []uint8) ([]uint8, error) {
	supported := make(map[uint8]bool, len(local))
	for _, r := range local {
		supported[r&^basicRate] = true
	}

	var out []uint8
	for _, r := range ap {
		if supported[r&^basicRate] {
			out = append(out, r)
		} else if r&basicRate != 0 {
			return nil, fmt.Errorf("%w: %d kbps", ErrBasicRatesMismatch, int(r&^basicRate)*500)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no common rates", ErrMismatch)
	}
	return out, nil
}

// intersectHT ANDs the HT capability info and the RX MCS bitmask. The
// remaining fields are the station's own.
func intersectHT(local, ap []byte) []byte {
	out := bytes.Clone(local)
	out[0] &= ap[0]
	out[1] &= ap[1]
	for i := 3; i < 13; i++ {
		out[i] &= ap[i]
	}
	return out
}

// intersectVHT ANDs the VHT capability info. MCS maps are the station's own.
func intersectVHT(local, ap []byte) []byte {
	out := bytes.Clone(local)
	for i := 0; i < 4; i++ {
		out[i] &= ap[i]
	}
	return out
}


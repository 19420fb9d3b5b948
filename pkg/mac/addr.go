package mac

import (
	"errors"
	"fmt"
	"net"
)

// AddrLen is the length of an IEEE 802 MAC address.
const AddrLen = 6

// ErrInvalidAddr is returned when a string or byte slice is not a MAC address.
var ErrInvalidAddr = errors.New("invalid MAC address")

// Addr is an IEEE 802 MAC address.
type Addr [AddrLen]byte

// Broadcast is the all-ones group address.
var Broadcast = Addr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// ParseAddr parses a colon separated MAC address.
func ParseAddr(s string) (Addr, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddr, s)
	}
	return AddrFromBytes(hw)
}

// MustParseAddr is like ParseAddr but panics on error. Intended for tests
// and constants.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AddrFromBytes copies a 6-byte slice into an Addr.
func AddrFromBytes(b []byte) (Addr, error) {
	var a Addr
	if len(b) != AddrLen {
		return a, fmt.Errorf("%w: length %d", ErrInvalidAddr, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// IsGroup reports whether the address is a multicast or broadcast address.
func (a Addr) IsGroup() bool {
	return a[0]&0x01 != 0
}

// IsZero reports whether the address is all zeroes.
func (a Addr) IsZero() bool {
	return a == Addr{}
}

// HardwareAddr returns the address as a net.HardwareAddr.
func (a Addr) HardwareAddr() net.HardwareAddr {
	hw := make(net.HardwareAddr, AddrLen)
	copy(hw, a[:])
	return hw
}

// String returns the address in colon separated hex notation.
func (a Addr) String() string {
	return a.HardwareAddr().String()
}

// MarshalText implements encoding.TextMarshaler.
func (a Addr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Addr) UnmarshalText(text []byte) error {
	parsed, err := ParseAddr(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

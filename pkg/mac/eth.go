package mac

import (
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// EthernetFrame is a decoded Ethernet II frame.
type EthernetFrame struct {
	Dst       Addr
	Src       Addr
	EtherType uint16
	Payload   []byte
}

// ParseEthernet decodes an Ethernet II frame.
func ParseEthernet(b []byte) (EthernetFrame, error) {
	var eth layers.Ethernet
	if err := eth.DecodeFromBytes(b, gopacket.NilDecodeFeedback); err != nil {
		return EthernetFrame{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	f := EthernetFrame{EtherType: uint16(eth.EthernetType), Payload: eth.Payload}
	copy(f.Dst[:], eth.DstMAC)
	copy(f.Src[:], eth.SrcMAC)
	return f, nil
}

// BuildEthernet encodes an Ethernet II frame. The frame is not padded to the
// 60-byte wire minimum.
func BuildEthernet(f EthernetFrame) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{},
		&layers.Ethernet{
			DstMAC:       f.Dst.HardwareAddr(),
			SrcMAC:       f.Src.HardwareAddr(),
			EthernetType: layers.EthernetType(f.EtherType),
		},
		gopacket.Payload(f.Payload),
	)
	if err != nil {
		return nil, err
	}
	// layers.Ethernet always pads short frames.
	return buf.Bytes()[:ethHeaderLen+len(f.Payload)], nil
}

const ethHeaderLen = 14

package mac

import "fmt"

// ChannelBandwidth is the width of an operating channel.
type ChannelBandwidth uint8

const (
	CBW20 ChannelBandwidth = iota
	CBW40
	CBW40Below
	CBW80
	CBW160
	CBW80P80
)

// String returns the bandwidth name.
func (c ChannelBandwidth) String() string {
	switch c {
	case CBW20:
		return "CBW20"
	case CBW40:
		return "CBW40"
	case CBW40Below:
		return "CBW40BELOW"
	case CBW80:
		return "CBW80"
	case CBW160:
		return "CBW160"
	case CBW80P80:
		return "CBW80P80"
	default:
		return "UNKNOWN"
	}
}

// Channel is an operating channel. Channels compare with ==.
type Channel struct {
	Primary     uint8            `cbor:"1,keyasint" yaml:"primary"`
	CBW         ChannelBandwidth `cbor:"2,keyasint,omitempty" yaml:"cbw"`
	Secondary80 uint8            `cbor:"3,keyasint,omitempty" yaml:"secondary80"`
}

// IsZero reports whether no channel is set.
func (c Channel) IsZero() bool { return c.Primary == 0 }

// String returns e.g. "36" or "36 CBW80".
func (c Channel) String() string {
	if c.CBW == CBW20 {
		return fmt.Sprintf("%d", c.Primary)
	}
	return fmt.Sprintf("%d %s", c.Primary, c.CBW)
}

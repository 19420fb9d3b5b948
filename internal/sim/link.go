package sim

import (
	"errors"
	"fmt"

	"github.com/wlanstack/mlme-go/pkg/client"
	"github.com/wlanstack/mlme-go/pkg/device"
)

// maxPumpRounds bounds Pump against two sides that never stop talking.
const maxPumpRounds = 64

// ErrLivelock is returned when Pump does not settle.
var ErrLivelock = errors.New("frame exchange did not settle")

// Receiver accepts frames from the air, e.g. a client.Client.
type Receiver interface {
	OnMacFrame(b []byte, rx client.RxInfo)
}

// Link connects a station's FakeDevice to an AP without a radio.
type Link struct {
	AP      *AP
	Device  *device.FakeDevice
	Station Receiver

	// RSSIDbm is reported with every frame the station receives.
	RSSIDbm int8
}

// Pump moves frames in both directions until neither side has anything
// left to send. It returns the number of frames moved.
func (l *Link) Pump() (int, error) {
	moved := 0
	for round := 0; round < maxPumpRounds; round++ {
		up := l.Device.DrainSent()
		for _, frame := range up {
			if err := l.AP.HandleFrame(frame); err != nil {
				return moved, fmt.Errorf("AP rejected station frame: %w", err)
			}
		}
		down := l.AP.Drain()
		for _, frame := range down {
			l.Station.OnMacFrame(frame, client.RxInfo{RSSIDbm: l.RSSIDbm})
		}

		n := len(up) + len(down)
		if n == 0 {
			return moved, nil
		}
		moved += n
	}
	return moved, ErrLivelock
}

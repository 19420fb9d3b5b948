package client

import (
	"time"

	"github.com/wlanstack/mlme-go/pkg/timer"
)

// StatusCheckTimeout is the slot of the association status check timer.
// Clearing Pending cancels the outstanding timer.
type StatusCheckTimeout struct {
	LastFired time.Time
	Pending   timer.ID
}

// Clear forgets the pending timer so its firing is ignored.
func (s *StatusCheckTimeout) Clear() {
	s.Pending = 0
}

// Matches reports whether id is the pending status check.
func (s *StatusCheckTimeout) Matches(id timer.ID) bool {
	return s.Pending != 0 && s.Pending == id
}

// SignalAverage is a rolling average of received signal strength.
type SignalAverage struct {
	window  int
	samples []int8
	next    int
	sum     int
}

// NewSignalAverage creates an average over the last window samples.
func NewSignalAverage(window int) *SignalAverage {
	if window <= 0 {
		window = 1
	}
	return &SignalAverage{window: window, samples: make([]int8, 0, window)}
}

// Add records one RSSI sample in dBm.
func (a *SignalAverage) Add(rssiDbm int8) {
	if len(a.samples) < a.window {
		a.samples = append(a.samples, rssiDbm)
		a.sum += int(rssiDbm)
		return
	}
	a.sum += int(rssiDbm) - int(a.samples[a.next])
	a.samples[a.next] = rssiDbm
	a.next = (a.next + 1) % a.window
}

// Len returns the number of samples in the window.
func (a *SignalAverage) Len() int {
	return len(a.samples)
}

// Average returns the mean RSSI in dBm, or fallback when there are no
// samples.
func (a *SignalAverage) Average(fallback int8) int8 {
	if len(a.samples) == 0 {
		return fallback
	}
	return int8(a.sum / len(a.samples))
}

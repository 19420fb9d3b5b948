package client

import "time"

// LostBssCounter tracks how long the BSS has been silent, in units of its
// beacon period.
type LostBssCounter struct {
	beaconPeriod time.Duration
	threshold    time.Duration
	silent       time.Duration
}

// NewLostBssCounter creates a counter that triggers after thresholdBeacons
// beacon periods without a beacon.
func NewLostBssCounter(beaconPeriod time.Duration, thresholdBeacons uint32) *LostBssCounter {
	return &LostBssCounter{
		beaconPeriod: beaconPeriod,
		threshold:    beaconPeriod * time.Duration(thresholdBeacons),
	}
}

// Reset is called for every beacon from the BSS.
func (c *LostBssCounter) Reset() {
	c.silent = 0
}

// AddBeaconInterval accounts for n beacon periods without a beacon.
func (c *LostBssCounter) AddBeaconInterval(n uint32) {
	c.silent += c.beaconPeriod * time.Duration(n)
}

// AddTime accounts for d of wall-clock time without a beacon.
func (c *LostBssCounter) AddTime(d time.Duration) {
	if d > 0 {
		c.silent += d
	}
}

// Silent returns the accumulated time since the last beacon.
func (c *LostBssCounter) Silent() time.Duration {
	return c.silent
}

// ShouldDeauthenticate reports whether the BSS is considered lost.
func (c *LostBssCounter) ShouldDeauthenticate() bool {
	return c.silent >= c.threshold
}

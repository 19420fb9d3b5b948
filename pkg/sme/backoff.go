package sme

import (
	"math/rand"
	"sync"
	"time"
)

// Retry pacing defaults.
const (
	InitialBackoff    = 1 * time.Second
	MaxBackoff        = 60 * time.Second
	BackoffMultiplier = 2.0

	// JitterFactor is the largest extra delay as a fraction of the base.
	JitterFactor = 0.25
)

// BackoffConfig shapes the delays between connect attempts. Zero fields take
// the defaults; a negative Jitter disables jitter.
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

func (c BackoffConfig) withDefaults() BackoffConfig {
	if c.Initial <= 0 {
		c.Initial = InitialBackoff
	}
	if c.Max <= 0 {
		c.Max = MaxBackoff
	}
	c.Max = max(c.Max, c.Initial)
	if c.Multiplier <= 1 {
		c.Multiplier = BackoffMultiplier
	}
	switch {
	case c.Jitter == 0:
		c.Jitter = JitterFactor
	case c.Jitter < 0:
		c.Jitter = 0
	}
	return c
}

// Backoff paces connect attempts for one BSS. Every failed attempt counts
// toward limit; losing an established link only stretches the delay. A
// successful connect starts over.
type Backoff struct {
	mu       sync.Mutex
	cfg      BackoffConfig
	limit    int
	base     time.Duration
	failures int
	rng      *rand.Rand
}

// NewBackoff creates a pacer that gives up after limit consecutive
// failures. A limit of zero retries forever.
func NewBackoff(cfg BackoffConfig, limit int) *Backoff {
	cfg = cfg.withDefaults()
	return &Backoff{
		cfg:   cfg,
		limit: max(limit, 0),
		base:  cfg.Initial,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Failure records a failed attempt and returns the delay before the next
// one. ok is false once the failure limit is reached.
func (b *Backoff) Failure() (delay time.Duration, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures++
	if b.limit > 0 && b.failures >= b.limit {
		return 0, false
	}
	return b.advance(), true
}

// LinkLost returns the delay before reconnecting to a BSS the station was
// connected to. It does not count as a failure.
func (b *Backoff) LinkLost() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.advance()
}

// Success clears the failure run and the grown delay.
func (b *Backoff) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.base = b.cfg.Initial
	b.failures = 0
}

// Failures returns the consecutive failed attempts since the last success.
func (b *Backoff) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// advance returns the jittered current delay and grows the base.
func (b *Backoff) advance() time.Duration {
	d := b.base
	b.base = min(time.Duration(float64(b.base)*b.cfg.Multiplier), b.cfg.Max)
	if b.cfg.Jitter > 0 {
		d += time.Duration(float64(d) * b.cfg.Jitter * b.rng.Float64())
	}
	return d
}

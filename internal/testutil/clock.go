package testutil

import (
	"sync"

	"github.com/roach88/flicker/internal/trace"
)

// DeterministicClock hands out strictly increasing timestamps for building
// test traces.
//
// Every timestamp sets the elapsed and system-uptime clocks to the same
// reading, so entries of window and layer traces built from one clock are
// comparable with each other.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DeterministicClock struct {
	mu   sync.Mutex
	step int64
	now  int64
}

// NewDeterministicClock creates a clock advancing by step nanoseconds.
//
// The first call to Next() returns step. A non-positive step defaults to 100.
func NewDeterministicClock(step int64) *DeterministicClock {
	if step <= 0 {
		step = 100
	}
	return &DeterministicClock{step: step}
}

// Next advances the clock and returns the new timestamp.
func (c *DeterministicClock) Next() trace.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += c.step
	return At(c.now)
}

// Current returns the last timestamp handed out without advancing.
func (c *DeterministicClock) Current() trace.Timestamp {
	c.mu.Lock()
	defer c.mu.Unlock()
	return At(c.now)
}

// Reset rewinds the clock. After Reset(), the next call to Next() returns step.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = 0
}

// At returns a timestamp with the elapsed and system-uptime clocks set to ns.
func At(ns int64) trace.Timestamp {
	return trace.Timestamp{ElapsedNanos: ns, SystemUptimeNanos: ns}
}

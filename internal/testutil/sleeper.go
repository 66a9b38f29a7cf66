package testutil

import (
	"context"
	"sync"
	"time"
)

// FakeSleeper records requested sleeps without blocking.
//
// Thread-safety: FakeSleeper is safe for concurrent use.
type FakeSleeper struct {
	mu     sync.Mutex
	sleeps []time.Duration
}

// Sleep records d and returns immediately, or returns ctx.Err() when the
// context is already done.
func (s *FakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sleeps = append(s.sleeps, d)
	return nil
}

// Sleeps returns the recorded durations in call order.
func (s *FakeSleeper) Sleeps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.sleeps))
	copy(out, s.sleeps)
	return out
}

// Count returns the number of recorded sleeps.
func (s *FakeSleeper) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sleeps)
}

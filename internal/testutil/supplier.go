package testutil

import (
	"sync"

	"github.com/roach88/flicker/internal/trace"
)

// TraceSupplier replays device states one per call, repeating the last one
// once the sequence is exhausted.
//
// Thread-safety: TraceSupplier is safe for concurrent use.
type TraceSupplier struct {
	mu     sync.Mutex
	states []*trace.DeviceState
	calls  int
}

// NewTraceSupplier creates a supplier over states.
func NewTraceSupplier(states ...*trace.DeviceState) *TraceSupplier {
	return &TraceSupplier{states: states}
}

// NewWindowTraceSupplier pairs each window state of wm with an empty
// compositor snapshot at the same time.
func NewWindowTraceSupplier(wm *trace.WindowTrace) *TraceSupplier {
	states := make([]*trace.DeviceState, 0, wm.Len())
	for _, e := range wm.Entries() {
		states = append(states, &trace.DeviceState{
			WM:     e,
			Layers: &trace.LayersState{Timestamp: e.Timestamp},
		})
	}
	return NewTraceSupplier(states...)
}

// Supply returns the next state.
func (s *TraceSupplier) Supply() (*trace.DeviceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := min(s.calls, len(s.states)-1)
	s.calls++
	if i < 0 {
		return nil, trace.ErrNotFound
	}
	return s.states[i], nil
}

// Calls returns how many times Supply has been called.
func (s *TraceSupplier) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

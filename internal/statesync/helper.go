package statesync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/flicker/internal/trace"
)

// Default budget.
const (
	DefaultRetries  = 5
	DefaultInterval = 500 * time.Millisecond
)

// Supplier produces a fresh dump of the device.
type Supplier func() (*trace.DeviceState, error)

// Sleeper waits between polls.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// State is the lifecycle state of a wait.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateSatisfied
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StatePolling:
		return "POLLING"
	case StateSatisfied:
		return "SATISFIED"
	case StateExhausted:
		return "EXHAUSTED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PollResult is the outcome of a wait.
type PollResult struct {
	State    State
	Attempts int

	// Last is the most recent dump, whether or not it satisfied the
	// conditions.
	Last *trace.DeviceState

	// Unmet names the conditions that did not hold on Last.
	Unmet []string
}

// Satisfied reports whether every condition held on Last.
func (r PollResult) Satisfied() bool {
	return r.State == StateSatisfied
}

// Helper polls a supplier under a retry budget.
//
// Thread-safety: Helper is safe for concurrent use, but concurrent waits
// interleave their polls and each sees the other's dumps in Current.
type Helper struct {
	supply   Supplier
	retries  int
	interval time.Duration
	sleeper  Sleeper
	logger   *slog.Logger

	mu      sync.Mutex
	current *trace.DeviceState
}

// Option configures a Helper.
type Option func(*Helper)

// WithRetries sets the maximum number of polls per wait. Values below 1
// are raised to 1.
func WithRetries(n int) Option {
	return func(h *Helper) {
		h.retries = max(n, 1)
	}
}

// WithInterval sets the wait between polls.
func WithInterval(d time.Duration) Option {
	return func(h *Helper) {
		h.interval = d
	}
}

// WithSleeper replaces the real timer, e.g. with testutil.FakeSleeper.
func WithSleeper(s Sleeper) Option {
	return func(h *Helper) {
		if s != nil {
			h.sleeper = s
		}
	}
}

// WithLogger sets the helper's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Helper) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New creates a helper over supply.
func New(supply Supplier, opts ...Option) *Helper {
	h := &Helper{
		supply:   supply,
		retries:  DefaultRetries,
		interval: DefaultInterval,
		sleeper:  timerSleeper{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Current returns the most recently polled dump, nil before the first poll.
func (h *Helper) Current() *trace.DeviceState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Sync starts a builder of conditions waited on by this helper.
func (h *Helper) Sync() *Builder {
	return &Builder{helper: h}
}

// WaitFor polls until every condition holds on the same dump or the retry
// budget is spent. The returned error is non-nil only when the supplier
// fails or ctx is done between polls; exhaustion is reported in the result.
//
// No conditions are satisfied by the first dump.
func (h *Helper) WaitFor(ctx context.Context, conds ...Condition) (PollResult, error) {
	result := PollResult{State: StateIdle}

	for attempt := 1; attempt <= h.retries; attempt++ {
		if attempt > 1 {
			if err := h.sleeper.Sleep(ctx, h.interval); err != nil {
				return result, fmt.Errorf("wait interrupted after %d polls: %w", result.Attempts, err)
			}
		} else if err := ctx.Err(); err != nil {
			return result, err
		}

		result.State = StatePolling
		state, err := h.supply()
		if err != nil {
			return result, fmt.Errorf("poll %d: %w", attempt, err)
		}
		h.mu.Lock()
		h.current = state
		h.mu.Unlock()

		result.Attempts = attempt
		result.Last = state
		result.Unmet = unmet(conds, state)

		if len(result.Unmet) == 0 {
			result.State = StateSatisfied
			h.logger.Debug("wait conditions met", "attempt", attempt)
			return result, nil
		}
		h.logger.Debug("wait conditions unmet", "attempt", attempt, "unmet", result.Unmet)
	}

	result.State = StateExhausted
	h.logger.Info("wait conditions not met",
		"attempts", result.Attempts,
		"unmet", result.Unmet,
	)
	return result, nil
}

// WaitForAndVerify is WaitFor with exhaustion reported as *ExhaustedError.
func (h *Helper) WaitForAndVerify(ctx context.Context, conds ...Condition) error {
	result, err := h.WaitFor(ctx, conds...)
	if err != nil {
		return err
	}
	if !result.Satisfied() {
		return &ExhaustedError{Attempts: result.Attempts, Unmet: result.Unmet}
	}
	return nil
}

// unmet returns the names of the conditions not holding on state.
func unmet(conds []Condition, state *trace.DeviceState) []string {
	var out []string
	for _, c := range conds {
		if !c.Holds(state) {
			out = append(out, c.Name)
		}
	}
	return out
}

type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

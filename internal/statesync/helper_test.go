package statesync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/testutil"
	"github.com/roach88/flicker/internal/trace"
)

var app = trace.UnflattenComponent("com.example/.SimpleActivity")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openAppSupplier replays a cold launch: home, app starting (hidden), app
// shown.
func openAppSupplier(t *testing.T) *testutil.TraceSupplier {
	t.Helper()
	return testutil.NewWindowTraceSupplier(testutil.WindowTrace(t,
		testutil.WindowState(testutil.At(100), testutil.HomeWindow(1)),
		testutil.WindowState(testutil.At(200), testutil.HomeWindow(1), testutil.Hidden(testutil.AppWindow(app.ToWindowName(), 2))),
		testutil.WindowState(testutil.At(300), testutil.HomeWindow(1), testutil.AppWindow(app.ToWindowName(), 2)),
	))
}

func newHelper(s *testutil.TraceSupplier, sleeper *testutil.FakeSleeper, opts ...Option) *Helper {
	opts = append([]Option{
		WithSleeper(sleeper),
		WithInterval(10 * time.Millisecond),
		WithLogger(quietLogger()),
	}, opts...)
	return New(s.Supply, opts...)
}

func TestWaitFor_SatisfiedOnFirstPoll(t *testing.T) {
	supplier := openAppSupplier(t)
	sleeper := &testutil.FakeSleeper{}
	h := newHelper(supplier, sleeper, WithRetries(5))

	res, err := h.Sync().WithHomeActivityVisible().WaitFor(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Satisfied())
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, supplier.Calls())
	assert.Equal(t, 0, sleeper.Count())
	assert.Empty(t, res.Unmet)
}

func TestWaitFor_AlwaysFalseCallsSupplierExactlyN(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		supplier := openAppSupplier(t)
		sleeper := &testutil.FakeSleeper{}
		h := newHelper(supplier, sleeper, WithRetries(n))

		res, err := h.Sync().Add("never", func(*trace.DeviceState) bool { return false }).WaitFor(context.Background())
		require.NoError(t, err)

		assert.Equal(t, StateExhausted, res.State, "n=%d", n)
		assert.Equal(t, n, res.Attempts, "n=%d", n)
		assert.Equal(t, n, supplier.Calls(), "n=%d", n)
		assert.Equal(t, n-1, sleeper.Count(), "n=%d", n)
		assert.Equal(t, []string{"never"}, res.Unmet)
	}
}

func TestWaitFor_SleepsInterval(t *testing.T) {
	supplier := openAppSupplier(t)
	sleeper := &testutil.FakeSleeper{}
	h := newHelper(supplier, sleeper, WithRetries(5), WithInterval(250*time.Millisecond))

	res, err := h.Sync().WithWindowSurfaceAppeared(app).WaitFor(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Satisfied())
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, sleeper.Sleeps())
}

func TestWaitFor_CurrentIsLatestPoll(t *testing.T) {
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{}, WithRetries(2))
	assert.Nil(t, h.Current())

	res, err := h.Sync().WithWindowSurfaceAppeared(app).WaitFor(context.Background())
	require.NoError(t, err)

	assert.False(t, res.Satisfied())
	require.NotNil(t, h.Current())
	assert.Same(t, res.Last, h.Current())
	assert.Equal(t, testutil.At(200), h.Current().WM.Timestamp)
}

func TestWaitFor_ConditionsShareOneDump(t *testing.T) {
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{}, WithRetries(5))

	var seen []*trace.DeviceState
	record := func(s *trace.DeviceState) bool {
		seen = append(seen, s)
		return true
	}
	res, err := h.Sync().Add("a", record).Add("b", record).WaitFor(context.Background())
	require.NoError(t, err)

	assert.True(t, res.Satisfied())
	require.Len(t, seen, 2)
	assert.Same(t, seen[0], seen[1])
}

func TestWaitFor_NoConditions(t *testing.T) {
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{})

	res, err := h.WaitFor(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Satisfied())
	assert.Equal(t, 1, supplier.Calls())
}

func TestWaitFor_SupplierError(t *testing.T) {
	h := newHelper(testutil.NewTraceSupplier(), &testutil.FakeSleeper{})

	_, err := h.Sync().WithAppTransitionIdle().WaitFor(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, trace.ErrNotFound))
}

func TestWaitFor_CancelledBetweenPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{}, WithRetries(5))

	res, err := h.Sync().Add("cancel", func(*trace.DeviceState) bool {
		cancel()
		return false
	}).WaitFor(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, supplier.Calls())
}

func TestWithRetries_Minimum(t *testing.T) {
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{}, WithRetries(0))

	res, err := h.Sync().WithImeShown().WaitFor(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
}

func TestWaitForAndVerify_Exhausted(t *testing.T) {
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{}, WithRetries(2))

	err := h.Sync().WithWindowSurfaceAppeared(app).WithAppTransitionIdle().WaitForAndVerify(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 2, exhausted.Attempts)
	assert.Equal(t, []string{"windowSurfaceAppeared(com.example/com.example.SimpleActivity)"}, exhausted.Unmet)
}

func TestWaitForAndVerify_Satisfied(t *testing.T) {
	supplier := openAppSupplier(t)
	h := newHelper(supplier, &testutil.FakeSleeper{}, WithRetries(3))

	require.NoError(t, h.Sync().WithWindowSurfaceAppeared(app).WaitForAndVerify(context.Background()))
	assert.True(t, h.Current().WM.IsWindowVisible(app))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "EXHAUSTED", StateExhausted.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestDefaults(t *testing.T) {
	h := New(openAppSupplier(t).Supply)
	assert.Equal(t, DefaultRetries, h.retries)
	assert.Equal(t, DefaultInterval, h.interval)
}

func TestTimerSleeper_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := timerSleeper{}.Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}

package subject

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/geom"
	"github.com/roach88/flicker/internal/testutil"
	"github.com/roach88/flicker/internal/trace"
)

var (
	statusBarFrame = geom.NewRect(0, 0, 1080, 100)
	ts             = testutil.At(500)
)

func TestRegionSubject_PositionScenario(t *testing.T) {
	a := NewRegionSubject("a", geom.RegionFromRect(geom.NewRect(0, 0, 1, 1)), ts)
	b := geom.RegionFromRect(geom.NewRect(0, 1, 1, 2))

	assert.NoError(t, a.IsHigher(b))

	err := a.IsLower(b)
	require.Error(t, err)
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "a.isLower", f.Check)
	assert.Equal(t, geom.MsgErrorTopPosition, f.Message)
	assert.Equal(t, ts, f.Timestamp)

	var ce *geom.CheckError
	assert.True(t, errors.As(err, &ce), "geometry cause is preserved")
}

func TestRegionSubject_CoverageCarriesRegion(t *testing.T) {
	s := NewRegionSubject("r", geom.RegionFromRect(geom.NewRect(0, 0, 10, 5)), ts)
	err := s.CoversAtLeast(geom.RegionFromRect(geom.NewRect(0, 0, 10, 10)))

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.True(t, f.Region.Equal(geom.RegionFromRect(geom.NewRect(0, 5, 10, 10))))
	assert.Contains(t, f.Error(), "Uncovered region: Region((0,5,10,10))")
}

func TestRegionSubject_Emptiness(t *testing.T) {
	empty := NewRegionSubject("r", geom.EmptyRegion(), ts)
	assert.NoError(t, empty.IsEmpty())
	assert.Error(t, empty.IsNotEmpty())

	full := NewRegionSubject("r", geom.RegionFromRect(statusBarFrame), ts)
	assert.Error(t, full.IsEmpty())
	assert.NoError(t, full.IsNotEmpty())
}

func TestWindowStateSubject_Predicates(t *testing.T) {
	state := testutil.WindowState(ts,
		testutil.SystemWindow("StatusBar", statusBarFrame, 10),
		testutil.AppWindow(app.ToWindowName(), 5),
		testutil.HomeWindow(1),
		testutil.Hidden(testutil.AppWindow("com.hidden/.Activity", 20)),
	)
	s := NewWindowStateSubject(state)
	hidden := trace.UnflattenComponent("com.hidden/.Activity")
	missing := trace.UnflattenComponent("com.missing/.Activity")

	assert.NoError(t, s.ContainsWindow(app))
	assert.NoError(t, s.ContainsAppWindow(app))
	assert.Error(t, s.ContainsAppWindow(trace.StatusBar))
	assert.NoError(t, s.NotContains(missing))
	assert.Error(t, s.NotContains(app))

	assert.NoError(t, s.IsWindowVisible(app))
	assert.Error(t, s.IsWindowVisible(hidden))
	assert.Error(t, s.IsWindowVisible(missing))
	assert.NoError(t, s.IsWindowInvisible(hidden))
	assert.NoError(t, s.IsWindowInvisible(missing))

	assert.NoError(t, s.IsNonAppWindowVisible(trace.StatusBar))
	assert.Error(t, s.IsNonAppWindowVisible(app))

	assert.NoError(t, s.IsAppWindowOnTop(app))
	assert.Error(t, s.IsAppWindowNotOnTop(app))
	assert.NoError(t, s.IsAppWindowNotOnTop(trace.Launcher))

	assert.NoError(t, s.IsHomeActivityVisible())
	assert.Error(t, s.IsHomeActivityInvisible())
	assert.NoError(t, s.IsRecentsActivityInvisible())
	assert.Error(t, s.IsRecentsActivityVisible())

	assert.NoError(t, s.HasRotation(trace.Rotation0))
	assert.NoError(t, s.VisibleRegion(trace.StatusBar).CoversExactly(geom.RegionFromRect(statusBarFrame)))
}

func TestWindowStateSubject_FailureDetail(t *testing.T) {
	state := testutil.WindowState(ts, testutil.HomeWindow(1))
	err := NewWindowStateSubject(state).IsAppWindowOnTop(app)

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "isAppWindowOnTop(com.example/com.example.MainActivity)", f.Check)
	assert.Equal(t, app.String(), f.Expected)
	assert.Equal(t, trace.Launcher.ToWindowName(), f.Actual)
	assert.Equal(t, ts, f.Timestamp)

	err = NewWindowStateSubject(state).HasRotation(trace.Rotation90)
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "ROTATION_90", f.Expected)
	assert.Equal(t, "ROTATION_0", f.Actual)
}

func TestLayersStateSubject_Predicates(t *testing.T) {
	state := testutil.LayersState(ts,
		testutil.Layer("StatusBar#3", 10, statusBarFrame),
		testutil.Layer(app.ToLayerName()+"#12", 5, testutil.FullScreen),
		testutil.Layer("InputMethod#7", 20),
	)
	s := NewLayersStateSubject(state)

	assert.NoError(t, s.Contains(trace.IME))
	assert.Error(t, s.NotContains(trace.IME))
	assert.NoError(t, s.NotContains(trace.NavBar))
	assert.NoError(t, s.IsVisible(app))
	assert.Error(t, s.IsVisible(trace.IME))
	assert.Error(t, s.IsVisible(trace.NavBar))
	assert.NoError(t, s.IsInvisible(trace.IME))

	display, err := s.DisplayRegion()
	require.NoError(t, err)
	assert.NoError(t, s.VisibleRegion(nil).CoversExactly(display))
	assert.NoError(t, s.VisibleRegion(trace.StatusBar).CoversAtMost(display))
}

func TestLayersStateSubject_NoDisplay(t *testing.T) {
	_, err := NewLayersStateSubject(&trace.LayersState{Timestamp: ts}).DisplayRegion()
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "no physical display", f.Message)
}

func TestLayersTraceSubject_CoversAllDisplays(t *testing.T) {
	clock := testutil.NewDeterministicClock(100)
	lt := testutil.LayersTrace(t,
		testutil.LayersState(clock.Next(), testutil.Layer("Wallpaper#1", 0, testutil.FullScreen)),
		testutil.LayersState(clock.Next(), testutil.Layer("Wallpaper#1", 0, geom.NewRect(0, 0, 1080, 2000))),
	)

	err := NewLayersTraceSubject(lt).CoversAllDisplays().ForAllEntries()
	require.Error(t, err)

	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, int64(200), f.Timestamp.ElapsedNanos)
	assert.True(t, f.Region.Equal(geom.RegionFromRect(geom.NewRect(0, 2000, 1080, 2400))))
}

func TestLayersStateSubject_CoversAllDisplays(t *testing.T) {
	secondary := geom.NewRect(0, 0, 500, 500)

	tests := []struct {
		name     string
		displays []trace.Display
		wantMsg  string
	}{
		{"single covered display", []trace.Display{{ID: 0, LayerStackSpace: testutil.FullScreen}}, ""},
		{"uncovered second display", []trace.Display{
			{ID: 0, LayerStackSpace: testutil.FullScreen},
			{ID: 1, Name: "Overlay", LayerStackSpace: geom.NewRect(1080, 0, 1580, 500), IsVirtual: true},
		}, "display 1 (Overlay)"},
		{"covered second display", []trace.Display{
			{ID: 0, LayerStackSpace: testutil.FullScreen},
			{ID: 1, LayerStackSpace: secondary, IsVirtual: true},
		}, ""},
		{"no displays", nil, "No displays found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := testutil.LayersState(ts, testutil.Layer("Wallpaper#1", 0, testutil.FullScreen))
			state.Displays = tt.displays

			err := NewLayersStateSubject(state).CoversAllDisplays()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var f *Failure
			require.True(t, errors.As(err, &f))
			assert.Equal(t, "coversAllDisplays", f.Check)
			assert.Contains(t, f.Message, tt.wantMsg)
		})
	}
}

func TestWindowTraceSubject_RecentsOpens(t *testing.T) {
	recents := testutil.AppWindow("com.android.launcher/.RecentsActivity", 5)
	recents.ActivityType = trace.ActivityRecents

	clock := testutil.NewDeterministicClock(100)
	wm := testutil.WindowTrace(t,
		testutil.WindowState(clock.Next(), testutil.HomeWindow(3), testutil.Hidden(recents)),
		testutil.WindowState(clock.Next(), testutil.HomeWindow(3), recents),
	)

	err := NewWindowTraceSubject(wm).
		IsRecentsActivityInvisible().
		Then().
		IsRecentsActivityVisible().
		ForAllEntries()
	assert.NoError(t, err)

	err = NewWindowTraceSubject(wm).IsRecentsActivityVisible().ForAllEntries()
	var f *Failure
	require.True(t, errors.As(err, &f))
	assert.Equal(t, "isRecentsActivityVisible", f.Check)
	assert.Equal(t, int64(100), f.Timestamp.ElapsedNanos)
}

func TestTraceSubject_FirstLast(t *testing.T) {
	wm := onTopTrace(t, true, false)
	s := NewWindowTraceSubject(wm)

	first, err := s.First()
	require.NoError(t, err)
	assert.NoError(t, first.IsAppWindowOnTop(app))

	last, err := s.Last()
	require.NoError(t, err)
	assert.NoError(t, last.IsAppWindowNotOnTop(app))

	at, err := s.EntryAt(testutil.At(200))
	require.NoError(t, err)
	assert.Same(t, last.State(), at.State())

	_, err = NewWindowTraceSubject(testutil.WindowTrace(t)).First()
	assert.ErrorIs(t, err, trace.ErrNotFound)
	_, err = NewLayersTraceSubject(testutil.LayersTrace(t)).Last()
	assert.ErrorIs(t, err, trace.ErrNotFound)
}

package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/geom"
	"github.com/roach88/flicker/internal/trace"
)

// FullScreen is the display used by the builders.
var FullScreen = geom.NewRect(0, 0, 1080, 2400)

// AppWindow returns a visible, shown app window covering the full screen.
func AppWindow(name string, z int) trace.Window {
	return trace.Window{
		Name:         name,
		IsAppWindow:  true,
		ActivityType: trace.ActivityStandard,
		Visible:      true,
		SurfaceShown: true,
		Frame:        FullScreen,
		Z:            z,
	}
}

// HomeWindow returns a visible home activity window.
func HomeWindow(z int) trace.Window {
	w := AppWindow(trace.Launcher.ToWindowName(), z)
	w.ActivityType = trace.ActivityHome
	return w
}

// SystemWindow returns a visible non-app window with the given frame.
func SystemWindow(name string, frame geom.Rect, z int) trace.Window {
	return trace.Window{
		Name:         name,
		ActivityType: trace.ActivityStandard,
		Visible:      true,
		SurfaceShown: true,
		Frame:        frame,
		Z:            z,
	}
}

// Hidden returns a copy of w that is neither visible nor shown.
func Hidden(w trace.Window) trace.Window {
	w.Visible = false
	w.SurfaceShown = false
	return w
}

// WindowState returns an idle, unrotated window manager snapshot.
func WindowState(ts trace.Timestamp, windows ...trace.Window) *trace.WindowState {
	return &trace.WindowState{
		Timestamp:          ts,
		AppTransitionState: trace.AppTransitionIdle,
		Windows:            windows,
	}
}

// Layer returns a layer whose visibility follows its region: layers with
// no rectangles are invisible.
func Layer(name string, z int, rects ...geom.Rect) trace.Layer {
	region := geom.NewRegion(rects...)
	return trace.Layer{
		Name:          name,
		Z:             z,
		Visible:       !region.IsEmpty(),
		Bounds:        region.Bounds(),
		VisibleRegion: region,
	}
}

// LayersState returns a compositor snapshot on the FullScreen display.
func LayersState(ts trace.Timestamp, layers ...trace.Layer) *trace.LayersState {
	return &trace.LayersState{
		Timestamp: ts,
		Displays:  []trace.Display{{ID: 0, Name: "Built-in Screen", LayerStackSpace: FullScreen}},
		Layers:    layers,
	}
}

// WindowTrace builds a trace, failing the test on ordering errors.
func WindowTrace(t testing.TB, states ...*trace.WindowState) *trace.WindowTrace {
	t.Helper()
	tr, err := trace.NewTrace(states)
	require.NoError(t, err)
	return tr
}

// LayersTrace builds a trace, failing the test on ordering errors.
func LayersTrace(t testing.TB, states ...*trace.LayersState) *trace.LayersTrace {
	t.Helper()
	tr, err := trace.NewTrace(states)
	require.NoError(t, err)
	return tr
}

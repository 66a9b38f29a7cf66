package trace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/geom"
)

const openAppFixture = `
artifact: runs/open_app.winscope
window_trace:
  - timestamp: { elapsed_nanos: 100 }
    app_transition_state: APP_STATE_IDLE
    windows:
      - name: com.google.android.apps.nexuslauncher/.NexusLauncherActivity
        app_window: true
        activity_type: home
        visible: true
        frame: { left: 0, top: 0, right: 1080, bottom: 2400 }
  - timestamp: { elapsed_nanos: 200 }
    windows:
      - name: com.example/.MainActivity
        app_window: true
        visible: true
        surface_shown: false
        frame: { left: 0, top: 0, right: 1080, bottom: 2400 }
        z: 3
layers_trace:
  - timestamp: { system_uptime_nanos: 100 }
    displays:
      - { id: 0, layer_stack_space: { left: 0, top: 0, right: 1080, bottom: 2400 } }
    layers:
      - name: com.example/.MainActivity#12
        visible: true
        visible_region:
          - { left: 0, top: 0, right: 1080, bottom: 1200 }
          - { left: 0, top: 1200, right: 1080, bottom: 2400 }
scenarios:
  - type: LAUNCHER_APP_LAUNCH_FROM_ICON
    start: { elapsed_nanos: 100, system_uptime_nanos: 100 }
    end: { elapsed_nanos: 200, system_uptime_nanos: 200 }
    components: { OPENING_APP: com.example/.MainActivity }
`

func TestParseFixture(t *testing.T) {
	fx, err := ParseFixture([]byte(openAppFixture))
	require.NoError(t, err)

	assert.Equal(t, "runs/open_app.winscope", fx.Reader.ArtifactPath())

	wm, err := fx.Reader.ReadWindowTrace()
	require.NoError(t, err)
	require.Equal(t, 2, wm.Len())

	launcher := wm.At(0).Windows[0]
	assert.Equal(t, ActivityHome, launcher.ActivityType)
	assert.True(t, launcher.SurfaceShown, "surface_shown defaults to visible")
	assert.True(t, wm.At(0).IsAppTransitionIdle())

	app := wm.At(1).Windows[0]
	assert.Equal(t, ActivityStandard, app.ActivityType)
	assert.False(t, app.SurfaceShown)

	layers, err := fx.Reader.ReadLayersTrace()
	require.NoError(t, err)
	require.Equal(t, 1, layers.Len())
	region := layers.At(0).Layers[0].VisibleRegion
	assert.True(t, region.Equal(geom.RegionFromRect(geom.NewRect(0, 0, 1080, 2400))))

	require.Len(t, fx.Scenarios, 1)
	assert.Equal(t, "LAUNCHER_APP_LAUNCH_FROM_ICON", fx.Scenarios[0].Type)
	assert.Equal(t, "com.example/.MainActivity", fx.Scenarios[0].Components["OPENING_APP"])
}

func TestParseFixture_RejectsUnknownFields(t *testing.T) {
	_, err := ParseFixture([]byte("artifact: x\nwindow_trace:\n  - timestamp: { elapsed_nanos: 1 }\n    colour: red\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestParseFixture_RejectsUnorderedTrace(t *testing.T) {
	doc := `
window_trace:
  - timestamp: { elapsed_nanos: 200 }
  - timestamp: { elapsed_nanos: 100 }
`
	_, err := ParseFixture([]byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnorderedTrace))
}

func TestParseFixture_RejectsInvertedRects(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantPos string
	}{
		{
			name: "window frame",
			doc: `
window_trace:
  - timestamp: { elapsed_nanos: 100 }
    windows:
      - { name: a, frame: { left: 0, top: 0, right: 10, bottom: 10 } }
      - { name: b, frame: { left: 20, top: 0, right: 10, bottom: 10 } }
`,
			wantPos: "window_trace[0]: windows[1].frame",
		},
		{
			name: "display space",
			doc: `
layers_trace:
  - timestamp: { system_uptime_nanos: 100 }
    displays:
      - { id: 0, layer_stack_space: { left: 0, top: 2400, right: 1080, bottom: 0 } }
`,
			wantPos: "layers_trace[0]: displays[0].layer_stack_space",
		},
		{
			name: "layer bounds",
			doc: `
layers_trace:
  - timestamp: { system_uptime_nanos: 100 }
  - timestamp: { system_uptime_nanos: 200 }
    layers:
      - { name: a, bounds: { left: 5, top: 0, right: 1, bottom: 1 } }
`,
			wantPos: "layers_trace[1]: layers[0].bounds",
		},
		{
			name: "visible region",
			doc: `
layers_trace:
  - timestamp: { system_uptime_nanos: 100 }
    layers:
      - name: a
        visible_region:
          - { left: 0, top: 0, right: 10, bottom: 10 }
          - { left: 0, top: 30, right: 10, bottom: 20 }
`,
			wantPos: "layers_trace[0]: layers[0].visible_region[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvertedRect)
			assert.Contains(t, err.Error(), tt.wantPos)
		})
	}
}

func TestParseFixture_AcceptsEmptyRects(t *testing.T) {
	doc := `
window_trace:
  - timestamp: { elapsed_nanos: 100 }
    windows:
      - { name: a, frame: { left: 10, top: 10, right: 10, bottom: 10 } }
`
	_, err := ParseFixture([]byte(doc))
	assert.NoError(t, err)
}

func TestParseFixture_RequiresScenarioType(t *testing.T) {
	_, err := ParseFixture([]byte("scenarios:\n  - start: { elapsed_nanos: 1 }\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type is required")
}

func TestParseFixture_MissingTraces(t *testing.T) {
	fx, err := ParseFixture([]byte("artifact: empty.winscope\n"))
	require.NoError(t, err)

	_, err = fx.Reader.ReadWindowTrace()
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = fx.Reader.ReadLayersTrace()
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(openAppFixture), 0o644))

	fx, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Len(t, fx.Scenarios, 1)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

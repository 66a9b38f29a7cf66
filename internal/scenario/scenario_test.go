package scenario

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/testutil"
	"github.com/roach88/flicker/internal/trace"
)

func TestStaticDetector_SlicesReader(t *testing.T) {
	clock := testutil.NewDeterministicClock(100)
	wm := testutil.WindowTrace(t,
		testutil.WindowState(clock.Next()),
		testutil.WindowState(clock.Next()),
		testutil.WindowState(clock.Next()),
	)
	reader := trace.NewParsedReader("run.winscope", wm, nil)

	d := NewStaticDetector([]trace.ScenarioSpec{
		{
			Type:        string(Rotation),
			EndRotation: trace.Rotation90,
			Start:       testutil.At(200),
			End:         testutil.At(300),
		},
		{
			Type:       string(LauncherAppLaunchFromIcon),
			Components: map[string]string{"OPENING_APP": "com.example/.Main"},
		},
	})

	instances, err := d.Detect(context.Background(), reader)
	require.NoError(t, err)
	require.Len(t, instances, 2)

	rot := instances[0]
	assert.Equal(t, Rotation, rot.Type)
	assert.Equal(t, trace.Rotation90, rot.EndRotation)
	sliced, err := rot.Reader.ReadWindowTrace()
	require.NoError(t, err)
	assert.Equal(t, 2, sliced.Len())

	launch := instances[1]
	assert.Equal(t, trace.Min(), launch.Start)
	assert.Equal(t, trace.Max(), launch.End)
	full, err := launch.Reader.ReadWindowTrace()
	require.NoError(t, err)
	assert.Equal(t, 3, full.Len())

	c, ok := launch.Component(OpeningApp)
	require.True(t, ok)
	assert.Equal(t, "com.example.Main", c.Class)
	_, ok = launch.Component(ClosingApp)
	assert.False(t, ok)
}

func TestStaticDetector_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewStaticDetector([]trace.ScenarioSpec{{Type: "ROTATION"}})
	_, err := d.Detect(ctx, trace.NewParsedReader("", nil, nil))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstance_Description(t *testing.T) {
	inst := &Instance{
		Type:          Rotation,
		StartRotation: trace.Rotation0,
		EndRotation:   trace.Rotation90,
	}
	assert.Equal(t, "ROTATION (ROTATION_0 -> ROTATION_90)", inst.Description())

	inst.Components = map[Role]trace.ComponentName{
		OpeningApp: trace.UnflattenComponent("b/.B"),
		ClosingApp: trace.UnflattenComponent("a/.A"),
	}
	assert.Equal(t, "ROTATION (ROTATION_0 -> ROTATION_90) [CLOSING_APP=a/a.A, OPENING_APP=b/b.B]", inst.Description())
}

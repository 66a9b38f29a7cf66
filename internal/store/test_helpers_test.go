package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/assertion"
	"github.com/roach88/flicker/internal/collector"
	"github.com/roach88/flicker/internal/scenario"
	"github.com/roach88/flicker/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with one passing and one failing result.
func createTestRun(id string) *collector.Run {
	return &collector.Run{
		ID:           id,
		Test:         "com.example.LaunchTest#launch",
		ArtifactPath: "runs/" + id + ".winscope",
		Results: []assertion.Result{
			{
				Name:      "LAUNCHER_APP_LAUNCH_FROM_ICON::windowMovesToTop(OPENING_APP)",
				Scenario:  scenario.LauncherAppLaunchFromIcon,
				Stability: assertion.Blocking,
				Passed:    true,
			},
			{
				Name:      "LAUNCHER_APP_LAUNCH_FROM_ICON::navBarLayerIsVisibleAtStartAndEnd",
				Scenario:  scenario.LauncherAppLaunchFromIcon,
				Stability: assertion.Flaky,
				Errors: []assertion.ResultError{
					{Message: "isVisible(NavigationBar0) failed: <b>not visible</b>", Timestamp: testutil.At(300)},
				},
			},
		},
	}
}

package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/flicker/internal/store"
)

func executeCheck(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCheckCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCheckCommand_MissingArgs(t *testing.T) {
	_, err := executeCheck(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestCheckCommand_FixtureNotFound(t *testing.T) {
	_, err := executeCheck(t, "text", "testdata/missing.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheckCommand_FlakyFailureExitsZero(t *testing.T) {
	out, err := executeCheck(t, "text", filepath.Join("testdata", "launch.yaml"))
	require.NoError(t, err)

	assert.Contains(t, out, "Scenario LAUNCHER_APP_LAUNCH_FROM_ICON")
	assert.Contains(t, out, "✓ LAUNCHER_APP_LAUNCH_FROM_ICON::windowMovesToTop(OPENING_APP) [BLOCKING]")
	assert.Contains(t, out, "✗ LAUNCHER_APP_LAUNCH_FROM_ICON::navBarLayerIsVisibleAtStartAndEnd [FLAKY]")
	assert.Contains(t, out, "5 passed, 1 failed (0 blocking)")
}

func TestCheckCommand_JSON(t *testing.T) {
	out, err := executeCheck(t, "json", filepath.Join("testdata", "launch.yaml"), "--test", "LaunchTest")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		RunID  string      `json:"run_id"`
		Data   CheckResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "LaunchTest", resp.Data.Test)
	assert.Equal(t, 5, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	assert.Equal(t, "6", resp.Data.Metrics["flicker_assertions_count"])
	assert.Equal(t, "0", resp.Data.Metrics["FAAS_STATUS"])
	assert.Equal(t, "runs/launch.winscope", resp.Data.Metrics["winscope_file_path"])
}

func TestCheckCommand_BlockingFailureExitsOne(t *testing.T) {
	_, err := executeCheck(t, "text",
		filepath.Join("testdata", "launch.yaml"),
		"--config", filepath.Join("testdata", "blocking_navbar.cue"),
	)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 blocking assertions failed")
}

func TestCheckCommand_InvalidConfig(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.cue")
	writeFile(t, bad, `scenarios: [{type: "ROTATION", assertions: [{name: "noSuchTemplate"}]}]`)

	_, err := executeCheck(t, "text", filepath.Join("testdata", "launch.yaml"), "--config", bad)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheckCommand_SkipsFailedTest(t *testing.T) {
	out, err := executeCheck(t, "text", filepath.Join("testdata", "launch.yaml"), "--test-failed", "--only-passing")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped launch: test failed")
}

func TestCheckCommand_RecordsToDatabase(t *testing.T) {
	db := filepath.Join(t.TempDir(), "flicker.db")

	out, err := executeCheck(t, "json", filepath.Join("testdata", "launch.yaml"), "--db", db)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.Runs(t.Context())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, resp.RunID, runs[0].ID)
	assert.True(t, runs[0].Failed)

	metrics, err := st.Metrics(t.Context(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, "0", metrics["FAAS_STATUS"])
	assert.Equal(t, "6", metrics["flicker_assertions_count"])
}

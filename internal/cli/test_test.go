package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenariosDir = "../harness/testdata/scenarios"
const goldenDir = "../harness/testdata/golden"

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyScenariosDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestTestCommandRunsSuite(t *testing.T) {
	out, err := execute(t, "test", scenariosDir, "--golden-dir", goldenDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ cross_group_gesture")
	assert.Contains(t, out, "Test Summary: 8 passed, 0 failed, 8 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommandJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "test", scenariosDir, "--golden-dir", goldenDir, "--filter", "drag_*")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, 1.0, data["total"])
	assert.Equal(t, 1.0, data["passed"])
}

func TestTestCommandUpdateAndFail(t *testing.T) {
	golden := filepath.Join(t.TempDir(), "golden")

	out, err := execute(t, "test", scenariosDir, "--golden-dir", golden, "--filter", "edit_*", "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ edit_rule (golden updated)")

	require.NoError(t, os.WriteFile(filepath.Join(golden, "edit_rule.golden"), []byte("{}"), 0o644))
	out, err = execute(t, "test", scenariosDir, "--golden-dir", golden, "--filter", "edit_*")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ edit_rule")
	assert.Contains(t, out, "does not match golden file")
}

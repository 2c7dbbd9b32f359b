package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenariosFilter(t *testing.T) {
	all, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Len(t, all, 8)

	some, err := FindScenarios("testdata/scenarios", "drag_*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("testdata", "scenarios", "drag_subtree_too_tall.yaml")}, some)

	_, err = FindScenarios("testdata/scenarios", "[")
	assert.Error(t, err)
}

func TestRunSuiteAgainstGoldens(t *testing.T) {
	result, err := RunSuite("testdata/scenarios", SuiteOptions{GoldenDir: "testdata/golden"})
	require.NoError(t, err)

	assert.Equal(t, 8, result.Total)
	assert.Equal(t, 8, result.Passed)
	assert.Zero(t, result.Failed)
	for _, sr := range result.Scenarios {
		assert.Equal(t, "match", sr.Golden, sr.Name)
	}
}

func TestRunSuiteUpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	golden := filepath.Join(dir, "golden")

	result, err := RunSuite("testdata/scenarios", SuiteOptions{Filter: "edit_*", GoldenDir: golden, Update: true})
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
	assert.Equal(t, "updated", result.Scenarios[0].Golden)
	assert.Equal(t, 3, result.Scenarios[0].Emitted)

	result, err = RunSuite("testdata/scenarios", SuiteOptions{Filter: "edit_*", GoldenDir: golden})
	require.NoError(t, err)
	assert.Equal(t, "match", result.Scenarios[0].Golden)

	require.NoError(t, os.WriteFile(GoldenPath(golden, "edit_rule"), []byte("{}"), 0o644))
	result, err = RunSuite("testdata/scenarios", SuiteOptions{Filter: "edit_*", GoldenDir: golden})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, "mismatch", result.Scenarios[0].Golden)
}

func TestRunSuiteMissingGoldenAndBadScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(`
name: ok
description: no golden file
flow:
  - render: true
assertions:
  - type: emit_count
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("name: [\n"), 0o644))

	result, err := RunSuite(dir, SuiteOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)

	byName := map[string]ScenarioResult{}
	for _, sr := range result.Scenarios {
		byName[sr.Name] = sr
	}
	assert.Equal(t, "missing", byName["ok"].Golden)
	assert.True(t, byName["ok"].Pass)
	assert.Contains(t, byName["broken.yml"].Errors[0], "failed to load scenario")

	_, err = RunSuite(filepath.Join(dir, "absent"), SuiteOptions{})
	assert.Error(t, err)
}

package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldenTraces(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)
			require.Equal(t, name, s.Name, "scenario name must match its file")

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshotIsDeterministic(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/edit_rule.yaml")
	require.NoError(t, err)

	r1, err := Run(s)
	require.NoError(t, err)
	r2, err := Run(s)
	require.NoError(t, err)

	a, err := Snapshot(s.Name, r1)
	require.NoError(t, err)
	b, err := Snapshot(s.Name, r2)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.True(t, strings.HasPrefix(string(a), `{"scenario_name":"edit_rule","trace":[`))
}

func TestWriteAndCompareGolden(t *testing.T) {
	path := GoldenPath(filepath.Join(t.TempDir(), "nested"), "x")
	_, err := CompareGolden(path, []byte("data"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, WriteGolden(path, []byte("data")))
	match, err := CompareGolden(path, []byte("data"))
	require.NoError(t, err)
	assert.True(t, match)

	match, err = CompareGolden(path, []byte("other"))
	require.NoError(t, err)
	assert.False(t, match)
}

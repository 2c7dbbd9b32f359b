package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querybuilder/internal/testutil"
	"github.com/roach88/querybuilder/internal/tree"
)

func TestApplyBatch(t *testing.T) {
	start := tree.RuleSet{Comparator: tree.And, Children: []tree.Node{}}
	res := Apply(testutil.SampleConfig(), start, []Action{
		{Type: ActionNewGroup, Path: "/"},
		{Type: ActionChangeOperator, Path: "/0", Operator: tree.Or},
		{Type: ActionDelete, Path: "/7"},
		{Type: "explode", Path: "/"},
		{Type: ActionDelete, Path: "/0"},
	}, WithLogger(quiet))

	require.Len(t, res.Outcomes, 5)
	assert.Equal(t, Outcome{Type: ActionNewGroup, Accepted: true, Emitted: 1}, res.Outcomes[0])
	assert.Equal(t, Outcome{Type: ActionChangeOperator, Accepted: true, Emitted: 1}, res.Outcomes[1])
	assert.Equal(t, Outcome{Type: ActionDelete, Error: string(ErrCodeInvalidPath)}, res.Outcomes[2])
	assert.Equal(t, Outcome{Type: "explode", Error: string(ErrCodeInvalidAction)}, res.Outcomes[3])
	assert.Equal(t, Outcome{Type: ActionDelete, Accepted: true, Emitted: 1}, res.Outcomes[4])

	require.Len(t, res.Emissions, 3)
	assert.True(t, tree.Equal(start, res.Value))
	assert.True(t, tree.Equal(res.Emissions[2], res.Value))
}

func TestApplyEmptyBatch(t *testing.T) {
	res := Apply(testutil.SampleConfig(), nil, nil, WithLogger(quiet))
	assert.Nil(t, res.Value)
	assert.Empty(t, res.Emissions)
	assert.Empty(t, res.Outcomes)
}

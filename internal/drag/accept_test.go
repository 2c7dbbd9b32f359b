package drag_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/drag"
	"github.com/roach88/querybuilder/internal/testutil"
	"github.com/roach88/querybuilder/internal/tree"
)

func TestCanAccept(t *testing.T) {
	rule := tree.Rule{Column: "num", Value: 1}
	flat := tree.RuleSet{Comparator: tree.And}
	twoDeep := testutil.Chain(2)

	tests := []struct {
		name        string
		dragged     tree.Node
		targetDepth int
		maxDepth    *int
		want        bool
	}{
		{"unlimited", twoDeep, 100, nil, true},
		{"rule anywhere", rule, 100, config.Depth(1), true},
		{"flat set at the limit", flat, 4, config.Depth(4), true},
		{"flat set past the limit", flat, 5, config.Depth(4), false},
		{"deep set fits exactly", twoDeep, 2, config.Depth(4), true},
		{"deep set too deep", twoDeep, 3, config.Depth(4), false},
		{"nil node", nil, 0, config.Depth(4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, drag.CanAccept(tt.dragged, tt.targetDepth, tt.maxDepth))
		})
	}
}

// A set carrying two levels below it, dropped onto a group at maxDepth-1,
// is refused.
func TestCanAcceptRejectsDeepSubtreeNearLimit(t *testing.T) {
	maxDepth := 4
	dragged := testutil.Chain(2)
	targetGroupDepth := maxDepth - 1

	assert.False(t, drag.CanAccept(dragged, targetGroupDepth+1, &maxDepth))
}

func TestPropertyCanAcceptKeepsMaxDepth(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("an accepted drop never creates a set deeper than maxDepth", prop.ForAll(
		func(seed int64, groupDepth, maxDepth int) bool {
			dragged := testutil.RandomTree(seed, 4)
			if !drag.CanAccept(dragged, groupDepth+1, &maxDepth) {
				return true
			}
			return groupDepth+1+tree.Depth(dragged) <= maxDepth
		},
		gen.Int64(),
		gen.IntRange(0, 6),
		gen.IntRange(0, 6),
	))

	properties.Property("CanAccept is pure", prop.ForAll(
		func(seed int64, d int) bool {
			dragged := testutil.RandomTree(seed, 4)
			m := 3
			first := drag.CanAccept(dragged, d, &m)
			return first == drag.CanAccept(dragged, d, &m) &&
				tree.Equal(dragged, testutil.RandomTree(seed, 4)) && m == 3
		},
		gen.Int64(),
		gen.IntRange(0, 6),
	))

	properties.TestingRun(t)
}

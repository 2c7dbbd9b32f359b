package testutil

import (
	"fmt"
	"math/rand"

	"github.com/roach88/querybuilder/internal/tree"
)

// Columns used by RandomTree. They match the columns of SampleConfig.
var Columns = []string{"num", "name", "created_at"}

// RandomTree builds a pseudo-random RuleSet from seed whose Height is at
// most maxHeight. The same seed always yields the same tree, which is what
// gopter needs to shrink and replay failures.
func RandomTree(seed int64, maxHeight int) tree.RuleSet {
	r := rand.New(rand.NewSource(seed))
	return randomSet(r, maxHeight)
}

func randomSet(r *rand.Rand, room int) tree.RuleSet {
	comparator := tree.And
	if r.Intn(2) == 1 {
		comparator = tree.Or
	}
	n := r.Intn(5)
	children := make([]tree.Node, 0, n)
	for i := 0; i < n; i++ {
		if room > 0 && r.Intn(3) == 0 {
			children = append(children, randomSet(r, room-1))
			continue
		}
		children = append(children, randomRule(r))
	}
	return tree.RuleSet{Comparator: comparator, Children: children}
}

func randomRule(r *rand.Rand) tree.Rule {
	rule := tree.Rule{Column: Columns[r.Intn(len(Columns))]}
	if r.Intn(2) == 0 {
		rule.Condition = tree.Conditions[r.Intn(len(tree.Conditions))]
	}
	switch r.Intn(4) {
	case 0:
		rule.Value = nil
	case 1:
		rule.Value = float64(r.Intn(100))
	case 2:
		rule.Value = fmt.Sprintf("v%d", r.Intn(10))
	default:
		rule.Value = []any{float64(r.Intn(5)), "x"}
	}
	return rule
}

// Chain returns a RuleSet nested height levels deep: each level holds one
// rule and, except the innermost, one RuleSet child.
func Chain(height int) tree.RuleSet {
	rs := tree.RuleSet{
		Comparator: tree.And,
		Children:   []tree.Node{tree.Rule{Column: "num", Value: float64(height)}},
	}
	for i := height - 1; i >= 0; i-- {
		rs = tree.RuleSet{
			Comparator: tree.And,
			Children:   []tree.Node{tree.Rule{Column: "num", Value: float64(i)}, rs},
		}
	}
	return rs
}

package testutil

import (
	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

// SampleConfig is a small configuration covering every column kind:
// a literal default with conditions, a factory default, and no default.
func SampleConfig() config.Config {
	return config.Config{
		Operators: []config.OperatorDefinition{
			{Identifier: tree.And, Name: "and"},
			{Identifier: tree.Or, Name: "or"},
		},
		Rules: []config.RuleDefinition{
			{
				Column:       "num",
				Conditions:   []tree.Condition{tree.Equals, tree.GreaterThan, tree.LessThan},
				Component:    "number",
				InitialValue: config.Literal{Value: 10},
			},
			{
				Column:       "name",
				Component:    "text",
				InitialValue: config.Factory(func() any { return []any{} }),
			},
			{
				Column:    "created_at",
				Component: map[string]any{"kind": "date"},
			},
		},
		Colors: []string{"hsl(88, 50%, 55%)", "hsl(187, 100%, 45%)", "hsl(15, 100%, 55%)"},
		Dragging: map[string]any{
			"animation":  300,
			"ghostClass": "ghost",
		},
	}
}

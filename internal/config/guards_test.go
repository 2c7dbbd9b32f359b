package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type editor struct{ Name string }

func TestIsOperatorDefinition(t *testing.T) {
	assert.True(t, IsOperatorDefinition(map[string]any{"identifier": "foo", "name": "foo"}))
	assert.True(t, IsOperatorDefinition(OperatorDefinition{Identifier: "AND", Name: "and"}))

	for _, in := range []any{
		map[string]any{"name": "bar"},
		map[string]any{"identifier": "bar"},
		map[string]any{},
		[]any{},
		nil,
	} {
		assert.False(t, IsOperatorDefinition(in), "%#v", in)
	}
}

func TestIsRuleDefinition(t *testing.T) {
	valid := []any{
		map[string]any{"column": "foo", "component": "foo", "initialValue": "asdf"},
		map[string]any{"column": "bar", "component": func() {}},
		map[string]any{"column": "baz", "component": map[string]any{"name": "Editor"}},
		map[string]any{"column": "baz", "component": &editor{}},
		map[string]any{"column": "baz", "component": editor{}, "conditions": []any{"EQUALS"}},
		RuleDefinition{Column: "typed", Component: "text"},
	}
	for _, in := range valid {
		assert.True(t, IsRuleDefinition(in), "%#v", in)
	}

	invalid := []any{
		map[string]any{},
		nil,
		[]any{},
		map[string]any{"component": "x"},
		map[string]any{"column": "baz"},
		map[string]any{"column": "baz", "component": 1234},
		map[string]any{"column": "baz", "component": nil},
		map[string]any{"column": "baz", "component": (*editor)(nil)},
		map[string]any{"column": "baz", "component": "x", "conditions": "EQUALS"},
		RuleDefinition{Column: "typed"},
	}
	for _, in := range invalid {
		assert.False(t, IsRuleDefinition(in), "%#v", in)
	}
}

func TestIsQueryBuilderConfig(t *testing.T) {
	valid := []any{
		map[string]any{
			"operators": []any{map[string]any{"identifier": "foo", "name": "foo"}},
			"rules": []any{
				map[string]any{"column": "foo", "component": "foo"},
				map[string]any{"column": "bar", "component": func() {}},
			},
		},
		map[string]any{"operators": []any{}, "rules": []any{}, "colors": []any{"foo", "bar"}},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": nil},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": 10},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": 10.0},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": 0},
		Config{},
		&Config{MaxDepth: Depth(2)},
	}
	for _, in := range valid {
		assert.True(t, IsQueryBuilderConfig(in), "%#v", in)
	}

	invalid := []any{
		nil,
		map[string]any{"operators": []any{map[string]any{"column": "foo"}}, "rules": []any{}},
		map[string]any{"operators": []any{}, "rules": []any{map[string]any{"column": "foo", "component": 123}}},
		map[string]any{"operators": []any{}, "rules": []any{}, "colors": []any{123}},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": -1},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": "asdf"},
		map[string]any{"operators": []any{}, "rules": []any{}, "maxDepth": 2.5},
		map[string]any{"rules": []any{}},
		map[string]any{"operators": []any{}},
		Config{MaxDepth: Depth(-1)},
		(*Config)(nil),
	}
	for _, in := range invalid {
		assert.False(t, IsQueryBuilderConfig(in), "%#v", in)
	}
}

func TestValidateListsEveryField(t *testing.T) {
	err := Validate(map[string]any{
		"operators": []any{map[string]any{"identifier": 1}},
		"rules":     []any{map[string]any{"column": "x", "component": 5}},
		"maxDepth":  -2,
	})
	require.Error(t, err)

	errs := ValidationErrors(err)
	var keys []string
	for _, e := range errs {
		var verr *ValidationError
		require.ErrorAs(t, e, &verr)
		keys = append(keys, verr.Key)
	}
	assert.Equal(t, []string{
		"operators.0.identifier",
		"operators.0.name",
		"rules.0.component",
		"maxDepth",
	}, keys)
	assert.Contains(t, err.Error(), "4 validation errors")
}

func TestValidateTree(t *testing.T) {
	assert.NoError(t, ValidateTree(map[string]any{"comparator": "AND", "children": []any{}}))
	err := ValidateTree(map[string]any{"comparator": "AND"})
	require.Error(t, err)
	assert.Len(t, ValidationErrors(err), 1)
}

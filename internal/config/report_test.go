package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport(t *testing.T) {
	r := NewReport()
	assert.True(t, r.Valid())

	r.CheckConfig(map[string]any{"operators": []any{}, "rules": []any{}})
	r.CheckValue(map[string]any{"comparator": "AND", "children": []any{}})
	assert.True(t, r.Valid())
	assert.Equal(t, "ruleset", r.Kind)
	assert.Empty(t, r.Errors)
}

func TestReportValueKinds(t *testing.T) {
	cases := []struct {
		raw   any
		kind  string
		valid bool
	}{
		{nil, "null", true},
		{map[string]any{"column": "x", "value": 1}, "rule", false},
		{map[string]any{"comparator": "AND"}, "invalid", false},
		{"nope", "invalid", false},
	}
	for _, tc := range cases {
		r := NewReport()
		r.CheckValue(tc.raw)
		assert.Equal(t, tc.kind, r.Kind, "%#v", tc.raw)
		assert.Equal(t, tc.valid, r.Valid(), "%#v", tc.raw)
		assert.Equal(t, !tc.valid, len(r.Errors) > 0, "%#v", tc.raw)
		assert.Nil(t, r.ConfigValid)
	}
}

func TestReportConfigErrors(t *testing.T) {
	r := NewReport()
	r.CheckConfig(map[string]any{
		"operators": []any{map[string]any{"identifier": 1}},
		"rules":     []any{},
	})
	assert.False(t, r.Valid())
	assert.False(t, *r.ConfigValid)
	assert.Len(t, r.Errors, 2)
	assert.Contains(t, r.Errors[0], `config: field "operators.0.identifier"`)
}

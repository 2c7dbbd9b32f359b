package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{"rule", map[string]any{"column": "num", "value": 1.0}, KindRule},
		{"rule with nil value", map[string]any{"column": "num", "value": nil}, KindRule},
		{"rule with condition", map[string]any{"column": "num", "condition": "EQUALS", "value": "x"}, KindRule},
		{"rule missing value key", map[string]any{"column": "num"}, KindInvalid},
		{"rule non-string column", map[string]any{"column": 3, "value": 1}, KindInvalid},
		{"empty set", map[string]any{"comparator": "AND", "children": []any{}}, KindRuleSet},
		{"set with rule", map[string]any{
			"comparator": "OR",
			"children":   []any{map[string]any{"column": "num", "value": 1}},
		}, KindRuleSet},
		{"set with invalid child", map[string]any{
			"comparator": "OR",
			"children":   []any{map[string]any{"column": "num"}},
		}, KindInvalid},
		{"set with null children", map[string]any{"comparator": "AND", "children": nil}, KindInvalid},
		{"set with object children", map[string]any{"comparator": "AND", "children": map[string]any{}}, KindInvalid},
		{"set non-string comparator", map[string]any{"comparator": 1, "children": []any{}}, KindInvalid},
		{"set shape wins over rule shape", map[string]any{
			"comparator": "AND", "children": []any{}, "column": "num", "value": 1,
		}, KindRuleSet},
		{"nil", nil, KindInvalid},
		{"string", "AND", KindInvalid},
		{"array", []any{}, KindInvalid},
		{"typed rule", Rule{Column: "num"}, KindRule},
		{"typed set", RuleSet{Comparator: And}, KindRuleSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.in))
		})
	}
}

func TestIsRuleAndIsRuleSetAreExclusive(t *testing.T) {
	both := map[string]any{"comparator": "AND", "children": []any{}, "column": "num", "value": 1}
	assert.True(t, IsRuleSet(both))
	assert.False(t, IsRule(both))
}

func TestClassifyYAMLDecoded(t *testing.T) {
	src := `
comparator: AND
children:
  - column: num
    value: 10
  - comparator: OR
    children: []
`
	var raw any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	assert.Equal(t, KindRuleSet, Classify(raw))
}

func TestParse(t *testing.T) {
	raw := map[string]any{
		"comparator": "AND",
		"children": []any{
			map[string]any{"column": "num", "condition": "EQUALS", "value": 10.0},
			map[string]any{"comparator": "OR", "children": []any{
				map[string]any{"column": "name", "value": nil},
			}},
		},
	}

	n, err := Parse(raw)
	require.NoError(t, err)

	want := RuleSet{Comparator: And, Children: []Node{
		Rule{Column: "num", Condition: Equals, Value: 10.0},
		RuleSet{Comparator: Or, Children: []Node{Rule{Column: "name"}}},
	}}
	assert.Equal(t, want, n)
}

func TestParseIgnoresNonStringCondition(t *testing.T) {
	n, err := Parse(map[string]any{"column": "num", "condition": 7, "value": 1})
	require.NoError(t, err)
	assert.Equal(t, Rule{Column: "num", Value: 1}, n)
}

func TestParseErrorPath(t *testing.T) {
	raw := map[string]any{
		"comparator": "AND",
		"children": []any{
			map[string]any{"column": "num", "value": 1},
			map[string]any{"comparator": "OR", "children": []any{
				map[string]any{"value": 1},
			}},
		},
	}

	_, err := Parse(raw)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "children.1.children.0.column", perr.Path)
	assert.Contains(t, err.Error(), "children.1.children.0.column")
}

func TestParseFallsBackToRuleLikeClassify(t *testing.T) {
	raw := map[string]any{
		"comparator": "AND",
		"children":   []any{42},
		"column":     "x",
		"value":      1,
	}
	require.Equal(t, KindRule, Classify(raw))

	n, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, Rule{Column: "x", Value: 1}, n)

	// Without a column the set's own error is reported.
	delete(raw, "column")
	require.Equal(t, KindInvalid, Classify(raw))
	_, err = Parse(raw)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "children.0", perr.Path)
}

func TestParseMissingValue(t *testing.T) {
	_, err := Parse(map[string]any{"column": "num"})
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "value", perr.Path)
}

func TestParseNotObject(t *testing.T) {
	_, err := Parse("nope")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "", perr.Path)
	assert.Contains(t, err.Error(), "expected object")
}

func TestUnmarshalRoundTrip(t *testing.T) {
	in := RuleSet{Comparator: Or, Children: []Node{
		Rule{Column: "num", Condition: GreaterThan, Value: 3.0},
		RuleSet{Comparator: And},
	}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"comparator":"OR","children":[
		{"column":"num","condition":"GREATER_THAN","value":3},
		{"comparator":"AND","children":[]}
	]}`, string(data))

	out, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, Equal(in, out))
}

package tree

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ParseError reports why raw data could not be turned into a Node.
type ParseError struct {
	// Path is the dotted location of the offending value, e.g.
	// "children.3.column". Empty for the root.
	Path   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid tree: %s", e.Reason)
	}
	return fmt.Sprintf("invalid tree at %s: %s", e.Path, e.Reason)
}

// Classify reports whether x is a Rule, a RuleSet, or neither.
//
// x is raw decoded data (maps, slices, scalars) as produced by
// encoding/json, yaml.v3 or a CUE decode. Node values classify by their
// dynamic type. The check is structural and recurses through children, so
// a set holding one malformed descendant is Invalid.
func Classify(x any) Kind {
	switch {
	case IsRuleSet(x):
		return KindRuleSet
	case IsRule(x):
		return KindRule
	default:
		return KindInvalid
	}
}

// IsRule reports whether x has a string column and a value key, and is not
// a RuleSet. The value itself is unconstrained and may be nil.
func IsRule(x any) bool {
	switch x.(type) {
	case Rule:
		return true
	case RuleSet:
		return false
	}
	m, ok := asMap(x)
	if !ok {
		return false
	}
	if _, ok := m["column"].(string); !ok {
		return false
	}
	if _, ok := m["value"]; !ok {
		return false
	}
	return !IsRuleSet(x)
}

// IsRuleSet reports whether x has a string comparator and a children array
// whose every element is itself a Rule or a RuleSet.
func IsRuleSet(x any) bool {
	switch v := x.(type) {
	case Rule:
		return false
	case RuleSet:
		for _, c := range v.Children {
			if c == nil {
				return false
			}
		}
		return true
	}
	m, ok := asMap(x)
	if !ok {
		return false
	}
	if _, ok := m["comparator"].(string); !ok {
		return false
	}
	children, ok := asSlice(m["children"])
	if !ok {
		return false
	}
	for _, c := range children {
		if !IsRuleSet(c) && !IsRule(c) {
			return false
		}
	}
	return true
}

// Parse turns raw decoded data into a tagged Node. This is the validation
// boundary: everything past it dispatches on the concrete type instead of
// re-deriving the shape.
func Parse(x any) (Node, error) {
	return parse(x, nil)
}

func parse(x any, path []string) (Node, error) {
	switch v := x.(type) {
	case Rule:
		return v, nil
	case RuleSet:
		if !IsRuleSet(v) {
			return nil, &ParseError{Path: strings.Join(path, "."), Reason: "nil child"}
		}
		return v, nil
	}

	m, ok := asMap(x)
	if !ok {
		return nil, &ParseError{Path: strings.Join(path, "."), Reason: fmt.Sprintf("expected object, got %T", x)}
	}

	// A map that fails as a RuleSet may still be a Rule, matching Classify.
	var setErr error
	if comparator, ok := m["comparator"].(string); ok {
		if raw, ok := asSlice(m["children"]); ok {
			rs, err := parseSet(Comparator(comparator), raw, path)
			if err == nil {
				return rs, nil
			}
			setErr = err
		}
	}

	column, ok := m["column"].(string)
	if !ok {
		if setErr != nil {
			return nil, setErr
		}
		return nil, &ParseError{
			Path:   strings.Join(append(path, "column"), "."),
			Reason: "expected a rule (string column) or a ruleset (string comparator, children array)",
		}
	}
	value, ok := m["value"]
	if !ok {
		return nil, &ParseError{Path: strings.Join(append(path, "value"), "."), Reason: "missing value key"}
	}

	r := Rule{Column: column, Value: value}
	if cond, ok := m["condition"].(string); ok {
		r.Condition = Condition(cond)
	}
	return r, nil
}

func parseSet(c Comparator, raw []any, path []string) (RuleSet, error) {
	children := make([]Node, 0, len(raw))
	for i, x := range raw {
		child, err := parse(x, append(path[:len(path):len(path)], "children", strconv.Itoa(i)))
		if err != nil {
			return RuleSet{}, err
		}
		children = append(children, child)
	}
	return RuleSet{Comparator: c, Children: children}, nil
}

// asMap accepts the map shapes the supported decoders produce.
func asMap(x any) (map[string]any, bool) {
	switch m := x.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// asSlice accepts []any and any other slice or array kind.
func asSlice(x any) ([]any, bool) {
	if s, ok := x.([]any); ok {
		return s, true
	}
	if x == nil {
		return nil, false
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

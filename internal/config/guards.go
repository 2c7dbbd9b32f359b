package config

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/roach88/querybuilder/internal/tree"
)

// IsOperatorDefinition reports whether x has a string identifier and a
// string name.
func IsOperatorDefinition(x any) bool {
	return len(checkOperator(x, "")) == 0
}

// IsRuleDefinition reports whether x has a string column, a component that
// is a string, function or object, and, when present, an array of
// conditions.
func IsRuleDefinition(x any) bool {
	return len(checkRule(x, "")) == 0
}

// IsQueryBuilderConfig reports whether x is a complete configuration.
func IsQueryBuilderConfig(x any) bool {
	return Validate(x) == nil
}

// Validate is IsQueryBuilderConfig with reasons. It returns an
// *AggregateError listing every failing field, or nil.
func Validate(x any) error {
	errs := checkConfig(x)
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

// ValidateTree checks raw tree data the same way, reporting the first
// structural problem.
func ValidateTree(x any) error {
	if _, err := tree.Parse(x); err != nil {
		return &AggregateError{Errors: []error{err}}
	}
	return nil
}

func checkConfig(x any) []error {
	if c, ok := asConfig(x); ok {
		return checkTypedConfig(c)
	}
	m, ok := asMap(x)
	if !ok {
		return []error{&ValidationError{Key: "", Reason: "expected object", Value: x}}
	}

	var errs []error
	ops, ok := asSlice(m["operators"])
	if !ok {
		errs = append(errs, &ValidationError{Key: "operators", Reason: "required array", Value: m["operators"]})
	}
	for i, op := range ops {
		errs = append(errs, checkOperator(op, "operators."+strconv.Itoa(i))...)
	}

	rules, ok := asSlice(m["rules"])
	if !ok {
		errs = append(errs, &ValidationError{Key: "rules", Reason: "required array", Value: m["rules"]})
	}
	for i, r := range rules {
		errs = append(errs, checkRule(r, "rules."+strconv.Itoa(i))...)
	}

	if colors, present := m["colors"]; present && colors != nil {
		list, ok := asSlice(colors)
		if !ok {
			errs = append(errs, &ValidationError{Key: "colors", Reason: "must be an array of strings", Value: colors})
		}
		for i, c := range list {
			if _, ok := c.(string); !ok {
				errs = append(errs, &ValidationError{Key: "colors." + strconv.Itoa(i), Reason: "must be a string", Value: c})
			}
		}
	}

	if d, present := m["maxDepth"]; present && d != nil {
		if n, ok := asInt(d); !ok || n < 0 {
			errs = append(errs, &ValidationError{Key: "maxDepth", Reason: "must be a non-negative integer", Value: d})
		}
	}

	if d, present := m["dragging"]; present && d != nil {
		if _, ok := asMap(d); !ok {
			errs = append(errs, &ValidationError{Key: "dragging", Reason: "must be an object", Value: d})
		}
	}
	return errs
}

func checkTypedConfig(c Config) []error {
	var errs []error
	for i, op := range c.Operators {
		errs = append(errs, checkOperator(op, "operators."+strconv.Itoa(i))...)
	}
	for i, r := range c.Rules {
		errs = append(errs, checkRule(r, "rules."+strconv.Itoa(i))...)
	}
	if c.MaxDepth != nil && *c.MaxDepth < 0 {
		errs = append(errs, &ValidationError{Key: "maxDepth", Reason: "must be a non-negative integer", Value: *c.MaxDepth})
	}
	return errs
}

func checkOperator(x any, key string) []error {
	if _, ok := x.(OperatorDefinition); ok {
		return nil
	}
	m, ok := asMap(x)
	if !ok {
		return []error{&ValidationError{Key: key, Reason: "operator must be an object", Value: x}}
	}
	var errs []error
	if _, ok := m["identifier"].(string); !ok {
		errs = append(errs, &ValidationError{Key: join(key, "identifier"), Reason: "must be a string", Value: m["identifier"]})
	}
	if _, ok := m["name"].(string); !ok {
		errs = append(errs, &ValidationError{Key: join(key, "name"), Reason: "must be a string", Value: m["name"]})
	}
	return errs
}

func checkRule(x any, key string) []error {
	if def, ok := x.(RuleDefinition); ok {
		if !validComponent(def.Component) {
			return []error{&ValidationError{Key: join(key, "component"), Reason: "must be a string, function or object", Value: def.Component}}
		}
		return nil
	}
	m, ok := asMap(x)
	if !ok {
		return []error{&ValidationError{Key: key, Reason: "rule definition must be an object", Value: x}}
	}
	var errs []error
	if _, ok := m["column"].(string); !ok {
		errs = append(errs, &ValidationError{Key: join(key, "column"), Reason: "must be a string", Value: m["column"]})
	}
	if !validComponent(m["component"]) {
		errs = append(errs, &ValidationError{Key: join(key, "component"), Reason: "must be a string, function or object", Value: m["component"]})
	}
	if conds, present := m["conditions"]; present && conds != nil {
		if _, ok := asSlice(conds); !ok {
			errs = append(errs, &ValidationError{Key: join(key, "conditions"), Reason: "must be an array", Value: conds})
		}
	}
	return errs
}

func validComponent(c any) bool {
	if c == nil {
		return false
	}
	rv := reflect.ValueOf(c)
	switch rv.Kind() {
	case reflect.String, reflect.Func, reflect.Map, reflect.Struct:
		return true
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	default:
		return false
	}
}

func asConfig(x any) (Config, bool) {
	switch c := x.(type) {
	case Config:
		return c, true
	case *Config:
		if c == nil {
			return Config{}, false
		}
		return *c, true
	default:
		return Config{}, false
	}
}

// asInt accepts the integer encodings of JSON, YAML and CUE decoders.
// Floats must be integral.
func asInt(x any) (int, bool) {
	switch v := x.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case int32:
		return int(v), true
	case uint64:
		return int(v), v <= math.MaxInt32
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func asMap(x any) (map[string]any, bool) {
	switch m := x.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func asSlice(x any) ([]any, bool) {
	if s, ok := x.([]any); ok {
		return s, true
	}
	if x == nil {
		return nil, false
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice || rv.IsNil() {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

package tree

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the variants of a Node.
type Kind int

const (
	// KindInvalid marks data that is neither a Rule nor a RuleSet.
	KindInvalid Kind = iota
	// KindRule marks a leaf condition.
	KindRule
	// KindRuleSet marks a group of children combined by a comparator.
	KindRuleSet
)

// String returns the lowercase kind name used in CLI and HTTP output.
func (k Kind) String() string {
	switch k {
	case KindRule:
		return "rule"
	case KindRuleSet:
		return "ruleset"
	default:
		return "invalid"
	}
}

// Comparator combines the children of a RuleSet.
// The empty string means the comparator has not been chosen yet.
type Comparator string

const (
	And Comparator = "AND"
	Or  Comparator = "OR"
)

// Condition is the comparison operator of a Rule.
// The empty string means the rule carries no condition.
type Condition string

const (
	Equals      Condition = "EQUALS"
	NotEquals   Condition = "NOT_EQUALS"
	GreaterThan Condition = "GREATER_THAN"
	LessThan    Condition = "LESS_THAN"
	Like        Condition = "LIKE"
	StartsWith  Condition = "STARTS_WITH"
	EndsWith    Condition = "ENDS_WITH"
	Contains    Condition = "CONTAINS"
	IsNull      Condition = "IS_NULL"
	NotNull     Condition = "NOT_NULL"
)

// Conditions lists every condition in declaration order.
var Conditions = []Condition{
	Equals, NotEquals, GreaterThan, LessThan, Like,
	StartsWith, EndsWith, Contains, IsNull, NotNull,
}

// Valid reports whether c is a member of the condition enumeration.
func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// Node is a sealed interface for the two tree variants.
//
// Only Rule and RuleSet implement it, so a type switch over a Node is
// exhaustive:
//
//	switch n := node.(type) {
//	case tree.Rule:
//	    // leaf
//	case tree.RuleSet:
//	    // group
//	}
//
// Nodes are values. Copying a RuleSet copies the children slice header,
// never the children themselves, so untouched branches are shared between
// the old and the new tree after a mutation.
type Node interface {
	Kind() Kind
	node() // seals the interface to this package
}

// Rule is a leaf condition on a configured column.
type Rule struct {
	Column    string
	Condition Condition
	Value     any
}

func (Rule) node() {}

// Kind implements Node.
func (Rule) Kind() Kind { return KindRule }

// RuleSet combines its ordered children with a comparator.
type RuleSet struct {
	Comparator Comparator
	Children   []Node
}

func (RuleSet) node() {}

// Kind implements Node.
func (RuleSet) Kind() Kind { return KindRuleSet }

// MarshalJSON encodes the rule as {"column", "condition"?, "value"}.
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.raw())
}

// MarshalJSON encodes the set as {"comparator", "children"}. Children
// always encode as an array, never null.
func (rs RuleSet) MarshalJSON() ([]byte, error) {
	children := rs.Children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(struct {
		Comparator Comparator `json:"comparator"`
		Children   []Node     `json:"children"`
	}{rs.Comparator, children})
}

func (r Rule) raw() map[string]any {
	m := map[string]any{
		"column": r.Column,
		"value":  r.Value,
	}
	if r.Condition != "" {
		m["condition"] = string(r.Condition)
	}
	return m
}

// ToRaw converts a node into the loosely typed form produced by
// encoding/json, suitable for YAML output and raw validators.
func ToRaw(n Node) any {
	switch v := n.(type) {
	case Rule:
		return v.raw()
	case RuleSet:
		children := make([]any, len(v.Children))
		for i, c := range v.Children {
			children[i] = ToRaw(c)
		}
		return map[string]any{
			"comparator": string(v.Comparator),
			"children":   children,
		}
	default:
		return nil
	}
}

// Unmarshal decodes JSON into a Node through the Parse boundary.
func Unmarshal(data []byte) (Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding tree: %w", err)
	}
	return Parse(raw)
}

// Height returns how many RuleSet levels exist below n.
// It is 0 for rules and for sets without RuleSet children.
func Height(n Node) int {
	rs, ok := n.(RuleSet)
	if !ok {
		return 0
	}
	h := 0
	for _, c := range rs.Children {
		if sub, ok := c.(RuleSet); ok {
			if ch := 1 + Height(sub); ch > h {
				h = ch
			}
		}
	}
	return h
}

// Depth returns the depth of the deepest RuleSet in n, with n itself at 0.
// It returns -1 when n is not a RuleSet.
func Depth(n Node) int {
	if _, ok := n.(RuleSet); !ok {
		return -1
	}
	return Height(n)
}

// Walk visits n and every descendant in pre-order. For a RuleSet depth is
// its own nesting level, root at 0; for a Rule it is the depth of the group
// holding it. Returning false from fn stops descent into that node. A nil
// n visits nothing.
func Walk(n Node, fn func(path Path, depth int, n Node) bool) {
	if n == nil {
		return
	}
	walk(n, nil, 0, fn)
}

func walk(n Node, path Path, depth int, fn func(Path, int, Node) bool) {
	if !fn(path, depth, n) {
		return
	}
	rs, ok := n.(RuleSet)
	if !ok {
		return
	}
	for i, c := range rs.Children {
		childDepth := depth
		if c.Kind() == KindRuleSet {
			childDepth = depth + 1
		}
		walk(c, path.Child(i), childDepth, fn)
	}
}

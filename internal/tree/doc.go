// Package tree defines the boolean expression tree edited by the query
// builder: Rule leaves and RuleSet groups.
//
// Raw data (decoded JSON, YAML or CUE) enters through Parse, which is the
// only place the Rule/RuleSet shape is derived structurally. Everything past
// that boundary switches on the concrete Node type.
//
// Trees are immutable values. Mutations go through Update and the
// ReplaceChild/InsertChild/RemoveChild helpers, which rebuild only the
// RuleSets on the path to the change and share everything else.
//
// Depth numbering:
//   - the root RuleSet is at depth 0
//   - a RuleSet child of a set at depth d is at depth d+1
//   - a Rule has no depth of its own
//
// This package imports nothing internal.
package tree

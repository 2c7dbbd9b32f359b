// Package config holds the query builder configuration: the operators a
// group may combine its children with, the columns a rule may filter on,
// and the depth, color and drag settings.
package config

import (
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/querybuilder/internal/tree"
)

// OperatorDefinition is one selectable group comparator.
type OperatorDefinition struct {
	Identifier tree.Comparator `json:"identifier" yaml:"identifier" mapstructure:"identifier"`
	Name       string          `json:"name" yaml:"name" mapstructure:"name"`
}

// RuleDefinition describes one editable column.
type RuleDefinition struct {
	Column string `json:"column" yaml:"column" mapstructure:"column"`

	// Conditions are the comparisons offered for this column, in display
	// order. Empty means the rule carries no condition.
	Conditions []tree.Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" mapstructure:"conditions"`

	// Component is the editor a renderer mounts for this column. The core
	// never looks inside it.
	Component any `json:"component" yaml:"component" mapstructure:"component"`

	// InitialValue seeds the value of a newly added rule. Nil means null.
	InitialValue InitialValue `json:"-" yaml:"-" mapstructure:"initialValue"`
}

// Config is the full builder configuration.
type Config struct {
	Operators []OperatorDefinition `json:"operators" yaml:"operators" mapstructure:"operators"`
	Rules     []RuleDefinition     `json:"rules" yaml:"rules" mapstructure:"rules"`

	// MaxDepth bounds the depth of the deepest group, root at 0.
	// Nil means unlimited.
	MaxDepth *int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty" mapstructure:"maxDepth"`

	// Colors cycle through group depths.
	Colors []string `json:"colors,omitempty" yaml:"colors,omitempty" mapstructure:"colors"`

	// Dragging is passed through to the drag capability untouched.
	Dragging map[string]any `json:"dragging,omitempty" yaml:"dragging,omitempty" mapstructure:"dragging"`
}

// Depth returns a pointer to d, for building a Config.MaxDepth literal.
func Depth(d int) *int {
	return &d
}

// Rule returns the definition for column. Columns compare in NFC so that
// differently composed spellings of the same name match.
func (c Config) Rule(column string) (*RuleDefinition, bool) {
	want := norm.NFC.String(column)
	for i := range c.Rules {
		if norm.NFC.String(c.Rules[i].Column) == want {
			return &c.Rules[i], true
		}
	}
	return nil, false
}

// DefaultComparator is the comparator given to new and unset groups: the
// first configured operator, or AND when none is configured.
func (c Config) DefaultComparator() tree.Comparator {
	if len(c.Operators) > 0 && c.Operators[0].Identifier != "" {
		return c.Operators[0].Identifier
	}
	return tree.And
}

// MaxDepthExceeded reports whether a group at depth may not gain sub-groups.
func (c Config) MaxDepthExceeded(depth int) bool {
	return c.MaxDepth != nil && depth >= *c.MaxDepth
}

// Color returns the border color for a group at depth.
func (c Config) Color(depth int) (string, bool) {
	if len(c.Colors) == 0 || depth < 0 {
		return "", false
	}
	return c.Colors[depth%len(c.Colors)], true
}

// WithMaxDepth returns a copy of c with MaxDepth set. A negative d clears it.
func (c Config) WithMaxDepth(d int) Config {
	if d < 0 {
		c.MaxDepth = nil
		return c
	}
	c.MaxDepth = Depth(d)
	return c
}

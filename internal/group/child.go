package group

import (
	"slices"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

// Dispatched says how a child should be rendered.
type Dispatched struct {
	Kind tree.Kind

	// Definition is the matching rule definition for a Rule child, nil for
	// groups and for rules whose column is not configured.
	Definition *config.RuleDefinition
}

// Dispatch resolves the renderer for child.
func Dispatch(child tree.Node, cfg config.Config) Dispatched {
	switch n := child.(type) {
	case tree.Rule:
		def, _ := cfg.Rule(n.Column)
		return Dispatched{Kind: tree.KindRule, Definition: def}
	case tree.RuleSet:
		return Dispatched{Kind: tree.KindRuleSet}
	default:
		return Dispatched{Kind: tree.KindInvalid}
	}
}

// Child is a handle on one child of a group.
type Child struct {
	Dispatched
	Index int
	Node  tree.Node

	parent *Controller
}

// Child returns a handle on child i.
func (c *Controller) Child(i int) (Child, bool) {
	if !c.inRange(i) {
		return Child{}, false
	}
	n := c.set.Children[i]
	return Child{
		Dispatched: Dispatch(n, c.cfg),
		Index:      i,
		Node:       n,
		parent:     c,
	}, true
}

// Group returns a controller for a RuleSet child, one level deeper. Its
// emissions replace this child in the parent.
func (ch Child) Group() (*Controller, bool) {
	rs, ok := ch.Node.(tree.RuleSet)
	if !ok {
		return nil, false
	}
	p := ch.parent
	return New(rs, p.depth+1, p.cfg,
		func(sub tree.RuleSet) { p.UpdateChild(ch.Index, sub) },
		WithPath(p.path.Child(ch.Index)),
		WithCoordinator(p.coord),
		WithLogger(p.logger),
		WithGroupName(p.groupName),
	), true
}

// Rule returns the leaf editor binding for a Rule child.
func (ch Child) Rule() (*RuleController, bool) {
	r, ok := ch.Node.(tree.Rule)
	if !ok {
		return nil, false
	}
	return &RuleController{rule: r, def: ch.Definition, index: ch.Index, parent: ch.parent}, true
}

// RuleController edits one Rule through its parent group.
type RuleController struct {
	rule   tree.Rule
	def    *config.RuleDefinition
	index  int
	parent *Controller
}

// Rule returns the rule as received.
func (rc *RuleController) Rule() tree.Rule { return rc.rule }

// Definition returns the column definition, or nil when the column is not
// configured.
func (rc *RuleController) Definition() *config.RuleDefinition { return rc.def }

// Path returns the rule's location in the whole tree.
func (rc *RuleController) Path() tree.Path { return rc.parent.path.Child(rc.index) }

// UpdateValue replaces the rule's value.
func (rc *RuleController) UpdateValue(v any) bool {
	r := rc.rule
	r.Value = v
	return rc.parent.UpdateChild(rc.index, r)
}

// UpdateCondition replaces the rule's condition. The condition must belong
// to the enumeration and, when the column lists its conditions, to that
// list.
func (rc *RuleController) UpdateCondition(cond tree.Condition) bool {
	if !cond.Valid() {
		rc.parent.logger.Debug("condition rejected", "path", rc.Path().String(), "condition", string(cond))
		return false
	}
	if rc.def != nil && len(rc.def.Conditions) > 0 && !slices.Contains(rc.def.Conditions, cond) {
		rc.parent.logger.Debug("condition not offered for column",
			"path", rc.Path().String(), "column", rc.rule.Column, "condition", string(cond))
		return false
	}
	r := rc.rule
	r.Condition = cond
	return rc.parent.UpdateChild(rc.index, r)
}

// Delete removes the rule from its group.
func (rc *RuleController) Delete() bool {
	return rc.parent.DeleteChild(rc.index)
}

package group

import (
	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

// OperatorSlotProps is handed to a replacement operator selector.
type OperatorSlotProps struct {
	CurrentOperator       tree.Comparator
	Operators             []config.OperatorDefinition
	UpdateCurrentOperator func(tree.Comparator) bool
}

// ControlSlotProps is handed to replacement group controls.
type ControlSlotProps struct {
	MaxDepthExceeded bool
	Rules            []config.RuleDefinition
	AddRule          func(column string) bool
	NewGroup         func() bool
}

// RuleSlotProps is handed to a replacement rule row.
type RuleSlotProps struct {
	RuleComponent           any
	RuleData                any
	RuleColumn              string
	RuleCondition           tree.Condition
	AvailableConditions     []tree.Condition
	UpdateRuleData          func(any) bool
	UpdateConditionRuleData func(tree.Condition) bool
}

// OperatorSlotProps binds the operator selector to this group.
func (c *Controller) OperatorSlotProps() OperatorSlotProps {
	return OperatorSlotProps{
		CurrentOperator:       c.set.Comparator,
		Operators:             c.cfg.Operators,
		UpdateCurrentOperator: c.ChangeOperator,
	}
}

// ControlSlotProps binds the add-rule and add-group controls to this group.
func (c *Controller) ControlSlotProps() ControlSlotProps {
	return ControlSlotProps{
		MaxDepthExceeded: c.MaxDepthExceeded(),
		Rules:            c.cfg.Rules,
		AddRule:          c.AddRule,
		NewGroup:         c.NewGroup,
	}
}

// SlotProps binds a rule row to this rule.
func (rc *RuleController) SlotProps() RuleSlotProps {
	props := RuleSlotProps{
		RuleData:                rc.rule.Value,
		RuleColumn:              rc.rule.Column,
		RuleCondition:           rc.rule.Condition,
		UpdateRuleData:          rc.UpdateValue,
		UpdateConditionRuleData: rc.UpdateCondition,
	}
	if rc.def != nil {
		props.RuleComponent = rc.def.Component
		props.AvailableConditions = rc.def.Conditions
	}
	return props
}

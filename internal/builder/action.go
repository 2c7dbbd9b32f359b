package builder

import (
	"github.com/roach88/querybuilder/internal/tree"
)

// Action types accepted by Dispatch.
const (
	ActionAddRule         = "add_rule"
	ActionNewGroup        = "new_group"
	ActionUpdateValue     = "update_value"
	ActionUpdateCondition = "update_condition"
	ActionDelete          = "delete"
	ActionChangeOperator  = "change_operator"
	ActionMove            = "move"
)

// Action is a serialisable user gesture. Paths use the "/0/2" form of
// tree.Path.String; "/" is the root group.
//
// Path addresses the group for add_rule, new_group and change_operator,
// the rule for update_value and update_condition, and the node for delete
// and move. To and ToIndex are the destination of a move.
type Action struct {
	Type      string          `json:"type" yaml:"type" mapstructure:"type"`
	Path      string          `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
	Column    string          `json:"column,omitempty" yaml:"column,omitempty" mapstructure:"column"`
	Value     any             `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Condition tree.Condition  `json:"condition,omitempty" yaml:"condition,omitempty" mapstructure:"condition"`
	Operator  tree.Comparator `json:"operator,omitempty" yaml:"operator,omitempty" mapstructure:"operator"`
	To        string          `json:"to,omitempty" yaml:"to,omitempty" mapstructure:"to"`
	ToIndex   int             `json:"toIndex,omitempty" yaml:"toIndex,omitempty" mapstructure:"toIndex"`
}

// Dispatch routes a to the controller that owns its target and performs
// it. It returns whether the action was accepted. A move is settled before
// Dispatch returns, so its emission has already happened, and it counts as
// accepted only if the settle applied it.
//
// An error means the action could not be routed at all: a malformed or
// dangling path, a path of the wrong kind, or an unknown type.
func (b *Builder) Dispatch(a Action) (bool, error) {
	ok, err := b.dispatch(a)
	if err != nil {
		b.logger.Warn("action failed", "type", a.Type, "path", a.Path, "error", err)
		return false, err
	}
	if !ok {
		b.logger.Debug("action refused", "type", a.Type, "path", a.Path)
	}
	b.observer.ActionApplied(a.Type, ok)
	return ok, nil
}

func (b *Builder) dispatch(a Action) (bool, error) {
	p, err := tree.ParsePath(a.Path)
	if err != nil {
		return false, invalidAction("bad path %q: %v", a.Path, err)
	}

	switch a.Type {
	case ActionAddRule:
		if a.Column == "" {
			return false, invalidAction("add_rule needs a column")
		}
		g, err := b.Group(p)
		if err != nil {
			return false, err
		}
		return g.AddRule(a.Column), nil

	case ActionNewGroup:
		g, err := b.Group(p)
		if err != nil {
			return false, err
		}
		return g.NewGroup(), nil

	case ActionChangeOperator:
		g, err := b.Group(p)
		if err != nil {
			return false, err
		}
		return g.ChangeOperator(a.Operator), nil

	case ActionUpdateValue:
		r, err := b.Rule(p)
		if err != nil {
			return false, err
		}
		return r.UpdateValue(a.Value), nil

	case ActionUpdateCondition:
		r, err := b.Rule(p)
		if err != nil {
			return false, err
		}
		return r.UpdateCondition(a.Condition), nil

	case ActionDelete:
		if len(p) == 0 {
			return false, wrongKind(p, "the root cannot be deleted")
		}
		g, err := b.Group(p.Parent())
		if err != nil {
			return false, err
		}
		if p.Last() >= g.Len() {
			return false, invalidPath(p, "no child %d", p.Last())
		}
		return g.DeleteChild(p.Last()), nil

	case ActionMove:
		to, err := tree.ParsePath(a.To)
		if err != nil {
			return false, invalidAction("bad destination %q: %v", a.To, err)
		}
		ok, err := b.Drop(p, to, a.ToIndex)
		if err != nil || !ok {
			return false, err
		}
		seq := b.coord.Trap().Last()
		b.Tick()
		return b.settledMove(seq), nil

	default:
		return false, invalidAction("unknown action type %q", a.Type)
	}
}

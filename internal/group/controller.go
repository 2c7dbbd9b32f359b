package group

import (
	"log/slog"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/drag"
	"github.com/roach88/querybuilder/internal/tree"
)

// DefaultGroupName is the sortable group shared by all groups of a builder.
const DefaultGroupName = "query-builder"

// EmitFunc receives the rebuilt RuleSet after a mutation.
type EmitFunc func(tree.RuleSet)

// Controller owns one RuleSet at a fixed depth.
//
// A Controller never changes its own state. Every mutation builds a new
// RuleSet and hands it to emit; the owner (a parent controller or the
// builder) splices it in and constructs fresh controllers for the next
// round.
type Controller struct {
	set   tree.RuleSet
	depth int
	cfg   config.Config
	emit  EmitFunc

	path      tree.Path
	coord     *drag.Coordinator
	logger    *slog.Logger
	groupName string
}

// Option configures a Controller.
type Option func(*Controller)

// WithPath records where the group sits in the whole tree. Drops registered
// by this group use it as their destination.
func WithPath(p tree.Path) Option {
	return func(c *Controller) { c.path = p }
}

// WithCoordinator enables drag-and-drop through coord.
func WithCoordinator(coord *drag.Coordinator) Option {
	return func(c *Controller) { c.coord = coord }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithGroupName overrides DefaultGroupName.
func WithGroupName(name string) Option {
	return func(c *Controller) { c.groupName = name }
}

// New creates a controller for rs at depth. emit may be nil, in which case
// mutations are computed and discarded.
func New(rs tree.RuleSet, depth int, cfg config.Config, emit EmitFunc, opts ...Option) *Controller {
	c := &Controller{
		set:       rs,
		depth:     depth,
		cfg:       cfg,
		emit:      emit,
		path:      tree.Path{},
		logger:    slog.Default(),
		groupName: DefaultGroupName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddRule appends a new rule for column, seeded from its definition. It
// returns false for a column with no definition.
func (c *Controller) AddRule(column string) bool {
	def, ok := c.cfg.Rule(column)
	if !ok {
		c.logger.Debug("add rule rejected: unknown column", "path", c.path.String(), "column", column)
		return false
	}
	r := tree.Rule{Column: def.Column, Value: config.Resolve(def.InitialValue)}
	if len(def.Conditions) > 0 {
		r.Condition = def.Conditions[0]
	}
	return c.commit(tree.AppendChild(c.set, r))
}

// NewGroup appends an empty sub-group. It returns false at the depth limit.
func (c *Controller) NewGroup() bool {
	if c.MaxDepthExceeded() {
		c.logger.Debug("new group rejected: max depth", "path", c.path.String(), "depth", c.depth)
		return false
	}
	sub := tree.RuleSet{Comparator: c.cfg.DefaultComparator(), Children: []tree.Node{}}
	return c.commit(tree.AppendChild(c.set, sub))
}

// UpdateChild replaces child i with n.
func (c *Controller) UpdateChild(i int, n tree.Node) bool {
	if !c.inRange(i) || n == nil {
		c.logger.Debug("update rejected", "path", c.path.String(), "index", i)
		return false
	}
	return c.commit(tree.ReplaceChild(c.set, i, n))
}

// DeleteChild removes child i, keeping the order of the rest.
func (c *Controller) DeleteChild(i int) bool {
	if !c.inRange(i) {
		c.logger.Debug("delete rejected", "path", c.path.String(), "index", i)
		return false
	}
	return c.commit(tree.RemoveChild(c.set, i))
}

// ChangeOperator replaces the comparator of this group only; sub-groups
// keep theirs.
func (c *Controller) ChangeOperator(op tree.Comparator) bool {
	if op == "" {
		return false
	}
	children := make([]tree.Node, len(c.set.Children))
	copy(children, c.set.Children)
	return c.send(tree.RuleSet{Comparator: op, Children: children})
}

// commit emits rs, filling in the default comparator when the group has
// none yet.
func (c *Controller) commit(rs tree.RuleSet) bool {
	if rs.Comparator == "" {
		rs.Comparator = c.cfg.DefaultComparator()
	}
	return c.send(rs)
}

func (c *Controller) send(rs tree.RuleSet) bool {
	if rs.Children == nil {
		rs.Children = []tree.Node{}
	}
	if c.emit != nil {
		c.emit(rs)
	}
	return true
}

func (c *Controller) inRange(i int) bool {
	return i >= 0 && i < len(c.set.Children)
}

// RuleSet returns the group as the controller received it.
func (c *Controller) RuleSet() tree.RuleSet { return c.set }

// Depth returns the group depth, root at 0.
func (c *Controller) Depth() int { return c.depth }

// Path returns the group's location in the whole tree.
func (c *Controller) Path() tree.Path { return c.path }

// Config returns the configuration the group was built with.
func (c *Controller) Config() config.Config { return c.cfg }

// Comparator returns the current comparator, empty when unset.
func (c *Controller) Comparator() tree.Comparator { return c.set.Comparator }

// Len returns the number of children.
func (c *Controller) Len() int { return len(c.set.Children) }

// Children returns a copy of the child list.
func (c *Controller) Children() []tree.Node {
	out := make([]tree.Node, len(c.set.Children))
	copy(out, c.set.Children)
	return out
}

// MaxDepthExceeded reports whether this group may not gain sub-groups.
func (c *Controller) MaxDepthExceeded() bool {
	return c.cfg.MaxDepthExceeded(c.depth)
}

// BorderColor returns the configured color for this depth, or "".
func (c *Controller) BorderColor() string {
	color, _ := c.cfg.Color(c.depth)
	return color
}

// DragOptions returns the settings and accept hook for the drag capability.
func (c *Controller) DragOptions() drag.Options {
	return drag.Options{
		Settings:  c.cfg.Dragging,
		GroupName: c.groupName,
		Put: func(dragged tree.Node) bool {
			return drag.CanAccept(dragged, c.depth+1, c.cfg.MaxDepth)
		},
	}
}

// ReceiveDrop registers node, dragged from child fromIndex of the group at
// from, for insertion at toIndex of this group. The tree changes on the
// next settle. It returns false when the drop is illegal or dragging is not
// enabled.
func (c *Controller) ReceiveDrop(from tree.Path, fromIndex, toIndex int, node tree.Node) bool {
	if c.coord == nil {
		c.logger.Debug("drop ignored: no coordinator", "path", c.path.String())
		return false
	}
	return c.coord.Drop(drag.Move{
		From:      from,
		FromIndex: fromIndex,
		To:        c.path,
		ToIndex:   toIndex,
		Node:      node,
	}, c.cfg.MaxDepth)
}

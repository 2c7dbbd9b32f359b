package builder

import (
	"context"
	"log/slog"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/drag"
	"github.com/roach88/querybuilder/internal/group"
	"github.com/roach88/querybuilder/internal/tree"
)

// Builder is the root of a query builder. It holds the value and the
// configuration the caller fed it, builds the controller chain on demand,
// and notifies listeners with the complete tree after every change.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	cfg   config.Config
	value tree.Node // nil or a tree.RuleSet

	listeners []func(tree.Node)
	model     bool

	coord    *drag.Coordinator
	sched    *drag.Scheduler
	applied  []drag.Move // moves the last settle applied and emitted
	ids      drag.IDGenerator
	logger   *slog.Logger
	observer Observer
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithObserver installs metric hooks.
func WithObserver(o Observer) Option {
	return func(b *Builder) { b.observer = o }
}

// WithIDGenerator sets the source of gesture IDs. The default is UUIDv7.
func WithIDGenerator(g drag.IDGenerator) Option {
	return func(b *Builder) { b.ids = g }
}

// WithModel makes the builder store every value it emits as its next
// value, as a caller that binds the output straight back to the input
// would. Without it the value only changes through SetValue.
func WithModel() Option {
	return func(b *Builder) { b.model = true }
}

// New creates a builder. value may be nil for an empty, unset root; a
// bare Rule is refused and treated as nil.
func New(cfg config.Config, value tree.Node, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		ids:      drag.UUIDv7Generator{},
		logger:   slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.sched = drag.NewScheduler()
	b.coord = drag.NewCoordinator(
		drag.WithLogger(b.logger),
		drag.WithIDGenerator(b.ids),
		drag.WithScheduler(b.sched),
	)
	b.coord.OnSettle(b.settle)
	b.SetValue(value)
	return b
}

// OnChange registers fn to receive every emitted tree.
func (b *Builder) OnChange(fn func(tree.Node)) {
	b.listeners = append(b.listeners, fn)
}

// Value returns the current value, nil when unset.
func (b *Builder) Value() tree.Node { return b.value }

// Config returns the current configuration.
func (b *Builder) Config() config.Config { return b.cfg }

// SetValue replaces the value. It refuses a bare Rule, which cannot be a
// root, and keeps the previous value.
func (b *Builder) SetValue(n tree.Node) bool {
	switch n.(type) {
	case nil, tree.RuleSet:
		b.value = n
		return true
	default:
		b.logger.Warn("value refused: root must be a ruleset", "kind", n.Kind().String())
		return false
	}
}

// SetValueRaw parses raw decoded data and sets it as the value. Data that
// is not a tree is refused and logged.
func (b *Builder) SetValueRaw(x any) bool {
	if x == nil {
		return b.SetValue(nil)
	}
	n, err := tree.Parse(x)
	if err != nil {
		b.logger.Warn("value refused", "error", err)
		return false
	}
	return b.SetValue(n)
}

// SetConfig replaces the configuration. When the depth limit appears or
// shrinks, the value is pruned to fit and the pruned tree is emitted if it
// differs. An invalid configuration is refused.
func (b *Builder) SetConfig(cfg config.Config) bool {
	if err := config.Validate(cfg); err != nil {
		b.logger.Warn("config refused", "error", err)
		return false
	}
	prev := b.cfg.MaxDepth
	b.cfg = cfg

	if cfg.MaxDepth == nil || b.value == nil {
		return true
	}
	if prev != nil && *cfg.MaxDepth >= *prev {
		return true
	}
	if pruned, changed := tree.PruneChanged(b.value, *cfg.MaxDepth); changed {
		b.logger.Info("value pruned to max depth", "max_depth", *cfg.MaxDepth)
		b.emit(pruned)
	}
	return true
}

// SetConfigRaw decodes raw configuration data and applies it with
// SetConfig. Invalid data is refused and logged.
func (b *Builder) SetConfigRaw(x any) bool {
	cfg, err := config.Decode(x)
	if err != nil {
		b.logger.Warn("config refused", "error", err)
		return false
	}
	return b.SetConfig(cfg)
}

// Root returns the controller of the root group. An unset value yields an
// empty group with no comparator.
func (b *Builder) Root() *group.Controller {
	rs, _ := b.value.(tree.RuleSet)
	return group.New(rs, 0, b.cfg,
		func(out tree.RuleSet) { b.emit(out) },
		group.WithPath(tree.Path{}),
		group.WithCoordinator(b.coord),
		group.WithLogger(b.logger),
	)
}

// Group returns the controller of the group at p.
func (b *Builder) Group(p tree.Path) (*group.Controller, error) {
	c := b.Root()
	for depth, i := range p {
		ch, ok := c.Child(i)
		if !ok {
			return nil, invalidPath(p, "no child %d at depth %d", i, depth)
		}
		c, ok = ch.Group()
		if !ok {
			return nil, wrongKind(p, "%s is a rule, not a group", p[:depth+1])
		}
	}
	return c, nil
}

// Rule returns the editor binding of the rule at p.
func (b *Builder) Rule(p tree.Path) (*group.RuleController, error) {
	if len(p) == 0 {
		return nil, wrongKind(p, "the root is a group, not a rule")
	}
	parent, err := b.Group(p.Parent())
	if err != nil {
		return nil, err
	}
	ch, ok := parent.Child(p.Last())
	if !ok {
		return nil, invalidPath(p, "no child %d", p.Last())
	}
	rc, ok := ch.Rule()
	if !ok {
		return nil, wrongKind(p, "%s is a group, not a rule", p)
	}
	return rc, nil
}

// DragOptions returns the drag settings of the group at p.
func (b *Builder) DragOptions(p tree.Path) (drag.Options, error) {
	c, err := b.Group(p)
	if err != nil {
		return drag.Options{}, err
	}
	return c.DragOptions(), nil
}

// Drop registers a drag of the node at from into the group at to, at
// index toIndex. The tree changes on the next Tick. It returns false when
// the destination refuses the node, when to lies inside the dragged node,
// and after Close.
func (b *Builder) Drop(from tree.Path, to tree.Path, toIndex int) (bool, error) {
	if len(from) == 0 {
		return false, wrongKind(from, "the root cannot be dragged")
	}
	node, ok := tree.At(b.value, from)
	if !ok {
		return false, invalidPath(from, "nothing to drag")
	}
	dst, err := b.Group(to)
	if err != nil {
		return false, err
	}
	accepted := dst.ReceiveDrop(from.Parent(), from.Last(), toIndex, node)
	b.observer.DropChecked(accepted)
	return accepted, nil
}

// Tick runs the tasks deferred since the last tick, which settles pending
// drops. It returns the number of tasks run.
func (b *Builder) Tick() int {
	return b.sched.Flush()
}

// Pending reports whether a Tick has work to do.
func (b *Builder) Pending() bool {
	return b.sched.Len() > 0
}

// Close stops the builder from accepting drops. Drops registered before
// Close still settle on the next Tick.
func (b *Builder) Close() {
	b.sched.Close()
}

func (b *Builder) settle(gesture string) {
	b.applied = nil
	root := b.value
	if root == nil {
		b.coord.Trap().Drain()
		return
	}
	out, applied := b.coord.Settle(root)
	if len(applied) == 0 || tree.Same(out, root) {
		b.logger.Debug("gesture settled without change", "gesture", gesture)
		return
	}
	b.applied = applied
	b.logger.Info("gesture settled", "gesture", gesture, "moves", len(applied))
	b.emit(out)
}

// settledMove reports whether the last settle applied the move stamped seq.
func (b *Builder) settledMove(seq int64) bool {
	for _, m := range b.applied {
		if m.Seq == seq {
			return true
		}
	}
	return false
}

func (b *Builder) emit(n tree.Node) {
	b.observer.Emitted()
	if b.logger.Enabled(context.Background(), slog.LevelDebug) {
		fp, _ := tree.Fingerprint(n)
		b.logger.Debug("emit", "fingerprint", fp)
	}
	if b.model {
		b.value = n
	}
	for _, fn := range b.listeners {
		fn(n)
	}
}

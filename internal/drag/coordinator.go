package drag

import (
	"log/slog"
	"sync"

	"github.com/roach88/querybuilder/internal/tree"
)

// Coordinator runs the two phases of a drag gesture.
//
// Drop is the registration phase: it checks legality and records the move
// in the Trap. The settle phase runs on the next Scheduler flush and calls
// the handler installed with OnSettle, which applies Settle to the current
// root and emits the result once.
type Coordinator struct {
	trap   *Trap
	sched  *Scheduler
	ids    IDGenerator
	logger *slog.Logger

	mu        sync.Mutex
	scheduled bool
	onSettle  func(gesture string)
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = l }
}

// WithIDGenerator sets the gesture ID source. The default is UUIDv7.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *Coordinator) { c.ids = g }
}

// WithScheduler runs settles on s instead of a private scheduler.
func WithScheduler(s *Scheduler) Option {
	return func(c *Coordinator) { c.sched = s }
}

// NewCoordinator creates a coordinator with its own Trap.
func NewCoordinator(opts ...Option) *Coordinator {
	c := &Coordinator{
		trap:   NewTrap(),
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sched == nil {
		c.sched = NewScheduler()
	}
	return c
}

// Trap returns the coordinator's trap.
func (c *Coordinator) Trap() *Trap { return c.trap }

// Scheduler returns the scheduler settles are queued on.
func (c *Coordinator) Scheduler() *Scheduler { return c.sched }

// OnSettle installs the settle handler. It receives the gesture ID.
func (c *Coordinator) OnSettle(fn func(gesture string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSettle = fn
}

// Drop registers m when CanAccept allows it at the destination and queues
// one settle for the next tick. It returns false, registering nothing, for
// an illegal drop, for a destination inside the dragged node, and once the
// scheduler is closed.
func (c *Coordinator) Drop(m Move, maxDepth *int) bool {
	if m.Node == nil || !CanAccept(m.Node, len(m.To)+1, maxDepth) {
		c.logger.Debug("drop refused",
			"from", m.From.String(),
			"to", m.To.String(),
			"height", tree.Height(m.Node))
		return false
	}
	if m.To.HasPrefix(m.From.Child(m.FromIndex)) {
		c.logger.Debug("drop refused",
			"from", m.From.String(),
			"to", m.To.String(),
			"reason", "destination inside dragged node")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sched.Closed() {
		c.logger.Warn("drop refused", "reason", "scheduler closed")
		return false
	}
	if !c.scheduled {
		if !c.sched.Defer(c.runSettle) {
			c.logger.Warn("drop refused", "reason", "scheduler closed")
			return false
		}
		c.scheduled = true
	}
	m = c.trap.Register(m)
	c.logger.Debug("drop registered",
		"seq", m.Seq,
		"from", m.From.String(),
		"from_index", m.FromIndex,
		"to", m.To.String(),
		"to_index", m.ToIndex,
		"adding", m.Adding)
	return true
}

func (c *Coordinator) runSettle() {
	c.mu.Lock()
	c.scheduled = false
	fn := c.onSettle
	c.mu.Unlock()

	gesture := c.ids.Generate()
	if fn == nil {
		// Nobody owns the tree; drop the registrations so they cannot leak
		// into a later gesture.
		dropped := c.trap.Drain()
		c.logger.Warn("settle without handler", "gesture", gesture, "dropped", len(dropped))
		return
	}
	fn(gesture)
}

// Settle drains the trap and applies each move to root in registration
// order. It returns the new root and the moves that were applied.
//
// A move is skipped, and logged, when its source no longer holds the
// registered node, when its destination lies inside the moved subtree, or
// when either path has left the tree.
func (c *Coordinator) Settle(root tree.Node) (tree.Node, []Move) {
	moves := c.trap.Drain()
	applied := make([]Move, 0, len(moves))
	for _, m := range moves {
		next, err := apply(root, m)
		if err != "" {
			c.logger.Warn("move skipped",
				"seq", m.Seq,
				"reason", err,
				"from", m.From.String(),
				"from_index", m.FromIndex,
				"to", m.To.String())
			continue
		}
		root = next
		applied = append(applied, m)
	}
	return root, applied
}

// apply performs one move. The returned reason is empty on success.
func apply(root tree.Node, m Move) (tree.Node, string) {
	src, ok := tree.At(root, m.From)
	if !ok {
		return root, "source group not found"
	}
	srcSet, ok := src.(tree.RuleSet)
	if !ok {
		return root, "source is not a group"
	}
	if m.FromIndex < 0 || m.FromIndex >= len(srcSet.Children) {
		return root, "source index out of range"
	}
	if !tree.Same(srcSet.Children[m.FromIndex], m.Node) {
		return root, "source changed since drop"
	}

	moved := m.From.Child(m.FromIndex)
	if m.To.HasPrefix(moved) {
		return root, "destination inside moved node"
	}

	removed, _ := tree.Update(root, m.From, func(n tree.Node) tree.Node {
		return tree.RemoveChild(n.(tree.RuleSet), m.FromIndex)
	})

	// Removing the node shifts later siblings left; a destination below one
	// of them moves with it.
	to := append(tree.Path(nil), m.To...)
	if len(to) > len(m.From) && to.HasPrefix(m.From) && to[len(m.From)] > m.FromIndex {
		to[len(m.From)]--
	}

	dst, ok := tree.At(removed, to)
	if !ok {
		return root, "destination group not found"
	}
	if _, ok := dst.(tree.RuleSet); !ok {
		return root, "destination is not a group"
	}
	inserted, _ := tree.Update(removed, to, func(n tree.Node) tree.Node {
		return tree.InsertChild(n.(tree.RuleSet), m.ToIndex, m.Node)
	})
	return inserted, ""
}

package drag

import (
	"sync"
	"sync/atomic"

	"github.com/roach88/querybuilder/internal/tree"
)

// Move is one registered drop.
type Move struct {
	From      tree.Path // source group
	FromIndex int
	To        tree.Path // destination group
	ToIndex   int

	// Node is the dragged node as the source group held it at drop time.
	// Settle refuses the move if the source has changed since.
	Node tree.Node

	// Adding is false for a reorder within one group.
	Adding bool

	// Seq orders registrations; stamped by Trap.Register.
	Seq int64
}

// Trap collects drops between the drop callback and the next settle.
//
// Each builder owns one Trap and hands it to every group it creates.
// Registration is safe from any goroutine; draining happens once per tick.
type Trap struct {
	mu      sync.Mutex
	pending []Move

	// seq is a monotonic logical clock. It survives Drain so sequence
	// numbers never repeat within one builder.
	seq atomic.Int64
}

// NewTrap creates an empty trap.
func NewTrap() *Trap {
	return &Trap{pending: make([]Move, 0, 4)}
}

// Register stamps m with the next sequence number and records it.
func (t *Trap) Register(m Move) Move {
	m.Adding = !m.From.Equal(m.To)

	t.mu.Lock()
	defer t.mu.Unlock()
	// Stamped under the lock so pending stays sorted by Seq.
	m.Seq = t.seq.Add(1)
	t.pending = append(t.pending, m)
	return m
}

// Last returns the sequence number of the most recent registration, 0
// before the first.
func (t *Trap) Last() int64 {
	return t.seq.Load()
}

// Drain returns the pending moves in registration order and clears them.
func (t *Trap) Drain() []Move {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.pending) == 0 {
		return nil
	}
	out := t.pending
	t.pending = make([]Move, 0, cap(out))
	return out
}

// Len returns the number of pending moves.
func (t *Trap) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

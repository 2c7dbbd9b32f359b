package drag

import "sync"

// Scheduler is a FIFO of deferred tasks run on the owner's tick.
//
// Tasks deferred while a flush is running wait for the next Flush, which is
// what makes "next tick" well defined: a settle scheduled from inside a
// settle never runs in the same pass.
type Scheduler struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make([]func(), 0, 8)}
}

// Defer queues fn. It returns false once the scheduler is closed.
func (s *Scheduler) Defer(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.tasks = append(s.tasks, fn)
	return true
}

// Flush runs every task queued before the call, in order, and returns how
// many ran.
func (s *Scheduler) Flush() int {
	s.mu.Lock()
	batch := s.tasks
	s.tasks = make([]func(), 0, cap(batch))
	s.mu.Unlock()

	for i, fn := range batch {
		batch[i] = nil
		fn()
	}
	return len(batch)
}

// Len returns the number of queued tasks.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Close stops further Defer calls. Queued tasks still run on Flush.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Scheduler) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

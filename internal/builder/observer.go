package builder

// Observer receives counters from a Builder. Implementations must be cheap;
// they run inline with every mutation.
type Observer interface {
	// ActionApplied is called once per dispatched action. emitted reports
	// whether the action produced a new tree.
	ActionApplied(action string, emitted bool)

	// DropChecked is called once per drop with the legality verdict.
	DropChecked(accepted bool)

	// Emitted is called once per emitted tree.
	Emitted()
}

type nopObserver struct{}

func (nopObserver) ActionApplied(string, bool) {}
func (nopObserver) DropChecked(bool)           {}
func (nopObserver) Emitted()                   {}

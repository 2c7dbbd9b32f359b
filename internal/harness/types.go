package harness

import "github.com/roach88/querybuilder/internal/tree"

// Trace event types.
const (
	EventStep    = "step"    // a flow step began
	EventEmit    = "emit"    // the builder emitted a tree
	EventOutcome = "outcome" // a flow step finished
)

// TraceEvent is one entry of a scenario trace.
type TraceEvent struct {
	Type string `json:"type"`
	Seq  int64  `json:"seq"`

	// Op and Args describe a step event.
	Op   string         `json:"op,omitempty"`
	Args map[string]any `json:"args,omitempty"`

	// Accepted, Error and Detail describe an outcome event. Error holds
	// the builder error code.
	Accepted *bool          `json:"accepted,omitempty"`
	Error    string         `json:"error,omitempty"`
	Detail   map[string]any `json:"detail,omitempty"`

	// Value is the emitted tree of an emit event.
	Value tree.Node `json:"value,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds every step, emission and outcome in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Emissions holds every emitted tree in order.
	Emissions []tree.Node `json:"emissions"`

	// Final is the builder value after the last step.
	Final tree.Node `json:"final"`

	seq int64
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Trace:     []TraceEvent{},
		Errors:    []string{},
		Emissions: []tree.Node{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) next() int64 {
	r.seq++
	return r.seq
}

// AddStepTrace records the start of a step.
func (r *Result) AddStepTrace(op string, args map[string]any) {
	r.Trace = append(r.Trace, TraceEvent{Type: EventStep, Seq: r.next(), Op: op, Args: args})
}

// AddEmitTrace records an emission.
func (r *Result) AddEmitTrace(n tree.Node) {
	r.Emissions = append(r.Emissions, n)
	r.Trace = append(r.Trace, TraceEvent{Type: EventEmit, Seq: r.next(), Value: n})
}

// AddOutcomeTrace records the end of a step.
func (r *Result) AddOutcomeTrace(accepted bool, code string, detail map[string]any) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:     EventOutcome,
		Seq:      r.next(),
		Accepted: &accepted,
		Error:    code,
		Detail:   detail,
	})
}

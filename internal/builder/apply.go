package builder

import (
	"errors"

	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

// Outcome is the verdict on one action of a batch.
type Outcome struct {
	Type     string `json:"type"`
	Accepted bool   `json:"accepted"`
	Error    string `json:"error,omitempty"`
	Emitted  int    `json:"emitted"`
}

// ApplyResult is what a batch of actions produced.
type ApplyResult struct {
	Value     tree.Node   `json:"value"`
	Emissions []tree.Node `json:"emissions"`
	Outcomes  []Outcome   `json:"outcomes"`
}

// Apply runs actions in order against a fresh model-mode builder over cfg
// and value. An action that cannot be routed is recorded in its outcome
// and the batch continues.
func Apply(cfg config.Config, value tree.Node, actions []Action, opts ...Option) *ApplyResult {
	b := New(cfg, value, append(opts, WithModel())...)
	defer b.Close()
	res := &ApplyResult{Emissions: []tree.Node{}, Outcomes: make([]Outcome, 0, len(actions))}
	b.OnChange(func(n tree.Node) { res.Emissions = append(res.Emissions, n) })

	for _, a := range actions {
		before := len(res.Emissions)
		ok, err := b.Dispatch(a)
		out := Outcome{Type: a.Type, Accepted: ok, Emitted: len(res.Emissions) - before}
		if err != nil {
			out.Error = codeOf(err)
		}
		res.Outcomes = append(res.Outcomes, out)
	}
	res.Value = b.Value()
	return res
}

func codeOf(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return string(be.Code)
	}
	return err.Error()
}

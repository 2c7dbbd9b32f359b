package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/querybuilder/internal/builder"
	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/group"
	"github.com/roach88/querybuilder/internal/testutil"
	"github.com/roach88/querybuilder/internal/tree"
)

// Harness is the scenario execution engine.
// It runs scenarios with a discard logger and sequential gesture IDs so
// traces are reproducible.
type Harness struct {
	builder *builder.Builder
	result  *Result
	logger  *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario gets a fresh builder in model mode: every emission becomes
// the next value, as it would for a caller bound to the output.
//
// Execution flow:
// 1. Load the configuration and the initial value
// 2. Execute flow steps, checking expect clauses
// 3. Evaluate assertions against the final state
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with the builder logging to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	cfg, err := loadConfig(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	value, err := loadValue(scenario)
	if err != nil {
		return nil, fmt.Errorf("failed to load value: %w", err)
	}

	result := NewResult()
	b := builder.New(cfg, value,
		builder.WithLogger(logger),
		builder.WithIDGenerator(testutil.NewSequentialIDGenerator("gesture")),
		builder.WithModel(),
	)
	b.OnChange(result.AddEmitTrace)

	defer b.Close()

	h := &Harness{builder: b, result: result, logger: logger}
	for i, step := range scenario.Flow {
		h.executeStep(i, step)
	}

	result.Final = b.Value()
	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func loadConfig(s *Scenario) (config.Config, error) {
	switch {
	case s.ConfigFile != "":
		return config.LoadFile(s.ConfigFile)
	case s.Config != nil:
		return config.Decode(s.Config)
	default:
		return config.Config{}, nil
	}
}

func loadValue(s *Scenario) (tree.Node, error) {
	switch {
	case s.ValueFile != "":
		return config.LoadTree(s.ValueFile)
	case s.Value != nil:
		return tree.Parse(s.Value)
	default:
		return nil, nil
	}
}

// executeStep runs one step, tracing it and checking its expect clause.
func (h *Harness) executeStep(i int, step FlowStep) {
	op, args := describe(step)
	h.result.AddStepTrace(op, args)
	before := len(h.result.Emissions)

	accepted, code, detail := h.perform(step)
	h.result.AddOutcomeTrace(accepted, code, detail)
	emitted := len(h.result.Emissions) - before

	h.logger.Info("flow step completed",
		"step", i,
		"op", op,
		"accepted", accepted,
		"error", code,
		"emitted", emitted,
	)

	exp := step.Expect
	if exp == nil {
		return
	}
	if exp.Accepted != nil && *exp.Accepted != accepted {
		h.result.AddError(fmt.Sprintf("flow[%d] %s: expected accepted=%t, got %t", i, op, *exp.Accepted, accepted))
	}
	if exp.Error != code && (exp.Error != "" || code != "") {
		h.result.AddError(fmt.Sprintf("flow[%d] %s: expected error %q, got %q", i, op, exp.Error, code))
	}
	if exp.Emitted != nil && *exp.Emitted != emitted {
		h.result.AddError(fmt.Sprintf("flow[%d] %s: expected %d emissions, got %d", i, op, *exp.Emitted, emitted))
	}
}

func (h *Harness) perform(step FlowStep) (bool, string, map[string]any) {
	b := h.builder
	switch {
	case step.Do != nil:
		ok, err := b.Dispatch(*step.Do)
		return ok, errorCode(err), nil

	case step.Drop != nil:
		from, err := tree.ParsePath(step.Drop.From)
		if err != nil {
			return false, string(builder.ErrCodeInvalidAction), nil
		}
		to, err := tree.ParsePath(step.Drop.To)
		if err != nil {
			return false, string(builder.ErrCodeInvalidAction), nil
		}
		ok, err := b.Drop(from, to, step.Drop.Index)
		return ok, errorCode(err), nil

	case step.Tick:
		return true, "", map[string]any{"tasks": b.Tick()}

	case step.Render:
		groups, rules := render(b.Root())
		return true, "", map[string]any{"groups": groups, "rules": rules}

	case step.SetConfig != nil:
		return b.SetConfigRaw(step.SetConfig), "", nil

	default:
		return b.SetValueRaw(step.SetValue), "", nil
	}
}

// render visits every controller and slot the way a view would while
// drawing the tree, and counts what it saw.
func render(c *group.Controller) (groups, rules int) {
	groups = 1
	_ = c.OperatorSlotProps()
	_ = c.ControlSlotProps()
	_ = c.DragOptions()
	_ = c.BorderColor()
	for i := 0; i < c.Len(); i++ {
		ch, _ := c.Child(i)
		if sub, ok := ch.Group(); ok {
			g, r := render(sub)
			groups += g
			rules += r
			continue
		}
		if rc, ok := ch.Rule(); ok {
			_ = rc.SlotProps()
			rules++
		}
	}
	return groups, rules
}

// describe returns the trace name and arguments of a step.
func describe(step FlowStep) (string, map[string]any) {
	switch {
	case step.Do != nil:
		return OpDo, actionArgs(*step.Do)
	case step.Drop != nil:
		return OpDrop, map[string]any{"from": step.Drop.From, "to": step.Drop.To, "index": step.Drop.Index}
	case step.Tick:
		return OpTick, nil
	case step.Render:
		return OpRender, nil
	case step.SetConfig != nil:
		return OpSetConfig, step.SetConfig
	default:
		return OpSetValue, map[string]any{"value": step.SetValue}
	}
}

func actionArgs(a builder.Action) map[string]any {
	args := map[string]any{"type": a.Type}
	if a.Path != "" {
		args["path"] = a.Path
	}
	if a.Column != "" {
		args["column"] = a.Column
	}
	if a.Value != nil {
		args["value"] = a.Value
	}
	if a.Condition != "" {
		args["condition"] = string(a.Condition)
	}
	if a.Operator != "" {
		args["operator"] = string(a.Operator)
	}
	if a.Type == builder.ActionMove {
		args["to"] = a.To
		args["toIndex"] = a.ToIndex
	}
	return args
}

func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var be *builder.Error
	if errors.As(err, &be) {
		return string(be.Code)
	}
	return "ERROR"
}

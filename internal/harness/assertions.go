package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/querybuilder/internal/tree"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nSteps:\n")
		for _, event := range e.Trace {
			if event.Type == EventStep {
				fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Op, event.Args)
			}
		}
	}
	return buf.String()
}

func assertEmitCount(result *Result, a Assertion) error {
	if got := len(result.Emissions); got != a.Count {
		return &AssertionError{
			Type:     AssertEmitCount,
			Expected: fmt.Sprintf("%d emissions", a.Count),
			Actual:   fmt.Sprintf("%d emissions", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertFinalValue(result *Result, a Assertion) error {
	return compareNode(AssertFinalValue, result.Final, a.Value, result.Trace)
}

func assertValueAt(result *Result, a Assertion) error {
	p, err := tree.ParsePath(a.Path)
	if err != nil {
		return fmt.Errorf("value_at: %w", err)
	}
	got, ok := tree.At(result.Final, p)
	if !ok {
		return &AssertionError{
			Type:     AssertValueAt,
			Expected: fmt.Sprintf("a node at %s", p),
			Actual:   "path leaves the tree",
			Trace:    result.Trace,
		}
	}
	return compareNode(AssertValueAt, got, a.Value, result.Trace)
}

func compareNode(kind string, got tree.Node, want any, trace []TraceEvent) error {
	var expected tree.Node
	if want != nil {
		n, err := tree.Parse(want)
		if err != nil {
			return fmt.Errorf("%s: expected value: %w", kind, err)
		}
		expected = n
	}
	if got == nil && expected == nil {
		return nil
	}
	if got == nil || expected == nil || !tree.Equal(got, expected) {
		return &AssertionError{
			Type:     kind,
			Expected: show(expected),
			Actual:   show(got),
			Trace:    trace,
		}
	}
	return nil
}

// show renders n as compact JSON for failure messages.
func show(n tree.Node) string {
	if n == nil {
		return "null"
	}
	data, err := tree.MarshalCanonical(n)
	if err != nil {
		return fmt.Sprintf("%v", n)
	}
	return string(data)
}

func assertMaxSetDepth(result *Result, a Assertion) error {
	deepest := tree.Depth(result.Final)
	if deepest > a.Count {
		return &AssertionError{
			Type:     AssertMaxSetDepth,
			Expected: fmt.Sprintf("no ruleset deeper than %d", a.Count),
			Actual:   fmt.Sprintf("ruleset at depth %d", deepest),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertTraceCount checks if the op appears exactly the specified number of times.
func assertTraceCount(result *Result, a Assertion) error {
	count := 0
	for _, event := range result.Trace {
		if event.Type == EventStep && event.Op == a.Op {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Op),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertTraceContains checks if the trace contains a step matching the op
// and args (subset match).
func assertTraceContains(result *Result, a Assertion) error {
	for _, event := range result.Trace {
		if event.Type == EventStep && event.Op == a.Op && matchArgs(event.Args, a.Args) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s with args %v", a.Op, a.Args),
		Actual:   "not found in trace",
		Trace:    result.Trace,
	}
}

// matchArgs checks if actual args contain all expected args (subset match).
// Extra keys in actual are ignored.
func matchArgs(actual, expected map[string]any) bool {
	for key, expectedVal := range expected {
		actualVal, exists := actual[key]
		if !exists {
			return false
		}
		if !reflect.DeepEqual(actualVal, expectedVal) {
			return false
		}
	}
	return true
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertEmitCount:
			err = assertEmitCount(result, assertion)
		case AssertFinalValue:
			err = assertFinalValue(result, assertion)
		case AssertValueAt:
			err = assertValueAt(result, assertion)
		case AssertMaxSetDepth:
			err = assertMaxSetDepth(result, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result, assertion)
		case AssertTraceContains:
			err = assertTraceContains(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	return errs
}

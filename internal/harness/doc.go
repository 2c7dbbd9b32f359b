// Package harness runs conformance scenarios against the query builder.
//
// A scenario loads a configuration and an initial tree, drives a
// builder.Builder through a flow of steps, and asserts on the emissions and
// the final value. Every run produces a trace that can be compared with a
// golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: delete_preserves_order
//	description: "Deleting a middle rule keeps its siblings in order"
//	config_file: ../configs/basic.yaml
//	value:
//	  comparator: AND
//	  children:
//	    - { column: name, value: A }
//	    - { column: name, value: B }
//	flow:
//	  - do: { type: delete, path: /1 }
//	    expect: { accepted: true, emitted: 1 }
//	  - drop: { from: /0, to: /, index: 2 }
//	  - tick: true
//	assertions:
//	  - type: emit_count
//	    count: 1
//	  - type: value_at
//	    path: /0
//	    value: { column: name, value: A }
//
// Steps are one of do (a builder.Action), drop, tick, render, set_config
// and set_value.
//
// # Assertion Types
//
//   - emit_count: exactly count emissions
//   - final_value: the final value equals value
//   - value_at: the node at path equals value
//   - max_set_depth: no RuleSet deeper than count
//   - trace_count: exactly count steps of op
//   - trace_contains: a step of op whose args contain args
//
// # Deterministic Testing
//
// The builder runs in model mode with a discard logger and sequential
// gesture IDs, so the same scenario always yields the same trace.
//
// Regenerate golden files with:
//
//	go test ./internal/harness -update
package harness

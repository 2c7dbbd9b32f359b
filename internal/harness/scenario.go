package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/querybuilder/internal/builder"
)

// Scenario drives a Builder through a flow of steps and asserts on the
// emissions and the final value.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is an inline configuration. ConfigFile points at a yaml, json
	// or cue configuration relative to the scenario file. At most one may
	// be set; with neither the builder starts with an empty configuration.
	Config     map[string]any `yaml:"config,omitempty"`
	ConfigFile string         `yaml:"config_file,omitempty"`

	// Value is the initial tree. ValueFile loads it from a file instead.
	// A missing or null value starts the builder unset.
	Value     any    `yaml:"value,omitempty"`
	ValueFile string `yaml:"value_file,omitempty"`

	// Flow contains the steps, executed in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one step. Exactly one of the operation fields must be set.
type FlowStep struct {
	// Do dispatches an action through Builder.Dispatch.
	Do *builder.Action `yaml:"do,omitempty"`

	// Drop registers a drag without settling it.
	Drop *DropStep `yaml:"drop,omitempty"`

	// Tick runs deferred work, settling pending drops.
	Tick bool `yaml:"tick,omitempty"`

	// Render walks the whole controller chain, as a view would.
	Render bool `yaml:"render,omitempty"`

	// SetConfig replaces the configuration with raw data.
	SetConfig map[string]any `yaml:"set_config,omitempty"`

	// SetValue replaces the value with a raw tree.
	SetValue any `yaml:"set_value,omitempty"`

	// Expect validates the step's outcome. If nil, nothing is checked.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// DropStep describes a drag from one path into a group.
type DropStep struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Index int    `yaml:"index"`
}

// ExpectClause specifies expected step behavior. Unset fields are not
// checked.
type ExpectClause struct {
	// Accepted is the expected boolean verdict of the step.
	Accepted *bool `yaml:"accepted,omitempty"`

	// Error is the expected builder error code, e.g. INVALID_PATH.
	Error string `yaml:"error,omitempty"`

	// Emitted is the expected number of emissions during the step.
	Emitted *int `yaml:"emitted,omitempty"`
}

// Assertion validates the final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "emit_count": exactly Count emissions
	// - "final_value": the final value equals Value
	// - "value_at": the node at Path equals Value
	// - "max_set_depth": no RuleSet deeper than Count
	// - "trace_count": exactly Count steps of Op
	// - "trace_contains": a step of Op whose args contain Args
	Type string `yaml:"type"`

	Op    string         `yaml:"op,omitempty"`
	Args  map[string]any `yaml:"args,omitempty"`
	Path  string         `yaml:"path,omitempty"`
	Value any            `yaml:"value,omitempty"`
	Count int            `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertEmitCount     = "emit_count"
	AssertFinalValue    = "final_value"
	AssertValueAt       = "value_at"
	AssertMaxSetDepth   = "max_set_depth"
	AssertTraceCount    = "trace_count"
	AssertTraceContains = "trace_contains"
)

// Step operation names, as they appear in traces.
const (
	OpDo        = "do"
	OpDrop      = "drop"
	OpTick      = "tick"
	OpRender    = "render"
	OpSetConfig = "set_config"
	OpSetValue  = "set_value"
)

// LoadScenario reads and parses a scenario YAML file. File references are
// resolved relative to the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving config_file and value_file relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, basePath)
}

// ParseScenario decodes scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte, basePath string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if basePath != "" {
		scenario.ConfigFile = resolve(basePath, scenario.ConfigFile)
		scenario.ValueFile = resolve(basePath, scenario.ValueFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Config != nil && s.ConfigFile != "" {
		return fmt.Errorf("config and config_file are mutually exclusive")
	}
	if s.Value != nil && s.ValueFile != "" {
		return fmt.Errorf("value and value_file are mutually exclusive")
	}
	for _, p := range []string{s.ConfigFile, s.ValueFile} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if n := step.ops(); n != 1 {
			return fmt.Errorf("flow[%d]: exactly one operation is required, got %d", i, n)
		}
		if step.Drop != nil && (step.Drop.From == "" || step.Drop.To == "") {
			return fmt.Errorf("flow[%d].drop: from and to are required", i)
		}
		if step.Do != nil && step.Do.Type == "" {
			return fmt.Errorf("flow[%d].do: type is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func (s FlowStep) ops() int {
	n := 0
	for _, set := range []bool{s.Do != nil, s.Drop != nil, s.Tick, s.Render, s.SetConfig != nil, s.SetValue != nil} {
		if set {
			n++
		}
	}
	return n
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEmitCount, AssertFinalValue:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertValueAt:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for value_at", index)
		}
	case AssertMaxSetDepth:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for max_set_depth", index)
		}
	case AssertTraceCount, AssertTraceContains:
		if a.Op == "" {
			return fmt.Errorf("assertions[%d]: op is required for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

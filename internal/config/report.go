package config

import (
	"github.com/roach88/querybuilder/internal/tree"
)

// Report is the combined verdict on a raw configuration and a raw tree
// value. It backs `qb validate` and POST /v1/validate.
type Report struct {
	ConfigValid *bool    `json:"config_valid,omitempty"`
	ValueValid  *bool    `json:"value_valid,omitempty"`
	Kind        string   `json:"kind,omitempty"`
	Errors      []string `json:"errors"`
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Errors: []string{}}
}

// CheckConfig validates raw configuration data and records the result.
func (r *Report) CheckConfig(raw any) {
	err := Validate(raw)
	ok := err == nil
	r.ConfigValid = &ok
	r.addErrors("config", err)
}

// CheckValue validates raw tree data as a builder value. Null is a valid
// unset value. A bare rule parses but cannot be the root.
func (r *Report) CheckValue(raw any) {
	ok := true
	switch {
	case raw == nil:
		r.Kind = "null"
	default:
		r.Kind = tree.Classify(raw).String()
		if err := ValidateTree(raw); err != nil {
			ok = false
			r.addErrors("value", err)
		} else if r.Kind == tree.KindRule.String() {
			ok = false
			r.Errors = append(r.Errors, "value: root must be a ruleset, got a rule")
		}
	}
	r.ValueValid = &ok
}

// Valid reports whether everything checked passed.
func (r *Report) Valid() bool {
	return (r.ConfigValid == nil || *r.ConfigValid) && (r.ValueValid == nil || *r.ValueValid)
}

func (r *Report) addErrors(prefix string, err error) {
	if err == nil {
		return
	}
	for _, e := range ValidationErrors(err) {
		r.Errors = append(r.Errors, prefix+": "+e.Error())
	}
}

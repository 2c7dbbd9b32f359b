package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/querybuilder/internal/builder"
	"github.com/roach88/querybuilder/internal/config"
	"github.com/roach88/querybuilder/internal/tree"
)

// Error codes of the CLI itself. File and validation failures reuse the
// config package codes (E0xx).
const (
	ErrCodeGeneric    = config.ErrCodeGeneric
	ErrCodeBadFlag    = "E020" // Missing or malformed flag
	ErrCodeBadActions = "E021" // Action file does not decode
	ErrCodeTestFailed = "E_TEST_FAILED"
)

// loadConfig loads a configuration file. An empty path yields the empty
// configuration.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Config{}, nil
	}
	return config.LoadFile(path)
}

// loadValue loads a tree file. An empty path or a null document yields
// nil.
func loadValue(path string) (tree.Node, error) {
	if path == "" {
		return nil, nil
	}
	return config.LoadTree(path)
}

// loadActions decodes a YAML (or JSON) list of actions. Unknown fields are
// rejected so a misspelled key does not silently become a no-op.
func loadActions(path string) ([]builder.Action, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &config.LoadError{Code: config.ErrCodeNotFound, Message: fmt.Sprintf("reading actions: %v", err), Err: err}
		}
		r = bytes.NewReader(data)
	}

	var actions []builder.Action
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&actions); err != nil && !errors.Is(err, io.EOF) {
		return nil, &config.LoadError{Code: ErrCodeBadActions, Message: fmt.Sprintf("decoding actions: %v", err), Err: err}
	}
	for i, a := range actions {
		if a.Type == "" {
			return nil, &config.LoadError{Code: ErrCodeBadActions, Message: fmt.Sprintf("actions[%d]: type is required", i)}
		}
	}
	return actions, nil
}

// loadFailure reports err through f. Files that cannot be found or read
// are command errors; content that fails validation is a failure.
func loadFailure(f *OutputFormatter, err error) error {
	var le *config.LoadError
	if !errors.As(err, &le) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	exit := ExitCommandError
	switch le.Code {
	case config.ErrCodeInvalidConfig, config.ErrCodeInvalidTree, config.ErrCodeDecodeFailed:
		exit = ExitFailure
	}
	return f.Fail(exit, le.Code, le.Message, validationDetails(le.Err))
}

// validationDetails lists the individual failures inside err, if any.
func validationDetails(err error) []string {
	errs := config.ValidationErrors(err)
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}

// printTree writes n as indented JSON, or "null".
func printTree(w io.Writer, n tree.Node) {
	if n == nil {
		fmt.Fprintln(w, "null")
		return
	}
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "%v\n", n)
		return
	}
	fmt.Fprintln(w, string(data))
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/roach88/querybuilder/internal/tree"
)

var initialValueType = reflect.TypeOf((*InitialValue)(nil)).Elem()

// Decode turns raw configuration data into a Config. The data is validated
// first, so a nil error guarantees IsQueryBuilderConfig(x).
//
// Values loaded from files can only carry literal initial values; factories
// are set by Go callers on the typed Config.
func Decode(x any) (Config, error) {
	if c, ok := asConfig(x); ok {
		return c, Validate(c)
	}
	if err := Validate(x); err != nil {
		return Config{}, err
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(literalHook),
		Result:     &cfg,
	})
	if err != nil {
		return Config{}, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(x); err != nil {
		return Config{}, &LoadError{Code: ErrCodeDecodeFailed, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// literalHook wraps any raw initialValue in a Literal so it fits the
// InitialValue interface.
func literalHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != initialValueType {
		return data, nil
	}
	if iv, ok := data.(InitialValue); ok {
		return iv, nil
	}
	return Literal{Value: data}, nil
}

// ReadFile loads raw data from a .yaml, .yml, .json or .cue file. The
// result is shaped like encoding/json output: maps, slices, float64
// numbers, strings, bools and nil.
func ReadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("file not found: %s", path), Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", path, err), Err: err}
	}
	return ReadBytes(data, filepath.Ext(path), path)
}

// ReadBytes is ReadFile for in-memory data. ext selects the format and
// includes the leading dot. name is used in error positions only.
func ReadBytes(data []byte, ext, name string) (any, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing YAML %s: %v", name, err), Err: err}
		}
		return normalize(raw)
	case ".json":
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing JSON %s: %v", name, err), Err: err}
		}
		return raw, nil
	case ".cue":
		return readCUE(data, name)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported file type %q (want .yaml, .json or .cue)", ext)}
	}
}

func readCUE(data []byte, name string) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(err, "compiling CUE")
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(err, "evaluating CUE")
	}
	out, err := v.MarshalJSON()
	if err != nil {
		return nil, cueLoadError(err, "exporting CUE")
	}
	var raw any
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: err.Error(), Err: err}
	}
	return raw, nil
}

func cueLoadError(err error, what string) *LoadError {
	le := &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("%s: %v", what, err), Err: err}
	if pos := cueerrors.Positions(err); len(pos) > 0 {
		le.Pos = pos[0]
	}
	return le
}

// normalize round-trips YAML output through JSON so numbers and maps match
// the other decoders.
func normalize(raw any) (any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("normalizing: %v", err), Err: err}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("normalizing: %v", err), Err: err}
	}
	return out, nil
}

// LoadFile reads, validates and decodes a configuration file.
func LoadFile(path string) (Config, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(raw)
	if err != nil {
		if IsLoadError(err, "") {
			return Config{}, err
		}
		return Config{}, &LoadError{Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("%s: %v", path, err), Err: err}
	}
	return cfg, nil
}

// LoadTree reads a tree value file and parses it. A file holding null
// yields a nil Node.
func LoadTree(path string) (tree.Node, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	n, err := tree.Parse(raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeInvalidTree, Message: fmt.Sprintf("%s: %v", path, err), Err: err}
	}
	return n, nil
}

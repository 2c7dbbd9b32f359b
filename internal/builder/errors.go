package builder

import (
	"errors"
	"fmt"

	"github.com/roach88/querybuilder/internal/tree"
)

// Error reports a caller contract violation: an address that does not
// exist, an action of the wrong shape. Rejected mutations are not errors;
// they return false.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the offending address, if any.
	Path tree.Path
}

// ErrorCode categorizes builder errors.
type ErrorCode string

const (
	// ErrCodeInvalidPath indicates a path that leaves the tree.
	ErrCodeInvalidPath ErrorCode = "INVALID_PATH"

	// ErrCodeWrongKind indicates a path to a rule where a group was
	// expected, or the reverse.
	ErrCodeWrongKind ErrorCode = "WRONG_KIND"

	// ErrCodeInvalidAction indicates an unknown action type or a missing
	// argument.
	ErrCodeInvalidAction ErrorCode = "INVALID_ACTION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != nil {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsPathError returns true for INVALID_PATH and WRONG_KIND errors.
// Uses errors.As to handle wrapped errors.
func IsPathError(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidPath || be.Code == ErrCodeWrongKind
	}
	return false
}

// IsActionError returns true if the error is an INVALID_ACTION error.
func IsActionError(err error) bool {
	var be *Error
	if errors.As(err, &be) {
		return be.Code == ErrCodeInvalidAction
	}
	return false
}

func invalidPath(p tree.Path, format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidPath, Message: fmt.Sprintf(format, args...), Path: p}
}

func wrongKind(p tree.Path, format string, args ...any) *Error {
	return &Error{Code: ErrCodeWrongKind, Message: fmt.Sprintf(format, args...), Path: p}
}

func invalidAction(format string, args ...any) *Error {
	return &Error{Code: ErrCodeInvalidAction, Message: fmt.Sprintf(format, args...)}
}

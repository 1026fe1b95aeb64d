// Package errors provides domain-specific errors for the spork application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common domain error conditions.
var (
	ErrEmptyRequest         = errors.New("feature request is empty")
	ErrRequestTooLong       = errors.New("feature request exceeds 500 characters")
	ErrUnusableRequest      = errors.New("feature request contains no usable characters")
	ErrNotARepository       = errors.New("not a git repository")
	ErrNoPrimaryBranch      = errors.New("neither 'main' nor 'master' branch found")
	ErrRemoteFetchFailed    = errors.New("remote fetch failed")
	ErrNumberSpaceExhausted = errors.New("feature number space exhausted")
	ErrNameCollision        = errors.New("branch name already exists")
	ErrPathCollision        = errors.New("worktree path already exists")
	ErrPermissionDenied     = errors.New("permission denied")
)

// ErrorCode categorizes errors for handling and exit-code mapping.
type ErrorCode string

const (
	CodeValidation ErrorCode = "VALIDATION"
	CodeGit        ErrorCode = "GIT"
	CodeInput      ErrorCode = "INPUT"
	CodeInternal   ErrorCode = "INTERNAL"
)

// Process exit codes. The assistant's own exit code is passed through on
// success, so these only apply to failures raised by spork itself.
const (
	ExitOK         = 0
	ExitValidation = 1
	ExitGit        = 2
	ExitInput      = 3
	ExitInternal   = 4
)

// ExitCode returns the process exit code for the error category.
func (c ErrorCode) ExitCode() int {
	switch c {
	case CodeValidation:
		return ExitValidation
	case CodeGit:
		return ExitGit
	case CodeInput:
		return ExitInput
	default:
		return ExitInternal
	}
}

// SporkError wraps errors with a category, a user-facing message, and an
// optional remediation suggestion.
type SporkError struct {
	Code       ErrorCode
	Message    string
	Suggestion string
	Cause      error
}

// Error returns a formatted error string including the message and cause if present.
func (e *SporkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause error for use with errors.Is and errors.As.
func (e *SporkError) Unwrap() error {
	return e.Cause
}

// WithSuggestion attaches a remediation suggestion and returns the error.
func (e *SporkError) WithSuggestion(suggestion string) *SporkError {
	e.Suggestion = suggestion
	return e
}

// NewError creates a new SporkError with the given code, message, and optional cause.
func NewError(code ErrorCode, message string, cause error) *SporkError {
	return &SporkError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ExitCodeFor maps any error to a process exit code. Errors that are not
// SporkError values are unclassified.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *SporkError
	if errors.As(err, &se) {
		return se.Code.ExitCode()
	}
	return ExitInternal
}

// SuggestionFor returns the remediation suggestion carried by err, if any.
func SuggestionFor(err error) string {
	var se *SporkError
	if errors.As(err, &se) {
		return se.Suggestion
	}
	return ""
}

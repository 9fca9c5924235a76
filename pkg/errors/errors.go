// Package errors defines the sentinel errors shared across the pipeline and
// a wrapper that carries a process exit code for the CLI.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyRun is returned when a stage runner is invoked a second
	// time. Runners transition Unbuilt -> Built (or Failed) exactly once.
	ErrAlreadyRun = errors.New("stage has already run")

	// ErrInvalidConfig marks configuration rejected at load time.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedArtifact marks a postings, matrix, or query table that
	// does not match its declared shape.
	ErrMalformedArtifact = errors.New("malformed artifact")

	// ErrUnknownDocument marks a posting that references a document id
	// outside the declared universe.
	ErrUnknownDocument = errors.New("document id outside universe")

	// ErrInvalidInput marks rejected caller input.
	ErrInvalidInput = errors.New("invalid input")
)

// AppError attaches context and an exit code to a sentinel error.
type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New wraps a sentinel error with a message and exit code.
func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

// Newf wraps a sentinel error with a formatted message and exit code.
func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// ExitCode maps an error to the process exit code the CLI should use.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}
	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrInvalidInput):
		return 2
	case errors.Is(err, ErrAlreadyRun):
		return 3
	case errors.Is(err, ErrMalformedArtifact), errors.Is(err, ErrUnknownDocument):
		return 4
	default:
		return 1
	}
}

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrProjectNotFound     = errors.New("project not found")
	ErrUnsupportedFormat   = errors.New("unsupported export format")
	ErrEncoderNotInstalled = errors.New("lossy export requires an external encoder (ffmpeg or lame)")
)

// Is reports whether any error in err's chain matches target. It exists
// so callers of this package don't need a second errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Invalidf wraps ErrInvalidInput with caller context so call sites can match
// the sentinel with errors.Is while still reporting what was passed in.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// EncodeError represents a failure in an external encoder process
type EncodeError struct {
	Tool     string // "ffmpeg" or "lame"
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *EncodeError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed (exit %d): %s", e.Tool, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%s failed (exit %d)", e.Tool, e.ExitCode)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// NewEncodeError creates an EncodeError
func NewEncodeError(tool string, exitCode int, stderr string, cause error) *EncodeError {
	return &EncodeError{
		Tool:     tool,
		ExitCode: exitCode,
		Stderr:   stderr,
		Cause:    cause,
	}
}

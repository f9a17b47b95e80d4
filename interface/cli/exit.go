package cli

import (
	"errors"
	"fmt"

	"github.com/ca-srg/propertime/domain"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The input was rejected (malformed, ambiguous, unknown zone, ...)
	ExitCommandError = 2 // Usage, storage or file errors
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Errors that did not come from a command (flag and argument parsing)
// are usage errors.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// IsReported reports whether the error was already printed by a presenter.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}

func exitCodeFor(err error) int {
	switch domain.GetErrorCode(err) {
	case domain.ErrCodeRepository, domain.ErrCodeExport, domain.ErrCodeFileOperation:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

package cli

import "fmt"

// Exit codes for the changelog CLI
// These codes are stable so scripts and CI pipelines can branch on them
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure: unreadable input, a failed
	// parse, a failed merge or a validation that found errors
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or flags
	ExitInvalidArguments = 2

	// ExitConfigError indicates the configuration could not be loaded
	ExitConfigError = 3
)

// ExitError carries an explicit exit code for a failure the command has
// already reported to the user. Execute prints nothing for it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

package cmd

import "fmt"

// Exit codes for respvar CLI
const (
	// ExitSuccess indicates every variable was extracted or resolved
	ExitSuccess = 0

	// ExitExtractFailure indicates an expression failed to evaluate or a
	// looked up variable is undefined
	ExitExtractFailure = 1

	// ExitParseError indicates the response body is not valid JSON
	ExitParseError = 2

	// ExitConfigError indicates a configuration error or rejected rules
	ExitConfigError = 3

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries an exit code out of a command. err may be nil when the
// command has already reported the problem.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

package cli

import (
	"github.com/organvm/fmlint/internal/cli/shared"
)

// Exit codes for the fmlint CLI (re-exported from shared)
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates every document is valid
	ExitSuccess = shared.ExitSuccess

	// ExitValidationFailed indicates at least one violation or unreadable document
	ExitValidationFailed = shared.ExitValidationFailed

	// ExitInvalidArguments indicates invalid flags, config or schema
	ExitInvalidArguments = shared.ExitInvalidArguments

	// ExitMissingDependencies indicates the schema file or documents are missing
	ExitMissingDependencies = shared.ExitMissingDependency
)

// NewExitError creates a new exit error with the given code (re-exported from shared).
func NewExitError(code int) error {
	return shared.NewExitError(code)
}

// ExitCode returns the exit code from an error (re-exported from shared).
func ExitCode(err error) int {
	return shared.ExitCode(err)
}

func isExitError(err error) bool {
	return shared.IsExitError(err)
}

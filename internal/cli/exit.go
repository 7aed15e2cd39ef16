package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/user/metric_plotter_go/internal/config"
	"github.com/user/metric_plotter_go/internal/parser"
)

// Exit codes for semantic error classification.
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess      = 0  // Command completed successfully
	ExitGeneralError = 1  // Unknown or unclassified error
	ExitUsageError   = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic        = 3  // Internal panic (unexpected crash)
	ExitConfigError  = 10 // Invalid configuration or flag values
	ExitSchemaError  = 11 // Results table lacks a required column
	ExitParseError   = 12 // A cell could not be parsed
	ExitIOError      = 13 // File missing or unreadable
)

// ErrUsage marks command line misuse: unknown flags, bad flag syntax, wrong
// argument counts and missing required flags.
var ErrUsage = errors.New("usage error")

type usageError struct{ err error }

func (e *usageError) Error() string        { return e.err.Error() }
func (e *usageError) Unwrap() error        { return e.err }
func (e *usageError) Is(target error) bool { return target == ErrUsage }

func newUsageError(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return newUsageError(validate(cmd, args))
	}
}

// ExitCodeForError returns the appropriate exit code for an error.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, parser.ErrSchema):
		return ExitSchemaError
	case errors.Is(err, parser.ErrParse):
		return ExitParseError
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return ExitIOError
	}
	return ExitGeneralError
}

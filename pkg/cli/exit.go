// Package cli provides the expectrun command and its exit code policy.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	ExitPass = 0
	ExitFail = 1
	// ExitUsage follows the sysexits EX_USAGE convention.
	ExitUsage = 64
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("invalid usage")

// ExitError carries the process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for an error returned by the command.
func ExitCode(err error) int {
	if err == nil {
		return ExitPass
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrUsage) {
		return ExitUsage
	}

	return ExitFail
}

// Execute runs the root command and returns the exit code for the process.
func Execute() int {
	cmd := NewRootCmd()
	cmd.SetArgs(os.Args[1:])
	return execute(cmd)
}

func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if errors.Is(err, ErrUsage) {
		printUsage(cmd, err)
	}
	return ExitCode(err)
}

func printUsage(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Usage: %s\n\n", cmd.UseLine())
	fmt.Fprintf(out, "Flags:\n%s", cmd.LocalFlags().FlagUsages())
}

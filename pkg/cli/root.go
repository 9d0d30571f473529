package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	utilexec "k8s.io/utils/exec"

	"github.com/mcpchecker/expectrun/pkg/compare"
	"github.com/mcpchecker/expectrun/pkg/harness"
	"github.com/mcpchecker/expectrun/pkg/logging"
)

// stderrToken selects stderr when given as the fourth positional argument.
const stderrToken = "-e"

type rootOptions struct {
	stderr  bool
	timeout time.Duration
	noColor bool
	verbose bool
}

// NewRootCmd creates the expectrun command
func NewRootCmd() *cobra.Command {
	return newRootCmd(nil)
}

func newRootCmd(exec utilexec.Interface) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "expectrun [flags] <interpreter> <script_to_test> <expect> [-e]",
		Short: "Run a script and compare its output with expectations embedded in it",
		Long: `expectrun runs <interpreter> <script_to_test> and compares the output with the
lines of the script that start with the <expect> prefix.

Each matching line, with the prefix removed and whitespace trimmed, is one
expected line of output. Blank output lines are ignored. If the first
expectation is ERROR!<code> and the interpreter exits with a non-zero status,
only the exit status is checked.

Flags must come before <interpreter>. Everything after it is positional, so
prefixes that start with a dash need no quoting tricks and a fourth argument
of exactly -e selects stderr. Further arguments are ignored.

Exits with code 0 when the test passes, 1 when it fails, and 64 when the
command line is malformed.`,
		Example: `  expectrun clox test/print.lox "// expect:"
  expectrun python3 tests/errors.py "# expect:" -e
  expectrun lua tests/table.lua "-- expect:" -e
  expectrun --timeout 10s clox test/loop.lox "// expect:"`,
		Args:          validateArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd, exec, opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.stderr, "stderr", "e", false, "Compare against the interpreter's stderr instead of stdout")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Kill the interpreter and its children after this duration (0 waits forever)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Write diagnostics to stderr")

	cmd.Flags().SetInterspersed(false)

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	return cmd
}

func validateArgs(_ *cobra.Command, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: requires at least 3 arguments, received %d", ErrUsage, len(args))
	}
	return nil
}

func runTest(cmd *cobra.Command, exec utilexec.Interface, opts *rootOptions, args []string) error {
	if opts.timeout < 0 {
		return fmt.Errorf("%w: --timeout must not be negative", ErrUsage)
	}
	if opts.noColor {
		color.NoColor = true
	}

	inv := harness.Invocation{
		Interpreter: args[0],
		Script:      args[1],
		Prefix:      args[2],
		Stream:      compare.Stdout,
		Timeout:     opts.timeout,
	}
	if opts.stderr || (len(args) > 3 && args[3] == stderrToken) {
		inv.Stream = compare.Stderr
	}

	logger := logging.New(logging.Config{
		Verbose: opts.verbose,
		Output:  cmd.ErrOrStderr(),
	})
	defer func() { _ = logger.Sync() }()

	report := newReporter(cmd.OutOrStdout())
	report.start(inv.Script)

	outcome, err := harness.NewRunner(exec, logger).Run(cmd.Context(), inv)
	if err != nil {
		report.harnessError(err)
		return &ExitError{Code: ExitFail, Err: err}
	}

	report.outcome(outcome)
	if outcome.Status != compare.Pass {
		// silent error (SilenceErrors: true), carries the exit code
		return &ExitError{Code: outcome.ExitCode(), Err: errors.New("test " + outcome.Status.String())}
	}

	return nil
}

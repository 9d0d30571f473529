// Package invoke runs an interpreter against a script and captures its output.
package invoke

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	utilexec "k8s.io/utils/exec"
)

var ErrTimeout = errors.New("interpreter timed out")

// Result holds the fully buffered output of one interpreter run.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Invoker starts interpreter processes through an exec.Interface so tests can
// substitute a fake.
type Invoker struct {
	exec   utilexec.Interface
	logger *zap.Logger
}

// New returns an Invoker. A nil exec uses the host's process table and a nil
// logger discards diagnostics.
func New(exec utilexec.Interface, logger *zap.Logger) *Invoker {
	if exec == nil {
		exec = hostExec{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Invoker{
		exec:   exec,
		logger: logger,
	}
}

// Run executes interpreter with script as its only argument and blocks until
// the process exits. A non-zero exit is reported in the Result, not as an
// error; errors are reserved for processes that could not be started or were
// stopped by ctx.
func (i *Invoker) Run(ctx context.Context, interpreter, script string) (*Result, error) {
	cmd := i.exec.CommandContext(ctx, interpreter, script)

	var stdout, stderr bytes.Buffer
	cmd.SetStdout(&stdout)
	cmd.SetStderr(&stderr)

	i.logger.Debug("starting interpreter",
		zap.String("interpreter", interpreter),
		zap.String("script", script),
	)

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w after %s", ErrTimeout, duration.Round(time.Millisecond))
			}
			return nil, fmt.Errorf("interpreter stopped: %w", ctxErr)
		}

		var exitErr utilexec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", interpreter, runErr)
		}
		exitCode = exitErr.ExitStatus()
	}

	i.logger.Debug("interpreter exited",
		zap.Int("exitCode", exitCode),
		zap.Duration("duration", duration),
		zap.Int("stdoutBytes", stdout.Len()),
		zap.Int("stderrBytes", stderr.Len()),
	)

	return &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exitCode,
		Duration: duration,
	}, nil
}

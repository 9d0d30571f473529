// Package harness runs a single script against an interpreter and compares the
// output with the expectations embedded in the script.
package harness

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	utilexec "k8s.io/utils/exec"

	"github.com/mcpchecker/expectrun/pkg/compare"
	"github.com/mcpchecker/expectrun/pkg/expect"
	"github.com/mcpchecker/expectrun/pkg/invoke"
)

// Invocation describes one test run.
type Invocation struct {
	Interpreter string
	Script      string
	Prefix      string
	Stream      compare.Stream
	// Timeout of zero lets the interpreter run until it exits.
	Timeout time.Duration
}

func (inv Invocation) Validate() error {
	if inv.Interpreter == "" {
		return fmt.Errorf("interpreter must not be empty")
	}
	if inv.Script == "" {
		return fmt.Errorf("script path must not be empty")
	}
	if inv.Prefix == "" {
		return expect.ErrEmptyPrefix
	}
	if inv.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", inv.Timeout)
	}
	return nil
}

type Runner struct {
	invoker *invoke.Invoker
	logger  *zap.Logger
}

// NewRunner returns a Runner that starts processes through exec. Either
// argument may be nil.
func NewRunner(exec utilexec.Interface, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		invoker: invoke.New(exec, logger),
		logger:  logger,
	}
}

// Run executes inv. The returned error covers problems with the harness
// itself (unreadable script, interpreter that cannot start, timeout); test
// failures are reported through the Outcome.
func (r *Runner) Run(ctx context.Context, inv Invocation) (compare.Outcome, error) {
	if err := inv.Validate(); err != nil {
		return compare.Outcome{}, err
	}

	expected, err := expect.ReadFile(inv.Script, inv.Prefix)
	if err != nil {
		return compare.Outcome{}, err
	}

	r.logger.Debug("extracted expectations",
		zap.String("script", inv.Script),
		zap.Int("count", len(expected)),
	)

	if len(expected) == 0 {
		return compare.Abort(), nil
	}

	if inv.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, inv.Timeout)
		defer cancel()
	}

	res, err := r.invoker.Run(ctx, inv.Interpreter, inv.Script)
	if err != nil {
		return compare.Outcome{}, err
	}

	outcome := compare.Compare(expected, res, inv.Stream)

	fields := []zap.Field{
		zap.Stringer("status", outcome.Status),
		zap.Duration("duration", res.Duration),
	}
	if outcome.Mode == compare.ReturnCodeMode {
		fields = append(fields,
			zap.Int("expectedCode", outcome.ExpectedCode),
			zap.Int("actualCode", outcome.ActualCode),
		)
	} else {
		fields = append(fields,
			zap.Stringer("stream", inv.Stream),
			zap.Strings("expected", outcome.Expected),
			zap.Strings("actual", outcome.Actual),
		)
	}
	r.logger.Debug("compared output", fields...)

	return outcome, nil
}

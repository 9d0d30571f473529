package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mcpchecker/expectrun/pkg/compare"
)

// reporter prints the human readable test report
type reporter struct {
	out    io.Writer
	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

func newReporter(out io.Writer) *reporter {
	return &reporter{
		out:    out,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}
}

func (r *reporter) start(script string) {
	fmt.Fprintf(r.out, "Running test: %s\n", script)
}

func (r *reporter) outcome(outcome compare.Outcome) {
	switch outcome.Status {
	case compare.Pass:
		_, _ = r.green.Fprintln(r.out, "PASS")
	case compare.Aborted:
		_, _ = r.yellow.Fprintln(r.out, outcome.Reason)
	default:
		_, _ = r.red.Fprintf(r.out, "FAIL: %s\n", outcome.Reason)
	}
}

func (r *reporter) harnessError(err error) {
	_, _ = r.red.Fprintf(r.out, "ERROR: %v\n", err)
}

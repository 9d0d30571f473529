// Package compare decides whether an interpreter run matches the expectations
// embedded in its script.
package compare

import (
	"fmt"
	"strings"

	"github.com/mcpchecker/expectrun/pkg/expect"
	"github.com/mcpchecker/expectrun/pkg/invoke"
)

const AbortReason = "No expected result provided. Test aborted"

// Stream selects which captured output is compared.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

type Status int

const (
	Pass Status = iota
	Fail
	Aborted
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

type Mode int

const (
	StreamMode Mode = iota
	ReturnCodeMode
)

// Outcome is the verdict for a single run.
type Outcome struct {
	Status Status
	Mode   Mode
	Reason string

	Expected []string
	Actual   []string
	// Index is the first differing position, or -1.
	Index int

	ExpectedCode int
	ActualCode   int
}

// ExitCode maps the outcome to the harness exit status.
func (o Outcome) ExitCode() int {
	if o.Status == Pass {
		return 0
	}
	return 1
}

// Abort returns the outcome for a script without expectations.
func Abort() Outcome {
	return Outcome{
		Status: Aborted,
		Reason: AbortReason,
		Index:  -1,
	}
}

// Compare checks res against expected. When the process failed and the first
// expectation is a return code marker only the exit codes are compared;
// otherwise the selected stream must match expected line for line.
func Compare(expected []string, res *invoke.Result, stream Stream) Outcome {
	if len(expected) == 0 {
		return Abort()
	}

	if res.ExitCode != 0 {
		if code, ok := expect.ParseReturnCode(expected[0]); ok {
			return compareReturnCode(code, res.ExitCode)
		}
	}

	output := res.Stdout
	if stream == Stderr {
		output = res.Stderr
	}

	return compareLines(expected, Lines(output))
}

// Lines splits output into trimmed, non-empty lines.
func Lines(output []byte) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func compareReturnCode(expected, actual int) Outcome {
	outcome := Outcome{
		Status:       Pass,
		Mode:         ReturnCodeMode,
		Index:        -1,
		ExpectedCode: expected,
		ActualCode:   actual,
	}
	if expected != actual {
		outcome.Status = Fail
		outcome.Reason = fmt.Sprintf("Expected return code %d, Actual %d", expected, actual)
	}
	return outcome
}

func compareLines(expected, actual []string) Outcome {
	outcome := Outcome{
		Status:   Pass,
		Mode:     StreamMode,
		Expected: expected,
		Actual:   actual,
		Index:    -1,
	}

	if len(expected) != len(actual) {
		outcome.Status = Fail
		outcome.Reason = fmt.Sprintf("Expect: %q, Actual: %q", expected, actual)
		return outcome
	}

	for i := range expected {
		if expected[i] != actual[i] {
			outcome.Status = Fail
			outcome.Index = i
			outcome.Reason = fmt.Sprintf("Expect %q, Actual %q (line %d)", expected[i], actual[i], i+1)
			return outcome
		}
	}

	return outcome
}

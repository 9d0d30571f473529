package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcpchecker/expectrun/pkg/invoke"
)

func TestLines(t *testing.T) {
	tt := map[string]struct {
		output   string
		expected []string
	}{
		"trailing newline":       {output: "hello\nworld\n", expected: []string{"hello", "world"}},
		"no trailing newline":    {output: "hi", expected: []string{"hi"}},
		"crlf":                   {output: "a\r\nb\r\n", expected: []string{"a", "b"}},
		"blank lines dropped":    {output: "\n\na\n\n\nb\n", expected: []string{"a", "b"}},
		"whitespace only lines":  {output: "a\n   \n\t\nb", expected: []string{"a", "b"}},
		"surrounding whitespace": {output: "  padded  \n", expected: []string{"padded"}},
		"empty":                  {output: "", expected: []string{}},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, Lines([]byte(tc.output)))
		})
	}
}

func TestCompare(t *testing.T) {
	tt := map[string]struct {
		expected []string
		result   *invoke.Result
		stream   Stream
		status   Status
		mode     Mode
		index    int
		reason   string
	}{
		"stdout matches": {
			expected: []string{"hello", "world"},
			result:   &invoke.Result{Stdout: []byte("hello\nworld\n")},
			status:   Pass,
			index:    -1,
		},
		"stderr matches": {
			expected: []string{"oops"},
			result:   &invoke.Result{Stdout: []byte("ignored\n"), Stderr: []byte("oops\n"), ExitCode: 70},
			stream:   Stderr,
			status:   Pass,
			index:    -1,
		},
		"stderr selected but stdout has the text": {
			expected: []string{"hello"},
			result:   &invoke.Result{Stdout: []byte("hello\n")},
			stream:   Stderr,
			status:   Fail,
			index:    -1,
			reason:   `Expect: ["hello"], Actual: []`,
		},
		"length mismatch reports both sequences": {
			expected: []string{"hello"},
			result:   &invoke.Result{Stdout: []byte("hello\nextra\n")},
			status:   Fail,
			index:    -1,
			reason:   `Expect: ["hello"], Actual: ["hello" "extra"]`,
		},
		"value mismatch": {
			expected: []string{"hello"},
			result:   &invoke.Result{Stdout: []byte("hi")},
			status:   Fail,
			index:    0,
			reason:   `Expect "hello", Actual "hi" (line 1)`,
		},
		"first mismatch wins": {
			expected: []string{"a", "b", "c", "d"},
			result:   &invoke.Result{Stdout: []byte("a\nB\nc\nD\n")},
			status:   Fail,
			index:    1,
			reason:   `Expect "b", Actual "B" (line 2)`,
		},
		"return code matches regardless of output": {
			expected: []string{"ERROR!64", "not compared"},
			result:   &invoke.Result{Stdout: []byte("whatever\n"), ExitCode: 64},
			status:   Pass,
			mode:     ReturnCodeMode,
			index:    -1,
		},
		"return code mismatch": {
			expected: []string{"ERROR!64"},
			result:   &invoke.Result{ExitCode: 70},
			status:   Fail,
			mode:     ReturnCodeMode,
			index:    -1,
			reason:   "Expected return code 64, Actual 70",
		},
		"marker ignored on zero exit": {
			expected: []string{"ERROR!64"},
			result:   &invoke.Result{Stdout: []byte("fine\n")},
			status:   Fail,
			index:    0,
			reason:   `Expect "ERROR!64", Actual "fine" (line 1)`,
		},
		"marker on a later line is plain text": {
			expected: []string{"first", "ERROR!64"},
			result:   &invoke.Result{Stdout: []byte("first\nERROR!64\n"), ExitCode: 64},
			status:   Pass,
			index:    -1,
		},
		"non numeric marker falls back to streams": {
			expected: []string{"ERROR!oops"},
			result:   &invoke.Result{Stdout: []byte("ERROR!oops\n"), ExitCode: 1},
			status:   Pass,
			index:    -1,
		},
		"no expectations": {
			expected: []string{},
			result:   &invoke.Result{Stdout: []byte("hello\n")},
			status:   Aborted,
			index:    -1,
			reason:   AbortReason,
		},
	}

	for tn, tc := range tt {
		t.Run(tn, func(t *testing.T) {
			got := Compare(tc.expected, tc.result, tc.stream)
			assert.Equal(t, tc.status, got.Status)
			assert.Equal(t, tc.mode, got.Mode)
			assert.Equal(t, tc.index, got.Index)
			assert.Equal(t, tc.reason, got.Reason)
		})
	}
}

func TestOutcome_ExitCode(t *testing.T) {
	assert.Equal(t, 0, Outcome{Status: Pass}.ExitCode())
	assert.Equal(t, 1, Outcome{Status: Fail}.ExitCode())
	assert.Equal(t, 1, Abort().ExitCode())
}

func TestCompare_ReturnCodeDetails(t *testing.T) {
	got := Compare([]string{"ERROR!65"}, &invoke.Result{ExitCode: 65}, Stdout)
	assert.Equal(t, 65, got.ExpectedCode)
	assert.Equal(t, 65, got.ActualCode)
	assert.Nil(t, got.Actual)
}

// Package expect extracts expected output embedded in a script as comment lines.
//
// The format is a plain line-start prefix match: every line that begins with
// the configured prefix contributes one expected line, in file order. The
// prefix is removed and the remainder trimmed. Lines that merely contain the
// prefix are ignored.
package expect

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReturnCodeMarker switches the comparison to exit code checking when it
// starts the first expectation, immediately followed by a decimal code:
//
//	# expect: ERROR!64
const ReturnCodeMarker = "ERROR!"

var ErrEmptyPrefix = errors.New("expectation prefix must not be empty")

// Extract returns the expectations found in lines.
func Extract(lines []string, prefix string) []string {
	expected := make([]string, 0)
	for _, line := range lines {
		rest, ok := strings.CutPrefix(line, prefix)
		if !ok {
			continue
		}
		expected = append(expected, strings.TrimSpace(rest))
	}
	return expected
}

// ReadFile reads the script at path and returns its expectations. The file is
// closed before ReadFile returns.
func ReadFile(path, prefix string) ([]string, error) {
	if prefix == "" {
		return nil, ErrEmptyPrefix
	}

	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}

	return Extract(lines, prefix), nil
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	return strings.Split(string(data), "\n"), nil
}

// ParseReturnCode reports the exit code carried by a return code expectation.
// The text after ReturnCodeMarker must be a decimal integer with nothing
// around it.
func ParseReturnCode(entry string) (int, bool) {
	rest, ok := strings.CutPrefix(entry, ReturnCodeMarker)
	if !ok {
		return 0, false
	}

	code, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}

	return code, true
}

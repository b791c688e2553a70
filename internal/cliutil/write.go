// Package cliutil provides utilities for CLI operations.
package cliutil

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold).SprintFunc()
	warningLabel = color.New(color.FgYellow).SprintFunc()
	successLabel = color.New(color.FgGreen).SprintFunc()
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Errorf writes a red "Error:" line. Color is dropped when the output is not
// a terminal or NO_COLOR is set.
func Errorf(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", errorLabel("Error:"), fmt.Sprintf(format, args...))
}

// Warnf writes a yellow "Warning:" line.
func Warnf(w io.Writer, format string, args ...any) {
	Writef(w, "%s %s\n", warningLabel("Warning:"), fmt.Sprintf(format, args...))
}

// Successf writes a green status line.
func Successf(w io.Writer, format string, args ...any) {
	Writef(w, "%s\n", successLabel(fmt.Sprintf(format, args...)))
}

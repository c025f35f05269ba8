// Package ui prints CLI status messages.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// UI writes status lines to stderr and command output to stdout, so file
// contents can be piped without decoration.
type UI struct {
	out          io.Writer
	status       io.Writer
	colorInfo    *color.Color
	colorSuccess *color.Color
	colorWarning *color.Color
	colorError   *color.Color
}

// New creates a UI bound to the process streams.
func New() *UI {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates a UI with custom writers (useful for testing)
func NewWithWriters(out, status io.Writer) *UI {
	return &UI{
		out:          out,
		status:       status,
		colorInfo:    color.New(color.FgBlue),
		colorSuccess: color.New(color.FgGreen),
		colorWarning: color.New(color.FgYellow),
		colorError:   color.New(color.FgRed),
	}
}

// Info prints an info message
func (u *UI) Info(msg string) {
	u.colorInfo.Fprintf(u.status, "[INFO] %s\n", msg)
}

// Success prints a success message
func (u *UI) Success(msg string) {
	u.colorSuccess.Fprintf(u.status, "[✓] %s\n", msg)
}

// Successf prints a formatted success message
func (u *UI) Successf(format string, args ...interface{}) {
	u.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning message
func (u *UI) Warning(msg string) {
	u.colorWarning.Fprintf(u.status, "[WARNING] %s\n", msg)
}

// Error prints an error message
func (u *UI) Error(msg string) {
	u.colorError.Fprintf(u.status, "[ERROR] %s\n", msg)
}

// Output writes command output verbatim to stdout.
func (u *UI) Output(text string) {
	fmt.Fprint(u.out, text)
}

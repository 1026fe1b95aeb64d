// Package output provides CLI output formatting utilities.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Color represents ANSI color codes for terminal output.
type Color string

const (
	ColorReset  Color = "\033[0m"
	ColorRed    Color = "\033[31m"
	ColorGreen  Color = "\033[32m"
	ColorYellow Color = "\033[33m"
	ColorDim    Color = "\033[2m"
)

// Formatter writes user-facing progress and error lines. Progress goes to
// stdout, warnings and errors to stderr, matching what scripts wrapping the
// tool expect to capture.
type Formatter struct {
	mu           sync.Mutex
	writer       io.Writer
	errWriter    io.Writer
	colorEnabled bool
}

// Option is a functional option for configuring a Formatter.
type Option func(*Formatter)

// NewFormatter creates a new Formatter with the given options.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{
		writer:       os.Stdout,
		errWriter:    os.Stderr,
		colorEnabled: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// WithWriter sets the progress output writer.
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithErrWriter sets the error output writer.
func WithErrWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.errWriter = w
	}
}

// WithColor enables or disables colored output.
func WithColor(enabled bool) Option {
	return func(f *Formatter) {
		f.colorEnabled = enabled
	}
}

// colorize wraps s in the color when colors are enabled.
func (f *Formatter) colorize(color Color, s string) string {
	if !f.colorEnabled {
		return s
	}
	return string(color) + s + string(ColorReset)
}

// Println writes a plain line to the progress output.
func (f *Formatter) Println(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.writer, format+"\n", args...)
}

// Success writes a checkmark progress line.
func (f *Formatter) Success(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.writer, "%s %s\n", f.colorize(ColorGreen, "✓"), fmt.Sprintf(format, args...))
}

// Warning writes a warning line to the error output.
func (f *Formatter) Warning(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.errWriter, "%s %s\n", f.colorize(ColorYellow, "warning:"), fmt.Sprintf(format, args...))
}

// Error writes an error line to the error output.
func (f *Formatter) Error(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.errWriter, "%s %s\n", f.colorize(ColorRed, "error:"), fmt.Sprintf(format, args...))
}

// Suggestion writes an indented remediation hint under an error line.
func (f *Formatter) Suggestion(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintf(f.errWriter, "  %s\n", f.colorize(ColorDim, fmt.Sprintf(format, args...)))
}

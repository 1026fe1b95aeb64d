// Package logging provides structured logging infrastructure for the spork
// application. It wraps Go's standard log/slog package with a per-run
// correlation ID so one invocation's records can be grepped out of a shared
// stderr stream.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// Level represents log levels.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format represents log output formats.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config holds logging configuration.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer
}

// DefaultConfig returns sensible default logging configuration. Logs go to
// stderr at warn so they never pollute the progress output on stdout.
func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
	}
}

// Logger wraps slog.Logger for spork.
type Logger struct {
	slogger *slog.Logger
}

// New creates a Logger from the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	return &Logger{slogger: slog.New(handler)}
}

// NewRunID generates a short correlation ID for a single invocation.
func NewRunID() string {
	return uuid.New().String()[:8]
}

// WithRun returns a logger tagging every record with the run correlation ID.
func (l *Logger) WithRun(runID string) *Logger {
	return &Logger{slogger: l.slogger.With("run_id", runID)}
}

// With returns a logger with additional attributes attached to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slogger: l.slogger.With(args...)}
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

func slogLevel(level Level) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Package logging provides structured logging for rulesync using slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Level aliases so callers do not need to import slog for common levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Options configures logger construction.
type Options struct {
	// Level is the minimum level emitted. Info when zero.
	Level slog.Level
	// Output receives log lines. Stderr when nil.
	Output io.Writer
	// JSON switches from the text handler to JSON lines.
	JSON bool
	// AddSource annotates records with file and line.
	AddSource bool
}

// DefaultOptions returns the CLI defaults: text to stderr at info level.
func DefaultOptions() Options {
	return Options{Level: LevelInfo, Output: os.Stderr}
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{
		Level:     opts.Level,
		AddSource: opts.AddSource,
	}
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(out, hopts))
	}
	return slog.New(slog.NewTextHandler(out, hopts))
}

var (
	mu            sync.Mutex
	defaultLogger *slog.Logger
)

// Default returns the process logger. Until SetDefault runs it is the
// DefaultOptions logger.
func Default() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(DefaultOptions())
	}
	return defaultLogger
}

// SetDefault replaces the process logger and registers it with slog so
// libraries logging through the slog default land in the same place.
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// Debug logs at debug level using the process logger.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// Info logs at info level using the process logger.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn logs at warn level using the process logger.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// Error logs at error level using the process logger.
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// Timer returns a function that logs the elapsed time for an operation
// when called. Intended for use with defer:
//
//	defer logging.Timer("install")()
func Timer(op string) func() {
	start := time.Now()
	return func() {
		Default().Debug("operation completed",
			Operation(op),
			slog.Duration(KeyDuration, time.Since(start)),
		)
	}
}

// Attribute keys shared across the codebase so log output stays
// greppable.
const (
	// KeyRule identifies a rule file by relative path.
	KeyRule = "rule"
	// KeyPath identifies an absolute file path.
	KeyPath = "path"
	// KeyOperation names the operation being performed.
	KeyOperation = "operation"
	// KeyDecision records the decision applied to a conflict.
	KeyDecision = "decision"
	// KeyCount carries an item count.
	KeyCount = "count"
	// KeyError attaches an error value.
	KeyError = "error"
	// KeyDuration records operation duration.
	KeyDuration = "duration"
)

// Rule returns a slog attribute for rule file logging.
func Rule(path string) slog.Attr {
	return slog.String(KeyRule, path)
}

// Path returns a slog attribute for file path logging.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Operation returns a slog attribute for operation logging.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Decision returns a slog attribute for decision logging.
func Decision(d string) slog.Attr {
	return slog.String(KeyDecision, d)
}

// Err returns a slog attribute for error logging. A nil error yields
// an empty attribute that slog drops.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any(KeyError, err)
}

// Count returns a slog attribute for item counts.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

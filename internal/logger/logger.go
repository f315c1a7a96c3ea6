// Package logger holds the process-wide structured logger. Output goes to stderr so
// that stdout stays clean for tables and JSON.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Fields is a set of key/value pairs attached to a log record.
type Fields map[string]any

var (
	mu     sync.Mutex
	output io.Writer
	logger *slog.Logger
)

// SetOutput redirects log output, mostly for tests. A nil writer restores stderr.
// The logger must be re-initialised with Init afterwards.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func getOutput() io.Writer {
	if output != nil {
		return output
	}
	return os.Stderr
}

// ParseLevel maps a level name to a slog level. Unknown names fall back to warn.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Init (re)creates the global logger at the given level.
func Init(level string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	handler := slog.NewTextHandler(getOutput(), &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	logger = slog.New(handler)
	return logger
}

// Get returns the configured logger, initialising it at warn level if needed.
func Get() *slog.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		return Init("warn")
	}
	return l
}

// Debug logs a debug message.
func Debug(msg string, fields ...Fields) {
	Get().Debug(msg, mergeFields(fields...)...)
}

// Info logs an info message.
func Info(msg string, fields ...Fields) {
	Get().Info(msg, mergeFields(fields...)...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...Fields) {
	Get().Warn(msg, mergeFields(fields...)...)
}

// Error logs an error message.
func Error(msg string, fields ...Fields) {
	Get().Error(msg, mergeFields(fields...)...)
}

// mergeFields flattens field maps into slog key/value pairs.
func mergeFields(fields ...Fields) []any {
	result := []any{}
	for _, field := range fields {
		for k, v := range field {
			result = append(result, k, v)
		}
	}
	return result
}

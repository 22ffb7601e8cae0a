// Package logging provides a tiny abstraction over slog so downstream code can
// depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers constructors for JSON/text and colored
// console output plus domain helpers for tool, model and delegation events.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface used by the engine.
// Arguments are slog style alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// Config configures construction of a slog backed Logger.
type Config struct {
	Level     LogLevel
	Format    string // json, text or console
	Output    io.Writer
	AddSource bool
	Component string
	Attrs     map[string]any
}

// DefaultConfig returns a baseline JSON info level configuration writing to stderr.
func DefaultConfig() Config {
	return Config{Level: LogLevelInfo, Format: "json", Output: os.Stderr}
}

// NewLogger builds a Logger from cfg. Format "console" renders colored,
// human oriented output through tint; "text" and "json" use the slog handlers.
func NewLogger(cfg Config) Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	var handler slog.Handler

	switch cfg.Format {
	case "console":
		handler = newTintHandler(cfg.Output, cfg.Level, cfg.AddSource)
	case "text":
		handler = slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource})
	default:
		handler = slog.NewJSONHandler(cfg.Output, &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource})
	}

	l := slog.New(handler)
	if cfg.Component != "" {
		l = l.With(slog.String("component", cfg.Component))
	}

	for k, v := range cfg.Attrs {
		l = l.With(slog.Any(k, v))
	}

	return NewSlogAdapter(l)
}

// NewConsoleLogger returns a colored console Logger at the given level.
func NewConsoleLogger(output io.Writer, level LogLevel) Logger {
	return NewLogger(Config{Level: level, Format: "console", Output: output})
}

func newTintHandler(output io.Writer, level LogLevel, addSource bool) slog.Handler {
	return tint.NewHandler(output, &tint.Options{
		Level:      slogLevel(level),
		AddSource:  addSource,
		TimeFormat: time.TimeOnly,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Value.Kind() == slog.KindAny {
				if _, ok := a.Value.Any().(error); ok {
					return tint.Attr(9, a)
				}
			}
			return a
		},
	})
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogToolCall records execution details for a tool invocation.
func LogToolCall(l Logger, agent, tool, callID string, dur time.Duration, isError bool) {
	args := []any{"agent", agent, "tool", tool, "call_id", callID, "duration_ms", dur.Milliseconds(), "error", isError}
	if isError {
		l.Warn("agent.tool.executed", args...)
		return
	}
	l.Info("agent.tool.executed", args...)
}

// LogModelCall records model call latency and outcome.
func LogModelCall(l Logger, agent, model string, step int, dur time.Duration, err error) {
	if err != nil {
		l.Error("agent.model.failed", "agent", agent, "model", model, "step", step, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	l.Debug("agent.model.completed", "agent", agent, "model", model, "step", step, "duration_ms", dur.Milliseconds())
}

// LogDelegation records the outcome of a sub-agent run.
func LogDelegation(l Logger, parent, subAgent string, depth int, dur time.Duration, err error) {
	if err != nil {
		l.Warn("agent.delegate.failed", "parent", parent, "subagent", subAgent, "depth", depth, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	l.Info("agent.delegate.completed", "parent", parent, "subagent", subAgent, "depth", depth, "duration_ms", dur.Milliseconds())
}

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}

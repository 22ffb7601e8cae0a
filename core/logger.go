package core

import "github.com/hupe1980/deepagent/logging"

// scopedLogger prefixes every record with the correlation attributes of one
// tool call so handler logs can be joined with the loop's step and tool
// events.
type scopedLogger struct {
	logger logging.Logger
	attrs  []any
}

func newScopedLogger(l logging.Logger, attrs ...any) *scopedLogger {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	return &scopedLogger{logger: l, attrs: attrs}
}

func (s *scopedLogger) with(args []any) []any {
	out := make([]any, 0, len(s.attrs)+len(args))
	out = append(out, s.attrs...)
	return append(out, args...)
}

// LogDebug logs a debug message with the call's correlation attributes.
func (s *scopedLogger) LogDebug(msg string, args ...any) { s.logger.Debug(msg, s.with(args)...) }

// LogInfo logs an info message with the call's correlation attributes.
func (s *scopedLogger) LogInfo(msg string, args ...any) { s.logger.Info(msg, s.with(args)...) }

// LogWarn logs a warning with the call's correlation attributes.
func (s *scopedLogger) LogWarn(msg string, args ...any) { s.logger.Warn(msg, s.with(args)...) }

// LogError logs an error with the call's correlation attributes.
func (s *scopedLogger) LogError(msg string, args ...any) { s.logger.Error(msg, s.with(args)...) }

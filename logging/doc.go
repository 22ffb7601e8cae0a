// Package logging provides a minimal logging interface and adapters for deepagent.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the engine and agent loops use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NewConsoleLogger for colored developer output (tint)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewLogger(logging.Config{Level: logging.LogLevelInfo, Format: "json"})
//	eng, err := engine.New(llm, func(o *engine.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging

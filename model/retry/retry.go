// Package retry wraps a model.Model with host-side retries for transient
// provider failures. The agent loop itself never retries.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/deepagent/core"
	"github.com/hupe1980/deepagent/logging"
	"github.com/hupe1980/deepagent/model"
)

// Config controls retry behavior for a wrapped model.
type Config struct {
	// MaxAttempts is the total number of Generate calls, including the first.
	MaxAttempts int
	// Backoff is the delay before the n-th retry (n starts at 1). Nil means
	// no delay.
	Backoff func(n int) time.Duration
	// ShouldRetry decides whether err is worth another attempt. Defaults to
	// model.IsTransient.
	ShouldRetry func(error) bool
	// Logger receives one warning per retried failure.
	Logger logging.Logger
}

// DefaultConfig retries transient failures three times with exponential
// backoff starting at 500ms.
var DefaultConfig = Config{
	MaxAttempts: 3,
	Backoff:     Exponential(500*time.Millisecond, 8*time.Second),
}

// Exponential returns a backoff doubling base per retry, capped at limit.
func Exponential(base, limit time.Duration) func(n int) time.Duration {
	return func(n int) time.Duration {
		d := base
		for i := 1; i < n; i++ {
			d *= 2
			if d >= limit {
				return limit
			}
		}
		return min(d, limit)
	}
}

// WrapModel wraps m with error-only retries.
func WrapModel(m model.Model, cfg Config) model.Model {
	if m == nil {
		return nil
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NoOpLogger{}
	}
	return &modelWrapper{next: m, cfg: cfg}
}

type modelWrapper struct {
	next model.Model
	cfg  Config
}

func (w *modelWrapper) Info() model.Info { return w.next.Info() }

func (w *modelWrapper) Generate(ctx context.Context, req model.Request) (core.Message, error) {
	if err := ctx.Err(); err != nil {
		return core.Message{}, err
	}

	attempts := normalizedAttempts(w.cfg.MaxAttempts)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		msg, err := w.next.Generate(ctx, req)
		if err == nil {
			return msg, nil
		}

		lastErr = err
		if attempt == attempts || !shouldRetry(ctx, w.cfg, err) {
			break
		}

		w.cfg.Logger.Warn("model.retry", "model", w.next.Info().Name, "attempt", attempt, "error", err.Error())

		if err := sleep(ctx, w.cfg.Backoff, attempt); err != nil {
			return core.Message{}, errors.Join(lastErr, err)
		}
	}

	return core.Message{}, lastErr
}

func normalizedAttempts(maxAttempts int) int {
	if maxAttempts < 1 {
		return 1
	}
	return maxAttempts
}

func shouldRetry(ctx context.Context, cfg Config, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if cfg.ShouldRetry == nil {
		return model.IsTransient(err)
	}
	return cfg.ShouldRetry(err)
}

func sleep(ctx context.Context, backoff func(int) time.Duration, n int) error {
	if backoff == nil {
		return nil
	}

	d := backoff(n)
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

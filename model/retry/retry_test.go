package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deepagent/model"
)

func transient() error {
	return model.NewError("test", 503, errors.New("unavailable"))
}

func TestWrapModel_RetriesTransientFailures(t *testing.T) {
	inner := model.NewScriptedModel(
		model.Fail(transient()),
		model.Fail(transient()),
		model.Reply("ok"),
	)

	m := WrapModel(inner, Config{MaxAttempts: 3})
	msg, err := m.Generate(context.Background(), model.Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
	assert.Equal(t, 3, inner.Calls())
	assert.Equal(t, "scripted", m.Info().Name)
}

func TestWrapModel_DoesNotRetryFatalFailures(t *testing.T) {
	fatal := model.NewError("test", 401, errors.New("bad key"))
	inner := model.NewScriptedModel(model.Fail(fatal), model.Reply("never"))

	_, err := WrapModel(inner, Config{MaxAttempts: 5}).Generate(context.Background(), model.Request{})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, inner.Calls())
}

func TestWrapModel_GivesUpAfterMaxAttempts(t *testing.T) {
	inner := model.NewScriptedModel(model.Fail(transient()), model.Fail(transient()), model.Reply("late"))

	_, err := WrapModel(inner, Config{MaxAttempts: 2}).Generate(context.Background(), model.Request{})
	assert.True(t, model.IsTransient(err))
	assert.Equal(t, 2, inner.Calls())
}

func TestWrapModel_CustomPredicate(t *testing.T) {
	plain := errors.New("plain")
	inner := model.NewScriptedModel(model.Fail(plain), model.Reply("ok"))

	m := WrapModel(inner, Config{MaxAttempts: 2, ShouldRetry: func(error) bool { return true }})
	msg, err := m.Generate(context.Background(), model.Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
}

func TestWrapModel_BackoffHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scripted := model.NewScriptedModel(model.Fail(transient()), model.Reply("unreachable"))
	m := WrapModel(scripted, Config{
		MaxAttempts: 2,
		Backoff: func(int) time.Duration {
			cancel()
			return time.Hour
		},
	})

	_, err := m.Generate(ctx, model.Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, scripted.Calls())
}

func TestWrapModel_NilAndCancelled(t *testing.T) {
	assert.Nil(t, WrapModel(nil, DefaultConfig))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := model.NewScriptedModel(model.Reply("x"))
	_, err := WrapModel(inner, DefaultConfig).Generate(ctx, model.Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, inner.Calls())
}

func TestExponential(t *testing.T) {
	b := Exponential(100*time.Millisecond, time.Second)
	assert.Equal(t, 100*time.Millisecond, b(1))
	assert.Equal(t, 200*time.Millisecond, b(2))
	assert.Equal(t, 400*time.Millisecond, b(3))
	assert.Equal(t, time.Second, b(5))
}

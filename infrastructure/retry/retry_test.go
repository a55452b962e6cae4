package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/barjames/funeral-planner/infrastructure/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	var retries []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, _ time.Duration, _ error) { retries = append(retries, attempt) }

	calls := 0
	err := retry.Do(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retries)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := errors.New("password authentication failed")
	calls := 0
	err := retry.Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return permanent
	})

	require.ErrorIs(t, err, permanent)
	assert.NotErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	assert.Equal(t, 1, calls)
}

func TestDo_GivesUp(t *testing.T) {
	t.Parallel()

	transient := errors.New("i/o timeout")
	calls := 0
	err := retry.Do(context.Background(), fastConfig(), func(context.Context) error {
		calls++
		return transient
	})

	require.ErrorIs(t, err, retry.ErrMaxAttemptsExceeded)
	require.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestDo_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, fastConfig(), func(context.Context) error {
		t.Fatal("fn must not run")
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.False(t, retry.IsTransient(nil))
	assert.True(t, retry.IsTransient(errors.New("pq: the database system is starting up")))
	assert.True(t, retry.IsTransient(errors.New("Connection Refused")))
	assert.False(t, retry.IsTransient(errors.New("syntax error")))
}

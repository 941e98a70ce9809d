package dataflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetrySucceedsAfterFailures(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	sentinel := errors.New("still down")
	err := WithRetry(context.Background(), cfg, func() error { return sentinel })

	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
}

func TestWithRetryStopsOnContextCancel(t *testing.T) {
	cfg := &RetryConfig{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Second, Multiplier: 1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WithRetry(ctx, cfg, func() error { return errors.New("down") })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateSymbol(t *testing.T) {
	assert.NoError(t, ValidateSymbol("AAPL"))
	assert.NoError(t, ValidateSymbol(" tsla "))
	assert.Error(t, ValidateSymbol(""))
	assert.Error(t, ValidateSymbol("WAYTOOLONGSYMBOL"))
}

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeSymbol(" aapl "))
}

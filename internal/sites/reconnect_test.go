package sites

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetiche/engine/internal/core"
)

func TestReconnectLoopCountsReconnectsAndStops(t *testing.T) {
	stats := &core.Stats{}
	attempts := 0

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := reconnectLoop(ctx, stats, func(ctx context.Context) error {
		attempts++
		if attempts >= 3 {
			cancel()
		}
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, stats.Reconnect, uint64(2))
}

func TestReconnectLoopReturnsOnSuccess(t *testing.T) {
	stats := &core.Stats{}
	ctx := context.Background()

	err := reconnectLoop(ctx, stats, func(ctx context.Context) error {
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), stats.Reconnect)
}

func TestReconnectLoopRespectsCancellationDuringBackoff(t *testing.T) {
	stats := &core.Stats{}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := reconnectLoop(ctx, stats, func(ctx context.Context) error {
		return errors.New("always fails")
	})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.Less(t, elapsed, 5*time.Second)
}

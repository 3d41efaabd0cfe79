package telemetry

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitAndShutdown(t *testing.T) {
	providers, err := Init(context.Background(), io.Discard)
	require.NoError(t, err)
	require.NoError(t, providers.Shutdown(context.Background()))
}

func TestStuckCheck_ReturnsUnderlyingResult(t *testing.T) {
	providers, err := Init(context.Background(), io.Discard)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	loopType, stuck := StuckCheck(context.Background(), "sess-1", func(ctx context.Context) (string, bool) {
		return "repeating_action_observation", true
	})
	require.True(t, stuck)
	require.Equal(t, "repeating_action_observation", loopType)

	loopType, stuck = StuckCheck(context.Background(), "sess-1", func(ctx context.Context) (string, bool) {
		return "", false
	})
	require.False(t, stuck)
	require.Empty(t, loopType)
}

func TestReconcileTick_DoesNotPanic(t *testing.T) {
	providers, err := Init(context.Background(), io.Discard)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	ReconcileTick(context.Background())
}

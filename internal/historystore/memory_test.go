package historystore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steveyegge/stuckdetector/internal/event"
)

func TestMemoryStore_AppendAssignsSeq(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "sess-1", event.Event{Kind: event.KindCmdRun, Command: "ls"}))
	require.NoError(t, s.Append(ctx, "sess-1", event.Event{Kind: event.KindCmdOutput, Command: "ls", Content: "a.go"}))

	hist, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, 0, hist[0].Seq)
	require.Equal(t, 1, hist[1].Seq)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Append(ctx, "a", event.Event{Kind: event.KindCmdRun, Command: "ls"}))

	histB, err := s.History(ctx, "b")
	require.NoError(t, err)
	require.Empty(t, histB)
}

func TestMemoryStore_HistoryReturnsACopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Append(ctx, "a", event.Event{Kind: event.KindCmdRun, Command: "ls"}))

	hist, err := s.History(ctx, "a")
	require.NoError(t, err)
	hist[0].Command = "mutated"

	hist2, err := s.History(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "ls", hist2[0].Command)
}

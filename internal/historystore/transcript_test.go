package historystore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steveyegge/stuckdetector/internal/event"
)

func TestWriteThenReadTranscript_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	events := []event.Event{
		{Kind: event.KindMessage, Source: event.SourceUser, Content: "Hello"},
		{Kind: event.KindCmdRun, Source: event.SourceAgent, Command: "ls -la"},
		{Kind: event.KindCmdOutput, Source: event.SourceEnvironment, Command: "ls -la", Content: "a.go\nb.go"},
	}
	for i, ev := range events {
		ev.Seq = i
		require.NoError(t, WriteTranscript(&buf, ev))
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	got, err := ReadTranscript(path)
	require.NoError(t, err)
	require.Len(t, got, len(events))
	for i, ev := range events {
		ev.Seq = i
		require.Equal(t, ev, got[i])
	}
}

func TestReadTranscript_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")
	content := "{\"seq\":0,\"kind\":\"message\",\"source\":\"user\",\"content\":\"hi\"}\n\n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadTranscript(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestReadTranscript_BadLineReportsLineNumber(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")
	content := "{\"seq\":0,\"kind\":\"message\"}\nnot json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadTranscript(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 2")
}

//go:build integration

package historystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// TestMySQLStore_AppendAndHistory runs against a real MySQL container.
// Excluded from the default test run (requires Docker); run with
// `go test -tags=integration ./internal/historystore/...`.
func TestMySQLStore_AppendAndHistory(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.0",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "test",
			"MYSQL_DATABASE":      "stuckdetector",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(90 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)

	dsn := fmt.Sprintf("root:test@tcp(%s:%s)/stuckdetector?parseTime=true", host, port.Port())

	var store *MySQLStore
	require.Eventually(t, func() bool {
		store, err = OpenMySQLStore(dsn)
		return err == nil
	}, 60*time.Second, time.Second)
	defer store.Close()

	require.NoError(t, store.EnsureSchema(ctx))

	events := []event.Event{
		{Kind: event.KindCmdRun, Source: event.SourceAgent, Command: "ls"},
		{Kind: event.KindCmdOutput, Source: event.SourceEnvironment, Command: "ls", Content: "a.go"},
	}
	for _, ev := range events {
		require.NoError(t, store.Append(ctx, "sess-1", ev))
	}

	hist, err := store.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, hist, 2)
	require.Equal(t, "ls", hist[0].Command)
	require.Equal(t, "a.go", hist[1].Content)

	histOther, err := store.History(ctx, "sess-2")
	require.NoError(t, err)
	require.Empty(t, histOther)
}

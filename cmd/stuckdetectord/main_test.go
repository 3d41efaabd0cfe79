package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/steveyegge/stuckdetector/internal/config"
)

func TestOpenStore_DefaultsToMemory(t *testing.T) {
	store, err := openStore(context.Background(), config.StorageConfig{Backend: "memory"})
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestConnectJetStream_RequiresURL(t *testing.T) {
	err := connectJetStream(nil, "")
	require.Error(t, err)
}

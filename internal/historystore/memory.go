package historystore

import (
	"context"
	"sync"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// MemoryStore is an in-process Store backed by a per-session slice.
// Suitable for the daemon's single-process mode and for tests; history
// does not survive a process restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]event.Event
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]event.Event)}
}

func (m *MemoryStore) Append(_ context.Context, sessionID string, ev event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev.Seq = len(m.sessions[sessionID])
	m.sessions[sessionID] = append(m.sessions[sessionID], ev)
	return nil
}

func (m *MemoryStore) History(_ context.Context, sessionID string) ([]event.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hist := m.sessions[sessionID]
	out := make([]event.Event, len(hist))
	copy(out, hist)
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)

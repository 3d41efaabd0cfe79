// Package historystore persists per-session agent event history, giving
// spec.md's "ordered event history" a concrete, append-only home. The
// detector itself never depends on this package — it only ever sees a
// read-only []event.Event slice (spec.md §1).
package historystore

import (
	"context"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// Store is the interface the controller and eventbus use to persist and
// replay session history. Implementations must be append-only: Append
// never rewrites or reorders prior events (spec.md §3's History
// invariant).
type Store interface {
	// Append adds ev to sessionID's history, assigning it the next Seq.
	Append(ctx context.Context, sessionID string, ev event.Event) error

	// History returns sessionID's full ordered history.
	History(ctx context.Context, sessionID string) ([]event.Event, error)

	// Close releases any resources held by the store.
	Close() error
}

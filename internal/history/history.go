// Package history computes the filtered tail of agent history that the
// stuck detector's recognizers operate over (spec.md §4.1).
package history

import "github.com/steveyegge/stuckdetector/internal/event"

// Filter returns the filtered, ordered tail of history that recognizers
// may inspect.
//
// In interactive mode (headless=false), the working window starts right
// after the last user Message in history — a fresh user message is an
// explicit reset signal, and only what the agent has done since is
// evidence of being stuck. In headless mode the working window is always
// the whole history.
//
// From the working window, user messages and null events (NullAction,
// NullObservation) are removed; they are scaffolding and must not
// participate in any recognizer's equivalence checks or indexing.
func Filter(hist []event.Event, headless bool) []event.Event {
	window := hist
	if !headless {
		if idx, ok := lastUserMessageIndex(hist); ok {
			window = hist[idx+1:]
		}
	}

	filtered := make([]event.Event, 0, len(window))
	for _, e := range window {
		if e.IsUserMessage() || e.IsNull() {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// lastUserMessageIndex returns the index of the last event that is both a
// Message and sourced from the user.
func lastUserMessageIndex(hist []event.Event) (int, bool) {
	for i := len(hist) - 1; i >= 0; i-- {
		if hist[i].IsUserMessage() {
			return i, true
		}
	}
	return 0, false
}

// Package recognizer implements the stuck detector's six loop-recognition
// algorithms (spec.md §4.2-§4.7). Each recognizer is a pure predicate over
// an already-filtered history tail; none rebuild the filter and none share
// state with each other (spec.md §9, "recognizer independence").
package recognizer

import "github.com/steveyegge/stuckdetector/internal/event"

// LoopType tags which recognizer fired.
type LoopType string

const (
	LoopRepeatingActionObservation        LoopType = "repeating_action_observation"
	LoopRepeatingActionError              LoopType = "repeating_action_error"
	LoopRepeatingActionObservationPattern LoopType = "repeating_action_observation_pattern"
	LoopMonologue                         LoopType = "monologue"
	LoopContextWindowError                LoopType = "context_window_error"
	LoopSyntaxError                       LoopType = "syntax_error"
)

// Analysis is the structured result a recognizer reports on a hit.
type Analysis struct {
	LoopType        LoopType
	LoopRepeatTimes int
	LoopStartIdx    int
}

// actionObservationPairs walks tail backward and returns the most recent n
// (action, observation) pairs, in chronological order (earliest of the n
// first). A pair is one Action event immediately followed, among the
// Action/Observation-axis events, by one Observation event — recognizers
// A, B, and C all key off this same pairing, scanned from the tail's end.
//
// Returns ok=false if fewer than n pairs are available.
func actionObservationPairs(tail []event.Event, n int) (pairs []pair, ok bool) {
	var collected []pair
	i := len(tail) - 1
	for i >= 1 && len(collected) < n {
		obs := tail[i]
		act := tail[i-1]
		if obs.IsObservation() && act.IsAction() {
			collected = append(collected, pair{actionIdx: i - 1, action: act, obsIdx: i, obs: obs})
			i -= 2
			continue
		}
		// Not an aligned action/observation boundary at this position;
		// slide back one event and keep looking rather than give up,
		// since malformed/unknown-kind events can appear anywhere in the
		// tail per spec.md §7.
		i--
	}
	if len(collected) < n {
		return nil, false
	}
	// collected is newest-first; reverse to chronological order.
	pairs = make([]pair, len(collected))
	for idx, p := range collected {
		pairs[len(collected)-1-idx] = p
	}
	return pairs, true
}

type pair struct {
	actionIdx int
	action    event.Event
	obsIdx    int
	obs       event.Event
}

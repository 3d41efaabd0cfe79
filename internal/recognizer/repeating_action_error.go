package recognizer

import "github.com/steveyegge/stuckdetector/internal/event"

// minErrorObservations is the minimum count of Error observations among
// the trailing window required to fire recognizer B.
const minErrorObservations = 3

// RepeatingActionError implements spec.md §4.3: the same action is
// attempted across the last four (action, observation) pairs, with at
// least three of the four observations being Error (content need not
// match — the agent keeps retrying despite differently-worded failures).
func RepeatingActionError(tail []event.Event) (Analysis, bool) {
	pairs, ok := actionObservationPairs(tail, repeatingPairWindow)
	if !ok {
		return Analysis{}, false
	}

	for i := 1; i < len(pairs); i++ {
		if !event.Equivalent(pairs[i].action, pairs[0].action) {
			return Analysis{}, false
		}
	}

	errCount := 0
	for _, p := range pairs {
		if p.obs.IsError() {
			errCount++
		}
	}
	if errCount < minErrorObservations {
		return Analysis{}, false
	}

	return Analysis{
		LoopType:        LoopRepeatingActionError,
		LoopRepeatTimes: errCount,
		LoopStartIdx:    pairs[0].actionIdx,
	}, true
}

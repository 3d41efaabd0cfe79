package recognizer

import "github.com/steveyegge/stuckdetector/internal/event"

// repeatingPairWindow is the number of trailing (action, observation) pairs
// recognizers A and B inspect.
const repeatingPairWindow = 4

// RepeatingActionObservation implements spec.md §4.2: the agent emits the
// same action and receives the same observation four times consecutively,
// and none of those observations is an Error.
func RepeatingActionObservation(tail []event.Event) (Analysis, bool) {
	pairs, ok := actionObservationPairs(tail, repeatingPairWindow)
	if !ok {
		return Analysis{}, false
	}

	for _, p := range pairs {
		if p.obs.IsError() {
			return Analysis{}, false
		}
	}
	for i := 1; i < len(pairs); i++ {
		if !event.Equivalent(pairs[i].action, pairs[0].action) {
			return Analysis{}, false
		}
		if !event.Equivalent(pairs[i].obs, pairs[0].obs) {
			return Analysis{}, false
		}
	}

	return Analysis{
		LoopType:        LoopRepeatingActionObservation,
		LoopRepeatTimes: repeatingPairWindow,
		LoopStartIdx:    pairs[0].actionIdx,
	}, true
}

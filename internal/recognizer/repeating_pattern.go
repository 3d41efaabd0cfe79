package recognizer

import "github.com/steveyegge/stuckdetector/internal/event"

// patternPairWindow is the number of trailing (action, observation) pairs
// recognizer C inspects: three repetitions of a two-pair block.
const patternPairWindow = 6

// RepeatingActionObservationPattern implements spec.md §4.4: a cycle of
// length two — three consecutive repetitions of a (action1, obs1, action2,
// obs2) block — where the two actions within a block are not themselves
// equivalent (otherwise recognizer A already covers it) and neither
// observation is an Error.
func RepeatingActionObservationPattern(tail []event.Event) (Analysis, bool) {
	pairs, ok := actionObservationPairs(tail, patternPairWindow)
	if !ok {
		return Analysis{}, false
	}

	blocks := [3][2]pair{
		{pairs[0], pairs[1]},
		{pairs[2], pairs[3]},
		{pairs[4], pairs[5]},
	}

	for _, b := range blocks {
		if event.Equivalent(b[0].action, b[1].action) {
			// Within-block actions equivalent — recognizer A's territory.
			return Analysis{}, false
		}
		if b[0].obs.IsError() || b[1].obs.IsError() {
			return Analysis{}, false
		}
	}

	for i := 1; i < 3; i++ {
		if !blockEquivalent(blocks[i], blocks[0]) {
			return Analysis{}, false
		}
	}

	return Analysis{
		LoopType:        LoopRepeatingActionObservationPattern,
		LoopRepeatTimes: 3,
		LoopStartIdx:    blocks[0][0].actionIdx,
	}, true
}

func blockEquivalent(a, b [2]pair) bool {
	return event.Equivalent(a[0].action, b[0].action) &&
		event.Equivalent(a[0].obs, b[0].obs) &&
		event.Equivalent(a[1].action, b[1].action) &&
		event.Equivalent(a[1].obs, b[1].obs)
}

package recognizer

import "github.com/steveyegge/stuckdetector/internal/event"

// minCondensationRun is the minimum count of consecutive AgentCondensation
// observations required to fire recognizer E.
const minCondensationRun = 10

// condensationRepeatDivisor derives loop_repeat_times from the run length.
// spec.md §4.6 resolves the ambiguity between floor(count/5) and a fixed 2
// in favor of floor(count/5) (yielding 2 at the minimum threshold of 10).
const condensationRepeatDivisor = 5

// ContextWindowError implements spec.md §4.6: ten or more AgentCondensation
// observations in a row, with no intervening action or non-condensation
// observation (user messages and null events are already stripped by the
// filtered tail, per spec.md §4.1).
func ContextWindowError(tail []event.Event) (Analysis, bool) {
	end := len(tail)
	start := end
	for start > 0 && tail[start-1].Kind == event.KindAgentCondensation {
		start--
	}
	count := end - start
	if count < minCondensationRun {
		return Analysis{}, false
	}

	return Analysis{
		LoopType:        LoopContextWindowError,
		LoopRepeatTimes: count / condensationRepeatDivisor,
		LoopStartIdx:    start,
	}, true
}

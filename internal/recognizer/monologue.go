package recognizer

import "github.com/steveyegge/stuckdetector/internal/event"

// minMonologueRun is the minimum length of an uninterrupted run of
// identical agent messages required to fire recognizer D.
const minMonologueRun = 3

// Monologue implements spec.md §4.5: the agent emits three or more
// identical consecutive Message events sourced from Agent, uninterrupted
// by any other event in the filtered tail.
func Monologue(tail []event.Event) (Analysis, bool) {
	if len(tail) == 0 {
		return Analysis{}, false
	}

	end := len(tail)
	start := end
	for start > 0 {
		e := tail[start-1]
		if e.Kind != event.KindMessage || e.Source != event.SourceAgent {
			break
		}
		start--
	}
	run := tail[start:end]
	if len(run) < minMonologueRun {
		return Analysis{}, false
	}

	first := run[0]
	for _, e := range run[1:] {
		if e.Content != first.Content {
			return Analysis{}, false
		}
	}

	return Analysis{
		LoopType:        LoopMonologue,
		LoopRepeatTimes: len(run),
		LoopStartIdx:    start,
	}, true
}

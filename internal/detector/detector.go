// Package detector implements the stuck detector facade: it runs the
// filtered history tail through the six pattern recognizers in a fixed
// order and reports the first hit (spec.md §4.8).
package detector

import (
	"log/slog"

	"github.com/steveyegge/stuckdetector/internal/event"
	"github.com/steveyegge/stuckdetector/internal/history"
	"github.com/steveyegge/stuckdetector/internal/recognizer"
)

// minInspectableEvents is the floor below which the detector never
// reports stuck, regardless of content (spec.md §4.8 step 1).
const minInspectableEvents = 3

// warningByLoopType carries the exact WARNING strings spec.md §4.8 and §6
// specify. Recognizers D and F have no dedicated text requirement; the
// generic fallback is used for them.
var warningByLoopType = map[recognizer.LoopType]string{
	recognizer.LoopRepeatingActionObservation:        "Action, Observation loop detected",
	recognizer.LoopRepeatingActionError:              "Action, ErrorObservation loop detected",
	recognizer.LoopRepeatingActionObservationPattern: "Action, Observation pattern detected",
	recognizer.LoopContextWindowError:                "Context window error loop detected - repeated condensation events",
}

// StuckAnalysis is the structured result returned alongside a stuck
// verdict (spec.md §3).
type StuckAnalysis struct {
	LoopType        recognizer.LoopType
	LoopRepeatTimes int
	LoopStartIdx    int
}

// Detector is stateless across calls except for the most recently
// produced analysis, which it exposes for inspection (spec.md §3
// invariants, §5). Concurrent calls on the same Detector are not
// supported — callers must serialize, matching spec.md §5.
type Detector struct {
	logger *slog.Logger

	lastAnalysis *StuckAnalysis
}

// New constructs a Detector. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{logger: logger}
}

// IsStuck runs the detector's recognizers, in the fixed order spec.md
// §4.8 specifies, over the filtered tail of history. It returns true and
// populates StuckAnalysis() on the first recognizer hit; otherwise it
// clears any prior analysis and returns false.
func (d *Detector) IsStuck(hist []event.Event, headless bool) bool {
	d.lastAnalysis = nil

	tail := history.Filter(hist, headless)
	if len(tail) < minInspectableEvents {
		return false
	}

	type check func([]event.Event) (recognizer.Analysis, bool)
	checks := []check{
		recognizer.ContextWindowError,
		recognizer.RepeatingActionObservation,
		recognizer.RepeatingActionError,
		recognizer.RepeatingActionObservationPattern,
		recognizer.Monologue,
		recognizer.SyntaxError,
	}

	for _, c := range checks {
		analysis, hit := c(tail)
		if !hit {
			continue
		}
		d.lastAnalysis = &StuckAnalysis{
			LoopType:        analysis.LoopType,
			LoopRepeatTimes: analysis.LoopRepeatTimes,
			LoopStartIdx:    analysis.LoopStartIdx,
		}
		d.warn(analysis.LoopType)
		return true
	}

	return false
}

// StuckAnalysis returns the analysis from the most recent IsStuck call,
// or (nil, false) if that call returned false.
func (d *Detector) StuckAnalysis() (*StuckAnalysis, bool) {
	if d.lastAnalysis == nil {
		return nil, false
	}
	return d.lastAnalysis, true
}

func (d *Detector) warn(loopType recognizer.LoopType) {
	msg, ok := warningByLoopType[loopType]
	if !ok {
		msg = "loop detected"
	}
	d.logger.Warn(msg, "loop_type", loopType)
}

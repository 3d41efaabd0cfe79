package recognizer

import (
	"testing"

	"github.com/steveyegge/stuckdetector/internal/event"
)

func condensation(content string) event.Event {
	return event.Event{Kind: event.KindAgentCondensation, Content: content}
}

func TestContextWindowError_S5TenCondensations(t *testing.T) {
	tail := make([]event.Event, 10)
	for i := range tail {
		tail[i] = condensation("Trimming prompt...")
	}
	a, ok := ContextWindowError(tail)
	if !ok {
		t.Fatal("expected detection")
	}
	if a.LoopType != LoopContextWindowError || a.LoopRepeatTimes != 2 || a.LoopStartIdx != 0 {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func TestContextWindowError_NineDoesNotFire(t *testing.T) {
	tail := make([]event.Event, 9)
	for i := range tail {
		tail[i] = condensation("Trimming prompt...")
	}
	if _, ok := ContextWindowError(tail); ok {
		t.Fatal("nine condensations must not fire")
	}
}

func TestContextWindowError_InterleavedActionsBreakTheRun(t *testing.T) {
	var tail []event.Event
	for i := 0; i < 10; i++ {
		tail = append(tail, condensation("Trimming prompt..."), cmdRun("noop"), cmdOut("noop", ""))
	}
	if _, ok := ContextWindowError(tail); ok {
		t.Fatal("interleaved action/observation pairs must break the condensation run")
	}
}

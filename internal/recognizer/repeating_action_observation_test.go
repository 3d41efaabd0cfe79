package recognizer

import (
	"testing"

	"github.com/steveyegge/stuckdetector/internal/event"
)

func cmdRun(c string) event.Event { return event.Event{Kind: event.KindCmdRun, Command: c} }
func cmdOut(c, content string) event.Event {
	return event.Event{Kind: event.KindCmdOutput, Command: c, Content: content}
}
func errObs(content string) event.Event { return event.Event{Kind: event.KindError, Content: content} }

func TestRepeatingActionObservation_S1FourIdenticalPairs(t *testing.T) {
	tail := []event.Event{
		cmdRun("ls"), cmdOut("ls", ""),
		cmdRun("ls"), cmdOut("ls", ""),
		cmdRun("ls"), cmdOut("ls", ""),
		cmdRun("ls"), cmdOut("ls", ""),
	}
	a, ok := RepeatingActionObservation(tail)
	if !ok {
		t.Fatal("expected loop detection")
	}
	if a.LoopType != LoopRepeatingActionObservation || a.LoopRepeatTimes != 4 || a.LoopStartIdx != 0 {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func TestRepeatingActionObservation_FewerThanFour(t *testing.T) {
	tail := []event.Event{cmdRun("ls"), cmdOut("ls", ""), cmdRun("ls"), cmdOut("ls", "")}
	if _, ok := RepeatingActionObservation(tail); ok {
		t.Fatal("expected no detection with only two pairs")
	}
}

func TestRepeatingActionObservation_ExcludesErrorObservations(t *testing.T) {
	tail := []event.Event{
		cmdRun("x"), errObs("e"),
		cmdRun("x"), errObs("e"),
		cmdRun("x"), errObs("e"),
		cmdRun("x"), errObs("e"),
	}
	if _, ok := RepeatingActionObservation(tail); ok {
		t.Fatal("all-error windows must not fire recognizer A (B's territory)")
	}
}

func TestRepeatingActionObservation_DifferingObservationsDontFire(t *testing.T) {
	tail := []event.Event{
		cmdRun("ls"), cmdOut("ls", "f1"),
		cmdRun("ls"), cmdOut("ls", "f2"),
		cmdRun("ls"), cmdOut("ls", "f1"),
		cmdRun("ls"), cmdOut("ls", "f1"),
	}
	if _, ok := RepeatingActionObservation(tail); ok {
		t.Fatal("expected no detection: observation content differs")
	}
}

func TestRepeatingActionObservation_StartIdxPointsAtFirstAction(t *testing.T) {
	tail := []event.Event{
		msgEvt(event.SourceAgent, "noise"),
		cmdRun("ls"), cmdOut("ls", ""),
		cmdRun("ls"), cmdOut("ls", ""),
		cmdRun("ls"), cmdOut("ls", ""),
		cmdRun("ls"), cmdOut("ls", ""),
	}
	a, ok := RepeatingActionObservation(tail)
	if !ok {
		t.Fatal("expected detection")
	}
	if a.LoopStartIdx != 1 {
		t.Fatalf("expected loop_start_idx=1, got %d", a.LoopStartIdx)
	}
}

func msgEvt(source event.Source, content string) event.Event {
	return event.Event{Kind: event.KindMessage, Source: source, Content: content}
}

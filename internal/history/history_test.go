package history

import (
	"testing"

	"github.com/steveyegge/stuckdetector/internal/event"
)

func msg(source event.Source, content string) event.Event {
	return event.Event{Kind: event.KindMessage, Source: source, Content: content}
}

func cmd(c string) event.Event { return event.Event{Kind: event.KindCmdRun, Command: c} }

func TestFilter_HeadlessKeepsWholeHistoryMinusUserAndNull(t *testing.T) {
	hist := []event.Event{
		msg(event.SourceUser, "hi"),
		{Kind: event.KindNullAction},
		cmd("ls"),
		{Kind: event.KindNullObservation},
	}
	got := Filter(hist, true)
	if len(got) != 1 || got[0].Command != "ls" {
		t.Fatalf("expected only the cmd to survive, got %+v", got)
	}
}

func TestFilter_InteractiveTruncatesAfterLastUserMessage(t *testing.T) {
	hist := []event.Event{
		cmd("before-reset-should-be-dropped"),
		msg(event.SourceUser, "reset"),
		cmd("after-reset"),
	}
	got := Filter(hist, false)
	if len(got) != 1 || got[0].Command != "after-reset" {
		t.Fatalf("expected only post-reset command, got %+v", got)
	}
}

func TestFilter_InteractiveNoUserMessageKeepsAll(t *testing.T) {
	hist := []event.Event{cmd("a"), cmd("b")}
	got := Filter(hist, false)
	if len(got) != 2 {
		t.Fatalf("expected whole history when no user message present, got %+v", got)
	}
}

func TestFilter_PreservesOrder(t *testing.T) {
	hist := []event.Event{cmd("a"), cmd("b"), cmd("c")}
	got := Filter(hist, true)
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Command != want {
			t.Fatalf("order not preserved at %d: got %s want %s", i, got[i].Command, want)
		}
	}
}

func TestFilter_MonotoneFraming(t *testing.T) {
	// Prepending events before the last user message must not change the
	// verdict-relevant tail under interactive mode (spec.md §8 property 2).
	base := []event.Event{
		msg(event.SourceUser, "reset"),
		cmd("after-reset"),
	}
	extended := append([]event.Event{cmd("ancient-history"), msg(event.SourceUser, "older")}, base...)

	gotBase := Filter(base, false)
	gotExtended := Filter(extended, false)

	if len(gotBase) != len(gotExtended) {
		t.Fatalf("prepending before the reset point changed the filtered tail length: %d vs %d", len(gotBase), len(gotExtended))
	}
	for i := range gotBase {
		if gotBase[i] != gotExtended[i] {
			t.Fatalf("prepending before the reset point changed event at %d", i)
		}
	}
}

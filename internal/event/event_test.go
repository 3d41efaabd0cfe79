package event

import "testing"

func TestAxis(t *testing.T) {
	cases := []struct {
		kind Kind
		want Axis
	}{
		{KindMessage, AxisAction},
		{KindCmdRun, AxisAction},
		{KindFileRead, AxisAction},
		{KindIPythonRunCell, AxisAction},
		{KindNullAction, AxisAction},
		{KindCmdOutput, AxisObservation},
		{KindFileReadObs, AxisObservation},
		{KindIPythonRunCellObs, AxisObservation},
		{KindError, AxisObservation},
		{KindAgentCondensation, AxisObservation},
		{KindNullObservation, AxisObservation},
		{Kind("unknown_future_kind"), AxisObservation},
	}
	for _, c := range cases {
		e := Event{Kind: c.kind}
		if got := e.Axis(); got != c.want {
			t.Errorf("Axis(%s) = %v, want %v", c.kind, got, c.want)
		}
	}
}

func TestEquivalent_SameKindSamePayload(t *testing.T) {
	a := Event{Kind: KindCmdRun, Command: "ls", Source: SourceAgent}
	b := Event{Kind: KindCmdRun, Command: "ls", Source: SourceEnvironment}
	if !Equivalent(a, b) {
		t.Fatal("expected equivalence: source is not part of equivalence")
	}
}

func TestEquivalent_DifferentPayload(t *testing.T) {
	a := Event{Kind: KindCmdRun, Command: "ls"}
	b := Event{Kind: KindCmdRun, Command: "ls -la"}
	if Equivalent(a, b) {
		t.Fatal("expected non-equivalence: different command")
	}
}

func TestEquivalent_DifferentKind(t *testing.T) {
	a := Event{Kind: KindCmdRun, Command: "x"}
	b := Event{Kind: KindFileRead, Path: "x"}
	if Equivalent(a, b) {
		t.Fatal("expected non-equivalence: different kind, coincidentally equal strings in unrelated fields")
	}
}

func TestEquivalent_NullEventsNeverEquivalent(t *testing.T) {
	a := Event{Kind: KindNullAction}
	b := Event{Kind: KindNullAction}
	if Equivalent(a, b) {
		t.Fatal("null events must never compare equivalent")
	}
}

func TestEquivalent_ErrorContentExact(t *testing.T) {
	a := Event{Kind: KindError, Content: "boom"}
	b := Event{Kind: KindError, Content: "boom "}
	if Equivalent(a, b) {
		t.Fatal("equivalence is string-exact, trailing space must differ")
	}
}

func TestIsUserMessage(t *testing.T) {
	if !(Event{Kind: KindMessage, Source: SourceUser}).IsUserMessage() {
		t.Fatal("expected user message")
	}
	if (Event{Kind: KindMessage, Source: SourceAgent}).IsUserMessage() {
		t.Fatal("agent message should not be a user message")
	}
}

func TestIsNull(t *testing.T) {
	if !(Event{Kind: KindNullAction}).IsNull() {
		t.Fatal("NullAction should be null")
	}
	if !(Event{Kind: KindNullObservation}).IsNull() {
		t.Fatal("NullObservation should be null")
	}
	if (Event{Kind: KindCmdRun}).IsNull() {
		t.Fatal("CmdRun should not be null")
	}
}

// Package event defines the tagged event model the stuck detector inspects:
// agent actions, their observations, and the source that produced each one.
package event

// Kind identifies the concrete shape of an event's payload.
type Kind string

const (
	KindMessage           Kind = "message"
	KindCmdRun            Kind = "cmd_run"
	KindFileRead          Kind = "file_read"
	KindIPythonRunCell    Kind = "ipython_run_cell"
	KindNullAction        Kind = "null_action"
	KindCmdOutput         Kind = "cmd_output"
	KindFileReadObs       Kind = "file_read_obs"
	KindIPythonRunCellObs Kind = "ipython_run_cell_obs"
	KindError             Kind = "error"
	KindAgentCondensation Kind = "agent_condensation"
	KindNullObservation   Kind = "null_observation"

	// KindOtherObservation is the catch-all for observation kinds the
	// recognizers don't inspect. It still participates in filtering and
	// axis-based counting (spec §7) but can never satisfy an
	// equivalence check.
	KindOtherObservation Kind = "other_observation"
)

// Axis is the two-way split every event falls into: something the agent
// did, or something it was told.
type Axis int

const (
	AxisAction Axis = iota
	AxisObservation
)

// axisByKind is the exhaustive Kind -> Axis mapping. Unknown kinds default
// to AxisObservation via Event.Axis's fallback, since nearly all unmodeled hook
// payloads in practice are observations delivered to the agent.
var axisByKind = map[Kind]Axis{
	KindMessage:           AxisAction,
	KindCmdRun:            AxisAction,
	KindFileRead:          AxisAction,
	KindIPythonRunCell:    AxisAction,
	KindNullAction:        AxisAction,
	KindCmdOutput:         AxisObservation,
	KindFileReadObs:       AxisObservation,
	KindIPythonRunCellObs: AxisObservation,
	KindError:             AxisObservation,
	KindAgentCondensation: AxisObservation,
	KindNullObservation:   AxisObservation,
	KindOtherObservation:  AxisObservation,
}

// Source attributes who produced an event.
type Source string

const (
	SourceUser        Source = "user"
	SourceAgent       Source = "agent"
	SourceEnvironment Source = "environment"
)

// Event is an immutable record in the agent's history. Payload is
// kind-specific; only the fields a given Kind defines are meaningful.
type Event struct {
	Kind   Kind
	Source Source
	Seq    int

	// Payload fields. Which ones are populated depends on Kind; the
	// per-field comments below and payloadFields give the mapping.
	Content string // Message, CmdOutput, FileReadObs, IPythonRunCellObs, Error, AgentCondensation
	Command string // CmdRun.command, CmdOutput.command
	Path    string // FileRead.path, FileReadObs.path
	Code    string // IPythonRunCell.code
}

// Axis returns the action/observation axis this event's kind belongs to.
func (e Event) Axis() Axis {
	if a, ok := axisByKind[e.Kind]; ok {
		return a
	}
	return AxisObservation
}

// IsAction reports whether e is on the Action axis.
func (e Event) IsAction() bool { return e.Axis() == AxisAction }

// IsObservation reports whether e is on the Observation axis.
func (e Event) IsObservation() bool { return e.Axis() == AxisObservation }

// IsError reports whether e is an Error observation.
func (e Event) IsError() bool { return e.Kind == KindError }

// IsUserMessage reports whether e is a Message sourced from the user.
func (e Event) IsUserMessage() bool {
	return e.Kind == KindMessage && e.Source == SourceUser
}

// IsNull reports whether e is a NullAction or NullObservation — scaffolding
// events that never participate in equivalence or recognizer windows.
func (e Event) IsNull() bool {
	return e.Kind == KindNullAction || e.Kind == KindNullObservation
}

// payloadFields returns the subset of Event's payload fields that are
// semantically meaningful for e's Kind. Equivalent relies on comparing
// exactly these, so two events of different kinds never compare equal
// even if their unrelated fields happen to collide.
func (e Event) payloadFields() [4]string {
	switch e.Kind {
	case KindMessage, KindIPythonRunCellObs, KindError, KindAgentCondensation:
		return [4]string{e.Content, "", "", ""}
	case KindCmdRun:
		return [4]string{e.Command, "", "", ""}
	case KindCmdOutput:
		return [4]string{e.Command, e.Content, "", ""}
	case KindFileRead:
		return [4]string{e.Path, "", "", ""}
	case KindFileReadObs:
		return [4]string{e.Path, e.Content, "", ""}
	case KindIPythonRunCell:
		return [4]string{e.Code, "", "", ""}
	default:
		return [4]string{}
	}
}

// Equivalent reports whether two events are equivalent under spec.md §3:
// same kind and identical payload fields, string-exact, no normalization.
// Source is not part of equivalence unless a recognizer checks it
// separately (recognizer D does, for monologue detection).
func Equivalent(a, b Event) bool {
	if a.Kind != b.Kind {
		return false
	}
	// Kinds with no modeled payload (NullAction, NullObservation, and any
	// unrecognized observation kind) never equate, even to themselves —
	// they carry no comparable content and must not satisfy a recognizer.
	switch a.Kind {
	case KindNullAction, KindNullObservation, KindOtherObservation:
		return false
	}
	return a.payloadFields() == b.payloadFields()
}

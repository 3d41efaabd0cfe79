// Package eventbus dispatches agent hook-style events to registered
// handlers, the concrete host for spec.md's "controller → is_stuck(...)"
// arrow (spec.md §2). Adapted from a bug-tracker's hook dispatcher to an
// agent-loop-analyzer's session event stream.
package eventbus

import (
	"encoding/json"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// HookType maps 1:1 to the agent runtime's lifecycle hooks.
type HookType string

const (
	HookSessionStart     HookType = "SessionStart"
	HookUserPromptSubmit HookType = "UserPromptSubmit"
	HookPreToolUse       HookType = "PreToolUse"
	HookPostToolUse      HookType = "PostToolUse"
	HookStop             HookType = "Stop"
	HookSubagentStop     HookType = "SubagentStop"
)

// HookEvent is a single hook event flowing through the bus, before it has
// been classified into the detector's event.Event model.
type HookEvent struct {
	Type      HookType        `json:"hook_event_name"`
	SessionID string          `json:"session_id"`
	Headless  bool            `json:"headless"`
	Raw       json.RawMessage `json:"-"`

	ToolName     string `json:"tool_name,omitempty"`
	ToolInput    string `json:"tool_input,omitempty"`
	ToolResponse string `json:"tool_response,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
	Source       string `json:"source,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Result aggregates handler output for a single hook event.
type Result struct {
	Block    bool     `json:"block,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ToEvent classifies a HookEvent into the detector's event.Event model.
// Unrecognized tool names fall back to event.KindNullAction on
// PreToolUse and to event.KindOtherObservation on PostToolUse, matching
// spec.md §7's "inspectable-but-unmatched" handling of unknown kinds.
func (h HookEvent) ToEvent() event.Event {
	source := event.SourceAgent
	switch h.Source {
	case "user":
		source = event.SourceUser
	case "environment":
		source = event.SourceEnvironment
	}

	switch h.Type {
	case HookUserPromptSubmit:
		return event.Event{Kind: event.KindMessage, Source: event.SourceUser, Content: h.Prompt}
	case HookPreToolUse:
		return classifyAction(h)
	case HookPostToolUse:
		return classifyObservation(h, source)
	default:
		return event.Event{Kind: event.KindNullObservation, Source: source}
	}
}

func classifyAction(h HookEvent) event.Event {
	switch h.ToolName {
	case "bash", "run_command":
		return event.Event{Kind: event.KindCmdRun, Source: event.SourceAgent, Command: h.ToolInput}
	case "read_file":
		return event.Event{Kind: event.KindFileRead, Source: event.SourceAgent, Path: h.ToolInput}
	case "ipython", "run_cell":
		return event.Event{Kind: event.KindIPythonRunCell, Source: event.SourceAgent, Code: h.ToolInput}
	default:
		return event.Event{Kind: event.KindNullAction, Source: event.SourceAgent}
	}
}

func classifyObservation(h HookEvent, source event.Source) event.Event {
	if h.Error != "" {
		return event.Event{Kind: event.KindError, Source: source, Content: h.Error}
	}
	switch h.ToolName {
	case "bash", "run_command":
		return event.Event{Kind: event.KindCmdOutput, Source: source, Command: h.ToolInput, Content: h.ToolResponse}
	case "read_file":
		return event.Event{Kind: event.KindFileReadObs, Source: source, Path: h.ToolInput, Content: h.ToolResponse}
	case "ipython", "run_cell":
		return event.Event{Kind: event.KindIPythonRunCellObs, Source: source, Content: h.ToolResponse}
	default:
		return event.Event{Kind: event.KindOtherObservation, Source: source, Content: h.ToolResponse}
	}
}

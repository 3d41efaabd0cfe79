package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/steveyegge/stuckdetector/internal/event"
)

// Bus receives hook events, appends them to a per-session history, and
// dispatches them to the StuckDetectorHandler. It optionally publishes
// stuck-loop detections to NATS JetStream for downstream observability;
// raw hook events are not published. Publishing is a notification side
// effect only, never an
// input back into the detector's verdict (spec.md §5: the detector holds
// no shared state beyond its own last analysis).
type Bus struct {
	mu       sync.Mutex
	sessions map[string][]event.Event
	handler  *StuckDetectorHandler
	js       nats.JetStreamContext
	logger   *slog.Logger
}

// New creates a Bus bound to the given detector handler.
func New(handler *StuckDetectorHandler, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		sessions: make(map[string][]event.Event),
		handler:  handler,
		logger:   logger,
	}
}

// SetJetStream attaches a JetStream context for publishing. When unset,
// publishing is a no-op.
func (b *Bus) SetJetStream(js nats.JetStreamContext) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.js = js
}

// Dispatch records a hook event into its session's history and, for
// Stop/PostToolUse hooks, invokes the stuck detector on the accumulated
// history. Each session is serialized under the bus's lock, so a single
// Detector instance never sees concurrent IsStuck calls (spec.md §5).
func (b *Bus) Dispatch(ctx context.Context, h HookEvent) (*Result, error) {
	if h.SessionID == "" {
		return nil, fmt.Errorf("eventbus: hook event missing session_id")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ev := h.ToEvent()
	ev.Seq = len(b.sessions[h.SessionID])
	b.sessions[h.SessionID] = append(b.sessions[h.SessionID], ev)

	result := &Result{}
	if h.Type != HookStop && h.Type != HookPostToolUse {
		return result, nil
	}

	hist := b.sessions[h.SessionID]
	if b.handler == nil {
		return result, nil
	}

	analysis, stuck := b.handler.CheckSession(ctx, h.SessionID, hist, h.Headless)
	if !stuck {
		return result, nil
	}

	msg := fmt.Sprintf("stuck loop detected (%s, repeated %d times)", analysis.LoopType, analysis.LoopRepeatTimes)
	result.Warnings = append(result.Warnings, msg)
	if h.Type == HookStop {
		result.Block = true
		result.Reason = msg
	}

	b.publishStuckDetected(h.SessionID, analysis)
	return result, nil
}

// NewSessionID generates a fresh session identifier for callers that
// don't already have one.
func NewSessionID() string {
	return uuid.NewString()
}

func (b *Bus) publishStuckDetected(sessionID string, analysis analysisReport) {
	if b.js == nil {
		return
	}
	payload := StuckDetectedPayload{
		SessionID:       sessionID,
		LoopType:        string(analysis.LoopType),
		LoopRepeatTimes: analysis.LoopRepeatTimes,
		LoopStartIdx:    analysis.LoopStartIdx,
	}
	data, err := payload.marshal()
	if err != nil {
		b.logger.Warn("eventbus: failed to marshal stuck-detected payload", "error", err)
		return
	}
	subject := SubjectStuckPrefix + "detected"
	if _, err := b.js.Publish(subject, data); err != nil {
		b.logger.Warn("eventbus: failed to publish stuck-detected event", "error", err)
	}
}

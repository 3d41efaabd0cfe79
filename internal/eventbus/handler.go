package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/steveyegge/stuckdetector/internal/detector"
	"github.com/steveyegge/stuckdetector/internal/event"
	"github.com/steveyegge/stuckdetector/internal/telemetry"
)

// analysisReport is the subset of detector.StuckAnalysis this package
// needs, kept local so eventbus doesn't leak detector internals beyond
// what it publishes.
type analysisReport struct {
	LoopType        string
	LoopRepeatTimes int
	LoopStartIdx    int
}

// StuckDetectorHandler wraps a detector.Detector for use by the bus. It
// owns one Detector per registered session so that concurrent sessions
// don't share the "last analysis" state spec.md §5 describes as
// per-instance.
//
// Grounded on the teacher's StopLoopDetector — a sliding-window handler
// plugged into the hook dispatch chain at a fixed priority — generalized
// from a stop-hook re-entry counter to a wrapper around the full
// multi-recognizer stuck detector.
type StuckDetectorHandler struct {
	mu        sync.Mutex
	detectors map[string]*detector.Detector
	logger    *slog.Logger
}

// NewStuckDetectorHandler constructs a handler. A nil logger falls back
// to slog.Default().
func NewStuckDetectorHandler(logger *slog.Logger) *StuckDetectorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StuckDetectorHandler{
		detectors: make(map[string]*detector.Detector),
		logger:    logger,
	}
}

// Check runs the stuck detector over hist, using the Detector kept for
// the empty session ID, and returns the analysis on a hit.
func (h *StuckDetectorHandler) Check(ctx context.Context, hist []event.Event, headless bool) (analysisReport, bool) {
	return h.checkForSession(ctx, "", hist, headless)
}

// CheckSession is like Check but scopes the per-session Detector instance
// by sessionID, so each session's "last analysis" is independent.
func (h *StuckDetectorHandler) CheckSession(ctx context.Context, sessionID string, hist []event.Event, headless bool) (analysisReport, bool) {
	return h.checkForSession(ctx, sessionID, hist, headless)
}

func (h *StuckDetectorHandler) checkForSession(ctx context.Context, sessionID string, hist []event.Event, headless bool) (analysisReport, bool) {
	h.mu.Lock()
	d, ok := h.detectors[sessionID]
	if !ok {
		d = detector.New(h.logger)
		h.detectors[sessionID] = d
	}
	h.mu.Unlock()

	var report analysisReport
	_, stuck := telemetry.StuckCheck(ctx, sessionID, func(context.Context) (string, bool) {
		if !d.IsStuck(hist, headless) {
			return "", false
		}
		a, _ := d.StuckAnalysis()
		report = analysisReport{
			LoopType:        string(a.LoopType),
			LoopRepeatTimes: a.LoopRepeatTimes,
			LoopStartIdx:    a.LoopStartIdx,
		}
		return report.LoopType, true
	})
	if !stuck {
		return analysisReport{}, false
	}
	return report, true
}

// StuckDetectedPayload is the JSON body published to STUCK_EVENTS.
type StuckDetectedPayload struct {
	SessionID       string `json:"session_id"`
	LoopType        string `json:"loop_type"`
	LoopRepeatTimes int    `json:"loop_repeat_times"`
	LoopStartIdx    int    `json:"loop_start_idx"`
}

func (p StuckDetectedPayload) marshal() ([]byte, error) {
	return json.Marshal(p)
}

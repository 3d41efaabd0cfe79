package eventbus

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

const (
	// StreamSessionEvents is the JetStream stream for raw session hook events.
	StreamSessionEvents = "SESSION_EVENTS"

	// StreamStuckEvents is the JetStream stream for stuck-loop detections.
	StreamStuckEvents = "STUCK_EVENTS"

	// SubjectSessionPrefix is the subject prefix for session hook events.
	SubjectSessionPrefix = "sessions."

	// SubjectStuckPrefix is the subject prefix for stuck-loop events.
	SubjectStuckPrefix = "stuck."
)

// SubjectForHook returns the NATS subject for a given hook type.
func SubjectForHook(t HookType) string {
	return SubjectSessionPrefix + string(t)
}

// EnsureStreams creates the JetStream streams this package defines
// (SESSION_EVENTS and STUCK_EVENTS), if they don't already exist. Called during daemon startup when NATS is
// enabled (config.EventBusConfig.Enabled).
func EnsureStreams(js nats.JetStreamContext) error {
	if _, err := js.StreamInfo(StreamSessionEvents); err != nil {
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     StreamSessionEvents,
			Subjects: []string{SubjectSessionPrefix + ">"},
			Storage:  nats.FileStorage,
			MaxMsgs:  10000,
			MaxBytes: 100 << 20,
		}); err != nil {
			return fmt.Errorf("create %s stream: %w", StreamSessionEvents, err)
		}
	}

	if _, err := js.StreamInfo(StreamStuckEvents); err != nil {
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     StreamStuckEvents,
			Subjects: []string{SubjectStuckPrefix + ">"},
			Storage:  nats.FileStorage,
			MaxMsgs:  10000,
			MaxBytes: 50 << 20,
		}); err != nil {
			return fmt.Errorf("create %s stream: %w", StreamStuckEvents, err)
		}
	}

	return nil
}

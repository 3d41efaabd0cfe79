package main

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/steveyegge/stuckdetector/internal/eventbus"
)

// dialJetStream connects to the NATS server at url, ensures the streams
// eventbus publishes to exist, and attaches the JetStream context to bus.
func dialJetStream(bus *eventbus.Bus, url string) error {
	nc, err := nats.Connect(url)
	if err != nil {
		return fmt.Errorf("connect nats: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return fmt.Errorf("jetstream context: %w", err)
	}

	if err := eventbus.EnsureStreams(js); err != nil {
		nc.Close()
		return fmt.Errorf("ensure streams: %w", err)
	}

	bus.SetJetStream(js)
	return nil
}

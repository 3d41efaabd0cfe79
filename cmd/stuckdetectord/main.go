// Command stuckdetectord is the long-running daemon: it wires together
// the event bus, the history store, the transcript controller loop, and
// telemetry, then blocks until it receives an interrupt signal.
//
// Grounded on the teacher's cmd/bd root-command shape (global rootCmd,
// main() delegating to rootCmd.Execute()) and cmd/agent-controller/main.go's
// signal-handling main loop. The signal-aware context is built in main
// with signal.NotifyContext; settings come from the config file (named
// by --config) and environment over built-in defaults, via config.Load.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/steveyegge/stuckdetector/internal/config"
	"github.com/steveyegge/stuckdetector/internal/controller"
	"github.com/steveyegge/stuckdetector/internal/detector"
	"github.com/steveyegge/stuckdetector/internal/eventbus"
	"github.com/steveyegge/stuckdetector/internal/historystore"
	"github.com/steveyegge/stuckdetector/internal/telemetry"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stuckdetectord",
	Short: "stuckdetectord - watches agent session transcripts and flags stuck loops",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), configPath)
	},
}

var initConfigCmd = &cobra.Command{
	Use:   "init-config <path>",
	Short: "write a starting stuckdetectord.yaml with the built-in defaults",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.WriteDefault(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd.SetContext(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("stuckdetectord: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	var providers *telemetry.Providers
	if cfg.Telemetry.Enabled {
		providers, err = telemetry.Init(ctx, os.Stdout)
		if err != nil {
			return fmt.Errorf("stuckdetectord: init telemetry: %w", err)
		}
		defer providers.Shutdown(context.Background())
	}

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("stuckdetectord: %w", err)
	}
	defer store.Close()

	handler := eventbus.NewStuckDetectorHandler(logger)
	bus := eventbus.New(handler, logger)

	if cfg.EventBus.Enabled {
		if err := connectJetStream(bus, cfg.EventBus.NATSURL); err != nil {
			logger.Warn("stuckdetectord: nats disabled, continuing without publish", "error", err)
		}
	}

	loop := controller.New(controller.Config{
		WatchDir:          cfg.Controller.WatchDir,
		ReconcileInterval: cfg.Controller.PollInterval,
		Headless:          true,
	}, store, logger, func(sessionID string, analysis *detector.StuckAnalysis) {
		logger.Warn("stuck loop detected",
			"session_id", sessionID,
			"loop_type", analysis.LoopType,
			"repeat_times", analysis.LoopRepeatTimes,
			"loop_start_idx", analysis.LoopStartIdx,
		)
	})

	logger.Info("stuckdetectord starting", "watch_dir", cfg.Controller.WatchDir, "storage", cfg.Storage.Backend)
	err = loop.Run(ctx)
	if err != nil && ctx.Err() != nil {
		logger.Info("stuckdetectord stopped")
		return nil
	}
	return err
}

func openStore(ctx context.Context, cfg config.StorageConfig) (historystore.Store, error) {
	if cfg.Backend == "mysql" {
		store, err := historystore.OpenMySQLStore(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}
	return historystore.NewMemoryStore(), nil
}

// connectJetStream rejects an empty URL before any dial, so that check
// runs without a live broker; otherwise dialJetStream dials nats.Connect
// and calls bus.SetJetStream with the resulting JetStream context.
func connectJetStream(bus *eventbus.Bus, url string) error {
	if url == "" {
		return fmt.Errorf("eventbus.nats_url is required when eventbus.enabled is true")
	}
	return dialJetStream(bus, url)
}

// Package config loads settings for the services that host the stuck
// detector: the event bus daemon and the transcript-replay controller.
// Recognizer thresholds are never configurable here — spec.md §6 fixes
// them as named constants in internal/recognizer.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the top-level settings struct for stuckdetectord.
type Config struct {
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	Controller ControllerConfig `mapstructure:"controller" yaml:"controller"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry" yaml:"telemetry"`
	EventBus   EventBusConfig   `mapstructure:"eventbus" yaml:"eventbus"`
}

// ControllerConfig configures the polling/watch loop that feeds events
// into the detector (spec.md §1's "external controller" collaborator).
type ControllerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	WatchDir     string        `mapstructure:"watch_dir" yaml:"watch_dir"`
}

// StorageConfig configures the history store backend.
type StorageConfig struct {
	// Backend is "memory" or "mysql".
	Backend string `mapstructure:"backend" yaml:"backend"`
	DSN     string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// TelemetryConfig configures the OTel exporters.
type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	Enabled     bool   `mapstructure:"enabled" yaml:"enabled"`
}

// EventBusConfig configures the optional NATS JetStream publish side.
type EventBusConfig struct {
	NATSURL string `mapstructure:"nats_url" yaml:"nats_url,omitempty"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the built-in defaults, used when no config file and no
// env override is present.
func Default() Config {
	return Config{
		LogLevel: "info",
		Controller: ControllerConfig{
			PollInterval: 2 * time.Second,
			WatchDir:     ".",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "stuckdetectord",
			Enabled:     true,
		},
		EventBus: EventBusConfig{
			Enabled: false,
		},
	}
}

// Load reads configuration from an optional YAML file at path (empty
// string skips the file), overlaying STUCKDETECTOR_-prefixed environment
// variables, on top of Default().
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STUCKDETECTOR")
	v.AutomaticEnv()

	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("controller.poll_interval", cfg.Controller.PollInterval)
	v.SetDefault("controller.watch_dir", cfg.Controller.WatchDir)
	v.SetDefault("storage.backend", cfg.Storage.Backend)
	v.SetDefault("storage.dsn", cfg.Storage.DSN)
	v.SetDefault("telemetry.service_name", cfg.Telemetry.ServiceName)
	v.SetDefault("telemetry.enabled", cfg.Telemetry.Enabled)
	v.SetDefault("eventbus.nats_url", cfg.EventBus.NATSURL)
	v.SetDefault("eventbus.enabled", cfg.EventBus.Enabled)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.Storage.Backend != "memory" && cfg.Storage.Backend != "mysql" {
		return Config{}, fmt.Errorf("config: unknown storage backend %q", cfg.Storage.Backend)
	}

	return cfg, nil
}

// WriteDefault writes Default() to path as YAML, for `stuckdetectord
// init-config` to scaffold a starting file an operator can edit.
// Grounded on the teacher's direct gopkg.in/yaml.v3 usage for
// config.yaml (cmd/bd/config_local.go parses the same file on read;
// this is the write-side counterpart).
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("config: marshal default: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

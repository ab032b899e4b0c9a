package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application configuration values.
type Config struct {
	Logging LoggingConfig
	Kafka   KafkaConfig
	Export  ExportConfig
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level  string
	Format string // console|json
}

// KafkaConfig describes where account snapshot events are published.
// Publishing is disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ExportConfig controls the optional snapshot sinks.
type ExportConfig struct {
	DatabaseURL string
	Timeout     time.Duration
}

const (
	defaultLoggingLevel  = "info"
	defaultLoggingFormat = "console"
	defaultKafkaTopic    = "account_snapshots"
	defaultExportTimeout = 30 * time.Second
)

// Load reads envFile (if it exists) into the process environment without
// overriding variables that are already set, then builds the configuration
// from environment variables, applying defaults.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		Logging: LoggingConfig{
			Level:  valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format: strings.ToLower(valueOrDefault("LOG_FORMAT", defaultLoggingFormat)),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   valueOrDefault("KAFKA_TOPIC", defaultKafkaTopic),
		},
		Export: ExportConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Timeout:     defaultExportTimeout,
		},
	}

	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q: want console or json", cfg.Logging.Format)
	}

	if v := os.Getenv("EXPORT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EXPORT_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("EXPORT_TIMEOUT must be positive, got %s", d)
		}
		cfg.Export.Timeout = d
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{"LOG_LEVEL", "LOG_FORMAT", "KAFKA_BROKERS", "KAFKA_TOPIC", "DATABASE_URL", "EXPORT_TIMEOUT"}

// clearEnv blanks every key for the duration of the test. Setting a key to
// "" counts as unset for Load, and t.Setenv restores the old value afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "account_snapshots", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Export.DatabaseURL)
	assert.Equal(t, 30*time.Second, cfg.Export.Timeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("KAFKA_TOPIC", "snapshots")
	t.Setenv("DATABASE_URL", "postgres://localhost/engine")
	t.Setenv("EXPORT_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "snapshots", cfg.Kafka.Topic)
	assert.Equal(t, "postgres://localhost/engine", cfg.Export.DatabaseURL)
	assert.Equal(t, 5*time.Second, cfg.Export.Timeout)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "warn")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("KAFKA_TOPIC=from-file\n"), 0o600))
	// godotenv only fills unset keys, and t.Setenv("") leaves the key set
	require.NoError(t, os.Unsetenv("KAFKA_TOPIC"))

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "from-file", cfg.Kafka.Topic)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad format":       {"LOG_FORMAT": "xml"},
		"bad timeout":      {"EXPORT_TIMEOUT": "soon"},
		"negative timeout": {"EXPORT_TIMEOUT": "-1s"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

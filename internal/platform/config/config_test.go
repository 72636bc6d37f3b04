package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "user@example.com", cfg.Auth.AdminEmail)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.Latency.Simulated)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ADMIN_ADDR", ":9090")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("LATENCY_SIMULATED", "500ms")
	t.Setenv("KAFKA_BROKERS", "localhost:9092,localhost:9093")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Latency.Simulated)
	assert.Equal(t, []string{"localhost:9092", "localhost:9093"}, cfg.Kafka.Brokers)
}

func TestValidate(t *testing.T) {
	t.Run("postgres requires database url", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "postgres")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "DATABASE_URL")
	})

	t.Run("rejects unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "mongo")
		_, err := FromEnv()
		assert.ErrorContains(t, err, "unknown storage driver")
	})
}

func TestLockoutSettings(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Lockout.Attempts)
	assert.Equal(t, 15*time.Minute, cfg.Lockout.Window)

	t.Setenv("SIGNIN_MAX_ATTEMPTS", "0")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "SIGNIN_MAX_ATTEMPTS")
}

package config_test

import (
	"testing"
	"time"

	"go-gin-event-manager/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, int32(25), cfg.Database.MaxConns)
		assert.Equal(t, "redis", cfg.Activity.Queue)
		assert.Equal(t, 10*time.Minute, cfg.Activity.BadgeCacheTTL)
		assert.Same(t, cfg, config.AppConfig)
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("ACTIVITY_QUEUE", "memory")
		t.Setenv("SHUTDOWN_TIMEOUT", "3s")
		t.Setenv("ACTIVITY_RETRY_DELAY", "250ms")

		cfg, err := config.LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, 3, cfg.Redis.DB)
		assert.Equal(t, "memory", cfg.Activity.Queue)
		assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 250*time.Millisecond, cfg.Activity.RetryDelay)
	})

	t.Run("invalid int", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		t.Setenv("REDIS_DB", "zero")

		_, err := config.LoadConfig()

		require.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "h", Port: "1", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=d sslmode=disable timezone=UTC", cfg.DSN())
}

func TestLoadTestConfig(t *testing.T) {
	cfg := config.LoadTestConfig()
	assert.Equal(t, "memory", cfg.Activity.Queue)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
}

package logger_test

import (
	"testing"

	"go-gin-event-manager/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	prev := logger.L
	t.Cleanup(func() { logger.L = prev })

	t.Run("debug level", func(t *testing.T) {
		require.NoError(t, logger.Init("debug", "json"))
		assert.True(t, logger.L.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		require.NoError(t, logger.Init("loud", "console"))
		assert.False(t, logger.L.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, logger.L.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("component logger", func(t *testing.T) {
		require.NoError(t, logger.Init("warn", "json"))
		l := logger.WithComponent("service")
		assert.NotNil(t, l)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	})
}

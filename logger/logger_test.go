package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitLoggerValidLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		t.Run(level, func(t *testing.T) {
			assert.NoError(t, InitLogger(level))
			assert.NotNil(t, GetLogger())
		})
	}
}

func TestInitLoggerIgnoresCase(t *testing.T) {
	assert.NoError(t, InitLogger("DEBUG"))
	assert.True(t, GetLogger().Enabled(context.Background(), slog.LevelDebug))

	assert.NoError(t, InitLogger(" Warn "))
	assert.False(t, GetLogger().Enabled(context.Background(), slog.LevelInfo))
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLogger("verbose"))
}

func TestGetLoggerBeforeInit(t *testing.T) {
	globalLogger = nil
	assert.Same(t, slog.Default(), GetLogger())
}

func TestGetLoggerAfterInit(t *testing.T) {
	assert.NoError(t, InitLogger("info"))
	assert.Same(t, globalLogger, GetLogger())
}

package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLoggerFromConfigWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placesim.log")

	require.NoError(t, InitLoggerFromConfig(LoggingConfig{Level: "debug", File: path, MaxSizeMB: 1}))
	ComponentLogger("test").Debug("hello from test", zap.Int("answer", 42))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestInitLoggerFromConfigLevel(t *testing.T) {
	require.NoError(t, InitLoggerFromConfig(LoggingConfig{Level: "warn"}))
	assert.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, GetLogger().Core().Enabled(zapcore.WarnLevel))

	t.Setenv("LOG_LEVEL", "debug")
	require.NoError(t, InitLoggerFromConfig(LoggingConfig{Level: "warn"}))
	assert.True(t, GetLogger().Core().Enabled(zapcore.DebugLevel))
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	assert.Error(t, InitLoggerFromConfig(LoggingConfig{Level: "loud"}))
}

func TestLoggerContext(t *testing.T) {
	require.NoError(t, InitLoggerFromConfig(LoggingConfig{Development: true}))

	l := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), l)

	assert.Same(t, l, LoggerFromContext(ctx))
	assert.Same(t, GetLogger(), LoggerFromContext(context.Background()))
}

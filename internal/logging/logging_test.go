package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLoggerRoutesHelpers(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { SetLogger(prev) })

	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))

	Info("ranking finished", zap.Int("evaluated", 3))
	Named("api").Warn("slow request")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "ranking finished", logs.All()[0].Message)
	assert.Equal(t, int64(3), logs.All()[0].ContextMap()["evaluated"])
	assert.Equal(t, "api", logs.All()[1].LoggerName)
}

func TestBuildWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fuzzy-rank.log")
	logger, err := Build(Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("hello")
	logger.Debug("dropped")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.NotContains(t, string(data), "dropped")
}

func TestInitializeDefaultInstallsLogger(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { SetLogger(prev) })

	InitializeDefault()
	require.NotNil(t, Logger)
	require.NotNil(t, Sugar)
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
}

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradeboard/config"
)

func TestNewWritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tradeboard.log")

	log, err := New(config.LogConfig{Level: "debug", Encoding: "json", File: path, MaxSize: 1})
	require.NoError(t, err)

	Component(log, "test").Info("cycle finished", zap.Int("rows", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"cycle finished"`)
	assert.Contains(t, string(data), `"component":"test"`)
	assert.Contains(t, string(data), `"rows":3`)
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New(config.LogConfig{Level: "chatty", Encoding: "console"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
}

func TestComponentNil(t *testing.T) {
	assert.NotNil(t, Component(nil, "x"))
}

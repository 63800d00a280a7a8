package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.GossipInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestGossipIntervalOverride(t *testing.T) {
	t.Setenv(gossipIntervalEnv, "50ms")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 50*time.Millisecond, cfg.GossipInterval)
}

func TestGossipIntervalRejectsGarbage(t *testing.T) {
	t.Setenv(gossipIntervalEnv, "soon")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestGossipIntervalRejectsNonPositive(t *testing.T) {
	for _, v := range []string{"0s", "-1s"} {
		t.Setenv(gossipIntervalEnv, v)

		_, err := FromEnv()
		require.Error(t, err, "interval %s should be rejected", v)
	}
}

func TestLogLevelOverride(t *testing.T) {
	t.Setenv(logLevelEnv, "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)

	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	defer logger.Sync()
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	cfg := Config{LogLevel: "loud"}
	_, err := cfg.NewLogger()
	require.Error(t, err)
}

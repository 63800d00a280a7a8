// Package config reads the ambient runtime knobs. The Maelstrom driver owns
// argv and supplies all protocol identity over stdin, so the environment is
// the only configuration channel left to us.
package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gossipIntervalEnv = "BEDLAM_GOSSIP_INTERVAL"
	logLevelEnv       = "BEDLAM_LOG_LEVEL"

	defaultGossipInterval = 500 * time.Millisecond
	defaultLogLevel       = "info"
)

type Config struct {
	// GossipInterval is the anti-entropy tick period.
	GossipInterval time.Duration
	LogLevel       string
}

func FromEnv() (Config, error) {
	cfg := Config{
		GossipInterval: defaultGossipInterval,
		LogLevel:       defaultLogLevel,
	}

	if v := os.Getenv(gossipIntervalEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", gossipIntervalEnv, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s must be positive, got %s", gossipIntervalEnv, d)
		}
		cfg.GossipInterval = d
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

// NewLogger builds the process logger. Everything goes to stderr: stdout is
// the protocol stream and must never carry diagnostics.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", logLevelEnv, err)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

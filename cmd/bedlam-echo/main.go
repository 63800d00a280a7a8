// bedlam-echo runs the same node core for the echo and unique-ids workloads.
// No gossip ticker: those workloads never populate the broadcast set, so
// anti-entropy rounds would be pure no-ops.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raysuliteanu/bedlam/internal/config"
	"github.com/raysuliteanu/bedlam/internal/node"
)

// ./maelstrom test -w echo --bin ./bin/bedlam-echo --node-count 1 --time-limit 10
// ./maelstrom test -w unique-ids --bin ./bin/bedlam-echo --time-limit 30 --rate 1000 --node-count 3 --availability total --nemesis partition
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		zap.Must(zap.NewDevelopment()).Fatal("bad configuration", zap.Error(err))
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		zap.Must(zap.NewDevelopment()).Fatal("logger setup", zap.Error(err))
	}
	defer logger.Sync()

	logger = logger.With(zap.String("run", uuid.NewString()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := node.NewBus(ctx)
	go node.ReadLines(ctx, os.Stdin, bus, logger)

	if err := node.New(bus.Events(), os.Stdout, logger).Run(); err != nil {
		logger.Fatal("node terminated", zap.Error(err))
	}
}

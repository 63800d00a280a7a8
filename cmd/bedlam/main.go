// bedlam is a Maelstrom broadcast node: it answers echo/generate/broadcast/
// read/topology over stdin/stdout and gossips broadcast values to its
// neighbors on a timer until convergence.
package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/raysuliteanu/bedlam/internal/config"
	"github.com/raysuliteanu/bedlam/internal/node"
)

// ./maelstrom test -w broadcast --bin ./bin/bedlam --node-count 25 --time-limit 20 --rate 100 --latency 100 --nemesis partition
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

	// every node in a run logs to the same terminal; the run id tells the
	// interleaved stderr streams apart
	logger = logger.With(zap.String("run", uuid.NewString()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := node.NewBus(ctx)
	go node.ReadLines(ctx, os.Stdin, bus, logger)
	go node.Ticks(ctx, cfg.GossipInterval, bus, logger)

	if err := node.New(bus.Events(), os.Stdout, logger).Run(); err != nil {
		logger.Fatal("node terminated", zap.Error(err))
	}
}

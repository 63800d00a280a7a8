package node

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Ticks publishes a TickEvent every interval until ctx is cancelled. Each
// tick drives one anti-entropy round in the node loop. A rejected publish
// after shutdown just ends the goroutine.
func Ticks(ctx context.Context, interval time.Duration, bus *Bus, log *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !bus.Publish(ctx, TickEvent{}) {
				log.Debug("bus gone, ticker exiting")
				return
			}
		}
	}
}

package node

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestTicksArrivePeriodically(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	bus := NewBus(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Ticks(ctx, time.Millisecond, bus, zaptest.NewLogger(t))
	}()

	for i := 0; i < 3; i++ {
		select {
		case ev := <-bus.Events():
			require.IsType(t, TickEvent{}, ev)
		case <-time.After(5 * time.Second):
			t.Fatal("no tick arrived")
		}
	}

	cancel()
	<-done
}

func TestTickerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	bus := NewBus(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Ticks(ctx, time.Millisecond, bus, zaptest.NewLogger(t))
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ticker kept running after shutdown")
	}
}

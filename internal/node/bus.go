package node

import "context"

// Bus merges the reader's messages, the ticker's ticks, and end-of-stream
// into one FIFO consumed by the node loop. It is the only synchronization
// point in the process: producers publish, exactly one consumer receives,
// and no other shared state exists.
//
// The queue is unbounded so producers never block behind a slow consumer;
// if the loop stalls, ticks and messages pile up here in arrival order
// rather than being dropped or coalesced.
type Bus struct {
	in  chan Event
	out chan Event
}

func NewBus(ctx context.Context) *Bus {
	b := &Bus{
		in:  make(chan Event),
		out: make(chan Event),
	}

	go b.pump(ctx)

	return b
}

func (b *Bus) pump(ctx context.Context) {
	var backlog []Event

	for {
		var (
			out  chan Event
			next Event
		)
		if len(backlog) > 0 {
			out = b.out
			next = backlog[0]
		}

		select {
		case ev := <-b.in:
			backlog = append(backlog, ev)
		case out <- next:
			backlog = backlog[1:]
		case <-ctx.Done():
			return
		}
	}
}

// Publish enqueues ev. It reports false once ctx is cancelled, which is the
// producer's cue to exit quietly: a rejected send after shutdown is expected,
// never an error.
func (b *Bus) Publish(ctx context.Context, ev Event) bool {
	select {
	case b.in <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// Events is the consumer side. Only the node loop receives from it.
func (b *Bus) Events() <-chan Event {
	return b.out
}

package node

import "github.com/raysuliteanu/bedlam/internal/protocol"

// Event is what flows over the bus: a decoded wire message, a gossip timer
// tick, or end of input. Events are transient; nothing holds one after the
// loop has processed it.
type Event interface {
	event()
}

type MessageEvent struct {
	Message protocol.Message
}

type TickEvent struct{}

// EofEvent ends the node loop. Err is nil when the input stream simply
// ended; a read or decode failure rides along here so the loop can exit
// non-zero after draining whatever is queued ahead of it.
type EofEvent struct {
	Err error
}

func (MessageEvent) event() {}
func (TickEvent) event()    {}
func (EofEvent) event()     {}

// Package node is the broadcast node core: the event bus merging stdin
// messages, gossip ticks, and end-of-stream into one serialized stream, and
// the state machine that consumes it. The Node goroutine exclusively owns
// all cluster state and the output stream, so no locks exist anywhere.
package node

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/raysuliteanu/bedlam/internal/protocol"
	"github.com/raysuliteanu/bedlam/internal/sets"
)

// Node holds everything a cluster member knows. It is created blank, learns
// its identity from the driver's init message, and then processes events
// until the input ends.
type Node struct {
	nodeID string
	// cluster includes nodeID
	cluster  []string
	topology map[string][]string

	// values learned from client broadcasts or peer gossip; grows only
	broadcastIDs map[int]struct{}
	// per-neighbor record of values that neighbor already has, learned
	// solely from gossip *they* send us, so we never gossip those back
	knownIDs map[string]map[int]struct{}

	// next outbound msg_id; incremented on every send, replies included
	nextMsgID int

	events <-chan Event
	out    *bufio.Writer
	log    *zap.Logger
}

func New(events <-chan Event, out io.Writer, log *zap.Logger) *Node {
	return &Node{
		topology:     make(map[string][]string),
		broadcastIDs: make(map[int]struct{}),
		knownIDs:     make(map[string]map[int]struct{}),
		events:       events,
		out:          bufio.NewWriter(out),
		log:          log,
	}
}

// Run drives the node through its whole lifecycle: the first event must be
// an init message, then events are processed one at a time until an
// EofEvent. Any returned error is a protocol or invariant violation and the
// caller is expected to exit non-zero.
func (n *Node) Run() error {
	if err := n.initialize(); err != nil {
		return err
	}

	for ev := range n.events {
		switch ev := ev.(type) {
		case TickEvent:
			if err := n.gossip(); err != nil {
				return err
			}
		case MessageEvent:
			if err := n.handleMessage(ev.Message); err != nil {
				return err
			}
		case EofEvent:
			if ev.Err != nil {
				return ev.Err
			}
			n.log.Info("input exhausted, shutting down")
			return nil
		}
	}

	return errors.New("event bus closed without eof")
}

// initialize consumes the init handshake. The driver guarantees init arrives
// before anything else; anything else first is a hard protocol violation.
func (n *Node) initialize() error {
	ev, ok := <-n.events
	if !ok {
		return errors.New("event bus closed before init")
	}

	me, ok := ev.(MessageEvent)
	if !ok {
		return fmt.Errorf("expected init message before any other event, got %T", ev)
	}

	init, ok := me.Message.Body.Payload.(*protocol.Init)
	if !ok {
		return fmt.Errorf("expected init message, got %s", me.Message.Body.Payload.Kind())
	}

	n.nodeID = init.NodeID
	n.cluster = append([]string(nil), init.NodeIDs...)

	// trivial topology until the driver sends an explicit one: we point at
	// every other cluster member
	peers := make([]string, 0, len(n.cluster))
	for _, id := range n.cluster {
		if id != n.nodeID {
			peers = append(peers, id)
		}
	}
	n.topology = map[string][]string{n.nodeID: peers}

	n.knownIDs = make(map[string]map[int]struct{}, len(peers))
	for _, id := range peers {
		n.knownIDs[id] = make(map[int]struct{})
	}

	if err := n.send(me.Message.Src, me.Message.Body.MsgID, &protocol.InitOk{}); err != nil {
		return err
	}

	n.log.Info("initialized",
		zap.String("node_id", n.nodeID),
		zap.Strings("cluster", n.cluster))

	return nil
}

func (n *Node) handleMessage(msg protocol.Message) error {
	n.log.Debug("processing message",
		zap.String("src", msg.Src),
		zap.String("type", msg.Body.Payload.Kind()))

	switch p := msg.Body.Payload.(type) {
	case *protocol.Init:
		return errors.New("got init but already initialized")

	case *protocol.Echo:
		return n.reply(msg, &protocol.EchoOk{Echo: p.Echo})

	case *protocol.Generate:
		// unique across the cluster: node ids are distinct and nextMsgID
		// never repeats on this node
		id := fmt.Sprintf("%s-%d", n.nodeID, n.nextMsgID)
		return n.reply(msg, &protocol.GenerateOk{ID: id})

	case *protocol.Broadcast:
		n.broadcastIDs[p.Message] = struct{}{}
		return n.reply(msg, &protocol.BroadcastOk{})

	case *protocol.Read:
		return n.reply(msg, &protocol.ReadOk{Messages: sets.Elements(n.broadcastIDs)})

	case *protocol.Topology:
		n.topology = p.Topology
		n.knownIDs = make(map[string]map[int]struct{}, len(p.Topology))
		for id := range p.Topology {
			if id != n.nodeID {
				n.knownIDs[id] = make(map[int]struct{})
			}
		}
		n.log.Debug("topology replaced", zap.Any("topology", n.topology))
		return n.reply(msg, &protocol.TopologyOk{})

	case *protocol.Gossip:
		return n.applyGossip(msg.Src, p.Messages)

	default:
		if protocol.IsReply(msg.Body.Payload) {
			// replies to our own sends; nothing tracks delivery here
			return nil
		}
		return fmt.Errorf("unhandled message type %s", msg.Body.Payload.Kind())
	}
}

// applyGossip merges a peer's gossip into our set and records that the peer
// has those values, so ticks stop sending them back.
func (n *Node) applyGossip(src string, messages []int) error {
	known, ok := n.knownIDs[src]
	if !ok {
		return fmt.Errorf("no known-ids entry for gossip sender %s", src)
	}

	incoming := sets.FromSlice(messages)
	n.broadcastIDs = sets.Union(n.broadcastIDs, incoming)
	n.knownIDs[src] = sets.Union(known, incoming)

	n.log.Debug("applied gossip",
		zap.String("src", src),
		zap.Int("count", len(messages)))

	return nil
}

// gossip runs one anti-entropy round: for each neighbor, send the values we
// hold that the neighbor is not known to have. Known-ids is deliberately not
// updated on send; only the neighbor's own gossip confirms what it has, so a
// value is re-sent until then. That tolerates lost messages at the cost of
// duplicates on quiet edges.
func (n *Node) gossip() error {
	if len(n.broadcastIDs) == 0 {
		return nil
	}

	neighbors, ok := n.topology[n.nodeID]
	if !ok {
		return fmt.Errorf("topology has no entry for this node %s", n.nodeID)
	}

	for _, dst := range neighbors {
		known, ok := n.knownIDs[dst]
		if !ok {
			return fmt.Errorf("no known-ids entry for neighbor %s", dst)
		}

		pending := sets.Minus(n.broadcastIDs, known)
		if len(pending) == 0 {
			continue
		}

		n.log.Debug("gossiping",
			zap.String("dst", dst),
			zap.Int("count", len(pending)))

		if err := n.send(dst, nil, &protocol.Gossip{Messages: sets.Elements(pending)}); err != nil {
			return err
		}
	}

	return nil
}

func (n *Node) reply(to protocol.Message, payload protocol.Payload) error {
	return n.send(to.Src, to.Body.MsgID, payload)
}

// send assigns the next msg_id, writes the message as one complete line, and
// flushes. Only the node loop calls this, so lines never interleave.
func (n *Node) send(dst string, inReplyTo *int, payload protocol.Payload) error {
	msgID := n.nextMsgID
	n.nextMsgID++

	msg := protocol.Message{
		Src: n.nodeID,
		Dst: dst,
		Body: protocol.Body{
			MsgID:     &msgID,
			InReplyTo: inReplyTo,
			Payload:   payload,
		},
	}

	line, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s to %s: %w", payload.Kind(), dst, err)
	}

	if _, err := n.out.Write(line); err != nil {
		return fmt.Errorf("write %s to %s: %w", payload.Kind(), dst, err)
	}
	if err := n.out.WriteByte('\n'); err != nil {
		return fmt.Errorf("write %s to %s: %w", payload.Kind(), dst, err)
	}
	if err := n.out.Flush(); err != nil {
		return fmt.Errorf("flush %s to %s: %w", payload.Kind(), dst, err)
	}

	n.log.Debug("sent message",
		zap.String("dst", dst),
		zap.String("type", payload.Kind()),
		zap.Int("msg_id", msgID))

	return nil
}

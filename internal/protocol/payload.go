package protocol

import "fmt"

// Payload is the closed set of body variants. Kind returns the wire "type"
// tag for the variant.
type Payload interface {
	Kind() string
}

type Init struct {
	NodeID string `json:"node_id"`
	// NodeIDs includes NodeID
	NodeIDs []string `json:"node_ids"`
}

type InitOk struct{}

type Echo struct {
	Echo string `json:"echo"`
}

type EchoOk struct {
	Echo string `json:"echo"`
}

type Generate struct{}

type GenerateOk struct {
	ID string `json:"id"`
}

type Broadcast struct {
	Message int `json:"message"`
}

type BroadcastOk struct{}

type Read struct{}

type ReadOk struct {
	Messages []int `json:"messages"`
}

type Topology struct {
	Topology map[string][]string `json:"topology"`
}

type TopologyOk struct{}

type Gossip struct {
	Messages []int `json:"messages"`
}

func (*Init) Kind() string        { return "init" }
func (*InitOk) Kind() string      { return "init_ok" }
func (*Echo) Kind() string        { return "echo" }
func (*EchoOk) Kind() string      { return "echo_ok" }
func (*Generate) Kind() string    { return "generate" }
func (*GenerateOk) Kind() string  { return "generate_ok" }
func (*Broadcast) Kind() string   { return "broadcast" }
func (*BroadcastOk) Kind() string { return "broadcast_ok" }
func (*Read) Kind() string        { return "read" }
func (*ReadOk) Kind() string      { return "read_ok" }
func (*Topology) Kind() string    { return "topology" }
func (*TopologyOk) Kind() string  { return "topology_ok" }
func (*Gossip) Kind() string      { return "gossip" }

// IsReply reports whether p is one of the *_ok variants a peer sends back to
// our own requests. Unsolicited replies are accepted and ignored by the node.
func IsReply(p Payload) bool {
	switch p.(type) {
	case *InitOk, *EchoOk, *GenerateOk, *BroadcastOk, *ReadOk, *TopologyOk:
		return true
	default:
		return false
	}
}

func newPayload(kind string) (Payload, error) {
	switch kind {
	case "init":
		return &Init{}, nil
	case "init_ok":
		return &InitOk{}, nil
	case "echo":
		return &Echo{}, nil
	case "echo_ok":
		return &EchoOk{}, nil
	case "generate":
		return &Generate{}, nil
	case "generate_ok":
		return &GenerateOk{}, nil
	case "broadcast":
		return &Broadcast{}, nil
	case "broadcast_ok":
		return &BroadcastOk{}, nil
	case "read":
		return &Read{}, nil
	case "read_ok":
		return &ReadOk{}, nil
	case "topology":
		return &Topology{}, nil
	case "topology_ok":
		return &TopologyOk{}, nil
	case "gossip":
		return &Gossip{}, nil
	default:
		return nil, fmt.Errorf("unknown message type %q", kind)
	}
}

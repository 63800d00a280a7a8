package node

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/raysuliteanu/bedlam/internal/protocol"
)

const maxLineBytes = 1 << 20

// ReadLines decodes one wire message per input line and publishes each as a
// MessageEvent. It holds no node state; it only produces. When the stream
// ends it publishes a single EofEvent (carrying the decode or read error, if
// any) and returns.
func ReadLines(ctx context.Context, r io.Reader, bus *Bus, log *zap.Logger) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(line, &msg); err != nil {
			bus.Publish(ctx, EofEvent{Err: fmt.Errorf("decode input line: %w", err)})
			return
		}

		if !bus.Publish(ctx, MessageEvent{Message: msg}) {
			log.Debug("bus gone, reader exiting")
			return
		}
	}

	var err error
	if scanErr := sc.Err(); scanErr != nil {
		err = fmt.Errorf("read input: %w", scanErr)
	}

	bus.Publish(ctx, EofEvent{Err: err})
}

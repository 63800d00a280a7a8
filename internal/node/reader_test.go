package node

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/raysuliteanu/bedlam/internal/protocol"
)

func collectUntilEof(t *testing.T, bus *Bus) ([]Event, EofEvent) {
	t.Helper()

	var events []Event
	for ev := range bus.Events() {
		if eof, ok := ev.(EofEvent); ok {
			return events, eof
		}
		events = append(events, ev)
	}

	t.Fatal("bus closed without eof")
	return nil, EofEvent{}
}

func TestReadLinesDecodesEachLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := strings.Join([]string{
		`{"src":"c0","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}`,
		`{"src":"c2","dest":"n1","body":{"type":"echo","msg_id":2,"echo":"hi"}}`,
		``,
	}, "\n")

	bus := NewBus(ctx)
	go ReadLines(ctx, strings.NewReader(input), bus, zaptest.NewLogger(t))

	events, eof := collectUntilEof(t, bus)
	require.NoError(t, eof.Err)
	require.Len(t, events, 2)

	first, ok := events[0].(MessageEvent)
	require.True(t, ok)
	assert.IsType(t, &protocol.Init{}, first.Message.Body.Payload)

	second, ok := events[1].(MessageEvent)
	require.True(t, ok)
	assert.Equal(t, "c2", second.Message.Src)
}

func TestReadLinesSkipsBlankLines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := "\n\n" + `{"src":"c2","dest":"n1","body":{"type":"read","msg_id":1}}` + "\n\n"

	bus := NewBus(ctx)
	go ReadLines(ctx, strings.NewReader(input), bus, zaptest.NewLogger(t))

	events, eof := collectUntilEof(t, bus)
	require.NoError(t, eof.Err)
	assert.Len(t, events, 1)
}

func TestReadLinesMalformedLineIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := `{"src":"c2","dest":"n1","body":{"type":"read","msg_id":1}}` + "\n" +
		`{not json` + "\n" +
		`{"src":"c2","dest":"n1","body":{"type":"read","msg_id":2}}` + "\n"

	bus := NewBus(ctx)
	go ReadLines(ctx, strings.NewReader(input), bus, zaptest.NewLogger(t))

	events, eof := collectUntilEof(t, bus)
	require.Error(t, eof.Err)
	assert.Len(t, events, 1, "nothing after the malformed line is forwarded")
}

func TestReadLinesUnknownTypeIsTerminal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	input := `{"src":"c2","dest":"n1","body":{"type":"launch_missiles","msg_id":1}}` + "\n"

	bus := NewBus(ctx)
	go ReadLines(ctx, strings.NewReader(input), bus, zaptest.NewLogger(t))

	events, eof := collectUntilEof(t, bus)
	require.Error(t, eof.Err)
	assert.Contains(t, eof.Err.Error(), "launch_missiles")
	assert.Empty(t, events)
}

func TestReadLinesCleanEof(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewBus(ctx)
	go ReadLines(ctx, strings.NewReader(""), bus, zaptest.NewLogger(t))

	events, eof := collectUntilEof(t, bus)
	assert.NoError(t, eof.Err)
	assert.Empty(t, events)
}

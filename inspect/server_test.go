package inspect

import (
	"context"
	"encoding/json"
	"runtime"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	mpsc "github.com/wagiedev/mpsc-go"
)

func textOf(t *testing.T, result map[string]any) string {
	t.Helper()

	content, ok := result["content"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, content, 1)

	text, ok := content[0]["text"].(string)
	require.True(t, ok)

	return text
}

func TestServerMetadata(t *testing.T) {
	server := NewServer("pipeline", "1.2.3")

	require.Equal(t, "pipeline", server.Name())
	require.Equal(t, "1.2.3", server.Version())

	tools := server.ListTools()
	require.Len(t, tools, 2)
	require.Equal(t, ToolChannelStats, tools[0]["name"])
	require.Equal(t, ToolListChannels, tools[1]["name"])

	inputSchema, ok := tools[0]["inputSchema"].(map[string]any)
	require.True(t, ok, "expected inputSchema to be serialized as a map")
	require.Equal(t, "object", inputSchema["type"])
	require.Equal(t, []any{"id"}, inputSchema["required"])
}

func TestServerListChannels(t *testing.T) {
	server := NewServer("pipeline", "1.0.0")

	txA, rxA := mpsc.Channel[int](mpsc.WithID("a"), mpsc.WithName("ingest"))
	txB, rxB := mpsc.Channel[string](mpsc.WithID("b"))

	require.NoError(t, txA.Send(1))
	require.NoError(t, txA.Send(2))

	server.Track(txB)
	server.Track(rxA)

	result, err := server.CallTool(context.Background(), ToolListChannels, nil)
	require.NoError(t, err)
	require.NotContains(t, result, "is_error")

	var stats []mpsc.Stats
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	require.Len(t, stats, 2)
	require.Equal(t, "a", stats[0].ID)
	require.Equal(t, "ingest", stats[0].Name)
	require.Equal(t, 2, stats[0].Queued)
	require.Equal(t, "b", stats[1].ID)
	require.True(t, stats[1].ReceiverOpen)

	require.NoError(t, rxB.Close())
}

func TestServerChannelStats(t *testing.T) {
	server := NewServer("pipeline", "1.0.0")

	tx, rx := mpsc.Channel[int](mpsc.WithID("jobs"))
	server.Track(tx)

	require.NoError(t, tx.Send(1))
	_, err := rx.Receive()
	require.NoError(t, err)
	require.NoError(t, rx.Close())

	result, err := server.CallTool(context.Background(), ToolChannelStats, map[string]any{"id": "jobs"})
	require.NoError(t, err)

	var stats mpsc.Stats
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	require.Equal(t, mpsc.Stats{ID: "jobs", Senders: 1, Sent: 1, Received: 1}, stats)
}

func TestServerCallTool_Errors(t *testing.T) {
	server := NewServer("pipeline", "1.0.0")
	ctx := context.Background()

	missing, err := server.CallTool(ctx, "unknown", map[string]any{})
	require.NoError(t, err)
	require.Equal(t, true, missing["is_error"])
	require.Equal(t, "Tool not found: unknown", textOf(t, missing))

	noID, err := server.CallTool(ctx, ToolChannelStats, map[string]any{})
	require.NoError(t, err)
	require.Equal(t, true, noID["is_error"])
	require.Equal(t, "missing channel id", textOf(t, noID))

	notFound, err := server.CallTool(ctx, ToolChannelStats, map[string]any{"id": "nope"})
	require.NoError(t, err)
	require.Equal(t, true, notFound["is_error"])
	require.Equal(t, "channel not found: nope", textOf(t, notFound))

	badArgs, err := server.CallTool(ctx, ToolChannelStats, map[string]any{"id": 12})
	require.NoError(t, err)
	require.Equal(t, true, badArgs["is_error"])
}

func TestServerUntrack(t *testing.T) {
	server := NewServer("pipeline", "1.0.0")
	tx, _ := mpsc.Channel[int](mpsc.WithID("x"))

	server.Track(tx)
	require.Len(t, server.Snapshot(), 1)

	require.True(t, server.Untrack("x"))
	require.False(t, server.Untrack("x"))
	require.Empty(t, server.Snapshot())
}

func TestServerTrackMonitor_DroppedSenderStillReleased(t *testing.T) {
	server := NewServer("pipeline", "1.0.0")

	rx := func() *mpsc.Receiver[int] {
		tx, rx := mpsc.Channel[int](mpsc.WithID("watched"))
		server.Track(tx.Monitor())

		return rx
	}()

	require.Eventually(t, func() bool {
		runtime.GC()

		return rx.Stats().Senders == 0
	}, 5*time.Second, 10*time.Millisecond)

	result, err := server.CallTool(context.Background(), ToolChannelStats, map[string]any{"id": "watched"})
	require.NoError(t, err)
	require.NotContains(t, result, "is_error")

	var stats mpsc.Stats
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &stats))
	require.Zero(t, stats.Senders)

	_, err = rx.Receive()
	require.ErrorIs(t, err, mpsc.ErrDisconnected)
}

func TestServerMCPServer_InMemory(t *testing.T) {
	ctx := context.Background()

	insp := NewServer("pipeline", "1.0.0")
	tx, _ := mpsc.Channel[int](mpsc.WithID("jobs"))
	require.NoError(t, tx.Send(5))
	insp.Track(tx)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := insp.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	defer func() { _ = serverSession.Close() }()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)

	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 2)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      ToolChannelStats,
		Arguments: map[string]any{"id": "jobs"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var stats mpsc.Stats
	require.NoError(t, json.Unmarshal([]byte(text.Text), &stats))
	require.Equal(t, 1, stats.Queued)
}

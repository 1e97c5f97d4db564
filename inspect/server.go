package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	mpsc "github.com/wagiedev/mpsc-go"
)

const (
	// ToolListChannels lists every tracked channel.
	ToolListChannels = "list_channels"
	// ToolChannelStats returns one channel by id.
	ToolChannelStats = "channel_stats"
)

// Source is anything that reports channel statistics. mpsc.Monitor satisfies
// it, and so do *mpsc.Sender and *mpsc.Receiver.
type Source interface {
	ID() string
	Stats() mpsc.Stats
}

// Server is a registry of tracked channels and the tools that report on them.
type Server struct {
	name    string
	version string

	mu      sync.RWMutex
	sources map[string]Source
	tools   map[string]*tool
}

// tool holds tool metadata and handler for the internal registry.
type tool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

// NewServer creates a Server with the inspection tools registered.
func NewServer(name, version string) *Server {
	s := &Server{
		name:    name,
		version: version,
		sources: make(map[string]Source, 8),
		tools:   make(map[string]*tool, 2),
	}

	s.addTool(&mcp.Tool{
		Name:        ToolListChannels,
		Description: "List statistics for every tracked channel",
		InputSchema: &jsonschema.Schema{Type: "object"},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleListChannels)

	s.addTool(&mcp.Tool{
		Name:        ToolChannelStats,
		Description: "Get statistics for one channel by id",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {Type: "string", Description: "Channel id as reported by list_channels"},
			},
			Required: []string{"id"},
		},
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.handleChannelStats)

	return s
}

func (s *Server) addTool(t *mcp.Tool, handler mcp.ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools[t.Name] = &tool{tool: t, handler: handler}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// Version returns the server version.
func (s *Server) Version() string {
	return s.version
}

// Track adds a channel to the registry. Tracking another source of the same
// channel replaces the previous one.
//
// The server keeps src reachable until Untrack. Passing a Sender or Receiver
// therefore stops that handle from being released when it is dropped; track
// its Monitor instead to leave handle lifetime untouched.
func (s *Server) Track(src Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources[src.ID()] = src
}

// Untrack removes a channel and reports whether it was tracked.
func (s *Server) Untrack(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sources[id]
	delete(s.sources, id)

	return ok
}

// Snapshot returns stats for every tracked channel, ordered by id.
func (s *Server) Snapshot() []mpsc.Stats {
	s.mu.RLock()

	sources := make([]Source, 0, len(s.sources))
	for _, src := range s.sources {
		sources = append(sources, src)
	}

	s.mu.RUnlock()

	stats := make([]mpsc.Stats, 0, len(sources))
	for _, src := range sources {
		stats = append(stats, src.Stats())
	}

	slices.SortFunc(stats, func(a, b mpsc.Stats) int {
		return strings.Compare(a.ID, b.ID)
	})

	return stats
}

// ListTools returns metadata for all registered tools, ordered by name.
func (s *Server) ListTools() []map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]map[string]any, 0, len(s.tools))
	for _, t := range s.tools {
		toolMap := map[string]any{
			"name":        t.tool.Name,
			"description": t.tool.Description,
		}

		if schema, err := toMap(t.tool.InputSchema); err == nil {
			toolMap["inputSchema"] = schema
		}

		result = append(result, toolMap)
	}

	slices.SortFunc(result, func(a, b map[string]any) int {
		return strings.Compare(a["name"].(string), b["name"].(string))
	})

	return result
}

// CallTool executes a tool by name. Failures are reported inside the result
// with "is_error": true rather than as a Go error.
func (s *Server) CallTool(ctx context.Context, name string, input map[string]any) (map[string]any, error) {
	s.mu.RLock()
	t, exists := s.tools[name]
	s.mu.RUnlock()

	if !exists {
		return resultToMap(errorResult("Tool not found: " + name)), nil
	}

	args, err := json.Marshal(input)
	if err != nil {
		//nolint:nilerr // Intentionally return nil error - error is encoded in the result
		return resultToMap(errorResult("Failed to marshal input: " + err.Error())), nil
	}

	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: args,
		},
	}

	result, err := t.handler(ctx, req)
	if err != nil {
		//nolint:nilerr // Intentionally return nil error - error is encoded in the result
		return resultToMap(errorResult("Tool execution failed: " + err.Error())), nil
	}

	return resultToMap(result), nil
}

// MCPServer returns an official MCP SDK server with the same tools mounted,
// ready to Run or Connect over any transport.
func (s *Server) MCPServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: s.name, Version: s.version}, nil)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tools {
		server.AddTool(t.tool, t.handler)
	}

	return server
}

func (s *Server) handleListChannels(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.Snapshot())
}

func (s *Server) handleChannelStats(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		ID string `json:"id"`
	}

	if req != nil && req.Params != nil && len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return errorResult(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	if args.ID == "" {
		return errorResult("missing channel id"), nil
	}

	s.mu.RLock()
	src, ok := s.sources[args.ID]
	s.mu.RUnlock()

	if !ok {
		return errorResult("channel not found: " + args.ID), nil
	}

	return jsonResult(src.Stats())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
		IsError: true,
	}
}

// resultToMap flattens a CallToolResult for in-process callers.
func resultToMap(result *mcp.CallToolResult) map[string]any {
	content := make([]map[string]any, 0, len(result.Content))

	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			content = append(content, map[string]any{
				"type": "text",
				"text": text.Text,
			})
		}
	}

	resultMap := map[string]any{
		"content": content,
	}

	if result.IsError {
		resultMap["is_error"] = true
	}

	return resultMap
}

func toMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return m, nil
}

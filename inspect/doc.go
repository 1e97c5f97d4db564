// Package inspect exposes live channel statistics as Model Context Protocol
// tools.
//
// A Server keeps a registry of tracked channels and a registry of tools.
// Tools can be invoked in-process with CallTool, or the same tools can be
// mounted on an official MCP SDK server with MCPServer and served over any
// MCP transport:
//
//	insp := inspect.NewServer("pipeline", "1.0.0")
//	insp.Track(rx.Monitor())
//
//	if err := insp.MCPServer().Run(ctx, &mcp.StdioTransport{}); err != nil {
//	    log.Fatal(err)
//	}
//
// Tools:
//   - list_channels: stats for every tracked channel, ordered by id
//   - channel_stats: stats for one channel, argument {"id": "<channel id>"}
package inspect

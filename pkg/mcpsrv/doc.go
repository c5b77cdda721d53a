// Package mcpsrv provides an extensible MCP server that infers Prisma schemas
// from sample records.
//
// The server exposes the prisma_infer_schema and prisma_export_json_schema
// tools, prisma:// resources for cached results, and guidance prompts. Users
// can add their own tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server configured from the environment:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Query string `json:"query"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Count: 42}, nil
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// # Configuration
//
// Environment variables (INFER_*, RESULT_CACHE_MAX_ITEMS, LOG_*) are read by
// default. Override them with options:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/prisma-infer-mcp.log"),
//	)
package mcpsrv

package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/prisma-infer/internal/mcp/tools"
)

// AddTool registers a tool with the server after checking that the zero value
// of Out passes the output schema the SDK infers for it. A nil slice marshals
// as null where the schema expects an array, which would otherwise only fail
// when the tool is called.
//
// Panics with the offending field when the check fails.
//
// Use this instead of [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}

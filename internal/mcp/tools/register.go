package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "prisma_infer_schema",
		Description: "Generate Prisma model declarations from sample records. Returns {schema, models: [{name, parent, fields: [{name, type, optional, present, nulls}]}], summary: {records, models, cached}, resource, hint}. Nested objects become one-to-one child models and arrays of objects one-to-many child models with a relation back to the parent. The first occurrence of a key fixes its type; a key missing or null in any record is optional. Use select (jq) when the records are not the top-level array.",
	}, ToolInferSchema(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "prisma_export_json_schema",
		Description: "Export the inferred models as a JSON Schema (Draft 2020-12) document describing the sample array, one $defs entry per model. Returns {json_schema, summary, resource, hint}. Takes the same input as prisma_infer_schema.",
	}, ToolExportJSONSchema(d))
}

package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/prisma-infer/pkg/jsonschema"
	"github.com/usestring/prisma-infer/pkg/types"
)

// ToolExportJSONSchema exports the inferred models as a JSON Schema document.
// The document is compiled before it is returned.
func ToolExportJSONSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.ExportOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.ExportOutput, error) {
		r, err := d.Infer(input)
		if err != nil {
			return nil, types.ExportOutput{}, err
		}

		schema, err := jsonschema.Export(r.Result)
		if err != nil {
			return nil, types.ExportOutput{}, WrapInferenceError(err)
		}
		if _, err := jsonschema.Compile(schema); err != nil {
			return nil, types.ExportOutput{}, WrapInferenceError(err)
		}
		doc, err := types.ToAny(schema)
		if err != nil {
			return nil, types.ExportOutput{}, WrapInferenceError(err)
		}

		output := types.ExportOutput{
			JSONSchema: doc,
			Summary: types.InferSummary{
				Records: r.Result.Records,
				Models:  len(r.Result.Models),
				Cached:  r.Cached,
			},
			Resource: &types.ResourceRef{
				URI:  JSONSchemaResourceURI(r.Key),
				MIME: MimeJSON,
			},
		}

		output.Hint = fmt.Sprintf("%d model(s) under $defs; the root is an array of %s. Foreign keys and relation fields exist only in the Prisma schema and are left out. Re-read the document from %s.",
			len(r.Result.Models), r.Result.Root.Name, output.Resource.URI)
		return nil, output, nil
	}
}

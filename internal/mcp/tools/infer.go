package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/prisma-infer/internal/config"
	"github.com/usestring/prisma-infer/internal/source"
	"github.com/usestring/prisma-infer/pkg/prisma"
	"github.com/usestring/prisma-infer/pkg/types"
)

// InferInput is the input for prisma_infer_schema and prisma_export_json_schema.
type InferInput struct {
	ModelName       string `json:"model_name" jsonschema:"Name of the root model, e.g. User"`
	RecordsJSON     string `json:"records_json" jsonschema:"Sample records: a JSON array of objects (YAML sequence when format is yaml)"`
	Format          string `json:"format,omitempty" jsonschema:"Encoding of records_json: json (default) or yaml"`
	NormalizeArrays *bool  `json:"normalize_arrays,omitempty" jsonschema:"Turn arrays of objects into one-to-many child models (default: true)"`
	MaxDepth        int    `json:"max_depth,omitempty" jsonschema:"Nesting depth at which nested objects become Json fields (default: 4)"`
	CamelCase       *bool  `json:"camel_case,omitempty" jsonschema:"Emit snake_case keys as camelCase fields with @map (default: false)"`
	Select          string `json:"select,omitempty" jsonschema:"jq expression selecting the records array from the document, e.g. .data.items"`
}

func (in InferInput) format() (source.Format, error) {
	switch strings.ToLower(in.Format) {
	case "", "json":
		return source.FormatJSON, nil
	case "yaml", "yml":
		return source.FormatYAML, nil
	}
	return "", ErrInvalidInput(fmt.Sprintf("format must be 'json' or 'yaml', got %q", in.Format))
}

// options applies the request overrides on top of the configured defaults.
func (in InferInput) options(cfg *config.Config) *prisma.Options {
	opts := cfg.InferOptions()
	if in.NormalizeArrays != nil {
		opts.NormalizeArrays = *in.NormalizeArrays
	}
	if in.MaxDepth > 0 {
		opts.MaxDepth = in.MaxDepth
	}
	if in.CamelCase != nil {
		opts.CamelCaseFields = *in.CamelCase
	}
	return opts
}

// ToolInferSchema generates a Prisma schema from sample records.
func ToolInferSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.InferOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, types.InferOutput, error) {
		r, err := d.Infer(input)
		if err != nil {
			return nil, types.InferOutput{}, err
		}

		output := types.InferOutput{
			Schema: r.Result.String(),
			Models: types.SummarizeModels(r.Result),
			Summary: types.InferSummary{
				Records: r.Result.Records,
				Models:  len(r.Result.Models),
				Cached:  r.Cached,
			},
			Resource: &types.ResourceRef{
				URI:  SchemaResourceURI(r.Key),
				MIME: MimePrisma,
				Hint: "Re-read the generated schema without re-sending the records.",
			},
			Hint: inferHint(r.Result),
		}
		return nil, output, nil
	}
}

func inferHint(result *prisma.Result) string {
	var optional []string
	for _, m := range result.Models {
		for _, f := range m.Fields {
			if f.Optional && f.Relation == nil {
				optional = append(optional, m.Name+"."+f.Name)
			}
		}
	}

	hint := "Use prisma_export_json_schema with the same input to check the samples against the inferred types."
	if len(optional) > 0 {
		hint = fmt.Sprintf("%d optional field(s) were missing or null in some records (%s). %s",
			len(optional), truncateList(optional, 5), hint)
	}
	return hint
}

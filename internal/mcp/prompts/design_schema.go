package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleDesignSchema implements the schema design workflow.
func HandleDesignSchema(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		modelName := "<ModelName>"
		dataHint := ""
		if args != nil {
			if v, ok := args["model_name"]; ok && v != "" {
				modelName = v
			}
			if v, ok := args["data_hint"]; ok {
				dataHint = v
			}
		}

		var sb strings.Builder

		sb.WriteString("# Design a Prisma Schema from Sample Data\n\n")
		sb.WriteString("You are a database engineer turning sample records into Prisma models. ")
		sb.WriteString("The inferred schema is a starting point: your job is to run the inference, check where the samples disagree and hand back a schema ready for review.\n\n")

		if dataHint != "" {
			sb.WriteString("## Data\n\n")
			sb.WriteString(dataHint + "\n\n")
		}

		sb.WriteString("## Context Usage Guide\n\n")
		sb.WriteString("- **Tools** return the schema plus a per-field summary - use these for most analysis\n")
		sb.WriteString("- **Resources** (`prisma://schema/{key}`, `prisma://jsonschema/{key}`) re-read a cached result without re-sending the records\n")
		sb.WriteString("- A handful of representative records is enough; more records only sharpen optionality\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Select the records** - the input must be an array of objects\n")
		sb.WriteString("   - If the records sit inside an envelope, pass a jq `select` such as `.data.items`\n")
		sb.WriteString("   - YAML samples work with `format: \"yaml\"`\n\n")
		sb.WriteString("2. **Infer** - run prisma_infer_schema\n")
		sb.WriteString("   - Check `models[].fields[]` for `optional`, `present` and `nulls`\n")
		sb.WriteString("   - Fields typed `Json` were null on first sight, nested past the depth limit or arrays of scalars\n\n")
		sb.WriteString("3. **Check conflicts** - the first occurrence of a key fixes its type\n")
		sb.WriteString("   - Compare `present` with the record count and re-order samples if a later type is the right one\n")
		sb.WriteString("   - Run prisma_export_json_schema with the same input when a JSON Schema of the samples is needed\n\n")
		sb.WriteString("4. **Refine** - re-run with options when the defaults do not fit\n")
		sb.WriteString("   - `camel_case: true` for snake_case sources (adds `@map`)\n")
		sb.WriteString("   - `normalize_arrays: false` to keep arrays of objects as `Json`\n")
		sb.WriteString("   - `max_depth` to stop splitting deep documents into models\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		sb.WriteString(fmt.Sprintf("prisma_infer_schema(model_name=\"%s\", records_json=\"[...]\")\n", modelName))
		sb.WriteString(fmt.Sprintf("prisma_export_json_schema(model_name=\"%s\", records_json=\"[...]\")\n", modelName))
		sb.WriteString("```\n\n")

		sb.WriteString("## Current Defaults\n\n")
		sb.WriteString(fmt.Sprintf("- normalize_arrays: %t\n", cfg.NormalizeArrays))
		sb.WriteString(fmt.Sprintf("- max_depth: %d\n", cfg.MaxDepth))
		sb.WriteString(fmt.Sprintf("- camel_case: %t\n\n", cfg.CamelCase))

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Schema**: the Prisma models, edited where the review found problems\n")
		sb.WriteString("2. **Conflicts**: each field whose samples disagree, with the type you chose and why\n")
		sb.WriteString("3. **Follow-ups**: foreign keys to retype, `Json` fields to model, indexes to add\n\n")

		sb.WriteString("## Constraints\n\n")
		sb.WriteString("- Do NOT invent fields that appear in no sample\n")
		sb.WriteString("- Foreign keys are generated as `String`; retype them to match the parent id before migrating\n")
		sb.WriteString("- STOP after one review pass - list open decisions instead of guessing\n\n")

		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **INVALID_INPUT: expected an array?** The document is an object; add a `select`\n")
		sb.WriteString("- **Everything is Json?** The first sample values were null; reorder the records so a populated one comes first\n")
		sb.WriteString("- **Resource not found?** The result left the cache; call the tool again\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for designing a Prisma schema from sample records",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

package prompts

import (
	"context"
	"strconv"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleInferenceRules serves the type mapping reference.
// The depth row reflects the configured limit.
func HandleInferenceRules(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# Inference Rules\n\n")

		sb.WriteString("## Value to Type\n\n")
		sb.WriteString("| First value of the key | Prisma type |\n")
		sb.WriteString("|------|------|\n")
		sb.WriteString("| string in ISO-8601 date-time form | `DateTime` |\n")
		sb.WriteString("| other string | `String` |\n")
		sb.WriteString("| whole number | `Int` |\n")
		sb.WriteString("| fractional number | `Float` |\n")
		sb.WriteString("| boolean | `Boolean` |\n")
		sb.WriteString("| null, key contains \"id\" | `String` |\n")
		sb.WriteString("| null, other key | `Json` |\n")
		if cfg.NormalizeArrays {
			sb.WriteString("| array whose first item is an object | child model list `Parent<Key>[]` |\n")
		} else {
			sb.WriteString("| array of objects | `Json` (normalize_arrays is off) |\n")
		}
		sb.WriteString("| other array | `Json` |\n")
		sb.WriteString("| object | child model `Parent<Key>` |\n")
		sb.WriteString("| object at depth " + strconv.Itoa(cfg.MaxDepth) + " or deeper | `Json` |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- The first occurrence of a key fixes its type; later values never change it\n")
		sb.WriteString("- A key missing from any record, or null in any record, makes the field optional (`?`)\n")
		sb.WriteString("- Fields keep first-seen order across records\n")

		sb.WriteString("\n## Attributes\n")
		sb.WriteString("- `id` of type String: `@id @default(uuid())`; of type Int: `@id @default(autoincrement())`\n")
		sb.WriteString("- No `id` key: a synthetic `id String @id @default(uuid())` line is added first\n")
		sb.WriteString("- `createdAt`: `@default(now())`; `updatedAt`: `@updatedAt`\n")
		sb.WriteString("- snake_case keys and renamed fields: `@map(\"source_key\")`\n")

		sb.WriteString("\n## Relations\n")
		sb.WriteString("- Each child model gets `<parent>Id String` and `<parent> Parent @relation(fields: [<parent>Id], references: [id])`\n")
		sb.WriteString("- A child name is generated once; a second key producing the same name reuses the first model\n")

		return &sdkmcp.GetPromptResult{
			Description: "Reference of the inference rules",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "design_prisma_schema",
		Description: "RECOMMENDED: Turn sample API or export data into a reviewed Prisma schema. Walks through selecting the records, inferring, checking type conflicts and cleaning up the models before a migration.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "model_name",
				Description: "Name of the root model (e.g., 'User', 'Order')",
				Required:    false,
			},
			{
				Name:        "data_hint",
				Description: "Where the samples come from and where the records sit in them (e.g., 'GitHub issues API, records under .items')",
				Required:    false,
			},
		},
	}, HandleDesignSchema(cfg))

	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "inference_rules",
		Description: "Reference of how sample values map to Prisma types, names and attributes. Read it before editing an inferred schema by hand.",
	}, HandleInferenceRules(cfg))
}

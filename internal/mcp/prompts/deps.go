// Package prompts contains MCP prompt implementations for prisma-infer.
package prompts

// Config holds the server defaults the prompts describe.
type Config struct {
	NormalizeArrays bool
	MaxDepth        int
	CamelCase       bool
}

package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/prisma-infer/internal/config"
)

// serverConfig is what the options build up before NewServer wires Deps.
type serverConfig struct {
	config *config.Config

	logLevel   string
	logFile    string
	keepLogger bool

	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// extensions run in option order once Deps exists, after the builtins.
	extensions []func(*mcp.Server, *Deps)
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig replaces the configuration otherwise loaded from the
// environment. Inference defaults, the cache size and the input limit all
// come from it.
func WithConfig(c *config.Config) Option {
	return func(cfg *serverConfig) {
		cfg.config = c
	}
}

// WithLogLevel overrides the configured level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile sends logs to a size-rotated file instead of stderr.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithoutLogSetup leaves the default slog logger untouched, for embedding the
// server in a program that configures logging itself.
func WithoutLogSetup() Option {
	return func(cfg *serverConfig) {
		cfg.keepLogger = true
	}
}

// WithoutBuiltinTools drops prisma_infer_schema, prisma_export_json_schema and
// the prisma:// resources that read their cached results.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts drops design_prisma_schema and inference_rules.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool adds a tool that needs nothing from the server. In is decoded from
// the call arguments and Out becomes the structured content, so both need
// JSON tags. Registration panics if the zero Out does not fit the output
// schema the SDK infers for it (see AddTool).
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, _ *Deps) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool adds a tool built from the server's Deps, so it decodes samples
// with the same size limit and jq engine as the builtins and can share their
// result cache. For example, a tool counting the records a selection yields:
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_records", Description: "Count sample records"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            records, err := d.Loader.Decode([]byte(in.Records), source.FormatJSON, in.Select)
//	            if err != nil {
//	                return nil, CountOutput{}, err
//	            }
//	            return nil, CountOutput{Count: len(records)}, nil
//	        }
//	    },
//	)
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt adds a prompt next to design_prisma_schema, e.g. one carrying a
// team's naming conventions for the generated models.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, _ *Deps) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate adds a resource template. The builtin templates own
// prisma://schema/{key} and prisma://jsonschema/{key}; pick another scheme or
// kind. A handler reading cached results can look keys up in Deps.Cache:
//
//	mcpsrv.WithResourceTemplate(
//	    &mcp.ResourceTemplate{URITemplate: "prisma://models/{key}", Name: "Model names"},
//	    func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
//	        result, ok := srv.Deps().Cache.Get(strings.TrimPrefix(req.Params.URI, "prisma://models/"))
//	        if !ok {
//	            return nil, mcp.ResourceNotFoundError(req.Params.URI)
//	        }
//	        ...
//	    },
//	)
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, _ *Deps) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}

package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/prisma-infer/internal/mcp/tools"
	"github.com/usestring/prisma-infer/pkg/jsonschema"
	"github.com/usestring/prisma-infer/pkg/prisma"
)

// Resource URI scheme: prisma://
// Supported URIs:
//   prisma://schema/{key}
//   prisma://jsonschema/{key}
//
// key is the fingerprint returned in the resource field of a tool result.

func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.ResourceScheme + "schema/{key}",
		Name:        "Prisma Schema",
		Description: "Prisma model declarations of an earlier prisma_infer_schema call. Available while the result stays in the cache.",
		MIMEType:    tools.MimePrisma,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: tools.ResourceScheme + "jsonschema/{key}",
		Name:        "JSON Schema Export",
		Description: "JSON Schema document of an earlier inference. High context cost - prisma_export_json_schema already returns it. Fetch to save it to a file.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceJSONSchema)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	result, err := s.cachedResult(req.Params.URI, "schema")
	if err != nil {
		return nil, err
	}
	return textResult(req.Params.URI, tools.MimePrisma, result.String()), nil
}

func (s *Server) handleResourceJSONSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	result, err := s.cachedResult(req.Params.URI, "jsonschema")
	if err != nil {
		return nil, err
	}

	data, err := jsonschema.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}
	return textResult(req.Params.URI, tools.MimeJSON, string(data)), nil
}

func (s *Server) cachedResult(uri, kind string) (*prisma.Result, error) {
	params, err := parseResourceURI(uri)
	if err != nil {
		return nil, err
	}
	if params["kind"] != kind {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("expected a %s URI, got %s", kind, uri))
	}

	result, ok := s.deps.Cache.Get(params["key"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(uri)
	}
	return result, nil
}

// parseResourceURI extracts parameters from a prisma:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, tools.ResourceScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + tools.ResourceScheme)
	}

	path := strings.TrimPrefix(uri, tools.ResourceScheme)
	parts := strings.Split(path, "/")

	resourceType := parts[0]
	switch resourceType {
	case "schema", "jsonschema":
		if len(parts) != 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput(resourceType + " URI requires a result key")
		}
		return map[string]string{"kind": resourceType, "key": parts[1]}, nil
	case "":
		return nil, tools.ErrInvalidInput("empty resource path")
	}
	return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
}

func textResult(uri, mime, text string) *sdkmcp.ReadResourceResult {
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: mime,
				Text:     text,
			},
		},
	}
}

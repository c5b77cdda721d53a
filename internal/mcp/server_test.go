package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/prisma-infer/internal/cache"
	"github.com/usestring/prisma-infer/internal/config"
	"github.com/usestring/prisma-infer/internal/mcp/tools"
	"github.com/usestring/prisma-infer/internal/source"
)

func newTestDeps(t *testing.T) *tools.Deps {
	t.Helper()
	c, err := cache.NewResultCache(4)
	require.NoError(t, err)
	return &tools.Deps{
		Config: &config.Config{NormalizeArrays: true},
		Cache:  c,
		Loader: source.NewLoader(1<<20, nil),
	}
}

// connect starts srv on an in-memory transport and returns a client session.
func connect(t *testing.T, srv *Server) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_ToolsAndResources(t *testing.T) {
	srv, err := NewServer(newTestDeps(t), WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)
	cs := connect(t, srv)
	ctx := context.Background()

	list, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"prisma_infer_schema", "prisma_export_json_schema"}, names)

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "prisma_infer_schema",
		Arguments: map[string]any{
			"model_name":   "User",
			"records_json": `[{"id": "u1", "email": "a@b.c"}]`,
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out struct {
		Schema   string `json:"schema"`
		Resource struct {
			URI string `json:"uri"`
		} `json:"resource"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	expected := "model User {\n  id String @id @default(uuid())\n  email String\n}"
	assert.Equal(t, expected, out.Schema)

	read, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: out.Resource.URI})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Equal(t, expected, read.Contents[0].Text)
	assert.Equal(t, tools.MimePrisma, read.Contents[0].MIMEType)

	key := out.Resource.URI[len(tools.SchemaResourceURI("")):]
	read, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: tools.JSONSchemaResourceURI(key)})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Contains(t, read.Contents[0].Text, `"$defs"`)

	_, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: tools.SchemaResourceURI("missing")})
	assert.Error(t, err)
}

func TestServer_ToolError(t *testing.T) {
	srv, err := NewServer(newTestDeps(t), WithBuiltinTools())
	require.NoError(t, err)
	cs := connect(t, srv)

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name: "prisma_infer_schema",
		Arguments: map[string]any{
			"model_name":   "User",
			"records_json": `{"id": 1}`,
		},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_Prompts(t *testing.T) {
	srv, err := NewServer(newTestDeps(t), WithBuiltinPrompts())
	require.NoError(t, err)
	cs := connect(t, srv)
	ctx := context.Background()

	list, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, list.Prompts, 2)

	got, err := cs.GetPrompt(ctx, &sdkmcp.GetPromptParams{
		Name:      "design_prisma_schema",
		Arguments: map[string]string{"model_name": "Order"},
	})
	require.NoError(t, err)
	require.Len(t, got.Messages, 1)
	text, ok := got.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `prisma_infer_schema(model_name="Order"`)
	assert.Contains(t, text.Text, "max_depth: 4")
}

func TestServer_CustomRegistration(t *testing.T) {
	called := false
	_, err := NewServer(newTestDeps(t), WithCustomRegistration(func(*sdkmcp.Server) { called = true }))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    map[string]string
		wantErr bool
	}{
		{"prisma://schema/abc", map[string]string{"kind": "schema", "key": "abc"}, false},
		{"prisma://jsonschema/abc", map[string]string{"kind": "jsonschema", "key": "abc"}, false},
		{"prisma://schema/", nil, true},
		{"prisma://schema/a/b", nil, true},
		{"prisma://", nil, true},
		{"prisma://model/abc", nil, true},
		{"http://schema/abc", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

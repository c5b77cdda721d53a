// Package tools contains the MCP tool implementations of prisma-infer.
package tools

import (
	"fmt"
	"strings"
)

// MIME types of tool resources.
const (
	MimeJSON   = "application/json"
	MimePrisma = "text/plain"
)

// ResourceScheme prefixes every resource URI served by the server.
const ResourceScheme = "prisma://"

// SchemaResourceURI is the URI of the cached Prisma schema for key.
func SchemaResourceURI(key string) string {
	return ResourceScheme + "schema/" + key
}

// JSONSchemaResourceURI is the URI of the cached JSON Schema export for key.
func JSONSchemaResourceURI(key string) string {
	return ResourceScheme + "jsonschema/" + key
}

// truncateList joins up to n items and notes how many were left out.
func truncateList(items []string, n int) string {
	if len(items) <= n {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:n], ", "), len(items)-n)
}

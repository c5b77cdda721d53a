// Package jsonschema exports inferred models as JSON Schema (Draft 2020-12)
// documents.
package jsonschema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/usestring/prisma-infer/pkg/prisma"
)

// ErrNoModels is returned when there is nothing to export.
var ErrNoModels = errors.New("no models to export")

// Export converts an inference result into a schema describing the sample
// array: the root is an array of the root model and every model is a $defs
// entry. Keys that only exist in the generated models (foreign keys, relation
// fields, synthetic ids) are not part of the sample data and are left out.
func Export(result *prisma.Result) (*jsonschema.Schema, error) {
	if result == nil || result.Root == nil {
		return nil, ErrNoModels
	}

	defs := make(jsonschema.Definitions, len(result.Models))
	for _, m := range result.Models {
		defs[m.Name] = modelSchema(m)
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       result.Root.Name,
		Description: fmt.Sprintf("Inferred from %d sample records", result.Records),
		Type:        "array",
		Items:       ref(result.Root.Name),
		Definitions: defs,
	}, nil
}

// Marshal exports result and encodes it as indented JSON. The document is
// compiled before it is returned.
func Marshal(result *prisma.Result) ([]byte, error) {
	schema, err := Export(result)
	if err != nil {
		return nil, err
	}
	if _, err := Compile(schema); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling schema: %w", err)
	}
	return data, nil
}

func modelSchema(m *prisma.Model) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Title:      m.Name,
		Properties: jsonschema.NewProperties(),
	}

	for _, f := range m.Fields {
		if synthesized(m, f) {
			continue
		}
		schema.Properties.Set(f.Source, fieldSchema(f))
		if !f.Optional {
			schema.Required = append(schema.Required, f.Source)
		}
	}
	return schema
}

func synthesized(m *prisma.Model, f *prisma.Field) bool {
	if f.Relation != nil {
		return true
	}
	return m.Parent != nil && f.Name == m.Parent.ForeignKey
}

func fieldSchema(f *prisma.Field) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch f.Type.Kind {
	case prisma.KindString:
		s = &jsonschema.Schema{Type: "string"}
	case prisma.KindDateTime:
		s = &jsonschema.Schema{Type: "string", Format: "date-time"}
	case prisma.KindInt:
		s = &jsonschema.Schema{Type: "integer"}
	case prisma.KindFloat:
		s = &jsonschema.Schema{Type: "number"}
	case prisma.KindBoolean:
		s = &jsonschema.Schema{Type: "boolean"}
	case prisma.KindModel:
		if f.Type.List {
			s = &jsonschema.Schema{Type: "array", Items: ref(f.Type.Ref)}
		} else {
			s = ref(f.Type.Ref)
		}
	default:
		// Json accepts anything, null included.
		return &jsonschema.Schema{}
	}

	if f.Nulls > 0 {
		return &jsonschema.Schema{AnyOf: []*jsonschema.Schema{s, {Type: "null"}}}
	}
	return s
}

func ref(name string) *jsonschema.Schema {
	return &jsonschema.Schema{Ref: "#/$defs/" + name}
}

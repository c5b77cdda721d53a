package types

import "github.com/usestring/prisma-infer/pkg/prisma"

// InferOutput is the output of the prisma_infer_schema tool.
type InferOutput struct {
	// Schema is the generated Prisma schema text.
	Schema string `json:"schema"`

	// Models describes every generated model, root first.
	Models []ModelSummary `json:"models,omitzero"`

	Summary InferSummary `json:"summary"`

	// Resource points at the cached result for later reads.
	Resource *ResourceRef `json:"resource,omitempty"`

	Hint string `json:"hint,omitempty"`
}

// ExportOutput is the output of the prisma_export_json_schema tool.
type ExportOutput struct {
	// JSONSchema is the Draft 2020-12 document describing the sample array.
	JSONSchema any `json:"json_schema"`

	Summary InferSummary `json:"summary"`

	Resource *ResourceRef `json:"resource,omitempty"`

	Hint string `json:"hint,omitempty"`
}

// InferSummary describes one inference run.
type InferSummary struct {
	Records int  `json:"records"`
	Models  int  `json:"models"`
	Cached  bool `json:"cached"`
}

// ModelSummary describes one generated model.
type ModelSummary struct {
	Name        string         `json:"name"`
	Parent      string         `json:"parent,omitempty"`
	SyntheticID bool           `json:"synthetic_id,omitempty"`
	Fields      []FieldSummary `json:"fields"`
}

// FieldSummary carries the statistics behind one field declaration.
type FieldSummary struct {
	Name     string `json:"name"`
	Source   string `json:"source,omitempty"` // set when it differs from name
	Type     string `json:"type"`
	Optional bool   `json:"optional"`
	Present  int    `json:"present"`
	Nulls    int    `json:"nulls"`
	Relation bool   `json:"relation,omitempty"`
}

// SummarizeModels converts the models of a run into tool output.
func SummarizeModels(result *prisma.Result) []ModelSummary {
	out := make([]ModelSummary, 0, len(result.Models))
	for _, m := range result.Models {
		ms := ModelSummary{
			Name:        m.Name,
			SyntheticID: m.SyntheticID,
			Fields:      make([]FieldSummary, 0, len(m.Fields)),
		}
		if m.Parent != nil {
			ms.Parent = m.Parent.Model
		}
		for _, f := range m.Fields {
			fs := FieldSummary{
				Name:     f.Name,
				Type:     f.Type.String(),
				Optional: f.Optional,
				Present:  f.Present,
				Nulls:    f.Nulls,
				Relation: f.Relation != nil,
			}
			if f.Source != f.Name {
				fs.Source = f.Source
			}
			ms.Fields = append(ms.Fields, fs)
		}
		out = append(out, ms)
	}
	return out
}

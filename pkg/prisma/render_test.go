package prisma

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField_MapAttribute(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  []string
	}{
		{
			name:  "same name",
			field: Field{Name: "title", Source: "title"},
		},
		{
			name:  "snake case",
			field: Field{Name: "user_name", Source: "user_name"},
			want:  []string{`@map("user_name")`},
		},
		{
			name:  "quote and backslash escaped",
			field: Field{Name: "weird", Source: `a"b\c`},
			want:  []string{`@map("a\"b\\c")`},
		},
		{
			name:  "control characters kept as is",
			field: Field{Name: "tab", Source: "t\tab\x01"},
			want:  []string{"@map(\"t\tab\x01\")"},
		},
		{
			name:  "non-ascii kept as is",
			field: Field{Name: "cafe", Source: "café"},
			want:  []string{`@map("café")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.field.Type = Scalar(KindString)
			assert.Equal(t, tt.want, tt.field.Attributes())
		})
	}
}

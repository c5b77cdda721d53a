package prisma

import "strings"

const syntheticIDLine = "  id String @id @default(uuid())"

// mapEscaper escapes a source key for a Prisma string literal. Everything
// other than quotes and backslashes is emitted as is.
var mapEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Render renders root and all its descendants, one block per model, blocks
// separated by a blank line.
func Render(root *Model) string {
	var blocks []string
	root.Walk(func(m *Model) {
		blocks = append(blocks, m.Declaration())
	})
	return strings.Join(blocks, "\n\n")
}

// Declaration renders the model's own block, without its children.
func (m *Model) Declaration() string {
	lines := make([]string, 0, len(m.Fields)+3)
	lines = append(lines, "model "+m.Name+" {")
	if m.SyntheticID {
		lines = append(lines, syntheticIDLine)
	}
	for _, f := range m.Fields {
		lines = append(lines, f.Line())
	}
	lines = append(lines, "}")
	return strings.Join(lines, "\n")
}

// Line renders the field declaration, indented by two spaces.
func (f *Field) Line() string {
	decl := "  " + f.Name + " " + f.Type.String()
	if f.Optional {
		decl += "?"
	}
	return strings.Join(append([]string{decl}, f.Attributes()...), " ")
}

// Attributes returns the field attributes in emission order.
func (f *Field) Attributes() []string {
	var attrs []string

	if f.Relation != nil {
		return append(attrs, f.Relation.String())
	}

	if f.Name == "id" {
		switch f.Type.Kind {
		case KindString:
			attrs = append(attrs, "@id", "@default(uuid())")
		case KindInt:
			attrs = append(attrs, "@id", "@default(autoincrement())")
		}
	}

	switch f.Name {
	case "createdAt":
		attrs = append(attrs, "@default(now())")
	case "updatedAt":
		attrs = append(attrs, "@updatedAt")
	}

	if f.Source != f.Name || IsSnakeCase(f.Source) {
		attrs = append(attrs, `@map("`+mapEscaper.Replace(f.Source)+`")`)
	}

	return attrs
}

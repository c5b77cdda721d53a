package prisma

import "strings"

// Kind identifies a scalar type token or a model reference.
type Kind int

// Type token kinds. No other token is ever produced.
const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBoolean
	KindDateTime
	KindJSON
	KindModel
)

var kindNames = map[Kind]string{
	KindString:   "String",
	KindInt:      "Int",
	KindFloat:    "Float",
	KindBoolean:  "Boolean",
	KindDateTime: "DateTime",
	KindJSON:     "Json",
}

// TypeToken is the inferred type of a field.
type TypeToken struct {
	Kind Kind
	Ref  string // model name, set when Kind is KindModel
	List bool   // list form of a model reference
}

// Scalar returns the token for a scalar kind.
func Scalar(k Kind) TypeToken {
	return TypeToken{Kind: k}
}

// ModelRef returns a token referencing another model.
func ModelRef(name string, list bool) TypeToken {
	return TypeToken{Kind: KindModel, Ref: name, List: list}
}

func (t TypeToken) String() string {
	if t.Kind == KindModel {
		if t.List {
			return t.Ref + "[]"
		}
		return t.Ref
	}
	return kindNames[t.Kind]
}

// Relation marks a field as the back-reference of a child model to its parent.
type Relation struct {
	Fields     []string
	References []string
}

func (r *Relation) String() string {
	return "@relation(fields: [" + strings.Join(r.Fields, ", ") + "], references: [" + strings.Join(r.References, ", ") + "])"
}

// Field is the descriptor of one field of one model.
type Field struct {
	Name     string // emitted name
	Source   string // original key in the samples
	Type     TypeToken
	Optional bool
	Present  int // records containing the key
	Nulls    int // records where the key is null
	Relation *Relation
}

// Model is a named group of fields plus the child models discovered while
// inferring it.
type Model struct {
	Name        string
	Fields      []*Field
	Children    []*Model
	Parent      *ParentLink // set on child models
	SyntheticID bool        // no id key was observed; an id line is rendered first
}

// Field returns the field with the given emitted name.
func (m *Model) Field(name string) (*Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Walk visits m and all its descendants depth-first, in discovery order.
func (m *Model) Walk(fn func(*Model)) {
	fn(m)
	for _, child := range m.Children {
		child.Walk(fn)
	}
}

// DefaultMaxDepth is the nesting depth at which nested objects stop being
// expanded into child models.
const DefaultMaxDepth = 4

// Options configures inference.
type Options struct {
	// NormalizeArrays turns arrays whose first element is an object into
	// one-to-many child models instead of Json fields.
	NormalizeArrays bool
	// MaxDepth bounds nested object expansion. Values <= 0 mean DefaultMaxDepth.
	MaxDepth int
	// CamelCaseFields emits snake_case keys in lowerCamel form with a @map
	// back to the source key.
	CamelCaseFields bool
}

// DefaultOptions returns the default inference options.
func DefaultOptions() *Options {
	return &Options{MaxDepth: DefaultMaxDepth}
}

func (o *Options) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Registry is the set of model names generated during one run. It is shared
// by pointer across the whole recursion.
type Registry struct {
	names map[string]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]struct{})}
}

// Has reports whether name was already registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Add registers name. It returns false if name was already registered.
func (r *Registry) Add(name string) bool {
	if r.Has(name) {
		return false
	}
	r.names[name] = struct{}{}
	return true
}

// Len returns the number of registered names.
func (r *Registry) Len() int {
	return len(r.names)
}

// ParentLink is carried into a child model's inference so the child can
// declare its relation back to the parent.
type ParentLink struct {
	Model      string // parent model name
	ForeignKey string // injected foreign key field
}

// RelationField returns the name of the child's back-reference field.
func (p *ParentLink) RelationField() string {
	return LowerFirst(p.Model)
}

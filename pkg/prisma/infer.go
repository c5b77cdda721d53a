package prisma

import (
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// foreignKeyPlaceholder is the value injected as the foreign key into every
// child record. Being a plain string, it always resolves to String.
const foreignKeyPlaceholder = "placeholder"

// Result is the outcome of one top-level inference run.
type Result struct {
	Root    *Model
	Models  []*Model // Root followed by every child model, depth-first
	Records int      // number of root records analyzed
}

// String renders every model of the run as schema text.
func (r *Result) String() string {
	return Render(r.Root)
}

// Infer infers the model name from records, along with every child model
// discovered in nested objects and arrays of objects.
func Infer(name string, records []Record, opts *Options) *Result {
	if opts == nil {
		opts = DefaultOptions()
	}
	registry := NewRegistry()
	registry.Add(name)

	root := InferModel(name, records, opts, registry, 1, nil)

	var models []*Model
	root.Walk(func(m *Model) {
		models = append(models, m)
	})

	return &Result{
		Root:    root,
		Models:  models,
		Records: len(records),
	}
}

// Generate is Infer followed by rendering.
func Generate(name string, records []Record, opts *Options) string {
	return Infer(name, records, opts).String()
}

// InferModel is the recursive step of Infer. It builds the model name from
// records at the given depth (the root is depth 1). Child model names are
// added to registry as they are generated; a name already in registry is
// referenced but never generated twice. When parent is set, the model gets a
// relation field back to it, declared right after the foreign key.
func InferModel(name string, records []Record, opts *Options, registry *Registry, depth int, parent *ParentLink) *Model {
	if opts == nil {
		opts = DefaultOptions()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	if depth < 1 {
		depth = 1
	}

	b := &modelBuilder{
		name:     name,
		total:    len(records),
		opts:     opts,
		registry: registry,
		depth:    depth,
		index:    make(map[string]*fieldState),
	}
	for i, rec := range records {
		idx := uint32(i)
		rec.Each(func(key string, v Value) {
			b.observe(idx, key, v)
		})
	}
	return b.build(parent)
}

type fieldState struct {
	key     string
	typ     TypeToken
	present *roaring.Bitmap // record indices containing the key
	nulls   *roaring.Bitmap // record indices where the key is null
}

type modelBuilder struct {
	name     string
	total    int
	opts     *Options
	registry *Registry
	depth    int

	fields   []*fieldState // first-seen order
	index    map[string]*fieldState
	children []*Model
}

// observe records one occurrence of key. The first occurrence fixes the
// field type; later ones only update presence.
func (b *modelBuilder) observe(idx uint32, key string, v Value) {
	// An empty key cannot name a Prisma field.
	if key == "" {
		return
	}

	fs, ok := b.index[key]
	if !ok {
		fs = &fieldState{
			key:     key,
			present: roaring.New(),
			nulls:   roaring.New(),
		}
		b.index[key] = fs
		b.fields = append(b.fields, fs)
		fs.typ = b.resolve(key, v)
	}

	fs.present.Add(idx)
	if isNull(v) {
		fs.nulls.Add(idx)
	}
}

func (b *modelBuilder) resolve(key string, v Value) TypeToken {
	switch val := v.(type) {
	case nil, Null:
		if strings.Contains(strings.ToLower(key), "id") {
			return Scalar(KindString)
		}
		return Scalar(KindJSON)

	case String:
		if IsISODateTime(string(val)) {
			return Scalar(KindDateTime)
		}
		return Scalar(KindString)

	case Number:
		if isInteger(float64(val)) {
			return Scalar(KindInt)
		}
		return Scalar(KindFloat)

	case Bool:
		return Scalar(KindBoolean)

	case Array:
		if b.opts.NormalizeArrays && len(val) > 0 {
			if _, ok := val[0].(*Object); ok {
				return b.toMany(key, val)
			}
		}
		return Scalar(KindJSON)

	case *Object:
		if b.depth >= b.opts.maxDepth() {
			return Scalar(KindJSON)
		}
		return b.toOne(key, val)

	default:
		return Scalar(KindJSON)
	}
}

// toMany factors an array of objects out into a child model.
func (b *modelBuilder) toMany(key string, items Array) TypeToken {
	childName := b.childName(key)
	if b.registry.Add(childName) {
		link := b.link()
		records := make([]Record, 0, len(items))
		for _, item := range items {
			obj, ok := item.(*Object)
			if !ok {
				continue
			}
			records = append(records, obj.With(link.ForeignKey, String(foreignKeyPlaceholder)))
		}
		b.children = append(b.children, InferModel(childName, records, b.opts, b.registry, b.depth+1, link))
	}
	return ModelRef(childName, true)
}

// toOne factors a nested object out into a child model.
func (b *modelBuilder) toOne(key string, obj *Object) TypeToken {
	childName := b.childName(key)
	if b.registry.Add(childName) {
		link := b.link()
		record := obj.With(link.ForeignKey, String(foreignKeyPlaceholder))
		b.children = append(b.children, InferModel(childName, []Record{record}, b.opts, b.registry, b.depth+1, link))
	}
	return ModelRef(childName, false)
}

func (b *modelBuilder) childName(key string) string {
	if b.opts.CamelCaseFields {
		key = CamelCase(key)
	}
	return ChildModelName(b.name, key)
}

func (b *modelBuilder) link() *ParentLink {
	return &ParentLink{
		Model:      b.name,
		ForeignKey: ForeignKeyName(b.name),
	}
}

func (b *modelBuilder) build(parent *ParentLink) *Model {
	m := &Model{
		Name:     b.name,
		Fields:   make([]*Field, 0, len(b.fields)+1),
		Children: b.children,
		Parent:   parent,
	}

	total := uint64(b.total)
	names := b.emittedNames()
	for _, fs := range b.fields {
		present := fs.present.GetCardinality()
		m.Fields = append(m.Fields, &Field{
			Name:     names[fs.key],
			Source:   fs.key,
			Type:     fs.typ,
			Optional: present < total || !fs.nulls.IsEmpty(),
			Present:  int(present),
			Nulls:    int(fs.nulls.GetCardinality()),
		})
	}

	if parent != nil {
		m.Fields = withRelation(m.Fields, parent, b.total)
	}

	_, hasID := m.Field("id")
	m.SyntheticID = !hasID
	return m
}

// emittedNames maps each source key to the name it is declared under.
func (b *modelBuilder) emittedNames() map[string]string {
	names := make(map[string]string, len(b.fields))
	taken := make(map[string]bool, len(b.fields))
	for _, fs := range b.fields {
		taken[fs.key] = true
	}
	for _, fs := range b.fields {
		name := fs.key
		if b.opts.CamelCaseFields {
			if camel := CamelCase(fs.key); camel != fs.key && camel != "" && !taken[camel] {
				name = camel
				taken[camel] = true
			}
		}
		names[fs.key] = name
	}
	return names
}

// withRelation inserts the back-reference to parent directly after the
// foreign key field. A sample field with the same name as the relation field
// is replaced by it.
func withRelation(fields []*Field, parent *ParentLink, total int) []*Field {
	rel := &Field{
		Name:    parent.RelationField(),
		Source:  parent.RelationField(),
		Type:    ModelRef(parent.Model, false),
		Present: total,
		Relation: &Relation{
			Fields:     []string{parent.ForeignKey},
			References: []string{"id"},
		},
	}

	out := make([]*Field, 0, len(fields)+1)
	for _, f := range fields {
		if f.Name == rel.Name {
			continue
		}
		out = append(out, f)
		if f.Name == parent.ForeignKey {
			out = append(out, rel)
		}
	}
	return out
}

func isNull(v Value) bool {
	switch v.(type) {
	case nil, Null:
		return true
	}
	return false
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && math.Trunc(f) == f
}

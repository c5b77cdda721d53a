package prisma

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Value is a decoded JSON-shaped value. The set of implementations is closed:
// Null, Bool, Number, String, Array and *Object.
type Value interface {
	isValue()
}

// Null is the JSON null (or an absent YAML value).
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number.
type Number float64

// String is a JSON string.
type String string

// Array is a JSON array.
type Array []Value

// Object is a JSON object that remembers key insertion order.
type Object struct {
	fields *orderedmap.OrderedMap[string, Value]
}

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (Array) isValue()   {}
func (*Object) isValue() {}

// Record is one sample item being analyzed.
type Record = *Object

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{fields: orderedmap.New[string, Value]()}
}

// ObjectOf builds an object from alternating key/value arguments.
// It panics on an odd argument count or a non-string key; intended for
// literals in tests and examples.
func ObjectOf(kv ...any) *Object {
	if len(kv)%2 != 0 {
		panic("prisma.ObjectOf: odd number of arguments")
	}
	obj := NewObject()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("prisma.ObjectOf: key must be a string")
		}
		obj.Set(key, FromAny(kv[i+1]))
	}
	return obj
}

// Set stores v under key. An existing key keeps its position.
func (o *Object) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	o.fields.Set(key, v)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	return o.fields.Get(key)
}

// Has reports whether key is present, even when its value is null.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.fields.Len()
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Each calls fn for every key/value pair in insertion order.
func (o *Object) Each(fn func(key string, v Value)) {
	if o == nil {
		return
	}
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		fn(pair.Key, pair.Value)
	}
}

// With returns a copy of o with key set to v. The receiver is not modified.
func (o *Object) With(key string, v Value) *Object {
	out := NewObject()
	o.Each(out.Set)
	out.Set(key, v)
	return out
}

// Interface converts the object to plain Go values (map[string]any etc.).
func (o *Object) Interface() map[string]any {
	out := make(map[string]any, o.Len())
	o.Each(func(key string, v Value) {
		out[key] = ToInterface(v)
	})
	return out
}

// ToInterface converts a Value to the shape encoding/json would produce.
func ToInterface(v Value) any {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Number:
		return float64(val)
	case String:
		return string(val)
	case Array:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToInterface(item)
		}
		return out
	case *Object:
		return val.Interface()
	default:
		return nil
	}
}

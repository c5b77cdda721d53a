package prisma

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/buger/jsonparser"
	"gopkg.in/yaml.v3"
)

// ErrNotArray is returned by Records when the top-level value is not an array.
var ErrNotArray = errors.New("expected input JSON to be an array of objects")

// ErrInvalidJSON is returned by ParseJSON for syntactically invalid input.
var ErrInvalidJSON = errors.New("invalid JSON")

// ErrInvalidYAML wraps YAML syntax errors returned by ParseYAML.
var ErrInvalidYAML = errors.New("invalid YAML")

// ParseJSON decodes data into a Value, preserving object key order.
func ParseJSON(data []byte) (Value, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	raw, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("reading JSON: %w", err)
	}
	return decodeJSON(raw, dataType)
}

func decodeJSON(raw []byte, dataType jsonparser.ValueType) (Value, error) {
	switch dataType {
	case jsonparser.Null:
		return Null{}, nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, err
		}
		return Bool(b), nil

	case jsonparser.Number:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return nil, fmt.Errorf("parsing number %q: %w", raw, err)
		}
		return Number(f), nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case jsonparser.Array:
		arr := Array{}
		var itemErr error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			item, err := decodeJSON(value, dt)
			if err != nil {
				itemErr = err
				return
			}
			arr = append(arr, item)
		})
		if err != nil {
			return nil, err
		}
		if itemErr != nil {
			return nil, itemErr
		}
		return arr, nil

	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, dt jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return err
			}
			item, err := decodeJSON(value, dt)
			if err != nil {
				return err
			}
			obj.Set(k, item)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("unexpected JSON value type %s", dataType)
	}
}

// ParseYAML decodes a YAML document into a Value, preserving mapping key order.
// Timestamps are kept as their source text.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	if doc.Kind == 0 {
		return Null{}, nil
	}
	return decodeYAML(&doc)
}

func decodeYAML(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return decodeYAML(n.Content[0])

	case yaml.AliasNode:
		return decodeYAML(n.Alias)

	case yaml.SequenceNode:
		arr := make(Array, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := decodeYAML(child)
			if err != nil {
				return nil, err
			}
			arr = append(arr, item)
		}
		return arr, nil

	case yaml.MappingNode:
		return decodeYAMLMapping(n)

	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return Null{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return Bool(b), nil
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return Number(f), nil
		default:
			return String(n.Value), nil
		}

	default:
		return nil, fmt.Errorf("unexpected YAML node kind %d", n.Kind)
	}
}

// decodeYAMLMapping decodes a mapping, expanding merge keys (<<). Keys set
// explicitly in the mapping win over merged ones wherever they appear, and
// earlier merge sources win over later ones.
func decodeYAMLMapping(n *yaml.Node) (*Object, error) {
	explicit := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			explicit[n.Content[i].Value] = true
		}
	}

	obj := NewObject()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if !isMergeKey(key) {
			item, err := decodeYAML(val)
			if err != nil {
				return nil, err
			}
			obj.Set(key.Value, item)
			continue
		}

		sources, err := mergeSources(val)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			merged, err := decodeYAMLMapping(src)
			if err != nil {
				return nil, err
			}
			merged.Each(func(k string, v Value) {
				if !explicit[k] && !obj.Has(k) {
					obj.Set(k, v)
				}
			})
		}
	}
	return obj, nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!merge"
}

// mergeSources returns the mappings a merge key refers to: one mapping or
// alias, or a sequence of them.
func mergeSources(n *yaml.Node) ([]*yaml.Node, error) {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}, nil
	case yaml.SequenceNode:
		out := make([]*yaml.Node, 0, len(n.Content))
		for _, child := range n.Content {
			for child.Kind == yaml.AliasNode {
				child = child.Alias
			}
			if child.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: merge key needs mappings, got node kind %d", ErrInvalidYAML, child.Kind)
			}
			out = append(out, child)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: merge key needs a mapping, got node kind %d", ErrInvalidYAML, n.Kind)
	}
}

// FromAny converts an already-decoded Go value into a Value. Map keys are
// sorted because Go maps carry no order.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return val
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case float64:
		return Number(val)
	case float32:
		return Number(val)
	case int:
		return Number(val)
	case int8:
		return Number(val)
	case int16:
		return Number(val)
	case int32:
		return Number(val)
	case int64:
		return Number(val)
	case uint:
		return Number(val)
	case uint8:
		return Number(val)
	case uint16:
		return Number(val)
	case uint32:
		return Number(val)
	case uint64:
		return Number(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil && !math.IsInf(f, 0) {
			return String(val.String())
		}
		return Number(f)
	case []any:
		arr := make(Array, len(val))
		for i, item := range val {
			arr[i] = FromAny(item)
		}
		return arr
	case []map[string]any:
		arr := make(Array, len(val))
		for i, item := range val {
			arr[i] = FromAny(item)
		}
		return arr
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			obj.Set(k, FromAny(val[k]))
		}
		return obj
	default:
		return Null{}
	}
}

// Records checks that v is an array and returns its elements as records.
// Elements that are not objects become empty records: they still count
// towards the sample size but contribute no fields.
func Records(v Value) ([]Record, error) {
	arr, ok := v.(Array)
	if !ok {
		return nil, ErrNotArray
	}
	records := make([]Record, len(arr))
	for i, item := range arr {
		if obj, ok := item.(*Object); ok {
			records[i] = obj
		} else {
			records[i] = NewObject()
		}
	}
	return records, nil
}

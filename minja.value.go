package minja

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ochafik/minja-go/internal"
)

// Value is the dynamic value type of the template language: none,
// booleans, integers, floats, strings, arrays, dicts and callables.
// Arrays and dicts have reference semantics and dicts preserve
// insertion order.
type Value = internal.Value

// None returns the none/undefined value.
func None() Value { return internal.NoneValue() }

// Bool creates a boolean value.
func Bool(b bool) Value { return internal.BoolValue(b) }

// Int creates an integer value.
func Int(i int64) Value { return internal.IntValue(i) }

// Float creates a float value.
func Float(f float64) Value { return internal.FloatValue(f) }

// String creates a string value.
func String(s string) Value { return internal.StringValue(s) }

// Array creates an array value.
func Array(items ...Value) Value { return internal.ArrayValue(items...) }

// Dict creates an empty dict value; populate it through Value.Dict().
func Dict() Value { return internal.DictValue() }

// Func creates a callable value backed by a host function. Templates can
// invoke it like any other function; keyword arguments are not passed
// through.
func Func(name string, fn func(args []Value) (Value, error)) Value {
	return internal.CallableValue(name, func(_ *internal.Interp, args *internal.Arguments) (Value, error) {
		return fn(args.Positional)
	})
}

// FromJSON decodes a JSON document into a Value, preserving object key
// order. Numbers without a fraction or exponent become integers.
func FromJSON(data []byte) (Value, error) {
	return internal.ParseJSON(data)
}

// ToJSON serializes a value as JSON with Python json.dumps formatting.
// indent < 0 selects the compact single-line form.
func ToJSON(v Value, indent int) (string, error) {
	return internal.DumpJSON(v, indent, false)
}

// FromYAML decodes a YAML document into a Value. The document is walked
// as a node tree so mapping key order is preserved.
func FromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return None(), fmt.Errorf("invalid YAML document: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return None(), nil
	}
	return yamlNodeValue(doc.Content[0])
}

func yamlNodeValue(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return yamlScalarValue(node)

	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			v, err := yamlNodeValue(child)
			if err != nil {
				return None(), err
			}
			items[i] = v
		}
		return internal.ArrayValue(items...), nil

	case yaml.MappingNode:
		d := internal.DictValue()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := yamlNodeValue(node.Content[i])
			if err != nil {
				return None(), err
			}
			val, err := yamlNodeValue(node.Content[i+1])
			if err != nil {
				return None(), err
			}
			if err := d.Dict().Set(key, val); err != nil {
				return None(), err
			}
		}
		return d, nil

	case yaml.AliasNode:
		return yamlNodeValue(node.Alias)
	}
	return None(), fmt.Errorf("unsupported YAML node kind %d", node.Kind)
}

func yamlScalarValue(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null":
		return None(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return None(), err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return None(), err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return None(), err
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// FromGo converts a native Go value. Maps are sorted by key for
// determinism; use FromJSON or FromYAML when key order matters.
func FromGo(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return None(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case Value:
		return t, nil
	case []Value:
		return internal.ArrayValue(t...), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			v, err := FromGo(item)
			if err != nil {
				return None(), err
			}
			items[i] = v
		}
		return internal.ArrayValue(items...), nil
	case []string:
		items := make([]Value, len(t))
		for i, s := range t {
			items[i] = String(s)
		}
		return internal.ArrayValue(items...), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := internal.DictValue()
		for _, k := range keys {
			v, err := FromGo(t[k])
			if err != nil {
				return None(), err
			}
			d.Dict().SetString(k, v)
		}
		return d, nil
	}
	return None(), fmt.Errorf("cannot convert %T to a template value", v)
}

package internal

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a Value.
type Kind int

const (
	// KindNone covers both Python None and the Jinja undefined value.
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindDict
	KindCallable
)

// String returns the Python-style type name, as used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "str"
	case KindArray:
		return "list"
	case KindDict:
		return "dict"
	case KindCallable:
		return "callable"
	default:
		return "unknown"
	}
}

// Value error message constants
const (
	ErrMsgNotHashable     = "unhashable type"
	ErrMsgPopEmptyList    = "pop from empty list"
	ErrMsgPopIndexRange   = "pop index out of range"
	ErrMsgIndexRange      = "list index out of range"
	ErrMsgNotComparable   = "Cannot compare values"
	ErrMsgItemsNonMapping = "Can only get item pairs from a mapping"
)

// Value is the dynamic runtime value of the template language: a closed
// tagged union over none, booleans, integers, floats, strings, arrays,
// dicts and callables. Arrays and dicts have reference semantics: copies
// of a Value share the same backing container.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	arr  *Array
	dict *Dict
	call *Callable
}

// Array is the shared backing store of an array value.
type Array struct {
	Items []Value
}

// DictEntry is a single key/value pair of a dict.
type DictEntry struct {
	Key Value
	Val Value
}

// Dict is the shared, insertion-ordered backing store of a dict value.
// Namespace dicts additionally allow attribute assignment from templates.
type Dict struct {
	entries   []DictEntry
	index     map[string]int
	namespace bool
}

// Callable is a function value: a builtin global, a macro, a host-supplied
// function or a bound helper such as loop.cycle.
type Callable struct {
	Name string
	Fn   func(in *Interp, args *Arguments) (Value, error)
}

// Arguments carries the evaluated arguments of a call. Caller is only set
// for macros invoked through a call block.
type Arguments struct {
	Positional []Value
	Keyword    []KeywordArg
	Caller     *Callable
}

// KeywordArg is a single evaluated keyword argument.
type KeywordArg struct {
	Name string
	Val  Value
}

// Kwarg returns the named keyword argument if present.
func (a *Arguments) Kwarg(name string) (Value, bool) {
	for _, k := range a.Keyword {
		if k.Name == name {
			return k.Val, true
		}
	}
	return Value{}, false
}

// At returns the i-th positional argument, or none when absent.
func (a *Arguments) At(i int) Value {
	if i < len(a.Positional) {
		return a.Positional[i]
	}
	return Value{}
}

// NoneValue returns the none/undefined value.
func NoneValue() Value {
	return Value{}
}

// BoolValue creates a boolean value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// IntValue creates an integer value.
func IntValue(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// FloatValue creates a float value.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// StringValue creates a string value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// ArrayValue creates an array value backed by the given items.
func ArrayValue(items ...Value) Value {
	return Value{kind: KindArray, arr: &Array{Items: items}}
}

// ArrayValueOf wraps an existing backing store.
func ArrayValueOf(arr *Array) Value {
	return Value{kind: KindArray, arr: arr}
}

// DictValue creates an empty dict value.
func DictValue() Value {
	return Value{kind: KindDict, dict: NewDict()}
}

// DictValueOf wraps an existing backing store.
func DictValueOf(d *Dict) Value {
	return Value{kind: KindDict, dict: d}
}

// NamespaceValue creates an empty namespace dict: its attributes can be
// reassigned from enclosing or nested scopes.
func NamespaceValue() Value {
	d := NewDict()
	d.namespace = true
	return Value{kind: KindDict, dict: d}
}

// CallableValue creates a callable value.
func CallableValue(name string, fn func(in *Interp, args *Arguments) (Value, error)) Value {
	return Value{kind: KindCallable, call: &Callable{Name: name, Fn: fn}}
}

// Kind returns the dynamic type of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether the value is none/undefined.
func (v Value) IsNone() bool { return v.kind == KindNone }

// IsNumber reports whether the value is numeric (bool counts, as in Python).
func (v Value) IsNumber() bool {
	return v.kind == KindBool || v.kind == KindInt || v.kind == KindFloat
}

// IsCallable reports whether the value can be invoked.
func (v Value) IsCallable() bool { return v.kind == KindCallable }

// Bool returns the raw boolean. Only valid for KindBool.
func (v Value) Bool() bool { return v.b }

// Int returns the raw integer. Only valid for KindInt.
func (v Value) Int() int64 { return v.i }

// Float returns the raw float. Only valid for KindFloat.
func (v Value) Float() float64 { return v.f }

// Str returns the raw string. Only valid for KindString.
func (v Value) Str() string { return v.s }

// Arr returns the array backing store. Only valid for KindArray.
func (v Value) Arr() *Array { return v.arr }

// Dict returns the dict backing store. Only valid for KindDict.
func (v Value) Dict() *Dict { return v.dict }

// Call returns the callable. Only valid for KindCallable.
func (v Value) Call() *Callable { return v.call }

// IsNamespace reports whether the value is a namespace dict.
func (v Value) IsNamespace() bool {
	return v.kind == KindDict && v.dict.namespace
}

// Truthy returns the Python truthiness of the value.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNone:
		return false
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindFloat:
		return v.f != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr.Items) > 0
	case KindDict:
		return v.dict.Len() > 0
	case KindCallable:
		return true
	default:
		return false
	}
}

// ToString renders the value the way {{ }} interpolation does: none and
// undefined render as the empty string, everything else follows Python
// str() conventions.
func (v Value) ToString() string {
	if v.kind == KindNone {
		return ""
	}
	if v.kind == KindString {
		return v.s
	}
	return v.Repr()
}

// Repr renders the value the way it appears inside a container: Python
// repr() conventions, with none rendered as "None".
func (v Value) Repr() string {
	switch v.kind {
	case KindNone:
		return "None"
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return pyFloatString(v.f)
	case KindString:
		return pyStringRepr(v.s)
	case KindArray:
		parts := make([]string, len(v.arr.Items))
		for i, item := range v.arr.Items {
			parts[i] = item.Repr()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		parts := make([]string, 0, v.dict.Len())
		for _, e := range v.dict.Entries() {
			parts = append(parts, e.Key.Repr()+": "+e.Val.Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindCallable:
		return "<callable " + v.call.Name + ">"
	default:
		return ""
	}
}

// pyFloatString formats a float following Python repr: shortest roundtrip
// form, with ".0" appended to integral values.
func pyFloatString(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// pyStringRepr quotes a string following Python repr: single quotes unless
// the string contains a single quote but no double quote.
func pyStringRepr(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var sb strings.Builder
	sb.WriteByte(quote)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case rune(quote):
			sb.WriteByte('\\')
			sb.WriteByte(quote)
		default:
			if r < 0x20 {
				sb.WriteString(fmt.Sprintf(`\x%02x`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}

// asFloat returns the numeric value as a float64. Only valid for numbers.
func (v Value) asFloat() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.i)
	case KindFloat:
		return v.f
	default:
		return 0
	}
}

// asInt returns the numeric value as an int64, truncating floats toward
// zero. Only valid for numbers.
func (v Value) asInt() int64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return v.i
	case KindFloat:
		return int64(v.f)
	default:
		return 0
	}
}

// Equal implements Python equality: numbers compare across int, float and
// bool; containers compare element-wise; values of unrelated types are
// unequal.
func (v Value) Equal(o Value) bool {
	if v.IsNumber() && o.IsNumber() {
		return v.asFloat() == o.asFloat()
	}
	if v.kind != o.kind {
		return v.kind == KindNone && o.kind == KindNone
	}
	switch v.kind {
	case KindNone:
		return true
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr.Items) != len(o.arr.Items) {
			return false
		}
		for i := range v.arr.Items {
			if !v.arr.Items[i].Equal(o.arr.Items[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if v.dict.Len() != o.dict.Len() {
			return false
		}
		for _, e := range v.dict.entries {
			ov, ok := o.dict.Get(e.Key)
			if !ok || !e.Val.Equal(ov) {
				return false
			}
		}
		return true
	case KindCallable:
		return v.call == o.call
	default:
		return false
	}
}

// Less implements Python ordering for numbers, strings and arrays. Other
// type combinations are not comparable.
func (v Value) Less(o Value) (bool, error) {
	if v.IsNumber() && o.IsNumber() {
		return v.asFloat() < o.asFloat(), nil
	}
	if v.kind == KindString && o.kind == KindString {
		return v.s < o.s, nil
	}
	if v.kind == KindArray && o.kind == KindArray {
		a, b := v.arr.Items, o.arr.Items
		for i := 0; i < len(a) && i < len(b); i++ {
			if less, err := a[i].Less(b[i]); err != nil {
				return false, err
			} else if less {
				return true, nil
			}
			if less, err := b[i].Less(a[i]); err != nil {
				return false, err
			} else if less {
				return false, nil
			}
		}
		return len(a) < len(b), nil
	}
	return false, fmt.Errorf("%s: %s and %s", ErrMsgNotComparable, v.kind, o.kind)
}

// NewDict creates an empty dict backing store.
func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// keyID maps a hashable key value to a stable identity string. Numeric
// keys share an identity across int, float and bool, as in Python.
func keyID(key Value) (string, error) {
	switch key.kind {
	case KindNone:
		return "n", nil
	case KindBool, KindInt:
		return "i:" + strconv.FormatInt(key.asInt(), 10), nil
	case KindFloat:
		if key.f == float64(int64(key.f)) {
			return "i:" + strconv.FormatInt(int64(key.f), 10), nil
		}
		return "f:" + strconv.FormatFloat(key.f, 'g', -1, 64), nil
	case KindString:
		return "s:" + key.s, nil
	default:
		return "", fmt.Errorf("%s: '%s'", ErrMsgNotHashable, key.kind)
	}
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	return len(d.entries)
}

// Entries returns the entries in insertion order.
func (d *Dict) Entries() []DictEntry {
	return d.entries
}

// Get looks up a key, returning ok=false when absent or unhashable.
func (d *Dict) Get(key Value) (Value, bool) {
	id, err := keyID(key)
	if err != nil {
		return Value{}, false
	}
	i, ok := d.index[id]
	if !ok {
		return Value{}, false
	}
	return d.entries[i].Val, true
}

// GetString looks up a string key.
func (d *Dict) GetString(key string) (Value, bool) {
	return d.Get(StringValue(key))
}

// Set inserts or replaces a key. Insertion order is preserved; replacing
// an existing key keeps its original position.
func (d *Dict) Set(key, val Value) error {
	id, err := keyID(key)
	if err != nil {
		return err
	}
	if i, ok := d.index[id]; ok {
		d.entries[i].Val = val
		return nil
	}
	d.index[id] = len(d.entries)
	d.entries = append(d.entries, DictEntry{Key: key, Val: val})
	return nil
}

// SetString inserts or replaces a string key.
func (d *Dict) SetString(key string, val Value) {
	_ = d.Set(StringValue(key), val)
}

// Delete removes a key, reporting whether it was present.
func (d *Dict) Delete(key Value) bool {
	id, err := keyID(key)
	if err != nil {
		return false
	}
	i, ok := d.index[id]
	if !ok {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	delete(d.index, id)
	for k, j := range d.index {
		if j > i {
			d.index[k] = j - 1
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []Value {
	keys := make([]Value, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Values returns the values in insertion order.
func (d *Dict) Values() []Value {
	vals := make([]Value, len(d.entries))
	for i, e := range d.entries {
		vals[i] = e.Val
	}
	return vals
}

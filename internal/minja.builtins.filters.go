package internal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Filter name constants
const (
	FilterNameDefault    = "default"
	FilterNameTojson     = "tojson"
	FilterNameJoin       = "join"
	FilterNameMap        = "map"
	FilterNameSelect     = "select"
	FilterNameSelectattr = "selectattr"
	FilterNameReject     = "reject"
	FilterNameRejectattr = "rejectattr"
	FilterNameIndent     = "indent"
	FilterNameDictsort   = "dictsort"
	FilterNameUnique     = "unique"
	FilterNameItems      = "items"
	FilterNameLength     = "length"
	FilterNameTrim       = "trim"
	FilterNameEscape     = "escape"
)

// RegisterBuiltinFilters installs the filter set.
func RegisterBuiltinFilters(r *BuiltinRegistry) {
	r.RegisterFilter(FilterNameDefault, filterDefault)
	r.RegisterFilter("d", filterDefault)
	r.RegisterFilter(FilterNameTojson, filterTojson)
	r.RegisterFilter(FilterNameJoin, filterJoin)
	r.RegisterFilter(FilterNameMap, filterMap)
	r.RegisterFilter(FilterNameSelect, makeSelectFilter(false))
	r.RegisterFilter(FilterNameReject, makeSelectFilter(true))
	r.RegisterFilter(FilterNameSelectattr, makeSelectAttrFilter(false))
	r.RegisterFilter(FilterNameRejectattr, makeSelectAttrFilter(true))
	r.RegisterFilter(FilterNameIndent, filterIndent)
	r.RegisterFilter(FilterNameDictsort, filterDictsort)
	r.RegisterFilter(FilterNameUnique, filterUnique)
	r.RegisterFilter(FilterNameItems, filterItems)
	r.RegisterFilter(FilterNameLength, filterLength)
	r.RegisterFilter("count", filterLength)
	r.RegisterFilter(FilterNameTrim, filterTrim)
	r.RegisterFilter(FilterNameEscape, filterEscape)
	r.RegisterFilter("e", filterEscape)
	r.RegisterFilter("safe", filterSafe)
	r.RegisterFilter("first", filterFirst)
	r.RegisterFilter("last", filterLast)
	r.RegisterFilter("reverse", filterReverse)
	r.RegisterFilter("list", filterList)
	r.RegisterFilter("string", filterString)
	r.RegisterFilter("int", filterInt)
	r.RegisterFilter("float", filterFloat)
	r.RegisterFilter("upper", filterUpper)
	r.RegisterFilter("lower", filterLower)
	r.RegisterFilter("title", filterTitle)
	r.RegisterFilter("capitalize", filterCapitalize)
	r.RegisterFilter("abs", filterAbs)
}

// shiftArgs drops the first n positional arguments.
func shiftArgs(args *Arguments, n int) *Arguments {
	rest := &Arguments{Keyword: args.Keyword}
	if n < len(args.Positional) {
		rest.Positional = args.Positional[n:]
	}
	return rest
}

func filterDefault(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	fallback := args.At(0)
	boolean := false
	if len(args.Positional) > 1 {
		boolean = args.At(1).Truthy()
	} else if v, ok := args.Kwarg("boolean"); ok {
		boolean = v.Truthy()
	}
	if receiver.IsNone() || (boolean && !receiver.Truthy()) {
		return fallback, nil
	}
	return receiver, nil
}

func filterTojson(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	indent := -1
	indentArg := args.At(0)
	if v, ok := args.Kwarg("indent"); ok {
		indentArg = v
	}
	if !indentArg.IsNone() {
		if !indentArg.IsNumber() {
			return Value{}, fmt.Errorf("tojson indent must be an integer")
		}
		indent = int(indentArg.asInt())
	}
	ensureASCII := false
	if v, ok := args.Kwarg("ensure_ascii"); ok {
		ensureASCII = v.Truthy()
	}
	s, err := DumpJSON(receiver, indent, ensureASCII)
	if err != nil {
		return Value{}, err
	}
	return StringValue(s), nil
}

func filterJoin(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	items, err := Iterate(receiver)
	if err != nil {
		return Value{}, err
	}
	sep := ""
	if len(args.Positional) > 0 {
		sep = args.At(0).ToString()
	}
	attribute, hasAttr := args.Kwarg("attribute")
	parts := make([]string, len(items))
	for i, item := range items {
		v := item
		if hasAttr {
			v, err = Index(item, attribute)
			if err != nil {
				return Value{}, err
			}
		}
		parts[i] = v.ToString()
	}
	return StringValue(strings.Join(parts, sep)), nil
}

// iterateLenient treats none as an empty sequence, which the sequence
// pipeline filters rely on.
func iterateLenient(receiver Value) ([]Value, error) {
	if receiver.IsNone() {
		return nil, nil
	}
	return Iterate(receiver)
}

// attrLookup fetches a named attribute from a pipeline item, yielding the
// fallback when absent.
func attrLookup(item Value, name string, fallback Value) Value {
	if item.Kind() != KindDict {
		return fallback
	}
	v, ok := item.Dict().GetString(name)
	if !ok {
		return fallback
	}
	return v
}

func filterMap(in *Interp, receiver Value, args *Arguments) (Value, error) {
	items, err := iterateLenient(receiver)
	if err != nil {
		return Value{}, err
	}

	if attr, ok := args.Kwarg("attribute"); ok {
		fallback := NoneValue()
		if d, ok := args.Kwarg("default"); ok {
			fallback = d
		}
		mapped := make([]Value, len(items))
		for i, item := range items {
			mapped[i] = attrLookup(item, attr.ToString(), fallback)
		}
		return ArrayValue(mapped...), nil
	}

	if len(args.Positional) == 0 || args.At(0).Kind() != KindString {
		return Value{}, fmt.Errorf("map expects a filter name or an attribute")
	}
	name := args.At(0).Str()
	rest := shiftArgs(args, 1)
	mapped := make([]Value, len(items))
	for i, item := range items {
		v, err := in.applyFilter(name, item, rest, Position{})
		if err != nil {
			return Value{}, err
		}
		mapped[i] = v
	}
	return ArrayValue(mapped...), nil
}

func makeSelectFilter(reject bool) FilterFunc {
	return func(in *Interp, receiver Value, args *Arguments) (Value, error) {
		items, err := iterateLenient(receiver)
		if err != nil {
			return Value{}, err
		}
		var kept []Value
		for _, item := range items {
			ok := item.Truthy()
			if len(args.Positional) > 0 {
				if args.At(0).Kind() != KindString {
					return Value{}, fmt.Errorf("select test name must be a string")
				}
				ok, err = in.applyTest(args.At(0).Str(), item, shiftArgs(args, 1), Position{})
				if err != nil {
					return Value{}, err
				}
			}
			if ok != reject {
				kept = append(kept, item)
			}
		}
		return ArrayValue(kept...), nil
	}
}

func makeSelectAttrFilter(reject bool) FilterFunc {
	return func(in *Interp, receiver Value, args *Arguments) (Value, error) {
		items, err := iterateLenient(receiver)
		if err != nil {
			return Value{}, err
		}
		if len(args.Positional) == 0 || args.At(0).Kind() != KindString {
			return Value{}, fmt.Errorf("selectattr expects an attribute name")
		}
		attr := args.At(0).Str()

		var kept []Value
		for _, item := range items {
			attrVal := attrLookup(item, attr, NoneValue())
			ok := attrVal.Truthy()
			if len(args.Positional) > 1 {
				if args.At(1).Kind() != KindString {
					return Value{}, fmt.Errorf("selectattr test name must be a string")
				}
				ok, err = in.applyTest(args.At(1).Str(), attrVal, shiftArgs(args, 2), Position{})
				if err != nil {
					return Value{}, err
				}
			}
			if ok != reject {
				kept = append(kept, item)
			}
		}
		return ArrayValue(kept...), nil
	}
}

func filterIndent(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	widthArg := args.At(0)
	if v, ok := args.Kwarg("width"); ok {
		widthArg = v
	}
	var pad string
	switch {
	case widthArg.Kind() == KindString:
		pad = widthArg.Str()
	case widthArg.IsNumber():
		pad = strings.Repeat(" ", int(widthArg.asInt()))
	default:
		return Value{}, fmt.Errorf("indent width must be an integer or a string")
	}

	first := false
	if len(args.Positional) > 1 {
		first = args.At(1).Truthy()
	} else if v, ok := args.Kwarg("first"); ok {
		first = v.Truthy()
	}
	blank := false
	if len(args.Positional) > 2 {
		blank = args.At(2).Truthy()
	} else if v, ok := args.Kwarg("blank"); ok {
		blank = v.Truthy()
	}

	lines := strings.Split(receiver.ToString(), "\n")
	for i, line := range lines {
		if i == 0 && !first {
			continue
		}
		if line == "" && !blank {
			continue
		}
		lines[i] = pad + line
	}
	return StringValue(strings.Join(lines, "\n")), nil
}

func filterDictsort(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	if receiver.Kind() != KindDict {
		return Value{}, fmt.Errorf(ErrMsgItemsNonMapping)
	}
	entries := append([]DictEntry(nil), receiver.Dict().Entries()...)
	var sortErr error
	sort.SliceStable(entries, func(i, j int) bool {
		less, err := entries[i].Key.Less(entries[j].Key)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return Value{}, sortErr
	}
	if v, ok := args.Kwarg("reverse"); ok && v.Truthy() {
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
	}
	pairs := make([]Value, len(entries))
	for i, e := range entries {
		pairs[i] = ArrayValue(e.Key, e.Val)
	}
	return ArrayValue(pairs...), nil
}

func filterUnique(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	items, err := Iterate(receiver)
	if err != nil {
		return Value{}, err
	}
	var unique []Value
	for _, item := range items {
		seen := false
		for _, u := range unique {
			if u.Equal(item) {
				seen = true
				break
			}
		}
		if !seen {
			unique = append(unique, item)
		}
	}
	return ArrayValue(unique...), nil
}

func filterItems(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	if receiver.Kind() != KindDict {
		return Value{}, fmt.Errorf(ErrMsgItemsNonMapping)
	}
	pairs := make([]Value, 0, receiver.Dict().Len())
	for _, e := range receiver.Dict().Entries() {
		pairs = append(pairs, ArrayValue(e.Key, e.Val))
	}
	return ArrayValue(pairs...), nil
}

func filterLength(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	n, err := Length(receiver)
	if err != nil {
		return Value{}, err
	}
	return IntValue(int64(n)), nil
}

func filterTrim(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	if receiver.IsNone() {
		return StringValue(""), nil
	}
	cutset := " \t\n\r\f\v"
	if len(args.Positional) > 0 && !args.At(0).IsNone() {
		if args.At(0).Kind() != KindString {
			return Value{}, fmt.Errorf("trim characters must be a string")
		}
		cutset = args.At(0).Str()
	}
	return StringValue(strings.Trim(receiver.ToString(), cutset)), nil
}

// htmlEscaper follows the Python markupsafe escape table.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

func filterEscape(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return StringValue(htmlEscaper.Replace(receiver.ToString())), nil
}

func filterSafe(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return receiver, nil
}

func filterFirst(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	items, err := Iterate(receiver)
	if err != nil {
		return Value{}, err
	}
	if len(items) == 0 {
		return NoneValue(), nil
	}
	return items[0], nil
}

func filterLast(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	items, err := Iterate(receiver)
	if err != nil {
		return Value{}, err
	}
	if len(items) == 0 {
		return NoneValue(), nil
	}
	return items[len(items)-1], nil
}

func filterReverse(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	if receiver.Kind() == KindString {
		runes := []rune(receiver.Str())
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return StringValue(string(runes)), nil
	}
	items, err := Iterate(receiver)
	if err != nil {
		return Value{}, err
	}
	reversed := make([]Value, len(items))
	for i, item := range items {
		reversed[len(items)-1-i] = item
	}
	return ArrayValue(reversed...), nil
}

func filterList(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	items, err := Iterate(receiver)
	if err != nil {
		return Value{}, err
	}
	return ArrayValue(append([]Value(nil), items...)...), nil
}

func filterString(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return StringValue(receiver.ToString()), nil
}

func filterInt(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	fallback := IntValue(0)
	if len(args.Positional) > 0 {
		fallback = args.At(0)
	}
	switch receiver.Kind() {
	case KindBool, KindInt, KindFloat:
		return IntValue(receiver.asInt()), nil
	case KindString:
		s := strings.TrimSpace(receiver.Str())
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return IntValue(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return IntValue(int64(f)), nil
		}
		return fallback, nil
	default:
		return fallback, nil
	}
}

func filterFloat(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	fallback := FloatValue(0)
	if len(args.Positional) > 0 {
		fallback = args.At(0)
	}
	switch receiver.Kind() {
	case KindBool, KindInt, KindFloat:
		return FloatValue(receiver.asFloat()), nil
	case KindString:
		if f, err := strconv.ParseFloat(strings.TrimSpace(receiver.Str()), 64); err == nil {
			return FloatValue(f), nil
		}
		return fallback, nil
	default:
		return fallback, nil
	}
}

func filterUpper(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return StringValue(strings.ToUpper(receiver.ToString())), nil
}

func filterLower(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return StringValue(strings.ToLower(receiver.ToString())), nil
}

func filterTitle(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return StringValue(pyTitle(receiver.ToString())), nil
}

func filterCapitalize(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	return StringValue(pyCapitalize(receiver.ToString())), nil
}

func filterAbs(_ *Interp, receiver Value, args *Arguments) (Value, error) {
	switch receiver.Kind() {
	case KindBool, KindInt:
		i := receiver.asInt()
		if i < 0 {
			i = -i
		}
		return IntValue(i), nil
	case KindFloat:
		f := receiver.Float()
		if f < 0 {
			f = -f
		}
		return FloatValue(f), nil
	}
	return Value{}, fmt.Errorf("abs requires a number")
}

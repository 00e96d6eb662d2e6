package internal

import (
	"fmt"
	"strings"
	"unicode"
)

// Method error message constants
const (
	ErrMsgNoMethod     = "object has no method"
	ErrMsgMethodOnNone = "Cannot call method on null"
)

// CallMethod dispatches a method call on a value. Dicts fall back to a
// stored callable entry when no builtin method matches, so host-injected
// helper objects keep working.
func CallMethod(in *Interp, base Value, name string, args *Arguments) (Value, error) {
	switch base.kind {
	case KindString:
		return callStringMethod(base.s, name, args)
	case KindArray:
		return callArrayMethod(base.arr, name, args)
	case KindDict:
		// Stored callable entries shadow the builtin mapping methods so
		// host-injected helpers keep working.
		if entry, ok := base.dict.GetString(name); ok && entry.IsCallable() {
			return entry.call.Fn(in, args)
		}
		return callDictMethod(base.dict, name, args)
	case KindNone:
		return Value{}, fmt.Errorf("%s: '%s'", ErrMsgMethodOnNone, name)
	}
	return Value{}, fmt.Errorf("'%s' %s '%s'", base.kind, ErrMsgNoMethod, name)
}

func callStringMethod(s, name string, args *Arguments) (Value, error) {
	switch name {
	case "strip", "lstrip", "rstrip":
		cutset := " \t\n\r\f\v"
		if len(args.Positional) > 0 {
			if args.At(0).kind != KindString {
				return Value{}, fmt.Errorf("%s argument must be a string", name)
			}
			cutset = args.At(0).s
		}
		switch name {
		case "lstrip":
			return StringValue(strings.TrimLeft(s, cutset)), nil
		case "rstrip":
			return StringValue(strings.TrimRight(s, cutset)), nil
		default:
			return StringValue(strings.Trim(s, cutset)), nil
		}

	case "split":
		if len(args.Positional) == 0 || args.At(0).IsNone() {
			parts := strings.Fields(s)
			items := make([]Value, len(parts))
			for i, p := range parts {
				items[i] = StringValue(p)
			}
			return ArrayValue(items...), nil
		}
		if args.At(0).kind != KindString {
			return Value{}, fmt.Errorf("split separator must be a string")
		}
		parts := strings.Split(s, args.At(0).s)
		items := make([]Value, len(parts))
		for i, p := range parts {
			items[i] = StringValue(p)
		}
		return ArrayValue(items...), nil

	case "upper":
		return StringValue(strings.ToUpper(s)), nil
	case "lower":
		return StringValue(strings.ToLower(s)), nil
	case "capitalize":
		return StringValue(pyCapitalize(s)), nil
	case "title":
		return StringValue(pyTitle(s)), nil

	case "replace":
		if len(args.Positional) < 2 {
			return Value{}, fmt.Errorf("replace expects at least 2 arguments")
		}
		old, new := args.At(0), args.At(1)
		if old.kind != KindString || new.kind != KindString {
			return Value{}, fmt.Errorf("replace arguments must be strings")
		}
		count := -1
		if len(args.Positional) > 2 {
			if !args.At(2).IsNumber() {
				return Value{}, fmt.Errorf("replace count must be an integer")
			}
			count = int(args.At(2).asInt())
		}
		return StringValue(strings.Replace(s, old.s, new.s, count)), nil

	case "startswith":
		if args.At(0).kind != KindString {
			return Value{}, fmt.Errorf("startswith argument must be a string")
		}
		return BoolValue(strings.HasPrefix(s, args.At(0).s)), nil
	case "endswith":
		if args.At(0).kind != KindString {
			return Value{}, fmt.Errorf("endswith argument must be a string")
		}
		return BoolValue(strings.HasSuffix(s, args.At(0).s)), nil
	}
	return Value{}, fmt.Errorf("'str' %s '%s'", ErrMsgNoMethod, name)
}

func callArrayMethod(arr *Array, name string, args *Arguments) (Value, error) {
	switch name {
	case "append":
		arr.Items = append(arr.Items, args.At(0))
		return NoneValue(), nil

	case "insert":
		if len(args.Positional) < 2 || !args.At(0).IsNumber() {
			return Value{}, fmt.Errorf("insert expects an index and a value")
		}
		i := int(args.At(0).asInt())
		if i < 0 {
			i += len(arr.Items)
		}
		if i < 0 {
			i = 0
		}
		if i > len(arr.Items) {
			i = len(arr.Items)
		}
		arr.Items = append(arr.Items, Value{})
		copy(arr.Items[i+1:], arr.Items[i:])
		arr.Items[i] = args.At(1)
		return NoneValue(), nil

	case "pop":
		if len(arr.Items) == 0 {
			return Value{}, fmt.Errorf(ErrMsgPopEmptyList)
		}
		i := len(arr.Items) - 1
		if len(args.Positional) > 0 {
			if !args.At(0).IsNumber() {
				return Value{}, fmt.Errorf("pop index must be an integer")
			}
			i = int(args.At(0).asInt())
			if i < 0 {
				i += len(arr.Items)
			}
			if i < 0 || i >= len(arr.Items) {
				return Value{}, fmt.Errorf(ErrMsgPopIndexRange)
			}
		}
		v := arr.Items[i]
		arr.Items = append(arr.Items[:i], arr.Items[i+1:]...)
		return v, nil
	}
	return Value{}, fmt.Errorf("'list' %s '%s'", ErrMsgNoMethod, name)
}

func callDictMethod(d *Dict, name string, args *Arguments) (Value, error) {
	switch name {
	case "get":
		v, ok := d.Get(args.At(0))
		if !ok && len(args.Positional) > 1 {
			return args.At(1), nil
		}
		if !ok {
			return NoneValue(), nil
		}
		return v, nil

	case "keys":
		return ArrayValue(d.Keys()...), nil

	case "values":
		return ArrayValue(d.Values()...), nil

	case "items":
		items := make([]Value, 0, d.Len())
		for _, e := range d.Entries() {
			items = append(items, ArrayValue(e.Key, e.Val))
		}
		return ArrayValue(items...), nil

	case "pop":
		if len(args.Positional) == 0 {
			return Value{}, fmt.Errorf("pop expected at least 1 argument, got 0")
		}
		key := args.At(0)
		v, ok := d.Get(key)
		if !ok {
			if len(args.Positional) > 1 {
				return args.At(1), nil
			}
			return Value{}, fmt.Errorf("KeyError: %s", key.Repr())
		}
		d.Delete(key)
		return v, nil
	}
	return Value{}, fmt.Errorf("'dict' %s '%s'", ErrMsgNoMethod, name)
}

// pyCapitalize uppercases the first character and lowercases the rest.
func pyCapitalize(s string) string {
	runes := []rune(s)
	for i := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(runes[i])
		} else {
			runes[i] = unicode.ToLower(runes[i])
		}
	}
	return string(runes)
}

// pyTitle uppercases the first letter of every word and lowercases the
// rest, where words are maximal runs of letters.
func pyTitle(s string) string {
	runes := []rune(s)
	prevLetter := false
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if prevLetter {
				runes[i] = unicode.ToLower(r)
			} else {
				runes[i] = unicode.ToUpper(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(runes)
}

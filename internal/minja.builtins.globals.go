package internal

import (
	"errors"
	"fmt"
)

// Global function name constants
const (
	GlobalNameRange          = "range"
	GlobalNameNamespace      = "namespace"
	GlobalNameJoiner         = "joiner"
	GlobalNameRaiseException = "raise_exception"
)

// NewGlobalScope builds the root scope holding the builtin global
// functions. Every render gets a fresh child of a scope built here, so
// stateful helpers like joiner never leak between renders.
func NewGlobalScope() *Scope {
	scope := NewScope(nil)
	scope.Set(GlobalNameRange, CallableValue(GlobalNameRange, globalRange))
	scope.Set(GlobalNameNamespace, CallableValue(GlobalNameNamespace, globalNamespace))
	scope.Set(GlobalNameJoiner, CallableValue(GlobalNameJoiner, globalJoiner))
	scope.Set(GlobalNameRaiseException, CallableValue(GlobalNameRaiseException, globalRaiseException))
	return scope
}

// globalRange implements range(stop), range(start, stop) and
// range(start, stop, step), materialized as an array.
func globalRange(_ *Interp, args *Arguments) (Value, error) {
	bounds := make([]int64, 0, 3)
	for _, v := range args.Positional {
		if !v.IsNumber() {
			return Value{}, fmt.Errorf("range arguments must be integers")
		}
		bounds = append(bounds, v.asInt())
	}
	var start, stop, step int64 = 0, 0, 1
	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	default:
		return Value{}, fmt.Errorf("range expects 1 to 3 arguments")
	}
	if step == 0 {
		return Value{}, fmt.Errorf("range step must not be zero")
	}
	var items []Value
	if step > 0 {
		for i := start; i < stop; i += step {
			items = append(items, IntValue(i))
		}
	} else {
		for i := start; i > stop; i += step {
			items = append(items, IntValue(i))
		}
	}
	return ArrayValue(items...), nil
}

// globalNamespace builds a namespace object from keyword arguments.
func globalNamespace(_ *Interp, args *Arguments) (Value, error) {
	if len(args.Positional) > 0 {
		return Value{}, fmt.Errorf("namespace takes keyword arguments only")
	}
	ns := NamespaceValue()
	for _, kw := range args.Keyword {
		ns.Dict().SetString(kw.Name, kw.Val)
	}
	return ns, nil
}

// globalJoiner returns a callable that yields the empty string on its
// first call and the separator afterwards.
func globalJoiner(_ *Interp, args *Arguments) (Value, error) {
	sep := ", "
	if len(args.Positional) > 0 {
		if args.At(0).Kind() != KindString {
			return Value{}, fmt.Errorf("joiner separator must be a string")
		}
		sep = args.At(0).Str()
	}
	used := false
	return CallableValue("joiner", func(_ *Interp, _ *Arguments) (Value, error) {
		if !used {
			used = true
			return StringValue(""), nil
		}
		return StringValue(sep), nil
	}), nil
}

// globalRaiseException fails the render with the given message.
func globalRaiseException(_ *Interp, args *Arguments) (Value, error) {
	return Value{}, errors.New(args.At(0).ToString())
}

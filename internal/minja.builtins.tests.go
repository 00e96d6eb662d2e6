package internal

import "strings"

// RegisterBuiltinTests installs the test set. The defined and undefined
// tests are resolved by the evaluator before the receiver is evaluated,
// so they do not appear here.
func RegisterBuiltinTests(r *BuiltinRegistry) {
	r.RegisterTest("none", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.IsNone(), nil
	})
	r.RegisterTest("true", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindBool && v.Bool(), nil
	})
	r.RegisterTest("false", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindBool && !v.Bool(), nil
	})
	r.RegisterTest("boolean", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindBool, nil
	})
	r.RegisterTest("string", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindString, nil
	})
	r.RegisterTest("number", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.IsNumber(), nil
	})
	r.RegisterTest("integer", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindInt, nil
	})
	r.RegisterTest("float", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindFloat, nil
	})
	r.RegisterTest("mapping", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindDict, nil
	})
	r.RegisterTest("iterable", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		k := v.Kind()
		return k == KindString || k == KindArray || k == KindDict, nil
	})
	r.RegisterTest("sequence", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		k := v.Kind()
		return k == KindString || k == KindArray, nil
	})
	r.RegisterTest("callable", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.IsCallable(), nil
	})
	r.RegisterTest("in", func(_ *Interp, v Value, args *Arguments) (bool, error) {
		return Contains(v, args.At(0))
	})
	r.RegisterTest("equalto", testEqualTo)
	r.RegisterTest("eq", testEqualTo)
	r.RegisterTest("ne", func(_ *Interp, v Value, args *Arguments) (bool, error) {
		return !v.Equal(args.At(0)), nil
	})
	r.RegisterTest("odd", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindInt && v.Int()%2 != 0, nil
	})
	r.RegisterTest("even", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindInt && v.Int()%2 == 0, nil
	})
	r.RegisterTest("lower", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindString && v.Str() == strings.ToLower(v.Str()), nil
	})
	r.RegisterTest("upper", func(_ *Interp, v Value, _ *Arguments) (bool, error) {
		return v.Kind() == KindString && v.Str() == strings.ToUpper(v.Str()), nil
	})
}

func testEqualTo(_ *Interp, v Value, args *Arguments) (bool, error) {
	return v.Equal(args.At(0)), nil
}

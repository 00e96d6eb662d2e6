package internal

import (
	"fmt"
	"math"
	"strings"
)

// Operator error message constants
const (
	ErrMsgBadOperand   = "unsupported operand type(s)"
	ErrMsgDivByZero    = "division by zero"
	ErrMsgZeroStep     = "slice step cannot be zero"
	ErrMsgNotContainer = "argument of 'in' is not iterable"
	ErrMsgNoLength     = "object has no length"
	ErrMsgNotIterable  = "object is not iterable"
)

func badOperandError(op string, a, b Value) error {
	return fmt.Errorf("%s for %s: '%s' and '%s'", ErrMsgBadOperand, op, a.kind, b.kind)
}

// ArithAdd implements Python +: numeric addition, string concatenation and
// array concatenation (producing a fresh array).
func ArithAdd(a, b Value) (Value, error) {
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.kind == KindFloat || b.kind == KindFloat {
			return FloatValue(a.asFloat() + b.asFloat()), nil
		}
		return IntValue(a.asInt() + b.asInt()), nil
	case a.kind == KindString && b.kind == KindString:
		return StringValue(a.s + b.s), nil
	case a.kind == KindArray && b.kind == KindArray:
		items := make([]Value, 0, len(a.arr.Items)+len(b.arr.Items))
		items = append(items, a.arr.Items...)
		items = append(items, b.arr.Items...)
		return ArrayValue(items...), nil
	}
	return Value{}, badOperandError("+", a, b)
}

// ArithSub implements Python -.
func ArithSub(a, b Value) (Value, error) {
	if a.IsNumber() && b.IsNumber() {
		if a.kind == KindFloat || b.kind == KindFloat {
			return FloatValue(a.asFloat() - b.asFloat()), nil
		}
		return IntValue(a.asInt() - b.asInt()), nil
	}
	return Value{}, badOperandError("-", a, b)
}

// ArithMul implements Python *: numeric multiplication plus string and
// array repetition.
func ArithMul(a, b Value) (Value, error) {
	// normalize repetition operands to (sequence, count)
	if a.kind == KindInt || a.kind == KindBool {
		if b.kind == KindString || b.kind == KindArray {
			a, b = b, a
		}
	}
	switch {
	case a.IsNumber() && b.IsNumber():
		if a.kind == KindFloat || b.kind == KindFloat {
			return FloatValue(a.asFloat() * b.asFloat()), nil
		}
		return IntValue(a.asInt() * b.asInt()), nil
	case a.kind == KindString && (b.kind == KindInt || b.kind == KindBool):
		n := b.asInt()
		if n < 0 {
			n = 0
		}
		return StringValue(strings.Repeat(a.s, int(n))), nil
	case a.kind == KindArray && (b.kind == KindInt || b.kind == KindBool):
		n := b.asInt()
		if n < 0 {
			n = 0
		}
		items := make([]Value, 0, int(n)*len(a.arr.Items))
		for i := int64(0); i < n; i++ {
			items = append(items, a.arr.Items...)
		}
		return ArrayValue(items...), nil
	}
	return Value{}, badOperandError("*", a, b)
}

// ArithDiv implements Python /: always true division.
func ArithDiv(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, badOperandError("/", a, b)
	}
	if b.asFloat() == 0 {
		return Value{}, fmt.Errorf(ErrMsgDivByZero)
	}
	return FloatValue(a.asFloat() / b.asFloat()), nil
}

// ArithFloorDiv implements Python //: floor division, integral when both
// operands are integral.
func ArithFloorDiv(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, badOperandError("//", a, b)
	}
	if b.asFloat() == 0 {
		return Value{}, fmt.Errorf(ErrMsgDivByZero)
	}
	if a.kind != KindFloat && b.kind != KindFloat {
		x, y := a.asInt(), b.asInt()
		q := x / y
		if x%y != 0 && (x < 0) != (y < 0) {
			q--
		}
		return IntValue(q), nil
	}
	return FloatValue(math.Floor(a.asFloat() / b.asFloat())), nil
}

// ArithMod implements Python %: the result takes the sign of the divisor.
func ArithMod(a, b Value) (Value, error) {
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, badOperandError("%", a, b)
	}
	if b.asFloat() == 0 {
		return Value{}, fmt.Errorf(ErrMsgDivByZero)
	}
	if a.kind != KindFloat && b.kind != KindFloat {
		x, y := a.asInt(), b.asInt()
		r := x % y
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return IntValue(r), nil
	}
	r := math.Mod(a.asFloat(), b.asFloat())
	if r != 0 && (r < 0) != (b.asFloat() < 0) {
		r += b.asFloat()
	}
	return FloatValue(r), nil
}

// ArithNeg implements unary -.
func ArithNeg(a Value) (Value, error) {
	switch a.kind {
	case KindBool, KindInt:
		return IntValue(-a.asInt()), nil
	case KindFloat:
		return FloatValue(-a.f), nil
	}
	return Value{}, fmt.Errorf("%s for unary -: '%s'", ErrMsgBadOperand, a.kind)
}

// Concat implements ~: both operands are stringified and joined.
func Concat(a, b Value) Value {
	return StringValue(a.ToString() + b.ToString())
}

// Contains implements the in operator: substring match on strings, element
// match on arrays, key presence on dicts.
func Contains(item, container Value) (bool, error) {
	switch container.kind {
	case KindString:
		if item.kind != KindString {
			return false, nil
		}
		return strings.Contains(container.s, item.s), nil
	case KindArray:
		for _, v := range container.arr.Items {
			if v.Equal(item) {
				return true, nil
			}
		}
		return false, nil
	case KindDict:
		_, ok := container.dict.Get(item)
		return ok, nil
	}
	return false, fmt.Errorf("%s: '%s'", ErrMsgNotContainer, container.kind)
}

// Length implements len(): runes for strings, elements for containers.
func Length(v Value) (int, error) {
	switch v.kind {
	case KindString:
		return len([]rune(v.s)), nil
	case KindArray:
		return len(v.arr.Items), nil
	case KindDict:
		return v.dict.Len(), nil
	}
	return 0, fmt.Errorf("%s: '%s'", ErrMsgNoLength, v.kind)
}

// Iterate materializes an iterable into a slice of items: array elements,
// string characters or dict keys.
func Iterate(v Value) ([]Value, error) {
	switch v.kind {
	case KindArray:
		return v.arr.Items, nil
	case KindString:
		runes := []rune(v.s)
		items := make([]Value, len(runes))
		for i, r := range runes {
			items[i] = StringValue(string(r))
		}
		return items, nil
	case KindDict:
		return v.dict.Keys(), nil
	}
	return nil, fmt.Errorf("%s: '%s'", ErrMsgNotIterable, v.kind)
}

// sliceIndices normalizes slice bounds following the Python slice
// protocol and returns the selected index sequence parameters.
func sliceIndices(length int, start, stop *int, step int) (int, int) {
	var b, e int
	if step > 0 {
		b, e = 0, length
	} else {
		b, e = length-1, -1
	}
	clamp := func(i int, lo, hi int) int {
		if i < lo {
			return lo
		}
		if i > hi {
			return hi
		}
		return i
	}
	if start != nil {
		b = *start
		if b < 0 {
			b += length
		}
		if step > 0 {
			b = clamp(b, 0, length)
		} else {
			b = clamp(b, -1, length-1)
		}
	}
	if stop != nil {
		e = *stop
		if e < 0 {
			e += length
		}
		if step > 0 {
			e = clamp(e, 0, length)
		} else {
			e = clamp(e, -1, length-1)
		}
	}
	return b, e
}

// SliceValue implements extended slicing over arrays and strings.
func SliceValue(base Value, start, stop *int, step int) (Value, error) {
	if step == 0 {
		return Value{}, fmt.Errorf(ErrMsgZeroStep)
	}
	switch base.kind {
	case KindArray:
		b, e := sliceIndices(len(base.arr.Items), start, stop, step)
		var items []Value
		if step > 0 {
			for i := b; i < e; i += step {
				items = append(items, base.arr.Items[i])
			}
		} else {
			for i := b; i > e; i += step {
				items = append(items, base.arr.Items[i])
			}
		}
		return ArrayValue(items...), nil
	case KindString:
		runes := []rune(base.s)
		b, e := sliceIndices(len(runes), start, stop, step)
		var sb strings.Builder
		if step > 0 {
			for i := b; i < e; i += step {
				sb.WriteRune(runes[i])
			}
		} else {
			for i := b; i > e; i += step {
				sb.WriteRune(runes[i])
			}
		}
		return StringValue(sb.String()), nil
	}
	return Value{}, fmt.Errorf("'%s' is not subscriptable", base.kind)
}

// Index implements subscript access. Missing dict keys yield none, in
// line with attribute access on mappings; out-of-range sequence indices
// are errors.
func Index(base, key Value) (Value, error) {
	switch base.kind {
	case KindArray:
		if !key.IsNumber() {
			return Value{}, fmt.Errorf("list indices must be integers, not '%s'", key.kind)
		}
		i := key.asInt()
		if i < 0 {
			i += int64(len(base.arr.Items))
		}
		if i < 0 || i >= int64(len(base.arr.Items)) {
			return Value{}, fmt.Errorf(ErrMsgIndexRange)
		}
		return base.arr.Items[i], nil
	case KindString:
		runes := []rune(base.s)
		if !key.IsNumber() {
			return Value{}, fmt.Errorf("string indices must be integers, not '%s'", key.kind)
		}
		i := key.asInt()
		if i < 0 {
			i += int64(len(runes))
		}
		if i < 0 || i >= int64(len(runes)) {
			return Value{}, fmt.Errorf("string index out of range")
		}
		return StringValue(string(runes[i])), nil
	case KindDict:
		v, _ := base.dict.Get(key)
		return v, nil
	}
	return Value{}, fmt.Errorf("'%s' is not subscriptable", base.kind)
}

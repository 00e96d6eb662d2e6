package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_Truthy(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected bool
	}{
		{"none", NoneValue(), false},
		{"false", BoolValue(false), false},
		{"true", BoolValue(true), true},
		{"zero int", IntValue(0), false},
		{"nonzero int", IntValue(-3), true},
		{"zero float", FloatValue(0), false},
		{"nonzero float", FloatValue(0.5), true},
		{"empty string", StringValue(""), false},
		{"string", StringValue("x"), true},
		{"empty array", ArrayValue(), false},
		{"array", ArrayValue(IntValue(1)), true},
		{"empty dict", DictValue(), false},
		{"callable", CallableValue("f", nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.value.Truthy())
		})
	}
}

func TestValue_ToStringAndRepr(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		toString string
		repr     string
	}{
		{"none", NoneValue(), "", "None"},
		{"true", BoolValue(true), "True", "True"},
		{"int", IntValue(42), "42", "42"},
		{"integral float", FloatValue(1), "1.0", "1.0"},
		{"fractional float", FloatValue(0.5), "0.5", "0.5"},
		{"string", StringValue("a"), "a", "'a'"},
		{"string with quote", StringValue("it's"), "it's", `"it's"`},
		{"string with newline", StringValue("a\nb"), "a\nb", `'a\nb'`},
		{
			"nested containers",
			ArrayValue(IntValue(1), NoneValue(), StringValue("x")),
			"[1, None, 'x']",
			"[1, None, 'x']",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.toString, tt.value.ToString())
			assert.Equal(t, tt.repr, tt.value.Repr())
		})
	}
}

func TestValue_DictRepr(t *testing.T) {
	d := DictValue()
	d.Dict().SetString("a", IntValue(1))
	d.Dict().SetString("b", StringValue("x"))
	assert.Equal(t, "{'a': 1, 'b': 'x'}", d.Repr())
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Value
		expected bool
	}{
		{"int float", IntValue(1), FloatValue(1.0), true},
		{"bool int", BoolValue(true), IntValue(1), true},
		{"bool int mismatch", BoolValue(false), IntValue(1), false},
		{"string", StringValue("a"), StringValue("a"), true},
		{"string int", StringValue("1"), IntValue(1), false},
		{"none none", NoneValue(), NoneValue(), true},
		{"none int", NoneValue(), IntValue(0), false},
		{"arrays", ArrayValue(IntValue(1)), ArrayValue(FloatValue(1)), true},
		{"array length", ArrayValue(IntValue(1)), ArrayValue(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
		})
	}
}

func TestValue_Less(t *testing.T) {
	less, err := IntValue(1).Less(FloatValue(1.5))
	require.NoError(t, err)
	assert.True(t, less)

	less, err = StringValue("a").Less(StringValue("b"))
	require.NoError(t, err)
	assert.True(t, less)

	_, err = IntValue(1).Less(StringValue("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNotComparable)
}

func TestDict_NumericKeyIdentity(t *testing.T) {
	d := NewDict()
	require.NoError(t, d.Set(IntValue(1), StringValue("a")))
	require.NoError(t, d.Set(FloatValue(1.0), StringValue("b")))
	require.NoError(t, d.Set(BoolValue(true), StringValue("c")))

	assert.Equal(t, 1, d.Len())
	v, ok := d.Get(IntValue(1))
	require.True(t, ok)
	assert.Equal(t, "c", v.Str())
}

func TestDict_InsertionOrderAndDelete(t *testing.T) {
	d := NewDict()
	d.SetString("z", IntValue(1))
	d.SetString("a", IntValue(2))
	d.SetString("m", IntValue(3))
	// Replacing keeps the original position.
	d.SetString("z", IntValue(9))

	keys := d.Keys()
	require.Len(t, keys, 3)
	assert.Equal(t, "z", keys[0].Str())
	assert.Equal(t, "a", keys[1].Str())
	assert.Equal(t, "m", keys[2].Str())

	require.True(t, d.Delete(StringValue("a")))
	v, ok := d.GetString("m")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.Int())
	assert.False(t, d.Delete(StringValue("a")))
}

func TestDict_UnhashableKey(t *testing.T) {
	d := NewDict()
	err := d.Set(ArrayValue(), IntValue(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNotHashable)
}

func TestArith_Operations(t *testing.T) {
	check := func(t *testing.T, v Value, err error, expected string) {
		t.Helper()
		require.NoError(t, err)
		assert.Equal(t, expected, v.Repr())
	}

	t.Run("int add", func(t *testing.T) {
		v, err := ArithAdd(IntValue(2), IntValue(3))
		check(t, v, err, "5")
	})
	t.Run("bool promotes", func(t *testing.T) {
		v, err := ArithAdd(BoolValue(true), IntValue(1))
		check(t, v, err, "2")
	})
	t.Run("string concat", func(t *testing.T) {
		v, err := ArithAdd(StringValue("a"), StringValue("b"))
		check(t, v, err, "'ab'")
	})
	t.Run("list concat", func(t *testing.T) {
		v, err := ArithAdd(ArrayValue(IntValue(1)), ArrayValue(IntValue(2)))
		check(t, v, err, "[1, 2]")
	})
	t.Run("string repeat", func(t *testing.T) {
		v, err := ArithMul(StringValue("ab"), IntValue(3))
		check(t, v, err, "'ababab'")
	})
	t.Run("true division is float", func(t *testing.T) {
		v, err := ArithDiv(IntValue(7), IntValue(2))
		check(t, v, err, "3.5")
	})
	t.Run("division by zero", func(t *testing.T) {
		_, err := ArithDiv(IntValue(1), IntValue(0))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "division by zero")
	})
	t.Run("floor division rounds down", func(t *testing.T) {
		v, err := ArithFloorDiv(IntValue(-7), IntValue(2))
		check(t, v, err, "-4")
	})
	t.Run("modulo takes divisor sign", func(t *testing.T) {
		v, err := ArithMod(IntValue(-7), IntValue(3))
		check(t, v, err, "2")
		v, err = ArithMod(IntValue(7), IntValue(-3))
		check(t, v, err, "-2")
	})
	t.Run("negation", func(t *testing.T) {
		v, err := ArithNeg(IntValue(5))
		check(t, v, err, "-5")
	})
	t.Run("type mismatch", func(t *testing.T) {
		_, err := ArithAdd(StringValue("a"), IntValue(1))
		require.Error(t, err)
	})
}

func TestConcat_Stringifies(t *testing.T) {
	v := Concat(IntValue(1), StringValue("a"))
	assert.Equal(t, "1a", v.Str())

	v = Concat(NoneValue(), StringValue("x"))
	assert.Equal(t, "x", v.Str())
}

func TestContains(t *testing.T) {
	found, err := Contains(StringValue("a"), ArrayValue(StringValue("a")))
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Contains(StringValue("d"), StringValue("abc"))
	require.NoError(t, err)
	assert.False(t, found)

	d := DictValue()
	d.Dict().SetString("k", IntValue(1))
	found, err = Contains(StringValue("k"), d)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLength_CountsRunes(t *testing.T) {
	n, err := Length(StringValue("héé"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = Length(ArrayValue(IntValue(1), IntValue(2)))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = Length(IntValue(1))
	require.Error(t, err)
}

func TestIndex_Values(t *testing.T) {
	arr := ArrayValue(IntValue(10), IntValue(20), IntValue(30))

	v, err := Index(arr, IntValue(-1))
	require.NoError(t, err)
	assert.Equal(t, int64(30), v.Int())

	_, err = Index(arr, IntValue(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgIndexRange)

	d := DictValue()
	d.Dict().SetString("a", IntValue(1))
	v, err = Index(d, StringValue("missing"))
	require.NoError(t, err)
	assert.True(t, v.IsNone())
}

func TestSliceValue_Extended(t *testing.T) {
	arr := ArrayValue(IntValue(0), IntValue(1), IntValue(2), IntValue(3))

	tests := []struct {
		name     string
		start    *int
		stop     *int
		step     int
		expected string
	}{
		{"reverse", nil, nil, -1, "[3, 2, 1, 0]"},
		{"step two", nil, nil, 2, "[0, 2]"},
		{"negative step two", nil, nil, -2, "[3, 1]"},
		{"bounded reverse", intPtr(2), intPtr(0), -1, "[2, 1]"},
		{"clamped bounds", intPtr(-100), intPtr(100), 1, "[0, 1, 2, 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := SliceValue(arr, tt.start, tt.stop, tt.step)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.Repr())
		})
	}

	t.Run("string slice", func(t *testing.T) {
		v, err := SliceValue(StringValue("0123"), nil, nil, -1)
		require.NoError(t, err)
		assert.Equal(t, "3210", v.Str())
	})

	t.Run("zero step", func(t *testing.T) {
		_, err := SliceValue(arr, nil, nil, 0)
		require.Error(t, err)
	})
}

func intPtr(i int) *int { return &i }

func TestIterate_Kinds(t *testing.T) {
	items, err := Iterate(StringValue("ab"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Str())

	d := DictValue()
	d.Dict().SetString("x", IntValue(1))
	d.Dict().SetString("y", IntValue(2))
	items, err = Iterate(d)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "x", items[0].Str())

	_, err = Iterate(IntValue(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not iterable")
}

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpJSON_Compact(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		expected string
	}{
		{"null", NoneValue(), "null"},
		{"bool", BoolValue(true), "true"},
		{"int", IntValue(3), "3"},
		{"integral float keeps point", FloatValue(2), "2.0"},
		{"float", FloatValue(1.2), "1.2"},
		{"string", StringValue("a\"b"), `"a\"b"`},
		{"empty array", ArrayValue(), "[]"},
		{"array separators", ArrayValue(IntValue(1), IntValue(2)), "[1, 2]"},
		{"empty dict", DictValue(), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DumpJSON(tt.value, -1, false)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestDumpJSON_DictKeyCoercion(t *testing.T) {
	d := DictValue()
	require.NoError(t, d.Dict().Set(IntValue(1), StringValue("b")))
	require.NoError(t, d.Dict().Set(StringValue("x"), IntValue(2)))

	s, err := DumpJSON(d, -1, false)
	require.NoError(t, err)
	assert.Equal(t, `{"1": "b", "x": 2}`, s)
}

func TestDumpJSON_Indent(t *testing.T) {
	d := DictValue()
	d.Dict().SetString("a", ArrayValue(IntValue(1), IntValue(2)))

	s, err := DumpJSON(d, 2, false)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", s)
}

func TestDumpJSON_EnsureASCII(t *testing.T) {
	s, err := DumpJSON(StringValue("é"), -1, true)
	require.NoError(t, err)
	assert.Equal(t, `"\u00e9"`, s)

	// Astral code points become surrogate pairs.
	s, err = DumpJSON(StringValue("😀"), -1, true)
	require.NoError(t, err)
	assert.Equal(t, `"\ud83d\ude00"`, s)

	s, err = DumpJSON(StringValue("é"), -1, false)
	require.NoError(t, err)
	assert.Equal(t, `"é"`, s)
}

func TestDumpJSON_Unserializable(t *testing.T) {
	_, err := DumpJSON(CallableValue("f", nil), -1, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNotSerializable)
}

func TestParseJSON_Values(t *testing.T) {
	v, err := ParseJSON([]byte(`{"b": 1, "a": [true, null, 1.5, "x"]}`))
	require.NoError(t, err)

	// Key order survives the round trip.
	s, err := DumpJSON(v, -1, false)
	require.NoError(t, err)
	assert.Equal(t, `{"b": 1, "a": [true, null, 1.5, "x"]}`, s)

	b, ok := v.Dict().GetString("b")
	require.True(t, ok)
	assert.Equal(t, KindInt, b.Kind())

	arr, _ := v.Dict().GetString("a")
	assert.Equal(t, KindFloat, arr.Arr().Items[2].Kind())
}

func TestParseJSON_ExponentIsFloat(t *testing.T) {
	v, err := ParseJSON([]byte("1e2"))
	require.NoError(t, err)
	assert.Equal(t, KindFloat, v.Kind())
	assert.Equal(t, "100.0", v.Repr())
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := ParseJSON([]byte("{"))
	require.Error(t, err)

	_, err = ParseJSON([]byte("1 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing data")
}

package minja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromJSON_PreservesKeyOrder(t *testing.T) {
	v, err := FromJSON([]byte(`{"zebra": 1, "apple": 2, "mango": 3}`))
	require.NoError(t, err)

	out, err := ToJSON(v, -1)
	require.NoError(t, err)
	assert.Equal(t, `{"zebra": 1, "apple": 2, "mango": 3}`, out)
}

func TestFromJSON_NumberTypes(t *testing.T) {
	ctx := NewContext(None())
	v, err := FromJSON([]byte(`{"i": 7, "f": 7.5, "e": 1e3}`))
	require.NoError(t, err)
	ctx = NewContext(v)

	tmpl, err := Parse("{{ i }} {{ f }} {{ e }}", Options{})
	require.NoError(t, err)
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "7 7.5 1000.0", out)
}

func TestFromJSON_Invalid(t *testing.T) {
	_, err := FromJSON([]byte(`{"a":`))
	require.Error(t, err)
}

func TestToJSON_Indent(t *testing.T) {
	v, err := FromJSON([]byte(`{"a": [1, 2]}`))
	require.NoError(t, err)

	out, err := ToJSON(v, 2)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": [\n    1,\n    2\n  ]\n}", out)
}

func TestFromYAML_Document(t *testing.T) {
	v, err := FromYAML([]byte(`
zebra: 1
apple: hi
flag: true
ratio: 0.5
nothing: null
list:
  - a
  - b
`))
	require.NoError(t, err)

	ctx := NewContext(v)
	tmpl, err := Parse("{% for k in d %}{{ k }},{% endfor %}", Options{})
	require.NoError(t, err)
	ctx.Set("d", v)
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "zebra,apple,flag,ratio,nothing,list,", out)

	tmpl, err = Parse("{{ zebra }}|{{ apple }}|{{ flag }}|{{ ratio }}|{{ nothing }}|{{ list | join('-') }}", Options{})
	require.NoError(t, err)
	out, err = tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1|hi|True|0.5||a-b", out)
}

func TestFromYAML_Empty(t *testing.T) {
	v, err := FromYAML([]byte(""))
	require.NoError(t, err)
	assert.True(t, v.IsNone())
}

func TestFromGo_Conversions(t *testing.T) {
	v, err := FromGo(map[string]any{
		"name":  "mixtral",
		"count": 3,
		"ratio": 0.25,
		"tags":  []string{"a", "b"},
		"inner": map[string]any{"x": nil},
	})
	require.NoError(t, err)

	out, err := ToJSON(v, -1)
	require.NoError(t, err)
	// Map keys come out sorted.
	assert.Equal(t, `{"count": 3, "inner": {"x": null}, "name": "mixtral", "ratio": 0.25, "tags": ["a", "b"]}`, out)
}

func TestFromGo_Unsupported(t *testing.T) {
	_, err := FromGo(struct{}{})
	require.Error(t, err)
}

func TestFunc_HostFunction(t *testing.T) {
	ctx := NewContext(None())
	ctx.Set("double", Func("double", func(args []Value) (Value, error) {
		return Int(args[0].Int() * 2), nil
	}))

	tmpl, err := Parse("{{ double(21) }}", Options{})
	require.NoError(t, err)
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", out)
}

func TestContext_BindingsAndShadowing(t *testing.T) {
	v, err := FromJSON([]byte(`{"name": "a"}`))
	require.NoError(t, err)
	ctx := NewContext(v)

	got, ok := ctx.Get("name")
	require.True(t, ok)
	assert.Equal(t, "a", got.ToString())

	// Bindings may shadow builtin globals.
	ctx.Set("range", String("shadowed"))
	tmpl, err := Parse("{{ range }}", Options{})
	require.NoError(t, err)
	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shadowed", out)
}

func TestTemplate_Render_DoesNotMutateContext(t *testing.T) {
	ctx := NewContext(None())
	tmpl, err := Parse("{% set leak = 1 %}{{ leak }}", Options{})
	require.NoError(t, err)

	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	_, ok := ctx.Get("leak")
	assert.False(t, ok)
}

func TestTemplate_Source(t *testing.T) {
	source := "hello {{ name }}"
	tmpl, err := Parse(source, Options{})
	require.NoError(t, err)
	assert.Equal(t, source, tmpl.Source())
}

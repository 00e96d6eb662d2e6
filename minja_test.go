package minja

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	defaultOpts    = Options{}
	lstripOpts     = Options{LstripBlocks: true}
	trimOpts       = Options{TrimBlocks: true}
	lstripTrimOpts = Options{TrimBlocks: true, LstripBlocks: true}
)

// renderString parses and renders a template, optionally seeding the
// context from a JSON bindings document.
func renderString(t *testing.T, source, bindings string, opts Options) string {
	t.Helper()

	ctx := NewContext(None())
	if bindings != "" {
		v, err := FromJSON([]byte(bindings))
		require.NoError(t, err)
		ctx = NewContext(v)
	}

	tmpl, err := Parse(source, opts)
	require.NoError(t, err)

	out, err := tmpl.Render(ctx)
	require.NoError(t, err)
	return out
}

func TestTemplate_Render_StringMethods(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"strip", "{{ ' a '.strip() }}", "a"},
		{"lstrip", "{{ ' a '.lstrip() }}", "a "},
		{"rstrip", "{{ ' a '.rstrip() }}", " a"},
		{"strip cutset", "{{ 'abcXYZabc'.strip('ac') }}", "bcXYZab"},
		{"split", "{{ 'a b'.split(' ') | tojson }}", `["a", "b"]`},
		{"capitalize", "{{ 'ok'.capitalize() }}", "Ok"},
		{"replace", "{{ 'abcXYZabcXYZabc'.replace('bc', 'oui') }}", "aouiXYZaouiXYZaoui"},
		{"replace count", "{{ 'abcXYZabcXYZabc'.replace('abc', 'ok', 2) }}", "okXYZokXYZabc"},
		{"replace no match", "{{ 'abcXYZabcXYZabc'.replace('def', 'ok') }}", "abcXYZabcXYZabc"},
		{"upper", "{{ 'hello world'.upper() }}", "HELLO WORLD"},
		{"upper mixed", "{{ 'MiXeD'.upper() }}", "MIXED"},
		{"upper empty", "{{ ''.upper() }}", ""},
		{"lower", "{{ 'HELLO WORLD'.lower() }}", "hello world"},
		{"lower mixed", "{{ 'MiXeD'.lower() }}", "mixed"},
		{"lower empty", "{{ ''.lower() }}", ""},
		{"title", "{{ 'foo bar'.title() }}", "Foo Bar"},
		{"startswith", "{{ 'abc'.startswith('ab') }},{{ ''.startswith('a') }}", "True,False"},
		{"endswith", "{{ 'abc'.endswith('bc') }},{{ ''.endswith('a') }}", "True,False"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, "", defaultOpts))
		})
	}
}

func TestTemplate_Render_Comments(t *testing.T) {
	out := renderString(t, "{# Hey\nHo #}{#- Multiline...\nComments! -#}{{ 'ok' }}{# yo #}", "", defaultOpts)
	assert.Equal(t, "ok", out)
}

func TestTemplate_Render_WhitespaceControl(t *testing.T) {
	tests := []struct {
		name     string
		template string
		opts     Options
		expected string
	}{
		{"two tags between spaces", "  {% set _ = 1 %}    {% set _ = 2 %}b", lstripTrimOpts, "    b"},
		{"trimmed if around spaces", "{%- if True %}        {% set _ = x %}{%- endif %}{{ 1 }}", lstripTrimOpts, "        1"},

		{"if on own lines lstrip", "    {% if True %}\n    {% endif %}", lstripOpts, "\n"},
		{"if on own lines lstrip trim", "    {% if True %}\n    {% endif %}", lstripTrimOpts, ""},
		{"if on own lines trim", "    {% if True %}\n    {% endif %}", trimOpts, "        "},

		{"single line default", "  {% set _ = 1 %}    ", defaultOpts, "      "},
		{"single line lstrip", "  {% set _ = 1 %}    ", lstripOpts, "    "},
		{"single line trim", "  {% set _ = 1 %}    ", trimOpts, "      "},
		{"single line lstrip trim", "  {% set _ = 1 %}    ", lstripTrimOpts, "    "},

		{"multiline default", "  \n    {% set _ = 1 %}        \n                ", defaultOpts, "  \n            \n                "},
		{"multiline lstrip", "  \n    {% set _ = 1 %}        \n                ", lstripOpts, "  \n        \n                "},
		{"multiline trim", "  \n    {% set _ = 1 %}        \n                ", trimOpts, "  \n            \n                "},
		{"multiline lstrip trim", "  \n    {% set _ = 1 %}        \n                ", lstripTrimOpts, "  \n        \n                "},

		{"newline after tag default", "{% set _ = 1 %}\n  ", defaultOpts, "\n  "},
		{"newline after tag lstrip", "{% set _ = 1 %}\n  ", lstripOpts, "\n  "},
		{"newline after tag trim", "{% set _ = 1 %}\n  ", trimOpts, "  "},
		{"newline after tag lstrip trim", "{% set _ = 1 %}\n  ", lstripTrimOpts, "  "},

		{"trailing newline dropped", "a\nb\n", defaultOpts, "a\nb"},
		{"output trim left keeps value", "  {{- ' a\n'}}", trimOpts, " a\n"},
		{"output markers", "  {{- 'a' -}}{{ '  ' }}{{- 'b' -}}  ", defaultOpts, "a  b"},
		{"marker after output", " a {{  'b' -}} c ", defaultOpts, " a bc "},
		{"marker before output", " a {{- 'b'  }} c ", defaultOpts, " ab c "},
		{"marker strips newline before", "a\n{{- 'b'  }}\nc", defaultOpts, "ab\nc"},
		{"marker strips newline after", "a\n{{  'b' -}}\nc", defaultOpts, "a\nbc"},
		{"markers inside text", ` {{ "a" -}} b {{- "c" }} `, defaultOpts, " abc "},
		{"output spaces survive markers", "    {%- if True %}{%- endif %}{{ '        ' }}{%- for x in [] %}foo{% endfor %}end", defaultOpts, "        end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, "", tt.opts))
		})
	}
}

func TestTemplate_Render_WhitespaceControl_TrimTemplate(t *testing.T) {
	source := "\n  {% if true %}Hello{% endif %}  \n...\n\n"

	tests := []struct {
		name     string
		opts     Options
		expected string
	}{
		{"default", defaultOpts, "\n  Hello  \n...\n"},
		{"trim blocks", trimOpts, "\n  Hello  \n...\n"},
		{"lstrip blocks", lstripOpts, "\nHello  \n...\n"},
		{"lstrip trim blocks", lstripTrimOpts, "\nHello  \n...\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, source, "", tt.opts))
		})
	}
}

func TestTemplate_Render_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		template string
		bindings string
		expected string
	}{
		{"unpacked range", "{{ range(*[2,4]) | list }}", "", "[2, 3]"},
		{"list concat", "{{ [1] + [2, 3] }}", "", "[1, 2, 3]"},
		{"filter binds before plus", "{{ 'a' + [] | length | string + 'b' }}", "", "a0b"},
		{"join then concat", "{{ [1, 2, 3] | join(', ') + '...' }}", "", "1, 2, 3..."},
		{"reject pipeline", "{{ 'Tools: ' + [1, 2, 3] | reject('equalto', 2) | join(', ') + '...' }}", "", "Tools: 1, 3..."},
		{"select pipeline", "{{ 'Tools: ' + [1, 2, 3] | select('equalto', 2) | join(', ') + '...' }}", "", "Tools: 2..."},
		{"length mod", "{{ range(5) | length % 2 }}", "", "1"},
		{"length comparisons", "{{ range(5) | length % 2 == 1 }},{{ [] | length > 0 }}", "", "True,False"},
		{"string repeat", "{{ 'ab' * 3 }}", "", "ababab"},
		{"negative index", "{{ [1, 2, 3][-1] }}", "", "3"},
		{"not empty list", "{{ not [] }}", "", "True"},
		{"string slice", `{{ "abcd"[1:-1] }}`, "", "bc"},
		{"list slice", "{{ [0, 1, 2, 3][1:-1] }}", "", "[1, 2]"},
		{"string length", `{{ "123456789" | length }}`, "", "9"},
		{"in dict", `{{ 'a' in {"a": 1} }},{{ 'a' in {} }}`, "", "True,False"},
		{"in list", `{{ 'a' in ["a"] }},{{ 'a' in [] }}`, "", "True,False"},
		{"in string", "{{ 'a' in 'abc' }},{{ 'd' in 'abc' }}", "", "True,False"},
		{"not in string", "{{ 'a' not in 'abc' }},{{ 'd' not in 'abc' }}", "", "False,True"},
		{"select in", "{{ ['a', 'b', 'c', 'a'] | select('in', ['a']) | list }}", "", "['a', 'a']"},
		{"parenthesized attr chain", "{{ (a.b.c) }}", `{"a": {"b": {"c": 3}}}`, "3"},
		{"nested attr compare", "{{ tool.function.name == 'ipython' }}", `{"tool": {"function": {"name": "ipython"}}}`, "True"},
		{"subscript chain compare", "{{ messages[0]['role'] != 'system' }}", `{"messages": [{"role": "system"}]}`, "False"},
		{"concat builds greeting", "{%- set user = \"Olivier\" -%}\n{%- set greeting = \"Hello \" ~ user -%}\n{{- greeting -}}", "", "Hello Olivier"},
		{"ternary with else", "{{ 'a' if true else 'b' }}", "", "a"},
		{"ternary without else", "{{ 'a' if false }}", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, tt.bindings, defaultOpts))
		})
	}
}

func TestTemplate_Render_IntConversions(t *testing.T) {
	out := renderString(t,
		"{% for i in [true, false, 10, -10, 10.1, -10.1, None, 'a', '2', {}, [1]] %}{{ i | int }}, {% endfor %}",
		"", defaultOpts)
	assert.Equal(t, "1, 0, 10, -10, 10, -10, 0, 0, 2, 0, 0, ", out)
}

func TestTemplate_Render_Slicing(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{
			"list slices",
			"{% set x = [0, 1, 2, 3] %}{{ x[1:] }}{{ x[:2] }}{{ x[1:3] }}",
			"[1, 2, 3][0, 1][1, 2]",
		},
		{
			"string slices",
			"{% set x = '0123' %}{{ x[1:] }};{{ x[:2] }};{{ x[1:3] }};{{ x[:] }};{{ x[::] }}",
			"123;01;12;0123;0123",
		},
		{
			"list slices with step",
			"{% set x = [0, 1, 2, 3] %}{{ x[::-1] }}{{ x[:0:-1] }}{{ x[2::-1] }}{{ x[2:0:-1] }}{{ x[::2] }}{{ x[::-2] }}{{ x[-2::-2] }}",
			"[3, 2, 1, 0][3, 2, 1][2, 1, 0][2, 1][0, 2][3, 1][2, 0]",
		},
		{
			"string slices with step",
			"{% set x = '0123' %}{{ x[::-1] }};{{ x[:0:-1] }};{{ x[2::-1] }};{{ x[2:0:-1] }};{{ x[::2] }};{{ x[::-2] }};{{ x[-2::-2] }}",
			"3210;321;210;21;02;31;20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, "", defaultOpts))
		})
	}
}

func TestTemplate_Render_Filters(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"default", "{{ foo | default('the default') }}{{ 1 | default('nope') }}", "the default1"},
		{"default boolean", "{{ '' | default('the default', true) }}{{ 1 | default('nope', true) }}", "the default1"},
		{"filter block", "{% filter trim %} abc {% endfilter %}", "abc"},
		{"lower", "{{ 'AbC' | lower }}", "abc"},
		{"upper", "{{ 'me' | upper }}", "ME"},
		{"indent", "{% set txt = 'a\\nb\\n' %}{{ txt | indent(2) }}|{{ txt | indent(2, first=true) }}", "a\n  b\n|  a\n  b\n"},
		{"unique", "{{ [1, False, 2, '3', 1, '3', False] | unique | list }}", "[1, False, 2, '3']"},
		{"dictsort", "{{ {1: 2, 3: 4, 5: 7} | dictsort | tojson }}", "[[1, 2], [3, 4], [5, 7]]"},
		{"items", "{{ {1: 2} | items | list | tojson }}", "[[1, 2]]"},
		{"items method mapped", `{{ {1: 2}.items() | map("list") | list }}`, "[[1, 2]]"},
		{"map attribute", `{{ [{"a": 1}, {"a": 2}] | map(attribute="a") | list }}`, "[1, 2]"},
		{"map filter name", `{{ ["", "a"] | map("length") | list }}`, "[0, 1]"},
		{"selectattr", `{{ [{"a": 1}, {"a": 2}, {}] | selectattr("a", "equalto", 1) | list }}`, "[{'a': 1}]"},
		{"rejectattr", `{{ [{"a": 1}, {"a": 2}, {}] | rejectattr("a", "equalto", 1) | list }}`, "[{'a': 2}, {}]"},
		{"selectattr on none", `{{ none | selectattr("foo", "equalto", "bar") | list }}`, "[]"},
		{"last of range", "{{ range(3) | last }}", "2"},
		{"trim", "{{ ' a  ' | trim }}", "a"},
		{"trim none", "{{ None | trim }}", ""},
		{"safe", "{{ 1 | safe }}", "1"},
		{"range forms", "{{ range(3) | list }}{{ range(4, 7) | list }}{{ range(0, 10, 2) | list }}", "[0, 1, 2][4, 5, 6][0, 2, 4, 6, 8]"},
		{"tojson dict", `{{ {"a": "b"} | tojson }}`, `{"a": "b"}`},
		{"dict repr", `{{ {"a": "b"} }}`, "{'a': 'b'}"},
		{"tojson indent kwarg", "{% set x = [] %}{% set _ = x.append(1) %}{{ x | tojson(indent=2) }}", "[\n  1\n]"},
		{"tojson ensure ascii", "{{ \"é\" | tojson(ensure_ascii=True) }}", "\"\\u00e9\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, "", defaultOpts))
		})
	}
}

func TestTemplate_Render_ToJSONTypes(t *testing.T) {
	out := renderString(t, `
            {%- for x in [1, 1.2, "a", true, True, false, False, None, [], [1], [1, 2], {}, {"a": 1}, {1: "b"}] -%}
                {{- x | tojson -}},
            {%- endfor -%}
        `, "", defaultOpts)
	assert.Equal(t, `1,1.2,"a",true,true,false,false,null,[],[1],[1, 2],{},{"a": 1},{"1": "b"},`, out)
}

func TestTemplate_Render_EscapeFilter(t *testing.T) {
	out := renderString(t, `
            {%- set res = [] -%}
            {%- for c in ["<", ">", "&", '"'] -%}
                {%- set _ = res.append(c | e) -%}
            {%- endfor -%}
            {{- res | join(", ") -}}
        `, "", defaultOpts)
	assert.Equal(t, "&lt;, &gt;, &amp;, &#34;", out)
}

func TestTemplate_Render_Tests(t *testing.T) {
	tests := []struct {
		name     string
		template string
		expected string
	}{
		{"is mapping", `{{ {} is mapping }},{{ '' is mapping }}`, "True,False"},
		{"is iterable", `{{ {} is iterable }},{{ '' is iterable }}`, "True,True"},
		{"list is iterable", "{{ [] is iterable }}", "True"},
		{"list is not number", "{{ [] is not number }}", "True"},
		{"is defined", "{% set foo = true %}{{ foo is defined }}", "True"},
		{"not is defined", "{% set foo = true %}{{ not foo is defined }}", "False"},
		{"is true", "{% set foo = true %}{{ foo is true }}", "True"},
		{"is false", "{% set foo = true %}{{ foo is false }}", "False"},
		{"is not true", "{% set foo = false %}{{ foo is not true }}", "True"},
		{"is not false", "{% set foo = false %}{{ foo is not false }}", "False"},
		{"is not string", "{{ 1 is not string }}", "True"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, "", defaultOpts))
		})
	}
}

func TestTemplate_Render_Loops(t *testing.T) {
	tests := []struct {
		name     string
		template string
		bindings string
		expected string
	}{
		{"over list", `{% for x in ["a", "b"] %}{{ x }},{% endfor %}`, "", "a,b,"},
		{"over dict keys", `{% for x in {"a": 1, "b": 2} %}{{ x }},{% endfor %}`, "", "a,b,"},
		{"over string", `{% for x in "ab" %}{{ x }},{% endfor %}`, "", "a,b,"},
		{"over range", "{% for i in range(3) %}{{i}},{% endfor %}", "", "0,1,2,"},
		{"else arm", "{%- for i in range(0) -%}NAH{% else %}OK{% endfor %}", "", "OK"},
		{"tuple targets", "\n            {%- for x, y in [(\"a\", \"b\"), (\"c\", \"d\")] -%}\n                {{- x }},{{ y -}};\n            {%- endfor -%}\n        ", "", "a,b;c,d;"},
		{"tuple targets from bindings", "\n        {%- for x, y in z -%}\n            {{- x }},{{ y -}};\n        {%- endfor -%}\n    ", `{"z": [[1, 10], [2, 20]]}`, "1,10;2,20;"},
		{"break", "{% for i in range(10) %}{{ i }},{% if i == 2 %}{% break %}{% endif %}{% endfor %}", "", "0,1,2,"},
		{"continue", "{% for i in range(10) %}{% if i % 2 %}{% continue %}{% endif %}{{ i }},{% endfor %}", "", "0,2,4,6,8,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, tt.bindings, defaultOpts))
		})
	}
}

func TestTemplate_Render_LoopObject(t *testing.T) {
	t.Run("first and last", func(t *testing.T) {
		out := renderString(t, `
            {%- for x in range(3) -%}
                {%- if loop.first -%}
                    but first, mojitos!
                {%- endif -%}
                {{ loop.index }}{{ "," if not loop.last -}}
            {%- endfor -%}
        `, "", defaultOpts)
		assert.Equal(t, "but first, mojitos!1,2,3", out)
	})

	t.Run("cycle", func(t *testing.T) {
		out := renderString(t, `
            {%- for i in range(5) -%}
                ({{ i }}, {{ loop.cycle('odd', 'even') }}),
            {%- endfor -%}
        `, "", defaultOpts)
		assert.Equal(t, "(0, odd),(1, even),(2, odd),(3, even),(4, odd),", out)
	})

	t.Run("metadata over filtered loop", func(t *testing.T) {
		out := renderString(t,
			"{%- for i in range(5) if i % 2 == 0 -%}\n"+
				"{{ i }}, first={{ loop.first }}, last={{ loop.last }}, index={{ loop.index }}, index0={{ loop.index0 }}, revindex={{ loop.revindex }}, revindex0={{ loop.revindex0 }}, prev={{ loop.previtem }}, next={{ loop.nextitem }},\n"+
				"{% endfor -%}",
			"", defaultOpts)
		assert.Equal(t,
			"0, first=True, last=False, index=1, index0=0, revindex=3, revindex0=2, prev=, next=2,\n"+
				"2, first=False, last=False, index=2, index0=1, revindex=2, revindex0=1, prev=0, next=4,\n"+
				"4, first=False, last=True, index=3, index0=2, revindex=1, revindex0=0, prev=2, next=,\n",
			out)
	})
}

func TestTemplate_Render_SetStatements(t *testing.T) {
	tests := []struct {
		name     string
		template string
		bindings string
		expected string
	}{
		{"set block concat", "{% set foo %}Hello {{ 'there' }}{% endset %}{{ 1 ~ foo ~ 2 }}", "", "1Hello there2"},
		{"set inside if leaks out", "{% if true %}{% set x = 1 %}{% endif %}{{ x }}", "", "1"},
		{
			"list pop",
			"\n            {%- set o = [0, 1, 2, 3] -%}\n            {%- set _ = o.pop() -%}\n            {{- o | tojson -}}\n            {%- set _ = o.pop(1) -%}\n            {{- o | tojson -}}\n        ",
			"",
			"[0, 1, 2][0, 2]",
		},
		{
			"dict pop",
			"\n            {%- set o = {\"x\": 1, \"y\": 2} -%}\n            {%- set _ = o.pop(\"x\") -%}\n            {{- o | tojson -}}\n        ",
			"",
			`{"y": 2}`,
		},
		{"dict get", "{{ {1: 2}.get(1) }}; {{ {}.get(1) or '' }}; {{ {}.get(1, 10) }}", "", "2; ; 10"},
		{"mutation through bindings", "{% set _ = a.b.append(c.d.e) %}{{ a.b }}", `{"a": {"b": [1, 2]}, "c": {"d": {"e": 3}}}`, "[1, 2, 3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderString(t, tt.template, tt.bindings, defaultOpts))
		})
	}
}

func TestTemplate_Render_Namespace(t *testing.T) {
	t.Run("attribute read", func(t *testing.T) {
		out := renderString(t, "{% set ns = namespace(is_first=false, nottool=false, and_or=true, delme='') %}{{ ns.is_first }}", "", defaultOpts)
		assert.Equal(t, "False", out)
	})

	t.Run("attribute assignment", func(t *testing.T) {
		out := renderString(t, "\n            {%- set n = namespace(value=1, title='') -%}\n            {{- n.value }} \"{{ n.title }}\",\n            {%- set n.value = 2 -%}\n            {%- set n.title = 'Hello' -%}\n            {{- n.value }} \"{{ n.title }}\"", "", defaultOpts)
		assert.Equal(t, "1 \"\",2 \"Hello\"", out)
	})
}

func TestTemplate_Render_Joiner(t *testing.T) {
	out := renderString(t, `{%- set separator = joiner(' | ') -%}
            {%- for item in ["a", "b", "c"] %}{{ separator() }}{{ item }}{% endfor -%}`, "", defaultOpts)
	assert.Equal(t, "a | b | c", out)
}

func TestTemplate_Render_Macros(t *testing.T) {
	t.Run("closure and keyword defaults", func(t *testing.T) {
		out := renderString(t, `
            {%- set x = 1 -%}
            {%- set y = 2 -%}
            {%- macro foo(x, z, w=10) -%}
                x={{ x }}, y={{ y }}, z={{ z }}, w={{ w -}}
            {%- endmacro -%}
            {{- foo(100, 3) -}}
        `, "", defaultOpts)
		assert.Equal(t, "x=100, y=2, z=3, w=10", out)
	})

	t.Run("keyword call", func(t *testing.T) {
		out := renderString(t, `
            {% macro input(name, value='', type='text', size=20) -%}
                <input type="{{ type }}" name="{{ name }}" value="{{ value|e }}" size="{{ size }}">
            {%- endmacro -%}

            <p>{{ input('username') }}</p>
            <p>{{ input('password', type='password') }}</p>`, "", defaultOpts)
		assert.Equal(t, `
            <p><input type="text" name="username" value="" size="20"></p>
            <p><input type="password" name="password" value="" size="20"></p>`, out)
	})

	t.Run("fresh defaults per call", func(t *testing.T) {
		out := renderString(t, `
            {%- macro foo(values=[]) -%}
                {%- set _ = values.append(1) -%}
                {{- values -}}
            {%- endmacro -%}
            {{- foo() }} {{ foo() -}}`, "", defaultOpts)
		assert.Equal(t, "[1] [1]", out)
	})

	t.Run("call block", func(t *testing.T) {
		out := renderString(t,
			"{% macro wrap() %}[{{ caller() }}]{% endmacro %}{% call wrap() %}x{% endcall %}",
			"", defaultOpts)
		assert.Equal(t, "[x]", out)
	})

	t.Run("call block with parameters", func(t *testing.T) {
		out := renderString(t,
			"{% macro each(items) %}{% for i in items %}{{ caller(i) }}{% endfor %}{% endmacro %}{% call(item) each([1, 2]) %}<{{ item }}>{% endcall %}",
			"", defaultOpts)
		assert.Equal(t, "<1><2>", out)
	})
}

func TestTemplate_Render_Generation(t *testing.T) {
	out := renderString(t, "{% generation %}Foo{% endgeneration %}", "", defaultOpts)
	assert.Equal(t, "Foo", out)
}

func TestTemplate_Render_IfChain(t *testing.T) {
	out := renderString(t, "{% if 1 %}{% elif 1 %}{% else %}{% endif %}", "", defaultOpts)
	assert.Equal(t, "", out)
}

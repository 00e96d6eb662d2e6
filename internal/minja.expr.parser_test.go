package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseExpr(t *testing.T, input string) ExprNode {
	t.Helper()
	node, err := ParseExprString(input, Position{Line: 1, Column: 1})
	require.NoError(t, err)
	return node
}

func TestExprParser_Parse_Literals(t *testing.T) {
	tests := []struct {
		input string
		repr  string
	}{
		{"42", "42"},
		{"1.5", "1.5"},
		{"1.5e2", "150.0"},
		{"'a'", "'a'"},
		{`"a\nb"`, `'a\nb'`},
		{"true", "True"},
		{"True", "True"},
		{"false", "False"},
		{"none", "None"},
		{"None", "None"},
		{"null", "None"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseExpr(t, tt.input)
			lit, ok := node.(*LiteralExpr)
			require.True(t, ok, "expected literal, got %T", node)
			assert.Equal(t, tt.repr, lit.Val.Repr())
		})
	}
}

func TestExprParser_Parse_Precedence(t *testing.T) {
	node := parseExpr(t, "1 + 2 * 3")
	add, ok := node.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Right.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)

	node = parseExpr(t, "not a and b")
	and, ok := node.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "and", and.Op)
	_, ok = and.Left.(*UnaryExpr)
	assert.True(t, ok)

	node = parseExpr(t, "a == b or c < d")
	or, ok := node.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "or", or.Op)
}

func TestExprParser_Parse_Ternary(t *testing.T) {
	node := parseExpr(t, "1 if x else 2")
	cond, ok := node.(*CondExpr)
	require.True(t, ok)
	assert.NotNil(t, cond.Else)

	node = parseExpr(t, "1 if x")
	cond, ok = node.(*CondExpr)
	require.True(t, ok)
	assert.Nil(t, cond.Else)
}

func TestExprParser_Parse_Comparisons(t *testing.T) {
	node := parseExpr(t, "a not in b")
	bin, ok := node.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "not in", bin.Op)

	node = parseExpr(t, "a in b")
	bin, ok = node.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "in", bin.Op)
}

func TestExprParser_Parse_Tests(t *testing.T) {
	node := parseExpr(t, "x is not none")
	test, ok := node.(*TestExpr)
	require.True(t, ok)
	assert.Equal(t, "none", test.Name)
	assert.True(t, test.Negated)

	node = parseExpr(t, "x is equalto(1)")
	test, ok = node.(*TestExpr)
	require.True(t, ok)
	assert.Equal(t, "equalto", test.Name)
	assert.False(t, test.Negated)
	require.Len(t, test.Args.Positional, 1)
}

func TestExprParser_Parse_Postfix(t *testing.T) {
	node := parseExpr(t, "a.b[0].c(1, k=2) | join(', ')")
	filter, ok := node.(*FilterExpr)
	require.True(t, ok)
	assert.Equal(t, "join", filter.Name)

	call, ok := filter.Base.(*MethodExpr)
	require.True(t, ok)
	assert.Equal(t, "c", call.Name)
	require.Len(t, call.Args.Positional, 1)
	require.Len(t, call.Args.Keyword, 1)
	assert.Equal(t, "k", call.Args.Keyword[0].Name)
}

func TestExprParser_Parse_Slices(t *testing.T) {
	node := parseExpr(t, "x[1:-1]")
	sl, ok := node.(*SliceExpr)
	require.True(t, ok)
	assert.NotNil(t, sl.Start)
	assert.NotNil(t, sl.Stop)
	assert.Nil(t, sl.Step)

	node = parseExpr(t, "x[::-1]")
	sl, ok = node.(*SliceExpr)
	require.True(t, ok)
	assert.Nil(t, sl.Start)
	assert.Nil(t, sl.Stop)
	assert.NotNil(t, sl.Step)

	node = parseExpr(t, "x[0]")
	_, ok = node.(*IndexExpr)
	assert.True(t, ok)
}

func TestExprParser_Parse_UnpackAndKwargs(t *testing.T) {
	node := parseExpr(t, "f(*xs, k=1)")
	call, ok := node.(*CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args.Positional, 1)
	assert.True(t, call.Args.Positional[0].Unpack)
	require.Len(t, call.Args.Keyword, 1)
	assert.Equal(t, "k", call.Args.Keyword[0].Name)
}

func TestExprParser_Parse_CollectionLiterals(t *testing.T) {
	node := parseExpr(t, "[1, 2,]")
	list, ok := node.(*ListExpr)
	require.True(t, ok)
	assert.Len(t, list.Items, 2)

	node = parseExpr(t, "(1, 2)")
	list, ok = node.(*ListExpr)
	require.True(t, ok)
	assert.Len(t, list.Items, 2)

	node = parseExpr(t, "(1)")
	_, ok = node.(*LiteralExpr)
	assert.True(t, ok)

	node = parseExpr(t, "{'a': 1, 2: 'b'}")
	dict, ok := node.(*DictExpr)
	require.True(t, ok)
	assert.Len(t, dict.Keys, 2)
}

func TestExprParser_Parse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		substr string
	}{
		{"empty", "", ErrMsgExpectedExpr},
		{"trailing garbage", "1 2", ErrMsgUnexpectedToken},
		{"reserved word", "recursive", ErrMsgReservedWord},
		{"unclosed paren", "(1", ErrMsgExpectedToken},
		{"unclosed string", "'abc", ErrMsgUnterminatedExpr},
		{"dangling operator", "1 +", ErrMsgExpectedExpr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExprString(tt.input, Position{Line: 1, Column: 1})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

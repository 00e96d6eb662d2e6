package internal

import (
	"fmt"
	"strings"
)

// ExprTokenType identifies the type of an expression token.
type ExprTokenType string

// Expression token types
const (
	ExprTokenIdentifier ExprTokenType = "IDENT"
	ExprTokenInt        ExprTokenType = "INT"
	ExprTokenFloat      ExprTokenType = "FLOAT"
	ExprTokenString     ExprTokenType = "STRING"
	ExprTokenOperator   ExprTokenType = "OP"
	ExprTokenEOF        ExprTokenType = "EOF"
)

// Expression tokenizer error message constants
const (
	ErrMsgUnexpectedChar   = "Unexpected character"
	ErrMsgUnterminatedExpr = "Unterminated string literal"
	ErrMsgBadEscape        = "Invalid escape sequence"
)

// ExprToken is a single token inside a tag expression.
type ExprToken struct {
	Type  ExprTokenType
	Value string
	Pos   Position
}

// String returns a human-readable representation of the token.
func (t ExprToken) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Value)
}

// ExprTokenizer scans the content of an output or statement tag into
// expression tokens. Positions continue from the tag's content position
// in the enclosing template source.
type ExprTokenizer struct {
	input  string
	pos    int
	line   int
	column int
	offset int
}

// NewExprTokenizer creates a tokenizer for tag content starting at base.
func NewExprTokenizer(input string, base Position) *ExprTokenizer {
	return &ExprTokenizer{
		input:  input,
		line:   base.Line,
		column: base.Column,
		offset: base.Offset,
	}
}

// Tokenize scans the whole input and returns the token stream with a
// trailing EOF token.
func (t *ExprTokenizer) Tokenize() ([]ExprToken, error) {
	var tokens []ExprToken
	for {
		token, err := t.next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
		if token.Type == ExprTokenEOF {
			return tokens, nil
		}
	}
}

// multi-byte operators, longest first so compounds win over their prefixes
var exprOperators = []string{
	"==", "!=", "<=", ">=", "//",
	"(", ")", "[", "]", "{", "}",
	",", ":", ".", "|", "~", "+", "-", "*", "/", "%", "<", ">", "=",
}

func (t *ExprTokenizer) next() (ExprToken, error) {
	t.skipWhitespace()
	if t.pos >= len(t.input) {
		return ExprToken{Type: ExprTokenEOF, Pos: t.position()}, nil
	}

	pos := t.position()
	c := t.input[t.pos]

	switch {
	case isIdentStart(c):
		start := t.pos
		for t.pos < len(t.input) && isIdentPart(t.input[t.pos]) {
			t.advance()
		}
		return ExprToken{Type: ExprTokenIdentifier, Value: t.input[start:t.pos], Pos: pos}, nil

	case c >= '0' && c <= '9':
		return t.scanNumber(pos), nil

	case c == '\'' || c == '"':
		return t.scanString(pos)
	}

	for _, op := range exprOperators {
		if strings.HasPrefix(t.input[t.pos:], op) {
			t.advanceN(len(op))
			return ExprToken{Type: ExprTokenOperator, Value: op, Pos: pos}, nil
		}
	}

	return ExprToken{}, NewLexerError(ErrMsgUnexpectedChar, pos)
}

// scanNumber consumes an integer or float literal.
func (t *ExprTokenizer) scanNumber(pos Position) ExprToken {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
		t.advance()
	}
	isFloat := false
	if t.pos+1 < len(t.input) && t.input[t.pos] == '.' && t.input[t.pos+1] >= '0' && t.input[t.pos+1] <= '9' {
		isFloat = true
		t.advance()
		for t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
			t.advance()
		}
	}
	if t.pos < len(t.input) && (t.input[t.pos] == 'e' || t.input[t.pos] == 'E') {
		mark := t.pos
		t.advance()
		if t.pos < len(t.input) && (t.input[t.pos] == '+' || t.input[t.pos] == '-') {
			t.advance()
		}
		if t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
			isFloat = true
			for t.pos < len(t.input) && t.input[t.pos] >= '0' && t.input[t.pos] <= '9' {
				t.advance()
			}
		} else {
			t.rewind(mark)
		}
	}
	typ := ExprTokenInt
	if isFloat {
		typ = ExprTokenFloat
	}
	return ExprToken{Type: typ, Value: t.input[start:t.pos], Pos: pos}
}

// scanString consumes a quoted string literal and decodes escapes.
func (t *ExprTokenizer) scanString(pos Position) (ExprToken, error) {
	quote := t.input[t.pos]
	t.advance()
	var sb strings.Builder
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == quote {
			t.advance()
			return ExprToken{Type: ExprTokenString, Value: sb.String(), Pos: pos}, nil
		}
		if c == '\\' {
			if t.pos+1 >= len(t.input) {
				return ExprToken{}, NewLexerError(ErrMsgUnterminatedExpr, pos)
			}
			t.advance()
			e := t.input[t.pos]
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '\'', '"':
				sb.WriteByte(e)
			default:
				return ExprToken{}, NewLexerError(ErrMsgBadEscape, t.position())
			}
			t.advance()
			continue
		}
		sb.WriteByte(c)
		t.advance()
	}
	return ExprToken{}, NewLexerError(ErrMsgUnterminatedExpr, pos)
}

func (t *ExprTokenizer) skipWhitespace() {
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		t.advance()
	}
}

func (t *ExprTokenizer) advance() {
	if t.pos < len(t.input) {
		if t.input[t.pos] == '\n' {
			t.line++
			t.column = 1
		} else {
			t.column++
		}
		t.pos++
		t.offset++
	}
}

func (t *ExprTokenizer) advanceN(n int) {
	for i := 0; i < n; i++ {
		t.advance()
	}
}

// rewind backs up to a byte position on the current line. Only used by the
// number scanner, which never crosses a newline.
func (t *ExprTokenizer) rewind(mark int) {
	delta := t.pos - mark
	t.pos = mark
	t.offset -= delta
	t.column -= delta
}

func (t *ExprTokenizer) position() Position {
	return Position{Offset: t.offset, Line: t.line, Column: t.column}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

package internal

import (
	"fmt"
	"strconv"
)

// Expression parser error message constants
const (
	ErrMsgExpectedExpr    = "Expected expression"
	ErrMsgExpectedIdent   = "Expected identifier"
	ErrMsgExpectedToken   = "Expected token"
	ErrMsgUnexpectedToken = "Unexpected token"
	ErrMsgBadIntLiteral   = "Invalid integer literal"
	ErrMsgBadFloatLiteral = "Invalid float literal"
	ErrMsgReservedWord    = "Unexpected keyword"
)

// reservedWords cannot be used as variable names.
var reservedWords = map[string]bool{
	"and": true, "or": true, "not": true, "in": true, "is": true,
	"if": true, "else": true, "recursive": true,
}

// ExprParseError represents an expression parsing failure.
type ExprParseError struct {
	Message  string
	Position Position
}

// NewExprParseError creates a new expression parse error.
func NewExprParseError(message string, pos Position) *ExprParseError {
	return &ExprParseError{Message: message, Position: pos}
}

// Error implements the error interface.
func (e *ExprParseError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// ExprParser is a recursive descent parser over expression tokens. The
// statement parser drives it directly for tag contents, reading the
// statement keywords through the same cursor.
type ExprParser struct {
	tokens []ExprToken
	pos    int
}

// NewExprParser creates a parser over a token stream.
func NewExprParser(tokens []ExprToken) *ExprParser {
	return &ExprParser{tokens: tokens}
}

// ParseExprString tokenizes and parses a complete expression, requiring
// all input to be consumed.
func ParseExprString(content string, base Position) (ExprNode, error) {
	tokenizer := NewExprTokenizer(content, base)
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, err
	}
	p := NewExprParser(tokens)
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.ExpectEOF(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseExpression parses a full expression including if-expressions.
func (p *ExprParser) ParseExpression() (ExprNode, error) {
	return p.parseTernary()
}

// ParseExpressionNoIf parses an expression stopping before a trailing
// `if`, which for-statements claim as their loop filter.
func (p *ExprParser) ParseExpressionNoIf() (ExprNode, error) {
	return p.parseOr()
}

func (p *ExprParser) parseTernary() (ExprNode, error) {
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.MatchIdent("if") {
		return then, nil
	}
	pos := p.CurrentPos()
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	var els ExprNode
	if p.MatchIdent("else") {
		els, err = p.parseTernary()
		if err != nil {
			return nil, err
		}
	}
	return NewCondExpr(cond, then, els, pos), nil
}

func (p *ExprParser) parseOr() (ExprNode, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.MatchIdent("or") {
		pos := p.CurrentPos()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewBinaryExpr("or", left, right, pos)
	}
	return left, nil
}

func (p *ExprParser) parseAnd() (ExprNode, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.MatchIdent("and") {
		pos := p.CurrentPos()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = NewBinaryExpr("and", left, right, pos)
	}
	return left, nil
}

func (p *ExprParser) parseNot() (ExprNode, error) {
	if p.CheckIdent("not") {
		pos := p.CurrentPos()
		p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr("not", operand, pos), nil
	}
	return p.parseComparison()
}

var comparisonOps = []string{"==", "!=", "<=", ">=", "<", ">"}

func (p *ExprParser) parseComparison() (ExprNode, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for {
		matched := false
		for _, op := range comparisonOps {
			if p.CheckOp(op) {
				pos := p.CurrentPos()
				p.advance()
				right, err := p.parseConcat()
				if err != nil {
					return nil, err
				}
				left = NewBinaryExpr(op, left, right, pos)
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		switch {
		case p.CheckIdent("not") && p.peekIdentAt(1, "in"):
			pos := p.CurrentPos()
			p.advance()
			p.advance()
			right, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			left = NewBinaryExpr("not in", left, right, pos)

		case p.CheckIdent("in"):
			pos := p.CurrentPos()
			p.advance()
			right, err := p.parseConcat()
			if err != nil {
				return nil, err
			}
			left = NewBinaryExpr("in", left, right, pos)

		case p.CheckIdent("is"):
			pos := p.CurrentPos()
			p.advance()
			negated := p.MatchIdent("not")
			name, err := p.ExpectIdent()
			if err != nil {
				return nil, err
			}
			var args ArgList
			if p.MatchOp("(") {
				args, err = p.parseArgList()
				if err != nil {
					return nil, err
				}
			}
			left = NewTestExpr(left, name, args, negated, pos)

		default:
			return left, nil
		}
	}
}

func (p *ExprParser) parseConcat() (ExprNode, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.CheckOp("~") {
		pos := p.CurrentPos()
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = NewBinaryExpr("~", left, right, pos)
	}
	return left, nil
}

func (p *ExprParser) parseAdditive() (ExprNode, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.CheckOp("+") || p.CheckOp("-") {
		op := p.current().Value
		pos := p.CurrentPos()
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = NewBinaryExpr(op, left, right, pos)
	}
	return left, nil
}

func (p *ExprParser) parseMultiplicative() (ExprNode, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.CheckOp("*") || p.CheckOp("/") || p.CheckOp("//") || p.CheckOp("%") {
		op := p.current().Value
		pos := p.CurrentPos()
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = NewBinaryExpr(op, left, right, pos)
	}
	return left, nil
}

func (p *ExprParser) parseUnary() (ExprNode, error) {
	if p.CheckOp("-") || p.CheckOp("+") {
		op := p.current().Value
		pos := p.CurrentPos()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(op, operand, pos), nil
	}
	return p.parsePostfix()
}

func (p *ExprParser) parsePostfix() (ExprNode, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		pos := p.CurrentPos()
		switch {
		case p.MatchOp("."):
			name, err := p.ExpectIdent()
			if err != nil {
				return nil, err
			}
			if p.MatchOp("(") {
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				expr = NewMethodExpr(expr, name, args, pos)
			} else {
				expr = NewAttrExpr(expr, name, pos)
			}

		case p.MatchOp("["):
			expr, err = p.parseSubscript(expr, pos)
			if err != nil {
				return nil, err
			}

		case p.MatchOp("("):
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = NewCallExpr(expr, args, pos)

		case p.MatchOp("|"):
			name, err := p.ExpectIdent()
			if err != nil {
				return nil, err
			}
			var args ArgList
			if p.MatchOp("(") {
				args, err = p.parseArgList()
				if err != nil {
					return nil, err
				}
			}
			expr = NewFilterExpr(expr, name, args, pos)

		default:
			return expr, nil
		}
	}
}

// parseSubscript parses the remainder of [...] as an index or a slice.
func (p *ExprParser) parseSubscript(base ExprNode, pos Position) (ExprNode, error) {
	var start, stop, step ExprNode
	var err error

	if !p.CheckOp(":") {
		start, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if p.MatchOp("]") {
			return NewIndexExpr(base, start, pos), nil
		}
	}
	if err := p.ExpectOp(":"); err != nil {
		return nil, err
	}
	if !p.CheckOp(":") && !p.CheckOp("]") {
		stop, err = p.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	if p.MatchOp(":") {
		if !p.CheckOp("]") {
			step, err = p.ParseExpression()
			if err != nil {
				return nil, err
			}
		}
	}
	if err := p.ExpectOp("]"); err != nil {
		return nil, err
	}
	return NewSliceExpr(base, start, stop, step, pos), nil
}

// parseArgList parses call arguments after the opening parenthesis.
func (p *ExprParser) parseArgList() (ArgList, error) {
	var args ArgList
	for !p.CheckOp(")") {
		switch {
		case p.MatchOp("*"):
			expr, err := p.ParseExpression()
			if err != nil {
				return args, err
			}
			args.Positional = append(args.Positional, Arg{Expr: expr, Unpack: true})

		case p.current().Type == ExprTokenIdentifier &&
			!reservedWords[p.current().Value] &&
			p.peekOpAt(1, "="):
			name := p.current().Value
			p.advance()
			p.advance()
			expr, err := p.ParseExpression()
			if err != nil {
				return args, err
			}
			args.Keyword = append(args.Keyword, KwArg{Name: name, Expr: expr})

		default:
			expr, err := p.ParseExpression()
			if err != nil {
				return args, err
			}
			args.Positional = append(args.Positional, Arg{Expr: expr})
		}
		if !p.MatchOp(",") {
			break
		}
	}
	if err := p.ExpectOp(")"); err != nil {
		return args, err
	}
	return args, nil
}

func (p *ExprParser) parsePrimary() (ExprNode, error) {
	tok := p.current()
	pos := tok.Pos

	switch tok.Type {
	case ExprTokenInt:
		p.advance()
		i, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, NewExprParseError(ErrMsgBadIntLiteral, pos)
		}
		return NewLiteralExpr(IntValue(i), pos), nil

	case ExprTokenFloat:
		p.advance()
		f, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, NewExprParseError(ErrMsgBadFloatLiteral, pos)
		}
		return NewLiteralExpr(FloatValue(f), pos), nil

	case ExprTokenString:
		p.advance()
		return NewLiteralExpr(StringValue(tok.Value), pos), nil

	case ExprTokenIdentifier:
		switch tok.Value {
		case "true", "True":
			p.advance()
			return NewLiteralExpr(BoolValue(true), pos), nil
		case "false", "False":
			p.advance()
			return NewLiteralExpr(BoolValue(false), pos), nil
		case "none", "None", "null":
			p.advance()
			return NewLiteralExpr(NoneValue(), pos), nil
		}
		if reservedWords[tok.Value] {
			return nil, NewExprParseError(fmt.Sprintf("%s '%s'", ErrMsgReservedWord, tok.Value), pos)
		}
		p.advance()
		return NewVariableExpr(tok.Value, pos), nil

	case ExprTokenOperator:
		switch tok.Value {
		case "(":
			p.advance()
			return p.parseParenthesized(pos)
		case "[":
			p.advance()
			return p.parseListLiteral(pos)
		case "{":
			p.advance()
			return p.parseDictLiteral(pos)
		}
	}
	return nil, NewExprParseError(ErrMsgExpectedExpr, pos)
}

// parseParenthesized parses a grouping or tuple after the opening paren.
func (p *ExprParser) parseParenthesized(pos Position) (ExprNode, error) {
	first, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if !p.CheckOp(",") {
		if err := p.ExpectOp(")"); err != nil {
			return nil, err
		}
		return first, nil
	}
	items := []ExprNode{first}
	for p.MatchOp(",") {
		if p.CheckOp(")") {
			break
		}
		item, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := p.ExpectOp(")"); err != nil {
		return nil, err
	}
	return NewListExpr(items, pos), nil
}

// parseListLiteral parses a list literal after the opening bracket.
func (p *ExprParser) parseListLiteral(pos Position) (ExprNode, error) {
	var items []ExprNode
	for !p.CheckOp("]") {
		item, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if !p.MatchOp(",") {
			break
		}
	}
	if err := p.ExpectOp("]"); err != nil {
		return nil, err
	}
	return NewListExpr(items, pos), nil
}

// parseDictLiteral parses a dict literal after the opening brace.
func (p *ExprParser) parseDictLiteral(pos Position) (ExprNode, error) {
	var keys, values []ExprNode
	for !p.CheckOp("}") {
		key, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.ExpectOp(":"); err != nil {
			return nil, err
		}
		val, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, val)
		if !p.MatchOp(",") {
			break
		}
	}
	if err := p.ExpectOp("}"); err != nil {
		return nil, err
	}
	return NewDictExpr(keys, values, pos), nil
}

// ---- token cursor helpers, shared with the statement parser ----

func (p *ExprParser) current() ExprToken {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return ExprToken{Type: ExprTokenEOF}
}

func (p *ExprParser) peekAt(n int) ExprToken {
	if p.pos+n < len(p.tokens) {
		return p.tokens[p.pos+n]
	}
	return ExprToken{Type: ExprTokenEOF}
}

func (p *ExprParser) advance() {
	if p.pos < len(p.tokens) {
		p.pos++
	}
}

// CurrentPos returns the position of the current token.
func (p *ExprParser) CurrentPos() Position {
	return p.current().Pos
}

// AtEOF reports whether the cursor has consumed all tokens.
func (p *ExprParser) AtEOF() bool {
	return p.current().Type == ExprTokenEOF
}

// CheckOp reports whether the current token is the given operator.
func (p *ExprParser) CheckOp(op string) bool {
	tok := p.current()
	return tok.Type == ExprTokenOperator && tok.Value == op
}

func (p *ExprParser) peekOpAt(n int, op string) bool {
	tok := p.peekAt(n)
	return tok.Type == ExprTokenOperator && tok.Value == op
}

// MatchOp consumes the given operator if it is next.
func (p *ExprParser) MatchOp(op string) bool {
	if p.CheckOp(op) {
		p.advance()
		return true
	}
	return false
}

// ExpectOp consumes the given operator or fails.
func (p *ExprParser) ExpectOp(op string) error {
	if !p.MatchOp(op) {
		return NewExprParseError(fmt.Sprintf("%s '%s'", ErrMsgExpectedToken, op), p.CurrentPos())
	}
	return nil
}

// CheckIdent reports whether the current token is the given identifier.
func (p *ExprParser) CheckIdent(name string) bool {
	tok := p.current()
	return tok.Type == ExprTokenIdentifier && tok.Value == name
}

func (p *ExprParser) peekIdentAt(n int, name string) bool {
	tok := p.peekAt(n)
	return tok.Type == ExprTokenIdentifier && tok.Value == name
}

// MatchIdent consumes the given identifier if it is next.
func (p *ExprParser) MatchIdent(name string) bool {
	if p.CheckIdent(name) {
		p.advance()
		return true
	}
	return false
}

// ExpectIdent consumes and returns an identifier token value.
func (p *ExprParser) ExpectIdent() (string, error) {
	tok := p.current()
	if tok.Type != ExprTokenIdentifier {
		return "", NewExprParseError(ErrMsgExpectedIdent, tok.Pos)
	}
	p.advance()
	return tok.Value, nil
}

// ExpectEOF fails unless all tokens have been consumed.
func (p *ExprParser) ExpectEOF() error {
	if !p.AtEOF() {
		return NewExprParseError(fmt.Sprintf("%s '%s'", ErrMsgUnexpectedToken, p.current().Value), p.CurrentPos())
	}
	return nil
}

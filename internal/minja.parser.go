package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// Statement parser error message constants
const (
	ErrFmtUnexpectedKeyword = "Unexpected %s"
	ErrFmtUnterminated      = "Unterminated %s"
	ErrFmtUnknownStatement  = "Unknown statement '%s'"
	ErrMsgExpectedKeyword   = "Expected statement keyword"
	ErrMsgExpectedIn        = "Expected 'in'"
	ErrMsgExpectedCall      = "Expected call expression"
	ErrMsgReservedTarget    = "Cannot assign to reserved word"
)

// statement keywords that terminate an enclosing block body
var blockTerminators = map[string]bool{
	"else": true, "elif": true,
	"endif": true, "endfor": true, "endmacro": true, "endset": true,
	"endfilter": true, "endcall": true, "endgeneration": true,
}

// ParseError represents a statement parsing failure.
type ParseError struct {
	Message  string
	Position Position
}

// NewParseError creates a new statement parse error.
func NewParseError(message string, pos Position) *ParseError {
	return &ParseError{Message: message, Position: pos}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// terminator captures the block-ending statement that stopped a body
// parse, with its expression cursor still open so the caller can read an
// elif condition.
type terminator struct {
	keyword string
	expr    *ExprParser
	pos     Position
}

// Parser turns the lexer's token stream into a statement AST. Statement
// tag contents are tokenized into expression tokens and read through a
// shared cursor, so statement keywords and embedded expressions come from
// the same stream.
type Parser struct {
	tokens []Token
	pos    int
	logger *zap.Logger
}

// NewParser creates a parser over a template token stream.
func NewParser(tokens []Token, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{tokens: tokens, logger: logger}
}

// Parse consumes the whole token stream and returns the template root.
func (p *Parser) Parse() (*RootNode, error) {
	p.logger.Debug(LogMsgParserStart, zap.Int("tokens", len(p.tokens)))

	children, term, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if term != nil {
		return nil, NewParseError(fmt.Sprintf(ErrFmtUnexpectedKeyword, term.keyword), term.pos)
	}

	p.logger.Debug(LogMsgParserEnd, zap.Int("children", len(children)))
	return &RootNode{Children: children}, nil
}

// parseBody parses statements until a block terminator or the end of the
// stream. A nil terminator means the stream ran out.
func (p *Parser) parseBody() ([]Node, *terminator, error) {
	var children []Node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		p.pos++

		switch tok.Kind {
		case TokenText:
			children = append(children, NewTextNode(tok.Content, tok.Pos))

		case TokenOutput:
			expr, err := p.parseOutput(tok)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, expr)

		case TokenStatement:
			ep, err := p.statementCursor(tok)
			if err != nil {
				return nil, nil, err
			}
			keyword, err := ep.ExpectIdent()
			if err != nil {
				return nil, nil, NewParseError(ErrMsgExpectedKeyword, tok.ContentPos)
			}
			if blockTerminators[keyword] {
				return children, &terminator{keyword: keyword, expr: ep, pos: tok.Pos}, nil
			}
			node, err := p.parseStatement(keyword, ep, tok)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, node)
		}
	}
	return children, nil, nil
}

// parseOutput parses the content of a {{ }} tag.
func (p *Parser) parseOutput(tok Token) (Node, error) {
	ep, err := p.statementCursor(tok)
	if err != nil {
		return nil, err
	}
	if ep.AtEOF() {
		return nil, NewParseError(ErrMsgExpectedExpr, tok.ContentPos)
	}
	expr, err := ep.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := ep.ExpectEOF(); err != nil {
		return nil, err
	}
	return NewOutputNode(expr, tok.Pos), nil
}

// statementCursor tokenizes a tag's content into an expression cursor.
func (p *Parser) statementCursor(tok Token) (*ExprParser, error) {
	tokenizer := NewExprTokenizer(tok.Content, tok.ContentPos)
	tokens, err := tokenizer.Tokenize()
	if err != nil {
		return nil, err
	}
	return NewExprParser(tokens), nil
}

func (p *Parser) parseStatement(keyword string, ep *ExprParser, tok Token) (Node, error) {
	p.logger.Debug(LogMsgParseStatement, zap.String("keyword", keyword))

	switch keyword {
	case "if":
		return p.parseIf(ep, tok)
	case "for":
		return p.parseFor(ep, tok)
	case "macro":
		return p.parseMacro(ep, tok)
	case "set":
		return p.parseSet(ep, tok)
	case "filter":
		return p.parseFilterBlock(ep, tok)
	case "call":
		return p.parseCallBlock(ep, tok)
	case "generation":
		if err := ep.ExpectEOF(); err != nil {
			return nil, err
		}
		children, err := p.parseBlockBody("generation", "endgeneration", tok)
		if err != nil {
			return nil, err
		}
		return NewGenerationNode(children, tok.Pos), nil
	case "break":
		if err := ep.ExpectEOF(); err != nil {
			return nil, err
		}
		return NewBreakNode(tok.Pos), nil
	case "continue":
		if err := ep.ExpectEOF(); err != nil {
			return nil, err
		}
		return NewContinueNode(tok.Pos), nil
	}
	return nil, NewParseError(fmt.Sprintf(ErrFmtUnknownStatement, keyword), tok.Pos)
}

// parseBlockBody parses a body that must end with exactly endKeyword.
func (p *Parser) parseBlockBody(blockName, endKeyword string, opener Token) ([]Node, error) {
	children, term, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, NewParseError(fmt.Sprintf(ErrFmtUnterminated, blockName), opener.Pos)
	}
	if term.keyword != endKeyword {
		return nil, NewParseError(fmt.Sprintf(ErrFmtUnexpectedKeyword, term.keyword), term.pos)
	}
	if err := term.expr.ExpectEOF(); err != nil {
		return nil, err
	}
	return children, nil
}

func (p *Parser) parseIf(ep *ExprParser, tok Token) (Node, error) {
	cond, err := ep.ParseExpression()
	if err != nil {
		return nil, err
	}
	if err := ep.ExpectEOF(); err != nil {
		return nil, err
	}

	branches := []IfBranch{{Cond: cond, Pos: tok.Pos}}
	sawElse := false

	for {
		children, term, err := p.parseBody()
		if err != nil {
			return nil, err
		}
		if term == nil {
			return nil, NewParseError(fmt.Sprintf(ErrFmtUnterminated, "if"), tok.Pos)
		}
		branches[len(branches)-1].Children = children

		switch term.keyword {
		case "elif":
			// An elif after the else arm can never be closed.
			if sawElse {
				return nil, NewParseError(fmt.Sprintf(ErrFmtUnterminated, "if"), tok.Pos)
			}
			cond, err := term.expr.ParseExpression()
			if err != nil {
				return nil, err
			}
			if err := term.expr.ExpectEOF(); err != nil {
				return nil, err
			}
			branches = append(branches, IfBranch{Cond: cond, Pos: term.pos})

		case "else":
			if sawElse {
				return nil, NewParseError(fmt.Sprintf(ErrFmtUnterminated, "if"), tok.Pos)
			}
			if err := term.expr.ExpectEOF(); err != nil {
				return nil, err
			}
			sawElse = true
			branches = append(branches, IfBranch{Pos: term.pos})

		case "endif":
			if err := term.expr.ExpectEOF(); err != nil {
				return nil, err
			}
			return NewIfNode(branches, tok.Pos), nil

		default:
			return nil, NewParseError(fmt.Sprintf(ErrFmtUnexpectedKeyword, term.keyword), term.pos)
		}
	}
}

func (p *Parser) parseFor(ep *ExprParser, tok Token) (Node, error) {
	targets, err := p.parseTargets(ep)
	if err != nil {
		return nil, err
	}
	if !ep.MatchIdent("in") {
		return nil, NewParseError(ErrMsgExpectedIn, ep.CurrentPos())
	}
	// The iterable is parsed without if-expressions so a trailing `if`
	// becomes the loop filter.
	iterable, err := ep.ParseExpressionNoIf()
	if err != nil {
		return nil, err
	}
	var cond ExprNode
	if ep.MatchIdent("if") {
		cond, err = ep.ParseExpression()
		if err != nil {
			return nil, err
		}
	}
	recursive := ep.MatchIdent("recursive")
	if err := ep.ExpectEOF(); err != nil {
		return nil, err
	}

	children, term, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if term == nil {
		return nil, NewParseError(fmt.Sprintf(ErrFmtUnterminated, "for"), tok.Pos)
	}

	var els []Node
	if term.keyword == "else" {
		if err := term.expr.ExpectEOF(); err != nil {
			return nil, err
		}
		els, term, err = p.parseBody()
		if err != nil {
			return nil, err
		}
		if term == nil {
			return nil, NewParseError(fmt.Sprintf(ErrFmtUnterminated, "for"), tok.Pos)
		}
	}
	if term.keyword != "endfor" {
		return nil, NewParseError(fmt.Sprintf(ErrFmtUnexpectedKeyword, term.keyword), term.pos)
	}
	if err := term.expr.ExpectEOF(); err != nil {
		return nil, err
	}
	return NewForNode(targets, iterable, cond, recursive, children, els, tok.Pos), nil
}

// parseTargets parses a comma separated list of assignment targets,
// optionally parenthesized.
func (p *Parser) parseTargets(ep *ExprParser) ([]string, error) {
	parenthesized := ep.MatchOp("(")
	var targets []string
	for {
		name, err := ep.ExpectIdent()
		if err != nil {
			return nil, err
		}
		if reservedWords[name] {
			return nil, NewExprParseError(ErrMsgReservedTarget, ep.CurrentPos())
		}
		targets = append(targets, name)
		if !ep.MatchOp(",") {
			break
		}
	}
	if parenthesized {
		if err := ep.ExpectOp(")"); err != nil {
			return nil, err
		}
	}
	return targets, nil
}

func (p *Parser) parseMacro(ep *ExprParser, tok Token) (Node, error) {
	name, err := ep.ExpectIdent()
	if err != nil {
		return nil, err
	}
	if err := ep.ExpectOp("("); err != nil {
		return nil, err
	}
	params, err := p.parseParams(ep)
	if err != nil {
		return nil, err
	}
	if err := ep.ExpectEOF(); err != nil {
		return nil, err
	}
	children, err := p.parseBlockBody("macro", "endmacro", tok)
	if err != nil {
		return nil, err
	}
	return NewMacroNode(name, params, children, tok.Pos), nil
}

// parseParams parses macro parameters after the opening parenthesis.
func (p *Parser) parseParams(ep *ExprParser) ([]MacroParam, error) {
	var params []MacroParam
	for !ep.CheckOp(")") {
		name, err := ep.ExpectIdent()
		if err != nil {
			return nil, err
		}
		param := MacroParam{Name: name}
		if ep.MatchOp("=") {
			param.Default, err = ep.ParseExpression()
			if err != nil {
				return nil, err
			}
		}
		params = append(params, param)
		if !ep.MatchOp(",") {
			break
		}
	}
	if err := ep.ExpectOp(")"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseSet(ep *ExprParser, tok Token) (Node, error) {
	first, err := ep.ExpectIdent()
	if err != nil {
		return nil, err
	}

	if ep.MatchOp(".") {
		attr, err := ep.ExpectIdent()
		if err != nil {
			return nil, err
		}
		if err := ep.ExpectOp("="); err != nil {
			return nil, err
		}
		value, err := ep.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := ep.ExpectEOF(); err != nil {
			return nil, err
		}
		return NewSetAttrNode(first, attr, value, tok.Pos), nil
	}

	targets := []string{first}
	for ep.MatchOp(",") {
		name, err := ep.ExpectIdent()
		if err != nil {
			return nil, err
		}
		targets = append(targets, name)
	}

	if ep.MatchOp("=") {
		value, err := ep.ParseExpression()
		if err != nil {
			return nil, err
		}
		if err := ep.ExpectEOF(); err != nil {
			return nil, err
		}
		return NewSetNode(targets, value, tok.Pos), nil
	}

	// No assignment: {% set x %}...{% endset %} captures its body.
	if len(targets) != 1 || !ep.AtEOF() {
		return nil, NewParseError(fmt.Sprintf("%s '='", ErrMsgExpectedToken), ep.CurrentPos())
	}
	children, err := p.parseBlockBody("set", "endset", tok)
	if err != nil {
		return nil, err
	}
	return NewSetBlockNode(first, children, tok.Pos), nil
}

func (p *Parser) parseFilterBlock(ep *ExprParser, tok Token) (Node, error) {
	name, err := ep.ExpectIdent()
	if err != nil {
		return nil, err
	}
	var args ArgList
	if ep.MatchOp("(") {
		args, err = ep.parseArgList()
		if err != nil {
			return nil, err
		}
	}
	if err := ep.ExpectEOF(); err != nil {
		return nil, err
	}
	children, err := p.parseBlockBody("filter", "endfilter", tok)
	if err != nil {
		return nil, err
	}
	return NewFilterBlockNode(name, args, children, tok.Pos), nil
}

func (p *Parser) parseCallBlock(ep *ExprParser, tok Token) (Node, error) {
	var callerParams []MacroParam
	var err error
	if ep.MatchOp("(") {
		callerParams, err = p.parseParams(ep)
		if err != nil {
			return nil, err
		}
	}
	expr, err := ep.ParseExpression()
	if err != nil {
		return nil, err
	}
	call, ok := expr.(*CallExpr)
	if !ok {
		return nil, NewParseError(ErrMsgExpectedCall, tok.ContentPos)
	}
	if err := ep.ExpectEOF(); err != nil {
		return nil, err
	}
	children, err := p.parseBlockBody("call", "endcall", tok)
	if err != nil {
		return nil, err
	}
	return NewCallBlockNode(callerParams, call, children, tok.Pos), nil
}

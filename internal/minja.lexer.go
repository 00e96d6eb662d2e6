package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Lexer error message constants
const (
	ErrMsgMissingCommentEnd = "Missing end of comment tag"
	ErrMsgMissingOutputEnd  = "Missing end of expression tag"
	ErrMsgMissingBlockEnd   = "Missing end of block tag"
	ErrMsgUnterminatedStr   = "Unterminated string"
)

// Tag delimiter constants
const (
	delimOutputOpen     = "{{"
	delimOutputClose    = "}}"
	delimStatementOpen  = "{%"
	delimStatementClose = "%}"
	delimCommentOpen    = "{#"
	delimCommentClose   = "#}"
)

// LexerError represents a tokenization failure.
type LexerError struct {
	Message  string
	Position Position
}

// NewLexerError creates a new lexer error.
func NewLexerError(message string, pos Position) *LexerError {
	return &LexerError{Message: message, Position: pos}
}

// Error implements the error interface.
func (e *LexerError) Error() string {
	return e.Message + " at " + e.Position.String()
}

// Lexer splits template source into text, output, statement and comment
// tokens, then resolves whitespace control before handing the stream to
// the parser.
type Lexer struct {
	source  string
	options Options
	pos     int
	line    int
	column  int
	logger  *zap.Logger
}

// NewLexer creates a new lexer for the given source and options.
func NewLexer(source string, options Options, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !options.KeepTrailingNewline {
		if strings.HasSuffix(source, "\r\n") {
			source = source[:len(source)-2]
		} else if strings.HasSuffix(source, "\n") {
			source = source[:len(source)-1]
		}
	}
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
		options: options,
		logger:  logger,
	}
}

// Tokenize scans the full source and returns the token stream with
// whitespace control already applied. Comment tokens are consumed here
// and never reach the parser.
func (l *Lexer) Tokenize() ([]Token, error) {
	l.logger.Debug(LogMsgLexerStart, zap.Int("sourceLen", len(l.source)))

	var tokens []Token
	textStart := l.position()
	var text strings.Builder

	flushText := func() {
		if text.Len() > 0 {
			tokens = append(tokens, NewTextToken(text.String(), textStart))
			text.Reset()
		}
	}

	for l.pos < len(l.source) {
		if l.matchAhead(delimOutputOpen) || l.matchAhead(delimStatementOpen) || l.matchAhead(delimCommentOpen) {
			flushText()
			token, err := l.scanTag()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			textStart = l.position()
			continue
		}
		text.WriteByte(l.source[l.pos])
		l.advance()
	}
	flushText()

	tokens = l.applyWhitespaceControl(tokens)

	l.logger.Debug(LogMsgLexerEnd, zap.Int("tokens", len(tokens)))
	return tokens, nil
}

// scanTag consumes one {{ }}, {% %} or {# #} tag starting at l.pos.
func (l *Lexer) scanTag() (Token, error) {
	start := l.position()

	var kind TokenKind
	var closer string
	switch {
	case l.matchAhead(delimOutputOpen):
		kind, closer = TokenOutput, delimOutputClose
	case l.matchAhead(delimStatementOpen):
		kind, closer = TokenStatement, delimStatementClose
	default:
		kind, closer = TokenComment, delimCommentClose
	}
	l.advanceN(2)

	token := Token{Kind: kind, Pos: start}
	if l.pos < len(l.source) {
		switch l.source[l.pos] {
		case '-':
			token.TrimLeft = true
			l.advance()
		case '+':
			token.KeepLeft = true
			l.advance()
		}
	}

	token.ContentPos = l.position()
	contentStart := l.pos

	if kind == TokenComment {
		end := strings.Index(l.source[l.pos:], delimCommentClose)
		if end < 0 {
			return Token{}, NewLexerError(ErrMsgMissingCommentEnd, start)
		}
		content := l.source[l.pos : l.pos+end]
		l.advanceN(end + len(delimCommentClose))
		token.Content, token.TrimRight, token.KeepRight = trimCloseMarker(content)
		return token, nil
	}

	// Scan to the closing delimiter, skipping over string literals so a
	// quoted "}}" does not terminate the tag.
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		if c == '\'' || c == '"' {
			if err := l.skipString(); err != nil {
				return Token{}, err
			}
			continue
		}
		if l.matchAhead(closer) {
			content := l.source[contentStart:l.pos]
			l.advanceN(len(closer))
			token.Content, token.TrimRight, token.KeepRight = trimCloseMarker(content)
			return token, nil
		}
		l.advance()
	}

	if kind == TokenOutput {
		return Token{}, NewLexerError(ErrMsgMissingOutputEnd, start)
	}
	return Token{}, NewLexerError(ErrMsgMissingBlockEnd, start)
}

// skipString consumes a quoted string literal including escapes.
func (l *Lexer) skipString() error {
	quote := l.source[l.pos]
	start := l.position()
	l.advance()
	for l.pos < len(l.source) {
		c := l.source[l.pos]
		if c == '\\' && l.pos+1 < len(l.source) {
			l.advanceN(2)
			continue
		}
		l.advance()
		if c == quote {
			return nil
		}
	}
	return NewLexerError(ErrMsgUnterminatedStr, start)
}

// trimCloseMarker splits a trailing whitespace-control marker off the tag
// content: "x -" means -%} closed the tag, "x +" means +%}.
func trimCloseMarker(content string) (string, bool, bool) {
	if strings.HasSuffix(content, "-") {
		return content[:len(content)-1], true, false
	}
	if strings.HasSuffix(content, "+") {
		return content[:len(content)-1], false, true
	}
	return content, false, false
}

// applyWhitespaceControl resolves per-tag markers and the TrimBlocks and
// LstripBlocks options against the neighbouring text tokens, and drops
// comment tokens from the stream.
// The left side of every tag is resolved before any right side: when a
// text token sits between two tags, the following tag's lstrip must see
// the original newline that the preceding tag's trim_blocks would
// remove.
func (l *Lexer) applyWhitespaceControl(tokens []Token) []Token {
	for i := range tokens {
		t := &tokens[i]
		if t.Kind == TokenText || i == 0 || tokens[i-1].Kind != TokenText {
			continue
		}
		prev := &tokens[i-1]
		if t.TrimLeft {
			prev.Content = strings.TrimRight(prev.Content, " \t\r\n")
		} else if !t.KeepLeft && l.options.LstripBlocks && t.Kind != TokenOutput {
			prev.Content = lstripToLineStart(prev.Content, prev.Pos.Offset == 0)
		}
	}

	for i := range tokens {
		t := &tokens[i]
		if t.Kind == TokenText || i+1 >= len(tokens) || tokens[i+1].Kind != TokenText {
			continue
		}
		next := &tokens[i+1]
		if t.TrimRight {
			next.Content = strings.TrimLeft(next.Content, " \t\r\n")
		} else if !t.KeepRight && l.options.TrimBlocks && t.Kind != TokenOutput {
			next.Content = trimFirstNewline(next.Content)
		}
	}

	out := tokens[:0]
	for _, t := range tokens {
		if t.Kind == TokenComment {
			continue
		}
		if t.Kind == TokenText && t.Content == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// lstripToLineStart removes the trailing run of spaces and tabs from text
// if that run spans from the start of a line to the following block tag.
func lstripToLineStart(text string, atSourceStart bool) string {
	lastNL := strings.LastIndexByte(text, '\n')
	if lastNL < 0 && !atSourceStart {
		return text
	}
	tail := text[lastNL+1:]
	if strings.Trim(tail, " \t") != "" {
		return text
	}
	return text[:lastNL+1]
}

// trimFirstNewline removes a single leading newline from text.
func trimFirstNewline(text string) string {
	if strings.HasPrefix(text, "\r\n") {
		return text[2:]
	}
	if strings.HasPrefix(text, "\n") {
		return text[1:]
	}
	return text
}

// matchAhead reports whether the source at the current position starts
// with the given string.
func (l *Lexer) matchAhead(s string) bool {
	return strings.HasPrefix(l.source[l.pos:], s)
}

// advance moves forward one byte, tracking line and column.
func (l *Lexer) advance() {
	if l.pos < len(l.source) {
		if l.source[l.pos] == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
		l.pos++
	}
}

// advanceN moves forward n bytes.
func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// position returns the current source position.
func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Line: l.line, Column: l.column}
}

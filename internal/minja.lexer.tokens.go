package internal

import "fmt"

// Position represents a location in the template source.
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string.
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// TokenKind identifies the kind of a template token.
type TokenKind int

const (
	// TokenText is literal template text.
	TokenText TokenKind = iota
	// TokenOutput is an interpolation tag: {{ expr }}
	TokenOutput
	// TokenStatement is a block tag: {% stmt %}
	TokenStatement
	// TokenComment is a comment tag: {# ... #}
	TokenComment
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenOutput:
		return "output"
	case TokenStatement:
		return "statement"
	case TokenComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Token is a single unit produced by the template lexer. For tag tokens,
// Content holds the text between the delimiters with whitespace-control
// markers already stripped; ContentPos locates the start of that text.
type Token struct {
	Kind       TokenKind
	Content    string
	Pos        Position
	ContentPos Position

	// Whitespace-control markers attached to the delimiters.
	TrimLeft  bool // opened with {%- / {{- / {#-
	KeepLeft  bool // opened with {%+ / {{+ / {#+
	TrimRight bool // closed with -%} / -}} / -#}
	KeepRight bool // closed with +%} / +}} / +#}
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	content := t.Content
	if len(content) > maxTokenDisplayLength {
		content = content[:maxTokenDisplayLength] + "..."
	}
	return fmt.Sprintf("%s(%q @ %s)", t.Kind, content, t.Pos)
}

// NewTextToken creates a literal text token.
func NewTextToken(content string, pos Position) Token {
	return Token{Kind: TokenText, Content: content, Pos: pos, ContentPos: pos}
}

const maxTokenDisplayLength = 32

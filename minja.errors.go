package minja

import (
	"errors"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/ochafik/minja-go/internal"
)

// Error code constants for categorization
const (
	ErrCodeSyntax = "MINJA_SYNTAX"
	ErrCodeRender = "MINJA_RENDER"
)

// Metadata key constants
const (
	MetaKeyLine   = "line"
	MetaKeyColumn = "column"
	MetaKeyOffset = "offset"
)

// Position locates an error in the template source.
type Position = internal.Position

// SyntaxError reports a template that could not be parsed. It wraps a
// cuserr.CustomError carrying position metadata.
type SyntaxError struct {
	*cuserr.CustomError
	Position Position
}

// RenderError reports a template that failed during rendering. Renders
// are atomic: on error no partial output is returned.
type RenderError struct {
	*cuserr.CustomError
	Position Position
}

// IsSyntaxError reports whether err is a template syntax error.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsRenderError reports whether err is a template rendering error.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}

// newSyntaxError wraps an internal parse-stage error.
func newSyntaxError(cause error) error {
	msg, pos := messageAndPosition(cause)
	ce := cuserr.WrapStdError(cause, ErrCodeSyntax, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
	return &SyntaxError{CustomError: ce, Position: pos}
}

// newRenderError wraps an internal evaluation-stage error.
func newRenderError(cause error) error {
	msg, pos := messageAndPosition(cause)
	ce := cuserr.WrapStdError(cause, ErrCodeRender, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
	return &RenderError{CustomError: ce, Position: pos}
}

// messageAndPosition extracts the bare message and source position from
// the internal error types.
func messageAndPosition(err error) (string, Position) {
	switch e := err.(type) {
	case *internal.LexerError:
		return e.Message, e.Position
	case *internal.ExprParseError:
		return e.Message, e.Position
	case *internal.ParseError:
		return e.Message, e.Position
	case *internal.EvalError:
		return e.Message, e.Position
	}
	return err.Error(), Position{}
}

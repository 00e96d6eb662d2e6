package minja

import (
	"go.uber.org/zap"

	"github.com/ochafik/minja-go/internal"
)

// Options controls per-template lexing behavior. The zero value matches
// the Jinja defaults. Chat template hosts typically want
// {TrimBlocks: true, LstripBlocks: true}.
type Options struct {
	// TrimBlocks removes the first newline after a block tag or comment.
	TrimBlocks bool
	// LstripBlocks strips whitespace from the start of a line to a block tag.
	LstripBlocks bool
	// KeepTrailingNewline preserves the trailing newline of the source.
	// When false (the default), one trailing newline is removed before
	// lexing.
	KeepTrailingNewline bool
}

func (o Options) internal() internal.Options {
	return internal.Options{
		TrimBlocks:          o.TrimBlocks,
		LstripBlocks:        o.LstripBlocks,
		KeepTrailingNewline: o.KeepTrailingNewline,
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the lexer, parser and evaluator.
// The default is a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxSteps bounds the number of evaluation steps a single render may
// take, so hostile or runaway templates fail instead of spinning. Zero
// (the default) disables the budget.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		e.maxSteps = n
	}
}

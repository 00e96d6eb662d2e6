package minja

import (
	"go.uber.org/zap"

	"github.com/ochafik/minja-go/internal"
)

// Engine parses templates and holds the settings shared by their
// renders. A zero-configuration engine is available through the
// package-level Parse function.
type Engine struct {
	logger   *zap.Logger
	maxSteps int
}

// New creates an engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	return e
}

// Parse compiles template source into a reusable Template. Errors are
// SyntaxErrors.
func (e *Engine) Parse(source string, opts Options) (*Template, error) {
	lexer := internal.NewLexer(source, opts.internal(), e.logger)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, newSyntaxError(err)
	}
	parser := internal.NewParser(tokens, e.logger)
	root, err := parser.Parse()
	if err != nil {
		return nil, newSyntaxError(err)
	}
	return &Template{engine: e, source: source, root: root}, nil
}

// MustParse is like Parse but panics on error. Intended for templates
// known at compile time.
func (e *Engine) MustParse(source string, opts Options) *Template {
	tmpl, err := e.Parse(source, opts)
	if err != nil {
		panic(err)
	}
	return tmpl
}

var defaultEngine = New()

// Parse compiles template source using a default engine.
func Parse(source string, opts Options) (*Template, error) {
	return defaultEngine.Parse(source, opts)
}

// Template is a parsed template, safe for concurrent rendering.
type Template struct {
	engine *Engine
	source string
	root   *internal.RootNode
}

// Source returns the original template source.
func (t *Template) Source() string {
	return t.source
}

// Render evaluates the template against a context and returns the
// output. Rendering is atomic: on error the output is empty and the
// error is a RenderError. The context is not mutated by top-level sets
// in the template.
func (t *Template) Render(ctx *Context) (string, error) {
	if ctx == nil {
		ctx = NewContext(None())
	}
	interp := internal.NewInterp(t.engine.logger, t.engine.maxSteps)
	out, err := interp.Execute(t.root, internal.NewScope(ctx.scope))
	if err != nil {
		return "", newRenderError(err)
	}
	return out, nil
}

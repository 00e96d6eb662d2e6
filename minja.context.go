package minja

import "github.com/ochafik/minja-go/internal"

// Context carries the variable bindings for a render. Its scope sits on
// top of the builtin globals (range, namespace, joiner,
// raise_exception), so bindings may shadow them.
type Context struct {
	scope *internal.Scope
}

// NewContext creates a context from a bindings value. A dict value seeds
// the context with one variable per entry; none creates an empty
// context.
func NewContext(bindings Value) *Context {
	scope := internal.NewScope(internal.NewGlobalScope())
	if bindings.Kind() == internal.KindDict {
		for _, e := range bindings.Dict().Entries() {
			scope.Set(e.Key.ToString(), e.Val)
		}
	}
	return &Context{scope: scope}
}

// Set binds a variable, replacing any previous binding of the name.
func (c *Context) Set(name string, v Value) {
	c.scope.Set(name, v)
}

// Get resolves a variable, including the builtin globals.
func (c *Context) Get(name string) (Value, bool) {
	return c.scope.Get(name)
}

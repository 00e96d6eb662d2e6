package internal

// Scope is one frame of the variable environment. Lookups walk the parent
// chain; assignments always land in the innermost frame, so loop bodies
// and macro calls shadow rather than overwrite. Cross-scope mutation goes
// through namespace dicts, which are shared by reference.
type Scope struct {
	vars   map[string]Value
	parent *Scope
}

// NewScope creates a scope with the given parent frame.
func NewScope(parent *Scope) *Scope {
	return &Scope{vars: make(map[string]Value), parent: parent}
}

// Get resolves a name through the scope chain.
func (s *Scope) Get(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Has reports whether a name resolves anywhere in the chain.
func (s *Scope) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Set binds a name in this frame.
func (s *Scope) Set(name string, v Value) {
	s.vars[name] = v
}

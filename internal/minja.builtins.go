package internal

import (
	"fmt"
	"sync"
)

// FilterFunc implements a template filter: receiver | name(args).
type FilterFunc func(in *Interp, receiver Value, args *Arguments) (Value, error)

// TestFunc implements a template test: receiver is name(args).
type TestFunc func(in *Interp, receiver Value, args *Arguments) (bool, error)

// BuiltinRegistry holds the filters and tests available to templates.
type BuiltinRegistry struct {
	mu      sync.RWMutex
	filters map[string]FilterFunc
	tests   map[string]TestFunc
}

// NewBuiltinRegistry creates an empty registry.
func NewBuiltinRegistry() *BuiltinRegistry {
	return &BuiltinRegistry{
		filters: make(map[string]FilterFunc),
		tests:   make(map[string]TestFunc),
	}
}

// RegisterFilter adds or replaces a filter.
func (r *BuiltinRegistry) RegisterFilter(name string, fn FilterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = fn
}

// RegisterTest adds or replaces a test.
func (r *BuiltinRegistry) RegisterTest(name string, fn TestFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tests[name] = fn
}

// Filter looks up a filter by name.
func (r *BuiltinRegistry) Filter(name string) (FilterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	return fn, ok
}

// Test looks up a test by name.
func (r *BuiltinRegistry) Test(name string) (TestFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.tests[name]
	return fn, ok
}

// applyFilter resolves and invokes a filter.
func (in *Interp) applyFilter(name string, receiver Value, args *Arguments, pos Position) (Value, error) {
	fn, ok := in.builtins.Filter(name)
	if !ok {
		return Value{}, NewEvalError(fmt.Sprintf(ErrFmtUnknownFilter, name), pos)
	}
	v, err := fn(in, receiver, args)
	if err != nil {
		return Value{}, WrapEvalError(err, pos)
	}
	return v, nil
}

// applyTest resolves and invokes a test. Filter names double as tests in
// map/select pipelines, so the filter table is the fallback: a filter
// used as a test passes when its result is truthy.
func (in *Interp) applyTest(name string, receiver Value, args *Arguments, pos Position) (bool, error) {
	if fn, ok := in.builtins.Test(name); ok {
		result, err := fn(in, receiver, args)
		if err != nil {
			return false, WrapEvalError(err, pos)
		}
		return result, nil
	}
	if fn, ok := in.builtins.Filter(name); ok {
		v, err := fn(in, receiver, args)
		if err != nil {
			return false, WrapEvalError(err, pos)
		}
		return v.Truthy(), nil
	}
	return false, NewEvalError(fmt.Sprintf(ErrFmtUnknownTest, name), pos)
}

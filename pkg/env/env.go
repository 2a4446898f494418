// Package env implements the lexically scoped variable environment
// consulted by the prep pass. Each scope tracks only the bindings it
// introduces itself, chained to a parent scope for lookup; this keeps
// the if/else branch-merge check (ChangesMatch) a comparison of two
// scopes' own deltas rather than their full, inherited, binding sets.
package env

import "seshade/pkg/binding"

// Environment is a chained map from identifier to binding.
type Environment struct {
	bindings map[string]*binding.Binding
	parent   *Environment
}

// New creates a new environment, optionally nested under a parent.
func New(parent *Environment) *Environment {
	return &Environment{
		bindings: make(map[string]*binding.Binding),
		parent:   parent,
	}
}

// NewScope returns an empty child scope chained to e.
func (e *Environment) NewScope() *Environment {
	return New(e)
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Add inserts or overwrites a binding in the current (innermost) scope.
func (e *Environment) Add(name string, b *binding.Binding) {
	e.bindings[name] = b
}

// Find walks the scope chain outward looking for name.
func (e *Environment) Find(name string) (*binding.Binding, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if b, ok := scope.bindings[name]; ok {
			return b, true
		}
	}
	return nil, false
}

// Merge copies every entry introduced directly in other (not other's
// ancestors) into e. This is how an if/else branch's own bindings are
// promoted into the enclosing scope once ChangesMatch confirms both
// branches agree.
func (e *Environment) Merge(other *Environment) {
	for name, b := range other.bindings {
		e.bindings[name] = b
	}
}

// ChangesMatch reports whether a and b introduced exactly the same set
// of names directly in their own scope, with matching types for every
// corresponding pair. Bindings inherited from a parent are not
// considered; only each scope's own delta is compared.
func ChangesMatch(a, b *Environment) bool {
	if len(a.bindings) != len(b.bindings) {
		return false
	}
	for name, ab := range a.bindings {
		bb, ok := b.bindings[name]
		if !ok {
			return false
		}
		if ab.Type != bb.Type {
			return false
		}
	}
	return true
}

// Package resolver defines the interface the embedding host implements
// to supply external variables and functions during prep. The host is
// consulted before the process-wide registry for both variables and
// functions, so a host binding always shadows a registry entry of the
// same name (spec §4.4, §6).
package resolver

import (
	"seshade/pkg/binding"
	"seshade/pkg/registry"
)

// Resolver is implemented by the embedding host.
type Resolver interface {
	// ResolveVar looks up an external variable binding by name.
	ResolveVar(name string) (*binding.Binding, bool)
	// ResolveFunc looks up a host-provided function descriptor by name.
	ResolveFunc(name string) (*registry.Descriptor, bool)
}

// None is a Resolver that never resolves anything, useful for
// expressions that reference only locals and registry functions.
type None struct{}

func (None) ResolveVar(string) (*binding.Binding, bool)        { return nil, false }
func (None) ResolveFunc(string) (*registry.Descriptor, bool)   { return nil, false }

// Map is a simple Resolver backed by two maps, handy for tests and
// small embeddings that don't need dynamic resolution logic.
type Map struct {
	Vars  map[string]*binding.Binding
	Funcs map[string]*registry.Descriptor
}

func (m *Map) ResolveVar(name string) (*binding.Binding, bool) {
	b, ok := m.Vars[name]
	return b, ok
}

func (m *Map) ResolveFunc(name string) (*registry.Descriptor, bool) {
	d, ok := m.Funcs[name]
	return d, ok
}

// Package binding defines what a variable name resolves to once the
// prep pass has run: either a local cell owned by an assignment, or an
// external callback supplied by the host's variable resolver.
package binding

import "seshade/pkg/types"

// Origin distinguishes a locally-assigned binding from one the host
// resolver supplied.
type Origin int

const (
	Local Origin = iota
	External
)

// Cell is the mutable storage an assignment writes into. Eval stores
// into and reads from the same Cell across the lifetime of one
// evaluation pass; Prep only ever allocates it, never populates it.
type Cell struct {
	Value [3]float64
}

// Evaluator is the per-sample callback an external (host-supplied)
// binding uses to produce its current value.
type Evaluator func() [3]float64

// Binding is what a variable reference node carries once resolved.
// Exactly one of Cell or Eval is set, matching Origin.
type Binding struct {
	Origin Origin
	Type   types.Type
	Cell   *Cell
	Eval   Evaluator
}

// NewLocal creates a binding for a freshly assigned local variable.
func NewLocal(t types.Type) *Binding {
	return &Binding{Origin: Local, Type: t, Cell: &Cell{}}
}

// NewExternal wraps a host-supplied evaluator callback.
func NewExternal(t types.Type, eval Evaluator) *Binding {
	return &Binding{Origin: External, Type: t, Eval: eval}
}

// Package registry implements the function lookup table the prep and
// eval passes consult for call nodes: a name-keyed map from function
// name to a descriptor carrying return type, arity, calling
// convention, and the underlying callable.
package registry

import (
	"sync"

	"seshade/pkg/types"
)

// Signature tags the calling convention a standard (non-extended)
// function uses, mirroring the original engine's FUNC0..FUNC6/FUNCN/
// FUNC*V/FUNC*VV family. FuncX functions bypass this entirely and
// supply their own Prep/Eval.
type Signature int

const (
	// FUNC0..FUNC6: fixed arity, scalar in, scalar out. Fn is the
	// matching Func0..Func6, called once per active lane.
	FUNC0 Signature = iota
	FUNC1
	FUNC2
	FUNC3
	FUNC4
	FUNC5
	FUNC6
	// FUNCN: variadic scalar in, scalar out. Fn is FuncN (func([]float64) float64).
	FUNCN
	// FUNC1V/FUNC2V/FUNCNV: vector(s) in, scalar out. Fn is the
	// matching Func1V/Func2V/FuncNV, called once (not per-lane).
	FUNC1V
	FUNC2V
	FUNCNV
	// FUNC1VV/FUNC2VV/FUNCNVV: vector(s) in, vector out. Fn is the
	// matching Func1VV/Func2VV/FuncNVV, called once.
	FUNC1VV
	FUNC2VV
	FUNCNVV
	// FUNCX: extended. The descriptor's ExtPrep/ExtEval are used
	// instead of Fn, and standard arg-evaluation is bypassed.
	FUNCX
)

// ExtPrepFunc is the custom prep hook an extended (FUNCX) function
// supplies, used instead of uniform per-argument checking. childCount
// is the call's argument count; prepChild preps argument i against a
// wanted type and returns its resolved type, so the extended function
// can apply its own per-argument rules (including preppping some
// children with different wanted types than others). It returns the
// call's resolved type plus any diagnostic messages (the prep package
// attaches the node and a running index).
type ExtPrepFunc func(childCount int, wanted types.Type, prepChild func(i int, wanted types.Type) types.Type) (types.Type, []string)

// ExtEvalFunc is the custom eval hook an extended function supplies;
// it receives a callback to evaluate argument i and returns the call's
// result, bypassing uniform arg-evaluation entirely.
type ExtEvalFunc func(childCount int, evalChild func(i int) [3]float64) [3]float64

// Concrete callable shapes for each standard Signature. Descriptor.Fn
// holds one of these, chosen to match Sig; pkg/eval type-asserts it
// back out when dispatching a call.
type (
	Func0 func() float64
	Func1 func(float64) float64
	Func2 func(float64, float64) float64
	Func3 func(float64, float64, float64) float64
	Func4 func(float64, float64, float64, float64) float64
	Func5 func(float64, float64, float64, float64, float64) float64
	Func6 func(float64, float64, float64, float64, float64, float64) float64
	FuncN func([]float64) float64

	Func1V func([3]float64) float64
	Func2V func([3]float64, [3]float64) float64
	FuncNV func([][3]float64) float64

	Func1VV func([3]float64) [3]float64
	Func2VV func([3]float64, [3]float64) [3]float64
	FuncNVV func([][3]float64) [3]float64
)

// Descriptor describes one registered function.
type Descriptor struct {
	Name         string
	ReturnType   types.Type
	MinArgs      int
	MaxArgs      int // -1 means unbounded
	Sig          Signature
	Fn           any
	ThreadUnsafe bool
	ExtPrep      ExtPrepFunc
	ExtEval      ExtEvalFunc
}

// IsExtended reports whether d uses the FUNCX calling convention.
func (d *Descriptor) IsExtended() bool { return d.Sig == FUNCX }

// ArityOK reports whether argc args satisfies d's declared arity.
func (d *Descriptor) ArityOK(argc int) bool {
	if argc < d.MinArgs {
		return false
	}
	if d.MaxArgs >= 0 && argc > d.MaxArgs {
		return false
	}
	return true
}

// IsVectorOut reports whether d's standard signature produces a
// vector result in one call (the *VV family) rather than being
// iterated per-lane.
func (d *Descriptor) IsVectorOut() bool {
	switch d.Sig {
	case FUNC1VV, FUNC2VV, FUNCNVV:
		return true
	default:
		return false
	}
}

// IsVectorIn reports whether d's standard signature consumes its
// operands as whole vectors rather than per-lane scalars.
func (d *Descriptor) IsVectorIn() bool {
	switch d.Sig {
	case FUNC1V, FUNC2V, FUNCNV, FUNC1VV, FUNC2VV, FUNCNVV:
		return true
	default:
		return false
	}
}

// Registry is the process-wide (or per-test) lookup table of
// registered functions. It is safe for concurrent registration and
// lookup, matching the engine's single-threaded-per-expression but
// process-wide-registry concurrency model (see spec §5).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*Descriptor)}
}

// Register adds or replaces the descriptor for d.Name.
func (r *Registry) Register(d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[d.Name] = d
}

// Lookup returns the descriptor registered under name, if any.
func (r *Registry) Lookup(name string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.entries[name]
	return d, ok
}

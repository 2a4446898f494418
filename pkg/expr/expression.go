// Package expr implements the Expression facade: it owns a root AST
// node and the diagnostic list produced by prepping it, and exposes
// the parse -> prep -> evaluate lifecycle to the embedding host (spec
// §4.5), mirroring the teacher's Interpreter type's New()/lifecycle-
// method shape (pkg/interpreter/interpreter.go).
package expr

import (
	"fmt"

	"seshade/pkg/ast"
	"seshade/pkg/diag"
	"seshade/pkg/env"
	"seshade/pkg/eval"
	"seshade/pkg/prep"
	"seshade/pkg/registry"
	"seshade/pkg/resolver"
	"seshade/pkg/testseed"
	"seshade/pkg/types"
	"seshade/pkg/value"
)

// Expression owns one parsed-or-supplied AST and its prep results.
type Expression struct {
	source   string
	root     ast.Node
	resolver resolver.Resolver
	registry *registry.Registry

	prepped      bool
	prepper      *prep.Prepper
	threadUnsafe []string
}

// New returns an Expression that will resolve functions against reg
// (may be nil) and nothing else until a resolver is bound.
func New(reg *registry.Registry) *Expression {
	return &Expression{registry: reg, resolver: resolver.None{}}
}

// SetExpression stores the source text to be parsed by Parse. It does
// not itself parse; it discards any previously parsed or prepped root,
// so Parse must run again before Prep.
func (e *Expression) SetExpression(src string) {
	e.source = src
	e.root = nil
	e.prepped = false
}

// BindResolver attaches the host's variable/function resolver.
func (e *Expression) BindResolver(r resolver.Resolver) {
	if r == nil {
		r = resolver.None{}
	}
	e.resolver = r
}

// Parse builds the AST from the stored source text using the minimal
// test-seeding parser (spec §6). Production embeddings are expected to
// call SetRoot with an externally parsed tree instead; Parse exists so
// this repo's own tests and the demo CLI can seed real trees from
// readable source.
func (e *Expression) Parse() error {
	root, err := testseed.Parse(e.source)
	if err != nil {
		return fmt.Errorf("expr: parse: %w", err)
	}
	e.root = root
	e.prepped = false
	return nil
}

// SetRoot attaches an already-built AST, bypassing Parse entirely.
func (e *Expression) SetRoot(root ast.Node) {
	e.root = root
	e.prepped = false
}

// Prep runs the prep pass over the root with wanted=Any, recording
// diagnostics. It returns whether the resulting tree is valid.
func (e *Expression) Prep() bool {
	if e.root == nil {
		e.prepper = prep.New(e.resolver, e.registry)
		return false
	}
	e.prepper = prep.New(e.resolver, e.registry)
	rootEnv := env.New(nil)
	e.prepper.Prep(e.root, types.Any, rootEnv)
	e.threadUnsafe = e.prepper.ThreadUnsafeFuncs()
	e.prepped = true
	return e.IsValid()
}

// IsValid reports whether Prep has run and recorded no diagnostics and
// the root's type is not Error.
func (e *Expression) IsValid() bool {
	if !e.prepped || e.prepper == nil || e.root == nil {
		return false
	}
	return e.prepper.IsValid() && e.root.Type().IsValid()
}

// Errors returns every diagnostic recorded by the last Prep call.
func (e *Expression) Errors() []diag.Diagnostic {
	if e.prepper == nil {
		return nil
	}
	return e.prepper.Diagnostics()
}

// ReturnType reports the root's resolved type; it is Error until a
// successful Prep.
func (e *Expression) ReturnType() types.Type {
	if e.root == nil {
		return types.Error
	}
	return e.root.Type()
}

// ThreadUnsafe reports whether any extended function encountered
// during prep declared itself thread-unsafe.
func (e *Expression) ThreadUnsafe() bool {
	return len(e.threadUnsafe) > 0
}

// ThreadUnsafeFuncs names the specific functions that triggered
// ThreadUnsafe.
func (e *Expression) ThreadUnsafeFuncs() []string {
	return e.threadUnsafe
}

// Evaluate runs the eval pass over the root and returns its Value.
// Calling Evaluate on an expression that is not IsValid is undefined
// per spec §7; this implementation returns a zero Value rather than
// panicking, as a defensive measure against host misuse.
func (e *Expression) Evaluate() value.Value {
	if !e.IsValid() {
		return value.Value{}
	}
	return eval.Eval(e.root)
}

// Package prep implements the top-down type/name resolution pass. Prep
// walks a frozen AST once, propagating an expected ("wanted") type
// down into each node, annotating every node with its resolved type,
// and accumulating diagnostics on failure without ever aborting the
// walk (see spec §7). Dispatch is a single type-switch function, per
// the tagged-variant design in spec §9, mirroring the teacher's
// checkBinaryExpression/checkUnaryExpression style of returning
// diagnostics alongside a resolved type.
package prep

import (
	"fmt"

	"seshade/pkg/ast"
	"seshade/pkg/binding"
	"seshade/pkg/diag"
	"seshade/pkg/env"
	"seshade/pkg/registry"
	"seshade/pkg/resolver"
	"seshade/pkg/types"
)

// Prepper runs the prep pass over a tree and accumulates diagnostics
// and the set of functions that reported themselves thread-unsafe.
type Prepper struct {
	resolver     resolver.Resolver
	registry     *registry.Registry
	diagnostics  []diag.Diagnostic
	threadUnsafe map[string]bool
}

// New returns a Prepper that consults host first, then reg, for names.
func New(host resolver.Resolver, reg *registry.Registry) *Prepper {
	if host == nil {
		host = resolver.None{}
	}
	return &Prepper{
		resolver:     host,
		registry:     reg,
		threadUnsafe: make(map[string]bool),
	}
}

// Diagnostics returns every diagnostic recorded so far, in the order
// emitted (duplicates preserved, per spec §4.5).
func (p *Prepper) Diagnostics() []diag.Diagnostic { return p.diagnostics }

// IsValid reports whether no diagnostics have been recorded.
func (p *Prepper) IsValid() bool { return len(p.diagnostics) == 0 }

// ThreadUnsafeFuncs returns the names of any extended functions
// encountered during prep that declared themselves thread-unsafe.
func (p *Prepper) ThreadUnsafeFuncs() []string {
	names := make([]string, 0, len(p.threadUnsafe))
	for name := range p.threadUnsafe {
		names = append(names, name)
	}
	return names
}

func (p *Prepper) addError(node ast.Node, format string, args ...any) {
	p.diagnostics = append(p.diagnostics, diag.Diagnostic{
		Index:   len(p.diagnostics),
		Message: fmt.Sprintf(format, args...),
		Node:    node,
	})
}

// Prep annotates node (and its whole subtree) with resolved types,
// propagating wanted as the caller's expected type, and returns the
// node's resolved type. It always visits every child, even once an
// error has been recorded, so a single pass surfaces every independent
// failure (spec §7).
func (p *Prepper) Prep(node ast.Node, wanted types.Type, e *env.Environment) types.Type {
	if node == nil {
		return types.Error
	}
	t := p.prepDispatch(node, wanted, e)
	node.SetType(t)
	return t
}

func (p *Prepper) prepDispatch(node ast.Node, wanted types.Type, e *env.Environment) types.Type {
	switch n := node.(type) {
	case *ast.Default:
		return p.prepDefault(n, e)
	case *ast.Block:
		return p.prepBlock(n, wanted, e)
	case *ast.If:
		return p.prepIf(n, e)
	case *ast.Assign:
		return p.prepAssign(n, e)
	case *ast.Ternary:
		return p.prepTernary(n, wanted, e)
	case *ast.And:
		return p.prepLogical(n.Left(), n.Right(), e)
	case *ast.Or:
		return p.prepLogical(n.Left(), n.Right(), e)
	case *ast.Vector:
		return p.prepVector(n, e)
	case *ast.Subscript:
		return p.prepSubscript(n, e)
	case *ast.Unary:
		return p.prepUnary(n, wanted, e)
	case *ast.Compare:
		return p.prepCompare(n, e)
	case *ast.Arith:
		return p.prepArith(n, e)
	case *ast.NumberLiteral:
		return types.FP1
	case *ast.StringLiteral:
		return types.String
	case *ast.VarRef:
		return p.prepVarRef(n, e)
	case *ast.Call:
		return p.prepCall(n, wanted, e)
	default:
		p.addError(node, "prep: unsupported node kind %T", node)
		return types.Error
	}
}

func (p *Prepper) prepDefault(n *ast.Default, e *env.Environment) types.Type {
	ok := true
	for _, c := range n.Children() {
		t := p.Prep(c, types.Any, e)
		if !t.IsValid() {
			ok = false
		}
	}
	if ok {
		return types.None
	}
	return types.Error
}

func (p *Prepper) prepBlock(n *ast.Block, wanted types.Type, e *env.Environment) types.Type {
	sideT := p.Prep(n.SideEffect(), types.Any, e)
	valT := p.Prep(n.Value(), wanted, e)
	if !sideT.IsValid() {
		return types.Error
	}
	return valT
}

func (p *Prepper) prepIf(n *ast.If, e *env.Environment) types.Type {
	condT := p.Prep(n.Cond(), types.FP1, e)
	ok := condT.Isa(types.FP1)
	if !ok && condT.IsValid() {
		p.addError(n.Cond(), "if condition must be a scalar, got %s", condT)
	}

	thenEnv := e.NewScope()
	thenT := p.Prep(n.Then(), types.Any, thenEnv)
	elseEnv := e.NewScope()
	elseT := p.Prep(n.Else(), types.Any, elseEnv)

	if !thenT.IsValid() || !elseT.IsValid() {
		ok = false
	}

	if env.ChangesMatch(thenEnv, elseEnv) {
		e.Merge(thenEnv)
	} else {
		p.addError(n, "Types of variables do not match after if statement")
		ok = false
	}

	if ok {
		return types.None
	}
	return types.Error
}

func (p *Prepper) prepAssign(n *ast.Assign, e *env.Environment) types.Type {
	rhsT := p.Prep(n.RHS(), types.Any, e)
	if !rhsT.IsValid() {
		return types.Error
	}
	n.Binding = binding.NewLocal(rhsT)
	e.Add(n.Name, n.Binding)
	return types.None
}

func (p *Prepper) prepTernary(n *ast.Ternary, wanted types.Type, e *env.Environment) types.Type {
	condT := p.Prep(n.Cond(), types.FP1, e)
	if condT.IsValid() && !condT.Isa(types.FP1) {
		p.addError(n.Cond(), "ternary condition must be a scalar, got %s", condT)
	}

	thenT := p.Prep(n.Then(), wanted, e)
	elseT := p.Prep(n.Else(), wanted, e)

	ok := condT.Isa(types.FP1) && thenT.IsValid() && elseT.IsValid()
	// Corrected sense of the source's inverted isa(wanted) check (see
	// DESIGN.md / spec §9): the error fires when a branch's type does
	// NOT satisfy wanted, not when it does.
	if thenT.IsValid() && wanted != types.Any && !thenT.Isa(wanted) {
		p.addError(n.Then(), "expected %s type from then branch, got %s", wanted, thenT)
		ok = false
	}
	if elseT.IsValid() && wanted != types.Any && !elseT.Isa(wanted) {
		p.addError(n.Else(), "expected %s type from else branch, got %s", wanted, elseT)
		ok = false
	}
	if !ok {
		return types.Error
	}
	return thenT
}

func (p *Prepper) prepLogical(left, right ast.Node, e *env.Environment) types.Type {
	lt := p.Prep(left, types.FP1, e)
	rt := p.Prep(right, types.FP1, e)
	ok := true
	if lt.IsValid() && !lt.Isa(types.FP1) {
		p.addError(left, "logical operand must be a scalar, got %s", lt)
		ok = false
	}
	if rt.IsValid() && !rt.Isa(types.FP1) {
		p.addError(right, "logical operand must be a scalar, got %s", rt)
		ok = false
	}
	if !lt.IsValid() || !rt.IsValid() || !ok {
		return types.Error
	}
	return types.FP1
}

func (p *Prepper) prepVector(n *ast.Vector, e *env.Environment) types.Type {
	ok := true
	for _, c := range n.Children() {
		ct := p.Prep(c, types.FP1, e)
		if !ct.IsValid() {
			ok = false
			continue
		}
		if !ct.Isa(types.FP1) {
			p.addError(c, "vector literal elements must be scalar, got %s", ct)
			ok = false
		}
	}
	if !ok {
		return types.Error
	}
	return types.FPN(len(n.Children()))
}

func (p *Prepper) prepSubscript(n *ast.Subscript, e *env.Environment) types.Type {
	vecT := p.Prep(n.Vec(), types.Numeric, e)
	idxT := p.Prep(n.Index(), types.FP1, e)
	ok := true
	if vecT.IsValid() && !vecT.IsNumeric() {
		p.addError(n.Vec(), "subscript operand must be numeric, got %s", vecT)
		ok = false
	}
	if idxT.IsValid() && !idxT.Isa(types.FP1) {
		p.addError(n.Index(), "subscript index must be a scalar, got %s", idxT)
		ok = false
	}
	if !vecT.IsValid() || !idxT.IsValid() || !ok {
		return types.Error
	}
	return types.FP1
}

func (p *Prepper) prepUnary(n *ast.Unary, wanted types.Type, e *env.Environment) types.Type {
	operandWanted := wanted
	if !operandWanted.IsNumeric() {
		operandWanted = types.Numeric
	}
	t := p.Prep(n.Operand(), operandWanted, e)
	if !t.IsValid() {
		return types.Error
	}
	if !t.IsNumeric() {
		p.addError(n.Operand(), "unary operator requires a numeric operand, got %s", t)
		return types.Error
	}
	return t
}

func (p *Prepper) prepCompare(n *ast.Compare, e *env.Environment) types.Type {
	lt := p.Prep(n.Left(), types.Numeric, e)
	rt := p.Prep(n.Right(), types.Numeric, e)
	if !lt.IsValid() || !rt.IsValid() {
		return types.Error
	}
	if !lt.IsNumeric() || !rt.IsNumeric() || !lt.CompatibleNum(rt) {
		p.addError(n, "comparison requires compatible numeric operands, got %s and %s", lt, rt)
		return types.Error
	}
	return types.FP1
}

func (p *Prepper) prepArith(n *ast.Arith, e *env.Environment) types.Type {
	lt := p.Prep(n.Left(), types.Numeric, e)
	rt := p.Prep(n.Right(), types.Numeric, e)
	if !lt.IsValid() || !rt.IsValid() {
		return types.Error
	}
	if !lt.IsNumeric() || !rt.IsNumeric() || !lt.CompatibleNum(rt) {
		p.addError(n, "arithmetic requires compatible numeric operands, got %s and %s", lt, rt)
		return types.Error
	}
	width := types.CommonWidth(lt, rt)
	if width == 1 {
		return types.FP1
	}
	return types.FPN(width)
}

func (p *Prepper) prepVarRef(n *ast.VarRef, e *env.Environment) types.Type {
	if b, ok := e.Find(n.Name); ok {
		n.Binding = b
		return b.Type
	}
	if b, ok := p.resolver.ResolveVar(n.Name); ok {
		n.Binding = b
		return b.Type
	}
	p.addError(n, "No variable named $%s", n.Name)
	return types.Error
}

func (p *Prepper) prepCall(n *ast.Call, wanted types.Type, e *env.Environment) types.Type {
	desc, ok := p.resolver.ResolveFunc(n.Name)
	if !ok && p.registry != nil {
		desc, ok = p.registry.Lookup(n.Name)
	}
	if !ok {
		p.addError(n, "Function %s has no definition", n.Name)
		for _, c := range n.Children() {
			p.Prep(c, types.Any, e)
		}
		return types.Error
	}
	n.Descriptor = desc

	argc := len(n.Children())
	if !desc.ArityOK(argc) {
		p.addError(n, "Function %s called with %d arguments, expected %s", n.Name, argc, arityDesc(desc))
		for _, c := range n.Children() {
			p.Prep(c, types.Any, e)
		}
		return types.Error
	}

	if desc.IsExtended() {
		prepChild := func(i int, w types.Type) types.Type {
			return p.Prep(n.Children()[i], w, e)
		}
		t, msgs := desc.ExtPrep(argc, wanted, prepChild)
		for _, m := range msgs {
			p.addError(n, "%s", m)
		}
		if len(msgs) > 0 {
			return types.Error
		}
		if desc.ThreadUnsafe {
			p.threadUnsafe[n.Name] = true
		}
		return t
	}

	argWanted := types.FP1
	if desc.IsVectorIn() {
		argWanted = types.FPN(3)
	}
	ok = true
	for _, c := range n.Children() {
		ct := p.Prep(c, argWanted, e)
		if !ct.IsValid() {
			ok = false
			continue
		}
		if !ct.Isa(argWanted) {
			p.addError(c, "argument to %s must be %s, got %s", n.Name, argWanted, ct)
			ok = false
		}
	}
	if !ok {
		return types.Error
	}
	if desc.ThreadUnsafe {
		p.threadUnsafe[n.Name] = true
	}
	return desc.ReturnType
}

func arityDesc(d *registry.Descriptor) string {
	if d.MaxArgs < 0 {
		return fmt.Sprintf("at least %d", d.MinArgs)
	}
	if d.MinArgs == d.MaxArgs {
		return fmt.Sprintf("%d", d.MinArgs)
	}
	return fmt.Sprintf("between %d and %d", d.MinArgs, d.MaxArgs)
}

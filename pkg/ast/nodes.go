package ast

import (
	"seshade/pkg/binding"
	"seshade/pkg/registry"
)

// UnaryOp enumerates the unary node's three operators.
type UnaryOp int

const (
	Negate UnaryOp = iota // -x
	Not                   // !x
	Invert                // 1-x
)

// CompareOp enumerates the comparison node's six operators.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Gt
	Le
	Ge
)

// ArithOp enumerates the binary arithmetic node's six operators.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
	Pow
)

// Default is the statement-list root: zero or more children evaluated
// in order for side effects.
type Default struct {
	base
}

func NewDefault(stmts ...Node) *Default {
	n := &Default{base: newBase(KindDefault, stmts...)}
	attach(n, stmts...)
	return n
}

// Block sequences a side-effect expression (child 0) and a trailing
// value expression (child 1).
type Block struct {
	base
}

func NewBlock(sideEffect, value Node) *Block {
	n := &Block{base: newBase(KindBlock, sideEffect, value)}
	attach(n, sideEffect, value)
	return n
}

func (b *Block) SideEffect() Node { return b.children[0] }
func (b *Block) Value() Node      { return b.children[1] }

// If is a statement: condition, then-branch, else-branch.
type If struct {
	base
}

func NewIf(cond, then, els Node) *If {
	n := &If{base: newBase(KindIf, cond, then, els)}
	attach(n, cond, then, els)
	return n
}

func (n *If) Cond() Node { return n.children[0] }
func (n *If) Then() Node { return n.children[1] }
func (n *If) Else() Node { return n.children[2] }

// Assign binds Name to the value of its single child (the RHS) in the
// current scope. Binding is populated by prep and consumed directly by
// eval, bypassing the environment at eval time.
type Assign struct {
	base
	Name    string
	Binding *binding.Binding
}

func NewAssign(name string, rhs Node) *Assign {
	n := &Assign{base: newBase(KindAssign, rhs), Name: name}
	attach(n, rhs)
	return n
}

func (n *Assign) RHS() Node { return n.children[0] }

// Ternary is cond ? then : else, an expression (unlike If).
type Ternary struct {
	base
}

func NewTernary(cond, then, els Node) *Ternary {
	n := &Ternary{base: newBase(KindTernary, cond, then, els)}
	attach(n, cond, then, els)
	return n
}

func (n *Ternary) Cond() Node { return n.children[0] }
func (n *Ternary) Then() Node { return n.children[1] }
func (n *Ternary) Else() Node { return n.children[2] }

// And/Or are the short-circuit logical operators.
type And struct{ base }
type Or struct{ base }

func NewAnd(left, right Node) *And {
	n := &And{base: newBase(KindAnd, left, right)}
	attach(n, left, right)
	return n
}

func NewOr(left, right Node) *Or {
	n := &Or{base: newBase(KindOr, left, right)}
	attach(n, left, right)
	return n
}

func (n *And) Left() Node  { return n.children[0] }
func (n *And) Right() Node { return n.children[1] }
func (n *Or) Left() Node   { return n.children[0] }
func (n *Or) Right() Node  { return n.children[1] }

// Vector is a literal [a, b, c, ...].
type Vector struct {
	base
}

func NewVector(elems ...Node) *Vector {
	n := &Vector{base: newBase(KindVector, elems...)}
	attach(n, elems...)
	return n
}

// Subscript is vec[index].
type Subscript struct {
	base
}

func NewSubscript(vec, index Node) *Subscript {
	n := &Subscript{base: newBase(KindSubscript, vec, index)}
	attach(n, vec, index)
	return n
}

func (n *Subscript) Vec() Node   { return n.children[0] }
func (n *Subscript) Index() Node { return n.children[1] }

// Unary is -x, !x, or ~x (one-minus "invert").
type Unary struct {
	base
	Op UnaryOp
}

func NewUnary(op UnaryOp, operand Node) *Unary {
	n := &Unary{base: newBase(KindUnary, operand), Op: op}
	attach(n, operand)
	return n
}

func (n *Unary) Operand() Node { return n.children[0] }

// Compare is ==, !=, <, >, <=, >=.
type Compare struct {
	base
	Op CompareOp
}

func NewCompare(op CompareOp, left, right Node) *Compare {
	n := &Compare{base: newBase(KindCompare, left, right), Op: op}
	attach(n, left, right)
	return n
}

func (n *Compare) Left() Node  { return n.children[0] }
func (n *Compare) Right() Node { return n.children[1] }

// Arith is +, -, *, /, %, ^.
type Arith struct {
	base
	Op ArithOp
}

func NewArith(op ArithOp, left, right Node) *Arith {
	n := &Arith{base: newBase(KindArith, left, right), Op: op}
	attach(n, left, right)
	return n
}

func (n *Arith) Left() Node  { return n.children[0] }
func (n *Arith) Right() Node { return n.children[1] }

// NumberLiteral carries a constant scalar.
type NumberLiteral struct {
	base
	Value float64
}

func NewNumberLiteral(v float64) *NumberLiteral {
	return &NumberLiteral{base: newBase(KindNumberLiteral), Value: v}
}

// StringLiteral carries a constant string, consumed only by function
// call nodes via an argument accessor; it is never eval'd directly.
type StringLiteral struct {
	base
	Value string
}

func NewStringLiteral(v string) *StringLiteral {
	return &StringLiteral{base: newBase(KindStringLiteral), Value: v}
}

// VarRef is a $name variable reference. Binding is populated by prep.
type VarRef struct {
	base
	Name    string
	Binding *binding.Binding
}

func NewVarRef(name string) *VarRef {
	return &VarRef{base: newBase(KindVarRef), Name: name}
}

// Call is a function call f(args...). Descriptor is populated by prep.
type Call struct {
	base
	Name       string
	Descriptor *registry.Descriptor
}

func NewCall(name string, args ...Node) *Call {
	n := &Call{base: newBase(KindCall, args...), Name: name}
	attach(n, args...)
	return n
}

func (n *Call) Args() []Node { return n.children }

// Package ast defines the expression engine's abstract syntax tree: a
// small, fixed set of tagged node variants rather than a deep class
// hierarchy. Every node embeds base, which carries the kind
// discriminator, the resolved type slot prep writes into, the node's
// owned children, and a non-owning parent back-pointer. Dispatch over
// node kinds happens via type-switch in the prep and eval packages, not
// via per-node virtual methods.
package ast

import "seshade/pkg/types"

// Kind discriminates the ~20 node variants this engine's grammar uses.
type Kind string

const (
	KindDefault       Kind = "Default"
	KindBlock         Kind = "Block"
	KindIf            Kind = "If"
	KindAssign        Kind = "Assign"
	KindTernary       Kind = "Ternary"
	KindAnd           Kind = "And"
	KindOr            Kind = "Or"
	KindVector        Kind = "Vector"
	KindSubscript     Kind = "Subscript"
	KindUnary         Kind = "Unary"
	KindCompare       Kind = "Compare"
	KindArith         Kind = "Arith"
	KindNumberLiteral Kind = "NumberLiteral"
	KindStringLiteral Kind = "StringLiteral"
	KindVarRef        Kind = "VarRef"
	KindCall          Kind = "Call"
)

// Node is implemented by every AST variant.
type Node interface {
	Kind() Kind
	Children() []Node
	Type() types.Type
	SetType(types.Type)
	Parent() Node

	setParent(Node)
}

// base is embedded by every concrete node and implements the common
// bookkeeping every variant needs: kind tag, resolved type, owned
// children, and the informational (non-owning) parent pointer.
type base struct {
	kind     Kind
	typ      types.Type
	children []Node
	parent   Node
}

func newBase(kind Kind, children ...Node) base {
	b := base{kind: kind, typ: types.Error, children: children}
	return b
}

func (b *base) Kind() Kind          { return b.kind }
func (b *base) Children() []Node    { return b.children }
func (b *base) Type() types.Type    { return b.typ }
func (b *base) SetType(t types.Type) { b.typ = t }
func (b *base) Parent() Node        { return b.parent }
func (b *base) setParent(p Node)    { b.parent = p }

// attach sets the owning node as parent of each of its children. Every
// constructor in this package that takes child nodes calls attach on
// the node it builds so Parent() is always populated for nodes that
// have one; the leaf constructors (number, string, variable reference)
// have no children to attach.
func attach(owner Node, children ...Node) {
	for _, c := range children {
		if c != nil {
			c.setParent(owner)
		}
	}
}

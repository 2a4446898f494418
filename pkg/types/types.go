// Package types implements the small static type lattice used by the
// expression engine's prep pass.
package types

import "fmt"

// Kind discriminates the handful of types the lattice supports.
type Kind int

const (
	KindError Kind = iota
	KindAny
	KindNone
	KindString
	KindFP
	KindNumeric
)

// Type is a node's static type, one of Error, Any, None, String, FP1,
// FPN(n), or Numeric. Values are immutable and comparable with ==.
type Type struct {
	kind  Kind
	width int // meaningful only for KindFP; 1 means scalar (FP1)
}

var (
	Error    = Type{kind: KindError}
	Any      = Type{kind: KindAny}
	None     = Type{kind: KindNone}
	String   = Type{kind: KindString}
	FP1      = Type{kind: KindFP, width: 1}
	Numeric  = Type{kind: KindNumeric}
)

// FPN returns the floating vector type of width n. n must be >= 1;
// FPN(1) is identical to FP1.
func FPN(n int) Type {
	if n < 1 {
		panic(fmt.Sprintf("types: FPN width must be >= 1, got %d", n))
	}
	return Type{kind: KindFP, width: n}
}

// Kind reports the type's discriminator.
func (t Type) Kind() Kind { return t.kind }

// IsFP reports whether t is FP1 or any FPN(n).
func (t Type) IsFP() bool { return t.kind == KindFP }

// IsFP1 reports whether t is exactly the scalar floating type.
func (t Type) IsFP1() bool { return t.kind == KindFP && t.width == 1 }

// Width returns the vector width of an FP type (1 for FP1). Calling
// Width on a non-FP type returns 0.
func (t Type) Width() int {
	if t.kind != KindFP {
		return 0
	}
	return t.width
}

// IsValid reports whether t is anything other than Error.
func (t Type) IsValid() bool { return t.kind != KindError }

// IsNumeric reports whether t is FP1, any FPN(n), or the abstract
// Numeric request type.
func (t Type) IsNumeric() bool {
	return t.kind == KindFP || t.kind == KindNumeric
}

// Isa reports whether t satisfies other, per the lattice's subtyping
// relation: FP1 isa FPN(n) for any n (scalar broadcast), FPN(n) isa
// Numeric, and every valid type isa Any. Error is-a nothing, not even
// itself, and never satisfies anything.
func (t Type) Isa(other Type) bool {
	if t.kind == KindError || other.kind == KindError {
		return false
	}
	if other.kind == KindAny {
		return true
	}
	if t == other {
		return true
	}
	if t.kind == KindFP && other.kind == KindFP {
		return t.width == 1 || t.width == other.width
	}
	if t.kind == KindFP && other.kind == KindNumeric {
		return true
	}
	return false
}

// CompatibleNum reports numeric compatibility: FP1 is compatible with
// any FPN(n), and two FPN of the same width are compatible. FPN of
// differing widths (both > 1) are not compatible. Non-numeric types
// are never compatible.
func (t Type) CompatibleNum(other Type) bool {
	if t.kind != KindFP || other.kind != KindFP {
		return false
	}
	if t.width == 1 || other.width == 1 {
		return true
	}
	return t.width == other.width
}

// String renders a human-readable name used in diagnostics.
func (t Type) String() string {
	switch t.kind {
	case KindError:
		return "error"
	case KindAny:
		return "any"
	case KindNone:
		return "none"
	case KindString:
		return "string"
	case KindNumeric:
		return "numeric"
	case KindFP:
		if t.width == 1 {
			return "float"
		}
		return fmt.Sprintf("float[%d]", t.width)
	default:
		return "unknown"
	}
}

// CommonWidth returns the resolved width for a binary numeric
// operation over two compatible operands: the wider of the two when
// one is a vector, or 1 when both are scalar. Callers must check
// CompatibleNum first; CommonWidth does not itself validate
// compatibility.
func CommonWidth(a, b Type) int {
	wa, wb := a.Width(), b.Width()
	if wa == 0 {
		wa = 1
	}
	if wb == 0 {
		wb = 1
	}
	if wa > wb {
		return wa
	}
	return wb
}

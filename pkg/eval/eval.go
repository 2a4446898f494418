// Package eval implements the bottom-up tree-walking interpreter: one
// dispatch function over the frozen, prepped AST producing a Value per
// node. Eval never fails; numeric pathologies follow Go's float64
// rules and surface as NaN/Inf (spec §7).
package eval

import (
	"math"

	"seshade/pkg/ast"
	"seshade/pkg/registry"
	"seshade/pkg/types"
	"seshade/pkg/value"
)

// Eval evaluates node and returns its Value. node must have already
// been successfully prepped; behavior on an unprepped or invalid tree
// is undefined (the spec says eval must not be called in that case).
func Eval(node ast.Node) value.Value {
	switch n := node.(type) {
	case *ast.Default:
		return evalDefault(n)
	case *ast.Block:
		return evalBlock(n)
	case *ast.If:
		return evalIf(n)
	case *ast.Assign:
		return evalAssign(n)
	case *ast.Ternary:
		return evalTernary(n)
	case *ast.And:
		return evalAnd(n)
	case *ast.Or:
		return evalOr(n)
	case *ast.Vector:
		return evalVector(n)
	case *ast.Subscript:
		return evalSubscript(n)
	case *ast.Unary:
		return evalUnary(n)
	case *ast.Compare:
		return evalCompare(n)
	case *ast.Arith:
		return evalArith(n)
	case *ast.NumberLiteral:
		return value.Scalar(n.Value)
	case *ast.StringLiteral:
		return value.Scalar(0)
	case *ast.VarRef:
		return evalVarRef(n)
	case *ast.Call:
		return evalCall(n)
	default:
		return value.Scalar(0)
	}
}

func evalDefault(n *ast.Default) value.Value {
	for _, c := range n.Children() {
		Eval(c)
	}
	return value.Scalar(0)
}

func evalBlock(n *ast.Block) value.Value {
	Eval(n.SideEffect())
	return Eval(n.Value())
}

func evalIf(n *ast.If) value.Value {
	cond := Eval(n.Cond())
	if cond.Lane0() != 0 {
		Eval(n.Then())
	} else {
		Eval(n.Else())
	}
	return value.Scalar(0)
}

func evalAssign(n *ast.Assign) value.Value {
	rhs := Eval(n.RHS())
	n.Binding.Cell.Value = [3]float64(rhs)
	return value.Scalar(0)
}

func evalTernary(n *ast.Ternary) value.Value {
	cond := Eval(n.Cond())
	var branch ast.Node
	if cond.Lane0() != 0 {
		branch = n.Then()
	} else {
		branch = n.Else()
	}
	result := Eval(branch)
	if n.Type().Width() > 1 && branch.Type().Width() == 1 {
		result = result.Broadcast()
	}
	return result
}

func evalAnd(n *ast.And) value.Value {
	left := Eval(n.Left())
	if left.Lane0() == 0 {
		return value.Scalar(0)
	}
	right := Eval(n.Right())
	return boolValue(right.Lane0() != 0)
}

func evalOr(n *ast.Or) value.Value {
	left := Eval(n.Left())
	if left.Lane0() != 0 {
		return value.Scalar(1)
	}
	right := Eval(n.Right())
	return boolValue(right.Lane0() != 0)
}

func boolValue(b bool) value.Value {
	if b {
		return value.Scalar(1)
	}
	return value.Scalar(0)
}

func evalVector(n *ast.Vector) value.Value {
	children := n.Children()
	if n.Type().Width() <= 1 {
		if len(children) == 0 {
			return value.Scalar(0)
		}
		return Eval(children[0])
	}
	var out value.Value
	for i, c := range children {
		if i > 2 {
			break
		}
		out[i] = Eval(c).Lane0()
	}
	return out
}

func evalSubscript(n *ast.Subscript) value.Value {
	a := Eval(n.Vec())
	b := Eval(n.Index())
	idx := int(math.Floor(b.Lane0()))
	if n.Vec().Type().Width() <= 1 {
		a = a.Broadcast()
	}
	return value.Scalar(a.At(idx))
}

func evalUnary(n *ast.Unary) value.Value {
	v := Eval(n.Operand())
	width := n.Type().Width()
	if width < 1 {
		width = 1
	}
	var out value.Value
	for i := 0; i < width && i < 3; i++ {
		x := v[i]
		switch n.Op {
		case ast.Negate:
			out[i] = -x
		case ast.Not:
			if x == 0 {
				out[i] = 1
			} else {
				out[i] = 0
			}
		case ast.Invert:
			out[i] = 1 - x
		}
	}
	return out
}

func evalCompare(n *ast.Compare) value.Value {
	lt := Eval(n.Left())
	rt := Eval(n.Right())
	switch n.Op {
	case ast.Eq, ast.Ne:
		if n.Left().Type().Width() <= 1 {
			lt = lt.Broadcast()
		}
		if n.Right().Type().Width() <= 1 {
			rt = rt.Broadcast()
		}
		allEqual := lt[0] == rt[0] && lt[1] == rt[1] && lt[2] == rt[2]
		if n.Op == ast.Eq {
			return boolValue(allEqual)
		}
		return boolValue(!allEqual)
	default:
		a, b := lt.Lane0(), rt.Lane0()
		switch n.Op {
		case ast.Lt:
			return boolValue(a < b)
		case ast.Gt:
			return boolValue(a > b)
		case ast.Le:
			return boolValue(a <= b)
		case ast.Ge:
			return boolValue(a >= b)
		}
		return value.Scalar(0)
	}
}

func evalArith(n *ast.Arith) value.Value {
	lt := Eval(n.Left())
	rt := Eval(n.Right())
	width := n.Type().Width()
	if width <= 1 {
		return value.Scalar(arithOp(n.Op, lt.Lane0(), rt.Lane0()))
	}
	if n.Left().Type().Width() <= 1 {
		lt = lt.Broadcast()
	}
	if n.Right().Type().Width() <= 1 {
		rt = rt.Broadcast()
	}
	var out value.Value
	for i := 0; i < 3; i++ {
		out[i] = arithOp(n.Op, lt[i], rt[i])
	}
	return out
}

func arithOp(op ast.ArithOp, a, b float64) float64 {
	switch op {
	case ast.Add:
		return a + b
	case ast.Sub:
		return a - b
	case ast.Mul:
		return a * b
	case ast.Div:
		return a / b
	case ast.Mod:
		if b == 0 {
			return 0
		}
		return a - math.Floor(a/b)*b
	case ast.Pow:
		return math.Pow(a, b)
	default:
		return 0
	}
}

func evalVarRef(n *ast.VarRef) value.Value {
	if n.Binding == nil {
		return value.Scalar(0)
	}
	if n.Binding.Cell != nil {
		return value.Value(n.Binding.Cell.Value)
	}
	return value.Value(n.Binding.Eval())
}

func evalCall(n *ast.Call) value.Value {
	desc := n.Descriptor
	if desc == nil {
		return value.Scalar(0)
	}
	args := n.Args()

	if desc.IsExtended() {
		evalChild := func(i int) [3]float64 {
			return [3]float64(Eval(args[i]))
		}
		return value.Value(desc.ExtEval(len(args), evalChild))
	}

	argVals := make([]value.Value, len(args))
	for i, a := range args {
		v := Eval(a)
		if a.Type().Width() <= 1 {
			v = v.Broadcast()
		}
		argVals[i] = v
	}

	if desc.IsVectorIn() {
		return evalVectorInCall(desc, argVals)
	}
	return evalScalarCall(desc, n.Type(), argVals)
}

func evalVectorInCall(desc *registry.Descriptor, argVals []value.Value) value.Value {
	vecs := make([][3]float64, len(argVals))
	for i, v := range argVals {
		vecs[i] = [3]float64(v)
	}
	switch desc.Sig {
	case registry.FUNC1V:
		return value.Scalar(desc.Fn.(registry.Func1V)(vecs[0]))
	case registry.FUNC2V:
		return value.Scalar(desc.Fn.(registry.Func2V)(vecs[0], vecs[1]))
	case registry.FUNCNV:
		return value.Scalar(desc.Fn.(registry.FuncNV)(vecs))
	case registry.FUNC1VV:
		return value.Value(desc.Fn.(registry.Func1VV)(vecs[0]))
	case registry.FUNC2VV:
		return value.Value(desc.Fn.(registry.Func2VV)(vecs[0], vecs[1]))
	case registry.FUNCNVV:
		return value.Value(desc.Fn.(registry.FuncNVV)(vecs))
	default:
		return value.Scalar(0)
	}
}

func evalScalarCall(desc *registry.Descriptor, nodeType types.Type, argVals []value.Value) value.Value {
	iterCount := 1
	if nodeType.Width() > 1 {
		iterCount = 3
	}

	var out value.Value
	for lane := 0; lane < iterCount; lane++ {
		lanes := make([]float64, len(argVals))
		for i, v := range argVals {
			lanes[i] = v.At(lane)
		}
		out[lane] = callScalar(desc, lanes)
		if iterCount == 1 {
			break
		}
	}
	return out
}

func callScalar(desc *registry.Descriptor, lanes []float64) float64 {
	switch desc.Sig {
	case registry.FUNC0:
		return desc.Fn.(registry.Func0)()
	case registry.FUNC1:
		return desc.Fn.(registry.Func1)(lanes[0])
	case registry.FUNC2:
		return desc.Fn.(registry.Func2)(lanes[0], lanes[1])
	case registry.FUNC3:
		return desc.Fn.(registry.Func3)(lanes[0], lanes[1], lanes[2])
	case registry.FUNC4:
		return desc.Fn.(registry.Func4)(lanes[0], lanes[1], lanes[2], lanes[3])
	case registry.FUNC5:
		return desc.Fn.(registry.Func5)(lanes[0], lanes[1], lanes[2], lanes[3], lanes[4])
	case registry.FUNC6:
		return desc.Fn.(registry.Func6)(lanes[0], lanes[1], lanes[2], lanes[3], lanes[4], lanes[5])
	case registry.FUNCN:
		return desc.Fn.(registry.FuncN)(lanes)
	default:
		return 0
	}
}

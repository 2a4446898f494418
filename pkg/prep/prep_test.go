package prep

import (
	"testing"

	"seshade/pkg/ast"
	"seshade/pkg/env"
	"seshade/pkg/registry"
	"seshade/pkg/resolver"
	"seshade/pkg/testseed"
	"seshade/pkg/types"
)

func prepSrc(t *testing.T, src string, wanted types.Type, reg *registry.Registry, res resolver.Resolver) (ast.Node, *Prepper) {
	t.Helper()
	root, err := testseed.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	p := New(res, reg)
	p.Prep(root, wanted, env.New(nil))
	return root, p
}

func TestPrepArithWidensVector(t *testing.T) {
	root, p := prepSrc(t, "[1,2,3] + [4,5,6]", types.Any, nil, nil)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	if root.Type().Width() != 3 {
		t.Fatalf("expected width 3, got %d", root.Type().Width())
	}
}

func TestPrepScalarBroadcastsIntoVector(t *testing.T) {
	root, p := prepSrc(t, "[1,2,3] + 1", types.Any, nil, nil)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	if root.Type().Width() != 3 {
		t.Fatalf("expected width 3, got %d", root.Type().Width())
	}
}

func TestPrepMismatchedVectorWidths(t *testing.T) {
	_, p := prepSrc(t, "[1,2,3] + [1,2]", types.Any, nil, nil)
	if p.IsValid() {
		t.Fatal("expected a diagnostic for mismatched vector widths")
	}
}

func TestPrepUndefinedVariable(t *testing.T) {
	_, p := prepSrc(t, "$undefined + 1", types.Any, nil, nil)
	if p.IsValid() {
		t.Fatal("expected a diagnostic for undefined variable")
	}
	if len(p.Diagnostics()) != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", len(p.Diagnostics()))
	}
}

func TestPrepUndefinedFunctionStillPrepsArgs(t *testing.T) {
	_, p := prepSrc(t, "nope($missing)", types.Any, nil, nil)
	diags := p.Diagnostics()
	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics (missing func + missing var), got %d: %v", len(diags), diags)
	}
}

func TestPrepIfBindingPromotion(t *testing.T) {
	src := "if (1) { $x = [1,2,3]; } else { $x = [4,5,6]; } $x[1]"
	root, p := prepSrc(t, src, types.Any, nil, nil)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	if root.Type() != types.FP1 {
		t.Fatalf("expected subscript result FP1, got %s", root.Type())
	}
}

func TestPrepIfBindingMismatch(t *testing.T) {
	src := "if (1) { $x = [1,2,3]; } else { $x = 4; } $x[1]"
	_, p := prepSrc(t, src, types.Any, nil, nil)
	if p.IsValid() {
		t.Fatal("expected a diagnostic for mismatched branch bindings")
	}
}

func TestPrepTernaryCorrectedIsaSense(t *testing.T) {
	root, p := prepSrc(t, "(5 > 3) ? [1,2,3] : [4,5,6]", types.FPN(3), nil, nil)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	if root.Type().Width() != 3 {
		t.Fatalf("expected width 3, got %d", root.Type().Width())
	}

	_, p2 := prepSrc(t, "(5 > 3) ? \"a\" : \"b\"", types.FPN(3), nil, nil)
	if p2.IsValid() {
		t.Fatal("expected a diagnostic: string branch does not satisfy a numeric wanted type")
	}
}

func TestPrepCallArityMismatch(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		Name: "add", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2,
		Fn: registry.Func2(func(a, b float64) float64 { return a + b }),
	})
	_, p := prepSrc(t, "add(1, 2, 3)", types.Any, reg, nil)
	if p.IsValid() {
		t.Fatal("expected a diagnostic for arity mismatch")
	}
}

func TestPrepVectorInFunctionRequestsWidth3(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		Name: "dot", ReturnType: types.FP1, MinArgs: 2, MaxArgs: 2, Sig: registry.FUNC2V,
		Fn: registry.Func2V(func(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }),
	})
	root, p := prepSrc(t, "dot([1,2,3], [4,5,6])", types.Any, reg, nil)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	if root.Type() != types.FP1 {
		t.Fatalf("expected FP1 result, got %s", root.Type())
	}
}

func TestPrepThreadUnsafeExtendedFunction(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		Name: "noisy", ReturnType: types.FP1, MinArgs: 0, MaxArgs: 0, Sig: registry.FUNCX,
		ThreadUnsafe: true,
		ExtPrep: func(childCount int, wanted types.Type, prepChild func(int, types.Type) types.Type) (types.Type, []string) {
			return types.FP1, nil
		},
	})
	_, p := prepSrc(t, "noisy()", types.Any, reg, nil)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	unsafe := p.ThreadUnsafeFuncs()
	if len(unsafe) != 1 || unsafe[0] != "noisy" {
		t.Fatalf("expected [noisy], got %v", unsafe)
	}
}

func TestPrepHostResolverTakesPriority(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		Name: "pi", ReturnType: types.FP1, MinArgs: 0, MaxArgs: 0, Sig: registry.FUNC0,
		Fn: registry.Func0(func() float64 { return 3.14 }),
	})
	host := &resolver.Map{Funcs: map[string]*registry.Descriptor{
		"pi": {Name: "pi", ReturnType: types.FP1, MinArgs: 0, MaxArgs: 0, Sig: registry.FUNC0,
			Fn: registry.Func0(func() float64 { return 3.0 })},
	}}
	root, p := prepSrc(t, "pi()", types.Any, reg, host)
	if !p.IsValid() {
		t.Fatalf("unexpected diagnostics: %v", p.Diagnostics())
	}
	call := root.(*ast.Call)
	if call.Descriptor.Fn.(registry.Func0)() != 3.0 {
		t.Fatal("expected host resolver's descriptor to win over the registry")
	}
}

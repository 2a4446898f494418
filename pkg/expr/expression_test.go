package expr

import (
	"testing"

	"seshade/pkg/ast"
	"seshade/pkg/binding"
	"seshade/pkg/registry"
	"seshade/pkg/resolver"
	"seshade/pkg/types"
	"seshade/pkg/value"
)

func TestExpressionLifecycleValid(t *testing.T) {
	e := New(nil)
	e.SetExpression("1 + 2 * 3")
	if err := e.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !e.Prep() {
		t.Fatalf("Prep: expected valid, errors: %v", e.Errors())
	}
	if !e.IsValid() {
		t.Fatal("expected IsValid true")
	}
	got := e.Evaluate()
	want := value.Scalar(7)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpressionParseErrorKeepsInvalid(t *testing.T) {
	e := New(nil)
	e.SetExpression("1 + )")
	if err := e.Parse(); err == nil {
		t.Fatal("expected a parse error")
	}
	if e.IsValid() {
		t.Fatal("expected IsValid false after a parse error")
	}
}

func TestExpressionPrepFailureRecordsDiagnostics(t *testing.T) {
	e := New(nil)
	e.SetExpression("$undefined + 1")
	if err := e.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if e.Prep() {
		t.Fatal("expected Prep to report invalid")
	}
	if len(e.Errors()) == 0 {
		t.Fatal("expected at least one diagnostic")
	}
	if e.IsValid() {
		t.Fatal("expected IsValid false")
	}
}

func TestExpressionEvaluateOnInvalidReturnsZero(t *testing.T) {
	e := New(nil)
	e.SetExpression("$undefined + 1")
	e.Parse()
	e.Prep()
	got := e.Evaluate()
	if got != (value.Value{}) {
		t.Fatalf("expected zero value, got %v", got)
	}
}

func TestExpressionBoundResolverSuppliesExternalVariable(t *testing.T) {
	cell := &binding.Binding{
		Origin: binding.External,
		Type:   types.FP1,
		Eval:   func() [3]float64 { return [3]float64{9, 0, 0} },
	}
	host := &resolver.Map{Vars: map[string]*binding.Binding{"u": cell}}

	e := New(nil)
	e.BindResolver(host)
	e.SetExpression("$u * 2")
	if err := e.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !e.Prep() {
		t.Fatalf("Prep: expected valid, errors: %v", e.Errors())
	}
	got := e.Evaluate()
	want := value.Scalar(18)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpressionSetRootBypassesParse(t *testing.T) {
	e := New(nil)
	e.SetRoot(ast.NewArith(ast.Add, ast.NewNumberLiteral(4), ast.NewNumberLiteral(5)))
	if !e.Prep() {
		t.Fatalf("Prep: expected valid, errors: %v", e.Errors())
	}
	got := e.Evaluate()
	want := value.Scalar(9)
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpressionReturnTypeAndThreadUnsafe(t *testing.T) {
	reg := registry.New()
	reg.Register(&registry.Descriptor{
		Name: "unsafeFn", ReturnType: types.FP1, MinArgs: 0, MaxArgs: 0, Sig: registry.FUNCX,
		ThreadUnsafe: true,
		ExtPrep: func(childCount int, wanted types.Type, prepChild func(int, types.Type) types.Type) (types.Type, []string) {
			return types.FP1, nil
		},
		ExtEval: func(childCount int, evalChild func(int) [3]float64) [3]float64 {
			return [3]float64{1, 0, 0}
		},
	})

	e := New(reg)
	e.SetExpression("unsafeFn()")
	if err := e.Parse(); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !e.Prep() {
		t.Fatalf("Prep: expected valid, errors: %v", e.Errors())
	}
	if e.ReturnType() != types.FP1 {
		t.Fatalf("expected FP1, got %s", e.ReturnType())
	}
	if !e.ThreadUnsafe() {
		t.Fatal("expected ThreadUnsafe true")
	}
	unsafe := e.ThreadUnsafeFuncs()
	if len(unsafe) != 1 || unsafe[0] != "unsafeFn" {
		t.Fatalf("expected [unsafeFn], got %v", unsafe)
	}
}

package builtins

import (
	"math"
	"testing"

	"seshade/pkg/env"
	"seshade/pkg/eval"
	"seshade/pkg/prep"
	"seshade/pkg/registry"
	"seshade/pkg/testseed"
	"seshade/pkg/types"
)

func evalSrc(t *testing.T, reg *registry.Registry, src string) float64 {
	t.Helper()
	root, err := testseed.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	p := prep.New(nil, reg)
	p.Prep(root, types.Any, env.New(nil))
	if !p.IsValid() {
		t.Fatalf("prep %q: %v", src, p.Diagnostics())
	}
	return eval.Eval(root).Lane0()
}

func TestClampAndMinMax(t *testing.T) {
	reg := registry.New()
	Register(reg)
	if got := evalSrc(t, reg, "clamp(5, 0, 3)"); got != 3 {
		t.Fatalf("clamp: got %v", got)
	}
	if got := evalSrc(t, reg, "max(2, 7)"); got != 7 {
		t.Fatalf("max: got %v", got)
	}
	if got := evalSrc(t, reg, "min(2, 7)"); got != 2 {
		t.Fatalf("min: got %v", got)
	}
}

func TestTrigDegrees(t *testing.T) {
	reg := registry.New()
	Register(reg)
	got := evalSrc(t, reg, "sind(90)")
	if math.Abs(got-1) > 1e-9 {
		t.Fatalf("sind(90): got %v", got)
	}
}

func TestVectorDotAndLength(t *testing.T) {
	reg := registry.New()
	Register(reg)
	if got := evalSrc(t, reg, "dot([1,0,0], [0,1,0])"); got != 0 {
		t.Fatalf("dot: got %v", got)
	}
	if got := evalSrc(t, reg, "length([3,4,0])"); got != 5 {
		t.Fatalf("length: got %v", got)
	}
}

func TestMix(t *testing.T) {
	reg := registry.New()
	Register(reg)
	if got := evalSrc(t, reg, "mix(0, 10, 0.5)"); got != 5 {
		t.Fatalf("mix: got %v", got)
	}
}

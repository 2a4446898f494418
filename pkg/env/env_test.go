package env

import (
	"testing"

	"seshade/pkg/binding"
	"seshade/pkg/types"
)

func TestFindWalksChain(t *testing.T) {
	parent := New(nil)
	parent.Add("x", binding.NewLocal(types.FP1))
	child := parent.NewScope()

	b, ok := child.Find("x")
	if !ok {
		t.Fatal("Find(x) not found via parent chain")
	}
	if b.Type != types.FP1 {
		t.Errorf("Find(x).Type = %v, want FP1", b.Type)
	}
	if _, ok := child.Find("missing"); ok {
		t.Error("Find(missing) unexpectedly found")
	}
}

func TestAddShadowsInnerScope(t *testing.T) {
	parent := New(nil)
	parent.Add("x", binding.NewLocal(types.FP1))
	child := parent.NewScope()
	child.Add("x", binding.NewLocal(types.FPN(3)))

	b, _ := child.Find("x")
	if b.Type != types.FPN(3) {
		t.Errorf("shadowed Find(x).Type = %v, want FPN(3)", b.Type)
	}
	pb, _ := parent.Find("x")
	if pb.Type != types.FP1 {
		t.Errorf("parent Find(x).Type = %v, want FP1 (unaffected by child shadow)", pb.Type)
	}
}

func TestChangesMatch(t *testing.T) {
	base := New(nil)
	a := base.NewScope()
	b := base.NewScope()

	a.Add("x", binding.NewLocal(types.FP1))
	b.Add("x", binding.NewLocal(types.FP1))
	if !ChangesMatch(a, b) {
		t.Error("ChangesMatch: expected match for identical single binding")
	}

	c := base.NewScope()
	c.Add("x", binding.NewLocal(types.FPN(3)))
	if ChangesMatch(a, c) {
		t.Error("ChangesMatch: expected mismatch for differing types")
	}

	d := base.NewScope()
	d.Add("y", binding.NewLocal(types.FP1))
	if ChangesMatch(a, d) {
		t.Error("ChangesMatch: expected mismatch for differing names")
	}
}

func TestMergePromotesBindings(t *testing.T) {
	outer := New(nil)
	inner := outer.NewScope()
	inner.Add("x", binding.NewLocal(types.FP1))

	outer.Merge(inner)
	if _, ok := outer.Find("x"); !ok {
		t.Error("Merge did not promote inner binding into outer scope")
	}
}

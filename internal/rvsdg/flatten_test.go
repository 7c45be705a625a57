package rvsdg

import (
	"testing"

	"rvsdgc/internal/types"
)

func TestFlattenAssociativeCascade(t *testing.T) {
	g := NewGraph()
	bits32 := types.BitString(32)
	a := g.AddImport(bits32, "a")
	b := g.AddImport(bits32, "b")
	c := g.AddImport(bits32, "c")
	d := g.AddImport(bits32, "d")

	ab := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{a, b})
	abc := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{ab.Outputs()[0], c})
	abcd := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{abc.Outputs()[0], d})

	flat, ok := FlattenAssociative(g.Root(), abcd, nil)
	if !ok {
		t.Fatal("expected a flattened node")
	}
	fop, ok := flat.Operation.(*FlattenedBinaryOp)
	if !ok {
		t.Fatalf("operation = %T, want *FlattenedBinaryOp", flat.Operation)
	}
	if fop.Arity != 4 {
		t.Fatalf("arity = %d, want 4", fop.Arity)
	}
	gotOperands := make([]*Output, len(flat.Inputs()))
	for i, in := range flat.Inputs() {
		gotOperands[i] = in.Origin()
	}
	want := []*Output{a, b, c, d}
	for i := range want {
		if gotOperands[i] != want[i] {
			t.Errorf("operand %d = %v, want %v", i, gotOperands[i], want[i])
		}
	}
}

func TestFlattenRejectsNonAssociative(t *testing.T) {
	g := NewGraph()
	bits32 := types.BitString(32)
	a := g.AddImport(bits32, "a")
	b := g.AddImport(bits32, "b")
	sub := g.Root().AddSimpleNode(NewBitBinaryOp(BitSub, bits32), []*Output{a, b})

	if _, ok := FlattenAssociative(g.Root(), sub, nil); ok {
		t.Fatal("sub is not associative and should not flatten")
	}
}

func TestFlattenGatedByNormalForm(t *testing.T) {
	g := NewGraph()
	bits32 := types.BitString(32)
	a := g.AddImport(bits32, "a")
	b := g.AddImport(bits32, "b")
	c := g.AddImport(bits32, "c")
	ab := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{a, b})
	abc := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{ab.Outputs()[0], c})

	forms := NewNormalFormRegistry()
	forms.For(OpBitBinary).SetFlatten(false)

	if _, ok := FlattenAssociative(g.Root(), abc, forms); ok {
		t.Fatal("flatten should be suppressed when the normal form disables it")
	}
}

func TestExpandLinearAndParallel(t *testing.T) {
	g := NewGraph()
	bits32 := types.BitString(32)
	operands := []*Output{
		g.AddImport(bits32, "a"),
		g.AddImport(bits32, "b"),
		g.AddImport(bits32, "c"),
		g.AddImport(bits32, "d"),
	}
	flat := g.Root().AddSimpleNode(NewFlattenedBinaryOp(BitAdd, bits32, 4), operands)

	linear, ok := Expand(g.Root(), flat, ExpandLinear)
	if !ok {
		t.Fatal("expected linear expansion to succeed")
	}
	if _, ok := linear.Operation.(*BitBinaryOp); !ok {
		t.Fatalf("linear expansion's root operation = %T, want *BitBinaryOp", linear.Operation)
	}

	flat2 := g.Root().AddSimpleNode(NewFlattenedBinaryOp(BitAdd, bits32, 4), operands)
	parallel, ok := Expand(g.Root(), flat2, ExpandParallel)
	if !ok {
		t.Fatal("expected parallel expansion to succeed")
	}
	if parallel.Depth() >= linear.Depth() {
		t.Errorf("parallel expansion depth %d should be less than linear's %d for 4 operands", parallel.Depth(), linear.Depth())
	}
}

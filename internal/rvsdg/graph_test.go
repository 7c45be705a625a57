package rvsdg

import (
	"testing"

	"rvsdgc/internal/types"
)

func TestGraphImportExport(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")

	if x.Type().Kind() != types.KindBitString {
		t.Fatalf("import type = %v, want bitstring", x.Type().Kind())
	}

	g.AddExport(x, "result")
	if g.ExportName(0) != "result" {
		t.Errorf("ExportName(0) = %q, want %q", g.ExportName(0), "result")
	}
	if len(g.Root().Results()) != 1 {
		t.Fatalf("root region has %d results, want 1", len(g.Root().Results()))
	}
}

func TestAddSimpleNodeTypeMismatch(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")
	y := g.AddImport(types.BitString(64), "y")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on operand type mismatch")
		}
	}()
	g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, y})
}

func TestAddSimpleNodeArityMismatch(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on operand arity mismatch")
		}
	}()
	g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x})
}

func TestDepthPropagation(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")
	y := g.AddImport(types.BitString(32), "y")

	n1 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, y})
	if n1.Depth() != 1 {
		t.Fatalf("n1 depth = %d, want 1", n1.Depth())
	}

	n2 := g.Root().AddSimpleNode(NewBitBinaryOp(BitMul, types.BitString(32)), []*Output{n1.Outputs()[0], y})
	if n2.Depth() != 2 {
		t.Fatalf("n2 depth = %d, want 2", n2.Depth())
	}

	// Diverting y to a deeper producer must cascade through every
	// transitive consumer of y, not just the node whose input changed
	// directly.
	n0 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, x})
	n3 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{n0.Outputs()[0], n0.Outputs()[0]})
	y.DivertUsers(n3.Outputs()[0])

	for _, n := range []Node{n1, n2, n3} {
		want := 0
		for _, in := range n.Inputs() {
			if p := in.Origin().Node(); p != nil && p.Depth()+1 > want {
				want = p.Depth() + 1
			}
		}
		if n.Depth() != want {
			t.Errorf("%s depth = %d, want %d (invariant violated after cascade)", n, n.Depth(), want)
		}
	}
}

func TestRegionLocalityViolation(t *testing.T) {
	g := NewGraph()
	outerX := g.AddImport(types.BitString(32), "x")

	gamma := NewGamma(g.Root(), mustBit1(g), 2)
	_, args := gamma.AddEntryVar(outerX)
	body := gamma.Subregions()[0]

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic referencing a sibling subregion's argument")
		}
	}()
	body.AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{args[1], args[1]})
}

func TestEntryVarCrossesIntoSubregion(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")

	gamma := NewGamma(g.Root(), mustBit1(g), 2)
	_, args := gamma.AddEntryVar(x)
	if len(args) != 2 {
		t.Fatalf("AddEntryVar returned %d subregion arguments, want 2", len(args))
	}
	for i, sub := range gamma.Subregions() {
		n := sub.AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{args[i], args[i]})
		if n.Depth() != 1 {
			t.Errorf("subregion %d node depth = %d, want 1", i, n.Depth())
		}
	}
}

func TestRemoveRequiresNoUsers(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")
	n := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, x})
	g.AddExport(n.Outputs()[0], "out")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic removing a node whose output still has a user")
		}
	}()
	n.Remove()
}

// mustBit1 builds a throwaway match-producing node to stand in for a
// gamma predicate in tests that don't care about its concrete origin.
func mustBit1(g *Graph) *Output {
	sel := g.AddImport(types.BitString(32), "selector")
	n := g.Root().AddSimpleNode(NewMatchOp(types.BitString(32), 2), []*Output{sel})
	return n.Outputs()[0]
}

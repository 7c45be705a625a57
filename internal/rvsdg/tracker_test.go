package rvsdg

import (
	"testing"

	"rvsdgc/internal/types"
)

const (
	stateReady = iota
	stateDone
)

func TestTrackerPeekBottomTop(t *testing.T) {
	g := NewGraph()
	tr := NewTracker(g, 2)
	defer tr.Close()

	x := g.AddImport(types.BitString(32), "x")
	n1 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, x})
	n2 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{n1.Outputs()[0], n1.Outputs()[0]})

	tr.SetState(n1, stateReady)
	tr.SetState(n2, stateReady)

	bottom, ok := tr.PeekBottom(stateReady)
	if !ok || bottom != n1 {
		t.Fatalf("PeekBottom = %v, want n1", bottom)
	}
	top, ok := tr.PeekTop(stateReady)
	if !ok || top != n2 {
		t.Fatalf("PeekTop = %v, want n2", top)
	}
	if tr.Count(stateReady) != 2 {
		t.Fatalf("Count(stateReady) = %d, want 2", tr.Count(stateReady))
	}
	if tr.Count(stateDone) != 0 {
		t.Fatalf("Count(stateDone) = %d, want 0", tr.Count(stateDone))
	}
}

func TestTrackerFollowsDepthChange(t *testing.T) {
	g := NewGraph()
	tr := NewTracker(g, 1)
	defer tr.Close()

	x := g.AddImport(types.BitString(32), "x")
	y := g.AddImport(types.BitString(32), "y")
	shallow := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, y})
	// deeper is built from a chain entirely independent of y, so diverting
	// y into it below cannot create a cycle.
	mid := g.Root().AddSimpleNode(NewBitBinaryOp(BitMul, types.BitString(32)), []*Output{x, x})
	deeper := g.Root().AddSimpleNode(NewBitBinaryOp(BitMul, types.BitString(32)), []*Output{mid.Outputs()[0], mid.Outputs()[0]})

	tr.SetState(shallow, 0)
	tr.SetState(deeper, 0)

	if bottom, _ := tr.PeekBottom(0); bottom != shallow {
		t.Fatalf("PeekBottom = %v, want shallow (depth %d < deeper's %d)", bottom, shallow.Depth(), deeper.Depth())
	}

	// Divert y into deeper's (independent) chain, which increases
	// shallow's depth past deeper's. The tracker's bucket ordering must
	// follow.
	y.DivertUsers(deeper.Outputs()[0])
	if shallow.Depth() <= deeper.Depth() {
		t.Fatalf("test setup invalid: shallow depth %d did not overtake deeper depth %d", shallow.Depth(), deeper.Depth())
	}

	if bottom, _ := tr.PeekBottom(0); bottom != deeper {
		t.Fatalf("PeekBottom after divert = %v, want deeper (now shallower than %v)", bottom, shallow)
	}
	if top, _ := tr.PeekTop(0); top != shallow {
		t.Fatalf("PeekTop after divert = %v, want shallow (now the deepest)", top)
	}
}

func TestTrackerUntracksOnDestroy(t *testing.T) {
	g := NewGraph()
	tr := NewTracker(g, 1)
	defer tr.Close()

	x := g.AddImport(types.BitString(32), "x")
	n := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{x, x})
	tr.SetState(n, 0)

	n.Remove()
	if _, ok := tr.State(n); ok {
		t.Fatal("destroyed node should no longer be tracked")
	}
	if _, ok := tr.PeekBottom(0); ok {
		t.Fatal("PeekBottom should find nothing after the only tracked node was destroyed")
	}
}

package aggregate

import (
	"strings"
	"testing"

	"rvsdgc/internal/cfg"
)

// countKind walks the tree counting nodes of the given kind.
func countKind(n *Node, k Kind) int {
	if n == nil {
		return 0
	}
	c := 0
	if n.Kind == k {
		c++
	}
	for _, ch := range n.Children {
		c += countKind(ch, k)
	}
	return c
}

func TestAggregateIfThenElse(t *testing.T) {
	g := cfg.NewCFG()
	s := g.AddBlock("S")
	tArm := g.AddBlock("T")
	fArm := g.AddBlock("F")
	j := g.AddBlock("J")

	g.AddEdge(g.Entry, 0, s)
	g.AddEdge(s, 0, tArm)
	g.AddEdge(s, 1, fArm)
	g.AddEdge(tArm, 0, j)
	g.AddEdge(fArm, 0, j)
	g.AddEdge(j, 0, g.Exit)

	cfg.RestructureBranches(g, g.Entry)

	root, err := Aggregate(g)
	if err != nil {
		t.Fatalf("Aggregate failed on a structured if-then-else CFG: %v", err)
	}
	if got := countKind(root, KindBranch); got != 1 {
		t.Errorf("branch node count = %d, want 1", got)
	}
	if root.Kind != KindLinear {
		t.Errorf("root kind = %v, want linear", root.Kind)
	}
}

func TestAggregateSimpleLoop(t *testing.T) {
	g := cfg.NewCFG()
	body := g.AddBlock("body")
	after := g.AddBlock("after")

	g.AddEdge(g.Entry, 0, body)
	g.AddEdge(body, 1, body)
	g.AddEdge(body, 0, after)
	g.AddEdge(after, 0, g.Exit)

	cfg.RestructureLoops(g)
	cfg.RestructureBranches(g, g.Entry)
	g.RestoreBackEdges()

	root, err := Aggregate(g)
	if err != nil {
		t.Fatalf("Aggregate failed on a structured loop CFG: %v", err)
	}
	if got := countKind(root, KindLoop); got != 1 {
		t.Errorf("loop node count = %d, want 1", got)
	}
}

// TestAggregateFailsOnIrreducibleControlFlow checks that aggregation
// reports failure (rather than silently producing a wrong tree) when
// handed a CFG whose control flow was never restructured, since an
// unrestructured cycle leaves vertices whose reduction never converges to
// one (property 2: aggregate succeeds for structured CFGs, fails for
// non-structured ones).
func TestAggregateFailsOnIrreducibleControlFlow(t *testing.T) {
	g := cfg.NewCFG()
	a := g.AddBlock("A")
	b := g.AddBlock("B")
	g.AddEdge(g.Entry, 0, a)
	g.AddEdge(a, 0, b)
	g.AddEdge(b, 0, a) // raw cycle, never restructured

	if _, err := Aggregate(g); err == nil {
		t.Fatal("expected Aggregate to fail on an unrestructured cyclic CFG")
	} else if !strings.Contains(err.Error(), "irreducible") {
		t.Errorf("error = %q, want it to mention irreducible control flow", err.Error())
	}
}

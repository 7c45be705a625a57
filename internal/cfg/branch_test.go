package cfg

import "testing"

// TestRestructureIfThenElse builds the canonical if/then/else diamond
// (S branches to T and F, both rejoining at J) and checks the branch
// phase leaves it with a single continuation point reached from both
// arms, with no further synthesis needed since there's already exactly
// one continuation point.
func TestRestructureIfThenElse(t *testing.T) {
	g := NewCFG()
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

	RestructureBranches(g, g.Entry)

	reachesJ := 0
	for _, arm := range []*Block{tArm, fArm} {
		for _, succ := range arm.Successors() {
			if succ == j {
				reachesJ++
			}
		}
	}
	if reachesJ != 2 {
		t.Fatalf("expected both arms to still reach J directly (single continuation point), got %d", reachesJ)
	}
}

// TestRestructureMultiContinuation builds a branch whose two arms escape
// to two distinct continuation points and checks a dispatcher block is
// synthesized with a match TAC selecting between them.
func TestRestructureMultiContinuation(t *testing.T) {
	g := NewCFG()
	s := g.AddBlock("S")
	tArm := g.AddBlock("T")
	fArm := g.AddBlock("F")
	cp1 := g.AddBlock("CP1")
	cp2 := g.AddBlock("CP2")
	other1 := g.AddBlock("OTHER1")
	other2 := g.AddBlock("OTHER2")

	g.AddEdge(g.Entry, 0, s)
	g.AddEdge(s, 0, tArm)
	g.AddEdge(s, 1, fArm)
	g.AddEdge(tArm, 0, cp1)
	g.AddEdge(fArm, 0, cp2)
	// A second predecessor on each continuation point keeps it from being
	// absorbed into the arm's dominator set, so it stays a genuine,
	// distinct continuation point for each arm.
	g.AddEdge(other1, 0, cp1)
	g.AddEdge(other2, 0, cp2)
	g.AddEdge(cp1, 0, g.Exit)
	g.AddEdge(cp2, 0, g.Exit)

	RestructureBranches(g, g.Entry)

	found := false
	for _, blk := range g.Blocks() {
		for _, t := range blk.TACs {
			if t.Op == "match" && len(blk.Out) == 2 {
				found = true
			}
		}
	}
	if !found {
		t.Fatal("expected a synthesized dispatcher block with a 2-way match")
	}
}

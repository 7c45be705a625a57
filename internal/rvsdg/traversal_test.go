package rvsdg

import (
	"testing"

	"rvsdgc/internal/types"
)

func TestTopDownTraverserOrder(t *testing.T) {
	g := NewGraph()
	bits32 := types.BitString(32)
	x := g.AddImport(bits32, "x")
	y := g.AddImport(bits32, "y")

	n1 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{x, y})
	n2 := g.Root().AddSimpleNode(NewBitBinaryOp(BitMul, bits32), []*Output{n1.Outputs()[0], y})
	n3 := g.Root().AddSimpleNode(NewBitBinaryOp(BitSub, bits32), []*Output{n2.Outputs()[0], n1.Outputs()[0]})

	tv := NewTopDownTraverser(g.Root())
	seen := map[Node]int{}
	order := 0
	for {
		n, ok := tv.Next()
		if !ok {
			break
		}
		seen[n] = order
		order++
	}

	if seen[n1] >= seen[n2] || seen[n2] >= seen[n3] {
		t.Fatalf("traversal order violated dependency order: n1=%d n2=%d n3=%d", seen[n1], seen[n2], seen[n3])
	}
	if len(seen) != 3 {
		t.Fatalf("visited %d nodes, want 3", len(seen))
	}
}

func TestTopDownTraverserPicksUpInsertions(t *testing.T) {
	g := NewGraph()
	bits32 := types.BitString(32)
	x := g.AddImport(bits32, "x")
	n1 := g.Root().AddSimpleNode(NewBitBinaryOp(BitAdd, bits32), []*Output{x, x})

	tv := NewTopDownTraverser(g.Root())
	var inserted *SimpleNode
	count := 0
	tv.Each(func(n Node) {
		count++
		if n == n1 && inserted == nil {
			inserted = g.Root().AddSimpleNode(NewBitBinaryOp(BitMul, bits32), []*Output{n1.Outputs()[0], n1.Outputs()[0]})
		}
	})

	if inserted == nil {
		t.Fatal("test setup failed to insert a node mid-traversal")
	}
	if count != 2 {
		t.Fatalf("visited %d nodes, want 2 (n1 and the node inserted during its visit)", count)
	}
}

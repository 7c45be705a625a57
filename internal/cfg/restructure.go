package cfg

import (
	"fmt"

	"rvsdgc/internal/types"
)

var freshCounter int

func fresh(prefix string) string {
	freshCounter++
	return fmt.Sprintf("%s%d", prefix, freshCounter)
}

// bits returns the number of bits needed to represent n distinct values,
// i.e. ceil(log2(n)), with a floor of 1 (match/branch operands are never
// zero-width).
func bits(n int) int {
	if n <= 1 {
		return 1
	}
	w := 0
	for v := 1; v < n; v <<= 1 {
		w++
	}
	return w
}

// RestructureLoops implements the loop phase of §4.4: for every
// strongly-connected component (Tarjan), either confirms it is already a
// single-entry/single-exit single-back-edge region, or synthesizes a
// dispatcher/tail structure that makes it one. It recurses into the
// resulting acyclic body of every loop found, so nested loops are each
// restructured independently.
func RestructureLoops(g *CFG) {
	restructureLoopsFrom(g, g.Entry)
}

func restructureLoopsFrom(g *CFG, start *Block) {
	sccs := tarjanSCC(start)
	for _, comp := range sccs {
		if !isGenuineLoop(comp) {
			continue
		}
		inSCC := map[*Block]bool{}
		for _, b := range comp {
			inSCC[b] = true
		}
		restructureOneLoop(g, inSCC)
	}
}

// restructureOneLoop restructures a single SCC s into a well-formed loop:
// single entry edge, single exit edge, single repetition edge sharing the
// exit's source.
func restructureOneLoop(g *CFG, inSCC map[*Block]bool) {
	type edgeRef struct {
		from, to *Block
		idx      int
	}
	var entryEdges, exitEdges, repEdges []edgeRef
	entryVerts := map[*Block]bool{}
	exitVerts := map[*Block]bool{}

	touching := allBlocksTouching(inSCC)
	for _, b := range touching {
		for _, e := range b.Out {
			if !inSCC[b] && inSCC[e.To] {
				entryVerts[e.To] = true
			}
		}
	}
	for _, b := range touching {
		for _, e := range b.Out {
			inSrc, inDst := inSCC[b], inSCC[e.To]
			switch {
			case !inSrc && inDst:
				entryEdges = append(entryEdges, edgeRef{b, e.To, e.Index})
				entryVerts[e.To] = true
			case inSrc && !inDst:
				exitEdges = append(exitEdges, edgeRef{b, e.To, e.Index})
				exitVerts[e.To] = true
			case inSrc && inDst && entryVerts[e.To]:
				repEdges = append(repEdges, edgeRef{b, e.To, e.Index})
			}
		}
	}

	wellFormed := len(entryEdges) == 1 && len(repEdges) == 1 && len(exitEdges) == 1 &&
		repEdges[0].from == exitEdges[0].from
	if wellFormed {
		from := repEdges[0].from
		to := repEdges[0].to
		g.RemoveEdge(from, to)
		g.recordBackEdge(from, repEdges[0].idx, to)
		restructureLoopsFrom(g, entryEdges[0].to)
		return
	}

	var entryList, exitList []*Block
	for b := range entryVerts {
		entryList = append(entryList, b)
	}
	for b := range exitVerts {
		exitList = append(exitList, b)
	}

	qBits := bits(max2(len(entryList), len(exitList)))
	qType := types.BitString(uint(qBits))
	rType := types.BitString(1)
	qVar := &Variable{Name: fresh("q"), Type: qType}
	rVar := &Variable{Name: fresh("r"), Type: rType}

	tail := g.AddBlock(fresh("loop_tail"))

	var newEntry *Block = entryList[0]
	entryIndex := map[*Block]int{}
	if len(entryList) > 1 {
		newEntry = g.AddBlock(fresh("loop_dispatch_entry"))
		newEntry.AddTAC(NewTAC("match", []*Variable{qVar}, nil))
		for i, ev := range entryList {
			entryIndex[ev] = i
			g.AddEdge(newEntry, i, ev)
		}
	}

	var newExit *Block
	exitIndex := map[*Block]int{}
	if len(exitList) > 1 {
		newExit = g.AddBlock(fresh("loop_dispatch_exit"))
		newExit.AddTAC(NewTAC("match", []*Variable{qVar}, nil))
		for i, xv := range exitList {
			exitIndex[xv] = i
			g.AddEdge(newExit, i, xv)
		}
	} else {
		newExit = exitList[0]
	}

	for _, ee := range entryEdges {
		if len(entryList) > 1 {
			assign := g.AddBlock(fresh("loop_entry_assign"))
			assign.AddTAC(NewConstTAC(qVar, int64(entryIndex[ee.to])))
			g.RedirectEdge(ee.from, ee.to, assign)
			g.AddEdge(assign, 0, newEntry)
		} else {
			g.RedirectEdge(ee.from, ee.to, newEntry)
		}
	}

	for _, xe := range exitEdges {
		assign := g.AddBlock(fresh("loop_exit_assign"))
		assign.AddTAC(NewConstTAC(rVar, 0))
		if len(exitList) > 1 {
			assign.AddTAC(NewConstTAC(qVar, int64(exitIndex[xe.to])))
		}
		g.RedirectEdge(xe.from, xe.to, assign)
		g.AddEdge(assign, 0, tail)
	}
	for _, re := range repEdges {
		assign := g.AddBlock(fresh("loop_rep_assign"))
		assign.AddTAC(NewConstTAC(rVar, 1))
		if len(entryList) > 1 {
			assign.AddTAC(NewConstTAC(qVar, int64(entryIndex[re.to])))
		}
		g.RedirectEdge(re.from, re.to, assign)
		g.AddEdge(assign, 0, tail)
	}

	tail.AddTAC(NewTAC("match", []*Variable{rVar}, nil))
	g.recordBackEdge(tail, 1, newEntry)
	g.AddEdge(tail, 0, newExit)

	restructureLoopsFrom(g, newEntry)
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// allBlocksTouching returns every block reachable from any block in the
// SCC together with the SCC's own members, which is a superset sufficient
// for discovering every entry/exit/repetition edge (we only inspect
// outgoing edges of, or into, blocks in inSCC).
func allBlocksTouching(inSCC map[*Block]bool) []*Block {
	seen := map[*Block]bool{}
	var all []*Block
	var visit func(b *Block)
	visit = func(b *Block) {
		if seen[b] {
			return
		}
		seen[b] = true
		all = append(all, b)
		for _, s := range b.Successors() {
			visit(s)
		}
		for _, p := range b.Predecessors() {
			visit(p)
		}
	}
	for b := range inSCC {
		visit(b)
	}
	return all
}

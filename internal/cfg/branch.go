package cfg

import "rvsdgc/internal/types"

// RestructureBranches implements the branch phase of §4.4. It must run
// after RestructureLoops (and before RestoreBackEdges), since it assumes
// an acyclic graph. It walks the CFG from start, and for every branch
// (a block with more than one outgoing edge) computes each arm's
// dominator graph, derives the union of continuation points, and
// synthesizes single-continuation dispatch when there is more than one.
func RestructureBranches(g *CFG, start *Block) {
	restructureBranchesFrom(g, start, map[*Block]bool{})
}

func restructureBranchesFrom(g *CFG, b *Block, done map[*Block]bool) {
	if b == nil || done[b] {
		return
	}
	done[b] = true

	if len(b.Out) <= 1 {
		for _, s := range b.Successors() {
			restructureBranchesFrom(g, s, done)
		}
		return
	}

	arms := b.Successors()
	armSets := make([]map[*Block]bool, len(arms))
	for i, arm := range arms {
		armSets[i] = dominatorGraph(arm)
	}

	cpSet := map[*Block]bool{}
	for i, set := range armSets {
		exits := armExitEdges(set)
		for _, e := range exits {
			if !armSets[i][e.to] {
				cpSet[e.to] = true
			}
		}
	}
	var cps []*Block
	for cp := range cpSet {
		cps = append(cps, cp)
	}

	switch len(cps) {
	case 0:
		// No arm escapes; nothing to reconverge (e.g. every arm ends at
		// the CFG exit directly). Recurse into each arm only.
	case 1:
		cp := cps[0]
		for _, set := range armSets {
			for _, e := range armExitEdges(set) {
				if e.to == cp {
					continue
				}
				null := g.AddBlock(fresh("branch_null"))
				g.RedirectEdge(e.from, e.to, null)
				g.AddEdge(null, 0, cp)
			}
		}
	default:
		pBits := bits(len(cps))
		pType := types.BitString(uint(pBits))
		pVar := &Variable{Name: fresh("p"), Type: pType}
		dispatch := g.AddBlock(fresh("branch_dispatch"))
		dispatch.AddTAC(NewTAC("match", []*Variable{pVar}, nil))
		cpIndex := map[*Block]int{}
		for i, cp := range cps {
			cpIndex[cp] = i
			g.AddEdge(dispatch, i, cp)
		}
		for _, set := range armSets {
			for _, e := range armExitEdges(set) {
				assign := g.AddBlock(fresh("branch_assign"))
				assign.AddTAC(NewConstTAC(pVar, int64(cpIndex[e.to])))
				g.RedirectEdge(e.from, e.to, assign)
				g.AddEdge(assign, 0, dispatch)
			}
		}
		for _, cp := range cps {
			restructureBranchesFrom(g, cp, done)
		}
	}

	for _, arm := range arms {
		restructureBranchesFrom(g, arm, done)
	}
	for _, cp := range cps {
		restructureBranchesFrom(g, cp, done)
	}
}

// dominatorGraph computes the set of blocks reachable from start all of
// whose predecessors are themselves already in the set, by iterative
// fixed point — the arm's local dominator region, per §4.4.
func dominatorGraph(start *Block) map[*Block]bool {
	set := map[*Block]bool{start: true}
	for {
		changed := false
		frontier := map[*Block]bool{}
		for b := range set {
			for _, s := range b.Successors() {
				if set[s] {
					continue
				}
				frontier[s] = true
			}
		}
		for cand := range frontier {
			allIn := true
			for _, p := range cand.Predecessors() {
				if !set[p] {
					allIn = false
					break
				}
			}
			if allIn {
				set[cand] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return set
}

type exitEdge struct {
	from, to *Block
	idx      int
}

// armExitEdges returns every edge leaving the dominator set to a block
// outside it.
func armExitEdges(set map[*Block]bool) []exitEdge {
	var out []exitEdge
	for b := range set {
		for _, e := range b.Out {
			if !set[e.To] {
				out = append(out, exitEdge{b, e.To, e.Index})
			}
		}
	}
	return out
}

package aggregate

import (
	"fmt"

	"rvsdgc/internal/cfg"
	"rvsdgc/internal/errors"
)

// vertex is one node of the working graph the reduction operates over.
// It starts life wrapping a single CFG block and, as reduction proceeds,
// comes to wrap larger and larger aggregation subtrees, replacing the
// region of the graph it absorbed.
type vertex struct {
	agg  *Node
	out  []vedge
	in   []*vertex
	self bool // true once this vertex has a recorded self-loop (loop body)
}

type vedge struct {
	idx int
	to  *vertex
}

type workGraph struct {
	entry *vertex
	exit  *vertex
	all   []*vertex
}

func newWorkGraph(g *cfg.CFG) *workGraph {
	w := &workGraph{}
	byBlock := map[*cfg.Block]*vertex{}
	for _, b := range g.Blocks() {
		var kind Kind
		switch b {
		case g.Entry:
			kind = KindEntry
		case g.Exit:
			kind = KindExit
		default:
			kind = KindBlock
		}
		v := &vertex{agg: leaf(kind, b)}
		byBlock[b] = v
		w.all = append(w.all, v)
	}
	for _, b := range g.Blocks() {
		v := byBlock[b]
		for _, e := range b.Out {
			to := byBlock[e.To]
			if to == v {
				v.self = true
				continue
			}
			v.out = append(v.out, vedge{idx: e.Index, to: to})
			to.in = append(to.in, v)
		}
	}
	w.entry = byBlock[g.Entry]
	w.exit = byBlock[g.Exit]
	return w
}

func (w *workGraph) removeVertex(v *vertex) {
	for i, u := range w.all {
		if u == v {
			w.all = append(w.all[:i], w.all[i+1:]...)
			return
		}
	}
}

func (w *workGraph) redirectIn(oldV, newV *vertex) {
	for _, p := range oldV.in {
		for i := range p.out {
			if p.out[i].to == oldV {
				p.out[i].to = newV
			}
		}
		newV.in = append(newV.in, p)
	}
}

func (w *workGraph) redirectOut(oldV, newV *vertex) {
	for _, e := range oldV.out {
		newV.out = append(newV.out, e)
		for i, p := range e.to.in {
			if p == oldV {
				e.to.in[i] = newV
			}
		}
	}
}

// reduceLoops finds a vertex with a recorded self-loop (a single-entry,
// single-exit loop body left by internal/cfg's loop phase) and collapses
// it into a loop(body) vertex with the self-edge removed.
func (w *workGraph) reduceLoops() bool {
	for _, v := range w.all {
		if v.self && v.agg.Kind != KindLoop {
			v.agg = &Node{Kind: KindLoop, Children: []*Node{v.agg}}
			v.self = false
			return true
		}
	}
	return false
}

// reduceBranches finds a single-entry/single-join diamond — a vertex with
// out-degree >= 2 whose every successor has out-degree 1, in-degree 1,
// and converges on the same join vertex — and collapses it into
// linear(head, linear(branch(arm_1, ..., arm_n), join)). An edge from the
// join back to head becomes a self-loop on the merged vertex.
func (w *workGraph) reduceBranches() bool {
	for _, head := range w.all {
		if len(head.out) < 2 {
			continue
		}
		var join *vertex
		ok := true
		arms := make([]*vertex, len(head.out))
		for i, e := range head.out {
			arm := e.to
			if len(arm.in) != 1 || len(arm.out) != 1 {
				ok = false
				break
			}
			j := arm.out[0].to
			if join == nil {
				join = j
			} else if join != j {
				ok = false
				break
			}
			arms[i] = arm
		}
		if !ok || join == nil || join == head {
			continue
		}

		branchChildren := make([]*Node, len(arms))
		for i, a := range arms {
			branchChildren[i] = a.agg
		}
		branchNode := &Node{Kind: KindBranch, Children: branchChildren}

		merged := &vertex{agg: linear(head.agg, linear(branchNode, join.agg))}
		w.redirectIn(head, merged)
		w.redirectOut(join, merged)
		var outs []vedge
		for _, e := range merged.out {
			if e.to == merged {
				merged.self = true
			} else {
				outs = append(outs, e)
			}
		}
		var ins []*vertex
		for _, p := range merged.in {
			if p != merged {
				ins = append(ins, p)
			}
		}
		merged.out, merged.in = outs, ins

		for _, a := range arms {
			w.removeVertex(a)
		}
		w.removeVertex(head)
		w.removeVertex(join)
		w.all = append(w.all, merged)
		if w.entry == head {
			w.entry = merged
		}
		if w.exit == join {
			w.exit = merged
		}
		return true
	}
	return false
}

// coalesceLinear finds an edge u -> v where u has exactly one outgoing
// edge and v has exactly one incoming edge, and merges them into a
// linear(u, v) vertex — §4.5 step 1, "maximal linear chains".
func (w *workGraph) coalesceLinear() bool {
	for _, u := range w.all {
		if len(u.out) != 1 {
			continue
		}
		v := u.out[0].to
		if v == u || len(v.in) != 1 {
			continue
		}
		// If v has an edge back to u, merging would fold a real,
		// unrestructured cycle into a dangling self-reference; leave it
		// alone so the reduction stalls and root() reports failure
		// instead of silently mishandling irreducible control flow.
		backToU := false
		for _, e := range v.out {
			if e.to == u {
				backToU = true
				break
			}
		}
		if backToU {
			continue
		}
		merged := &vertex{agg: linear(u.agg, v.agg), self: v.self}
		w.redirectIn(u, merged)
		w.redirectOut(v, merged)
		w.removeVertex(u)
		w.removeVertex(v)
		w.all = append(w.all, merged)
		if w.entry == u {
			w.entry = merged
		}
		if w.exit == v {
			w.exit = merged
		}
		return true
	}
	return false
}

// root returns the aggregation tree once reduction has converged to a
// single vertex (or a single chain collapsible into one), as
// linear(entry, ..., exit).
func (w *workGraph) root() (*Node, error) {
	if len(w.all) != 1 {
		return nil, errors.NewMalformedInput(errors.CodeIrreducibleControl,
			fmt.Sprintf("reduction stalled with %d vertices remaining (irreducible control flow survived restructuring)", len(w.all)),
			errors.Position{})
	}
	return w.all[0].agg, nil
}

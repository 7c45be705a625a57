package rvsdg

import (
	"fmt"

	"rvsdgc/internal/types"
)

// Region owns an ordered collection of nodes, an ordered list of
// arguments (inputs exposed to the region from the enclosing node or
// graph imports) and an ordered list of results (outputs exported to
// the enclosing node or graph exports). Spec §3.
type Region struct {
	graph     *Graph
	owner     Node // the structural node this region is a subregion of, nil for the root region
	nodes     []Node
	arguments []*Output
	results   []*Input
	nextID    int
}

func newRegion(graph *Graph, owner Node) *Region {
	return &Region{graph: graph, owner: owner}
}

// Graph returns the graph this region belongs to.
func (r *Region) Graph() *Graph { return r.graph }

// Owner returns the structural node this is a subregion of, or nil for
// the graph's root region.
func (r *Region) Owner() Node { return r.owner }

// Nodes returns this region's nodes in insertion order. Insertion order
// is not a data-flow order; use NewTopDownTraverser for that.
func (r *Region) Nodes() []Node { return r.nodes }

func (r *Region) Arguments() []*Output { return r.arguments }
func (r *Region) Results() []*Input    { return r.results }

func (r *Region) nextNodeID() int {
	id := r.nextID
	r.nextID++
	return id
}

// regionOf reports the region an output or input effectively lives in,
// used to check region-locality.
func regionOf(o *Output) *Region { return o.Region() }

// checkLocal enforces the region-locality invariant (spec §3): an
// input's origin must live in the same region as the input, or a
// strictly enclosing one. Cross-region references belong only on
// structural-node arguments/results.
func checkLocal(consumerRegion *Region, origin *Output) {
	for r := consumerRegion; r != nil; r = r.enclosing() {
		if r == regionOf(origin) {
			return
		}
	}
	panic(fmt.Sprintf("rvsdg: region-locality violation: origin in region %p not reachable from consumer region %p", regionOf(origin), consumerRegion))
}

// enclosing returns the region strictly enclosing r: the region owning
// r's owner structural node, or nil for the root region.
func (r *Region) enclosing() *Region {
	if r.owner == nil {
		return nil
	}
	return r.owner.ownerRegion()
}

// AddSimpleNode builds a simple node for op consuming operands, after
// checking operand count/types against op's signature and region
// locality for each operand (spec §4.2). Panics (an invariant
// violation, spec §7) on mismatch, since a malformed call here is
// always a compiler bug, never untrusted input.
func (r *Region) AddSimpleNode(op Operation, operands []*Output) *SimpleNode {
	want := op.OperandTypes()
	if len(operands) != len(want) {
		panic(fmt.Sprintf("rvsdg: %s expects %d operands, got %d", op.Name(), len(want), len(operands)))
	}
	for i, o := range operands {
		if !o.Type().Equal(want[i]) {
			panic(fmt.Sprintf("rvsdg: %s operand %d: expected %s, got %s", op.Name(), i, want[i], o.Type()))
		}
		checkLocal(r, o)
	}
	n := newSimpleNode(r, op, operands)
	r.nodes = append(r.nodes, n)
	return n
}

// AddArgument appends a new region argument of type t and returns the
// output other nodes in this region (or its subregions, through further
// arguments) may consume.
func (r *Region) AddArgument(t types.Type) *Output {
	idx := len(r.arguments)
	out := newOutput(r, idx, t)
	r.arguments = append(r.arguments, out)
	return out
}

// AddResult appends a new region result exporting origin; origin must
// be local to r (region-locality, spec §3).
func (r *Region) AddResult(origin *Output) *Input {
	checkLocal(r, origin)
	idx := len(r.results)
	in := newInput(r, idx, origin)
	r.results = append(r.results, in)
	return in
}

func (r *Region) ownerRegion() *Region { return r }

func (r *Region) removeNode(n Node) {
	for i, cur := range r.nodes {
		if cur == n {
			r.nodes = append(r.nodes[:i], r.nodes[i+1:]...)
			return
		}
	}
}

// RemoveArgument removes argument i; legal only once it has no users,
// mirroring Node::remove_input's contract for region arguments.
func (r *Region) RemoveArgument(i int) {
	if r.arguments[i].HasUsers() {
		panic("rvsdg: cannot remove region argument with live users")
	}
	r.arguments = append(r.arguments[:i], r.arguments[i+1:]...)
	for idx := i; idx < len(r.arguments); idx++ {
		r.arguments[idx].index = idx
	}
}

// RemoveResult removes result i.
func (r *Region) RemoveResult(i int) {
	in := r.results[i]
	if in.origin != nil {
		in.origin.removeUser(in)
	}
	r.results = append(r.results[:i], r.results[i+1:]...)
	for idx := i; idx < len(r.results); idx++ {
		r.results[idx].index = idx
	}
}

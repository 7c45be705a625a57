package rvsdg

import "rvsdgc/internal/types"

// Node is implemented by both SimpleNode and StructuralNode. Depth is
// recomputed on every edge change (spec §3 invariants): 0 if no input
// has a producer, else 1 + max(depth(producer(input))).
type Node interface {
	portOwner

	// ID is a small, dense, region-local identifier, stable for the
	// node's lifetime. Trackers key on the Node value itself, not on ID.
	ID() int
	Inputs() []*Input
	Outputs() []*Output
	Depth() int
	String() string

	recomputeDepth()
	destroy()
}

// base is embedded by every concrete node kind and implements the
// bookkeeping common to simple and structural nodes: port storage,
// depth caching, and region registration.
type base struct {
	id      int
	region  *Region // owning region
	inputs  []*Input
	outputs []*Output
	depth   int
}

func (b *base) ID() int               { return b.id }
func (b *base) Inputs() []*Input      { return b.inputs }
func (b *base) Outputs() []*Output    { return b.outputs }
func (b *base) Depth() int            { return b.depth }
func (b *base) ownerRegion() *Region  { return b.region }

func (b *base) addInput(self Node, origin *Output, typ types.Type) *Input {
	idx := len(b.inputs)
	in := newInput(self, idx, origin)
	in.typ = typ
	b.inputs = append(b.inputs, in)
	return in
}

func (b *base) addOutput(self Node, typ types.Type) *Output {
	idx := len(b.outputs)
	out := newOutput(self, idx, typ)
	b.outputs = append(b.outputs, out)
	return out
}

// inputDepth computes the depth contribution of a single input: the
// depth of its origin's producing node, or 0 when the origin is a
// region argument (no producer, spec §3).
func inputDepth(in *Input) int {
	if n := in.Origin().Node(); n != nil {
		return n.Depth()
	}
	return 0
}

func (b *base) recomputeDepthFor(self Node) {
	newDepth := 0
	if len(b.inputs) > 0 {
		max := 0
		for _, in := range b.inputs {
			if d := inputDepth(in); d > max {
				max = d
			}
		}
		newDepth = max + 1
	}
	if newDepth == b.depth {
		return
	}
	old := b.depth
	b.depth = newDepth
	if g := b.region.Graph(); g != nil {
		g.notifyDepthChange(self, old, newDepth)
	}
	// A depth change must cascade: every node consuming one of self's
	// outputs may now have a stale depth too (spec §3's depth invariant
	// is transitive, not one-hop).
	for _, out := range b.outputs {
		for _, user := range out.Users() {
			if n := user.Node(); n != nil {
				n.recomputeDepth()
			}
		}
	}
}

// removeInputAt removes input i; legal only when its origin has no other
// consequence of removal dangling, i.e. callers are responsible for
// having diverted any logical dependents away from referencing it by
// index first. Removing an input implicitly drops its user
// registration on its origin.
func (b *base) removeInputAt(i int) {
	in := b.inputs[i]
	if in.origin != nil {
		in.origin.removeUser(in)
	}
	b.inputs = append(b.inputs[:i], b.inputs[i+1:]...)
	for idx := i; idx < len(b.inputs); idx++ {
		b.inputs[idx].index = idx
	}
}

// removeOutputAt removes output o; legal only when it has no users.
// Panics otherwise since a dangling user would violate the user-set
// invariant (spec §8 property 3).
func (b *base) removeOutputAt(i int) {
	out := b.outputs[i]
	if out.HasUsers() {
		panic("rvsdg: removeOutputAt on output with live users")
	}
	b.outputs = append(b.outputs[:i], b.outputs[i+1:]...)
	for idx := i; idx < len(b.outputs); idx++ {
		b.outputs[idx].index = idx
	}
}

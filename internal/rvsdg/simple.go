package rvsdg

import "fmt"

// SimpleNode holds exactly one operation; it has only inputs and
// outputs, no subregions (spec §3 "Node kinds").
type SimpleNode struct {
	base
	Operation Operation
}

// newSimpleNode builds a simple node for op consuming operands (already
// validated by the caller against op's operand signature) and appends
// it to region. It is not exported: callers go through
// Region.AddSimpleNode, which performs the arity/type check.
func newSimpleNode(region *Region, op Operation, operands []*Output) *SimpleNode {
	n := &SimpleNode{base: base{region: region}}
	n.id = region.nextNodeID()
	for _, o := range operands {
		n.addInput(n, o, o.Type())
	}
	for _, t := range op.ResultTypes() {
		n.addOutput(n, t)
	}
	n.Operation = op
	n.recomputeDepthFor(n)
	return n
}

func (n *SimpleNode) recomputeDepth() { n.recomputeDepthFor(n) }

func (n *SimpleNode) destroy() {
	for _, in := range n.inputs {
		if in.origin != nil {
			in.origin.removeUser(in)
		}
	}
	if g := n.region.Graph(); g != nil {
		g.notifyDestroy(n)
	}
}

func (n *SimpleNode) String() string {
	return fmt.Sprintf("%s#%d", n.Operation.Name(), n.id)
}

// Remove detaches n from its region. Callers must have diverted every
// output's users away first (the region-locality/user-set invariant
// forbids a dangling user), matching Node::remove_output's contract
// (spec §4.2).
func (n *SimpleNode) Remove() {
	for _, out := range n.outputs {
		if out.HasUsers() {
			panic(fmt.Sprintf("rvsdg: cannot remove %s: output %d still has users", n, out.index))
		}
	}
	n.destroy()
	n.region.removeNode(n)
}

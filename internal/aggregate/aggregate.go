// Package aggregate reduces a restructured CFG (see internal/cfg) bottom-up
// into a tree of six structures — entry, exit, block, linear, branch,
// loop — consumed once by RVSDG construction.
package aggregate

import (
	"fmt"

	"rvsdgc/internal/cfg"
)

// Kind identifies which of the six aggregation structures a node is.
type Kind int

const (
	KindEntry Kind = iota
	KindExit
	KindBlock
	KindLinear
	KindBranch
	KindLoop
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindExit:
		return "exit"
	case KindBlock:
		return "block"
	case KindLinear:
		return "linear"
	case KindBranch:
		return "branch"
	case KindLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Node is a node of the aggregation tree. Leaves (entry/exit/block) have
// no Children; linear has exactly two; branch has N>=2, one per arm, and
// no tail (the join follows it inside an enclosing linear); loop has
// exactly one (the body).
type Node struct {
	Kind     Kind
	Block    *cfg.Block // set only for KindBlock, KindEntry, KindExit
	Children []*Node
}

func leaf(kind Kind, b *cfg.Block) *Node {
	return &Node{Kind: kind, Block: b}
}

func linear(children ...*Node) *Node {
	if len(children) == 1 {
		return children[0]
	}
	return &Node{Kind: KindLinear, Children: children}
}

func (n *Node) String() string {
	switch n.Kind {
	case KindBlock, KindEntry, KindExit:
		return fmt.Sprintf("%s(%s)", n.Kind, n.Block.Label)
	default:
		return fmt.Sprintf("%s(...)", n.Kind)
	}
}

// Aggregate reduces g's blocks, reachable from g.Entry, into a single
// root linear(entry, ..., exit) node, per §4.5's four-step reduction:
// block coalesce, branch reduction, loop reduction, then the final root.
// g must already have been restructured (internal/cfg.RestructureLoops
// then RestructureBranches then RestoreBackEdges) so every loop has
// exactly one back-edge and every branch exactly one continuation point.
func Aggregate(g *cfg.CFG) (*Node, error) {
	w := newWorkGraph(g)
	for {
		if w.reduceLoops() {
			continue
		}
		if w.reduceBranches() {
			continue
		}
		if w.coalesceLinear() {
			continue
		}
		break
	}
	return w.root()
}

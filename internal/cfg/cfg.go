// Package cfg implements the pre-RVSDG control-flow-graph layer: basic
// blocks of three-address code, constructed incrementally by a frontend,
// restructured in place so every loop and branch is single-entry/single-exit,
// then handed to the aggregation stage and discarded.
package cfg

import (
	"fmt"
	"math/big"

	"rvsdgc/internal/types"
)

// Variable is a typed, named storage location referenced by TAC operands
// and results. Unlike internal/rvsdg's Output, a Variable is not itself
// value-carrying SSA data — the same Variable may be assigned more than
// once across blocks, which is exactly what construction later resolves
// via variable_map.
type Variable struct {
	Name string
	Type types.Type
}

func (v *Variable) String() string { return v.Name }

// TAC is a three-address code: an operation applied to ordered operand
// variables, producing ordered result variables. Assignment is modeled as
// an ordinary TAC whose operation is the identity/copy operator. Value
// carries the literal for a "const" TAC (Operands empty, one Result) —
// every other op ignores it.
type TAC struct {
	Op       string
	Operands []*Variable
	Results  []*Variable
	Value    *big.Int
}

func NewTAC(op string, operands, results []*Variable) *TAC {
	return &TAC{Op: op, Operands: operands, Results: results}
}

// NewConstTAC synthesizes a "const" TAC binding result to the fixed
// integer literal value. Loop/branch restructuring uses this to drive the
// dispatcher/tail continuations it synthesizes (§4.4) through an ordinary
// match TAC downstream, the same as any source-level constant.
func NewConstTAC(result *Variable, value int64) *TAC {
	return &TAC{Op: "const", Results: []*Variable{result}, Value: big.NewInt(value)}
}

func (t *TAC) String() string {
	res := ""
	for i, r := range t.Results {
		if i > 0 {
			res += ", "
		}
		res += r.Name
	}
	ops := ""
	for i, o := range t.Operands {
		if i > 0 {
			ops += ", "
		}
		ops += o.Name
	}
	if t.Op == "const" && t.Value != nil {
		ops = t.Value.String()
	}
	if res == "" {
		return fmt.Sprintf("%s(%s)", t.Op, ops)
	}
	return fmt.Sprintf("%s := %s(%s)", res, t.Op, ops)
}

// Edge is an outgoing control-flow edge carrying the successor-indexed
// ordinal used by match/branch operations: fall-through is index 0, side
// exits have higher indices.
type Edge struct {
	Index int
	To    *Block
}

// Block is a basic block: a label, an ordered list of TACs, and outgoing
// edges. A block with no outgoing edges other than the implicit one to
// Exit is a normal block; Entry and Exit are distinguished blocks with no
// TACs of their own.
type Block struct {
	Label string
	TACs  []*TAC
	Out   []Edge
	in    []*Block
}

func NewBlock(label string) *Block {
	return &Block{Label: label}
}

func (b *Block) String() string { return b.Label }

// AddTAC appends a three-address code to the block's body.
func (b *Block) AddTAC(t *TAC) {
	b.TACs = append(b.TACs, t)
}

// Successors returns the blocks this block transfers control to, ordered
// by edge index.
func (b *Block) Successors() []*Block {
	out := make([]*Block, len(b.Out))
	for i, e := range b.Out {
		out[i] = e.To
	}
	return out
}

// Predecessors returns the blocks that transfer control into this block.
func (b *Block) Predecessors() []*Block { return b.in }

// CFG is a directed graph of basic blocks plus distinguished entry and
// exit blocks.
type CFG struct {
	Entry  *Block
	Exit   *Block
	blocks []*Block
	// backEdges records edges the loop phase determined are genuine
	// back-edges (source ∈ loop body, sink = loop header), re-added only
	// after the branch phase completes so aggregation always sees an
	// acyclic graph in between.
	backEdges []Edge
	backFrom  map[*Block][]Edge
}

func NewCFG() *CFG {
	entry := NewBlock("entry")
	exit := NewBlock("exit")
	g := &CFG{Entry: entry, Exit: exit, backFrom: map[*Block][]Edge{}}
	g.blocks = []*Block{entry, exit}
	return g
}

// AddBlock creates and registers a fresh block with the given label.
func (g *CFG) AddBlock(label string) *Block {
	b := NewBlock(label)
	g.blocks = append(g.blocks, b)
	return b
}

// Blocks returns every block in the graph, including Entry and Exit, in
// insertion order.
func (g *CFG) Blocks() []*Block { return g.blocks }

// AddEdge connects from -> to at the given ordinal index, maintaining
// both endpoints' adjacency lists.
func (g *CFG) AddEdge(from *Block, index int, to *Block) {
	from.Out = append(from.Out, Edge{Index: index, To: to})
	to.in = append(to.in, from)
}

// RemoveEdge removes the first from -> to edge found at any index, used
// by restructuring when redirecting an edge's target.
func (g *CFG) RemoveEdge(from, to *Block) {
	for i, e := range from.Out {
		if e.To == to {
			from.Out = append(from.Out[:i], from.Out[i+1:]...)
			break
		}
	}
	for i, p := range to.in {
		if p == from {
			to.in = append(to.in[:i], to.in[i+1:]...)
			break
		}
	}
}

// RedirectEdge changes an existing from -> oldTo edge to instead target
// newTo, preserving its ordinal index.
func (g *CFG) RedirectEdge(from, oldTo, newTo *Block) {
	for i, e := range from.Out {
		if e.To == oldTo {
			from.Out[i].To = newTo
			newTo.in = append(newTo.in, from)
			for j, p := range oldTo.in {
				if p == from {
					oldTo.in = append(oldTo.in[:j], oldTo.in[j+1:]...)
					break
				}
			}
			return
		}
	}
}

// recordBackEdge stashes a back-edge discovered during loop restructuring
// so it can be spliced back in once the branch phase has finished with an
// acyclic graph.
func (g *CFG) recordBackEdge(from *Block, index int, to *Block) {
	g.backEdges = append(g.backEdges, Edge{Index: index, To: to})
	g.backFrom[from] = append(g.backFrom[from], Edge{Index: index, To: to})
}

// RestoreBackEdges re-adds every back-edge recorded during loop
// restructuring. Call once after the branch phase completes.
func (g *CFG) RestoreBackEdges() {
	for from, edges := range g.backFrom {
		for _, e := range edges {
			g.AddEdge(from, e.Index, e.To)
		}
	}
	g.backFrom = map[*Block][]Edge{}
}

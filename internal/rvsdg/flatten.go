package rvsdg

import "rvsdgc/internal/types"

// FlattenedBinaryOp is the N-ary form a cascade of the same associative
// bit-arithmetic operation collapses into (spec §4.3 "flatten"):
// ((a+b)+c)+d becomes a single add of [a,b,c,d]. It exists purely as a
// normalization intermediate; expand (below) is its inverse.
type FlattenedBinaryOp struct {
	opBase
	Opcode BitOpcode
	Type   *types.BitStringType
	Arity  int
}

func NewFlattenedBinaryOp(opcode BitOpcode, t *types.BitStringType, arity int) *FlattenedBinaryOp {
	return &FlattenedBinaryOp{opBase: opBase{"flattened_" + opcode.String()}, Opcode: opcode, Type: t, Arity: arity}
}

func (o *FlattenedBinaryOp) Kind() OpKind { return OpBitBinary }
func (o *FlattenedBinaryOp) OperandTypes() []types.Type {
	ts := make([]types.Type, o.Arity)
	for i := range ts {
		ts[i] = o.Type
	}
	return ts
}
func (o *FlattenedBinaryOp) ResultTypes() []types.Type { return []types.Type{o.Type} }
func (o *FlattenedBinaryOp) Equal(other Operation) bool {
	oo, ok := other.(*FlattenedBinaryOp)
	return ok && oo.Opcode == o.Opcode && oo.Arity == o.Arity && oo.Type.Equal(o.Type)
}

// FlattenAssociative rewrites node, a BitBinaryOp whose normal form has
// flatten enabled and whose opcode is associative, into a single
// FlattenedBinaryOp over every leaf operand reachable through a cascade
// of the same opcode/type. Returns (nil, false) if node doesn't qualify
// or the cascade is trivially small (arity <= 2, nothing to gain).
func FlattenAssociative(region *Region, node *SimpleNode, forms *NormalFormRegistry) (*SimpleNode, bool) {
	bop, ok := node.Operation.(*BitBinaryOp)
	if !ok || !bop.Associative() {
		return nil, false
	}
	if forms != nil && !forms.For(OpBitBinary).Flatten() {
		return nil, false
	}

	var leaves []*Output
	var collect func(o *Output)
	collect = func(o *Output) {
		if n, ok := o.Node().(*SimpleNode); ok {
			if inner, ok := n.Operation.(*BitBinaryOp); ok && inner.Opcode == bop.Opcode && inner.Type.Equal(bop.Type) {
				for _, in := range n.Inputs() {
					collect(in.Origin())
				}
				return
			}
		}
		leaves = append(leaves, o)
	}
	for _, in := range node.Inputs() {
		collect(in.Origin())
	}
	if len(leaves) <= 2 {
		return nil, false
	}

	flat := NewFlattenedBinaryOp(bop.Opcode, bop.Type, len(leaves))
	return region.AddSimpleNode(flat, leaves), true
}

// ExpandStrategy selects how Expand rebuilds a binary cascade from a
// flattened node: Linear folds left-to-right (minimal node count, worst
// depth); Parallel builds a balanced tree (one extra node's worth of
// sharing opportunities, better depth) — spec §4.3's "expand() inverse
// with linear/parallel strategies".
type ExpandStrategy int

const (
	ExpandLinear ExpandStrategy = iota
	ExpandParallel
)

// Expand rebuilds node (a FlattenedBinaryOp) back into a cascade of
// ordinary BitBinaryOp nodes using strategy, and returns the final
// node whose single output carries the combined value.
func Expand(region *Region, node *SimpleNode, strategy ExpandStrategy) (*SimpleNode, bool) {
	flat, ok := node.Operation.(*FlattenedBinaryOp)
	if !ok {
		return nil, false
	}
	operands := make([]*Output, len(node.Inputs()))
	for i, in := range node.Inputs() {
		operands[i] = in.Origin()
	}
	if len(operands) < 2 {
		return nil, false
	}

	var result *Output
	switch strategy {
	case ExpandParallel:
		result = expandParallel(region, flat.Opcode, flat.Type, operands)
	default:
		acc := operands[0]
		for _, o := range operands[1:] {
			n := region.AddSimpleNode(NewBitBinaryOp(flat.Opcode, flat.Type), []*Output{acc, o})
			acc = n.Outputs()[0]
		}
		result = acc
	}
	producer, ok := result.Node().(*SimpleNode)
	return producer, ok
}

func expandParallel(region *Region, opcode BitOpcode, t *types.BitStringType, operands []*Output) *Output {
	if len(operands) == 1 {
		return operands[0]
	}
	mid := len(operands) / 2
	left := expandParallel(region, opcode, t, operands[:mid])
	right := expandParallel(region, opcode, t, operands[mid:])
	n := region.AddSimpleNode(NewBitBinaryOp(opcode, t), []*Output{left, right})
	return n.Outputs()[0]
}

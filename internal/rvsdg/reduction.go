package rvsdg

import (
	"math/big"

	"rvsdgc/internal/types"
)

// constantOf returns the BitConstantOp behind o, if o is produced by
// one, so reductions can pattern-match on "is this operand a constant".
func constantOf(o *Output) (*BitConstantOp, bool) {
	n := o.Node()
	if n == nil {
		return nil, false
	}
	sn, ok := n.(*SimpleNode)
	if !ok {
		return nil, false
	}
	c, ok := sn.Operation.(*BitConstantOp)
	return c, ok
}

func wrap(v *big.Int, width uint) *big.Int {
	mod := new(big.Int).Lsh(big.NewInt(1), width)
	v = new(big.Int).Mod(v, mod)
	if v.Sign() < 0 {
		v.Add(v, mod)
	}
	return v
}

// evalBit evaluates a BitBinaryOp over two concrete constant operands.
func evalBit(opcode BitOpcode, a, b *big.Int, width uint) *big.Int {
	r := new(big.Int)
	switch opcode {
	case BitAdd:
		r.Add(a, b)
	case BitSub:
		r.Sub(a, b)
	case BitMul:
		r.Mul(a, b)
	case BitUDiv:
		if b.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Div(a, b)
	case BitURem:
		if b.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Mod(a, b)
	case BitSDiv:
		if b.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Quo(a, b)
	case BitSRem:
		if b.Sign() == 0 {
			return big.NewInt(0)
		}
		r.Rem(a, b)
	case BitShl:
		r.Lsh(a, uint(b.Uint64()))
	case BitLShr, BitAShr:
		r.Rsh(a, uint(b.Uint64()))
	case BitAnd:
		r.And(a, b)
	case BitOr:
		r.Or(a, b)
	case BitXor:
		r.Xor(a, b)
	}
	return wrap(r, width)
}

// ReducePair implements the pairwise reduction protocol (spec §4.3) for
// bit-arithmetic. Both-constant folds to a literal; neutral-element
// identities drop the node entirely by diverting to the surviving
// operand; equal-operand identities (x-x, x^x, x&x, x|x) fold without
// even inspecting constants.
func (o *BitBinaryOp) ReducePair(region *Region, a, b *Output) (ReductionPath, *Output) {
	if ca, ok := constantOf(a); ok {
		if cb, ok := constantOf(b); ok {
			v := evalBit(o.Opcode, ca.Value, cb.Value, o.Type.Width)
			folded := region.AddSimpleNode(NewBitConstantOp(o.Type, v), nil)
			return PathBothConstant, folded.Outputs()[0]
		}
	}

	if a == b {
		switch o.Opcode {
		case BitSub, BitXor:
			folded := region.AddSimpleNode(NewBitConstantOp(o.Type, big.NewInt(0)), nil)
			return PathMerge, folded.Outputs()[0]
		case BitAnd, BitOr:
			return PathLeftNeutral, a
		}
	}

	if cb, ok := constantOf(b); ok {
		if path, out := bitIdentity(o.Opcode, a, cb.Value, o.Type.Width, false); path != PathNone {
			return path, out
		}
	}
	if ca, ok := constantOf(a); ok {
		if path, out := bitIdentity(o.Opcode, b, ca.Value, o.Type.Width, true); path != PathNone {
			return path, out
		}
	}
	return PathNone, nil
}

// bitIdentity checks whether constant c, appearing as the right operand
// (or, if fromLeft, the left operand) of opcode, makes the node
// equivalent to the other (non-constant) operand — e.g. x+0, x*1, x&-1.
func bitIdentity(opcode BitOpcode, other *Output, c *big.Int, width uint, fromLeft bool) (ReductionPath, *Output) {
	allOnes := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), width), big.NewInt(1))
	path := PathRightNeutral
	if fromLeft {
		path = PathLeftNeutral
	}
	switch opcode {
	case BitAdd, BitSub, BitOr, BitXor, BitShl, BitLShr, BitAShr:
		if !fromLeft && c.Sign() == 0 {
			return path, other
		}
		if fromLeft && c.Sign() == 0 && (opcode == BitAdd || opcode == BitOr || opcode == BitXor) {
			return path, other
		}
	case BitMul, BitUDiv, BitSDiv:
		if !fromLeft && c.Cmp(big.NewInt(1)) == 0 {
			return path, other
		}
		if fromLeft && c.Cmp(big.NewInt(1)) == 0 && opcode == BitMul {
			return path, other
		}
	case BitAnd:
		if c.Cmp(allOnes) == 0 {
			return path, other
		}
	}
	return PathNone, nil
}

// ReduceUnary folds a cast whose operand is itself a cast (collapsing
// the pair to a single cast) or whose operand is a constant (folding
// the cast away entirely; only zext, trunc and bitcast to a bit-string
// type are folded, other casts of a constant are left as they are).
func (o *CastOp) ReduceUnary(node *SimpleNode) (*Output, bool) {
	operand := node.Inputs()[0].Origin()

	if inner := operand.Node(); inner != nil {
		if sn, ok := inner.(*SimpleNode); ok {
			if ic, ok := sn.Operation.(*CastOp); ok && ic.To.Equal(o.From) {
				if ic.From.Equal(o.To) {
					return sn.Inputs()[0].Origin(), true
				}
				folded := node.region.AddSimpleNode(NewCastOp(o.CastKind, ic.From, o.To), []*Output{sn.Inputs()[0].Origin()})
				return folded.Outputs()[0], true
			}
		}
	}

	if c, ok := constantOf(operand); ok {
		toBits, ok := o.To.(*types.BitStringType)
		if !ok {
			return nil, false
		}
		switch o.CastKind {
		case CastZExt:
			v := wrap(new(big.Int).Set(c.Value), toBits.Width)
			folded := node.region.AddSimpleNode(NewBitConstantOp(toBits, v), nil)
			return folded.Outputs()[0], true
		case CastTrunc, CastBitcast:
			v := wrap(new(big.Int).Set(c.Value), toBits.Width)
			folded := node.region.AddSimpleNode(NewBitConstantOp(toBits, v), nil)
			return folded.Outputs()[0], true
		}
	}
	return nil, false
}

package rvsdg

import "rvsdgc/internal/types"

// OpKind tags the concrete Operation variant, the "one enum per
// category" the design notes (spec §9) call for.
type OpKind int

const (
	OpBitConstant OpKind = iota
	OpBitBinary
	OpBitCompare
	OpFPArithmetic
	OpFPCompare
	OpPointerCompare
	OpCast
	OpSelect
	OpPhiMerge
	OpAssignment
	OpAlloca
	OpLoad
	OpStore
	OpMemcpy
	OpMalloc
	OpFree
	OpCall
	OpGetElementPtr
	OpMemStateSplit
	OpMemStateMerge
	OpIOBarrier
	OpValist
	OpConstantArray
	OpConstantStruct
	OpConstantVector
	OpExtractElement
	OpInsertElement
	OpExtractValue
	OpInsertValue
	OpShuffleVector
	OpMatch
	OpBranch
	OpUndef
	OpPoison
	OpNullPointer
)

// Operation is an immutable, value-comparable descriptor attached to a
// simple node (spec §3). It fixes the node's operand/result arity and
// types and carries a debug name; operations never hold mutable state.
type Operation interface {
	Kind() OpKind
	// Name is the debug name surfaced in printers and error messages.
	Name() string
	OperandTypes() []types.Type
	ResultTypes() []types.Type
	// Equal is the total-equality predicate: true iff other has the
	// same kind and the same configuration.
	Equal(other Operation) bool
}

// UnaryReducible is implemented by operations that declare a unary
// reduction: a rewrite that inspects a single node's inputs (not
// necessarily arity one — "unary" names the shape of the rule, a single
// node judged in isolation, not the node's arity) and proposes a
// replacement output. Constant folding and cast-of-cast collapsing are
// unary reductions.
type UnaryReducible interface {
	Operation
	// ReduceUnary inspects node (whose operation is the receiver) and
	// returns a replacement output and true if the node can be folded
	// away entirely.
	ReduceUnary(node *SimpleNode) (*Output, bool)
}

// ReductionPath tags the outcome of a pairwise (binary) reduction
// attempt (spec §4.3, §4.8 C.3).
type ReductionPath int

const (
	PathNone ReductionPath = iota
	PathBothConstant
	PathMerge
	PathLeftFold
	PathRightFold
	PathLeftNeutral
	PathRightNeutral
	PathFactor
)

func (p ReductionPath) String() string {
	switch p {
	case PathNone:
		return "none"
	case PathBothConstant:
		return "both_constant"
	case PathMerge:
		return "merge"
	case PathLeftFold:
		return "left_fold"
	case PathRightFold:
		return "right_fold"
	case PathLeftNeutral:
		return "left_neutral"
	case PathRightNeutral:
		return "right_neutral"
	case PathFactor:
		return "factor"
	default:
		return "path?"
	}
}

// BinaryReducible is implemented by binary operations (spec §3's
// bit-arithmetic, fp-arithmetic, pointer-compare families). Associative
// and Commutative gate flattening/reordering in the normal form;
// ReducePair implements the pairwise reduction protocol.
type BinaryReducible interface {
	Operation
	Associative() bool
	Commutative() bool
	// ReducePair proposes a rewrite for a node with operands (a, b),
	// building any replacement node in region. Returns PathNone and a
	// nil output when no reduction applies.
	ReducePair(region *Region, a, b *Output) (ReductionPath, *Output)
}

// opBase is embedded by concrete operation variants to avoid repeating
// the name field and its accessor.
type opBase struct {
	name string
}

func (o opBase) Name() string { return o.name }

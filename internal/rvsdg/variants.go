package rvsdg

import (
	"math/big"

	"rvsdgc/internal/types"
)

// BitConstantOp materializes a fixed-width integer literal.
type BitConstantOp struct {
	opBase
	Type  *types.BitStringType
	Value *big.Int
}

func NewBitConstantOp(t *types.BitStringType, value *big.Int) *BitConstantOp {
	return &BitConstantOp{opBase: opBase{"bitconstant"}, Type: t, Value: new(big.Int).Set(value)}
}

func (o *BitConstantOp) Kind() OpKind             { return OpBitConstant }
func (o *BitConstantOp) OperandTypes() []types.Type { return nil }
func (o *BitConstantOp) ResultTypes() []types.Type  { return []types.Type{o.Type} }
func (o *BitConstantOp) Equal(other Operation) bool {
	oo, ok := other.(*BitConstantOp)
	return ok && oo.Type.Equal(o.Type) && oo.Value.Cmp(o.Value) == 0
}

// BitOpcode enumerates the bit-arithmetic family (spec §3).
type BitOpcode int

const (
	BitAdd BitOpcode = iota
	BitSub
	BitMul
	BitSDiv
	BitUDiv
	BitSRem
	BitURem
	BitShl
	BitLShr
	BitAShr
	BitAnd
	BitOr
	BitXor
)

var bitOpcodeNames = map[BitOpcode]string{
	BitAdd: "add", BitSub: "sub", BitMul: "mul", BitSDiv: "sdiv", BitUDiv: "udiv",
	BitSRem: "srem", BitURem: "urem", BitShl: "shl", BitLShr: "lshr", BitAShr: "ashr",
	BitAnd: "and", BitOr: "or", BitXor: "xor",
}

func (op BitOpcode) String() string { return bitOpcodeNames[op] }

// BitBinaryOp is a two-operand, same-width bit-arithmetic operation.
type BitBinaryOp struct {
	opBase
	Opcode BitOpcode
	Type   *types.BitStringType
}

func NewBitBinaryOp(opcode BitOpcode, t *types.BitStringType) *BitBinaryOp {
	return &BitBinaryOp{opBase: opBase{opcode.String()}, Opcode: opcode, Type: t}
}

func (o *BitBinaryOp) Kind() OpKind { return OpBitBinary }
func (o *BitBinaryOp) OperandTypes() []types.Type {
	return []types.Type{o.Type, o.Type}
}
func (o *BitBinaryOp) ResultTypes() []types.Type { return []types.Type{o.Type} }
func (o *BitBinaryOp) Equal(other Operation) bool {
	oo, ok := other.(*BitBinaryOp)
	return ok && oo.Opcode == o.Opcode && oo.Type.Equal(o.Type)
}
func (o *BitBinaryOp) Associative() bool {
	switch o.Opcode {
	case BitAdd, BitMul, BitAnd, BitOr, BitXor:
		return true
	default:
		return false
	}
}
func (o *BitBinaryOp) Commutative() bool { return o.Associative() }

// BitPredicate enumerates the integer-compare family ("slt/…/eq").
type BitPredicate int

const (
	PredSLT BitPredicate = iota
	PredSLE
	PredSGT
	PredSGE
	PredULT
	PredULE
	PredUGT
	PredUGE
	PredEQ
	PredNE
)

var bitPredicateNames = map[BitPredicate]string{
	PredSLT: "slt", PredSLE: "sle", PredSGT: "sgt", PredSGE: "sge",
	PredULT: "ult", PredULE: "ule", PredUGT: "ugt", PredUGE: "uge",
	PredEQ: "eq", PredNE: "ne",
}

func (p BitPredicate) String() string { return bitPredicateNames[p] }

// BitCompareOp compares two same-width bitstrings and produces bit1.
type BitCompareOp struct {
	opBase
	Predicate BitPredicate
	Type      *types.BitStringType
	result    *types.BitStringType
}

func NewBitCompareOp(pred BitPredicate, t *types.BitStringType) *BitCompareOp {
	return &BitCompareOp{opBase: opBase{pred.String()}, Predicate: pred, Type: t, result: types.BitString(1)}
}

func (o *BitCompareOp) Kind() OpKind               { return OpBitCompare }
func (o *BitCompareOp) OperandTypes() []types.Type { return []types.Type{o.Type, o.Type} }
func (o *BitCompareOp) ResultTypes() []types.Type  { return []types.Type{o.result} }
func (o *BitCompareOp) Equal(other Operation) bool {
	oo, ok := other.(*BitCompareOp)
	return ok && oo.Predicate == o.Predicate && oo.Type.Equal(o.Type)
}
func (o *BitCompareOp) Associative() bool { return false }
func (o *BitCompareOp) Commutative() bool { return o.Predicate == PredEQ || o.Predicate == PredNE }

// FPOpcode enumerates the floating-point arithmetic family.
type FPOpcode int

const (
	FPAdd FPOpcode = iota
	FPSub
	FPMul
	FPDiv
	FPRem
)

var fpOpcodeNames = map[FPOpcode]string{FPAdd: "fadd", FPSub: "fsub", FPMul: "fmul", FPDiv: "fdiv", FPRem: "frem"}

func (op FPOpcode) String() string { return fpOpcodeNames[op] }

type FPBinaryOp struct {
	opBase
	Opcode FPOpcode
	Type   *types.FloatingPointType
}

func NewFPBinaryOp(opcode FPOpcode, t *types.FloatingPointType) *FPBinaryOp {
	return &FPBinaryOp{opBase: opBase{opcode.String()}, Opcode: opcode, Type: t}
}

func (o *FPBinaryOp) Kind() OpKind               { return OpFPArithmetic }
func (o *FPBinaryOp) OperandTypes() []types.Type { return []types.Type{o.Type, o.Type} }
func (o *FPBinaryOp) ResultTypes() []types.Type  { return []types.Type{o.Type} }
func (o *FPBinaryOp) Equal(other Operation) bool {
	oo, ok := other.(*FPBinaryOp)
	return ok && oo.Opcode == o.Opcode && oo.Type.Equal(o.Type)
}
func (o *FPBinaryOp) Associative() bool { return false } // fp arithmetic is not bit-exactly associative
func (o *FPBinaryOp) Commutative() bool { return o.Opcode == FPAdd || o.Opcode == FPMul }

// FPPredicate enumerates the floating-point compare family.
type FPPredicate int

const (
	FPPredOEQ FPPredicate = iota
	FPPredONE
	FPPredOLT
	FPPredOLE
	FPPredOGT
	FPPredOGE
)

type FPCompareOp struct {
	opBase
	Predicate FPPredicate
	Type      *types.FloatingPointType
	result    *types.BitStringType
}

func NewFPCompareOp(pred FPPredicate, t *types.FloatingPointType) *FPCompareOp {
	return &FPCompareOp{opBase: opBase{"fcmp"}, Predicate: pred, Type: t, result: types.BitString(1)}
}

func (o *FPCompareOp) Kind() OpKind               { return OpFPCompare }
func (o *FPCompareOp) OperandTypes() []types.Type { return []types.Type{o.Type, o.Type} }
func (o *FPCompareOp) ResultTypes() []types.Type  { return []types.Type{o.result} }
func (o *FPCompareOp) Equal(other Operation) bool {
	oo, ok := other.(*FPCompareOp)
	return ok && oo.Predicate == o.Predicate && oo.Type.Equal(o.Type)
}

// PointerCompareOp compares two pointers for (in)equality.
type PointerCompareOp struct {
	opBase
	Equal_ bool // true for eq, false for ne
	result *types.BitStringType
}

func NewPointerCompareOp(eq bool) *PointerCompareOp {
	name := "ptrcmp_ne"
	if eq {
		name = "ptrcmp_eq"
	}
	return &PointerCompareOp{opBase: opBase{name}, Equal_: eq, result: types.BitString(1)}
}

func (o *PointerCompareOp) Kind() OpKind { return OpPointerCompare }
func (o *PointerCompareOp) OperandTypes() []types.Type {
	return []types.Type{types.Pointer(), types.Pointer()}
}
func (o *PointerCompareOp) ResultTypes() []types.Type { return []types.Type{o.result} }
func (o *PointerCompareOp) Equal(other Operation) bool {
	oo, ok := other.(*PointerCompareOp)
	return ok && oo.Equal_ == o.Equal_
}

// CastKind enumerates the cast family.
type CastKind int

const (
	CastZExt CastKind = iota
	CastSExt
	CastTrunc
	CastBitcast
	CastFPToInt
	CastIntToFP
	CastPtrToInt
	CastIntToPtr
)

var castKindNames = map[CastKind]string{
	CastZExt: "zext", CastSExt: "sext", CastTrunc: "trunc", CastBitcast: "bitcast",
	CastFPToInt: "fptoint", CastIntToFP: "inttofp", CastPtrToInt: "ptrtoint", CastIntToPtr: "inttoptr",
}

type CastOp struct {
	opBase
	CastKind CastKind
	From, To types.Type
}

func NewCastOp(kind CastKind, from, to types.Type) *CastOp {
	return &CastOp{opBase: opBase{castKindNames[kind]}, CastKind: kind, From: from, To: to}
}

func (o *CastOp) Kind() OpKind               { return OpCast }
func (o *CastOp) OperandTypes() []types.Type { return []types.Type{o.From} }
func (o *CastOp) ResultTypes() []types.Type  { return []types.Type{o.To} }
func (o *CastOp) Equal(other Operation) bool {
	oo, ok := other.(*CastOp)
	return ok && oo.CastKind == o.CastKind && oo.From.Equal(o.From) && oo.To.Equal(o.To)
}

// SelectOp picks between two values based on a bit1 predicate;
// structurally this is what an empty two-armed gamma lowers to (spec
// §4.7.2's pull-in-suppression heuristic leaves such gammas alone so
// they can reach this form).
type SelectOp struct {
	opBase
	Type types.Type
}

func NewSelectOp(t types.Type) *SelectOp { return &SelectOp{opBase: opBase{"select"}, Type: t} }

func (o *SelectOp) Kind() OpKind { return OpSelect }
func (o *SelectOp) OperandTypes() []types.Type {
	return []types.Type{types.BitString(1), o.Type, o.Type}
}
func (o *SelectOp) ResultTypes() []types.Type { return []types.Type{o.Type} }
func (o *SelectOp) Equal(other Operation) bool {
	oo, ok := other.(*SelectOp)
	return ok && oo.Type.Equal(o.Type)
}

// PhiMergeOp is the pre-RVSDG SSA-phi operation: an N-way merge keyed
// by which predecessor block control arrived from. Phi-merge reconciles
// away during RVSDG construction (spec §4.6): every surviving phi TAC
// becomes a gamma exit variable or a theta loop variable.
type PhiMergeOp struct {
	opBase
	Type          types.Type
	Predecessors  int
}

func NewPhiMergeOp(t types.Type, predecessors int) *PhiMergeOp {
	return &PhiMergeOp{opBase: opBase{"phi"}, Type: t, Predecessors: predecessors}
}

func (o *PhiMergeOp) Kind() OpKind { return OpPhiMerge }
func (o *PhiMergeOp) OperandTypes() []types.Type {
	ts := make([]types.Type, o.Predecessors)
	for i := range ts {
		ts[i] = o.Type
	}
	return ts
}
func (o *PhiMergeOp) ResultTypes() []types.Type { return []types.Type{o.Type} }
func (o *PhiMergeOp) Equal(other Operation) bool {
	oo, ok := other.(*PhiMergeOp)
	return ok && oo.Type.Equal(o.Type) && oo.Predecessors == o.Predecessors
}

// AssignmentOp copies its operand through unchanged; TAC-level
// assignments bind the right-hand output to the left-hand variable
// without constructing a node at all once lowered (spec §4.6 "block"
// rule), but the operation still exists for the pre-lowering CFG TAC
// stream and for printer round-tripping.
type AssignmentOp struct {
	opBase
	Type types.Type
}

func NewAssignmentOp(t types.Type) *AssignmentOp {
	return &AssignmentOp{opBase: opBase{"assign"}, Type: t}
}

func (o *AssignmentOp) Kind() OpKind               { return OpAssignment }
func (o *AssignmentOp) OperandTypes() []types.Type { return []types.Type{o.Type} }
func (o *AssignmentOp) ResultTypes() []types.Type  { return []types.Type{o.Type} }
func (o *AssignmentOp) Equal(other Operation) bool {
	oo, ok := other.(*AssignmentOp)
	return ok && oo.Type.Equal(o.Type)
}
func (o *AssignmentOp) ReduceUnary(node *SimpleNode) (*Output, bool) {
	return node.Inputs()[0].Origin(), true
}

// AllocaOp reserves stack storage and returns a pointer plus the
// updated memory-state.
type AllocaOp struct {
	opBase
	AllocatedType types.Type
}

func NewAllocaOp(t types.Type) *AllocaOp { return &AllocaOp{opBase: opBase{"alloca"}, AllocatedType: t} }

func (o *AllocaOp) Kind() OpKind { return OpAlloca }
func (o *AllocaOp) OperandTypes() []types.Type {
	return []types.Type{types.BitString(64), types.MemoryState()}
}
func (o *AllocaOp) ResultTypes() []types.Type {
	return []types.Type{types.Pointer(), types.MemoryState()}
}
func (o *AllocaOp) Equal(other Operation) bool {
	oo, ok := other.(*AllocaOp)
	return ok && oo.AllocatedType.Equal(o.AllocatedType)
}

// LoadOp reads a value from memory. Volatile loads are never reordered
// or eliminated by normalization (spec §9 open question on io-barrier
// interaction notwithstanding, volatility itself is always respected).
type LoadOp struct {
	opBase
	Type     types.Type
	Volatile bool
}

func NewLoadOp(t types.Type, volatile bool) *LoadOp {
	name := "load"
	if volatile {
		name = "load_volatile"
	}
	return &LoadOp{opBase: opBase{name}, Type: t, Volatile: volatile}
}

func (o *LoadOp) Kind() OpKind { return OpLoad }
func (o *LoadOp) OperandTypes() []types.Type {
	return []types.Type{types.Pointer(), types.MemoryState()}
}
func (o *LoadOp) ResultTypes() []types.Type { return []types.Type{o.Type, types.MemoryState()} }
func (o *LoadOp) Equal(other Operation) bool {
	oo, ok := other.(*LoadOp)
	return ok && oo.Volatile == o.Volatile && oo.Type.Equal(o.Type)
}

// StoreOp writes a value to memory.
type StoreOp struct {
	opBase
	Type     types.Type
	Volatile bool
}

func NewStoreOp(t types.Type, volatile bool) *StoreOp {
	name := "store"
	if volatile {
		name = "store_volatile"
	}
	return &StoreOp{opBase: opBase{name}, Type: t, Volatile: volatile}
}

func (o *StoreOp) Kind() OpKind { return OpStore }
func (o *StoreOp) OperandTypes() []types.Type {
	return []types.Type{types.Pointer(), o.Type, types.MemoryState()}
}
func (o *StoreOp) ResultTypes() []types.Type { return []types.Type{types.MemoryState()} }
func (o *StoreOp) Equal(other Operation) bool {
	oo, ok := other.(*StoreOp)
	return ok && oo.Volatile == o.Volatile && oo.Type.Equal(o.Type)
}

// MemcpyOp copies Length bytes from source to destination.
type MemcpyOp struct{ opBase }

func NewMemcpyOp() *MemcpyOp { return &MemcpyOp{opBase{"memcpy"}} }

func (o *MemcpyOp) Kind() OpKind { return OpMemcpy }
func (o *MemcpyOp) OperandTypes() []types.Type {
	return []types.Type{types.Pointer(), types.Pointer(), types.BitString(64), types.MemoryState()}
}
func (o *MemcpyOp) ResultTypes() []types.Type { return []types.Type{types.MemoryState()} }
func (o *MemcpyOp) Equal(other Operation) bool { _, ok := other.(*MemcpyOp); return ok }

// MallocOp requests heap storage.
type MallocOp struct{ opBase }

func NewMallocOp() *MallocOp { return &MallocOp{opBase{"malloc"}} }

func (o *MallocOp) Kind() OpKind { return OpMalloc }
func (o *MallocOp) OperandTypes() []types.Type {
	return []types.Type{types.BitString(64), types.MemoryState()}
}
func (o *MallocOp) ResultTypes() []types.Type {
	return []types.Type{types.Pointer(), types.MemoryState()}
}
func (o *MallocOp) Equal(other Operation) bool { _, ok := other.(*MallocOp); return ok }

// FreeOp releases heap storage previously obtained from malloc.
type FreeOp struct{ opBase }

func NewFreeOp() *FreeOp { return &FreeOp{opBase{"free"}} }

func (o *FreeOp) Kind() OpKind { return OpFree }
func (o *FreeOp) OperandTypes() []types.Type {
	return []types.Type{types.Pointer(), types.MemoryState()}
}
func (o *FreeOp) ResultTypes() []types.Type { return []types.Type{types.MemoryState()} }
func (o *FreeOp) Equal(other Operation) bool { _, ok := other.(*FreeOp); return ok }

// CallOp invokes a function value; per spec §6, io-state and
// memory-state are always the last two operands and results.
type CallOp struct {
	opBase
	Signature *types.FunctionType
}

func NewCallOp(sig *types.FunctionType) *CallOp { return &CallOp{opBase{"call"}, sig} }

func (o *CallOp) Kind() OpKind { return OpCall }
func (o *CallOp) OperandTypes() []types.Type {
	return append([]types.Type{types.Pointer()}, o.Signature.Arguments...)
}
func (o *CallOp) ResultTypes() []types.Type { return o.Signature.Results }
func (o *CallOp) Equal(other Operation) bool {
	oo, ok := other.(*CallOp)
	return ok && oo.Signature.Equal(o.Signature)
}

// GetElementPtrOp computes a derived pointer from a base pointer and a
// fixed sequence of index operand types.
type GetElementPtrOp struct {
	opBase
	IndexTypes []types.Type
}

func NewGetElementPtrOp(indexTypes []types.Type) *GetElementPtrOp {
	return &GetElementPtrOp{opBase{"getelementptr"}, indexTypes}
}

func (o *GetElementPtrOp) Kind() OpKind { return OpGetElementPtr }
func (o *GetElementPtrOp) OperandTypes() []types.Type {
	return append([]types.Type{types.Pointer()}, o.IndexTypes...)
}
func (o *GetElementPtrOp) ResultTypes() []types.Type { return []types.Type{types.Pointer()} }
func (o *GetElementPtrOp) Equal(other Operation) bool {
	oo, ok := other.(*GetElementPtrOp)
	if !ok || len(oo.IndexTypes) != len(o.IndexTypes) {
		return false
	}
	for i := range o.IndexTypes {
		if !oo.IndexTypes[i].Equal(o.IndexTypes[i]) {
			return false
		}
	}
	return true
}

// MemStateSplitOp partitions one memory-state edge into N, the
// mechanism the (out-of-scope) alias-analysis encoder would consume;
// the core contract only needs the operation to be well-typed.
type MemStateSplitOp struct {
	opBase
	N int
}

func NewMemStateSplitOp(n int) *MemStateSplitOp { return &MemStateSplitOp{opBase{"memstate_split"}, n} }

func (o *MemStateSplitOp) Kind() OpKind               { return OpMemStateSplit }
func (o *MemStateSplitOp) OperandTypes() []types.Type { return []types.Type{types.MemoryState()} }
func (o *MemStateSplitOp) ResultTypes() []types.Type {
	ts := make([]types.Type, o.N)
	for i := range ts {
		ts[i] = types.MemoryState()
	}
	return ts
}
func (o *MemStateSplitOp) Equal(other Operation) bool {
	oo, ok := other.(*MemStateSplitOp)
	return ok && oo.N == o.N
}

// MemStateMergeOp recombines N memory-state edges into one.
type MemStateMergeOp struct {
	opBase
	N int
}

func NewMemStateMergeOp(n int) *MemStateMergeOp { return &MemStateMergeOp{opBase{"memstate_merge"}, n} }

func (o *MemStateMergeOp) Kind() OpKind { return OpMemStateMerge }
func (o *MemStateMergeOp) OperandTypes() []types.Type {
	ts := make([]types.Type, o.N)
	for i := range ts {
		ts[i] = types.MemoryState()
	}
	return ts
}
func (o *MemStateMergeOp) ResultTypes() []types.Type { return []types.Type{types.MemoryState()} }
func (o *MemStateMergeOp) Equal(other Operation) bool {
	oo, ok := other.(*MemStateMergeOp)
	return ok && oo.N == o.N
}

// IOBarrierOp forces ordering between otherwise-unrelated io-state
// producers; spec §9's open question on volatile/io-barrier reordering
// concerns how aggressively this is elided, not whether it exists.
type IOBarrierOp struct{ opBase }

func NewIOBarrierOp() *IOBarrierOp { return &IOBarrierOp{opBase{"io_barrier"}} }

func (o *IOBarrierOp) Kind() OpKind                { return OpIOBarrier }
func (o *IOBarrierOp) OperandTypes() []types.Type  { return []types.Type{types.IOState()} }
func (o *IOBarrierOp) ResultTypes() []types.Type   { return []types.Type{types.IOState()} }
func (o *IOBarrierOp) Equal(other Operation) bool  { _, ok := other.(*IOBarrierOp); return ok }

// ValistOp advances a varargs cursor and extracts the next argument.
type ValistOp struct {
	opBase
	Type types.Type
}

func NewValistOp(t types.Type) *ValistOp { return &ValistOp{opBase{"va_arg"}, t} }

func (o *ValistOp) Kind() OpKind { return OpValist }
func (o *ValistOp) OperandTypes() []types.Type {
	return []types.Type{types.VarArgs(), types.MemoryState()}
}
func (o *ValistOp) ResultTypes() []types.Type {
	return []types.Type{o.Type, types.VarArgs(), types.MemoryState()}
}
func (o *ValistOp) Equal(other Operation) bool {
	oo, ok := other.(*ValistOp)
	return ok && oo.Type.Equal(o.Type)
}

// ConstantArrayOp, ConstantStructOp, ConstantVectorOp build aggregate
// constants from scalar operands.
type ConstantArrayOp struct {
	opBase
	Element types.Type
	N       int
}

func NewConstantArrayOp(element types.Type, n int) *ConstantArrayOp {
	return &ConstantArrayOp{opBase{"constant_array"}, element, n}
}

func (o *ConstantArrayOp) Kind() OpKind { return OpConstantArray }
func (o *ConstantArrayOp) OperandTypes() []types.Type {
	ts := make([]types.Type, o.N)
	for i := range ts {
		ts[i] = o.Element
	}
	return ts
}
func (o *ConstantArrayOp) ResultTypes() []types.Type {
	return []types.Type{types.Array(o.Element, uint(o.N))}
}
func (o *ConstantArrayOp) Equal(other Operation) bool {
	oo, ok := other.(*ConstantArrayOp)
	return ok && oo.N == o.N && oo.Element.Equal(o.Element)
}

type ConstantStructOp struct {
	opBase
	Declaration *types.StructDeclaration
}

func NewConstantStructOp(decl *types.StructDeclaration) *ConstantStructOp {
	return &ConstantStructOp{opBase{"constant_struct"}, decl}
}

func (o *ConstantStructOp) Kind() OpKind               { return OpConstantStruct }
func (o *ConstantStructOp) OperandTypes() []types.Type { return o.Declaration.Elements }
func (o *ConstantStructOp) ResultTypes() []types.Type {
	return []types.Type{types.Struct(o.Declaration)}
}
func (o *ConstantStructOp) Equal(other Operation) bool {
	oo, ok := other.(*ConstantStructOp)
	return ok && types.Struct(oo.Declaration).Equal(types.Struct(o.Declaration))
}

type ConstantVectorOp struct {
	opBase
	Element types.Type
	Lanes   int
}

func NewConstantVectorOp(element types.Type, lanes int) *ConstantVectorOp {
	return &ConstantVectorOp{opBase{"constant_vector"}, element, lanes}
}

func (o *ConstantVectorOp) Kind() OpKind { return OpConstantVector }
func (o *ConstantVectorOp) OperandTypes() []types.Type {
	ts := make([]types.Type, o.Lanes)
	for i := range ts {
		ts[i] = o.Element
	}
	return ts
}
func (o *ConstantVectorOp) ResultTypes() []types.Type {
	return []types.Type{types.Vector(o.Element, uint(o.Lanes))}
}
func (o *ConstantVectorOp) Equal(other Operation) bool {
	oo, ok := other.(*ConstantVectorOp)
	return ok && oo.Lanes == o.Lanes && oo.Element.Equal(o.Element)
}

// ExtractElementOp / InsertElementOp index into a vector by a dynamic
// index operand; ExtractValueOp / InsertValueOp index into a struct or
// array by a static field index.
type ExtractElementOp struct {
	opBase
	VectorType *types.VectorType
}

func NewExtractElementOp(vt *types.VectorType) *ExtractElementOp {
	return &ExtractElementOp{opBase{"extractelement"}, vt}
}
func (o *ExtractElementOp) Kind() OpKind { return OpExtractElement }
func (o *ExtractElementOp) OperandTypes() []types.Type {
	return []types.Type{o.VectorType, types.BitString(32)}
}
func (o *ExtractElementOp) ResultTypes() []types.Type { return []types.Type{o.VectorType.Element} }
func (o *ExtractElementOp) Equal(other Operation) bool {
	oo, ok := other.(*ExtractElementOp)
	return ok && oo.VectorType.Equal(o.VectorType)
}

type InsertElementOp struct {
	opBase
	VectorType *types.VectorType
}

func NewInsertElementOp(vt *types.VectorType) *InsertElementOp {
	return &InsertElementOp{opBase{"insertelement"}, vt}
}
func (o *InsertElementOp) Kind() OpKind { return OpInsertElement }
func (o *InsertElementOp) OperandTypes() []types.Type {
	return []types.Type{o.VectorType, o.VectorType.Element, types.BitString(32)}
}
func (o *InsertElementOp) ResultTypes() []types.Type { return []types.Type{o.VectorType} }
func (o *InsertElementOp) Equal(other Operation) bool {
	oo, ok := other.(*InsertElementOp)
	return ok && oo.VectorType.Equal(o.VectorType)
}

type ExtractValueOp struct {
	opBase
	AggregateType types.Type
	Index         int
	ResultType    types.Type
}

func NewExtractValueOp(aggType types.Type, index int, resultType types.Type) *ExtractValueOp {
	return &ExtractValueOp{opBase{"extractvalue"}, aggType, index, resultType}
}
func (o *ExtractValueOp) Kind() OpKind               { return OpExtractValue }
func (o *ExtractValueOp) OperandTypes() []types.Type { return []types.Type{o.AggregateType} }
func (o *ExtractValueOp) ResultTypes() []types.Type  { return []types.Type{o.ResultType} }
func (o *ExtractValueOp) Equal(other Operation) bool {
	oo, ok := other.(*ExtractValueOp)
	return ok && oo.Index == o.Index && oo.AggregateType.Equal(o.AggregateType)
}

type InsertValueOp struct {
	opBase
	AggregateType types.Type
	Index         int
	FieldType     types.Type
}

func NewInsertValueOp(aggType types.Type, index int, fieldType types.Type) *InsertValueOp {
	return &InsertValueOp{opBase{"insertvalue"}, aggType, index, fieldType}
}
func (o *InsertValueOp) Kind() OpKind { return OpInsertValue }
func (o *InsertValueOp) OperandTypes() []types.Type {
	return []types.Type{o.AggregateType, o.FieldType}
}
func (o *InsertValueOp) ResultTypes() []types.Type { return []types.Type{o.AggregateType} }
func (o *InsertValueOp) Equal(other Operation) bool {
	oo, ok := other.(*InsertValueOp)
	return ok && oo.Index == o.Index && oo.AggregateType.Equal(o.AggregateType)
}

// ShuffleVectorOp permutes/combines two input vectors per a static mask.
type ShuffleVectorOp struct {
	opBase
	VectorType *types.VectorType
	Mask       []int
}

func NewShuffleVectorOp(vt *types.VectorType, mask []int) *ShuffleVectorOp {
	return &ShuffleVectorOp{opBase{"shufflevector"}, vt, mask}
}
func (o *ShuffleVectorOp) Kind() OpKind { return OpShuffleVector }
func (o *ShuffleVectorOp) OperandTypes() []types.Type {
	return []types.Type{o.VectorType, o.VectorType}
}
func (o *ShuffleVectorOp) ResultTypes() []types.Type {
	return []types.Type{types.Vector(o.VectorType.Element, uint(len(o.Mask)))}
}
func (o *ShuffleVectorOp) Equal(other Operation) bool {
	oo, ok := other.(*ShuffleVectorOp)
	if !ok || !oo.VectorType.Equal(o.VectorType) || len(oo.Mask) != len(o.Mask) {
		return false
	}
	for i := range o.Mask {
		if oo.Mask[i] != o.Mask[i] {
			return false
		}
	}
	return true
}

// MatchOp maps an integer operand to a control-flow tag (one of
// NumAlternatives), the operation gamma predicates and theta/loop tail
// dispatchers are built from.
type MatchOp struct {
	opBase
	InputType       *types.BitStringType
	NumAlternatives int
}

func NewMatchOp(t *types.BitStringType, alternatives int) *MatchOp {
	return &MatchOp{opBase{"match"}, t, alternatives}
}
func (o *MatchOp) Kind() OpKind               { return OpMatch }
func (o *MatchOp) OperandTypes() []types.Type { return []types.Type{o.InputType} }
func (o *MatchOp) ResultTypes() []types.Type  { return []types.Type{controlType(o.NumAlternatives)} }
func (o *MatchOp) Equal(other Operation) bool {
	oo, ok := other.(*MatchOp)
	return ok && oo.NumAlternatives == o.NumAlternatives && oo.InputType.Equal(o.InputType)
}

// BranchOp is the TAC-level terminator operation: it outputs a control
// selector consumed by the CFG's successor-indexed edges (spec §3 "Edges
// carry an ordinal index"). It never survives into the RVSDG; aggregation
// consumes it when folding a block's terminator into branch/loop
// structure.
type BranchOp struct {
	opBase
	NumSuccessors int
}

func NewBranchOp(n int) *BranchOp { return &BranchOp{opBase{"branch"}, n} }

func (o *BranchOp) Kind() OpKind               { return OpBranch }
func (o *BranchOp) OperandTypes() []types.Type { return []types.Type{types.BitString(32)} }
func (o *BranchOp) ResultTypes() []types.Type  { return []types.Type{controlType(o.NumSuccessors)} }
func (o *BranchOp) Equal(other Operation) bool {
	oo, ok := other.(*BranchOp)
	return ok && oo.NumSuccessors == o.NumSuccessors
}

// controlType is the synthetic type of a branch/match selector: a
// bitstring wide enough to enumerate the alternatives.
func controlType(alternatives int) *types.BitStringType {
	width := uint(1)
	for (1 << width) < alternatives {
		width++
	}
	return types.BitString(width)
}

// UndefOp / PoisonOp / NullPointerOp are zero-operand operations
// producing an unspecified-but-typed, an erroneous-use-poisoning, and a
// null-pointer value respectively.
type UndefOp struct {
	opBase
	Type types.Type
}

func NewUndefOp(t types.Type) *UndefOp { return &UndefOp{opBase{"undef"}, t} }
func (o *UndefOp) Kind() OpKind               { return OpUndef }
func (o *UndefOp) OperandTypes() []types.Type { return nil }
func (o *UndefOp) ResultTypes() []types.Type  { return []types.Type{o.Type} }
func (o *UndefOp) Equal(other Operation) bool {
	oo, ok := other.(*UndefOp)
	return ok && oo.Type.Equal(o.Type)
}

type PoisonOp struct {
	opBase
	Type types.Type
}

func NewPoisonOp(t types.Type) *PoisonOp { return &PoisonOp{opBase{"poison"}, t} }
func (o *PoisonOp) Kind() OpKind               { return OpPoison }
func (o *PoisonOp) OperandTypes() []types.Type { return nil }
func (o *PoisonOp) ResultTypes() []types.Type  { return []types.Type{o.Type} }
func (o *PoisonOp) Equal(other Operation) bool {
	oo, ok := other.(*PoisonOp)
	return ok && oo.Type.Equal(o.Type)
}

type NullPointerOp struct{ opBase }

func NewNullPointerOp() *NullPointerOp { return &NullPointerOp{opBase{"nullptr"}} }
func (o *NullPointerOp) Kind() OpKind               { return OpNullPointer }
func (o *NullPointerOp) OperandTypes() []types.Type { return nil }
func (o *NullPointerOp) ResultTypes() []types.Type  { return []types.Type{types.Pointer()} }
func (o *NullPointerOp) Equal(other Operation) bool { _, ok := other.(*NullPointerOp); return ok }


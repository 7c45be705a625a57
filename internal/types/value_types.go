package types

import (
	"fmt"
	"strings"
)

// BitStringType is a fixed-width two's-complement integer value type;
// the sign is carried by the operation that consumes it, not the type.
type BitStringType struct {
	Width uint
}

func BitString(width uint) *BitStringType { return &BitStringType{Width: width} }

func (t *BitStringType) Kind() Kind    { return KindBitString }
func (t *BitStringType) IsState() bool { return false }
func (t *BitStringType) String() string {
	return fmt.Sprintf("bit%d", t.Width)
}
func (t *BitStringType) Equal(o Type) bool {
	ot, ok := o.(*BitStringType)
	return ok && ot.Width == t.Width
}

// FloatingPointKind distinguishes IEEE-754 formats.
type FloatingPointKind int

const (
	FPHalf FloatingPointKind = iota
	FPSingle
	FPDouble
	FPQuad
)

func (k FloatingPointKind) String() string {
	switch k {
	case FPHalf:
		return "half"
	case FPSingle:
		return "single"
	case FPDouble:
		return "double"
	case FPQuad:
		return "quad"
	default:
		return "fp?"
	}
}

type FloatingPointType struct {
	Format FloatingPointKind
}

func FloatingPoint(format FloatingPointKind) *FloatingPointType {
	return &FloatingPointType{Format: format}
}

func (t *FloatingPointType) Kind() Kind     { return KindFloatingPoint }
func (t *FloatingPointType) IsState() bool  { return false }
func (t *FloatingPointType) String() string { return t.Format.String() }
func (t *FloatingPointType) Equal(o Type) bool {
	ot, ok := o.(*FloatingPointType)
	return ok && ot.Format == t.Format
}

// PointerType is opaque: it carries no pointee type, matching jlm's
// untyped-pointer representation.
type PointerType struct{}

func Pointer() *PointerType { return &PointerType{} }

func (t *PointerType) Kind() Kind       { return KindPointer }
func (t *PointerType) IsState() bool    { return false }
func (t *PointerType) String() string   { return "ptr" }
func (t *PointerType) Equal(o Type) bool {
	_, ok := o.(*PointerType)
	return ok
}

// ArrayType is a fixed-length homogeneous aggregate.
type ArrayType struct {
	Element Type
	Length  uint
}

func Array(element Type, length uint) *ArrayType {
	return &ArrayType{Element: element, Length: length}
}

func (t *ArrayType) Kind() Kind    { return KindArray }
func (t *ArrayType) IsState() bool { return false }
func (t *ArrayType) String() string {
	return fmt.Sprintf("[%d x %s]", t.Length, t.Element)
}
func (t *ArrayType) Equal(o Type) bool {
	ot, ok := o.(*ArrayType)
	return ok && ot.Length == t.Length && ot.Element.Equal(t.Element)
}

// VectorType is a fixed-length SIMD-lane aggregate, distinct from Array
// so that vector-specific operations (shufflevector, insert/extract
// element) have a type to attach to.
type VectorType struct {
	Element Type
	Lanes   uint
}

func Vector(element Type, lanes uint) *VectorType {
	return &VectorType{Element: element, Lanes: lanes}
}

func (t *VectorType) Kind() Kind    { return KindVector }
func (t *VectorType) IsState() bool { return false }
func (t *VectorType) String() string {
	return fmt.Sprintf("<%d x %s>", t.Lanes, t.Element)
}
func (t *VectorType) Equal(o Type) bool {
	ot, ok := o.(*VectorType)
	return ok && ot.Lanes == t.Lanes && ot.Element.Equal(t.Element)
}

// StructDeclaration is the shared, named element-type vector behind a
// StructType. Recursive struct types are representable without cycles
// in the type graph because members reference the declaration of the
// (possibly still-being-built) struct rather than embedding it, exactly
// as jlm's StructType/declaration split does.
type StructDeclaration struct {
	Name     string
	Elements []Type
	Packed   bool
}

// StructType references a shared declaration; equality is by
// declaration identity then, defensively, by structural comparison of
// an unnamed declaration (two anonymous structs with the same packed
// layout are equal even without sharing a declaration pointer).
type StructType struct {
	Declaration *StructDeclaration
}

func Struct(decl *StructDeclaration) *StructType {
	return &StructType{Declaration: decl}
}

func (t *StructType) Kind() Kind    { return KindStruct }
func (t *StructType) IsState() bool { return false }
func (t *StructType) String() string {
	if t.Declaration.Name != "" {
		return t.Declaration.Name
	}
	parts := make([]string, len(t.Declaration.Elements))
	for i, e := range t.Declaration.Elements {
		parts[i] = e.String()
	}
	prefix := "struct"
	if t.Declaration.Packed {
		prefix = "packed_struct"
	}
	return fmt.Sprintf("%s{%s}", prefix, strings.Join(parts, ", "))
}
func (t *StructType) Equal(o Type) bool {
	ot, ok := o.(*StructType)
	if !ok {
		return false
	}
	if t.Declaration == ot.Declaration {
		return true
	}
	if t.Declaration.Name != "" || ot.Declaration.Name != "" {
		return t.Declaration.Name == ot.Declaration.Name
	}
	if t.Declaration.Packed != ot.Declaration.Packed {
		return false
	}
	if len(t.Declaration.Elements) != len(ot.Declaration.Elements) {
		return false
	}
	for i := range t.Declaration.Elements {
		if !t.Declaration.Elements[i].Equal(ot.Declaration.Elements[i]) {
			return false
		}
	}
	return true
}

// FunctionType records argument and result type vectors for a lambda's
// signature. Per the frontend contract (spec §6), a well-formed
// function type's last two result types (and, for non-varargs
// functions, argument types) are io-state and memory-state.
type FunctionType struct {
	Arguments []Type
	Results   []Type
}

func Function(arguments, results []Type) *FunctionType {
	return &FunctionType{Arguments: arguments, Results: results}
}

func (t *FunctionType) Kind() Kind    { return KindFunction }
func (t *FunctionType) IsState() bool { return false }
func (t *FunctionType) String() string {
	args := make([]string, len(t.Arguments))
	for i, a := range t.Arguments {
		args[i] = a.String()
	}
	res := make([]string, len(t.Results))
	for i, r := range t.Results {
		res[i] = r.String()
	}
	return fmt.Sprintf("(%s) -> (%s)", strings.Join(args, ", "), strings.Join(res, ", "))
}
func (t *FunctionType) Equal(o Type) bool {
	ot, ok := o.(*FunctionType)
	if !ok || len(t.Arguments) != len(ot.Arguments) || len(t.Results) != len(ot.Results) {
		return false
	}
	for i := range t.Arguments {
		if !t.Arguments[i].Equal(ot.Arguments[i]) {
			return false
		}
	}
	for i := range t.Results {
		if !t.Results[i].Equal(ot.Results[i]) {
			return false
		}
	}
	return true
}

// VarArgsType is the type of the varargs-list value threaded through
// valist operations; it carries no further structure.
type VarArgsType struct{}

func VarArgs() *VarArgsType { return &VarArgsType{} }

func (t *VarArgsType) Kind() Kind      { return KindVarArgs }
func (t *VarArgsType) IsState() bool   { return false }
func (t *VarArgsType) String() string  { return "varargs" }
func (t *VarArgsType) Equal(o Type) bool {
	_, ok := o.(*VarArgsType)
	return ok
}

// mustMatch panics with a type-mismatch message if a and b are not
// structurally equal.
func mustMatch(a, b Type) {
	if !a.Equal(b) {
		panic(mismatch(a, b))
	}
}

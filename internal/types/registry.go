package types

import "sync"

// Registry interns the stateless, finitely-configured type variants so
// that callers constructing the same type repeatedly (bit-widths, io-
// state, pointers) get back the same shared handle. Aggregate types
// (array/struct/vector/function) are built fresh per call since their
// identity is driven by the struct declaration they reference, not by
// their own configuration, and jlm's struct declarations are the unit
// of sharing for those (see StructDeclaration).
//
// This stands in for "reference-counted handles" (spec §3): Go's
// garbage collector already reclaims a Type with no remaining
// referents, so interning here only needs to dedupe identity, not track
// refcounts explicitly.
type Registry struct {
	mu         sync.Mutex
	bitStrings map[uint]*BitStringType
	floats     map[FloatingPointKind]*FloatingPointType
	pointer    *PointerType
	ioState    *IOStateType
	memState   *MemoryStateType
	varArgs    *VarArgsType
}

// NewRegistry creates an empty interning table.
func NewRegistry() *Registry {
	return &Registry{
		bitStrings: make(map[uint]*BitStringType),
		floats:     make(map[FloatingPointKind]*FloatingPointType),
	}
}

func (r *Registry) BitString(width uint) *BitStringType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.bitStrings[width]; ok {
		return t
	}
	t := BitString(width)
	r.bitStrings[width] = t
	return t
}

func (r *Registry) FloatingPoint(format FloatingPointKind) *FloatingPointType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.floats[format]; ok {
		return t
	}
	t := FloatingPoint(format)
	r.floats[format] = t
	return t
}

func (r *Registry) Pointer() *PointerType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pointer == nil {
		r.pointer = Pointer()
	}
	return r.pointer
}

func (r *Registry) IOState() *IOStateType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ioState == nil {
		r.ioState = IOState()
	}
	return r.ioState
}

func (r *Registry) MemoryState() *MemoryStateType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.memState == nil {
		r.memState = MemoryState()
	}
	return r.memState
}

func (r *Registry) VarArgs() *VarArgsType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.varArgs == nil {
		r.varArgs = VarArgs()
	}
	return r.varArgs
}

// NewStructDeclaration registers a fresh, independent struct
// declaration; callers that need recursive struct types build the
// declaration first with a placeholder Elements slice and append to it
// once the member types (which may include *StructType referencing this
// very declaration) are known.
func NewStructDeclaration(name string, packed bool) *StructDeclaration {
	return &StructDeclaration{Name: name, Packed: packed}
}

package types

// IOStateType is the sequentialization edge threading externally
// visible, non-memory side effects (the io-barrier operation, calls'
// ordering with respect to each other).
type IOStateType struct{}

func IOState() *IOStateType { return &IOStateType{} }

func (t *IOStateType) Kind() Kind      { return KindIOState }
func (t *IOStateType) IsState() bool   { return true }
func (t *IOStateType) String() string  { return "iostate" }
func (t *IOStateType) Equal(o Type) bool {
	_, ok := o.(*IOStateType)
	return ok
}

// MemoryStateType is the sequentialization edge threading load/store/
// alloca/free/memcpy ordering. Memory-state split/merge operations
// partition and recombine it; the core contract only requires that the
// type itself be well-formed, not that any particular alias discipline
// hold (spec §1 non-goals).
type MemoryStateType struct{}

func MemoryState() *MemoryStateType { return &MemoryStateType{} }

func (t *MemoryStateType) Kind() Kind      { return KindMemoryState }
func (t *MemoryStateType) IsState() bool   { return true }
func (t *MemoryStateType) String() string  { return "memstate" }
func (t *MemoryStateType) Equal(o Type) bool {
	_, ok := o.(*MemoryStateType)
	return ok
}

package rvsdg

// NormalForm holds the enabled-rewrite flags for one operation kind:
// whether unary/pairwise reduction, operand reordering, cascaded-binary
// flattening, and distribute/factorize rewrites are permitted (spec
// §4.3 "Normal forms"). An unset flag is inherited from the parent
// normal form, so disabling a rewrite at the root (e.g. for a whole
// debug session) cascades to every kind that has not explicitly
// overridden it, while a kind-specific override always wins locally.
type NormalForm struct {
	parent *NormalForm

	reducible  *bool
	reorder    *bool
	flatten    *bool
	distribute *bool
	factorize  *bool
}

func (nf *NormalForm) Reducible() bool { return nf.resolve(func(n *NormalForm) *bool { return n.reducible }) }
func (nf *NormalForm) Reorder() bool   { return nf.resolve(func(n *NormalForm) *bool { return n.reorder }) }
func (nf *NormalForm) Flatten() bool   { return nf.resolve(func(n *NormalForm) *bool { return n.flatten }) }
func (nf *NormalForm) Distribute() bool {
	return nf.resolve(func(n *NormalForm) *bool { return n.distribute })
}
func (nf *NormalForm) Factorize() bool {
	return nf.resolve(func(n *NormalForm) *bool { return n.factorize })
}

func (nf *NormalForm) resolve(field func(*NormalForm) *bool) bool {
	for n := nf; n != nil; n = n.parent {
		if v := field(n); v != nil {
			return *v
		}
	}
	return true // the implicit root default: every rewrite enabled
}

func boolPtr(v bool) *bool { return &v }

func (nf *NormalForm) SetReducible(v bool)  { nf.reducible = boolPtr(v) }
func (nf *NormalForm) SetReorder(v bool)    { nf.reorder = boolPtr(v) }
func (nf *NormalForm) SetFlatten(v bool)    { nf.flatten = boolPtr(v) }
func (nf *NormalForm) SetDistribute(v bool) { nf.distribute = boolPtr(v) }
func (nf *NormalForm) SetFactorize(v bool)  { nf.factorize = boolPtr(v) }

// NormalFormRegistry hands out one NormalForm per OpKind, each chained
// under a single root so a blanket change (e.g. "disable flatten
// everywhere") can be made once.
type NormalFormRegistry struct {
	root  *NormalForm
	forms map[OpKind]*NormalForm
}

// NewNormalFormRegistry creates a registry with every rewrite enabled by
// default at the root.
func NewNormalFormRegistry() *NormalFormRegistry {
	return &NormalFormRegistry{root: &NormalForm{}, forms: make(map[OpKind]*NormalForm)}
}

// Root returns the registry's root normal form, whose settings are the
// fallback for every operation kind that hasn't overridden them.
func (r *NormalFormRegistry) Root() *NormalForm { return r.root }

// For returns the normal form for kind, creating a child of the root on
// first use.
func (r *NormalFormRegistry) For(kind OpKind) *NormalForm {
	if nf, ok := r.forms[kind]; ok {
		return nf
	}
	nf := &NormalForm{parent: r.root}
	r.forms[kind] = nf
	return nf
}

package rvsdg

import "rvsdgc/internal/types"

// Output is a single producible value: the result of a simple node, a
// structural output, or a region argument. Every Output tracks its own
// user set so that divert and removal can run in O(users) rather than
// scanning the whole graph.
type Output struct {
	typ   types.Type
	owner portOwner
	index int
	users []*Input
}

func newOutput(owner portOwner, index int, typ types.Type) *Output {
	return &Output{typ: typ, owner: owner, index: index}
}

// Type returns the value- or state-type this output carries.
func (o *Output) Type() types.Type { return o.typ }

// Index is this output's position in its owner's output (or argument)
// list.
func (o *Output) Index() int { return o.index }

// Node returns the producing node, or nil if this output is a region
// argument (no producer).
func (o *Output) Node() Node {
	if n, ok := o.owner.(Node); ok {
		return n
	}
	return nil
}

// Region returns the region this output is a live value within: the
// owning node's region for a node output, or the region itself for an
// argument.
func (o *Output) Region() *Region { return o.owner.ownerRegion() }

// Users returns the inputs currently pointing at this output. The
// returned slice must not be mutated by callers; use DivertUsers to
// change it.
func (o *Output) Users() []*Input { return o.users }

func (o *Output) addUser(i *Input) { o.users = append(o.users, i) }

func (o *Output) removeUser(i *Input) {
	for idx, u := range o.users {
		if u == i {
			o.users = append(o.users[:idx], o.users[idx+1:]...)
			return
		}
	}
}

// DivertUsers atomically retargets every current user of o to newOrigin,
// updating both user sets. This is the only sanctioned way to redirect
// edges in bulk (spec §4.2): callers never splice user slices directly.
func (o *Output) DivertUsers(newOrigin *Output) {
	if o == newOrigin {
		return
	}
	users := make([]*Input, len(o.users))
	copy(users, o.users)
	for _, u := range users {
		setOrigin(u, newOrigin)
	}
}

// HasUsers reports whether any input still references this output.
func (o *Output) HasUsers() bool { return len(o.users) > 0 }

// Input is a single value consumer: one operand slot of a simple node,
// one structural-input slot of a structural node, or one region result.
// An input always has an origin once constructed; origin-less inputs
// are not representable.
type Input struct {
	typ    types.Type
	owner  portOwner
	index  int
	origin *Output
}

func newInput(owner portOwner, index int, origin *Output) *Input {
	i := &Input{typ: origin.Type(), owner: owner, index: index}
	setOrigin(i, origin)
	return i
}

// Type returns the value- or state-type this input expects; always
// equal to its current origin's type.
func (i *Input) Type() types.Type { return i.typ }

// Index is this input's position in its owner's input (or result) list.
func (i *Input) Index() int { return i.index }

// Origin is the output this input currently consumes.
func (i *Input) Origin() *Output { return i.origin }

// Node returns the consuming node, or nil if this input is a region
// result.
func (i *Input) Node() Node {
	if n, ok := i.owner.(Node); ok {
		return n
	}
	return nil
}

// Region returns the region this input lives within.
func (i *Input) Region() *Region { return i.owner.ownerRegion() }

// setOrigin is the single mutation primitive every origin change routes
// through (spec §4.2 "Invariant maintenance"): it updates the old
// origin's user set, repoints the input, updates the new origin's user
// set, and triggers depth recomputation on the input's owning node.
func setOrigin(i *Input, newOrigin *Output) {
	if i.origin == newOrigin {
		return
	}
	if i.origin != nil {
		i.origin.removeUser(i)
	}
	i.origin = newOrigin
	i.typ = newOrigin.Type()
	newOrigin.addUser(i)

	if n, ok := i.owner.(Node); ok {
		n.recomputeDepth()
	}
}

// portOwner is implemented by both Node and *Region so that an Output's
// or Input's owner can be either a node's port list or a region's
// argument/result list.
type portOwner interface {
	ownerRegion() *Region
}

package rvsdg

import (
	"fmt"

	"rvsdgc/internal/types"
)

// StructuralKind tags which of the five structural-node variants a
// StructuralNode is (spec §3 "Structural node variants").
type StructuralKind int

const (
	KindGamma StructuralKind = iota
	KindTheta
	KindLambda
	KindPhi
	KindDelta
)

func (k StructuralKind) String() string {
	switch k {
	case KindGamma:
		return "gamma"
	case KindTheta:
		return "theta"
	case KindLambda:
		return "lambda"
	case KindPhi:
		return "phi"
	case KindDelta:
		return "delta"
	default:
		return "structural?"
	}
}

// StructuralNode owns one or more subregions; it has structural inputs
// (each optionally associated with an ordered list of per-subregion
// arguments) and structural outputs (each optionally associated with an
// ordered list of per-subregion results). Spec §3.
//
// Gamma, Theta, Lambda, Phi and Delta embed *StructuralNode and add the
// semantics (predicate handling, loop-variable pairing, context
// variables) specific to their kind; StructuralNode itself only
// implements the entry-variable/exit-variable mechanics shared by all
// five (spec §4.2 "Structural nodes expose add_entryvar, add_exitvar,
// add_loopvar that consistently create input-argument pairs or
// result-output pairs in every subregion").
type StructuralNode struct {
	base
	kind        StructuralKind
	subregions  []*Region
	entryArgs   map[int][]*Output // structural input index -> per-subregion argument
	exitResults map[int][]*Input  // structural output index -> per-subregion result
}

func newStructuralNode(region *Region, kind StructuralKind, numSubregions int) *StructuralNode {
	s := &StructuralNode{
		base:        base{region: region},
		kind:        kind,
		entryArgs:   make(map[int][]*Output),
		exitResults: make(map[int][]*Input),
	}
	s.id = region.nextNodeID()
	s.subregions = make([]*Region, numSubregions)
	for i := range s.subregions {
		s.subregions[i] = newRegion(region.graph, s)
	}
	region.nodes = append(region.nodes, s)
	return s
}

func (s *StructuralNode) Kind() StructuralKind { return s.kind }
func (s *StructuralNode) Subregions() []*Region { return s.subregions }

func (s *StructuralNode) recomputeDepth() { s.recomputeDepthFor(s) }

func (s *StructuralNode) destroy() {
	// Drop subregion contents in reverse topological order first so no
	// origin outlives its users (spec §5), then the node's own ports.
	for _, sub := range s.subregions {
		for i := len(sub.nodes) - 1; i >= 0; i-- {
			sub.nodes[i].destroy()
		}
	}
	for _, in := range s.inputs {
		if in.origin != nil {
			in.origin.removeUser(in)
		}
	}
	if g := s.region.Graph(); g != nil {
		g.notifyDestroy(s)
	}
}

func (s *StructuralNode) String() string {
	return fmt.Sprintf("%s#%d", s.kind, s.id)
}

// AddEntryVar fans origin into every subregion as a fresh argument and
// records a structural input on the node pointing at origin. Returns
// the structural input and the per-subregion arguments (one per
// subregion, in subregion order) uses within each subregion should
// reference.
func (s *StructuralNode) AddEntryVar(origin *Output) (*Input, []*Output) {
	checkLocal(s.region, origin)
	idx := len(s.inputs)
	in := s.addInput(s, origin, origin.Type())
	args := make([]*Output, len(s.subregions))
	for i, sub := range s.subregions {
		args[i] = sub.AddArgument(origin.Type())
	}
	s.entryArgs[idx] = args
	return in, args
}

// AddExitVar selects one value per subregion (perArm, in subregion
// order; all must share a type) and exposes a single structural output
// whose subregion-by-subregion source is perArm[i].
func (s *StructuralNode) AddExitVar(perArm []*Output) *Output {
	if len(perArm) != len(s.subregions) {
		panic(fmt.Sprintf("rvsdg: AddExitVar needs %d arm values, got %d", len(s.subregions), len(perArm)))
	}
	t := perArm[0].Type()
	idx := len(s.outputs)
	results := make([]*Input, len(s.subregions))
	for i, sub := range s.subregions {
		if !perArm[i].Type().Equal(t) {
			panic(fmt.Sprintf("rvsdg: AddExitVar arm %d type %s does not match arm 0 type %s", i, perArm[i].Type(), t))
		}
		results[i] = sub.AddResult(perArm[i])
	}
	out := s.addOutput(s, t)
	s.exitResults[idx] = results
	return out
}

// Remove detaches s from its region, destroying every node in every
// subregion along the way. Legal only once every structural output has
// no users, mirroring SimpleNode.Remove's contract.
func (s *StructuralNode) Remove() {
	for _, out := range s.outputs {
		if out.HasUsers() {
			panic(fmt.Sprintf("rvsdg: cannot remove %s: output %d still has users", s, out.index))
		}
	}
	s.destroy()
	s.region.removeNode(s)
}

// EntryVarArguments returns the per-subregion arguments associated with
// the structural input at index idx, or nil if idx is not an entry var
// (e.g. a gamma's predicate input).
func (s *StructuralNode) EntryVarArguments(idx int) []*Output { return s.entryArgs[idx] }

// ExitVarResults returns the per-subregion results associated with the
// structural output at index idx.
func (s *StructuralNode) ExitVarResults(idx int) []*Input { return s.exitResults[idx] }

// ---------------------------------------------------------------------
// Gamma: N-way selection.

// GammaNode selects among N subregions by a predicate input (spec §3).
type GammaNode struct {
	*StructuralNode
}

// NewGamma creates a gamma node with the given predicate (a control-
// type output, typically produced by a match or branch operation) and
// numAlternatives subregions.
func NewGamma(region *Region, predicate *Output, numAlternatives int) *GammaNode {
	s := newStructuralNode(region, KindGamma, numAlternatives)
	checkLocal(region, predicate)
	s.addInput(s, predicate, predicate.Type())
	return &GammaNode{s}
}

// Predicate returns the structural input selecting which subregion
// executes.
func (g *GammaNode) Predicate() *Input { return g.inputs[0] }

// NumAlternatives is the number of subregions (arms).
func (g *GammaNode) NumAlternatives() int { return len(g.subregions) }

// ---------------------------------------------------------------------
// Theta: tail-controlled loop.

// ThetaNode is a single-subregion loop whose loop variables are paired
// (pre-argument, post-result); the region terminates when its
// dedicated predicate result (subregion result index 0) is false (spec
// §3).
type ThetaNode struct {
	*StructuralNode
	postValues      map[int]*Output
	predicateOrigin *Output
}

// NewTheta creates an empty theta node ready for AddLoopVar calls.
func NewTheta(region *Region) *ThetaNode {
	s := newStructuralNode(region, KindTheta, 1)
	return &ThetaNode{StructuralNode: s, postValues: make(map[int]*Output)}
}

// Body is the theta's single subregion.
func (t *ThetaNode) Body() *Region { return t.subregions[0] }

// AddLoopVar registers a new loop variable with initial value `initial`
// (an output in the enclosing region) and returns the subregion
// argument ("pre-argument") that represents it inside the body, plus
// its index (shared by the eventual structural output and by
// SetPostValue).
func (t *ThetaNode) AddLoopVar(initial *Output) (preArgument *Output, index int) {
	checkLocal(t.region, initial)
	idx := len(t.inputs)
	t.addInput(t, initial, initial.Type())
	arg := t.subregions[0].AddArgument(initial.Type())
	t.entryArgs[idx] = []*Output{arg}
	return arg, idx
}

// SetPredicate records the body-computed bit1 value that decides
// whether another iteration runs; it becomes the body's result index 0
// once Finalize is called.
func (t *ThetaNode) SetPredicate(origin *Output) {
	checkLocal(t.subregions[0], origin)
	t.predicateOrigin = origin
}

// SetPostValue records, for the loop var at index (as returned by
// AddLoopVar), the value computed by one iteration of the body that
// feeds the next iteration's pre-argument.
func (t *ThetaNode) SetPostValue(index int, post *Output) {
	checkLocal(t.subregions[0], post)
	t.postValues[index] = post
}

// Finalize appends the body's predicate result and every loop var's
// post-result (in loop-var index order) and creates the theta's
// structural outputs exposing each loop var's final value to the
// enclosing region. Must be called after every AddLoopVar, SetPredicate
// and SetPostValue call for this theta.
func (t *ThetaNode) Finalize() {
	if t.predicateOrigin == nil {
		panic("rvsdg: theta finalized without a predicate (call SetPredicate first)")
	}
	t.subregions[0].AddResult(t.predicateOrigin)
	for idx := 0; idx < len(t.inputs); idx++ {
		post, ok := t.postValues[idx]
		if !ok {
			panic(fmt.Sprintf("rvsdg: theta loop var %d finalized without a post-value (call SetPostValue)", idx))
		}
		res := t.subregions[0].AddResult(post)
		t.addOutput(t, post.Type())
		t.exitResults[idx] = []*Input{res}
	}
}

// LoopVarOutput returns the structural output exposing loop var index's
// final value; valid only after Finalize.
func (t *ThetaNode) LoopVarOutput(index int) *Output { return t.outputs[index] }

// ---------------------------------------------------------------------
// Lambda: function abstraction.

// LambdaNode's single subregion is a function body. Context variables
// (AddContextVar) import outer values; function arguments
// (AddFunctionArguments) are subregion arguments appended after every
// context variable; function results (Finalize) are subregion results,
// with io-state and memory-state always last (spec §4.6 "Lambda
// finalization").
type LambdaNode struct {
	*StructuralNode
	signature *types.FunctionType
	name      string
}

// NewLambda creates an empty lambda node for a function with the given
// signature and debug name.
func NewLambda(region *Region, name string, signature *types.FunctionType) *LambdaNode {
	s := newStructuralNode(region, KindLambda, 1)
	return &LambdaNode{StructuralNode: s, signature: signature, name: name}
}

func (l *LambdaNode) Name() string                  { return l.name }
func (l *LambdaNode) Signature() *types.FunctionType { return l.signature }
func (l *LambdaNode) Body() *Region                  { return l.subregions[0] }

// AddContextVar imports an outer-region value into the function body.
func (l *LambdaNode) AddContextVar(origin *Output) (*Input, *Output) {
	in, args := l.AddEntryVar(origin)
	return in, args[0]
}

// AddFunctionArguments appends one subregion argument per argType, in
// order, after every context variable added so far, and returns them.
func (l *LambdaNode) AddFunctionArguments(argTypes []types.Type) []*Output {
	args := make([]*Output, len(argTypes))
	for i, t := range argTypes {
		args[i] = l.subregions[0].AddArgument(t)
	}
	return args
}

// Finalize sets the function's results (last two must be io-state and
// memory-state, per the frontend contract, spec §6) and creates the
// lambda's own structural output: the function value itself.
func (l *LambdaNode) Finalize(results []*Output) *Output {
	for _, r := range results {
		l.subregions[0].AddResult(r)
	}
	return l.addOutput(l, l.signature)
}

// ---------------------------------------------------------------------
// Phi: mutually-recursive bindings.

// PhiNode's subregion defines a group of mutually-recursive lambda or
// delta bindings. Each binding gets a subregion argument that stands
// for "my own value, to be referenced recursively" before the binding
// itself is built (spec §3's "mutually-recursive bindings").
type PhiNode struct {
	*StructuralNode
}

// NewPhi creates a phi node for a group of bindings with the given
// types (typically function types).
func NewPhi(region *Region, bindingTypes []types.Type) *PhiNode {
	s := newStructuralNode(region, KindPhi, 1)
	p := &PhiNode{s}
	for _, t := range bindingTypes {
		s.subregions[0].AddArgument(t)
	}
	return p
}

// RecursiveRef returns the subregion argument standing in for binding
// i's own (eventual) value.
func (p *PhiNode) RecursiveRef(i int) *Output { return p.subregions[0].Arguments()[i] }

// AddContextVar imports an outer-region value shared by every binding.
func (p *PhiNode) AddContextVar(origin *Output) (*Input, *Output) {
	in, args := p.AddEntryVar(origin)
	return in, args[0]
}

// Finalize binds each binding's actual computed value (in the same
// order as the bindingTypes passed to NewPhi) and exposes one
// structural output per binding.
func (p *PhiNode) Finalize(bindingValues []*Output) []*Output {
	outs := make([]*Output, len(bindingValues))
	for i, v := range bindingValues {
		p.subregions[0].AddResult(v)
		outs[i] = p.addOutput(p, v.Type())
	}
	return outs
}

// ---------------------------------------------------------------------
// Delta: global variable initializer.

// DeltaNode's subregion computes a global's initial value (spec §3).
type DeltaNode struct {
	*StructuralNode
	name      string
	valueType types.Type
	constant  bool
}

// NewDelta creates a delta node for a global named name of valueType;
// constant marks whether the global may be mutated after
// initialization (purely informational at this layer).
func NewDelta(region *Region, name string, valueType types.Type, constant bool) *DeltaNode {
	s := newStructuralNode(region, KindDelta, 1)
	return &DeltaNode{StructuralNode: s, name: name, valueType: valueType, constant: constant}
}

func (d *DeltaNode) Name() string         { return d.name }
func (d *DeltaNode) ValueType() types.Type { return d.valueType }
func (d *DeltaNode) Constant() bool        { return d.constant }

// AddContextVar imports an outer-region value used to compute the
// global's initializer.
func (d *DeltaNode) AddContextVar(origin *Output) (*Input, *Output) {
	in, args := d.AddEntryVar(origin)
	return in, args[0]
}

// Finalize sets the global's initial value and creates the delta's
// structural output: a pointer to the global.
func (d *DeltaNode) Finalize(initialValue *Output) *Output {
	if !initialValue.Type().Equal(d.valueType) {
		panic(fmt.Sprintf("rvsdg: delta %q initial value type %s does not match declared type %s", d.name, initialValue.Type(), d.valueType))
	}
	d.subregions[0].AddResult(initialValue)
	return d.addOutput(d, types.Pointer())
}

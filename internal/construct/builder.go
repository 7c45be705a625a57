package construct

import (
	"fmt"

	"rvsdgc/internal/aggregate"
	"rvsdgc/internal/cfg"
	"rvsdgc/internal/errors"
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/types"
)

// Builder walks an aggregation tree region-by-region, threading an env:
// the variable map, with the current predicate bound under "%pred", and
// the loop-variable bookkeeping of the enclosing theta.
type Builder struct {
	region *rvsdg.Region
}

func NewBuilder(region *rvsdg.Region) *Builder {
	return &Builder{region: region}
}

// Build constructs root's subtree into b's region starting from the
// given seed environment (typically the lambda's argument bindings) and
// returns the resulting variable_map with every binding live on exit.
func (b *Builder) Build(root *aggregate.Node, seed map[string]*rvsdg.Output) (map[string]*rvsdg.Output, error) {
	e := newEnv()
	for k, v := range seed {
		e.vars[k] = v
	}
	if err := b.walk(b.region, root, e); err != nil {
		return nil, err
	}
	return map[string]*rvsdg.Output(e.vars), nil
}

func (b *Builder) walk(region *rvsdg.Region, n *aggregate.Node, e *env) error {
	switch n.Kind {
	case aggregate.KindEntry, aggregate.KindExit:
		return nil
	case aggregate.KindBlock:
		return b.buildBlock(region, n.Block, e)
	case aggregate.KindLinear:
		for _, ch := range n.Children {
			if err := b.walk(region, ch, e); err != nil {
				return err
			}
		}
		return nil
	case aggregate.KindBranch:
		return b.buildBranch(region, n, e)
	case aggregate.KindLoop:
		return b.buildLoop(region, n, e)
	default:
		return errors.NewInvariantViolation(errors.CodeUnknownNodeKind,
			fmt.Sprintf("construct: unknown aggregation node kind %v", n.Kind), errors.Position{})
	}
}

// buildBlock constructs one simple node per TAC, in order, updating e's
// variable_map. "assign" TACs copy the operand's current output directly
// into the result variable's binding, building no node. A "match" TAC
// records its operand's current output as the env's most recent
// predicate, consumed by an enclosing branch or loop — our toy frontend
// has no separate predicate slot in the aggregation tree, so the
// predicate producer is discovered this way rather than passed down
// structurally (see DESIGN.md).
func (b *Builder) buildBlock(region *rvsdg.Region, block *cfg.Block, e *env) error {
	for _, tac := range block.TACs {
		switch tac.Op {
		case "assign":
			if len(tac.Operands) != 1 || len(tac.Results) != 1 {
				return errors.NewMalformedInput(errors.CodeVariableNotLive,
					"assign TAC must have exactly one operand and one result", errors.Position{})
			}
			src, err := lookup(e, tac.Operands[0])
			if err != nil {
				return err
			}
			e.vars[tac.Results[0].Name] = src
			continue
		case "const":
			if len(tac.Results) != 1 || tac.Value == nil {
				return errors.NewMalformedInput(errors.CodeVariableNotLive,
					"const TAC must have exactly one result and a literal value", errors.Position{})
			}
			bt, ok := tac.Results[0].Type.(*types.BitStringType)
			if !ok {
				return errors.NewMalformedInput(errors.CodeVariableNotLive,
					fmt.Sprintf("const TAC result %q must be a bit-string type", tac.Results[0].Name), errors.Position{})
			}
			node := region.AddSimpleNode(rvsdg.NewBitConstantOp(bt, tac.Value), nil)
			e.vars[tac.Results[0].Name] = node.Outputs()[0]
			continue
		case "match":
			if len(tac.Operands) != 1 {
				return errors.NewMalformedInput(errors.CodeMissingPredicate,
					"match TAC must have exactly one operand", errors.Position{})
			}
			pred, err := lookup(e, tac.Operands[0])
			if err != nil {
				return err
			}
			e.vars["%pred"] = pred
			continue
		}

		operands := make([]*rvsdg.Output, len(tac.Operands))
		operandTypes := make([]types.Type, len(tac.Operands))
		for i, v := range tac.Operands {
			out, err := lookup(e, v)
			if err != nil {
				return err
			}
			operands[i] = out
			operandTypes[i] = out.Type()
		}
		op, err := buildOperation(tac.Op, operandTypes)
		if err != nil {
			return err
		}
		node := region.AddSimpleNode(op, operands)
		for i, res := range tac.Results {
			if i < len(node.Outputs()) {
				e.vars[res.Name] = node.Outputs()[i]
			}
		}
	}
	return nil
}

func lookup(e *env, v *cfg.Variable) (*rvsdg.Output, error) {
	out, ok := e.vars[v.Name]
	if !ok {
		return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
			fmt.Sprintf("variable %q read before it is live in the current region", v.Name), errors.Position{})
	}
	return out, nil
}

// buildBranch constructs a gamma for n (a branch node with len(Children)
// arms). Every variable currently live becomes an entry variable (a
// conservative approximation of "every variable live into any arm" in
// the absence of a separate liveness pass — see DESIGN.md); every
// variable bound by any arm on exit becomes an exit variable, with arms
// that never rebind it passing the entry value through unchanged. A
// variable that was not live on entry and is bound by only some arms
// has no value in the others and is not exported.
func (b *Builder) buildBranch(region *rvsdg.Region, n *aggregate.Node, e *env) error {
	pred, ok := e.vars["%pred"]
	if !ok {
		return errors.NewMalformedInput(errors.CodeMissingPredicate,
			"branch construction requires a predicate produced by a preceding match", errors.Position{})
	}
	gamma := rvsdg.NewGamma(region, pred, len(n.Children))

	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		if k == "%pred" {
			continue
		}
		names = append(names, k)
	}

	subEnvs := make([]*env, len(n.Children))
	armArgs := make(map[string][]*rvsdg.Output, len(names))
	for _, name := range names {
		_, args := gamma.AddEntryVar(e.vars[name])
		armArgs[name] = args
	}
	for i := range n.Children {
		sub := newEnv()
		for _, name := range names {
			sub.vars[name] = armArgs[name][i]
		}
		subEnvs[i] = sub
	}

	for i, arm := range n.Children {
		if err := b.walk(gamma.Subregions()[i], arm, subEnvs[i]); err != nil {
			return err
		}
	}

	exitNames := map[string]bool{}
	for _, sub := range subEnvs {
		for name := range sub.vars {
			exitNames[name] = true
		}
	}
	for name := range exitNames {
		entryArgs, live := armArgs[name]
		perArm := make([]*rvsdg.Output, len(n.Children))
		complete := true
		for i, sub := range subEnvs {
			if v, ok := sub.vars[name]; ok {
				perArm[i] = v
			} else if live {
				perArm[i] = entryArgs[i]
			} else {
				complete = false
			}
		}
		if !complete {
			continue
		}
		e.vars[name] = gamma.AddExitVar(perArm)
	}
	delete(e.vars, "%pred")
	return nil
}

// buildLoop constructs a theta for n's single body child. Every variable
// currently live becomes a loop variable (the same conservative
// approximation buildBranch makes), the body is built in the theta's
// region, and the body's trailing "%pred" binding (the loop's
// terminating condition) becomes the theta's predicate.
func (b *Builder) buildLoop(region *rvsdg.Region, n *aggregate.Node, e *env) error {
	if len(n.Children) != 1 {
		return errors.NewInvariantViolation(errors.CodeUnknownNodeKind,
			fmt.Sprintf("loop aggregation node must have exactly one child, got %d", len(n.Children)), errors.Position{})
	}
	theta := rvsdg.NewTheta(region)
	b.pushLoopVars(theta, e)

	bodyEnv := newEnv()
	for name, pre := range e.loopVarPre {
		bodyEnv.vars[name] = pre
	}

	if err := b.walk(theta.Body(), n.Children[0], bodyEnv); err != nil {
		return err
	}

	pred, ok := bodyEnv.vars["%pred"]
	if !ok {
		return errors.NewMalformedInput(errors.CodeMissingPredicate,
			"loop body must produce a terminating predicate via a match TAC", errors.Position{})
	}
	theta.SetPredicate(pred)

	for name, idx := range e.loopVarIndex {
		if v, ok := bodyEnv.vars[name]; ok {
			theta.SetPostValue(idx, v)
		}
	}
	theta.Finalize()

	for name, idx := range e.loopVarIndex {
		e.vars[name] = theta.LoopVarOutput(idx)
	}
	e.loopVarIndex = nil
	e.loopVarPre = nil
	return nil
}

// pushLoopVars adds one loop variable per currently-live surface
// variable and records the mapping on e for buildLoop to consult after
// the body is built.
func (b *Builder) pushLoopVars(theta *rvsdg.ThetaNode, e *env) {
	e.loopVarIndex = map[string]int{}
	e.loopVarPre = map[string]*rvsdg.Output{}
	names := make([]string, 0, len(e.vars))
	for name := range e.vars {
		names = append(names, name)
	}
	for _, name := range names {
		pre, idx := theta.AddLoopVar(e.vars[name])
		e.loopVarIndex[name] = idx
		e.loopVarPre[name] = pre
	}
}

// Package frontend lowers a parsed .rvir Program (internal/frontend/grammar)
// into internal/cfg graphs and internal/construct.FunctionSpecs, the
// toy textual surface syntax cmd/rvsdgc accepts in front of the
// restructure -> aggregate -> construct -> opt pipeline.
package frontend

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"rvsdgc/internal/aggregate"
	"rvsdgc/internal/cfg"
	"rvsdgc/internal/construct"
	"rvsdgc/internal/errors"
	"rvsdgc/internal/frontend/grammar"
	"rvsdgc/internal/types"
)

// BuildProgram lowers every function in prog independently, in source
// order.
func BuildProgram(prog *grammar.Program) ([]*construct.FunctionSpec, error) {
	specs := make([]*construct.FunctionSpec, 0, len(prog.Functions))
	for _, fn := range prog.Functions {
		spec, err := BuildFunction(fn)
		if err != nil {
			return nil, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// BuildFunction wires fn's blocks into a cfg.CFG, restructures it into
// single-entry/single-exit form (§4.4), aggregates it into a structured
// tree (§4.5), and packages the result as a FunctionSpec ready for
// construct.ConstructFunction.
func BuildFunction(fn *grammar.Function) (*construct.FunctionSpec, error) {
	if len(fn.Blocks) == 0 {
		return nil, errors.NewMalformedInput(errors.CodeCFGNotClosed,
			fmt.Sprintf("function %s declares no blocks", fn.Name), errors.Position{})
	}

	g := cfg.NewCFG()
	blocks := make(map[string]*cfg.Block, len(fn.Blocks))
	for _, b := range fn.Blocks {
		if _, dup := blocks[b.Name]; dup {
			return nil, errors.NewMalformedInput(errors.CodeCFGNotClosed,
				fmt.Sprintf("function %s: block %q declared more than once", fn.Name, b.Name), errors.Position{})
		}
		blocks[b.Name] = g.AddBlock(b.Name)
	}

	vars := map[string]*cfg.Variable{}
	paramNames := make([]string, 0, len(fn.Params))
	paramTypes := make([]types.Type, 0, len(fn.Params))
	hasIO, hasMem := false, false
	for _, p := range fn.Params {
		t, err := resolveType(p.Type)
		if err != nil {
			return nil, err
		}
		vars[p.Name] = &cfg.Variable{Name: p.Name, Type: t}
		paramNames = append(paramNames, p.Name)
		paramTypes = append(paramTypes, t)
		switch p.Name {
		case "%io":
			hasIO = true
		case "%mem":
			hasMem = true
		}
	}

	hasResult := false
	var resultType types.Type
	for _, b := range fn.Blocks {
		block := blocks[b.Name]
		for _, inst := range b.Insts {
			tac, err := buildInstruction(fn.Name, inst, vars)
			if err != nil {
				return nil, err
			}
			block.AddTAC(tac)
		}

		switch {
		case b.Term.Ret != nil:
			if b.Term.Ret.Value != nil {
				srcVar, ok := vars[*b.Term.Ret.Value]
				if !ok {
					return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
						fmt.Sprintf("function %s: ret of undeclared variable %q", fn.Name, *b.Term.Ret.Value), errors.Position{})
				}
				resultVar := &cfg.Variable{Name: "%result", Type: srcVar.Type}
				block.AddTAC(cfg.NewTAC("assign", []*cfg.Variable{srcVar}, []*cfg.Variable{resultVar}))
				hasResult = true
				resultType = srcVar.Type
			}
			g.AddEdge(block, 0, g.Exit)
		case b.Term.Br != nil:
			for i, target := range b.Term.Br.Targets {
				tb, ok := blocks[target]
				if !ok {
					return nil, errors.NewMalformedInput(errors.CodeCFGNotClosed,
						fmt.Sprintf("function %s: branch to undeclared block %q", fn.Name, target), errors.Position{})
				}
				g.AddEdge(block, i, tb)
			}
		case b.Term.Goto != nil:
			tb, ok := blocks[b.Term.Goto.Target]
			if !ok {
				return nil, errors.NewMalformedInput(errors.CodeCFGNotClosed,
					fmt.Sprintf("function %s: goto undeclared block %q", fn.Name, b.Term.Goto.Target), errors.Position{})
			}
			g.AddEdge(block, 0, tb)
		}
	}
	g.AddEdge(g.Entry, 0, blocks[fn.Blocks[0].Name])

	cfg.RestructureLoops(g)
	cfg.RestructureBranches(g, g.Entry)
	g.RestoreBackEdges()

	tree, err := aggregate.Aggregate(g)
	if err != nil {
		return nil, err
	}

	var resultNames []string
	resultTypes := make([]types.Type, 0, 2)
	if hasResult {
		resultNames = append(resultNames, "%result")
		resultTypes = append(resultTypes, resultType)
	}
	if hasIO {
		resultTypes = append(resultTypes, types.IOState())
	}
	if hasMem {
		resultTypes = append(resultTypes, types.MemoryState())
	}

	return &construct.FunctionSpec{
		Name:        fn.Name,
		ParamNames:  paramNames,
		Signature:   types.Function(paramTypes, resultTypes),
		Body:        tree,
		ResultNames: resultNames,
		HasIOState:  hasIO,
		HasMemState: hasMem,
	}, nil
}

// buildInstruction lowers one grammar.Instruction into a cfg.TAC,
// resolving operand variables (or, for "const", a literal) against the
// function's running variable table and binding any result into it.
func buildInstruction(fnName string, inst *grammar.Instruction, vars map[string]*cfg.Variable) (*cfg.TAC, error) {
	if inst.Op == "const" {
		if len(inst.Operands) != 1 || inst.Operands[0].Int == nil {
			return nil, errors.NewMalformedInput(errors.CodeUnsupportedOperation,
				fmt.Sprintf("function %s: const takes exactly one integer literal operand", fnName), errors.Position{})
		}
		if inst.Result == nil {
			return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
				fmt.Sprintf("function %s: const requires a result variable", fnName), errors.Position{})
		}
		value, ok := new(big.Int).SetString(*inst.Operands[0].Int, 10)
		if !ok {
			return nil, errors.NewMalformedInput(errors.CodeUnsupportedOperation,
				fmt.Sprintf("function %s: invalid integer literal %q", fnName, *inst.Operands[0].Int), errors.Position{})
		}
		resultVar := &cfg.Variable{Name: *inst.Result, Type: types.BitString(32)}
		vars[*inst.Result] = resultVar
		return &cfg.TAC{Op: "const", Results: []*cfg.Variable{resultVar}, Value: value}, nil
	}

	operands := make([]*cfg.Variable, len(inst.Operands))
	for i, o := range inst.Operands {
		if o.Ident == nil {
			return nil, errors.NewMalformedInput(errors.CodeUnsupportedOperation,
				fmt.Sprintf("function %s: operation %q takes variable operands, not a literal", fnName, inst.Op), errors.Position{})
		}
		v, ok := vars[*o.Ident]
		if !ok {
			return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
				fmt.Sprintf("function %s: undeclared variable %q", fnName, *o.Ident), errors.Position{})
		}
		operands[i] = v
	}

	if inst.Op == "match" {
		if len(operands) != 1 {
			return nil, errors.NewMalformedInput(errors.CodeMissingPredicate,
				fmt.Sprintf("function %s: match takes exactly one operand", fnName), errors.Position{})
		}
		return cfg.NewTAC("match", operands, nil), nil
	}

	if inst.Result == nil {
		return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
			fmt.Sprintf("function %s: operation %q requires a result variable", fnName, inst.Op), errors.Position{})
	}
	if len(operands) == 0 {
		return nil, errors.NewMalformedInput(errors.CodeUnsupportedOperation,
			fmt.Sprintf("function %s: operation %q requires at least one operand", fnName, inst.Op), errors.Position{})
	}

	var resultTy types.Type
	switch inst.Op {
	case "eq", "slt":
		resultTy = types.BitString(1)
	default:
		resultTy = operands[0].Type
	}
	resultVar := &cfg.Variable{Name: *inst.Result, Type: resultTy}
	vars[*inst.Result] = resultVar
	return cfg.NewTAC(inst.Op, operands, []*cfg.Variable{resultVar}), nil
}

// resolveType maps a .rvir type name to an internal/types.Type: "u<N>"
// bit-string widths, "bool" as a one-bit string, and the reserved
// "io"/"mem" state-token types.
func resolveType(name string) (types.Type, error) {
	switch name {
	case "io":
		return types.IOState(), nil
	case "mem":
		return types.MemoryState(), nil
	case "bool":
		return types.BitString(1), nil
	}
	if strings.HasPrefix(name, "u") {
		if width, err := strconv.Atoi(name[1:]); err == nil && width > 0 {
			return types.BitString(uint(width)), nil
		}
	}
	return nil, errors.NewMalformedInput(errors.CodeFunctionSpecMismatch,
		fmt.Sprintf("unknown type %q", name), errors.Position{})
}

package construct

import (
	"fmt"

	"rvsdgc/internal/aggregate"
	"rvsdgc/internal/errors"
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/types"
)

// FunctionSpec describes one source function to construct: its
// parameter names/types in argument order (the io-state and
// memory-state parameters, if present, must be last, matching the
// lambda finalization convention of §4.6), the aggregation tree for its
// body, and the names of the variables whose final bindings become the
// lambda's ordinary (non-state) results.
type FunctionSpec struct {
	Name        string
	ParamNames  []string
	Signature   *types.FunctionType
	Body        *aggregate.Node
	ResultNames []string
	HasIOState  bool
	HasMemState bool
}

// ConstructFunction builds spec into a lambda node inside region and
// returns it. io-state and memory-state, when present, are threaded as
// ordinary loop/branch variables like any other live variable (their
// names are "%io" and "%mem" by convention) and are always appended as
// the lambda's last one or two results, per §4.6's "io-state and
// memory-state always appear as the last two results".
func ConstructFunction(region *rvsdg.Region, spec *FunctionSpec) (*rvsdg.LambdaNode, error) {
	lambda := rvsdg.NewLambda(region, spec.Name, spec.Signature)
	args := lambda.AddFunctionArguments(spec.Signature.Arguments)

	if len(args) != len(spec.ParamNames) {
		return nil, errors.NewMalformedInput(errors.CodeFunctionSpecMismatch,
			fmt.Sprintf("function %s declares %d parameters but signature has %d argument types",
				spec.Name, len(spec.ParamNames), len(args)), errors.Position{})
	}
	seed := make(map[string]*rvsdg.Output, len(args))
	for i, name := range spec.ParamNames {
		seed[name] = args[i]
	}

	b := NewBuilder(lambda.Body())
	final, err := b.Build(spec.Body, seed)
	if err != nil {
		return nil, fmt.Errorf("construct: building function %s: %w", spec.Name, err)
	}

	results := make([]*rvsdg.Output, 0, len(spec.ResultNames)+2)
	for _, name := range spec.ResultNames {
		out, ok := final[name]
		if !ok {
			return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
				fmt.Sprintf("function %s's return variable %q is not live at exit", spec.Name, name), errors.Position{})
		}
		results = append(results, out)
	}
	if spec.HasIOState {
		out, ok := final["%io"]
		if !ok {
			return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
				fmt.Sprintf("function %s declares io-state but %%io is not live at exit", spec.Name), errors.Position{})
		}
		results = append(results, out)
	}
	if spec.HasMemState {
		out, ok := final["%mem"]
		if !ok {
			return nil, errors.NewMalformedInput(errors.CodeVariableNotLive,
				fmt.Sprintf("function %s declares memory-state but %%mem is not live at exit", spec.Name), errors.Position{})
		}
		results = append(results, out)
	}

	lambda.Finalize(results)
	return lambda, nil
}

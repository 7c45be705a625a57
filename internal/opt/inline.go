package opt

import (
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/stats"
)

// FunctionInlining implements §4.7.3: inlines direct calls whose callee
// is visible as a lambda. For a call node to callee(args..., io, mem),
// every use of the callee body's arguments is substituted with the
// call's operand outputs, the body's nodes are grafted into the
// caller's region in topological order, and the call's outputs are
// diverted to the corresponding body results. Calls through function
// pointers whose producer isn't a lambda are left alone, and so are
// callees whose body holds a structural node: only simple nodes are
// grafted.
type FunctionInlining struct{}

func (FunctionInlining) Name() string        { return "function-inlining" }
func (FunctionInlining) Description() string { return "inlines direct calls to visible lambdas" }

func (FunctionInlining) Apply(region *rvsdg.Region, collector *stats.Collector) bool {
	changed := false
	for _, n := range append([]rvsdg.Node{}, region.Nodes()...) {
		sn, ok := n.(*rvsdg.SimpleNode)
		if !ok {
			continue
		}
		if _, ok := sn.Operation.(*rvsdg.CallOp); !ok {
			continue
		}
		calleeOut := sn.Inputs()[len(sn.Inputs())-1].Origin()
		lambda, ok := calleeOut.Node().(*rvsdg.LambdaNode)
		if !ok {
			continue
		}
		simple := true
		for _, bn := range lambda.Body().Nodes() {
			if _, ok := bn.(*rvsdg.SimpleNode); !ok {
				simple = false
				break
			}
		}
		if !simple {
			continue
		}

		inlineCall(region, sn, lambda)
		changed = true
		collector.Count("function-inlining", "inlined", 1)
	}
	return changed
}

// inlineCall grafts lambda's body into region, substituting its
// arguments with call's corresponding operands, and diverts call's
// outputs to the body's results.
func inlineCall(region *rvsdg.Region, call *rvsdg.SimpleNode, lambda *rvsdg.LambdaNode) {
	body := lambda.Body()
	argOutputs := body.Arguments()
	callOperands := call.Inputs()[:len(call.Inputs())-1]

	// Context vars occupy the body's leading arguments, one per lambda
	// structural input (lambda has no predicate-like input of its own,
	// unlike gamma/theta, so every lambda input is a context var); the
	// trailing arguments are the ordinary function parameters, which
	// line up with the call's operands.
	contextCount := len(lambda.Inputs())
	substitute := make(map[*rvsdg.Output]*rvsdg.Output, len(argOutputs))
	for i, li := range lambda.Inputs() {
		substitute[argOutputs[i]] = li.Origin()
	}
	for i := contextCount; i < len(argOutputs); i++ {
		callIdx := i - contextCount
		if callIdx < len(callOperands) {
			substitute[argOutputs[i]] = callOperands[callIdx].Origin()
		}
	}

	grafted := map[*rvsdg.SimpleNode]*rvsdg.SimpleNode{}
	tv := rvsdg.NewTopDownTraverser(body)
	tv.Each(func(n rvsdg.Node) {
		sn, ok := n.(*rvsdg.SimpleNode)
		if !ok {
			return
		}
		operands := make([]*rvsdg.Output, len(sn.Inputs()))
		for i, in := range sn.Inputs() {
			operands[i] = resolve(in.Origin(), substitute, grafted)
		}
		newNode := region.AddSimpleNode(sn.Operation, operands)
		grafted[sn] = newNode
	})

	results := body.Results()
	for i, out := range call.Outputs() {
		if i >= len(results) {
			break
		}
		resultOrigin := resolve(results[i].Origin(), substitute, grafted)
		out.DivertUsers(resultOrigin)
	}
	call.Remove()
}

// resolve maps a body-local output to its counterpart in the caller's
// region: a substituted argument, the grafted copy of its producing
// node's corresponding output, or itself if it's already caller-local
// (a context-var argument imported from the outer region).
func resolve(o *rvsdg.Output, substitute map[*rvsdg.Output]*rvsdg.Output, grafted map[*rvsdg.SimpleNode]*rvsdg.SimpleNode) *rvsdg.Output {
	if s, ok := substitute[o]; ok {
		return s
	}
	if sn, ok := o.Node().(*rvsdg.SimpleNode); ok {
		if g, ok := grafted[sn]; ok {
			return g.Outputs()[o.Index()]
		}
	}
	return o
}

package construct

import (
	"testing"

	"rvsdgc/internal/aggregate"
	"rvsdgc/internal/cfg"
	"rvsdgc/internal/rvsdg"
	"rvsdgc/internal/types"
)

// TestConstructBlockSequence exercises the simplest case: a single block
// computing a+b, built through the full cfg -> aggregate -> construct
// pipeline.
func TestConstructBlockSequence(t *testing.T) {
	bits32 := types.BitString(32)
	g := cfg.NewCFG()
	body := g.AddBlock("body")
	a := &cfg.Variable{Name: "a", Type: bits32}
	bv := &cfg.Variable{Name: "b", Type: bits32}
	sum := &cfg.Variable{Name: "sum", Type: bits32}
	body.AddTAC(cfg.NewTAC("add", []*cfg.Variable{a, bv}, []*cfg.Variable{sum}))

	g.AddEdge(g.Entry, 0, body)
	g.AddEdge(body, 0, g.Exit)

	tree, err := aggregate.Aggregate(g)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	graph := rvsdg.NewGraph()
	importA := graph.AddImport(bits32, "a")
	importB := graph.AddImport(bits32, "b")

	builder := NewBuilder(graph.Root())
	final, err := builder.Build(tree, map[string]*rvsdg.Output{"a": importA, "b": importB})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out, ok := final["sum"]
	if !ok {
		t.Fatal("sum not bound after construction")
	}
	if _, ok := out.Node().(*rvsdg.SimpleNode); !ok {
		t.Fatalf("sum's producer = %T, want *rvsdg.SimpleNode", out.Node())
	}
}

// TestConstructFunctionWithIOState builds a one-argument function that
// doubles x with io-state threaded through, and checks the lambda exposes
// exactly one output (the function value).
func TestConstructFunctionWithIOState(t *testing.T) {
	bits32 := types.BitString(32)
	ioType := types.IOState()

	g := cfg.NewCFG()
	body := g.AddBlock("body")
	x := &cfg.Variable{Name: "x", Type: bits32}
	y := &cfg.Variable{Name: "y", Type: bits32}
	body.AddTAC(cfg.NewTAC("add", []*cfg.Variable{x, x}, []*cfg.Variable{y}))
	g.AddEdge(g.Entry, 0, body)
	g.AddEdge(body, 0, g.Exit)

	tree, err := aggregate.Aggregate(g)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	graph := rvsdg.NewGraph()
	sig := types.Function([]types.Type{bits32, ioType}, []types.Type{bits32, ioType})

	lambda, err := ConstructFunction(graph.Root(), &FunctionSpec{
		Name:        "double",
		ParamNames:  []string{"x", "%io"},
		Signature:   sig,
		Body:        tree,
		ResultNames: []string{"y"},
		HasIOState:  true,
	})
	if err != nil {
		t.Fatalf("ConstructFunction failed: %v", err)
	}
	if got := len(lambda.Outputs()); got != 1 {
		t.Fatalf("lambda produced %d outputs, want 1 (the function value)", got)
	}
}

// TestConstructBranch exercises buildBranch: a two-armed diamond, each arm
// computing "z" differently, reconverging on a single exit. Checks that z
// is bound on exit and produced by a gamma.
func TestConstructBranch(t *testing.T) {
	bits32 := types.BitString(32)
	bits1 := types.BitString(1)

	g := cfg.NewCFG()
	head := g.AddBlock("head")
	armA := g.AddBlock("armA")
	armB := g.AddBlock("armB")

	p := &cfg.Variable{Name: "p", Type: bits1}
	head.AddTAC(cfg.NewTAC("match", []*cfg.Variable{p}, nil))

	x := &cfg.Variable{Name: "x", Type: bits32}
	zA := &cfg.Variable{Name: "z", Type: bits32}
	armA.AddTAC(cfg.NewTAC("add", []*cfg.Variable{x, x}, []*cfg.Variable{zA}))

	y := &cfg.Variable{Name: "y", Type: bits32}
	zB := &cfg.Variable{Name: "z", Type: bits32}
	armB.AddTAC(cfg.NewTAC("add", []*cfg.Variable{y, y}, []*cfg.Variable{zB}))

	g.AddEdge(g.Entry, 0, head)
	g.AddEdge(head, 0, armA)
	g.AddEdge(head, 1, armB)
	g.AddEdge(armA, 0, g.Exit)
	g.AddEdge(armB, 0, g.Exit)

	tree, err := aggregate.Aggregate(g)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	graph := rvsdg.NewGraph()
	importP := graph.AddImport(bits1, "p")
	importX := graph.AddImport(bits32, "x")
	importY := graph.AddImport(bits32, "y")

	builder := NewBuilder(graph.Root())
	final, err := builder.Build(tree, map[string]*rvsdg.Output{"p": importP, "x": importX, "y": importY})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out, ok := final["z"]
	if !ok {
		t.Fatal("z not bound after construction")
	}
	sn, ok := out.Node().(*rvsdg.StructuralNode)
	if !ok || sn.Kind() != rvsdg.KindGamma {
		t.Fatalf("z's producer = %T, want a gamma structural node", out.Node())
	}
	if _, stillBound := final["%pred"]; stillBound {
		t.Fatal("%pred should not survive past the branch that consumed it")
	}
}

// TestConstructLoop exercises buildLoop: a single self-looping block that
// increments a counter against a constant bound, synthesized directly as
// an already-reducible one-block loop (no restructuring needed).
func TestConstructLoop(t *testing.T) {
	bits32 := types.BitString(32)

	g := cfg.NewCFG()
	head := g.AddBlock("head")

	x := &cfg.Variable{Name: "x", Type: bits32}
	one := &cfg.Variable{Name: "one", Type: bits32}
	xNext := &cfg.Variable{Name: "x", Type: bits32}
	head.AddTAC(cfg.NewConstTAC(one, 1))
	head.AddTAC(cfg.NewTAC("add", []*cfg.Variable{x, one}, []*cfg.Variable{xNext}))

	limit := &cfg.Variable{Name: "limit", Type: bits32}
	head.AddTAC(cfg.NewConstTAC(limit, 5))

	pred := &cfg.Variable{Name: "pred", Type: types.BitString(1)}
	head.AddTAC(cfg.NewTAC("slt", []*cfg.Variable{xNext, limit}, []*cfg.Variable{pred}))
	head.AddTAC(cfg.NewTAC("match", []*cfg.Variable{pred}, nil))

	g.AddEdge(g.Entry, 0, head)
	g.AddEdge(head, 1, head) // the recorded back-edge (repetition)
	g.AddEdge(head, 0, g.Exit)

	tree, err := aggregate.Aggregate(g)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	graph := rvsdg.NewGraph()
	importX := graph.AddImport(bits32, "x")

	builder := NewBuilder(graph.Root())
	final, err := builder.Build(tree, map[string]*rvsdg.Output{"x": importX})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out, ok := final["x"]
	if !ok {
		t.Fatal("x not bound after construction")
	}
	th, ok := out.Node().(*rvsdg.ThetaNode)
	if !ok || th.Kind() != rvsdg.KindTheta {
		t.Fatalf("x's producer = %T, want a *rvsdg.ThetaNode", out.Node())
	}
}

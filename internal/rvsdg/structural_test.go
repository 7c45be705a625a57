package rvsdg

import (
	"math/big"
	"testing"

	"rvsdgc/internal/types"
)

func TestGammaEntryExitVar(t *testing.T) {
	g := NewGraph()
	x := g.AddImport(types.BitString(32), "x")
	pred := mustBit1(g)

	gamma := NewGamma(g.Root(), pred, 2)
	if gamma.NumAlternatives() != 2 {
		t.Fatalf("NumAlternatives = %d, want 2", gamma.NumAlternatives())
	}
	_, args := gamma.AddEntryVar(x)
	if len(args) != 2 {
		t.Fatalf("expected one argument per subregion, got %d", len(args))
	}

	out := gamma.AddExitVar(args)
	if !out.Type().Equal(types.BitString(32)) {
		t.Errorf("exit var type = %s, want bits32", out.Type())
	}
	if gamma.Depth() == 0 {
		t.Error("gamma depth should reflect the predicate's producer")
	}
}

func TestThetaLoopVar(t *testing.T) {
	g := NewGraph()
	init := g.AddImport(types.BitString(32), "init")

	theta := NewTheta(g.Root())
	pre, idx := theta.AddLoopVar(init)
	if idx != 0 {
		t.Fatalf("loop var index = %d, want 0", idx)
	}

	one := theta.Body().AddSimpleNode(NewBitConstantOp(types.BitString(32), big.NewInt(1)), nil)
	post := theta.Body().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{pre, one.Outputs()[0]})
	predCmp := theta.Body().AddSimpleNode(NewBitCompareOp(PredULT, types.BitString(32)), []*Output{post.Outputs()[0], one.Outputs()[0]})

	theta.SetPredicate(predCmp.Outputs()[0])
	theta.SetPostValue(0, post.Outputs()[0])
	theta.Finalize()

	out := theta.LoopVarOutput(0)
	if !out.Type().Equal(types.BitString(32)) {
		t.Errorf("loop var output type = %s, want bits32", out.Type())
	}
	if len(theta.Body().Results()) != 2 {
		t.Fatalf("theta body has %d results, want 2 (predicate + loop var)", len(theta.Body().Results()))
	}
}

func TestThetaFinalizeWithoutPredicatePanics(t *testing.T) {
	g := NewGraph()
	init := g.AddImport(types.BitString(32), "init")
	theta := NewTheta(g.Root())
	pre, idx := theta.AddLoopVar(init)
	theta.SetPostValue(idx, pre)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic finalizing a theta with no predicate set")
		}
	}()
	theta.Finalize()
}

func TestLambdaContextVarsAndArguments(t *testing.T) {
	g := NewGraph()
	captured := g.AddImport(types.BitString(32), "captured")

	sig := types.Function([]types.Type{types.BitString(32)}, []types.Type{types.BitString(32), types.IOState(), types.MemoryState()})
	lambda := NewLambda(g.Root(), "add_captured", sig)
	_, ctxArg := lambda.AddContextVar(captured)
	args := lambda.AddFunctionArguments([]types.Type{types.BitString(32)})

	sum := lambda.Body().AddSimpleNode(NewBitBinaryOp(BitAdd, types.BitString(32)), []*Output{ctxArg, args[0]})
	io := lambda.Body().AddArgument(types.IOState())
	mem := lambda.Body().AddArgument(types.MemoryState())

	fnOut := lambda.Finalize([]*Output{sum.Outputs()[0], io, mem})
	if !fnOut.Type().Equal(sig) {
		t.Errorf("lambda output type = %s, want %s", fnOut.Type(), sig)
	}
	if len(lambda.Body().Results()) != 3 {
		t.Fatalf("lambda body has %d results, want 3", len(lambda.Body().Results()))
	}
}

func TestPhiRecursiveRef(t *testing.T) {
	sig := types.Function(nil, []types.Type{types.BitString(32)})
	g := NewGraph()
	phi := NewPhi(g.Root(), []types.Type{sig})
	ref := phi.RecursiveRef(0)
	if !ref.Type().Equal(sig) {
		t.Errorf("recursive ref type = %s, want %s", ref.Type(), sig)
	}

	outs := phi.Finalize([]*Output{ref})
	if len(outs) != 1 {
		t.Fatalf("phi finalize produced %d outputs, want 1", len(outs))
	}
}

func TestDeltaFinalizeTypeMismatchPanics(t *testing.T) {
	g := NewGraph()
	delta := NewDelta(g.Root(), "g", types.BitString(64), true)
	bad := g.Root().AddSimpleNode(NewBitConstantOp(types.BitString(32), big.NewInt(1)), nil)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic finalizing a delta with a mismatched initializer type")
		}
	}()
	delta.Finalize(bad.Outputs()[0])
}

package grammar

import (
	"testing"

	"rvsdgc/internal/errors"
)

// TestParseStraightLine parses a single-block function with a const and
// a ret, checking the AST shapes buildInstruction/BuildFunction expect.
func TestParseStraightLine(t *testing.T) {
	src := `
fn addone(a: u32) -> u32 {
block entry:
  one = const(1)
  sum = add(a, one)
  ret sum
}
`
	prog, err := ParseString("straightline.rvir", src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "addone" {
		t.Fatalf("expected function name addone, got %q", fn.Name)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "a" || fn.Params[0].Type != "u32" {
		t.Fatalf("unexpected params: %+v", fn.Params)
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(fn.Blocks))
	}
	block := fn.Blocks[0]
	if len(block.Insts) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(block.Insts))
	}
	if block.Insts[0].Op != "const" || block.Insts[0].Operands[0].Int == nil {
		t.Fatalf("expected first instruction to be a const literal, got %+v", block.Insts[0])
	}
	if block.Term.Ret == nil || block.Term.Ret.Value == nil || *block.Term.Ret.Value != "sum" {
		t.Fatalf("expected terminator ret sum, got %+v", block.Term)
	}
}

// TestParseBranching parses a function whose entry block dispatches to
// two labeled blocks via "br", confirming the grammar reads a
// multi-target branch terminator in dispatch order.
func TestParseBranching(t *testing.T) {
	src := `
fn choose(p: bool) -> u32 {
block entry:
  match(p)
  br t, f
block t:
  one = const(1)
  ret one
block f:
  zero = const(0)
  ret zero
}
`
	prog, err := ParseString("branching.rvir", src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	fn := prog.Functions[0]
	if len(fn.Blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(fn.Blocks))
	}
	entry := fn.Blocks[0]
	if entry.Term.Br == nil || len(entry.Term.Br.Targets) != 2 {
		t.Fatalf("expected a 2-way br terminator, got %+v", entry.Term)
	}
	if entry.Term.Br.Targets[0] != "t" || entry.Term.Br.Targets[1] != "f" {
		t.Fatalf("expected targets [t f], got %v", entry.Term.Br.Targets)
	}
}

// TestParseLoop parses a function whose body block jumps back to an
// earlier block by label, confirming "goto" reads as an unconditional
// single-target terminator regardless of whether it targets a
// lexically-later or lexically-earlier block.
func TestParseLoop(t *testing.T) {
	src := `
fn spin(n: u32) -> u32 {
block entry:
  goto head
block head:
  match(n)
  br body, exit
block body:
  goto head
block exit:
  ret n
}
`
	prog, err := ParseString("loop.rvir", src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	fn := prog.Functions[0]
	body := fn.Blocks[2]
	if body.Name != "body" {
		t.Fatalf("expected third block to be body, got %q", body.Name)
	}
	if body.Term.Goto == nil || body.Term.Goto.Target != "head" {
		t.Fatalf("expected body to goto head, got %+v", body.Term)
	}
}

// TestParseSyntaxError checks a malformed source reports a
// *errors.CompilerError rather than a bare participle error, so the
// driver's report() can always unwrap it.
func TestParseSyntaxError(t *testing.T) {
	_, err := ParseString("bad.rvir", `fn broken( {`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		t.Fatalf("expected a *errors.CompilerError, got %T", err)
	}
	if ce.Kind != errors.MalformedInput {
		t.Fatalf("expected MalformedInput, got %v", ce.Kind)
	}
	if ce.Code != errors.CodeSyntaxError {
		t.Fatalf("expected code %s, got %s", errors.CodeSyntaxError, ce.Code)
	}
}

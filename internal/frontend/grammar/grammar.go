package grammar

// Program is a sequence of function definitions, the root of the .rvir
// grammar.
type Program struct {
	Functions []*Function `@@*`
}

// Function is "fn name(p1: t1, ...) [-> t] { block* }". Blocks are
// listed in source order; the first one is the function's entry block.
type Function struct {
	Name    string       `"fn" @Ident "("`
	Params  []*Param     `[ @@ { "," @@ } ] ")"`
	Returns *string      `[ Arrow @Ident ]`
	Blocks  []*Block     `"{" @@* "}"`
}

// Param is "name: type".
type Param struct {
	Name string `@Ident ":"`
	Type string `@Ident`
}

// Block is "block label: inst* term". Unlike Kanso's brace-delimited
// statement lists, a block runs until the next "block" keyword or the
// function's closing brace, so its body has no delimiter of its own.
type Block struct {
	Name  string         `"block" @Ident ":"`
	Insts []*Instruction `@@*`
	Term  *Terminator    `@@`
}

// Instruction is "[result =] op(operand, ...)". An operand is either a
// variable reference or an integer literal; only the "const" op accepts
// a literal operand, enforced by the frontend builder rather than the
// grammar (see internal/frontend/build.go).
type Instruction struct {
	Result   *string    `[ @Ident "=" ]`
	Op       string     `@Ident "("`
	Operands []*Operand `[ @@ { "," @@ } ] ")"`
}

// Operand is one TAC argument: a bare identifier (a live variable) or
// an integer literal.
type Operand struct {
	Ident *string `(  @Ident`
	Int   *string ` | @Int )`
}

// Terminator is a block's final instruction: return a value (or
// nothing), branch to one of several labeled blocks in dispatch order,
// or jump unconditionally to a single block.
type Terminator struct {
	Ret  *RetTerm  `(  @@`
	Br   *BrTerm   ` | @@`
	Goto *GotoTerm ` | @@ )`
}

// RetTerm is "ret [value]"; Value is nil for a void return.
type RetTerm struct {
	Value *string `"ret" [ @Ident ]`
}

// BrTerm is "br target, target, ..."; Targets is in dispatch order,
// index 0 first, matching cfg.Edge.Index.
type BrTerm struct {
	Targets []string `"br" @Ident { "," @Ident }`
}

// GotoTerm is "goto target": an unconditional single-successor jump.
type GotoTerm struct {
	Target string `"goto" @Ident`
}

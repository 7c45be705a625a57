// Package grammar implements the textual .rvir surface syntax: a small,
// block/TAC-shaped notation that maps directly onto internal/cfg's
// Block/TAC/Variable model, the same way the teacher's grammar package
// maps Kanso source onto its own AST. It exists so cmd/rvsdgc has
// something concrete to parse in front of the cfg -> aggregate ->
// construct -> opt pipeline.
package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Lexer tokenizes .rvir source. Keywords ("fn", "block", "ret", "br",
// "goto") are ordinary Ident tokens matched by literal string in the
// grammar tags below, the same convention the teacher's KansoLexer
// uses for "module"/"fun"/"use".
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `//[^\n]*`, nil},

		// Arrow must come before punctuation so "->" doesn't split into "-","?>"
		{"Arrow", `->`, nil},

		// Keywords and identifiers (order matters). "%" is allowed so
		// reserved names like %io, %mem, %pred read as ordinary idents.
		{"Ident", `[a-zA-Z_%][a-zA-Z0-9_%]*`, nil},

		// Integer literals
		{"Int", `[0-9]+`, nil},

		// Punctuation
		{"Punct", `[{}():,=]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

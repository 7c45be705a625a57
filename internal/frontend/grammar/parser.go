package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"rvsdgc/internal/errors"
)

var parser = participle.MustBuild[Program](
	participle.Lexer(Lexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(3),
)

// ParseFile reads path and parses it as a .rvir Program. A syntax error
// comes back as a *errors.CompilerError carrying the offending
// line/column, ready for ErrorReporter.Format against the same source.
func ParseFile(path string) (*Program, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseString(path, string(source))
}

// ParseString parses source (named filename for diagnostics) as a
// .rvir Program.
func ParseString(filename, source string) (*Program, error) {
	program, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, asCompilerError(err)
	}
	return program, nil
}

// asCompilerError converts a participle parse error into the
// compiler's own diagnostic shape so the driver reports it exactly like
// any other malformed-input error (§7).
func asCompilerError(err error) error {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.NewMalformedInput(errors.CodeSyntaxError, err.Error(), errors.Position{})
	}
	pos := pe.Position()
	return errors.NewMalformedInput(errors.CodeSyntaxError, pe.Message(),
		errors.Position{Line: pos.Line, Column: pos.Column})
}

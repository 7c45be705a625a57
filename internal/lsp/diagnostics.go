package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"rvsdgc/internal/errors"
)

// diagnosticFromCompilerError converts one of the sealed error kinds of
// §7 into an LSP diagnostic. Invariant violations and resource
// exhaustion still surface here (an editor session can hit either, not
// just malformed/unsupported input) but are tagged with a distinct
// source string so the client can tell a compiler bug from a source
// error.
func diagnosticFromCompilerError(ce *errors.CompilerError) protocol.Diagnostic {
	line := ce.Position.Line - 1
	col := ce.Position.Column - 1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	length := ce.Length
	if length <= 0 {
		length = 1
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col + length)},
		},
		Severity: ptrSeverity(severityFor(ce.Kind)),
		Source:   ptrString(sourceFor(ce.Kind)),
		Message:  ce.Code + ": " + ce.Message,
	}
}

func severityFor(k errors.Kind) protocol.DiagnosticSeverity {
	switch k {
	case errors.InvariantViolation, errors.ResourceExhaustion:
		return protocol.DiagnosticSeverityError
	case errors.UnsupportedConstruct:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityError
	}
}

func sourceFor(k errors.Kind) string {
	switch k {
	case errors.InvariantViolation:
		return "rvsdgc-internal"
	case errors.ResourceExhaustion:
		return "rvsdgc-resource"
	case errors.UnsupportedConstruct:
		return "rvsdgc-unsupported"
	default:
		return "rvsdgc"
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }
func ptrString(s string) *string                                           { return &s }
func ptrBool(b bool) *bool                                                 { return &b }

package errors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvariantViolation(t *testing.T) {
	reporter := NewErrorReporter("a.rvir", "block entry:\n  jump body\nblock body:\n  ret\n")

	err := NewInvariantViolation(CodeUserSetMismatch, "output users disagree with recorded origins", Position{Line: 2, Column: 3}).
		WithNote("detected while diverting users of add#4's output")

	formatted := reporter.Format(err)
	assert.Contains(t, formatted, "error[E1002]")
	assert.Contains(t, formatted, "a.rvir:2:3")
	assert.Contains(t, formatted, "note:")
	assert.Contains(t, formatted, "diverting users")
}

func TestFormatMalformedInputWithSuggestion(t *testing.T) {
	reporter := NewErrorReporter("loop.rvir", "")

	err := NewMalformedInput(CodeIrreducibleControl, "reduction stalled with 2 vertices remaining", Position{}).
		WithSuggestion("run restructure before aggregate")

	formatted := reporter.Format(err)
	assert.Contains(t, formatted, "error[E3002]")
	assert.Contains(t, formatted, "help")
	assert.Contains(t, formatted, "restructure")
}

func TestKindCodePrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(CodeRegionLocality, "E1"))
	assert.True(t, strings.HasPrefix(CodeUnsupportedOperation, "E2"))
	assert.True(t, strings.HasPrefix(CodeCFGNotClosed, "E3"))
	assert.True(t, strings.HasPrefix(CodeAllocationFailure, "E4"))
}

func TestCompilerErrorSatisfiesError(t *testing.T) {
	var err error = NewUnsupportedConstruct(CodeUnsupportedCallee, "indirect call through non-function callee", Position{Line: 9, Column: 1})
	assert.Contains(t, err.Error(), "E2002")
	assert.Contains(t, err.Error(), "line 9")
}

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning("W0001"))
	assert.False(t, IsWarning(CodeRegionLocality))
}

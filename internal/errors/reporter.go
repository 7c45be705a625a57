package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Position is a 1-based line/column location in some source text (a
// .rvir file, or a synthetic position for errors raised by a pass with
// no source span of its own, in which case Line/Column are both 0 and
// the reporter omits the context lines).
type Position struct {
	Line   int
	Column int
}

// ErrorLevel mirrors a CompilerError's display severity. Every
// constructor in this package reports at Error level, and nothing in the
// package changes a diagnostic's level afterwards.
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// Suggestion is a suggested fix, rendered under a diagnostic.
type Suggestion struct {
	Message     string
	Replacement string
	Position    Position
	Length      int
}

// CompilerError is a single diagnostic belonging to one of the four
// sealed kinds (spec §7). It satisfies the standard error interface so
// it can flow through ordinary Go error returns; ErrorReporter.Format
// renders the richer, source-annotated form for human consumption.
type CompilerError struct {
	Kind        Kind
	Level       ErrorLevel
	Code        string
	Message     string
	Position    Position
	Length      int
	Suggestions []Suggestion
	Notes       []string
	HelpText    string
	cause       error
}

func (e *CompilerError) Error() string {
	if e.Position.Line > 0 {
		return fmt.Sprintf("[%s] %s (line %d, col %d)", e.Code, e.Message, e.Position.Line, e.Position.Column)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CompilerError) Unwrap() error { return e.cause }

// newError is the shared constructor every Kind-specific helper below
// funnels through. The level is fixed by the Kind-specific helper; the
// code is whatever the call site passes and is not checked against the
// kind's code range.
func newError(kind Kind, level ErrorLevel, code, message string, pos Position) *CompilerError {
	return &CompilerError{Kind: kind, Level: level, Code: code, Message: message, Position: pos, Length: 1}
}

// NewInvariantViolation builds a fatal compiler-bug diagnostic. pos may
// be the zero Position when the violation was detected outside any
// particular source span (the common case: a graph-level invariant
// check).
func NewInvariantViolation(code, message string, pos Position) *CompilerError {
	return newError(InvariantViolation, Error, code, message, pos)
}

// NewUnsupportedConstruct builds a diagnostic for a well-formed input
// the current pass can't lower; the driver decides whether this halts
// only the current function (skip-unsupported-functions) or the run.
func NewUnsupportedConstruct(code, message string, pos Position) *CompilerError {
	return newError(UnsupportedConstruct, Error, code, message, pos)
}

// NewMalformedInput builds a diagnostic for an input that failed a
// structural precondition (an unclosed CFG, a non-structured CFG
// reaching aggregation).
func NewMalformedInput(code, message string, pos Position) *CompilerError {
	return newError(MalformedInput, Error, code, message, pos)
}

// NewResourceExhaustion builds a diagnostic for a failure to obtain a
// resource a pass needed; always propagated, never locally recovered.
func NewResourceExhaustion(code, message string, pos Position) *CompilerError {
	return newError(ResourceExhaustion, Error, code, message, pos)
}

// WithLength sets the span length highlighted under the error.
func (e *CompilerError) WithLength(length int) *CompilerError {
	e.Length = length
	return e
}

// WithCause records the underlying error this diagnostic wraps, so
// Unwrap/errors.Is/errors.As from the standard library keep working.
func (e *CompilerError) WithCause(cause error) *CompilerError {
	e.cause = cause
	return e
}

// WithSuggestion adds a suggested fix with no replacement text.
func (e *CompilerError) WithSuggestion(message string) *CompilerError {
	e.Suggestions = append(e.Suggestions, Suggestion{Message: message})
	return e
}

// WithReplacement adds a suggested fix with replacement text at pos.
func (e *CompilerError) WithReplacement(message, replacement string, pos Position, length int) *CompilerError {
	e.Suggestions = append(e.Suggestions, Suggestion{Message: message, Replacement: replacement, Position: pos, Length: length})
	return e
}

// WithNote appends an additional context note.
func (e *CompilerError) WithNote(note string) *CompilerError {
	e.Notes = append(e.Notes, note)
	return e
}

// WithHelp sets the diagnostic's help text.
func (e *CompilerError) WithHelp(help string) *CompilerError {
	e.HelpText = help
	return e
}

// ErrorReporter renders CompilerErrors against a known source file in
// rustc-style boxed, colored diagnostics.
type ErrorReporter struct {
	filename string
	lines    []string
}

// NewErrorReporter creates a reporter for filename's source text. An
// empty source is valid — diagnostics with a non-zero Position simply
// render without a context line.
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders err as a multi-line, colored diagnostic in the style
// of: "error[E3002]: message\n  --> file:line:col\n   │\n 3 │ ...".
func (er *ErrorReporter) Format(err *CompilerError) string {
	var result strings.Builder

	levelColor := er.levelColor(err.Level)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, err.Message))
	} else {
		result.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(err.Level)), err.Message))
	}

	if err.Position.Line <= 0 {
		result.WriteString(fmt.Sprintf("  %s %s\n", dim("-->"), er.filename))
		er.writeTail(&result, err, "   ")
		return result.String()
	}

	width := er.lineNumberWidth(err.Position.Line)
	indent := strings.Repeat(" ", width)

	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n", indent, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))

	if err.Position.Line > 1 && err.Position.Line-1 <= len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, err.Position.Line-1)), dim("│"), er.lines[err.Position.Line-2]))
	}

	if err.Position.Line <= len(er.lines) {
		lineContent := er.lines[err.Position.Line-1]
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			bold(fmt.Sprintf("%*d", width, err.Position.Line)), dim("│"), lineContent))
		result.WriteString(fmt.Sprintf("%s %s %s\n", indent, dim("│"), er.marker(err.Position.Column, err.Length, err.Level)))
	}

	if err.Position.Line < len(er.lines) {
		result.WriteString(fmt.Sprintf("%s %s %s\n",
			dim(fmt.Sprintf("%*d", width, err.Position.Line+1)), dim("│"), er.lines[err.Position.Line]))
	}

	er.writeTail(&result, err, indent)
	return result.String()
}

func (er *ErrorReporter) writeTail(result *strings.Builder, err *CompilerError, indent string) {
	dim := color.New(color.Faint).SprintFunc()

	if len(err.Suggestions) > 0 {
		result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
		suggestionColor := color.New(color.FgCyan).SprintFunc()
		for i, s := range err.Suggestions {
			if i == 0 {
				result.WriteString(fmt.Sprintf("%s %s %s: %s\n", indent, suggestionColor("help"), suggestionColor("try"), s.Message))
			} else {
				result.WriteString(fmt.Sprintf("%s %s %s\n", indent, suggestionColor("    "), s.Message))
			}
			if s.Replacement != "" {
				result.WriteString(fmt.Sprintf("%s %s\n", indent, dim("│")))
				replacement := strings.ReplaceAll(s.Replacement, "\n", fmt.Sprintf("\n%s %s ", indent, dim("│")))
				result.WriteString(fmt.Sprintf("%s %s %s\n", indent, suggestionColor("│"), suggestionColor(replacement)))
			}
		}
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), noteColor("note:"), note))
	}

	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", indent, dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
}

func (er *ErrorReporter) levelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func (er *ErrorReporter) marker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", maxInt(0, column-1))

	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if level == Warning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}
	return spaces + markerColor(strings.Repeat("^", length))
}

func (er *ErrorReporter) lineNumberWidth(line int) int {
	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	return width
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

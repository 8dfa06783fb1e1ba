package descriptor

import (
	"strconv"
	"strings"

	"github.com/themeforge/themeforge/pkg"
)

// Sentinel parse errors. Each occurrence is wrapped in a *ParseError
// carrying the source location and offending fragment.
var (
	ErrUnterminatedString     = pkg.NewError("unterminated string literal")
	ErrBadStringEscape        = pkg.NewError("malformed string escape")
	ErrExpectedString         = pkg.NewError("expected a string literal")
	ErrUnterminatedExpression = pkg.NewError("unterminated expression span")
	ErrEmptyPath              = pkg.NewError("empty path literal")
	ErrAbsolutePath           = pkg.NewError("path must be relative")
	ErrBadGlobPattern         = pkg.NewError("invalid glob pattern")
	ErrMalformedResource      = pkg.NewError(`resource directive requires "glob" or "dest":"glob"`)
	ErrTrailingContent        = pkg.NewError("unexpected content after directive")
)

// ParseError is an unrecoverable syntax error. It carries the byte offset,
// line, UTF-8 column, and the offending source fragment.
type ParseError struct {
	Err      error    // sentinel describing the failure
	Pos      Position // location of the failure
	Fragment string   // offending source fragment
	Source   string   // full source text, set by Parse for snippet rendering
	Path     string   // originating file, set by callers that know it
}

// Error implements the error interface, rendering the location, cause, and
// a caret-marked source snippet when the full source is available.
func (e *ParseError) Error() string {
	var sb strings.Builder

	if e.Path != "" {
		sb.WriteString(e.Path)
		sb.WriteString(": ")
	}

	sb.WriteString("parse error at line ")
	sb.WriteString(strconv.Itoa(e.Pos.Line))
	sb.WriteString(", column ")
	sb.WriteString(strconv.Itoa(e.Pos.Column))

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if e.Fragment != "" {
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(e.Fragment))
	}

	if snippet := e.snippet(); snippet != "" {
		sb.WriteString("\n")
		sb.WriteString(snippet)
	}

	return sb.String()
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ParseError) Unwrap() error { return e.Err }

// snippet renders the offending line with a caret under the error column.
func (e *ParseError) snippet() string {
	if e.Source == "" || e.Pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) {
		return ""
	}

	line := lines[e.Pos.Line-1]
	num := strconv.Itoa(e.Pos.Line)

	var sb strings.Builder

	sb.WriteString("  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(line)
	sb.WriteString("\n")

	// 2 leading spaces + line number + " | "
	pad := len(num) + 5
	if e.Pos.Column > 0 {
		pad += e.Pos.Column - 1
	}

	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString("^")

	return sb.String()
}

// errAt constructs a ParseError for the given sentinel and location.
func errAt(err error, pos Position, fragment string) *ParseError {
	return &ParseError{Err: err, Pos: pos, Fragment: fragment}
}

// Package descriptor parses theme descriptor text into an ordered content
// sequence of code, comments, newlines, expression spans, and directives.
//
// The grammar is line-oriented: `;` starts a comment running to end of line,
// `#include`/`#resource` (and unknown `#name` passthrough) directives occupy
// the first non-whitespace position of a line, and `#{ ... }` expression
// spans may appear anywhere, nest braces, and cross physical lines. A bare
// `#` that opens neither an expression nor a directive is ordinary code,
// which keeps legacy `##` interpolation idioms intact.
//
// Concatenating the Source() of every parsed item reproduces the input
// byte-for-byte.
package descriptor

// Kind discriminates the content item variants.
type Kind int

const (
	// KindNewline is a single line terminator.
	KindNewline Kind = iota

	// KindCode is plain descriptor text passed through verbatim.
	KindCode

	// KindComment is a `;` comment running to end of line.
	KindComment

	// KindExpression is a `#{ ... }` span evaluated by the script engine.
	KindExpression

	// KindDirective is an `#include`, `#resource`, or unknown directive.
	KindDirective
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNewline:
		return "Newline"
	case KindCode:
		return "Code"
	case KindComment:
		return "Comment"
	case KindExpression:
		return "Expression"
	case KindDirective:
		return "Directive"
	default:
		return "Unknown"
	}
}

// Position is a location within descriptor source text. Offset is a byte
// offset; Line and Column are 1-based, with Column counted in runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// Content is one item of the parsed descriptor sequence.
//
// Text holds the verbatim source of Code and Comment items, the inner source
// (between the braces) of Expression items, and the full raw line text of
// Directive items.
type Content struct {
	Kind      Kind
	Text      string
	Pos       Position
	Directive *Directive // set when Kind == KindDirective
}

// Source reconstructs the original source text of the item.
func (c Content) Source() string {
	switch c.Kind {
	case KindNewline:
		return "\n"
	case KindExpression:
		return "#{" + c.Text + "}"
	default:
		return c.Text
	}
}

// DirectiveKind discriminates the recognized directive variants.
type DirectiveKind int

const (
	// DirectiveInclude is `#include "relative/path"`.
	DirectiveInclude DirectiveKind = iota

	// DirectiveResource is `#resource ["dest/dir":] "glob/pattern"`.
	DirectiveResource

	// DirectiveUnknown is any other `#name rest-of-line`, passed through.
	DirectiveUnknown
)

// Directive is a parsed directive line.
type Directive struct {
	Kind DirectiveKind
	Name string // keyword as written, without the leading '#'
	Pos  Position

	Include string // include: slash-separated relative path
	Dest    string // resource: slash-separated relative destination dir
	Pattern string // resource: glob pattern
	Rest    string // unknown: raw remainder of the line
}

package descriptor

import (
	"errors"
	"path"
	"strings"
)

// Parse parses descriptor source text into its ordered content sequence.
// Any syntax error aborts the whole parse; the parser never recovers
// mid-file.
func Parse(src string) ([]Content, error) {
	s := newScanner(src)

	var items []Content

	for !s.eof() {
		switch {
		case s.peek() == '\n':
			items = append(items, Content{Kind: KindNewline, Pos: s.position()})
			s.next()

		case s.peek() == ';':
			items = append(items, s.scanComment())

		case s.peek() == '#' && s.peekAt(1) == '{':
			item, err := s.scanExpression()
			if err != nil {
				return nil, attachSource(err, src)
			}

			items = append(items, item)

		case s.peek() == '#' && s.blank && isWord(s.peekAt(1)):
			item, err := s.scanDirective()
			if err != nil {
				return nil, attachSource(err, src)
			}

			items = append(items, item)

		default:
			items = append(items, s.scanCode())
		}
	}

	return items, nil
}

// attachSource stores the full source on a ParseError so rendering can show
// the offending line with a caret.
func attachSource(err error, src string) error {
	pe := &ParseError{}
	if errors.As(err, &pe) {
		pe.Source = src
	}

	return err
}

// scanComment consumes a `;` comment up to, but not including, the line
// terminator.
func (s *scanner) scanComment() Content {
	pos := s.position()
	start := s.off

	for !s.eof() && s.peek() != '\n' {
		s.next()
	}

	return Content{Kind: KindComment, Text: s.src[start:s.off], Pos: pos}
}

// scanCode consumes plain descriptor text up to the next newline, comment,
// expression span, or directive. A `#` that opens none of those is ordinary
// code content.
func (s *scanner) scanCode() Content {
	pos := s.position()
	start := s.off

	for !s.eof() {
		switch c := s.peek(); c {
		case '\n', ';':
			return Content{Kind: KindCode, Text: s.src[start:s.off], Pos: pos}
		case '#':
			if s.peekAt(1) == '{' || (s.blank && isWord(s.peekAt(1))) {
				return Content{Kind: KindCode, Text: s.src[start:s.off], Pos: pos}
			}

			s.next()
		default:
			s.next()
		}
	}

	return Content{Kind: KindCode, Text: s.src[start:s.off], Pos: pos}
}

// scanExpression consumes a `#{ ... }` span with arbitrary brace nesting,
// skipping braces inside quoted regions. The returned item's Text is the
// inner source between the braces.
func (s *scanner) scanExpression() (Content, error) {
	pos := s.position()

	s.next() // '#'
	s.next() // '{'

	start := s.off
	depth := 1

	for !s.eof() {
		switch s.peek() {
		case '"', '\'':
			s.skipQuoted(s.peek())
		case '{':
			depth++
			s.next()
		case '}':
			depth--
			if depth == 0 {
				text := s.src[start:s.off]
				s.next()

				return Content{Kind: KindExpression, Text: text, Pos: pos}, nil
			}

			s.next()
		default:
			s.next()
		}
	}

	return Content{}, errAt(ErrUnterminatedExpression, pos, s.src[start:s.off])
}

// scanDirective consumes a directive line, up to but not including its line
// terminator. Include and resource directives are validated here, at parse
// time; anything else passes through as an unknown directive.
func (s *scanner) scanDirective() (Content, error) {
	pos := s.position()
	start := s.off

	s.next() // '#'

	nameStart := s.off
	for !s.eof() && isWord(s.peek()) {
		s.next()
	}

	d := &Directive{Name: s.src[nameStart:s.off], Pos: pos}

	var err error

	switch d.Name {
	case "include":
		err = s.parseInclude(d)
	case "resource":
		err = s.parseResource(d)
	default:
		d.Kind = DirectiveUnknown
		d.Rest = s.restOfLine()

		for !s.atLineEnd() {
			s.next()
		}
	}

	if err != nil {
		return Content{}, err
	}

	return Content{
		Kind:      KindDirective,
		Text:      s.src[start:s.off],
		Pos:       pos,
		Directive: d,
	}, nil
}

// parseInclude parses `"relative/path"` after the include keyword.
func (s *scanner) parseInclude(d *Directive) error {
	s.skipInlineSpace()

	lit, pos, err := s.scanString()
	if err != nil {
		return err
	}

	rel, err := cleanRelativePath(lit, pos)
	if err != nil {
		return err
	}

	s.skipInlineSpace()

	if !s.atLineEnd() {
		return errAt(ErrTrailingContent, s.position(), s.restOfLine())
	}

	d.Kind = DirectiveInclude
	d.Include = rel

	return nil
}

// parseResource parses `["dest/dir":] "glob"` after the resource keyword.
// Any other token arrangement is a hard failure referencing the keyword's
// location.
func (s *scanner) parseResource(d *Directive) error {
	d.Kind = DirectiveResource

	s.skipInlineSpace()

	first, firstPos, err := s.scanString()
	if err != nil {
		return malformedResource(err, d.Pos)
	}

	s.skipInlineSpace()

	dest, pattern, patternPos := ".", first, firstPos

	if s.peek() == ':' {
		s.next()
		s.skipInlineSpace()

		second, secondPos, err := s.scanString()
		if err != nil {
			return malformedResource(err, d.Pos)
		}

		if dest, err = cleanRelativePath(first, firstPos); err != nil {
			return err
		}

		pattern, patternPos = second, secondPos
	}

	if _, err := cleanRelativePath(pattern, patternPos); err != nil {
		return err
	}

	if err := checkGlob(pattern, patternPos); err != nil {
		return err
	}

	s.skipInlineSpace()

	if !s.atLineEnd() {
		return malformedResource(
			errAt(ErrTrailingContent, s.position(), s.restOfLine()),
			d.Pos,
		)
	}

	d.Dest = dest
	d.Pattern = pattern

	return nil
}

// malformedResource rewraps a lower-level failure so the reported location
// is the resource keyword itself.
func malformedResource(cause error, pos Position) error {
	pe := &ParseError{}
	if errors.As(cause, &pe) {
		return &ParseError{
			Err:      ErrMalformedResource.Wrap(pe.Err),
			Pos:      pos,
			Fragment: pe.Fragment,
		}
	}

	return errAt(ErrMalformedResource, pos, "")
}

// cleanRelativePath validates that a path literal is relative (no leading
// separator, no DOS drive prefix) and returns its slash-normalized, cleaned
// form.
func cleanRelativePath(lit string, pos Position) (string, error) {
	if lit == "" {
		return "", errAt(ErrEmptyPath, pos, lit)
	}

	p := strings.ReplaceAll(lit, `\`, "/")

	if strings.HasPrefix(p, "/") {
		return "", errAt(ErrAbsolutePath, pos, lit)
	}

	if len(p) >= 2 && p[1] == ':' && isASCIILetter(p[0]) {
		return "", errAt(ErrAbsolutePath, pos, lit)
	}

	return path.Clean(p), nil
}

// checkGlob validates glob pattern syntax at parse time.
func checkGlob(pattern string, pos Position) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return errAt(ErrBadGlobPattern, pos, pattern)
	}

	return nil
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// RelativePath validates a path the same way directive literals are
// validated at parse time, returning the slash-normalized, cleaned form.
// Programmatic resource registration uses it to keep parity with the
// `#resource` directive.
func RelativePath(lit string) (string, error) {
	return cleanRelativePath(lit, Position{})
}

// ValidGlob validates glob pattern syntax the same way `#resource`
// directives are validated at parse time.
func ValidGlob(pattern string) error {
	return checkGlob(pattern, Position{})
}

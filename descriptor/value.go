package descriptor

// Fragment is one piece of an imported configuration value: either literal
// text or the inner source of a `#{ ... }` expression span. Pos locates the
// fragment within the value so evaluation results can be spliced back at
// their original column.
type Fragment struct {
	Text string
	Expr bool
	Pos  Position
}

// ParseValue re-scans an imported configuration value for embedded
// expression spans. The grammar is the expression-span subset of the
// descriptor grammar: directives and comments have no meaning here.
func ParseValue(src string) ([]Fragment, error) {
	s := newScanner(src)

	var frags []Fragment

	textStart := 0
	textPos := s.position()

	flush := func(end int) {
		if end > textStart {
			frags = append(frags, Fragment{
				Text: s.src[textStart:end],
				Pos:  textPos,
			})
		}
	}

	for !s.eof() {
		if s.peek() == '#' && s.peekAt(1) == '{' {
			flush(s.off)

			item, err := s.scanExpression()
			if err != nil {
				return nil, attachSource(err, src)
			}

			frags = append(frags, Fragment{
				Text: item.Text,
				Expr: true,
				Pos:  item.Pos,
			})

			textStart = s.off
			textPos = s.position()

			continue
		}

		s.next()
	}

	flush(s.off)

	return frags, nil
}

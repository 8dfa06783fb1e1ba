package script

import (
	"fmt"
	"strings"
)

// RunScript evaluates a script file: a sequence of statements, one per
// line, where a statement is either an assignment (`name = expression`)
// or a bare expression run for effect. A statement continues onto the
// following lines while its brackets remain open or it ends in an
// operator. `//` begins a comment outside string literals.
//
// Assignments write persistent globals, so definitions made by one script
// remain visible to later scripts and expressions.
func (e *Engine) RunScript(src, name string) error {
	var stmt strings.Builder
	stmtLine := 0

	flush := func() error {
		text := stmt.String()
		stmt.Reset()
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return e.statement(text, fmt.Sprintf("%s:%d", name, stmtLine))
	}

	for i, raw := range strings.Split(src, "\n") {
		line := stripComment(raw)
		if stmt.Len() == 0 {
			if strings.TrimSpace(line) == "" {
				continue
			}
			stmtLine = i + 1
		} else {
			stmt.WriteByte('\n')
		}
		stmt.WriteString(line)
		if continues(stmt.String()) {
			continue
		}
		if err := flush(); err != nil {
			return err
		}
	}

	// An unclosed statement still evaluates so the compiler reports the
	// dangling bracket at the statement's location.
	return flush()
}

// statement evaluates one statement, storing the result when it is an
// assignment.
func (e *Engine) statement(text, where string) error {
	if name, expr, ok := splitAssign(text); ok {
		value, err := e.Eval(expr, where)
		if err != nil {
			return err
		}
		e.globals[name] = value
		return nil
	}
	_, err := e.Eval(text, where)
	return err
}

// splitAssign recognizes `ident = expression`, rejecting `==` so equality
// comparisons stay expressions.
func splitAssign(text string) (name, expr string, ok bool) {
	s := strings.TrimLeft(text, " \t")
	ident, rest := scanIdent(s, 0)
	if ident == "" {
		return "", "", false
	}
	j := rest
	for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
		j++
	}
	if j >= len(s) || s[j] != '=' || (j+1 < len(s) && s[j+1] == '=') {
		return "", "", false
	}
	return ident, s[j+1:], true
}

// continues reports whether the statement accumulated so far is
// syntactically incomplete: an open bracket outside string literals, or a
// trailing binary operator.
func continues(text string) bool {
	depth := 0
	for i := 0; i < len(text); {
		switch text[i] {
		case '"', '\'':
			i = skipQuoted(text, i)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		i++
	}
	if depth > 0 {
		return true
	}
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == "" {
		return false
	}
	return strings.ContainsRune("+-*/%,.&|?:<>=!", rune(trimmed[len(trimmed)-1]))
}

// stripComment removes a trailing `//` comment, leaving string literals
// intact.
func stripComment(line string) string {
	for i := 0; i < len(line); {
		switch line[i] {
		case '"', '\'':
			i = skipQuoted(line, i)
			continue
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return line[:i]
			}
		}
		i++
	}
	return line
}

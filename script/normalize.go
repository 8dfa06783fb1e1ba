package script

import (
	"strings"
)

// legacyMethod maps the historical colon-call method names to the methods
// exposed on color values. Descriptors written against the old interpreter
// use `c:arr()` where the expression language expects `c.Arr()`.
var legacyMethod = map[string]string{
	"value":      "Value",
	"value_rev":  "ValueRev",
	"arr":        "Arr",
	"hex":        "Hex",
	"negative":   "Negative",
	"to_rgb":     "ToRGB",
	"with_alpha": "WithAlpha",
}

// normalizeLegacyCalls rewrites colon method calls on the legacy names into
// dot calls. The colon must directly follow a receiver (identifier, `)`, or
// `]`) and the name must be followed by an argument list, so slice
// expressions and string contents pass through untouched.
func normalizeLegacyCalls(src string) string {
	if !strings.ContainsRune(src, ':') {
		return src
	}
	var out strings.Builder
	out.Grow(len(src))
	for i := 0; i < len(src); {
		c := src[i]
		if c == '"' || c == '\'' {
			end := skipQuoted(src, i)
			out.WriteString(src[i:end])
			i = end
			continue
		}
		if c == ':' && i > 0 && isReceiverEnd(src[i-1]) {
			name, next := scanIdent(src, i+1)
			if mapped, ok := legacyMethod[name]; ok && atCall(src, next) {
				out.WriteByte('.')
				out.WriteString(mapped)
				i = next
				continue
			}
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}

// skipQuoted returns the index just past the string literal opening at i,
// honoring backslash escapes. An unterminated literal runs to the end and
// is left for the compiler to report.
func skipQuoted(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(src)
}

func scanIdent(src string, i int) (string, int) {
	j := i
	for j < len(src) && isIdentChar(src[j]) {
		j++
	}
	return src[i:j], j
}

// atCall reports whether an argument list opens at i, allowing inline
// whitespace between the method name and its parentheses.
func atCall(src string, i int) bool {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i < len(src) && src[i] == '('
}

func isReceiverEnd(b byte) bool {
	return isIdentChar(b) || b == ')' || b == ']'
}

func isIdentChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

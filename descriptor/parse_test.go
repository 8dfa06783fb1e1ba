package descriptor

import (
	"errors"
	"strings"
	"testing"
)

// roundTrip re-renders a parsed sequence and compares it to the input.
func roundTrip(t *testing.T, src string) []Content {
	t.Helper()

	items, err := Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var sb strings.Builder
	for _, item := range items {
		sb.WriteString(item.Source())
	}

	if got := sb.String(); got != src {
		t.Errorf("round trip mismatch:\n got %q\nwant %q", got, src)
	}

	return items
}

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "plain code and newlines",
			src:  "set layout [1 2 3]\nset other [4 5 6]\n",
		},
		{
			name: "comments",
			src:  "code ; trailing comment\n; full line comment\n",
		},
		{
			name: "expression span",
			src:  "value #{ rgb(1, 2, 3) } end\n",
		},
		{
			name: "nested and multiline expression",
			src:  "a #{ f({1: {2: 3}},\n  4) } b\n",
		},
		{
			name: "braces inside expression strings",
			src:  "#{ \"}\" + '}' }\n",
		},
		{
			name: "bare hash is code",
			src:  "front ## back\n",
		},
		{
			name: "hash word mid-line is code",
			src:  "macro##name and x#y\n",
		},
		{
			name: "no trailing newline",
			src:  "last line",
		},
		{
			name: "crlf stays in code",
			src:  "dos line\r\nnext\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roundTrip(t, tt.src)
		})
	}
}

func TestParse_Kinds(t *testing.T) {
	items := roundTrip(t, "code ; comment\n#{ 1 + 2 }\n")

	want := []Kind{
		KindCode, KindComment, KindNewline,
		KindExpression, KindNewline,
	}

	if len(items) != len(want) {
		t.Fatalf("got %d items, want %d", len(items), len(want))
	}

	for i, k := range want {
		if items[i].Kind != k {
			t.Errorf("item %d: got %v, want %v", i, items[i].Kind, k)
		}
	}

	if items[3].Text != " 1 + 2 " {
		t.Errorf("expression text = %q", items[3].Text)
	}
}

func TestParse_IncludeDirective(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		include string
		wantErr error
	}{
		{
			name:    "simple",
			src:     `#include "sub/part.txt"`,
			include: "sub/part.txt",
		},
		{
			name:    "leading whitespace allowed",
			src:     "  \t#include \"part.txt\"\n",
			include: "part.txt",
		},
		{
			name:    "backslashes normalized",
			src:     `#include "sub\\part.txt"`,
			include: "sub/part.txt",
		},
		{
			name:    "absolute path rejected",
			src:     `#include "/etc/theme.txt"`,
			wantErr: ErrAbsolutePath,
		},
		{
			name:    "drive letter rejected",
			src:     `#include "C:/theme.txt"`,
			wantErr: ErrAbsolutePath,
		},
		{
			name:    "missing literal",
			src:     "#include part.txt",
			wantErr: ErrExpectedString,
		},
		{
			name:    "trailing content",
			src:     `#include "a.txt" extra`,
			wantErr: ErrTrailingContent,
		},
		{
			name:    "bad escape",
			src:     `#include "a\qb.txt"`,
			wantErr: ErrBadStringEscape,
		},
		{
			name:    "unterminated literal",
			src:     `#include "a.txt`,
			wantErr: ErrUnterminatedString,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.src)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			d := findDirective(t, items)
			if d.Kind != DirectiveInclude || d.Include != tt.include {
				t.Errorf("got %+v, want include %q", d, tt.include)
			}
		})
	}
}

func TestParse_ResourceDirective(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		dest    string
		pattern string
		wantErr error
	}{
		{
			name:    "glob only",
			src:     `#resource "img/*.png"`,
			dest:    ".",
			pattern: "img/*.png",
		},
		{
			name:    "dest and glob",
			src:     `#resource "150": "img/*.png"`,
			dest:    "150",
			pattern: "img/*.png",
		},
		{
			name:    "absolute dest rejected",
			src:     `#resource "C:/abs": "x.png"`,
			wantErr: ErrAbsolutePath,
		},
		{
			name:    "missing colon between literals",
			src:     `#resource "150" "./*.png"`,
			wantErr: ErrMalformedResource,
		},
		{
			name:    "absolute pattern rejected",
			src:     `#resource "/abs/*.png"`,
			wantErr: ErrAbsolutePath,
		},
		{
			name:    "bad glob rejected",
			src:     `#resource "img/[.png"`,
			wantErr: ErrBadGlobPattern,
		},
		{
			name:    "no literal at all",
			src:     "#resource",
			wantErr: ErrMalformedResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(tt.src)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("got error %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatal(err)
			}

			d := findDirective(t, items)
			if d.Kind != DirectiveResource || d.Dest != tt.dest || d.Pattern != tt.pattern {
				t.Errorf("got %+v, want dest %q pattern %q", d, tt.dest, tt.pattern)
			}
		})
	}
}

func TestParse_UnknownDirective(t *testing.T) {
	items, err := Parse("#layout tcp 150 [1 2]\n")
	if err != nil {
		t.Fatal(err)
	}

	d := findDirective(t, items)

	if d.Kind != DirectiveUnknown {
		t.Fatalf("got %v, want DirectiveUnknown", d.Kind)
	}

	if d.Name != "layout" || d.Rest != " tcp 150 [1 2]" {
		t.Errorf("got name %q rest %q", d.Name, d.Rest)
	}

	// The directive's newline stays a separate item.
	if items[len(items)-1].Kind != KindNewline {
		t.Errorf("missing trailing newline item")
	}
}

func TestParse_DirectiveOnlyAtLineStart(t *testing.T) {
	items, err := Parse("code #include \"x\"\n")
	if err != nil {
		t.Fatal(err)
	}

	for _, item := range items {
		if item.Kind == KindDirective {
			t.Fatalf("mid-line #word must stay code, got directive %+v", item.Directive)
		}
	}
}

func TestParse_ErrorLocations(t *testing.T) {
	_, err := Parse("fine line\n  #include \"a.txt\" junk\n")

	pe := &ParseError{}
	if !errors.As(err, &pe) {
		t.Fatalf("got %T, want *ParseError", err)
	}

	if pe.Pos.Line != 2 {
		t.Errorf("line = %d, want 2", pe.Pos.Line)
	}

	if pe.Fragment == "" {
		t.Error("fragment is empty")
	}

	if !strings.Contains(pe.Error(), "line 2") {
		t.Errorf("rendered error lacks location: %q", pe.Error())
	}
}

func TestParse_UnterminatedExpression(t *testing.T) {
	_, err := Parse("#{ open {nested} forever\nand ever")
	if !errors.Is(err, ErrUnterminatedExpression) {
		t.Fatalf("got %v, want ErrUnterminatedExpression", err)
	}
}

func TestParseValue(t *testing.T) {
	frags, err := ParseValue("before #{ rgb(1,2,3) } after")
	if err != nil {
		t.Fatal(err)
	}

	if len(frags) != 3 {
		t.Fatalf("got %d fragments, want 3", len(frags))
	}

	if frags[0].Expr || frags[0].Text != "before " {
		t.Errorf("fragment 0 = %+v", frags[0])
	}

	if !frags[1].Expr || frags[1].Text != " rgb(1,2,3) " {
		t.Errorf("fragment 1 = %+v", frags[1])
	}

	if frags[1].Pos.Column != 8 {
		t.Errorf("expression column = %d, want 8", frags[1].Pos.Column)
	}

	if frags[2].Expr || frags[2].Text != " after" {
		t.Errorf("fragment 2 = %+v", frags[2])
	}
}

func TestParseValue_NoExpressions(t *testing.T) {
	frags, err := ParseValue("just text with # and ; inside")
	if err != nil {
		t.Fatal(err)
	}

	if len(frags) != 1 || frags[0].Expr {
		t.Fatalf("got %+v, want single text fragment", frags)
	}
}

func findDirective(t *testing.T, items []Content) *Directive {
	t.Helper()

	for _, item := range items {
		if item.Kind == KindDirective {
			return item.Directive
		}
	}

	t.Fatal("no directive item found")

	return nil
}

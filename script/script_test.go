package script

import (
	"errors"
	"strings"
	"testing"
)

func TestRunScriptAssignments(t *testing.T) {
	e := New()

	src := strings.Join([]string{
		`// palette definitions`,
		`accent = rgb(0x11, 0x22, 0x33)`,
		``,
		`dimmed = accent - rgb(0x10, 0x20, 0x30) // keep subtle`,
		`label = "accent: " + accent:hex()`,
	}, "\n")

	if err := e.RunScript(src, "palette.expr"); err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}

	if got := evalOK(t, e, `dimmed:arr()`); got != "1 2 3" {
		t.Errorf("dimmed = %v, want 1 2 3", got)
	}
	if got := evalOK(t, e, `label`); got != "accent: 332211" {
		t.Errorf("label = %v, want accent: 332211", got)
	}
}

func TestRunScriptContinuation(t *testing.T) {
	e := New()

	src := strings.Join([]string{
		`palette = [`,
		`    rgb(1, 2, 3),`,
		`    rgb(4, 5, 6)`,
		`]`,
		`total = 1 +`,
		`    2`,
	}, "\n")

	if err := e.RunScript(src, "palette.expr"); err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}

	if got := evalOK(t, e, `palette[1]:arr()`); got != "4 5 6" {
		t.Errorf("palette[1] = %v, want 4 5 6", got)
	}
	if got, _ := e.Global("total"); got != 3 {
		t.Errorf("total = %v, want 3", got)
	}
}

func TestRunScriptBareExpression(t *testing.T) {
	e := New()

	if err := e.RunScript(`resource("icons", "*.png")`, "res.expr"); err != nil {
		t.Fatalf("RunScript() error: %v", err)
	}
	staged := e.DrainResources()
	if len(staged) != 1 || staged[0] != (StagedResource{Pattern: "*.png", Dest: "icons"}) {
		t.Errorf("staged = %v, want one icons entry", staged)
	}
}

func TestRunScriptErrorLocation(t *testing.T) {
	e := New()

	src := strings.Join([]string{
		`a = 1`,
		``,
		`b = rgb(1, 2)`,
	}, "\n")

	err := e.RunScript(src, "bad.expr")
	if err == nil {
		t.Fatal("RunScript() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "bad.expr:3") {
		t.Errorf("error %q missing statement location", err)
	}
}

func TestRunScriptUnclosedBracket(t *testing.T) {
	e := New()

	err := e.RunScript("xs = [1, 2,\n       3,", "trunc.expr")
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("error = %v, want ErrCompile", err)
	}
}

func TestSplitAssign(t *testing.T) {
	tests := []struct {
		src      string
		name     string
		expr     string
		assigned bool
	}{
		{`x = 1`, "x", " 1", true},
		{`  pad_width =2+3`, "pad_width", "2+3", true},
		{`x == 1`, "", "", false},
		{`rgb(1, 2, 3)`, "", "", false},
		{`x + 1 = 2`, "", "", false},
	}
	for _, tt := range tests {
		name, expr, ok := splitAssign(tt.src)
		if ok != tt.assigned || name != tt.name || expr != tt.expr {
			t.Errorf("splitAssign(%q) = %q, %q, %v; want %q, %q, %v",
				tt.src, name, expr, ok, tt.name, tt.expr, tt.assigned)
		}
	}
}

package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/themeforge/themeforge/color"
)

func evalOK(t *testing.T, e *Engine, src string) any {
	t.Helper()
	out, err := e.Eval(src, "test:1:1")
	if err != nil {
		t.Fatalf("Eval(%q) error: %v", src, err)
	}
	return out
}

func TestEvalColorConstructors(t *testing.T) {
	e := New()

	tests := []struct {
		src  string
		want color.Color
	}{
		{`rgb(0x11, 0x22, 0x33)`, color.RGB(0x11, 0x22, 0x33)},
		{`rgba(1, 2, 3, 4)`, color.RGBA(1, 2, 3, 4)},
		{`color(0x112233)`, color.RGB(0x11, 0x22, 0x33)},
		{`color(0xFFFFFF, 4)`, color.RGBA(0, 0xFF, 0xFF, 0xFF)},
	}
	for _, tt := range tests {
		got := evalOK(t, e, tt.src)
		c, ok := got.(color.Color)
		if !ok {
			t.Errorf("Eval(%q) = %T, want color.Color", tt.src, got)
			continue
		}
		if c != tt.want {
			t.Errorf("Eval(%q) = %v, want %v", tt.src, c, tt.want)
		}
	}
}

func TestEvalColorArgsError(t *testing.T) {
	e := New()
	for _, src := range []string{
		`rgb(256, 0, 0)`,
		`rgb(-1, 0, 0)`,
		`color(0xFFFFFF, 3, 4)`,
	} {
		if _, err := e.Eval(src, "test:1:1"); !errors.Is(err, ErrEvaluate) {
			t.Errorf("Eval(%q) error = %v, want ErrEvaluate", src, err)
		}
	}
}

func TestEvalLegacyColonCalls(t *testing.T) {
	e := New()

	tests := []struct {
		src  string
		want any
	}{
		{`rgb(1, 2, 3):arr()`, "1 2 3"},
		{`rgb(0x11, 0x22, 0x33):hex()`, "332211"},
		{`rgb(0x11, 0x22, 0x33):value()`, 0x112233},
		{`rgb(0x11, 0x22, 0x33):value_rev()`, 0x332211},
		{`rgba(1, 2, 3, 4):to_rgb():arr()`, "1 2 3"},
		{`rgb(1, 2, 3):with_alpha(7):arr()`, "1 2 3 7"},
	}
	for _, tt := range tests {
		if got := evalOK(t, e, tt.src); got != tt.want {
			t.Errorf("Eval(%q) = %v (%T), want %v", tt.src, got, got, tt.want)
		}
	}
}

func TestEvalBlend(t *testing.T) {
	e := New()

	tests := []struct {
		src  string
		want int
	}{
		{`blend("normal", 1.0)`, 0x20000 | 256<<8},
		{`blend("normal", 0.0)`, 0x20000},
		{`blend("hsv", 0.5)`, 0x20000 | 128<<8 | 0xFE},
		// 0.12*256 = 30.72 quantizes up to 31, not down to 30.
		{`blend("hsv", 0.12)`, 0x20000 | 31<<8 | 0xFE},
		{`blend("multiply", 1.0)`, 0x20000 | 256<<8 | 0x03},
		{`blend("dodge", 0.25)`, 0x20000 | 64<<8 | 0x02},
		{`blend("overlay", 1)`, 0x20000 | 256<<8 | 0x04},
		{`blend("add", 0.5)`, 0x20000 | 128<<8 | 0x01},
	}
	for _, tt := range tests {
		got := evalOK(t, e, tt.src)
		if got != any(tt.want) {
			t.Errorf("Eval(%q) = %#x, want %#x", tt.src, got, tt.want)
		}
	}
}

func TestEvalBlendErrors(t *testing.T) {
	e := New()

	_, err := e.Eval(`blend("ovrlay", 0.5)`, "test:1:1")
	if !errors.Is(err, ErrEvaluate) {
		t.Fatalf("unknown mode error = %v, want ErrEvaluate", err)
	}
	if !strings.Contains(err.Error(), "unknown blend mode") {
		t.Errorf("error %q missing mode diagnostic", err)
	}
	if !strings.Contains(err.Error(), "overlay") {
		t.Errorf("error %q missing suggestion", err)
	}

	if _, err := e.Eval(`blend("normal", 1.5)`, "test:1:1"); !errors.Is(err, ErrEvaluate) {
		t.Errorf("fraction error = %v, want ErrEvaluate", err)
	}
}

func TestEvalArithmetic(t *testing.T) {
	e := New()

	tests := []struct {
		src  string
		want any
	}{
		{`1 + 2`, 3},
		{`10 - 4`, 6},
		{`1 + 2.5`, 3.5},
		{`2.5 - 1`, 1.5},
		{`"foo" + "bar"`, "foobar"},
		{`(rgb(1, 2, 3) + rgb(10, 20, 30)):arr()`, "11 22 33"},
		{`(rgb(1, 2, 3) + rgb(4, 5, 6) - rgb(4, 5, 6)):arr()`, "1 2 3"},
	}
	for _, tt := range tests {
		if got := evalOK(t, e, tt.src); got != tt.want {
			t.Errorf("Eval(%q) = %v (%T), want %v", tt.src, got, got, tt.want)
		}
	}
}

func TestEvalArithmeticErrors(t *testing.T) {
	e := New()

	for _, src := range []string{
		`"foo" + 1`,
		`rgb(1, 2, 3) + 5`,
		`rgb(0, 0, 0) - rgb(1, 0, 0)`,
		`rgb(255, 255, 255) + rgb(1, 0, 0)`,
		`rgb(1, 2, 3) + rgba(1, 2, 3, 4)`,
	} {
		err := func() error {
			_, err := e.Eval(src, "test:1:1")
			return err
		}()
		if !errors.Is(err, ErrEvaluate) {
			t.Errorf("Eval(%q) error = %v, want ErrEvaluate", src, err)
		}
	}
}

func TestEvalEnvBuiltin(t *testing.T) {
	t.Setenv("THEMEFORGE_TEST_VAR", "midnight")

	e := New()
	if got := evalOK(t, e, `env("THEMEFORGE_TEST_VAR")`); got != "midnight" {
		t.Errorf("env() = %v, want midnight", got)
	}
	if _, err := e.Eval(`env("THEMEFORGE_TEST_VAR_UNSET")`, "test:1:1"); !errors.Is(err, ErrEvaluate) {
		t.Errorf("unset env error = %v, want ErrEvaluate", err)
	}
}

func TestEvalResourceStaging(t *testing.T) {
	e := New()

	evalOK(t, e, `resource("img/*.png")`)
	evalOK(t, e, `resource("icons", "toolbar_*.png")`)

	staged := e.DrainResources()
	want := []StagedResource{
		{Pattern: "img/*.png", Dest: "."},
		{Pattern: "toolbar_*.png", Dest: "icons"},
	}
	if len(staged) != len(want) {
		t.Fatalf("DrainResources() = %v, want %v", staged, want)
	}
	for i := range want {
		if staged[i] != want[i] {
			t.Errorf("staged[%d] = %v, want %v", i, staged[i], want[i])
		}
	}

	if again := e.DrainResources(); len(again) != 0 {
		t.Errorf("second drain = %v, want empty", again)
	}

	for _, src := range []string{
		`resource("/abs/*.png")`,
		`resource("a", "b", "c")`,
		`resource("ic[ons", "x.png")`,
	} {
		if _, err := e.Eval(src, "test:1:1"); !errors.Is(err, ErrEvaluate) {
			t.Errorf("Eval(%q) error = %v, want ErrEvaluate", src, err)
		}
	}
}

func TestEvalGlobalsPersist(t *testing.T) {
	e := New()
	e.Set("theme_name", "midnight")

	if got := evalOK(t, e, `theme_name + "-dark"`); got != "midnight-dark" {
		t.Errorf("seeded global = %v, want midnight-dark", got)
	}

	if got := evalOK(t, e, `undefined_name == nil`); got != true {
		t.Errorf("undefined name = %v, want nil comparison true", got)
	}
}

func TestEvalCompileError(t *testing.T) {
	e := New()
	_, err := e.Eval(`rgb(1, 2,`, "theme.txt:3:7")
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("error = %v, want ErrCompile", err)
	}
	if !strings.Contains(err.Error(), "theme.txt:3:7") {
		t.Errorf("error %q missing source location", err)
	}
}

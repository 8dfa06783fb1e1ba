// Package script evaluates the expression language embedded in theme
// descriptors. Expressions run against a persistent set of globals plus a
// fixed table of builtins (color constructors, blend, env, resource), so
// values assigned by one expression or script file remain visible to every
// later one within the same build.
package script

import (
	"log/slog"
	"maps"

	"github.com/expr-lang/expr"
)

// StagedResource is a resource registration made from expression code via
// the resource builtin, held until the surrounding build collects it.
type StagedResource struct {
	Pattern string
	Dest    string
}

// Engine holds the evaluation state shared by every expression and script
// file of a single build.
type Engine struct {
	base    map[string]any
	globals map[string]any
	pending []StagedResource
}

// New returns an Engine with the builtin table installed and no globals
// defined.
func New() *Engine {
	e := &Engine{globals: map[string]any{}}
	e.base = e.builtins()
	return e
}

// Set defines or replaces a persistent global.
func (e *Engine) Set(name string, value any) {
	e.globals[name] = value
}

// Global reports the current value of a persistent global.
func (e *Engine) Global(name string) (any, bool) {
	v, ok := e.globals[name]
	return v, ok
}

// DrainResources returns the resources staged by expression code since the
// previous drain and clears the staging list.
func (e *Engine) DrainResources() []StagedResource {
	staged := e.pending
	e.pending = nil
	return staged
}

// Eval compiles and runs a single expression. The where argument names the
// source location for error reporting, typically "path:line:column".
// Legacy colon method calls are rewritten before compilation.
func (e *Engine) Eval(src, where string) (any, error) {
	env := e.environment()
	program, err := expr.Compile(normalizeLegacyCalls(src),
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.Patch(operatorPatcher{}),
	)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("at", where),
			slog.String("expression", src),
		)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err).With(
			slog.String("at", where),
			slog.String("expression", src),
		)
	}
	return out, nil
}

// environment builds the evaluation namespace for one run: builtins first,
// globals layered over them so user assignments win.
func (e *Engine) environment() map[string]any {
	env := maps.Clone(e.base)
	maps.Copy(env, e.globals)
	return env
}

package script

import (
	"github.com/themeforge/themeforge/pkg"
)

var (
	// ErrCompile is returned when an expression fails to parse or
	// type-check.
	ErrCompile = pkg.NewError("compile expression")

	// ErrEvaluate is returned when a compiled expression fails at
	// runtime.
	ErrEvaluate = pkg.NewError("evaluate expression")

	// ErrOperandTypes is returned when an arithmetic operator is applied
	// to operands it has no meaning for.
	ErrOperandTypes = pkg.NewError("invalid operand types")

	// ErrUnknownBlendMode is returned by blend for an unrecognized mode
	// name.
	ErrUnknownBlendMode = pkg.NewError("unknown blend mode")

	// ErrBlendFraction is returned by blend when the fraction falls
	// outside the closed unit interval.
	ErrBlendFraction = pkg.NewError("blend fraction out of range")

	// ErrUndefinedEnv is returned by env for a variable absent from the
	// process environment.
	ErrUndefinedEnv = pkg.NewError("undefined environment variable")

	// ErrResourceArgs is returned by resource for a malformed argument
	// list.
	ErrResourceArgs = pkg.NewError("invalid resource arguments")

	// ErrColorArgs is returned by the color constructors for malformed
	// argument lists.
	ErrColorArgs = pkg.NewError("invalid color arguments")
)

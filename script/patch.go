package script

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/expr-lang/expr/ast"

	"github.com/themeforge/themeforge/color"
)

// Names of the dispatch functions installed in the environment. The
// operator patcher routes `+` and `-` through them so color arithmetic and
// the numeric tower share one code path.
const (
	addFunc = "__add"
	subFunc = "__sub"
)

// operatorPatcher rewrites every binary `+` and `-` into a call to the
// matching dispatch function.
//
// expr-lang types its operators statically, which rules out `color + color`
// against a dynamic environment. Routing through a dispatch call defers the
// operand check to runtime, where values carry their concrete types.
type operatorPatcher struct{}

// Visit implements ast.Visitor for operatorPatcher.
func (operatorPatcher) Visit(node *ast.Node) {
	binNode, ok := (*node).(*ast.BinaryNode)
	if !ok {
		return
	}

	var callee string
	switch binNode.Operator {
	case "+":
		callee = addFunc
	case "-":
		callee = subFunc
	default:
		return
	}

	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: callee},
		Arguments: []ast.Node{binNode.Left, binNode.Right},
	})
}

// addValues is the runtime behind binary `+`.
func addValues(a, b any) (any, error) {
	switch left := a.(type) {
	case color.Color:
		right, ok := b.(color.Color)
		if !ok {
			return nil, operandErr("+", a, b)
		}
		return left.Add(right)

	case string:
		right, ok := b.(string)
		if !ok {
			return nil, operandErr("+", a, b)
		}
		return left + right, nil

	case time.Time:
		right, ok := b.(time.Duration)
		if !ok {
			return nil, operandErr("+", a, b)
		}
		return left.Add(right), nil

	case time.Duration:
		switch right := b.(type) {
		case time.Duration:
			return left + right, nil
		case time.Time:
			return right.Add(left), nil
		}
		return nil, operandErr("+", a, b)
	}

	return numericOp("+", a, b)
}

// subValues is the runtime behind binary `-`.
func subValues(a, b any) (any, error) {
	switch left := a.(type) {
	case color.Color:
		right, ok := b.(color.Color)
		if !ok {
			return nil, operandErr("-", a, b)
		}
		return left.Sub(right)

	case time.Time:
		switch right := b.(type) {
		case time.Duration:
			return left.Add(-right), nil
		case time.Time:
			return left.Sub(right), nil
		}
		return nil, operandErr("-", a, b)

	case time.Duration:
		right, ok := b.(time.Duration)
		if !ok {
			return nil, operandErr("-", a, b)
		}
		return left - right, nil
	}

	return numericOp("-", a, b)
}

// numericOp applies the operator over the numeric tower, keeping integer
// results integral and widening to float only when either operand is a
// float.
func numericOp(op string, a, b any) (any, error) {
	li, lf, lFloat, ok := asNumber(a)
	if !ok {
		return nil, operandErr(op, a, b)
	}
	ri, rf, rFloat, ok := asNumber(b)
	if !ok {
		return nil, operandErr(op, a, b)
	}

	if lFloat || rFloat {
		if op == "+" {
			return lf + rf, nil
		}
		return lf - rf, nil
	}
	if op == "+" {
		return int(li + ri), nil
	}
	return int(li - ri), nil
}

func asNumber(v any) (i int64, f float64, isFloat, ok bool) {
	switch n := v.(type) {
	case int:
		return int64(n), float64(n), false, true
	case int8:
		return int64(n), float64(n), false, true
	case int16:
		return int64(n), float64(n), false, true
	case int32:
		return int64(n), float64(n), false, true
	case int64:
		return n, float64(n), false, true
	case uint:
		return int64(n), float64(n), false, true
	case uint8:
		return int64(n), float64(n), false, true
	case uint16:
		return int64(n), float64(n), false, true
	case uint32:
		return int64(n), float64(n), false, true
	case uint64:
		return int64(n), float64(n), false, true
	case float32:
		return 0, float64(n), true, true
	case float64:
		return 0, n, true, true
	}
	return 0, 0, false, false
}

func operandErr(op string, a, b any) error {
	return ErrOperandTypes.With(
		slog.String("operator", op),
		slog.String("left", typeName(a)),
		slog.String("right", typeName(b)),
	)
}

// typeName names a runtime value's type for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	switch v.(type) {
	case bool:
		return "bool"
	case int, int8, int16, int32, int64:
		return "int"
	case uint, uint8, uint16, uint32, uint64:
		return "uint"
	case float32, float64:
		return "float"
	case string:
		return "string"
	case color.Color:
		return "color"
	case []any:
		return "array"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}

package build

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/themeforge/themeforge/color"
)

// target selects the byte order used when a Color serializes: descriptor
// code takes construction order, configuration values take the on-disk
// reversed order.
type target int

const (
	targetDescriptor target = iota
	targetConfig
)

// serializeValue projects an expression result to text. The value space is
// closed: anything outside it is a hard error rather than a best-effort
// rendering.
func serializeValue(v any, t target) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil

	case bool:
		return strconv.FormatBool(x), nil

	case int:
		return strconv.Itoa(x), nil

	case int64:
		return strconv.FormatInt(x, 10), nil

	case uint64:
		return strconv.FormatUint(x, 10), nil

	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil

	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil

	case string:
		return x, nil

	case color.Color:
		if t == targetConfig {
			return strconv.Itoa(x.ValueRev()), nil
		}

		return strconv.Itoa(x.Value()), nil
	}

	return "", ErrUnsupportedValue.With(slog.String("type", typeName(v)))
}

func typeName(v any) string {
	switch v.(type) {
	case []any:
		return "array"
	case map[string]any:
		return "map"
	}

	return fmt.Sprintf("%T", v)
}

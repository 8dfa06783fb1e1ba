package script

import (
	"log/slog"
	"maps"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/themeforge/themeforge/color"
	"github.com/themeforge/themeforge/descriptor"
)

// blendMode maps the recognized blend mode names to the low byte of the
// encoded blend word.
var blendMode = map[string]int{
	"normal":   0x00,
	"add":      0x01,
	"dodge":    0x02,
	"multiply": 0x03,
	"overlay":  0x04,
	"hsv":      0xFE,
}

// blendEnabled marks the encoded word as an active blend setting.
const blendEnabled = 0x20000

func blendModeNames() []string {
	names := slices.Collect(maps.Keys(blendMode))
	slices.Sort(names)
	return names
}

// builtins constructs the fixed function table shared by every evaluation.
func (e *Engine) builtins() map[string]any {
	return map[string]any{
		"color":    builtinColor,
		"rgb":      builtinRGB,
		"rgba":     builtinRGBA,
		"blend":    builtinBlend,
		"env":      builtinEnv,
		"resource": e.builtinResource,
		addFunc:    addValues,
		subFunc:    subValues,
	}
}

// builtinColor constructs a Color from a packed channel value. With no
// channel count the count is inferred from the magnitude; an explicit
// second argument forces it.
func builtinColor(value int, channels ...int) (color.Color, error) {
	switch len(channels) {
	case 0:
		return color.FromValue(int64(value))
	case 1:
		return color.WithChannels(int64(value), channels[0])
	}
	return color.Color{}, ErrColorArgs.With(
		slog.String("reason", "color takes a value and at most one channel count"),
	)
}

func builtinRGB(r, g, b int) (color.Color, error) {
	for _, ch := range [...]int{r, g, b} {
		if ch < 0 || ch > math.MaxUint8 {
			return color.Color{}, ErrColorArgs.With(
				slog.String("reason", "channel out of range"),
				slog.Int("channel", ch),
			)
		}
	}
	return color.RGB(uint8(r), uint8(g), uint8(b)), nil
}

func builtinRGBA(r, g, b, a int) (color.Color, error) {
	for _, ch := range [...]int{r, g, b, a} {
		if ch < 0 || ch > math.MaxUint8 {
			return color.Color{}, ErrColorArgs.With(
				slog.String("reason", "channel out of range"),
				slog.Int("channel", ch),
			)
		}
	}
	return color.RGBA(uint8(r), uint8(g), uint8(b), uint8(a)), nil
}

// builtinBlend encodes a blend mode and opacity fraction as the integer
// word the descriptor format expects. The fraction is quantized to 1/256
// steps. Unknown mode names get a fuzzy suggestion when one is close.
func builtinBlend(mode string, fraction any) (int, error) {
	low, ok := blendMode[mode]
	if !ok {
		err := ErrUnknownBlendMode.With(
			slog.String("mode", mode),
			slog.String("known", strings.Join(blendModeNames(), ", ")),
		)
		if match := fuzzy.Find(mode, blendModeNames()); len(match) > 0 {
			err = err.With(slog.String("didYouMean", match[0].Str))
		}
		return 0, err
	}
	frac, err := asFloat(fraction)
	if err != nil {
		return 0, err
	}
	if frac < 0 || frac > 1 {
		return 0, ErrBlendFraction.With(slog.Float64("fraction", frac))
	}
	return blendEnabled | int(math.Round(frac*256))<<8 | low, nil
}

// builtinEnv reads a process environment variable, failing when unset so a
// descriptor cannot silently expand to an empty value.
func builtinEnv(name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok {
		return "", ErrUndefinedEnv.With(slog.String("name", name))
	}
	return value, nil
}

// builtinResource stages a resource registration identical in effect to a
// `#resource` directive at the point of evaluation. With one argument the
// pattern copies into the archive root; with two, the destination folder
// comes first, then the pattern.
func (e *Engine) builtinResource(args ...string) (any, error) {
	dest, pattern := ".", ""
	switch len(args) {
	case 1:
		pattern = args[0]
	case 2:
		cleaned, err := descriptor.RelativePath(args[0])
		if err != nil {
			return nil, ErrResourceArgs.Wrap(err)
		}
		dest, pattern = cleaned, args[1]
	default:
		return nil, ErrResourceArgs.With(
			slog.String("reason", "resource takes a pattern, optionally preceded by a destination"),
		)
	}
	cleaned, err := descriptor.RelativePath(pattern)
	if err != nil {
		return nil, ErrResourceArgs.Wrap(err)
	}
	if err := descriptor.ValidGlob(cleaned); err != nil {
		return nil, ErrResourceArgs.Wrap(err)
	}
	e.pending = append(e.pending, StagedResource{Pattern: cleaned, Dest: dest})
	return nil, nil
}

func asFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	}
	return 0, ErrOperandTypes.With(slog.Any("value", v))
}

// Package color implements the tagged 3/4-channel color value model exposed
// to theme descriptor expressions.
//
// A Color is either RGB (3 channels) or RGBA (4 channels). Arithmetic is
// checked per channel and fails atomically, and the legacy integer encodings
// (Value, ValueRev, Negative) are bit-exact with the configuration formats
// that consume them.
package color

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/themeforge/themeforge/pkg"
)

// Sentinel errors for color construction and arithmetic.
var (
	ErrValueOutOfBounds = pkg.NewError("value does not fit within channel count")
	ErrInvalidChannels  = pkg.NewError("invalid channel count")
	ErrChannelRange     = pkg.NewError("channel value must be between 0 and 255")
	ErrNegativeRGBA     = pkg.NewError("cannot apply negative() to an RGBA color")
	ErrChannelMismatch  = pkg.NewError("cannot combine colors with different channel counts")
	ErrOverflow         = pkg.NewError("channel overflowed past 255")
	ErrUnderflow        = pkg.NewError("channel underflowed below 0")
)

// Color is a 3- or 4-channel color value. The zero value is RGB black.
type Color struct {
	r, g, b, a uint8
	alpha      bool // four channels when set
}

// RGB constructs a 3-channel color.
func RGB(r, g, b uint8) Color {
	return Color{r: r, g: g, b: b}
}

// RGBA constructs a 4-channel color.
func RGBA(r, g, b, a uint8) Color {
	return Color{r: r, g: g, b: b, a: a, alpha: true}
}

// FromValue constructs a color from a packed integer. Values that fit in
// 24 bits decode as 0xRRGGBB; anything larger decodes as 0xRRGGBBAA.
func FromValue(value int64) (Color, error) {
	if value <= 0xFFFFFF {
		return WithChannels(value, 3)
	}

	return WithChannels(value, 4)
}

// WithChannels constructs a color from a packed integer with an explicit
// channel count. Forcing 3 channels on a value wider than 24 bits, a value
// outside [0, 0xFFFFFFFF], or a channel count outside {3, 4} is an error.
func WithChannels(value int64, channels int) (Color, error) {
	if value < 0 || value > 0xFFFFFFFF {
		return Color{}, ErrValueOutOfBounds.With(
			slog.Int64("value", value),
			slog.Int("channels", channels),
		)
	}

	switch channels {
	case 3:
		if value > 0xFFFFFF {
			return Color{}, ErrValueOutOfBounds.With(
				slog.Int64("value", value),
				slog.Int("channels", channels),
			)
		}

		return RGB(
			uint8(value>>16&0xFF),
			uint8(value>>8&0xFF),
			uint8(value&0xFF),
		), nil

	case 4:
		return RGBA(
			uint8(value>>24&0xFF),
			uint8(value>>16&0xFF),
			uint8(value>>8&0xFF),
			uint8(value&0xFF),
		), nil

	default:
		return Color{}, ErrInvalidChannels.With(slog.Int("channels", channels))
	}
}

// Channels returns 3 for RGB colors and 4 for RGBA colors.
func (c Color) Channels() int {
	if c.alpha {
		return 4
	}

	return 3
}

// Value re-packs the channels in construction byte order:
// 0xRRGGBB for RGB, 0xRRGGBBAA for RGBA.
func (c Color) Value() int {
	if c.alpha {
		return int(c.r)<<24 | int(c.g)<<16 | int(c.b)<<8 | int(c.a)
	}

	return int(c.r)<<16 | int(c.g)<<8 | int(c.b)
}

// ValueRev re-packs the channels in reversed byte order, matching the
// on-disk byte order of the target configuration format:
// (b<<16)|(g<<8)|r for RGB, (a<<24)|(b<<16)|(g<<8)|r for RGBA.
func (c Color) ValueRev() int {
	if c.alpha {
		return int(c.a)<<24 | int(c.b)<<16 | int(c.g)<<8 | int(c.r)
	}

	return int(c.b)<<16 | int(c.g)<<8 | int(c.r)
}

// Arr renders the channels in construction order, space-separated, decimal.
func (c Color) Arr() string {
	parts := []string{
		strconv.Itoa(int(c.r)),
		strconv.Itoa(int(c.g)),
		strconv.Itoa(int(c.b)),
	}
	if c.alpha {
		parts = append(parts, strconv.Itoa(int(c.a)))
	}

	return strings.Join(parts, " ")
}

// Hex renders the channels zero-padded in reversed order, matching ValueRev.
func (c Color) Hex() string {
	if c.alpha {
		return fmt.Sprintf("%02X%02X%02X%02X", c.a, c.b, c.g, c.r)
	}

	return fmt.Sprintf("%02X%02X%02X", c.b, c.g, c.r)
}

// String implements fmt.Stringer using the reversed hex form.
func (c Color) String() string { return c.Hex() }

// WithAlpha returns an RGBA color with the given alpha channel.
// An RGB operand is upgraded to RGBA.
func (c Color) WithAlpha(alpha int) (Color, error) {
	if alpha < 0 || alpha > 255 {
		return Color{}, ErrChannelRange.With(slog.Int("alpha", alpha))
	}

	return RGBA(c.r, c.g, c.b, uint8(alpha)), nil
}

// ToRGB drops the alpha channel and returns the 3-channel color.
func (c Color) ToRGB() Color {
	return RGB(c.r, c.g, c.b)
}

// Negative is the legacy toggle-state encoding: ValueRev() - 0x1000000 as a
// signed integer. It is defined only for 3-channel colors.
func (c Color) Negative() (int, error) {
	if c.alpha {
		return 0, ErrNegativeRGBA
	}

	return c.ValueRev() - 0x1000000, nil
}

// Add performs per-channel checked addition. Both operands must have the
// same channel count, and any channel exceeding 255 fails the whole
// operation without a partial result.
func (c Color) Add(other Color) (Color, error) {
	return c.combine(other, 1, ErrOverflow)
}

// Sub performs per-channel checked subtraction. Both operands must have the
// same channel count, and any channel dropping below 0 fails the whole
// operation without a partial result.
func (c Color) Sub(other Color) (Color, error) {
	return c.combine(other, -1, ErrUnderflow)
}

func (c Color) combine(other Color, sign int, rangeErr *pkg.Error) (Color, error) {
	if c.alpha != other.alpha {
		return Color{}, ErrChannelMismatch.With(
			slog.Int("left", c.Channels()),
			slog.Int("right", other.Channels()),
		)
	}

	channel := func(name string, a, b uint8) (uint8, error) {
		sum := int(a) + sign*int(b)
		if sum < 0 || sum > 255 {
			return 0, rangeErr.With(
				slog.String("channel", name),
				slog.Int("result", sum),
			)
		}

		return uint8(sum), nil
	}

	var (
		out Color
		err error
	)

	out.alpha = c.alpha

	if out.r, err = channel("r", c.r, other.r); err != nil {
		return Color{}, err
	}

	if out.g, err = channel("g", c.g, other.g); err != nil {
		return Color{}, err
	}

	if out.b, err = channel("b", c.b, other.b); err != nil {
		return Color{}, err
	}

	if c.alpha {
		if out.a, err = channel("a", c.a, other.a); err != nil {
			return Color{}, err
		}
	}

	return out, nil
}

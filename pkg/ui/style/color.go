// Package style defines terminal colors, text modifiers and the Style patch
// model used by every buffer cell.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// ColorKind identifies the variant held by a Color.
type ColorKind uint8

const (
	// KindNone means the color is not set and inherits whatever is below it.
	KindNone ColorKind = iota
	// KindReset selects the terminal default color.
	KindReset
	// KindNamed is one of the 16 ANSI colors (index 0-15).
	KindNamed
	// KindIndexed is an entry of the 256-color palette.
	KindIndexed
	// KindRGB is a 24-bit true color.
	KindRGB
	// KindGradient is a linear gradient resolved per cell.
	KindGradient
)

// Color is a closed variant over the color kinds above.
// The zero value is an unset color.
type Color struct {
	kind     ColorKind
	index    uint8
	r, g, b  uint8
	gradient *LinearGradient
}

// Predefined colors.
var (
	None  = Color{}
	Reset = Color{kind: KindReset}

	Black   = named(0)
	Red     = named(1)
	Green   = named(2)
	Yellow  = named(3)
	Blue    = named(4)
	Magenta = named(5)
	Cyan    = named(6)
	White   = named(7)

	BrightBlack   = named(8)
	BrightRed     = named(9)
	BrightGreen   = named(10)
	BrightYellow  = named(11)
	BrightBlue    = named(12)
	BrightMagenta = named(13)
	BrightCyan    = named(14)
	BrightWhite   = named(15)
)

var namedColors = []string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"brightblack", "brightred", "brightgreen", "brightyellow",
	"brightblue", "brightmagenta", "brightcyan", "brightwhite",
}

func named(i uint8) Color {
	return Color{kind: KindNamed, index: i}
}

// Named returns the ANSI color with the given index (0-15).
func Named(index int) (Color, error) {
	if index < 0 || index > 15 {
		return None, apperrors.Newf(apperrors.ErrCodeOutOfRange,
			"named color index %d out of range 0-15", index).WithContext("value", index)
	}
	return named(uint8(index)), nil
}

// Indexed returns a 256-color palette entry.
func Indexed(index uint8) Color {
	return Color{kind: KindIndexed, index: index}
}

// RGB returns a true color from 8-bit channels.
func RGB(r, g, b uint8) Color {
	return Color{kind: KindRGB, r: r, g: g, b: b}
}

// NewRGB returns a true color, failing when a channel lies outside 0-255.
func NewRGB(r, g, b int) (Color, error) {
	for _, ch := range []struct {
		name  string
		value int
	}{{"red", r}, {"green", g}, {"blue", b}} {
		if ch.value < 0 || ch.value > 255 {
			return None, apperrors.Newf(apperrors.ErrCodeOutOfRange,
				"%s channel %d out of range 0-255", ch.name, ch.value).
				WithContext("channel", ch.name).
				WithContext("value", ch.value)
		}
	}
	return RGB(uint8(r), uint8(g), uint8(b)), nil
}

// Hex parses "#rrggbb", "rrggbb" or "#rgb".
func Hex(s string) (Color, error) {
	in := strings.TrimSpace(s)
	if !strings.HasPrefix(in, "#") {
		in = "#" + in
	}
	c, err := colorful.Hex(in)
	if err != nil {
		return None, apperrors.Wrap(err, apperrors.ErrCodeInvalidColor,
			fmt.Sprintf("invalid hex color %q", s))
	}
	r, g, b := c.RGB255()
	return RGB(r, g, b), nil
}

// HSV converts hue (0-360), saturation and value (0-100) to a true color.
func HSV(h, s, v float64) (Color, error) {
	switch {
	case h < 0 || h > 360:
		return None, apperrors.Newf(apperrors.ErrCodeOutOfRange,
			"hue %g out of range 0-360", h).WithContext("channel", "hue")
	case s < 0 || s > 100:
		return None, apperrors.Newf(apperrors.ErrCodeOutOfRange,
			"saturation %g out of range 0-100", s).WithContext("channel", "saturation")
	case v < 0 || v > 100:
		return None, apperrors.Newf(apperrors.ErrCodeOutOfRange,
			"value %g out of range 0-100", v).WithContext("channel", "value")
	}
	r, g, b := colorful.Hsv(h, s/100, v/100).Clamped().RGB255()
	return RGB(r, g, b), nil
}

// Parse accepts a color name ("red", "brightblue", "reset"), a palette index
// ("208") or a hex string ("#ff8800").
func Parse(s string) (Color, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	switch in {
	case "", "none":
		return None, nil
	case "reset", "default":
		return Reset, nil
	}
	for i, name := range namedColors {
		if in == name {
			return named(uint8(i)), nil
		}
	}
	if n, err := strconv.Atoi(in); err == nil {
		if n < 0 || n > 255 {
			return None, apperrors.Newf(apperrors.ErrCodeOutOfRange,
				"palette index %d out of range 0-255", n).WithContext("value", n)
		}
		return Indexed(uint8(n)), nil
	}
	return Hex(in)
}

// Gradient wraps a linear gradient as a color.
func Gradient(g *LinearGradient) Color {
	if g == nil {
		return None
	}
	return Color{kind: KindGradient, gradient: g}
}

// Kind returns the color variant.
func (c Color) Kind() ColorKind { return c.kind }

// IsSet reports whether the color overrides what is below it.
func (c Color) IsSet() bool { return c.kind != KindNone }

// Index returns the palette index for named and indexed colors.
func (c Color) Index() uint8 { return c.index }

// LinearGradient returns the gradient of a gradient color, or nil.
func (c Color) LinearGradient() *LinearGradient { return c.gradient }

// RGB resolves the color to 8-bit channels. Named and indexed colors use the
// xterm palette. Reset, None and gradients report ok=false.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	switch c.kind {
	case KindRGB:
		return c.r, c.g, c.b, true
	case KindNamed, KindIndexed:
		r, g, b = paletteRGB(c.index)
		return r, g, b, true
	}
	return 0, 0, 0, false
}

// Resolve returns the concrete color at a fractional position. Non-gradient
// colors are returned unchanged.
func (c Color) Resolve(at geometry.FractionalPosition) Color {
	if c.kind != KindGradient || c.gradient == nil {
		return c
	}
	return c.gradient.AtPosition(at)
}

// Equal compares two colors.
func (c Color) Equal(o Color) bool {
	return c == o
}

func (c Color) String() string {
	switch c.kind {
	case KindNone:
		return "none"
	case KindReset:
		return "reset"
	case KindNamed:
		return namedColors[c.index]
	case KindIndexed:
		return strconv.Itoa(int(c.index))
	case KindRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
	case KindGradient:
		return "gradient"
	}
	return "unknown"
}

// paletteRGB returns xterm's default values for a 256-color index.
func paletteRGB(i uint8) (uint8, uint8, uint8) {
	if i < 16 {
		p := ansi16[i]
		return p[0], p[1], p[2]
	}
	if i < 232 {
		n := int(i) - 16
		return cubeLevels[n/36], cubeLevels[(n/6)%6], cubeLevels[n%6]
	}
	v := uint8(8 + 10*(int(i)-232))
	return v, v, v
}

var ansi16 = [16][3]uint8{
	{0, 0, 0}, {128, 0, 0}, {0, 128, 0}, {128, 128, 0},
	{0, 0, 128}, {128, 0, 128}, {0, 128, 128}, {192, 192, 192},
	{128, 128, 128}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{0, 0, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

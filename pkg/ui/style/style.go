package style

import "github.com/odvcencio/cellgrid/pkg/ui/geometry"

// Style is a set of optional color overrides plus modifiers to add and remove.
// The zero Style changes nothing when patched onto another style.
type Style struct {
	Fg        Color
	Bg        Color
	Underline Color
	Add       Modifier
	Sub       Modifier
}

// New returns an empty style.
func New() Style {
	return Style{}
}

// ResetStyle returns a style that resets colors and removes every modifier.
func ResetStyle() Style {
	return Style{Fg: Reset, Bg: Reset, Underline: Reset, Sub: AllModifiers}
}

// Foreground returns a copy with the foreground color set.
func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

// Background returns a copy with the background color set.
func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

// UnderlineColor returns a copy with the underline color set.
func (s Style) UnderlineColor(c Color) Style {
	s.Underline = c
	return s
}

// AddModifier returns a copy that adds m.
func (s Style) AddModifier(m Modifier) Style {
	s.Sub &^= m
	s.Add |= m
	return s
}

// RemoveModifier returns a copy that removes m.
func (s Style) RemoveModifier(m Modifier) Style {
	s.Add &^= m
	s.Sub |= m
	return s
}

// Bold returns a copy that adds Bold.
func (s Style) Bold() Style { return s.AddModifier(Bold) }

// Italic returns a copy that adds Italic.
func (s Style) Italic() Style { return s.AddModifier(Italic) }

// Dim returns a copy that adds Dim.
func (s Style) Dim() Style { return s.AddModifier(Dim) }

// Underlined returns a copy that adds Underlined.
func (s Style) Underlined() Style { return s.AddModifier(Underlined) }

// Reversed returns a copy that adds Reversed.
func (s Style) Reversed() Style { return s.AddModifier(Reversed) }

// Patch composes other on top of s. Colors set in other win; other's
// removed modifiers clear s's added ones and vice versa.
func (s Style) Patch(other Style) Style {
	if other.Fg.IsSet() {
		s.Fg = other.Fg
	}
	if other.Bg.IsSet() {
		s.Bg = other.Bg
	}
	if other.Underline.IsSet() {
		s.Underline = other.Underline
	}
	s.Add = (s.Add &^ other.Sub) | other.Add
	s.Sub = (s.Sub &^ other.Add) | other.Sub
	return s
}

// HasGradient reports whether any color is a gradient.
func (s Style) HasGradient() bool {
	return s.Fg.kind == KindGradient || s.Bg.kind == KindGradient || s.Underline.kind == KindGradient
}

// Resolve replaces gradient colors with their value at a fractional position.
func (s Style) Resolve(at geometry.FractionalPosition) Style {
	if !s.HasGradient() {
		return s
	}
	s.Fg = s.Fg.Resolve(at)
	s.Bg = s.Bg.Resolve(at)
	s.Underline = s.Underline.Resolve(at)
	return s
}

// Equal compares two styles.
func (s Style) Equal(o Style) bool {
	return s == o
}

package backend

import (
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/style"
)

// Pen is the style the terminal is currently drawing with. Unset colors are
// stored as Reset so "inherit" and "default" compare equal.
type Pen struct {
	Fg        style.Color
	Bg        style.Color
	Underline style.Color
	Modifier  style.Modifier
}

// DefaultPen is the pen after ResetStyle.
func DefaultPen() Pen {
	return Pen{Fg: style.Reset, Bg: style.Reset, Underline: style.Reset}
}

// PenOf returns the pen that draws c.
func PenOf(c buffer.Cell) Pen {
	return Pen{
		Fg:        concrete(c.Fg),
		Bg:        concrete(c.Bg),
		Underline: concrete(c.Underline),
		Modifier:  c.Modifier,
	}
}

// Transition returns the actions that change the pen from p to next, or nil
// when they draw alike.
func (p Pen) Transition(next Pen) []Action {
	var out []Action

	removed := p.Modifier &^ next.Modifier
	added := next.Modifier &^ p.Modifier
	// Terminals clear bold and dim together.
	if removed&(style.Bold|style.Dim) != 0 {
		added |= next.Modifier & (style.Bold | style.Dim)
	}
	removed.Each(func(m style.Modifier) {
		out = append(out, UnsetModifier{Modifier: m})
	})
	added.Each(func(m style.Modifier) {
		out = append(out, SetModifier{Modifier: m})
	})

	if next.Fg != p.Fg {
		out = append(out, SetForeground{Color: next.Fg})
	}
	if next.Bg != p.Bg {
		out = append(out, SetBackground{Color: next.Bg})
	}
	if next.Underline != p.Underline {
		out = append(out, SetUnderlineColor{Color: next.Underline})
	}
	return out
}

// concrete maps colors a terminal cannot draw directly to Reset. Gradients
// are resolved before they reach a cell, so one here has no position.
func concrete(c style.Color) style.Color {
	if !c.IsSet() || c.Kind() == style.KindGradient {
		return style.Reset
	}
	return c
}

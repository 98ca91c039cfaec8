package widgets

import (
	"github.com/odvcencio/cellgrid/pkg/ui/layout"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
)

// Grid splits its area with a layout and renders one child per slot.
// Rendering fails when there are more children than constraints.
type Grid struct {
	Layout   layout.Layout
	Children []widget.Widget
}

// NewGrid creates a grid.
func NewGrid(l layout.Layout, children ...widget.Widget) Grid {
	return Grid{Layout: l, Children: children}
}

// Row lays children out left to right.
func Row(constraints []layout.Constraint, children ...widget.Widget) Grid {
	return NewGrid(layout.Row(constraints...), children...)
}

// Column lays children out top to bottom.
func Column(constraints []layout.Constraint, children ...widget.Widget) Grid {
	return NewGrid(layout.Column(constraints...), children...)
}

package geometry

// Margin is a four-sided padding amount.
type Margin struct {
	Top, Right, Bottom, Left int
}

// NewMargin creates a margin with per-side values, in CSS order.
func NewMargin(top, right, bottom, left int) Margin {
	return Margin{Top: top, Right: right, Bottom: bottom, Left: left}
}

// Uniform creates a margin with the same amount on every side.
func Uniform(n int) Margin {
	return Margin{Top: n, Right: n, Bottom: n, Left: n}
}

// Horizontal creates a margin applied to the left and right sides.
func Horizontal(n int) Margin {
	return Margin{Right: n, Left: n}
}

// Vertical creates a margin applied to the top and bottom sides.
func Vertical(n int) Margin {
	return Margin{Top: n, Bottom: n}
}

// Add returns the per-side sum of two margins.
func (m Margin) Add(o Margin) Margin {
	return Margin{
		Top:    m.Top + o.Top,
		Right:  m.Right + o.Right,
		Bottom: m.Bottom + o.Bottom,
		Left:   m.Left + o.Left,
	}
}

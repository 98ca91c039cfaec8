package style

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// GradientStop is a color anchored at a fraction of the gradient axis.
type GradientStop struct {
	Fraction float64
	Color    Color
}

// LinearGradient interpolates RGB colors along a rotated axis.
// Gradients are immutable: AddStop, WithOrigin and WithAngle return copies.
type LinearGradient struct {
	stops  []GradientStop
	origin geometry.FractionalPosition
	angle  float64
}

// NewLinearGradient starts a gradient with a stop at fraction 0.
func NewLinearGradient(start Color) *LinearGradient {
	return &LinearGradient{stops: []GradientStop{{Fraction: 0, Color: start}}}
}

// AddStop returns a copy with another stop. Fractions must lie in [0, 1].
func (g *LinearGradient) AddStop(fraction float64, c Color) (*LinearGradient, error) {
	if math.IsNaN(fraction) || fraction < 0 || fraction > 1 {
		return g, apperrors.Newf(apperrors.ErrCodeInvalidStop,
			"gradient stop %g outside [0, 1]", fraction).WithContext("fraction", fraction)
	}
	out := g.clone()
	i := sort.Search(len(out.stops), func(i int) bool { return out.stops[i].Fraction > fraction })
	out.stops = append(out.stops, GradientStop{})
	copy(out.stops[i+1:], out.stops[i:])
	out.stops[i] = GradientStop{Fraction: fraction, Color: c}
	return out, nil
}

// WithOrigin returns a copy whose axis starts at origin.
func (g *LinearGradient) WithOrigin(origin geometry.FractionalPosition) *LinearGradient {
	out := g.clone()
	out.origin = origin
	return out
}

// WithAngle returns a copy rotated by deg degrees. 0 runs left to right,
// 90 top to bottom.
func (g *LinearGradient) WithAngle(deg float64) *LinearGradient {
	out := g.clone()
	out.angle = deg
	return out
}

// Stops returns a copy of the gradient stops in ascending order.
func (g *LinearGradient) Stops() []GradientStop {
	return append([]GradientStop(nil), g.stops...)
}

// Origin returns the axis origin.
func (g *LinearGradient) Origin() geometry.FractionalPosition { return g.origin }

// Angle returns the rotation in degrees.
func (g *LinearGradient) Angle() float64 { return g.angle }

// At returns the color at a fraction of the axis. Fractions before the first
// stop or after the last clamp to the boundary stop.
func (g *LinearGradient) At(fraction float64) Color {
	if len(g.stops) == 0 {
		return None
	}
	first, last := g.stops[0], g.stops[len(g.stops)-1]
	if fraction <= first.Fraction {
		return solid(first.Color)
	}
	if fraction >= last.Fraction {
		return solid(last.Color)
	}
	for i := 0; i < len(g.stops)-1; i++ {
		a, b := g.stops[i], g.stops[i+1]
		if fraction < a.Fraction || fraction > b.Fraction {
			continue
		}
		span := b.Fraction - a.Fraction
		if span == 0 {
			return solid(b.Color)
		}
		return lerp(a.Color, b.Color, (fraction-a.Fraction)/span)
	}
	return solid(last.Color)
}

// AtPosition rotates a fractional position around the origin by the
// gradient angle and returns the color at its offset along the rotated axis.
// With angle 0 the fraction is the position's X for any origin.
func (g *LinearGradient) AtPosition(p geometry.FractionalPosition) Color {
	rad := g.angle * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	along := g.origin.X + (p.X-g.origin.X)*dx + (p.Y-g.origin.Y)*dy
	return g.At(along)
}

func (g *LinearGradient) clone() *LinearGradient {
	out := *g
	out.stops = append([]GradientStop(nil), g.stops...)
	return &out
}

// solid turns a stop color into a concrete RGB value.
func solid(c Color) Color {
	r, g, b, ok := c.RGB()
	if !ok {
		return c
	}
	return RGB(r, g, b)
}

func toColorful(c Color) colorful.Color {
	r, g, b, _ := c.RGB()
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// lerp interpolates each channel linearly.
func lerp(a, b Color, t float64) Color {
	r, g, bl := toColorful(a).BlendRgb(toColorful(b), t).Clamped().RGB255()
	return RGB(r, g, bl)
}

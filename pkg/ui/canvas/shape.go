package canvas

// Shape is anything a ShapePainter knows how to rasterize.
type Shape any

// SelfPainter is a shape that rasterizes itself.
type SelfPainter interface {
	Paint(p *Painter)
}

// ShapeFunc is a shape backed by a closure.
type ShapeFunc func(p *Painter)

// Paint calls f.
func (f ShapeFunc) Paint(p *Painter) {
	f(p)
}

// ShapePainter rasterizes the shapes it matches.
type ShapePainter interface {
	Matches(shape Shape) bool
	Paint(p *Painter, shape Shape)
}

type typedPainter[T any] struct {
	paint func(*Painter, T)
}

// PainterFor returns a ShapePainter for shapes of type T or non-nil *T.
func PainterFor[T any](paint func(*Painter, T)) ShapePainter {
	return typedPainter[T]{paint: paint}
}

func (t typedPainter[T]) Matches(shape Shape) bool {
	_, ok := asShape[T](shape)
	return ok
}

func (t typedPainter[T]) Paint(p *Painter, shape Shape) {
	if v, ok := asShape[T](shape); ok {
		t.paint(p, v)
	}
}

func asShape[T any](shape Shape) (T, bool) {
	switch v := shape.(type) {
	case T:
		return v, true
	case *T:
		if v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

// AggregateShapePainter tries its painters in registration order.
type AggregateShapePainter struct {
	painters []ShapePainter
}

// NewAggregateShapePainter creates an aggregate over painters.
func NewAggregateShapePainter(painters ...ShapePainter) *AggregateShapePainter {
	return &AggregateShapePainter{painters: painters}
}

// Add appends painters after the existing ones.
func (a *AggregateShapePainter) Add(painters ...ShapePainter) {
	a.painters = append(a.painters, painters...)
}

// Len returns the number of registered painters.
func (a *AggregateShapePainter) Len() int {
	return len(a.painters)
}

func (a *AggregateShapePainter) Matches(shape Shape) bool {
	if _, ok := shape.(SelfPainter); ok {
		return true
	}
	for _, p := range a.painters {
		if p.Matches(shape) {
			return true
		}
	}
	return false
}

func (a *AggregateShapePainter) Paint(p *Painter, shape Shape) {
	paintShape(a, p, shape)
}

func paintShape(sp ShapePainter, p *Painter, shape Shape) bool {
	if self, ok := shape.(SelfPainter); ok {
		self.Paint(p)
		return true
	}
	if agg, ok := sp.(*AggregateShapePainter); ok {
		for _, candidate := range agg.painters {
			if candidate.Matches(shape) {
				candidate.Paint(p, shape)
				return true
			}
		}
		return false
	}
	if sp.Matches(shape) {
		sp.Paint(p, shape)
		return true
	}
	return false
}

// DefaultShapePainters returns painters for every built-in shape. world may
// be nil, in which case Map shapes are not painted.
func DefaultShapePainters(world *WorldMap) []ShapePainter {
	painters := []ShapePainter{
		PainterFor(paintLine),
		PainterFor(paintRectangle),
		PainterFor(paintCircle),
		PainterFor(paintPoints),
		PainterFor(paintSprite),
	}
	if world != nil {
		painters = append(painters, MapPainter(world))
	}
	return painters
}

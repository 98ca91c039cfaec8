package widget

import (
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/canvas"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

// Extension contributes widget renderers and canvas shape painters as one
// bundle.
type Extension interface {
	Name() string
	WidgetRenderers() []Renderer
	ShapePainters() []canvas.ShapePainter
}

// Bundle is a static Extension.
type Bundle struct {
	ID        string
	Renderers []Renderer
	Painters  []canvas.ShapePainter
}

func (b Bundle) Name() string                         { return b.ID }
func (b Bundle) WidgetRenderers() []Renderer          { return b.Renderers }
func (b Bundle) ShapePainters() []canvas.ShapePainter { return b.Painters }

// Registry composes extensions into one renderer chain and one shape painter
// chain. Earlier extensions take precedence.
type Registry struct {
	names    []string
	renderer *AggregateRenderer
	shapes   *canvas.AggregateShapePainter
}

// NewRegistry creates a registry with extensions registered in order.
func NewRegistry(extensions ...Extension) *Registry {
	r := &Registry{
		renderer: NewAggregateRenderer(),
		shapes:   canvas.NewAggregateShapePainter(),
	}
	for _, ext := range extensions {
		r.Register(ext)
	}
	return r
}

// Register appends an extension's renderers and painters.
func (r *Registry) Register(ext Extension) {
	if ext == nil {
		return
	}
	r.names = append(r.names, ext.Name())
	r.renderer.Add(ext.WidgetRenderers()...)
	r.shapes.Add(ext.ShapePainters()...)
}

// Extensions returns the registered extension names in order.
func (r *Registry) Extensions() []string {
	return append([]string(nil), r.names...)
}

// Renderer returns the composed renderer chain.
func (r *Registry) Renderer() *AggregateRenderer {
	return r.renderer
}

// Shapes returns the composed shape painter chain.
func (r *Registry) Shapes() *canvas.AggregateShapePainter {
	return r.shapes
}

// Context returns a root render context over buf.
func (r *Registry) Context(buf *buffer.Buffer, area geometry.Area) RenderContext {
	return RenderContext{Renderer: r.renderer, Shapes: r.shapes, Buffer: buf, Area: area.Intersection(buf.Area())}
}

// Render draws w into area of buf.
func (r *Registry) Render(buf *buffer.Buffer, area geometry.Area, w Widget) error {
	return r.renderer.Render(r.Context(buf, area), w)
}

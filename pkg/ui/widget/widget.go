// Package widget defines the renderer chain that draws widget values into a
// buffer. Widgets are plain data; renderers recognize them by type and are
// tried in registration order until one matches.
package widget

import (
	"github.com/odvcencio/cellgrid/pkg/ui/buffer"
	"github.com/odvcencio/cellgrid/pkg/ui/canvas"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
)

//go:generate mockgen -source=widget.go -destination=mock_renderer_test.go -package=widget

// Widget is any value a Renderer knows how to draw.
type Widget any

// Renderer draws the widgets it matches.
type Renderer interface {
	Matches(w Widget) bool
	Render(ctx RenderContext, w Widget) error
}

// RenderContext is what a renderer draws with. Renderer is the root chain,
// used to render nested widgets. Buffer must not be retained after Render
// returns.
type RenderContext struct {
	Renderer Renderer
	Shapes   canvas.ShapePainter
	Buffer   *buffer.Buffer
	Area     geometry.Area
}

// Sub returns a context for a child area, clipped to the buffer.
func (c RenderContext) Sub(area geometry.Area) RenderContext {
	if c.Buffer != nil {
		area = area.Intersection(c.Buffer.Area())
	}
	c.Area = area
	return c
}

// Render draws w into area through the root chain.
func (c RenderContext) Render(w Widget, area geometry.Area) error {
	if c.Renderer == nil || w == nil {
		return nil
	}
	return c.Renderer.Render(c.Sub(area), w)
}

// AggregateRenderer dispatches to the first matching renderer. A widget that
// is itself a Renderer matching itself is rendered directly. Widgets nothing
// matches are skipped.
type AggregateRenderer struct {
	renderers []Renderer
}

// NewAggregateRenderer creates a chain over renderers.
func NewAggregateRenderer(renderers ...Renderer) *AggregateRenderer {
	return &AggregateRenderer{renderers: renderers}
}

// Add appends renderers to the end of the chain.
func (a *AggregateRenderer) Add(renderers ...Renderer) {
	a.renderers = append(a.renderers, renderers...)
}

// Len returns the number of renderers in the chain.
func (a *AggregateRenderer) Len() int {
	return len(a.renderers)
}

func (a *AggregateRenderer) Matches(w Widget) bool {
	return a.find(w) != nil
}

func (a *AggregateRenderer) Render(ctx RenderContext, w Widget) error {
	if ctx.Renderer == nil {
		ctx.Renderer = a
	}
	r := a.find(w)
	if r == nil {
		return nil
	}
	return r.Render(ctx, w)
}

func (a *AggregateRenderer) find(w Widget) Renderer {
	if w == nil {
		return nil
	}
	if self, ok := w.(Renderer); ok && self.Matches(w) {
		return self
	}
	for _, r := range a.renderers {
		if r.Matches(w) {
			return r
		}
	}
	return nil
}

// NullRenderer matches every widget and draws nothing.
type NullRenderer struct{}

func (NullRenderer) Matches(Widget) bool                { return true }
func (NullRenderer) Render(RenderContext, Widget) error { return nil }

type typedRenderer[T any] struct {
	render func(RenderContext, T) error
}

// For returns a renderer for widgets of type T or non-nil *T.
func For[T any](render func(ctx RenderContext, w T) error) Renderer {
	return typedRenderer[T]{render: render}
}

func (t typedRenderer[T]) Matches(w Widget) bool {
	_, ok := as[T](w)
	return ok
}

func (t typedRenderer[T]) Render(ctx RenderContext, w Widget) error {
	v, ok := as[T](w)
	if !ok {
		return nil
	}
	return t.render(ctx, v)
}

func as[T any](w Widget) (T, bool) {
	switch v := w.(type) {
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

// RenderFunc is a self-rendering widget backed by a closure.
type RenderFunc func(ctx RenderContext) error

func (f RenderFunc) Matches(w Widget) bool {
	_, ok := w.(RenderFunc)
	return ok && f != nil
}

func (f RenderFunc) Render(ctx RenderContext, _ Widget) error {
	return f(ctx)
}

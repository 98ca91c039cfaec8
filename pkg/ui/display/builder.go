package display

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/odvcencio/cellgrid/pkg/config"
	apperrors "github.com/odvcencio/cellgrid/pkg/errors"
	"github.com/odvcencio/cellgrid/pkg/logging"
	"github.com/odvcencio/cellgrid/pkg/telemetry"
	"github.com/odvcencio/cellgrid/pkg/ui/backend"
	"github.com/odvcencio/cellgrid/pkg/ui/geometry"
	"github.com/odvcencio/cellgrid/pkg/ui/widget"
	"github.com/odvcencio/cellgrid/pkg/ui/widgets"
)

// DefaultCursorQueryTimeout bounds cursor queries made without a deadline.
const DefaultCursorQueryTimeout = 2 * time.Second

// Builder configures a Display.
type Builder struct {
	backend    backend.Backend
	viewport   Viewport
	core       *widgets.CoreOptions
	extensions []widget.Extension

	logger  *logging.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
	hub     *telemetry.Hub

	queryTimeout time.Duration
	altScreen    bool
	rawMode      bool
	mouseCapture bool
	hideCursor   bool
}

// NewBuilder starts a fullscreen display over b with the core extension.
func NewBuilder(b backend.Backend) *Builder {
	return &Builder{
		backend:      b,
		viewport:     Fullscreen(),
		core:         &widgets.CoreOptions{},
		queryTimeout: DefaultCursorQueryTimeout,
	}
}

// WithViewport sets the viewport.
func (b *Builder) WithViewport(v Viewport) *Builder {
	b.viewport = v
	return b
}

// WithCoreOptions configures the core extension.
func (b *Builder) WithCoreOptions(opts widgets.CoreOptions) *Builder {
	b.core = &opts
	return b
}

// WithoutCore leaves the core extension out of the renderer chain.
func (b *Builder) WithoutCore() *Builder {
	b.core = nil
	return b
}

// WithExtension registers extensions after the core extension, in order.
func (b *Builder) WithExtension(exts ...widget.Extension) *Builder {
	b.extensions = append(b.extensions, exts...)
	return b
}

// WithLogger sets the logger. Nil discards.
func (b *Builder) WithLogger(l *logging.Logger) *Builder {
	b.logger = l
	return b
}

// WithMetrics sets the metrics sink. Nil disables metrics.
func (b *Builder) WithMetrics(m *telemetry.Metrics) *Builder {
	b.metrics = m
	return b
}

// WithTracer sets the tracer draws are traced with. Nil uses the global
// tracer provider.
func (b *Builder) WithTracer(t trace.Tracer) *Builder {
	b.tracer = t
	return b
}

// WithHub publishes display events to hub.
func (b *Builder) WithHub(hub *telemetry.Hub) *Builder {
	b.hub = hub
	return b
}

// WithCursorQueryTimeout bounds cursor queries whose context has no deadline.
func (b *Builder) WithCursorQueryTimeout(d time.Duration) *Builder {
	b.queryTimeout = d
	return b
}

// WithAlternateScreen switches to the alternate screen on Start.
func (b *Builder) WithAlternateScreen(on bool) *Builder {
	b.altScreen = on
	return b
}

// WithRawMode enables raw mode on Start.
func (b *Builder) WithRawMode(on bool) *Builder {
	b.rawMode = on
	return b
}

// WithMouseCapture enables mouse reporting on Start.
func (b *Builder) WithMouseCapture(on bool) *Builder {
	b.mouseCapture = on
	return b
}

// WithHiddenCursor hides the cursor while the display runs.
func (b *Builder) WithHiddenCursor(on bool) *Builder {
	b.hideCursor = on
	return b
}

// FromConfig applies the display section of cfg.
func (b *Builder) FromConfig(cfg *config.Config) *Builder {
	if cfg == nil {
		return b
	}
	d := cfg.Display
	switch d.Viewport {
	case config.ViewportInline:
		b.viewport = Inline(d.InlineHeight)
	case config.ViewportFixed:
		b.viewport = Fixed(geometry.Rect(d.Fixed.X, d.Fixed.Y, d.Fixed.Width, d.Fixed.Height))
	default:
		b.viewport = Fullscreen()
	}
	b.altScreen = d.AlternateScreen
	b.rawMode = d.RawMode
	b.mouseCapture = d.MouseCapture
	b.hideCursor = d.HideCursor
	if d.CursorQueryTimeout > 0 {
		b.queryTimeout = d.CursorQueryTimeout
	}
	return b
}

// Build creates the display. Inline viewports query the cursor position.
func (b *Builder) Build() (*Display, error) {
	return b.BuildContext(context.Background())
}

// BuildContext is Build with a context for the inline cursor query.
func (b *Builder) BuildContext(ctx context.Context) (*Display, error) {
	if b.backend == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "display needs a backend")
	}
	switch b.viewport.kind {
	case KindFixed:
		a := b.viewport.area
		if a.X < 0 || a.Y < 0 || a.Width < 0 || a.Height < 0 {
			return nil, apperrors.Newf(apperrors.ErrCodeInvalidGeometry, "invalid fixed viewport %s", a)
		}
	case KindInline:
		if b.viewport.height <= 0 {
			return nil, apperrors.Newf(apperrors.ErrCodeInvalidGeometry,
				"inline viewport height must be positive, got %d", b.viewport.height)
		}
	}

	registry := widget.NewRegistry()
	if b.core != nil {
		core, err := widgets.CoreExtension(*b.core)
		if err != nil {
			return nil, err
		}
		registry.Register(core)
	}
	for _, ext := range b.extensions {
		registry.Register(ext)
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Discard()
	}
	queryTimeout := b.queryTimeout
	if queryTimeout <= 0 {
		queryTimeout = DefaultCursorQueryTimeout
	}

	d := &Display{
		backend:      b.backend,
		registry:     registry,
		viewport:     b.viewport,
		logger:       logger.WithComponent("display"),
		metrics:      b.metrics,
		tracer:       b.tracer,
		hub:          b.hub,
		queryTimeout: queryTimeout,
		altScreen:    b.altScreen && b.viewport.kind != KindInline,
		rawMode:      b.rawMode,
		mouseCapture: b.mouseCapture,
		hideCursor:   b.hideCursor,
		shownCursor:  true,
	}
	for _, name := range registry.Extensions() {
		d.logger.ExtensionRegistered(name)
	}

	size, err := d.terminalSize()
	if err != nil {
		return nil, err
	}
	d.size = size

	var area geometry.Area
	switch b.viewport.kind {
	case KindFullscreen:
		area = size
	case KindFixed:
		area = b.viewport.area
	case KindInline:
		area, err = d.anchorInline(ctx, size)
		if err != nil {
			return nil, err
		}
	}
	d.setArea(area)
	return d, nil
}

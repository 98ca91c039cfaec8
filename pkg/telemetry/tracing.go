package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/odvcencio/cellgrid/pkg/ui/display"

// TracerProvider holds the OpenTelemetry tracer provider
type TracerProvider struct {
	provider *sdktrace.TracerProvider
}

// TracingOptions configures NewTracerProvider.
type TracingOptions struct {
	ServiceName string
	Version     string

	// Output receives exported spans. Nil writes to stdout.
	Output io.Writer

	// Synchronous exports each span as it ends instead of batching.
	Synchronous bool
	PrettyPrint bool
}

// NewTracerProvider creates a provider exporting spans as JSON.
func NewTracerProvider(opts TracingOptions) (*TracerProvider, error) {
	exporterOpts := []stdouttrace.Option{}
	if opts.Output != nil {
		exporterOpts = append(exporterOpts, stdouttrace.WithWriter(opts.Output))
	}
	if opts.PrettyPrint {
		exporterOpts = append(exporterOpts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "cellgrid"
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", opts.Version),
	)

	spanOpt := sdktrace.WithBatcher(exporter)
	if opts.Synchronous {
		spanOpt = sdktrace.WithSyncer(exporter)
	}
	provider := sdktrace.NewTracerProvider(
		spanOpt,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	return &TracerProvider{provider: provider}, nil
}

// Install makes the provider the global tracer provider.
func (tp *TracerProvider) Install() {
	otel.SetTracerProvider(tp.provider)
}

// Tracer returns the display tracer from this provider.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.provider.Tracer(tracerName)
}

// Shutdown flushes pending spans and stops the provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	return tp.provider.Shutdown(ctx)
}

// Tracer returns the display tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a span on tracer, falling back to the global tracer.
func StartSpan(ctx context.Context, tracer trace.Tracer, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = Tracer()
	}
	return tracer.Start(ctx, spanName, opts...)
}

// RecordError records an error on the span and marks it failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Common attribute keys for display tracing
var (
	AttrViewport     = attribute.Key("cellgrid.viewport")
	AttrFrame        = attribute.Key("cellgrid.frame")
	AttrAreaWidth    = attribute.Key("cellgrid.area.width")
	AttrAreaHeight   = attribute.Key("cellgrid.area.height")
	AttrUpdates      = attribute.Key("cellgrid.updates")
	AttrActions      = attribute.Key("cellgrid.actions")
	AttrInsertHeight = attribute.Key("cellgrid.insert.height")
)

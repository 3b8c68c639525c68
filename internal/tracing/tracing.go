// Package tracing installs the OpenTelemetry tracer provider that records
// the spans emitted by the orchestration layer.
package tracing

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	apperrors "github.com/agbru/digestagg/internal/errors"
)

// ServiceName identifies digestagg in exported spans.
const ServiceName = "digestagg"

// Setup installs a global tracer provider that writes every finished span
// to w as one JSON document. Spans are exported synchronously so nothing is
// lost when the process exits right after the run. The returned function
// flushes and shuts the provider down, and restores the previous provider.
func Setup(w io.Writer, version string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, apperrors.WrapError(err, "create span exporter")
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	)

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	return func(ctx context.Context) error {
		defer otel.SetTracerProvider(previous)
		return tp.Shutdown(ctx)
	}, nil
}

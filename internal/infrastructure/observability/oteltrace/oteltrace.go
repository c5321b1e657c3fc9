package oteltrace

import (
	"context"

	"github.com/mkwong/payflow/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type tracer struct{ t trace.Tracer }

// New returns a tracer backed by the global OTel provider. Exporting spans
// requires initializing an sdktrace.TracerProvider in the composition root.
func New(name string) observability.Tracer {
	if name == "" {
		name = "payflow"
	}
	return &tracer{t: otel.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}

package commands

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

var tracer = otel.Tracer("orderengine/commands")

func startSpan(ctx context.Context, name string, orderID kernel.UUID) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	if !orderID.IsZero() {
		span.SetAttributes(attribute.String("order.id", orderID.String()))
	}
	return ctx, span
}

// endSpan records err with its stable kind and closes the span.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.kind", string(errs.KindOf(err))))
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

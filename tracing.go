package pulse

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// traceOp 在 tracer 非空时为 fn 包一层 span
func traceOp(tracer trace.Tracer, name, event string, dir Direction, fn func() error) error {
	if tracer == nil {
		return fn()
	}

	_, span := tracer.Start(context.Background(), name,
		trace.WithAttributes(
			attribute.String("pulse.event", event),
			attribute.String("pulse.direction", string(dir)),
		),
	)
	defer span.End()

	err := fn()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/alexanderramin/tourdesk/internal/service"

type traceUseCaseObserver struct {
	tracer trace.Tracer
}

// NewTraceUseCaseObserver records each use case as a span named after it,
// back-dated to when the use case started.
func NewTraceUseCaseObserver(tp trace.TracerProvider) UseCaseObserver {
	if tp == nil {
		return NoopUseCaseObserver{}
	}
	return &traceUseCaseObserver{tracer: tp.Tracer(tracerName)}
}

func (o *traceUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	_, span := o.tracer.Start(ctx, event.Name,
		trace.WithTimestamp(event.StartedAt),
		trace.WithSpanKind(trace.SpanKindInternal))

	attrs := make([]attribute.KeyValue, 0, len(event.Fields)+1)
	attrs = append(attrs, attribute.Bool("use_case.success", event.Success))
	for k, v := range event.Fields {
		attrs = append(attrs, fieldAttribute("use_case."+k, v))
	}
	span.SetAttributes(attrs...)

	if event.Err != nil {
		span.RecordError(event.Err)
		span.SetStatus(codes.Error, event.Err.Error())
	}
	span.End(trace.WithTimestamp(event.StartedAt.Add(event.Duration)))
}

func fieldAttribute(key string, v any) attribute.KeyValue {
	switch v := v.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case time.Duration:
		return attribute.Int64(key, v.Milliseconds())
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}

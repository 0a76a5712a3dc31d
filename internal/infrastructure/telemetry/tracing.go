package telemetry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name used for application spans
const TracerName = "quotebook"

// Span attribute keys shared by the application services
const (
	AttrQuoteID       = "quote.id"
	AttrQuoteNumber   = "quote.number"
	AttrBookingID     = "booking.id"
	AttrBookingNumber = "booking.number"
	AttrCustomerID    = "customer.id"
	AttrServiceType   = "pricing.service_type"
	AttrRulesApplied  = "pricing.rules_applied"
	AttrFinalPrice    = "pricing.final_price"
)

// StartServiceSpan starts an internal span named {service}.{method}.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "submit")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, kv ...any) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(toAttributes(kv)...),
	)
}

// SetAttributes adds key/value pairs to span. Non-string keys are skipped.
func SetAttributes(span trace.Span, kv ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttributes(kv)...)
}

// RecordError records err on span and marks the span as failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func toAttributes(kv []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, kv[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
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
	case []string:
		return attribute.StringSlice(key, v)
	case decimal.Decimal:
		return attribute.String(key, v.StringFixed(2))
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}

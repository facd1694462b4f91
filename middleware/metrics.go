package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	sqsconsumer "github.com/lfreneda/sqs-consumer"
)

// Metrics records handler latency and outcomes using OpenTelemetry.
type Metrics struct {
	handlingLatency metric.Float64Histogram
	messagesHandled metric.Int64Counter
	queueAttribute  attribute.KeyValue
}

// NewMetrics creates the instruments on provider, or on the global provider when nil.
// queue is recorded as the "queue" attribute of every measurement.
func NewMetrics(provider metric.MeterProvider, queue string) (*Metrics, error) {
	if provider == nil {
		provider = otel.GetMeterProvider()
	}
	meter := provider.Meter(instrumentationName)

	latency, err := meter.Float64Histogram(
		"sqs_handler_duration_seconds",
		metric.WithDescription("Time taken by the handler to process a message"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sqs_handler_duration_seconds histogram: %w", err)
	}

	handled, err := meter.Int64Counter(
		"sqs_messages_handled_total",
		metric.WithDescription("Total number of messages handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sqs_messages_handled_total counter: %w", err)
	}

	return &Metrics{
		handlingLatency: latency,
		messagesHandled: handled,
		queueAttribute:  attribute.String("queue", queue),
	}, nil
}

// Handler wraps next, recording its duration and a "status" of success or error.
func (m *Metrics) Handler(next sqsconsumer.Handler) sqsconsumer.Handler {
	return func(ctx context.Context, msg types.Message) error {
		start := time.Now()
		err := next(ctx, msg)

		status := "success"
		if err != nil {
			status = "error"
		}
		attrs := metric.WithAttributes(m.queueAttribute, attribute.String("status", status))
		m.handlingLatency.Record(ctx, time.Since(start).Seconds(), attrs)
		m.messagesHandled.Add(ctx, 1, attrs)
		return err
	}
}

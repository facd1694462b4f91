package middleware

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	sqsconsumer "github.com/lfreneda/sqs-consumer"
)

const instrumentationName = "github.com/lfreneda/sqs-consumer/middleware"

// MessageAttributeValueCarrier adapts SQS message attributes to a
// propagation.TextMapCarrier. Only String and Number attributes are visible
// to Get and Keys.
type MessageAttributeValueCarrier struct {
	attrs map[string]types.MessageAttributeValue
}

var _ propagation.TextMapCarrier = (*MessageAttributeValueCarrier)(nil)

// NewMessageAttributeValueCarrier copies attrs, so injecting into the carrier
// never mutates a received message.
func NewMessageAttributeValueCarrier(attrs map[string]types.MessageAttributeValue) *MessageAttributeValueCarrier {
	c := &MessageAttributeValueCarrier{attrs: make(map[string]types.MessageAttributeValue, len(attrs))}
	for name, attr := range attrs {
		c.attrs[name] = attr
	}
	return c
}

func (c *MessageAttributeValueCarrier) Get(key string) string {
	attr, ok := c.attrs[key]
	if !ok || !textual(attr) {
		return ""
	}
	return aws.ToString(attr.StringValue)
}

func (c *MessageAttributeValueCarrier) Set(key, value string) {
	c.attrs[key] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

// Keys returns the textual attribute names in sorted order.
func (c *MessageAttributeValueCarrier) Keys() []string {
	keys := make([]string, 0, len(c.attrs))
	for name, attr := range c.attrs {
		if textual(attr) {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

// textual reports whether attr carries its value in StringValue. Custom
// types such as "String.traceparent" count as their base type.
func textual(attr types.MessageAttributeValue) bool {
	if attr.StringValue == nil {
		return false
	}
	base, _, _ := strings.Cut(aws.ToString(attr.DataType), ".")
	return base == "String" || base == "Number"
}

// Values returns the attributes, ready to be set on a SendMessageInput.
func (c *MessageAttributeValueCarrier) Values() map[string]types.MessageAttributeValue {
	return c.attrs
}

// ContextFromMessageAttributes assumes the MessageAttributeValueCarrier was used alongside the
// global propagator to inject a trace from the sender. The handler runs in a span parented by
// the sender's span and linked to the consumer's own span.
func ContextFromMessageAttributes(next sqsconsumer.Handler) sqsconsumer.Handler {
	return func(ctx context.Context, msg types.Message) error {
		local := trace.SpanContextFromContext(ctx)
		carrier := NewMessageAttributeValueCarrier(msg.MessageAttributes)
		ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

		var opts []trace.SpanStartOption
		if local.IsValid() {
			opts = append(opts, trace.WithLinks(trace.Link{SpanContext: local}))
		}
		opts = append(opts, trace.WithSpanKind(trace.SpanKindConsumer))
		ctx, span := otel.Tracer(instrumentationName).Start(ctx, "sqs.handle", opts...)
		defer span.End()
		span.AddEvent("received message")

		err := next(ctx, msg)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "error processing message")
		} else {
			span.SetStatus(codes.Ok, "successfully processed message")
		}

		span.AddEvent("finished processing")
		return err
	}
}

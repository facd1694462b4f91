package sqsconsumer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// process handles then deletes a single message. Delete is skipped when the
// handler fails.
func (c *Consumer) process(ctx context.Context, item workItem) {
	msg := item.msg
	ctx, span := c.tracer.Start(ctx, "sqsconsumer.process",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "aws_sqs"),
			attribute.String("messaging.message.id", aws.ToString(msg.MessageId)),
		),
	)
	defer span.End()

	c.emit(Event{Type: EventReceived, Message: &msg})

	if err := c.worker.run(ctx, item); err != nil {
		c.fail(span, &msg, fmt.Errorf("%w: %w", ErrHandler, err))
		return
	}
	span.AddEvent("handled")

	if err := c.deleteMessage(ctx, item); err != nil {
		c.fail(span, &msg, fmt.Errorf("%w: %w", ErrDelete, err))
		return
	}

	span.SetStatus(codes.Ok, "")
	c.emit(Event{Type: EventProcessed, Message: &msg})
}

func (c *Consumer) fail(span trace.Span, msg *types.Message, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.logger.Debug("failed to process message",
		zap.String("message_id", aws.ToString(msg.MessageId)),
		zap.Error(err),
	)
	c.emit(Event{Type: EventError, Message: msg, Err: err})
}

// deleteMessage acknowledges the delivery. The handler already succeeded, so
// the delete is not bound to the run's cancellation.
func (c *Consumer) deleteMessage(ctx context.Context, item workItem) error {
	c.logger.Debug("deleting message", zap.String("message_id", aws.ToString(item.msg.MessageId)))
	_, err := c.client.DeleteMessage(context.WithoutCancel(ctx), &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.config.QueueURL),
		ReceiptHandle: aws.String(item.ReceiptHandle),
	})
	return err
}

// Command sqs-consume logs and acknowledges every message of a queue.
//
// QUEUE_URL and AWS_REGION must be set. SQS_ENDPOINT points the client at a
// local stand-in, CONCURRENCY sets the number of concurrent handlers and
// LOG_LEVEL the zap level (default info).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	sqsconsumer "github.com/lfreneda/sqs-consumer"
	"github.com/lfreneda/sqs-consumer/middleware"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func run() error {
	level, err := zapcore.ParseLevel(getenv("LOG_LEVEL", "info"))
	if err != nil {
		return err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level.SetLevel(level)
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	concurrency, err := strconv.Atoi(getenv("CONCURRENCY", "1"))
	if err != nil {
		return fmt.Errorf("parsing CONCURRENCY: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	queueURL := os.Getenv("QUEUE_URL")
	metrics, err := middleware.NewMetrics(nil, queueURL)
	if err != nil {
		return err
	}

	handler := func(ctx context.Context, msg types.Message) error {
		logger.Info("message",
			zap.String("message_id", aws.ToString(msg.MessageId)),
			zap.String("body", aws.ToString(msg.Body)),
		)
		return nil
	}

	c, err := sqsconsumer.New(ctx, sqsconsumer.Config{
		QueueURL:    queueURL,
		Region:      os.Getenv("AWS_REGION"),
		Endpoint:    os.Getenv("SQS_ENDPOINT"),
		Concurrency: concurrency,
		Handler:     metrics.Handler(middleware.ContextFromMessageAttributes(handler)),
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	go func() {
		for ev := range c.Events() {
			if ev.Type == sqsconsumer.EventError {
				logger.Error("consumer error", zap.Error(ev.Err))
			}
		}
	}()

	logger.Info("consuming", zap.String("queue_url", queueURL), zap.Int("concurrency", concurrency))
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("consumer stopped")
	return nil
}

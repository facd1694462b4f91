package sqsconsumer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	ErrMissingQueueURL    = errors.New("sqsconsumer: missing queue url")
	ErrMissingRegion      = errors.New("sqsconsumer: missing region")
	ErrMissingHandler     = errors.New("sqsconsumer: missing handler")
	ErrInvalidConcurrency = errors.New("sqsconsumer: concurrency must be positive")

	ErrReceive              = errors.New("sqsconsumer: receive failed")
	ErrHandler              = errors.New("sqsconsumer: handler failed")
	ErrHandlerPanic         = errors.New("sqsconsumer: handler panicked")
	ErrDelete               = errors.New("sqsconsumer: delete failed")
	ErrMissingReceiptHandle = errors.New("sqsconsumer: message has no receipt handle")
)

// SQS refuses to return more than ten messages per receive.
const maxReceiveBatch = 10

const tracerName = "github.com/lfreneda/sqs-consumer"

// Handler processes a single message. Returning nil acknowledges the message,
// which deletes it from the queue. Returning an error leaves it on the queue
// for redelivery once its visibility timeout expires.
type Handler func(ctx context.Context, msg types.Message) error

// Config configures a Consumer. Start from ConfigDefaults and fill in
// QueueURL, Region and Handler.
type Config struct {
	// QueueURL is the URL of the queue to consume from.
	QueueURL string

	// Region is the AWS region of the queue.
	Region string

	// Endpoint overrides the SQS endpoint when Client is nil.
	Endpoint string

	// Handler is called once per received message.
	Handler Handler

	// Concurrency is the maximum number of messages handled at once.
	Concurrency int

	// Client is used instead of building one from Region and Endpoint.
	Client QueueClient

	// WaitTimeSeconds is the long-poll window of a receive. Max is 20 seconds.
	WaitTimeSeconds int32

	// VisibilityTimeout, when set, is requested on every receive and bounds
	// the handler's context.
	VisibilityTimeout int32

	// Backoff is applied between receive attempts after a receive error.
	Backoff BackoffConfig

	// EventBuffer is the capacity of the Events channel.
	EventBuffer int

	Logger         *zap.Logger
	TracerProvider trace.TracerProvider
	ReceiveOptions []func(*sqs.Options)
}

// ConfigDefaults returns a Config with every optional field set to its default.
func ConfigDefaults() Config {
	return Config{
		Concurrency:     1,
		WaitTimeSeconds: 20,
		Backoff:         DefaultBackoffConfig(),
		EventBuffer:     1024,
		Logger:          zap.NewNop(),
	}
}

func (c Config) validate() error {
	if c.QueueURL == "" {
		return ErrMissingQueueURL
	}
	if c.Region == "" {
		return ErrMissingRegion
	}
	if c.Handler == nil {
		return ErrMissingHandler
	}
	if c.Concurrency < 0 {
		return ErrInvalidConcurrency
	}
	return nil
}

// Consumer long-polls a queue and feeds the received messages to a bounded
// pool of handlers, deleting every message whose handler succeeded.
type Consumer struct {
	config Config
	client QueueClient
	pool   *workerPool
	worker worker
	events chan Event
	logger *zap.Logger
	tracer trace.Tracer

	mu    sync.Mutex
	stop  chan struct{} // nil while stopped
	rearm chan struct{} // re-arms the current run; nil while stopped

	// pollMu serialises receive cycles, so at most one receive is outstanding
	// even while an old run drains after a Stop/Start pair.
	pollMu sync.Mutex
	loops  sync.WaitGroup
}

// New validates config and builds a stopped consumer. ctx is only used to
// build the SQS client when config.Client is nil.
func New(ctx context.Context, config Config) (*Consumer, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	defaults := ConfigDefaults()
	if config.Concurrency == 0 {
		config.Concurrency = defaults.Concurrency
	}
	if config.WaitTimeSeconds <= 0 {
		config.WaitTimeSeconds = defaults.WaitTimeSeconds
	}
	if config.Backoff == (BackoffConfig{}) {
		config.Backoff = defaults.Backoff
	}
	if config.EventBuffer <= 0 {
		config.EventBuffer = defaults.EventBuffer
	}
	if config.Logger == nil {
		config.Logger = defaults.Logger
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	client := config.Client
	if client == nil {
		c, err := NewClient(ctx, config.Region, config.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("building sqs client: %w", err)
		}
		client = c
	}

	return &Consumer{
		config: config,
		client: client,
		pool:   newWorkerPool(config.Concurrency),
		worker: worker{f: config.Handler},
		events: make(chan Event, config.EventBuffer),
		logger: config.Logger.Named("sqs-consumer").With(zap.String("queue_url", config.QueueURL)),
		tracer: config.TracerProvider.Tracer(tracerName),
	}, nil
}

// Start begins polling in the background. It is a no-op while the consumer
// is already running. ctx bounds the receive, handler and delete calls of
// this run; cancelling it also stops the run.
func (c *Consumer) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return
	}

	c.logger.Debug("starting consumer")
	stop := make(chan struct{})
	rearm := make(chan struct{}, 1)
	c.stop, c.rearm = stop, rearm
	c.loops.Add(1)
	go c.loop(ctx, stop, rearm)
}

// Stop prevents new receive calls once the current poll cycle is over.
// Outstanding receives, handlers and deletes are left to complete.
func (c *Consumer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return
	}

	c.logger.Debug("stopping consumer")
	close(c.stop)
	c.stop, c.rearm = nil, nil
}

// Running reports whether the consumer has been started and not stopped.
func (c *Consumer) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// InFlight returns the number of admitted messages whose processing has not
// completed yet.
func (c *Consumer) InFlight() int {
	return c.pool.running()
}

// Wait blocks until every poll loop has exited and every admitted message has
// been processed. Call it after Stop.
func (c *Consumer) Wait() {
	c.loops.Wait()
	c.pool.wait()
}

// Run starts the consumer and blocks until ctx is done, then stops it and
// waits for in-flight messages.
func (c *Consumer) Run(ctx context.Context) error {
	c.Start(ctx)
	<-ctx.Done()
	c.Stop()
	c.Wait()
	return ctx.Err()
}

func (c *Consumer) loop(ctx context.Context, stop, rearm <-chan struct{}) {
	defer c.loops.Done()
	defer c.emit(Event{Type: EventStopped})

	retry := newBackOff(c.config.Backoff)
	pollNow := true
	for {
		if !pollNow {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-rearm:
			}
		}

		admitted, polled, err := c.poll(ctx, stop)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			wait := retry.NextBackOff()
			c.logger.Error("failed to receive messages", zap.Error(err), zap.Duration("retry_in", wait))
			c.emit(Event{Type: EventError, Err: err})
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
			pollNow = true
		case polled && admitted == 0:
			retry.Reset()
			pollNow = true
		default:
			// Completions of the admitted messages re-arm the loop.
			if polled {
				retry.Reset()
			}
			pollNow = false
		}
	}
}

// poll issues at most one receive sized to the free capacity and admits the
// returned messages. polled reports whether a receive was issued.
func (c *Consumer) poll(ctx context.Context, stop <-chan struct{}) (admitted int, polled bool, err error) {
	c.pollMu.Lock()
	defer c.pollMu.Unlock()

	select {
	case <-stop:
		return 0, false, nil
	default:
	}

	capacity := c.config.Concurrency - c.pool.running()
	if capacity <= 0 {
		return 0, false, nil
	}
	if capacity > maxReceiveBatch {
		capacity = maxReceiveBatch
	}

	c.logger.Debug("polling for messages", zap.Int("max_messages", capacity))
	out, err := c.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(c.config.QueueURL),
		MaxNumberOfMessages:   int32(capacity),
		WaitTimeSeconds:       c.config.WaitTimeSeconds,
		VisibilityTimeout:     c.config.VisibilityTimeout,
		AttributeNames:        []types.QueueAttributeName{types.QueueAttributeNameAll},
		MessageAttributeNames: []string{"All"},
	}, c.config.ReceiveOptions...)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %w", ErrReceive, err)
	}
	receiveTime := time.Now()

	if out == nil || len(out.Messages) == 0 {
		c.emit(Event{Type: EventEmpty})
		return 0, true, nil
	}

	c.logger.Debug("received messages", zap.Int("count", len(out.Messages)))
	for _, msg := range out.Messages {
		if c.admit(ctx, msg, receiveTime) {
			admitted++
		}
	}
	return admitted, true, nil
}

func (c *Consumer) admit(ctx context.Context, msg types.Message, receiveTime time.Time) bool {
	if msg.ReceiptHandle == nil {
		c.emit(Event{Type: EventError, Message: &msg, Err: ErrMissingReceiptHandle})
		return false
	}

	item := workItem{
		workItemMetadata: workItemMetadata{
			ReceiptHandle: *msg.ReceiptHandle,
			Deadline:      deadline(c.config.VisibilityTimeout, receiveTime),
		},
		msg: msg,
	}
	c.pool.submit(func() { c.process(ctx, item) }, c.poke)
	return true
}

// poke asks the running loop for another poll. Pending pokes coalesce.
// Completions from a previous run re-arm the run started after it.
func (c *Consumer) poke() {
	c.mu.Lock()
	rearm := c.rearm
	c.mu.Unlock()
	if rearm == nil {
		return
	}

	select {
	case rearm <- struct{}{}:
	default:
	}
}

/*
Package sqsconsumer contains an SQS consumer which long-polls a queue and hands every message to a provided Handler.

The main structure is the Consumer. It keeps a bounded pool of handlers busy: each poll asks for as many messages as there are free slots, and every finished message triggers the next poll. Messages whose handler returns nil are deleted from the queue, the others are left for redelivery once their visibility timeout expires.

# Basic Usage

	c, err := sqsconsumer.New(ctx, sqsconsumer.Config{
		QueueURL:    sqsQueueURL,
		Region:      "eu-west-1",
		Concurrency: 10,
		Handler: func(ctx context.Context, msg types.Message) error {
			if msg.Body == nil {
				// Delete bad messages from queue
				return nil
			}
			return process(ctx, *msg.Body)
		},
	})
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		for ev := range c.Events() {
			if ev.Type == sqsconsumer.EventError {
				log.Printf("received error from consumer, %v\n", ev.Err)
			}
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Run blocks until ctx is done, then waits for in-flight messages.
	_ = c.Run(ctx)
	log.Print("Consumer stopped, exiting")

# Events

Events are delivered on a buffered channel and never block the consumer; when the buffer is full they are dropped.
EventReceived precedes the handler call of every message, EventProcessed follows a successful delete, and EventError
carries receive, handler and delete failures, which can be told apart with errors.Is against ErrReceive, ErrHandler
and ErrDelete.

# Receive errors

A failed receive is reported and retried after an exponential backoff, see BackoffConfig.
*/
package sqsconsumer

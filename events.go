package sqsconsumer

import (
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

type EventType uint8

const (
	// EventReceived is emitted once per delivered message, before its handler runs.
	EventReceived EventType = iota
	// EventProcessed is emitted once the handler and the delete both succeeded.
	EventProcessed
	// EventError carries a receive, handler or delete failure.
	EventError
	// EventEmpty is emitted when a receive returned no messages.
	EventEmpty
	// EventStopped is emitted when the poll loop of a run exits.
	EventStopped
)

func (t EventType) String() string {
	switch t {
	case EventReceived:
		return "message_received"
	case EventProcessed:
		return "message_processed"
	case EventError:
		return "error"
	case EventEmpty:
		return "empty"
	case EventStopped:
		return "stopped"
	}
	return "unknown"
}

// Event is a notification about the consumer's activity. Message is nil for
// events that do not concern a single message.
type Event struct {
	Type    EventType
	Message *types.Message
	Err     error
}

// emit never blocks; events are dropped when nobody drains Events().
func (c *Consumer) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
		c.logger.Debug("event dropped, sink is full", zap.Stringer("event", ev.Type))
	}
}

// Events returns the notification channel. It is never closed.
func (c *Consumer) Events() <-chan Event {
	return c.events
}

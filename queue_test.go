package sqsconsumer_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
)

// fakeQueue is an in-memory queue. Every delivery gets a fresh receipt
// handle, and a delivery that is not deleted within visibility becomes
// visible again.
type fakeQueue struct {
	sync.Mutex
	pending    []types.Message
	inflight   map[string]types.Message
	deleted    []string
	requested  []int32
	visibility time.Duration
	emptyWait  time.Duration
}

func newFakeQueue(visibility time.Duration) *fakeQueue {
	return &fakeQueue{
		inflight:   map[string]types.Message{},
		visibility: visibility,
		emptyWait:  5 * time.Millisecond,
	}
}

func (q *fakeQueue) send(ids ...string) {
	q.Lock()
	defer q.Unlock()
	for _, id := range ids {
		q.pending = append(q.pending, types.Message{
			MessageId: aws.String(id),
			Body:      aws.String("body of " + id),
		})
	}
}

func (q *fakeQueue) deletedIDs() []string {
	q.Lock()
	defer q.Unlock()
	return append([]string(nil), q.deleted...)
}

func (q *fakeQueue) requests() []int32 {
	q.Lock()
	defer q.Unlock()
	return append([]int32(nil), q.requested...)
}

func (q *fakeQueue) redeliver(handle string) {
	q.Lock()
	defer q.Unlock()
	msg, found := q.inflight[handle]
	if !found {
		return
	}
	delete(q.inflight, handle)
	q.pending = append(q.pending, msg)
}

func (q *fakeQueue) ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	q.Lock()
	q.requested = append(q.requested, params.MaxNumberOfMessages)
	n := int(params.MaxNumberOfMessages)
	if n > len(q.pending) {
		n = len(q.pending)
	}
	batch := q.pending[:n:n]
	q.pending = q.pending[n:]

	messages := make([]types.Message, 0, len(batch))
	for _, msg := range batch {
		handle := uuid.NewString()
		msg.ReceiptHandle = aws.String(handle)
		q.inflight[handle] = msg
		messages = append(messages, msg)
		if q.visibility > 0 {
			time.AfterFunc(q.visibility, func() { q.redeliver(handle) })
		}
	}
	q.Unlock()

	if len(messages) == 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(q.emptyWait):
		}
	}
	return &sqs.ReceiveMessageOutput{Messages: messages}, nil
}

func (q *fakeQueue) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	q.Lock()
	defer q.Unlock()
	msg, found := q.inflight[*params.ReceiptHandle]
	if !found {
		return nil, errors.New("receipt handle is invalid")
	}
	delete(q.inflight, *params.ReceiptHandle)
	q.deleted = append(q.deleted, *msg.MessageId)
	return &sqs.DeleteMessageOutput{}, nil
}

package sqsconsumer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"golang.org/x/sync/errgroup"
)

type workItemMetadata struct {
	ReceiptHandle string
	Deadline      time.Time
}

type workItem struct {
	workItemMetadata

	msg types.Message
}

// deadline is the instant the message becomes visible again. A zero
// visibility timeout means the queue default applies, which is unknown here.
func deadline(visibilityTimeout int32, receiveTime time.Time) time.Time {
	if visibilityTimeout <= 0 {
		return time.Time{}
	}
	dur := time.Duration(visibilityTimeout) * time.Second
	return receiveTime.Add(dur)
}

type worker struct {
	f Handler
}

// run invokes the handler, bounding it by the item's deadline when known.
func (w worker) run(ctx context.Context, item workItem) (err error) {
	if !item.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, item.Deadline)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrHandlerPanic, r)
		}
	}()
	return w.f(ctx, item.msg)
}

// workerPool runs at most limit tasks at once and counts the tasks that were
// admitted but have not completed yet.
type workerPool struct {
	limit    int
	inflight atomic.Int64
	g        errgroup.Group
}

func newWorkerPool(limit int) *workerPool {
	p := &workerPool{limit: limit}
	p.g.SetLimit(limit)
	return p
}

// submit admits task and blocks while every slot is taken. done runs after
// the task has released its admission, so it observes the freed capacity.
func (p *workerPool) submit(task, done func()) {
	p.inflight.Add(1)
	p.g.Go(func() error {
		task()
		p.inflight.Add(-1)
		if done != nil {
			done()
		}
		return nil
	})
}

func (p *workerPool) running() int {
	return int(p.inflight.Load())
}

func (p *workerPool) wait() {
	_ = p.g.Wait()
}

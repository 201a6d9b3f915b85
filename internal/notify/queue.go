package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Queue is an in-process Dispatcher. Notify enqueues without blocking and
// Run fans each event out to the handlers; handler errors are logged only.
type Queue struct {
	events   chan Event
	handlers []Handler
	timeout  time.Duration
	logger   *zap.Logger
}

func NewQueue(size int, timeout time.Duration, logger *zap.Logger, handlers ...Handler) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		events:   make(chan Event, size),
		handlers: handlers,
		timeout:  timeout,
		logger:   logger,
	}
}

func (q *Queue) Notify(evt Event) {
	select {
	case q.events <- evt:
	default:
		q.logger.Warn("notification queue full, dropping event",
			zap.String("type", string(evt.Type)),
			zap.Stringer("company_id", evt.CompanyID),
		)
	}
}

// Run delivers events until ctx is cancelled, then drains what is buffered.
func (q *Queue) Run(ctx context.Context) {
	for {
		select {
		case evt := <-q.events:
			q.deliver(ctx, evt)
		case <-ctx.Done():
			q.drain()
			return
		}
	}
}

func (q *Queue) drain() {
	for {
		select {
		case evt := <-q.events:
			q.deliver(context.Background(), evt)
		default:
			return
		}
	}
}

func (q *Queue) deliver(ctx context.Context, evt Event) {
	for _, h := range q.handlers {
		hctx, cancel := context.WithTimeout(ctx, q.timeout)
		if err := h.Handle(hctx, evt); err != nil {
			q.logger.Error("notification handler failed",
				zap.String("type", string(evt.Type)),
				zap.Stringer("company_id", evt.CompanyID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port"
	"go.uber.org/zap"
)

var ErrQueueClosed = errors.New("event queue closed")

// Queue hands inbound events to a fixed pool of workers. Each event runs to
// completion on a context that is detached from the caller.
type Queue struct {
	logger  *zap.Logger
	handler port.EventHandler
	events  chan domain.Event

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(handler port.EventHandler, size int, log *zap.Logger) (*Queue, error) {
	if handler == nil {
		return nil, errors.New("worker: event handler is required")
	}
	if size < 1 {
		size = 1
	}
	return &Queue{
		logger:  log,
		handler: handler,
		events:  make(chan domain.Event, size),
	}, nil
}

// Start launches workers goroutines. ctx only carries values into handlers.
func (q *Queue) Start(ctx context.Context, workers int) {
	if workers < 1 {
		workers = 1
	}
	base := context.WithoutCancel(ctx)
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go func(id int) {
			defer q.wg.Done()
			log := q.logger.With(zap.Int("worker", id))
			for ev := range q.events {
				q.process(base, log, ev)
			}
			log.Debug("Finished worker")
		}(i)
	}
}

func (q *Queue) process(ctx context.Context, log *zap.Logger, ev domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Event handler panicked", zap.Any("panic", r), zap.Int64("user", ev.UserID))
		}
	}()

	log.Debug("Start processing event",
		zap.String("kind", string(ev.Kind)), zap.Int64("user", ev.UserID))
	if err := q.handler.HandleEvent(ctx, ev); err != nil {
		log.Warn("Event finished with error",
			zap.String("kind", string(ev.Kind)), zap.Int64("user", ev.UserID), zap.Error(err))
		return
	}
	log.Debug("Finished processing event", zap.Int64("user", ev.UserID))
}

// ScheduleEvent queues ev, blocking while the queue is full until ctx is done.
func (q *Queue) ScheduleEvent(ctx context.Context, ev domain.Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- ev:
		return nil
	case <-ctx.Done():
		q.logger.Warn("Event dropped", zap.Int64("user", ev.UserID), zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// Close stops accepting events and waits until queued ones are handled.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.events)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

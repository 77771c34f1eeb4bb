package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/cashhealer/internal/adapter/worker"
	"github.com/MikeRez0/cashhealer/internal/core/domain"
	"github.com/MikeRez0/cashhealer/internal/core/port/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQueue_HandlesAllEvents(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	handler := mock.NewMockEventHandler(mockCtrl)

	var mu sync.Mutex
	seen := map[int64]bool{}
	handler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ev domain.Event) error {
			mu.Lock()
			seen[ev.UserID] = true
			mu.Unlock()
			if ev.UserID == 3 {
				return errors.New("boom")
			}
			if ev.UserID == 4 {
				panic("handler bug")
			}
			return nil
		}).Times(10)

	q, err := worker.NewQueue(handler, 4, zap.NewNop())
	require.NoError(t, err)
	q.Start(context.Background(), 3)

	for i := 0; i < 10; i++ {
		require.NoError(t, q.ScheduleEvent(context.Background(), domain.Event{UserID: int64(i)}))
	}
	q.Close()

	assert.Len(t, seen, 10)
	assert.ErrorIs(t, q.ScheduleEvent(context.Background(), domain.Event{}), worker.ErrQueueClosed)
}

func TestQueue_ScheduleRespectsContext(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	handler := mock.NewMockEventHandler(mockCtrl)

	q, err := worker.NewQueue(handler, 1, zap.NewNop())
	require.NoError(t, err)

	// no workers: the second event cannot be queued
	require.NoError(t, q.ScheduleEvent(context.Background(), domain.Event{UserID: 1}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.ScheduleEvent(ctx, domain.Event{UserID: 2}), context.DeadlineExceeded)

	handler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).Return(nil)
	q.Start(context.Background(), 1)
	q.Close()
}

func TestQueue_HandlerContextOutlivesCaller(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	handler := mock.NewMockEventHandler(mockCtrl)

	ctx, cancel := context.WithCancel(context.Background())
	handler.EXPECT().HandleEvent(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ domain.Event) error {
			assert.NoError(t, ctx.Err())
			return nil
		})

	q, err := worker.NewQueue(handler, 1, zap.NewNop())
	require.NoError(t, err)
	q.Start(ctx, 1)
	cancel()
	require.NoError(t, q.ScheduleEvent(context.Background(), domain.Event{UserID: 1}))
	q.Close()
}

func TestNewQueue_RequiresHandler(t *testing.T) {
	_, err := worker.NewQueue(nil, 1, zap.NewNop())
	assert.Error(t, err)
}

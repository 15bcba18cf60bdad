package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/umber-analytics/umber/internal/model"
	"github.com/umber-analytics/umber/internal/repository/mock"
)

func event(n int) model.Event {
	return model.Event{SiteID: "site", Event: fmt.Sprintf("/page-%d", n)}
}

// awaitBatch receives one flushed batch from ch or fails the test.
func awaitBatch(t *testing.T, ch <-chan []model.Event) []model.Event {
	t.Helper()
	select {
	case batch := <-ch:
		return batch
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a flush")
		return nil
	}
}

func TestQueue_SizeTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := make(chan []model.Event, 1)
	writer := mock.NewMockBatchWriter(ctrl)
	writer.EXPECT().
		InsertEvents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events []model.Event) error {
			batches <- events
			return nil
		})

	// Interval far away so only the size trigger can fire.
	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 3, FlushInterval: time.Hour})
	q.Start(context.Background())
	defer q.Close(context.Background())

	for i := 0; i < 3; i++ {
		require.True(t, q.Enqueue(event(i)))
	}

	batch := awaitBatch(t, batches)
	assert.Len(t, batch, 3)
	assert.Equal(t, 0, q.Len(), "buffer should be empty after a flush")
}

func TestQueue_UnderThresholdNotFlushed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No expectations: any InsertEvents call fails the test.
	writer := mock.NewMockBatchWriter(ctrl)

	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 15, FlushInterval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	for i := 0; i < 14; i++ {
		require.True(t, q.Enqueue(event(i)))
	}

	// Give the consumer time to drain the channel into the buffer.
	assert.Eventually(t, func() bool { return q.Len() == 14 }, 2*time.Second, 10*time.Millisecond)
}

func TestQueue_TimeTrigger(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := make(chan []model.Event, 5)
	writer := mock.NewMockBatchWriter(ctrl)
	writer.EXPECT().
		InsertEvents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events []model.Event) error {
			batches <- events
			return nil
		}).
		MinTimes(1)

	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 15, FlushInterval: 50 * time.Millisecond})
	q.Start(context.Background())
	defer q.Close(context.Background())

	for i := 0; i < 5; i++ {
		require.True(t, q.Enqueue(event(i)))
	}

	// All 5 stay under the size threshold, so only ticks flush them. A tick
	// can land mid-enqueue and split the events across two flushes.
	total := 0
	for total < 5 {
		total += len(awaitBatch(t, batches))
	}
	assert.Equal(t, 5, total, "time trigger should flush everything buffered")
}

func TestQueue_PreservesEnqueueOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := make(chan []model.Event, 1)
	writer := mock.NewMockBatchWriter(ctrl)
	writer.EXPECT().
		InsertEvents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events []model.Event) error {
			batches <- events
			return nil
		})

	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 4, FlushInterval: time.Hour})
	q.Start(context.Background())
	defer q.Close(context.Background())

	for i := 0; i < 4; i++ {
		require.True(t, q.Enqueue(event(i)))
	}

	batch := awaitBatch(t, batches)
	require.Len(t, batch, 4)
	for i, ev := range batch {
		assert.Equal(t, fmt.Sprintf("/page-%d", i), ev.Event)
	}
}

func TestQueue_WriterErrorDiscardsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := make(chan []model.Event, 1)
	writer := mock.NewMockBatchWriter(ctrl)
	gomock.InOrder(
		writer.EXPECT().
			InsertEvents(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, events []model.Event) error {
				batches <- events
				return errors.New("clickhouse down")
			}),
		writer.EXPECT().
			InsertEvents(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, events []model.Event) error {
				batches <- events
				return nil
			}),
	)

	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 2, FlushInterval: time.Hour})
	q.Start(context.Background())
	defer q.Close(context.Background())

	require.True(t, q.Enqueue(event(0)))
	require.True(t, q.Enqueue(event(1)))
	first := awaitBatch(t, batches)
	assert.Len(t, first, 2)

	// The failed batch is gone; the next flush carries only new events.
	require.True(t, q.Enqueue(event(2)))
	require.True(t, q.Enqueue(event(3)))
	second := awaitBatch(t, batches)
	require.Len(t, second, 2)
	assert.Equal(t, "/page-2", second[0].Event)
	assert.Equal(t, "/page-3", second[1].Event)
}

func TestQueue_CloseDrainsBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	batches := make(chan []model.Event, 1)
	writer := mock.NewMockBatchWriter(ctrl)
	writer.EXPECT().
		InsertEvents(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, events []model.Event) error {
			batches <- events
			return nil
		})

	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 15, FlushInterval: time.Hour})
	q.Start(context.Background())

	require.True(t, q.Enqueue(event(0)))
	require.True(t, q.Enqueue(event(1)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Close(ctx))

	batch := awaitBatch(t, batches)
	assert.Len(t, batch, 2)
}

func TestQueue_EnqueueAfterCloseRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := mock.NewMockBatchWriter(ctrl)
	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 15, FlushInterval: time.Hour})
	q.Start(context.Background())

	require.NoError(t, q.Close(context.Background()))
	assert.False(t, q.Enqueue(event(0)))
}

func TestQueue_DropNewestWhenFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := mock.NewMockBatchWriter(ctrl)
	// Consumer never started: the channel fills up at its configured depth.
	q := New(writer, zaptest.NewLogger(t), Config{BatchSize: 15, FlushInterval: time.Hour, Depth: 2})

	assert.True(t, q.Enqueue(event(0)))
	assert.True(t, q.Enqueue(event(1)))
	assert.False(t, q.Enqueue(event(2)), "a full intake channel drops the newest event")
}

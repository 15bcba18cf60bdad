// Package queue stages enriched events in memory and flushes them to the
// columnar writer in batches.
//
// Two triggers are active at once: a size threshold (flush as soon as the
// buffer reaches BatchSize) and a repeating interval (flush whatever is
// buffered at each tick). Whichever fires first wins; the interval keeps
// running and does not reset after a size-triggered flush.
//
// Delivery is at-most-once: a writer error discards the whole batch, and a
// crash between enqueue and flush loses the buffered events. The beacon
// transport cannot observe delivery either way.
package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/umber-analytics/umber/internal/model"
	"github.com/umber-analytics/umber/internal/repository"
)

const (
	// DefaultBatchSize is the buffer length that triggers an immediate flush.
	DefaultBatchSize = 15
	// DefaultFlushInterval is the period of the time trigger.
	DefaultFlushInterval = 10 * time.Second
	// DefaultDepth bounds the intake channel. When the consumer stalls and
	// the channel fills, further enqueues are dropped (drop-newest) instead
	// of accumulating goroutines without bound.
	DefaultDepth = 1024
)

// Config tunes the queue. Zero values fall back to the defaults above.
type Config struct {
	BatchSize     int
	FlushInterval time.Duration
	Depth         int
}

// Queue is the bounded staging buffer between the ingest handler and the
// columnar writer. Exactly one consumer goroutine drains the intake channel
// and owns flush scheduling.
type Queue struct {
	writer repository.BatchWriter
	logger *zap.Logger
	cfg    Config

	intake chan model.Event
	done   chan struct{}
	closed atomic.Bool

	mu  sync.RWMutex
	buf []model.Event

	enqueued metric.Int64Counter
	dropped  metric.Int64Counter
	flushed  metric.Int64Counter
}

// New builds a Queue in front of the given writer. Start must be called
// before events flow.
func New(writer repository.BatchWriter, logger *zap.Logger, cfg Config) *Queue {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlushInterval
	}
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultDepth
	}

	q := &Queue{
		writer: writer,
		logger: logger,
		cfg:    cfg,
		intake: make(chan model.Event, cfg.Depth),
		done:   make(chan struct{}),
	}

	meter := otel.Meter("ingest-queue")
	q.enqueued, _ = meter.Int64Counter("ingest.queue.enqueued",
		metric.WithDescription("Events accepted into the intake channel"))
	q.dropped, _ = meter.Int64Counter("ingest.queue.dropped",
		metric.WithDescription("Events dropped because the intake channel was full"))
	q.flushed, _ = meter.Int64Counter("ingest.queue.flushed_rows",
		metric.WithDescription("Event rows flushed to the columnar writer"))

	return q
}

// Start launches the consumer goroutine and returns immediately.
func (q *Queue) Start(ctx context.Context) {
	go q.run(ctx)
}

// Enqueue offers an event to the intake channel without blocking. It
// reports whether the event was accepted; a full channel or a closed queue
// drops the event (drop-newest) and bumps the drop counter.
func (q *Queue) Enqueue(ev model.Event) bool {
	if q.closed.Load() {
		return false
	}

	select {
	case q.intake <- ev:
		q.enqueued.Add(context.Background(), 1)
		return true
	default:
		q.dropped.Add(context.Background(), 1)
		q.logger.Warn("intake channel full, dropping event", zap.String("site_id", ev.SiteID))
		return false
	}
}

// Close stops intake, waits for the consumer to drain and flush the
// remaining events, and returns once the final flush completed or ctx
// expired.
func (q *Queue) Close(ctx context.Context) error {
	if q.closed.CompareAndSwap(false, true) {
		close(q.intake)
	}

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Len reports the current buffer length under a read lock.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.buf)
}

func (q *Queue) run(ctx context.Context) {
	ticker := time.NewTicker(q.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-q.intake:
			if !ok {
				// Intake closed: final drain. Detached from ctx so the
				// shutdown flush is not cancelled mid-send.
				q.flush(context.Background())
				close(q.done)
				return
			}

			q.mu.Lock()
			q.buf = append(q.buf, ev)
			count := len(q.buf)
			q.mu.Unlock()

			if count >= q.cfg.BatchSize {
				q.flush(ctx)
			}

		case <-ticker.C:
			q.mu.RLock()
			count := len(q.buf)
			q.mu.RUnlock()

			if count > 0 {
				q.flush(ctx)
			}
		}
	}
}

// flush moves the buffer out under the write lock, releases the lock, then
// submits the moved-out batch. A writer error discards the batch; the
// drained events are not restored.
func (q *Queue) flush(ctx context.Context) {
	q.mu.Lock()
	if len(q.buf) == 0 {
		q.mu.Unlock()
		return
	}
	batch := q.buf
	q.buf = nil
	q.mu.Unlock()

	if err := q.writer.InsertEvents(ctx, batch); err != nil {
		q.logger.Error("batch insert failed, discarding batch",
			zap.Int("events", len(batch)),
			zap.Error(err),
		)
		return
	}

	q.flushed.Add(ctx, int64(len(batch)))
	q.logger.Debug("batch flushed", zap.Int("events", len(batch)))
}

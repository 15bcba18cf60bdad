// Package maintenance runs scheduled housekeeping against the event store.
//
// The events table is a MergeTree: inserts create small sorted parts that
// ClickHouse merges in the background. A daily forced merge keeps the part
// count low on quiet sites where background merges rarely trigger.
package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// optimizeTimeout bounds one forced merge. OPTIMIZE FINAL can take a while
// on large partitions; it never runs on the request path.
const optimizeTimeout = 5 * time.Minute

// Optimizer is the slice of the event store the scheduler needs.
type Optimizer interface {
	Optimize(ctx context.Context) error
}

// Scheduler wraps robfig/cron around the store's Optimize operation.
type Scheduler struct {
	cron   *cron.Cron
	store  Optimizer
	logger *zap.Logger
}

// New constructs a Scheduler. Start registers the job and begins ticking.
func New(store Optimizer, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		logger: logger,
	}
}

// Start registers the daily optimize job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@daily", s.optimize); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("maintenance scheduler started", zap.String("schedule", "@daily"))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("maintenance scheduler stopped")
}

func (s *Scheduler) optimize() {
	ctx, cancel := context.WithTimeout(context.Background(), optimizeTimeout)
	defer cancel()

	started := time.Now()
	if err := s.store.Optimize(ctx); err != nil {
		s.logger.Error("scheduled optimize failed", zap.Error(err))
		return
	}
	s.logger.Info("events table optimized", zap.Duration("took", time.Since(started)))
}

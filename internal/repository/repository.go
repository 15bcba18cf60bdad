// Package repository defines the storage contract of the event pipeline.
package repository

import (
	"context"

	"github.com/umber-analytics/umber/internal/model"
)

//go:generate mockgen -source=repository.go -destination=mock/store_mock.go -package=mock

// EventStore is the columnar event store: an append-only events table plus
// the aggregate queries served over it.
type EventStore interface {
	// EnsureSchema idempotently creates the events table. Invoked at boot.
	EnsureSchema(ctx context.Context) error
	// InsertEvents writes a batch atomically: all rows become visible or
	// none do. The day bucket and row timestamp are assigned here, at
	// insertion time.
	InsertEvents(ctx context.Context, events []model.Event) error
	// PageViews returns per-(day, page-path) counts for a site and
	// occured_at range.
	PageViews(ctx context.Context, req model.StatsRequest) ([]model.Metric, error)
	// UniqueVisitors returns per-(day, visitor, page-path) counts for a
	// site and occured_at range. Collapsing to a per-day distinct count is
	// the caller's concern.
	UniqueVisitors(ctx context.Context, req model.StatsRequest) ([]model.Metric, error)
	// Optimize compacts the table's sorted runs. Scheduled, not latency
	// sensitive.
	Optimize(ctx context.Context) error
	// Close releases the underlying connection.
	Close() error
}

// BatchWriter is the slice of EventStore the batching queue needs.
type BatchWriter interface {
	InsertEvents(ctx context.Context, events []model.Event) error
}

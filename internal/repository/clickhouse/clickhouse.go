// Package clickhouse implements the event store on ClickHouse: an
// append-only MergeTree table ordered by (site_id, occured_at), written in
// prepared batches and queried with day-bucket aggregates.
package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/umber-analytics/umber/internal/model"
)

// schemaDDL creates the events table. The ORDER BY key is the physical
// sort order; every range query must carry a site_id prefix predicate to
// exploit it. timestamp is server-assigned at row insertion.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS events (
	site_id String NOT NULL,
	occured_at UInt32 NOT NULL,
	type String NOT NULL,
	user_id String NOT NULL,
	event String NOT NULL,
	category String NOT NULL,
	referrer String NOT NULL,
	referrer_domain String NOT NULL,
	is_touch BOOLEAN NOT NULL,
	browser_name String NOT NULL,
	os_name String NOT NULL,
	device_type String NOT NULL,
	country String NOT NULL,
	region String NOT NULL,
	timestamp DateTime DEFAULT now()
)
ENGINE MergeTree
ORDER BY (site_id, occured_at);
`

const insertStmt = `INSERT INTO events (
	site_id, occured_at, type, user_id, event, category, referrer, referrer_domain, is_touch, browser_name, os_name, device_type, country, region
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
);`

const pageViewsQuery = `
SELECT occured_at, event, COUNT(*)
FROM events
WHERE site_id = $1 AND occured_at BETWEEN $2 AND $3
GROUP BY occured_at, event;
`

const uniqueVisitorsQuery = `
SELECT occured_at, user_id, COUNT(*)
FROM events
WHERE site_id = $1 AND occured_at BETWEEN $2 AND $3
GROUP BY occured_at, user_id, event;
`

// Options carries the connection parameters for the analytics database.
type Options struct {
	Host     string
	Port     uint16
	Database string
	Username string
	Password string
}

// Store is the ClickHouse-backed EventStore implementation. The underlying
// connection is safe for concurrent batch preparation and queries.
type Store struct {
	conn clickhouse.Conn
}

// Open connects to ClickHouse and verifies the connection with a ping.
func Open(ctx context.Context, opts Options) (*Store, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", opts.Host, opts.Port)},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening clickhouse connection: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging clickhouse: %w", err)
	}
	return &Store{conn: conn}, nil
}

// EnsureSchema creates the events table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}
	return nil
}

// InsertEvents appends one bound row per event to a prepared batch and
// sends it as a single operation. occured_at is the UTC day bucket of the
// insertion instant, so it is monotone non-decreasing within a process.
func (s *Store) InsertEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, insertStmt)
	if err != nil {
		return fmt.Errorf("preparing event batch: %w", err)
	}

	day := DayBucket(time.Now())
	for _, ev := range events {
		err := batch.Append(
			ev.SiteID,
			day,
			ev.Type,
			ev.UserID,
			ev.Event,
			ev.Category,
			ev.Referrer,
			ev.ReferrerDomain,
			ev.IsTouch,
			ev.BrowserName,
			ev.OSName,
			ev.DeviceType,
			ev.Country,
			ev.Region,
		)
		if err != nil {
			return fmt.Errorf("appending event row: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("sending event batch: %w", err)
	}
	return nil
}

// PageViews counts rows per (occured_at, event) for one site.
func (s *Store) PageViews(ctx context.Context, req model.StatsRequest) ([]model.Metric, error) {
	return s.aggregate(ctx, pageViewsQuery, req)
}

// UniqueVisitors counts rows per (occured_at, user_id, event) for one site.
// An empty user_id groups all unidentified visitors into a single bucket.
func (s *Store) UniqueVisitors(ctx context.Context, req model.StatsRequest) ([]model.Metric, error) {
	return s.aggregate(ctx, uniqueVisitorsQuery, req)
}

func (s *Store) aggregate(ctx context.Context, query string, req model.StatsRequest) ([]model.Metric, error) {
	rows, err := s.conn.Query(ctx, query, req.SiteID, req.Start, req.End)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var metrics []model.Metric
	for rows.Next() {
		var m model.Metric
		if err := rows.Scan(&m.OccuredAt, &m.Value, &m.Count); err != nil {
			return nil, fmt.Errorf("scanning metric row: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Optimize forces a merge of the table's parts. Run from the maintenance
// scheduler, never on the request path.
func (s *Store) Optimize(ctx context.Context) error {
	if err := s.conn.Exec(ctx, "OPTIMIZE TABLE events FINAL;"); err != nil {
		return fmt.Errorf("optimizing events table: %w", err)
	}
	return nil
}

// Close closes the ClickHouse connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// DayBucket encodes the UTC year/month/day of t as YYYYMMDD.
func DayBucket(t time.Time) uint32 {
	y, m, d := t.UTC().Date()
	return uint32(y*10000 + int(m)*100 + d)
}

package clickhouse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayBucket(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want uint32
	}{
		{
			name: "plain date",
			in:   time.Date(2026, time.August, 24, 15, 4, 5, 0, time.UTC),
			want: 20260824,
		},
		{
			name: "single digit month and day pad to zero",
			in:   time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
			want: 20260102,
		},
		{
			name: "non-UTC time converts to UTC first",
			in:   time.Date(2026, time.August, 25, 1, 0, 0, 0, time.FixedZone("UTC+9", 9*3600)),
			want: 20260824,
		},
		{
			name: "midnight boundary stays on its day",
			in:   time.Date(2026, time.December, 31, 23, 59, 59, 0, time.UTC),
			want: 20261231,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayBucket(tt.in))
		})
	}
}

func TestDayBucket_Monotone(t *testing.T) {
	earlier := DayBucket(time.Now())
	later := DayBucket(time.Now().Add(time.Minute))
	assert.LessOrEqual(t, earlier, later)
}

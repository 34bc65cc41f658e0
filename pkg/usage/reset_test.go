package usage_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Mohnish27-dev/protocol-zero/pkg/usage"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestShouldReset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		windowStart time.Time
		now         time.Time
		want        bool
	}{
		{name: "same month end", windowStart: date(2024, 1, 1), now: date(2024, 1, 31).Add(23*time.Hour + 59*time.Minute), want: false},
		{name: "next month first instant", windowStart: date(2024, 1, 1), now: date(2024, 2, 1), want: true},
		{name: "same instant", windowStart: date(2024, 1, 1), now: date(2024, 1, 1), want: false},
		{name: "year rollover", windowStart: date(2023, 12, 1), now: date(2024, 1, 1), want: true},
		{name: "later month in prior year", windowStart: date(2023, 12, 1), now: date(2024, 11, 1), want: true},
		{name: "several months skipped", windowStart: date(2024, 1, 1), now: date(2024, 6, 15), want: true},
		{name: "clock behind window", windowStart: date(2024, 3, 1), now: date(2024, 2, 20), want: false},
		{name: "zero window", windowStart: time.Time{}, now: date(2024, 2, 20), want: true},
		{
			name:        "compared in utc",
			windowStart: date(2024, 1, 1),
			now:         time.Date(2024, 1, 31, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)),
			want:        true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, usage.ShouldReset(tt.windowStart, tt.now))
		})
	}
}

func TestNextWindowStart(t *testing.T) {
	t.Parallel()

	got := usage.NextWindowStart(time.Date(2024, 2, 29, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, date(2024, 2, 1), got)

	got = usage.NextWindowStart(time.Date(2024, 3, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600)))
	assert.Equal(t, date(2024, 2, 1), got, "local midnight on the 1st is still february in utc")
	assert.Equal(t, time.UTC, got.Location())
}

func TestNewRecord(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 17, 9, 0, 0, 123456789, time.UTC)
	rec := usage.NewRecord(now)

	assert.False(t, rec.IsPro)
	assert.Equal(t, date(2024, 5, 1), rec.WindowStart)
	assert.Equal(t, now.Truncate(time.Millisecond), rec.CreatedAt)
	assert.Len(t, rec.Usage, 3)
	for f, n := range rec.Usage {
		assert.Zero(t, n, "feature %s", f)
	}
}

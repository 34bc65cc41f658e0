package usage

import (
	"maps"
	"time"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

// Counters maps a feature to its non-negative usage count.
type Counters map[limits.Feature]int64

// Clone returns an independent copy.
func (c Counters) Clone() Counters {
	if c == nil {
		return Counters{}
	}
	return maps.Clone(c)
}

// Record is the per-user usage state. Exactly one exists per user id.
type Record struct {
	IsPro       bool      `json:"is_pro"`
	Usage       Counters  `json:"usage"`
	WindowStart time.Time `json:"window_start"` // first instant of the accounting month, UTC
	CreatedAt   time.Time `json:"created_at"`
}

// NewRecord returns the zero state for a user seen for the first time at now:
// free tier, every known counter at zero, window at the start of now's month.
func NewRecord(now time.Time) Record {
	usage := make(Counters, len(limits.KnownFeatures))
	for _, f := range limits.KnownFeatures {
		usage[f] = 0
	}
	return Record{
		IsPro:       false,
		Usage:       usage,
		WindowStart: NextWindowStart(now),
		CreatedAt:   now.UTC().Truncate(time.Millisecond),
	}
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	r.Usage = r.Usage.Clone()
	return r
}

// Tier returns the record's tier.
func (r Record) Tier() limits.Tier {
	return limits.TierOf(r.IsPro)
}

// CheckResult is the outcome of a limit check. A denial is a value, not an error.
type CheckResult struct {
	Allowed bool  `json:"allowed"`
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"` // limits.Unlimited for pro users
	IsPro   bool  `json:"is_pro"`
}

// IncrementResult is the outcome of TryIncrement.
type IncrementResult struct {
	Success bool  `json:"success"`
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

// Summary is a read-only view of a user's usage, ceilings and remaining allowance.
type Summary struct {
	Record    Record                   `json:"record"`
	Limits    map[limits.Feature]int64 `json:"limits"`
	Remaining map[limits.Feature]int64 `json:"remaining"`
	ResetsAt  time.Time                `json:"resets_at"`
}

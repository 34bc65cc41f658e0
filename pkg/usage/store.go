package usage

import (
	"context"
	"time"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
)

// Store persists one Record per user id. It is the only component that talks to durable storage.
// Every backend fault must be reported as an error matching ErrStoreUnavailable.
type Store interface {
	// Load returns the user's record, or nil with no error when the user has none.
	Load(ctx context.Context, userID string) (*Record, error)

	// Create stores rec only if the user has no record yet and returns whatever
	// record is stored afterwards. Concurrent first-time callers converge on one record.
	Create(ctx context.Context, userID string, rec Record) (Record, error)

	// Save upserts the whole record.
	Save(ctx context.Context, userID string, rec Record) error

	// Increment atomically adds one to the feature counter.
	// Returns ErrRecordNotFound if the user has no record.
	Increment(ctx context.Context, userID string, feature limits.Feature) error

	// Decrement atomically subtracts one, never going below zero.
	// A missing record or a zero counter is a no-op.
	Decrement(ctx context.Context, userID string, feature limits.Feature) error

	// SetTier writes the tier flag. Returns ErrRecordNotFound if the user has no record.
	SetTier(ctx context.Context, userID string, isPro bool) error

	// ResetWindow moves the window from `from` to `to` and zeroes the given
	// features, only if the stored window still equals `from`.
	// Reports whether this call applied the reset.
	ResetWindow(ctx context.Context, userID string, from, to time.Time, features []limits.Feature) (bool, error)
}

// ConditionalIncrementer is implemented by stores that can check and increment in one atomic step.
type ConditionalIncrementer interface {
	// IncrementIfBelow adds one only while the counter is below limit.
	// It returns the counter after the call and whether the increment happened.
	IncrementIfBelow(ctx context.Context, userID string, feature limits.Feature, limit int64) (current int64, ok bool, err error)
}

package usage

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mohnish27-dev/protocol-zero/pkg/limits"
	"github.com/Mohnish27-dev/protocol-zero/pkg/logger"
)

// Ledger is the sole authority on whether a user may consume a metered feature
// and the sole writer of usage counters.
//
// It holds no per-user lock: the store serializes numeric deltas, and the check
// in TryIncrement is advisory under concurrency unless WithStrictLimits is set
// and the store supports conditional increments.
type Ledger struct {
	store    Store
	policy   *limits.Policy
	clock    Clock
	logger   *slog.Logger
	observer Observer
	timeout  time.Duration
	strict   bool
}

// NewLedger creates a Ledger backed by store and enforcing policy.
func NewLedger(store Store, policy *limits.Policy, opts ...Option) (*Ledger, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if policy == nil {
		return nil, ErrNilPolicy
	}

	l := &Ledger{
		store:    store,
		policy:   policy,
		clock:    SystemClock{},
		logger:   slog.New(slog.DiscardHandler),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(logger.Component("usage_ledger"))
	return l, nil
}

// GetOrInitialize returns the user's record, creating the zero state if none exists.
func (l *Ledger) GetOrInitialize(ctx context.Context, userID string) (Record, error) {
	if userID == "" {
		return Record{}, ErrEmptyUserID
	}

	rec, err := call(ctx, l, "load", userID, func(ctx context.Context) (*Record, error) {
		return l.store.Load(ctx, userID)
	})
	if err != nil {
		return Record{}, err
	}
	if rec != nil {
		return *rec, nil
	}

	fresh := NewRecord(l.clock.Now())
	stored, err := call(ctx, l, "create", userID, func(ctx context.Context) (Record, error) {
		return l.store.Create(ctx, userID, fresh)
	})
	if err != nil {
		return Record{}, err
	}
	l.logger.DebugContext(ctx, "usage record initialized", logger.UserID(userID))
	return stored, nil
}

// GetCurrent is GetOrInitialize plus the monthly reset: when the window has
// lapsed, every non-durable counter is zeroed and the window moves to the
// current month before the record is returned.
func (l *Ledger) GetCurrent(ctx context.Context, userID string) (Record, error) {
	rec, err := l.GetOrInitialize(ctx, userID)
	if err != nil {
		return Record{}, err
	}

	now := l.clock.Now()
	if !ShouldReset(rec.WindowStart, now) {
		return rec, nil
	}

	next := NextWindowStart(now)
	applied, err := call(ctx, l, "reset_window", userID, func(ctx context.Context) (bool, error) {
		return l.store.ResetWindow(ctx, userID, rec.WindowStart, next, l.policy.ResettableFeatures())
	})
	if err != nil {
		return Record{}, err
	}
	if applied {
		l.observer.ResetObserved()
		l.logger.InfoContext(ctx, "usage window reset",
			logger.UserID(userID),
			slog.Time("from", rec.WindowStart),
			slog.Time("to", next),
		)
	}

	// Reload whether or not this call won the race: another writer may have reset first.
	reloaded, err := call(ctx, l, "load", userID, func(ctx context.Context) (*Record, error) {
		return l.store.Load(ctx, userID)
	})
	if err != nil {
		return Record{}, err
	}
	if reloaded == nil {
		return Record{}, l.fail(ctx, "load", userID, ErrRecordNotFound)
	}
	return *reloaded, nil
}

// CheckLimit reports whether the user may consume one more unit of feature.
func (l *Ledger) CheckLimit(ctx context.Context, userID string, feature limits.Feature) (CheckResult, error) {
	if !feature.Valid() {
		return CheckResult{}, limits.ErrInvalidFeature
	}

	rec, err := l.GetCurrent(ctx, userID)
	if err != nil {
		return CheckResult{}, err
	}

	current := rec.Usage[feature]
	if rec.IsPro {
		l.observer.CheckObserved(feature, limits.TierPro, true)
		return CheckResult{Allowed: true, Current: current, Limit: limits.Unlimited, IsPro: true}, nil
	}

	allowed, limit, err := l.policy.Within(limits.TierFree, feature, current)
	if err != nil {
		return CheckResult{}, err
	}
	l.observer.CheckObserved(feature, limits.TierFree, allowed)
	if !allowed {
		l.logger.DebugContext(ctx, "usage limit reached",
			logger.UserID(userID),
			logger.Feature(string(feature)),
			logger.Tier(string(limits.TierFree)),
			slog.Int64("current", current),
			slog.Int64("limit", limit),
		)
	}
	return CheckResult{Allowed: allowed, Current: current, Limit: limit}, nil
}

// TryIncrement records one unit of feature if the user is within limits.
// A denial leaves the stored record untouched.
func (l *Ledger) TryIncrement(ctx context.Context, userID string, feature limits.Feature) (IncrementResult, error) {
	check, err := l.CheckLimit(ctx, userID, feature)
	if err != nil {
		return IncrementResult{}, err
	}
	if !check.Allowed {
		l.observer.IncrementObserved(feature, false)
		return IncrementResult{Success: false, Current: check.Current, Limit: check.Limit}, nil
	}

	if ci, ok := l.store.(ConditionalIncrementer); ok && l.strict && check.Limit != limits.Unlimited {
		type outcome struct {
			current int64
			ok      bool
		}
		out, err := call(ctx, l, "increment_if_below", userID, func(ctx context.Context) (outcome, error) {
			current, ok, err := ci.IncrementIfBelow(ctx, userID, feature, check.Limit)
			return outcome{current: current, ok: ok}, err
		})
		if err != nil {
			return IncrementResult{}, err
		}
		l.observer.IncrementObserved(feature, out.ok)
		return IncrementResult{Success: out.ok, Current: out.current, Limit: check.Limit}, nil
	}

	if _, err := call(ctx, l, "increment", userID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, l.store.Increment(ctx, userID, feature)
	}); err != nil {
		return IncrementResult{}, err
	}
	l.observer.IncrementObserved(feature, true)
	return IncrementResult{Success: true, Current: check.Current + 1, Limit: check.Limit}, nil
}

// Decrement releases one unit of feature without any limit check.
// Decrementing a zero counter, or a user with no record, is a no-op.
func (l *Ledger) Decrement(ctx context.Context, userID string, feature limits.Feature) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if !feature.Valid() {
		return limits.ErrInvalidFeature
	}
	_, err := call(ctx, l, "decrement", userID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, l.store.Decrement(ctx, userID, feature)
	})
	return err
}

// Release gives back one unit of a durable feature, such as a deleted project.
// Features that are consumed per window cannot be released and yield
// ErrNotReleasable, so a user cannot refund their own monthly allowance.
func (l *Ledger) Release(ctx context.Context, userID string, feature limits.Feature) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if !feature.Valid() {
		return limits.ErrInvalidFeature
	}
	if !l.policy.IsDurable(feature) {
		return ErrNotReleasable
	}
	return l.Decrement(ctx, userID, feature)
}

// SetTier flips the user's tier. Counters and window are left as they are.
func (l *Ledger) SetTier(ctx context.Context, userID string, isPro bool) error {
	if _, err := l.GetOrInitialize(ctx, userID); err != nil {
		return err
	}
	if _, err := call(ctx, l, "set_tier", userID, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, l.store.SetTier(ctx, userID, isPro)
	}); err != nil {
		return err
	}
	l.logger.InfoContext(ctx, "usage tier changed", logger.UserID(userID), logger.Tier(string(limits.TierOf(isPro))))
	return nil
}

// RemainingFor returns, per feature, max(0, limit-current) or limits.Unlimited.
func (l *Ledger) RemainingFor(ctx context.Context, userID string) (map[limits.Feature]int64, error) {
	summary, err := l.Usage(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summary.Remaining, nil
}

// Usage returns the current record together with ceilings and remaining allowance.
func (l *Ledger) Usage(ctx context.Context, userID string) (Summary, error) {
	rec, err := l.GetCurrent(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	tier := rec.Tier()
	features := l.policy.Features()
	summary := Summary{
		Record:    rec,
		Limits:    make(map[limits.Feature]int64, len(features)),
		Remaining: make(map[limits.Feature]int64, len(features)),
		ResetsAt:  windowEnd(rec.WindowStart),
	}
	for _, f := range features {
		if rec.IsPro {
			summary.Limits[f] = limits.Unlimited
			summary.Remaining[f] = limits.Unlimited
			continue
		}
		limit, err := l.policy.Ceiling(tier, f)
		if err != nil {
			return Summary{}, err
		}
		remaining, err := l.policy.Remaining(tier, f, rec.Usage[f])
		if err != nil {
			return Summary{}, err
		}
		summary.Limits[f] = limit
		summary.Remaining[f] = remaining
	}
	return summary, nil
}

// call runs one store operation under the configured timeout and maps every
// failure to ErrStoreUnavailable. Only failures the caller did not cause are
// reported to the observer.
func call[T any](ctx context.Context, l *Ledger, op, userID string, fn func(context.Context) (T, error)) (T, error) {
	parent := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}
	v, err := fn(ctx)
	if err != nil {
		var zero T
		if parent.Err() != nil {
			return zero, l.abandoned(parent, op, userID, err)
		}
		return zero, l.fail(ctx, op, userID, err)
	}
	return v, nil
}

func (l *Ledger) fail(ctx context.Context, op, userID string, err error) error {
	l.observer.StoreFailed(op)
	l.logger.ErrorContext(ctx, "usage store operation failed",
		logger.UserID(userID),
		logger.Operation(op),
		logger.Error(err),
	)
	return unavailable(err)
}

// abandoned reports a call cut short by the caller's own context. The store
// is not at fault, so no failure is counted.
func (l *Ledger) abandoned(ctx context.Context, op, userID string, err error) error {
	l.logger.DebugContext(ctx, "usage store operation abandoned by caller",
		logger.UserID(userID),
		logger.Operation(op),
		logger.Error(err),
	)
	return unavailable(err)
}

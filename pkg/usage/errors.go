package usage

import "errors"

var (
	// ErrStoreUnavailable means the persistence layer is unreachable, misconfigured or timed out.
	// It is always retryable and never means "denied".
	ErrStoreUnavailable = errors.New("usage.errors.store_unavailable")

	// ErrRecordNotFound is returned by adapters when a mutation targets a user without a record.
	ErrRecordNotFound = errors.New("usage.errors.record_not_found")

	// ErrNotReleasable is returned by Ledger.Release for features consumed per window.
	ErrNotReleasable = errors.New("usage.errors.not_releasable")

	// ErrEmptyUserID is a caller contract violation.
	ErrEmptyUserID = errors.New("usage.errors.empty_user_id")

	ErrNilStore  = errors.New("usage.errors.nil_store")
	ErrNilPolicy = errors.New("usage.errors.nil_policy")
)

// unavailable wraps a backend fault so callers can match ErrStoreUnavailable.
func unavailable(err error) error {
	if err == nil || errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	return errors.Join(ErrStoreUnavailable, err)
}

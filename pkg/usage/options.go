package usage

import (
	"log/slog"
	"time"
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source. Nil is ignored.
func WithClock(c Clock) Option {
	return func(l *Ledger) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithStoreTimeout bounds every store call. A call that exceeds it fails with ErrStoreUnavailable.
// Zero disables the bound.
func WithStoreTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d >= 0 {
			l.timeout = d
		}
	}
}

// WithStrictLimits makes TryIncrement use the store's conditional increment
// when the store implements ConditionalIncrementer, so concurrent callers can
// never push a free-tier counter past its ceiling. Without it the check and the
// increment are separate store calls and the limit is soft under concurrency.
func WithStrictLimits() Option {
	return func(l *Ledger) {
		l.strict = true
	}
}

// WithObserver sets the event observer. Nil is ignored.
func WithObserver(o Observer) Option {
	return func(l *Ledger) {
		if o != nil {
			l.observer = o
		}
	}
}

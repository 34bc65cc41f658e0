// Package usage meters per-user feature consumption against monthly free-tier ceilings.
//
// A Ledger sits between request handlers and a Store:
//
//	policy, _ := limits.NewPolicy(ctx, limits.NewInMemSource(limits.DefaultPlans()))
//	ledger, err := usage.NewLedger(usage.NewMemoryStore(), policy,
//	    usage.WithStoreTimeout(3*time.Second),
//	    usage.WithLogger(log),
//	)
//
//	res, err := ledger.TryIncrement(ctx, userID, limits.FeaturePushAnalyses)
//	switch {
//	case errors.Is(err, usage.ErrStoreUnavailable):
//	    // retryable, the action was not consumed
//	case err != nil:
//	    // contract violation (unknown feature, empty user id)
//	case !res.Success:
//	    // limit reached: upgrade or wait for ResetsAt
//	}
//
// # Accounting window
//
// Every record carries one window anchored at the first instant of a calendar
// month in UTC. The first read in a later month zeroes every counter except the
// durable ones (projects by default) and moves the window forward. Durable
// counters track standing resources and change only through TryIncrement and
// Decrement.
//
// # Consistency
//
// Increments and decrements are single atomic deltas in the store, so no update
// is lost. By default the limit check and the increment are two store calls, and
// concurrent callers racing past the check can overrun a ceiling by at most the
// number of racers. WithStrictLimits collapses both into one conditional store
// operation for stores implementing ConditionalIncrementer.
//
// # Stores
//
// MemoryStore, MongoStore, RedisStore and PostgresStore implement Store and
// ConditionalIncrementer. Records written by older clients with a string tier
// are normalized to the boolean form when read.
package usage

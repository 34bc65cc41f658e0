// Package limits defines the free-tier ceilings for metered features.
//
// A Policy is built once from a Source and then shared read-only by every request:
//
//	policy, err := limits.NewPolicy(ctx, limits.NewInMemSource(limits.DefaultPlans()))
//	if err != nil {
//	    return err
//	}
//
//	allowed, limit, err := policy.Within(limits.TierFree, limits.FeaturePushAnalyses, 1)
//
// Plans may also be read from YAML with NewFileSource. Pro plans normally use
// Unlimited for every feature. The projects feature is durable by default: it
// reflects standing resources and is never zeroed by a monthly reset.
package limits

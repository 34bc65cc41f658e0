// Package insight turns repository metric snapshots into cached,
// human-readable insights.
//
// DeriveKey projects a Snapshot onto its high-signal fields and hashes them
// into a short token. Service uses that token to share one generated insight
// between snapshots that agree on those fields:
//
//	svc, err := insight.NewService(insight.RuleGenerator{},
//		insight.WithCache(insight.NewMemoryCache(1024, 10*time.Minute)),
//	)
//	res, err := svc.Insights(ctx, snap)
//	// res.Cached reports whether the insight was reused.
//
// The key is a dedup hint. Two different snapshots can hash to the same key,
// so nothing that needs correctness may compare keys in place of snapshots.
package insight
